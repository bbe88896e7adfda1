package domain

// Note is free-form text attached to a course
type Note struct {
	ID        int    `json:"id" yaml:"id"`
	CourseID  int    `json:"courseId" yaml:"courseId"`
	Title     string `json:"title" yaml:"title"`
	Content   string `json:"content" yaml:"content"`
	CreatedOn Date   `json:"createdOn" yaml:"createdOn"`
}
