package domain

// Test is a graded exam or quiz for a course
type Test struct {
	ID       int     `json:"id" yaml:"id"`
	CourseID int     `json:"courseId" yaml:"courseId"`
	Name     string  `json:"name" yaml:"name"`
	Date     Date    `json:"date" yaml:"date"`
	MaxScore float64 `json:"maxScore" yaml:"maxScore"`
	Score    float64 `json:"score" yaml:"score"`
}

// Ratio returns Score/MaxScore, or 0 when MaxScore is not positive
func (t Test) Ratio() float64 {
	if t.MaxScore <= 0 {
		return 0
	}
	return t.Score / t.MaxScore
}
