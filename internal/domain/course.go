package domain

import "fmt"

// Course is a unit of study that assignments, notes and tests belong to
type Course struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Instructor  string `json:"instructor" yaml:"instructor"`
	Semester    string `json:"semester" yaml:"semester"`
	CreditHours int    `json:"creditHours" yaml:"creditHours"`
	Description string `json:"description" yaml:"description"`
}

// String returns a short human-readable label
func (c Course) String() string {
	return fmt.Sprintf("%d - %s (%s)", c.ID, c.Name, c.Semester)
}
