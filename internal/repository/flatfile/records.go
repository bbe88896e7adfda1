package flatfile

import (
	"fmt"
	"strconv"
	"strings"

	"studymate/internal/domain"
)

// Delimiter separates fields within a record. Embedded delimiters are not
// escaped; a title containing one will not read back correctly.
const Delimiter = ","

// RecordCodec converts one entity to and from a single line of text.
// Parse(Format(x)) must return x.
type RecordCodec[T any] interface {
	Format(item T) string
	Parse(line string) (T, error)
}

// CourseCodec writes id,name,instructor,semester,creditHours,description
type CourseCodec struct{}

// Format serializes a course
func (CourseCodec) Format(c domain.Course) string {
	return strings.Join([]string{
		strconv.Itoa(c.ID),
		c.Name,
		c.Instructor,
		c.Semester,
		strconv.Itoa(c.CreditHours),
		c.Description,
	}, Delimiter)
}

// Parse reads a course line. Description is the last field, so any extra
// delimiters are folded back into it.
func (CourseCodec) Parse(line string) (domain.Course, error) {
	fields := strings.Split(line, Delimiter)
	if len(fields) < 6 {
		return domain.Course{}, fmt.Errorf("course record has %d fields, want 6", len(fields))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.Course{}, fmt.Errorf("course id: %w", err)
	}
	credits, err := strconv.Atoi(fields[4])
	if err != nil {
		return domain.Course{}, fmt.Errorf("course credit hours: %w", err)
	}

	return domain.Course{
		ID:          id,
		Name:        fields[1],
		Instructor:  fields[2],
		Semester:    fields[3],
		CreditHours: credits,
		Description: strings.Join(fields[5:], Delimiter),
	}, nil
}

// AssignmentCodec writes id,courseId,title,description,dueDate,priority,status
type AssignmentCodec struct{}

// Format serializes an assignment
func (AssignmentCodec) Format(a domain.Assignment) string {
	return strings.Join([]string{
		strconv.Itoa(a.ID),
		strconv.Itoa(a.CourseID),
		a.Title,
		a.Description,
		a.DueDate.String(),
		strconv.Itoa(a.Priority),
		a.Status,
	}, Delimiter)
}

// Parse reads an assignment line. Exactly seven fields are required.
func (AssignmentCodec) Parse(line string) (domain.Assignment, error) {
	fields := strings.Split(line, Delimiter)
	if len(fields) != 7 {
		return domain.Assignment{}, fmt.Errorf("assignment record has %d fields, want 7", len(fields))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("assignment id: %w", err)
	}
	courseID, err := strconv.Atoi(fields[1])
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("assignment course id: %w", err)
	}
	due, err := domain.ParseOptionalDate(fields[4])
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("assignment due date: %w", err)
	}
	priority, err := strconv.Atoi(fields[5])
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("assignment priority: %w", err)
	}

	return domain.Assignment{
		ID:          id,
		CourseID:    courseID,
		Title:       fields[2],
		Description: fields[3],
		DueDate:     due,
		Priority:    priority,
		Status:      fields[6],
	}, nil
}
