package domain

// Snapshot aggregates every collection the application persists. It is the
// unit exchanged with every repository backend.
type Snapshot struct {
	Courses     []Course     `json:"courses" yaml:"courses"`
	Assignments []Assignment `json:"assignments" yaml:"assignments"`
	Notes       []Note       `json:"notes" yaml:"notes"`
	Tests       []Test       `json:"tests" yaml:"tests"`
	Habits      []StudyHabit `json:"habits" yaml:"habits"`
	HabitLogs   []HabitLog   `json:"habitLogs" yaml:"habitLogs"`
}

// NewSnapshot creates an empty snapshot with all collections initialized
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Courses:     []Course{},
		Assignments: []Assignment{},
		Notes:       []Note{},
		Tests:       []Test{},
		Habits:      []StudyHabit{},
		HabitLogs:   []HabitLog{},
	}
}

// Normalize replaces nil collections with empty ones, so an absent section
// in a stored document reads back as empty rather than nil
func (s *Snapshot) Normalize() *Snapshot {
	if s.Courses == nil {
		s.Courses = []Course{}
	}
	if s.Assignments == nil {
		s.Assignments = []Assignment{}
	}
	if s.Notes == nil {
		s.Notes = []Note{}
	}
	if s.Tests == nil {
		s.Tests = []Test{}
	}
	if s.Habits == nil {
		s.Habits = []StudyHabit{}
	}
	if s.HabitLogs == nil {
		s.HabitLogs = []HabitLog{}
	}
	return s
}

// Clone returns a deep copy. Entities are plain values, so copying the
// slices is enough.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return NewSnapshot()
	}
	return &Snapshot{
		Courses:     append([]Course{}, s.Courses...),
		Assignments: append([]Assignment{}, s.Assignments...),
		Notes:       append([]Note{}, s.Notes...),
		Tests:       append([]Test{}, s.Tests...),
		Habits:      append([]StudyHabit{}, s.Habits...),
		HabitLogs:   append([]HabitLog{}, s.HabitLogs...),
	}
}

// CheckDates reports the first entity whose date is not a real calendar day.
// The zero Date is accepted.
func (s *Snapshot) CheckDates(op string) error {
	for _, a := range s.Assignments {
		if !a.DueDate.Valid() {
			return InvalidArgument(op, "assignment", a.ID, errDate(a.DueDate))
		}
	}
	for _, n := range s.Notes {
		if !n.CreatedOn.Valid() {
			return InvalidArgument(op, "note", n.ID, errDate(n.CreatedOn))
		}
	}
	for _, t := range s.Tests {
		if !t.Date.Valid() {
			return InvalidArgument(op, "test", t.ID, errDate(t.Date))
		}
	}
	for _, l := range s.HabitLogs {
		if !l.Date.Valid() {
			return InvalidArgument(op, "habit log", l.ID, errDate(l.Date))
		}
	}
	return nil
}

func errDate(d Date) error {
	_, err := d.MarshalText()
	return err
}

// IsEmpty reports whether every collection is empty
func (s *Snapshot) IsEmpty() bool {
	return len(s.Courses) == 0 && len(s.Assignments) == 0 && len(s.Notes) == 0 &&
		len(s.Tests) == 0 && len(s.Habits) == 0 && len(s.HabitLogs) == 0
}

// CourseIndex builds a lookup of courses by id. Later duplicates win.
func (s *Snapshot) CourseIndex() map[int]Course {
	index := make(map[int]Course, len(s.Courses))
	for _, c := range s.Courses {
		index[c.ID] = c
	}
	return index
}
