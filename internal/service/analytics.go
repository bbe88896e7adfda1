package service

import (
	"slices"

	"studymate/internal/domain"
)

// CourseCount is the number of completed assignments attributed to one
// course. Resolved is false for the bucket collecting assignments whose
// course id is not known; that bucket has a zero Course and CourseID.
type CourseCount struct {
	Course   domain.Course
	CourseID int
	Resolved bool
	Count    int
}

// HabitWeek summarises a habit's logged amount over one week.
type HabitWeek struct {
	Habit     domain.StudyHabit
	WeekStart domain.Date
	Total     int
	Met       bool
}

// UpcomingDeadlines returns assignments that are not completed and are due
// today or later, ordered by due date, then priority, then id.
func (s *StudyService) UpcomingDeadlines() []domain.Assignment {
	today := domain.DateOf(s.clock())

	s.mu.RLock()
	upcoming := make([]domain.Assignment, 0, len(s.state.Assignments))
	for _, a := range s.state.Assignments {
		if a.IsCompleted() || a.DueDate.Before(today) {
			continue
		}
		upcoming = append(upcoming, a)
	}
	s.mu.RUnlock()

	slices.SortFunc(upcoming, domain.CompareDeadline)
	return upcoming
}

// CompletionCountsByCourse counts completed assignments per course. Only
// courses with at least one completed assignment appear. Results are ordered
// by course id with the unresolved bucket last.
func (s *StudyService) CompletionCountsByCourse() []CourseCount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCourse := make(map[int]*CourseCount)
	var unresolved *CourseCount
	for _, a := range s.state.Assignments {
		if !a.IsCompleted() {
			continue
		}
		i, ok := s.courseIndex[a.CourseID]
		if !ok {
			if unresolved == nil {
				unresolved = &CourseCount{}
			}
			unresolved.Count++
			continue
		}
		cc, ok := byCourse[a.CourseID]
		if !ok {
			cc = &CourseCount{Course: s.state.Courses[i], CourseID: a.CourseID, Resolved: true}
			byCourse[a.CourseID] = cc
		}
		cc.Count++
	}

	counts := make([]CourseCount, 0, len(byCourse)+1)
	for _, cc := range byCourse {
		counts = append(counts, *cc)
	}
	slices.SortFunc(counts, func(a, b CourseCount) int { return a.CourseID - b.CourseID })
	if unresolved != nil {
		counts = append(counts, *unresolved)
	}
	return counts
}

// AverageTestScoreByCourse returns the mean score ratio of the tests
// recorded against each course id.
func (s *StudyService) AverageTestScoreByCourse() map[int]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, t := range s.state.Tests {
		sums[t.CourseID] += t.Ratio()
		counts[t.CourseID]++
	}
	for id, n := range counts {
		sums[id] /= float64(n)
	}
	return sums
}

// HabitProgress totals the log amounts of a habit over the seven days
// starting at weekStart.
func (s *StudyService) HabitProgress(habitID int, weekStart domain.Date) (HabitWeek, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := slices.IndexFunc(s.state.Habits, func(h domain.StudyHabit) bool { return h.ID == habitID })
	if idx < 0 {
		return HabitWeek{}, domain.NotFound("HabitProgress", "habit", habitID)
	}

	week := HabitWeek{Habit: s.state.Habits[idx], WeekStart: weekStart}
	end := weekStart.AddDays(7)
	for _, l := range s.state.HabitLogs {
		if l.HabitID != habitID || l.Date.Before(weekStart) || !l.Date.Before(end) {
			continue
		}
		week.Total += l.Amount
	}
	week.Met = week.Total >= week.Habit.WeeklyTarget
	return week, nil
}
