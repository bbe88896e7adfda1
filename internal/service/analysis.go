package service

import (
	"time"

	"studymate/internal/domain"
)

// Analysis is the handle of a background workload computation.
type Analysis struct {
	done   chan struct{}
	result int64
}

// Wait blocks until the computation finishes and returns its result.
func (a *Analysis) Wait() int64 {
	<-a.done
	return a.result
}

// Done is closed once the result is available.
func (a *Analysis) Done() <-chan struct{} {
	return a.done
}

// StartAnalysis computes the pending workload on a separate goroutine. The
// computation sees the state as it was when StartAnalysis was called.
func (s *StudyService) StartAnalysis() *Analysis {
	s.mu.RLock()
	courses := s.state.CourseIndex()
	assignments := append([]domain.Assignment{}, s.state.Assignments...)
	s.mu.RUnlock()

	a := &Analysis{done: make(chan struct{})}
	log := s.log
	go func() {
		defer close(a.done)
		start := time.Now()
		a.result = PendingCreditHours(courses, assignments)
		log.Debug().
			Int64("pending_credit_hours", a.result).
			Dur("elapsed", time.Since(start)).
			Msg("analysis finished")
	}()
	return a
}

// PendingCreditHours sums, over assignments that are not completed, the
// credit hours of the referenced course. Unknown courses contribute zero.
func PendingCreditHours(courses map[int]domain.Course, assignments []domain.Assignment) int64 {
	var total int64
	for _, a := range assignments {
		if a.IsCompleted() {
			continue
		}
		if c, ok := courses[a.CourseID]; ok {
			total += int64(c.CreditHours)
		}
	}
	return total
}
