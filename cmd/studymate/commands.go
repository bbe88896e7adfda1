package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"studymate/internal/config"
	"studymate/internal/domain"
	"studymate/internal/fsutil"
	"studymate/internal/repository"
	"studymate/internal/service"
)

// env is what a command runs against.
type env struct {
	ctx        context.Context
	cfg        *config.Config
	configPath string
	svc        *service.StudyService
	source     repository.Kind
	stdout     io.Writer
	stderr     io.Writer
	log        zerolog.Logger
}

type command struct {
	summary string
	noState bool
	run     func(e *env, args []string) error
}

var commands = map[string]command{
	"config":         {summary: "print the effective configuration", noState: true, run: cmdConfig},
	"init-config":    {summary: "write a default config file", noState: true, run: cmdInitConfig},
	"courses":        {summary: "list courses", run: cmdCourses},
	"deadlines":      {summary: "list upcoming deadlines", run: cmdDeadlines},
	"completions":    {summary: "count completed assignments per course", run: cmdCompletions},
	"analyze":        {summary: "compute pending credit hours in the background", run: cmdAnalyze},
	"scores":         {summary: "average test score per course", run: cmdScores},
	"habit":          {summary: "weekly progress of a study habit", run: cmdHabit},
	"add-course":     {summary: "add a course", run: cmdAddCourse},
	"add-assignment": {summary: "add an assignment", run: cmdAddAssignment},
	"set-status":     {summary: "change an assignment's status", run: cmdSetStatus},
	"add-note":       {summary: "add a note and save", run: cmdAddNote},
	"add-test":       {summary: "record a test result and save", run: cmdAddTest},
	"add-habit":      {summary: "define a study habit and save", run: cmdAddHabit},
	"log-habit":      {summary: "log time spent on a habit and save", run: cmdLogHabit},
	"save":           {summary: "save state to a backend: save <kind>", run: cmdSave},
	"load":           {summary: "load state from a backend and auto-persist it: load <kind>", run: cmdLoad},
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newFlagSet(e *env, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

// dateValue is a flag.Value for yyyy-MM-dd dates.
type dateValue struct{ d *domain.Date }

func (v dateValue) String() string {
	if v.d == nil || v.d.IsZero() {
		return ""
	}
	return v.d.String()
}

func (v dateValue) Set(s string) error {
	d, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	*v.d = d
	return nil
}

func cmdConfig(e *env, _ []string) error {
	if e.configPath == "" {
		fmt.Fprintln(e.stdout, "Config file: (none, using defaults)")
	} else {
		fmt.Fprintf(e.stdout, "Config file: %s\n", e.configPath)
	}
	fmt.Fprintln(e.stdout, e.cfg.Summary())
	return nil
}

func cmdInitConfig(e *env, args []string) error {
	fs := newFlagSet(e, "init-config")
	path := fs.String("path", config.DefaultConfigPath(), "where to write the config file")
	force := fs.Bool("force", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*force && fsutil.Exists(*path) {
		return fmt.Errorf("%s already exists (use -force to overwrite)", *path)
	}
	if err := config.DefaultConfig().Save(*path); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "wrote %s\n", *path)
	return nil
}

func cmdCourses(e *env, _ []string) error {
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tINSTRUCTOR\tSEMESTER\tCREDITS")
	for _, c := range e.svc.Courses() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", c.ID, c.Name, c.Instructor, c.Semester, c.CreditHours)
	}
	return tw.Flush()
}

func cmdDeadlines(e *env, _ []string) error {
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DUE\tPRIORITY\tID\tCOURSE\tTITLE\tSTATUS")
	for _, a := range e.svc.UpcomingDeadlines() {
		courseName := fmt.Sprintf("#%d", a.CourseID)
		if c, ok := e.svc.CourseByID(a.CourseID); ok {
			courseName = c.Name
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\n", a.DueDate, a.Priority, a.ID, courseName, a.Title, a.Status)
	}
	return tw.Flush()
}

func cmdCompletions(e *env, _ []string) error {
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COURSE\tCOMPLETED")
	for _, cc := range e.svc.CompletionCountsByCourse() {
		label := "(unknown course)"
		if cc.Resolved {
			label = fmt.Sprintf("%d %s", cc.CourseID, cc.Course.Name)
		}
		fmt.Fprintf(tw, "%s\t%d\n", label, cc.Count)
	}
	return tw.Flush()
}

func cmdAnalyze(e *env, _ []string) error {
	analysis := e.svc.StartAnalysis()
	select {
	case <-analysis.Done():
	case <-e.ctx.Done():
		return e.ctx.Err()
	}
	fmt.Fprintf(e.stdout, "Pending workload: %d credit hours\n", analysis.Wait())
	return nil
}

func cmdScores(e *env, _ []string) error {
	averages := e.svc.AverageTestScoreByCourse()
	ids := make([]int, 0, len(averages))
	for id := range averages {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COURSE\tAVERAGE")
	for _, id := range ids {
		fmt.Fprintf(tw, "%d\t%.1f%%\n", id, averages[id]*100)
	}
	return tw.Flush()
}

func cmdHabit(e *env, args []string) error {
	fs := newFlagSet(e, "habit")
	id := fs.Int("id", 0, "habit id")
	var week domain.Date
	fs.Var(dateValue{&week}, "week", "first day of the week (yyyy-MM-dd, default: 6 days ago)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if week.IsZero() {
		week = domain.Today().AddDays(-6)
	}

	progress, err := e.svc.HabitProgress(*id, week)
	if err != nil {
		return err
	}
	status := "behind"
	if progress.Met {
		status = "target met"
	}
	fmt.Fprintf(e.stdout, "%s: %d of %d from %s (%s)\n",
		progress.Habit.Name, progress.Total, progress.Habit.WeeklyTarget, week, status)
	return nil
}

func cmdAddCourse(e *env, args []string) error {
	fs := newFlagSet(e, "add-course")
	var c domain.Course
	fs.IntVar(&c.ID, "id", 0, "course id")
	fs.StringVar(&c.Name, "name", "", "course name")
	fs.StringVar(&c.Instructor, "instructor", "", "instructor")
	fs.StringVar(&c.Semester, "semester", "", "semester")
	fs.IntVar(&c.CreditHours, "credits", 3, "credit hours")
	fs.StringVar(&c.Description, "description", "", "description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := e.svc.AddCourse(e.ctx, c); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "added course %d\n", c.ID)
	return nil
}

func cmdAddAssignment(e *env, args []string) error {
	fs := newFlagSet(e, "add-assignment")
	a := domain.Assignment{Status: domain.StatusPending}
	fs.IntVar(&a.ID, "id", 0, "assignment id")
	fs.IntVar(&a.CourseID, "course", 0, "course id")
	fs.StringVar(&a.Title, "title", "", "title")
	fs.StringVar(&a.Description, "description", "", "description")
	fs.Var(dateValue{&a.DueDate}, "due", "due date (yyyy-MM-dd)")
	fs.IntVar(&a.Priority, "priority", 1, "priority, lower is more urgent")
	fs.StringVar(&a.Status, "status", a.Status, "status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.DueDate.IsZero() {
		return errors.New("add-assignment: -due is required")
	}
	if err := e.svc.AddAssignment(e.ctx, a); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "added assignment %d\n", a.ID)
	return nil
}

func cmdSetStatus(e *env, args []string) error {
	fs := newFlagSet(e, "set-status")
	id := fs.Int("id", 0, "assignment id")
	status := fs.String("status", domain.StatusCompleted, "new status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return e.svc.UpdateAssignmentStatus(e.ctx, *id, *status)
}

// saveUnpersisted writes state after an add that the service does not
// auto-persist. The flat-text backend cannot hold these entities, so the
// document backend is used when state came from there.
func saveUnpersisted(e *env) error {
	kind := e.source
	if kind == repository.KindFlatFile {
		kind = repository.KindDocument
	}
	return e.svc.SaveTo(e.ctx, kind)
}

func cmdAddNote(e *env, args []string) error {
	fs := newFlagSet(e, "add-note")
	n := domain.Note{CreatedOn: domain.Today()}
	fs.IntVar(&n.ID, "id", 0, "note id")
	fs.IntVar(&n.CourseID, "course", 0, "course id")
	fs.StringVar(&n.Title, "title", "", "title")
	fs.StringVar(&n.Content, "content", "", "content")
	if err := fs.Parse(args); err != nil {
		return err
	}
	e.svc.AddNote(n)
	return saveUnpersisted(e)
}

func cmdAddTest(e *env, args []string) error {
	fs := newFlagSet(e, "add-test")
	t := domain.Test{Date: domain.Today()}
	fs.IntVar(&t.ID, "id", 0, "test id")
	fs.IntVar(&t.CourseID, "course", 0, "course id")
	fs.StringVar(&t.Name, "name", "", "test name")
	fs.Var(dateValue{&t.Date}, "date", "test date (yyyy-MM-dd)")
	fs.Float64Var(&t.MaxScore, "max", 100, "maximum score")
	fs.Float64Var(&t.Score, "score", 0, "score achieved")
	if err := fs.Parse(args); err != nil {
		return err
	}
	e.svc.AddTest(t)
	return saveUnpersisted(e)
}

func cmdAddHabit(e *env, args []string) error {
	fs := newFlagSet(e, "add-habit")
	var h domain.StudyHabit
	fs.IntVar(&h.ID, "id", 0, "habit id")
	fs.StringVar(&h.Name, "name", "", "habit name")
	fs.StringVar(&h.Description, "description", "", "description")
	fs.IntVar(&h.WeeklyTarget, "target", 0, "weekly target")
	if err := fs.Parse(args); err != nil {
		return err
	}
	e.svc.AddHabit(h)
	return saveUnpersisted(e)
}

func cmdLogHabit(e *env, args []string) error {
	fs := newFlagSet(e, "log-habit")
	l := domain.HabitLog{Date: domain.Today()}
	fs.IntVar(&l.ID, "id", 0, "log id")
	fs.IntVar(&l.HabitID, "habit", 0, "habit id")
	fs.Var(dateValue{&l.Date}, "date", "date (yyyy-MM-dd)")
	fs.IntVar(&l.Amount, "amount", 0, "amount")
	fs.StringVar(&l.Note, "note", "", "note")
	if err := fs.Parse(args); err != nil {
		return err
	}
	e.svc.AddHabitLog(l)
	return saveUnpersisted(e)
}

func kindArg(name string, args []string) (repository.Kind, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: studymate %s <%s>", name, joinKinds())
	}
	return repository.ParseKind(args[0])
}

func joinKinds() string {
	kinds := repository.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, "|")
}

func cmdSave(e *env, args []string) error {
	kind, err := kindArg("save", args)
	if err != nil {
		return err
	}
	if err := e.svc.SaveTo(e.ctx, kind); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "saved to %s\n", kind)
	return nil
}

// cmdLoad restores state from a backend and writes it to the auto-persist
// backends, so the next run starts from it.
func cmdLoad(e *env, args []string) error {
	kind, err := kindArg("load", args)
	if err != nil {
		return err
	}
	if err := e.svc.LoadFrom(e.ctx, kind); err != nil {
		return err
	}
	for _, target := range []repository.Kind{repository.KindFlatFile, repository.KindDocument} {
		if target == kind {
			continue
		}
		if err := e.svc.SaveTo(e.ctx, target); err != nil {
			return err
		}
	}
	snap := e.svc.Snapshot()
	fmt.Fprintf(e.stdout, "loaded %d courses and %d assignments from %s\n",
		len(snap.Courses), len(snap.Assignments), kind)
	return nil
}
