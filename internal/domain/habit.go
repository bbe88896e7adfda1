package domain

// StudyHabit is a recurring activity with a weekly target amount
type StudyHabit struct {
	ID           int    `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	WeeklyTarget int    `json:"weeklyTarget" yaml:"weeklyTarget"`
}

// HabitLog records progress on a habit for a single day
type HabitLog struct {
	ID      int    `json:"id" yaml:"id"`
	HabitID int    `json:"habitId" yaml:"habitId"`
	Date    Date   `json:"date" yaml:"date"`
	Amount  int    `json:"amount" yaml:"amount"`
	Note    string `json:"note" yaml:"note"`
}
