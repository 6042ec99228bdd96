package models

import "time"

// ProgressSummary holds the lightweight dashboard numbers.
type ProgressSummary struct {
	Streak           int        `json:"streak"`
	RecentScore      *float64   `json:"recentScore"`
	TodayWords       int        `json:"todayWords"`
	LastPracticeDate *time.Time `json:"lastPracticeDate"`
}

// StreakInfo is the streak-only variant of the summary.
type StreakInfo struct {
	Streak           int        `json:"streak"`
	LastPracticeDate *time.Time `json:"lastPracticeDate"`
}

// TrendDay is one day of the 7-day accuracy trend.
type TrendDay struct {
	Day      string  `json:"day"`
	Date     string  `json:"date"`
	Accuracy float64 `json:"accuracy"`
}

type AccuracyTrend struct {
	Days    []TrendDay `json:"days"`
	BestDay *TrendDay  `json:"bestDay"`
}

// HeatmapSlot is one time-of-day cell of the activity heatmap. Activity is the
// raw score (practice count + minutes practiced); ActivityLevel is the score
// normalized to 0-100 against the busiest cell of the week.
type HeatmapSlot struct {
	TimeSlot      string  `json:"timeSlot"`
	Activity      float64 `json:"activity"`
	PracticeCount int     `json:"practiceCount"`
	ActivityLevel int     `json:"activityLevel"`
}

type HeatmapDay struct {
	Day   string        `json:"day"`
	Date  string        `json:"date"`
	Slots []HeatmapSlot `json:"slots"`
}

// ProgressTracker is the full dashboard payload.
type ProgressTracker struct {
	Streak             int           `json:"streak"`
	RecentScore        *float64      `json:"recentScore"`
	TodayWords         int           `json:"todayWords"`
	AvgPractice        float64       `json:"avgPractice"`
	RecallBeforePrompt float64       `json:"recallBeforePrompt"`
	AccuracyTrend      AccuracyTrend `json:"accuracyTrend"`
	ActivityHeatmap    []HeatmapDay  `json:"activityHeatmap"`
}

// ProgressSnapshot is a cached tracker computed by the background refresh job.
type ProgressSnapshot struct {
	UserID     int64           `json:"user_id"`
	Tracker    ProgressTracker `json:"tracker"`
	ComputedAt time.Time       `json:"computed_at"`
}
