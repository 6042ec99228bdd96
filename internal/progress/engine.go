// Package progress derives dashboard metrics from a user's practice history.
// Every function is a pure computation over an already-fetched record list and
// a caller-supplied clock; nothing here touches storage.
package progress

import (
	"math"
	"time"

	"github.com/lucasmn/memorly/internal/models"
)

const (
	// Backward walk safety cap for streak counting.
	maxStreakLookback = 365

	// Window length for the trend and heatmap views.
	trendDays = 7

	dayKeyFormat = "2006-01-02"
)

var weekdayLabels = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func dayKey(t time.Time) string {
	return t.Format(dayKeyFormat)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Streak counts consecutive calendar days with at least one practice, ending
// today or yesterday. A streak is still alive when the user practiced
// yesterday but not yet today. Also returns the most recent practice time,
// nil when the history is empty.
func Streak(practices []models.Practice, now time.Time) (int, *time.Time) {
	if len(practices) == 0 {
		return 0, nil
	}

	days := make(map[string]struct{}, len(practices))
	var latest time.Time
	for _, p := range practices {
		days[dayKey(p.CreatedAt)] = struct{}{}
		if p.CreatedAt.After(latest) {
			latest = p.CreatedAt
		}
	}

	today := midnight(now)
	streak := 0
	switch {
	case hasDay(days, today):
		streak = 1 + walkBack(days, today.AddDate(0, 0, -1))
	case hasDay(days, today.AddDate(0, 0, -1)):
		streak = 1 + walkBack(days, today.AddDate(0, 0, -2))
	}
	return streak, &latest
}

func hasDay(days map[string]struct{}, day time.Time) bool {
	_, ok := days[dayKey(day)]
	return ok
}

// walkBack counts consecutive present days going backwards from day, stopping
// at the first gap or after maxStreakLookback iterations.
func walkBack(days map[string]struct{}, day time.Time) int {
	n := 0
	for i := 0; i < maxStreakLookback; i++ {
		if !hasDay(days, day) {
			break
		}
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

// TodayWords sums words recalled across practices created today.
func TodayWords(practices []models.Practice, now time.Time) int {
	start := midnight(now)
	end := start.AddDate(0, 0, 1)

	total := 0
	for _, p := range practices {
		if p.CreatedAt.Before(start) || !p.CreatedAt.Before(end) {
			continue
		}
		if p.WordsRecalled != nil {
			total += *p.WordsRecalled
		}
	}
	return total
}

// RecentScore returns the accuracy of the most recently created practice, nil
// when there is no history or the latest practice carries no accuracy.
func RecentScore(practices []models.Practice) *float64 {
	var latest *models.Practice
	for i := range practices {
		if latest == nil || practices[i].CreatedAt.After(latest.CreatedAt) {
			latest = &practices[i]
		}
	}
	if latest == nil || latest.Accuracy == nil {
		return nil
	}
	score := *latest.Accuracy
	return &score
}

// Averages returns minutes practiced per distinct practice day and words
// recalled per prompt used, both rounded to one decimal. When no prompts were
// ever used, recall falls back to the raw words-recalled sum so prompt-free
// users are not scored as zero.
func Averages(practices []models.Practice) (avgPracticeMinutes, recallBeforePrompt float64) {
	days := make(map[string]struct{}, len(practices))
	var totalSeconds, totalWords, totalPrompts int
	for _, p := range practices {
		days[dayKey(p.CreatedAt)] = struct{}{}
		if p.DurationSeconds != nil {
			totalSeconds += *p.DurationSeconds
		}
		if p.WordsRecalled != nil {
			totalWords += *p.WordsRecalled
		}
		if p.PromptsUsed != nil {
			totalPrompts += *p.PromptsUsed
		}
	}

	if len(days) > 0 {
		avgPracticeMinutes = round1(float64(totalSeconds) / 60 / float64(len(days)))
	}
	switch {
	case totalPrompts > 0:
		recallBeforePrompt = round1(float64(totalWords) / float64(totalPrompts))
	case totalWords > 0:
		recallBeforePrompt = float64(totalWords)
	}
	return avgPracticeMinutes, recallBeforePrompt
}

// AccuracyTrend returns the mean accuracy for each of the last seven calendar
// days, oldest first. Days without a scored practice report 0.
func AccuracyTrend(practices []models.Practice, now time.Time) models.AccuracyTrend {
	today := midnight(now)

	byDay := make(map[string][]float64)
	for _, p := range practices {
		if p.Accuracy == nil {
			continue
		}
		k := dayKey(p.CreatedAt)
		byDay[k] = append(byDay[k], *p.Accuracy)
	}

	days := make([]models.TrendDay, 0, trendDays)
	for i := trendDays - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		key := dayKey(date)

		accuracy := 0.0
		if vals := byDay[key]; len(vals) > 0 {
			var sum float64
			for _, v := range vals {
				sum += v
			}
			accuracy = round1(sum / float64(len(vals)))
		}

		days = append(days, models.TrendDay{
			Day:      weekdayLabels[int(date.Weekday())],
			Date:     key,
			Accuracy: accuracy,
		})
	}

	// A day only becomes the best day by strictly beating the running best,
	// so an all-zero week has no best day.
	var best *models.TrendDay
	for i := range days {
		running := 0.0
		if best != nil {
			running = best.Accuracy
		}
		if days[i].Accuracy > running {
			best = &days[i]
		}
	}

	trend := models.AccuracyTrend{Days: days}
	if best != nil {
		b := *best
		trend.BestDay = &b
	}
	return trend
}

type slotDef struct {
	name  string
	start int
	end   int
}

var timeSlots = [...]slotDef{
	{name: "Morning", start: 6, end: 11},
	{name: "Afternoon", start: 12, end: 17},
	{name: "Evening", start: 18, end: 21},
	{name: "Night", start: 22, end: 5},
}

func inSlot(slot slotDef, hour int) bool {
	if slot.start > slot.end {
		// Night wraps midnight but stays attributed to the record's own date.
		return hour >= slot.start || hour <= slot.end
	}
	return hour >= slot.start && hour <= slot.end
}

// ActivityHeatmap buckets the last seven days of practice into four
// time-of-day slots. A cell's raw activity is its practice count plus minutes
// practiced; levels are normalized 0-100 against the busiest cell.
func ActivityHeatmap(practices []models.Practice, now time.Time) []models.HeatmapDay {
	today := midnight(now)

	heatmap := make([]models.HeatmapDay, 0, trendDays)
	for offset := trendDays - 1; offset >= 0; offset-- {
		date := today.AddDate(0, 0, -offset)
		key := dayKey(date)

		slots := make([]models.HeatmapSlot, 0, len(timeSlots))
		for _, slot := range timeSlots {
			count := 0
			totalSeconds := 0
			for _, p := range practices {
				if dayKey(p.CreatedAt) != key || !inSlot(slot, p.CreatedAt.Hour()) {
					continue
				}
				count++
				if p.DurationSeconds != nil {
					totalSeconds += *p.DurationSeconds
				}
			}
			slots = append(slots, models.HeatmapSlot{
				TimeSlot:      slot.name,
				Activity:      float64(count) + float64(totalSeconds)/60,
				PracticeCount: count,
			})
		}

		heatmap = append(heatmap, models.HeatmapDay{
			Day:   weekdayLabels[int(date.Weekday())],
			Date:  key,
			Slots: slots,
		})
	}

	maxActivity := 0.0
	for _, day := range heatmap {
		for _, slot := range day.Slots {
			if slot.Activity > maxActivity {
				maxActivity = slot.Activity
			}
		}
	}
	if maxActivity == 0 {
		// All-zero grid: every level stays 0, avoid dividing by zero.
		maxActivity = 1
	}
	for di := range heatmap {
		for si := range heatmap[di].Slots {
			slot := &heatmap[di].Slots[si]
			slot.ActivityLevel = int(math.Round(slot.Activity / maxActivity * 100))
		}
	}
	return heatmap
}

// Summary assembles the lightweight dashboard numbers.
func Summary(practices []models.Practice, now time.Time) models.ProgressSummary {
	streak, last := Streak(practices, now)
	return models.ProgressSummary{
		Streak:           streak,
		RecentScore:      RecentScore(practices),
		TodayWords:       TodayWords(practices, now),
		LastPracticeDate: last,
	}
}

// Tracker assembles the full dashboard payload.
func Tracker(practices []models.Practice, now time.Time) models.ProgressTracker {
	streak, _ := Streak(practices, now)
	avgPractice, recall := Averages(practices)
	return models.ProgressTracker{
		Streak:             streak,
		RecentScore:        RecentScore(practices),
		TodayWords:         TodayWords(practices, now),
		AvgPractice:        avgPractice,
		RecallBeforePrompt: recall,
		AccuracyTrend:      AccuracyTrend(practices, now),
		ActivityHeatmap:    ActivityHeatmap(practices, now),
	}
}
