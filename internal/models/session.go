package models

import "time"

// Input methods for session content.
const (
	InputMethodTypePaste = "TYPE_PASTE"
	InputMethodUpload    = "UPLOAD"
)

type Session struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Purpose     string    `json:"purpose,omitempty"`
	InputMethod string    `json:"input_method"`
	WordCount   int       `json:"word_count"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SessionFilter struct {
	UserID int64
	Search string
	SortBy string
	Limit  int
	Offset int
}

// SessionListItem is a session decorated with its latest practice for list views.
// Content holds a preview only, not the full text.
type SessionListItem struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Purpose        string     `json:"purpose,omitempty"`
	InputMethod    string     `json:"input_method"`
	WordCount      int        `json:"word_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastPractice   *time.Time `json:"last_practice"`
	Accuracy       *float64   `json:"accuracy"`
	Duration       *int       `json:"duration"`
	WordsRecalled  *int       `json:"words_recalled"`
	PromptsUsed    *int       `json:"prompts_used"`
	PracticesCount int        `json:"practices_count"`
}

// SessionDetail is a single session with its latest practice attached.
type SessionDetail struct {
	Session
	LastPractice   *time.Time `json:"last_practice"`
	Accuracy       *float64   `json:"accuracy"`
	Duration       *int       `json:"duration"`
	WordsRecalled  *int       `json:"words_recalled"`
	PromptsUsed    *int       `json:"prompts_used"`
	ImprovementTip *string    `json:"improvement_tip"`
	PracticesCount int        `json:"practices_count"`
	TodayWords     int        `json:"today_words"`
}
