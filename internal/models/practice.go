package models

import "time"

// Practice is one completed recall attempt against a session. Rows are
// append-only: a retry creates a new row and "latest" is whichever row has the
// greatest CreatedAt.
type Practice struct {
	ID              int64     `json:"id"`
	SessionID       int64     `json:"session_id"`
	UserID          int64     `json:"user_id"`
	DurationSeconds *int      `json:"duration"`
	Accuracy        *float64  `json:"accuracy"`
	WordsRecalled   *int      `json:"words_recalled"`
	PromptsUsed     *int      `json:"prompts_used"`
	ImprovementTip  *string   `json:"improvement_tip"`
	CreatedAt       time.Time `json:"created_at"`
}
