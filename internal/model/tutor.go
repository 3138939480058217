package model

import "time"

// AssistantResponse is the structured result of one tutoring pipeline run.
// Built fresh per request, never mutated afterwards.
type AssistantResponse struct {
	Bubbles       []string  `json:"bubbles"`
	Encouragement string    `json:"encouragement,omitempty"`
	Evaluation    string    `json:"evaluation"` // correct | partial | incorrect | none
	Segments      []Segment `json:"segments,omitempty"`
	Keywords      []string  `json:"keywords,omitempty"`
	Subject       Subject   `json:"subject"`
	Fallback      bool      `json:"fallback"`
}

// Segment pairs a keyword flagged inside a bubble with its short and
// long explanations, used to render an interactive tooltip.
type Segment struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	ShortTip string `json:"shortTip"`
	Lesson   string `json:"lesson"`
}

// HistoryEntry is the read-side projection of a past exchange used to
// build same-subject continuity context.
type HistoryEntry struct {
	Question  string    `json:"question"`
	Hint      string    `json:"hint"`
	Subject   Subject   `json:"subject"`
	CreatedAt time.Time `json:"createdAt"`
}
