// Package domain holds the moderation wire types and ports
package domain

import "time"

// Method records which path produced a revised sentence
type Method string

const (
	// MethodRewrite means the generation service produced the text
	MethodRewrite Method = "rewrite"
	// MethodMask means matched terms were replaced with the placeholder
	MethodMask Method = "mask"
)

// ModerateInput is the body of a moderation request
type ModerateInput struct {
	Text string `json:"text" validate:"required" example:"You are stupid. Have a nice day."`
}

// ChangeRecord describes one flagged sentence and its replacement
type ChangeRecord struct {
	LineNumber          int      `json:"lineNumber"          example:"1"`
	Original            string   `json:"original"            example:"You are stupid."`
	OriginalHighlighted string   `json:"originalHighlighted" example:"You are <mark>stupid</mark>."`
	Revised             string   `json:"revised"             example:"You are [MODERATED]."`
	Terms               []string `json:"terms"`
	Method              Method   `json:"method"              example:"mask"`
}

// ModerateResponse is returned by the moderate endpoint
type ModerateResponse struct {
	Changes []ChangeRecord `json:"changes"`
}

// StatusResponse reports generator reachability and denylist size
type StatusResponse struct {
	Available   bool `json:"available"    example:"false"`
	TermsLoaded int  `json:"terms_loaded" example:"42"`
}

// TimestampLayout is RFC 3339 in UTC with millisecond precision
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Report is the persisted record of one moderation run
// it is never modified after the pipeline builds it
type Report struct {
	ID        string         `json:"id"        example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	Original  string         `json:"original"`
	Changes   []ChangeRecord `json:"changes"`
	Timestamp string         `json:"timestamp" example:"2024-05-01T10:00:00.000Z"`

	// At is Timestamp as a time, not serialized
	At time.Time `json:"-"`
}

// FormatTimestamp renders t the way Report.Timestamp expects
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
