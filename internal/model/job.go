package model

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
)

// Job is one posting returned by the search provider. Every field holds the
// upstream JSON value verbatim, whatever its type.
type Job struct {
	Title          Value
	Description    Value
	RequiredSkills Value
	City           Value
	State          Value
	Country        Value
	Latitude       Value
	Longitude      Value
	MinSalary      Value
	MaxSalary      Value
	Link           Value // job_google_link
}

// Value is a single upstream JSON value kept as raw bytes.
type Value struct {
	raw json.RawMessage
}

// RawValue wraps raw JSON. Empty input is treated as null.
func RawValue(raw json.RawMessage) Value {
	return Value{raw: bytes.TrimSpace(raw)}
}

// StringValue wraps s as a JSON string.
func StringValue(s string) Value {
	b, _ := json.Marshal(s)
	return Value{raw: b}
}

// UnmarshalJSON keeps data as is.
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = RawValue(append(json.RawMessage(nil), data...))
	return nil
}

// IsNull reports whether upstream sent null.
func (v Value) IsNull() bool {
	return len(v.raw) == 0 || string(v.raw) == "null"
}

// Raw returns the JSON text as received.
func (v Value) Raw() json.RawMessage {
	return v.raw
}

// Text renders the value for prompts. Strings are unquoted, arrays are
// comma-joined element by element, and anything else is its compact JSON
// text. ok is false for null.
func (v Value) Text() (text string, ok bool) {
	if v.IsNull() {
		return "", false
	}
	switch v.raw[0] {
	case '"':
		var str string
		if err := json.Unmarshal(v.raw, &str); err == nil {
			return str, true
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(v.raw, &items); err == nil {
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i], _ = RawValue(item).Text()
			}
			return strings.Join(parts, ", "), true
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v.raw); err != nil {
		return string(v.raw), true
	}
	return buf.String(), true
}

// String renders v with null as the empty string.
func (v Value) String() string {
	text, _ := v.Text()
	return text
}

// SearchParams is the fixed query sent to the search provider.
type SearchParams struct {
	Query      string
	Page       int
	DatePosted string // all, today, 3days, week, month
}

// JobSearcher queries a search provider for one page of postings.
type JobSearcher interface {
	SearchJobs(ctx context.Context, params SearchParams) ([]Job, error)
}

// Analysis is the outcome of one completion call. Text is always populated:
// on failure it carries the error message, matching what the run prints.
// Err keeps the failure distinguishable from a real model answer.
type Analysis struct {
	Topic    string
	JobCount int
	Prompt   string
	Text     string
	Fallback bool  // model returned no choices
	Err      error // non-nil when Text is an error message
}

// Notifier delivers a finished analysis.
type Notifier interface {
	Notify(ctx context.Context, analysis Analysis) error
}
