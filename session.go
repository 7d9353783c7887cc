package qtd

import (
	"fmt"
	"strings"
)

// State is the request state of a query session. Exactly one holds at any time.
type State int

// State constants.
const (
	StateIdle State = iota
	StatePending
	StateSucceeded
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is a snapshot of the controller's query session.
//
// Answer is non-nil only when State is StateSucceeded and Err is non-nil only
// when State is StateFailed.
type Session struct {
	KnowledgeBase KnowledgeBase
	Question      string
	State         State
	Answer        *Answer
	Err           *Error

	// Seq is the sequence number of the most recently issued submission.
	Seq uint64
}

// HasSelection reports whether a knowledge base has been selected.
func (s Session) HasSelection() bool {
	return s.KnowledgeBase != ""
}

// FormatSession renders the answer region of a session as plain text.
// Idle sessions render as an empty string.
func FormatSession(s Session) string {
	switch s.State {
	case StatePending:
		return "Thinking..."
	case StateSucceeded:
		if s.Answer == nil {
			return ""
		}
		return FormatAnswer(s.Answer)
	case StateFailed:
		if s.Err == nil {
			return "error: request failed"
		}
		if s.Err.Retryable() {
			return "error: " + s.Err.Message + " (try again)"
		}
		return "error: " + s.Err.Message
	default:
		return ""
	}
}

// FormatAnswer renders answer text followed by a numbered list of sources.
func FormatAnswer(a *Answer) string {
	if len(a.Sources) == 0 {
		return a.Text
	}

	var sb strings.Builder
	sb.WriteString(a.Text)
	sb.WriteString("\n\nSources:")
	for i, src := range a.Sources {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, src)
	}
	return sb.String()
}
