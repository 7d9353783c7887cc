package qtd

import (
	"context"
	"strings"
)

// Request is a single question against a knowledge base. It is only built by
// NewRequest and never mutated afterwards.
type Request struct {
	KnowledgeBase KnowledgeBase `json:"knowledgeBase"`
	Question      string        `json:"question"`
}

// NewRequest validates its inputs and returns a Request with the question
// trimmed. Returns EINVALID when kb is unset or unknown, or when the question is
// empty after trimming whitespace.
func NewRequest(kb KnowledgeBase, question string) (Request, error) {
	if kb == "" {
		return Request{}, Errorf(EINVALID, "knowledge base required")
	}
	if !kb.Valid() {
		return Request{}, Errorf(EINVALID, "unknown knowledge base %q", kb)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return Request{}, Errorf(EINVALID, "question required")
	}
	return Request{KnowledgeBase: kb, Question: question}, nil
}

// Answer is the backend's response to a Request.
type Answer struct {
	Text    string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// QueryClient answers questions about a knowledge base.
type QueryClient interface {
	// Ask issues one request and waits for the answer. It does not retry.
	// Failures are reported as ETRANSPORT, EBACKEND, ETIMEOUT or ECANCELED.
	Ask(ctx context.Context, req Request) (*Answer, error)
}
