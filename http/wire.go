package http

import "github.com/pinnacledb/qtd"

// queryRequest is the body of POST /documents/query.
type queryRequest struct {
	KnowledgeBase string `json:"knowledgeBase"`
	Question      string `json:"question"`
}

// answerResponse is the success body of POST /documents/query.
type answerResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Error kinds reported by the server in addition to the qtd error codes.
const (
	kindRateLimited = "rate_limited"
)

func toAnswer(resp answerResponse) *qtd.Answer {
	return &qtd.Answer{Text: resp.Answer, Sources: resp.Sources}
}

func fromAnswer(a *qtd.Answer) answerResponse {
	return answerResponse{Answer: a.Text, Sources: a.Sources}
}
