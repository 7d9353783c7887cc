// Package gemini answers questions about a knowledge base with Google Gemini,
// grounded in the documentation snippets stored for it.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pinnacledb/qtd"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Defaults for snippet selection.
const (
	DefaultMaxDocuments    = 8
	DefaultMaxPromptTokens = 24000
)

var _ qtd.QueryClient = (*Asker)(nil)

// Asker implements qtd.QueryClient using Google Gemini.
//
// For each question it ranks the stored snippets of the knowledge base, keeps
// the best ones that fit the prompt budget and asks the model to answer from
// them alone. The answer's sources are the distinct sources of those snippets.
type Asker struct {
	client *genai.Client
	docs   qtd.DocumentService

	Model           string
	MaxDocuments    int
	MaxPromptTokens int

	// Counter limits the prompt to MaxPromptTokens. Optional.
	Counter qtd.TokenCounter
}

// NewAsker creates a new Asker.
func NewAsker(client *genai.Client, docs qtd.DocumentService) *Asker {
	return &Asker{
		client:          client,
		docs:            docs,
		Model:           DefaultModel,
		MaxDocuments:    DefaultMaxDocuments,
		MaxPromptTokens: DefaultMaxPromptTokens,
	}
}

// Ask answers a question about the documentation of req.KnowledgeBase.
func (a *Asker) Ask(ctx context.Context, req qtd.Request) (*qtd.Answer, error) {
	req, err := qtd.NewRequest(req.KnowledgeBase, req.Question)
	if err != nil {
		return nil, err
	}

	docs, err := a.SelectDocuments(ctx, req)
	if err != nil {
		return nil, err
	}

	prompt := BuildUserPrompt(docs, req.Question)
	result, err := a.client.Models.GenerateContent(ctx, a.Model,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(req.KnowledgeBase),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, qtd.Errorf(qtd.ETIMEOUT, "model did not answer in time")
		}
		if ctx.Err() != nil {
			return nil, qtd.Errorf(qtd.ECANCELED, "request canceled")
		}
		return nil, qtd.Errorf(qtd.EBACKEND, "model request failed: %v", err)
	}
	if result == nil {
		return nil, qtd.Errorf(qtd.EBACKEND, "gemini returned nil result")
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, qtd.Errorf(qtd.EBACKEND, "gemini returned an empty answer")
	}

	return &qtd.Answer{Text: text, Sources: Sources(docs)}, nil
}

// SelectDocuments returns the snippets of the knowledge base that best match
// the question, most relevant first. It returns ENOTFOUND when the knowledge
// base has no documents or none of them match.
func (a *Asker) SelectDocuments(ctx context.Context, req qtd.Request) ([]*qtd.Document, error) {
	kb := req.KnowledgeBase
	all, err := a.docs.FindDocuments(ctx, qtd.DocumentFilter{KnowledgeBase: &kb})
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, qtd.Errorf(qtd.ENOTFOUND, "no documents found for %s", kb.Label())
	}

	docs := qtd.RankDocuments(all, req.Question, a.MaxDocuments)
	if len(docs) == 0 {
		return nil, qtd.Errorf(qtd.ENOTFOUND, "nothing in the %s documentation matches the question", kb.Label())
	}

	if a.Counter == nil || a.MaxPromptTokens <= 0 {
		return docs, nil
	}

	// Drop the least relevant snippets until the prompt fits. The best match is
	// always kept.
	for len(docs) > 1 {
		n, err := a.Counter.CountTokens(ctx, BuildUserPrompt(docs, req.Question))
		if err != nil {
			return nil, fmt.Errorf("count prompt tokens: %w", err)
		}
		if n <= a.MaxPromptTokens {
			break
		}
		docs = docs[:len(docs)-1]
	}
	return docs, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig(kb qtd.KnowledgeBase) *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: fmt.Sprintf("You are a helpful assistant answering questions about the %s documentation. "+
					"Use only the documentation snippets provided to answer. "+
					"If the snippets do not contain the answer, say that you don't know instead of guessing.", kb.Label()),
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the snippets and question.
func BuildUserPrompt(docs []*qtd.Document, question string) string {
	var sb strings.Builder
	sb.WriteString("<documentation>\n")
	for i, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.SourceURL
		}
		sb.WriteString("<snippet>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<title>%s</title>\n", title)
		fmt.Fprintf(&sb, "<source>%s</source>\n", doc.SourceURL)
		fmt.Fprintf(&sb, "<content>%s</content>\n", doc.Content)
		sb.WriteString("</snippet>\n")
	}
	sb.WriteString("</documentation>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}

// Sources returns the distinct sources of docs in first-seen order.
func Sources(docs []*qtd.Document) []string {
	seen := make(map[string]struct{}, len(docs))
	var sources []string
	for _, d := range docs {
		if _, ok := seen[d.SourceURL]; ok {
			continue
		}
		seen[d.SourceURL] = struct{}{}
		sources = append(sources, d.SourceURL)
	}
	return sources
}
