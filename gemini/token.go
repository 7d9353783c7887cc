package gemini

import (
	"context"

	"github.com/pinnacledb/qtd"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ qtd.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens locally with the Gemini tokenizer, without an API
// round trip.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for the given model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in text.
func (tc *TokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, "user")}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}
