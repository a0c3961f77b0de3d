package tool

import (
	"context"

	"google.golang.org/genai"
)

// Tool represents a provider of one or more functions callable by the LLM
type Tool interface {
	// Spec returns the tool specification for Gemini function calling.
	// Returns nil if the provider has no functions to offer.
	Spec() *genai.Tool

	// Execute runs the named function with the given function call and
	// returns the response
	Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error)

	// Prompt returns additional information to be added to the system prompt.
	// Returns empty string if no additional prompt is needed.
	Prompt(ctx context.Context) string
}
