package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memora-dev/memora/pkg/adapter"
	"github.com/memora-dev/memora/pkg/model"
	"github.com/memora-dev/memora/pkg/tool"
	"github.com/memora-dev/memora/pkg/utils/logging"
	"google.golang.org/genai"
)

// DefaultMaxRounds bounds the model-call/tool-dispatch loop. Without a
// bound the model could keep requesting tools indefinitely.
const DefaultMaxRounds = 16

var ErrMaxRoundsExceeded = goerr.New("max tool call rounds exceeded")

// Runner drives the tool-use loop for one turn: the model emits text
// and/or function calls; calls are dispatched through the registry and
// their results fed back until the model produces a final answer.
type Runner struct {
	gemini    adapter.Gemini
	registry  *tool.Registry
	maxRounds int
}

type Option func(*Runner)

// WithMaxRounds overrides the tool-call round bound
func WithMaxRounds(n int) Option {
	return func(r *Runner) {
		r.maxRounds = n
	}
}

// New creates a new agent runner
func New(gemini adapter.Gemini, registry *tool.Registry, opts ...Option) *Runner {
	r := &Runner{
		gemini:    gemini,
		registry:  registry,
		maxRounds: DefaultMaxRounds,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the loop for a single turn and returns the full message
// trace. The trace opens with the system and human messages, followed
// by AI messages (with any tool calls) and tool result messages in the
// order they occurred. When the round bound is hit, the accumulated
// trace is returned together with ErrMaxRoundsExceeded.
func (r *Runner) Run(ctx context.Context, systemPrompt, userText string) (model.Trace, error) {
	logger := logging.From(ctx)

	trace := model.Trace{
		{Role: model.RoleSystem, Content: systemPrompt},
		{Role: model.RoleHuman, Content: userText},
	}

	contents := []*genai.Content{
		genai.NewContentFromText(userText, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, ""),
		Tools:             r.registry.Specs(),
	}

	for round := 0; round < r.maxRounds; round++ {
		resp, err := r.gemini.GenerateContent(ctx, contents, config)
		if err != nil {
			return trace, goerr.Wrap(err, "failed to generate content")
		}

		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return trace, goerr.New("empty response from model")
		}

		candidate := resp.Candidates[0]
		contents = append(contents, candidate.Content)

		aiMsg, funcCalls := messageFromContent(candidate.Content)
		trace = append(trace, aiMsg)

		if len(funcCalls) == 0 {
			return trace, nil
		}

		var responseParts []*genai.Part
		for _, fc := range funcCalls {
			logger.Debug("dispatching tool call", "name", fc.Name)

			funcResp, err := r.registry.Execute(ctx, fc)
			if err != nil {
				// The model must see the failure to recover or give up
				funcResp = &genai.FunctionResponse{
					Name:     fc.Name,
					Response: map[string]any{"error": err.Error()},
				}
				logger.Warn("tool call failed", "name", fc.Name, "error", err)
			}

			responseParts = append(responseParts, &genai.Part{FunctionResponse: funcResp})
			trace = append(trace, model.Message{
				Role:     model.RoleTool,
				Content:  responseText(funcResp),
				ToolName: fc.Name,
			})
		}

		contents = append(contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: responseParts,
		})
	}

	return trace, goerr.Wrap(ErrMaxRoundsExceeded, "agent loop aborted",
		goerr.V("max_rounds", r.maxRounds))
}

// messageFromContent converts a model response content into an AI trace
// message plus the function calls it requested
func messageFromContent(content *genai.Content) (model.Message, []genai.FunctionCall) {
	var textParts []string
	var funcCalls []genai.FunctionCall
	var toolCalls []model.ToolCall

	for _, part := range content.Parts {
		if part.Text != "" {
			textParts = append(textParts, part.Text)
		}
		if part.FunctionCall != nil {
			funcCalls = append(funcCalls, *part.FunctionCall)

			args, err := json.Marshal(part.FunctionCall.Args)
			if err != nil {
				args = []byte("{}")
			}
			toolCalls = append(toolCalls, model.ToolCall{
				Name:      part.FunctionCall.Name,
				Arguments: args,
			})
		}
	}

	return model.Message{
		Role:      model.RoleAI,
		Content:   strings.Join(textParts, "\n"),
		ToolCalls: toolCalls,
	}, funcCalls
}

// responseText renders a function response for the trace
func responseText(resp *genai.FunctionResponse) string {
	data, err := json.Marshal(resp.Response)
	if err != nil {
		return ""
	}
	return string(data)
}
