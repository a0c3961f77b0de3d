package chat

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"io"
	"log/slog"
	"os"
	"text/template"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/memora-dev/memora/pkg/agent"
	"github.com/memora-dev/memora/pkg/model"
	"github.com/memora-dev/memora/pkg/repository"
	"github.com/memora-dev/memora/pkg/tool/memory"
	"github.com/memora-dev/memora/pkg/utils/logging"
)

//go:embed prompt/system.md
var systemPromptRaw string

var systemPromptTmpl = template.Must(template.New("system").Parse(systemPromptRaw))

// Session manages the per-turn orchestration: memory retrieval, agent
// execution, answer/analysis extraction, persistence, and transcript
// printing. One session serves one interactive run.
type Session struct {
	id       string
	repo     repository.Repository
	runner   *agent.Runner
	memories *memory.Tools
	output   io.Writer
}

// NewInput contains dependencies for a chat session
type NewInput struct {
	Repo     repository.Repository
	Runner   *agent.Runner
	Memories *memory.Tools
	Output   io.Writer // defaults to os.Stdout
}

func New(input NewInput) (*Session, error) {
	if input.Repo == nil {
		return nil, goerr.New("repository is required")
	}
	if input.Runner == nil {
		return nil, goerr.New("agent runner is required")
	}
	if input.Memories == nil {
		return nil, goerr.New("memory tools are required")
	}

	output := input.Output
	if output == nil {
		output = os.Stdout
	}

	return &Session{
		id:       uuid.New().String(),
		repo:     input.Repo,
		runner:   input.Runner,
		memories: input.Memories,
		output:   output,
	}, nil
}

// Turn is the outcome of processing one user utterance
type Turn struct {
	Answer   string
	Analysis string
	ConvID   int64
	PR       bool
	Trace    model.Trace
}

// Send processes one turn: retrieves relevant memories, runs the agent
// with them as context, extracts the answer and any analysis, persists
// the conversation plus a derived memory, and prints the transcript.
// Persistence failures are logged and skipped; the answer is still
// returned to the caller.
func (s *Session) Send(ctx context.Context, userText string) (*Turn, error) {
	logger := logging.From(ctx).With("session", s.id)

	memories := s.memories.Search(ctx, userText, memory.DefaultThreshold, memory.DefaultMatchCount)

	systemPrompt, err := buildSystemPrompt(memories)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build system prompt")
	}

	trace, err := s.runner.Run(ctx, systemPrompt, userText)
	if err != nil && !errors.Is(err, agent.ErrMaxRoundsExceeded) {
		return nil, goerr.Wrap(err, "agent run failed")
	}
	if err != nil {
		logger.Warn("agent hit tool call round bound", "error", err)
	}

	turn := &Turn{
		Answer:   trace.LastAnswer(),
		Analysis: ExtractAnalysis(trace),
		PR:       model.IsPRQuestion(userText),
		Trace:    trace,
	}

	s.persist(ctx, logger, userText, turn)

	PrintTranscript(s.output, trace)

	return turn, nil
}

// persist writes the conversation record and the derived memory. A
// failed conversation insert abandons the memory save as well: a memory
// must always back-reference an existing conversation.
func (s *Session) persist(ctx context.Context, logger *slog.Logger, userText string, turn *Turn) {
	analysis := ""
	if turn.PR {
		analysis = turn.Analysis
	}

	convID, err := s.repo.InsertConversation(ctx, &model.Conversation{
		UserQuestion:  userText,
		ChatbotAnswer: turn.Answer,
		Analysis:      analysis,
	})
	if err != nil {
		logger.Error("failed to save conversation, skipping memory save", "error", err)
		return
	}
	turn.ConvID = convID

	combined := combinedMemoryText(userText, turn)
	result := s.memories.Save(ctx, combined, convID)
	logger.Info("memory save result", "result", result, "conv_id", convID)
}

// combinedMemoryText builds the text persisted as this turn's memory.
// PR-related turns remember the analysis, other turns remember the
// answer.
func combinedMemoryText(userText string, turn *Turn) string {
	if turn.PR {
		return "Question: " + userText + "\nAnalysis: " + turn.Analysis
	}
	return "Question: " + userText + "\nAnswer: " + turn.Answer
}

type systemPromptData struct {
	Memories []string
}

func buildSystemPrompt(memories []string) (string, error) {
	// The no-result sentinel is not context, drop it
	if len(memories) == 1 && memories[0] == memory.NoMemoriesFound {
		memories = nil
	}

	var buf bytes.Buffer
	if err := systemPromptTmpl.Execute(&buf, systemPromptData{Memories: memories}); err != nil {
		return "", goerr.Wrap(err, "failed to render system prompt")
	}
	return buf.String(), nil
}
