package memory

import (
	"context"
	"fmt"

	"github.com/memora-dev/memora/pkg/adapter"
	"github.com/memora-dev/memora/pkg/model"
	"github.com/memora-dev/memora/pkg/repository"
	"github.com/memora-dev/memora/pkg/utils/logging"
	"google.golang.org/genai"
)

const (
	// DefaultThreshold is the minimum cosine similarity for a memory to
	// be considered a match
	DefaultThreshold = 0.3

	// DefaultMatchCount is the maximum number of memories returned by a
	// search
	DefaultMatchCount = 5

	// NoMemoriesFound is the sentinel returned when a search matches
	// nothing. Callers must treat this literal as a no-result marker,
	// not as memory content.
	NoMemoriesFound = "No similar memories found"
)

// Tools exposes save_memory and search_memories as LLM-callable
// functions. Both operations convert every failure into returned text:
// a model-callable tool must always produce a textual result.
type Tools struct {
	gemini adapter.Gemini
	repo   repository.Repository
	dim    int32
}

// New creates the memory tool provider. dim is the embedding dimension
// expected by the store's vector column.
func New(gemini adapter.Gemini, repo repository.Repository, dim int32) *Tools {
	return &Tools{
		gemini: gemini,
		repo:   repo,
		dim:    dim,
	}
}

// Spec returns the function declarations for Gemini function calling
func (t *Tools) Spec() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "save_memory",
				Description: "Save a memory text for later semantic retrieval, linked to a conversation",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"memory": {
							Type:        genai.TypeString,
							Description: "The memory text to save",
						},
						"conv_id": {
							Type:        genai.TypeInteger,
							Description: "The conversation ID to link this memory to",
						},
					},
					Required: []string{"memory", "conv_id"},
				},
			},
			{
				Name:        "search_memories",
				Description: "Search for the most relevant saved memories using semantic similarity",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"query": {
							Type:        genai.TypeString,
							Description: "The search query",
						},
						"similarity_threshold": {
							Type:        genai.TypeNumber,
							Description: "Minimum similarity score (0-1, default: 0.3)",
						},
						"match_count": {
							Type:        genai.TypeInteger,
							Description: "Number of top matches to return (default: 5)",
						},
					},
					Required: []string{"query"},
				},
			},
		},
	}
}

// Prompt returns additional system prompt information
func (t *Tools) Prompt(ctx context.Context) string {
	return "You can persist important facts with save_memory and recall prior conversations with search_memories."
}

// Execute dispatches a function call to save_memory or search_memories.
// Failures never surface as errors; they become the textual result.
func (t *Tools) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	switch fc.Name {
	case "save_memory":
		memoryText, _ := fc.Args["memory"].(string)
		convID := intArg(fc.Args, "conv_id")
		return response(fc.Name, t.Save(ctx, memoryText, convID)), nil

	case "search_memories":
		query, _ := fc.Args["query"].(string)
		threshold := floatArg(fc.Args, "similarity_threshold", DefaultThreshold)
		count := intArg(fc.Args, "match_count")
		if count <= 0 {
			count = DefaultMatchCount
		}
		results := t.Search(ctx, query, threshold, int(count))
		return &genai.FunctionResponse{
			Name:     fc.Name,
			Response: map[string]any{"memories": results},
		}, nil

	default:
		return response(fc.Name, fmt.Sprintf("Unknown memory tool: %s", fc.Name)), nil
	}
}

// Save embeds the memory text and inserts a memory record linked to
// convID. All failures are reported as the returned text.
func (t *Tools) Save(ctx context.Context, memoryText string, convID int64) string {
	embedding, err := t.gemini.Embedding(ctx, memoryText, t.dim)
	if err != nil {
		logging.From(ctx).Error("failed to generate embedding for memory", "error", err)
		return "Failed to generate embedding for memory"
	}

	id, err := t.repo.InsertMemory(ctx, &model.Memory{
		ConvID:       convID,
		QuesAnalysis: memoryText,
		Embedding:    embedding,
	})
	if err != nil {
		logging.From(ctx).Error("failed to save memory", "error", err)
		return fmt.Sprintf("Error saving memory: %v", err)
	}

	return fmt.Sprintf("Memory saved successfully with ID: %d", id)
}

// Search embeds the query and returns matching memories as formatted
// strings ordered by descending similarity. On embedding or store
// failure the single element is a failure message; when nothing
// matches, the single element is the NoMemoriesFound sentinel.
func (t *Tools) Search(ctx context.Context, query string, threshold float64, count int) []string {
	embedding, err := t.gemini.Embedding(ctx, query, t.dim)
	if err != nil {
		logging.From(ctx).Error("failed to generate embedding for query", "error", err)
		return []string{"Failed to generate embedding for query"}
	}

	matches, err := t.repo.FindSimilarMemories(ctx, embedding, threshold, count)
	if err != nil {
		logging.From(ctx).Error("failed to search memories", "error", err)
		return []string{fmt.Sprintf("Error searching memories: %v", err)}
	}

	if len(matches) == 0 {
		return []string{NoMemoriesFound}
	}

	memories := make([]string, 0, len(matches))
	for _, m := range matches {
		memories = append(memories, fmt.Sprintf("Similarity: %.3f\nMemory: %s\n", m.Similarity, m.QuesAnalysis))
	}

	return memories
}

func response(name, text string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		Name:     name,
		Response: map[string]any{"result": text},
	}
}

// intArg reads a numeric argument that the model may emit as either a
// JSON number or an integer
func intArg(args map[string]any, key string) int64 {
	switch v := args[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

func floatArg(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}
