package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/memora-dev/memora/pkg/model"
	"github.com/memora-dev/memora/pkg/tool/memory"
	"google.golang.org/genai"
)

type mockGemini struct {
	embeddingFunc func(ctx context.Context, text string, dim int32) ([]float32, error)
}

func (m *mockGemini) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return nil, errors.New("not implemented")
}

func (m *mockGemini) Embedding(ctx context.Context, text string, dim int32) ([]float32, error) {
	if m.embeddingFunc != nil {
		return m.embeddingFunc(ctx, text, dim)
	}
	return make([]float32, dim), nil
}

type mockRepository struct {
	memories []*model.Memory
	matches  []*model.MemoryMatch
	insertID int64
	findErr  error
}

func (m *mockRepository) InsertConversation(ctx context.Context, conv *model.Conversation) (int64, error) {
	return 0, errors.New("not implemented")
}

func (m *mockRepository) InsertMemory(ctx context.Context, mem *model.Memory) (int64, error) {
	m.memories = append(m.memories, mem)
	return m.insertID, nil
}

func (m *mockRepository) FindSimilarMemories(ctx context.Context, embedding []float32, threshold float64, count int) ([]*model.MemoryMatch, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if len(m.matches) > count {
		return m.matches[:count], nil
	}
	return m.matches, nil
}

func (m *mockRepository) ListConversations(ctx context.Context, offset, limit int) ([]*model.Conversation, error) {
	return nil, nil
}

func (m *mockRepository) Migrate(ctx context.Context) error { return nil }

func (m *mockRepository) Close() {}

func TestSaveMemory(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{insertID: 42}
	tools := memory.New(&mockGemini{}, repo, 8)

	result := tools.Save(ctx, "some fact", 7)
	gt.Equal(t, result, "Memory saved successfully with ID: 42")

	gt.A(t, repo.memories).Length(1)
	gt.Equal(t, repo.memories[0].ConvID, int64(7))
	gt.Equal(t, repo.memories[0].QuesAnalysis, "some fact")
	gt.A(t, repo.memories[0].Embedding).Length(8)
}

func TestSaveMemoryEmbeddingFailure(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{insertID: 1}
	gemini := &mockGemini{
		embeddingFunc: func(ctx context.Context, text string, dim int32) ([]float32, error) {
			return nil, errors.New("api unavailable")
		},
	}
	tools := memory.New(gemini, repo, 8)

	result := tools.Save(ctx, "some fact", 7)
	gt.Equal(t, result, "Failed to generate embedding for memory")

	// The store must not be touched when embedding fails
	gt.A(t, repo.memories).Length(0)
}

func TestSearchMemoriesNoResults(t *testing.T) {
	ctx := context.Background()
	tools := memory.New(&mockGemini{}, &mockRepository{}, 8)

	results := tools.Search(ctx, "anything", 0.3, 5)
	gt.A(t, results).Length(1)
	gt.Equal(t, results[0], "No similar memories found")
}

func TestSearchMemoriesFormatting(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{
		matches: []*model.MemoryMatch{
			{Similarity: 0.91234, QuesAnalysis: "first memory"},
			{Similarity: 0.5, QuesAnalysis: "second memory"},
		},
	}
	tools := memory.New(&mockGemini{}, repo, 8)

	results := tools.Search(ctx, "query", 0.3, 5)
	gt.A(t, results).Length(2)
	gt.Equal(t, results[0], "Similarity: 0.912\nMemory: first memory\n")
	gt.Equal(t, results[1], "Similarity: 0.500\nMemory: second memory\n")
}

func TestSearchMemoriesCountBound(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{
		matches: []*model.MemoryMatch{
			{Similarity: 0.9, QuesAnalysis: "a"},
			{Similarity: 0.8, QuesAnalysis: "b"},
			{Similarity: 0.7, QuesAnalysis: "c"},
		},
	}
	tools := memory.New(&mockGemini{}, repo, 8)

	results := tools.Search(ctx, "query", 0.3, 2)
	gt.A(t, results).Length(2)
}

func TestSearchMemoriesEmbeddingFailure(t *testing.T) {
	ctx := context.Background()
	gemini := &mockGemini{
		embeddingFunc: func(ctx context.Context, text string, dim int32) ([]float32, error) {
			return nil, errors.New("api unavailable")
		},
	}
	tools := memory.New(gemini, &mockRepository{}, 8)

	results := tools.Search(ctx, "query", 0.3, 5)
	gt.A(t, results).Length(1)
	gt.Equal(t, results[0], "Failed to generate embedding for query")
}

func TestExecuteDispatch(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{insertID: 9}
	tools := memory.New(&mockGemini{}, repo, 8)

	resp, err := tools.Execute(ctx, genai.FunctionCall{
		Name: "save_memory",
		Args: map[string]any{"memory": "noted", "conv_id": float64(3)},
	})
	gt.NoError(t, err)
	gt.Equal(t, resp.Response["result"], "Memory saved successfully with ID: 9")
	gt.Equal(t, repo.memories[0].ConvID, int64(3))

	resp, err = tools.Execute(ctx, genai.FunctionCall{
		Name: "search_memories",
		Args: map[string]any{"query": "noted"},
	})
	gt.NoError(t, err)
	memories, ok := resp.Response["memories"].([]string)
	gt.True(t, ok)
	gt.A(t, memories).Length(1)
}

func TestExecuteUnknownFunction(t *testing.T) {
	ctx := context.Background()
	tools := memory.New(&mockGemini{}, &mockRepository{}, 8)

	resp, err := tools.Execute(ctx, genai.FunctionCall{Name: "forget_everything"})
	gt.NoError(t, err)
	gt.Equal(t, resp.Response["result"], "Unknown memory tool: forget_everything")
}
