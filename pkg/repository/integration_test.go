package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/memora-dev/memora/pkg/model"
	"github.com/memora-dev/memora/pkg/repository"
)

// setupRepo connects to the database given by TEST_DATABASE_URL and
// applies the schema. The database must have the pgvector extension
// available.
func setupRepo(ctx context.Context, t *testing.T) repository.Repository {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	repo, err := repository.NewPostgres(ctx, dsn)
	gt.NoError(t, err)
	t.Cleanup(repo.Close)

	gt.NoError(t, repo.Migrate(ctx))
	return repo
}

func TestConversationAndMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(ctx, t)

	convID, err := repo.InsertConversation(ctx, &model.Conversation{
		UserQuestion:  "Summarize PR #7",
		ChatbotAnswer: "Done.",
		Analysis:      "X did Y",
	})
	gt.NoError(t, err)
	gt.True(t, convID > 0)

	embedding := make([]float32, 768)
	embedding[0] = 1

	memID, err := repo.InsertMemory(ctx, &model.Memory{
		ConvID:       convID,
		QuesAnalysis: "Question: Summarize PR #7\nAnalysis: X did Y",
		Embedding:    embedding,
	})
	gt.NoError(t, err)
	gt.True(t, memID > 0)

	// A query vector close to the stored one must retrieve the memory
	// above the threshold
	query := make([]float32, 768)
	query[0] = 1
	query[1] = 0.01

	matches, err := repo.FindSimilarMemories(ctx, query, 0.3, 5)
	gt.NoError(t, err)
	gt.True(t, len(matches) >= 1)
	gt.Equal(t, matches[0].QuesAnalysis, "Question: Summarize PR #7\nAnalysis: X did Y")
	gt.True(t, matches[0].Similarity > 0.3)

	// Ordering is by non-increasing similarity
	for i := 1; i < len(matches); i++ {
		gt.True(t, matches[i-1].Similarity >= matches[i].Similarity)
	}
}

func TestFindSimilarMemoriesCountBound(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(ctx, t)

	convID, err := repo.InsertConversation(ctx, &model.Conversation{
		UserQuestion:  "several memories",
		ChatbotAnswer: "ok",
	})
	gt.NoError(t, err)

	for i := 0; i < 4; i++ {
		embedding := make([]float32, 768)
		embedding[0] = 1
		embedding[i+1] = 0.1

		_, err := repo.InsertMemory(ctx, &model.Memory{
			ConvID:       convID,
			QuesAnalysis: "memory",
			Embedding:    embedding,
		})
		gt.NoError(t, err)
	}

	query := make([]float32, 768)
	query[0] = 1

	matches, err := repo.FindSimilarMemories(ctx, query, 0.3, 2)
	gt.NoError(t, err)
	gt.True(t, len(matches) <= 2)
}

func TestListConversations(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(ctx, t)

	_, err := repo.InsertConversation(ctx, &model.Conversation{
		UserQuestion:  "listing test",
		ChatbotAnswer: "ok",
	})
	gt.NoError(t, err)

	convs, err := repo.ListConversations(ctx, 0, 10)
	gt.NoError(t, err)
	gt.True(t, len(convs) >= 1)

	// Newest first
	for i := 1; i < len(convs); i++ {
		gt.True(t, convs[i-1].ID > convs[i].ID)
	}
}
