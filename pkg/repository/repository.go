package repository

import (
	"context"

	"github.com/memora-dev/memora/pkg/model"
)

// Repository defines the interface for conversation and memory persistence
type Repository interface {
	// InsertConversation appends a conversation record and returns the
	// store-generated identifier
	InsertConversation(ctx context.Context, conv *model.Conversation) (int64, error)

	// InsertMemory appends a memory record and returns the store-generated
	// identifier
	InsertMemory(ctx context.Context, memory *model.Memory) (int64, error)

	// FindSimilarMemories performs server-side vector similarity search.
	// Results are ordered by descending similarity, contain at most count
	// rows, and exclude rows below threshold.
	FindSimilarMemories(ctx context.Context, embedding []float32, threshold float64, count int) ([]*model.MemoryMatch, error)

	// ListConversations retrieves recent conversations, newest first
	ListConversations(ctx context.Context, offset, limit int) ([]*model.Conversation, error)

	// Migrate applies the datastore schema
	Migrate(ctx context.Context) error

	// Close releases the underlying connection pool
	Close()
}
