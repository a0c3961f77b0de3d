package repository

import (
	"context"
	_ "embed"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/memora-dev/memora/pkg/model"
)

//go:embed schema.sql
var schemaSQL string

// postgresRepo implements Repository using Postgres with the pgvector
// extension. Vector similarity ranking is delegated entirely to the
// server-side find_similar_memories function.
type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new Postgres repository from a connection string
func NewPostgres(ctx context.Context, dsn string) (Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, goerr.Wrap(err, "failed to connect to database")
	}

	return &postgresRepo{pool: pool}, nil
}

func (r *postgresRepo) InsertConversation(ctx context.Context, conv *model.Conversation) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO conversations (user_question, chatbot_answer, analysis)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		conv.UserQuestion, conv.ChatbotAnswer, conv.Analysis,
	).Scan(&id)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to insert conversation")
	}

	return id, nil
}

func (r *postgresRepo) InsertMemory(ctx context.Context, memory *model.Memory) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO memories (conv_id, ques_analysis, embedding)
		 VALUES ($1, $2, $3::vector)
		 RETURNING id`,
		memory.ConvID, memory.QuesAnalysis, vectorLiteral(memory.Embedding),
	).Scan(&id)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to insert memory",
			goerr.V("conv_id", memory.ConvID))
	}

	return id, nil
}

func (r *postgresRepo) FindSimilarMemories(ctx context.Context, embedding []float32, threshold float64, count int) ([]*model.MemoryMatch, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT similarity, ques_analysis
		 FROM find_similar_memories($1::vector, $2, $3)`,
		vectorLiteral(embedding), threshold, count,
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query similar memories")
	}
	defer rows.Close()

	var matches []*model.MemoryMatch
	for rows.Next() {
		var m model.MemoryMatch
		if err := rows.Scan(&m.Similarity, &m.QuesAnalysis); err != nil {
			return nil, goerr.Wrap(err, "failed to scan memory match")
		}
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate memory matches")
	}

	return matches, nil
}

func (r *postgresRepo) ListConversations(ctx context.Context, offset, limit int) ([]*model.Conversation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_question, chatbot_answer, analysis, created_at
		 FROM conversations
		 ORDER BY id DESC
		 OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query conversations")
	}
	defer rows.Close()

	var convs []*model.Conversation
	for rows.Next() {
		var c model.Conversation
		if err := rows.Scan(&c.ID, &c.UserQuestion, &c.ChatbotAnswer, &c.Analysis, &c.CreatedAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan conversation")
		}
		convs = append(convs, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate conversations")
	}

	return convs, nil
}

func (r *postgresRepo) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return goerr.Wrap(err, "failed to apply schema")
	}
	return nil
}

func (r *postgresRepo) Close() {
	r.pool.Close()
}

// vectorLiteral renders an embedding as a pgvector text literal, e.g.
// "[0.1,0.2,0.3]"
func vectorLiteral(embedding []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}
