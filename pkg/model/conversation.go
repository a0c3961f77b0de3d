package model

import (
	"strings"
	"time"
)

// Conversation represents one persisted question/answer turn
type Conversation struct {
	ID            int64
	UserQuestion  string
	ChatbotAnswer string
	Analysis      string
	CreatedAt     time.Time
}

// Memory represents a stored text+embedding record for semantic retrieval.
// ConvID is a weak back-reference to the conversation the memory was
// derived from.
type Memory struct {
	ID           int64
	ConvID       int64
	QuesAnalysis string
	Embedding    []float32
	CreatedAt    time.Time
}

// MemoryMatch is a single similarity search result returned by the store
type MemoryMatch struct {
	Similarity   float64
	QuesAnalysis string
}

// prKeywords classify a question as pull-request related
var prKeywords = []string{
	"pr",
	"pull request",
	"github pr",
	"merge request",
}

// IsPRQuestion reports whether the question mentions a pull request.
// Matching is case-insensitive substring search.
func IsPRQuestion(question string) bool {
	lowered := strings.ToLower(question)
	for _, kw := range prKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
