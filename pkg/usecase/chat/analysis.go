package chat

import (
	"encoding/json"

	"github.com/memora-dev/memora/pkg/model"
)

// analysisToolName is the remote tool whose arguments carry the PR
// analysis payload. The coupling to this one tool's schema is
// deliberate: the PR analyzer reports its result by creating a page
// whose content is the analysis text.
const analysisToolName = "create_notion_page"

// ExtractAnalysis finds the first AI message requesting the analysis
// tool and extracts the "content" field from its argument payload.
// First match wins. When the payload cannot be parsed, the raw argument
// text is used as a fallback; when no such call exists, the analysis is
// empty.
func ExtractAnalysis(trace model.Trace) string {
	tc, ok := trace.FirstToolCall(analysisToolName)
	if !ok {
		return ""
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(tc.Arguments, &payload); err != nil {
		return string(tc.Arguments)
	}

	return payload.Content
}
