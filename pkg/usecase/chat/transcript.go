package chat

import (
	"fmt"
	"io"

	"github.com/memora-dev/memora/pkg/model"
)

var roleLabels = map[model.Role]string{
	model.RoleSystem: "System",
	model.RoleHuman:  "Human",
	model.RoleAI:     "AI",
	model.RoleTool:   "Tool",
}

// PrintTranscript writes the full message trace with variant labels,
// contents, tool call requests, and originating tool names. Printing
// reads the trace only; it never mutates messages or persisted records.
func PrintTranscript(w io.Writer, trace model.Trace) {
	for _, msg := range trace {
		label, ok := roleLabels[msg.Role]
		if !ok {
			label = string(msg.Role)
		}

		switch msg.Role {
		case model.RoleTool:
			fmt.Fprintf(w, "[%s: %s]\n", label, msg.ToolName)
		default:
			fmt.Fprintf(w, "[%s]\n", label)
		}

		if msg.Content != "" {
			fmt.Fprintf(w, "%s\n", msg.Content)
		}

		for _, tc := range msg.ToolCalls {
			fmt.Fprintf(w, "-> tool call: %s(%s)\n", tc.Name, string(tc.Arguments))
		}

		fmt.Fprintln(w)
	}
}
