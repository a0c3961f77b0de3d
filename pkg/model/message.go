package model

import "encoding/json"

// Role identifies the variant of a message in the agent's trace
type Role string

const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
	RoleTool   Role = "tool"
)

// ToolCall is a model-issued request to invoke a named function.
// Arguments is the raw JSON-encoded argument payload as emitted by
// the model.
type ToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// Message is one transient unit of a turn's conversational trace.
// Only AI messages carry ToolCalls and only Tool messages carry the
// name of the tool that produced them.
type Message struct {
	Role      Role
	Content   string
	ToolCalls []ToolCall
	ToolName  string
}

// Trace is the ordered message sequence of a single turn. It is
// discarded after transcript printing and persistence.
type Trace []Message

// LastAnswer returns the content of the last AI message, scanning in
// reverse. Empty string if the trace contains no AI message.
func (t Trace) LastAnswer() string {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Role == RoleAI && t[i].Content != "" {
			return t[i].Content
		}
	}
	return ""
}

// FirstToolCall returns the first tool call with the given name in
// trace order. First match wins.
func (t Trace) FirstToolCall(name string) (ToolCall, bool) {
	for _, msg := range t {
		if msg.Role != RoleAI {
			continue
		}
		for _, tc := range msg.ToolCalls {
			if tc.Name == name {
				return tc, true
			}
		}
	}
	return ToolCall{}, false
}
