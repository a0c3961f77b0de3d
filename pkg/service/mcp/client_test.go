package mcp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/memora-dev/memora/pkg/service/mcp"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genai"
)

func TestStdioTransport(t *testing.T) {
	ctx := context.Background()

	client := mcp.NewClient()
	err := client.Connect(ctx, mcp.ServerConfig{
		Name:      "pr-analyzer",
		Transport: "stdio",
		Command:   []string{"go", "run", "./testdata/stdio/main.go"},
	})
	gt.NoError(t, err)
	defer client.Close()

	servers := client.ServerNames()
	gt.A(t, servers).Length(1)
	gt.Equal(t, servers[0], "pr-analyzer")

	tools, err := client.Tools("pr-analyzer")
	gt.NoError(t, err)
	gt.A(t, tools).Length(2)

	result, err := client.CallTool(ctx, "pr-analyzer", "analyze_pr", map[string]any{
		"url": "https://example.com/pr/7",
	})
	gt.NoError(t, err)
	gt.V(t, result).NotNil()
	gt.A(t, result.Content).Length(1)

	textContent, ok := result.Content[0].(*mcpsdk.TextContent)
	gt.True(t, ok)
	gt.Equal(t, textContent.Text, "Analyzed https://example.com/pr/7: changes look fine")
}

func TestHTTPStreamableTransport(t *testing.T) {
	ctx := context.Background()

	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "test-http-server",
		Version: "1.0.0",
	}, nil)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "echo",
		Description: "Echo back the message",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, params *struct {
		Message string `json:"message" jsonschema:"Message to echo"`
	}) (*mcpsdk.CallToolResult, any, error) {
		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: params.Message},
			},
		}, nil, nil
	})

	handler := mcpsdk.NewStreamableHTTPHandler(func(r *http.Request) *mcpsdk.Server {
		return server
	}, nil)
	testServer := httptest.NewServer(handler)
	defer testServer.Close()

	client := mcp.NewClient()
	err := client.Connect(ctx, mcp.ServerConfig{
		Name:      "test-http",
		Transport: "http",
		URL:       testServer.URL,
	})
	gt.NoError(t, err)
	defer client.Close()

	result, err := client.CallTool(ctx, "test-http", "echo", map[string]any{
		"message": "Hello from HTTP!",
	})
	gt.NoError(t, err)
	gt.A(t, result.Content).Length(1)

	textContent, ok := result.Content[0].(*mcpsdk.TextContent)
	gt.True(t, ok)
	gt.Equal(t, textContent.Text, "Hello from HTTP!")
}

func TestProviderAdaptsTools(t *testing.T) {
	ctx := context.Background()

	client := mcp.NewClient()
	err := client.Connect(ctx, mcp.ServerConfig{
		Name:      "pr-analyzer",
		Transport: "stdio",
		Command:   []string{"go", "run", "./testdata/stdio/main.go"},
	})
	gt.NoError(t, err)
	defer client.Close()

	provider, err := mcp.NewProvider(client)
	gt.NoError(t, err)

	spec := provider.Spec()
	gt.V(t, spec).NotNil()
	gt.A(t, spec.FunctionDeclarations).Length(2)

	names := make(map[string]*genai.FunctionDeclaration)
	for _, fd := range spec.FunctionDeclarations {
		names[fd.Name] = fd
	}

	analyze, ok := names["analyze_pr"]
	gt.True(t, ok)
	gt.V(t, analyze.Parameters).NotNil()
	gt.Equal(t, analyze.Parameters.Type, genai.TypeObject)
	gt.V(t, analyze.Parameters.Properties["url"]).NotNil()

	_, ok = names["create_notion_page"]
	gt.True(t, ok)

	// Execute dispatches back over the MCP session
	resp, err := provider.Execute(ctx, genai.FunctionCall{
		Name: "analyze_pr",
		Args: map[string]any{"url": "https://example.com/pr/1"},
	})
	gt.NoError(t, err)
	gt.V(t, resp.Response["result"]).NotNil()
}

func TestUnsupportedTransport(t *testing.T) {
	ctx := context.Background()

	client := mcp.NewClient()
	err := client.Connect(ctx, mcp.ServerConfig{
		Name:      "bad",
		Transport: "carrier-pigeon",
	})
	gt.Error(t, err)
}
