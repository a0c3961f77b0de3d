package main

import (
	"context"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// analyzePRParams defines the parameters for the analyze_pr tool
type analyzePRParams struct {
	URL string `json:"url" jsonschema:"URL of the pull request to analyze"`
}

// analyzePR implements a fake PR analysis tool for transport tests
func analyzePR(ctx context.Context, req *mcp.CallToolRequest, params *analyzePRParams) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Analyzed " + params.URL + ": changes look fine"},
		},
	}, nil, nil
}

// createNotionPageParams defines the parameters for the
// create_notion_page tool
type createNotionPageParams struct {
	Content string `json:"content" jsonschema:"Content of the page to create"`
}

func createNotionPage(ctx context.Context, req *mcp.CallToolRequest, params *createNotionPageParams) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Page created"},
		},
	}, nil, nil
}

func main() {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "test-pr-analyzer",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_pr",
		Description: "Analyze a pull request",
	}, analyzePR)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_notion_page",
		Description: "Create a page with the given content",
	}, createNotionPage)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Printf("server error: %v", err)
		os.Exit(1)
	}
}
