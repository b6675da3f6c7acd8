package mcp

import "github.com/mark3labs/mcp-go/mcp"

// exploreTopicTool defines the explore_topic MCP tool.
var exploreTopicTool = mcp.NewTool("explore_topic",
	mcp.WithDescription("Generate an overview of a topic: title, summary, key facts, chart stats, Q&A and an illustration reference."),
	mcp.WithString("topic",
		mcp.Required(),
		mcp.Description("Topic to explore, e.g. \"Quantum Computing\""),
	),
	mcp.WithString("format",
		mcp.Description("Output format (default markdown)"),
		mcp.Enum("markdown", "json"),
	),
)

// recentSearchesTool defines the recent_searches MCP tool.
var recentSearchesTool = mcp.NewTool("recent_searches",
	mcp.WithDescription("List recently explored topics with their outcome and latency."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of searches to return (default 20)"),
	),
)
