package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// registerPrompts adds the reusable prompt templates that guide an agent
// through the platform's SQL and connector workflows.
func registerPrompts(s *mcpserver.MCPServer) {
	s.AddPrompt(mcp.NewPrompt("generate_sql_query",
		mcp.WithPromptDescription("Write a Lenses SQL query to achieve a task"),
		mcp.WithArgument("task", mcp.RequiredArgument(),
			mcp.ArgumentDescription("The task the query should accomplish")),
	), func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		task := req.Params.Arguments["task"]
		text := fmt.Sprintf(`Task: %s

Please write a SQL query that accomplishes this task efficiently.

Use these specific guidelines in addition to SQL best practices for performance:
1. Use JOINs (INNER, LEFT) based on the data relationships where appropriate
2. Use WHERE clauses to reduce the number of records where possible
3. Use indentation to format the query for readability`, task)
		return promptResult("SQL query generation", text), nil
	})

	s.AddPrompt(mcp.NewPrompt("create_sql_processor",
		mcp.WithPromptDescription("Create a SQL processor with the specified name and SQL query"),
		mcp.WithArgument("name", mcp.RequiredArgument(),
			mcp.ArgumentDescription("The processor name")),
		mcp.WithArgument("sql", mcp.RequiredArgument(),
			mcp.ArgumentDescription("The SQL query for the processor")),
		mcp.WithArgument("environment", mcp.RequiredArgument(),
			mcp.ArgumentDescription("The environment name")),
	), func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := req.Params.Arguments
		text := fmt.Sprintf(`Please create a SQL processor named '%s' in the '%s' environment
with the following SQL query:

%s

The processor should be configured with appropriate deployment settings.
With no available deployment targets (Kubernetes or Connect clusters), use the
local in-process mode: {"mode": "IN_PROC"}.
For Kubernetes use e.g.: {"mode": "KUBERNETES", "details": {"runners": 1, "cluster": "incluster", "namespace": "ai-agent"}}.
The cluster and namespace settings can be determined with the get_deployment_targets tool.`,
			args["name"], args["environment"], args["sql"])
		return promptResult("SQL processor creation", text), nil
	})

	s.AddPrompt(mcp.NewPrompt("troubleshoot_sql_processor",
		mcp.WithPromptDescription("Troubleshoot a specific SQL processor"),
		mcp.WithArgument("sql_processor_id", mcp.RequiredArgument(),
			mcp.ArgumentDescription("The processor ID or name")),
		mcp.WithArgument("environment", mcp.RequiredArgument(),
			mcp.ArgumentDescription("The environment name")),
	), func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := req.Params.Arguments
		text := fmt.Sprintf(`Please help troubleshoot the SQL processor with ID '%s' in the '%s' environment.
If the ID cannot be found, assume it is the SQL processor's name.
Check its status, deployment configuration, and logs to identify any issues.
If it has status 'RUNNING' then there are currently no issues.`,
			args["sql_processor_id"], args["environment"])
		return promptResult("SQL processor troubleshooting", text), nil
	})

	s.AddPrompt(mcp.NewPrompt("troubleshoot_kafka_connector",
		mcp.WithPromptDescription("Troubleshoot a specific Kafka connector"),
		mcp.WithArgument("connector_name", mcp.RequiredArgument(),
			mcp.ArgumentDescription("The connector name")),
		mcp.WithArgument("environment", mcp.RequiredArgument(),
			mcp.ArgumentDescription("The environment name")),
	), func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := req.Params.Arguments
		text := fmt.Sprintf(`Please help troubleshoot the Kafka connector '%s' in the '%s' environment.
Check its status, task states, configuration, and any error messages to identify issues.
If all tasks show 'RUNNING' status, then the connector is functioning properly.`,
			args["connector_name"], args["environment"])
		return promptResult("Kafka connector troubleshooting", text), nil
	})
}

func promptResult(description, text string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(description, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	})
}
