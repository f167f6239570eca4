package tools

import (
	"context"

	"github.com/dimosr/lenses-mcp/client"
)

// RegisterSQL adds the streaming SQL execution tool, backed by the
// platform's WebSocket endpoint.
func RegisterSQL(r *Registry, executor client.SQLExecutor) {
	r.MustRegister(Definition{
		Name:        "execute_sql",
		Description: "Executes a SQL statement or query and returns the result records.",
		Params: map[string]Param{
			"environment": {Type: TypeString, Required: true, Description: "The environment name."},
			"sql":         {Type: TypeString, Required: true, Description: "The SQL statement to execute."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			path := proxyPath(args.String("environment"), "/api/ws/v2/sql/execute")
			records, err := executor.Execute(ctx, path, args.String("sql"))
			if err != nil {
				return nil, err
			}
			if records == nil {
				records = []map[string]any{}
			}
			return records, nil
		},
	})
}
