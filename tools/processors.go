package tools

import (
	"context"
	"net/http"

	"github.com/dimosr/lenses-mcp/client"
)

// RegisterProcessors adds the streaming SQL processor and deployment tools.
func RegisterProcessors(r *Registry, api client.Doer) {
	envParam := Param{Type: TypeString, Required: true, Description: "The environment name."}
	idParam := Param{Type: TypeString, Required: true, Description: "SQL processor unique identifier."}

	r.MustRegister(Definition{
		Name:        "list_sql_processors",
		Description: "Retrieves all SQL processors with their deployment status.",
		Params:      map[string]Param{"environment": envParam},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet, proxyPath(args.String("environment"), "/api/v2/streams"))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "get_sql_processor",
		Description: "Retrieves a single SQL processor by ID, including application, metadata, and deployment status.",
		Params:      map[string]Param{"environment": envParam, "sql_processor_id": idParam},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet,
				proxyPath(args.String("environment"), "/api/v2/streams/"+seg(args.String("sql_processor_id"))))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "create_sql_processor",
		Description: `Creates a new SQL processor. With no Kubernetes or Connect deployment targets available, use deployment {"mode": "IN_PROC"}.`,
		Params: map[string]Param{
			"environment": envParam,
			"name":        {Type: TypeString, Required: true, Description: "The name of the SQL processor."},
			"sql":         {Type: TypeString, Required: true, Description: "The SQL statement for the processor."},
			"deployment": {Type: TypeObject,
				Description: "Deployment configuration: mode, runners, cluster, namespace."},
			"sql_processor_id": {Type: TypeString, Description: "Optional processor ID; auto-generated when omitted."},
			"description":      {Type: TypeString, Description: "Optional description."},
			"tags":             {Type: TypeArray, Description: "Optional tags."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			payload := map[string]any{
				"name": args.String("name"),
				"sql":  args.String("sql"),
			}
			if v := args.String("sql_processor_id"); v != "" {
				payload["processorId"] = v
			}
			if v := args.String("description"); v != "" {
				payload["description"] = v
			}
			if v := args.Object("deployment"); v != nil {
				payload["deployment"] = v
			}
			if v := args.StringSlice("tags"); len(v) > 0 {
				payload["tags"] = v
			}
			resp, err := api.Request(ctx, http.MethodPost,
				proxyPath(args.String("environment"), "/api/v2/streams"), client.WithBody(payload))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "delete_sql_processor",
		Description: "Removes an existing SQL processor.",
		Params:      map[string]Param{"environment": envParam, "sql_processor_id": idParam},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodDelete,
				proxyPath(args.String("environment"), "/api/v1/streams/"+seg(args.String("sql_processor_id"))))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "get_deployment_targets",
		Description: "Returns the available deployment targets: Kubernetes clusters and Connect clusters.",
		Params:      map[string]Param{"environment": envParam},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet,
				proxyPath(args.String("environment"), "/api/v1/deployment/targets"))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "get_pod_logs",
		Description: "Returns the logs of a running Kubernetes pod backing a SQL processor.",
		Params: map[string]Param{
			"environment": envParam,
			"cluster":     {Type: TypeString, Required: true, Description: "Pod's cluster name."},
			"namespace":   {Type: TypeString, Required: true, Description: "Pod's namespace."},
			"pod":         {Type: TypeString, Required: true, Description: "Pod's name."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet,
				proxyPath(args.String("environment"),
					"/api/v1/k8s/logs/"+seg(args.String("cluster"))+"/"+seg(args.String("namespace"))+
						"/"+seg(args.String("pod"))+"/download"))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})
}
