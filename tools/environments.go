package tools

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/dimosr/lenses-mcp/client"
)

var environmentNameRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// RegisterEnvironments adds the environment management tools.
func RegisterEnvironments(r *Registry, api client.Doer) {
	r.MustRegister(Definition{
		Name:        "list_environments",
		Description: "Lists all environments with their status, metrics, and metadata.",
		Params:      map[string]Param{},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet, "/api/v1/environments")
			if err != nil {
				return nil, err
			}
			var body struct {
				Items []any `json:"items"`
			}
			if err := resp.Decode(&body); err != nil {
				return nil, err
			}
			if body.Items == nil {
				body.Items = []any{}
			}
			return body.Items, nil
		},
	})

	r.MustRegister(Definition{
		Name:        "list_environment_names",
		Description: "Returns a plain list of all environment names.",
		Params:      map[string]Param{},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet, "/api/v1/environments")
			if err != nil {
				return nil, err
			}
			var body struct {
				Items []struct {
					Name string `json:"name"`
				} `json:"items"`
			}
			if err := resp.Decode(&body); err != nil {
				return nil, err
			}
			names := make([]string, 0, len(body.Items))
			for _, item := range body.Items {
				names = append(names, item.Name)
			}
			return names, nil
		},
	})

	r.MustRegister(Definition{
		Name:        "get_environment",
		Description: "Retrieves a single environment by name, including status, metrics, and metadata.",
		Params: map[string]Param{
			"name": {Type: TypeString, Required: true, Description: "The name of the environment."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet, "/api/v1/environments/"+seg(args.String("name")))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "create_environment",
		Description: "Creates a new environment. Returns the created environment including the agent_key for setup.",
		Params: map[string]Param{
			"name": {Type: TypeString, Required: true,
				Description: "Environment name: lowercase alphanumeric or hyphens, max 63 chars."},
			"display_name": {Type: TypeString, Description: "Display name; defaults to the name."},
			"tier": {Type: TypeString, Default: "development",
				Enum:        []string{"development", "staging", "production"},
				Description: "Environment tier."},
			"metadata": {Type: TypeObject, Description: "Additional metadata as key-value pairs."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			name := args.String("name")
			if !environmentNameRe.MatchString(name) {
				return nil, ArgErrorf("environment name %q must be lowercase alphanumeric or hyphens, not start or end with a hyphen, max 63 chars", name)
			}

			payload := map[string]any{
				"name": name,
				"tier": args.String("tier"),
			}
			if v := args.String("display_name"); v != "" {
				payload["display_name"] = v
			}
			if v := args.Object("metadata"); v != nil {
				payload["metadata"] = v
			}

			resp, err := api.Request(ctx, http.MethodPost, "/api/v1/environments", client.WithBody(payload))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "update_environment",
		Description: "Updates an environment's display name, tier, or metadata. At least one field must be provided.",
		Params: map[string]Param{
			"name":         {Type: TypeString, Required: true, Description: "The name of the environment to update."},
			"display_name": {Type: TypeString, Description: "New display name."},
			"tier": {Type: TypeString, Enum: []string{"development", "staging", "production"},
				Description: "New tier."},
			"metadata": {Type: TypeObject, Description: "New metadata as key-value pairs."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			payload := map[string]any{}
			if args.Has("display_name") {
				payload["display_name"] = args.String("display_name")
			}
			if args.Has("tier") {
				payload["tier"] = args.String("tier")
			}
			if args.Has("metadata") {
				payload["metadata"] = args.Object("metadata")
			}
			if len(payload) == 0 {
				return nil, ArgErrorf("at least one of display_name, tier, or metadata must be provided")
			}

			resp, err := api.Request(ctx, http.MethodPatch, "/api/v1/environments/"+seg(args.String("name")), client.WithBody(payload))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "delete_environment",
		Description: "Deletes an environment.",
		Params: map[string]Param{
			"name": {Type: TypeString, Required: true, Description: "The name of the environment to delete."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodDelete, "/api/v1/environments/"+seg(args.String("name")))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "get_environment_metrics",
		Description: "Retrieves the agent-reported metrics of an environment: Kafka, data, apps, and connect statistics.",
		Params: map[string]Param{
			"name": {Type: TypeString, Required: true, Description: "The name of the environment."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			name := args.String("name")
			resp, err := api.Request(ctx, http.MethodGet, "/api/v1/environments/"+seg(name))
			if err != nil {
				return nil, err
			}
			var env struct {
				Status envStatus `json:"status"`
			}
			if err := resp.Decode(&env); err != nil {
				return nil, err
			}
			if env.Status.Agent == nil {
				return map[string]any{"error": "no metrics available - agent not connected"}, nil
			}
			return map[string]any{
				"environment":        name,
				"agent_connected":    env.Status.AgentConnected,
				"last_updated":       env.Status.Agent.UpdatedAt,
				"roundtrip_duration": env.Status.Agent.RoundtripDuration,
				"agent_info":         env.Status.Agent.Info,
				"metrics":            env.Status.Agent.Metrics,
			}, nil
		},
	})

	r.MustRegister(Definition{
		Name:        "check_environment_health",
		Description: "Checks the health of an environment: agent connection, open issues, and summary metrics.",
		Params: map[string]Param{
			"name": {Type: TypeString, Required: true, Description: "The name of the environment to check."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			name := args.String("name")
			resp, err := api.Request(ctx, http.MethodGet, "/api/v1/environments/"+seg(name))
			if err != nil {
				return nil, err
			}
			var env struct {
				Status envStatus `json:"status"`
			}
			if err := resp.Decode(&env); err != nil {
				return nil, err
			}
			var metrics map[string]map[string]any
			if env.Status.Agent != nil {
				metrics = env.Status.Agent.Metrics
			}
			return summarizeHealth(name, env.Status.AgentConnected, metrics), nil
		},
	})
}

type envStatus struct {
	AgentConnected bool      `json:"agent_connected"`
	Agent          *envAgent `json:"agent"`
}

type envAgent struct {
	UpdatedAt         any                       `json:"updated_at"`
	RoundtripDuration any                       `json:"roundtrip_duration"`
	Info              any                       `json:"agent"`
	Metrics           map[string]map[string]any `json:"metrics"`
}

// summarizeHealth condenses an environment's agent status into a compact
// health report for the agent.
func summarizeHealth(name string, connected bool, metrics map[string]map[string]any) map[string]any {
	health := map[string]any{
		"environment":     name,
		"healthy":         false,
		"agent_connected": connected,
		"issues":          []string{},
	}
	if !connected || metrics == nil {
		return health
	}

	issues := []string{}
	if n := metricNumber(metrics, "other", "num_issues"); n > 0 {
		issues = append(issues, fmt.Sprintf("found %d issues", int(n)))
	}
	health["issues"] = issues
	health["healthy"] = len(issues) == 0
	health["summary"] = map[string]any{
		"kafka_brokers": int(metricNumber(metrics, "kafka", "num_brokers")),
		"topics":        int(metricNumber(metrics, "data", "num_topics")),
		"consumers":     int(metricNumber(metrics, "apps", "num_consumers")),
		"connectors":    int(metricNumber(metrics, "connect", "num_connectors")),
	}
	return health
}

func metricNumber(metrics map[string]map[string]any, group, key string) float64 {
	g, ok := metrics[group]
	if !ok {
		return 0
	}
	n, _ := g[key].(float64)
	return n
}
