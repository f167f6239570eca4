package tools

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dimosr/lenses-mcp/client"
)

// RegisterConnectors adds the Kafka Connect tools.
func RegisterConnectors(r *Registry, api client.Doer) {
	envParam := Param{Type: TypeString, Required: true, Description: "The environment name."}
	clusterParam := Param{Type: TypeString, Required: true, Description: "The Connect cluster name."}
	connectorParam := Param{Type: TypeString, Required: true, Description: "The connector name."}

	r.MustRegister(Definition{
		Name:        "list_kafka_connectors",
		Description: "Retrieves all Kafka connectors, optionally filtered by cluster or connector class.",
		Params: map[string]Param{
			"environment": envParam,
			"cluster":     {Type: TypeArray, Description: "Cluster names to filter by."},
			"class_name":  {Type: TypeArray, Description: "Connector class names to filter by."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			var opts []client.RequestOption
			if v := args.StringSlice("cluster"); len(v) > 0 {
				opts = append(opts, client.WithQuery("cluster", v...))
			}
			if v := args.StringSlice("class_name"); len(v) > 0 {
				opts = append(opts, client.WithQuery("className", v...))
			}
			resp, err := api.Request(ctx, http.MethodGet,
				proxyPath(args.String("environment"), "/api/kafka-connect/connectors"), opts...)
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "get_kafka_connector_target_definition",
		Description: "Fetches the current target definition of a Kafka connector as YAML.",
		Params: map[string]Param{
			"environment": envParam,
			"cluster":     clusterParam,
			"connector":   connectorParam,
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet,
				proxyPath(args.String("environment"),
					"/api/v1/resource/kafka/connect/"+seg(args.String("cluster"))+
						"/connector/"+seg(args.String("connector"))))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "create_kafka_connector",
		Description: "Creates a new Kafka connector on a Connect cluster.",
		Params: map[string]Param{
			"environment":   envParam,
			"name":          {Type: TypeString, Required: true, Description: "The name of the connector."},
			"cluster":       clusterParam,
			"configuration": {Type: TypeObject, Required: true, Description: "The connector configuration."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			payload := map[string]any{
				"name":          args.String("name"),
				"cluster":       args.String("cluster"),
				"configuration": args.Object("configuration"),
			}
			resp, err := api.Request(ctx, http.MethodPost,
				proxyPath(args.String("environment"), "/api/kafka-connect/connectors"),
				client.WithBody(payload))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "set_connector_action",
		Description: "Controls a Kafka connector: start, stop, restart, pause, or resume.",
		Params: map[string]Param{
			"environment": envParam,
			"cluster":     clusterParam,
			"connector":   connectorParam,
			"action": {Type: TypeString, Required: true,
				Enum:        []string{"start", "stop", "restart", "pause", "resume"},
				Description: "The action to perform."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodPut,
				proxyPath(args.String("environment"),
					"/api/kafka-connect/clusters/"+seg(args.String("cluster"))+
						"/connectors/"+seg(args.String("connector"))+"/"+args.String("action")))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "restart_connector_task",
		Description: "Restarts a single task of a Kafka connector.",
		Params: map[string]Param{
			"environment": envParam,
			"cluster":     clusterParam,
			"connector":   connectorParam,
			"task_id":     {Type: TypeNumber, Required: true, Description: "The task ID to restart."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodPut,
				proxyPath(args.String("environment"),
					"/api/kafka-connect/clusters/"+seg(args.String("cluster"))+
						"/connectors/"+seg(args.String("connector"))+
						"/tasks/"+strconv.Itoa(args.Int("task_id"))+"/restart"))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "delete_kafka_connector",
		Description: "Deletes a Kafka connector.",
		Params: map[string]Param{
			"environment": envParam,
			"cluster":     clusterParam,
			"connector":   connectorParam,
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodDelete,
				proxyPath(args.String("environment"),
					"/api/kafka-connect/clusters/"+seg(args.String("cluster"))+
						"/connectors/"+seg(args.String("connector"))))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "validate_connector_configuration",
		Description: "Validates a Kafka connector configuration before deployment.",
		Params: map[string]Param{
			"environment":   envParam,
			"name":          {Type: TypeString, Required: true, Description: "The name of the connector."},
			"cluster":       clusterParam,
			"configuration": {Type: TypeObject, Required: true, Description: "The configuration to validate."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			payload := map[string]any{
				"name":          args.String("name"),
				"cluster":       args.String("cluster"),
				"configuration": args.Object("configuration"),
			}
			resp, err := api.Request(ctx, http.MethodPost,
				proxyPath(args.String("environment"), "/api/kafka-connect/validate"),
				client.WithBody(payload))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})
}
