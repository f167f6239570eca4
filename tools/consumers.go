package tools

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dimosr/lenses-mcp/client"
)

// RegisterConsumerGroups adds the Kafka consumer group tools.
func RegisterConsumerGroups(r *Registry, api client.Doer) {
	envParam := Param{Type: TypeString, Required: true, Description: "The environment name."}
	groupParam := Param{Type: TypeString, Required: true, Description: "The consumer group ID."}

	r.MustRegister(Definition{
		Name:        "list_consumer_groups",
		Description: "Retrieves all Kafka consumer groups in an environment.",
		Params:      map[string]Param{"environment": envParam},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet, proxyPath(args.String("environment"), "/api/consumers"))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "list_consumer_groups_by_topic",
		Description: "Retrieves the consumer groups consuming a specific topic.",
		Params: map[string]Param{
			"environment": envParam,
			"topic":       {Type: TypeString, Required: true, Description: "The topic name."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet,
				proxyPath(args.String("environment"), "/api/consumers/"+seg(args.String("topic"))))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "update_consumer_group_offsets",
		Description: "Updates the committed offsets of a consumer group for a set of topic-partitions.",
		Params: map[string]Param{
			"environment": envParam,
			"group_id":    groupParam,
			"offsets": {Type: TypeArray, Required: true, Items: TypeObject,
				Description: "Topic-partition offset objects to apply."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodPut,
				proxyPath(args.String("environment"), "/api/consumers/"+seg(args.String("group_id"))+"/offsets"),
				client.WithBody(args.Slice("offsets")))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "delete_consumer_group_offsets",
		Description: "Deletes the committed offsets of a consumer group for a set of topic-partitions.",
		Params: map[string]Param{
			"environment": envParam,
			"group_id":    groupParam,
			"offsets": {Type: TypeArray, Required: true, Items: TypeObject,
				Description: "Topic-partition objects whose offsets should be deleted."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodPost,
				proxyPath(args.String("environment"), "/api/consumers/"+seg(args.String("group_id"))+"/offsets/delete"),
				client.WithBody(args.Slice("offsets")))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "update_consumer_group_topic_partition_offset",
		Description: "Updates the committed offset of a consumer group for a single topic-partition.",
		Params: map[string]Param{
			"environment": envParam,
			"group_id":    groupParam,
			"topic":       {Type: TypeString, Required: true, Description: "The topic name."},
			"partition":   {Type: TypeNumber, Required: true, Description: "The partition number."},
			"offset":      {Type: TypeNumber, Required: true, Description: "The new offset value."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodPut,
				proxyPath(args.String("environment"),
					"/api/consumers/"+seg(args.String("group_id"))+"/offsets/topics/"+seg(args.String("topic"))+
						"/partitions/"+strconv.Itoa(args.Int("partition"))),
				client.WithBody(map[string]any{"offset": args.Int("offset")}))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "delete_consumer_group_topic_partition_offset",
		Description: "Deletes the committed offset of a consumer group for a single topic-partition.",
		Params: map[string]Param{
			"environment": envParam,
			"group_id":    groupParam,
			"topic":       {Type: TypeString, Required: true, Description: "The topic name."},
			"partition":   {Type: TypeNumber, Required: true, Description: "The partition number."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodDelete,
				proxyPath(args.String("environment"),
					"/api/consumers/"+seg(args.String("group_id"))+"/topics/"+seg(args.String("topic"))+
						"/partitions/"+strconv.Itoa(args.Int("partition"))+"/offsets"))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "delete_consumer_group",
		Description: "Deletes a consumer group.",
		Params:      map[string]Param{"environment": envParam, "group_id": groupParam},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodDelete,
				proxyPath(args.String("environment"), "/api/consumers/"+seg(args.String("group_id"))))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})
}
