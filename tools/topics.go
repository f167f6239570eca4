package tools

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dimosr/lenses-mcp/client"
)

// RegisterTopics adds the Kafka topic, topic metadata, and dataset tools.
func RegisterTopics(r *Registry, api client.Doer) {
	envParam := Param{Type: TypeString, Required: true, Description: "The environment name."}
	topicParam := Param{Type: TypeString, Required: true, Description: "Name of the topic."}

	r.MustRegister(Definition{
		Name:        "list_topics",
		Description: "Retrieves information about all Kafka topics in an environment.",
		Params:      map[string]Param{"environment": envParam},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet, proxyPath(args.String("environment"), "/api/topics"))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "get_topic",
		Description: "Retrieves a single topic with partitions, consumers, and configuration.",
		Params:      map[string]Param{"environment": envParam, "topic_name": topicParam},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet,
				proxyPath(args.String("environment"), "/api/topics/"+seg(args.String("topic_name"))))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "get_topic_partitions",
		Description: "Retrieves partition details for a topic: leader, replicas, message and byte counts.",
		Params:      map[string]Param{"environment": envParam, "topic_name": topicParam},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet,
				proxyPath(args.String("environment"), "/api/v2/topics/"+seg(args.String("topic_name"))+"/partitions"))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "create_topic",
		Description: "Creates a new Kafka topic.",
		Params: map[string]Param{
			"environment": envParam,
			"topic_name":  {Type: TypeString, Required: true, Description: "Name of the topic to create."},
			"partitions":  {Type: TypeNumber, Default: float64(1), Description: "Number of partitions."},
			"replication": {Type: TypeNumber, Default: float64(1), Description: "Replication factor."},
			"configs":     {Type: TypeObject, Description: "Additional topic configuration key-value pairs."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			payload := map[string]any{
				"topicName":   args.String("topic_name"),
				"partitions":  args.Int("partitions"),
				"replication": args.Int("replication"),
			}
			if v := args.Object("configs"); v != nil {
				payload["configs"] = v
			}
			resp, err := api.Request(ctx, http.MethodPost,
				proxyPath(args.String("environment"), "/api/topics"), client.WithBody(payload))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "create_topic_advanced",
		Description: "Creates a new Kafka topic with key/value format and schema configuration.",
		Params: map[string]Param{
			"environment": envParam,
			"name":        {Type: TypeString, Required: true, Description: "Name of the topic to create."},
			"partitions":  {Type: TypeNumber, Default: float64(1), Description: "Number of partitions."},
			"replication": {Type: TypeNumber, Default: float64(1), Description: "Replication factor."},
			"configs":     {Type: TypeObject, Description: "Additional topic configuration key-value pairs."},
			"key_format": {Type: TypeString,
				Description: "Key format: AVRO, JSON, CSV, XML, INT, LONG, STRING, BYTES."},
			"key_schema":   {Type: TypeString, Description: "Key schema; required for AVRO, JSON, CSV, XML keys."},
			"value_format": {Type: TypeString, Description: "Value format."},
			"value_schema": {Type: TypeString, Description: "Value schema."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			payload := map[string]any{
				"name":        args.String("name"),
				"partitions":  args.Int("partitions"),
				"replication": args.Int("replication"),
			}
			if v := args.Object("configs"); v != nil {
				payload["configs"] = v
			}
			format := map[string]any{}
			if v := args.String("key_format"); v != "" {
				key := map[string]any{"format": v}
				if s := args.String("key_schema"); s != "" {
					key["schema"] = s
				}
				format["key"] = key
			}
			if v := args.String("value_format"); v != "" {
				value := map[string]any{"format": v}
				if s := args.String("value_schema"); s != "" {
					value["schema"] = s
				}
				format["value"] = value
			}
			if len(format) > 0 {
				payload["format"] = format
			}
			resp, err := api.Request(ctx, http.MethodPost,
				proxyPath(args.String("environment"), "/api/v1/kafka/topic"), client.WithBody(payload))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "delete_topic",
		Description: "Deletes a Kafka topic.",
		Params:      map[string]Param{"environment": envParam, "topic_name": topicParam},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodDelete,
				proxyPath(args.String("environment"), "/api/topics/"+seg(args.String("topic_name"))))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "update_topic_config",
		Description: "Updates topic configuration entries, e.g. retention.ms.",
		Params: map[string]Param{
			"environment": envParam,
			"topic_name":  topicParam,
			"configs": {Type: TypeArray, Required: true, Items: TypeObject,
				Description: `Config entries as [{"key": "retention.ms", "value": "86400000"}].`},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			payload := map[string]any{"configs": args.Slice("configs")}
			resp, err := api.Request(ctx, http.MethodPut,
				proxyPath(args.String("environment"), "/api/configs/topics/"+seg(args.String("topic_name"))),
				client.WithBody(payload))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "add_topic_partitions",
		Description: "Raises a topic's partition count to a new total.",
		Params: map[string]Param{
			"environment": envParam,
			"topic_name":  topicParam,
			"partitions":  {Type: TypeNumber, Required: true, Description: "New total number of partitions."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			payload := map[string]any{"partitions": args.Int("partitions")}
			resp, err := api.Request(ctx, http.MethodPut,
				proxyPath(args.String("environment"), "/api/v1/kafka/topics/"+seg(args.String("topic_name"))+"/partitions"),
				client.WithBody(payload))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "get_topic_broker_configs",
		Description: "Retrieves the broker configurations of a topic.",
		Params:      map[string]Param{"environment": envParam, "topic_name": topicParam},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet,
				proxyPath(args.String("environment"), "/api/topics/"+seg(args.String("topic_name"))+"/brokerConfigs"))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "resend_message",
		Description: "Resends a single Kafka message identified by topic, partition, and offset.",
		Params: map[string]Param{
			"environment": envParam,
			"topic_name":  topicParam,
			"partition":   {Type: TypeNumber, Required: true, Description: "Kafka partition number."},
			"offset":      {Type: TypeNumber, Required: true, Description: "Kafka offset."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodPut,
				proxyPath(args.String("environment"),
					"/api/topics/"+seg(args.String("topic_name"))+"/"+strconv.Itoa(args.Int("partition"))+
						"/"+strconv.Itoa(args.Int("offset"))+"/resend"))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "delete_message",
		Description: "Deletes a single Kafka message identified by topic, partition, and offset.",
		Params: map[string]Param{
			"environment": envParam,
			"topic_name":  topicParam,
			"partition":   {Type: TypeNumber, Required: true, Description: "Kafka partition number."},
			"offset":      {Type: TypeNumber, Required: true, Description: "Kafka offset."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodDelete,
				proxyPath(args.String("environment"),
					"/api/topics/"+seg(args.String("topic_name"))+"/"+strconv.Itoa(args.Int("partition"))+
						"/"+strconv.Itoa(args.Int("offset"))))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	registerTopicMetadata(r, api, envParam, topicParam)
	registerDatasets(r, api, envParam)
}

func registerTopicMetadata(r *Registry, api client.Doer, envParam, topicParam Param) {
	r.MustRegister(Definition{
		Name:        "list_topic_metadata",
		Description: "Lists metadata for all topics: schemas, descriptions, and tags.",
		Params:      map[string]Param{"environment": envParam},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet, proxyPath(args.String("environment"), "/api/metadata/topics"))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "get_topic_metadata",
		Description: "Retrieves metadata for a single topic.",
		Params:      map[string]Param{"environment": envParam, "topic_name": topicParam},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet,
				proxyPath(args.String("environment"), "/api/metadata/topics/"+seg(args.String("topic_name"))))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "create_topic_metadata",
		Description: "Creates or updates the metadata of a topic: types, schemas, description, and tags.",
		Params: map[string]Param{
			"environment":          envParam,
			"topic_name":           topicParam,
			"key_type":             {Type: TypeString, Description: "Key data type."},
			"value_type":           {Type: TypeString, Description: "Value data type."},
			"key_schema":           {Type: TypeString, Description: "Key schema reference."},
			"key_schema_version":   {Type: TypeNumber, Description: "Key schema version."},
			"key_schema_inlined":   {Type: TypeString, Description: "Inlined key schema."},
			"value_schema":         {Type: TypeString, Description: "Value schema reference."},
			"value_schema_version": {Type: TypeNumber, Description: "Value schema version."},
			"value_schema_inlined": {Type: TypeString, Description: "Inlined value schema."},
			"description":          {Type: TypeString, Description: "Topic description."},
			"tags":                 {Type: TypeArray, Description: "Tag names."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			payload := map[string]any{"topicName": args.String("topic_name")}
			for arg, field := range map[string]string{
				"key_type":             "keyType",
				"value_type":           "valueType",
				"key_schema":           "keySchema",
				"key_schema_inlined":   "keySchemaInlined",
				"value_schema":         "valueSchema",
				"value_schema_inlined": "valueSchemaInlined",
				"description":          "description",
			} {
				if v := args.String(arg); v != "" {
					payload[field] = v
				}
			}
			if args.Has("key_schema_version") {
				payload["keySchemaVersion"] = args.Int("key_schema_version")
			}
			if args.Has("value_schema_version") {
				payload["valueSchemaVersion"] = args.Int("value_schema_version")
			}
			if v := args.StringSlice("tags"); len(v) > 0 {
				payload["tags"] = v
			}
			resp, err := api.Request(ctx, http.MethodPost,
				proxyPath(args.String("environment"), "/api/v1/metadata/topics"), client.WithBody(payload))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "delete_topic_metadata",
		Description: "Deletes the metadata of a topic.",
		Params:      map[string]Param{"environment": envParam, "topic_name": topicParam},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodDelete,
				proxyPath(args.String("environment"), "/api/metadata/topics/"+seg(args.String("topic_name"))))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})
}

func registerDatasets(r *Registry, api client.Doer, envParam Param) {
	r.MustRegister(Definition{
		Name:        "list_datasets",
		Description: "Retrieves a paginated list of datasets (topics and other data sources) with optional search and filters.",
		Params: map[string]Param{
			"environment": envParam,
			"page":        {Type: TypeNumber, Default: float64(1), Description: "Page number."},
			"page_size":   {Type: TypeNumber, Default: float64(25), Description: "Items per page."},
			"search":      {Type: TypeString, Description: "Search keyword across dataset names, fields, and descriptions."},
			"connections": {Type: TypeArray, Description: "Connection names to filter by."},
			"tags":        {Type: TypeArray, Description: "Tag names to filter by."},
			"sort_field":  {Type: TypeString, Description: "Field to sort results by."},
			"sort_order": {Type: TypeString, Default: "asc", Enum: []string{"asc", "desc"},
				Description: "Sorting order."},
			"include_system": {Type: TypeBoolean, Default: false, Description: "Include system entities."},
			"has_records":    {Type: TypeBoolean, Description: "Only datasets that do (or do not) hold records."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			opts := []client.RequestOption{
				client.WithQuery("page", strconv.Itoa(args.Int("page"))),
				client.WithQuery("pageSize", strconv.Itoa(args.Int("page_size"))),
				client.WithQuery("sortOrder", args.String("sort_order")),
				client.WithQuery("includeSystemEntities", strconv.FormatBool(args.Bool("include_system"))),
			}
			if v := args.String("search"); v != "" {
				opts = append(opts, client.WithQuery("search", v))
			}
			if v := args.StringSlice("connections"); len(v) > 0 {
				opts = append(opts, client.WithQuery("connections", v...))
			}
			if v := args.StringSlice("tags"); len(v) > 0 {
				opts = append(opts, client.WithQuery("tags", v...))
			}
			if v := args.String("sort_field"); v != "" {
				opts = append(opts, client.WithQuery("sortField", v))
			}
			if args.Has("has_records") {
				opts = append(opts, client.WithQuery("hasRecords", strconv.FormatBool(args.Bool("has_records"))))
			}

			resp, err := api.Request(ctx, http.MethodGet,
				proxyPath(args.String("environment"), "/api/v1/datasets"), opts...)
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "get_dataset",
		Description: "Retrieves a single dataset by connection and name, including fields, policies, and metadata.",
		Params: map[string]Param{
			"environment": envParam,
			"connection":  {Type: TypeString, Required: true, Description: `The connection name, e.g. "kafka".`},
			"dataset":     {Type: TypeString, Required: true, Description: "The dataset name."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet,
				proxyPath(args.String("environment"),
					"/api/v1/datasets/"+seg(args.String("connection"))+"/"+seg(args.String("dataset"))))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "get_dataset_message_metrics",
		Description: "Retrieves ranged message metrics for a Kafka dataset: dates and message counts.",
		Params: map[string]Param{
			"environment": envParam,
			"entity_name": {Type: TypeString, Required: true, Description: "The dataset's entity name."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			resp, err := api.Request(ctx, http.MethodGet,
				proxyPath(args.String("environment"),
					"/api/v1/datasets/kafka/"+seg(args.String("entity_name"))+"/messages/metrics"))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "bulk_delete_datasets",
		Description: "Deletes multiple datasets at once by ID, reporting success or failure per dataset.",
		Params: map[string]Param{
			"environment": envParam,
			"dataset_ids": {Type: TypeArray, Required: true,
				Description: `Dataset IDs to delete, e.g. ["kafka://topic1", "kafka://topic2"].`},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			ids := args.StringSlice("dataset_ids")
			items := make([]map[string]string, 0, len(ids))
			for _, id := range ids {
				items = append(items, map[string]string{"id": id})
			}
			resp, err := api.Request(ctx, http.MethodPost,
				proxyPath(args.String("environment"), "/api/v1/bulk/datasets/delete"),
				client.WithBody(map[string]any{"items": items}))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "set_dataset_description",
		Description: "Sets the description of a dataset.",
		Params: map[string]Param{
			"environment":  envParam,
			"connection":   {Type: TypeString, Required: true, Description: `The connection name, e.g. "kafka".`},
			"dataset_name": {Type: TypeString, Required: true, Description: "The dataset name."},
			"description":  {Type: TypeString, Required: true, Description: "The description to set."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			description := args.String("description")
			if strings.TrimSpace(description) == "" {
				return nil, ArgErrorf("description cannot be blank")
			}
			resp, err := api.Request(ctx, http.MethodPut,
				proxyPath(args.String("environment"),
					"/api/v1/datasets/"+seg(args.String("connection"))+"/"+seg(args.String("dataset_name"))+"/description"),
				client.WithBody(map[string]any{"description": description}))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})

	r.MustRegister(Definition{
		Name:        "add_dataset_tags",
		Description: "Adds one or more tags to a dataset.",
		Params: map[string]Param{
			"environment":  envParam,
			"connection":   {Type: TypeString, Required: true, Description: `The connection name, e.g. "kafka".`},
			"dataset_name": {Type: TypeString, Required: true, Description: "The dataset name."},
			"tags":         {Type: TypeArray, Required: true, Description: "Tag names to add."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			names := args.StringSlice("tags")
			tags := make([]map[string]string, 0, len(names))
			for _, name := range names {
				tags = append(tags, map[string]string{"name": name})
			}
			resp, err := api.Request(ctx, http.MethodPut,
				proxyPath(args.String("environment"),
					"/api/v1/datasets/"+seg(args.String("connection"))+"/"+seg(args.String("dataset_name"))+"/tags"),
				client.WithBody(map[string]any{"tags": tags}))
			if err != nil {
				return nil, err
			}
			return resp.JSON()
		},
	})
}
