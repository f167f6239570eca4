package tools

import (
	"context"
	"net/http"
	"testing"
)

func TestRegisterTopics_ToolSet(t *testing.T) {
	api, _ := platformStub(t, http.StatusOK, `{}`)
	r := NewRegistry()
	RegisterTopics(r, api)

	for _, name := range []string{
		"list_topics", "get_topic", "get_topic_partitions", "create_topic",
		"create_topic_advanced", "delete_topic", "update_topic_config",
		"get_topic_broker_configs", "add_topic_partitions",
		"resend_message", "delete_message",
		"list_topic_metadata", "get_topic_metadata", "create_topic_metadata",
		"delete_topic_metadata",
		"list_datasets", "get_dataset", "get_dataset_message_metrics",
		"set_dataset_description", "add_dataset_tags", "bulk_delete_datasets",
	} {
		if _, found := r.Lookup(name); !found {
			t.Errorf("tool %q not registered", name)
		}
	}
}

func TestListTopics_PassthroughPayload(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `{"topics": ["orders", "payments"]}`)
	r := NewRegistry()
	RegisterTopics(r, api)

	def, _ := r.Lookup("list_topics")
	result, err := def.Handler(context.Background(), Args{"environment": "dev"})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	if captured.Path != "/api/v1/environments/dev/proxy/api/topics" {
		t.Errorf("path = %q", captured.Path)
	}

	m := result.(map[string]any)
	topics := m["topics"].([]any)
	if len(topics) != 2 || topics[0] != "orders" || topics[1] != "payments" {
		t.Errorf("result = %v, want the platform payload unmodified", result)
	}
}

func TestCreateTopic_DefaultsAndConfigs(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `{"topicName": "orders"}`)
	r := NewRegistry()
	RegisterTopics(r, api)

	def, _ := r.Lookup("create_topic")
	_, err := def.Handler(context.Background(), Args{
		"environment": "dev",
		"topic_name":  "orders",
		"partitions":  float64(6),
		"replication": float64(3),
		"configs":     map[string]any{"cleanup.policy": "compact"},
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	if captured.Method != http.MethodPost {
		t.Errorf("method = %s, want POST", captured.Method)
	}
	body := captured.Body.(map[string]any)
	if body["topicName"] != "orders" || body["partitions"] != float64(6) || body["replication"] != float64(3) {
		t.Errorf("body = %v", body)
	}
	configs := body["configs"].(map[string]any)
	if configs["cleanup.policy"] != "compact" {
		t.Errorf("configs = %v", configs)
	}
}

func TestCreateTopicAdvanced_FormatPayload(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `{}`)
	r := NewRegistry()
	RegisterTopics(r, api)

	def, _ := r.Lookup("create_topic_advanced")
	_, err := def.Handler(context.Background(), Args{
		"environment":  "dev",
		"name":         "orders-avro",
		"partitions":   float64(3),
		"replication":  float64(2),
		"key_format":   "STRING",
		"value_format": "AVRO",
		"value_schema": `{"type": "record"}`,
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	if captured.Method != http.MethodPost || captured.Path != "/api/v1/environments/dev/proxy/api/v1/kafka/topic" {
		t.Errorf("request = %s %s", captured.Method, captured.Path)
	}
	body := captured.Body.(map[string]any)
	if body["name"] != "orders-avro" || body["partitions"] != float64(3) {
		t.Errorf("body = %v", body)
	}
	format := body["format"].(map[string]any)
	key := format["key"].(map[string]any)
	if key["format"] != "STRING" {
		t.Errorf("key format = %v", key)
	}
	if _, present := key["schema"]; present {
		t.Error("key schema should be omitted when not supplied")
	}
	value := format["value"].(map[string]any)
	if value["format"] != "AVRO" || value["schema"] != `{"type": "record"}` {
		t.Errorf("value format = %v", value)
	}
}

func TestCreateTopicAdvanced_NoFormatOmitted(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `{}`)
	r := NewRegistry()
	RegisterTopics(r, api)

	def, _ := r.Lookup("create_topic_advanced")
	_, err := def.Handler(context.Background(), Args{
		"environment": "dev",
		"name":        "plain",
		"partitions":  float64(1),
		"replication": float64(1),
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	body := captured.Body.(map[string]any)
	if _, present := body["format"]; present {
		t.Error("format should be omitted without key or value formats")
	}
}

func TestResendMessage_PartitionAndOffsetInPath(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `{}`)
	r := NewRegistry()
	RegisterTopics(r, api)

	def, _ := r.Lookup("resend_message")
	_, err := def.Handler(context.Background(), Args{
		"environment": "dev",
		"topic_name":  "orders",
		"partition":   float64(1),
		"offset":      float64(42),
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	want := "/api/v1/environments/dev/proxy/api/topics/orders/1/42/resend"
	if captured.Method != http.MethodPut || captured.Path != want {
		t.Errorf("request = %s %s, want PUT %s", captured.Method, captured.Path, want)
	}
}

func TestDeleteMessage_Path(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `{}`)
	r := NewRegistry()
	RegisterTopics(r, api)

	def, _ := r.Lookup("delete_message")
	_, err := def.Handler(context.Background(), Args{
		"environment": "dev",
		"topic_name":  "orders",
		"partition":   float64(1),
		"offset":      float64(42),
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	want := "/api/v1/environments/dev/proxy/api/topics/orders/1/42"
	if captured.Method != http.MethodDelete || captured.Path != want {
		t.Errorf("request = %s %s, want DELETE %s", captured.Method, captured.Path, want)
	}
}

func TestGetTopicBrokerConfigs_Path(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `[]`)
	r := NewRegistry()
	RegisterTopics(r, api)

	def, _ := r.Lookup("get_topic_broker_configs")
	_, err := def.Handler(context.Background(), Args{"environment": "dev", "topic_name": "orders"})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if captured.Path != "/api/v1/environments/dev/proxy/api/topics/orders/brokerConfigs" {
		t.Errorf("path = %q", captured.Path)
	}
}

func TestCreateTopicMetadata_Payload(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `{}`)
	r := NewRegistry()
	RegisterTopics(r, api)

	def, _ := r.Lookup("create_topic_metadata")
	_, err := def.Handler(context.Background(), Args{
		"environment":          "dev",
		"topic_name":           "orders",
		"value_type":           "AVRO",
		"value_schema_version": float64(2),
		"description":          "order events",
		"tags":                 []any{"core"},
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	if captured.Method != http.MethodPost || captured.Path != "/api/v1/environments/dev/proxy/api/v1/metadata/topics" {
		t.Errorf("request = %s %s", captured.Method, captured.Path)
	}
	body := captured.Body.(map[string]any)
	if body["topicName"] != "orders" || body["valueType"] != "AVRO" || body["description"] != "order events" {
		t.Errorf("body = %v", body)
	}
	if body["valueSchemaVersion"] != float64(2) {
		t.Errorf("valueSchemaVersion = %v, want 2", body["valueSchemaVersion"])
	}
	if _, present := body["keyType"]; present {
		t.Error("keyType should be omitted when not supplied")
	}
}

func TestGetDataset_Path(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `{}`)
	r := NewRegistry()
	RegisterTopics(r, api)

	def, _ := r.Lookup("get_dataset")
	_, err := def.Handler(context.Background(), Args{
		"environment": "dev",
		"connection":  "kafka",
		"dataset":     "orders",
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if captured.Path != "/api/v1/environments/dev/proxy/api/v1/datasets/kafka/orders" {
		t.Errorf("path = %q", captured.Path)
	}
}

func TestGetDatasetMessageMetrics_Path(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `[]`)
	r := NewRegistry()
	RegisterTopics(r, api)

	def, _ := r.Lookup("get_dataset_message_metrics")
	_, err := def.Handler(context.Background(), Args{"environment": "dev", "entity_name": "orders"})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if captured.Path != "/api/v1/environments/dev/proxy/api/v1/datasets/kafka/orders/messages/metrics" {
		t.Errorf("path = %q", captured.Path)
	}
}

func TestBulkDeleteDatasets_WrapsIDs(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `{}`)
	r := NewRegistry()
	RegisterTopics(r, api)

	def, _ := r.Lookup("bulk_delete_datasets")
	_, err := def.Handler(context.Background(), Args{
		"environment": "dev",
		"dataset_ids": []any{"kafka://topic1", "kafka://topic2"},
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	if captured.Method != http.MethodPost || captured.Path != "/api/v1/environments/dev/proxy/api/v1/bulk/datasets/delete" {
		t.Errorf("request = %s %s", captured.Method, captured.Path)
	}
	body := captured.Body.(map[string]any)
	items := body["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("items = %v, want 2", items)
	}
	first := items[0].(map[string]any)
	if first["id"] != "kafka://topic1" {
		t.Errorf("first item = %v, want {id: kafka://topic1}", first)
	}
}

func TestDeleteTopic_EscapesName(t *testing.T) {
	api, captured := platformStub(t, http.StatusNoContent, "")
	r := NewRegistry()
	RegisterTopics(r, api)

	def, _ := r.Lookup("delete_topic")
	result, err := def.Handler(context.Background(), Args{"environment": "dev", "topic_name": "a/b"})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if captured.Method != http.MethodDelete {
		t.Errorf("method = %s, want DELETE", captured.Method)
	}
	// httptest decodes %2F back to /, so assert on the synthetic result
	m := result.(map[string]any)
	if m["success"] != true {
		t.Errorf("result = %v, want synthetic success for 204", result)
	}
}

func TestListDatasets_QueryParameters(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `{"values": []}`)
	r := NewRegistry()
	RegisterTopics(r, api)

	def, _ := r.Lookup("list_datasets")
	_, err := def.Handler(context.Background(), Args{
		"environment":    "dev",
		"page":           float64(2),
		"page_size":      float64(50),
		"sort_order":     "desc",
		"include_system": false,
		"search":         "orders",
		"tags":           []any{"pii", "core"},
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	q := captured.Query
	if got := q["page"]; len(got) != 1 || got[0] != "2" {
		t.Errorf("page = %v", got)
	}
	if got := q["pageSize"]; len(got) != 1 || got[0] != "50" {
		t.Errorf("pageSize = %v", got)
	}
	if got := q["sortOrder"]; len(got) != 1 || got[0] != "desc" {
		t.Errorf("sortOrder = %v", got)
	}
	if got := q["search"]; len(got) != 1 || got[0] != "orders" {
		t.Errorf("search = %v", got)
	}
	if got := q["tags"]; len(got) != 2 {
		t.Errorf("tags = %v, want repeated values", got)
	}
}

func TestSetDatasetDescription_RejectsBlank(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `{}`)
	r := NewRegistry()
	RegisterTopics(r, api)

	def, _ := r.Lookup("set_dataset_description")
	_, err := def.Handler(context.Background(), Args{
		"environment":  "dev",
		"connection":   "kafka",
		"dataset_name": "orders",
		"description":  "   ",
	})
	if err == nil {
		t.Error("blank description should fail")
	}
	if captured.Method != "" {
		t.Error("blank description must not reach the platform")
	}
}

func TestAddDatasetTags_WrapsNames(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `{}`)
	r := NewRegistry()
	RegisterTopics(r, api)

	def, _ := r.Lookup("add_dataset_tags")
	_, err := def.Handler(context.Background(), Args{
		"environment":  "dev",
		"connection":   "kafka",
		"dataset_name": "orders",
		"tags":         []any{"pii", "core"},
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	body := captured.Body.(map[string]any)
	tags := body["tags"].([]any)
	if len(tags) != 2 {
		t.Fatalf("tags = %v, want 2", tags)
	}
	first := tags[0].(map[string]any)
	if first["name"] != "pii" {
		t.Errorf("first tag = %v, want {name: pii}", first)
	}
}
