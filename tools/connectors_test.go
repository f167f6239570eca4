package tools

import (
	"context"
	"net/http"
	"testing"
)

func TestRegisterConnectors_ToolSet(t *testing.T) {
	api, _ := platformStub(t, http.StatusOK, `{}`)
	r := NewRegistry()
	RegisterConnectors(r, api)

	for _, name := range []string{
		"list_kafka_connectors", "get_kafka_connector_target_definition",
		"create_kafka_connector", "set_connector_action",
		"restart_connector_task", "delete_kafka_connector", "validate_connector_configuration",
	} {
		if _, found := r.Lookup(name); !found {
			t.Errorf("tool %q not registered", name)
		}
	}
}

func TestGetConnectorTargetDefinition_RawYAML(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, "name: s3-sink\nversion: 1\n")
	r := NewRegistry()
	RegisterConnectors(r, api)

	def, _ := r.Lookup("get_kafka_connector_target_definition")
	result, err := def.Handler(context.Background(), Args{
		"environment": "dev",
		"cluster":     "connect-main",
		"connector":   "s3-sink",
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	want := "/api/v1/environments/dev/proxy/api/v1/resource/kafka/connect/connect-main/connector/s3-sink"
	if captured.Method != http.MethodGet || captured.Path != want {
		t.Errorf("request = %s %s, want GET %s", captured.Method, captured.Path, want)
	}
	if _, ok := result.(string); !ok {
		t.Errorf("result = %T, want raw string for YAML body", result)
	}
}

func TestSetConnectorAction_ActionInPath(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `{}`)
	r := NewRegistry()
	RegisterConnectors(r, api)

	def, _ := r.Lookup("set_connector_action")
	_, err := def.Handler(context.Background(), Args{
		"environment": "dev",
		"cluster":     "connect-main",
		"connector":   "s3-sink",
		"action":      "restart",
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	want := "/api/v1/environments/dev/proxy/api/kafka-connect/clusters/connect-main/connectors/s3-sink/restart"
	if captured.Method != http.MethodPut || captured.Path != want {
		t.Errorf("request = %s %s, want PUT %s", captured.Method, captured.Path, want)
	}
}

func TestSetConnectorAction_EnumDeclared(t *testing.T) {
	api, _ := platformStub(t, http.StatusOK, `{}`)
	r := NewRegistry()
	RegisterConnectors(r, api)

	def, _ := r.Lookup("set_connector_action")
	action, ok := def.Params["action"]
	if !ok {
		t.Fatal("action parameter not declared")
	}
	if len(action.Enum) != 5 {
		t.Errorf("action enum = %v, want 5 actions", action.Enum)
	}
}

func TestListKafkaConnectors_Filters(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `{}`)
	r := NewRegistry()
	RegisterConnectors(r, api)

	def, _ := r.Lookup("list_kafka_connectors")
	_, err := def.Handler(context.Background(), Args{
		"environment": "dev",
		"cluster":     []any{"connect-main"},
		"class_name":  []any{"S3SinkConnector", "JdbcSource"},
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	if got := captured.Query["cluster"]; len(got) != 1 || got[0] != "connect-main" {
		t.Errorf("cluster filter = %v", got)
	}
	if got := captured.Query["className"]; len(got) != 2 {
		t.Errorf("className filter = %v, want two values", got)
	}
}

func TestRestartConnectorTask_TaskIDInPath(t *testing.T) {
	api, captured := platformStub(t, http.StatusOK, `{}`)
	r := NewRegistry()
	RegisterConnectors(r, api)

	def, _ := r.Lookup("restart_connector_task")
	_, err := def.Handler(context.Background(), Args{
		"environment": "dev",
		"cluster":     "connect-main",
		"connector":   "s3-sink",
		"task_id":     float64(3),
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	want := "/api/v1/environments/dev/proxy/api/kafka-connect/clusters/connect-main/connectors/s3-sink/tasks/3/restart"
	if captured.Path != want {
		t.Errorf("path = %q, want %q", captured.Path, want)
	}
}
