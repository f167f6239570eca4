package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
)

// sqlReadLimit caps a single SQL result frame.
const sqlReadLimit = 1 << 22 // 4 MiB

// SQLExecutor runs a SQL statement against the platform and returns the
// streamed result records.
type SQLExecutor interface {
	Execute(ctx context.Context, path, sql string) ([]map[string]any, error)
}

// SQLClient speaks the platform's WebSocket SQL protocol: send one
// {"sql": ...} request, then read RECORD frames until an END or ERROR
// frame closes the stream.
type SQLClient struct {
	baseURL string
	apiKey  string
	log     zerolog.Logger
}

// NewSQL creates a WebSocket SQL client bound to the ws/wss base URL.
func NewSQL(baseURL, apiKey string, logger zerolog.Logger) *SQLClient {
	return &SQLClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		log:     logger,
	}
}

// sqlFrame is one message of the streaming SQL protocol.
type sqlFrame struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Execute dials the SQL endpoint, submits the statement, and accumulates
// records until the stream ends. An ERROR frame surfaces as a classified
// server error; dial failures classify like any other transport failure.
func (s *SQLClient) Execute(ctx context.Context, path, sql string) ([]map[string]any, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.apiKey)

	conn, _, err := websocket.Dial(ctx, s.baseURL+path, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer conn.Close(websocket.StatusInternalError, "abandoned")
	conn.SetReadLimit(sqlReadLimit)

	if err := wsjson.Write(ctx, conn, map[string]string{"sql": sql}); err != nil {
		return nil, classifyTransport(err)
	}

	var records []map[string]any
	for {
		var frame sqlFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			return nil, classifyTransport(err)
		}

		switch strings.ToUpper(frame.Type) {
		case "RECORD":
			if frame.Data != nil {
				records = append(records, frame.Data)
			}
		case "END":
			s.log.Debug().Int("records", len(records)).Msg("sql stream ended")
			conn.Close(websocket.StatusNormalClosure, "")
			return records, nil
		case "ERROR":
			conn.Close(websocket.StatusNormalClosure, "")
			return nil, &Error{Kind: KindServer, Message: fmt.Sprintf("sql execution failed: %v", frame.Data)}
		default:
			s.log.Debug().Str("type", frame.Type).Msg("discarding unsupported sql frame")
		}
	}
}
