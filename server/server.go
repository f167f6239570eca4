// Package server wires the tool registry and dispatcher into an MCP
// server. The MCP framing itself (JSON-RPC, stdio or streamable HTTP) is
// provided by mcp-go; this package only translates between its request
// types and the dispatcher.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/dimosr/lenses-mcp/config"
	"github.com/dimosr/lenses-mcp/dispatch"
	"github.com/dimosr/lenses-mcp/tools"
)

const serverName = "Lenses MCP Server"

// Server hosts the MCP endpoint for the registered tools.
type Server struct {
	mcp *mcpserver.MCPServer
	log zerolog.Logger
}

// New builds the MCP server: every registry definition becomes an
// advertised MCP tool whose handler runs through the dispatcher.
func New(registry *tools.Registry, dispatcher *dispatch.Dispatcher, version string, logger zerolog.Logger) *Server {
	s := mcpserver.NewMCPServer(serverName, version,
		mcpserver.WithInstructions("This server provides access to Lenses HQ."),
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithPromptCapabilities(false),
		mcpserver.WithRecovery(),
	)

	for _, def := range registry.All() {
		s.AddTool(toMCPTool(def), toolHandler(dispatcher, def.Name))
	}
	registerPrompts(s)

	return &Server{mcp: s, log: logger}
}

// Serve runs the selected transport until ctx is cancelled or the
// transport closes. stdio keeps stdout reserved for MCP framing; all
// logging goes to stderr.
func (s *Server) Serve(ctx context.Context, cfg *config.Config) error {
	switch cfg.Transport {
	case "http":
		httpSrv := mcpserver.NewStreamableHTTPServer(s.mcp)
		errCh := make(chan error, 1)
		go func() {
			errCh <- httpSrv.Start(cfg.HTTPAddr)
		}()
		s.log.Info().Str("addr", cfg.HTTPAddr).Msg("serving MCP over HTTP")

		select {
		case <-ctx.Done():
			return httpSrv.Shutdown(context.Background())
		case err := <-errCh:
			return err
		}
	default:
		s.log.Info().Msg("serving MCP over stdio")
		return mcpserver.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
	}
}

// toolHandler adapts one dispatcher call to the MCP handler signature.
// Dispatcher failures become tool errors on the wire, never Go errors:
// returning an error here would surface as a protocol failure instead of
// a well-formed tool result.
func toolHandler(d *dispatch.Dispatcher, name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		payload, terr := d.Dispatch(ctx, name, req.GetArguments())
		if terr != nil {
			return mcp.NewToolResultError(terr.Error()), nil
		}
		text, err := renderPayload(payload)
		if err != nil {
			return mcp.NewToolResultError(dispatch.KindInternal + ": could not serialize tool result"), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

// renderPayload serializes a handler payload for the text content block.
// Plain strings (e.g. pod logs) pass through unchanged.
func renderPayload(payload any) (string, error) {
	if s, ok := payload.(string); ok {
		return s, nil
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(data), nil
}

// toMCPTool converts a declarative tool definition into the advertised
// MCP tool schema.
func toMCPTool(def tools.Definition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}
	for name, p := range def.Params {
		opts = append(opts, paramOption(name, p))
	}
	return mcp.NewTool(def.Name, opts...)
}

func paramOption(name string, p tools.Param) mcp.ToolOption {
	var props []mcp.PropertyOption
	if p.Description != "" {
		props = append(props, mcp.Description(p.Description))
	}
	if p.Required {
		props = append(props, mcp.Required())
	}

	switch p.Type {
	case tools.TypeNumber:
		if v, ok := p.Default.(float64); ok {
			props = append(props, mcp.DefaultNumber(v))
		}
		return mcp.WithNumber(name, props...)
	case tools.TypeBoolean:
		if v, ok := p.Default.(bool); ok {
			props = append(props, mcp.DefaultBool(v))
		}
		return mcp.WithBoolean(name, props...)
	case tools.TypeObject:
		return mcp.WithObject(name, props...)
	case tools.TypeArray:
		items := tools.TypeString
		if p.Items != "" {
			items = p.Items
		}
		props = append(props, mcp.Items(map[string]any{"type": string(items)}))
		return mcp.WithArray(name, props...)
	default:
		if len(p.Enum) > 0 {
			props = append(props, mcp.Enum(p.Enum...))
		}
		if v, ok := p.Default.(string); ok {
			props = append(props, mcp.DefaultString(v))
		}
		return mcp.WithString(name, props...)
	}
}
