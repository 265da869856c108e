package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/patrickdappollonio/mcp-weather/internal/observability"
	"github.com/patrickdappollonio/mcp-weather/internal/response"
	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrUnknownTool is returned when a call names a tool that was never registered.
	ErrUnknownTool = errors.New("tool not found")

	// ErrInvalidParams is returned when call arguments do not match the
	// tool's declared input schema.
	ErrInvalidParams = errors.New("invalid tool parameters")
)

type routedTool struct {
	tool   MCPTool
	schema *gojsonschema.Schema
}

// Router holds the fixed set of tools served by the process. It validates
// arguments against each tool's input schema before handing the call to the
// tool's handler. The tool set is built once in NewRouter and only read
// afterwards, so a Router is safe for concurrent use.
type Router struct {
	tools   map[string]routedTool
	order   []string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewRouter registers every tool offered by registrators. Duplicate tool
// names and input schemas that do not compile are reported as errors.
func NewRouter(metrics *observability.Metrics, logger *slog.Logger, registrators ...ToolRegistrator) (*Router, error) {
	r := &Router{
		tools:   make(map[string]routedTool),
		metrics: metrics,
		logger:  logger,
	}

	for _, registrator := range registrators {
		for _, tool := range registrator.GetTools() {
			if err := r.register(tool); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}

func (r *Router) register(tool MCPTool) error {
	name := tool.Tool().Name
	if name == "" {
		return errors.New("tool name must not be empty")
	}
	if tool.Handler() == nil {
		return fmt.Errorf("tool %q has no handler", name)
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q is already registered", name)
	}

	schema, err := compileInputSchema(tool.Tool())
	if err != nil {
		return fmt.Errorf("tool %q: invalid input schema: %w", name, err)
	}

	r.tools[name] = routedTool{tool: tool, schema: schema}
	r.order = append(r.order, name)
	return nil
}

// Tools returns the registered tool definitions in registration order.
func (r *Router) Tools() []mcp.Tool {
	out := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].tool.Tool())
	}
	return out
}

// Dispatch validates args against the named tool's schema and runs its
// handler. It fails with ErrUnknownTool or ErrInvalidParams without calling
// the handler; otherwise it returns whatever the handler returns.
func (r *Router) Dispatch(ctx context.Context, name string, args map[string]any) (string, error) {
	routed, ok := r.tools[name]
	if !ok {
		r.metrics.ToolCalls.WithLabelValues(name, "unknown").Inc()
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	if args == nil {
		args = map[string]any{}
	}

	if err := validateArguments(routed.schema, args); err != nil {
		r.metrics.ToolCalls.WithLabelValues(name, "invalid").Inc()
		r.logger.Warn("rejected tool call", "tool", name, "error", err)
		return "", err
	}

	var request mcp.CallToolRequest
	request.Params.Name = name
	request.Params.Arguments = args

	text, err := routed.tool.Handler()(ctx, request)
	if err != nil {
		r.metrics.ToolCalls.WithLabelValues(name, "invalid").Inc()
		return "", err
	}

	r.metrics.ToolCalls.WithLabelValues(name, "ok").Inc()
	return text, nil
}

// Attach adds every registered tool to s. Calls received by s are routed
// through Dispatch and the text answer is wrapped as a tool result.
func (r *Router) Attach(s *server.MCPServer) {
	for _, tool := range r.Tools() {
		s.AddTool(tool, r.handleCall)
	}
}

func (r *Router) handleCall(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := r.Dispatch(ctx, request.Params.Name, request.GetArguments())
	if err != nil {
		return nil, err
	}

	return response.Text(text)
}

func compileInputSchema(tool mcp.Tool) (*gojsonschema.Schema, error) {
	raw := tool.RawInputSchema
	if len(raw) == 0 {
		encoded, err := json.Marshal(tool.InputSchema)
		if err != nil {
			return nil, err
		}
		raw = encoded
	}

	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
}

func validateArguments(schema *gojsonschema.Schema, args map[string]any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParams, err)
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(details, "; "))
}
