// Package tools defines the contract every agent tool in this module
// implements, plus helpers for describing tools to an agent prompt and
// mounting them on an MCP server.
package tools

import (
	"context"

	"github.com/astrocue/agentools/pkg/llmutils"
	mcp "github.com/metoro-io/mcp-golang"
)

// McpServerRegistrator registers tool handlers on an MCP server.
type McpServerRegistrator interface {
	RegisterTool(name string, description string, handler any) error
}

// ITool is a tool for the llm agent to interact with different applications.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	// Should not exceed LLM model limit.
	Description() string
	// Parameters returns the parameters definition of the function, to be used in the prompt.
	Parameters() any

	// Call executes the tool with the given input and returns the result.
	// If the tool fails to parse the input, it should return ErrFailedUnmarshalInput error.
	Call(context.Context, string) (string, error)
}

// Callback receives tool execution events, see Observed.
type Callback interface {
	OnToolStart(context.Context, ITool, string)
	OnToolEnd(context.Context, ITool, string, string)
	OnToolError(context.Context, ITool, string, error)
}

// Observed wraps a tool so that every Call reports start, end and error
// events to the callback.
func Observed(tool ITool, cb Callback) ITool {
	return &observed{tool: tool, cb: cb}
}

type observed struct {
	tool ITool
	cb   Callback
}

func (o *observed) Name() string        { return o.tool.Name() }
func (o *observed) Description() string { return o.tool.Description() }
func (o *observed) Parameters() any     { return o.tool.Parameters() }

func (o *observed) Call(ctx context.Context, input string) (string, error) {
	o.cb.OnToolStart(ctx, o.tool, input)
	out, err := o.tool.Call(ctx, input)
	if err != nil {
		o.cb.OnToolError(ctx, o.tool, input, err)
		return "", err
	}
	o.cb.OnToolEnd(ctx, o.tool, input, out)
	return out, nil
}

type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// IMCPTool is an interface that extends ITool to include functionality for
// registering the tool with an MCP server.
type IMCPTool interface {
	ITool
	RegisterMCP(registrator McpServerRegistrator) error
}

type MCPTool[I any] interface {
	IMCPTool
	RunMCP(context.Context, *I) (*mcp.ToolResponse, error)
}

type toolDescription struct {
	Name        string `json:"Name" yaml:"Name"`
	Description string `json:"Description" yaml:"Description"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"Tools" yaml:"Tools"`
}

// GetDescriptions renders a JSON block describing the given tools, suitable
// for inclusion in an agent prompt.
func GetDescriptions(list ...ITool) string {
	var d toolsDescription
	for _, tool := range list {
		d.Tools = append(d.Tools, toolDescription{
			Name:        tool.Name(),
			Description: tool.Description(),
		})
	}
	return llmutils.BackticksJSON(llmutils.ToJSONIndent(d))
}
