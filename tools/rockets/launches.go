package rockets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/astrocue/agentools/chatmodel"
	"github.com/astrocue/agentools/pkg/llmutils"
	"github.com/astrocue/agentools/pkg/schema"
	"github.com/astrocue/agentools/pkg/spacedevs"
	"github.com/astrocue/agentools/tools"
	"github.com/cockroachdb/errors"
	mcp "github.com/metoro-io/mcp-golang"
)

const NextLaunchesToolName = "NextLaunches"

// NextLaunchesRequest represents the tool input.
type NextLaunchesRequest struct {
	Status     string `json:"Status,omitempty" yaml:"Status" jsonschema:"title=Status,description=Launch status name to filter by; matches as a case-insensitive substring. Defaults to Go which matches Go for Launch."`
	AnyStatus  bool   `json:"AnyStatus,omitempty" yaml:"AnyStatus" jsonschema:"title=AnyStatus,description=Set true to include launches of any status instead of only confirmed ones."`
	Provider   string `json:"Provider,omitempty" yaml:"Provider" jsonschema:"title=Provider,description=Launch service provider to filter by; for example SpaceX or Rocket Lab."`
	MaxResults int    `json:"MaxResults,omitempty" yaml:"MaxResults" jsonschema:"title=MaxResults,description=Maximum number of launches to return. Defaults to 10." validate:"omitempty,min=1,max=100"`
}

// NextLaunchesResult represents the filtered launch list.
type NextLaunchesResult struct {
	Launches []spacedevs.LaunchRecord `json:"launches" yaml:"Launches" jsonschema:"title=launches,description=The upcoming launches matching the filters."`
}

func (r *NextLaunchesResult) GetContent() string {
	return llmutils.ToJSON(r)
}

func (r *NextLaunchesResult) String() string {
	var buf bytes.Buffer
	for _, l := range r.Launches {
		fmt.Fprintf(&buf, "- %s\n", l.Name)
		fmt.Fprintf(&buf, "  STATUS: %s (%s)\n", l.Status, l.StatusAbbrev)
		fmt.Fprintf(&buf, "  NET: %s\n", l.NET)
		fmt.Fprintf(&buf, "  PROVIDER: %s\n", l.Provider)
		fmt.Fprintf(&buf, "  ROCKET: %s\n", l.Rocket)
		fmt.Fprintf(&buf, "  PAD: %s, %s\n", l.PadName, l.Location)
	}
	return buf.String()
}

// NextLaunchesTool lists upcoming launches filtered by status and provider.
type NextLaunchesTool struct {
	name        string
	description string
	funcParams  any

	client *spacedevs.Client
}

var _ tools.Tool[NextLaunchesRequest, NextLaunchesResult] = (*NextLaunchesTool)(nil)

func NewNextLaunchesTool(client *spacedevs.Client) (*NextLaunchesTool, error) {
	sc, err := schema.New(reflect.TypeOf(NextLaunchesRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &NextLaunchesTool{
		name: NextLaunchesToolName,
		description: "Lists upcoming rocket launches. By default only confirmed launches with Go for Launch status are returned; " +
			"filter by launch provider, or set AnyStatus to include every scheduled launch.",
		funcParams: sc.Parameters,
		client:     client,
	}, nil
}

func (t *NextLaunchesTool) Name() string {
	return t.name
}

func (t *NextLaunchesTool) Description() string {
	return t.description
}

func (t *NextLaunchesTool) Parameters() any {
	return t.funcParams
}

func (t *NextLaunchesTool) Run(ctx context.Context, req *NextLaunchesRequest) (*NextLaunchesResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, errors.WithStack(err)
	}

	status := req.Status
	if status == "" {
		status = "Go"
	}
	if req.AnyStatus {
		status = ""
	}

	launches := t.client.ListLaunches(ctx, spacedevs.ListOptions{
		Status:     status,
		Provider:   req.Provider,
		MaxResults: req.MaxResults,
	})
	return &NextLaunchesResult{Launches: launches}, nil
}

func (t *NextLaunchesTool) Call(ctx context.Context, input string) (string, error) {
	var req NextLaunchesRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return out.GetContent(), nil
}

func (t *NextLaunchesTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *NextLaunchesTool) RunMCP(ctx context.Context, req *NextLaunchesRequest) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(res.GetContent())), nil
}
