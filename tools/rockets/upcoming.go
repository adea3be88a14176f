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

const UpcomingLaunchesToolName = "UpcomingLaunches"

// UpcomingLaunchesRequest represents the tool input.
type UpcomingLaunchesRequest struct {
	Limit int `json:"Limit,omitempty" yaml:"Limit" jsonschema:"title=Limit,description=Maximum number of launches to return. Defaults to 10." validate:"omitempty,min=1,max=100"`
}

// UpcomingLaunchesResult is the unfiltered launch list with a reduced
// field set.
type UpcomingLaunchesResult struct {
	Launches []spacedevs.LaunchSummary `json:"launches" yaml:"Launches" jsonschema:"title=launches,description=The next scheduled launches regardless of status."`
}

func (r *UpcomingLaunchesResult) GetContent() string {
	return llmutils.ToJSON(r)
}

func (r *UpcomingLaunchesResult) String() string {
	var buf bytes.Buffer
	for _, l := range r.Launches {
		fmt.Fprintf(&buf, "- %s [%s] %s (%s, %s)\n", l.NET, l.StatusAbbrev, l.Name, l.Rocket, l.Location)
	}
	return buf.String()
}

// UpcomingLaunchesTool lists the next scheduled launches without any
// status filter.
type UpcomingLaunchesTool struct {
	name        string
	description string
	funcParams  any

	client *spacedevs.Client
}

var _ tools.Tool[UpcomingLaunchesRequest, UpcomingLaunchesResult] = (*UpcomingLaunchesTool)(nil)

func NewUpcomingLaunchesTool(client *spacedevs.Client) (*UpcomingLaunchesTool, error) {
	sc, err := schema.New(reflect.TypeOf(UpcomingLaunchesRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &UpcomingLaunchesTool{
		name:        UpcomingLaunchesToolName,
		description: "Lists all upcoming rocket launches in schedule order, including ones not yet confirmed.",
		funcParams:  sc.Parameters,
		client:      client,
	}, nil
}

func (t *UpcomingLaunchesTool) Name() string {
	return t.name
}

func (t *UpcomingLaunchesTool) Description() string {
	return t.description
}

func (t *UpcomingLaunchesTool) Parameters() any {
	return t.funcParams
}

func (t *UpcomingLaunchesTool) Run(ctx context.Context, req *UpcomingLaunchesRequest) (*UpcomingLaunchesResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, errors.WithStack(err)
	}
	return &UpcomingLaunchesResult{
		Launches: t.client.ListUpcoming(ctx, req.Limit),
	}, nil
}

func (t *UpcomingLaunchesTool) Call(ctx context.Context, input string) (string, error) {
	var req UpcomingLaunchesRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return out.GetContent(), nil
}

func (t *UpcomingLaunchesTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *UpcomingLaunchesTool) RunMCP(ctx context.Context, req *UpcomingLaunchesRequest) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(res.GetContent())), nil
}
