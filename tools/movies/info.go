package movies

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/astrocue/agentools/chatmodel"
	"github.com/astrocue/agentools/pkg/imdb"
	"github.com/astrocue/agentools/pkg/llmutils"
	"github.com/astrocue/agentools/pkg/schema"
	"github.com/astrocue/agentools/tools"
	"github.com/cockroachdb/errors"
	mcp "github.com/metoro-io/mcp-golang"
)

const InfoToolName = "MovieInfo"

// InfoRequest represents the tool input.
type InfoRequest struct {
	Movie string `json:"Movie" yaml:"Movie" jsonschema:"title=Movie,description=An IMDB title ID like tt2250912 or a movie title like Spider-Man." validate:"required"`
}

// MovieDetails is the detailed record for one title. Error is set instead
// of failing when the title cannot be resolved.
type MovieDetails struct {
	Error string `json:"error,omitempty" yaml:"Error" jsonschema:"title=error,description=Set when the movie could not be found."`
	Query string `json:"query,omitempty" yaml:"Query" jsonschema:"title=query,description=The original input when an error is reported."`

	IMDBID         string   `json:"imdb_id,omitempty"`
	Title          string   `json:"title,omitempty"`
	Description    string   `json:"description,omitempty"`
	Image          string   `json:"image,omitempty"`
	URL            string   `json:"url,omitempty"`
	Genres         []string `json:"genre,omitempty"`
	ContentRating  string   `json:"content_rating,omitempty"`
	DatePublished  string   `json:"date_published,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	RatingCount    int      `json:"rating_count,omitempty"`
	ReleaseYear    int      `json:"release_year,omitempty"`
	Runtime        string   `json:"runtime,omitempty"`
	Certificate    string   `json:"certificate,omitempty"`
	Plot           string   `json:"plot,omitempty"`
	Budget         string   `json:"budget,omitempty"`
	WorldwideGross string   `json:"worldwide_gross,omitempty"`
	Countries      []string `json:"countries,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
}

func (r *MovieDetails) GetContent() string {
	return llmutils.ToJSON(r)
}

func (r *MovieDetails) String() string {
	if r.Error != "" {
		return "ERROR: " + r.Error
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s", r.Title)
	if r.ReleaseYear != 0 {
		fmt.Fprintf(&buf, " (%d)", r.ReleaseYear)
	}
	fmt.Fprintln(&buf)
	if r.Rating != nil {
		fmt.Fprintf(&buf, "RATING: %.1f/10 (%d votes)\n", *r.Rating, r.RatingCount)
	}
	if r.Runtime != "" {
		fmt.Fprintf(&buf, "RUNTIME: %s\n", r.Runtime)
	}
	if len(r.Genres) > 0 {
		fmt.Fprintf(&buf, "GENRE: %s\n", strings.Join(r.Genres, ", "))
	}
	if r.Plot != "" {
		fmt.Fprintf(&buf, "PLOT: %s\n", r.Plot)
	}
	if r.Budget != "" {
		fmt.Fprintf(&buf, "BUDGET: %s\n", r.Budget)
	}
	if r.WorldwideGross != "" {
		fmt.Fprintf(&buf, "BOX OFFICE: %s\n", r.WorldwideGross)
	}
	if r.URL != "" {
		fmt.Fprintf(&buf, "IMDB: %s\n", r.URL)
	}
	return buf.String()
}

// InfoTool fetches detailed information for a movie by IMDB ID or title.
type InfoTool struct {
	name        string
	description string
	funcParams  any

	client *imdb.Client
}

var _ tools.Tool[InfoRequest, MovieDetails] = (*InfoTool)(nil)

func NewInfoTool(client *imdb.Client) (*InfoTool, error) {
	sc, err := schema.New(reflect.TypeOf(InfoRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &InfoTool{
		name: InfoToolName,
		description: "Fetches detailed movie information: rating, runtime, genres, plot, budget, box office, " +
			"countries and keywords. Accepts an IMDB title ID or a movie title.",
		funcParams: sc.Parameters,
		client:     client,
	}, nil
}

func (t *InfoTool) Name() string {
	return t.name
}

func (t *InfoTool) Description() string {
	return t.description
}

func (t *InfoTool) Parameters() any {
	return t.funcParams
}

func (t *InfoTool) Run(ctx context.Context, req *InfoRequest) (*MovieDetails, error) {
	if err := validate.Struct(req); err != nil {
		return nil, errors.WithStack(err)
	}

	ttID := req.Movie
	if !imdb.IsTitleID(ttID) {
		id, err := t.client.FindID(ctx, req.Movie)
		if err != nil {
			return &MovieDetails{
				Error: "Movie not found with title: " + req.Movie,
				Query: req.Movie,
			}, nil
		}
		ttID = id
	}

	details, err := t.client.Details(ctx, ttID)
	if err != nil {
		return &MovieDetails{
			Error:  "Movie not found",
			Query:  req.Movie,
			IMDBID: ttID,
		}, nil
	}

	return mapDetails(ttID, details), nil
}

// mapDetails flattens the upstream short/top sections, preferring the
// richer top values where both exist. Missing fields stay absent.
func mapDetails(ttID string, d *imdb.TitleDetails) *MovieDetails {
	res := &MovieDetails{
		IMDBID:        ttID,
		Title:         d.Short.Name,
		Description:   d.Short.Description,
		Image:         d.Short.Image,
		URL:           d.Short.URL,
		Genres:        []string(d.Short.Genre),
		ContentRating: d.Short.ContentRating,
		DatePublished: d.Short.DatePublished,
		Countries:     d.Countries(),
		Keywords:      d.Keywords(),
	}

	if rating, count := d.Rating(); rating > 0 {
		res.Rating = &rating
		res.RatingCount = count
	}

	if d.Top.ID != "" {
		res.IMDBID = d.Top.ID
	}
	if txt := d.Top.TitleText.Text; txt != "" {
		res.Title = txt
	}
	res.ReleaseYear = d.Top.ReleaseYear.Year
	res.Runtime = d.Top.Runtime.DisplayableProperty.Value.PlainText
	res.Certificate = d.Top.Certificate.Rating
	res.Plot = d.Top.Plot.PlotText.PlainText
	if res.Plot == "" {
		res.Plot = d.Short.Description
	}
	if b := d.Top.ProductionBudget.Budget; b != nil {
		res.Budget = formatMoney(b.Amount, b.Currency)
	}
	if g := d.Top.WorldwideGross.Total; g != nil {
		res.WorldwideGross = formatMoney(g.Amount, g.Currency)
	}
	return res
}

func (t *InfoTool) Call(ctx context.Context, input string) (string, error) {
	var req InfoRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return out.GetContent(), nil
}

func (t *InfoTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *InfoTool) RunMCP(ctx context.Context, req *InfoRequest) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(res.GetContent())), nil
}
