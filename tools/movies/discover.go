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
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
)

const DiscoverToolName = "DiscoverMovies"

// candidateScanLimit bounds how many search hits are examined so that
// post-filters still have enough raw candidates to work with.
const candidateScanLimit = 30

// DiscoverRequest represents the tool input.
//
// The upstream searches by title keywords, not by genre or studio; genre
// filtering requires FetchDetails so each candidate's details are pulled.
type DiscoverRequest struct {
	Query        string  `json:"Query" yaml:"Query" jsonschema:"title=Query,description=Title keywords to search for; for example Avengers or Inception." validate:"required"`
	Year         int     `json:"Year,omitempty" yaml:"Year" jsonschema:"title=Year,description=Keep only titles from this exact year."`
	YearStart    int     `json:"YearStart,omitempty" yaml:"YearStart" jsonschema:"title=YearStart,description=Start of an inclusive year range."`
	YearEnd      int     `json:"YearEnd,omitempty" yaml:"YearEnd" jsonschema:"title=YearEnd,description=End of an inclusive year range."`
	MinRating    float64 `json:"MinRating,omitempty" yaml:"MinRating" jsonschema:"title=MinRating,description=Minimum IMDB rating; implies fetching details." validate:"omitempty,min=0,max=10"`
	GenreFilter  string  `json:"GenreFilter,omitempty" yaml:"GenreFilter" jsonschema:"title=GenreFilter,description=Keep only titles whose genres contain this value; implies fetching details."`
	FetchDetails bool    `json:"FetchDetails,omitempty" yaml:"FetchDetails" jsonschema:"title=FetchDetails,description=Fetch full details for each candidate; slower but returns genres and ratings."`
	MaxResults   int     `json:"MaxResults,omitempty" yaml:"MaxResults" jsonschema:"title=MaxResults,description=Maximum number of titles to return. Defaults to 10." validate:"omitempty,min=1,max=30"`
}

// Movie is one discovered title. Fields the upstream had no data for are
// omitted rather than guessed.
type Movie struct {
	Title       string   `json:"title"`
	Year        int      `json:"year,omitempty"`
	IMDBID      string   `json:"imdb_id,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount int      `json:"rating_count,omitempty"`
	Rank        int      `json:"rank,omitempty"`
	Actors      string   `json:"actors,omitempty"`
	URL         string   `json:"url,omitempty"`
	Image       string   `json:"image,omitempty"`
	Genres      []string `json:"genre,omitempty"`
	Description string   `json:"description,omitempty"`
}

// DiscoverResult represents the filtered title list.
type DiscoverResult struct {
	Movies []Movie `json:"movies" yaml:"Movies" jsonschema:"title=movies,description=The titles matching the query and filters."`
}

func (r *DiscoverResult) GetContent() string {
	return llmutils.ToJSON(r)
}

func (r *DiscoverResult) String() string {
	var buf bytes.Buffer
	for _, m := range r.Movies {
		fmt.Fprintf(&buf, "- %s", m.Title)
		if m.Year != 0 {
			fmt.Fprintf(&buf, " (%d)", m.Year)
		}
		if m.Rating != nil {
			fmt.Fprintf(&buf, " rated %.1f", *m.Rating)
		}
		fmt.Fprintln(&buf)
	}
	return buf.String()
}

// DiscoverTool searches titles by keyword and filters by year, rating and
// genre.
type DiscoverTool struct {
	name        string
	description string
	funcParams  any

	client *imdb.Client
}

var _ tools.Tool[DiscoverRequest, DiscoverResult] = (*DiscoverTool)(nil)

func NewDiscoverTool(client *imdb.Client) (*DiscoverTool, error) {
	sc, err := schema.New(reflect.TypeOf(DiscoverRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &DiscoverTool{
		name: DiscoverToolName,
		description: "Discovers movies or TV shows by title keywords with optional year, minimum-rating and genre " +
			"filters. The search matches title keywords only, so franchise queries work best with specific titles.",
		funcParams: sc.Parameters,
		client:     client,
	}, nil
}

func (t *DiscoverTool) Name() string {
	return t.name
}

func (t *DiscoverTool) Description() string {
	return t.description
}

func (t *DiscoverTool) Parameters() any {
	return t.funcParams
}

func (t *DiscoverTool) Run(ctx context.Context, req *DiscoverRequest) (*DiscoverResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, errors.WithStack(err)
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	candidates, err := t.client.Search(ctx, req.Query)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING, "reason", "search_failed", "query", req.Query, "err", err.Error())
		return &DiscoverResult{}, nil
	}
	if len(candidates) > candidateScanLimit {
		candidates = candidates[:candidateScanLimit]
	}

	needDetails := req.MinRating > 0 || req.GenreFilter != "" || req.FetchDetails
	yearFiltered := req.Year != 0 || req.YearStart != 0 || req.YearEnd != 0

	var movies []Movie
	for _, cand := range candidates {
		if yearFiltered && cand.Year == 0 {
			continue
		}
		if req.Year != 0 && cand.Year != req.Year {
			continue
		}
		if req.YearStart != 0 && req.YearEnd != 0 &&
			(cand.Year < req.YearStart || cand.Year > req.YearEnd) {
			continue
		}

		if needDetails && cand.IMDBID != "" {
			movie, ok := t.detailedMovie(ctx, cand, req)
			if !ok {
				continue
			}
			movies = append(movies, movie)
		} else {
			movies = append(movies, Movie{
				Title:  cand.Title,
				Year:   cand.Year,
				IMDBID: cand.IMDBID,
				Rank:   cand.Rank,
				Actors: cand.Actors,
				URL:    cand.URL,
				Image:  cand.Poster,
			})
		}

		if len(movies) >= maxResults {
			break
		}
	}

	return &DiscoverResult{Movies: movies}, nil
}

// detailedMovie pulls per-title details to apply rating and genre filters.
// A failed detail fetch drops the candidate instead of failing the search.
func (t *DiscoverTool) detailedMovie(ctx context.Context, cand imdb.TitleResult, req *DiscoverRequest) (Movie, bool) {
	details, err := t.client.Details(ctx, cand.IMDBID)
	if err != nil {
		return Movie{}, false
	}

	rating, ratingCount := details.Rating()
	if req.MinRating > 0 && rating < req.MinRating {
		// covers both a low rating and absent rating data
		return Movie{}, false
	}

	genres := []string(details.Short.Genre)
	if req.GenreFilter != "" && !genreMatch(genres, req.GenreFilter) {
		return Movie{}, false
	}

	movie := Movie{
		Title:       cand.Title,
		Year:        cand.Year,
		IMDBID:      cand.IMDBID,
		RatingCount: ratingCount,
		Rank:        cand.Rank,
		Actors:      cand.Actors,
		URL:         cand.URL,
		Image:       cand.Poster,
		Genres:      genres,
		Description: details.Short.Description,
	}
	if details.Short.Name != "" {
		movie.Title = details.Short.Name
	}
	if details.Short.URL != "" {
		movie.URL = details.Short.URL
	}
	if details.Short.Image != "" {
		movie.Image = details.Short.Image
	}
	if rating > 0 {
		movie.Rating = &rating
	}
	return movie, true
}

func genreMatch(genres []string, filter string) bool {
	for _, g := range genres {
		if strings.Contains(strings.ToLower(g), strings.ToLower(filter)) {
			return true
		}
	}
	return false
}

func (t *DiscoverTool) Call(ctx context.Context, input string) (string, error) {
	var req DiscoverRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return out.GetContent(), nil
}

func (t *DiscoverTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *DiscoverTool) RunMCP(ctx context.Context, req *DiscoverRequest) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(res.GetContent())), nil
}
