// Package imdb provides a client for the free IMDB metadata proxy API,
// exposing title search and per-title details.
package imdb

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"

	"github.com/astrocue/agentools/pkg/httpfetch"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/astrocue/agentools", "imdb")

// ErrTitleNotFound is returned when a search yields no usable match.
var ErrTitleNotFound = errors.New("movie not found")

// DefaultBaseURL is the IMDB proxy API root.
const DefaultBaseURL = "https://imdb.iamidiotareyoutoo.com"

var ttIDRe = regexp.MustCompile(`^tt\d+$`)

// IsTitleID reports whether the input looks like an IMDB title ID (tt1234567).
func IsTitleID(s string) bool {
	return ttIDRe.MatchString(s)
}

// Config holds the IMDB proxy access configuration.
type Config struct {
	BaseURL string
	Fetch   httpfetch.Config
}

// Client calls the IMDB proxy search and detail endpoints.
type Client struct {
	cfg   Config
	fetch *httpfetch.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		cfg:   cfg,
		fetch: httpfetch.New(cfg.Fetch),
	}
}

// WithFetcher replaces the underlying fetch client, used in tests.
func (c *Client) WithFetcher(fetch *httpfetch.Client) *Client {
	c.fetch = fetch
	return c
}

// TitleResult is one search hit. The upstream uses "#"-prefixed keys.
type TitleResult struct {
	Title  string `json:"#TITLE"`
	Year   int    `json:"#YEAR"`
	IMDBID string `json:"#IMDB_ID"`
	Rank   int    `json:"#RANK"`
	Actors string `json:"#ACTORS"`
	URL    string `json:"#IMDB_URL"`
	Poster string `json:"#IMG_POSTER"`
}

type searchResponse struct {
	OK          bool          `json:"ok"`
	Description []TitleResult `json:"description"`
}

// StringList tolerates the upstream sending either a single string or an
// array of strings (schema.org fields like genre do both).
type StringList []string

func (l *StringList) UnmarshalJSON(bs []byte) error {
	var many []string
	if err := json.Unmarshal(bs, &many); err == nil {
		*l = many
		return nil
	}
	var one string
	if err := json.Unmarshal(bs, &one); err != nil {
		return errors.WithStack(err)
	}
	*l = StringList{one}
	return nil
}

// TitleDetails is the decoded per-title payload. Fields the upstream omits
// stay zero-valued; callers treat absence as "no data", never as an error.
type TitleDetails struct {
	OK    bool `json:"ok"`
	Short struct {
		Name            string     `json:"name"`
		Description     string     `json:"description"`
		Image           string     `json:"image"`
		URL             string     `json:"url"`
		Genre           StringList `json:"genre"`
		ContentRating   string     `json:"contentRating"`
		DatePublished   string     `json:"datePublished"`
		AggregateRating *struct {
			RatingValue float64 `json:"ratingValue"`
			RatingCount int     `json:"ratingCount"`
		} `json:"aggregateRating"`
	} `json:"short"`
	Top struct {
		ID        string `json:"id"`
		TitleText struct {
			Text string `json:"text"`
		} `json:"titleText"`
		ReleaseYear struct {
			Year int `json:"year"`
		} `json:"releaseYear"`
		Runtime struct {
			DisplayableProperty struct {
				Value struct {
					PlainText string `json:"plainText"`
				} `json:"value"`
			} `json:"displayableProperty"`
		} `json:"runtime"`
		Certificate struct {
			Rating string `json:"rating"`
		} `json:"certificate"`
		Plot struct {
			PlotText struct {
				PlainText string `json:"plainText"`
			} `json:"plotText"`
		} `json:"plot"`
		ProductionBudget struct {
			Budget *Money `json:"budget"`
		} `json:"productionBudget"`
		WorldwideGross struct {
			Total *Money `json:"total"`
		} `json:"worldwideGross"`
		CountriesDetails struct {
			Countries []struct {
				Text string `json:"text"`
			} `json:"countries"`
		} `json:"countriesDetails"`
		Keywords struct {
			Edges []struct {
				Node struct {
					Text string `json:"text"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"keywords"`
	} `json:"top"`
}

// Money is an amount with its currency code.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Rating returns the aggregate rating value and vote count, zero when absent.
func (d *TitleDetails) Rating() (float64, int) {
	if d.Short.AggregateRating == nil {
		return 0, 0
	}
	return d.Short.AggregateRating.RatingValue, d.Short.AggregateRating.RatingCount
}

// Countries flattens the countries-of-origin list.
func (d *TitleDetails) Countries() []string {
	var out []string
	for _, c := range d.Top.CountriesDetails.Countries {
		out = append(out, c.Text)
	}
	return out
}

// Keywords flattens the keyword edge list.
func (d *TitleDetails) Keywords() []string {
	var out []string
	for _, e := range d.Top.Keywords.Edges {
		out = append(out, e.Node.Text)
	}
	return out
}

// Search returns title matches for the query, empty when the upstream
// reports no results.
func (c *Client) Search(ctx context.Context, query string) ([]TitleResult, error) {
	q := url.Values{}
	q.Set("q", query)

	var resp searchResponse
	if err := c.fetch.FetchJSON(ctx, httpfetch.BuildURL(c.cfg.BaseURL, "/search", q), &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, nil
	}
	return resp.Description, nil
}

// FindID resolves a free-text title to the first matching IMDB ID.
func (c *Client) FindID(ctx context.Context, title string) (string, error) {
	results, err := c.Search(ctx, title)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING, "reason", "search_failed", "title", title, "err", err.Error())
		return "", errors.WithMessagef(ErrTitleNotFound, "%s", title)
	}
	if len(results) == 0 || results[0].IMDBID == "" {
		return "", errors.WithMessagef(ErrTitleNotFound, "%s", title)
	}
	return results[0].IMDBID, nil
}

// Details fetches the per-title payload for an IMDB ID.
func (c *Client) Details(ctx context.Context, ttID string) (*TitleDetails, error) {
	q := url.Values{}
	q.Set("tt", ttID)

	var resp TitleDetails
	if err := c.fetch.FetchJSON(ctx, httpfetch.BuildURL(c.cfg.BaseURL, "/search", q), &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, errors.WithMessagef(ErrTitleNotFound, "%s", ttID)
	}
	return &resp, nil
}
