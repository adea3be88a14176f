package schema_test

import (
	"reflect"
	"testing"

	"github.com/astrocue/agentools/pkg/llmutils"
	"github.com/astrocue/agentools/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type SearchMode string

const (
	Nearby SearchMode = "nearby"
	Global SearchMode = "global"
)

// LaunchQuery exercises nested refs, arrays and enums.
type LaunchQuery struct {
	Location string      `json:"location" jsonschema:"title=Location,description=Place to search from,example=Cape Canaveral"`
	Mode     SearchMode  `json:"mode" jsonschema:"title=Mode,description=Search mode,default=nearby,enum=nearby,enum=global"`
	Sites    []*SiteSpec `json:"sites,omitempty" jsonschema:"title=Sites,description=Launch site filters"`
	Primary  *SiteSpec   `json:"primary,omitempty" jsonschema:"title=Primary,description=Primary site"`
}

// SiteSpec identifies one launch site.
type SiteSpec struct {
	Country string `json:"country" jsonschema:"title=Country,description=Country code of the site"`
	Pad     string `json:"pad,omitempty" jsonschema:"title=Pad,description=Pad name"`
}

func TestSchema(t *testing.T) {
	t.Parallel()

	t.Run("Flat", func(t *testing.T) {
		t.Parallel()
		s, err := schema.New(reflect.TypeOf(SiteSpec{}))
		require.NoError(t, err)
		exp := `{
	"properties": {
		"country": {
			"type": "string",
			"title": "Country",
			"description": "Country code of the site"
		},
		"pad": {
			"type": "string",
			"title": "Pad",
			"description": "Pad name"
		}
	},
	"type": "object",
	"required": [
		"country"
	]
}`
		assert.Equal(t, exp, s.String())
		assert.Equal(t, exp, llmutils.ToJSONIndent(s.Parameters))
	})

	t.Run("Nested", func(t *testing.T) {
		t.Parallel()
		s, err := schema.New(reflect.TypeOf(LaunchQuery{}))
		require.NoError(t, err)

		exp := `{
	"properties": {
		"location": {
			"type": "string",
			"title": "Location",
			"description": "Place to search from",
			"examples": [
				"Cape Canaveral"
			]
		},
		"mode": {
			"type": "string",
			"enum": [
				"nearby",
				"global"
			],
			"title": "Mode",
			"description": "Search mode",
			"default": "nearby"
		},
		"sites": {
			"items": {
				"properties": {
					"country": {
						"type": "string",
						"title": "Country",
						"description": "Country code of the site"
					},
					"pad": {
						"type": "string",
						"title": "Pad",
						"description": "Pad name"
					}
				},
				"type": "object",
				"required": [
					"country"
				]
			},
			"type": "array",
			"title": "Sites",
			"description": "Launch site filters"
		},
		"primary": {
			"properties": {
				"country": {
					"type": "string",
					"title": "Country",
					"description": "Country code of the site"
				},
				"pad": {
					"type": "string",
					"title": "Pad",
					"description": "Pad name"
				}
			},
			"type": "object",
			"required": [
				"country"
			]
		}
	},
	"type": "object",
	"required": [
		"location",
		"mode"
	]
}`
		assert.Equal(t, exp, s.String())
	})

	t.Run("Cached", func(t *testing.T) {
		t.Parallel()
		first, err := schema.New(reflect.TypeOf(SiteSpec{}))
		require.NoError(t, err)
		second, err := schema.New(reflect.TypeOf(SiteSpec{}))
		require.NoError(t, err)
		assert.Same(t, first, second)
	})
}
