package llmutils_test

import (
	"testing"

	"github.com/astrocue/agentools/pkg/llmutils"
	"github.com/stretchr/testify/assert"
)

func Test_CleanJSON(t *testing.T) {
	llmOutput := "\n```json\n\n{\"Location\": \"Cape Canaveral\", \"DaysAhead\": 7}\n\n```\n\n"
	clean := llmutils.CleanJSON([]byte(llmOutput))

	expected := "{\"Location\": \"Cape Canaveral\", \"DaysAhead\": 7}"
	assert.Equal(t, expected, string(clean))

	llmOutput = "Here you go:\n```json\n\n[{\"Movie\": \"tt0816692\"}]\n```\n\n"
	clean = llmutils.CleanJSON([]byte(llmOutput))

	expected = "[{\"Movie\": \"tt0816692\"}]"
	assert.Equal(t, expected, string(clean))

	// already-clean input passes through untouched
	resp := "{\"Query\": \"Spider-Man\", \"MaxResults\": 5}"
	assert.Equal(t, resp, string(llmutils.CleanJSON([]byte(resp))))

	// no JSON at all: nothing to trim
	assert.Equal(t, "not json", string(llmutils.CleanJSON([]byte("not json"))))
}

func Test_ToJSON(t *testing.T) {
	val := map[string]int{"days": 7}
	assert.Equal(t, "{\"days\":7}", llmutils.ToJSON(val))
	assert.Equal(t, "{\n\t\"days\": 7\n}", llmutils.ToJSONIndent(val))
}

func Test_BackticksJSON(t *testing.T) {
	json := "{\"Location\": \"Cape Canaveral\"}"
	wrapped := llmutils.BackticksJSON(json)

	expected := "\n```json\n{\"Location\": \"Cape Canaveral\"}\n```\n"
	assert.Equal(t, expected, wrapped)
}
