package callbacks_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/astrocue/agentools/callbacks"
	"github.com/astrocue/agentools/tools"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	name string
	err  error
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return "useful tool" }
func (f *fakeTool) Parameters() any     { return nil }
func (f *fakeTool) Call(_ context.Context, input string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "echo: " + input, nil
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	cb := callbacks.NewPrinter(&buf, callbacks.ModeVerbose)

	tl := tools.Observed(&fakeTool{name: "test-tool"}, cb)
	assert.Equal(t, "test-tool", tl.Name())
	assert.Equal(t, "useful tool", tl.Description())
	assert.Nil(t, tl.Parameters())

	out, err := tl.Call(context.Background(), "test input")
	require.NoError(t, err)
	assert.Equal(t, "echo: test input", out)

	res := buf.String()
	assert.Contains(t, res, "Tool Start: test-tool")
	assert.Contains(t, res, "Input: test input")
	assert.Contains(t, res, "Tool End: test-tool")
	assert.Contains(t, res, "Output: echo: test input")
	assert.NotContains(t, res, "Tool Error")
}

func TestPrinter_Error(t *testing.T) {
	var buf bytes.Buffer
	cb := callbacks.NewPrinter(&buf, callbacks.ModeDefault)

	tl := tools.Observed(&fakeTool{name: "test-tool", err: errors.New("test error")}, cb)
	_, err := tl.Call(context.Background(), "test input")
	require.Error(t, err)

	res := buf.String()
	assert.Contains(t, res, "Tool Start: test-tool")
	assert.Contains(t, res, "Tool Error: test-tool: test error")
	assert.NotContains(t, res, "Tool End")
}
