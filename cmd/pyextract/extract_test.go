package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jef808/pyextract/internal/extractor"
	"github.com/Jef808/pyextract/internal/parser"
)

func parseModule(t *testing.T, source string) *extractor.Module {
	t.Helper()
	tree, err := parser.NewParser().Parse(context.Background(), []byte(source))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return extractor.Extract(tree)
}

func TestEmitModule_Indented(t *testing.T) {
	mod := parseModule(t, "\"\"\"Doc.\"\"\"\ndef foo():\n    pass\n")

	var buf bytes.Buffer
	require.NoError(t, emitModule(&buf, mod, false))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{\n  \"docstring\": \"Doc.\""))
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestEmitModule_Compact(t *testing.T) {
	mod := parseModule(t, "x = 1\n")

	var buf bytes.Buffer
	require.NoError(t, emitModule(&buf, mod, true))

	assert.Equal(t, `{"docstring":null,"functions":[],"classes":[]}`+"\n", buf.String())
}
