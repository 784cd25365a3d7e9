package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/fontsubset"
	"github.com/npillmayer/fontsubset/hbsubset"
	"github.com/npillmayer/fontsubset/hbsubset/hbtest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func newTestIntp(t *testing.T) (*Intp, *hbtest.Natives) {
	engine, hb := hbtest.Engine()
	s, err := fontsubset.Open("Go-Regular.ttf", goregular.TTF, engine)
	require.NoError(t, err)
	return &Intp{session: s, engine: engine}, hb
}

func run(t *testing.T, intp *Intp, line string) error {
	err, quit := intp.execute(parseCommand(line))
	assert.False(t, quit, line)
	return err
}

func TestParseCommand(t *testing.T) {
	op := parseCommand("  Select latin, currency ")
	assert.Equal(t, SELECT, op.code)
	assert.Equal(t, []string{"latin,", "currency"}, op.args)

	op = parseCommand("frobnicate now")
	assert.Equal(t, HELP, op.code)
	assert.Equal(t, []string{"frobnicate"}, op.args)

	assert.Equal(t, QUIT, parseCommand("exit").code)
	assert.Equal(t, GENERATE, parseCommand("generate out").code)
}

func TestSelection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset")
	defer teardown()
	//
	intp, _ := newTestIntp(t)
	require.NoError(t, run(t, intp, "select latin, currency"))
	assert.Equal(t, []string{"latin", "latin-1-supp", "currency"}, intp.session.Selection())
	require.NoError(t, run(t, intp, "deselect latin-1-supp,currency"))
	assert.Equal(t, []string{"latin"}, intp.session.Selection())
	require.NoError(t, run(t, intp, "select all"))
	assert.Len(t, intp.session.Selection(), 6)
	assert.Error(t, run(t, intp, "select"))
	require.NoError(t, run(t, intp, "ranges"))
}

func TestAxisCommands(t *testing.T) {
	intp, _ := newTestIntp(t)
	assert.ErrorIs(t, run(t, intp, "axis wght"), errAxisUsage)
	assert.Error(t, run(t, intp, "axis wght heavy"))
	assert.Error(t, run(t, intp, "axis wght 700"), "Go Regular is static")
	require.NoError(t, run(t, intp, "axes"))
	require.NoError(t, run(t, intp, "reset"))
}

func TestOutputCommands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset")
	defer teardown()
	//
	intp, hb := newTestIntp(t)
	require.NoError(t, run(t, intp, "info"))
	require.NoError(t, run(t, intp, "css"))
	require.NoError(t, run(t, intp, "stats"))

	dir := t.TempDir()
	require.NoError(t, run(t, intp, "generate "+dir))
	b, err := os.ReadFile(filepath.Join(dir, "subset-Go-Regular.ttf"))
	require.NoError(t, err)
	assert.Equal(t, "subset of 224 code points", string(b))
	assert.Equal(t, 0, hb.Live())

	require.NoError(t, run(t, intp, "deselect all"))
	err = run(t, intp, "stats")
	assert.ErrorIs(t, err, hbsubset.ErrEmptySelection)
	assert.Equal(t, hbsubset.Message(err), userMessage(err))
}

func TestNoFont(t *testing.T) {
	intp := &Intp{}
	assert.ErrorIs(t, run(t, intp, "info"), errNoFont)
	assert.NoError(t, run(t, intp, "help ranges"))
	err, quit := intp.execute(parseCommand("quit"))
	assert.NoError(t, err)
	assert.True(t, quit)
	assert.Error(t, intp.loadFont(""))
}

func TestTableRows(t *testing.T) {
	intp, _ := newTestIntp(t)
	rows := infoRows(intp.session.Info())
	assert.Equal(t, []string{"Family", "Go"}, rows[2])
	assert.Contains(t, rows, []string{"Outlines", "TrueType"})
	ranges, selected := intp.session.RangesWithSelection()
	rows = rangeRows(ranges, selected)
	assert.Len(t, rows, len(ranges)+1)
	assert.Equal(t, []string{"x", "latin", "U+0020..U+007F", "Latin Basic", "96"}, rows[1])
}
