package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyweb/core"
	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/engine/paint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.cli")
	defer teardown()
	//
	cmd, err := parseCommand("click 10 20.5")
	require.NoError(t, err)
	assert.Equal(t, CLICK, cmd.op)
	assert.Equal(t, dimen.Dimen(10), cmd.x)
	assert.Equal(t, dimen.Dimen(20.5), cmd.y)
	//
	cmd, err = parseCommand("key hello world")
	require.NoError(t, err)
	assert.Equal(t, KEY, cmd.op)
	assert.Equal(t, "hello world", cmd.arg)
	//
	cmd, err = parseCommand("zoom -")
	require.NoError(t, err)
	assert.Equal(t, ZOOMOUT, cmd.op)
	//
	_, err = parseCommand("click 10")
	assert.Error(t, err)
	_, err = parseCommand("zoom sideways")
	assert.Error(t, err)
	_, err = parseCommand("fly")
	assert.Equal(t, errUsage, err)
}

func TestPageURL(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.cli")
	defer teardown()
	//
	u, err := pageURL("https://example.org/index.html")
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	u, err = pageURL("testdata/page.html")
	require.NoError(t, err)
	assert.Equal(t, "file", u.Scheme)
	assert.Contains(t, u.Path, "testdata/page.html")
}

func TestLeveledList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.cli")
	defer teardown()
	//
	list := []paint.Command{
		paint.NewBlend(0.5, "", nil, []paint.Command{
			&paint.DrawRect{R: dimen.XYWH(0, 0, 10, 10), Color: paint.Red},
		}),
	}
	ll := leveledList(list)
	require.Len(t, ll, 2)
	assert.Equal(t, 0, ll[0].Level)
	assert.Equal(t, 1, ll[1].Level)
}

func TestErrorReport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.cli")
	defer teardown()
	//
	err := fmt.Errorf("page did not settle: %w", core.ErrorWithCode(context.DeadlineExceeded, core.ECONNECTION))
	line := core.UserError(err)
	assert.Equal(t, fmt.Sprintf("[%d] %s", core.ECONNECTION, core.UserMessage(err)), line)
	assert.NotContains(t, line, "deadline")
	assert.Equal(t, errUsage.Error(), core.UserError(errUsage))
	reportError(errors.New("plain")) // must not panic
}
