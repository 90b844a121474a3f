package parameters

import (
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyweb/core"
	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.core")
	defer teardown()
	//
	regs := NewRegisters()
	assert.Equal(t, 800*dimen.PX, regs.D(P_WIDTH))
	assert.Equal(t, 13*dimen.PX, regs.D(P_HSTEP))
	assert.Equal(t, 18*dimen.PX, regs.D(P_VSTEP))
	assert.Equal(t, 33*time.Millisecond, regs.T(P_REFRESHRATE))
	assert.False(t, regs.B(P_DARKMODE))
	assert.Equal(t, "hstep", P_HSTEP.String())
}

func TestLoadYAML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.core")
	defer teardown()
	//
	conf := `
width: 1600
dark-mode: true
refresh-rate: 16ms
font-family: DejaVu Sans
`
	regs, err := LoadYAML(strings.NewReader(conf))
	require.NoError(t, err)
	assert.Equal(t, 1600*dimen.PX, regs.D(P_WIDTH))
	assert.Equal(t, 600*dimen.PX, regs.D(P_HEIGHT))
	assert.True(t, regs.B(P_DARKMODE))
	assert.Equal(t, 16*time.Millisecond, regs.T(P_REFRESHRATE))
	assert.Equal(t, "DejaVu Sans", regs.S(P_FONTFAMILY))
}

func TestLoadYAMLEmpty(t *testing.T) {
	regs, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 800*dimen.PX, regs.D(P_WIDTH))
}

func TestLoadYAMLInvalid(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("refresh-rate: soon\n"))
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = LoadYAML(strings.NewReader("width: -3\n"))
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = LoadYAML(strings.NewReader("colour: red\n"))
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestCopyIsIndependent(t *testing.T) {
	regs := NewRegisters()
	c := regs.Copy()
	c.Push(P_DARKMODE, true)
	assert.False(t, regs.B(P_DARKMODE))
	assert.True(t, c.B(P_DARKMODE))
}
