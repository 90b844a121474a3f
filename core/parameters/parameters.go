/*
Package parameters holds the engine parameters of a browser tab.

Parameters are kept in registers, which are initialized to sensible
defaults and may be overridden from a YAML configuration.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parameters

import (
	"fmt"
	"io"
	"time"

	"github.com/npillmayer/tyweb/core"
	"github.com/npillmayer/tyweb/core/dimen"
	"gopkg.in/yaml.v3"
)

// EngineParameter is a key for a register.
type EngineParameter int

const (
	none EngineParameter = iota
	P_WIDTH
	P_HEIGHT
	P_HSTEP
	P_VSTEP
	P_SCROLLSTEP
	P_REFRESHRATE
	P_IFRAMEWIDTH
	P_IFRAMEHEIGHT
	P_INPUTWIDTH
	P_DARKMODE
	P_FONTFAMILY
	P_STOPPER
)

var parameterNames = [P_STOPPER]string{
	"none", "width", "height", "hstep", "vstep", "scroll-step", "refresh-rate",
	"iframe-width", "iframe-height", "input-width", "dark-mode", "font-family",
}

func (p EngineParameter) String() string {
	if p < 0 || p >= P_STOPPER {
		return fmt.Sprintf("EngineParameter(%d)", int(p))
	}
	return parameterNames[p]
}

// Registers holds the values of all engine parameters.
type Registers struct {
	base [P_STOPPER]interface{}
}

// ----------------------------------------------------------------------

// NewRegisters creates a set of registers, initialized to default values.
func NewRegisters() *Registers {
	regs := &Registers{}
	initParameters(&regs.base)
	return regs
}

func initParameters(p *[P_STOPPER]interface{}) {
	p[P_WIDTH] = 800 * dimen.PX              // viewport width
	p[P_HEIGHT] = 600 * dimen.PX             // viewport height
	p[P_HSTEP] = 13 * dimen.PX               // horizontal page margin
	p[P_VSTEP] = 18 * dimen.PX               // vertical page margin
	p[P_SCROLLSTEP] = 100 * dimen.PX         // a dimension
	p[P_REFRESHRATE] = 33 * time.Millisecond // minimum inter-frame interval
	p[P_IFRAMEWIDTH] = 300 * dimen.PX        // default iframe width
	p[P_IFRAMEHEIGHT] = 150 * dimen.PX       // default iframe height
	p[P_INPUTWIDTH] = 200 * dimen.PX         // width of text inputs
	p[P_DARKMODE] = false                    // a bool
	p[P_FONTFAMILY] = "Go"                   // a string
}

// Push sets a register to a new value.
func (regs *Registers) Push(key EngineParameter, value interface{}) {
	checkKey(key)
	regs.base[key] = value
}

// Get returns the value of a register.
func (regs *Registers) Get(key EngineParameter) interface{} {
	checkKey(key)
	return regs.base[key]
}

func checkKey(key EngineParameter) {
	if key <= 0 || key >= P_STOPPER {
		panic("parameter key outside range of engine parameters")
	}
}

// S returns a string parameter.
func (regs *Registers) S(key EngineParameter) string {
	return regs.Get(key).(string)
}

// D returns a dimension parameter.
func (regs *Registers) D(key EngineParameter) dimen.Dimen {
	return regs.Get(key).(dimen.Dimen)
}

// B returns a boolean parameter.
func (regs *Registers) B(key EngineParameter) bool {
	return regs.Get(key).(bool)
}

// T returns a duration parameter.
func (regs *Registers) T(key EngineParameter) time.Duration {
	return regs.Get(key).(time.Duration)
}

// Copy returns an independent copy of the registers.
func (regs *Registers) Copy() *Registers {
	c := *regs
	return &c
}

// --- Configuration ---------------------------------------------------------

type config struct {
	Width        *float64 `yaml:"width"`
	Height       *float64 `yaml:"height"`
	HStep        *float64 `yaml:"hstep"`
	VStep        *float64 `yaml:"vstep"`
	ScrollStep   *float64 `yaml:"scroll-step"`
	RefreshRate  *string  `yaml:"refresh-rate"`
	IFrameWidth  *float64 `yaml:"iframe-width"`
	IFrameHeight *float64 `yaml:"iframe-height"`
	InputWidth   *float64 `yaml:"input-width"`
	DarkMode     *bool    `yaml:"dark-mode"`
	FontFamily   *string  `yaml:"font-family"`
}

// LoadYAML creates registers with defaults, overridden by the values found
// in a YAML document. Missing keys keep their defaults.
func LoadYAML(r io.Reader) (*Registers, error) {
	regs := NewRegisters()
	var conf config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&conf); err != nil && err != io.EOF {
		return regs, core.WrapError(err, core.EINVALID, "cannot read engine configuration")
	}
	dimens := []struct {
		key EngineParameter
		val *float64
	}{
		{P_WIDTH, conf.Width}, {P_HEIGHT, conf.Height},
		{P_HSTEP, conf.HStep}, {P_VSTEP, conf.VStep},
		{P_SCROLLSTEP, conf.ScrollStep},
		{P_IFRAMEWIDTH, conf.IFrameWidth}, {P_IFRAMEHEIGHT, conf.IFrameHeight},
		{P_INPUTWIDTH, conf.InputWidth},
	}
	for _, d := range dimens {
		if d.val == nil {
			continue
		}
		if *d.val < 0 {
			return regs, core.Error(core.EINVALID, "parameter %s must not be negative", d.key)
		}
		regs.Push(d.key, dimen.Dimen(*d.val))
	}
	if conf.RefreshRate != nil {
		rate, err := time.ParseDuration(*conf.RefreshRate)
		if err != nil || rate <= 0 {
			return regs, core.WrapError(err, core.EINVALID, "invalid refresh rate %q", *conf.RefreshRate)
		}
		regs.Push(P_REFRESHRATE, rate)
	}
	if conf.DarkMode != nil {
		regs.Push(P_DARKMODE, *conf.DarkMode)
	}
	if conf.FontFamily != nil {
		regs.Push(P_FONTFAMILY, *conf.FontFamily)
	}
	return regs, nil
}
