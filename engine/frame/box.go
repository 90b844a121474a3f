package frame

/*
BSD License

Copyright (c) 2017–2021, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/

import (
	"fmt"

	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/npillmayer/tyweb/engine/paint"
)

// Kind enumerates the kinds of boxes of a layout tree.
type Kind uint8

// Box kinds
//go:generate stringer -type=Kind
const (
	NoKind Kind = iota
	DocumentKind
	BlockKind
	LineKind
	TextKind
	ImageKind
	InputKind
	IframeKind
)

var kindNames = [...]string{"NoKind", "Document", "Block", "Line", "Text", "Image", "Input", "Iframe"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsEmbed is true for kinds of replaced content.
func (k Kind) IsEmbed() bool {
	return k == ImageKind || k == InputKind || k == IframeKind
}

// Box is a node of a layout tree.
//
// LayoutNeeded is true if any field of the box is stale or if the box has
// stale descendants. Layout recomputes stale fields, recursing into children,
// and is a no-op if no layout is needed.
//
// ShouldPaint, Paint and PaintEffects are the box's contribution to the paint
// walk: Paint returns the commands for the box itself, PaintEffects wraps the
// commands of the box and its descendants into visual effects.
type Box interface {
	Kind() Kind
	DOMNode() *dom.Node
	Parent() Box
	Previous() Box
	Children() []Box // children of a settled box
	LayoutNeeded() bool
	Layout()
	ShouldPaint() bool
	Paint() []paint.Command
	PaintEffects(cmds []paint.Command) []paint.Command
	Geometry() Geometry
	String() string
}

// Geometry is a snapshot of the settled dimensions of a box.
type Geometry struct {
	X, Y, Width, Height dimen.Dimen
}

// Rect returns the border box of a geometry.
func (g Geometry) Rect() dimen.Rect {
	return dimen.XYWH(g.X, g.Y, g.Width, g.Height)
}

func (g Geometry) String() string {
	return fmt.Sprintf("x=%s y=%s w=%s h=%s", g.X, g.Y, g.Width, g.Height)
}

// TreeToList flattens a settled layout tree in pre-order.
func TreeToList(root Box) []Box {
	var list []Box
	var collect func(Box)
	collect = func(b Box) {
		list = append(list, b)
		for _, c := range b.Children() {
			collect(c)
		}
	}
	if root != nil {
		collect(root)
	}
	return list
}

// Check asserts that no box of a layout tree needs layout.
func Check(root Box) error {
	for _, b := range TreeToList(root) {
		if b.LayoutNeeded() {
			tracer().Errorf("box %v still needs layout", b)
			return fmt.Errorf("box %v needs layout after layout pass", b)
		}
	}
	return nil
}
