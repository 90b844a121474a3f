/*
Package xpathadapter implements an xpath.NodeNavigator.

We use this library for XPath queries:

	github.com/antchfx/xpath

Package xpathadapter implements an adapter to enable antchfx/xpath to
access a content tree, where nodes are of type dom.Node. The navigator
presents a virtual document node above the root element, so absolute
paths like "/html/body" work as expected.

For a description of the various methods of interface xpath.NodeNavigator
please refer to the documentation of antchfx/xpath. It is not replicated here.

BSD License

Copyright (c) 2017–21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of Norbert Pillmayer nor the names of its contributors
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
package xpathadapter

import (
	"bytes"
	"errors"

	"github.com/antchfx/xpath"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tyweb/core"
	"github.com/npillmayer/tyweb/engine/dom"
)

// tracer traces with key 'tyweb.dom'.
func tracer() tracing.Trace {
	return tracing.Select("tyweb.dom")
}

// NodeNavigator navigates a content tree. A nil current node denotes the
// virtual document node.
type NodeNavigator struct {
	root, current *dom.Node
	attr          int // attributes index
}

// NewNavigator creates a new xpath.NodeNavigator for a content tree,
// positioned at the document node.
func NewNavigator(root *dom.Node) *NodeNavigator {
	return &NodeNavigator{
		root: root,
		attr: -1,
	}
}

// CurrentNode returns the content node a navigator is positioned at.
// The result is nil for the document node.
func CurrentNode(nav xpath.NodeNavigator) (*dom.Node, error) {
	mynav, ok := nav.(*NodeNavigator)
	if !ok {
		return nil, errors.New("navigator is not of type xpathadapter.NodeNavigator")
	}
	return mynav.current, nil
}

func (nav *NodeNavigator) NodeType() xpath.NodeType {
	switch {
	case nav.current == nil:
		return xpath.RootNode
	case nav.current.IsText():
		return xpath.TextNode
	case nav.attr != -1:
		return xpath.AttributeNode
	}
	return xpath.ElementNode
}

func (nav *NodeNavigator) LocalName() string {
	if nav.current == nil {
		return ""
	}
	if nav.attr != -1 {
		return nav.current.HTMLNode().Attr[nav.attr].Key
	}
	return nav.current.Tag()
}

func (*NodeNavigator) Prefix() string {
	return ""
}

func (*NodeNavigator) NamespaceURL() string {
	return ""
}

func (nav *NodeNavigator) Value() string {
	switch {
	case nav.current == nil:
		return innerText(nav.root)
	case nav.current.IsText():
		return nav.current.Text()
	case nav.attr != -1:
		return nav.current.HTMLNode().Attr[nav.attr].Val
	}
	return innerText(nav.current)
}

func (nav *NodeNavigator) Copy() xpath.NodeNavigator {
	n := *nav
	return &n
}

func (nav *NodeNavigator) MoveToRoot() {
	nav.current = nil
	nav.attr = -1
}

func (nav *NodeNavigator) MoveToParent() bool {
	if nav.attr != -1 {
		nav.attr = -1 // move from attributes to element
		return true
	}
	if nav.current == nil {
		return false
	}
	if nav.current == nav.root {
		nav.current = nil
		return true
	}
	nav.current = nav.current.Parent()
	return nav.current != nil
}

func (nav *NodeNavigator) MoveToNextAttribute() bool {
	if nav.current == nil || !nav.current.IsElement() {
		return false
	}
	if nav.attr >= len(nav.current.HTMLNode().Attr)-1 {
		return false
	}
	nav.attr++
	return true
}

func (nav *NodeNavigator) MoveToChild() bool {
	if nav.attr != -1 {
		return false
	}
	if nav.current == nil {
		nav.current = nav.root
		return nav.root != nil
	}
	children := nav.current.Children()
	if len(children) == 0 {
		return false
	}
	nav.current = children[0]
	return true
}

// siblings returns the sibling list of the current node and its index.
func (nav *NodeNavigator) siblings() ([]*dom.Node, int) {
	if nav.current == nil || nav.current == nav.root || nav.current.Parent() == nil {
		return nil, -1
	}
	sibs := nav.current.Parent().Children()
	for i, s := range sibs {
		if s == nav.current {
			return sibs, i
		}
	}
	core.Invariant("content node %v missing from its parent's children", nav.current)
	return nil, -1
}

func (nav *NodeNavigator) MoveToFirst() bool {
	if nav.attr != -1 {
		return false
	}
	sibs, i := nav.siblings()
	if i <= 0 {
		return false
	}
	nav.current = sibs[0]
	return true
}

func (nav *NodeNavigator) MoveToNext() bool {
	if nav.attr != -1 {
		return false
	}
	sibs, i := nav.siblings()
	if i < 0 || i+1 >= len(sibs) {
		return false
	}
	nav.current = sibs[i+1]
	return true
}

func (nav *NodeNavigator) MoveToPrevious() bool {
	if nav.attr != -1 {
		return false
	}
	sibs, i := nav.siblings()
	if i <= 0 {
		return false
	}
	nav.current = sibs[i-1]
	return true
}

func (nav *NodeNavigator) MoveTo(other xpath.NodeNavigator) bool {
	n, ok := other.(*NodeNavigator)
	if !ok || n.root != nav.root {
		return false
	}
	nav.current = n.current
	nav.attr = n.attr
	return true
}

func (nav *NodeNavigator) String() string {
	return nav.Value()
}

var _ xpath.NodeNavigator = &NodeNavigator{}

// innerText returns the text between the start and end tags of the object.
func innerText(n *dom.Node) string {
	var output func(*bytes.Buffer, *dom.Node)
	output = func(buf *bytes.Buffer, n *dom.Node) {
		if n.IsText() {
			buf.WriteString(n.Text())
			return
		}
		for _, child := range n.Children() {
			output(buf, child)
		}
	}
	var buf bytes.Buffer
	if n != nil {
		output(&buf, n)
	}
	return buf.String()
}

// --- Queries ---------------------------------------------------------------

// Select evaluates an XPath expression on a content tree and returns the
// element and text nodes found, in document order. Attribute matches yield
// their owning element.
func Select(root *dom.Node, expr string) ([]*dom.Node, error) {
	x, err := xpath.Compile(expr)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "invalid XPath expression %q", expr)
	}
	var result []*dom.Node
	seen := make(map[*dom.Node]bool)
	iter := x.Select(NewNavigator(root))
	for iter.MoveNext() {
		n, err := CurrentNode(iter.Current())
		if err != nil {
			return result, err
		}
		if n != nil && !seen[n] {
			seen[n] = true
			result = append(result, n)
		}
	}
	tracer().Debugf("xpath %q selected %d nodes", expr, len(result))
	return result, nil
}
