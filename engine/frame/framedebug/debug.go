/*
Package framedebug writes layout trees as GraphViz DOT graphs.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package framedebug

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/tyweb/engine/dom/style"
	"github.com/npillmayer/tyweb/engine/frame"
)

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname string
	BoxTmpl  *template.Template
	EdgeTmpl *template.Template
	cnt      int
}

// maxBoxes guards against erroneous cycles.
const maxBoxes = 5000

// ToGraphViz creates a graphical representation of a layout tree.
// It produces a DOT file format suitable as input for Graphviz, given a Writer.
func ToGraphViz(root frame.Box, w io.Writer, tracer tracing.Trace) error {
	header, err := template.New("layoutTree").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.BoxTmpl = template.Must(template.New("box").Funcs(
		template.FuncMap{
			"shortstring": shortText,
			"istext":      isTextBox,
			"label":       Label,
		}).Parse(boxTmpl))
	gparams.EdgeTmpl = template.Must(template.New("boxedge").Parse(edgeTmpl))
	if err = header.Execute(w, gparams); err != nil {
		return err
	}
	dict := make(map[frame.Box]string, 1024)
	if err = boxes(root, w, dict, &gparams, tracer); err != nil {
		return err
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

func boxes(b frame.Box, w io.Writer, dict map[frame.Box]string, gparams *graphParamsType,
	tracer tracing.Trace) error {
	//
	gparams.cnt++
	if gparams.cnt == maxBoxes {
		tracer.Errorf("layout tree has more than %d boxes, truncating graph", maxBoxes)
		return nil
	}
	if err := box(b, w, dict, gparams); err != nil {
		return err
	}
	tracer.Debugf("box = %v", b)
	for _, child := range b.Children() {
		if err := boxes(child, w, dict, gparams, tracer); err != nil {
			return err
		}
		if err := edge(b, child, w, dict, gparams); err != nil {
			return err
		}
	}
	return nil
}

func box(b frame.Box, w io.Writer, dict map[frame.Box]string, gparams *graphParamsType) error {
	name := dict[b]
	if name == "" {
		name = fmt.Sprintf("node%05d", len(dict)+1)
		dict[b] = name
	}
	return gparams.BoxTmpl.Execute(w, &cbox{B: b, Name: name, Fill: fill(b)})
}

// Helper structs
type cbox struct {
	B    frame.Box
	Name string
	Fill string
}

type cedge struct {
	N1, N2 cbox
}

func edge(b1, b2 frame.Box, w io.Writer, dict map[frame.Box]string, gparams *graphParamsType) error {
	e := cedge{cbox{B: b1, Name: dict[b1]}, cbox{B: b2, Name: dict[b2]}}
	return gparams.EdgeTmpl.Execute(w, e)
}

// ---------------------------------------------------------------------------

// worded is implemented by text boxes.
type worded interface {
	Word() string
}

func shortText(c *cbox) string {
	txt := ""
	if t, ok := c.B.(worded); ok {
		txt = t.Word()
	}
	s := fmt.Sprintf("\"%s \\\"", "T")
	if len(txt) > 10 {
		s += txt[:10] + "…\\\"\""
	} else {
		s += txt + "\\\"\""
	}
	s = strings.Replace(s, "\n", `\\n`, -1)
	s = strings.Replace(s, "\t", `\\t`, -1)
	return s
}

// Label returns a one-line description of a box: a display mode symbol, the
// kind of box and the tag of its content node.
func Label(b frame.Box) string {
	if b == nil {
		return "\"<empty box>\""
	}
	n := b.DOMNode()
	tag := ""
	sym := frame.NoMode.Symbol()
	if n != nil {
		tag = n.Tag()
		sym = frame.ModeOf(n).Symbol()
	}
	if b.LayoutNeeded() {
		return fmt.Sprintf("\"%s %s %s\"", sym, b.Kind(), tag)
	}
	g := b.Geometry()
	return fmt.Sprintf("\"%s %s %s\\n%s\"", sym, b.Kind(), tag, g)
}

func isTextBox(b frame.Box) bool {
	return b.Kind() == frame.TextKind
}

// fill derives the fill color of a box from the background color of its
// content node.
func fill(b frame.Box) string {
	n := b.DOMNode()
	if n == nil || n.Style() == nil || b.Kind() != frame.BlockKind {
		return "lightblue3"
	}
	bg, ok := n.Style().Values()[style.BackgroundColor]
	if !ok || bg == "transparent" || bg == "" {
		return "lightblue3"
	}
	return fmt.Sprintf("%q", bg)
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=12] ;
   node [fontname = "{{ .Fontname }}" fontsize=12] ;
   edge [fontname = "{{ .Fontname }}" fontsize=12] ;
`
const boxTmpl = `{{ if istext .B }}
{{ .Name }}	[ label={{ shortstring . }} shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{ else }}
{{ .Name }}	[ label={{ label .B }} shape=box style=filled fillcolor={{ .Fill }} ] ;
{{ end }}
`

const edgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [weight=1] ;
`
