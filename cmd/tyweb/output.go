package main

import (
	"context"
	"image/color"
	"image/png"
	"os"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/npillmayer/tyweb/backend/raster"
	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/core/parameters"
	"github.com/npillmayer/tyweb/engine/browsing"
	"github.com/npillmayer/tyweb/engine/frame/framedebug"
	"github.com/npillmayer/tyweb/engine/paint"
)

// leveledList converts a display list into a pterm leveled list.
func leveledList(list []paint.Command) pterm.LeveledList {
	levels := paint.Leveled(list)
	ll := make(pterm.LeveledList, len(levels))
	for i, l := range levels {
		ll[i] = pterm.LeveledListItem{Level: l.Depth, Text: l.Text}
	}
	return ll
}

func showDisplayList(state browsing.State) {
	pterm.Info.Printfln("Page height %.1f px, scroll %.1f px, %d commands",
		state.Height.Px(), state.Scroll.Px(), paint.Count(state.DisplayList))
	if len(state.DisplayList) == 0 {
		return
	}
	root := putils.TreeFromLeveledList(leveledList(state.DisplayList))
	if err := pterm.DefaultTree.WithRoot(root).Render(); err != nil {
		tracer().Errorf(err.Error())
	}
}

// writeDot writes the layout tree of the root frame of tab.
func writeDot(tab *browsing.Tab, name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	onTab(tab, "dot", func(context.Context) {
		root := tab.RootFrame()
		if root == nil || root.Document() == nil {
			err = browsing.ErrNotLoaded
			return
		}
		err = framedebug.ToGraphViz(root.Document(), f, tracer())
	})
	if err == nil {
		pterm.Info.Printfln("Layout tree written to %s", name)
	}
	return err
}

// writePNG rasters the whole page, not only the visible part.
func writePNG(state browsing.State, regs *parameters.Registers, dark bool, name string) error {
	bg := color.Color(color.White)
	if dark {
		bg = color.Black
	}
	w := regs.D(parameters.P_WIDTH)
	h := dimen.Max(state.Height, regs.D(parameters.P_HEIGHT))
	img := raster.Canvas(int(w.Ceil()), int(h.Ceil()), bg)
	raster.Raster(state.DisplayList, img, 0)
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err = png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err == nil {
		pterm.Info.Printfln("Page written to %s", name)
	}
	return err
}
