/*
Command tyweb loads an HTML page, renders it and prints its display list.

	tyweb [-width N] [-dark] [-zoom Z] [-dot out.dot] [-png out.png] [-config cfg.yaml] [-i] page.html

With -i, tyweb enters an interactive mode after loading, where user input
may be sent to the page.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"go.uber.org/multierr"

	"github.com/npillmayer/tyweb/core"
	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/core/parameters"
	"github.com/npillmayer/tyweb/engine/browsing"
)

// tracer traces with key 'tyweb.cli'
func tracer() tracing.Trace {
	return tracing.Select("tyweb.cli")
}

// loadTimeout limits the time for loading and settling a page.
const loadTimeout = 30 * time.Second

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	width := flag.Float64("width", 0, "Width of the viewport in CSS pixels")
	dark := flag.Bool("dark", false, "Use dark mode")
	zoom := flag.Float64("zoom", 1, "Zoom factor")
	dotfile := flag.String("dot", "", "Write the layout tree as a GraphViz DOT file")
	pngfile := flag.String("png", "", "Write the rendered page as a PNG image")
	config := flag.String("config", "", "YAML file with engine parameters")
	interactive := flag.Bool("i", false, "Enter interactive mode after loading")
	flag.Parse()

	if err := initTracing(*tlevel); err != nil {
		fmt.Printf("error configuring tracing: %v\n", err)
		os.Exit(1)
	}
	if flag.NArg() != 1 {
		pterm.Error.Println("usage: tyweb [flags] page.html")
		flag.PrintDefaults()
		os.Exit(2)
	}
	regs, err := loadRegisters(*config)
	if err != nil {
		reportError(err)
		os.Exit(3)
	}
	if *width > 0 {
		regs.Push(parameters.P_WIDTH, dimen.Dimen(*width))
	}
	if *dark {
		regs.Push(parameters.P_DARKMODE, true)
	}
	u, err := pageURL(flag.Arg(0))
	if err != nil {
		reportError(err)
		os.Exit(3)
	}
	//
	b := browsing.NewBrowser(newFetcher(), regs)
	defer b.Close()
	tab := b.NewTab(u)
	if *zoom != 1 {
		tab.Schedule("zoom", func(ctx context.Context) {
			tab.SetZoom(*zoom)
		})
	}
	if err := settle(b); err != nil {
		reportError(fmt.Errorf("page did not settle: %w", err))
		os.Exit(4)
	}
	pterm.Info.Printfln("Loaded %s", u)
	for _, err := range reportLoadErrors(tab) {
		reportError(err)
	}
	showDisplayList(b.Snapshot())
	if *dotfile != "" {
		if err := writeDot(tab, *dotfile); err != nil {
			reportError(err)
		}
	}
	if *pngfile != "" {
		if err := writePNG(b.Snapshot(), regs, *dark, *pngfile); err != nil {
			reportError(err)
		}
	}
	if *interactive {
		intp, err := newIntp(b, regs, *dark)
		if err != nil {
			reportError(err)
			os.Exit(5)
		}
		pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
		intp.REPL()
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func initTracing(level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":      "go",
		"trace.tyweb.cli":      level,
		"trace.tyweb.browsing": level,
		"trace.tyweb.dom":      level,
		"trace.tyweb.style":    level,
		"trace.tyweb.css":      level,
		"trace.tyweb.layout":   level,
		"trace.tyweb.raster":   level,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

func loadRegisters(config string) (*parameters.Registers, error) {
	if config == "" {
		return parameters.NewRegisters(), nil
	}
	f, err := os.Open(config)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parameters.LoadYAML(f)
}

// pageURL accepts URLs as well as paths of local files.
func pageURL(arg string) (*url.URL, error) {
	if u, err := url.Parse(arg); err == nil && (u.Scheme == "http" || u.Scheme == "https" || u.Scheme == "file") {
		return u, nil
	}
	path, err := filepath.Abs(arg)
	if err != nil {
		return nil, err
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(path)}, nil
}

func newFetcher() browsing.Fetcher {
	web := browsing.HTTPFetcher{}
	return browsing.SchemeFetcher{
		"file":  browsing.FileFetcher{},
		"http":  web,
		"https": web,
	}
}

// settle drives animation frames until the page has loaded and all
// animations have finished.
func settle(b *browsing.Browser) error {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	return b.WaitIdle(ctx)
}

// onTab runs fn on the task runner of tab and waits for it.
func onTab(tab *browsing.Tab, name string, fn func(ctx context.Context)) {
	done := make(chan struct{})
	tab.Schedule(name, func(ctx context.Context) {
		defer close(done)
		fn(ctx)
	})
	select {
	case <-done:
	case <-time.After(loadTimeout):
		tracer().Errorf("task %q did not finish", name)
	}
}

// reportLoadErrors collects the subresource errors of all frames of tab.
func reportLoadErrors(tab *browsing.Tab) (errs []error) {
	onTab(tab, "load errors", func(context.Context) {
		for _, f := range tab.Frames() {
			errs = append(errs, multierr.Errors(f.LoadErrors())...)
		}
	})
	return
}

// reportError prints err with its error code and user message.
func reportError(err error) {
	pterm.Error.Println(core.UserError(err))
}
