package main

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/core/parameters"
	"github.com/npillmayer/tyweb/engine/browsing"
)

// Intp is our interpreter object
type Intp struct {
	browser *browsing.Browser
	repl    *readline.Instance
	regs    *parameters.Registers
	dark    bool
}

func newIntp(b *browsing.Browser, regs *parameters.Registers, dark bool) (*Intp, error) {
	repl, err := readline.New("tyweb > ")
	if err != nil {
		return nil, err
	}
	return &Intp{browser: b, repl: repl, regs: regs, dark: dark}, nil
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	defer intp.repl.Close()
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			reportError(err)
			continue
		}
		if cmd.op == QUIT {
			break
		}
		if err = intp.execute(cmd); err != nil {
			reportError(err)
		}
	}
	pterm.Info.Println("Good bye!")
}

// Op codes of interactive commands.
const (
	QUIT int = iota
	HELP
	CLICK
	KEY
	TAB
	ENTER
	DOWN
	BACK
	LOAD
	ZOOMIN
	ZOOMOUT
	ZOOMRESET
	DARK
	SHOW
	PNG
)

// Command is a parsed interactive command.
type Command struct {
	op   int
	x, y dimen.Dimen
	arg  string
}

var errUsage = errors.New("unknown command, try 'help'")

func parseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, errUsage
	}
	args := fields[1:]
	switch strings.ToLower(fields[0]) {
	case "quit", "q":
		return Command{op: QUIT}, nil
	case "help", "?":
		return Command{op: HELP}, nil
	case "click":
		if len(args) != 2 {
			return Command{}, errors.New("usage: click <x> <y>")
		}
		x, errx := strconv.ParseFloat(args[0], 64)
		y, erry := strconv.ParseFloat(args[1], 64)
		if errx != nil || erry != nil {
			return Command{}, fmt.Errorf("cannot read coordinates %s %s", args[0], args[1])
		}
		return Command{op: CLICK, x: dimen.Dimen(x), y: dimen.Dimen(y)}, nil
	case "key", "type":
		if len(args) == 0 {
			return Command{}, errors.New("usage: key <text>")
		}
		text := strings.TrimSpace(line[len(fields[0]):])
		return Command{op: KEY, arg: text}, nil
	case "tab":
		return Command{op: TAB}, nil
	case "enter":
		return Command{op: ENTER}, nil
	case "down":
		return Command{op: DOWN}, nil
	case "back":
		return Command{op: BACK}, nil
	case "load":
		if len(args) != 1 {
			return Command{}, errors.New("usage: load <url>")
		}
		return Command{op: LOAD, arg: args[0]}, nil
	case "zoom":
		if len(args) != 1 {
			return Command{}, errors.New("usage: zoom in|out|reset")
		}
		switch args[0] {
		case "in", "+":
			return Command{op: ZOOMIN}, nil
		case "out", "-":
			return Command{op: ZOOMOUT}, nil
		case "reset", "0":
			return Command{op: ZOOMRESET}, nil
		}
		return Command{}, fmt.Errorf("unknown zoom direction %q", args[0])
	case "dark":
		return Command{op: DARK}, nil
	case "show", "list":
		return Command{op: SHOW}, nil
	case "png":
		if len(args) != 1 {
			return Command{}, errors.New("usage: png <file>")
		}
		return Command{op: PNG, arg: args[0]}, nil
	}
	return Command{}, errUsage
}

func (intp *Intp) execute(cmd Command) error {
	b := intp.browser
	switch cmd.op {
	case HELP:
		help()
		return nil
	case SHOW:
		showDisplayList(b.Snapshot())
		return nil
	case PNG:
		return writePNG(b.Snapshot(), intp.regs, intp.dark, cmd.arg)
	case CLICK:
		b.HandleClick(cmd.x, cmd.y)
	case KEY:
		for _, r := range cmd.arg {
			b.HandleKey(r)
		}
	case TAB:
		b.HandleTab()
	case ENTER:
		b.HandleEnter()
	case DOWN:
		b.HandleDown()
	case BACK:
		b.GoBack()
	case LOAD:
		u, err := url.Parse(cmd.arg)
		if err != nil {
			return err
		}
		if u.Scheme == "" {
			if u, err = pageURL(cmd.arg); err != nil {
				return err
			}
		}
		b.Load(u)
	case ZOOMIN:
		b.Zoom(true)
	case ZOOMOUT:
		b.Zoom(false)
	case ZOOMRESET:
		b.ResetZoom()
	case DARK:
		intp.dark = !intp.dark
		b.ToggleDarkMode()
	}
	if err := settle(b); err != nil {
		return err
	}
	status(b.Snapshot())
	return nil
}

func status(state browsing.State) {
	focus := "none"
	if state.Focus != nil {
		focus = state.Focus.String()
	}
	pterm.Printfln("%s  scroll=%.0f height=%.0f focus=%s", state.URL, state.Scroll.Px(), state.Height.Px(), focus)
}

func help() {
	pterm.Println(`Commands:
  click <x> <y>      click at window coordinates
  key <text>         type text into the focused element
  tab | enter        move or activate the focus
  down | back        scroll down, go back in history
  load <url>         load a page
  zoom in|out|reset  change the zoom factor
  dark               toggle dark mode
  show               print the display list
  png <file>         write the page as an image
  quit`)
}
