package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/magiconair/properties"
	"github.com/peterh/liner"

	"github.com/MakaronynaZavtrak/cppython"
)

const (
	appName     = "cppython"
	rcFile      = ".cppythonrc"
	historyFile = ".cppython_history"
)

var banner = "CPPython interactive shell\n" +
	"Ctrl+C cancels input, Ctrl+D exits. Type exit or quit to leave."

type options struct {
	History string `long:"history" description:"history file path (overrides rc file)"`
	NoColor bool   `long:"no-color" description:"disable ANSI colors"`
	RC      string `long:"rc" description:"rc file path (default ~/.cppythonrc)"`

	Args struct {
		Script string `positional-arg-name:"script" description:"script to run; omit for a REPL"`
	} `positional-args:"yes"`
}

// config is the merged view of the rc file and command-line flags. Flags
// win over rc keys, rc keys win over defaults.
type config struct {
	promptMain string
	promptCont string
	histPath   string
	color      bool
}

func loadConfig(opts *options) config {
	cfg := config{
		promptMain: ">>> ",
		promptCont: "... ",
		color:      true,
	}
	home, _ := os.UserHomeDir()
	cfg.histPath = filepath.Join(home, historyFile)

	rcPath := opts.RC
	if rcPath == "" {
		rcPath = filepath.Join(home, rcFile)
	}
	if p, err := properties.LoadFile(rcPath, properties.UTF8); err == nil {
		cfg.promptMain = p.GetString("prompt.main", cfg.promptMain)
		cfg.promptCont = p.GetString("prompt.cont", cfg.promptCont)
		cfg.histPath = p.GetString("history.file", cfg.histPath)
		cfg.color = p.GetBool("color", cfg.color)
	}

	if opts.History != "" {
		cfg.histPath = opts.History
	}
	if opts.NoColor {
		cfg.color = false
	}
	return cfg
}

func (c config) red(s string) string {
	if !c.color {
		return s
	}
	return "\x1b[31m" + s + "\x1b[0m"
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.Parse(); err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
			fmt.Println(err)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(2)
	}

	cfg := loadConfig(&opts)
	if opts.Args.Script != "" {
		os.Exit(runScript(cfg, opts.Args.Script))
	}
	os.Exit(runRepl(cfg))
}

func runScript(cfg config, path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return 1
	}
	ip := cppython.NewInterp()
	if _, err := ip.RunSource(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, cfg.red("Error: "+err.Error()))
		return 1
	}
	return 0
}

func runRepl(cfg config) int {
	fmt.Println(banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(cfg.histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(cfg.histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := cppython.NewInterp()
	for {
		code, ok := readEntry(ln, cfg.promptMain, cfg.promptCont)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		switch trimmed {
		case "exit", "quit", "q", "Q":
			return 0
		}

		v, isAssign, err := ip.RunEntry(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, cfg.red("Error: "+err.Error()))
			ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
			continue
		}
		// Assignments and empty results are silent, like the Python shell.
		if !isAssign && v.Tag != cppython.VTNone {
			fmt.Println(v.String())
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readEntry reads one logical entry. A line whose trimmed form ends with
// ':' opens a block: continuation lines are gathered under the secondary
// prompt until a blank line closes the block. Returns false on Ctrl+D.
func readEntry(ln *liner.State, prompt, cont string) (string, bool) {
	line, err := ln.Prompt(prompt)
	if errors.Is(err, io.EOF) {
		return "", false
	}
	if err != nil {
		return "", true
	}
	if !strings.HasSuffix(strings.TrimSpace(line), ":") {
		return line, true
	}

	var b strings.Builder
	b.WriteString(line)
	for {
		next, err := ln.Prompt(cont)
		if errors.Is(err, io.EOF) {
			return b.String(), true
		}
		if err != nil {
			return b.String(), true
		}
		if strings.TrimSpace(next) == "" {
			return b.String(), true
		}
		b.WriteByte('\n')
		b.WriteString(next)
	}
}
