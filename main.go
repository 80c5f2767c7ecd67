package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"cmdtree/internal/codegen"
	"cmdtree/internal/config"
	"cmdtree/internal/editor"
	"cmdtree/internal/export"
	"cmdtree/internal/model"
	"cmdtree/internal/repl"
	"cmdtree/internal/tui"
	"cmdtree/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chzyer/readline"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
)

func checkUpdate(w io.Writer, url, currentVer string) {
	if url == "" {
		fmt.Fprintln(w, "No update URL configured (set update.url in the config file)")
		return
	}
	res, err := latest.Check(&latest.JSON{URL: url}, currentVer)
	if err != nil {
		fmt.Fprintf(w, "Update check failed: %v\n", err)
		return
	}

	if res.Outdated {
		fmt.Fprintf(w, "\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		if res.Meta != nil && res.Meta.URL != "" {
			fmt.Fprintf(w, "👉 Download it from %s\n", res.Meta.URL)
		}
	} else {
		fmt.Fprintf(w, "✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cmdtree [options]\n\n")
		fmt.Fprintf(os.Stderr, "cmdtree is an editor for the command structure of a CLI.\n")
		fmt.Fprintf(os.Stderr, "Build a tree of commands and flags, then export it as a cobra program.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  cmdtree                   # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  cmdtree --web             # Edit in the browser\n")
		fmt.Fprintf(os.Stderr, "  cmdtree --repl            # Line mode\n")
		fmt.Fprintf(os.Stderr, "  cmdtree -g tree.json      # Print the program generated for a saved tree\n")
	}

	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode (see --addr)")
	replFlag := pflag.Bool("repl", false, "Start line mode")
	generateFlag := pflag.StringP("generate", "g", "", "Generate code for a JSON tree read from FILE (- for stdin) and exit")
	generatorFlag := pflag.String("generator", "", "URL of the code generation service (empty: generate in-process)")
	addrFlag := pflag.String("addr", "", "Listen address for Web Mode (default from config, localhost:8080)")
	configFlag := pflag.String("config", "", "Config file (default $XDG_CONFIG_HOME/cmdtree/config.yaml)")
	rootNameFlag := pflag.String("root-name", "", "Name of the root command of a new tree")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("cmdtree version %s\n", model.Version)
		return
	}

	if *generateFlag != "" {
		if err := runGenerateMode(*generateFlag, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfgPath := *configFlag
	if cfgPath == "" {
		if p, err := config.DefaultPath(); err == nil {
			cfgPath = p
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if pflag.Lookup("generator").Changed {
		cfg.Generator.URL = *generatorFlag
	}
	if *addrFlag != "" {
		cfg.Web.Addr = *addrFlag
	}
	if *rootNameFlag != "" {
		cfg.RootName = *rootNameFlag
	}

	if *updateFlag {
		checkUpdate(os.Stdout, cfg.Update.URL, model.Version)
		return
	}

	ctrl := editor.New(model.NewTree(cfg.RootName), editor.WithTransport(newTransport(cfg)))

	if *webFlag {
		runWebMode(ctrl, cfg)
		return
	}

	if *replFlag {
		runReplMode(ctrl, filepath.Join(filepath.Dir(cfgPath), "history"))
		return
	}

	// Default: TUI
	runTuiMode(ctrl)
}

// newTransport picks the HTTP generator when a URL is configured and the
// in-process generator otherwise.
func newTransport(cfg config.Config) editor.Transport {
	if cfg.Generator.URL == "" {
		return codegen.Local{}
	}
	return export.New(cfg.Generator.URL,
		export.WithToken(cfg.Generator.Token),
		export.WithTimeout(cfg.Generator.Timeout),
	)
}

func runGenerateMode(path string, out io.Writer) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}

	root, err := model.Parse(data)
	if err != nil {
		return err
	}
	code, err := codegen.Generate(root)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, code)
	return err
}

func runWebMode(ctrl *editor.Controller, cfg config.Config) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	layout := web.Layout{
		Width:  cfg.Web.Canvas.Width,
		Height: cfg.Web.Canvas.Height,
		Angle:  cfg.Web.Layout.Angle,
		Radius: cfg.Web.Layout.Radius,
	}
	if err := web.New(ctrl, layout).ListenAndServe(ctx, cfg.Web.Addr); err != nil {
		log.Fatal(err)
	}
}

func runReplMode(ctrl *editor.Controller, historyFile string) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "cmdtree> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatalf("Failed to initialize readline: %v", err)
	}
	defer rl.Close()

	fmt.Println("cmdtree line mode. Type 'help' for commands.")
	if err := repl.New(ctrl, rl, rl.Stdout()).Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func runTuiMode(ctrl *editor.Controller) {
	// Anything logged while the TUI owns the screen goes to a file or nowhere.
	if os.Getenv("CMDTREE_DEBUG") != "" {
		f, err := tea.LogToFile("cmdtree-debug.log", "cmdtree")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	m := tui.New(ctrl)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
