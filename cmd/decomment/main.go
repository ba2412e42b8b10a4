// Command decomment removes comments from HTML files and the scripts and
// styles they embed. Run with the lsp subcommand to serve editors instead.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"bennypowers.dev/decomment/internal/batch"
	"bennypowers.dev/decomment/internal/config"
	"bennypowers.dev/decomment/internal/decomment"
	"bennypowers.dev/decomment/internal/log"
	"bennypowers.dev/decomment/internal/version"
	"bennypowers.dev/decomment/lsp"
)

const usage = `Usage: decomment [flags] [path ...]
       decomment lsp

Removes HTML comments, and comments inside <script> and <style> elements,
from every matching file under each path (default: the current directory).

Flags:
`

// patternList collects repeated or comma-separated pattern flags
type patternList []string

func (p *patternList) String() string {
	return strings.Join(*p, ",")
}

func (p *patternList) Set(value string) error {
	for pattern := range strings.SplitSeq(value, ",") {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			*p = append(*p, pattern)
		}
	}
	return nil
}

type options struct {
	include     patternList
	exclude     patternList
	mode        string
	noScript    bool
	noStyle     bool
	dryRun      bool
	concurrency int
	verbose     bool
	logLevel    string
	version     bool
	set         map[string]bool
	roots       []string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: map[string]bool{}}
	fs := flag.NewFlagSet("decomment", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	fs.Var(&opts.include, "include", "glob selecting files to process, repeatable (default **/*.html)")
	fs.Var(&opts.exclude, "exclude", "glob selecting files or directories to skip, repeatable (default node_modules/**)")
	fs.StringVar(&opts.mode, "mode", "", "markup handling: dom re-serializes the tree, source keeps the original text (default dom)")
	fs.BoolVar(&opts.noScript, "no-script", false, "leave <script> contents untouched")
	fs.BoolVar(&opts.noStyle, "no-style", false, "leave <style> contents untouched")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "report what would change without writing files")
	fs.IntVar(&opts.concurrency, "concurrency", 0, "files processed at once (default number of CPUs)")
	fs.BoolVar(&opts.verbose, "v", false, "log every file")
	fs.StringVar(&opts.logLevel, "log-level", "", "minimum log level: debug, info, warn, error")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	opts.roots = fs.Args()
	return opts, nil
}

// apply overrides file configuration with the flags given on the command line
func (o *options) apply(cfg *config.Config) error {
	if o.set["include"] {
		cfg.Include = o.include
	}
	if o.set["exclude"] {
		cfg.Exclude = o.exclude
	}
	if o.set["mode"] {
		mode, err := decomment.ParseMode(o.mode)
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}
	if o.set["no-script"] {
		cfg.Script = !o.noScript
	}
	if o.set["no-style"] {
		cfg.Style = !o.noStyle
	}
	if o.set["dry-run"] {
		cfg.DryRun = o.dryRun
	}
	if o.set["concurrency"] {
		cfg.Concurrency = o.concurrency
	}
	if o.set["v"] {
		cfg.Verbose = o.verbose
	}
	return cfg.Validate()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "lsp" {
		return serve()
	}

	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "decomment %s\n", version.GetFullVersion())
		return 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		log.Error("Failed to resolve working directory: %v", err)
		return 1
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		log.Error("Failed to load configuration: %v", err)
		return 1
	}
	if err := opts.apply(cfg); err != nil {
		log.Error("Invalid configuration: %v", err)
		return 2
	}

	if cfg.Verbose {
		log.SetLevel(log.LevelDebug)
	}
	if opts.logLevel != "" {
		level, err := log.ParseLevel(opts.logLevel)
		if err != nil {
			log.Error("%v", err)
			return 2
		}
		log.SetLevel(level)
	}
	if cfg.Source != "" {
		log.Debug("Loaded configuration from %s", cfg.Source)
	}

	summary, err := batch.Run(ctx, cfg, opts.roots...)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	if summary.FailedFiles > 0 {
		return 1
	}
	return 0
}

// serve runs the language server over stdio until the client disconnects
func serve() int {
	server, err := lsp.NewServer()
	if err != nil {
		log.Error("Failed to create LSP server: %v", err)
		return 1
	}
	defer func() { _ = server.Close() }()

	// Run with stdio transport (for VSCode and other editors)
	if err := server.RunStdio(); err != nil {
		log.Error("Server error: %v", err)
		return 1
	}
	return 0
}
