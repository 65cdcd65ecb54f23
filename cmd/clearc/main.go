package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/clear-lang/clearc/internal/assembler"
	"github.com/clear-lang/clearc/internal/astbuild"
	"github.com/clear-lang/clearc/internal/codegen"
	"github.com/clear-lang/clearc/internal/config"
	"github.com/clear-lang/clearc/internal/diagnostics"
	"github.com/clear-lang/clearc/internal/flow"
	"github.com/clear-lang/clearc/internal/lexer"
	"github.com/clear-lang/clearc/internal/parser"
	"github.com/clear-lang/clearc/internal/pipeline"
	"github.com/clear-lang/clearc/internal/resolver"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorGreen  = "\x1b[32m"
)

// options are the resolved settings for one compiler invocation, merged from
// flags and the nearest clear.yaml.
type options struct {
	sourcePath    string
	outPath       string
	redeclaration pipeline.RedeclarationPolicy
	color         bool
	watch         bool
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if handleHelp() {
		return
	}
	if handleVersion() {
		return
	}

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		usage(os.Stderr)
		os.Exit(2)
	}

	if opts.watch {
		watchAndCompile(opts)
		return
	}

	if !compile(opts) {
		os.Exit(1)
	}
}

func handleHelp() bool {
	if len(os.Args) < 2 {
		return false
	}
	if os.Args[1] != "-help" && os.Args[1] != "--help" && os.Args[1] != "help" {
		return false
	}
	usage(os.Stdout)
	return true
}

func handleVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	if os.Args[1] != "-version" && os.Args[1] != "--version" && os.Args[1] != "version" {
		return false
	}
	fmt.Printf("clearc %s\n", config.Version)
	return true
}

func usage(w *os.File) {
	fmt.Fprintf(w, "Usage: %s [flags] <file%s>\n", filepath.Base(os.Args[0]), config.SourceFileExt)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o <path>      write the artifact to <path>")
	fmt.Fprintln(w, "  -w, --watch    recompile whenever the source file changes")
	fmt.Fprintln(w, "  --no-color     disable diagnostic coloring")
	fmt.Fprintln(w, "  --version      print the compiler version")
}

func parseArgs(args []string) (*options, error) {
	opts := &options{
		redeclaration: pipeline.RedeclarationShadow,
		color:         isatty.IsTerminal(os.Stderr.Fd()),
	}
	noColor := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-w" || arg == "--watch":
			opts.watch = true
		case arg == "--no-color":
			noColor = true
		case arg == "-o":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-o requires a path")
			}
			i++
			opts.outPath = args[i]
		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unknown flag %q", arg)
		case opts.sourcePath != "":
			return nil, fmt.Errorf("only one source file may be given")
		default:
			opts.sourcePath = arg
		}
	}
	if opts.sourcePath == "" {
		return nil, fmt.Errorf("no source file given")
	}
	if !strings.HasSuffix(opts.sourcePath, config.SourceFileExt) {
		return nil, fmt.Errorf("%s is not a %s file", opts.sourcePath, config.SourceFileExt)
	}

	cfg, err := config.Find(opts.sourcePath)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		if cfg.Redeclaration == "error" {
			opts.redeclaration = pipeline.RedeclarationError
		}
		if cfg.Color != nil {
			opts.color = *cfg.Color
		}
		if opts.outPath == "" && cfg.Out != "" {
			out := cfg.Out
			if !filepath.IsAbs(out) {
				out = filepath.Join(cfg.Dir, out)
			}
			opts.outPath = resolveOutPath(out, opts.sourcePath)
		}
	}
	if noColor {
		opts.color = false
	}
	if opts.outPath == "" {
		opts.outPath = strings.TrimSuffix(opts.sourcePath, config.SourceFileExt) + config.ArtifactFileExt
	}
	return opts, nil
}

// resolveOutPath treats a directory-looking out setting as a directory the
// artifact goes into, and anything else as the artifact path itself.
func resolveOutPath(out, sourcePath string) string {
	info, err := os.Stat(out)
	isDir := err == nil && info.IsDir()
	if isDir || strings.HasSuffix(out, string(filepath.Separator)) {
		base := filepath.Base(sourcePath)
		artifact := strings.TrimSuffix(base, config.SourceFileExt) + config.ArtifactFileExt
		return filepath.Join(out, artifact)
	}
	return out
}

// compile runs the full pipeline over the source file and writes the artifact.
// It reports success; diagnostics go to stderr either way.
func compile(opts *options) bool {
	source, err := os.ReadFile(opts.sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading source file: %s\n", err)
		return false
	}

	ctx := &pipeline.Context{
		FilePath:      opts.sourcePath,
		Source:        string(source),
		Redeclaration: opts.redeclaration,
	}

	compiler := pipeline.New(
		&lexer.Processor{},
		&parser.Processor{},
		&astbuild.Processor{},
		&resolver.Processor{},
		&flow.Processor{},
		&codegen.Processor{},
	)
	final := compiler.Run(ctx)

	printDiagnostics(final.Errors, opts.color)
	if final.Failed() {
		fmt.Fprintf(os.Stderr, "%s %s\n", paint("Could not compile:", colorRed, opts.color), opts.sourcePath)
		return false
	}

	data := assembler.Assemble(final.Code)
	if err := writeArtifact(opts.outPath, data); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing artifact: %s\n", err)
		return false
	}
	fmt.Printf("%s %s -> %s (%d bytes)\n",
		paint("Compiled successfully:", colorGreen, opts.color), opts.sourcePath, opts.outPath, len(data))
	return true
}

func printDiagnostics(list []*diagnostics.Diagnostic, color bool) {
	for _, d := range list {
		line := d.Error()
		if d.Severity == diagnostics.SeverityWarning {
			line = paint(line, colorYellow, color)
		} else {
			line = paint(line, colorRed, color)
		}
		fmt.Fprintf(os.Stderr, "- %s\n", line)
	}
}

func paint(s, color string, enabled bool) string {
	if !enabled {
		return s
	}
	return color + s + colorReset
}

// writeArtifact writes the bytecode atomically: a uniquely named temp file in
// the target directory, then a rename over the destination.
func writeArtifact(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// watchAndCompile recompiles on every write to the source file until
// interrupted. Editors often replace files on save, so the watch is on the
// directory and filtered by name.
func watchAndCompile(opts *options) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting watcher: %s\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	dir := filepath.Dir(opts.sourcePath)
	if err := watcher.Add(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error watching %s: %s\n", dir, err)
		os.Exit(1)
	}

	target, err := filepath.Abs(opts.sourcePath)
	if err != nil {
		target = opts.sourcePath
	}

	compile(opts)
	fmt.Printf("Watching %s\n", opts.sourcePath)

	// Save events arrive in bursts; a short debounce collapses them into
	// one recompile.
	var pending *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(100*time.Millisecond, func() {
				compile(opts)
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Watch error: %s\n", err)
		}
	}
}
