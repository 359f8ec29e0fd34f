package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

func main() {
	definition := flag.String("definition", "", "form definition file (bundled signup form if empty)")
	format := flag.String("format", "json", "output format: json, form or pretty")
	output := flag.String("output", "", "output file (stdout if empty)")
	attempts := flag.Int("max-attempts", 3, "prompts per field before giving up")
	debug := flag.Bool("debug", false, "log binding commits to stderr")
	flag.Parse()

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	outputFormat, ok := tui.ParseOutputFormat(*format)
	if !ok {
		log.Fatalf("invalid format: %q", *format)
	}

	var (
		fsys fs.FS
		path string
	)
	if *definition != "" {
		fsys = os.DirFS(filepath.Dir(*definition))
		path = filepath.Base(*definition)
	}
	def, err := formstate.LoadDefinition(fsys, path)
	if err != nil {
		log.Fatalf("Failed to load definition: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := formstate.RunTerminal(ctx, def, formstate.TerminalConfig{
		Logger: logger,
		Options: []tui.Option{
			tui.WithOutputFormat(outputFormat),
			tui.WithMaxAttempts(*attempts),
			tui.WithTheme(tui.Theme{ErrorPrefix: "✗ "}),
		},
	})
	if err != nil {
		log.Fatalf("Failed to complete form: %v", err)
	}
	if !res.Submitted {
		log.Fatalf("Form was not submitted (nothing changed or still invalid)")
	}

	if *output != "" {
		if err := os.WriteFile(*output, res.Output, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Submission written to %s\n", *output)
	} else {
		fmt.Println(string(res.Output))
	}
	if !res.Proceed {
		os.Exit(2)
	}
}
