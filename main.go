package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lgrando1/leo-tracker/internal/config"
	"github.com/lgrando1/leo-tracker/internal/database"
	"github.com/lgrando1/leo-tracker/internal/reference"
	"github.com/lgrando1/leo-tracker/internal/repository"
	"github.com/lgrando1/leo-tracker/internal/server"
	"github.com/lgrando1/leo-tracker/internal/services"
)

const usage = `usage:
  leo-tracker [serve]
  leo-tracker ingest -file alimentos.csv [-mode header|fixed] [-header=true] [-encodings utf-8,windows-1252]`

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	command := "serve"
	args := os.Args[1:]
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		err = serve(cfg)
	case "ingest":
		err = ingest(cfg, args)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		slog.Error(command+" failed", "error", err)
		os.Exit(1)
	}
}

func openDatabase(cfg config.Config) (*database.Client, error) {
	client, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := database.Migrate(ctx, client); err != nil {
		client.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return client, nil
}

func serve(cfg config.Config) error {
	client, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	return server.New(client, cfg).Start()
}

// ingest replaces the reference table from a file on disk.
func ingest(cfg config.Config, args []string) error {
	flags := flag.NewFlagSet("ingest", flag.ContinueOnError)
	file := flags.String("file", "", "path to the semicolon separated reference table")
	mode := flags.String("mode", string(reference.ModeHeader), "column identification: header or fixed")
	header := flags.Bool("header", true, "fixed mode only: the first row is a header and is skipped")
	encodings := flags.String("encodings", "", "comma separated candidate encodings (default from REFERENCE_ENCODINGS)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("-file is required\n%s", usage)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *file, err)
	}

	client, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	options := reference.Options{Mode: reference.Mode(*mode), SkipFirstRow: *header}
	if *encodings != "" {
		options.Encodings = strings.Split(*encodings, ",")
	}

	referenceService := services.NewReferenceService(repository.NewReferenceFoodRepository(client), cfg.ReferenceEncodings)
	report, err := referenceService.Ingest(context.Background(), raw, options)
	if err != nil {
		return err
	}

	fmt.Printf("imported %d foods from %s (encoding %s, %d rows skipped)\n",
		report.Inserted, *file, report.Encoding, report.Skipped)
	return nil
}
