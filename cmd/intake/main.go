package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"leaseintake/internal/config"
	"leaseintake/internal/logging"
	"leaseintake/internal/pipeline"
	"leaseintake/internal/trace"
	"leaseintake/internal/util"

	"github.com/joho/godotenv"
)

const usage = `usage:
  intake run -file lease.pdf -email a@b.c [-phone N] [-method email|sms|call_me] [-ticket T]
  intake vision-pages [-trace path]
`

func main() {
	_ = godotenv.Load(".env")
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	switch args[0] {
	case "run":
		return runSubmission(cfg, args[1:], stdout, stderr)
	case "vision-pages":
		return visionPages(cfg, args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return 2
	}
}

func runSubmission(cfg config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		file   = fs.String("file", "", "lease PDF to process (required)")
		email  = fs.String("email", "", "submitter email")
		phone  = fs.String("phone", "", "submitter phone")
		method = fs.String("method", "email", "contact method: email, sms or call_me")
		ticket = fs.String("ticket", "", "ticket id")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *file == "" {
		fmt.Fprintln(stderr, "Error: -file is required")
		return 2
	}

	log := logging.NewWithWriter(stderr, cfg.LogLevel)
	ctx := context.Background()
	runner, journal, err := pipeline.FromConfig(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer journal.Close()

	res, err := runner.Run(ctx, pipeline.Submission{
		TicketID:      *ticket,
		FilePath:      *file,
		Email:         *email,
		Phone:         *phone,
		ContactMethod: *method,
	})
	switch {
	case errors.Is(err, util.ErrInvalidSubmission):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	case errors.Is(err, util.ErrNoExtractableText):
		fmt.Fprintln(stderr, "No extractable text was found in the document.")
		return 3
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return printJSON(stdout, stderr, res)
}

func visionPages(cfg config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("vision-pages", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("trace", "", "trace artifact path (defaults to the newest one)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *path == "" {
		latest, err := trace.Latest(cfg.TraceDir())
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		*path = latest
	}
	pages := trace.SuggestVisionPages(*path, logging.NewWithWriter(stderr, cfg.LogLevel))
	return printJSON(stdout, stderr, map[string]any{"trace": *path, "pages": pages})
}

func printJSON(stdout, stderr io.Writer, v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
