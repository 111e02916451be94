// Command rephraser-moderate moderates a text file or stdin against a denylist file
// and prints the change list as JSON
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rephraser/internal/adapters/denylistsrc"
	"rephraser/internal/adapters/ollama"
	"rephraser/internal/core/denylist"
	"rephraser/internal/platform/logger"
	moddom "rephraser/internal/services/moderation/domain"
	modsvc "rephraser/internal/services/moderation/service"
	repsvc "rephraser/internal/services/reports/service"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	// keep stdout for the JSON result
	opt := logger.FromEnv()
	opt.Writer = os.Stderr
	logger.Init(opt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rephraser-moderate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		fDenylist    = fs.String("denylist", "banned_terms.txt", "newline delimited denylist file")
		fIn          = fs.String("in", "-", "text file to moderate, - reads stdin")
		fGenerator   = fs.String("generator", "", "generation service base url, empty masks only")
		fModel       = fs.String("model", "", "generation model, empty uses the client default")
		fTimeout     = fs.Duration("timeout", 30*time.Second, "per sentence generation timeout")
		fPlaceholder = fs.String("placeholder", "", "mask placeholder, empty uses [MODERATED]")
		fReports     = fs.String("reports", "", "directory to write the report file into, empty skips it")
		fFull        = fs.Bool("full", false, "print the whole report instead of the change list")
		fPretty      = fs.Bool("pretty", false, "indent the JSON output")
	)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	log := logger.Named("moderate-cli")

	store := denylist.New()
	n, err := denylistsrc.New(store, denylistsrc.Options{Path: *fDenylist}, nil).Load()
	if err != nil {
		fmt.Fprintf(stderr, "denylist: %v\n", err)
		return exitError
	}

	text, err := readInput(*fIn, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "input: %v\n", err)
		return exitError
	}

	deps := modsvc.Deps{Terms: store}
	if *fGenerator != "" {
		gen := ollama.NewClient(ollama.Options{BaseURL: *fGenerator, Model: *fModel, Timeout: *fTimeout})
		deps.Generator = gen
		deps.Prober = gen
	}
	svc := modsvc.New(deps, modsvc.Config{Placeholder: *fPlaceholder, ReviseTimeout: *fTimeout})

	rep, err := svc.Moderate(ctx, text)
	if err != nil {
		fmt.Fprintf(stderr, "moderate: %v\n", err)
		return exitError
	}
	log.Info().Int("terms", n).Int("changes", len(rep.Changes)).Msg("moderated")

	if *fReports != "" {
		path, err := repsvc.NewFileSink(*fReports).WriteFile(rep)
		if err != nil {
			fmt.Fprintf(stderr, "report: %v\n", err)
			return exitError
		}
		log.Info().Str("path", path).Msg("report written")
	}

	var out any = moddom.ModerateResponse{Changes: rep.Changes}
	if *fFull {
		out = rep
	}
	enc := json.NewEncoder(stdout)
	if *fPretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "output: %v\n", err)
		return exitError
	}
	return exitOK
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
