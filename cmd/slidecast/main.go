package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/minhtran4102/slidecast/internal/compose"
	"github.com/minhtran4102/slidecast/internal/config"
	"github.com/minhtran4102/slidecast/internal/export"
	"github.com/minhtran4102/slidecast/internal/extract"
	"github.com/minhtran4102/slidecast/internal/gemini"
	"github.com/minhtran4102/slidecast/internal/logger"
	"github.com/minhtran4102/slidecast/internal/pipeline"
	"github.com/minhtran4102/slidecast/internal/quota"
	"github.com/minhtran4102/slidecast/internal/speech"
	"github.com/minhtran4102/slidecast/internal/watcher"
	"github.com/minhtran4102/slidecast/pkg/executor"
)

var (
	configPath = flag.String("config", "config.yaml", "Path to config file")
	inPath     = flag.String("in", "", "Document to process (.pdf or .pptx)")
	watchMode  = flag.Bool("watch", false, "Watch the inbox directory for documents")
	videoFlag  = flag.Bool("video", true, "Produce a narrated video")
	pptxFlag   = flag.Bool("pptx", false, "Export an annotated presentation")
	transcript = flag.Bool("transcript", false, "Export a narration transcript document")
	notesDir   = flag.String("notes", "", "Directory of edited narration files (slide_N.txt)")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	// .env is optional; keys may come from the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "slidecast: document -> narrated video")
	log.Info(ctx, "========================================")

	apiKeys := splitKeys(os.Getenv("GEMINI_API_KEYS"))
	if len(apiKeys) == 0 {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			apiKeys = []string{key}
		}
	}

	client, err := gemini.New(apiKeys, cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to create backend client: %v", err)
		os.Exit(1)
	}

	exec := executor.New()
	counter := quota.New(cfg.Paths.State, cfg.Quota.DailyLimit)
	pipe := pipeline.New(
		cfg,
		extract.New(cfg, log),
		client,
		speech.New(client, log),
		export.New(cfg, log),
		counter,
		func() compose.Compositor {
			return compose.New(cfg, compose.NewRecorder(cfg, exec, log), log)
		},
		log,
	)

	opts := pipeline.Options{
		Video:      *videoFlag,
		PPTX:       *pptxFlag,
		Transcript: *transcript,
		NotesDir:   *notesDir,
	}

	if *watchMode {
		runWatch(ctx, cfg, pipe, opts, log)
		return
	}

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: slidecast -in document.pdf [-pptx] [-transcript] [-notes dir]")
		fmt.Fprintln(os.Stderr, "       slidecast -watch")
		os.Exit(1)
	}

	session, err := pipe.Run(ctx, *inPath, opts)
	if err != nil {
		log.Error(ctx, "%s", gemini.UserMessage(err))
		os.Exit(1)
	}

	if session.Artifact != "" {
		log.Info(ctx, "Video ready: %s", session.Artifact)
	}
	log.Info(ctx, "Done")
}

func runWatch(ctx context.Context, cfg *config.Config, pipe *pipeline.Pipeline, opts pipeline.Options, log logger.Logger) {
	if err := os.MkdirAll(cfg.Paths.Input, 0755); err != nil {
		log.Error(ctx, "Failed to create inbox: %v", err)
		os.Exit(1)
	}

	handler := func(ctx context.Context, path string) error {
		_, err := pipe.Run(ctx, path, opts)
		if err != nil {
			log.Error(ctx, "%s", gemini.UserMessage(err))
		}
		return err
	}

	w, err := watcher.New(cfg.Paths.Input, handler, log)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "Watching inbox: %s", cfg.Paths.Input)
	log.Info(ctx, "Press Ctrl+C to stop")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
	}

	cancel()
	log.Info(ctx, "slidecast stopped")
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
