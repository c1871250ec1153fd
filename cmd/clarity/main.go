// Package main provides the Clarity terminal chat assistant. Clarity keeps a
// durable profile of its single user across sessions: each run is logged to a
// transcript, summarized into the long-term memory record at exit, and the
// previous session's transcript plus the stored record are injected as
// context at startup.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/clarity/pkg/bootdoc"
	appconfig "github.com/entrhq/clarity/pkg/config"
	"github.com/entrhq/clarity/pkg/extract"
	"github.com/entrhq/clarity/pkg/llm/openai"
	"github.com/entrhq/clarity/pkg/logging"
	"github.com/entrhq/clarity/pkg/memory"
	"github.com/entrhq/clarity/pkg/session"
)

const version = "0.1.0"

// summarizationTemperature keeps extraction output conservative regardless of
// the chat temperature.
const summarizationTemperature = 0.3

func main() {
	configPath := flag.String("config", "config.json", "Path to the configuration file")
	bootDocPath := flag.String("bootdoc", "", "Boot document path (overrides config)")
	model := flag.String("model", "", "Model to use (overrides config and boot doc)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Clarity v%s\n", version)
		return
	}

	cfg, err := appconfig.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if *bootDocPath != "" {
		cfg.BootDocPath = *bootDocPath
	}
	if *model != "" {
		cfg.Model = *model
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := newApp(cfg)
	if err != nil {
		log.Fatalf("Startup error: %v", err)
	}
	defer app.Close()

	// Signaled and normal exits route to the same idempotent finalize.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println()
		app.finalize(context.Background())
		app.Close()
		cancel()
		os.Exit(0)
	}()

	app.run(ctx)
}

// newApp wires the application together from configuration.
func newApp(cfg *appconfig.Config) (*app, error) {
	appLog, err := logging.NewLogger("app")
	if err != nil {
		appLog.Warnf("Failed to initialize file logging, using stderr fallback: %v", err)
	}

	doc, err := bootdoc.Load(cfg.BootDocPath)
	if err != nil {
		return nil, err
	}
	chatModel := cfg.Model
	if doc.Overrides.Model != "" {
		chatModel = doc.Overrides.Model
	}
	temperature := cfg.Temperature
	if doc.Overrides.Temperature != nil {
		temperature = *doc.Overrides.Temperature
	}

	apiKey, err := appconfig.APIKey()
	if err != nil {
		return nil, err
	}
	provider, err := openai.NewProvider(apiKey,
		openai.WithModel(chatModel),
		openai.WithTemperature(temperature),
	)
	if err != nil {
		return nil, err
	}

	writer, err := session.NewWriter(cfg.LogsDir)
	if err != nil {
		return nil, err
	}
	if err := writer.WriteHeader(doc.Path, chatModel, temperature); err != nil {
		appLog.Warnf("Failed to write transcript header: %v", err)
	}

	a := &app{
		cfg:         cfg,
		doc:         doc,
		provider:    provider,
		writer:      writer,
		temperature: temperature,
		log:         appLog,
	}

	if cfg.Memory.EnableLongTermMemory {
		store, err := memory.NewFileStore(cfg.Memory.Dir)
		if err != nil {
			return nil, err
		}
		summaryProvider, err := openai.NewProvider(apiKey,
			openai.WithModel(chatModel),
			openai.WithTemperature(summarizationTemperature),
		)
		if err != nil {
			return nil, err
		}
		summarizer, err := extract.NewSummarizer(summaryProvider)
		if err != nil {
			return nil, err
		}
		a.store = store
		a.finalizer = memory.NewFinalizer(store, summarizer)

		if cfg.Memory.EnableLastSessionContext {
			previous := session.Previous(cfg.LogsDir, cfg.Memory.MaxLastSessionTurns)
			if len(previous) > 0 {
				a.history = append(a.history, previous...)
				fmt.Println(okStyle.Render(fmt.Sprintf("✓ Loaded context from last session (%d turns)", len(previous))))
			}
		}
	}

	return a, nil
}
