package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"wordsmith/internal/api"
	"wordsmith/internal/client"
	"wordsmith/internal/config"
	"wordsmith/internal/logging"
	"wordsmith/internal/storage"
	"wordsmith/internal/view"
)

func main() {
	cfg := config.Load()

	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		logging.Fatal("Failed to create state dir %s: %v", cfg.StateDir, err)
	}
	logFile, err := tea.LogToFile(cfg.LogFile, "")
	if err != nil {
		logging.Fatal("Failed to open log file %s: %v", cfg.LogFile, err)
	}
	defer logFile.Close()

	store, err := storage.OpenFileStore(cfg.StateDir)
	if err != nil {
		logging.Fatal("Failed to open state store: %v", err)
	}
	logging.Info("Client state at %s", store.Path())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	base := api.Discover(ctx, nil, cfg.Origin, cfg.APIBase)
	logging.Info("Using API base %s", base)
	backend := api.NewClient(base, api.Options{
		Timeout:        cfg.HTTPTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Cookies:        store,
	})

	var p *tea.Program
	session := client.New(client.Options{
		Store:   store,
		Backend: backend,
		// Send blocks until the update loop reads it, and renders can come from inside Update.
		Renderer:     view.RendererFunc(func(m view.Model) { go p.Send(modelMsg(m)) }),
		SuggestDelay: cfg.SuggestDelay,
		Affordances:  view.AllAffordances,
	})

	p = tea.NewProgram(newModel(ctx, session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.Error("Terminal UI exited: %v", err)
		os.Exit(1)
	}
}
