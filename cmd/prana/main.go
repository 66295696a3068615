package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/prana/studio/internal/api"
	"github.com/prana/studio/internal/auth"
	"github.com/prana/studio/internal/config"
	"github.com/prana/studio/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	authCtx := auth.NewContext()
	authCtx.Seed(cfg.AuthToken, cfg.User)

	client := api.NewClient(cfg.BaseURL, authCtx.Token)

	p := tea.NewProgram(
		tui.NewModel(client, authCtx, cfg),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
