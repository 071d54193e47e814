package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/nhle/silent-auction/internal/api"
	"github.com/nhle/silent-auction/internal/app"
	"github.com/nhle/silent-auction/internal/lifecycle"
	"github.com/nhle/silent-auction/internal/model"
	"github.com/nhle/silent-auction/internal/push"
	"github.com/nhle/silent-auction/internal/registry"
)

func main() {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	clock := clockwork.NewRealClock()
	client := api.NewClient(cfg.Server.BaseURL)
	reg := registry.New()
	channel := push.New(client.WebSocketURL(), cfg.ReconnectDelay(), clock)
	monitor := lifecycle.New(client, clock)

	program := tea.NewProgram(
		app.New(client, reg, channel, monitor, cfg),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
