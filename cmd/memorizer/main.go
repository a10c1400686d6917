package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/conorfennell/memorizer/internal/api"
	"github.com/conorfennell/memorizer/internal/config"
	"github.com/conorfennell/memorizer/internal/ui"
)

func main() {
	defaults := config.DefaultClient()
	flags := pflag.NewFlagSet("memorizer", pflag.ExitOnError)
	flags.String("server", defaults.Server, "Base URL of the scheduler backend")
	flags.String("user", defaults.User, "User to train as")
	flags.String("deck", "", "Deck to train; omit to pick one interactively")
	configPath := flags.String("config", "", "Path to an optional YAML config file")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := config.LoadClient(*configPath, flags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client := api.NewClient(cfg.Server)
	p := tea.NewProgram(
		ui.New(client, cfg.User, cfg.Deck),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}
}
