package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"honeypoty/backend/internal/honeycomb"
)

// honeycomb 是 honeypoty 的终端蜂巢视图，定期轮询活跃空间。
func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		apiURL   string
		interval time.Duration
		initial  string
	)

	flags := pflag.NewFlagSet("honeycomb", pflag.ContinueOnError)
	flags.StringVar(&apiURL, "api", "http://localhost:3000", "honeypoty API base URL")
	flags.DurationVar(&interval, "interval", 30*time.Second, "poll interval")
	flags.StringVar(&initial, "initial", "start@honeypoty.de", "seed address shown when no spaces exist")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	model := honeycomb.NewModel(honeycomb.NewClient(apiURL), interval, initial)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run honeycomb: %w", err)
	}
	return nil
}
