package honeycomb

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const fetchTimeout = 10 * time.Second

func fetchSpacesCmd(f Fetcher) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		spaces, err := f.Spaces(ctx)
		return spacesMsg{spaces: spaces, err: err}
	}
}

func fetchEmailsCmd(f Fetcher, address string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		emails, err := f.Emails(ctx, address)
		return emailsMsg{address: address, emails: emails, err: err}
	}
}

func pollTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return pollTickMsg{Time: t}
	})
}
