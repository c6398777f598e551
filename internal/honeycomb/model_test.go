package honeycomb

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	spaces []Space
	emails map[string][]Email
	err    error
}

func (f *stubFetcher) Spaces(context.Context) ([]Space, error) {
	return f.spaces, f.err
}

func (f *stubFetcher) Emails(_ context.Context, address string) ([]Email, error) {
	return f.emails[address], f.err
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestModel_Spaces(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	spaces := []Space{
		{Email: "a@honeypoty.de", Active: true, CreatedAt: created, LastActivity: created},
		{Email: "b@honeypoty.de", Active: true, CreatedAt: created, LastActivity: created},
	}

	t.Run("首次拉取为空时显示种子格", func(t *testing.T) {
		m := NewModel(&stubFetcher{}, time.Second, "start@honeypoty.de")

		m, _ = update(t, m, spacesMsg{})

		require.Len(t, m.spaces, 1)
		assert.Equal(t, "start@honeypoty.de", m.spaces[0].Email)
		assert.True(t, m.spaces[0].IsInitial)
		assert.True(t, m.spaces[0].Active)
	})

	t.Run("内容相同时不替换列表", func(t *testing.T) {
		m := NewModel(&stubFetcher{}, time.Second, "start@honeypoty.de")

		m, _ = update(t, m, spacesMsg{spaces: spaces})
		assert.Equal(t, 1, m.revision)

		same := append([]Space(nil), spaces...)
		m, _ = update(t, m, spacesMsg{spaces: same})
		assert.Equal(t, 1, m.revision)

		changed := append([]Space(nil), spaces...)
		changed[1].LastActivity = created.Add(time.Minute)
		m, _ = update(t, m, spacesMsg{spaces: changed})
		assert.Equal(t, 2, m.revision)
	})

	t.Run("拉取失败保留上一次列表", func(t *testing.T) {
		m := NewModel(&stubFetcher{}, time.Second, "start@honeypoty.de")
		m, _ = update(t, m, spacesMsg{spaces: spaces})

		m, _ = update(t, m, spacesMsg{err: errors.New("connection refused")})

		assert.Len(t, m.spaces, 2)
		assert.Error(t, m.err)
		assert.Contains(t, m.View(), "connection refused")

		m, _ = update(t, m, spacesMsg{spaces: spaces})
		assert.NoError(t, m.err)
	})

	t.Run("替换后保持选中同一空间", func(t *testing.T) {
		m := NewModel(&stubFetcher{}, time.Second, "start@honeypoty.de")
		m, _ = update(t, m, spacesMsg{spaces: spaces})
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
		require.Equal(t, 1, m.selected)

		grown := append([]Space{{Email: "0@honeypoty.de", Active: true}}, spaces...)
		m, _ = update(t, m, spacesMsg{spaces: grown})

		assert.Equal(t, "b@honeypoty.de", m.spaces[m.selected].Email)
	})

	t.Run("轮询定时器触发拉取", func(t *testing.T) {
		m := NewModel(&stubFetcher{}, time.Second, "start@honeypoty.de")

		_, cmd := update(t, m, pollTickMsg{Time: time.Now()})
		assert.NotNil(t, cmd)
	})
}

func TestModel_Emails(t *testing.T) {
	fetcher := &stubFetcher{
		spaces: []Space{
			{Email: "live@honeypoty.de", Active: true},
			{Email: "dead@honeypoty.de", Active: false},
		},
		emails: map[string][]Email{
			"live@honeypoty.de": {{ID: 1, SenderEmail: "bot@evil.example", Subject: "Prize", Body: "Click"}},
		},
	}

	t.Run("回车打开活跃空间的邮件", func(t *testing.T) {
		m := NewModel(fetcher, time.Second, "start@honeypoty.de")
		m, _ = update(t, m, spacesMsg{spaces: fetcher.spaces})

		m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		assert.Equal(t, viewEmails, m.view)

		m, _ = update(t, m, cmd())
		require.Len(t, m.emails, 1)
		assert.Contains(t, m.View(), "Prize")

		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.Equal(t, viewHoneycomb, m.view)
	})

	t.Run("停用空间不可打开", func(t *testing.T) {
		m := NewModel(fetcher, time.Second, "start@honeypoty.de")
		m, _ = update(t, m, spacesMsg{spaces: fetcher.spaces})
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})

		m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
		assert.Equal(t, viewHoneycomb, m.view)
	})

	t.Run("忽略过期的邮件结果", func(t *testing.T) {
		m := NewModel(fetcher, time.Second, "start@honeypoty.de")
		m, _ = update(t, m, spacesMsg{spaces: fetcher.spaces})

		m, _ = update(t, m, emailsMsg{address: "other@honeypoty.de", emails: []Email{{ID: 9}}})
		assert.Empty(t, m.emails)
	})
}

func TestSameSpaces(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	a := []Space{{Email: "x@honeypoty.de", Active: true, CreatedAt: at}}

	assert.True(t, sameSpaces(a, []Space{{Email: "x@honeypoty.de", Active: true, CreatedAt: at.In(time.FixedZone("CET", 3600))}}))
	assert.False(t, sameSpaces(a, []Space{{Email: "x@honeypoty.de", Active: false, CreatedAt: at}}))
	assert.False(t, sameSpaces(a, nil))
}
