package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honeypoty/backend/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("非法日志级别失败", func(t *testing.T) {
		_, err := New(config.LogConfig{Level: "verbose"})
		assert.Error(t, err)
	})

	t.Run("写入轮转日志文件", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "logs", "honeypoty.log")

		log, err := New(config.LogConfig{Level: "info", File: file})
		require.NoError(t, err)

		log.Info("space created")
		_ = log.Sync()

		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"message":"space created"`)
	})

	t.Run("低于级别的日志被丢弃", func(t *testing.T) {
		log, err := New(config.LogConfig{Level: "warn"})
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(-1))
		assert.True(t, log.Core().Enabled(1))
	})
}
