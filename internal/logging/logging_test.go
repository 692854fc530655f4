package logging

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uttianguis/internal/config"
)

func TestSetup_WritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	closer := Setup(&config.Config{LogLevel: "debug", LogFormat: "json", LogFile: path, LogMaxSizeMB: 1})
	defer func() {
		log.SetOutput(os.Stdout)
		_ = closer.Close()
	}()

	log.WithField("component", "test").Debug("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}

func TestSetup_UnknownLevelFallsBackToInfo(t *testing.T) {
	closer := Setup(&config.Config{LogLevel: "loud"})
	defer closer.Close()

	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
