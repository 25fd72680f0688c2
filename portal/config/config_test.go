package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agridesk/consentd/portal/config"
)

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := config.Load("")
	req.NoError(err)
	req.Equal("localhost", cfg.HttpApiConfig.Host)
	req.Equal(8080, cfg.HttpApiConfig.Port)
	req.Equal(config.FillModeLocal, cfg.FillConfig.Mode)
	req.Equal(config.AuditBackendFile, cfg.AuditConfig.Backend)
	req.Equal(600, cfg.CanvasConfig.SurfaceWidth)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
state_dbdsn: /var/lib/consentd/state
http_api_config:
  host: 0.0.0.0
  port: 9090
fill_config:
  mode: remote
  endpoint: https://fill.example.com
  token: test-token
`
	req.NoError(os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := config.Load(path)
	req.NoError(err)
	req.Equal("/var/lib/consentd/state", cfg.StateDBDSN)
	req.Equal("0.0.0.0", cfg.HttpApiConfig.Host)
	req.Equal(9090, cfg.HttpApiConfig.Port)
	req.Equal(config.FillModeRemote, cfg.FillConfig.Mode)
	req.Equal("https://fill.example.com", cfg.FillConfig.Endpoint)
	// untouched sections keep their defaults
	req.Equal(300, cfg.CanvasConfig.SurfaceHeight)
}

func TestLoad_MissingFile(t *testing.T) {
	req := require.New(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	req.Error(err)
}
