package config

import (
	"os"
	"path/filepath"
	"testing"

	"lending/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var cfg core.Config
	require.Nil(t, Load("", &cfg))

	assert.Equal(t, "0.5", cfg.Protocol.CloseFactor.String())
	assert.Equal(t, core.RepayPolicyCap, cfg.Protocol.RepayPolicy)
	assert.EqualValues(t, defaultCacheTTL, cfg.Oracle.CacheTTL)
	assert.EqualValues(t, defaultPullInterval, cfg.Oracle.PullInterval)
}

func TestLoadYaml(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, os.WriteFile(file, []byte(`
app:
  memory: true
admins:
  - admin
`), 0o600))

	var cfg core.Config
	require.Nil(t, Load(file, &cfg))
	assert.True(t, cfg.App.Memory)
	assert.Equal(t, core.RepayPolicyCap, cfg.Protocol.RepayPolicy)
	assert.True(t, cfg.IsAdmin("admin"))
}

func TestValidate(t *testing.T) {
	var cfg core.Config
	cfg.Protocol.RepayPolicy = "partial"
	assert.ErrorIs(t, Load("", &cfg), core.ErrInvalidConfig)
}
