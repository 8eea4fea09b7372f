package cmd

import (
	"os"
	"path/filepath"
	"postapi/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// clearEnv unsets every environment variable the serve flags read, for
// the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, flag := range serveFlags() {
		f, ok := flag.(interface{ GetEnvVars() []string })
		if !ok {
			continue
		}
		for _, name := range f.GetEnvVars() {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
}

func runLoadConfig(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	var cfg *config.Config
	app := &cli.App{
		Name:  "postapi",
		Flags: serveFlags(),
		Action: func(ctx *cli.Context) error {
			var err error
			cfg, err = loadConfig(ctx)
			return err
		},
	}
	err := app.Run(append([]string{"postapi"}, args...))
	return cfg, err
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := runLoadConfig(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfigIgnoresAmbientEnv(t *testing.T) {
	clearEnv(t)
	cfg, err := runLoadConfig(t)
	require.NoError(t, err)

	t.Setenv("PORT", "8080")
	clearEnv(t)
	cleared, err := runLoadConfig(t)
	require.NoError(t, err)
	assert.Equal(t, cfg, cleared)
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LIST_PER_PAGE", "25")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("QUERY_TIMEOUT", "2s")

	cfg, err := runLoadConfig(t)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Listing.PerPage)
	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 2*time.Second, cfg.Database.QueryTimeout)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "postapi.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[listing]
per_page = 50

[server]
port = 9000
`), 0o600))

	cfg, err := runLoadConfig(t, "--config", path, "--list-per-page", "5")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Listing.PerPage)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	_, err := runLoadConfig(t, "--list-per-page", "0")
	assert.Error(t, err)

	_, err = runLoadConfig(t, "--error-mode", "quiet")
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	assert.NoError(t, setupLogging("debug", "json"))
	assert.NoError(t, setupLogging("info", "text"))
	assert.Error(t, setupLogging("loud", "text"))
	assert.Error(t, setupLogging("info", "xml"))
}
