package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/weave/internal/paths"
	"github.com/mesh-intelligence/weave/internal/sqlite"
	"github.com/mesh-intelligence/weave/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend = "backend"
	cfgKeyDataDir = "data_dir"
	cfgKeyVerbose = "verbose"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# weave configuration

# Catalog backend
backend: sqlite

# Catalog directory (optional; overridable by --data-dir and WEAVE_DATA_DIR)
# data_dir:

# Debug logging (same as --verbose)
verbose: false
`

// loadConfig reads config.yaml from configDir using Viper, creating the
// directory and a default file on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyVerbose, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// settings is the resolved configuration for one command run.
type settings struct {
	configDir string
	catalog   types.Config
	verbose   bool
}

// resolveSettings applies flag > config.yaml > env > default for the
// directories and merges --verbose with the config value.
func resolveSettings() (settings, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, err
	}
	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return settings{
		configDir: configDir,
		catalog: types.Config{
			Backend: v.GetString(cfgKeyBackend),
			DataDir: dataDir,
		},
		verbose: flags.verbose || v.GetBool(cfgKeyVerbose),
	}, nil
}

// newLogger builds the CLI logger on the command's stderr.
func newLogger(cmd *cobra.Command, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "weave",
		Level:  level,
	})
}

// commandLogger resolves settings only as far as needed for logging. A
// broken config file falls back to the --verbose flag alone.
func commandLogger(cmd *cobra.Command) *log.Logger {
	s, err := resolveSettings()
	if err != nil {
		return newLogger(cmd, flags.verbose)
	}
	return newLogger(cmd, s.verbose)
}

// attachCatalog resolves settings and attaches the catalog. The caller must
// defer Detach.
func attachCatalog() (*sqlite.Backend, error) {
	s, err := resolveSettings()
	if err != nil {
		return nil, err
	}
	backend := sqlite.NewBackend()
	if err := backend.Attach(s.catalog); err != nil {
		return nil, fmt.Errorf("attach catalog: %w", err)
	}
	return backend, nil
}
