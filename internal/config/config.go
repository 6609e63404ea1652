package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "APPMERGE"

type Config struct {
	Source      string
	Destination string
	CatalogPath string
	OutputDir   string
	Lease       time.Duration
	Tick        time.Duration
	MergeDelay  time.Duration
	Verbose     bool
	LogFile     string
}

// flagKeys maps flag names to their viper keys.
var flagKeys = map[string]string{
	"source":      "source",
	"destination": "destination",
	"catalog":     "catalog",
	"out":         "out",
	"lock-lease":  "lock.lease",
	"lock-tick":   "lock.tick",
	"merge-delay": "merge.delay",
	"verbose":     "verbose",
	"log-file":    "log_file",
}

// BindFlags registers the configuration flags on a command's flag set.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringP("source", "s", "", "Source application to copy from")
	fs.StringP("destination", "d", "", "Destination application to merge into")
	fs.String("catalog", "", "Catalog fixture (YAML); the built-in sample is used when empty")
	fs.String("out", "", "Write merged item manifests to this directory")
	fs.Duration("lock-lease", 15*time.Minute, "Lock lease granted on acquire and on each extension")
	fs.Duration("lock-tick", time.Second, "Countdown refresh interval")
	fs.Duration("merge-delay", 150*time.Millisecond, "Simulated per-item write delay")
	fs.BoolP("verbose", "v", false, "Verbose output")
	fs.String("log-file", "", "Log file used while the TUI owns the terminal")
	fs.String("config", "", "Config file (yaml, toml or json)")
}

// Load resolves configuration from flags, APPMERGE_* environment variables
// and an optional config file, in that order of precedence.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("lock.lease", 15*time.Minute)
	v.SetDefault("lock.tick", time.Second)
	v.SetDefault("merge.delay", 150*time.Millisecond)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfgPath := ""
	if f := fs.Lookup("config"); f != nil {
		cfgPath = f.Value.String()
	}
	if cfgPath == "" {
		cfgPath = strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG"))
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	cfg := Config{
		Source:      strings.TrimSpace(v.GetString("source")),
		Destination: strings.TrimSpace(v.GetString("destination")),
		CatalogPath: v.GetString("catalog"),
		OutputDir:   v.GetString("out"),
		Lease:       v.GetDuration("lock.lease"),
		Tick:        v.GetDuration("lock.tick"),
		MergeDelay:  v.GetDuration("merge.delay"),
		Verbose:     v.GetBool("verbose"),
		LogFile:     v.GetString("log_file"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Source == "" || c.Destination == "" {
		return errors.New("source and destination are required")
	}
	if c.Source == c.Destination {
		return errors.New("source and destination must differ")
	}
	if c.Lease <= 0 {
		return errors.New("lock lease must be positive")
	}
	if c.Tick <= 0 || c.Tick > c.Lease {
		return fmt.Errorf("lock tick must be between 0 and the lease (%s)", c.Lease)
	}
	if c.MergeDelay < 0 {
		return errors.New("merge delay cannot be negative")
	}
	return nil
}
