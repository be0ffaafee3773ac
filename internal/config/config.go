// Package config holds app wide settings unmarshalled from Viper: defaults,
// an optional config file, PORECAT_* environment variables and command line
// flags (bound in internal/app).
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// ScanConfig controls the reference read scanner.
type ScanConfig struct {
	// worker goroutines
	Threads int `mapstructure:"threads"`

	// bases searched at each end of a read
	EndSize int `mapstructure:"end-size"`

	// mismatches allowed in one adapter placement
	Mismatches int `mapstructure:"mismatches"`

	// minimum identity (%) for a placement to count as a hit
	MinIdentity float64 `mapstructure:"min-identity"`
}

// DemuxConfig controls barcode binning.
type DemuxConfig struct {
	// minimum barcode identity (%) to bin a read
	Threshold float64 `mapstructure:"threshold"`

	// required gap between best and second-best barcode identity
	Diff float64 `mapstructure:"diff"`

	// per-barcode output directory; empty disables binning output
	OutDir string `mapstructure:"out-dir"`
}

// Config is the root-level settings struct.
type Config struct {
	LogLevel string `mapstructure:"log-level"`
	Verbose  bool   `mapstructure:"verbose"`

	// custom adapter file (yaml/json/toml or .tsv)
	Adapters string `mapstructure:"adapters"`

	// output format for listings and scan results
	Output string `mapstructure:"output"`

	Scan  ScanConfig  `mapstructure:"scan"`
	Demux DemuxConfig `mapstructure:"demux"`
}

// EnvPrefix is the environment variable prefix (PORECAT_SCAN_THREADS, ...).
const EnvPrefix = "PORECAT"

// SearchPaths are the directories searched for porecat.{yaml,json,toml} when
// no explicit config file is given.
var SearchPaths = []string{"."}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log-level", "info")
	v.SetDefault("verbose", false)
	v.SetDefault("adapters", "")
	v.SetDefault("output", "text")
	v.SetDefault("scan.threads", runtime.NumCPU())
	v.SetDefault("scan.end-size", 150)
	v.SetDefault("scan.mismatches", 3)
	v.SetDefault("scan.min-identity", 90.0)
	v.SetDefault("demux.threshold", 75.0)
	v.SetDefault("demux.diff", 5.0)
	v.SetDefault("demux.out-dir", "")
}

// Load reads file (if non-empty) or ./porecat.{yaml,json,toml} (if present),
// applies environment overrides and unmarshals the result.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("porecat")
		for _, p := range SearchPaths {
			v.AddConfigPath(p)
		}
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks ranges that would otherwise surface as odd results mid-run.
func (c Config) Validate() error {
	var errs []error
	if c.Scan.Threads < 1 {
		errs = append(errs, fmt.Errorf("scan.threads must be >= 1 (got %d)", c.Scan.Threads))
	}
	if c.Scan.EndSize < 1 {
		errs = append(errs, fmt.Errorf("scan.end-size must be >= 1 (got %d)", c.Scan.EndSize))
	}
	if c.Scan.Mismatches < 0 {
		errs = append(errs, fmt.Errorf("scan.mismatches must be >= 0 (got %d)", c.Scan.Mismatches))
	}
	if c.Scan.MinIdentity < 0 || c.Scan.MinIdentity > 100 {
		errs = append(errs, fmt.Errorf("scan.min-identity must be within 0..100 (got %g)", c.Scan.MinIdentity))
	}
	if c.Demux.Threshold < 0 || c.Demux.Threshold > 100 {
		errs = append(errs, fmt.Errorf("demux.threshold must be within 0..100 (got %g)", c.Demux.Threshold))
	}
	if c.Demux.Diff < 0 {
		errs = append(errs, fmt.Errorf("demux.diff must be >= 0 (got %g)", c.Demux.Diff))
	}
	return errors.Join(errs...)
}
