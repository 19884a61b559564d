// Package toolchain holds the TOML-backed configuration shared by the
// aurasm/aemu binaries and the aurora CLI wrapper.
package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/mpathak-dev/aurora/vm"
)

// Config is the on-disk settings schema for the AURORA toolchain.
type Config struct {
	Assembler struct {
		BaseAddress string `toml:"base_address"` // decimal, 0x-hex, or 0-octal, per -addr
	} `toml:"assembler"`

	Emulator struct {
		BaseAddress string `toml:"base_address"`
		CPU         string `toml:"cpu"` // "aur32" or "aur128"
		MaxCycles   uint64 `toml:"max_cycles"`
		Test        bool   `toml:"test"`
		MemorySize  uint32 `toml:"memory_size"`
		ScreenBase  string `toml:"screen_base"`
		ScreenSize  uint32 `toml:"screen_size"`
	} `toml:"emulator"`

	Trace struct {
		Enabled    bool   `toml:"enabled"`
		OutputFile string `toml:"output_file"`
		Format     string `toml:"format"` // "text" or "json"
	} `toml:"trace"`

	Statistics struct {
		Enabled    bool   `toml:"enabled"`
		OutputFile string `toml:"output_file"`
		Format     string `toml:"format"` // "json" or "csv"
	} `toml:"statistics"`
}

// DefaultConfig returns the settings the CLIs use when no config file
// is present and no flags override them (spec §6 CLI defaults).
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assembler.BaseAddress = "0"

	cfg.Emulator.BaseAddress = "0x1000"
	cfg.Emulator.CPU = "aur32"
	cfg.Emulator.MaxCycles = vm.DefaultMaxCycles
	cfg.Emulator.Test = false
	cfg.Emulator.MemorySize = vm.MemorySize
	cfg.Emulator.ScreenBase = fmt.Sprintf("0x%04X", vm.ScreenBase)
	cfg.Emulator.ScreenSize = vm.ScreenSize

	cfg.Trace.Enabled = false
	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.Format = "text"

	cfg.Statistics.Enabled = false
	cfg.Statistics.OutputFile = "stats.json"
	cfg.Statistics.Format = "json"

	return cfg
}

// ApplyFlags overlays non-zero-value CLI flags onto a loaded config,
// following the teacher's flags-override-file precedence: an empty
// string or zero value means "not set on the command line", so the
// config's existing value is left alone.
func (c *Config) ApplyFlags(addr, cpu string, maxCycles uint64, test bool, traceEnabled bool, traceFile, traceFormat string, statsEnabled bool, statsFile, statsFormat string) {
	if addr != "" {
		c.Emulator.BaseAddress = addr
	}
	if cpu != "" {
		c.Emulator.CPU = cpu
	}
	if maxCycles != 0 {
		c.Emulator.MaxCycles = maxCycles
	}
	if test {
		c.Emulator.Test = true
	}
	if traceEnabled {
		c.Trace.Enabled = true
	}
	if traceFile != "" {
		c.Trace.OutputFile = traceFile
	}
	if traceFormat != "" {
		c.Trace.Format = traceFormat
	}
	if statsEnabled {
		c.Statistics.Enabled = true
	}
	if statsFile != "" {
		c.Statistics.OutputFile = statsFile
	}
	if statsFormat != "" {
		c.Statistics.Format = statsFormat
	}
}

// ConfigPath returns the platform-specific config file path.
func ConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "aurora")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "aurora.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "aurora")

	default:
		return "aurora.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "aurora.toml"
	}

	return filepath.Join(configDir, "aurora.toml")
}

// Load loads configuration from the default config file, falling back
// to DefaultConfig if it does not exist.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads configuration from the given path.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo saves configuration to the given path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
