// Package config owns the persisted tradio configuration: the key=value
// config file, the user station file, and directory resolution.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sergeknystautas/tradio/internal/station"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

const (
	PlayerMpv     = "mpv"
	PlayerMplayer = "mplayer"

	DefaultVolume = 100
	DefaultPlayer = PlayerMpv

	configFileName   = "config"
	stationsFileName = "stations.yml"
)

// Config represents the persisted tradio settings. Every mutation is saved
// immediately so concurrent invocations read up-to-date values.
type Config struct {
	Volume         int
	Player         string
	DefaultStation string

	// dir is the directory the config was loaded from and is saved to.
	dir string
}

// Dir returns the tradio config directory. TRADIO_CONFIG_DIR overrides the
// per-OS default (~/.config/tradio on Linux).
func Dir() (string, error) {
	if dir := os.Getenv("TRADIO_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(base, "tradio"), nil
}

// RuntimeDir returns the directory for transient session files (pid file and
// now-playing marker). TRADIO_RUNTIME_DIR overrides the temp directory.
func RuntimeDir() string {
	if dir := os.Getenv("TRADIO_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}

// Load reads the config file from dir, creating it with defaults on first
// use. Unknown keys and malformed lines are skipped; an out-of-range volume
// is clamped into 0-100.
func Load(dir string) (*Config, error) {
	cfg := &Config{
		Volume: DefaultVolume,
		Player: DefaultPlayer,
		dir:    dir,
	}

	path := filepath.Join(dir, configFileName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := cfg.Save(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "volume":
			v, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			cfg.Volume = clampVolume(v)
		case "player":
			if value != "" {
				cfg.Player = value
			}
		case "default_station":
			cfg.DefaultStation = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return cfg, nil
}

// Save writes the config atomically: whole file to a temp name in the same
// directory, then rename over the real one, so a concurrent reader never
// sees a partial write.
func (c *Config) Save() error {
	if c.dir == "" {
		return fmt.Errorf("%w: config directory is empty", ErrInvalidConfig)
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "volume=%d\n", c.Volume)
	fmt.Fprintf(&b, "player=%s\n", c.Player)
	if c.DefaultStation != "" {
		fmt.Fprintf(&b, "default_station=%s\n", c.DefaultStation)
	}

	path := filepath.Join(c.dir, configFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

// SetVolume validates, applies, and persists a new volume.
func (c *Config) SetVolume(v int) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("%w: volume must be 0-100, got %d", ErrInvalidConfig, v)
	}
	c.Volume = v
	return c.Save()
}

// SetPlayer applies and persists a new player choice. The value is not
// validated here; the player package rejects unknown players at use time.
func (c *Config) SetPlayer(player string) error {
	if player == "" {
		return fmt.Errorf("%w: player is empty", ErrInvalidConfig)
	}
	c.Player = player
	return c.Save()
}

// CyclePlayer switches to the other known player and persists the choice.
func (c *Config) CyclePlayer() (string, error) {
	next := PlayerMpv
	if c.Player == PlayerMpv {
		next = PlayerMplayer
	}
	if err := c.SetPlayer(next); err != nil {
		return "", err
	}
	return next, nil
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// stationsFile is the on-disk shape of stations.yml.
type stationsFile struct {
	Stations []station.Station `yaml:"stations"`
}

// LoadUserStations reads user-defined stations from stations.yml in dir.
// A missing file is not an error and yields no stations.
func LoadUserStations(dir string) ([]station.Station, error) {
	data, err := os.ReadFile(filepath.Join(dir, stationsFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read stations file: %w", err)
	}

	var sf stationsFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("%w: stations.yml: %v", ErrInvalidConfig, err)
	}
	return sf.Stations, nil
}
