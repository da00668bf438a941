// Package player builds the external media player invocation and checks the
// player binary is present and recent enough before any session logic runs.
package player

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrPlayerUnsupported = errors.New("unsupported player")
)

// Known players. The config file stores one of these identifiers.
const (
	Mpv     = "mpv"
	Mplayer = "mplayer"
)

// minMpvVersion is the oldest mpv known to accept the argument set we pass.
// Older mpv used -volume instead of --volume=N.
var minMpvVersion = semver.MustParse("0.27.0")

// versionPattern extracts the leading version number from a player's
// --version banner, e.g. "mpv 0.34.1 Copyright ..." or "mpv v0.38.0-dirty".
var versionPattern = regexp.MustCompile(`\bv?(\d+\.\d+(?:\.\d+)?)`)

// Command builds the player process for a stream URL at the given volume.
// The command is not started.
func Command(playerName, url string, volume int) (*exec.Cmd, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: stream url is empty", ErrInvalidInput)
	}
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}

	switch playerName {
	case Mpv:
		return exec.Command(Mpv, "--no-video", "--really-quiet", fmt.Sprintf("--volume=%d", volume), url), nil
	case Mplayer:
		return exec.Command(Mplayer, "-really-quiet", "-volume", fmt.Sprintf("%d", volume), url), nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: %s, %s)", ErrPlayerUnsupported, playerName, Mpv, Mplayer)
	}
}

// Check verifies the configured player exists on PATH and, for mpv, that it
// meets the minimum version. A version banner that cannot be parsed is not
// an error; the binary being absent is.
func Check(playerName string) error {
	switch playerName {
	case Mpv, Mplayer:
	default:
		return fmt.Errorf("%w: %s (supported: %s, %s)", ErrPlayerUnsupported, playerName, Mpv, Mplayer)
	}

	if _, err := exec.LookPath(playerName); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", playerName, err)
	}

	if playerName != Mpv {
		return nil
	}

	out, err := exec.Command(Mpv, "--version").Output()
	if err != nil {
		// A binary that can't report its version will fail louder at play
		// time; don't block startup on it.
		return nil
	}
	return checkMpvVersion(string(out))
}

func checkMpvVersion(banner string) error {
	firstLine, _, _ := strings.Cut(banner, "\n")
	m := versionPattern.FindStringSubmatch(firstLine)
	if m == nil {
		return nil
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return nil
	}
	if v.LessThan(minMpvVersion) {
		return fmt.Errorf("mpv %s is too old (need >= %s)", v, minMpvVersion)
	}
	return nil
}
