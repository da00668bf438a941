// Package session implements the playback session state machine: starting,
// stopping, and toggling the single external player process, and keeping the
// on-disk session record in agreement with actual process liveness.
package session

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sergeknystautas/tradio/internal/config"
	"github.com/sergeknystautas/tradio/internal/logger"
	"github.com/sergeknystautas/tradio/internal/notify"
	"github.com/sergeknystautas/tradio/internal/player"
	"github.com/sergeknystautas/tradio/internal/state"
	"github.com/sergeknystautas/tradio/internal/station"
	"github.com/sergeknystautas/tradio/internal/store"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrStartFailed  = errors.New("playback start failed")
)

const (
	// DefaultGraceDelay is how long to wait after spawning the player
	// before confirming it stayed alive.
	DefaultGraceDelay = 800 * time.Millisecond
	// DefaultSettleDelay is how long to wait after SIGTERM before cleaning
	// up the session files.
	DefaultSettleDelay = 200 * time.Millisecond
)

// Manager owns the playback session. At most one player process is tracked
// system-wide; the session store is the shared source of truth across
// invocations.
type Manager struct {
	cfg      *config.Config
	sessions state.Store
	history  *store.Store

	graceDelay  time.Duration
	settleDelay time.Duration
	notify      bool

	// command builds the player process. Swapped in tests.
	command func(playerName, url string, volume int) (*exec.Cmd, error)
}

// New creates a session manager.
func New(cfg *config.Config, sessions state.Store, history *store.Store) *Manager {
	return &Manager{
		cfg:         cfg,
		sessions:    sessions,
		history:     history,
		graceDelay:  DefaultGraceDelay,
		settleDelay: DefaultSettleDelay,
		notify:      true,
		command:     player.Command,
	}
}

// Start plays a station. If another station is already playing, it is
// stopped first so at most one player process exists. The spawned player is
// confirmed alive after a short grace period before the session is recorded.
func (m *Manager) Start(st station.Station) (*state.Session, error) {
	if st.Name == "" || st.URL == "" {
		return nil, fmt.Errorf("%w: station name and url are required", ErrInvalidInput)
	}

	if cur, ok := m.Current(); ok {
		if err := m.stop(cur); err != nil {
			return nil, fmt.Errorf("failed to stop %s: %w", cur.Station, err)
		}
	}

	cmd, err := m.command(m.cfg.Player, st.URL, m.cfg.Volume)
	if err != nil {
		return nil, err
	}
	// Detach into its own session so the player outlives this invocation.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStartFailed, err)
	}
	pid := cmd.Process.Pid

	// Reap in the background; a dead child stays a zombie otherwise and a
	// zombie still answers signal 0.
	exited := make(chan struct{})
	go func() {
		cmd.Wait()
		close(exited)
	}()

	select {
	case <-exited:
		m.sessions.Clear()
		return nil, fmt.Errorf("%w: %s exited within %s", ErrStartFailed, m.cfg.Player, m.graceDelay)
	case <-time.After(m.graceDelay):
	}

	sess := state.Session{
		ID:        uuid.New().String()[:8],
		PID:       pid,
		Station:   st.Name,
		StartedAt: time.Now(),
	}
	if err := m.sessions.Write(sess); err != nil {
		cmd.Process.Signal(syscall.SIGTERM)
		return nil, fmt.Errorf("failed to record session: %w", err)
	}

	if err := m.history.AppendHistory(st.Name, sess.StartedAt); err != nil {
		logger.L().Warn("failed to append history",
			zap.String("station", st.Name),
			zap.Error(err))
	}
	if m.notify {
		notify.Playing(st.Name)
	}

	logger.L().Info("playback started",
		zap.String("session", sess.ID),
		zap.String("station", st.Name),
		zap.Int("pid", pid),
		zap.String("player", m.cfg.Player))

	return &sess, nil
}

// Stop terminates the tracked player, if any, and removes the session files.
// Stopping when nothing is playing is a successful no-op; the returned name
// is empty in that case.
func (m *Manager) Stop() (string, error) {
	sess, ok, err := m.sessions.Read()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	if err := m.stop(sess); err != nil {
		return "", err
	}
	return sess.Station, nil
}

// Toggle stops the station if it is the one playing, otherwise switches to
// it. It reports whether the station is playing afterwards.
func (m *Manager) Toggle(st station.Station) (bool, error) {
	if st.Name == "" || st.URL == "" {
		return false, fmt.Errorf("%w: station name and url are required", ErrInvalidInput)
	}

	if cur, ok := m.Current(); ok && cur.Station == st.Name {
		if err := m.stop(cur); err != nil {
			return true, err
		}
		return false, nil
	}

	if _, err := m.Start(st); err != nil {
		return false, err
	}
	return true, nil
}

// Current returns the live session, if any. A recorded session whose process
// has exited is stale: the files are cleaned up and no session is reported.
// This is the single source of truth for "is anything playing".
func (m *Manager) Current() (state.Session, bool) {
	sess, ok, err := m.sessions.Read()
	if err != nil {
		logger.L().Warn("failed to read session", zap.Error(err))
		return state.Session{}, false
	}
	if !ok {
		return state.Session{}, false
	}
	if !processAlive(sess.PID) {
		logger.L().Info("clearing stale session",
			zap.Int("pid", sess.PID),
			zap.String("station", sess.Station))
		m.sessions.Clear()
		return state.Session{}, false
	}
	return sess, true
}

// IsPlaying reports whether a player process is currently alive.
func (m *Manager) IsPlaying() bool {
	_, ok := m.Current()
	return ok
}

// stop terminates a session's process and removes the session files. A
// process that is already gone still gets its files cleaned up.
func (m *Manager) stop(sess state.Session) error {
	if processAlive(sess.PID) {
		if proc, err := os.FindProcess(sess.PID); err == nil {
			proc.Signal(syscall.SIGTERM)
		}
		time.Sleep(m.settleDelay)
		if processAlive(sess.PID) {
			if proc, err := os.FindProcess(sess.PID); err == nil {
				proc.Signal(syscall.SIGKILL)
			}
		}
	}

	if err := m.sessions.Clear(); err != nil {
		return err
	}
	if m.notify && sess.Station != "" {
		notify.Stopped(sess.Station)
	}

	logger.L().Info("playback stopped",
		zap.String("station", sess.Station),
		zap.Int("pid", sess.PID))
	return nil
}

// processAlive checks OS-level process existence with signal 0. A recycled
// pid can alias another process; accepted, matching the file format this
// tool inherited.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
