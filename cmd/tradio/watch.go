package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/sergeknystautas/tradio/internal/config"
	"github.com/sergeknystautas/tradio/internal/state"
)

// cmdWatch follows now-playing changes made by any tradio invocation by
// watching the runtime session files. It runs until interrupted.
func (a *app) cmdWatch() int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		a.style.Error(err.Error())
		return 1
	}
	defer watcher.Close()

	// The session files come and go, so watch their directory.
	dir := config.RuntimeDir()
	fs := state.NewFileStore(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		a.style.Error(err.Error())
		return 1
	}
	if err := watcher.Add(dir); err != nil {
		a.style.Error(err.Error())
		return 1
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	a.cmdStatus()
	last := a.statusLine()

	for {
		select {
		case <-stop:
			return 0

		case event, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			if event.Name != fs.PIDPath() && event.Name != fs.MarkerPath() {
				continue
			}
			// Both files change per transition; only print when the
			// resulting status actually differs.
			if line := a.statusLine(); line != last {
				last = line
				a.style.Println(line)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			a.style.Warn(err.Error())
		}
	}
}

func (a *app) statusLine() string {
	cur, ok := a.manager.Current()
	if !ok {
		return "Nothing is playing"
	}
	return "▶ " + cur.Station
}
