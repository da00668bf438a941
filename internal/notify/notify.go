// Package notify sends best-effort desktop notifications. Failures are
// logged and swallowed; playback never depends on the notification daemon.
package notify

import (
	"go.uber.org/zap"

	"github.com/gen2brain/beeep"

	"github.com/sergeknystautas/tradio/internal/logger"
)

const appTitle = "tradio"

// Playing announces that a station started playing.
func Playing(stationName string) {
	send("Now playing", stationName)
}

// Stopped announces that playback stopped.
func Stopped(stationName string) {
	send("Stopped", stationName)
}

func send(title, body string) {
	if err := beeep.Notify(appTitle+": "+title, body, ""); err != nil {
		logger.L().Debug("notification failed",
			zap.String("title", title),
			zap.Error(err))
	}
}
