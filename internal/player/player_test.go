package player

import (
	"errors"
	"strings"
	"testing"
)

func TestCommandMpv(t *testing.T) {
	cmd, err := Command(Mpv, "http://example.com/stream", 80)
	if err != nil {
		t.Fatalf("Command: %v", err)
	}

	args := strings.Join(cmd.Args, " ")
	for _, want := range []string{"--no-video", "--really-quiet", "--volume=80", "http://example.com/stream"} {
		if !strings.Contains(args, want) {
			t.Errorf("expected %q in args %q", want, args)
		}
	}
}

func TestCommandMplayer(t *testing.T) {
	cmd, err := Command(Mplayer, "http://example.com/stream", 55)
	if err != nil {
		t.Fatalf("Command: %v", err)
	}

	args := strings.Join(cmd.Args, " ")
	for _, want := range []string{"-really-quiet", "-volume 55", "http://example.com/stream"} {
		if !strings.Contains(args, want) {
			t.Errorf("expected %q in args %q", want, args)
		}
	}
}

func TestCommandClampsVolume(t *testing.T) {
	cmd, err := Command(Mpv, "http://example.com/stream", 250)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(strings.Join(cmd.Args, " "), "--volume=100") {
		t.Errorf("expected clamped volume, got %v", cmd.Args)
	}
}

func TestCommandEmptyURL(t *testing.T) {
	if _, err := Command(Mpv, "", 50); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCommandUnknownPlayer(t *testing.T) {
	if _, err := Command("vlc", "http://example.com/stream", 50); !errors.Is(err, ErrPlayerUnsupported) {
		t.Errorf("expected ErrPlayerUnsupported, got %v", err)
	}
}

func TestCheckUnknownPlayer(t *testing.T) {
	if err := Check("winamp"); !errors.Is(err, ErrPlayerUnsupported) {
		t.Errorf("expected ErrPlayerUnsupported, got %v", err)
	}
}

func TestCheckMpvVersion(t *testing.T) {
	tests := []struct {
		name    string
		banner  string
		wantErr bool
	}{
		{"recent", "mpv 0.34.1 Copyright (C) mpv/MPlayer/mplayer2 projects\n", false},
		{"v prefix", "mpv v0.38.0-dirty\n", false},
		{"too old", "mpv 0.26.0 (C) 2000-2017\n", true},
		{"minimum exactly", "mpv 0.27.0\n", false},
		{"unparseable", "mpv built from git\n", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkMpvVersion(tt.banner)
			if tt.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
