package state

import (
	"os"
	"runtime"
	"testing"
)

func TestReadNoSession(t *testing.T) {
	s := NewFileStore(t.TempDir())

	_, ok, err := s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ok {
		t.Error("expected no session in empty dir")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if err := s.Write(Session{PID: 12345, Station: "Rock FM"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	sess, ok, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a session")
	}
	if sess.PID != 12345 {
		t.Errorf("expected pid 12345, got %d", sess.PID)
	}
	if sess.Station != "Rock FM" {
		t.Errorf("expected station Rock FM, got %q", sess.Station)
	}
}

func TestFileFormatsAreBare(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if err := s.Write(Session{PID: 777, Station: "Kiss FM"}); err != nil {
		t.Fatal(err)
	}

	pid, err := os.ReadFile(s.PIDPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(pid) != "777" {
		t.Errorf("pid file must hold the raw integer, got %q", string(pid))
	}

	marker, err := os.ReadFile(s.MarkerPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(marker) != "Kiss FM" {
		t.Errorf("marker file must hold the raw station name, got %q", string(marker))
	}
}

func TestFilesAreOwnerOnly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	s := NewFileStore(t.TempDir())

	if err := s.Write(Session{PID: 1, Station: "x"}); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{s.PIDPath(), s.MarkerPath()} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("%s: expected mode 0600, got %o", path, perm)
		}
	}
}

func TestCorruptPIDFileIsCleared(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if err := os.WriteFile(s.PIDPath(), []byte("not a pid"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.MarkerPath(), []byte("Rock FM"), 0600); err != nil {
		t.Fatal(err)
	}

	_, ok, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("corrupt pid file should read as no session")
	}
	if _, err := os.Stat(s.PIDPath()); !os.IsNotExist(err) {
		t.Error("corrupt pid file should have been removed")
	}
	if _, err := os.Stat(s.MarkerPath()); !os.IsNotExist(err) {
		t.Error("marker should have been removed with the corrupt pid file")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if err := s.Write(Session{PID: 99, Station: "Pro FM"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear should be a no-op, got %v", err)
	}

	_, ok, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected no session after Clear")
	}
}
