package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path)

	if _, ok, err := s.Load(); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v, want absent", ok, err)
	}

	want := State{RecorderPID: 4242, ArtifactPath: "/tmp/typr-x.wav", Daemon: true}
	if err := s.Save(want); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.Load()
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v, want present", ok, err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path)

	if err := s.Save(State{RecorderPID: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Load(); ok {
		t.Error("expected absent after Clear")
	}
	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
}

func TestFileStoreCorruptRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)
	if _, ok, err := s.Load(); err != nil || ok {
		t.Errorf("corrupt record: ok=%v err=%v, want treated as absent", ok, err)
	}
}

func TestAliveSelf(t *testing.T) {
	if !Alive(os.Getpid()) {
		t.Error("current process should be alive")
	}
	if Alive(0) || Alive(-1) {
		t.Error("non-positive pids are never alive")
	}
}
