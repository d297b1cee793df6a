package transcriber

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeArtifact(t *testing.T) Audio {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("RIFFfake"), 0600); err != nil {
		t.Fatal(err)
	}
	return Audio{Path: path, Format: "wav"}
}

func TestValidate(t *testing.T) {
	if _, err := validate("  ok  "); !errors.Is(err, ErrEmpty) {
		t.Errorf("short result should be ErrEmpty, got %v", err)
	}
	if _, err := validate("         "); !errors.Is(err, ErrEmpty) {
		t.Errorf("whitespace should be ErrEmpty, got %v", err)
	}
	got, err := validate("  this is long enough  ")
	if err != nil {
		t.Fatal(err)
	}
	if got != "this is long enough" {
		t.Errorf("got %q", got)
	}
}

func TestOpenAISuccess(t *testing.T) {
	var gotPrompt, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("multipart parse: %v", err)
		}
		gotPrompt = r.FormValue("prompt")
		gotModel = r.FormValue("model")
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("auth = %q", auth)
		}
		w.Write([]byte(`{"text": "hello from the speech engine"}`))
	}))
	defer srv.Close()

	o := NewOpenAI("sk-test")
	o.apiURL = srv.URL

	got, err := o.Transcribe(context.Background(), writeArtifact(t), "Vocabulary: pgx.")
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello from the speech engine" {
		t.Errorf("got %q", got)
	}
	if gotPrompt != "Vocabulary: pgx." {
		t.Errorf("prompt = %q", gotPrompt)
	}
	if gotModel != "whisper-1" {
		t.Errorf("model = %q", gotModel)
	}
}

func TestOpenAIAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, 429)
	}))
	defer srv.Close()

	o := NewOpenAI("sk-test")
	o.apiURL = srv.URL

	_, err := o.Transcribe(context.Background(), writeArtifact(t), "")
	if !errors.Is(err, ErrFailed) {
		t.Errorf("expected ErrFailed, got %v", err)
	}
}

func TestOpenAIShortResultIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"text": " ok "}`))
	}))
	defer srv.Close()

	o := NewOpenAI("sk-test")
	o.apiURL = srv.URL

	_, err := o.Transcribe(context.Background(), writeArtifact(t), "")
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestOpenAIMissingArtifact(t *testing.T) {
	o := NewOpenAI("sk-test")
	_, err := o.Transcribe(context.Background(), Audio{Path: "/nonexistent.wav", Format: "wav"}, "")
	if !errors.Is(err, ErrFailed) {
		t.Errorf("expected ErrFailed, got %v", err)
	}
}

func TestFallbackUsedOnFailure(t *testing.T) {
	primary := &Fake{Err: ErrFailed}
	secondary := &Fake{Text: "from the fallback engine"}
	f := &Fallback{Primary: primary, Fallback: secondary}

	got, err := f.Transcribe(context.Background(), Audio{}, "p")
	if err != nil {
		t.Fatal(err)
	}
	if got != "from the fallback engine" {
		t.Errorf("got %q", got)
	}
	if primary.Calls() != 1 || secondary.Calls() != 1 {
		t.Errorf("calls = %d/%d", primary.Calls(), secondary.Calls())
	}
}

func TestFallbackNotUsedOnEmpty(t *testing.T) {
	primary := &Fake{Err: ErrEmpty}
	secondary := &Fake{Text: "should never be asked"}
	f := &Fallback{Primary: primary, Fallback: secondary}

	_, err := f.Transcribe(context.Background(), Audio{}, "")
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if secondary.Calls() != 0 {
		t.Error("fallback should not run for an empty result")
	}
}

func TestLocalRejectsFlac(t *testing.T) {
	l := &LocalWhisper{ModelPath: "model.bin"}
	_, err := l.Transcribe(context.Background(), Audio{Path: "x.flac", Format: "flac"}, "")
	if !errors.Is(err, ErrFailed) {
		t.Errorf("expected ErrFailed, got %v", err)
	}
}
