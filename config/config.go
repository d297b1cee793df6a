// Package config loads and persists user settings as a TOML file under
// the user config directory. Missing file or missing fields fall back to
// defaults, so a fresh install works with zero setup beyond the API key.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings is the full user-tunable surface. Every field has a working
// default except APIKey, which the remote engines require.
type Settings struct {
	// APIKey authenticates against the OpenAI API. Falls back to the
	// OPENAI_API_KEY environment variable when empty.
	APIKey string `toml:"api_key"`

	// TranscriptionPrompt is prepended as context for the speech engine.
	TranscriptionPrompt string `toml:"transcription_prompt"`

	// CustomVocabulary lists names and jargon the speech engine tends to
	// mishear. Folded into the transcription prompt.
	CustomVocabulary []string `toml:"custom_vocabulary"`

	// RewriteEnabled turns the cleanup pass on after transcription.
	RewriteEnabled bool `toml:"rewrite_enabled"`

	// RewritePrompt overrides the built-in editor instructions when set.
	RewritePrompt string `toml:"rewrite_prompt"`

	// UseLocalEngine prefers a local whisper.cpp binary over the API.
	UseLocalEngine bool   `toml:"use_local_engine"`
	LocalModelPath string `toml:"local_model_path"`

	// DetectorMode selects the start/stop gesture: "doubletap" or "chord".
	DetectorMode string `toml:"detector_mode"`

	// DoubleTapWindowMs bounds the gap between the two shift taps.
	DoubleTapWindowMs int `toml:"double_tap_window_ms"`

	// MinRecordingMs discards recordings shorter than this as accidental.
	MinRecordingMs int `toml:"min_recording_ms"`

	// Recorder selects how audio is captured: "process" spawns the
	// platform recorder binary, "capture" records in-process.
	Recorder string `toml:"recorder"`

	// ArtifactFormat is "wav" or "flac". Only the in-process recorder
	// can produce flac.
	ArtifactFormat string `toml:"artifact_format"`

	// CaptureGain is a software amplification factor for the in-process
	// recorder, clamped at the sample range. 1 disables it; quiet laptop
	// microphones usually want 4-8.
	CaptureGain int `toml:"capture_gain"`

	// MuteWhileRecording silences system output during a session.
	MuteWhileRecording bool `toml:"mute_while_recording"`

	// Substitutions maps spoken words to replacement text, applied to
	// the final transcript before typing.
	Substitutions map[string]string `toml:"substitutions"`
}

const (
	DefaultDoubleTapWindowMs = 300
	DefaultMinRecordingMs    = 1000
	DefaultCaptureGain       = 4
)

func defaults() Settings {
	return Settings{
		DetectorMode:      "doubletap",
		DoubleTapWindowMs: DefaultDoubleTapWindowMs,
		MinRecordingMs:    DefaultMinRecordingMs,
		Recorder:          "capture",
		ArtifactFormat:    "wav",
		CaptureGain:       DefaultCaptureGain,
		RewriteEnabled:    true,
		Substitutions:     map[string]string{},
	}
}

// DefaultPath returns the settings file location under the user config
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "typr", "settings.toml"), nil
}

// Load reads settings from path, filling unset fields with defaults. A
// missing file yields pure defaults without error.
func Load(path string) (Settings, error) {
	s := defaults()
	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading %s: %w", path, err)
	}
	for _, k := range meta.Undecoded() {
		return s, fmt.Errorf("unknown setting %q in %s", k.String(), path)
	}
	if err := s.validate(); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(s)
}

// EnsureFile writes a default settings file if none exists yet, so users
// have a file to edit. Returns the path that now exists.
func EnsureFile() (string, error) {
	path, err := DefaultPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := Save(path, defaults()); err != nil {
		return "", err
	}
	return path, nil
}

func (s Settings) validate() error {
	switch s.DetectorMode {
	case "doubletap", "chord":
	default:
		return fmt.Errorf("detector_mode must be \"doubletap\" or \"chord\", got %q", s.DetectorMode)
	}
	switch s.Recorder {
	case "process", "capture":
	default:
		return fmt.Errorf("recorder must be \"process\" or \"capture\", got %q", s.Recorder)
	}
	switch s.ArtifactFormat {
	case "wav", "flac":
	default:
		return fmt.Errorf("artifact_format must be \"wav\" or \"flac\", got %q", s.ArtifactFormat)
	}
	if s.ArtifactFormat == "flac" && s.Recorder == "process" {
		return fmt.Errorf("the process recorder produces wav only")
	}
	if s.DoubleTapWindowMs <= 0 {
		return fmt.Errorf("double_tap_window_ms must be positive")
	}
	if s.CaptureGain < 1 || s.CaptureGain > 32 {
		return fmt.Errorf("capture_gain must be between 1 and 32, got %d", s.CaptureGain)
	}
	return nil
}

// ResolveAPIKey returns the configured key, or the OPENAI_API_KEY
// environment variable when the file leaves it empty.
func (s Settings) ResolveAPIKey() string {
	if s.APIKey != "" {
		return s.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

// TapWindow returns the double-tap window as a duration.
func (s Settings) TapWindow() time.Duration {
	return time.Duration(s.DoubleTapWindowMs) * time.Millisecond
}

// MinRecording returns the accidental-recording threshold as a duration.
func (s Settings) MinRecording() time.Duration {
	return time.Duration(s.MinRecordingMs) * time.Millisecond
}

// AssembledPrompt folds the custom vocabulary into the transcription
// prompt so the speech engine sees the user's jargon as context.
func (s Settings) AssembledPrompt() string {
	var parts []string
	if p := strings.TrimSpace(s.TranscriptionPrompt); p != "" {
		parts = append(parts, p)
	}
	if len(s.CustomVocabulary) > 0 {
		parts = append(parts, "Vocabulary: "+strings.Join(s.CustomVocabulary, ", ")+".")
	}
	return strings.Join(parts, " ")
}
