package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jcarrus/typr/beep"
	"github.com/jcarrus/typr/config"
	"github.com/jcarrus/typr/encoder"
	"github.com/jcarrus/typr/keys"
	"github.com/jcarrus/typr/log"
	"github.com/jcarrus/typr/record"
	"github.com/jcarrus/typr/registry"
	"github.com/jcarrus/typr/rules"
	"github.com/jcarrus/typr/system"
	"github.com/jcarrus/typr/transcriber"
)

// runToggle is the two-invocation flow: the first call starts a
// detached recorder and exits; the second finds it alive in the
// registry, stops it, and runs the transcribe/rewrite/type pipeline in
// the foreground. Exit code 1 only for adapter initialization failure.
func runToggle() int {
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	storePath, err := registry.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	store := registry.NewFileStore(storePath)

	st, ok, err := store.Load()
	if err != nil {
		log.Warnf("registry load: %v", err)
	}
	if ok && registry.Alive(st.RecorderPID) {
		if st.Daemon {
			// The record belongs to an interactive instance whose
			// recorder runs in-process; signaling that pid would kill
			// the whole daemon. Its own gesture stops the recording.
			fmt.Fprintln(os.Stderr, "A running typr instance owns the current recording; use its gesture to stop.")
			system.NewDesktop(record.NewProcess()).Notify("Recording is controlled by the running typr instance", system.UrgencyLow)
			return 0
		}
		return toggleStop(settings, store, st)
	}

	// Stale record from a dead recorder: clear and start fresh.
	store.Clear()

	pid, path, err := record.StartDetached()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := store.Save(registry.State{RecorderPID: pid, ArtifactPath: path}); err != nil {
		log.Errorf("registry save: %v", err)
	}
	log.SessionStart("toggle", "toggle")
	beep.PlayStart()
	runner := system.NewDesktop(record.NewProcess())
	runner.Notify("Recording", system.UrgencyLow)
	return 0
}

func toggleStop(settings config.Settings, store registry.Store, st registry.State) int {
	runner := system.NewDesktop(record.NewProcess())

	if err := record.SignalPid(st.RecorderPID); err != nil {
		log.Warnf("signal recorder: %v", err)
	}
	// Let the recorder flush and finalize the WAV header.
	for i := 0; i < 100 && registry.Alive(st.RecorderPID); i++ {
		time.Sleep(50 * time.Millisecond)
	}
	runner.Beep()
	store.Clear()

	artifact := record.Artifact{Path: st.ArtifactPath, Format: "wav"}
	defer artifact.Remove()

	if d := wavDuration(st.ArtifactPath); d < settings.MinRecording() {
		log.Infof("discarding %v recording", d)
		runner.Notify("Recording too short, discarded", system.UrgencyLow)
		return 0
	}

	trans, err := buildTranscriber(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	text, err := trans.Transcribe(ctx, transcriber.Audio{Path: st.ArtifactPath, Format: "wav"}, settings.AssembledPrompt())
	if err != nil {
		log.Errorf("transcription: %v", err)
		runner.DoubleBeep()
		runner.Notify(fmt.Sprintf("Transcription failed: %v", err), system.UrgencyCritical)
		return 0
	}
	log.TranscriptionText(text)

	if rw := buildRewriter(settings); rw != nil {
		text, _ = rw.Rewrite(ctx, text, settings.RewritePrompt)
	}

	final := rules.Clean(rules.NewEngine(settings.Substitutions), text)
	if final == "" {
		runner.Notify("Nothing left to type after cleanup", system.UrgencyLow)
		return 0
	}
	if err := runner.InjectText(final); err != nil {
		log.Errorf("typing: %v", err)
		runner.DoubleBeep()
		runner.Notify(fmt.Sprintf("Typing failed: %v", err), system.UrgencyCritical)
		return 0
	}
	log.SessionEnd(len(final))
	runner.Notify(fmt.Sprintf("Typed %d characters", len(final)), system.UrgencyLow)
	return 0
}

// wavDuration estimates the recording length from the artifact size,
// assuming the recorder's 16 kHz mono 16-bit format.
func wavDuration(path string) time.Duration {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	const bytesPerSecond = encoder.SampleRate * encoder.Channels * encoder.BitsPerSample / 8
	pcmBytes := fi.Size() - 44
	if pcmBytes <= 0 {
		return 0
	}
	return time.Duration(pcmBytes) * time.Second / bytesPerSecond
}

func runConfig() int {
	path, err := config.EnsureFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	settings, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("# %s\n", path)
	if err := toml.NewEncoder(os.Stdout).Encode(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runShortcuts() int {
	switch runtime.GOOS {
	case "linux":
		fmt.Println(`Double-tap shift and hold to record (detector_mode = "doubletap").
Requires read access to /dev/input (add yourself to the "input" group)
and /dev/uinput for typing (sudo modprobe uinput).

Alternatively bind "typr toggle" to a key in your desktop settings,
or use detector_mode = "chord" for Ctrl+Shift+Space toggling.`)
		if msg, err := keys.Diagnose(); err != nil {
			fmt.Printf("\nKey monitoring: %v\n", err)
		} else {
			fmt.Printf("\nKey monitoring: %s\n", msg)
		}
	case "darwin":
		fmt.Println(`Cmd+Shift+Space toggles recording (detector_mode = "chord").
Grant accessibility permission to your terminal under
System Settings > Privacy & Security > Accessibility so typr can type.

You can also bind "typr toggle" to a key with Shortcuts.app.`)
	default:
		fmt.Println(`Ctrl+Shift+Space toggles recording (detector_mode = "chord").
Bind "typr toggle" to a key in your OS keyboard settings for
press-once start / press-again stop.`)
	}
	return 0
}
