package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jcarrus/typr/audio"
	"github.com/jcarrus/typr/config"
	"github.com/jcarrus/typr/gesture"
	"github.com/jcarrus/typr/hotkey"
	"github.com/jcarrus/typr/keys"
	"github.com/jcarrus/typr/log"
	"github.com/jcarrus/typr/record"
	"github.com/jcarrus/typr/registry"
	"github.com/jcarrus/typr/rewrite"
	"github.com/jcarrus/typr/rules"
	"github.com/jcarrus/typr/session"
	"github.com/jcarrus/typr/system"
	"github.com/jcarrus/typr/transcriber"
)

var version = "dev"

func run() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "toggle":
			os.Exit(runToggle())
		case "config":
			os.Exit(runConfig())
		case "shortcuts":
			os.Exit(runShortcuts())
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	logPath := flag.String("logpath", "", "log directory (default: OS state dir)")
	mode := flag.String("mode", "", "detector mode: doubletap or chord (overrides settings)")
	setup := flag.Bool("setup", false, "pick the capture device interactively")
	testMode := flag.Bool("test", false, "scripted stdin-driven test mode")
	noTUI := flag.Bool("notui", false, "run without the status TUI")
	flag.Parse()

	if *showVersion {
		fmt.Println("typr " + version)
		return
	}

	if dir, err := log.ResolveDir(*logPath); err == nil {
		log.SetDir(dir)
	}
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	settings, err := loadSettings()
	if err != nil {
		fatal(err)
	}
	if *mode != "" {
		settings.DetectorMode = *mode
	}

	if *testMode {
		runTestMode(settings)
		return
	}

	trans, err := buildTranscriber(settings)
	if err != nil {
		fatal(err)
	}

	recorder, cleanup, err := buildRecorder(settings, *setup)
	if err != nil {
		fatal(err)
	}
	defer cleanup()

	storePath, err := registry.DefaultPath()
	if err != nil {
		fatal(err)
	}

	var sink session.EventSink
	var program *tea.Program
	if !*noTUI {
		program = newStatusProgram(statusInit{
			mode:    settings.DetectorMode,
			engine:  trans.Name(),
			version: version,
		})
		sink = tuiSink{p: program}
	}

	machine := session.New(
		system.NewDesktop(recorder),
		trans,
		buildRewriter(settings),
		rules.NewEngine(settings.Substitutions),
		registry.NewFileStore(storePath),
		sink,
		session.Config{
			MinRecording:        settings.MinRecording(),
			Mode:                settings.DetectorMode,
			TranscriptionPrompt: settings.AssembledPrompt(),
			RewriteInstruction:  settings.RewritePrompt,
			MuteWhileRecording:  settings.MuteWhileRecording,
		},
	)
	machine.Start()
	defer machine.Close()

	stopDetector, err := startDetector(settings, machine)
	if err != nil {
		fatal(err)
	}
	defer stopDetector()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	if program != nil {
		tuiDone := make(chan struct{})
		go func() {
			if _, err := program.Run(); err != nil {
				log.Errorf("tui: %v", err)
			}
			close(tuiDone)
		}()
		select {
		case <-sig:
			program.Quit()
			<-tuiDone
		case <-tuiDone:
		}
	} else {
		<-sig
	}
	log.Info("shutting down")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	log.Errorf("fatal: %v", err)
	log.Close()
	os.Exit(1)
}

func loadSettings() (config.Settings, error) {
	path, err := config.EnsureFile()
	if err != nil {
		return config.Settings{}, fmt.Errorf("settings: %w", err)
	}
	return config.Load(path)
}

func buildTranscriber(settings config.Settings) (transcriber.Transcriber, error) {
	key := settings.ResolveAPIKey()
	if settings.UseLocalEngine {
		local := &transcriber.LocalWhisper{ModelPath: settings.LocalModelPath}
		if key != "" {
			// Remote fallback when the local engine fails.
			return &transcriber.Fallback{Primary: local, Fallback: transcriber.NewOpenAI(key)}, nil
		}
		return local, nil
	}
	if key == "" {
		return nil, fmt.Errorf("no API key: set api_key in the settings file or OPENAI_API_KEY")
	}
	return transcriber.NewOpenAI(key), nil
}

func buildRewriter(settings config.Settings) rewrite.Rewriter {
	if !settings.RewriteEnabled {
		return nil
	}
	key := settings.ResolveAPIKey()
	if key == "" {
		return nil
	}
	return rewrite.NewOpenAI(key)
}

func buildRecorder(settings config.Settings, setup bool) (record.Recorder, func(), error) {
	if settings.Recorder == "process" {
		return record.NewProcess(), func() {}, nil
	}
	ctx, err := audio.NewContext()
	if err != nil {
		return nil, nil, fmt.Errorf("audio: %w", err)
	}
	var device *audio.DeviceInfo
	if setup {
		device, err = audio.SelectDevice(ctx)
		if err != nil {
			ctx.Close()
			return nil, nil, err
		}
	}
	format := settings.ArtifactFormat
	if settings.UseLocalEngine && format == "flac" {
		log.Warn("local engine needs wav, overriding artifact_format")
		format = "wav"
	}
	return record.NewCapture(ctx, device, format, settings.CaptureGain), ctx.Close, nil
}

// startDetector wires the configured gesture mode to the machine and
// returns a stop function.
func startDetector(settings config.Settings, machine *session.Machine) (func(), error) {
	switch gesture.Mode(settings.DetectorMode) {
	case gesture.ModeChord:
		hk := hotkey.New()
		if err := hk.Register(); err != nil {
			return nil, fmt.Errorf("hotkey: %w", err)
		}
		chord := gesture.NewChord(hk)
		go func() {
			for intent := range chord.Intents() {
				machine.HandleIntent(intent)
			}
		}()
		return func() {
			chord.Close()
			hk.Unregister()
		}, nil

	case gesture.ModeDoubleTap:
		src := keys.NewSource()
		if err := src.Start(); err != nil {
			return nil, fmt.Errorf("key monitoring: %w", err)
		}
		detector := gesture.NewDetector(settings.TapWindow())
		go func() {
			for ev := range src.Events() {
				if intent, ok := detector.ProcessEvent(ev); ok {
					machine.HandleIntent(intent)
				}
			}
		}()
		return src.Close, nil

	default:
		return nil, fmt.Errorf("unknown detector mode %q", settings.DetectorMode)
	}
}
