package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jcarrus/typr/beep"
	"github.com/jcarrus/typr/config"
	"github.com/jcarrus/typr/gesture"
	"github.com/jcarrus/typr/keys"
	"github.com/jcarrus/typr/record"
	"github.com/jcarrus/typr/registry"
	"github.com/jcarrus/typr/rules"
	"github.com/jcarrus/typr/session"
	"github.com/jcarrus/typr/system"
	"github.com/jcarrus/typr/transcriber"
)

// idleSink prints state transitions and signals each return to idle so
// the script driver can synchronize on session completion.
type idleSink struct {
	idle chan struct{}
}

func (s *idleSink) StateChanged(st session.State) {
	fmt.Printf("STATE %s\n", st)
	if st == session.Idle {
		select {
		case s.idle <- struct{}{}:
		default:
		}
	}
}

func (s *idleSink) TranscriptReady(text string) {
	fmt.Printf("TRANSCRIPT %q\n", text)
}

func (s *idleSink) SessionError(err error) {
	fmt.Printf("ERROR %v\n", err)
}

// runTestMode drives the full detector/session stack from scripted
// stdin commands with faked keys, recorder, and engines:
//
//	SHIFT_DOWN / SHIFT_UP  shift transitions
//	KEY                    an unrelated key press
//	ESC                    escape press and release
//	SLEEP <ms>             pause the script
//	TRANSCRIPT <text>      set the fake engine output
//	WAIT                   block until the session returns to idle
//	QUIT                   exit
//
// Typed output appears as TYPED lines on stdout.
func runTestMode(settings config.Settings) {
	beep.Disable()

	src := keys.NewFake()
	detector := gesture.NewDetector(settings.TapWindow())
	runner := &system.Fake{Artifact: record.Artifact{Duration: 2 * time.Second}}
	trans := &transcriber.Fake{Text: "this is the scripted transcript"}

	sink := &idleSink{idle: make(chan struct{}, 1)}
	machine := session.New(runner, trans, nil,
		rules.NewEngine(settings.Substitutions),
		registry.NewMemStore(),
		sink,
		session.Config{
			MinRecording:        settings.MinRecording(),
			Mode:                "test",
			TranscriptionPrompt: settings.AssembledPrompt(),
		},
	)
	machine.Start()

	go func() {
		for ev := range src.Events() {
			if intent, ok := detector.ProcessEvent(ev); ok {
				machine.HandleIntent(intent)
			}
		}
	}()

	printed := 0
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		cmd, rest, _ := strings.Cut(line, " ")
		switch cmd {
		case "SHIFT_DOWN":
			src.Push(keys.KeyShiftLeft, keys.Down, time.Now())
		case "SHIFT_UP":
			src.Push(keys.KeyShiftLeft, keys.Up, time.Now())
		case "KEY":
			src.Push(keys.KeyOther, keys.Down, time.Now())
			src.Push(keys.KeyOther, keys.Up, time.Now())
		case "ESC":
			src.Push(keys.KeyEscape, keys.Down, time.Now())
			src.Push(keys.KeyEscape, keys.Up, time.Now())
		case "SLEEP":
			if ms, err := strconv.Atoi(rest); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}
		case "TRANSCRIPT":
			trans.Text = rest
		case "WAIT":
			<-sink.idle
			for _, text := range runner.Injected()[printed:] {
				fmt.Printf("TYPED %q\n", text)
				printed++
			}
		case "QUIT":
			machine.Close()
			os.Exit(0)
		}
	}
	machine.Close()
}
