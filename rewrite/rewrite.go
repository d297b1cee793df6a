// Package rewrite cleans a raw transcript up with an LLM. The pass is
// best-effort: any failure returns the transcript untouched, because a
// raw transcript typed into the focused window beats nothing at all.
package rewrite

import "context"

// Rewriter rewrites a transcript. instruction overrides the built-in
// editor prompt when non-empty.
type Rewriter interface {
	Rewrite(ctx context.Context, transcript, instruction string) (string, error)
}

// defaultInstruction mirrors the dictation editor behavior: light
// copyediting, honor an embedded note to the editor, otherwise only fix
// grammar and punctuation.
const defaultInstruction = `You are a copy editor for dictated text. ` +
	`Fix grammar, punctuation, and obvious transcription mistakes without ` +
	`changing the meaning or tone. If the text contains a note to the ` +
	`editor (for example "note to the editor: make this a bullet list"), ` +
	`follow the note and remove it from the output. Reply with the edited ` +
	`text only.`
