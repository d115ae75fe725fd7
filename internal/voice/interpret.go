// Package voice turns speech-recognition output into add-item actions.
//
// It has two halves: the Interpret function, which normalizes a finished
// transcript into actionable input text, and the Adapter, which drives a
// platform speech-recognition session through its listening lifecycle.
package voice

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// triggers are the command prefixes stripped from a transcript, checked in
// order. Longer phrases come first so "add task" is not half-eaten by "add".
var triggers = []string{
	"add task",
	"new task",
	"add",
	"create",
}

// Interpret converts a raw recognized-speech string into input text for an
// add action. At most one trigger phrase is stripped from the front, then
// the first character is capitalized. ok is false when nothing actionable
// remains, e.g. a transcript that was only a trigger phrase.
func Interpret(transcript string) (text string, ok bool) {
	text = strings.TrimSpace(transcript)
	lower := strings.ToLower(text)
	for _, trig := range triggers {
		if strings.HasPrefix(lower, trig) {
			text = strings.TrimSpace(text[len(trig):])
			break
		}
	}
	if text == "" {
		return "", false
	}
	return capitalize(text), true
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
