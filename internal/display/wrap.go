package display

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultWidth = 80

// Wrap word-wraps text to DefaultWidth, preserving ANSI escape sequences.
func Wrap(text string) string {
	return wordwrap.String(text, DefaultWidth)
}

// Capitalize returns s with its first character uppercased.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Title turns an ability id like "chain-lightning" into "Chain Lightning".
func Title(id string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(id))
}
