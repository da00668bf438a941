package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ANSI color codes
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// termStyle provides terminal styling helpers with automatic color detection
type termStyle struct {
	useColors bool
}

func newTermStyle() *termStyle {
	return &termStyle{
		useColors: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

func (t *termStyle) colorize(code, text string) string {
	if !t.useColors {
		return text
	}
	return code + text + ansiReset
}

// Success prints a success message with green checkmark
func (t *termStyle) Success(msg string) {
	fmt.Println(t.colorize(ansiGreen, "✓ "+msg))
}

// Warn prints a warning message with yellow warning symbol
func (t *termStyle) Warn(msg string) {
	fmt.Println(t.colorize(ansiYellow, "⚠ "+msg))
}

// Error prints an error message with red X
func (t *termStyle) Error(msg string) {
	fmt.Fprintln(os.Stderr, t.colorize(ansiRed, "✗ "+msg))
}

// Dim returns dimmed text
func (t *termStyle) Dim(text string) string {
	return t.colorize(ansiDim, text)
}

// Bold returns bold text
func (t *termStyle) Bold(text string) string {
	return t.colorize(ansiBold, text)
}

// Cyan returns cyan text (for URLs and station names)
func (t *termStyle) Cyan(text string) string {
	return t.colorize(ansiCyan, text)
}

// Green returns green text
func (t *termStyle) Green(text string) string {
	return t.colorize(ansiGreen, text)
}

// Printf prints formatted text
func (t *termStyle) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// Println prints normal text with newline
func (t *termStyle) Println(text string) {
	fmt.Println(text)
}
