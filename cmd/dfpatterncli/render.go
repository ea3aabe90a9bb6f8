// Package main is the dfpatterncli demo binary: a small cobra-based
// front end over pkg/dfpattern that runs spec §8's worked
// scenarios and prints colorized results. This, and the matcher
// library it drives, are what SPEC_FULL.md's supplemented-features
// section adds: a way to see the matcher work without writing a Go
// test.
package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorMatch   = lipgloss.Color("#5AF78E")
	colorNoMatch = lipgloss.Color("#FF6B9D")
	colorLabel   = lipgloss.Color("#56C3F4")
	colorMuted   = lipgloss.Color("#6C7086")

	styleMatch   = lipgloss.NewStyle().Bold(true).Foreground(colorMatch)
	styleNoMatch = lipgloss.NewStyle().Bold(true).Foreground(colorNoMatch)
	styleLabel   = lipgloss.NewStyle().Bold(true).Foreground(colorLabel)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
)

// renderResult prints one scenario's name, expression, and verdict.
func renderResult(name, exprStr string, matched bool) {
	verdict := styleNoMatch.Render("no match")
	if matched {
		verdict = styleMatch.Render("match")
	}
	fmt.Printf("%s %s\n  %s %s\n",
		styleLabel.Render(name+":"), verdict,
		styleMuted.Render("expr ="), exprStr)
}
