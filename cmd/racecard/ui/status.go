package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

type level int

const (
	levelInfo level = iota
	levelStep
	levelWarn
	levelError
)

var marks = map[level]struct {
	symbol string
	attr   color.Attribute
}{
	levelInfo:  {"ℹ", color.FgCyan},
	levelStep:  {"→", color.FgBlue},
	levelWarn:  {"⚠", color.FgYellow},
	levelError: {"✗", color.FgRed},
}

func status(l level, format string, args ...interface{}) {
	if jsonFlag {
		return
	}
	m := marks[l]
	out := os.Stdout
	if l == levelError {
		out = os.Stderr
	}
	color.New(m.attr).Fprintf(out, "%s %s\n", m.symbol, fmt.Sprintf(format, args...))
}

func Info(format string, args ...interface{})    { status(levelInfo, format, args...) }
func Step(format string, args ...interface{})    { status(levelStep, format, args...) }
func Warning(format string, args ...interface{}) { status(levelWarn, format, args...) }

// Error goes to stderr.
func Error(format string, args ...interface{}) { status(levelError, format, args...) }

// Detail prints an indented line in verbose mode only.
func Detail(format string, args ...interface{}) {
	if jsonFlag || !verboseFlag {
		return
	}
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// Section prints a bold title underlined with '='.
func Section(title string) {
	if jsonFlag {
		return
	}
	color.New(color.Bold).Printf("\n%s\n", title)
	fmt.Printf("%s\n\n", strings.Repeat("=", len([]rune(title))))
}

// Newline prints an empty line outside JSON mode.
func Newline() {
	if !jsonFlag {
		fmt.Println()
	}
}
