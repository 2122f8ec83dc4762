// Package ui provides terminal output helpers for the racecard CLI.
package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"
)

// DocProgress counts finished documents on stderr. The zero value, used in JSON
// mode, draws nothing.
type DocProgress struct {
	bar *progressbar.ProgressBar
}

// NewDocProgress starts a bar over total documents.
func NewDocProgress(total int, label string) *DocProgress {
	if jsonFlag || total == 0 {
		return &DocProgress{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("docs"),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
	)
	return &DocProgress{bar: bar}
}

// Done records one more finished document, named in verbose mode.
func (p *DocProgress) Done(file string) {
	Detail("processed %s", file)
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// Close completes the bar.
func (p *DocProgress) Close() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Spinner animates on stderr while a phase of unknown length runs.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner prepares a spinner; it starts on Start.
func NewSpinner(message string) *Spinner {
	s := spinner.New(spinner.CharSets[11], 120*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	return &Spinner{s: s}
}

func (s *Spinner) Start() {
	if !jsonFlag {
		s.s.Start()
	}
}

// Stop is safe to call whether or not the spinner was started.
func (s *Spinner) Stop() {
	s.s.Stop()
}
