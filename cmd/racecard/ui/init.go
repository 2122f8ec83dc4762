package ui

import (
	"github.com/fatih/color"
)

var (
	verboseFlag bool
	jsonFlag    bool
)

// InitUI applies the global output flags. In JSON mode every human readable helper
// is silent so stdout carries only the JSON document.
func InitUI(noColor, verbose, jsonMode bool) {
	verboseFlag = verbose
	jsonFlag = jsonMode
	if noColor || jsonMode {
		color.NoColor = true
	}
}
