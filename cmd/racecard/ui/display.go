package ui

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"
)

// Table displays data in a formatted table.
func Table(headers []string, rows [][]string) {
	if jsonFlag {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(headers, "\t"))

	separator := make([]string, len(headers))
	for i := range separator {
		separator[i] = strings.Repeat("-", utf8.RuneCountInString(headers[i]))
	}
	fmt.Fprintln(w, strings.Join(separator, "\t"))

	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	_ = w.Flush()
}

// Box displays lines in a box with borders.
func Box(title string, lines []string) {
	if jsonFlag {
		return
	}
	width := utf8.RuneCountInString(title)
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > width {
			width = n
		}
	}
	if width < 40 {
		width = 40
	}

	fmt.Printf("┌%s┐\n", strings.Repeat("─", width+2))
	if title != "" {
		fmt.Printf("│ %s │\n", pad(title, width))
		fmt.Printf("├%s┤\n", strings.Repeat("─", width+2))
	}
	for _, line := range lines {
		fmt.Printf("│ %s │\n", pad(line, width))
	}
	fmt.Printf("└%s┘\n", strings.Repeat("─", width+2))
}

// SuccessBox displays a success summary in a box.
func SuccessBox(title string, lines []string) {
	if jsonFlag {
		return
	}
	fmt.Println()
	Box("✓ "+title, lines)
	fmt.Println()
}

// WarningBox displays a warning summary in a box.
func WarningBox(title string, lines []string) {
	if jsonFlag {
		return
	}
	fmt.Println()
	Box("⚠ "+title, lines)
	fmt.Println()
}

// KeyValue formats a key-value line for boxes.
func KeyValue(key string, value interface{}) string {
	return fmt.Sprintf("%-22s %v", key+":", value)
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	d = d.Round(time.Second)

	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// JSON writes v to stdout as indented JSON.
func JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Truncate shortens s to n runes with an ellipsis.
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
