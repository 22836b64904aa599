package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var (
	// ANSI Colors
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBold   = "\033[1m"
)

// Output is where status lines go.
var Output io.Writer = os.Stdout

func init() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		DisableColors()
	}
}

// DisableColors turns off ANSI escapes, e.g. when stdout is redirected to a file.
func DisableColors() {
	ColorReset, ColorRed, ColorGreen, ColorYellow, ColorBold = "", "", "", "", ""
}

func PrintHeader(msg string) {
	fmt.Fprintf(Output, "\n%s%s%s\n", ColorBold, msg, ColorReset)
}

func PrintSuccess(label, detail string) {
	fmt.Fprintf(Output, "  %s✔%s %-15s %s%s\n", ColorGreen, ColorReset, label, ColorGreen, detail+ColorReset)
}

func PrintError(label, detail string) {
	fmt.Fprintf(Output, "  %s✘%s %-15s %s%s\n", ColorRed, ColorReset, label, ColorRed, detail+ColorReset)
}

func PrintWarning(label, detail string) {
	fmt.Fprintf(Output, "  %s!%s %-15s %s%s\n", ColorYellow, ColorReset, label, ColorYellow, detail+ColorReset)
}
