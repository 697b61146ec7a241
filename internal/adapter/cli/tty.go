package cli

import (
	"os"

	"golang.org/x/term"
)

// IsTTY checks if the given file descriptor is a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// IsInteractive checks if stdin is a TTY, indicating that the user can
// answer prompts. Returns false in CI environments and when input is piped.
func IsInteractive() bool {
	return IsTTY(os.Stdin.Fd())
}
