package check

import (
	"os"

	"golang.org/x/term"
)

// IsTTY checks if the given file descriptor is a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// IsInteractive reports whether stdin is a TTY, i.e. whether the user can
// answer prompts. Returns false in CI pipelines and with piped input.
func IsInteractive() bool {
	return IsTTY(os.Stdin.Fd())
}

// IsOutputTerminal reports whether stdout is a TTY, which gates colored
// console output.
func IsOutputTerminal() bool {
	return IsTTY(os.Stdout.Fd())
}
