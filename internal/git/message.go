package git

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// scissorsLine marks the start of the diff git appends in verbose mode.
// Everything from this line on is discarded.
const scissorsLine = "# ------------------------ >8 ------------------------"

// ReadMessageFile reads a commit message file as git would commit it:
// comment lines and the verbose diff are removed.
func ReadMessageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(ErrMessageFile, "%s: %v", path, err)
	}

	return StripComments(string(data)), nil
}

// StripComments drops lines starting with '#' and everything after the scissors line.
func StripComments(message string) string {
	lines := strings.Split(strings.ReplaceAll(message, "\r\n", "\n"), "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.TrimRight(line, " ") == scissorsLine {
			break
		}

		if strings.HasPrefix(line, "#") {
			continue
		}

		kept = append(kept, line)
	}

	return strings.TrimRight(strings.Join(kept, "\n"), "\n")
}
