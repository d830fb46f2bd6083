package logsource

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
)

// UnavailableError marks a transient read failure on an existing file,
// typically a sharing violation while the game process holds the log locked.
// The caller is expected to retry on its next poll.
type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("log file unavailable: %s: %v", e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err is a transient read failure
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

// IsMissing reports whether err means the log file does not exist
func IsMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Reader reads whole log files line by line.
// os.Open requests shared read/write/delete access, so a game process
// appending to the file (or rotating it) does not block us. A writer that
// opened the file without share-read denies the open; that surfaces as
// UnavailableError, not a hard failure.
type Reader struct {
	maxLineBytes int
}

// NewReader creates a line reader with the default 1MB line limit
func NewReader() *Reader {
	return &Reader{maxLineBytes: 1024 * 1024}
}

// ReadAll opens path and returns every line in file order (oldest first).
// Lines are split on \n with a trailing \r stripped, so both Unix and
// Windows line endings are handled.
//
// Error cases:
//   - file does not exist: IsMissing(err) is true
//   - any other open or read failure: *UnavailableError
func (r *Reader) ReadAll(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if IsMissing(err) {
			return nil, err
		}
		log.Debug().Err(err).Str("file", path).Msg("Log file open denied, treating as contention")
		return nil, &UnavailableError{Path: path, Err: err}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, r.maxLineBytes)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		// Mid-read failure while the writer holds the file. Partial content
		// must not be parsed as if it were the whole file.
		return nil, &UnavailableError{Path: path, Err: err}
	}

	return lines, nil
}
