// Package shellerrors defines the sentinel error kinds and errno-to-message
// translation this shell's error-handling design names explicitly.
package shellerrors

import (
	"errors"
	"syscall"
)

// Sentinel error kinds, one per §7 error kind.
var (
	ErrUnterminatedSingleQuote = errors.New("unterminated single quote")
	ErrUnterminatedDoubleQuote = errors.New("unterminated double quote")
	ErrMissingRedirectTarget   = errors.New("missing redirect target")
	ErrCommandNotFound         = errors.New("command not found")
)

// errnoMessages is the minimum translation table the error-handling design
// calls out by name; anything else falls back to the OS's own errno text.
var errnoMessages = map[syscall.Errno]string{
	syscall.ENOENT:  "No such file or directory",
	syscall.ENOTDIR: "Not a directory",
	syscall.EACCES:  "Permission denied",
	syscall.EISDIR:  "Is a directory",
	syscall.ENOSPC:  "No space left on device",
}

// Errno renders err as the human-readable message this shell prints after
// a filesystem operation failure, preferring the explicit translation
// table and falling back to the OS's own strerror-equivalent text.
func Errno(err error) string {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		if msg, ok := errnoMessages[errno]; ok {
			return msg
		}
		return errno.Error()
	}
	return err.Error()
}
