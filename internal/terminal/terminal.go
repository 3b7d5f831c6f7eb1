// Package terminal handles low-level terminal I/O: raw/cooked mode
// transitions and decoding of raw input bytes into Key events.
package terminal

import (
	"io"
	"os"

	"golang.org/x/term"
)

// KeyType identifies the closed set of key events the editor understands.
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyTab
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyHome
	KeyEnd
	KeyCtrlC
	KeyCtrlD
	KeyUnknown
)

// Key is a decoded terminal input event. Char is only meaningful when
// Type == KeyChar; bytes >= 0x80 are passed through as KeyChar, untouched
// by UTF-8 decoding.
type Key struct {
	Type KeyType
	Char byte
}

// Terminal owns the controlling tty's raw/cooked state and low-level I/O.
type Terminal struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	fd     int

	isTTY    bool
	original *term.State
	inRaw    bool
}

// New captures the original terminal attributes of stdin and enters raw
// mode if stdin is a terminal. If stdin is not a terminal, isTTY is false
// and the terminal is left alone.
func New() (*Terminal, error) {
	t := &Terminal{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		fd:     int(os.Stdin.Fd()),
	}
	t.isTTY = term.IsTerminal(t.fd)
	if !t.isTTY {
		return t, nil
	}

	state, err := term.GetState(t.fd)
	if err != nil {
		return nil, err
	}
	t.original = state

	if err := t.EnterRaw(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewWithIO builds a Terminal over custom I/O streams, for testing.
// isTTY controls whether ReadKey follows the interactive decode path.
func NewWithIO(stdin io.Reader, stdout, stderr io.Writer, fd int, isTTY bool) *Terminal {
	return &Terminal{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		fd:     fd,
		isTTY:  isTTY,
	}
}

// IsTTY reports whether stdin is connected to a terminal.
func (t *Terminal) IsTTY() bool {
	return t.isTTY
}

// EnterRaw installs raw mode. Idempotent; a no-op when not a tty or
// already raw.
func (t *Terminal) EnterRaw() error {
	if !t.isTTY || t.inRaw {
		return nil
	}
	if _, err := term.MakeRaw(t.fd); err != nil {
		return err
	}
	t.inRaw = true
	return nil
}

// RestoreCooked restores the original terminal attributes captured by
// New. Idempotent; a no-op when not a tty or already cooked. Used around
// external command execution so children inherit a sane terminal.
func (t *Terminal) RestoreCooked() error {
	if !t.isTTY || !t.inRaw {
		return nil
	}
	if err := term.Restore(t.fd, t.original); err != nil {
		return err
	}
	t.inRaw = false
	return nil
}

// ReadKey reads and decodes one key event from stdin.
func (t *Terminal) ReadKey() (Key, error) {
	var buf [1]byte
	n, err := t.stdin.Read(buf[:])
	if err != nil {
		return Key{}, err
	}
	if n == 0 {
		return Key{Type: KeyCtrlD}, nil
	}
	b := buf[0]

	if !t.isTTY {
		if b == 0x0A {
			return Key{Type: KeyEnter}, nil
		}
		return Key{Type: KeyChar, Char: b}, nil
	}

	switch {
	case b == 0x03:
		return Key{Type: KeyCtrlC}, nil
	case b == 0x04:
		return Key{Type: KeyCtrlD}, nil
	case b == 0x09:
		return Key{Type: KeyTab}, nil
	case b == 0x0A || b == 0x0D:
		return Key{Type: KeyEnter}, nil
	case b == 0x08 || b == 0x7F:
		return Key{Type: KeyBackspace}, nil
	case b == 0x1B:
		return t.readEscapeSequence()
	default:
		return Key{Type: KeyChar, Char: b}, nil
	}
}

// readEscapeSequence decodes the byte(s) following an initial 0x1B per
// the CSI subset this shell recognises.
func (t *Terminal) readEscapeSequence() (Key, error) {
	var second [1]byte
	n, err := t.stdin.Read(second[:])
	if err != nil || n == 0 {
		return Key{Type: KeyUnknown}, nil
	}
	if second[0] != '[' {
		return Key{Type: KeyUnknown}, nil
	}

	var third [1]byte
	n, err = t.stdin.Read(third[:])
	if err != nil || n == 0 {
		return Key{Type: KeyUnknown}, nil
	}

	switch third[0] {
	case 'A':
		return Key{Type: KeyArrowUp}, nil
	case 'B':
		return Key{Type: KeyArrowDown}, nil
	case 'C':
		return Key{Type: KeyArrowRight}, nil
	case 'D':
		return Key{Type: KeyArrowLeft}, nil
	case 'H':
		return Key{Type: KeyHome}, nil
	case 'F':
		return Key{Type: KeyEnd}, nil
	case '3':
		var discard [1]byte
		t.stdin.Read(discard[:]) // discard the trailing '~'
		return Key{Type: KeyDelete}, nil
	default:
		return Key{Type: KeyUnknown}, nil
	}
}

// Write writes raw bytes to stdout.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.stdout.Write(p)
}

// WriteString writes a string to stdout.
func (t *Terminal) WriteString(s string) (int, error) {
	return io.WriteString(t.stdout, s)
}

// WriteError writes raw bytes to stderr.
func (t *Terminal) WriteError(p []byte) (int, error) {
	return t.stderr.Write(p)
}

// Bell emits a BEL byte.
func (t *Terminal) Bell() error {
	_, err := t.WriteString("\a")
	return err
}

// ClearLine emits a carriage return followed by clear-to-EOL.
func (t *Terminal) ClearLine() error {
	_, err := t.WriteString("\r\x1B[K")
	return err
}

// ClearToEOL emits CSI K.
func (t *Terminal) ClearToEOL() error {
	_, err := t.WriteString("\x1B[K")
	return err
}

// MoveCursorLeft moves the cursor left by n columns via CSI nD. No-op
// when n <= 0.
func (t *Terminal) MoveCursorLeft(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := t.WriteString("\x1B[" + itoa(n) + "D")
	return err
}

// MoveCursorRight moves the cursor right by n columns via CSI nC. No-op
// when n <= 0.
func (t *Terminal) MoveCursorRight(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := t.WriteString("\x1B[" + itoa(n) + "C")
	return err
}

// Size returns the terminal dimensions (columns, rows).
func (t *Terminal) Size() (width, height int, err error) {
	return term.GetSize(t.fd)
}

// itoa converts a non-negative int to its decimal string without
// importing strconv, matching the rest of this package's low-level feel.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
