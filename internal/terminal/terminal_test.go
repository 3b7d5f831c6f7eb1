package terminal

import (
	"bytes"
	"io"
	"testing"
)

// mockReader allows simulating terminal input.
type mockReader struct {
	data []byte
	pos  int
}

func (r *mockReader) Read(p []byte) (n int, err error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n = copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func TestKeyTypeUnique(t *testing.T) {
	keyTypes := []KeyType{
		KeyChar, KeyEnter, KeyBackspace, KeyDelete, KeyTab,
		KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight,
		KeyHome, KeyEnd, KeyCtrlC, KeyCtrlD, KeyUnknown,
	}

	seen := make(map[KeyType]bool)
	for _, kt := range keyTypes {
		if seen[kt] {
			t.Errorf("duplicate KeyType value: %d", kt)
		}
		seen[kt] = true
	}
}

func TestTerminalWrite(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	stdin := &mockReader{}

	term := NewWithIO(stdin, &stdout, &stderr, -1, false)

	n, err := term.Write([]byte("hello"))
	if err != nil {
		t.Errorf("Write error: %v", err)
	}
	if n != 5 {
		t.Errorf("Write returned %d, want 5", n)
	}
	if stdout.String() != "hello" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "hello")
	}

	stdout.Reset()
	n, err = term.WriteString("world")
	if err != nil {
		t.Errorf("WriteString error: %v", err)
	}
	if n != 5 {
		t.Errorf("WriteString returned %d, want 5", n)
	}
	if stdout.String() != "world" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "world")
	}

	n, err = term.WriteError([]byte("error"))
	if err != nil {
		t.Errorf("WriteError error: %v", err)
	}
	if stderr.String() != "error" {
		t.Errorf("stderr = %q, want %q", stderr.String(), "error")
	}
}

func TestReadKeyNonTTY(t *testing.T) {
	// Non-tty mode: 0x0A is Enter, everything else is a raw Char, and
	// EOF (0 bytes) decodes as CtrlD.
	tests := []struct {
		name  string
		input []byte
		want  Key
	}{
		{"letter a", []byte{'a'}, Key{Type: KeyChar, Char: 'a'}},
		{"newline", []byte{0x0A}, Key{Type: KeyEnter}},
		{"carriage return is literal", []byte{0x0D}, Key{Type: KeyChar, Char: 0x0D}},
		{"tab is literal", []byte{0x09}, Key{Type: KeyChar, Char: 0x09}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdin := &mockReader{data: tt.input}
			term := NewWithIO(stdin, &bytes.Buffer{}, &bytes.Buffer{}, -1, false)

			key, err := term.ReadKey()
			if err != nil {
				t.Fatalf("ReadKey error: %v", err)
			}
			if key != tt.want {
				t.Errorf("ReadKey() = %+v, want %+v", key, tt.want)
			}
		})
	}
}

func TestReadKeyNonTTYEOF(t *testing.T) {
	stdin := &mockReader{}
	term := NewWithIO(stdin, &bytes.Buffer{}, &bytes.Buffer{}, -1, false)

	key, err := term.ReadKey()
	if err != nil {
		t.Fatalf("ReadKey error: %v", err)
	}
	if key.Type != KeyCtrlD {
		t.Errorf("ReadKey() on EOF = %+v, want KeyCtrlD", key)
	}
}

func TestReadKeyTTYControlChars(t *testing.T) {
	tests := []struct {
		name  string
		input byte
		want  KeyType
	}{
		{"Ctrl+C", 0x03, KeyCtrlC},
		{"Ctrl+D", 0x04, KeyCtrlD},
		{"Tab", 0x09, KeyTab},
		{"Enter (LF)", 0x0A, KeyEnter},
		{"Enter (CR)", 0x0D, KeyEnter},
		{"Backspace (BS)", 0x08, KeyBackspace},
		{"Backspace (DEL)", 0x7F, KeyBackspace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdin := &mockReader{data: []byte{tt.input}}
			term := NewWithIO(stdin, &bytes.Buffer{}, &bytes.Buffer{}, -1, true)

			key, err := term.ReadKey()
			if err != nil {
				t.Fatalf("ReadKey error: %v", err)
			}
			if key.Type != tt.want {
				t.Errorf("ReadKey().Type = %d, want %d", key.Type, tt.want)
			}
		})
	}
}

func TestReadKeyTTYRegularChar(t *testing.T) {
	stdin := &mockReader{data: []byte{'q'}}
	term := NewWithIO(stdin, &bytes.Buffer{}, &bytes.Buffer{}, -1, true)

	key, err := term.ReadKey()
	if err != nil {
		t.Fatalf("ReadKey error: %v", err)
	}
	if key.Type != KeyChar || key.Char != 'q' {
		t.Errorf("ReadKey() = %+v, want Char('q')", key)
	}
}

func TestReadKeyTTYHighByte(t *testing.T) {
	// Bytes >= 0x80 pass through as Char, UTF-8-agnostic.
	stdin := &mockReader{data: []byte{0xC3}}
	term := NewWithIO(stdin, &bytes.Buffer{}, &bytes.Buffer{}, -1, true)

	key, err := term.ReadKey()
	if err != nil {
		t.Fatalf("ReadKey error: %v", err)
	}
	if key.Type != KeyChar || key.Char != 0xC3 {
		t.Errorf("ReadKey() = %+v, want Char(0xC3)", key)
	}
}

func TestReadKeyTTYArrows(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  KeyType
	}{
		{"Up", []byte{27, '[', 'A'}, KeyArrowUp},
		{"Down", []byte{27, '[', 'B'}, KeyArrowDown},
		{"Right", []byte{27, '[', 'C'}, KeyArrowRight},
		{"Left", []byte{27, '[', 'D'}, KeyArrowLeft},
		{"Home", []byte{27, '[', 'H'}, KeyHome},
		{"End", []byte{27, '[', 'F'}, KeyEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdin := &mockReader{data: tt.input}
			term := NewWithIO(stdin, &bytes.Buffer{}, &bytes.Buffer{}, -1, true)

			key, err := term.ReadKey()
			if err != nil {
				t.Fatalf("ReadKey error: %v", err)
			}
			if key.Type != tt.want {
				t.Errorf("ReadKey().Type = %d, want %d", key.Type, tt.want)
			}
		})
	}
}

func TestReadKeyTTYDelete(t *testing.T) {
	stdin := &mockReader{data: []byte{27, '[', '3', '~'}}
	term := NewWithIO(stdin, &bytes.Buffer{}, &bytes.Buffer{}, -1, true)

	key, err := term.ReadKey()
	if err != nil {
		t.Fatalf("ReadKey error: %v", err)
	}
	if key.Type != KeyDelete {
		t.Errorf("ReadKey().Type = %d, want KeyDelete", key.Type)
	}
}

func TestReadKeyTTYUnknownEscape(t *testing.T) {
	stdin := &mockReader{data: []byte{27, '[', 'Z'}}
	term := NewWithIO(stdin, &bytes.Buffer{}, &bytes.Buffer{}, -1, true)

	key, err := term.ReadKey()
	if err != nil {
		t.Fatalf("ReadKey error: %v", err)
	}
	if key.Type != KeyUnknown {
		t.Errorf("ReadKey().Type = %d, want KeyUnknown", key.Type)
	}
}

func TestReadKeyTTYBareEscape(t *testing.T) {
	stdin := &mockReader{data: []byte{27}}
	term := NewWithIO(stdin, &bytes.Buffer{}, &bytes.Buffer{}, -1, true)

	key, err := term.ReadKey()
	if err != nil {
		t.Fatalf("ReadKey error: %v", err)
	}
	if key.Type != KeyUnknown {
		t.Errorf("ReadKey().Type = %d, want KeyUnknown", key.Type)
	}
}

func TestClearLine(t *testing.T) {
	var stdout bytes.Buffer
	term := NewWithIO(&mockReader{}, &stdout, &stdout, -1, false)

	if err := term.ClearLine(); err != nil {
		t.Errorf("ClearLine error: %v", err)
	}
	expected := "\r\x1B[K"
	if stdout.String() != expected {
		t.Errorf("ClearLine wrote %q, want %q", stdout.String(), expected)
	}
}

func TestClearToEOL(t *testing.T) {
	var stdout bytes.Buffer
	term := NewWithIO(&mockReader{}, &stdout, &stdout, -1, false)

	if err := term.ClearToEOL(); err != nil {
		t.Errorf("ClearToEOL error: %v", err)
	}
	expected := "\x1B[K"
	if stdout.String() != expected {
		t.Errorf("ClearToEOL wrote %q, want %q", stdout.String(), expected)
	}
}

func TestMoveCursorLeftRight(t *testing.T) {
	tests := []struct {
		name     string
		method   func(*Terminal, int) error
		n        int
		expected string
	}{
		{"left 3", (*Terminal).MoveCursorLeft, 3, "\x1B[3D"},
		{"right 5", (*Terminal).MoveCursorRight, 5, "\x1B[5C"},
		{"left 0 is no-op", (*Terminal).MoveCursorLeft, 0, ""},
		{"right 0 is no-op", (*Terminal).MoveCursorRight, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			term := NewWithIO(&mockReader{}, &stdout, &stdout, -1, false)

			if err := tt.method(term, tt.n); err != nil {
				t.Errorf("error: %v", err)
			}
			if stdout.String() != tt.expected {
				t.Errorf("wrote %q, want %q", stdout.String(), tt.expected)
			}
		})
	}
}

func TestBell(t *testing.T) {
	var stdout bytes.Buffer
	term := NewWithIO(&mockReader{}, &stdout, &stdout, -1, false)

	if err := term.Bell(); err != nil {
		t.Errorf("Bell error: %v", err)
	}
	if stdout.String() != "\a" {
		t.Errorf("Bell wrote %q, want %q", stdout.String(), "\a")
	}
}

func TestItoa(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{1, "1"},
		{42, "42"},
		{123, "123"},
	}

	for _, tt := range tests {
		got := itoa(tt.n)
		if got != tt.want {
			t.Errorf("itoa(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestIsTTYFalseForNonTerminal(t *testing.T) {
	term := NewWithIO(&mockReader{}, &bytes.Buffer{}, &bytes.Buffer{}, -1, false)
	if term.IsTTY() {
		t.Error("IsTTY() = true, want false")
	}
}

func TestEnterRawRestoreCookedNoopWhenNotTTY(t *testing.T) {
	term := NewWithIO(&mockReader{}, &bytes.Buffer{}, &bytes.Buffer{}, -1, false)
	if err := term.EnterRaw(); err != nil {
		t.Errorf("EnterRaw error: %v", err)
	}
	if err := term.RestoreCooked(); err != nil {
		t.Errorf("RestoreCooked error: %v", err)
	}
}
