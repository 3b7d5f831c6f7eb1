package terminal

import (
	"io"
	"sort"
	"strings"

	"github.com/arvalan/poshell/internal/history"
)

// Action is the outcome of handling one key event.
type Action int

const (
	ContinueEditing Action = iota
	Submit
	Eof
)

// Candidates supplies the name sources TAB completion searches: the fixed
// builtin set and PATH-resolved executables.
type Candidates interface {
	BuiltinNames() []string
	Completions(prefix string) []string
}

// LineEditor maintains an editable line buffer, cursor, history
// navigation, and two-stage TAB completion over a Terminal.
type LineEditor struct {
	term *Terminal

	buffer []byte
	cursor int

	history    *history.History
	nav        *history.Navigator
	candidates Candidates

	lastKeyWasTab bool
}

// NewLineEditor creates a LineEditor over term. hist and cand may be nil
// (history navigation and TAB completion then always bell).
func NewLineEditor(term *Terminal, hist *history.History, cand Candidates) *LineEditor {
	e := &LineEditor{term: term, history: hist, candidates: cand}
	if hist != nil {
		e.nav = history.NewNavigator(hist)
	}
	return e
}

// String returns the buffer as a string.
func (e *LineEditor) String() string {
	return string(e.buffer)
}

// Cursor returns the current cursor position.
func (e *LineEditor) Cursor() int {
	return e.cursor
}

// Reset clears the buffer and cursor for a fresh line, and resets history
// navigation state.
func (e *LineEditor) Reset() {
	e.buffer = e.buffer[:0]
	e.cursor = 0
	e.lastKeyWasTab = false
	if e.nav != nil {
		e.nav.Reset()
	}
}

// ReadLine drives the Terminal's key decoder until the line is submitted
// or EOF is reached.
func (e *LineEditor) ReadLine() (string, error) {
	e.Reset()
	for {
		key, err := e.term.ReadKey()
		if err != nil {
			return "", err
		}
		switch e.HandleKey(key) {
		case Submit:
			return e.String(), nil
		case Eof:
			return "", io.EOF
		}
	}
}

// HandleKey processes one key event and returns the resulting Action.
func (e *LineEditor) HandleKey(key Key) Action {
	if key.Type != KeyTab {
		e.lastKeyWasTab = false
	}

	switch key.Type {
	case KeyChar:
		e.insertChar(key.Char)
		return ContinueEditing

	case KeyEnter:
		if e.term.IsTTY() {
			e.term.WriteString("\n")
		}
		return Submit

	case KeyBackspace:
		e.backspace()
		return ContinueEditing

	case KeyDelete:
		e.delete()
		return ContinueEditing

	case KeyArrowLeft:
		e.moveLeft()
		return ContinueEditing

	case KeyArrowRight:
		e.moveRight()
		return ContinueEditing

	case KeyArrowUp:
		e.historyUp()
		return ContinueEditing

	case KeyArrowDown:
		e.historyDown()
		return ContinueEditing

	case KeyHome:
		e.moveHome()
		return ContinueEditing

	case KeyEnd:
		e.moveEnd()
		return ContinueEditing

	case KeyCtrlC:
		e.bell()
		return ContinueEditing

	case KeyCtrlD:
		if len(e.buffer) == 0 {
			return Eof
		}
		e.bell()
		return ContinueEditing

	case KeyTab:
		e.handleTab()
		return ContinueEditing

	default: // KeyUnknown and anything else
		e.bell()
		return ContinueEditing
	}
}

func (e *LineEditor) bell() {
	if e.term.IsTTY() {
		e.term.Bell()
	}
}

// redrawFrom rewrites the terminal line from buffer position p onward,
// assuming the terminal's cursor currently sits at column oldCursor
// (characters from the start of the buffer). Used after any edit that
// changes bytes at or after p.
func (e *LineEditor) redrawFrom(oldCursor, p int) {
	if !e.term.IsTTY() {
		return
	}
	e.term.MoveCursorLeft(oldCursor - p)
	e.term.ClearToEOL()
	e.term.Write(e.buffer[p:])
	e.term.MoveCursorLeft(len(e.buffer) - e.cursor)
}

func (e *LineEditor) insertChar(b byte) {
	old := e.cursor
	e.buffer = append(e.buffer, 0)
	copy(e.buffer[e.cursor+1:], e.buffer[e.cursor:])
	e.buffer[e.cursor] = b
	e.cursor++
	e.redrawFrom(old, old)
}

func (e *LineEditor) backspace() {
	if e.cursor == 0 {
		e.bell()
		return
	}
	old := e.cursor
	copy(e.buffer[e.cursor-1:], e.buffer[e.cursor:])
	e.buffer = e.buffer[:len(e.buffer)-1]
	e.cursor--
	e.redrawFrom(old, e.cursor)
}

func (e *LineEditor) delete() {
	if e.cursor >= len(e.buffer) {
		e.bell()
		return
	}
	old := e.cursor
	copy(e.buffer[e.cursor:], e.buffer[e.cursor+1:])
	e.buffer = e.buffer[:len(e.buffer)-1]
	e.redrawFrom(old, e.cursor)
}

func (e *LineEditor) moveLeft() {
	if e.cursor == 0 {
		e.bell()
		return
	}
	e.cursor--
	if e.term.IsTTY() {
		e.term.MoveCursorLeft(1)
	}
}

func (e *LineEditor) moveRight() {
	if e.cursor >= len(e.buffer) {
		e.bell()
		return
	}
	e.cursor++
	if e.term.IsTTY() {
		e.term.MoveCursorRight(1)
	}
}

func (e *LineEditor) moveHome() {
	if e.cursor == 0 {
		return
	}
	if e.term.IsTTY() {
		e.term.MoveCursorLeft(e.cursor)
	}
	e.cursor = 0
}

func (e *LineEditor) moveEnd() {
	if e.cursor == len(e.buffer) {
		return
	}
	if e.term.IsTTY() {
		e.term.MoveCursorRight(len(e.buffer) - e.cursor)
	}
	e.cursor = len(e.buffer)
}

func (e *LineEditor) historyUp() {
	if e.nav == nil {
		e.bell()
		return
	}
	old := e.cursor
	line, ok := e.nav.Up(string(e.buffer))
	if !ok {
		e.bell()
		return
	}
	e.applyHistoryLine(old, line)
}

func (e *LineEditor) historyDown() {
	if e.nav == nil {
		e.bell()
		return
	}
	old := e.cursor
	line, ok := e.nav.Down()
	if !ok {
		e.bell()
		return
	}
	e.applyHistoryLine(old, line)
}

// applyHistoryLine implements the §4.4.2 replacement procedure: move
// cursor left by the old cursor position, clear to EOL, overwrite the
// buffer, set cursor to the new length, write the new buffer.
func (e *LineEditor) applyHistoryLine(oldCursor int, line string) {
	e.buffer = []byte(line)
	e.cursor = len(e.buffer)
	if e.term.IsTTY() {
		e.term.MoveCursorLeft(oldCursor)
		e.term.ClearToEOL()
		e.term.Write(e.buffer)
	}
}

// completionPrefix reports the prefix TAB completes against, and whether
// completion may fire at all: only when the cursor sits inside the first
// word (no space anywhere in buffer[0:cursor]), and the prefix is
// non-empty.
func (e *LineEditor) completionPrefix() (start int, prefix string, ok bool) {
	for i := 0; i < e.cursor; i++ {
		if e.buffer[i] == ' ' || e.buffer[i] == '\t' {
			return 0, "", false
		}
	}
	if e.cursor == 0 {
		return 0, "", false
	}
	return 0, string(e.buffer[0:e.cursor]), true
}

func (e *LineEditor) gatherCandidates(prefix string) []string {
	if e.candidates == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, n := range e.candidates.BuiltinNames() {
		if strings.HasPrefix(n, prefix) && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range e.candidates.Completions(prefix) {
		if strings.HasPrefix(n, prefix) && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func longestCommonPrefix(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	lcp := ss[0]
	for _, s := range ss[1:] {
		i := 0
		for i < len(lcp) && i < len(s) && lcp[i] == s[i] {
			i++
		}
		lcp = lcp[:i]
		if lcp == "" {
			break
		}
	}
	return lcp
}

// handleTab implements §4.4.1's two-stage completion.
func (e *LineEditor) handleTab() {
	wasTab := e.lastKeyWasTab
	e.lastKeyWasTab = false

	start, prefix, ok := e.completionPrefix()
	if !ok {
		e.bell()
		return
	}

	cands := e.gatherCandidates(prefix)
	switch len(cands) {
	case 0:
		e.bell()

	case 1:
		e.replaceRange(start, e.cursor, cands[0]+" ")

	default:
		lcp := longestCommonPrefix(cands)
		if len(lcp) > len(prefix) {
			e.insertAt(e.cursor, lcp[len(prefix):])
		}
		if wasTab {
			e.showCandidateList(cands)
		} else {
			e.bell()
			e.lastKeyWasTab = true
		}
	}
}

// insertAt inserts text at position pos in the buffer and redraws.
func (e *LineEditor) insertAt(pos int, text string) {
	old := e.cursor
	e.buffer = append(e.buffer[:pos], append([]byte(text), e.buffer[pos:]...)...)
	e.cursor = pos + len(text)
	e.redrawFrom(old, pos)
}

// replaceRange replaces buffer[start:end] with text and redraws.
func (e *LineEditor) replaceRange(start, end int, text string) {
	old := e.cursor
	tail := append([]byte{}, e.buffer[end:]...)
	e.buffer = append(e.buffer[:start], append([]byte(text), tail...)...)
	e.cursor = start + len(text)
	e.redrawFrom(old, start)
}

// showCandidateList prints a newline, the candidates sorted lexically and
// separated by two spaces, a newline, then redraws "$ " + buffer.
func (e *LineEditor) showCandidateList(cands []string) {
	if !e.term.IsTTY() {
		return
	}
	sorted := append([]string{}, cands...)
	sort.Strings(sorted)

	e.term.WriteString("\n")
	e.term.WriteString(strings.Join(sorted, "  "))
	e.term.WriteString("\n")
	e.term.WriteString("$ ")
	e.term.Write(e.buffer)
	e.term.MoveCursorLeft(len(e.buffer) - e.cursor)
}
