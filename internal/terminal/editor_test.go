package terminal

import (
	"bytes"
	"testing"

	"github.com/arvalan/poshell/internal/history"
)

func newEditorWithKeys(t *testing.T, keys []Key, hist *history.History, cand Candidates) (*LineEditor, *Terminal) {
	t.Helper()
	term := &Terminal{isTTY: false}
	e := NewLineEditor(term, hist, cand)
	for _, k := range keys {
		e.HandleKey(k)
	}
	return e, term
}

func charKeys(s string) []Key {
	keys := make([]Key, 0, len(s))
	for i := 0; i < len(s); i++ {
		keys = append(keys, Key{Type: KeyChar, Char: s[i]})
	}
	return keys
}

func TestLineEditor_BufferEqualsTypedInput(t *testing.T) {
	e, _ := newEditorWithKeys(t, charKeys("echo hi"), nil, nil)
	if e.String() != "echo hi" {
		t.Fatalf("buffer = %q, want %q", e.String(), "echo hi")
	}
	if e.Cursor() != len("echo hi") {
		t.Fatalf("cursor = %d, want %d", e.Cursor(), len("echo hi"))
	}
}

func TestLineEditor_Backspace(t *testing.T) {
	keys := append(charKeys("abc"), Key{Type: KeyBackspace})
	e, _ := newEditorWithKeys(t, keys, nil, nil)
	if e.String() != "ab" {
		t.Fatalf("buffer = %q, want %q", e.String(), "ab")
	}
}

func TestLineEditor_BackspaceAtStartIsNoop(t *testing.T) {
	e, _ := newEditorWithKeys(t, []Key{{Type: KeyBackspace}}, nil, nil)
	if e.String() != "" {
		t.Fatalf("buffer = %q, want empty", e.String())
	}
	if e.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", e.Cursor())
	}
}

func TestLineEditor_CursorBoundsOnArrowKeys(t *testing.T) {
	keys := append(charKeys("ab"), Key{Type: KeyArrowRight}, Key{Type: KeyArrowRight}, Key{Type: KeyArrowRight})
	e, _ := newEditorWithKeys(t, keys, nil, nil)
	if e.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2 (clamped to buffer length)", e.Cursor())
	}

	keys2 := append(charKeys("ab"), Key{Type: KeyArrowLeft}, Key{Type: KeyArrowLeft}, Key{Type: KeyArrowLeft})
	e2, _ := newEditorWithKeys(t, keys2, nil, nil)
	if e2.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0 (clamped to buffer start)", e2.Cursor())
	}
}

func TestLineEditor_HomeEnd(t *testing.T) {
	keys := append(charKeys("abc"), Key{Type: KeyHome})
	e, _ := newEditorWithKeys(t, keys, nil, nil)
	if e.Cursor() != 0 {
		t.Fatalf("cursor after Home = %d, want 0", e.Cursor())
	}
	e.HandleKey(Key{Type: KeyEnd})
	if e.Cursor() != 3 {
		t.Fatalf("cursor after End = %d, want 3", e.Cursor())
	}
}

func TestLineEditor_EnterSubmits(t *testing.T) {
	e, _ := newEditorWithKeys(t, charKeys("ls"), nil, nil)
	action := e.HandleKey(Key{Type: KeyEnter})
	if action != Submit {
		t.Fatalf("action = %v, want Submit", action)
	}
}

func TestLineEditor_CtrlDOnEmptyLineIsEof(t *testing.T) {
	e, _ := newEditorWithKeys(t, nil, nil, nil)
	action := e.HandleKey(Key{Type: KeyCtrlD})
	if action != Eof {
		t.Fatalf("action = %v, want Eof", action)
	}
}

func TestLineEditor_CtrlDOnNonEmptyLineIsNotEof(t *testing.T) {
	e, _ := newEditorWithKeys(t, charKeys("x"), nil, nil)
	action := e.HandleKey(Key{Type: KeyCtrlD})
	if action != ContinueEditing {
		t.Fatalf("action = %v, want ContinueEditing", action)
	}
	if e.String() != "x" {
		t.Fatalf("buffer = %q, want unchanged %q", e.String(), "x")
	}
}

func TestLineEditor_HistoryUpDown(t *testing.T) {
	h := history.New(100)
	h.Add("first")
	h.Add("second")

	keys := append(charKeys("draft"), Key{Type: KeyArrowUp}, Key{Type: KeyArrowUp})
	e, _ := newEditorWithKeys(t, keys, h, nil)
	if e.String() != "first" {
		t.Fatalf("buffer after two Up = %q, want %q", e.String(), "first")
	}

	e.HandleKey(Key{Type: KeyArrowDown})
	if e.String() != "second" {
		t.Fatalf("buffer after one Down = %q, want %q", e.String(), "second")
	}

	e.HandleKey(Key{Type: KeyArrowDown})
	if e.String() != "draft" {
		t.Fatalf("buffer after returning to fresh line = %q, want %q", e.String(), "draft")
	}
}

func TestLineEditor_HistoryUpWithEmptyHistoryBells(t *testing.T) {
	h := history.New(100)
	e, _ := newEditorWithKeys(t, charKeys("x"), h, nil)
	action := e.HandleKey(Key{Type: KeyArrowUp})
	if action != ContinueEditing {
		t.Fatalf("action = %v, want ContinueEditing", action)
	}
	if e.String() != "x" {
		t.Fatalf("buffer = %q, want unchanged %q", e.String(), "x")
	}
}

type fakeCandidates struct {
	builtins  []string
	pathNames []string
}

func (f fakeCandidates) BuiltinNames() []string { return f.builtins }
func (f fakeCandidates) Completions(prefix string) []string {
	var out []string
	for _, n := range f.pathNames {
		if len(n) >= len(prefix) && n[:len(prefix)] == prefix {
			out = append(out, n)
		}
	}
	return out
}

func TestLineEditor_TabSingleCandidateCompletesWithTrailingSpace(t *testing.T) {
	cand := fakeCandidates{builtins: []string{"echo", "exit"}, pathNames: []string{"ethtool"}}
	e, _ := newEditorWithKeys(t, charKeys("ech"), nil, cand)
	e.HandleKey(Key{Type: KeyTab})
	if e.String() != "echo " {
		t.Fatalf("buffer = %q, want %q", e.String(), "echo ")
	}
}

func TestLineEditor_TabNoMatchBells(t *testing.T) {
	cand := fakeCandidates{builtins: []string{"echo"}}
	e, _ := newEditorWithKeys(t, charKeys("zzz"), nil, cand)
	action := e.HandleKey(Key{Type: KeyTab})
	if action != ContinueEditing {
		t.Fatalf("action = %v, want ContinueEditing", action)
	}
	if e.String() != "zzz" {
		t.Fatalf("buffer = %q, want unchanged %q", e.String(), "zzz")
	}
}

func TestLineEditor_TabTwoStageListsOnSecondPress(t *testing.T) {
	cand := fakeCandidates{builtins: []string{"echo", "exit"}}
	e, term := newEditorWithKeys(t, charKeys("e"), nil, cand)

	e.HandleKey(Key{Type: KeyTab})
	if e.String() != "e" {
		t.Fatalf("buffer after first Tab = %q, want unchanged %q (no common prefix beyond typed text)", e.String(), "e")
	}
	if !e.lastKeyWasTab {
		t.Fatalf("expected lastKeyWasTab to be set after first ambiguous Tab")
	}

	// Capture what the second Tab draws, as an interactive terminal would.
	var out bytes.Buffer
	term.isTTY = true
	term.stdout = &out

	e.HandleKey(Key{Type: KeyTab})
	if e.String() != "e" {
		t.Fatalf("buffer after second Tab = %q, want unchanged %q", e.String(), "e")
	}
	if want := "\necho  exit\n$ e"; out.String() != want {
		t.Fatalf("second Tab wrote %q, want %q", out.String(), want)
	}
}

func TestLineEditor_TabOnlyCompletesFirstWord(t *testing.T) {
	cand := fakeCandidates{builtins: []string{"echo"}, pathNames: []string{"echo-extra"}}
	e, _ := newEditorWithKeys(t, charKeys("echo fi"), nil, cand)
	action := e.HandleKey(Key{Type: KeyTab})
	if action != ContinueEditing {
		t.Fatalf("action = %v, want ContinueEditing", action)
	}
	if e.String() != "echo fi" {
		t.Fatalf("buffer = %q, want unchanged %q (completion only applies to first word)", e.String(), "echo fi")
	}
}

func TestLineEditor_Reset(t *testing.T) {
	e, _ := newEditorWithKeys(t, charKeys("abc"), nil, nil)
	e.Reset()
	if e.String() != "" || e.Cursor() != 0 {
		t.Fatalf("after Reset: buffer=%q cursor=%d, want empty/0", e.String(), e.Cursor())
	}
}
