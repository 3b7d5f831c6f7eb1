package history

// Navigator implements the history_index/saved_line browsing state machine
// from the line editor's history navigation contract. index == -1 means
// "editing a fresh line"; index == k means "viewing the (k+1)-th most
// recent entry", i.e. history[len-1-k].
type Navigator struct {
	h         *History
	index     int
	savedLine string
}

// NewNavigator creates a Navigator bound to h.
func NewNavigator(h *History) *Navigator {
	return &Navigator{h: h, index: -1}
}

// Reset returns to "editing a fresh line".
func (n *Navigator) Reset() {
	n.index = -1
	n.savedLine = ""
}

// Up moves one entry further into the past. currentBuffer is the buffer
// being edited, snapshotted into savedLine the first time Up is called.
// Returns the replacement line and true, or ("", false) if there is
// nothing older (bell).
func (n *Navigator) Up(currentBuffer string) (string, bool) {
	total := n.h.Len()
	if total == 0 {
		return "", false
	}

	if n.index == -1 {
		n.savedLine = currentBuffer
		n.index = 0
		line, _ := n.h.At(total - 1 - n.index)
		return line, true
	}

	if n.index+1 < total {
		n.index++
		line, _ := n.h.At(total - 1 - n.index)
		return line, true
	}

	return "", false
}

// Down moves one entry toward the present, eventually restoring the saved
// line. Returns the replacement line and true, or ("", false) if already
// at the fresh-line position (bell).
func (n *Navigator) Down() (string, bool) {
	if n.index == -1 {
		return "", false
	}

	total := n.h.Len()
	if n.index > 0 {
		n.index--
		line, _ := n.h.At(total - 1 - n.index)
		return line, true
	}

	n.index = -1
	return n.savedLine, true
}
