package chat

// KeyAction is what the input field should do with a key press
type KeyAction int

const (
	// KeyIgnore leaves the key to the input field
	KeyIgnore KeyAction = iota
	// KeySubmit submits the pending input and suppresses the newline
	KeySubmit
	// KeyNewline inserts a line break without submitting
	KeyNewline
)

// ResolveSubmitKey decides what a key press does to the pending input.
// Keys are named the way bubbletea's tea.KeyMsg.String reports them.
// Plain enter submits; enter with the secondary modifier inserts a newline.
// Terminals cannot report shift+enter, so alt+enter and ctrl+j stand in for it.
func ResolveSubmitKey(key string) KeyAction {
	switch key {
	case "enter":
		return KeySubmit
	case "alt+enter", "shift+enter", "ctrl+j":
		return KeyNewline
	default:
		return KeyIgnore
	}
}
