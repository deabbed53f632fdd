package keypad

// Dummy is a keypad that is never pressed. A key wait returns key 0 at once.
type Dummy struct{}

// Key reports no key pressed.
func (Dummy) Key() (uint8, bool) {
	return 0, false
}

// WaitKey returns key 0.
func (Dummy) WaitKey() (uint8, error) {
	return 0, nil
}

// FromRune maps the hexadecimal digits 0-9, a-f and A-F to their key.
func FromRune(r rune) (uint8, bool) {
	switch {
	case r >= '0' && r <= '9':
		return uint8(r - '0'), true
	case r >= 'a' && r <= 'f':
		return uint8(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return uint8(r-'A') + 10, true
	}
	return 0, false
}
