package input

// keyCodes maps the characters the engine may type to Linux evdev key codes
// (see linux/input-event-codes.h).
var keyCodes = map[rune]KeyCode{
	'a': 30, 'b': 48, 'c': 46, 'd': 32, 'e': 18, 'f': 33, 'g': 34, 'h': 35,
	'i': 23, 'j': 36, 'k': 37, 'l': 38, 'm': 50, 'n': 49, 'o': 24, 'p': 25,
	'q': 16, 'r': 19, 's': 31, 't': 20, 'u': 22, 'v': 47, 'w': 17, 'x': 45,
	'y': 21, 'z': 44,
	'1': 2, '2': 3, '3': 4, '4': 5, '5': 6, '6': 7, '7': 8, '8': 9, '9': 10, '0': 11,
}

var keyChars = func() map[KeyCode]rune {
	m := make(map[KeyCode]rune, len(keyCodes))
	for r, c := range keyCodes {
		m[c] = r
	}
	return m
}()

// KeyForChar returns the key code for a character in [a-z0-9].
func KeyForChar(r rune) (KeyCode, bool) {
	c, ok := keyCodes[r]
	return c, ok
}

// CharForKey is the inverse of KeyForChar.
func CharForKey(code KeyCode) (rune, bool) {
	r, ok := keyChars[code]
	return r, ok
}

// KeyCodes returns every key code the engine can type.
func KeyCodes() []KeyCode {
	codes := make([]KeyCode, 0, len(keyCodes))
	for _, c := range keyCodes {
		codes = append(codes, c)
	}
	return codes
}
