package collect

// Normalize prepares document text for the recognizers. Paginated sources
// break citations across lines ("100 Wn.2d\n1"), and both recognizers are
// sensitive to a newline splitting a citation. A newline with non-blank text
// on both sides becomes a space; carriage returns become spaces.
//
// The output has exactly the same length as the input, so candidate offsets
// found in the normalized text are valid offsets into the original. No
// visible character is altered.
func Normalize(text string) string {
	if text == "" {
		return text
	}
	b := []byte(text)
	for i := range b {
		switch b[i] {
		case '\r':
			b[i] = ' '
		case '\n':
			if midToken(b, i) {
				b[i] = ' '
			}
		}
	}
	return string(b)
}

// midToken reports whether the newline at i has non-whitespace characters
// immediately before and after it. Blank lines and paragraph boundaries are
// preserved.
func midToken(b []byte, i int) bool {
	if i == 0 || i == len(b)-1 {
		return false
	}
	prev, next := b[i-1], b[i+1]
	return !isSpace(prev) && !isSpace(next)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
