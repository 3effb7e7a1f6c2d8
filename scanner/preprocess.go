package scanner

import "unicode/utf16"

// Preprocess decodes a UTF-8 string into the code point sequence the
// tokenizer operates on. (§3.3)
func Preprocess(s string) []rune {
	return preprocess([]rune(s))
}

// PreprocessUTF16 decodes UTF-16 code units, combining valid surrogate
// pairs into their astral code point. A lone surrogate becomes U+FFFD.
func PreprocessUTF16(units []uint16) []rune {
	a := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		ch := rune(units[i])
		if utf16.IsSurrogate(ch) {
			if i+1 < len(units) {
				if r := utf16.DecodeRune(ch, rune(units[i+1])); r != '\uFFFD' {
					a = append(a, r)
					i++
					continue
				}
			}
			a = append(a, '\uFFFD')
			continue
		}
		a = append(a, ch)
	}
	return preprocess(a)
}

// preprocess folds CRLF, CR, and FF into LF and replaces NULL with the
// Unicode replacement character.
func preprocess(a []rune) []rune {
	out := make([]rune, 0, len(a))
	for i := 0; i < len(a); i++ {
		switch a[i] {
		case '\r':
			if i+1 < len(a) && a[i+1] == '\n' {
				i++
			}
			out = append(out, '\n')
		case '\f':
			out = append(out, '\n')
		case '\000':
			out = append(out, '\uFFFD')
		default:
			out = append(out, a[i])
		}
	}
	return out
}
