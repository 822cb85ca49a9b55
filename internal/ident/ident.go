// Package ident scans shader source for identifier tokens.
//
// The scan is purely lexical: a token is a maximal run of ASCII word
// characters ([A-Za-z0-9_]). Comments, string contexts and member access are
// not treated specially, so "vTexCoord.xy" yields both "vTexCoord" and "xy".
// This is enough to decide whether a declared variable is referenced by a
// snippet without parsing GLSL.
package ident

// Set is a set of identifier tokens.
type Set map[string]struct{}

// Has reports whether tok is in the set.
func (s Set) Has(tok string) bool {
	_, ok := s[tok]
	return ok
}

// Add inserts every token found in text into the set.
func (s Set) Add(text string) {
	start := -1
	for i := 0; i < len(text); i++ {
		if isWord(text[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			s[text[start:i]] = struct{}{}
			start = -1
		}
	}
	if start >= 0 {
		s[text[start:]] = struct{}{}
	}
}

// Tokens returns the set of identifier tokens in text.
func Tokens(text string) Set {
	s := make(Set)
	s.Add(text)
	return s
}

func isWord(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
