package utils

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

// SuggestUsername derives a login name from a display name. Han characters
// are romanized, other letters and digits are lowercased, everything else is
// dropped.
func SuggestUsername(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.Is(unicode.Han, r):
			for _, p := range pinyin.LazyConvert(string(r), nil) {
				b.WriteString(p)
			}
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
