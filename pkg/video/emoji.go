package video

import (
	"strings"
	"unicode"
)

// emojiTable is the single set of pictographic ranges used for both
// detection and stripping.
var emojiTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200d, Hi: 0x200d, Stride: 1}, // zero width joiner
		{Lo: 0x24c2, Hi: 0x24c2, Stride: 1}, // circled M
		{Lo: 0x2600, Hi: 0x26ff, Stride: 1}, // misc symbols
		{Lo: 0x2702, Hi: 0x27b0, Stride: 1}, // dingbats
		{Lo: 0xfe00, Hi: 0xfe0f, Stride: 1}, // variation selectors
	},
	R32: []unicode.Range32{
		{Lo: 0x1f100, Hi: 0x1f1ff, Stride: 1}, // enclosed alphanumeric supplement, flags
		{Lo: 0x1f200, Hi: 0x1f251, Stride: 1}, // enclosed ideographic supplement
		{Lo: 0x1f300, Hi: 0x1f5ff, Stride: 1}, // symbols & pictographs
		{Lo: 0x1f600, Hi: 0x1f64f, Stride: 1}, // emoticons
		{Lo: 0x1f680, Hi: 0x1f6ff, Stride: 1}, // transport & map
		{Lo: 0x1f700, Hi: 0x1f77f, Stride: 1}, // alchemical
		{Lo: 0x1f780, Hi: 0x1f7ff, Stride: 1}, // geometric shapes extended
		{Lo: 0x1f800, Hi: 0x1f8ff, Stride: 1}, // supplemental arrows-C
		{Lo: 0x1f900, Hi: 0x1f9ff, Stride: 1}, // supplemental symbols & pictographs
		{Lo: 0x1fa00, Hi: 0x1fa6f, Stride: 1}, // chess
		{Lo: 0x1fa70, Hi: 0x1faff, Stride: 1}, // symbols & pictographs extended-A
	},
}

func isEmoji(r rune) bool {
	return unicode.Is(emojiTable, r)
}

// ContainsEmoji reports whether s has at least one emoji code point.
func ContainsEmoji(s string) bool {
	return strings.IndexFunc(s, isEmoji) >= 0
}

// StripEmoji removes every emoji code point from s.
func StripEmoji(s string) string {
	return strings.Map(func(r rune) rune {
		if isEmoji(r) {
			return -1
		}
		return r
	}, s)
}

// CleanTitle strips emoji and collapses whitespace runs into single spaces.
func CleanTitle(title string) string {
	return strings.Join(strings.Fields(StripEmoji(title)), " ")
}
