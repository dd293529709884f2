package language

import "regexp"

// Script detection is heuristic: it looks at Unicode script ranges, not
// at vocabulary. Ties resolve toward the Chinese family, matching the
// bot's default audience.

var asciiTextPattern = regexp.MustCompile(`^[a-zA-Z\s\d.,!?'"()-]+$`)

func hasHan(text string) bool {
	for _, r := range text {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}

func hasKana(text string) bool {
	for _, r := range text {
		if (r >= 0x3040 && r <= 0x309F) || (r >= 0x30A0 && r <= 0x30FF) {
			return true
		}
	}
	return false
}

func hasHangul(text string) bool {
	for _, r := range text {
		if r >= 0xAC00 && r <= 0xD7AF {
			return true
		}
	}
	return false
}

func hasThai(text string) bool {
	for _, r := range text {
		if r >= 0x0E00 && r <= 0x0E7F {
			return true
		}
	}
	return false
}

// Matches reports whether text looks like it is written in the expected
// language. The caller uses this to pick a translation direction:
// text matching the session's source language translates source→target,
// anything else translates target→source.
//
// Rules, by expected language:
//   - Chinese family: Han ideographs present and no kana (kana would
//     indicate Japanese, which also uses Han).
//   - Japanese: kana or Han present.
//   - Korean: Hangul present.
//   - Thai: Thai block present.
//   - English: only ASCII letters, digits and basic punctuation.
//   - Anything else: falls back to "contains Han", i.e. Chinese input
//     is assumed when nothing more specific matches.
func Matches(text string, expected Code) bool {
	han := hasHan(text)
	kana := hasKana(text)

	switch {
	case expected == ZhTW || expected == ZhCN:
		if han && !kana {
			return true
		}
	case expected == JA:
		if kana || han {
			return true
		}
	case expected == KO:
		if hasHangul(text) {
			return true
		}
	case expected == TH:
		if hasThai(text) {
			return true
		}
	case expected == EN:
		if asciiTextPattern.MatchString(text) {
			return true
		}
	}

	return han
}
