package ticket

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ptToMM converts font points to millimetres.
const ptToMM = 25.4 / 72

// MeasureFunc returns the printed width of s in millimetres.
type MeasureFunc func(s string, st TextStyle) float64

// EstimateWidth approximates Helvetica advance widths. It errs wide, so text
// wrapped against it stays inside its cell on every surface.
func EstimateWidth(s string, st TextStyle) float64 {
	var em float64
	for _, r := range s {
		switch {
		case r == ' ' || strings.ContainsRune("il.,:;'!|", r):
			em += 0.3
		case unicode.IsUpper(r) || r == 'm' || r == 'w':
			em += 0.8
		default:
			em += 0.6
		}
	}
	if st.Bold {
		em *= 1.08
	}
	return em * st.Size * ptToMM
}

// wrapText breaks s into lines no wider than width, on spaces where possible
// and inside words that are wider than a whole line.
func wrapText(s string, width float64, st TextStyle, measure MeasureFunc) []string {
	s = strings.TrimSpace(s)
	if s == "" || measure(s, st) <= width {
		return []string{s}
	}
	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if measure(candidate, st) <= width {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		for measure(word, st) > width {
			cut := fitPrefix(word, width, st, measure)
			if cut >= len(word) {
				break
			}
			lines = append(lines, word[:cut])
			word = word[cut:]
		}
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// fitPrefix is the byte length of the longest rune prefix of word that fits
// width, at least one rune.
func fitPrefix(word string, width float64, st TextStyle, measure MeasureFunc) int {
	cut := 0
	for i, r := range word {
		end := i + utf8.RuneLen(r)
		if measure(word[:end], st) > width {
			break
		}
		cut = end
	}
	if cut == 0 {
		_, cut = utf8.DecodeRuneInString(word)
	}
	return cut
}
