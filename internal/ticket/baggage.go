package ticket

import (
	"strconv"
	"strings"
)

// NoBaggagePlaceholder is rendered when no category has a positive quantity.
const NoBaggagePlaceholder = "No additional baggage selected"

// BaggageCategory is one of the three allowances, in display order.
type BaggageCategory int

const (
	Personal BaggageCategory = iota
	Hand
	Checked
)

// Label is the category name printed after quantity and weight.
func (c BaggageCategory) Label() string {
	switch c {
	case Personal:
		return "Personal Baggage"
	case Hand:
		return "Hand Baggage"
	case Checked:
		return "Checked Baggage"
	default:
		return ""
	}
}

// BaggageSet carries one string per category: quantities or weights.
type BaggageSet struct {
	Personal string
	Hand     string
	Checked  string
}

func (s BaggageSet) get(c BaggageCategory) string {
	switch c {
	case Personal:
		return s.Personal
	case Hand:
		return s.Hand
	case Checked:
		return s.Checked
	}
	return ""
}

// Summarize builds the ordered baggage lines. A category is kept only when its
// quantity parses as an integer greater than zero. Weight is opaque text.
func Summarize(qty, weight BaggageSet) []string {
	out := []string{}
	for _, c := range []BaggageCategory{Personal, Hand, Checked} {
		n, err := strconv.Atoi(strings.TrimSpace(qty.get(c)))
		if err != nil || n <= 0 {
			continue
		}
		parts := []string{strconv.Itoa(n), "x"}
		if w := strings.TrimSpace(weight.get(c)); w != "" {
			parts = append(parts, w)
		}
		parts = append(parts, c.Label())
		out = append(out, strings.Join(parts, " "))
	}
	return out
}

// SummaryLines is Summarize with the placeholder substituted for an empty result.
func SummaryLines(qty, weight BaggageSet) []string {
	lines := Summarize(qty, weight)
	if len(lines) == 0 {
		return []string{NoBaggagePlaceholder}
	}
	return lines
}
