package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_OmitsZeroAndAbsent(t *testing.T) {
	got := Summarize(
		BaggageSet{Personal: "0", Hand: "2"},
		BaggageSet{Personal: "1 bag", Hand: "7kg", Checked: "23kg"},
	)
	assert.Equal(t, []string{"2 x 7kg Hand Baggage"}, got)
}

func TestSummarize_FixedOrder(t *testing.T) {
	got := Summarize(
		BaggageSet{Checked: "1", Hand: "1", Personal: "1"},
		BaggageSet{Checked: "23kg", Hand: "7kg", Personal: "40x30x15cm"},
	)
	assert.Equal(t, []string{
		"1 x 40x30x15cm Personal Baggage",
		"1 x 7kg Hand Baggage",
		"1 x 23kg Checked Baggage",
	}, got)
}

func TestSummarize_NonIntegerOrNegativeDropped(t *testing.T) {
	got := Summarize(BaggageSet{Personal: "abc", Hand: "-1", Checked: "1.5"}, BaggageSet{})
	assert.Empty(t, got)
}

func TestSummarize_BlankWeight(t *testing.T) {
	got := Summarize(BaggageSet{Checked: " 2 "}, BaggageSet{})
	assert.Equal(t, []string{"2 x Checked Baggage"}, got)
}

func TestSummaryLines_Placeholder(t *testing.T) {
	assert.Equal(t, []string{NoBaggagePlaceholder}, SummaryLines(BaggageSet{}, BaggageSet{}))
	assert.Equal(t, []string{NoBaggagePlaceholder}, SummaryLines(BaggageSet{Personal: "0", Hand: "0", Checked: "0"}, BaggageSet{}))
}

func TestSummarize_ThroughResolver(t *testing.T) {
	// personal explicitly zero, hand via a legacy alias, checked absent
	in := Input{
		Segments: []Record{{"from": "A", "to": "B"}},
		Passengers: []Record{{
			"fullName":            "Jane Doe",
			"personalBagQuantity": 0,
			"cabin7kg":            "2",
			"cabin7kgWeight":      "7kg",
		}},
	}
	b := Normalize(in, DefaultAliases())
	assert.Equal(t, []string{"2 x 7kg Hand Baggage"}, b.Passengers[0].Baggage())
}
