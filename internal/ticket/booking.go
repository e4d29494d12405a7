package ticket

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NoPNR is printed when the booking reference is blank.
const NoPNR = "NO-PNR"

// FareClass is the service tier of a segment.
type FareClass string

const (
	Economy  FareClass = "economy"
	Business FareClass = "business"
	First    FareClass = "first"
)

// Display renders the fare class title-cased, Economy when unset.
func (f FareClass) Display() string {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return "Economy"
	}
	// a Caser is stateful, so one per call
	return cases.Title(language.English).String(strings.ToLower(s))
}

// Title is a passenger honorific.
type Title string

const (
	Mr   Title = "Mr"
	Mrs  Title = "Mrs"
	Ms   Title = "Ms"
	Miss Title = "Miss"
	Dr   Title = "Dr"
)

var knownTitles = map[string]Title{
	"mr": Mr, "mrs": Mrs, "ms": Ms, "miss": Miss, "dr": Dr,
}

// ParseTitle normalises "mr", "MR." and similar to the canonical spelling.
// Unknown values are kept as written, without a trailing dot.
func ParseTitle(s string) Title {
	s = strings.TrimRight(strings.TrimSpace(s), ".")
	if t, ok := knownTitles[strings.ToLower(s)]; ok {
		return t
	}
	return Title(s)
}

// FlightSegment is one leg of travel after field resolution.
type FlightSegment struct {
	Departure     string
	Arrival       string
	DepartureDate string
	ArrivalDate   string
	DepartureTime string
	ArrivalTime   string
	FlightNumber  string
	Airline       string
	FareClass     FareClass
}

// Route renders "{departure} → {arrival}".
func (s FlightSegment) Route() string {
	return s.Departure + " → " + s.Arrival
}

// Passenger is one traveller after field resolution.
type Passenger struct {
	Title         Title
	GivenName     string
	FamilyName    string
	ETicketNumber string
	BaggageQty    BaggageSet
	BaggageWeight BaggageSet
}

// Baggage returns the display lines for the passenger's allowances.
func (p Passenger) Baggage() []string {
	return SummaryLines(p.BaggageQty, p.BaggageWeight)
}

// Booking is the transient aggregate handed to the formatter.
type Booking struct {
	PNR        string
	LogoURL    string
	Segments   []FlightSegment
	Passengers []Passenger
}

// Input is raw form state: records in whatever shape the client sent.
type Input struct {
	PNR        string   `json:"pnr"`
	LogoURL    string   `json:"logoUrl,omitempty"`
	Segments   []Record `json:"flightSegments"`
	Passengers []Record `json:"passengers"`
}

// NormalizePNR upper-cases the reference and substitutes NoPNR for blanks.
func NormalizePNR(pnr string) string {
	pnr = strings.ToUpper(strings.TrimSpace(pnr))
	if pnr == "" {
		return NoPNR
	}
	return pnr
}

// Normalize resolves every record of in through the alias tables. Missing
// values become blanks; nothing here fails.
func Normalize(in Input, a Aliases) Booking {
	b := Booking{
		PNR:        NormalizePNR(in.PNR),
		LogoURL:    strings.TrimSpace(in.LogoURL),
		Segments:   make([]FlightSegment, 0, len(in.Segments)),
		Passengers: make([]Passenger, 0, len(in.Passengers)),
	}
	for _, rec := range in.Segments {
		b.Segments = append(b.Segments, normalizeSegment(rec, a))
	}
	for _, rec := range in.Passengers {
		b.Passengers = append(b.Passengers, normalizePassenger(rec, a))
	}
	return b
}

func normalizeSegment(rec Record, a Aliases) FlightSegment {
	s := FlightSegment{
		Departure:     a.ResolveSegment(rec, FieldDeparture),
		Arrival:       a.ResolveSegment(rec, FieldArrival),
		DepartureDate: a.ResolveSegment(rec, FieldDepartureDate),
		ArrivalDate:   a.ResolveSegment(rec, FieldArrivalDate),
		DepartureTime: a.ResolveSegment(rec, FieldDepartureTime),
		ArrivalTime:   a.ResolveSegment(rec, FieldArrivalTime),
		FlightNumber:  a.ResolveSegment(rec, FieldFlightNumber),
		Airline:       a.ResolveSegment(rec, FieldAirline),
		FareClass:     FareClass(strings.ToLower(a.ResolveSegment(rec, FieldFareClass))),
	}
	if s.ArrivalDate == "" {
		s.ArrivalDate = s.DepartureDate
	}
	if s.FareClass == "" {
		s.FareClass = Economy
	}
	return s
}

func normalizePassenger(rec Record, a Aliases) Passenger {
	p := Passenger{
		Title:         ParseTitle(a.ResolvePassenger(rec, FieldTitle)),
		GivenName:     a.ResolvePassenger(rec, FieldGivenName),
		FamilyName:    a.ResolvePassenger(rec, FieldFamilyName),
		ETicketNumber: a.ResolvePassenger(rec, FieldETicket),
		BaggageQty: BaggageSet{
			Personal: a.ResolvePassenger(rec, FieldPersonalQty),
			Hand:     a.ResolvePassenger(rec, FieldHandQty),
			Checked:  a.ResolvePassenger(rec, FieldCheckedQty),
		},
		BaggageWeight: BaggageSet{
			Personal: a.ResolvePassenger(rec, FieldPersonalWeight),
			Hand:     a.ResolvePassenger(rec, FieldHandWeight),
			Checked:  a.ResolvePassenger(rec, FieldCheckedWeight),
		},
	}
	if p.GivenName == "" || p.FamilyName == "" {
		family, given := SplitFullName(a.ResolvePassenger(rec, FieldFullName))
		if p.FamilyName == "" {
			p.FamilyName = family
		}
		if p.GivenName == "" {
			p.GivenName = given
		}
	}
	return p
}
