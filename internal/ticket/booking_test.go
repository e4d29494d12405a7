package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFullName(t *testing.T) {
	family, given := SplitFullName("Ahmed Hassan Muhammad")
	assert.Equal(t, "Muhammad", family)
	assert.Equal(t, "Ahmed Hassan", given)

	family, given = SplitFullName("Ahmed")
	assert.Equal(t, "", family)
	assert.Equal(t, "Ahmed", given)

	family, given = SplitFullName("   ")
	assert.Equal(t, "", family)
	assert.Equal(t, "", given)
}

func TestNormalize_FullNameFallback(t *testing.T) {
	b := Normalize(Input{Passengers: []Record{
		{"fullName": "Ahmed Hassan Muhammad"},
		{"fullName": "Ahmed"},
	}}, DefaultAliases())

	assert.Equal(t, "MUHAMMAD / AHMED HASSAN", FormatName(b.Passengers[0]))
	assert.Equal(t, "Muhammad", b.Passengers[0].FamilyName)
	assert.Equal(t, "AHMED", FormatName(b.Passengers[1]))
	assert.Equal(t, "", b.Passengers[1].FamilyName)
}

func TestNormalize_FullNameFillsEachMissingPart(t *testing.T) {
	b := Normalize(Input{Passengers: []Record{
		{"firstName": "Ahmed", "fullName": "Ahmed Hassan Khan"},
		{"lastName": "Khan", "fullName": "Ahmed Hassan Khan"},
		{"firstName": "Sara", "lastName": "Ali", "fullName": "Someone Else"},
	}}, DefaultAliases())

	assert.Equal(t, "KHAN / AHMED", FormatName(b.Passengers[0]))
	assert.Equal(t, "KHAN / AHMED HASSAN", FormatName(b.Passengers[1]))
	assert.Equal(t, "ALI / SARA", FormatName(b.Passengers[2]))
}

func TestFormatName(t *testing.T) {
	cases := []struct {
		name string
		p    Passenger
		want string
	}{
		{"both with title", Passenger{Title: Mr, GivenName: "John", FamilyName: "Smith"}, "SMITH / JOHN Mr."},
		{"both without title", Passenger{GivenName: "John", FamilyName: "Smith"}, "SMITH / JOHN"},
		{"given only", Passenger{Title: Ms, GivenName: "Jane"}, "JANE"},
		{"family only", Passenger{FamilyName: "Smith"}, "SMITH"},
		{"nothing", Passenger{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatName(tc.p))
		})
	}
}

func TestParseTitle(t *testing.T) {
	assert.Equal(t, Mr, ParseTitle("mr."))
	assert.Equal(t, Miss, ParseTitle(" MISS "))
	assert.Equal(t, Dr, ParseTitle("Dr"))
	assert.Equal(t, Title("Prof"), ParseTitle("Prof."))
	assert.Equal(t, Title(""), ParseTitle(""))
}

func TestNormalizePNR(t *testing.T) {
	assert.Equal(t, NoPNR, NormalizePNR(""))
	assert.Equal(t, NoPNR, NormalizePNR("   \t"))
	assert.Equal(t, "ABC123", NormalizePNR(" abc123 "))
}

func TestNormalize_SegmentDefaults(t *testing.T) {
	b := Normalize(Input{Segments: []Record{
		{"from": "KHI", "to": "DXB", "date": "2025-07-05", "flightNumber": "EK601"},
		{"departureCity": "DXB", "arrivalCity": "LHR", "departureDate": "2025-07-06", "arrivalDate": "2025-07-07", "ticketType": "business"},
	}}, DefaultAliases())

	first := b.Segments[0]
	assert.Equal(t, "KHI → DXB", first.Route())
	assert.Equal(t, "2025-07-05", first.ArrivalDate)
	assert.Equal(t, Economy, first.FareClass)
	assert.Equal(t, "Economy", first.FareClass.Display())

	second := b.Segments[1]
	assert.Equal(t, "2025-07-07", second.ArrivalDate)
	assert.Equal(t, "Business", second.FareClass.Display())
}

func TestFareClassDisplay(t *testing.T) {
	assert.Equal(t, "Economy", FareClass("").Display())
	assert.Equal(t, "First", First.Display())
	assert.Equal(t, "Premium Economy", FareClass("PREMIUM economy").Display())
}

func TestFormatDay(t *testing.T) {
	d := FormatDay("2025-07-05")
	assert.Equal(t, DayParts{Weekday: "SATURDAY", Day: "05", Month: "JUL"}, d)
	assert.Equal(t, "SATURDAY, 05 JUL", d.String())

	assert.Equal(t, "SATURDAY, 05 JUL", FormatDay("2025-07-05T10:30:00Z").String())
	assert.Equal(t, "SATURDAY, 05 JUL", FormatDay("05/07/2025").String())
}

func TestFormatDay_Unparseable(t *testing.T) {
	assert.Equal(t, DayParts{}, FormatDay(""))
	assert.Equal(t, DayParts{}, FormatDay("next tuesday"))
	assert.Equal(t, "", FormatDay("31-31-31").String())
}
