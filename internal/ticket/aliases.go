package ticket

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field is a canonical semantic field of a segment or passenger.
type Field string

const (
	FieldDeparture     Field = "departure"
	FieldArrival       Field = "arrival"
	FieldDepartureDate Field = "departureDate"
	FieldArrivalDate   Field = "arrivalDate"
	FieldDepartureTime Field = "departureTime"
	FieldArrivalTime   Field = "arrivalTime"
	FieldFlightNumber  Field = "flightNumber"
	FieldAirline       Field = "airline"
	FieldFareClass     Field = "fareClass"

	FieldTitle          Field = "title"
	FieldGivenName      Field = "givenName"
	FieldFamilyName     Field = "familyName"
	FieldFullName       Field = "fullName"
	FieldETicket        Field = "eTicketNumber"
	FieldPersonalQty    Field = "personalQuantity"
	FieldPersonalWeight Field = "personalWeight"
	FieldHandQty        Field = "handQuantity"
	FieldHandWeight     Field = "handWeight"
	FieldCheckedQty     Field = "checkedQuantity"
	FieldCheckedWeight  Field = "checkedWeight"
)

// AliasTable maps a canonical field to the ordered keys searched for it.
type AliasTable map[Field][]string

// Aliases holds the alias tables for both record kinds.
type Aliases struct {
	Segment   AliasTable `yaml:"segment"`
	Passenger AliasTable `yaml:"passenger"`
}

// DefaultAliases returns the built-in alias set covering every naming scheme
// the booking form has emitted so far. The primary (current) key comes first.
func DefaultAliases() Aliases {
	return Aliases{
		Segment: AliasTable{
			FieldDeparture:     {"departureCity", "from", "departure_city", "origin"},
			FieldArrival:       {"arrivalCity", "to", "arrival_city", "destination"},
			FieldDepartureDate: {"departureDate", "date", "departure_date"},
			FieldArrivalDate:   {"arrivalDate", "date", "arrival_date"},
			FieldDepartureTime: {"departureTime", "departure_time"},
			FieldArrivalTime:   {"arrivalTime", "arrival_time"},
			FieldFlightNumber:  {"flightNumber", "flight_number", "flightNo"},
			FieldAirline:       {"airline", "operatingAirline", "carrier"},
			FieldFareClass:     {"ticketType", "seatClass", "fareClass", "ticket_type", "class"},
		},
		Passenger: AliasTable{
			FieldTitle:          {"title"},
			FieldGivenName:      {"firstName", "givenName", "first_name"},
			FieldFamilyName:     {"lastName", "familyName", "surname", "last_name"},
			FieldFullName:       {"fullName", "full_name", "name"},
			FieldETicket:        {"eTicketNumber", "eTicket", "ticketNumber", "e_ticket_number"},
			FieldPersonalQty:    {"personalBagQuantity", "smallBag", "small", "personalQuantity"},
			FieldPersonalWeight: {"personalBagWeight", "smallBagWeight", "smallWeight", "personalWeight"},
			FieldHandQty:        {"handBaggageQuantity", "handCarry", "cabin7kg", "cabin", "cabinBag", "handQuantity"},
			FieldHandWeight:     {"handBaggageWeight", "handCarryWeight", "cabin7kgWeight", "cabinWeight", "cabinBagWeight", "handWeight"},
			FieldCheckedQty:     {"baggageQuantity", "checked23kg", "checked", "checkedBag", "checkedBaggageQuantity"},
			FieldCheckedWeight:  {"baggageWeight", "checked23kgWeight", "checkedWeight", "checkedBagWeight", "checkedBaggageWeight"},
		},
	}
}

// ResolveSegment resolves a segment field.
func (a Aliases) ResolveSegment(rec Record, f Field) string {
	return Resolve(rec, a.Segment[f])
}

// ResolvePassenger resolves a passenger field.
func (a Aliases) ResolvePassenger(rec Record, f Field) string {
	return Resolve(rec, a.Passenger[f])
}

// Merge overlays the non-empty entries of o onto a copy of a.
func (a Aliases) Merge(o Aliases) Aliases {
	out := Aliases{Segment: AliasTable{}, Passenger: AliasTable{}}
	for k, v := range a.Segment {
		out.Segment[k] = append([]string(nil), v...)
	}
	for k, v := range a.Passenger {
		out.Passenger[k] = append([]string(nil), v...)
	}
	for k, v := range o.Segment {
		if keys := cleanKeys(v); len(keys) > 0 {
			out.Segment[k] = keys
		}
	}
	for k, v := range o.Passenger {
		if keys := cleanKeys(v); len(keys) > 0 {
			out.Passenger[k] = keys
		}
	}
	return out
}

// LoadAliases reads a YAML alias override file and merges it over the
// defaults. An empty path returns the defaults.
func LoadAliases(path string) (Aliases, error) {
	def := DefaultAliases()
	path = strings.TrimSpace(path)
	if path == "" {
		return def, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return def, fmt.Errorf("read alias file: %w", err)
	}
	var override Aliases
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return def, fmt.Errorf("parse alias file %s: %w", path, err)
	}
	return def.Merge(override), nil
}

func cleanKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
