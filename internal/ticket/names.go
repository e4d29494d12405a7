package ticket

import "strings"

// SplitFullName treats the last whitespace token as the family name and the
// remaining tokens as the given name. A single token is a given name.
func SplitFullName(full string) (family, given string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return parts[len(parts)-1], strings.Join(parts[:len(parts)-1], " ")
	}
}

// FormatName renders "{FAMILY} / {GIVEN} {Title}." when both name parts are
// known, otherwise whichever part is present.
func FormatName(p Passenger) string {
	family := strings.ToUpper(p.FamilyName)
	given := strings.ToUpper(p.GivenName)
	switch {
	case family != "" && given != "":
		name := family + " / " + given
		if p.Title != "" {
			name += " " + string(p.Title) + "."
		}
		return name
	case given != "":
		return given
	default:
		return family
	}
}
