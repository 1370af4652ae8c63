package adviser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrBadLocation means a location string could not be parsed
var ErrBadLocation = errors.New(`incorrect location format, expected "Seattle, WA"`)

var locationSep = regexp.MustCompile(`\s*,\s*`)

// FormatLocation normalizes a free-form "city, ST" string into its canonical
// display form plus the city and state components.
func FormatLocation(location string) (formatted, city, state string, err error) {
	parts := locationSep.Split(strings.TrimSpace(strings.ToLower(location)), -1)
	if len(parts) < 2 {
		return "", "", "", ErrBadLocation
	}

	city = capitalize(parts[0])
	state = strings.ToUpper(parts[1])
	if city == "" || len(state) != 2 {
		return "", "", "", ErrBadLocation
	}

	return fmt.Sprintf("%s, %s", city, state), city, state, nil
}

// capitalize upper-cases the first character and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
