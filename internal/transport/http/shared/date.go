package shared

import "time"

// dateLayouts lists the accepted request formats, most specific first. Leave
// ranges and document dates arrive as plain calendar days, attendance times
// as full timestamps.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate parses a request-supplied timestamp or calendar date. The empty
// string parses to the zero time so optional fields pass through.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	var parsed time.Time
	var err error
	for _, layout := range dateLayouts {
		if parsed, err = time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, err
}
