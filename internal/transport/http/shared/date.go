package shared

import "time"

// ParseDate reads RFC3339 first, then plain YYYY-MM-DD. An empty value is a
// zero time with no error; callers treat that as "not provided".
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}
