package utils

import "fmt"

// ToStringSlice flattens a decoded JSON value into strings. Lists keep their
// string members, a bare string becomes a single element, anything else is
// formatted.
func ToStringSlice(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		stringSlice := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				stringSlice = append(stringSlice, s)
			}
		}
		return stringSlice
	default:
		return []string{fmt.Sprint(v)}
	}
}
