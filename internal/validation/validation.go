package validation

import (
	"strings"
	"time"
)

// Violations maps field name to a short machine-readable reason.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// ISODate flags a non-empty value that does not parse as YYYY-MM-DD.
func ISODate(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		return
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(value)); err != nil {
		v[field] = "invalid_date"
	}
}

// OneOf flags a value outside the allowed set. Empty values pass; pair with
// Required when the field is mandatory.
func OneOf(field, value string, allowed []string, v Violations) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "not_allowed"
}
