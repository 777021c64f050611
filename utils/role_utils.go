package utils

import (
	"strings"
)

// ValidEntityRoles lists the roles a forecast can be requested for. "buyer" is accepted as an
// alias for "retailer" because the HTTP route for retailers is /forecast/buyer.
var ValidEntityRoles = map[string]string{
	"seller":   "seller",
	"retailer": "retailer",
	"buyer":    "retailer",
}

// ValidateAndNormalizeRole validates and normalizes a role string.
// Returns the normalized role (lowercase, aliases resolved) and a boolean indicating if it's valid.
func ValidateAndNormalizeRole(role string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(role))
	canonical, ok := ValidEntityRoles[normalized]
	if !ok {
		return normalized, false
	}
	return canonical, true
}
