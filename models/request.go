package models

import (
	"errors"
	"fmt"

	"demandforecast/utils"
)

// DefaultHorizonDays is used when the caller does not specify a horizon.
const DefaultHorizonDays = 30

// EntityRole says whose sales history a forecast is built from.
type EntityRole string

const (
	RoleSeller   EntityRole = "seller"
	RoleRetailer EntityRole = "retailer"
)

var (
	ErrUnknownRole        = errors.New("unknown entity role")
	ErrMissingIdentifiers = errors.New("entity and product identifiers are required")
	ErrMalformedID        = errors.New("malformed identifier")
	ErrInvalidHorizon     = errors.New("horizon must be a positive number of days")
)

// ParseEntityRole accepts "seller", "retailer" and the "buyer" alias, case-insensitively.
func ParseEntityRole(s string) (EntityRole, error) {
	role, ok := utils.ValidateAndNormalizeRole(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return EntityRole(role), nil
}

// IDParam is the query parameter that carries the entity id for this role.
func (r EntityRole) IDParam() string {
	if r == RoleRetailer {
		return "retailerId"
	}
	return "sellerId"
}

func (r EntityRole) Valid() bool {
	return r == RoleSeller || r == RoleRetailer
}

// ForecastRequest is built once at the transport boundary and passed by value.
type ForecastRequest struct {
	Role        EntityRole
	EntityID    string
	ProductID   string
	HorizonDays int
}

// Validate checks the request against maxHorizon (0 disables the upper bound).
func (r ForecastRequest) Validate(maxHorizon int) error {
	if !r.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, r.Role)
	}
	if r.EntityID == "" || r.ProductID == "" {
		return ErrMissingIdentifiers
	}
	if !utils.IsValidIdentifier(r.EntityID) {
		return fmt.Errorf("%w: %s %q", ErrMalformedID, r.Role.IDParam(), r.EntityID)
	}
	if !utils.IsValidIdentifier(r.ProductID) {
		return fmt.Errorf("%w: productId %q", ErrMalformedID, r.ProductID)
	}
	if r.HorizonDays <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidHorizon, r.HorizonDays)
	}
	if maxHorizon > 0 && r.HorizonDays > maxHorizon {
		return fmt.Errorf("%w: %d exceeds the maximum of %d", ErrInvalidHorizon, r.HorizonDays, maxHorizon)
	}
	return nil
}
