package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sellerID  = "680789ef7c1ac7df2240521d"
	productID = "68078a777c1ac7df22405220"
)

func TestParseEntityRole(t *testing.T) {
	role, err := ParseEntityRole("Buyer")
	require.NoError(t, err)
	assert.Equal(t, RoleRetailer, role)
	assert.Equal(t, "retailerId", role.IDParam())

	role, err = ParseEntityRole("seller")
	require.NoError(t, err)
	assert.Equal(t, "sellerId", role.IDParam())

	_, err = ParseEntityRole("admin")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestForecastRequestValidate(t *testing.T) {
	cases := []struct {
		name string
		req  ForecastRequest
		want error
	}{
		{"ok", ForecastRequest{RoleSeller, sellerID, productID, 30}, nil},
		{"missing entity", ForecastRequest{RoleSeller, "", productID, 30}, ErrMissingIdentifiers},
		{"missing product", ForecastRequest{RoleRetailer, sellerID, "", 30}, ErrMissingIdentifiers},
		{"malformed entity", ForecastRequest{RoleSeller, "abc", productID, 30}, ErrMalformedID},
		{"malformed product", ForecastRequest{RoleSeller, sellerID, "xyz", 30}, ErrMalformedID},
		{"zero horizon", ForecastRequest{RoleSeller, sellerID, productID, 0}, ErrInvalidHorizon},
		{"negative horizon", ForecastRequest{RoleSeller, sellerID, productID, -3}, ErrInvalidHorizon},
		{"too long", ForecastRequest{RoleSeller, sellerID, productID, 400}, ErrInvalidHorizon},
		{"bad role", ForecastRequest{"admin", sellerID, productID, 30}, ErrUnknownRole},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.req.Validate(365)
			if c.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, c.want), "got %v, want %v", err, c.want)
		})
	}
}

func TestValidateWithoutUpperBound(t *testing.T) {
	req := ForecastRequest{RoleSeller, sellerID, productID, 5000}
	assert.NoError(t, req.Validate(0))
}

func TestDayTruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	in := time.Date(2024, 3, 10, 23, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Day(in))

	// 02:00 IST on the 11th is still the 10th in UTC.
	local := time.Date(2024, 3, 11, 2, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Day(local))
}

func TestSeriesAccessors(t *testing.T) {
	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Series{{Date: d0, Quantity: 2}, {Date: d0.AddDate(0, 0, 3), Quantity: 5}}
	assert.Equal(t, []float64{2, 5}, s.Values())
	assert.Equal(t, []time.Time{d0, d0.AddDate(0, 0, 3)}, s.Dates())
	assert.Equal(t, 5.0, s.Last().Quantity)
}
