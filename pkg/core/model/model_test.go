package model_test

import (
	"testing"
	"time"

	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDiscountAmount(t *testing.T) {
	d := func(typ model.DiscountType, v string) *model.Discount {
		return &model.Discount{
			Type: typ, Value: decimal.RequireFromString(v), Active: true,
		}
	}
	for _, tc := range []struct {
		name  string
		disc  *model.Discount
		total string
		want  string
	}{
		{"percentage", d(model.DiscountPercentage, "10"), "20.00", "2"},
		{"percentage rounds", d(model.DiscountPercentage, "15"), "10.99", "1.65"},
		{"full percentage", d(model.DiscountPercentage, "100"), "5.00", "5"},
		{"fixed", d(model.DiscountFixed, "5"), "20.00", "5"},
		{"fixed capped", d(model.DiscountFixed, "50"), "20.00", "20"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.disc.Amount(decimal.RequireFromString(tc.total))
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestDiscountUsable(t *testing.T) {
	today := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)
	limit := 5
	yesterday := today.AddDate(0, 0, -1)
	sameDay := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	d := model.Discount{Active: true, UsageLimit: &limit}
	assert.True(t, d.Usable(today))

	d.UsedCount = 5
	assert.False(t, d.Usable(today), "exhausted")

	d = model.Discount{Active: true, Expiry: &yesterday}
	assert.False(t, d.Usable(today), "expired")

	d = model.Discount{Active: true, Expiry: &sameDay}
	assert.True(t, d.Usable(today), "expiry is date-only")

	d = model.Discount{Active: false}
	assert.False(t, d.Usable(today), "inactive")
}

func TestDiscountValidate(t *testing.T) {
	d := &model.Discount{
		Code:  " save10 ",
		Type:  model.DiscountPercentage,
		Value: decimal.NewFromInt(10),
	}
	assert.NoError(t, d.Validate())
	assert.Equal(t, "SAVE10", d.Code)

	d.Value = decimal.NewFromInt(150)
	assert.Error(t, d.Validate())

	d = &model.Discount{Code: "X", Type: "bogus", Value: decimal.NewFromInt(1)}
	assert.ErrorIs(t, d.Validate(), model.ErrUnknownDiscountType)
}

func TestBookingTransitions(t *testing.T) {
	for _, tc := range []struct {
		from, to model.BookingStatus
		ok       bool
	}{
		{model.BookingPending, model.BookingConfirmed, true},
		{model.BookingPending, model.BookingCompleted, true},
		{model.BookingConfirmed, model.BookingInProgress, true},
		{model.BookingInProgress, model.BookingCompleted, true},
		{model.BookingPending, model.BookingCancelled, true},
		{model.BookingConfirmed, model.BookingCancelled, true},
		{model.BookingInProgress, model.BookingCancelled, false},
		{model.BookingConfirmed, model.BookingPending, false},
		{model.BookingCompleted, model.BookingInProgress, false},
		{model.BookingCancelled, model.BookingPending, false},
		{model.BookingConfirmed, model.BookingConfirmed, true},
		{model.BookingPending, model.BookingStatusInvalid, false},
	} {
		assert.Equal(
			t, tc.ok, tc.from.CanTransitionTo(tc.to),
			"%d -> %d", tc.from, tc.to,
		)
	}
}

func TestParseBookingStatus(t *testing.T) {
	for _, s := range []string{
		"pending", "confirmed", "in_progress", "completed", "cancelled",
	} {
		st, err := model.ParseBookingStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, s, st.String())
	}
	_, err := model.ParseBookingStatus("done")
	assert.ErrorIs(t, err, model.ErrUnknownBookingStatus)
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, model.RoleClient.Can(model.CapBookService))
	assert.True(t, model.RoleClient.Can(model.CapManageCart))
	assert.False(t, model.RoleClient.Can(model.CapAdminArea))
	assert.False(t, model.RoleService.Can(model.CapManageCatalog))
	assert.True(t, model.RoleService.Can(model.CapUpdateBooking))
	assert.True(t, model.RoleAdmin.Can(model.CapUpdateBooking))
	assert.False(t, model.RoleAdmin.Can(model.CapManageCart))
	assert.False(t, model.RoleInvalid.Can(model.CapAuthenticated))

	r, err := model.ParseRole("service")
	assert.NoError(t, err)
	assert.Equal(t, model.RoleService, r)
	_, err = model.ParseRole("root")
	assert.ErrorIs(t, err, model.ErrUnknownRole)
}

func TestVehicleValidate(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	v := &model.Vehicle{RegistrationNo: " ab-123 ", Make: "VW", Model: "Golf", Year: 2025}
	assert.NoError(t, v.Validate(now))
	assert.Equal(t, "ab-123", v.RegistrationNo)

	v.Year = 2026
	assert.Error(t, v.Validate(now))
	v.Year = 1899
	assert.Error(t, v.Validate(now))
	v.Year = 1900
	v.Make = " "
	assert.Error(t, v.Validate(now))
}

func TestServiceReportNaming(t *testing.T) {
	r := &model.ServiceReport{
		BookingID:   42,
		GeneratedAt: time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC),
	}
	assert.Equal(t, "FM-000042", r.ReportNumber())
	assert.Equal(t, "PDI_Report_42_20240304_050607.pdf", r.FileName())
}

func TestNotificationTitles(t *testing.T) {
	assert.Equal(t, "New Booking", model.NotifyBooking.Title())
	assert.Equal(t, "Inventory Update", model.NotifyInventory.Title())
	assert.Equal(t, "Notification", model.NotificationType("misc").Title())
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(1999), model.Cents(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(15000), model.Cents(decimal.NewFromInt(150)))
}

func TestBookingStatusTitle(t *testing.T) {
	assert.Equal(t, "In Progress", model.BookingInProgress.Title())
	assert.Equal(t, "Pending", model.BookingPending.Title())
}
