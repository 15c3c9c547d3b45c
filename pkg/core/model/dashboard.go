package model

import "github.com/shopspring/decimal"

// AdminStats is the admin dashboard summary.
type AdminStats struct {
	UserCounts
	TotalBookings  int64           `json:"total_bookings"`
	TotalOrders    int64           `json:"total_orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`
	RecentBookings []Booking       `json:"recent_bookings"`
	RecentOrders   []Order         `json:"recent_orders"`
}

// ClientDashboard is the client landing page data.
type ClientDashboard struct {
	Bookings []Booking `json:"bookings"`
	Orders   []Order   `json:"orders"`
}
