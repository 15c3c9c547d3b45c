package model

// Capability names one guarded action. Routes declare the capability
// they need and the guard checks it against the session role with the
// Can method.
type Capability int

// Known capabilities.
const (
	CapInvalid Capability = iota

	CapAuthenticated  // any signed-in user (notifications, dashboard)
	CapClientArea     // client dashboard, payments and own vehicles
	CapBookService    // booking a catalog service
	CapManageCart     // cart mutation, view, and checkout
	CapServiceArea    // service staff dashboard
	CapUpdateBooking  // booking status and staff assignment
	CapGenerateReport // PDF service reports
	CapAdminArea      // admin dashboard and listings
	CapManageCatalog  // services and car parts CRUD
	CapManageUsers    // role and active flag edits
	CapManageDiscount // discount codes
)

var capabilities = map[Role]map[Capability]bool{
	RoleClient: {
		CapAuthenticated: true,
		CapClientArea:    true,
		CapBookService:   true,
		CapManageCart:    true,
	},
	RoleService: {
		CapAuthenticated:  true,
		CapServiceArea:    true,
		CapUpdateBooking:  true,
		CapGenerateReport: true,
	},
	RoleAdmin: {
		CapAuthenticated:  true,
		CapUpdateBooking:  true,
		CapGenerateReport: true,
		CapAdminArea:      true,
		CapManageCatalog:  true,
		CapManageUsers:    true,
		CapManageDiscount: true,
	},
}

// Can reports whether the r role is allowed to perform the c action.
// Invalid roles are allowed nothing.
func (r Role) Can(c Capability) bool {
	return capabilities[r][c]
}
