package domain

const (
	PathRoot  = "/"
	PathLogin = "/login"
)

// Route describes the dashboard a role lands on.
type Route struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// DashboardRoutes is the role → dashboard table. Adding a role means adding
// a row here.
var DashboardRoutes = map[Role]Route{
	RolePatient:       {Path: "/patient", Title: "Patient Dashboard"},
	RoleDoctor:        {Path: "/doctor", Title: "Doctor Dashboard"},
	RolePharmacist:    {Path: "/pharmacist", Title: "Pharmacist Dashboard"},
	RoleNurse:         {Path: "/nurse", Title: "Nurse Dashboard"},
	RoleLabTechnician: {Path: "/labtech", Title: "Lab Technician Dashboard"},
	RoleAdministrator: {Path: "/admin", Title: "Administrator Dashboard"},
}
