package domain

// Role is the user_type tag carried by every identity.
type Role string

const (
	RolePatient       Role = "patient"
	RoleDoctor        Role = "doctor"
	RolePharmacist    Role = "pharmacist"
	RoleNurse         Role = "nurse"
	RoleLabTechnician Role = "lab_technician"
	RoleAdministrator Role = "administrator"
)

// Roles lists every role the portal knows, in display order.
var Roles = []Role{
	RolePatient,
	RoleDoctor,
	RolePharmacist,
	RoleNurse,
	RoleLabTechnician,
	RoleAdministrator,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Identity is the authenticated principal returned by the identity service.
// Role never changes for the lifetime of a session.
type Identity struct {
	ID        string `json:"id"        bson:"id"`
	Username  string `json:"username"  bson:"username"`
	Email     string `json:"email"     bson:"email"`
	FirstName string `json:"first_name" bson:"first_name"`
	LastName  string `json:"last_name"  bson:"last_name"`
	Role      Role   `json:"user_type" bson:"user_type"`
	IsActive  bool   `json:"is_active" bson:"is_active"`
	IsStaff   bool   `json:"is_staff"  bson:"is_staff"`
}

// DisplayName prefers "First Last" and falls back to the username.
func (i Identity) DisplayName() string {
	switch {
	case i.FirstName != "" && i.LastName != "":
		return i.FirstName + " " + i.LastName
	case i.FirstName != "":
		return i.FirstName
	default:
		return i.Username
	}
}

// Credential is the opaque bearer token pair issued by the login exchange.
type Credential struct {
	Token        string `json:"token"                   bson:"token"`
	RefreshToken string `json:"refresh_token,omitempty" bson:"refresh_token,omitempty"`
}

// Present reports whether a bearer token is available.
func (c Credential) Present() bool {
	return c.Token != ""
}
