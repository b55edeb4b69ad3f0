package domain

// UserTypeOption is one entry of the user-type picker.
type UserTypeOption struct {
	Value       Role   `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var UserTypeOptions = []UserTypeOption{
	{Value: RolePatient, Label: "Patient", Description: "Healthcare service recipients"},
	{Value: RoleDoctor, Label: "Doctor", Description: "Medical practitioners and physicians"},
	{Value: RolePharmacist, Label: "Pharmacist", Description: "Medication and pharmacy specialists"},
	{Value: RoleNurse, Label: "Nurse", Description: "Healthcare support and patient care"},
	{Value: RoleLabTechnician, Label: "Lab Technician", Description: "Laboratory testing and analysis"},
	{Value: RoleAdministrator, Label: "Administrator", Description: "System and user management"},
}

// ProfileSpec says where a role's profile lives and which fields it takes.
type ProfileSpec struct {
	Backend    Backend
	Collection string
	Fields     []string
}

// ProfileSpecs drives both profile creation and dashboard profile fetches.
var ProfileSpecs = map[Role]ProfileSpec{
	RolePatient:       {Backend: BackendPatient, Collection: "patients", Fields: []string{"date_of_birth", "phone_number", "address"}},
	RoleDoctor:        {Backend: BackendDoctor, Collection: "doctors", Fields: []string{"specialization", "license_number", "phone_number"}},
	RolePharmacist:    {Backend: BackendPharmacist, Collection: "pharmacists", Fields: []string{"pharmacy_name", "pharmacy_license_number", "phone_number", "address"}},
	RoleNurse:         {Backend: BackendNurse, Collection: "nurses", Fields: []string{"employee_id"}},
	RoleLabTechnician: {Backend: BackendLab, Collection: "labtechs", Fields: []string{"employee_id"}},
	RoleAdministrator: {Backend: BackendAdministrator, Collection: "admins", Fields: []string{"internal_admin_id"}},
}

// CreatePath is the collection endpoint profiles are POSTed to.
func (p ProfileSpec) CreatePath() string {
	return "/" + p.Collection + "/"
}

// ItemPath is the endpoint of a single user's profile.
func (p ProfileSpec) ItemPath(userID string) string {
	return "/" + p.Collection + "/" + userID + "/"
}

// Payload builds the profile body. Blank or missing fields are sent as null.
func (p ProfileSpec) Payload(userID string, data map[string]string) map[string]any {
	out := make(map[string]any, len(p.Fields)+1)
	out["user_id"] = userID
	for _, f := range p.Fields {
		if v := data[f]; v != "" {
			out[f] = v
		} else {
			out[f] = nil
		}
	}
	return out
}

// UserTypeContext says which admin form the user-type picker writes to.
type UserTypeContext string

const (
	UserTypeCreate UserTypeContext = "create"
	UserTypeEdit   UserTypeContext = "edit"
)

// UserTypeDraft is the admin's user-type picker plus the two forms it feeds.
type UserTypeDraft struct {
	Context    UserTypeContext `json:"context,omitempty"`
	CreateType Role            `json:"create_type"`
	EditType   *Role           `json:"edit_type,omitempty"`
	Picker     Wizard[Role]    `json:"picker"`
}

// NewUserTypeDraft starts with the create form defaulting to patient.
func NewUserTypeDraft() *UserTypeDraft {
	return &UserTypeDraft{
		CreateType: RolePatient,
		Picker:     Wizard[Role]{State: WizardClosed},
	}
}

// Open shows the picker for ctx, seeded from that form's current value.
func (d *UserTypeDraft) Open(ctx UserTypeContext) error {
	switch ctx {
	case UserTypeCreate:
		seed := d.CreateType
		d.Picker.Open(&seed)
	case UserTypeEdit:
		d.Picker.Open(d.EditType)
	default:
		return ErrUnknownOption
	}
	d.Context = ctx
	return nil
}

// Confirm commits the tentative type into the form named by the context.
func (d *UserTypeDraft) Confirm() error {
	v, ok, err := d.Picker.Confirm()
	if err != nil {
		return err
	}
	if ok {
		switch d.Context {
		case UserTypeCreate:
			d.CreateType = v
		case UserTypeEdit:
			d.EditType = &v
		}
	}
	d.Context = ""
	return nil
}

// Cancel closes the picker without touching either form.
func (d *UserTypeDraft) Cancel() {
	d.Picker.Cancel()
	d.Context = ""
}
