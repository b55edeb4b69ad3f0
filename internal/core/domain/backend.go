package domain

// Backend names one of the microservices the portal talks to.
type Backend string

const (
	BackendIdentity       Backend = "identity"
	BackendPatient        Backend = "patient"
	BackendDoctor         Backend = "doctor"
	BackendPharmacist     Backend = "pharmacist"
	BackendNurse          Backend = "nurse"
	BackendLab            Backend = "lab"
	BackendMedicalRecords Backend = "medical_records"
	BackendPrescription   Backend = "prescription"
	BackendAdministrator  Backend = "administrator"
	BackendAppointments   Backend = "appointments"
	BackendChatbot        Backend = "chatbot"
)

// Backends lists every backend domain.
var Backends = []Backend{
	BackendIdentity,
	BackendPatient,
	BackendDoctor,
	BackendPharmacist,
	BackendNurse,
	BackendLab,
	BackendMedicalRecords,
	BackendPrescription,
	BackendAdministrator,
	BackendAppointments,
	BackendChatbot,
}
