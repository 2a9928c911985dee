package prescription

import "errors"

var (
	ErrPrescriptionNotFound    = errors.New("prescription not found")
	ErrPatientIDRequired       = errors.New("patient id is required to create a prescription")
	ErrMedicationAlreadyLinked = errors.New("medication is already associated with this prescription")
	ErrMedicationNotLinked     = errors.New("medication is not associated with this prescription")
)
