package patient

import "errors"

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrEmailAlreadyUsed = errors.New("patient with this email already exists")
)
