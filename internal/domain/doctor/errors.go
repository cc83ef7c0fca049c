package doctor

import "errors"

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDoctorAlreadyExists = errors.New("doctor with this full name already exists")
	ErrFullNameRequired    = errors.New("doctor full name and expertise are required")
)
