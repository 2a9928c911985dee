package patient

import (
	"context"

	"github.com/clinica-suite/patients-service/internal/domain/pagination"
)

type Repository interface {
	// Create persists a new patient. Returns ErrEmailAlreadyUsed when the
	// email collides with another active patient.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves an active patient. Returns ErrPatientNotFound otherwise.
	GetByID(ctx context.Context, id int) (*Patient, error)

	// List returns a page of active patients plus the total active count.
	List(ctx context.Context, d pagination.Descriptor) (*PagedPatients, error)

	// SearchByName matches a case-insensitive substring against first or last name.
	SearchByName(ctx context.Context, name string, d pagination.Descriptor) (*PagedPatients, error)

	// Exists reports whether an active patient with this id exists.
	Exists(ctx context.Context, id int) (bool, error)

	// ExistsByEmail reports whether an active patient other than excludeID uses the email.
	ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error)

	CountActive(ctx context.Context) (int64, error)

	// Save updates an existing row with an optimistic version check. Returns
	// domain.ErrConcurrentModification on a stale version.
	Save(ctx context.Context, p *Patient) error

	// SoftDelete marks the patient inactive. Returns ErrPatientNotFound when
	// no active row exists (a second delete is not a silent success).
	SoftDelete(ctx context.Context, id int) error
}
