package service

import (
	"context"
	"testing"
	"time"

	"github.com/clinica-suite/patients-service/internal/domain/pagination"
	"github.com/clinica-suite/patients-service/internal/domain/patient"
	"github.com/clinica-suite/patients-service/internal/dto"
	"github.com/clinica-suite/patients-service/internal/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func newPatientService(repo patient.Repository) *PatientService {
	log := zap.NewNop()
	return NewPatientService(repo, mapper.NewPatientMapper(log), newTestAudit(), newTestCollector(), log)
}

func TestPatientCreate(t *testing.T) {
	repo := &patientRepoMock{
		ExistsByEmailFn: func(ctx context.Context, email string, excludeID int) (bool, error) {
			assert.Equal(t, "ana@example.com", email)
			return false, nil
		},
		CreateFn: func(ctx context.Context, p *patient.Patient) error {
			p.ID = 7
			return nil
		},
	}

	resp, err := newPatientService(repo).Create(context.Background(), &dto.PatientRequest{
		FirstName: strPtr("Ana"),
		LastName:  strPtr("Silva"),
		Email:     strPtr("Ana@Example.com"),
	})

	require.NoError(t, err)
	assert.Equal(t, 7, resp.ID)
	assert.Equal(t, "Ana Silva", resp.FullName)
	assert.True(t, resp.Active)
}

func TestPatientCreateRequiresNames(t *testing.T) {
	_, err := newPatientService(&patientRepoMock{}).Create(context.Background(), &dto.PatientRequest{
		FirstName: strPtr("   "),
	})

	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
	assert.Len(t, validErr.Fields, 2)
}

func TestPatientCreateRejectsFutureBirthDate(t *testing.T) {
	_, err := newPatientService(&patientRepoMock{}).Create(context.Background(), &dto.PatientRequest{
		FirstName: strPtr("Ana"),
		LastName:  strPtr("Silva"),
		BirthDate: timePtr(time.Now().Add(48 * time.Hour)),
	})

	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
}

func TestPatientCreateEmailConflict(t *testing.T) {
	repo := &patientRepoMock{
		ExistsByEmailFn: func(ctx context.Context, email string, excludeID int) (bool, error) {
			return true, nil
		},
	}

	_, err := newPatientService(repo).Create(context.Background(), &dto.PatientRequest{
		FirstName: strPtr("Ana"),
		LastName:  strPtr("Silva"),
		Email:     strPtr("taken@example.com"),
	})

	assert.ErrorIs(t, err, patient.ErrEmailAlreadyUsed)
}

func TestPatientUpdateSkipsEmailCheckWhenUnchanged(t *testing.T) {
	existing := &patient.Patient{FirstName: "Ana", LastName: "Silva", Email: "ana@example.com"}
	existing.ID = 7

	repo := &patientRepoMock{
		GetByIDFn: func(ctx context.Context, id int) (*patient.Patient, error) {
			return existing, nil
		},
		SaveFn: func(ctx context.Context, p *patient.Patient) error { return nil },
	}

	resp, err := newPatientService(repo).Update(context.Background(), 7, &dto.PatientRequest{
		Email:    strPtr("ana@example.com"),
		LastName: strPtr("Gomez"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Gomez", resp.LastName)
}

func TestPatientUpdateEmailConflict(t *testing.T) {
	existing := &patient.Patient{FirstName: "Ana", LastName: "Silva", Email: "ana@example.com"}
	existing.ID = 7

	repo := &patientRepoMock{
		GetByIDFn: func(ctx context.Context, id int) (*patient.Patient, error) {
			return existing, nil
		},
		ExistsByEmailFn: func(ctx context.Context, email string, excludeID int) (bool, error) {
			assert.Equal(t, "other@example.com", email)
			assert.Equal(t, 7, excludeID)
			return true, nil
		},
	}

	_, err := newPatientService(repo).Update(context.Background(), 7, &dto.PatientRequest{
		Email: strPtr("other@example.com"),
	})

	assert.ErrorIs(t, err, patient.ErrEmailAlreadyUsed)
}

func TestPatientUpdateNotFound(t *testing.T) {
	repo := &patientRepoMock{
		GetByIDFn: func(ctx context.Context, id int) (*patient.Patient, error) {
			return nil, patient.ErrPatientNotFound
		},
	}

	_, err := newPatientService(repo).Update(context.Background(), 99, &dto.PatientRequest{})

	assert.ErrorIs(t, err, patient.ErrPatientNotFound)
}

func TestPatientSearchBlankNameFallsBackToList(t *testing.T) {
	listed := false
	repo := &patientRepoMock{
		ListFn: func(ctx context.Context, d pagination.Descriptor) (*patient.PagedPatients, error) {
			listed = true
			return &patient.PagedPatients{TotalCount: 0}, nil
		},
	}

	page, err := newPatientService(repo).Search(context.Background(), &dto.PatientSearchRequest{Name: "   "})

	require.NoError(t, err)
	assert.True(t, listed)
	assert.NotNil(t, page.Content)
}

func TestPatientSearchPagesResults(t *testing.T) {
	repo := &patientRepoMock{
		SearchByNameFn: func(ctx context.Context, name string, d pagination.Descriptor) (*patient.PagedPatients, error) {
			assert.Equal(t, "silva", name)
			one := &patient.Patient{FirstName: "Ana", LastName: "Silva"}
			one.ID = 7
			return &patient.PagedPatients{Patients: []*patient.Patient{one}, TotalCount: 41}, nil
		},
	}

	req := &dto.PatientSearchRequest{Name: " silva "}
	req.Size = intPtr(10)

	page, err := newPatientService(repo).Search(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int64(41), page.TotalElements)
	assert.Equal(t, 5, page.TotalPages)
	assert.Len(t, page.Content, 1)
}

func TestPatientDelete(t *testing.T) {
	deleted := 0
	repo := &patientRepoMock{
		SoftDeleteFn: func(ctx context.Context, id int) error {
			deleted = id
			return nil
		},
	}

	require.NoError(t, newPatientService(repo).Delete(context.Background(), 7))
	assert.Equal(t, 7, deleted)
}

func TestPatientDeleteNotFound(t *testing.T) {
	repo := &patientRepoMock{
		SoftDeleteFn: func(ctx context.Context, id int) error {
			return patient.ErrPatientNotFound
		},
	}

	assert.ErrorIs(t, newPatientService(repo).Delete(context.Background(), 99), patient.ErrPatientNotFound)
}
