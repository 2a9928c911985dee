package mapper

import (
	"testing"
	"time"

	"github.com/clinica-suite/patients-service/internal/domain/patient"
	"github.com/clinica-suite/patients-service/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func TestPatientToEntityNormalizesInput(t *testing.T) {
	m := NewPatientMapper(zap.NewNop())

	p := m.ToEntity(&dto.PatientRequest{
		FirstName: strPtr("  Ana  "),
		LastName:  strPtr("Silva"),
		Email:     strPtr("  Ana.Silva@Example.COM "),
		Gender:    strPtr("FEMALE"),
	})

	assert.Equal(t, "Ana", p.FirstName)
	assert.Equal(t, "Silva", p.LastName)
	assert.Equal(t, "ana.silva@example.com", p.Email)
	assert.Equal(t, patient.GenderFemale, p.Gender)
	assert.True(t, p.Active)
	assert.Zero(t, p.ID)
}

func TestPatientToResponseDerivedFields(t *testing.T) {
	m := NewPatientMapper(zap.NewNop())

	birth := time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC)
	p := &patient.Patient{
		FirstName: "Ana",
		LastName:  "Silva",
		BirthDate: birth,
		Gender:    patient.GenderFemale,
		BloodType: patient.BloodTypeOPos,
	}
	p.ID = 7

	resp := m.ToResponse(p)
	require.NotNil(t, resp)

	assert.Equal(t, "Ana Silva", resp.FullName)
	require.NotNil(t, resp.Age)
	assert.GreaterOrEqual(t, *resp.Age, 36)
	assert.Equal(t, "FEMALE", resp.Gender)
	assert.Equal(t, "O_POSITIVE", resp.BloodType)
}

func TestPatientToResponseLeavesUnknownEnumUnset(t *testing.T) {
	m := NewPatientMapper(zap.NewNop())

	p := &patient.Patient{FirstName: "Ana", LastName: "Silva", Gender: "UNSPECIFIED"}

	resp := m.ToResponse(p)

	assert.Empty(t, resp.Gender)
	assert.Equal(t, "Ana Silva", resp.FullName)
}

func TestPatientToResponseOmitsAgeWithoutBirthDate(t *testing.T) {
	m := NewPatientMapper(zap.NewNop())

	resp := m.ToResponse(&patient.Patient{FirstName: "Ana", LastName: "Silva"})

	assert.Nil(t, resp.Age)
	assert.Nil(t, resp.BirthDate)
}

func TestPatientUpdateEntityPartialMerge(t *testing.T) {
	m := NewPatientMapper(zap.NewNop())

	p := &patient.Patient{
		FirstName: "Ana",
		LastName:  "Silva",
		Email:     "ana@example.com",
		Phone:     "555-0100",
	}
	p.ID = 7
	p.Active = true
	p.Version = 3
	created := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	p.CreatedAt = created

	m.UpdateEntity(p, &dto.PatientRequest{
		LastName: strPtr("Gomez"),
		Phone:    strPtr("   "),
	})

	assert.Equal(t, "Ana", p.FirstName, "absent field must survive")
	assert.Equal(t, "Gomez", p.LastName)
	assert.Equal(t, "555-0100", p.Phone, "blank string must not overwrite")
	assert.Equal(t, "ana@example.com", p.Email)

	assert.Equal(t, 7, p.ID)
	assert.Equal(t, 3, p.Version)
	assert.True(t, p.Active)
	assert.Equal(t, created, p.CreatedAt)
	assert.False(t, p.UpdatedAt.IsZero())
}

func TestPatientUpdateEntityIgnoresInvalidEnum(t *testing.T) {
	m := NewPatientMapper(zap.NewNop())

	p := &patient.Patient{Gender: patient.GenderFemale}
	m.UpdateEntity(p, &dto.PatientRequest{Gender: strPtr("NOT_A_GENDER")})

	assert.Equal(t, patient.GenderFemale, p.Gender)
}
