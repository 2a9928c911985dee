package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clinica-suite/patients-service/internal/domain"
	"github.com/clinica-suite/patients-service/internal/domain/medication"
	"github.com/clinica-suite/patients-service/internal/domain/pagination"
	"github.com/clinica-suite/patients-service/internal/domain/patient"
	"github.com/clinica-suite/patients-service/internal/domain/prescription"
	"github.com/clinica-suite/patients-service/internal/mapper"
	"github.com/clinica-suite/patients-service/internal/service"
	"github.com/clinica-suite/patients-service/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memPatientRepo is an in-memory stand-in that mirrors the persistence
// contract: reads see active rows only, email uniqueness holds among them.
type memPatientRepo struct {
	rows   map[int]*patient.Patient
	nextID int
}

func newMemPatientRepo() *memPatientRepo {
	return &memPatientRepo{rows: make(map[int]*patient.Patient), nextID: 1}
}

func (r *memPatientRepo) Create(_ context.Context, p *patient.Patient) error {
	if p.Email != "" {
		taken, _ := r.ExistsByEmail(context.Background(), p.Email, 0)
		if taken {
			return patient.ErrEmailAlreadyUsed
		}
	}
	p.ID = r.nextID
	r.nextID++
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *memPatientRepo) GetByID(_ context.Context, id int) (*patient.Patient, error) {
	p, ok := r.rows[id]
	if !ok || !p.Active {
		return nil, patient.ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPatientRepo) List(_ context.Context, d pagination.Descriptor) (*patient.PagedPatients, error) {
	var out []*patient.Patient
	for i := 1; i < r.nextID; i++ {
		if p, ok := r.rows[i]; ok && p.Active {
			cp := *p
			out = append(out, &cp)
		}
	}
	total := int64(len(out))
	if d.Offset < len(out) {
		out = out[d.Offset:]
	} else {
		out = nil
	}
	if len(out) > d.Limit {
		out = out[:d.Limit]
	}
	return &patient.PagedPatients{Patients: out, TotalCount: total}, nil
}

func (r *memPatientRepo) SearchByName(_ context.Context, name string, d pagination.Descriptor) (*patient.PagedPatients, error) {
	needle := strings.ToLower(name)
	var out []*patient.Patient
	for i := 1; i < r.nextID; i++ {
		p, ok := r.rows[i]
		if !ok || !p.Active {
			continue
		}
		if strings.Contains(strings.ToLower(p.FirstName), needle) ||
			strings.Contains(strings.ToLower(p.LastName), needle) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return &patient.PagedPatients{Patients: out, TotalCount: int64(len(out))}, nil
}

func (r *memPatientRepo) Exists(_ context.Context, id int) (bool, error) {
	p, ok := r.rows[id]
	return ok && p.Active, nil
}

func (r *memPatientRepo) ExistsByEmail(_ context.Context, email string, excludeID int) (bool, error) {
	for _, p := range r.rows {
		if p.Active && p.Email == email && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPatientRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.rows {
		if p.Active {
			n++
		}
	}
	return n, nil
}

func (r *memPatientRepo) Save(_ context.Context, p *patient.Patient) error {
	existing, ok := r.rows[p.ID]
	if !ok || !existing.Active {
		return patient.ErrPatientNotFound
	}
	p.Version++
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *memPatientRepo) SoftDelete(ctx context.Context, id int) error {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.Active = false
	return r.Save(ctx, p)
}

// stubPrescriptionRepo covers only what the patient routes touch.
type stubPrescriptionRepo struct{}

func (stubPrescriptionRepo) Create(context.Context, *prescription.Prescription) error { return nil }
func (stubPrescriptionRepo) GetByID(context.Context, int) (*prescription.Prescription, error) {
	return nil, prescription.ErrPrescriptionNotFound
}
func (stubPrescriptionRepo) List(context.Context, int, pagination.Descriptor) (*prescription.PagedPrescriptions, error) {
	return &prescription.PagedPrescriptions{}, nil
}
func (stubPrescriptionRepo) Exists(context.Context, int) (bool, error) { return false, nil }
func (stubPrescriptionRepo) Save(context.Context, *prescription.Prescription) error {
	return nil
}
func (stubPrescriptionRepo) SoftDelete(context.Context, int) error { return nil }
func (stubPrescriptionRepo) AddMedicationLink(context.Context, *prescription.PrescriptionMedication) error {
	return nil
}
func (stubPrescriptionRepo) GetMedicationLink(context.Context, int, int) (*prescription.PrescriptionMedication, error) {
	return nil, prescription.ErrMedicationNotLinked
}
func (stubPrescriptionRepo) ListMedicationLinks(context.Context, int) ([]*prescription.PrescriptionMedication, error) {
	return nil, nil
}
func (stubPrescriptionRepo) SaveMedicationLink(context.Context, *prescription.PrescriptionMedication) error {
	return nil
}

type stubMedicationRepo struct{}

func (stubMedicationRepo) Create(context.Context, *medication.Medication) error { return nil }
func (stubMedicationRepo) GetByID(context.Context, int) (*medication.Medication, error) {
	return nil, medication.ErrMedicationNotFound
}
func (stubMedicationRepo) List(context.Context, pagination.Descriptor) (*medication.PagedMedications, error) {
	return &medication.PagedMedications{}, nil
}
func (stubMedicationRepo) SearchTerm(context.Context, string, pagination.Descriptor) (*medication.PagedMedications, error) {
	return &medication.PagedMedications{}, nil
}
func (stubMedicationRepo) SearchByCriteria(context.Context, medication.SearchCriteria, pagination.Descriptor) (*medication.PagedMedications, error) {
	return &medication.PagedMedications{}, nil
}
func (stubMedicationRepo) Exists(context.Context, int) (bool, error)  { return false, nil }
func (stubMedicationRepo) CountActive(context.Context) (int64, error) { return 0, nil }
func (stubMedicationRepo) Save(context.Context, *medication.Medication) error {
	return nil
}
func (stubMedicationRepo) SoftDelete(context.Context, int) error { return nil }

type nopAuditRepo struct{}

func (nopAuditRepo) Create(context.Context, *domain.AuditLog) error { return nil }

func newPatientTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	collector := metrics.NewCollector("test", prometheus.NewRegistry())
	audit := service.NewAuditService(nopAuditRepo{}, collector, log)
	t.Cleanup(audit.Shutdown)

	repo := newMemPatientRepo()
	patientSvc := service.NewPatientService(repo, mapper.NewPatientMapper(log), audit, collector, log)
	prescriptionSvc := service.NewPrescriptionService(
		stubPrescriptionRepo{}, repo, stubMedicationRepo{},
		mapper.NewPrescriptionMapper(log), audit, collector, log,
	)

	r := gin.New()
	api := r.Group("/api/v1")
	NewPatientHandler(patientSvc, prescriptionSvc).Register(api)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPatientLifecycle(t *testing.T) {
	r := newPatientTestRouter(t)

	// create
	w := doJSON(t, r, http.MethodPost, "/api/v1/patients", gin.H{
		"firstName": "Ana",
		"lastName":  "Silva",
		"email":     "ana@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID       int    `json:"id"`
		FullName string `json:"fullName"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Ana Silva", created.FullName)
	require.NotZero(t, created.ID)

	// duplicate email
	w = doJSON(t, r, http.MethodPost, "/api/v1/patients", gin.H{
		"firstName": "Other",
		"lastName":  "Person",
		"email":     "ana@example.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// read back
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/patients/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// list envelope
	w = doJSON(t, r, http.MethodGet, "/api/v1/patients?page=0&size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Content       []json.RawMessage `json:"content"`
		TotalElements int64             `json:"totalElements"`
		TotalPages    int               `json:"totalPages"`
		Size          int               `json:"size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 10, page.Size)
	assert.Len(t, page.Content, 1)

	// partial update
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/patients/%d", created.ID), gin.H{
		"lastName": "Gomez",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Ana", updated.FirstName)
	assert.Equal(t, "Gomez", updated.LastName)

	// soft delete
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/patients/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// gone from reads
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/patients/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/patients/%d/exists", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"exists":false}`, w.Body.String())
}

func TestPatientCreateValidation(t *testing.T) {
	r := newPatientTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/patients", gin.H{"firstName": "  "})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Fields)
}

func TestPatientInvalidIDParam(t *testing.T) {
	r := newPatientTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/patients/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/patients/-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatientSearchByName(t *testing.T) {
	r := newPatientTestRouter(t)

	for _, name := range [][2]string{{"Ana", "Silva"}, {"Bruno", "Costa"}} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/patients", gin.H{
			"firstName": name[0],
			"lastName":  name[1],
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/patients/search", gin.H{"name": "silva"})
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		TotalElements int64 `json:"totalElements"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.TotalElements)
}

func TestPatientCount(t *testing.T) {
	r := newPatientTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/patients", gin.H{"firstName": "Ana", "lastName": "Silva"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/patients/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())
}
