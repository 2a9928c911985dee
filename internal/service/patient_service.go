package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/clinica-suite/patients-service/internal/domain"
	"github.com/clinica-suite/patients-service/internal/domain/pagination"
	"github.com/clinica-suite/patients-service/internal/domain/patient"
	"github.com/clinica-suite/patients-service/internal/dto"
	"github.com/clinica-suite/patients-service/internal/mapper"
	"github.com/clinica-suite/patients-service/pkg/metrics"
	"go.uber.org/zap"
)

type PatientService struct {
	repo    patient.Repository
	mapper  *mapper.PatientMapper
	audit   *AuditService
	metrics *metrics.Collector
	log     *zap.Logger
}

func NewPatientService(repo patient.Repository, m *mapper.PatientMapper, audit *AuditService, collector *metrics.Collector, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:    repo,
		mapper:  m,
		audit:   audit,
		metrics: collector,
		log:     log,
	}
}

func (s *PatientService) Create(ctx context.Context, req *dto.PatientRequest) (*dto.PatientResponse, error) {
	if err := validatePatient(req, true); err != nil {
		return nil, err
	}

	// Friendly pre-check; the partial unique index is the real guarantee.
	if email := normalizedEmail(req.Email); email != "" {
		taken, err := s.repo.ExistsByEmail(ctx, email, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, patient.ErrEmailAlreadyUsed
		}
	}

	p := s.mapper.ToEntity(req)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.ActionCreate, "patient", strconv.Itoa(p.ID))
	s.metrics.RecordsCreated.WithLabelValues("patient").Inc()
	s.log.Info("patient created", zap.Int("patient_id", p.ID))

	return s.mapper.ToResponse(p), nil
}

func (s *PatientService) GetByID(ctx context.Context, id int) (*dto.PatientResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToResponse(p), nil
}

func (s *PatientService) List(ctx context.Context, pg *pagination.Request) (*dto.Page[*dto.PatientResponse], error) {
	d := pagination.Normalize(pg)
	page, err := s.repo.List(ctx, d)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(s.mapper.ToResponseList(page.Patients), page.TotalCount, d), nil
}

// Search finds active patients by a case-insensitive name fragment. A blank
// name degenerates to a plain listing.
func (s *PatientService) Search(ctx context.Context, req *dto.PatientSearchRequest) (*dto.Page[*dto.PatientResponse], error) {
	d := pagination.Normalize(&req.Request)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		page, err := s.repo.List(ctx, d)
		if err != nil {
			return nil, err
		}
		return dto.NewPage(s.mapper.ToResponseList(page.Patients), page.TotalCount, d), nil
	}

	page, err := s.repo.SearchByName(ctx, name, d)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(s.mapper.ToResponseList(page.Patients), page.TotalCount, d), nil
}

func (s *PatientService) Update(ctx context.Context, id int, req *dto.PatientRequest) (*dto.PatientResponse, error) {
	if err := validatePatient(req, false); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if email := normalizedEmail(req.Email); email != "" && email != p.Email {
		taken, err := s.repo.ExistsByEmail(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, patient.ErrEmailAlreadyUsed
		}
	}

	s.mapper.UpdateEntity(p, req)
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.ActionUpdate, "patient", strconv.Itoa(p.ID))
	return s.mapper.ToResponse(p), nil
}

func (s *PatientService) Delete(ctx context.Context, id int) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, domain.ActionDelete, "patient", strconv.Itoa(id))
	s.metrics.RecordsDeleted.WithLabelValues("patient").Inc()
	s.log.Info("patient deactivated", zap.Int("patient_id", id))
	return nil
}

func (s *PatientService) Exists(ctx context.Context, id int) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *PatientService) CountActive(ctx context.Context) (int64, error) {
	return s.repo.CountActive(ctx)
}

// validatePatient checks the fields a request carries. On create the name
// fields are mandatory; on update absent fields are simply not merged.
func validatePatient(req *dto.PatientRequest, creating bool) error {
	var fields []string

	if creating {
		if normalized(req.FirstName) == "" {
			fields = append(fields, "firstName is required")
		}
		if normalized(req.LastName) == "" {
			fields = append(fields, "lastName is required")
		}
	}
	if req.Gender != nil && !patient.Gender(*req.Gender).IsValid() {
		fields = append(fields, "gender must be one of MALE, FEMALE, OTHER")
	}
	if req.BloodType != nil && !patient.BloodType(*req.BloodType).IsValid() {
		fields = append(fields, "bloodType is not a recognized value")
	}
	if req.BirthDate != nil && req.BirthDate.After(time.Now()) {
		fields = append(fields, "birthDate must not be in the future")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func normalized(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func normalizedEmail(s *string) string {
	return strings.ToLower(normalized(s))
}
