package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/clinica-suite/patients-service/internal/domain"
	"github.com/clinica-suite/patients-service/internal/domain/medication"
	"github.com/clinica-suite/patients-service/internal/domain/pagination"
	"github.com/clinica-suite/patients-service/internal/dto"
	"github.com/clinica-suite/patients-service/internal/mapper"
	"github.com/clinica-suite/patients-service/pkg/metrics"
	"go.uber.org/zap"
)

type MedicationService struct {
	repo    medication.Repository
	mapper  *mapper.MedicationMapper
	audit   *AuditService
	metrics *metrics.Collector
	log     *zap.Logger
}

func NewMedicationService(repo medication.Repository, m *mapper.MedicationMapper, audit *AuditService, collector *metrics.Collector, log *zap.Logger) *MedicationService {
	return &MedicationService{
		repo:    repo,
		mapper:  m,
		audit:   audit,
		metrics: collector,
		log:     log,
	}
}

func (s *MedicationService) Create(ctx context.Context, req *dto.MedicationRequest) (*dto.MedicationResponse, error) {
	if normalized(req.MedicationName) == "" {
		return nil, &ValidationError{Fields: []string{"medicationName is required"}}
	}

	m := s.mapper.ToEntity(req)
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.ActionCreate, "medication", strconv.Itoa(m.ID))
	s.metrics.RecordsCreated.WithLabelValues("medication").Inc()
	s.log.Info("medication created", zap.Int("medication_id", m.ID))

	return s.mapper.ToResponse(m), nil
}

func (s *MedicationService) GetByID(ctx context.Context, id int) (*dto.MedicationResponse, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToResponse(m), nil
}

func (s *MedicationService) List(ctx context.Context, pg *pagination.Request) (*dto.Page[*dto.MedicationResponse], error) {
	d := pagination.Normalize(pg)
	page, err := s.repo.List(ctx, d)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(s.mapper.ToResponseList(page.Medications), page.TotalCount, d), nil
}

// Search prefers the free-text term when one is given; otherwise the
// structured criteria are AND-combined. All blank means a plain listing.
func (s *MedicationService) Search(ctx context.Context, req *dto.MedicationSearchRequest) (*dto.Page[*dto.MedicationResponse], error) {
	d := pagination.Normalize(&req.Request)

	var (
		page *medication.PagedMedications
		err  error
	)

	if term := strings.TrimSpace(req.SearchTerm); term != "" {
		page, err = s.repo.SearchTerm(ctx, term, d)
	} else {
		criteria := medication.SearchCriteria{
			Name:           strings.TrimSpace(req.Name),
			GenericName:    strings.TrimSpace(req.GenericName),
			MedicationType: strings.TrimSpace(req.MedicationType),
			Manufacturer:   strings.TrimSpace(req.Manufacturer),
		}
		if criteria.IsZero() {
			page, err = s.repo.List(ctx, d)
		} else {
			page, err = s.repo.SearchByCriteria(ctx, criteria, d)
		}
	}
	if err != nil {
		return nil, err
	}

	return dto.NewPage(s.mapper.ToResponseList(page.Medications), page.TotalCount, d), nil
}

func (s *MedicationService) Update(ctx context.Context, id int, req *dto.MedicationRequest) (*dto.MedicationResponse, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mapper.UpdateEntity(m, req)
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.ActionUpdate, "medication", strconv.Itoa(m.ID))
	return s.mapper.ToResponse(m), nil
}

func (s *MedicationService) Delete(ctx context.Context, id int) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, domain.ActionDelete, "medication", strconv.Itoa(id))
	s.metrics.RecordsDeleted.WithLabelValues("medication").Inc()
	s.log.Info("medication deactivated", zap.Int("medication_id", id))
	return nil
}

func (s *MedicationService) Exists(ctx context.Context, id int) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *MedicationService) CountActive(ctx context.Context) (int64, error) {
	return s.repo.CountActive(ctx)
}
