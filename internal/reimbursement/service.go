package reimbursement

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wirabuild/construction-management/internal"
	"github.com/wirabuild/construction-management/internal/auth"
	reimbursementDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/reimbursement"
	"github.com/wirabuild/construction-management/internal/core/events"
	"github.com/wirabuild/construction-management/internal/project"
)

// Repository is the data access surface for reimbursements.
type Repository interface {
	CreateReimbursement(record *reimbursementDatamodel.Reimbursement) error
	GetReimbursement(id string) (*reimbursementDatamodel.Reimbursement, error)
	ListByProject(projectID string) ([]*reimbursementDatamodel.Reimbursement, error)
	SetStatus(id, status string, processedBy string, processedAt time.Time, rejectReason string) error
}

// ActualsRecomputer refreshes the denormalized project financials. The
// project service implements this.
type ActualsRecomputer interface {
	RecomputeActuals(ctx context.Context, projectID string) (*project.Project, error)
}

// Service handles reimbursement business logic. Approval publishes a domain
// event and refreshes the project's actual cost.
type Service struct {
	repo       Repository
	recomputer ActualsRecomputer
	eventBus   *events.EventBus
	logger     *slog.Logger
}

func NewService(repo Repository, recomputer ActualsRecomputer, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		recomputer: recomputer,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Submit files a pending reimbursement for the acting user.
func (s *Service) Submit(ctx context.Context, actor *auth.User, projectID string, dto SubmitReimbursementDTO) (*Reimbursement, error) {
	if actor.CompanyID == nil {
		return nil, internal.ErrNoCompany
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record := &reimbursementDatamodel.Reimbursement{
		ID:          uuid.NewString(),
		CompanyID:   *actor.CompanyID,
		ProjectID:   projectID,
		UserID:      actor.ID,
		Amount:      dto.Amount,
		Description: dto.Description,
		Category:    dto.Category,
		ReceiptURL:  dto.ReceiptURL,
		Status:      string(StatusPending),
	}

	if err := s.repo.CreateReimbursement(record); err != nil {
		s.logger.Error("failed to submit reimbursement", "error", err, "project_id", projectID)
		return nil, internal.NewInternalError("failed to submit reimbursement", err)
	}

	s.logger.Info("reimbursement submitted",
		"reimbursement_id", record.ID,
		"project_id", projectID,
		"amount", record.Amount)
	return FromDataModel(record), nil
}

// Get returns a reimbursement. The submitter always sees their own record;
// anyone else needs project management capability in the same company.
func (s *Service) Get(ctx context.Context, actor *auth.User, id string) (*Reimbursement, error) {
	record, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(record), nil
}

// ListByProject returns the project's reimbursements. Staff without manage
// capability only see their own submissions.
func (s *Service) ListByProject(ctx context.Context, actor *auth.User, projectID string) ([]*Reimbursement, error) {
	if actor.CompanyID == nil {
		return nil, internal.ErrNoCompany
	}

	records, err := s.repo.ListByProject(projectID)
	if err != nil {
		s.logger.Error("failed to list reimbursements", "error", err, "project_id", projectID)
		return nil, internal.NewInternalError("failed to list reimbursements", err)
	}

	out := make([]*Reimbursement, 0, len(records))
	for _, record := range records {
		if record.CompanyID != *actor.CompanyID {
			continue
		}
		if record.UserID != actor.ID && !actor.Permissions.CanManageProjects {
			continue
		}
		out = append(out, FromDataModel(record))
	}
	return out, nil
}

// Approve marks a pending reimbursement approved, publishes the approval
// event and refreshes the project's actuals.
func (s *Service) Approve(ctx context.Context, actor *auth.User, id string) (*Reimbursement, error) {
	if !actor.Permissions.CanApproveDailyReports {
		return nil, internal.ErrUnauthorizedAccess
	}

	record, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}
	if record.Status != string(StatusPending) {
		return nil, internal.ErrCannotModifyRecord
	}

	processedAt := time.Now()
	if err := s.repo.SetStatus(id, string(StatusApproved), actor.ID, processedAt, ""); err != nil {
		s.logger.Error("failed to approve reimbursement", "error", err, "reimbursement_id", id)
		return nil, internal.NewInternalError("failed to approve reimbursement", err)
	}

	record.Status = string(StatusApproved)
	record.ProcessedAt = &processedAt
	record.ProcessedBy = &actor.ID

	if s.eventBus != nil {
		event := events.NewReimbursementApprovedEvent(record.ID, record.ProjectID, record.UserID, record.Amount)
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish approval event", "error", err, "reimbursement_id", id)
		}
	}

	if s.recomputer != nil {
		if _, err := s.recomputer.RecomputeActuals(ctx, record.ProjectID); err != nil {
			s.logger.Warn("failed to recompute project actuals after approval",
				"error", err, "project_id", record.ProjectID)
		}
	}

	s.logger.Info("reimbursement approved",
		"reimbursement_id", id,
		"approver_id", actor.ID,
		"amount", record.Amount)
	return FromDataModel(record), nil
}

// Reject marks a pending reimbursement rejected.
func (s *Service) Reject(ctx context.Context, actor *auth.User, id string, dto RejectReimbursementDTO) (*Reimbursement, error) {
	if !actor.Permissions.CanApproveDailyReports {
		return nil, internal.ErrUnauthorizedAccess
	}

	record, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}
	if record.Status != string(StatusPending) {
		return nil, internal.ErrCannotModifyRecord
	}

	processedAt := time.Now()
	if err := s.repo.SetStatus(id, string(StatusRejected), actor.ID, processedAt, dto.Reason); err != nil {
		s.logger.Error("failed to reject reimbursement", "error", err, "reimbursement_id", id)
		return nil, internal.NewInternalError("failed to reject reimbursement", err)
	}

	record.Status = string(StatusRejected)
	record.ProcessedAt = &processedAt
	record.ProcessedBy = &actor.ID
	record.RejectReason = dto.Reason

	if s.eventBus != nil {
		event := events.NewReimbursementRejectedEvent(record.ID, record.ProjectID, record.UserID, dto.Reason)
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish rejection event", "error", err, "reimbursement_id", id)
		}
	}

	s.logger.Info("reimbursement rejected", "reimbursement_id", id, "approver_id", actor.ID)
	return FromDataModel(record), nil
}

func (s *Service) loadVisible(actor *auth.User, id string) (*reimbursementDatamodel.Reimbursement, error) {
	if actor.CompanyID == nil {
		return nil, internal.ErrNoCompany
	}

	record, err := s.repo.GetReimbursement(id)
	if err != nil {
		s.logger.Error("failed to load reimbursement", "error", err, "reimbursement_id", id)
		return nil, internal.NewInternalError("failed to load reimbursement", err)
	}
	if record == nil || record.CompanyID != *actor.CompanyID {
		return nil, internal.ErrReimbursementNotFound
	}
	if record.UserID != actor.ID && !actor.Permissions.CanManageProjects {
		return nil, internal.ErrUnauthorizedAccess
	}
	return record, nil
}
