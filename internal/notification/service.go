package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wirabuild/construction-management/internal"
	"github.com/wirabuild/construction-management/internal/core/events"
)

// DeviceTokenRepository persists registered push targets.
type DeviceTokenRepository interface {
	UpsertDeviceToken(ctx context.Context, userID, token, platform string) error
	ListDeviceTokens(ctx context.Context, userIDs []string) ([]*DeviceToken, error)
	DeleteDeviceToken(ctx context.Context, userID, token string) error
}

// Service registers device tokens and pushes notification payloads onto the
// broker queue. Delivery to the actual devices happens in the worker process.
type Service struct {
	repo      DeviceTokenRepository
	publisher Publisher
	queue     string
	logger    *slog.Logger
}

func NewService(repo DeviceTokenRepository, publisher Publisher, queue string, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		queue:     queue,
		logger:    logger,
	}
}

// RegisterDeviceToken upserts a push token for the user.
func (s *Service) RegisterDeviceToken(ctx context.Context, userID string, dto RegisterDeviceTokenDTO) error {
	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if err := s.repo.UpsertDeviceToken(ctx, userID, dto.Token, dto.Platform); err != nil {
		s.logger.Error("failed to register device token", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to register device token", err)
	}

	s.logger.Info("device token registered", "user_id", userID, "platform", dto.Platform)
	return nil
}

// Dispatch publishes a notification to the broker queue. Failures are logged
// and reported but never block the calling business operation.
func (s *Service) Dispatch(ctx context.Context, n Notification) error {
	if len(n.RecipientUserIDs) == 0 {
		return nil
	}

	body, err := json.Marshal(n)
	if err != nil {
		return internal.NewInternalError("failed to encode notification", err)
	}

	messageID, err := s.publisher.Publish(ctx, s.queue, body, map[string]string{
		"recipients": fmt.Sprintf("%d", len(n.RecipientUserIDs)),
	})
	if err != nil {
		s.logger.Error("failed to publish notification", "error", err, "title", n.Title)
		return internal.NewInternalError("failed to publish notification", err).
			WithDetails(internal.ErrCodeNotificationDispatch)
	}

	s.logger.Info("notification published",
		"message_id", messageID,
		"queue", s.queue,
		"recipients", len(n.RecipientUserIDs))
	return nil
}

// RegisterEventHandlers wires the in-process event bus into the broker: each
// domain event becomes a notification payload on the queue.
func (s *Service) RegisterEventHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeReimbursementApproved, func(ctx context.Context, event events.Event) error {
		e, ok := event.(*events.ReimbursementApprovedEvent)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", event.EventType())
		}
		return s.Dispatch(ctx, Notification{
			RecipientUserIDs: []string{e.UserID},
			Title:            "Reimbursement approved",
			Body:             fmt.Sprintf("Your reimbursement of %d was approved", e.Amount),
			Data: map[string]string{
				"type":             "reimbursement_approved",
				"reimbursement_id": e.ReimbursementID,
				"project_id":       e.ProjectID,
			},
		})
	})

	bus.Subscribe(events.EventTypeReimbursementRejected, func(ctx context.Context, event events.Event) error {
		e, ok := event.(*events.ReimbursementRejectedEvent)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", event.EventType())
		}
		body := "Your reimbursement was rejected"
		if strings.TrimSpace(e.Reason) != "" {
			body = fmt.Sprintf("Your reimbursement was rejected: %s", e.Reason)
		}
		return s.Dispatch(ctx, Notification{
			RecipientUserIDs: []string{e.UserID},
			Title:            "Reimbursement rejected",
			Body:             body,
			Data: map[string]string{
				"type":             "reimbursement_rejected",
				"reimbursement_id": e.ReimbursementID,
				"project_id":       e.ProjectID,
			},
		})
	})

	bus.Subscribe(events.EventTypeTaskAssigned, func(ctx context.Context, event events.Event) error {
		e, ok := event.(*events.TaskAssignedEvent)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", event.EventType())
		}
		return s.Dispatch(ctx, Notification{
			RecipientUserIDs: []string{e.StaffUserID},
			Title:            "New task assigned",
			Body:             fmt.Sprintf("You were assigned to %s", e.TaskName),
			Data: map[string]string{
				"type":          "task_assigned",
				"assignment_id": e.AssignmentID,
				"task_id":       e.TaskID,
				"project_id":    e.ProjectID,
			},
		})
	})
}
