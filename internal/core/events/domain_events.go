package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeReimbursementApproved = "reimbursement.approved"
	EventTypeReimbursementRejected = "reimbursement.rejected"
	EventTypeTaskAssigned          = "task.assigned"
	EventTypePhotoUploaded         = "photo.uploaded"
)

type ReimbursementApprovedEvent struct {
	BaseEvent
	ReimbursementID string `json:"reimbursement_id"`
	ProjectID       string `json:"project_id"`
	UserID          string `json:"user_id"`
	Amount          int64  `json:"amount"`
}

func NewReimbursementApprovedEvent(reimbursementID, projectID, userID string, amount int64) *ReimbursementApprovedEvent {
	return &ReimbursementApprovedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeReimbursementApproved,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"reimbursement_id": reimbursementID,
				"project_id":       projectID,
				"user_id":          userID,
				"amount":           amount,
			},
		},
		ReimbursementID: reimbursementID,
		ProjectID:       projectID,
		UserID:          userID,
		Amount:          amount,
	}
}

type ReimbursementRejectedEvent struct {
	BaseEvent
	ReimbursementID string `json:"reimbursement_id"`
	ProjectID       string `json:"project_id"`
	UserID          string `json:"user_id"`
	Reason          string `json:"reason"`
}

func NewReimbursementRejectedEvent(reimbursementID, projectID, userID, reason string) *ReimbursementRejectedEvent {
	return &ReimbursementRejectedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeReimbursementRejected,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"reimbursement_id": reimbursementID,
				"project_id":       projectID,
				"user_id":          userID,
				"reason":           reason,
			},
		},
		ReimbursementID: reimbursementID,
		ProjectID:       projectID,
		UserID:          userID,
		Reason:          reason,
	}
}

type TaskAssignedEvent struct {
	BaseEvent
	AssignmentID string `json:"assignment_id"`
	TaskID       string `json:"task_id"`
	ProjectID    string `json:"project_id"`
	StaffUserID  string `json:"staff_user_id"`
	TaskName     string `json:"task_name"`
}

func NewTaskAssignedEvent(assignmentID, taskID, projectID, staffUserID, taskName string) *TaskAssignedEvent {
	return &TaskAssignedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTaskAssigned,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"assignment_id": assignmentID,
				"task_id":       taskID,
				"project_id":    projectID,
				"staff_user_id": staffUserID,
				"task_name":     taskName,
			},
		},
		AssignmentID: assignmentID,
		TaskID:       taskID,
		ProjectID:    projectID,
		StaffUserID:  staffUserID,
		TaskName:     taskName,
	}
}

type PhotoUploadedEvent struct {
	BaseEvent
	PhotoID        string `json:"photo_id"`
	ProjectID      string `json:"project_id"`
	UploaderUserID string `json:"uploader_user_id"`
}

func NewPhotoUploadedEvent(photoID, projectID, uploaderUserID string) *PhotoUploadedEvent {
	return &PhotoUploadedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePhotoUploaded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"photo_id":         photoID,
				"project_id":       projectID,
				"uploader_user_id": uploaderUserID,
			},
		},
		PhotoID:        photoID,
		ProjectID:      projectID,
		UploaderUserID: uploaderUserID,
	}
}
