package user

import (
	"encoding/json"
	"fmt"
)

type Repository interface {
	GetByID(userID string) (*User, error)
	UpdateProfile(userID string, name, phone *string, preferences *string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetByID(userID string) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

// UpdateProfileDTO carries the mutable profile fields. Preferences replace
// the whole bag when present.
type UpdateProfileDTO struct {
	Name        *string         `json:"name,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
}

func (dto UpdateProfileDTO) Validate() error {
	if dto.Name == nil && dto.Phone == nil && dto.Preferences == nil {
		return fmt.Errorf("nothing to update")
	}
	if dto.Name != nil && *dto.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if dto.Preferences != nil && !json.Valid(dto.Preferences) {
		return fmt.Errorf("preferences must be valid JSON")
	}
	return nil
}

func (s *Service) UpdateProfile(userID string, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var prefs *string
	if dto.Preferences != nil {
		encoded := string(dto.Preferences)
		prefs = &encoded
	}

	if err := s.repo.UpdateProfile(userID, dto.Name, dto.Phone, prefs); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.GetByID(userID)
}
