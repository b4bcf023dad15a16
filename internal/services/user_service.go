// internal/services/user_service.go
package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/javajoker/catalog-admin/internal/apperr"
	"github.com/javajoker/catalog-admin/internal/models"
	"github.com/javajoker/catalog-admin/internal/utils"
)

// UserService manages the roster. Changes last for the life of the process.
type UserService struct {
	roster *Roster
}

type CreateUserRequest struct {
	Username string      `json:"username" validate:"required,username"`
	Password string      `json:"password" validate:"required,strong_password"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=ADMIN EDITOR"`
}

func NewUserService(roster *Roster) *UserService {
	return &UserService{roster: roster}
}

func (s *UserService) List() []models.User {
	return s.roster.List()
}

// Create adds a user; the role defaults to EDITOR.
func (s *UserService) Create(req *CreateUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if errs := utils.GetValidationErrors(utils.ValidateStruct(req)); len(errs) > 0 {
		fields := make(map[string]string, len(errs))
		for _, e := range errs {
			fields[e.Field] = e.Message
		}
		return nil, apperr.ValidationErr("invalid user", fields)
	}

	role := req.Role
	if role == "" {
		role = models.RoleEditor
	}

	user := models.User{ID: uuid.NewString(), Username: req.Username, Role: role}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.roster.Add(user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user other than the caller.
func (s *UserService) Delete(callerID, id string) error {
	if callerID == id {
		return apperr.ValidationErr("you cannot remove yourself", nil)
	}
	return s.roster.Remove(id)
}
