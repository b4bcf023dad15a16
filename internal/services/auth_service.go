// internal/services/auth_service.go
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-admin/internal/apperr"
	"github.com/javajoker/catalog-admin/internal/config"
	"github.com/javajoker/catalog-admin/internal/models"
	"github.com/javajoker/catalog-admin/internal/utils"
)

type AuthService struct {
	roster *Roster
	cfg    *config.Config
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User        models.User `json:"user"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"` // in seconds
}

func NewAuthService(roster *Roster, cfg *config.Config) *AuthService {
	return &AuthService{
		roster: roster,
		cfg:    cfg,
	}
}

// Login checks the password against the roster's bcrypt hash and issues a
// signed access token. Usernames match regardless of case.
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperr.ValidationErr("username and password are required", nil)
	}

	user, ok := s.roster.FindByUsername(req.Username)
	if !ok || user.CheckPassword(req.Password) != nil {
		logrus.WithField("username", req.Username).Warn("Failed sign-in attempt")
		return nil, apperr.UnauthorizedErr("invalid username or password")
	}

	accessToken, err := utils.GenerateJWT(user.ID, user.Username, string(user.Role), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User signed in")

	return &AuthResponse{
		User:        user,
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}

// Me resolves the user behind a token. A user removed from the roster after the
// token was issued is no longer accepted.
func (s *AuthService) Me(userID string) (*models.User, error) {
	user, ok := s.roster.FindByID(userID)
	if !ok {
		return nil, apperr.UnauthorizedErr("user no longer exists")
	}
	return &user, nil
}
