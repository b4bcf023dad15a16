// internal/services/roster.go
package services

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/javajoker/catalog-admin/internal/apperr"
	"github.com/javajoker/catalog-admin/internal/config"
	"github.com/javajoker/catalog-admin/internal/models"
)

// Roster holds the dashboard operators in memory. It is seeded at start-up and
// never written back anywhere.
type Roster struct {
	mu    sync.RWMutex
	users []models.User
}

type rosterFile struct {
	Users []models.User `yaml:"users"`
}

// LoadRoster reads USERS_FILE when set; otherwise it seeds one ADMIN from
// ADMIN_USERNAME and ADMIN_PASSWORD. An empty admin password yields an empty
// roster that nobody can sign in to.
func LoadRoster(cfg config.AuthConfig) (*Roster, error) {
	if cfg.UsersFile != "" {
		data, err := os.ReadFile(cfg.UsersFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read users file: %w", err)
		}
		return ParseRoster(data)
	}

	roster := &Roster{}
	if cfg.AdminPassword == "" {
		return roster, nil
	}
	admin := models.User{ID: uuid.NewString(), Username: cfg.AdminUsername, Role: models.RoleAdmin}
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	roster.users = append(roster.users, admin)
	return roster, nil
}

// ParseRoster decodes a YAML roster:
//
//	users:
//	  - username: rahim
//	    role: ADMIN
//	    password_hash: $2a$10$...
func ParseRoster(data []byte) (*Roster, error) {
	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}

	roster := &Roster{}
	for i, u := range file.Users {
		u.Username = strings.TrimSpace(u.Username)
		u.Role = models.Role(strings.ToUpper(string(u.Role)))
		if u.Username == "" || u.PasswordHash == "" {
			return nil, fmt.Errorf("users[%d]: username and password_hash are required", i)
		}
		if !u.Role.Valid() {
			return nil, fmt.Errorf("users[%d]: unknown role %q", i, u.Role)
		}
		if _, ok := roster.find(u.Username); ok {
			return nil, fmt.Errorf("users[%d]: duplicate username %q", i, u.Username)
		}
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		roster.users = append(roster.users, u)
	}
	return roster, nil
}

// find matches usernames case-insensitively. Callers hold the lock.
func (r *Roster) find(username string) (models.User, bool) {
	for _, u := range r.users {
		if strings.EqualFold(u.Username, strings.TrimSpace(username)) {
			return u, true
		}
	}
	return models.User{}, false
}

func (r *Roster) FindByUsername(username string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(username)
}

func (r *Roster) FindByID(id string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// List returns the users sorted by username.
func (r *Roster) List() []models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]models.User(nil), r.users...)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Username) < strings.ToLower(out[j].Username)
	})
	return out
}

func (r *Roster) Add(user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.find(user.Username); ok {
		return apperr.ValidationErr("username already taken", map[string]string{"username": "Username already taken"})
	}
	r.users = append(r.users, user)
	return nil
}

// Remove deletes a user. The last ADMIN cannot be removed.
func (r *Roster) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, admins := -1, 0
	for i, u := range r.users {
		if u.ID == id {
			idx = i
		}
		if u.Role == models.RoleAdmin {
			admins++
		}
	}
	if idx < 0 {
		return apperr.NotFoundErr("user not found")
	}
	if r.users[idx].Role == models.RoleAdmin && admins == 1 {
		return apperr.ValidationErr("cannot remove the last admin", nil)
	}
	r.users = append(r.users[:idx], r.users[idx+1:]...)
	return nil
}
