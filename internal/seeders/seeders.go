package seeders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"employee-service/internal/models"
	"employee-service/internal/repository"
)

// ProvinceSeed is one province and the credentials of its admin
type ProvinceSeed struct {
	Name          string
	AdminUsername string
	AdminPassword string
}

// Options selects what is seeded. Empty values are skipped.
type Options struct {
	GlobalAdminUsername string
	GlobalAdminPassword string
	Provinces           []ProvinceSeed
}

// ParseProvinceSeeds parses a comma separated list of name:username:password
func ParseProvinceSeeds(raw string) ([]ProvinceSeed, error) {
	var seeds []ProvinceSeed
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid province seed %q: want name:username:password", entry)
		}
		seed := ProvinceSeed{
			Name:          strings.TrimSpace(parts[0]),
			AdminUsername: strings.TrimSpace(parts[1]),
			AdminPassword: parts[2],
		}
		if seed.Name == "" || seed.AdminUsername == "" || strings.TrimSpace(seed.AdminPassword) == "" {
			return nil, fmt.Errorf("invalid province seed %q: empty field", entry)
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}

// Seeder creates the initial users and provinces. Every step is idempotent.
type Seeder struct {
	users     repository.UserRepository
	provinces repository.ProvinceRepository
	settings  repository.SettingsRepository
	sessions  repository.SessionRepository
	logger    *logrus.Entry
}

func New(db *gorm.DB, logger *logrus.Logger) *Seeder {
	return &Seeder{
		users:     repository.NewUserRepository(db),
		provinces: repository.NewProvinceRepository(db),
		settings:  repository.NewSettingsRepository(db),
		sessions:  repository.NewSessionRepository(db),
		logger:    logger.WithField("component", "seeders"),
	}
}

func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if _, err := s.settings.Get(ctx); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	if opts.GlobalAdminUsername != "" {
		if err := s.SeedGlobalAdmin(ctx, opts.GlobalAdminUsername, opts.GlobalAdminPassword); err != nil {
			return err
		}
	}

	for _, seed := range opts.Provinces {
		if err := s.SeedProvince(ctx, seed); err != nil {
			return err
		}
	}
	return nil
}

// SeedGlobalAdmin creates the global admin unless the username already exists.
// An existing user's password is never reset.
func (s *Seeder) SeedGlobalAdmin(ctx context.Context, username, password string) error {
	existing, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.Role != models.RoleGlobalAdmin {
			return fmt.Errorf("seed user %s exists with role %s", username, existing.Role)
		}
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("seed user %s needs a password", username)
	}
	if err := s.users.Create(ctx, &models.User{Username: username, Role: models.RoleGlobalAdmin}, password); err != nil {
		return fmt.Errorf("failed to seed global admin: %w", err)
	}

	s.logger.WithField("username", username).Info("Seeded global admin")
	return nil
}

// SeedProvince creates the province and its admin, then binds the two. A
// province already bound to a different admin is an error.
func (s *Seeder) SeedProvince(ctx context.Context, seed ProvinceSeed) error {
	log := s.logger.WithField("province", seed.Name)

	province, err := s.provinces.GetByName(ctx, seed.Name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		province = &models.Province{Name: seed.Name}
		if err = s.provinces.Create(ctx, province); err == nil {
			log.Info("Seeded province")
		}
	}
	if err != nil {
		return fmt.Errorf("failed to seed province %s: %w", seed.Name, err)
	}

	admin, err := s.users.GetByUsername(ctx, seed.AdminUsername)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		admin = &models.User{Username: seed.AdminUsername, Role: models.RoleProvinceAdmin, ProvinceID: &province.ID}
		if err := s.users.Create(ctx, admin, seed.AdminPassword); err != nil {
			return fmt.Errorf("failed to seed admin of %s: %w", seed.Name, err)
		}
		log.WithField("username", seed.AdminUsername).Info("Seeded province admin")
	case err != nil:
		return err
	case admin.Role != models.RoleProvinceAdmin || admin.ProvinceID == nil || *admin.ProvinceID != province.ID:
		return fmt.Errorf("seed user %s exists but is not the admin of %s", seed.AdminUsername, seed.Name)
	}

	if err := s.provinces.SetAdmin(ctx, province.ID, admin.ID); err != nil {
		if errors.Is(err, repository.ErrProvinceHasAdmin) {
			return fmt.Errorf("province %s already has a different admin", seed.Name)
		}
		return err
	}
	return nil
}

// ResetPassword replaces a user's password and revokes every active session of
// that user
func (s *Seeder) ResetPassword(ctx context.Context, username, password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("new password for %s is empty", username)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", username)
		}
		return err
	}

	if err := s.users.SetPassword(ctx, user.ID, password); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	if err := s.sessions.RevokeUserSessions(ctx, user.ID, "password_reset"); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	s.logger.WithField("username", username).Info("Password reset, sessions revoked")
	return nil
}
