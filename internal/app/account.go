package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
	"github.com/sufyan123ayaz/Bank-Clone/internal/store"
)

// ErrUnknownSetting is returned for a security toggle that does not exist.
var ErrUnknownSetting = errors.New("unknown security setting")

const (
	msgProfileSaved = "Profile settings saved successfully!"
	msgSignedOut    = "Signed out successfully"
)

// ProfileStore persists each user's editable settings.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)
	SaveProfile(ctx context.Context, userID string, profile domain.Profile) error
	GetSecuritySettings(ctx context.Context, userID string) (domain.SecuritySettings, error)
	SaveSecuritySettings(ctx context.Context, userID string, settings domain.SecuritySettings) error
}

// ProfileInput holds the editable profile fields. Email is not editable.
type ProfileInput struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

// SecurityOverview is the security page: toggles plus recent logins.
type SecurityOverview struct {
	Settings      domain.SecuritySettings `json:"settings"`
	LoginActivity []domain.LoginActivity  `json:"loginActivity"`
}

// AccountService handles profile, security and session actions.
type AccountService struct {
	profiles ProfileStore
	accounts AccountStore
	flows    *FlowRegistry
	notifier Notifier
	logger   *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(profiles ProfileStore, accounts AccountStore, flows *FlowRegistry, notifier Notifier, logger *slog.Logger) *AccountService {
	return &AccountService{
		profiles: profiles,
		accounts: accounts,
		flows:    flows,
		notifier: notifier,
		logger:   logger,
	}
}

// Profile returns the user's saved profile, or one seeded from the session.
// Email always comes from the session.
func (s *AccountService) Profile(ctx context.Context, user domain.User) (domain.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		profile = domain.Profile{FullName: user.FullName}
	} else if err != nil {
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	profile.Email = user.Email
	return profile, nil
}

// UpdateProfile saves input as the user's profile.
func (s *AccountService) UpdateProfile(ctx context.Context, user domain.User, input ProfileInput) (domain.Profile, error) {
	profile := domain.Profile{
		FullName: strings.TrimSpace(input.FullName),
		Email:    user.Email,
		Phone:    strings.TrimSpace(input.Phone),
		Address:  strings.TrimSpace(input.Address),
		City:     strings.TrimSpace(input.City),
	}
	if err := s.profiles.SaveProfile(ctx, user.ID, profile); err != nil {
		return domain.Profile{}, fmt.Errorf("save profile: %w", err)
	}

	s.notify(ctx, user.ID, domain.NotificationSuccess, msgProfileSaved)
	return profile, nil
}

// SecuritySettings returns the user's toggles, all enabled by default.
func (s *AccountService) SecuritySettings(ctx context.Context, user domain.User) (domain.SecuritySettings, error) {
	settings, err := s.profiles.GetSecuritySettings(ctx, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.DefaultSecuritySettings(), nil
	}
	if err != nil {
		return domain.SecuritySettings{}, fmt.Errorf("get security settings: %w", err)
	}
	return settings, nil
}

// SecurityOverview returns the toggles together with the login history.
func (s *AccountService) SecurityOverview(ctx context.Context, user domain.User) (SecurityOverview, error) {
	settings, err := s.SecuritySettings(ctx, user)
	if err != nil {
		return SecurityOverview{}, err
	}
	logins, err := s.LoginActivity(ctx)
	if err != nil {
		return SecurityOverview{}, err
	}
	return SecurityOverview{Settings: settings, LoginActivity: logins}, nil
}

// SetSecuritySetting flips one toggle. The toggles are display-only: turning
// two-factor off does not skip transfer verification.
func (s *AccountService) SetSecuritySetting(ctx context.Context, user domain.User, setting domain.SecuritySetting, enabled bool) (domain.SecuritySettings, error) {
	settings, err := s.SecuritySettings(ctx, user)
	if err != nil {
		return domain.SecuritySettings{}, err
	}

	switch setting {
	case domain.SettingTwoFactor:
		settings.TwoFactorEnabled = enabled
	case domain.SettingLoginAlerts:
		settings.LoginAlerts = enabled
	case domain.SettingTransactionAlerts:
		settings.TransactionAlerts = enabled
	default:
		return domain.SecuritySettings{}, fmt.Errorf("%w: %q", ErrUnknownSetting, setting)
	}

	if err := s.profiles.SaveSecuritySettings(ctx, user.ID, settings); err != nil {
		return domain.SecuritySettings{}, fmt.Errorf("save security settings: %w", err)
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	s.notify(ctx, user.ID, domain.NotificationSuccess, setting.Label()+" "+state)
	return settings, nil
}

// LoginActivity returns the recent login list.
func (s *AccountService) LoginActivity(ctx context.Context) ([]domain.LoginActivity, error) {
	logins, err := s.accounts.LoginActivity(ctx)
	if err != nil {
		return nil, fmt.Errorf("load login activity: %w", err)
	}
	return logins, nil
}

// SignOut discards the user's transfer flow. A transfer that is already
// processing is left to finish.
func (s *AccountService) SignOut(ctx context.Context, user domain.User) {
	if err := s.flows.Discard(user.ID); err != nil {
		s.logger.Warn("transfer flow kept on sign out", "user_id", user.ID, "error", err)
	}
	s.notify(ctx, user.ID, domain.NotificationSuccess, msgSignedOut)
}

func (s *AccountService) notify(ctx context.Context, userID string, kind domain.NotificationKind, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, domain.NewNotification(userID, kind, message))
}
