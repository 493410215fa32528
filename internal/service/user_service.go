package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/abenitj/biblefacts-backend/internal/mailer"
	"github.com/abenitj/biblefacts-backend/internal/model"
)

// userStore is the slice of the user repository the user service needs.
type userStore interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id int) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id int) error
	UpdateProfile(ctx context.Context, id int, email *string, passwordHash *string) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	SetWelcomeEmailSent(ctx context.Context, id int, sent bool) error
	SetAvatar(ctx context.Context, id int, url string) error
}

// UserService handles staff account management and welcome-email delivery.
type UserService struct {
	users       userStore
	auth        *AuthService
	smtp        *SMTPService
	permissions *PermissionService
	log         zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	users userStore,
	auth *AuthService,
	smtp *SMTPService,
	permissions *PermissionService,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:       users,
		auth:        auth,
		smtp:        smtp,
		permissions: permissions,
		log:         log.With().Str("component", "user_service").Logger(),
	}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// Create provisions an account with a generated temporary password and sends
// the welcome email through the active SMTP configuration. The account is
// committed regardless of mail outcome: a failed send only leaves
// welcome_email_sent false for a later resend.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	tempPassword, err := mailer.GenerateTempPassword()
	if err != nil {
		return nil, err
	}
	hash, err := s.auth.HashPassword(tempPassword)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        &req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Status:       model.UserStatusActive,
		Permissions:  req.Permissions,
	}

	if err := s.users.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.sendWelcome(ctx, user, tempPassword)
	return user, nil
}

// Update rewrites account fields and refreshes the cached permission set so
// edits take effect without waiting for cache expiry.
func (s *UserService) Update(ctx context.Context, id int, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	switch {
	case req.ClearPermissions:
		// Drop the explicit override entirely so role defaults apply again.
		user.Permissions = nil
	case req.Permissions != nil:
		user.Permissions = req.Permissions
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.permissions.Refresh(ctx, user)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.permissions.Invalidate(ctx, id)
	return nil
}

// UpdateProfile lets a signed-in user change their own email or password.
func (s *UserService) UpdateProfile(ctx context.Context, id int, req *model.UpdateProfileRequest) (*model.User, error) {
	var passwordHash *string
	if req.Password != nil {
		hash, err := s.auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = &hash
	}

	if err := s.users.UpdateProfile(ctx, id, req.Email, passwordHash); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// UpdateAvatar records a newly uploaded avatar for the signed-in user.
func (s *UserService) UpdateAvatar(ctx context.Context, id int, url string) (*model.User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.users.SetAvatar(ctx, id, url); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// ResendWelcome resets the password to a fresh temporary one and sends the
// welcome email again.
func (s *UserService) ResendWelcome(ctx context.Context, id int) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Email == nil {
		return nil, ErrNoRecipient
	}

	tempPassword, err := mailer.GenerateTempPassword()
	if err != nil {
		return nil, err
	}
	hash, err := s.auth.HashPassword(tempPassword)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return nil, err
	}

	s.sendWelcome(ctx, user, tempPassword)
	return s.Get(ctx, id)
}

// ResetPassword replaces the password with a fresh temporary one and notifies
// the user by email.
func (s *UserService) ResetPassword(ctx context.Context, id int) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.Email == nil {
		return ErrNoRecipient
	}

	tempPassword, err := mailer.GenerateTempPassword()
	if err != nil {
		return err
	}
	hash, err := s.auth.HashPassword(tempPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	msg, err := mailer.BuildPasswordResetMessage(*user.Email, user.Username, tempPassword)
	if err != nil {
		s.log.Error().Err(err).Int("user_id", id).Msg("reset email render failed")
		return nil
	}
	if result, err := s.smtp.SendWithActiveConfig(ctx, msg); err != nil || !result.Success {
		s.log.Warn().Err(err).Int("user_id", id).Msg("reset email not sent")
	}
	return nil
}

// sendWelcome attempts the welcome email and records the outcome. Failures
// are logged, never propagated.
func (s *UserService) sendWelcome(ctx context.Context, user *model.User, tempPassword string) {
	if user.Email == nil {
		return
	}

	msg, err := mailer.BuildWelcomeMessage(*user.Email, user.Username, string(user.Role), tempPassword)
	if err != nil {
		s.log.Error().Err(err).Int("user_id", user.ID).Msg("welcome email render failed")
		return
	}

	result, err := s.smtp.SendWithActiveConfig(ctx, msg)
	if err != nil || !result.Success {
		s.log.Warn().Err(err).Int("user_id", user.ID).Msg("welcome email not sent; flagged for resend")
		_ = s.users.SetWelcomeEmailSent(ctx, user.ID, false)
		return
	}

	user.WelcomeEmailSent = true
	_ = s.users.SetWelcomeEmailSent(ctx, user.ID, true)
}
