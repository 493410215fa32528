package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/abenitj/biblefacts-backend/internal/mailer"
	"github.com/abenitj/biblefacts-backend/internal/model"
	"github.com/abenitj/biblefacts-backend/internal/secret"
)

// smtpConfigStore is the slice of the SMTP config repository the service needs.
type smtpConfigStore interface {
	List(ctx context.Context) ([]model.SMTPConfig, error)
	GetByID(ctx context.Context, id int) (*model.SMTPConfig, error)
	GetActive(ctx context.Context) (*model.SMTPConfig, error)
	Create(ctx context.Context, c *model.SMTPConfig) error
	Update(ctx context.Context, c *model.SMTPConfig) error
	Activate(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

// Mailer dials SMTP transports. Implemented by mailer.SMTPMailer.
type Mailer interface {
	Verify(ctx context.Context, t mailer.Transport) error
	Send(ctx context.Context, t mailer.Transport, msg mailer.Message) error
}

// TestResult reports a connection verification attempt.
type TestResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SendResult reports a single send attempt.
type SendResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SMTPService manages mail configurations and dispatches email through the
// active one. Credentials are encrypted at rest; activation clears every
// other active flag transactionally so at most one config is active.
type SMTPService struct {
	configs smtpConfigStore
	mail    Mailer
	cipher  *secret.Cipher
	log     zerolog.Logger
}

// NewSMTPService creates a new SMTPService.
func NewSMTPService(configs smtpConfigStore, mail Mailer, cipher *secret.Cipher, log zerolog.Logger) *SMTPService {
	return &SMTPService{
		configs: configs,
		mail:    mail,
		cipher:  cipher,
		log:     log.With().Str("component", "smtp_service").Logger(),
	}
}

func (s *SMTPService) List(ctx context.Context) ([]model.SMTPConfig, error) {
	return s.configs.List(ctx)
}

func (s *SMTPService) Get(ctx context.Context, id int) (*model.SMTPConfig, error) {
	c, err := s.configs.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// Create encrypts the credential and stores the configuration.
func (s *SMTPService) Create(ctx context.Context, req *model.CreateSMTPConfigRequest) (*model.SMTPConfig, error) {
	enc, err := s.cipher.Encrypt(req.Password)
	if err != nil {
		return nil, err
	}

	cfg := &model.SMTPConfig{
		Name:        req.Name,
		Host:        req.Host,
		Port:        req.Port,
		Secure:      req.Secure,
		Username:    req.Username,
		PasswordEnc: enc,
		FromEmail:   req.FromEmail,
		FromName:    req.FromName,
		IsActive:    req.IsActive,
	}
	if err := s.configs.Create(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Update replaces a configuration. An empty password keeps the stored
// credential.
func (s *SMTPService) Update(ctx context.Context, id int, req *model.UpdateSMTPConfigRequest) (*model.SMTPConfig, error) {
	cfg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg.Name = req.Name
	cfg.Host = req.Host
	cfg.Port = req.Port
	cfg.Secure = req.Secure
	cfg.Username = req.Username
	cfg.FromEmail = req.FromEmail
	cfg.FromName = req.FromName
	cfg.IsActive = req.IsActive

	if req.Password != "" {
		enc, err := s.cipher.Encrypt(req.Password)
		if err != nil {
			return nil, err
		}
		cfg.PasswordEnc = enc
	}

	if err := s.configs.Update(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Activate marks one configuration active, clearing every other row.
func (s *SMTPService) Activate(ctx context.Context, id int) error {
	err := s.configs.Activate(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *SMTPService) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.configs.Delete(ctx, id)
}

// Test verifies connectivity and authentication against one configuration
// without sending a message.
func (s *SMTPService) Test(ctx context.Context, id int) (*TestResult, error) {
	cfg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	transport, err := s.transportFor(cfg)
	if err != nil {
		return nil, err
	}

	if err := s.mail.Verify(ctx, transport); err != nil {
		s.log.Warn().Err(err).Int("config_id", id).Msg("SMTP verification failed")
		return &TestResult{Success: false, Error: err.Error()}, nil
	}
	return &TestResult{Success: true}, nil
}

// SendWithActiveConfig sends one message through the active configuration.
// With no active configuration it reports failure without opening any
// connection. A single attempt is the entire contract.
func (s *SMTPService) SendWithActiveConfig(ctx context.Context, msg mailer.Message) (*SendResult, error) {
	cfg, err := s.configs.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return &SendResult{Success: false, Error: ErrNoActiveSMTPConfig.Error()}, ErrNoActiveSMTPConfig
	}

	transport, err := s.transportFor(cfg)
	if err != nil {
		return nil, err
	}

	if err := s.mail.Send(ctx, transport, msg); err != nil {
		s.log.Error().Err(err).Int("config_id", cfg.ID).Msg("email send failed")
		return &SendResult{Success: false, Error: err.Error()}, nil
	}
	return &SendResult{Success: true}, nil
}

func (s *SMTPService) transportFor(cfg *model.SMTPConfig) (mailer.Transport, error) {
	password, err := s.cipher.Decrypt(cfg.PasswordEnc)
	if err != nil {
		return mailer.Transport{}, err
	}

	fromName := ""
	if cfg.FromName != nil {
		fromName = *cfg.FromName
	}

	return mailer.Transport{
		Host:      cfg.Host,
		Port:      cfg.Port,
		Secure:    cfg.Secure,
		Username:  cfg.Username,
		Password:  password,
		FromEmail: cfg.FromEmail,
		FromName:  fromName,
	}, nil
}
