package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abenitj/biblefacts-backend/internal/mailer"
	"github.com/abenitj/biblefacts-backend/internal/model"
	"github.com/abenitj/biblefacts-backend/internal/secret"
)

type fakeSMTPConfigStore struct {
	configs map[int]*model.SMTPConfig
	active  int
	nextID  int
}

func newFakeSMTPConfigStore() *fakeSMTPConfigStore {
	return &fakeSMTPConfigStore{configs: map[int]*model.SMTPConfig{}}
}

func (s *fakeSMTPConfigStore) List(_ context.Context) ([]model.SMTPConfig, error) {
	var out []model.SMTPConfig
	for _, c := range s.configs {
		out = append(out, *c)
	}
	return out, nil
}

func (s *fakeSMTPConfigStore) GetByID(_ context.Context, id int) (*model.SMTPConfig, error) {
	c, ok := s.configs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (s *fakeSMTPConfigStore) GetActive(_ context.Context) (*model.SMTPConfig, error) {
	c, ok := s.configs[s.active]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (s *fakeSMTPConfigStore) Create(_ context.Context, c *model.SMTPConfig) error {
	s.nextID++
	c.ID = s.nextID
	copied := *c
	s.configs[c.ID] = &copied
	if c.IsActive {
		s.active = c.ID
	}
	return nil
}

func (s *fakeSMTPConfigStore) Update(_ context.Context, c *model.SMTPConfig) error {
	copied := *c
	s.configs[c.ID] = &copied
	if c.IsActive {
		s.active = c.ID
	}
	return nil
}

func (s *fakeSMTPConfigStore) Activate(_ context.Context, id int) error {
	if _, ok := s.configs[id]; !ok {
		return pgx.ErrNoRows
	}
	s.active = id
	return nil
}

func (s *fakeSMTPConfigStore) Delete(_ context.Context, id int) error {
	delete(s.configs, id)
	return nil
}

// fakeMailer records calls instead of dialing anything.
type fakeMailer struct {
	verifyErr error
	sendErr   error
	verifies  int
	sends     int
}

func (m *fakeMailer) Verify(_ context.Context, _ mailer.Transport) error {
	m.verifies++
	return m.verifyErr
}

func (m *fakeMailer) Send(_ context.Context, _ mailer.Transport, _ mailer.Message) error {
	m.sends++
	return m.sendErr
}

func newSMTPFixture(t *testing.T) (*SMTPService, *fakeSMTPConfigStore, *fakeMailer) {
	t.Helper()
	cipher, err := secret.NewCipher(make([]byte, 32))
	require.NoError(t, err)

	store := newFakeSMTPConfigStore()
	mail := &fakeMailer{}
	return NewSMTPService(store, mail, cipher, zerolog.Nop()), store, mail
}

func createConfigRequest() *model.CreateSMTPConfigRequest {
	return &model.CreateSMTPConfigRequest{
		Name:      "primary",
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "mailer@example.com",
		Password:  "hunter2",
		FromEmail: "noreply@example.com",
		IsActive:  true,
	}
}

func TestSMTPCreateEncryptsPassword(t *testing.T) {
	svc, store, _ := newSMTPFixture(t)

	cfg, err := svc.Create(context.Background(), createConfigRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.PasswordEnc)
	assert.NotContains(t, string(cfg.PasswordEnc), "hunter2")
	assert.Len(t, store.configs, 1)
}

func TestSMTPUpdateEmptyPasswordKeepsStoredCredential(t *testing.T) {
	svc, _, _ := newSMTPFixture(t)

	created, err := svc.Create(context.Background(), createConfigRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, &model.UpdateSMTPConfigRequest{
		Name:      "primary-renamed",
		Host:      created.Host,
		Port:      created.Port,
		Username:  created.Username,
		Password:  "",
		FromEmail: created.FromEmail,
		IsActive:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, created.PasswordEnc, updated.PasswordEnc)
	assert.Equal(t, "primary-renamed", updated.Name)
}

func TestSMTPUpdateNewPasswordReplacesCredential(t *testing.T) {
	svc, _, _ := newSMTPFixture(t)

	created, err := svc.Create(context.Background(), createConfigRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, &model.UpdateSMTPConfigRequest{
		Name:      created.Name,
		Host:      created.Host,
		Port:      created.Port,
		Username:  created.Username,
		Password:  "correct horse",
		FromEmail: created.FromEmail,
		IsActive:  true,
	})
	require.NoError(t, err)
	assert.NotEqual(t, created.PasswordEnc, updated.PasswordEnc)
}

func TestSMTPActivateUnknownConfig(t *testing.T) {
	svc, _, _ := newSMTPFixture(t)
	assert.ErrorIs(t, svc.Activate(context.Background(), 42), ErrNotFound)
}

func TestSMTPTestReportsVerifyFailureWithoutError(t *testing.T) {
	svc, _, mail := newSMTPFixture(t)
	mail.verifyErr = errors.New("535 authentication failed")

	created, err := svc.Create(context.Background(), createConfigRequest())
	require.NoError(t, err)

	result, err := svc.Test(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "authentication failed")
	assert.Equal(t, 1, mail.verifies)
	assert.Zero(t, mail.sends)
}

func TestSendWithActiveConfigNoActiveDialsNothing(t *testing.T) {
	svc, _, mail := newSMTPFixture(t)

	result, err := svc.SendWithActiveConfig(context.Background(), mailer.Message{
		To:      []string{"user@example.com"},
		Subject: "Welcome",
	})

	assert.ErrorIs(t, err, ErrNoActiveSMTPConfig)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, "no active SMTP configuration found", result.Error)
	// No transport may be constructed, let alone dialed.
	assert.Zero(t, mail.sends)
	assert.Zero(t, mail.verifies)
}

func TestSendWithActiveConfigSingleAttempt(t *testing.T) {
	svc, _, mail := newSMTPFixture(t)
	mail.sendErr = errors.New("connection reset")

	_, err := svc.Create(context.Background(), createConfigRequest())
	require.NoError(t, err)

	result, err := svc.SendWithActiveConfig(context.Background(), mailer.Message{
		To:      []string{"user@example.com"},
		Subject: "Welcome",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "connection reset")
	// One attempt is the entire contract: no retries.
	assert.Equal(t, 1, mail.sends)
}

func TestSendWithActiveConfigSuccess(t *testing.T) {
	svc, _, mail := newSMTPFixture(t)

	_, err := svc.Create(context.Background(), createConfigRequest())
	require.NoError(t, err)

	result, err := svc.SendWithActiveConfig(context.Background(), mailer.Message{
		To:      []string{"user@example.com"},
		Subject: "Welcome",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, mail.sends)
}
