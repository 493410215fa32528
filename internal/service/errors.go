package service

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP codes.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrReligionHasTopics  = errors.New("religion still has topics")
	ErrTopicHasContent    = errors.New("topic has content attached")
	ErrVersionConflict    = errors.New("content version conflict")
	ErrNoActiveSMTPConfig = errors.New("no active SMTP configuration found")
	ErrNoRecipient        = errors.New("account has no email address")
)
