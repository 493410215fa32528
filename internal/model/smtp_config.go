package model

import "time"

// SMTPConfig is a named outbound mail configuration. At most one config is
// active at a time; activation is enforced transactionally. The password is
// stored AES-GCM encrypted and never serialized in responses.
type SMTPConfig struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Host        string    `json:"host"`
	Port        int       `json:"port"`
	Secure      bool      `json:"secure"`
	Username    string    `json:"username"`
	PasswordEnc []byte    `json:"-"`
	FromEmail   string    `json:"from_email"`
	FromName    *string   `json:"from_name,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateSMTPConfigRequest is the payload for creating an SMTP configuration.
type CreateSMTPConfigRequest struct {
	Name      string  `json:"name" binding:"required,max=100"`
	Host      string  `json:"host" binding:"required,max=255"`
	Port      int     `json:"port" binding:"required,min=1,max=65535"`
	Secure    bool    `json:"secure"`
	Username  string  `json:"username" binding:"required,max=255"`
	Password  string  `json:"password" binding:"required,max=255"`
	FromEmail string  `json:"from_email" binding:"required,email,max=255"`
	FromName  *string `json:"from_name,omitempty" binding:"omitempty,max=100"`
	IsActive  bool    `json:"is_active"`
}

// UpdateSMTPConfigRequest is the payload for updating an SMTP configuration.
// An empty password keeps the stored credential.
type UpdateSMTPConfigRequest struct {
	Name      string  `json:"name" binding:"required,max=100"`
	Host      string  `json:"host" binding:"required,max=255"`
	Port      int     `json:"port" binding:"required,min=1,max=65535"`
	Secure    bool    `json:"secure"`
	Username  string  `json:"username" binding:"required,max=255"`
	Password  string  `json:"password" binding:"omitempty,max=255"`
	FromEmail string  `json:"from_email" binding:"required,email,max=255"`
	FromName  *string `json:"from_name,omitempty" binding:"omitempty,max=100"`
	IsActive  bool    `json:"is_active"`
}

// SendEmailRequest is the payload for the ad-hoc email endpoint.
type SendEmailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=255"`
	HTML    string `json:"html,omitempty"`
	Text    string `json:"text,omitempty"`
}
