package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// AuthMode identifies which authentication scheme a stored session uses
type AuthMode string

const (
	// AuthModeCredential authenticates with a bearer token plus numeric user id
	AuthModeCredential AuthMode = "credential"
	// AuthModeAppToken authenticates with an application token plus username
	AuthModeAppToken AuthMode = "apptoken"
)

// SessionAuth carries the credential-mode fields of a session
type SessionAuth struct {
	UserID    int    `json:"user_id" validate:"required"`
	AuthToken string `json:"auth_token" validate:"required"`
}

// AppTokenAuth carries the app-token-mode fields of a session
type AppTokenAuth struct {
	AppToken string `json:"app_token" validate:"required"`
	Username string `json:"username" validate:"required"`
}

// Credentials represents a stored session for a Nimbus profile.
// Exactly one of Credential or AppToken is set, matching AuthMode.
type Credentials struct {
	BaseURL    string        `json:"base_url" validate:"required,url"`
	AuthMode   AuthMode      `json:"auth_mode" validate:"required,oneof=credential apptoken"`
	Credential *SessionAuth  `json:"credential,omitempty"`
	AppToken   *AppTokenAuth `json:"apptoken,omitempty"`
}

// LoginCredentials is a username/password storage record.
// Never sent over the wire by this application.
type LoginCredentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AppTokenCredentials is an app-token/username storage record
type AppTokenCredentials struct {
	AppToken string `json:"app_token" validate:"required"`
	Username string `json:"username" validate:"required"`
}

var validate = validator.New()

// Validate checks field constraints and that the populated sub-record
// matches the declared auth mode.
func (c *Credentials) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid credentials: %w", err)
	}

	switch c.AuthMode {
	case AuthModeCredential:
		if c.Credential == nil {
			return fmt.Errorf("auth_mode %q requires credential fields (user_id, auth_token)", c.AuthMode)
		}
		if c.AppToken != nil {
			return fmt.Errorf("auth_mode %q must not carry apptoken fields", c.AuthMode)
		}
		if err := validate.Struct(c.Credential); err != nil {
			return fmt.Errorf("invalid credential fields: %w", err)
		}
	case AuthModeAppToken:
		if c.AppToken == nil {
			return fmt.Errorf("auth_mode %q requires apptoken fields (app_token, username)", c.AuthMode)
		}
		if c.Credential != nil {
			return fmt.Errorf("auth_mode %q must not carry credential fields", c.AuthMode)
		}
		if err := validate.Struct(c.AppToken); err != nil {
			return fmt.Errorf("invalid apptoken fields: %w", err)
		}
	}

	return nil
}

// Validate checks that both fields are present
func (c *LoginCredentials) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid login credentials: %w", err)
	}
	return nil
}

// Validate checks that both fields are present
func (c *AppTokenCredentials) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid app token credentials: %w", err)
	}
	return nil
}
