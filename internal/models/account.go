package models

import (
	"fmt"
	"time"
)

// Account represents a local user with stored remote library credentials.
// Every import runs on behalf of an account; background tasks re-authenticate
// with the account's stored token rather than the process's ambient identity.
type Account struct {
	id           string
	sequence     int
	username     string
	email        string
	language     string
	accessToken  string
	refreshToken string
	tokenExpiry  time.Time
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewAccount creates an Account with the given sequence, username and email.
func NewAccount(sequence int, username, email string) *Account {
	now := time.Now()
	return &Account{
		sequence:  sequence,
		username:  username,
		email:     email,
		language:  "en",
		createdAt: now,
		updatedAt: now,
	}
}

func (a *Account) ID() string             { return a.id }
func (a *Account) Sequence() int          { return a.sequence }
func (a *Account) Username() string       { return a.username }
func (a *Account) Email() string          { return a.email }
func (a *Account) Language() string       { return a.language }
func (a *Account) AccessToken() string    { return a.accessToken }
func (a *Account) RefreshToken() string   { return a.refreshToken }
func (a *Account) TokenExpiry() time.Time { return a.tokenExpiry }
func (a *Account) CreatedAt() time.Time   { return a.createdAt }
func (a *Account) UpdatedAt() time.Time   { return a.updatedAt }
func (a *Account) DeletedAt() *time.Time  { return a.deletedAt }

func (a *Account) SetID(id string)           { a.id = id }
func (a *Account) SetLanguage(lang string)   { a.language = lang }
func (a *Account) SetUpdatedAt(t time.Time)  { a.updatedAt = t }
func (a *Account) SetDeletedAt(t *time.Time) { a.deletedAt = t }

// SetToken stores the remote OAuth token for this account.
func (a *Account) SetToken(access, refresh string, expiry time.Time) {
	a.accessToken = access
	a.refreshToken = refresh
	a.tokenExpiry = expiry
}

// Connected reports whether the account holds a remote access token.
func (a *Account) Connected() bool { return a.accessToken != "" }

// Validate checks that required account fields are set.
func (a *Account) Validate() error {
	if a.username == "" {
		return fmt.Errorf("account username is required")
	}
	if a.email == "" {
		return fmt.Errorf("account email is required")
	}
	return nil
}
