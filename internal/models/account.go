package models

import "time"

// Account is a login bound to an address.
//
// Holding an account only proves identity. It does not grant membership:
// anyone with an account can deposit, only members can withdraw.
type Account struct {
	// Address is the identity this account authenticates as (unique).
	Address Address

	// DisplayName is a human-readable label for the account.
	DisplayName string

	// PasswordHash is the bcrypt hash of the account password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was registered.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change to the account.
	UpdatedAt int64
}

// NewAccount creates an account for address with the given password hash.
func NewAccount(address Address, displayName, passwordHash string) *Account {
	now := time.Now().Unix()
	return &Account{
		Address:      address,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
