/*
Package user contains core data structures and logic related to user identity.

It defines the representation of a chat participant (the User struct) and the Provisioner,
which turns a verified identity token into a persisted user record.
*/
package user

import (
	"time"
	"unicode/utf8"

	dbc "chatrelay/internal/app/db/sqlc"
	"chatrelay/internal/pkg/errs"
)

// MaxDisplayNameLength is the maximum number of characters in a display name.
const MaxDisplayNameLength = 50

// User represents the identity information of a chat participant.
type User struct {

	// ID is the identity provider's subject for the user.
	ID string `json:"id"`

	// Email is the address asserted by the identity provider, if any.
	Email string `json:"email,omitempty"`

	// DisplayName is the name shown to other participants.
	DisplayName string `json:"display_name"`

	CreatedAt time.Time `json:"created_at"`
}

// FromRow converts a database row into a User.
func FromRow(row dbc.User) User {
	return User{
		ID:          row.ID,
		Email:       row.Email.String,
		DisplayName: row.DisplayName.String,
		CreatedAt:   row.CreatedAt.Time,
	}
}

// ValidateDisplayName checks that name is non-empty and at most MaxDisplayNameLength characters.
func ValidateDisplayName(name string) *errs.CustomError {
	if name == "" || utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return errs.NewError(errs.ErrInvalidDisplayName, MaxDisplayNameLength)
	}
	return nil
}
