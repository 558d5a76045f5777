package chat

import (
	"context"
	"time"
)

// Verifier resolves an identity token into the identity it was issued for.
// A rejected token must be reported with errs code ErrUnauthorized; any other error is treated
// as an internal failure of the verifier.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// MembershipLookup lists the identities that currently belong to a group.
type MembershipLookup interface {
	GroupMembers(ctx context.Context, groupID int64) ([]string, error)
}

// Store is the persistence surface the chat core depends on.
// Membership is read through it on every group send and never cached.
type Store interface {
	MembershipLookup

	UserExists(ctx context.Context, identity string) (bool, error)
	IsMember(ctx context.Context, groupID int64, identity string) (bool, error)

	// InsertMessage durably records msg and returns its id.
	InsertMessage(ctx context.Context, msg StoredMessage) (int64, error)
}

// StoredMessage is the persisted form of a relayed message.
// Exactly one of Receiver and GroupID is set.
type StoredMessage struct {
	Sender    string
	Receiver  string
	GroupID   int64
	Content   string
	MediaURL  string
	MediaType string
	SentAt    time.Time
}
