package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"chatrelay/internal/app/chat"
	dbc "chatrelay/internal/app/db/sqlc"
)

var (
	// ErrAlreadyMember is returned when adding a user that is already in the group.
	ErrAlreadyMember = errors.New("user is already a group member")

	// ErrUnknownReference is returned when a referenced user or group does not exist.
	ErrUnknownReference = errors.New("referenced user or group does not exist")
)

// Gateway implements chat.Store on top of the generated queries and owns multi-statement transactions.
type Gateway struct {
	pool    *pgxpool.Pool
	queries *dbc.Queries
}

var _ chat.Store = (*Gateway)(nil)

// NewGateway wraps pool.
func NewGateway(pool *pgxpool.Pool) *Gateway {
	return &Gateway{pool: pool, queries: dbc.New(pool)}
}

// Queries exposes the single-statement query layer.
func (g *Gateway) Queries() *dbc.Queries { return g.queries }

func (g *Gateway) UserExists(ctx context.Context, identity string) (bool, error) {
	ok, err := g.queries.UserExists(ctx, identity)
	if err != nil {
		return false, fmt.Errorf("check user %q: %w", identity, err)
	}
	return ok, nil
}

func (g *Gateway) IsMember(ctx context.Context, groupID int64, identity string) (bool, error) {
	ok, err := g.queries.IsGroupMember(ctx, dbc.IsGroupMemberParams{GroupID: groupID, UserID: identity})
	if err != nil {
		return false, fmt.Errorf("check membership of %q in group %d: %w", identity, groupID, err)
	}
	return ok, nil
}

func (g *Gateway) GroupMembers(ctx context.Context, groupID int64) ([]string, error) {
	members, err := g.queries.ListGroupMemberIDs(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members of group %d: %w", groupID, err)
	}
	return members, nil
}

func (g *Gateway) InsertMessage(ctx context.Context, msg chat.StoredMessage) (int64, error) {
	id, err := g.queries.InsertMessage(ctx, messageParams(msg))
	if err != nil {
		return 0, fmt.Errorf("insert message from %q: %w", msg.Sender, err)
	}
	return id, nil
}

// CreateGroup creates a group and enrolls its creator as the first member in one transaction.
func (g *Gateway) CreateGroup(ctx context.Context, name, creatorID string) (dbc.Group, error) {
	var group dbc.Group

	err := pgx.BeginFunc(ctx, g.pool, func(tx pgx.Tx) error {
		q := g.queries.WithTx(tx)

		created, err := q.CreateGroup(ctx, dbc.CreateGroupParams{Name: name, CreatorID: creatorID})
		if err != nil {
			return err
		}

		if err := q.AddGroupMember(ctx, dbc.AddGroupMemberParams{GroupID: created.ID, UserID: creatorID}); err != nil {
			return err
		}

		group = created
		return nil
	})
	if err != nil {
		if IsForeignKeyViolation(err) {
			return dbc.Group{}, ErrUnknownReference
		}
		return dbc.Group{}, fmt.Errorf("create group %q: %w", name, err)
	}

	return group, nil
}

// GetGroup loads a group. Missing groups are reported with pgx.ErrNoRows (see IsNotFound).
func (g *Gateway) GetGroup(ctx context.Context, groupID int64) (dbc.Group, error) {
	group, err := g.queries.GetGroupByID(ctx, groupID)
	if err != nil {
		return dbc.Group{}, fmt.Errorf("get group %d: %w", groupID, err)
	}
	return group, nil
}

// AddGroupMember enrolls userID in groupID.
func (g *Gateway) AddGroupMember(ctx context.Context, groupID int64, userID string) error {
	err := g.queries.AddGroupMember(ctx, dbc.AddGroupMemberParams{GroupID: groupID, UserID: userID})
	switch {
	case err == nil:
		return nil
	case IsUniqueViolation(err):
		return ErrAlreadyMember
	case IsForeignKeyViolation(err):
		return ErrUnknownReference
	default:
		return fmt.Errorf("add %q to group %d: %w", userID, groupID, err)
	}
}

func messageParams(msg chat.StoredMessage) dbc.InsertMessageParams {
	return dbc.InsertMessageParams{
		SenderID:   msg.Sender,
		ReceiverID: optionalText(msg.Receiver),
		GroupID:    pgtype.Int8{Int64: msg.GroupID, Valid: msg.GroupID != 0},
		Content:    msg.Content,
		MediaUrl:   optionalText(msg.MediaURL),
		MediaType:  optionalText(msg.MediaType),
		CreatedAt:  pgtype.Timestamptz{Time: msg.SentAt, Valid: true},
	}
}

func optionalText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
