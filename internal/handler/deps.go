package handler

import (
	"context"

	"chatrelay/internal/app/chat"
	dbc "chatrelay/internal/app/db/sqlc"
	"chatrelay/internal/app/storage"
	"chatrelay/internal/app/user"
	"chatrelay/internal/configs"
	"chatrelay/internal/pkg/auth/jwt"
	"chatrelay/internal/pkg/pow"
)

// UserQueries is the subset of the query layer used by the user endpoints.
type UserQueries interface {
	GetUserByID(ctx context.Context, id string) (dbc.User, error)
	UpdateDisplayName(ctx context.Context, arg dbc.UpdateDisplayNameParams) (dbc.User, error)
}

// GroupStore is the persistence surface used by the group endpoints.
type GroupStore interface {
	CreateGroup(ctx context.Context, name, creatorID string) (dbc.Group, error)
	GetGroup(ctx context.Context, groupID int64) (dbc.Group, error)
	AddGroupMember(ctx context.Context, groupID int64, userID string) error
	IsMember(ctx context.Context, groupID int64, identity string) (bool, error)
	GroupMembers(ctx context.Context, groupID int64) ([]string, error)
	UserExists(ctx context.Context, identity string) (bool, error)
}

// UserProvisioner resolves verified claims into a persisted user.
type UserProvisioner interface {
	Provision(ctx context.Context, claims *jwt.Claims) (user.User, error)
}

type AppDeps struct {
	Config    *configs.AppConfig
	Lifecycle *chat.Lifecycle
	Verifier  *jwt.Verifier
	Users     UserProvisioner
	Queries   UserQueries
	Groups    GroupStore
	Storage   storage.StorageService

	// Pow gates group creation when non-nil and its difficulty is positive.
	Pow *pow.PoWManager
}
