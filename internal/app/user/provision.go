package user

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"chatrelay/internal/app/db"
	dbc "chatrelay/internal/app/db/sqlc"
	"chatrelay/internal/pkg/auth/jwt"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/randx"
)

// TokenParser validates an identity token and returns its claims.
type TokenParser interface {
	Parse(token string) (*jwt.Claims, error)
}

// Store persists users.
type Store interface {
	UpsertUser(ctx context.Context, arg dbc.UpsertUserParams) (dbc.User, error)
}

// Provisioner verifies identity tokens and makes sure every verified identity has a user row.
type Provisioner struct {
	parser TokenParser
	store  Store
	logger zerolog.Logger
}

// NewProvisioner constructs a Provisioner.
func NewProvisioner(parser TokenParser, store Store) *Provisioner {
	return &Provisioner{
		parser: parser,
		store:  store,
		logger: logx.Component("Provisioner"),
	}
}

// Verify validates token and provisions its user, returning the user identity.
func (p *Provisioner) Verify(ctx context.Context, token string) (string, error) {
	u, err := p.Authenticate(ctx, token)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

// Authenticate validates token and returns the provisioned user. A rejected token reports
// errs.ErrUnauthorized; provisioning failures are returned as plain wrapped errors.
func (p *Provisioner) Authenticate(ctx context.Context, token string) (User, error) {
	claims, err := p.parser.Parse(token)
	if err != nil {
		return User{}, errs.Wrap(errs.ErrUnauthorized, err)
	}
	return p.Provision(ctx, claims)
}

// Provision returns the user for claims, creating it on first sight. New users get the name from the
// token, or a random one when the token has none. Existing users keep their display name.
func (p *Provisioner) Provision(ctx context.Context, claims *jwt.Claims) (User, error) {
	name := claims.Name
	if name == "" || ValidateDisplayName(name) != nil {
		generated, err := randx.DisplayName()
		if err != nil {
			return User{}, fmt.Errorf("generate display name: %w", err)
		}
		name = generated
	}

	params := dbc.UpsertUserParams{
		ID:          claims.Subject,
		Email:       pgtype.Text{String: claims.Email, Valid: claims.Email != ""},
		DisplayName: pgtype.Text{String: name, Valid: true},
	}

	row, err := p.store.UpsertUser(ctx, params)
	if err != nil && params.Email.Valid && db.IsUniqueViolation(err) {
		// the email already belongs to another identity
		p.logger.Warn().Str("user_id", claims.Subject).Msg("Email already claimed, provisioning without it")
		params.Email = pgtype.Text{}
		row, err = p.store.UpsertUser(ctx, params)
	}
	if err != nil {
		return User{}, fmt.Errorf("provision user %q: %w", claims.Subject, err)
	}

	return FromRow(row), nil
}
