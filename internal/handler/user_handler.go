/*
Package handler provides HTTP handler functions for user profiles.
*/
package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"chatrelay/internal/app/db"
	dbc "chatrelay/internal/app/db/sqlc"
	"chatrelay/internal/app/user"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/req"
	"chatrelay/internal/pkg/resp"
)

// HandleGetMe returns the authenticated user's profile.
func HandleGetMe(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"user": current})
	}
}

type UpdateProfileInput struct {
	DisplayName string `json:"display_name"`
}

// HandleUpdateMe changes the authenticated user's display name.
func HandleUpdateMe(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input UpdateProfileInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		name := strings.TrimSpace(input.DisplayName)
		if customErr := user.ValidateDisplayName(name); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		row, err := deps.Queries.UpdateDisplayName(r.Context(), dbc.UpdateDisplayNameParams{
			ID:          current.ID,
			DisplayName: pgtype.Text{String: name, Valid: true},
		})
		if err != nil {
			logx.Error(err, "update_profile: failed to update display name", "user_id", current.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"user": user.FromRow(row)})
	}
}

// HandleGetUser looks up another user's public profile.
func HandleGetUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		row, err := deps.Queries.GetUserByID(r.Context(), userID)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "get_user: lookup failed", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": map[string]any{
				"id":           row.ID,
				"display_name": row.DisplayName.String,
			},
		})
	}
}
