/*
Package handler provides HTTP handler functions for group management.
*/
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"chatrelay/internal/app/db"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/req"
	"chatrelay/internal/pkg/resp"
)

// MaxGroupNameLength is the maximum number of characters in a group name.
const MaxGroupNameLength = 100

type CreateGroupInput struct {
	Name string `json:"name"`
}

// HandleCreateGroup creates a group owned by the caller, who becomes its first member.
// When proof-of-work is enabled the request must carry a fresh proof token.
func HandleCreateGroup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if deps.Pow != nil && deps.Pow.Difficulty() > 0 {
			if err := deps.Pow.ConsumeProofToken(r); err != nil {
				resp.RespondError(w, r, errs.NewError(errs.ErrPowChallengeRequired))
				return
			}
		}

		var input CreateGroupInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		name := strings.TrimSpace(input.Name)
		if name == "" || utf8.RuneCountInString(name) > MaxGroupNameLength {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidGroupName, MaxGroupNameLength))
			return
		}

		group, err := deps.Groups.CreateGroup(r.Context(), name, current.ID)
		if err != nil {
			logx.Error(err, "create_group: failed", "user_id", current.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("Group created", "group_id", group.ID, "creator_id", current.ID)

		resp.RespondSuccess(w, r, map[string]any{
			"group": map[string]any{
				"id":         group.ID,
				"name":       group.Name,
				"creator_id": group.CreatorID,
			},
		})
	}
}

type AddMemberInput struct {
	UserID string `json:"user_id"`
}

// HandleAddGroupMember lets the group creator add another user to the group.
func HandleAddGroupMember(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		groupID, customErr := groupIDParam(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input AddMemberInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.UserID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		group, err := deps.Groups.GetGroup(r.Context(), groupID)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrGroupNotFound))
				return
			}
			logx.Error(err, "add_member: group lookup failed", "group_id", groupID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if group.CreatorID != current.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotGroupCreator))
			return
		}

		exists, err := deps.Groups.UserExists(r.Context(), input.UserID)
		if err != nil {
			logx.Error(err, "add_member: user lookup failed", "user_id", input.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if !exists {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		err = deps.Groups.AddGroupMember(r.Context(), groupID, input.UserID)
		switch {
		case err == nil:
		case errors.Is(err, db.ErrAlreadyMember):
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyGroupMember))
			return
		case errors.Is(err, db.ErrUnknownReference):
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		default:
			logx.Error(err, "add_member: insert failed", "group_id", groupID, "user_id", input.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"group_id": groupID,
			"user_id":  input.UserID,
		})
	}
}

// HandleListGroupMembers lists the members of a group the caller belongs to.
func HandleListGroupMembers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		groupID, customErr := groupIDParam(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		isMember, err := deps.Groups.IsMember(r.Context(), groupID, current.ID)
		if err != nil {
			logx.Error(err, "list_members: membership check failed", "group_id", groupID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if !isMember {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotGroupMember))
			return
		}

		members, err := deps.Groups.GroupMembers(r.Context(), groupID)
		if err != nil {
			logx.Error(err, "list_members: query failed", "group_id", groupID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"group_id": groupID,
			"members":  members,
		})
	}
}

func groupIDParam(r *http.Request) (int64, *errs.CustomError) {
	id, err := strconv.ParseInt(chi.URLParam(r, "groupID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewError(errs.ErrInvalidParams)
	}
	return id, nil
}
