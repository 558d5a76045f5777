/*
Package handler provides the HTTP handler functions for WebSocket connection upgrading and admission.

HandleDirectChat and HandleGroupChat are responsible for rate limiting, parsing the chat target,
upgrading the HTTP connection to WebSocket, and handing the connection to the chat lifecycle.
*/
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"chatrelay/internal/app/chat"
	"chatrelay/internal/pkg/auth/jwt"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/limiter"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/resp"
)

// HandleDirectChat serves one-to-one chat connections with the user in the userID path parameter.
func HandleDirectChat(deps *AppDeps, upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter) http.HandlerFunc {
	return handleChat(deps, upgrader, rateLimiter, func(r *http.Request) (chat.Target, bool) {
		peer := chi.URLParam(r, "userID")
		return chat.DirectTarget(peer), peer != ""
	})
}

// HandleGroupChat serves group chat connections for the groupID path parameter.
func HandleGroupChat(deps *AppDeps, upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter) http.HandlerFunc {
	return handleChat(deps, upgrader, rateLimiter, func(r *http.Request) (chat.Target, bool) {
		groupID, err := strconv.ParseInt(chi.URLParam(r, "groupID"), 10, 64)
		return chat.GroupTarget(groupID), err == nil && groupID > 0
	})
}

func handleChat(
	deps *AppDeps,
	upgrader websocket.Upgrader,
	rateLimiter *limiter.IPRateLimiter,
	parseTarget func(*http.Request) (chat.Target, bool),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rateLimiter.Allow(r) {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", limiter.ClientIP(r))
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		target, ok := parseTarget(r)
		if !ok {
			logx.Warn("WebSocket request rejected: malformed chat target", "path", r.URL.Path)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		token := jwt.BearerToken(r)
		logx.Debug("WebSocket upgrade requested", "target", target.String(), "has_token", token != "")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// the upgrader has already answered with an HTTP error
			logx.Error(err, "Failed to upgrade connection to WebSocket", "target", target.String())
			return
		}

		lifecycle := deps.Lifecycle

		client, err := lifecycle.Admit(r.Context(), token, target, conn)
		if err != nil {
			logx.Info("WebSocket admission rejected", "target", target.String(), "close_code", chat.CloseCodeFor(err))
			lifecycle.Reject(conn, err)
			return
		}

		lifecycle.Serve(client)
	}
}
