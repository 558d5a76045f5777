package handler

import (
	"net/http"
	"net/url"
	"path/filepath"

	"chatrelay/internal/app/chat"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/randx"
	"chatrelay/internal/pkg/req"
	"chatrelay/internal/pkg/resp"
)

// MediaDownloadPath is the endpoint that redirects to a presigned download URL for a media key.
const MediaDownloadPath = "/api/media/download"

func (d *AppDeps) maxUploadBytes() int64 {
	return int64(d.Config.MaxUploadMB) << 20
}

// MediaURL returns the URL clients use to fetch the object stored under key.
func MediaURL(key string) string {
	return MediaDownloadPath + "?k=" + url.QueryEscape(key)
}

// HandleUploadMedia stores a multipart "file" field and returns the media URL and kind to put in a message.
func HandleUploadMedia(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if customErr := req.SetupMultipart(w, r, deps.maxUploadBytes()); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		defer file.Close()

		if customErr := chat.ValidateFileSize(header.Size, deps.maxUploadBytes()); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		mimeType := header.Header.Get("Content-Type")
		kind, customErr := chat.ValidateFileType(header.Filename, mimeType)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		key := randx.MediaKey(filepath.Ext(header.Filename))
		if err := deps.Storage.Upload(r.Context(), key, mimeType, file); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		logx.Info("Media uploaded", "user_id", current.ID, "key", key, "size", header.Size)

		resp.RespondSuccess(w, r, map[string]any{
			"media_url":  MediaURL(key),
			"media_type": kind,
			"key":        key,
		})
	}
}

// PresignUploadInput defines the JSON input structure for generating upload URL.
type PresignUploadInput struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

// HandlePresignUpload creates an HTTP HandlerFunc to generate a time-limited,
// pre-signed URL for uploading media directly to storage.
func HandlePresignUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input PresignUploadInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := chat.ValidateFileSize(input.FileSize, deps.maxUploadBytes()); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		kind, customErr := chat.ValidateFileType(input.FileName, input.MimeType)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		key := randx.MediaKey(filepath.Ext(input.FileName))

		presigned, err := deps.Storage.PresignUpload(
			r.Context(),
			key,
			input.MimeType,
			input.FileSize,
			chat.PresignedURLDuration,
		)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"presigned_url": presigned,
			"key":           key,
			"media_url":     MediaURL(key),
			"media_type":    kind,
		})
	}
}

// HandleDownloadMedia redirects to a time-limited, pre-signed download URL for the k query parameter.
func HandleDownloadMedia(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		key := r.URL.Query().Get("k")
		if !randx.IsValidMediaKey(key) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		presigned, err := deps.Storage.PresignDownload(r.Context(), key, chat.PresignedURLDuration)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		http.Redirect(w, r, presigned, http.StatusFound)
	}
}
