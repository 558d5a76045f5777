package errs

import "net/http"

// errorMap holds the client message and HTTP status registered for each code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Chat, Group and Content Business Logic Errors
	ErrInvalidTarget:         {Code: ErrInvalidTarget, Message: "Chat target not found or not accessible.", Status: http.StatusForbidden},
	ErrGroupNotFound:         {Code: ErrGroupNotFound, Message: "Group not found.", Status: http.StatusNotFound},
	ErrNotGroupCreator:       {Code: ErrNotGroupCreator, Message: "Only the group creator can add members.", Status: http.StatusForbidden},
	ErrAlreadyGroupMember:    {Code: ErrAlreadyGroupMember, Message: "User is already in the group.", Status: http.StatusConflict},
	ErrNotGroupMember:        {Code: ErrNotGroupMember, Message: "You are not a member of this group.", Status: http.StatusForbidden},
	ErrInvalidGroupName:      {Code: ErrInvalidGroupName, Message: "Group name must be between 1 and %d characters."},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrMessageEmpty:          {Code: ErrMessageEmpty, Message: "Message cannot be empty."},
	ErrInvalidMediaType:      {Code: ErrInvalidMediaType, Message: "Media type must be image or video."},
	ErrFileSizeTooLarge:      {Code: ErrFileSizeTooLarge, Message: "File is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrFileTypeNotAllowed:    {Code: ErrFileTypeNotAllowed, Message: "File type is not allowed.", Status: http.StatusBadRequest},

	// 3xxx: User, Session, and Security Errors
	ErrPowChallengeRequired: {Code: ErrPowChallengeRequired, Message: "Verification required. Please try again.", Status: http.StatusForbidden},
	ErrPowChallengeInvalid:  {Code: ErrPowChallengeInvalid, Message: "Verification failed. Please try again.", Status: http.StatusForbidden},
	ErrUnauthorized:         {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrUserNotFound:         {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},
	ErrInvalidDisplayName:   {Code: ErrInvalidDisplayName, Message: "Display name must be at most %d characters."},

	// 5xxx: Internal System Errors
	ErrUnknown:              {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed:    {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusBadGateway},
	ErrMessagePersistFailed: {Code: ErrMessagePersistFailed, Message: "Message could not be saved. Please resend.", Status: http.StatusServiceUnavailable},
}
