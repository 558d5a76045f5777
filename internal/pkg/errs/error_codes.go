package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body (or a WebSocket frame) is not valid JSON.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Chat, Group and Content Business Logic Errors
const (
	// ErrInvalidTarget indicates the chat target does not exist or the caller is not a group member.
	ErrInvalidTarget = 2101

	// ErrGroupNotFound indicates that the referenced group does not exist.
	ErrGroupNotFound = 2102

	// ErrNotGroupCreator indicates that only the group creator may perform the operation.
	ErrNotGroupCreator = 2103

	// ErrAlreadyGroupMember indicates that the user is already a member of the group.
	ErrAlreadyGroupMember = 2104

	// ErrNotGroupMember indicates that the caller is not a member of the group.
	ErrNotGroupMember = 2105

	// ErrInvalidGroupName indicates that the group name is empty or too long.
	ErrInvalidGroupName = 2106

	// ErrMessageContentTooLong indicates that the user's message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrMessageEmpty indicates that the message content was blank.
	ErrMessageEmpty = 2202

	// ErrInvalidMediaType indicates that the media type is not one of the supported kinds.
	ErrInvalidMediaType = 2203

	// ErrFileSizeTooLarge indicates that an uploaded file exceeded the size limit.
	ErrFileSizeTooLarge = 2301

	// ErrFileTypeNotAllowed indicates that an uploaded file's extension or MIME type is not permitted.
	ErrFileTypeNotAllowed = 2302
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrPowChallengeRequired indicates the client must complete a Proof-of-Work challenge first.
	ErrPowChallengeRequired = 3001

	// ErrPowChallengeInvalid indicates that the PoW proof provided by the client is invalid or incorrect.
	ErrPowChallengeInvalid = 3002

	// ErrUnauthorized indicates a missing, malformed or expired identity token.
	ErrUnauthorized = 3005

	// ErrUserNotFound indicates that the referenced user does not exist.
	ErrUserNotFound = 3006

	// ErrInvalidDisplayName indicates that the display name is too long.
	ErrInvalidDisplayName = 3007
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates the object storage backend rejected the operation.
	ErrFileStorageFailed = 5001

	// ErrMessagePersistFailed indicates the message could not be durably recorded.
	ErrMessagePersistFailed = 5002
)
