package config

const (
	// Editor errors
	ErrDraftNotFound       = "Draft not found"
	ErrBlockNotFound       = "Block not found"
	ErrUploadFailed        = "Image upload failed"
	ErrInternalServerError = "Internal server error"
)
