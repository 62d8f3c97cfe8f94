// Package routes defines HTTP route constants for the application.
package routes

// API Routes
const (
	// Static and assets
	RobotsPath        = "/robots.txt"
	ThemeOppositeIcon = "/theme/opposite-icon"
	ThemeToggle       = "/theme/toggle"
	SyntaxThemeSet    = "/syntax-theme/set"
	SyntaxThemeGet    = "/syntax-theme/{theme}"

	// SSE
	SSEPath = "/sse"

	// Root
	RootPath = "/"

	// Editor routes
	NewPost       = "/new/post"
	NewPostEdit   = "/new/post/edit"
	EditorPreview = "/partials/editor/preview"

	// Draft block API
	APIDraftBlocks      = "/api/drafts/{id}/blocks"
	APIDraftBlock       = "/api/drafts/{id}/blocks/{blockId}"
	APIDraftBlockStyles = "/api/drafts/{id}/blocks/{blockId}/styles"
	APIDraftBlockImage  = "/api/drafts/{id}/blocks/{blockId}/image"
	APIDraftBlockList   = "/api/drafts/{id}/blocks/{blockId}/list-key"
	APIDraftDrop        = "/api/drafts/{id}/drop"

	// Post API
	APIPosts = "/api/posts/{id}"
)
