package model

import "time"

type PostID string

type UserID string

// Post is one published piece of content. Content holds the encoded
// block document; the document itself is decoded on demand and never
// retained past a render pass.
type Post struct {
	ID PostID

	Title   string
	Content []byte

	// Used for cache busting of rendered output.
	ContentHash string

	CreatedDate  time.Time
	ModifiedDate time.Time

	// Optional: owner of the post, assigned by the host application.
	Owner UserID
}
