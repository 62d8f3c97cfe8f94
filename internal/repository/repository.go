// Package repository stores and serves posts whose content is an
// encoded block document.
package repository

import (
	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/rs/zerolog"
)

type PostRepository interface {
	Init()
	GetPosts() ([]model.Post, map[string]*model.Post, error)
	GetPostList() []model.Post
	ReadPost(id model.PostID) (*model.Post, error)
	ReloadPosts()

	NewPost() *model.Post
	SavePost(post *model.Post) error
	SetPostContent(post *model.Post) error

	// SetReloadNotifier sets a function that will be called when a
	// post's content changes on reload.
	SetReloadNotifier(notifier func(model.PostID))
}

var repoLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}
