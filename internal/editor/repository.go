package editor

import "github.com/inkwell-blog/inkwell/internal/model"

type DraftID model.PostID

// Draft is an unsaved document being edited. Content holds the encoded
// block document as emitted by the session's change notifications.
type Draft struct {
	ID      DraftID
	Content []byte

	Initialized bool
}

type Repository interface {
	CreateDraft() (*Draft, error)
	SaveDraft(id DraftID, content []byte) error
	GetDraft(id DraftID) (*Draft, error)
	DeleteDraft(id DraftID) error
}
