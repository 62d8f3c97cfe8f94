// Package editor implements the interactive editing surface for block
// documents: the live document, the palette, the drag-and-drop reorder
// protocol, per-block content and style edits, and image uploads.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/inkwell-blog/inkwell/internal/codec"
	"github.com/inkwell-blog/inkwell/internal/media"
	"github.com/inkwell-blog/inkwell/internal/model"
)

var (
	// ErrNotDragging is returned for a drop or cancel without a
	// preceding drag start.
	ErrNotDragging = errors.New("no drag in progress")

	// ErrUploadInFlight is returned when a second upload is triggered
	// for a block whose previous upload has not finished.
	ErrUploadInFlight = errors.New("upload already in progress for this block")

	// ErrWrongBlockType is returned when a typed edit targets a block
	// of another type, e.g. SetCode on a paragraph.
	ErrWrongBlockType = errors.New("edit does not apply to this block type")
)

// Session owns one live document for the duration of an editing
// session. All mutations run synchronously on the caller's goroutine in
// response to discrete gestures; the only asynchronous work is image
// upload.
//
// After every successful mutation the session encodes the document and
// invokes the OnChange callback with the serialized form. The host owns
// persistence timing. The callback runs with the session locked and
// must not call back into it.
type Session struct {
	mu  sync.Mutex
	doc model.Document

	drag    dragState
	uploads map[model.BlockID]struct{}

	uploader media.Uploader
	onChange func([]byte)

	// Per-session UI state. Meaningless outside one open session, so
	// it lives here and nowhere global.
	selected     model.BlockID
	settingsOpen bool
}

// NewSession starts an editing session over doc. uploader may be nil
// when image upload is not wired, in which case UploadImage fails with
// media.ErrUploadFailed; onChange may be nil.
func NewSession(doc model.Document, uploader media.Uploader, onChange func([]byte)) *Session {
	return &Session{
		doc:      doc,
		uploads:  make(map[model.BlockID]struct{}),
		uploader: uploader,
		onChange: onChange,
	}
}

// Document returns the current document snapshot.
func (s *Session) Document() model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Palette returns the block types offered for insertion, in display
// order.
func (s *Session) Palette() []model.BlockType {
	return model.Types()
}

func (s *Session) emitChange() {
	if s.onChange == nil {
		return
	}
	raw, err := codec.Encode(s.doc)
	if err != nil {
		editorLogger.Error().Err(err).Msg("Failed to encode document for change notification")
		return
	}
	s.onChange(raw)
}

// Insert adds a new block of type t at index at (model.AppendIndex for
// the end) and returns it.
func (s *Session) Insert(t model.BlockType, at int) (model.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, block, err := model.InsertBlock(s.doc, t, at)
	if err != nil {
		return model.Block{}, err
	}
	s.doc = doc
	s.emitChange()
	return block, nil
}

// Move relocates an existing block to index to. Moving a block onto its
// current position is a no-op and fires no change notification.
func (s *Session) Move(id model.BlockID, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, moved, err := model.MoveBlock(s.doc, id, to)
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}
	s.doc = doc
	s.emitChange()
	return nil
}

// Delete removes a block. The id is invalid afterwards.
func (s *Session) Delete(id model.BlockID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := model.DeleteBlock(s.doc, id)
	if err != nil {
		return err
	}
	s.doc = doc
	if s.selected == id {
		s.selected = ""
		s.settingsOpen = false
	}
	s.emitChange()
	return nil
}

// UpdateData replaces a block's payload wholesale.
func (s *Session) UpdateData(id model.BlockID, data model.BlockData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateDataLocked(id, data)
}

func (s *Session) updateDataLocked(id model.BlockID, data model.BlockData) error {
	doc, err := model.UpdateBlockData(s.doc, id, data)
	if err != nil {
		return err
	}
	s.doc = doc
	s.emitChange()
	return nil
}

// StartDrag begins a drag gesture.
func (s *Session) StartDrag(source DragSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = dragState{phase: dragActive, source: source}
}

// CancelDrag abandons the gesture without mutating the document.
func (s *Session) CancelDrag() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag.phase != dragActive {
		return ErrNotDragging
	}
	s.drag = dragState{}
	return nil
}

// Drop completes a drag gesture. The outcome depends only on the source
// discriminant and the target:
//
//   - empty-document drop zone, palette source: append a new block
//   - existing block, palette source: insert right after the target
//   - existing block, existing source, source != target: move the
//     source to the target's index
//   - anything else: no mutation
func (s *Session) Drop(target DropTarget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drag.phase != dragActive {
		return ErrNotDragging
	}
	source := s.drag.source
	s.drag = dragState{}

	if !target.valid() {
		return nil
	}

	if target.EmptyZone {
		if !source.FromPalette() {
			return nil
		}
		doc, _, err := model.InsertBlock(s.doc, source.NewType, model.AppendIndex)
		if err != nil {
			return err
		}
		s.doc = doc
		s.emitChange()
		return nil
	}

	targetIdx := s.doc.IndexOf(target.BlockID)
	if targetIdx < 0 {
		return fmt.Errorf("%w: %s", model.ErrBlockNotFound, target.BlockID)
	}

	if source.FromPalette() {
		doc, _, err := model.InsertBlock(s.doc, source.NewType, targetIdx+1)
		if err != nil {
			return err
		}
		s.doc = doc
		s.emitChange()
		return nil
	}

	if source.BlockID == target.BlockID {
		return nil
	}

	doc, moved, err := model.MoveBlock(s.doc, source.BlockID, targetIdx)
	if err != nil {
		return err
	}
	if moved {
		s.doc = doc
		s.emitChange()
	}
	return nil
}

// Select marks a block as the current selection.
func (s *Session) Select(id model.BlockID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.IndexOf(id) >= 0 {
		s.selected = id
	}
}

// Selected returns the currently selected block id, if any.
func (s *Session) Selected() (model.BlockID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.selected != ""
}

// ToggleSettings opens or closes the settings panel for the selected
// block.
func (s *Session) ToggleSettings(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settingsOpen = open && s.selected != ""
}

// SettingsOpen reports whether the settings panel is showing.
func (s *Session) SettingsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settingsOpen
}

// UploadImage runs the external upload collaborator for an image block
// and merges the returned URL into the block's payload. Only one upload
// may be in flight per block; uploads for different blocks do not
// serialize against each other.
//
// On failure the block's existing URL is left untouched and the error
// is returned for the operator to see. If the block was deleted while
// the upload was in flight, the completion is a no-op.
func (s *Session) UploadImage(ctx context.Context, id model.BlockID, file io.Reader, contextHint string) error {
	s.mu.Lock()
	block, ok := s.doc.BlockByID(id)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", model.ErrBlockNotFound, id)
	}
	if _, isImage := block.Data.(model.ImageData); !isImage {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s is not an image block", ErrWrongBlockType, id)
	}
	if s.uploader == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: no uploader configured", media.ErrUploadFailed)
	}
	if _, busy := s.uploads[id]; busy {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUploadInFlight, id)
	}
	s.uploads[id] = struct{}{}
	s.mu.Unlock()

	// The request itself runs unlocked; edits to other blocks proceed.
	url, err := s.uploader.UploadImage(ctx, file, contextHint)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploads, id)

	if err != nil {
		editorLogger.Error().Err(err).Str("block", string(id)).Msg("Image upload failed")
		if !errors.Is(err, media.ErrUploadFailed) {
			err = fmt.Errorf("%w: %v", media.ErrUploadFailed, err)
		}
		return err
	}

	data, dataErr := imageData(s.doc, id)
	if dataErr != nil {
		// Block deleted (or replaced) mid-flight. The upload completed
		// in the background; its result is simply dropped.
		editorLogger.Debug().Str("block", string(id)).Msg("Upload completed for deleted block")
		return nil
	}

	data.URL = url
	return s.updateDataLocked(id, data)
}
