package editor

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/inkwell-blog/inkwell/internal/media"
	"github.com/inkwell-blog/inkwell/internal/model"
)

// fakeUploader lets a test control when an upload completes and what it
// returns.
type fakeUploader struct {
	url string
	err error

	started chan struct{}
	release chan struct{}
}

func (f *fakeUploader) UploadImage(ctx context.Context, file io.Reader, contextHint string) (string, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.url, f.err
}

type changeRecorder struct {
	count int
	last  []byte
}

func (c *changeRecorder) record(raw []byte) {
	c.count++
	c.last = raw
}

func newTestSession(t *testing.T, uploader media.Uploader) (*Session, *changeRecorder) {
	t.Helper()
	rec := &changeRecorder{}
	return NewSession(model.Document{}, uploader, rec.record), rec
}

func insertBlock(t *testing.T, s *Session, bt model.BlockType) model.Block {
	t.Helper()
	block, err := s.Insert(bt, model.AppendIndex)
	if err != nil {
		t.Fatalf("Insert(%q): %v", bt, err)
	}
	return block
}

func TestSessionMutations(t *testing.T) {
	t.Run("Insert notifies with the serialized document", func(t *testing.T) {
		s, rec := newTestSession(t, nil)
		block := insertBlock(t, s, model.TypeParagraph)

		if rec.count != 1 {
			t.Fatalf("change count = %d, want 1", rec.count)
		}
		if !strings.Contains(string(rec.last), string(block.ID)) {
			t.Errorf("serialized form %s missing block id", rec.last)
		}
	})

	t.Run("Invalid insert does not notify", func(t *testing.T) {
		s, rec := newTestSession(t, nil)
		if _, err := s.Insert("widget", model.AppendIndex); !errors.Is(err, model.ErrInvalidBlockType) {
			t.Fatalf("err = %v", err)
		}
		if rec.count != 0 {
			t.Errorf("change count = %d, want 0", rec.count)
		}
	})

	t.Run("No-op move does not notify", func(t *testing.T) {
		s, rec := newTestSession(t, nil)
		a := insertBlock(t, s, model.TypeHeading)
		insertBlock(t, s, model.TypeParagraph)
		before := rec.count

		if err := s.Move(a.ID, 0); err != nil {
			t.Fatal(err)
		}
		if rec.count != before {
			t.Error("move onto the current position must not notify")
		}
	})

	t.Run("Real move notifies and reorders", func(t *testing.T) {
		s, rec := newTestSession(t, nil)
		a := insertBlock(t, s, model.TypeHeading)
		insertBlock(t, s, model.TypeParagraph)
		before := rec.count

		if err := s.Move(a.ID, 1); err != nil {
			t.Fatal(err)
		}
		if rec.count != before+1 {
			t.Error("move did not notify")
		}
		if s.Document().Blocks[1].ID != a.ID {
			t.Error("block did not move")
		}
	})

	t.Run("Delete clears the selection", func(t *testing.T) {
		s, _ := newTestSession(t, nil)
		block := insertBlock(t, s, model.TypeParagraph)
		s.Select(block.ID)
		s.ToggleSettings(true)

		if err := s.Delete(block.ID); err != nil {
			t.Fatal(err)
		}
		if _, ok := s.Selected(); ok {
			t.Error("selection survived the delete")
		}
		if s.SettingsOpen() {
			t.Error("settings panel survived the delete")
		}
	})

	t.Run("Palette lists every registered type", func(t *testing.T) {
		s, _ := newTestSession(t, nil)
		if got := len(s.Palette()); got != 9 {
			t.Errorf("palette size = %d, want 9", got)
		}
	})
}

func TestDrag(t *testing.T) {
	t.Run("Drop without a drag errors", func(t *testing.T) {
		s, _ := newTestSession(t, nil)
		if err := s.Drop(DropTarget{EmptyZone: true}); !errors.Is(err, ErrNotDragging) {
			t.Errorf("err = %v, want ErrNotDragging", err)
		}
	})

	t.Run("Cancel without a drag errors", func(t *testing.T) {
		s, _ := newTestSession(t, nil)
		if err := s.CancelDrag(); !errors.Is(err, ErrNotDragging) {
			t.Errorf("err = %v, want ErrNotDragging", err)
		}
	})

	t.Run("Cancel leaves the document untouched", func(t *testing.T) {
		s, rec := newTestSession(t, nil)
		s.StartDrag(DragSource{NewType: model.TypeParagraph})
		if err := s.CancelDrag(); err != nil {
			t.Fatal(err)
		}
		if s.Document().Len() != 0 || rec.count != 0 {
			t.Error("cancelled drag mutated the document")
		}
	})

	t.Run("Palette onto the empty drop zone appends", func(t *testing.T) {
		s, _ := newTestSession(t, nil)
		s.StartDrag(DragSource{NewType: model.TypeHeading})
		if err := s.Drop(DropTarget{EmptyZone: true}); err != nil {
			t.Fatal(err)
		}
		doc := s.Document()
		if doc.Len() != 1 || doc.Blocks[0].Type != model.TypeHeading {
			t.Errorf("document after drop: %+v", doc)
		}
	})

	t.Run("Palette onto an existing block inserts after it", func(t *testing.T) {
		s, _ := newTestSession(t, nil)
		a := insertBlock(t, s, model.TypeHeading)
		insertBlock(t, s, model.TypeParagraph)

		s.StartDrag(DragSource{NewType: model.TypeDivider})
		if err := s.Drop(DropTarget{BlockID: a.ID}); err != nil {
			t.Fatal(err)
		}
		doc := s.Document()
		if doc.Len() != 3 || doc.Blocks[1].Type != model.TypeDivider {
			t.Errorf("expected divider at index 1, got %+v", doc.Blocks)
		}
	})

	t.Run("Existing block onto another block moves it there", func(t *testing.T) {
		s, _ := newTestSession(t, nil)
		a := insertBlock(t, s, model.TypeHeading)
		b := insertBlock(t, s, model.TypeParagraph)
		insertBlock(t, s, model.TypeQuote)

		s.StartDrag(DragSource{BlockID: a.ID})
		if err := s.Drop(DropTarget{BlockID: b.ID}); err != nil {
			t.Fatal(err)
		}
		doc := s.Document()
		if doc.Blocks[0].ID != b.ID || doc.Blocks[1].ID != a.ID {
			t.Errorf("order after move: %v", doc.Blocks)
		}
	})

	t.Run("Existing block onto itself is a no-op", func(t *testing.T) {
		s, rec := newTestSession(t, nil)
		a := insertBlock(t, s, model.TypeHeading)
		before := rec.count

		s.StartDrag(DragSource{BlockID: a.ID})
		if err := s.Drop(DropTarget{BlockID: a.ID}); err != nil {
			t.Fatal(err)
		}
		if rec.count != before {
			t.Error("self-drop must not notify")
		}
	})

	t.Run("Existing block onto the empty zone is a no-op", func(t *testing.T) {
		s, rec := newTestSession(t, nil)
		a := insertBlock(t, s, model.TypeHeading)
		before := rec.count

		s.StartDrag(DragSource{BlockID: a.ID})
		if err := s.Drop(DropTarget{EmptyZone: true}); err != nil {
			t.Fatal(err)
		}
		if s.Document().Len() != 1 || rec.count != before {
			t.Error("existing source on the empty zone must not mutate")
		}
	})

	t.Run("Drop outside any target resolves cleanly", func(t *testing.T) {
		s, rec := newTestSession(t, nil)
		s.StartDrag(DragSource{NewType: model.TypeParagraph})
		if err := s.Drop(DropTarget{}); err != nil {
			t.Fatal(err)
		}
		if s.Document().Len() != 0 || rec.count != 0 {
			t.Error("invalid target must not mutate")
		}
		// The gesture is consumed either way.
		if err := s.Drop(DropTarget{EmptyZone: true}); !errors.Is(err, ErrNotDragging) {
			t.Errorf("second drop err = %v, want ErrNotDragging", err)
		}
	})
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("Success merges the URL", func(t *testing.T) {
		up := &fakeUploader{url: "https://cdn.example.com/img.png"}
		s, _ := newTestSession(t, up)
		block := insertBlock(t, s, model.TypeImage)

		if err := s.UploadImage(ctx, block.ID, strings.NewReader("png"), "draft-1"); err != nil {
			t.Fatal(err)
		}
		got, _ := s.Document().BlockByID(block.ID)
		if got.Data.(model.ImageData).URL != up.url {
			t.Errorf("URL = %q, want %q", got.Data.(model.ImageData).URL, up.url)
		}
	})

	t.Run("Failure leaves the existing URL untouched", func(t *testing.T) {
		up := &fakeUploader{err: errors.New("bucket unreachable")}
		s, _ := newTestSession(t, up)
		block := insertBlock(t, s, model.TypeImage)
		if err := s.UpdateData(block.ID, model.ImageData{URL: "/old.png"}); err != nil {
			t.Fatal(err)
		}

		err := s.UploadImage(ctx, block.ID, strings.NewReader("png"), "draft-1")
		if !errors.Is(err, media.ErrUploadFailed) {
			t.Fatalf("err = %v, want ErrUploadFailed", err)
		}
		got, _ := s.Document().BlockByID(block.ID)
		if got.Data.(model.ImageData).URL != "/old.png" {
			t.Errorf("URL = %q, want the previous value", got.Data.(model.ImageData).URL)
		}
	})

	t.Run("Second upload for the same block is rejected", func(t *testing.T) {
		up := &fakeUploader{
			url:     "/new.png",
			started: make(chan struct{}),
			release: make(chan struct{}),
		}
		s, _ := newTestSession(t, up)
		block := insertBlock(t, s, model.TypeImage)

		done := make(chan error, 1)
		go func() {
			done <- s.UploadImage(ctx, block.ID, strings.NewReader("png"), "draft-1")
		}()
		<-up.started

		if err := s.UploadImage(ctx, block.ID, strings.NewReader("png"), "draft-1"); !errors.Is(err, ErrUploadInFlight) {
			t.Errorf("concurrent upload err = %v, want ErrUploadInFlight", err)
		}

		close(up.release)
		if err := <-done; err != nil {
			t.Fatal(err)
		}
		got, _ := s.Document().BlockByID(block.ID)
		if got.Data.(model.ImageData).URL != "/new.png" {
			t.Errorf("URL = %q after release", got.Data.(model.ImageData).URL)
		}
	})

	t.Run("Uploads for different blocks run concurrently", func(t *testing.T) {
		up := &fakeUploader{
			url:     "/a.png",
			started: make(chan struct{}),
			release: make(chan struct{}),
		}
		s, _ := newTestSession(t, up)
		first := insertBlock(t, s, model.TypeImage)
		second := insertBlock(t, s, model.TypeImage)

		done := make(chan error, 1)
		go func() {
			done <- s.UploadImage(ctx, first.ID, strings.NewReader("png"), "draft-1")
		}()
		<-up.started

		// While the first block's upload is parked, the second block
		// can still be edited.
		if err := s.SetImageCaption(second.ID, "still editable"); err != nil {
			t.Errorf("edit during upload: %v", err)
		}

		close(up.release)
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	})

	t.Run("Completion for a deleted block is a no-op", func(t *testing.T) {
		up := &fakeUploader{
			url:     "/late.png",
			started: make(chan struct{}),
			release: make(chan struct{}),
		}
		s, _ := newTestSession(t, up)
		block := insertBlock(t, s, model.TypeImage)

		done := make(chan error, 1)
		go func() {
			done <- s.UploadImage(ctx, block.ID, strings.NewReader("png"), "draft-1")
		}()
		<-up.started

		if err := s.Delete(block.ID); err != nil {
			t.Fatal(err)
		}
		close(up.release)

		if err := <-done; err != nil {
			t.Errorf("late completion should be silent, got %v", err)
		}
		if s.Document().Len() != 0 {
			t.Error("deleted block came back")
		}
	})

	t.Run("Non-image block is rejected", func(t *testing.T) {
		s, _ := newTestSession(t, &fakeUploader{})
		block := insertBlock(t, s, model.TypeParagraph)
		err := s.UploadImage(ctx, block.ID, strings.NewReader("png"), "draft-1")
		if !errors.Is(err, ErrWrongBlockType) {
			t.Errorf("err = %v, want ErrWrongBlockType", err)
		}
	})

	t.Run("Unknown block is rejected", func(t *testing.T) {
		s, _ := newTestSession(t, &fakeUploader{})
		err := s.UploadImage(ctx, "nope", strings.NewReader("png"), "draft-1")
		if !errors.Is(err, model.ErrBlockNotFound) {
			t.Errorf("err = %v, want ErrBlockNotFound", err)
		}
	})

	t.Run("Session without an uploader fails instead of panicking", func(t *testing.T) {
		s, _ := newTestSession(t, nil)
		block := insertBlock(t, s, model.TypeImage)
		err := s.UploadImage(ctx, block.ID, strings.NewReader("png"), "draft-1")
		if !errors.Is(err, media.ErrUploadFailed) {
			t.Errorf("err = %v, want ErrUploadFailed", err)
		}
		got, _ := s.Document().BlockByID(block.ID)
		if got.Data.(model.ImageData).URL != "" {
			t.Errorf("URL = %q, want untouched", got.Data.(model.ImageData).URL)
		}
	})
}
