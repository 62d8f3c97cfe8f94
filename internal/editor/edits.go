package editor

import (
	"fmt"

	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/style"
)

// Inline edits merge one changed field into the block's existing
// payload before calling the wholesale update, so untouched fields
// survive.

// SetText updates the text of a heading, paragraph or quote block.
func (s *Session) SetText(id model.BlockID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, ok := s.doc.BlockByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrBlockNotFound, id)
	}

	switch data := block.Data.(type) {
	case model.HeadingData:
		data.Text = text
		return s.updateDataLocked(id, data)
	case model.ParagraphData:
		data.Text = text
		return s.updateDataLocked(id, data)
	case model.QuoteData:
		data.Text = text
		return s.updateDataLocked(id, data)
	default:
		return fmt.Errorf("%w: %s has no text field", ErrWrongBlockType, block.Type)
	}
}

// SetHeadingLevel updates a heading block's level, clamped to the valid
// range.
func (s *Session) SetHeadingLevel(id model.BlockID, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := headingData(s.doc, id)
	if err != nil {
		return err
	}
	data.Level = model.ClampHeadingLevel(level)
	return s.updateDataLocked(id, data)
}

// SetQuoteAuthor updates a quote block's attribution line.
func (s *Session) SetQuoteAuthor(id model.BlockID, author string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, ok := s.doc.BlockByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrBlockNotFound, id)
	}
	data, ok := block.Data.(model.QuoteData)
	if !ok {
		return fmt.Errorf("%w: %s is not a quote", ErrWrongBlockType, id)
	}
	data.Author = author
	return s.updateDataLocked(id, data)
}

// SetCode updates a code block's source text.
func (s *Session) SetCode(id model.BlockID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := codeData(s.doc, id)
	if err != nil {
		return err
	}
	data.Code = code
	return s.updateDataLocked(id, data)
}

// SetCodeLanguage updates a code block's highlight language.
func (s *Session) SetCodeLanguage(id model.BlockID, language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := codeData(s.doc, id)
	if err != nil {
		return err
	}
	data.Language = language
	return s.updateDataLocked(id, data)
}

// SetVideoURL updates a video block's source URL.
func (s *Session) SetVideoURL(id model.BlockID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, ok := s.doc.BlockByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrBlockNotFound, id)
	}
	data, ok := block.Data.(model.VideoData)
	if !ok {
		return fmt.Errorf("%w: %s is not a video", ErrWrongBlockType, id)
	}
	data.URL = url
	return s.updateDataLocked(id, data)
}

// SetImageCaption updates an image block's caption.
func (s *Session) SetImageCaption(id model.BlockID, caption string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := imageData(s.doc, id)
	if err != nil {
		return err
	}
	data.Caption = caption
	return s.updateDataLocked(id, data)
}

// SetListStyle switches a list block between ordered and unordered.
func (s *Session) SetListStyle(id model.BlockID, listStyle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if listStyle != model.ListOrdered && listStyle != model.ListUnordered {
		return fmt.Errorf("%w: unknown list style %q", ErrWrongBlockType, listStyle)
	}
	data, err := listData(s.doc, id)
	if err != nil {
		return err
	}
	data.Style = listStyle
	return s.updateDataLocked(id, data)
}

// SetListItem replaces the text of one list item.
func (s *Session) SetListItem(id model.BlockID, index int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := listData(s.doc, id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(data.Items) {
		return fmt.Errorf("%w: list item %d out of range", model.ErrBlockNotFound, index)
	}
	items := append([]string(nil), data.Items...)
	items[index] = text
	data.Items = items
	return s.updateDataLocked(id, data)
}

// ListItemEnter handles the enter key on a list item: a non-empty item
// gets a new empty item inserted right after it, and editing focus
// moves there. Returns the index that should receive focus.
func (s *Session) ListItemEnter(id model.BlockID, index int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := listData(s.doc, id)
	if err != nil {
		return index, err
	}
	if index < 0 || index >= len(data.Items) || data.Items[index] == "" {
		return index, nil
	}

	items := make([]string, 0, len(data.Items)+1)
	items = append(items, data.Items[:index+1]...)
	items = append(items, "")
	items = append(items, data.Items[index+1:]...)
	data.Items = items

	if err := s.updateDataLocked(id, data); err != nil {
		return index, err
	}
	return index + 1, nil
}

// ListItemBackspace handles backspace on an already-empty list item:
// when more than one item exists the item is removed and focus moves to
// the previous one. Returns the index that should receive focus.
func (s *Session) ListItemBackspace(id model.BlockID, index int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := listData(s.doc, id)
	if err != nil {
		return index, err
	}
	if index < 0 || index >= len(data.Items) {
		return index, nil
	}
	if data.Items[index] != "" || len(data.Items) <= 1 {
		return index, nil
	}

	items := append([]string(nil), data.Items[:index]...)
	items = append(items, data.Items[index+1:]...)
	data.Items = items

	if err := s.updateDataLocked(id, data); err != nil {
		return index, err
	}
	focus := index - 1
	if focus < 0 {
		focus = 0
	}
	return focus, nil
}

// StylePatch carries the style keys changed by the settings panel.
// Nil fields are untouched; a non-nil zero value clears the override.
type StylePatch struct {
	Width       *string  `json:"width,omitempty"`
	CustomWidth *string  `json:"customWidth,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	HeightUnit  *string  `json:"heightUnit,omitempty"`
	Align       *string  `json:"align,omitempty"`

	PaddingTop    *int `json:"paddingTop,omitempty"`
	PaddingRight  *int `json:"paddingRight,omitempty"`
	PaddingBottom *int `json:"paddingBottom,omitempty"`
	PaddingLeft   *int `json:"paddingLeft,omitempty"`

	MarginTop    *int `json:"marginTop,omitempty"`
	MarginBottom *int `json:"marginBottom,omitempty"`

	Background   *string `json:"background,omitempty"`
	BorderRadius *int    `json:"borderRadius,omitempty"`
	FontSize     *string `json:"fontSize,omitempty"`
}

func applyStylePatch(o style.Overrides, p StylePatch) style.Overrides {
	if p.Width != nil {
		o.Width = *p.Width
	}
	if p.CustomWidth != nil {
		o.CustomWidth = *p.CustomWidth
	}
	if p.Height != nil {
		o.Height = *p.Height
	}
	if p.HeightUnit != nil {
		o.HeightUnit = *p.HeightUnit
	}
	if p.Align != nil {
		o.Align = *p.Align
	}
	if p.PaddingTop != nil {
		o.PaddingTop = *p.PaddingTop
	}
	if p.PaddingRight != nil {
		o.PaddingRight = *p.PaddingRight
	}
	if p.PaddingBottom != nil {
		o.PaddingBottom = *p.PaddingBottom
	}
	if p.PaddingLeft != nil {
		o.PaddingLeft = *p.PaddingLeft
	}
	if p.MarginTop != nil {
		o.MarginTop = *p.MarginTop
	}
	if p.MarginBottom != nil {
		o.MarginBottom = *p.MarginBottom
	}
	if p.Background != nil {
		o.Background = *p.Background
	}
	if p.BorderRadius != nil {
		o.BorderRadius = *p.BorderRadius
	}
	if p.FontSize != nil {
		o.FontSize = *p.FontSize
	}
	return o
}

// UpdateStyles applies a settings-panel edit to a block. Only the keys
// present in the patch change; unrelated style keys are never replaced.
func (s *Session) UpdateStyles(id model.BlockID, patch StylePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, ok := s.doc.BlockByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrBlockNotFound, id)
	}

	merged := applyStylePatch(block.Data.Styles(), patch)
	return s.updateDataLocked(id, block.Data.WithStyles(merged))
}

func headingData(d model.Document, id model.BlockID) (model.HeadingData, error) {
	block, ok := d.BlockByID(id)
	if !ok {
		return model.HeadingData{}, fmt.Errorf("%w: %s", model.ErrBlockNotFound, id)
	}
	data, ok := block.Data.(model.HeadingData)
	if !ok {
		return model.HeadingData{}, fmt.Errorf("%w: %s is not a heading", ErrWrongBlockType, id)
	}
	return data, nil
}

func codeData(d model.Document, id model.BlockID) (model.CodeData, error) {
	block, ok := d.BlockByID(id)
	if !ok {
		return model.CodeData{}, fmt.Errorf("%w: %s", model.ErrBlockNotFound, id)
	}
	data, ok := block.Data.(model.CodeData)
	if !ok {
		return model.CodeData{}, fmt.Errorf("%w: %s is not a code block", ErrWrongBlockType, id)
	}
	return data, nil
}

func imageData(d model.Document, id model.BlockID) (model.ImageData, error) {
	block, ok := d.BlockByID(id)
	if !ok {
		return model.ImageData{}, fmt.Errorf("%w: %s", model.ErrBlockNotFound, id)
	}
	data, ok := block.Data.(model.ImageData)
	if !ok {
		return model.ImageData{}, fmt.Errorf("%w: %s is not an image block", ErrWrongBlockType, id)
	}
	return data, nil
}

func listData(d model.Document, id model.BlockID) (model.ListData, error) {
	block, ok := d.BlockByID(id)
	if !ok {
		return model.ListData{}, fmt.Errorf("%w: %s", model.ErrBlockNotFound, id)
	}
	data, ok := block.Data.(model.ListData)
	if !ok {
		return model.ListData{}, fmt.Errorf("%w: %s is not a list", ErrWrongBlockType, id)
	}
	return data, nil
}
