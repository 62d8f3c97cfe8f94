package model

import (
	"encoding/json"

	"github.com/inkwell-blog/inkwell/internal/style"
)

// BlockData is the tagged union of per-type payloads. The block's Type
// field is the discriminant; handlers switch on the concrete type.
type BlockData interface {
	// Styles returns the block's sparse style overrides.
	Styles() style.Overrides
	// WithStyles returns a copy of the payload with the overrides
	// replaced. Content fields are untouched.
	WithStyles(style.Overrides) BlockData
	// Clone returns a deep copy safe to mutate independently.
	Clone() BlockData
}

// List style values.
const (
	ListOrdered   = "ordered"
	ListUnordered = "unordered"
)

// Heading levels are constrained to 1 through 4; 2 is the default.
const (
	MinHeadingLevel     = 1
	MaxHeadingLevel     = 4
	DefaultHeadingLevel = 2
)

// ClampHeadingLevel normalizes a stored heading level: zero (absent)
// becomes the default, out-of-range values are pulled into range.
func ClampHeadingLevel(level int) int {
	switch {
	case level == 0:
		return DefaultHeadingLevel
	case level < MinHeadingLevel:
		return MinHeadingLevel
	case level > MaxHeadingLevel:
		return MaxHeadingLevel
	}
	return level
}

type HeadingData struct {
	Text     string          `json:"text"`
	Level    int             `json:"level"`
	StyleMap style.Overrides `json:"styles"`
}

func (d HeadingData) Styles() style.Overrides { return d.StyleMap }
func (d HeadingData) WithStyles(o style.Overrides) BlockData {
	d.StyleMap = o
	return d
}
func (d HeadingData) Clone() BlockData { return d }

type ParagraphData struct {
	Text     string          `json:"text"`
	StyleMap style.Overrides `json:"styles"`
}

func (d ParagraphData) Styles() style.Overrides { return d.StyleMap }
func (d ParagraphData) WithStyles(o style.Overrides) BlockData {
	d.StyleMap = o
	return d
}
func (d ParagraphData) Clone() BlockData { return d }

type ImageData struct {
	URL      string          `json:"url"`
	Caption  string          `json:"caption"`
	StyleMap style.Overrides `json:"styles"`
}

func (d ImageData) Styles() style.Overrides { return d.StyleMap }
func (d ImageData) WithStyles(o style.Overrides) BlockData {
	d.StyleMap = o
	return d
}
func (d ImageData) Clone() BlockData { return d }

type ListData struct {
	Items    []string        `json:"items"`
	Style    string          `json:"style"`
	StyleMap style.Overrides `json:"styles"`
}

func (d ListData) Styles() style.Overrides { return d.StyleMap }
func (d ListData) WithStyles(o style.Overrides) BlockData {
	d.StyleMap = o
	d.Items = append([]string(nil), d.Items...)
	return d
}
func (d ListData) Clone() BlockData {
	d.Items = append([]string(nil), d.Items...)
	return d
}

type QuoteData struct {
	Text     string          `json:"text"`
	Author   string          `json:"author"`
	StyleMap style.Overrides `json:"styles"`
}

func (d QuoteData) Styles() style.Overrides { return d.StyleMap }
func (d QuoteData) WithStyles(o style.Overrides) BlockData {
	d.StyleMap = o
	return d
}
func (d QuoteData) Clone() BlockData { return d }

type CodeData struct {
	Code     string          `json:"code"`
	Language string          `json:"language,omitempty"`
	StyleMap style.Overrides `json:"styles"`
}

func (d CodeData) Styles() style.Overrides { return d.StyleMap }
func (d CodeData) WithStyles(o style.Overrides) BlockData {
	d.StyleMap = o
	return d
}
func (d CodeData) Clone() BlockData { return d }

type DividerData struct {
	StyleMap style.Overrides `json:"styles"`
}

func (d DividerData) Styles() style.Overrides { return d.StyleMap }
func (d DividerData) WithStyles(o style.Overrides) BlockData {
	d.StyleMap = o
	return d
}
func (d DividerData) Clone() BlockData { return d }

type VideoData struct {
	URL      string          `json:"url"`
	StyleMap style.Overrides `json:"styles"`
}

func (d VideoData) Styles() style.Overrides { return d.StyleMap }
func (d VideoData) WithStyles(o style.Overrides) BlockData {
	d.StyleMap = o
	return d
}
func (d VideoData) Clone() BlockData { return d }

type SpacerData struct {
	StyleMap style.Overrides `json:"styles"`
}

func (d SpacerData) Styles() style.Overrides { return d.StyleMap }
func (d SpacerData) WithStyles(o style.Overrides) BlockData {
	d.StyleMap = o
	return d
}
func (d SpacerData) Clone() BlockData { return d }

// UnknownData preserves the payload of a block type this build does not
// know about. It round-trips verbatim and renders as nothing.
type UnknownData struct {
	Raw json.RawMessage
}

func (d UnknownData) Styles() style.Overrides { return style.Overrides{} }
func (d UnknownData) WithStyles(style.Overrides) BlockData { return d }
func (d UnknownData) Clone() BlockData {
	d.Raw = append(json.RawMessage(nil), d.Raw...)
	return d
}

func (d UnknownData) MarshalJSON() ([]byte, error) {
	if len(d.Raw) == 0 {
		return []byte("{}"), nil
	}
	return d.Raw, nil
}

func (d *UnknownData) UnmarshalJSON(raw []byte) error {
	d.Raw = append(json.RawMessage(nil), raw...)
	return nil
}
