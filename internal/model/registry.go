package model

import "github.com/inkwell-blog/inkwell/internal/style"

// The block registry is a closed table: the type set is fixed and there
// is no plugin mechanism. Adding a type means adding a payload struct,
// a default here, and render/editor handling for it.

var registry = map[BlockType]func() BlockData{
	TypeHeading: func() BlockData {
		return HeadingData{Text: "", Level: DefaultHeadingLevel, StyleMap: style.Overrides{}}
	},
	TypeParagraph: func() BlockData {
		return ParagraphData{Text: "", StyleMap: style.Overrides{}}
	},
	TypeImage: func() BlockData {
		return ImageData{URL: "", Caption: "", StyleMap: style.Overrides{}}
	},
	TypeList: func() BlockData {
		return ListData{Items: []string{""}, Style: ListUnordered, StyleMap: style.Overrides{}}
	},
	TypeQuote: func() BlockData {
		return QuoteData{Text: "", Author: "", StyleMap: style.Overrides{}}
	},
	TypeCode: func() BlockData {
		return CodeData{Code: "", StyleMap: style.Overrides{}}
	},
	TypeDivider: func() BlockData {
		return DividerData{StyleMap: style.Overrides{}}
	},
	TypeVideo: func() BlockData {
		return VideoData{URL: "", StyleMap: style.Overrides{}}
	},
	TypeSpacer: func() BlockData {
		return SpacerData{StyleMap: style.Overrides{Height: 50, HeightUnit: "px"}}
	},
}

// paletteOrder is the order block types are offered in the editor
// palette. Stable so the UI doesn't reshuffle between sessions.
var paletteOrder = []BlockType{
	TypeHeading,
	TypeParagraph,
	TypeImage,
	TypeList,
	TypeQuote,
	TypeCode,
	TypeDivider,
	TypeVideo,
	TypeSpacer,
}

// KnownType reports whether t is in the registry.
func KnownType(t BlockType) bool {
	_, ok := registry[t]
	return ok
}

// DefaultData returns a fresh default payload for t, or false when t is
// not a registered block type.
func DefaultData(t BlockType) (BlockData, bool) {
	ctor, ok := registry[t]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Types returns the registered block types in palette order.
func Types() []BlockType {
	return append([]BlockType(nil), paletteOrder...)
}
