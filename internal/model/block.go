// Package model defines the block document structures for post content:
// typed blocks, their per-type payloads, and the ordered document that
// holds them.
package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type BlockID string

// NewBlockID returns a fresh identifier for a block. IDs are never
// reused, even after the block is deleted.
func NewBlockID() BlockID {
	return BlockID(uuid.New().String())
}

// BlockType discriminates the payload shape carried in Block.Data.
type BlockType string

const (
	TypeHeading   BlockType = "heading"
	TypeParagraph BlockType = "paragraph"
	TypeImage     BlockType = "image"
	TypeList      BlockType = "list"
	TypeQuote     BlockType = "quote"
	TypeCode      BlockType = "code"
	TypeDivider   BlockType = "divider"
	TypeVideo     BlockType = "video"
	TypeSpacer    BlockType = "spacer"
)

// Block is one atomic unit of content. Data always matches the shape
// mandated by Type; a block never carries another type's fields.
type Block struct {
	ID   BlockID
	Type BlockType
	Data BlockData
}

type blockJSON struct {
	ID   BlockID         `json:"id"`
	Type BlockType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (b Block) MarshalJSON() ([]byte, error) {
	data := b.Data
	if data == nil {
		data = emptyData(b.Type)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s block %s: %w", b.Type, b.ID, err)
	}
	return json.Marshal(blockJSON{ID: b.ID, Type: b.Type, Data: raw})
}

func (b *Block) UnmarshalJSON(raw []byte) error {
	var bj blockJSON
	if err := json.Unmarshal(raw, &bj); err != nil {
		return err
	}

	b.ID = bj.ID
	b.Type = bj.Type
	b.Data = decodeData(bj.Type, bj.Data)
	return nil
}

// decodeData parses a payload for the given type. A payload that cannot
// be parsed into its declared shape, or a type outside the registry, is
// kept verbatim as UnknownData so the document still round-trips.
func decodeData(t BlockType, raw json.RawMessage) BlockData {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	var data BlockData
	switch t {
	// "header", "embed" and "delimiter" are accepted as aliases for
	// content written by older block editors. The stored type string is
	// preserved so re-encoding round-trips.
	case TypeHeading, "header":
		data = &HeadingData{}
	case TypeParagraph:
		data = &ParagraphData{}
	case TypeImage:
		data = &ImageData{}
	case TypeList:
		data = &ListData{}
	case TypeQuote:
		data = &QuoteData{}
	case TypeCode:
		data = &CodeData{}
	case TypeDivider, "delimiter":
		data = &DividerData{}
	case TypeVideo, "embed":
		data = &VideoData{}
	case TypeSpacer:
		data = &SpacerData{}
	default:
		return UnknownData{Raw: append(json.RawMessage(nil), raw...)}
	}

	if err := json.Unmarshal(raw, data); err != nil {
		return UnknownData{Raw: append(json.RawMessage(nil), raw...)}
	}
	return deref(data)
}

// deref converts the pointer used for unmarshalling back to the value
// form the rest of the model works with.
func deref(data BlockData) BlockData {
	switch d := data.(type) {
	case *HeadingData:
		return *d
	case *ParagraphData:
		return *d
	case *ImageData:
		return *d
	case *ListData:
		return *d
	case *QuoteData:
		return *d
	case *CodeData:
		return *d
	case *DividerData:
		return *d
	case *VideoData:
		return *d
	case *SpacerData:
		return *d
	default:
		return data
	}
}

func emptyData(t BlockType) BlockData {
	if data, ok := DefaultData(t); ok {
		return data
	}
	return UnknownData{Raw: json.RawMessage("{}")}
}
