// Package codec converts block documents to and from their persisted
// JSON form, and migrates legacy plain-text content into single-block
// documents on the way in.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/style"
)

type documentJSON struct {
	Blocks []model.Block `json:"blocks"`
}

// Encode serializes a document as {"blocks":[{"id","type","data"},...]}.
// Style overrides travel inside data.styles, never as a separate field.
func Encode(doc model.Document) ([]byte, error) {
	blocks := doc.Blocks
	if blocks == nil {
		blocks = []model.Block{}
	}
	raw, err := json.Marshal(documentJSON{Blocks: blocks})
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return raw, nil
}

// Decode hydrates a document from its persisted form. Three tiers:
//
//  1. Empty input yields an empty document.
//  2. JSON with a "blocks" array is used verbatim. Block types are not
//     validated here; unknown types stay inert and round-trip.
//  3. Anything that does not parse as JSON is legacy plain text and is
//     wrapped in a single paragraph block, unless it is whitespace-only.
//
// Malformed input is a recovery path, not an error: content authored
// before the block model existed must still load.
func Decode(raw []byte) model.Document {
	if len(bytes.TrimSpace(raw)) == 0 {
		return model.Document{}
	}

	var dj documentJSON
	if err := json.Unmarshal(raw, &dj); err == nil && looksLikeDocument(raw) {
		return model.Document{Blocks: dj.Blocks}
	}

	return legacyDocument(string(raw))
}

// looksLikeDocument guards against scalar JSON such as a bare quoted
// string decoding as an empty document. Only an object with a blocks
// key counts as the block format.
func looksLikeDocument(raw []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	_, ok := probe["blocks"]
	return ok
}

// legacyDocument wraps pre-block-model plain text in a single paragraph
// block so it renders like it always did.
func legacyDocument(text string) model.Document {
	if strings.TrimSpace(text) == "" {
		return model.Document{}
	}
	return model.Document{
		Blocks: []model.Block{{
			ID:   model.NewBlockID(),
			Type: model.TypeParagraph,
			Data: model.ParagraphData{Text: text, StyleMap: style.Overrides{}},
		}},
	}
}
