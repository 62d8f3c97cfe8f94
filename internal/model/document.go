package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBlockType is returned when an insert names a type
	// outside the registry. The document is left untouched.
	ErrInvalidBlockType = errors.New("invalid block type")

	// ErrBlockNotFound is returned when a mutation targets an id that
	// is not in the document, typically a stale id after a delete.
	ErrBlockNotFound = errors.New("block not found")
)

// AppendIndex passed as an insertion index means "append at the end".
const AppendIndex = -1

// Document is an ordered sequence of blocks. Block order is the sole
// source of rendering order. The zero value is a valid empty document.
//
// Mutations return a new snapshot rather than editing in place, so a
// caller holding the previous value never sees it change underneath.
type Document struct {
	Blocks []Block
}

// Len returns the number of blocks.
func (d Document) Len() int {
	return len(d.Blocks)
}

// IndexOf returns the position of the block with the given id, or -1.
func (d Document) IndexOf(id BlockID) int {
	for i, b := range d.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// BlockByID returns the block with the given id.
func (d Document) BlockByID(id BlockID) (Block, bool) {
	if i := d.IndexOf(id); i >= 0 {
		return d.Blocks[i], true
	}
	return Block{}, false
}

func (d Document) copyBlocks(extra int) []Block {
	blocks := make([]Block, len(d.Blocks), len(d.Blocks)+extra)
	copy(blocks, d.Blocks)
	return blocks
}

// InsertBlock creates a block of type t with its registry default
// payload and inserts it at index at. An index beyond the end, or
// AppendIndex, appends. Returns the new snapshot and the created block.
func InsertBlock(d Document, t BlockType, at int) (Document, Block, error) {
	data, ok := DefaultData(t)
	if !ok {
		return d, Block{}, fmt.Errorf("%w: %q", ErrInvalidBlockType, t)
	}

	if at < 0 || at > len(d.Blocks) {
		at = len(d.Blocks)
	}

	block := Block{ID: NewBlockID(), Type: t, Data: data}

	blocks := d.copyBlocks(1)
	blocks = append(blocks, Block{})
	copy(blocks[at+1:], blocks[at:])
	blocks[at] = block

	return Document{Blocks: blocks}, block, nil
}

// MoveBlock relocates the block with the given id to index to, shifting
// the blocks in between. Moving a block onto its current position is a
// no-op; the second return value reports whether anything changed.
func MoveBlock(d Document, id BlockID, to int) (Document, bool, error) {
	from := d.IndexOf(id)
	if from < 0 {
		return d, false, fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}

	if to < 0 {
		to = 0
	}
	if to > len(d.Blocks)-1 {
		to = len(d.Blocks) - 1
	}
	if to == from {
		return d, false, nil
	}

	blocks := d.copyBlocks(0)
	moved := blocks[from]
	blocks = append(blocks[:from], blocks[from+1:]...)

	blocks = append(blocks, Block{})
	copy(blocks[to+1:], blocks[to:])
	blocks[to] = moved

	return Document{Blocks: blocks}, true, nil
}

// UpdateBlockData replaces a block's payload wholesale. Callers that
// only change one field must merge into the existing payload first.
func UpdateBlockData(d Document, id BlockID, data BlockData) (Document, error) {
	i := d.IndexOf(id)
	if i < 0 {
		return d, fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}

	blocks := d.copyBlocks(0)
	blocks[i].Data = data
	return Document{Blocks: blocks}, nil
}

// DeleteBlock removes the block with the given id. Deleting an absent
// id is a caller error, not a silent no-op: delete is always triggered
// from a concrete, currently rendered block.
func DeleteBlock(d Document, id BlockID) (Document, error) {
	i := d.IndexOf(id)
	if i < 0 {
		return d, fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}

	blocks := d.copyBlocks(0)
	blocks = append(blocks[:i], blocks[i+1:]...)
	return Document{Blocks: blocks}, nil
}
