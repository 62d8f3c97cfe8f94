package editor

import "github.com/inkwell-blog/inkwell/internal/model"

// The drag protocol is a small state machine:
//
//	idle -> dragging(source) -> dropped(target) | cancelled -> idle
//
// The source carries the one discriminant that matters: whether the
// drag introduces a new block from the palette or repositions an
// existing one. Every drop outcome is a single deterministic transition;
// there are no ad hoc boolean flags.

type dragPhase int

const (
	dragIdle dragPhase = iota
	dragActive
)

// DragSource identifies what is being dragged. Exactly one of NewType
// and BlockID is set.
type DragSource struct {
	// NewType is the palette type for a brand-new block.
	NewType model.BlockType
	// BlockID names an existing block being reordered.
	BlockID model.BlockID
}

// FromPalette reports whether the drag introduces a new block.
func (s DragSource) FromPalette() bool {
	return s.NewType != ""
}

// DropTarget is where a drag ended. The zero value means "outside any
// valid target" and resolves to no mutation.
type DropTarget struct {
	// EmptyZone is the drop zone shown when the document has no blocks.
	EmptyZone bool
	// BlockID is the existing block the source was dropped onto.
	BlockID model.BlockID
}

func (t DropTarget) valid() bool {
	return t.EmptyZone || t.BlockID != ""
}

type dragState struct {
	phase  dragPhase
	source DragSource
}
