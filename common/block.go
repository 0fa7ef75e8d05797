package common

// BlockID identifies a block within an IRType's block allocator.
type BlockID int

// BlockLike is implemented by each IR level's Block type so the generic
// BlockAllocator can be shared across IR, MIR and LIR (component B, "basic
// allocator for block IDs").
type BlockLike interface {
	// Children returns the BlockIDs of any sub-blocks nested in this
	// block's instructions (If/IfElse/Modify/ReturnRun bodies), used by
	// traversals that must walk into structured bodies (call-graph
	// analysis, DCE, register liveness).
	Children() []BlockID
}

// BlockAllocator is an integer-keyed, insertion-ordered table of blocks,
// shared by the IR, MIR and LIR packages.
type BlockAllocator[B BlockLike] struct {
	blocks map[BlockID]B
	order  []BlockID
	next   BlockID
}

func NewBlockAllocator[B BlockLike]() *BlockAllocator[B] {
	return &BlockAllocator[B]{blocks: make(map[BlockID]B)}
}

// Alloc inserts b and returns its freshly assigned BlockID.
func (a *BlockAllocator[B]) Alloc(b B) BlockID {
	id := a.next
	a.next++
	a.blocks[id] = b
	a.order = append(a.order, id)
	return id
}

func (a *BlockAllocator[B]) Get(id BlockID) (B, bool) {
	b, ok := a.blocks[id]
	return b, ok
}

// Set overwrites the contents of an already-allocated block (used when a
// pass rewrites a block's instructions in place).
func (a *BlockAllocator[B]) Set(id BlockID, b B) {
	a.blocks[id] = b
}

// Remove deletes a block. Used by DCE when an inlined/dead sub-block no
// longer has any referent.
func (a *BlockAllocator[B]) Remove(id BlockID) {
	if _, ok := a.blocks[id]; !ok {
		return
	}
	delete(a.blocks, id)
	for i, e := range a.order {
		if e == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Order returns every live BlockID in allocation order.
func (a *BlockAllocator[B]) Order() []BlockID {
	out := make([]BlockID, len(a.order))
	copy(out, a.order)
	return out
}

func (a *BlockAllocator[B]) Len() int { return len(a.order) }
