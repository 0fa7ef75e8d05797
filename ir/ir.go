// Package ir implements the top IR level (component B): the richest form
// that the parser produces, consumed by driver.Compile per spec §6's
// "Parser input contract". It owns no lexer/parser of its own — those are
// external collaborators (spec §1 Non-goals).
package ir

import (
	"dpc/common"
)

// Block is a linear sequence of IR instructions owned by one function (or
// nested as a structured sub-body of an If/IfElse/Modify/ReturnRun
// instruction within that function).
type Block struct {
	Registers    *common.RegisterList
	Instructions []common.Instr
}

func NewBlock() *Block {
	return &Block{Registers: common.NewRegisterList()}
}

// Children implements common.BlockLike.
func (b *Block) Children() []common.BlockID {
	var out []common.BlockID
	for _, instr := range b.Instructions {
		out = append(out, instr.Children()...)
	}
	return out
}

// Function is a named, typed IR function: its signature plus the BlockID of
// its body in the enclosing Program's block allocator.
type Function struct {
	Interface common.FunctionInterface
	Block     common.BlockID
}

// Program is the whole unit the parser produces: a function table plus a
// block allocator (spec §6 "Parser input contract").
type Program struct {
	Functions map[string]*Function // keyed by FunctionInterface.ID.Name()
	FuncOrder []string
	Blocks    *common.BlockAllocator[*Block]
}

func NewProgram() *Program {
	return &Program{
		Functions: make(map[string]*Function),
		Blocks:    common.NewBlockAllocator[*Block](),
	}
}

// AddFunction registers a function and allocates its top-level block,
// returning the allocated BlockID.
func (p *Program) AddFunction(iface common.FunctionInterface, body *Block) common.BlockID {
	id := p.Blocks.Alloc(body)
	name := iface.ID.Name()
	if _, exists := p.Functions[name]; !exists {
		p.FuncOrder = append(p.FuncOrder, name)
	}
	p.Functions[name] = &Function{Interface: iface, Block: id}
	return id
}

// GetBlock fetches a block; ok is false if it is missing. LowerToMIR turns
// a missing block into an InvalidIR error (spec §4.1 "any IR block
// referenced by a function but missing from the block table fails with
// InvalidIR").
func (p *Program) GetBlock(id common.BlockID) (*Block, bool) {
	return p.Blocks.Get(id)
}
