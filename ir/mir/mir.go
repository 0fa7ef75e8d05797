// Package mir implements the middle IR level: the same instruction kinds as
// ir.Block (spec §4.1), but with every Declare split into a bare Declare
// followed by an Assign, and carrying the field in optimization passes
// operate between IR→MIR and MIR→LIR lowering (spec §4.2).
package mir

import "dpc/common"

type Block struct {
	Registers    *common.RegisterList
	Instructions []common.Instr
}

func NewBlock() *Block {
	return &Block{Registers: common.NewRegisterList()}
}

func (b *Block) Children() []common.BlockID {
	var out []common.BlockID
	for _, instr := range b.Instructions {
		out = append(out, instr.Children()...)
	}
	return out
}

type Function struct {
	Interface common.FunctionInterface
	Block     common.BlockID
}

type Program struct {
	Functions map[string]*Function
	FuncOrder []string
	Blocks    *common.BlockAllocator[*Block]
}

func NewProgram() *Program {
	return &Program{
		Functions: make(map[string]*Function),
		Blocks:    common.NewBlockAllocator[*Block](),
	}
}

func (p *Program) AddFunction(iface common.FunctionInterface, body *Block) common.BlockID {
	id := p.Blocks.Alloc(body)
	name := iface.ID.Name()
	if _, exists := p.Functions[name]; !exists {
		p.FuncOrder = append(p.FuncOrder, name)
	}
	p.Functions[name] = &Function{Interface: iface, Block: id}
	return id
}

func (p *Program) GetBlock(id common.BlockID) (*Block, bool) {
	return p.Blocks.Get(id)
}

func (p *Program) RemoveFunction(name string) {
	f, ok := p.Functions[name]
	if !ok {
		return
	}
	p.Blocks.Remove(f.Block)
	delete(p.Functions, name)
	for i, n := range p.FuncOrder {
		if n == name {
			p.FuncOrder = append(p.FuncOrder[:i], p.FuncOrder[i+1:]...)
			break
		}
	}
}
