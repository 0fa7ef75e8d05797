// Package lir implements the lowest IR level (spec §3, §4.3): flat
// instructions over value operands with zero or more modifiers. No
// structured bodies remain at this level — every sub-block from MIR has
// already been spliced inline or extracted into a child function.
package lir

import "dpc/common"

// InstrKind enumerates the flat LIR opcodes.
type InstrKind int

const (
	LSetScore InstrKind = iota
	LSetData
	LAddScore
	LSubScore
	LMulScore
	LDivScore
	LModScore
	LMinScore
	LMaxScore
	LSwapScore
	LGetScore
	LGetData
	LCall
	LReturnValue
	LReturnRun
	LNoOp
	LSay
	LTell
	LKill
	LReload
	LSetXP
)

// Instr is one flat LIR instruction, carrying zero or more modifiers (spec
// §3: "only LIR instructions carry modifiers").
type Instr struct {
	Kind      InstrKind
	Modifiers []common.Modifier

	// SetScore/SetData/arithmetic ops: Dest {=,+=,-=,...} Src.
	Dest common.MutableValue
	Src  common.Value

	// SwapScore
	SwapA, SwapB common.MutableValue

	// Call
	Call common.CallInterface

	// ReturnValue: a constant value returned directly.
	RetVal common.Value

	// ReturnRun: wraps the single instruction whose result is returned (the
	// one instruction the ReturnRun body lowered to, or an LCall of the
	// function extracted from a longer body).
	Inner *Instr

	// Say/Tell
	Message string

	// Tell/Kill/SetXP
	Target common.EntityTarget

	// SetXP
	XPAmount int32
	XPKind   common.SetXPKind
}

// HasSideEffectfulModifier reports whether any modifier in the chain
// cannot be dropped even if the wrapped command is a no-op (spec §4.6).
func (i Instr) HasSideEffectfulModifier() bool {
	for _, m := range i.Modifiers {
		if m.HasExtraSideEffects() {
			return true
		}
	}
	return false
}

// IsScoreArith reports whether the kind is one of the binary score
// arithmetic ops (everything that lowers to `scoreboard players
// operation`).
func IsScoreArith(k InstrKind) bool {
	switch k {
	case LAddScore, LSubScore, LMulScore, LDivScore, LModScore, LMinScore, LMaxScore:
		return true
	}
	return false
}

// IsNoOpCommand reports whether the instruction, ignoring modifiers,
// produces no observable effect on its own (spec §4.6 "pure no-op"
// dropping rule).
func (i Instr) IsNoOpCommand() bool {
	return i.Kind == LNoOp
}

// UsedRegs appends every register this instruction reads or writes,
// including those mentioned only in its modifier chain.
func (i Instr) UsedRegs(out []*common.Identifier) []*common.Identifier {
	switch i.Kind {
	case LSetScore, LSetData, LAddScore, LSubScore, LMulScore, LDivScore, LModScore, LMinScore, LMaxScore, LGetScore, LGetData, LNoOp:
		out = i.Dest.UsedRegs(out)
		out = i.Src.UsedRegs(out)
	case LSwapScore:
		out = i.SwapA.UsedRegs(out)
		out = i.SwapB.UsedRegs(out)
	case LCall:
		for _, a := range i.Call.Args {
			out = a.UsedRegs(out)
		}
		for _, d := range i.Call.RetDestinations {
			out = d.UsedRegs(out)
		}
	case LReturnValue:
		out = i.RetVal.UsedRegs(out)
	case LReturnRun:
		if i.Inner != nil {
			out = i.Inner.UsedRegs(out)
		}
	case LTell, LKill, LSetXP:
		// EntityTarget carries no register reference in this model.
	}
	for _, m := range i.Modifiers {
		out = m.UsedRegs(out)
	}
	return out
}

// Block is a single function's (or child function's) flat instruction
// sequence plus its declared registers.
type Block struct {
	Registers    *common.RegisterList
	Instructions []Instr
}

func NewBlock() *Block {
	return &Block{Registers: common.NewRegisterList()}
}

// Function is one top-level or child function in the LIR program.
type Function struct {
	Interface common.FunctionInterface
	Body      *Block

	// Parent is the enclosing function's name, set for child functions
	// synthesized during sub-block extraction (spec §4.3 "Sub-block
	// lowering"); empty for top-level functions.
	Parent string
	// Children lists the names of functions synthesized from this
	// function's sub-blocks, in creation order (spec glossary "Chunk").
	Children []string
}

// Program is the full LIR module: every function (top-level and
// synthesized child), keyed by name, insertion-ordered.
type Program struct {
	Functions map[string]*Function
	FuncOrder []string
}

func NewProgram() *Program {
	return &Program{Functions: make(map[string]*Function)}
}

func (p *Program) AddFunction(f *Function) {
	name := f.Interface.ID.Name()
	if _, exists := p.Functions[name]; !exists {
		p.FuncOrder = append(p.FuncOrder, name)
	}
	p.Functions[name] = f
}

func (p *Program) RemoveFunction(name string) {
	if _, ok := p.Functions[name]; !ok {
		return
	}
	delete(p.Functions, name)
	for i, n := range p.FuncOrder {
		if n == name {
			p.FuncOrder = append(p.FuncOrder[:i], p.FuncOrder[i+1:]...)
			break
		}
	}
}
