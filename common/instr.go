package common

// InstrKind enumerates the instruction kinds shared by the IR and MIR
// levels (spec §4.1: "every other IR kind maps 1:1 to the corresponding MIR
// kind preserving operands"). The only place IR and MIR differ is Declare:
// on IR it carries its initializer (Right) inline; on MIR it never does —
// IR→MIR lowering splits it into a bare Declare followed by an Assign
// (spec §4.1).
type InstrKind int

const (
	IDeclare InstrKind = iota
	IAssign
	IAdd
	ISub
	IMul
	IDiv
	IMod
	IMin
	IMax
	ISwap
	IAbs
	INot
	IAnd
	IOr
	IXor
	IPow
	IIf
	IIfElse
	IModify
	IReturnRun
	IReturn
	ICall
	INoOp
	// Supplemented MC-level leaf operations, carried over from
	// original_source/src/ir.rs (Use/Say/Tell/Kill/Reload/SetXP), which
	// spec.md's distillation dropped but did not exclude via Non-goals.
	IUse
	ISay
	ITell
	IKill
	IReload
	ISetXP
)

// DeclareBindingKind tags the RHS of a Declare/Assign (spec §3).
type DeclareBindingKind int

const (
	DBNull DeclareBindingKind = iota
	DBValue
	DBCast
	DBCondition
	DBIndex
)

// DeclareBinding is the right-hand side of a Declare or Assign instruction.
type DeclareBinding struct {
	Kind DeclareBindingKind

	Val Value // DBValue

	CastTy  DataType     // DBCast
	CastVal MutableValue // DBCast

	Cond *Condition // DBCondition

	IndexTy  DataType     // DBIndex
	IndexVal MutableValue // DBIndex
	Index    int          // DBIndex
}

func NullBinding() DeclareBinding           { return DeclareBinding{Kind: DBNull} }
func ValueBinding(v Value) DeclareBinding   { return DeclareBinding{Kind: DBValue, Val: v} }
func CastBinding(ty DataType, v MutableValue) DeclareBinding {
	return DeclareBinding{Kind: DBCast, CastTy: ty, CastVal: v}
}
func ConditionBinding(c Condition) DeclareBinding {
	return DeclareBinding{Kind: DBCondition, Cond: &c}
}
func IndexBinding(ty DataType, v MutableValue, idx int) DeclareBinding {
	return DeclareBinding{Kind: DBIndex, IndexTy: ty, IndexVal: v, Index: idx}
}

// SetXPKind distinguishes add/set/reduce XP operations, carried over from
// original_source's XPValue.
type SetXPKind int

const (
	XPAdd SetXPKind = iota
	XPSet
)

// Instr is a single instruction shared between the IR and MIR levels. Not
// every field is meaningful for every Kind; see the constructors below for
// the valid combination per kind.
type Instr struct {
	Kind InstrKind

	// Declare
	DeclLeft  *Identifier
	DeclTy    DataType
	DeclRight DeclareBinding // only set on IR; MIR Declare leaves this zero

	// Assign and binary arithmetic (Add/Sub/Mul/Div/Mod/Min/Max)
	Left  MutableValue
	Right Value

	// Assign uses a DeclareBinding on the right, so Right above is wrapped;
	// AssignBinding carries the full RHS shape (Value/Cast/Condition/Index).
	AssignBinding DeclareBinding

	// Swap
	SwapLeft, SwapRight MutableValue

	// Abs/Not/Use
	Val MutableValue

	// Pow
	Exp uint8

	// If/IfElse
	Cond       Condition
	Body       BlockID // If body, or IfElse's "first" body
	ElseBody   BlockID // IfElse's "second" body

	// Modify
	Modifier ModifierPlaceholder // filled in by the lir package; unused at IR/MIR level except as a marker that a body exists
	ModBody  BlockID

	// ReturnRun
	RunBody BlockID

	// Return
	RetVal Value
	RetVoid bool

	// Call
	Call CallInterface

	// Say/Tell
	Message string

	// Tell/Kill/SetXP
	Target EntityTarget

	// SetXP
	XPAmount int32
	XPKind   SetXPKind
}

// ModifierPlaceholder exists because IR/MIR never carry a real Modifier (that
// only exists at LIR level, spec §3 "Only LIR instructions carry
// modifiers"); MIR's Modify instruction instead names which kind of
// modifier wraps its body using this small descriptor, lowered to a real
// common.Modifier during MIR→LIR lowering.
type ModifierPlaceholder struct {
	Kind ModifierKind

	Anchor string
	AlignX, AlignY, AlignZ bool
	Target EntityTarget
	Dim    ResourceLocation
	Coords Coordinates
	Rot    [2]Coordinate
	Entity ResourceLocation
	Relation string
}
