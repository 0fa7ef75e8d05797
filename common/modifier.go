package common

import "fmt"

// ModifierKind tags the execute-style context-prefix sum type (spec §3).
type ModifierKind int

const (
	ModStoreResult ModifierKind = iota
	ModStoreSuccess
	ModIf
	ModAnchored
	ModAlign
	ModAs
	ModAt
	ModIn
	ModOn
	ModPositioned
	ModPositionedAs
	ModPositionedOver
	ModRotated
	ModRotatedAs
	ModFacingPosition
	ModFacingEntity
	ModSummon
)

// StoreModLocation is where a StoreResult/StoreSuccess modifier writes its
// outcome. Before register allocation the destination may still be an
// abstract register (IsReg); the code generator resolves it to a concrete
// ScoreRef/FullDataLocation using the allocator's result.
type StoreModLocation struct {
	IsScore bool
	Score   ScoreRef
	Data    FullDataLocation
	DataTy  NBTType

	IsReg bool
	Reg   *Identifier
	RegTy DataType
}

func (s StoreModLocation) String() string {
	if s.IsReg {
		return "$" + s.Reg.Name()
	}
	if s.IsScore {
		return s.Score.String()
	}
	return s.Data.String()
}

// RegStoreLoc builds a StoreModLocation targeting an as-yet-unallocated
// register, resolved later by the code generator.
func RegStoreLoc(reg *Identifier, ty DataType) StoreModLocation {
	isScore := ty.Family == FamilyScore
	return StoreModLocation{IsScore: isScore, IsReg: true, Reg: reg, RegTy: ty}
}

// Modifier is a single execute-modifier in the chain prefixed to a command.
type Modifier struct {
	Kind ModifierKind

	Store StoreModLocation // StoreResult/StoreSuccess

	Condition *Condition // If
	Negate    bool        // If

	Anchor  string // Anchored: "eyes" | "feet"
	AlignX  bool
	AlignY  bool
	AlignZ  bool

	Target EntityTarget // As/At/PositionedAs/RotatedAs/FacingEntity
	Dim    ResourceLocation
	Coords Coordinates          // Positioned/FacingPosition
	Rot    [2]Coordinate        // Rotated: yaw, pitch
	Entity ResourceLocation     // Summon
	Relation string             // On
}

func IfModifier(c Condition, negate bool) Modifier {
	return Modifier{Kind: ModIf, Condition: &c, Negate: negate}
}

func StoreResultModifier(loc StoreModLocation) Modifier {
	return Modifier{Kind: ModStoreResult, Store: loc}
}

func StoreSuccessModifier(loc StoreModLocation) Modifier {
	return Modifier{Kind: ModStoreSuccess, Store: loc}
}

// ScoreStoreLoc builds a StoreModLocation targeting a scoreboard holder.
func ScoreStoreLoc(s ScoreRef) StoreModLocation {
	return StoreModLocation{IsScore: true, Score: s}
}

// DataStoreLoc builds a StoreModLocation targeting an NBT path, storing as
// the given numeric/NBT type.
func DataStoreLoc(d FullDataLocation, ty NBTType) StoreModLocation {
	return StoreModLocation{IsScore: false, Data: d, DataTy: ty}
}

// HasExtraSideEffects reports whether the modifier itself observably
// mutates state beyond gating/contextualizing the command it wraps (spec
// §3). StoreResult/StoreSuccess write a value; Summon spawns an entity.
func (m Modifier) HasExtraSideEffects() bool {
	return m.Kind == ModStoreResult || m.Kind == ModStoreSuccess || m.Kind == ModSummon
}

// UsedRegs appends the register ids this modifier reads.
func (m Modifier) UsedRegs(out []*Identifier) []*Identifier {
	switch m.Kind {
	case ModStoreResult, ModStoreSuccess:
		if m.Store.IsReg {
			return append(out, m.Store.Reg)
		}
		return out
	case ModIf:
		return m.Condition.UsedRegs(out)
	default:
		return out
	}
}

// GetCost mirrors cost.rs's Modifier cost table.
func (m Modifier) GetCost() float64 {
	switch m.Kind {
	case ModIf:
		return m.Condition.GetCost()
	case ModSummon:
		return 100.0
	case ModIn:
		return 80.0
	case ModAs:
		return 60.0
	case ModAt, ModPositionedAs, ModFacingEntity, ModRotatedAs, ModOn:
		return 40.0
	case ModPositioned, ModFacingPosition, ModRotated, ModAlign, ModAnchored, ModPositionedOver:
		return 20.0
	case ModStoreResult, ModStoreSuccess:
		return 20.0
	default:
		return 1.0
	}
}

func (m Modifier) String() string {
	switch m.Kind {
	case ModStoreResult:
		return fmt.Sprintf("str %s", m.Store)
	case ModStoreSuccess:
		return fmt.Sprintf("sts %s", m.Store)
	case ModIf:
		if m.Negate {
			return fmt.Sprintf("if !%s", m.Condition)
		}
		return fmt.Sprintf("if %s", m.Condition)
	case ModAnchored:
		return fmt.Sprintf("anc %s", m.Anchor)
	case ModAs:
		return fmt.Sprintf("as %s", m.Target)
	case ModAt:
		return fmt.Sprintf("at %s", m.Target)
	case ModIn:
		return fmt.Sprintf("in %s", m.Dim)
	case ModPositioned:
		return fmt.Sprintf("pos %s", m.Coords)
	case ModPositionedAs:
		return fmt.Sprintf("pose %s", m.Target)
	case ModRotated:
		return fmt.Sprintf("rot %s %s", m.Rot[0], m.Rot[1])
	case ModRotatedAs:
		return fmt.Sprintf("rote %s", m.Target)
	case ModFacingPosition:
		return fmt.Sprintf("facp %s", m.Coords)
	case ModFacingEntity:
		return fmt.Sprintf("face %s %s", m.Target, m.Anchor)
	case ModSummon:
		return fmt.Sprintf("summon %s", m.Entity)
	default:
		return "mod?"
	}
}

// DependsOnContext classifies the execution-context universe a modifier
// affects, for the Null-modifiers liveness pass (spec §4.4).
type ModContext int

const (
	CtxEverything ModContext = iota
	CtxExecutor
	CtxPosition
)

func (m Modifier) Affects() ModContext {
	switch m.Kind {
	case ModAs:
		return CtxExecutor
	case ModAt, ModPositioned, ModPositionedAs, ModPositionedOver, ModFacingPosition, ModFacingEntity, ModRotated, ModRotatedAs, ModAnchored, ModAlign:
		return CtxPosition
	default:
		return CtxEverything
	}
}
