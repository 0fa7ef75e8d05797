package common

import "fmt"

// ScoreType distinguishes the three numeric representations that live in a
// scoreboard objective: plain signed scores, scores known to be encoded as
// an unsigned (non-negative) quantity, and booleans (0 or 1).
type ScoreType int

const (
	ScoreTypeScore ScoreType = iota
	ScoreTypeUScore
	ScoreTypeBool
)

func (s ScoreType) String() string {
	switch s {
	case ScoreTypeScore:
		return "score"
	case ScoreTypeUScore:
		return "uscore"
	case ScoreTypeBool:
		return "bool"
	default:
		return "score?"
	}
}

// NBTType is the tagged union of NBT value shapes.
type NBTType struct {
	Kind NBTKind
	// List/Arr element type.
	Elem *NBTType
	// Arr kind: Byte or Int or Long only.
	ArrKind NBTKind
	// Arr fixed size.
	ArrSize int
	// Compound field types, keyed by field name.
	Fields map[string]NBTType
}

// NBTKind enumerates the tags an NBTType can carry.
type NBTKind int

const (
	NBTAny NBTKind = iota
	NBTByte
	NBTBool
	NBTShort
	NBTInt
	NBTLong
	NBTFloat
	NBTDouble
	NBTString
	NBTList
	NBTArr
	NBTCompound
)

func (k NBTKind) String() string {
	names := [...]string{"any", "byte", "bool", "short", "int", "long", "float", "double", "string", "list", "arr", "compound"}
	if int(k) < len(names) {
		return names[k]
	}
	return "nbt?"
}

func (t NBTType) String() string {
	switch t.Kind {
	case NBTList:
		if t.Elem != nil {
			return fmt.Sprintf("list[%s]", t.Elem)
		}
		return "list"
	case NBTArr:
		return fmt.Sprintf("%sarr[%d]", t.ArrKind, t.ArrSize)
	case NBTCompound:
		return "compound"
	default:
		return t.Kind.String()
	}
}

// intFamilyRank orders the NBT integer family for widening checks:
// Byte < Short < Int < Long.
func intFamilyRank(k NBTKind) (int, bool) {
	switch k {
	case NBTByte:
		return 0, true
	case NBTShort:
		return 1, true
	case NBTInt:
		return 2, true
	case NBTLong:
		return 3, true
	default:
		return 0, false
	}
}

// DataTypeFamily distinguishes a Score-family type from an NBT-family type.
type DataTypeFamily int

const (
	FamilyScore DataTypeFamily = iota
	FamilyNBT
)

// DataType is the tagged union described in spec §3: either a Score(ScoreType)
// or an NBT(NBTType).
type DataType struct {
	Family DataTypeFamily
	Score  ScoreType
	NBT    NBTType
}

// Score constructs a Score-family DataType.
func Score(t ScoreType) DataType { return DataType{Family: FamilyScore, Score: t} }

// NBTData constructs an NBT-family DataType.
func NBTData(t NBTType) DataType { return DataType{Family: FamilyNBT, NBT: t} }

func (d DataType) String() string {
	switch d.Family {
	case FamilyScore:
		return d.Score.String()
	case FamilyNBT:
		return d.NBT.String()
	default:
		return "ty?"
	}
}

func (d DataType) Equal(other DataType) bool {
	if d.Family != other.Family {
		return false
	}
	if d.Family == FamilyScore {
		return d.Score == other.Score
	}
	return d.NBT.Kind == other.NBT.Kind
}

// IsTriviallyCastable implements spec §3's cast predicate:
//
//	Score<->Score by widening (Bool ⊂ UScore ⊂ Score)
//	NBT int-family widening (Byte ⊂ Short ⊂ Int ⊂ Long)
//	NBT Any accepts anything
//	otherwise false
func IsTriviallyCastable(from, to DataType) bool {
	if from.Family == FamilyScore && to.Family == FamilyScore {
		rank := map[ScoreType]int{ScoreTypeBool: 0, ScoreTypeUScore: 1, ScoreTypeScore: 2}
		return rank[from.Score] <= rank[to.Score]
	}
	if from.Family == FamilyNBT && to.Family == FamilyNBT {
		if to.NBT.Kind == NBTAny {
			return true
		}
		if from.NBT.Kind == to.NBT.Kind {
			return true
		}
		fr, fok := intFamilyRank(from.NBT.Kind)
		tr, tok := intFamilyRank(to.NBT.Kind)
		if fok && tok {
			return fr <= tr
		}
		return false
	}
	return false
}
