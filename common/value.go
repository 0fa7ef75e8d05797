package common

import "fmt"

// DataTypeContents is a concrete compile-time constant value tagged with its
// DataType.
type DataTypeContents struct {
	Ty       DataType
	ScoreVal int32
	NBTVal   interface{} // string/int64/float64/bool/[]DataTypeContents/map[string]DataTypeContents
}

func ScoreConst(v int32) DataTypeContents {
	return DataTypeContents{Ty: Score(ScoreTypeScore), ScoreVal: v}
}

func BoolConst(v bool) DataTypeContents {
	var iv int32
	if v {
		iv = 1
	}
	return DataTypeContents{Ty: Score(ScoreTypeBool), ScoreVal: iv}
}

func (d DataTypeContents) GetType() DataType { return d.Ty }

func (d DataTypeContents) IsTruthy() bool {
	if d.Ty.Family == FamilyScore {
		return d.ScoreVal != 0
	}
	return d.NBTVal != nil
}

func (d DataTypeContents) String() string {
	if d.Ty.Family == FamilyScore {
		return fmt.Sprintf("%d", d.ScoreVal)
	}
	return fmt.Sprintf("%v", d.NBTVal)
}

// MutableValueKind tags the MutableValue sum type (spec §3).
type MutableValueKind int

const (
	MVReg MutableValueKind = iota
	MVArg
	MVCallArg
	MVReturnValue
	MVCallReturnValue
	MVScore
	MVData
	MVProperty
	MVIndex
)

// MutableValue is a place a value can be read from or written to.
type MutableValue struct {
	Kind MutableValueKind

	Reg *Identifier // MVReg

	Index int // MVArg/MVCallArg/MVReturnValue/MVCallReturnValue index

	Callee *Identifier // MVCallArg/MVCallReturnValue
	CallTy DataType    // MVCallArg/MVCallReturnValue

	ScoreRef ScoreRef         // MVScore
	Data     FullDataLocation // MVData

	Inner *MutableValue // MVProperty/MVIndex
	Field string        // MVProperty
	Elem  int           // MVIndex
}

func RegVal(id *Identifier) MutableValue            { return MutableValue{Kind: MVReg, Reg: id} }
func ArgVal(i int) MutableValue                      { return MutableValue{Kind: MVArg, Index: i} }
func ReturnVal(i int) MutableValue                   { return MutableValue{Kind: MVReturnValue, Index: i} }
func ScoreVal(s ScoreRef) MutableValue               { return MutableValue{Kind: MVScore, ScoreRef: s} }
func DataVal(d FullDataLocation) MutableValue         { return MutableValue{Kind: MVData, Data: d} }
func PropertyVal(inner MutableValue, field string) MutableValue {
	return MutableValue{Kind: MVProperty, Inner: &inner, Field: field}
}
func IndexVal(inner MutableValue, elem int) MutableValue {
	return MutableValue{Kind: MVIndex, Inner: &inner, Elem: elem}
}
func CallArgVal(i int, callee *Identifier, ty DataType) MutableValue {
	return MutableValue{Kind: MVCallArg, Index: i, Callee: callee, CallTy: ty}
}
func CallReturnVal(i int, callee *Identifier, ty DataType) MutableValue {
	return MutableValue{Kind: MVCallReturnValue, Index: i, Callee: callee, CallTy: ty}
}

// GetType resolves the static type of a MutableValue given the register list
// of its enclosing block.
func (m MutableValue) GetType(regs *RegisterList) (DataType, error) {
	switch m.Kind {
	case MVReg:
		r, ok := regs.Get(m.Reg)
		if !ok {
			return DataType{}, fmt.Errorf("register %q not declared in enclosing block", m.Reg.Name())
		}
		return r.Ty, nil
	case MVArg, MVCallArg, MVReturnValue, MVCallReturnValue:
		return m.CallTy, nil
	case MVScore:
		return Score(ScoreTypeScore), nil
	case MVData:
		return NBTData(NBTType{Kind: NBTAny}), nil
	case MVProperty, MVIndex:
		return m.Inner.GetType(regs)
	default:
		return DataType{}, fmt.Errorf("unknown mutable value kind")
	}
}

// UsedRegs appends the register identifiers this value mentions.
func (m MutableValue) UsedRegs(out []*Identifier) []*Identifier {
	switch m.Kind {
	case MVReg:
		return append(out, m.Reg)
	case MVProperty, MVIndex:
		return m.Inner.UsedRegs(out)
	default:
		return out
	}
}

func (m MutableValue) String() string {
	switch m.Kind {
	case MVReg:
		return "$" + m.Reg.Name()
	case MVArg:
		return fmt.Sprintf("arg%d", m.Index)
	case MVCallArg:
		return fmt.Sprintf("callarg(%s,%d)", m.Callee.Name(), m.Index)
	case MVReturnValue:
		return fmt.Sprintf("ret%d", m.Index)
	case MVCallReturnValue:
		return fmt.Sprintf("callret(%s,%d)", m.Callee.Name(), m.Index)
	case MVScore:
		return m.ScoreRef.String()
	case MVData:
		return m.Data.String()
	case MVProperty:
		return fmt.Sprintf("%s.%s", m.Inner, m.Field)
	case MVIndex:
		return fmt.Sprintf("%s[%d]", m.Inner, m.Elem)
	default:
		return "?"
	}
}

// Value is either a MutableValue or a compile-time constant.
type Value struct {
	IsConst  bool
	Mutable  MutableValue
	Constant DataTypeContents
}

func Mutable(m MutableValue) Value       { return Value{Mutable: m} }
func Const(c DataTypeContents) Value     { return Value{IsConst: true, Constant: c} }
func ConstScore(v int32) Value           { return Const(ScoreConst(v)) }

func (v Value) GetType(regs *RegisterList) (DataType, error) {
	if v.IsConst {
		return v.Constant.Ty, nil
	}
	return v.Mutable.GetType(regs)
}

func (v Value) UsedRegs(out []*Identifier) []*Identifier {
	if v.IsConst {
		return out
	}
	return v.Mutable.UsedRegs(out)
}

func (v Value) String() string {
	if v.IsConst {
		return v.Constant.String()
	}
	return v.Mutable.String()
}

// AsConstInt returns the constant integer value of v if it is a known
// Score-family constant.
func (v Value) AsConstInt() (int32, bool) {
	if v.IsConst && v.Constant.Ty.Family == FamilyScore {
		return v.Constant.ScoreVal, true
	}
	return 0, false
}
