package common

// ReturnType is either Void or a Standard(DataType).
type ReturnType struct {
	IsVoid bool
	Ty     DataType
}

func Void() ReturnType             { return ReturnType{IsVoid: true} }
func Standard(ty DataType) ReturnType { return ReturnType{Ty: ty} }

// Signature is a function's parameter and return types.
type Signature struct {
	Params []DataType
	Ret    ReturnType
}

// Annotations are the recognized function-level attributes (spec §3).
type Annotations struct {
	Preserve     bool
	NoStrip      bool
	NoInline     bool
	UnusedResult bool
}

// FunctionInterface identifies a function. Equality and hashing use the id
// alone (spec §3), so the function table (ir/mir/lir.Program.Functions) is
// keyed by the id string rather than by this struct.
type FunctionInterface struct {
	ID          *Identifier
	Signature   Signature
	Annotations Annotations
}

// CallInterface is a call site: which function, with what argument values,
// writing results into which destinations.
type CallInterface struct {
	Callee          *Identifier
	Args            []Value
	RetDestinations []MutableValue
}
