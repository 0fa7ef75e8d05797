package common

// Constructors for Instr, one per kind, to keep callers (the builder, the
// lowering passes, the optimizer passes) from hand-assembling the shared
// struct and forgetting a field.

func DeclareInstr(left *Identifier, ty DataType, right DeclareBinding) Instr {
	return Instr{Kind: IDeclare, DeclLeft: left, DeclTy: ty, DeclRight: right}
}

func AssignInstr(left MutableValue, right DeclareBinding) Instr {
	return Instr{Kind: IAssign, Left: left, AssignBinding: right}
}

func binOp(kind InstrKind, left MutableValue, right Value) Instr {
	return Instr{Kind: kind, Left: left, Right: right}
}

func AddInstr(l MutableValue, r Value) Instr { return binOp(IAdd, l, r) }
func SubInstr(l MutableValue, r Value) Instr { return binOp(ISub, l, r) }
func MulInstr(l MutableValue, r Value) Instr { return binOp(IMul, l, r) }
func DivInstr(l MutableValue, r Value) Instr { return binOp(IDiv, l, r) }
func ModInstr(l MutableValue, r Value) Instr { return binOp(IMod, l, r) }
func MinInstr(l MutableValue, r Value) Instr { return binOp(IMin, l, r) }
func MaxInstr(l MutableValue, r Value) Instr { return binOp(IMax, l, r) }
func AndInstr(l MutableValue, r Value) Instr { return binOp(IAnd, l, r) }
func OrInstr(l MutableValue, r Value) Instr  { return binOp(IOr, l, r) }
func XorInstr(l MutableValue, r Value) Instr { return binOp(IXor, l, r) }

func SwapInstr(l, r MutableValue) Instr { return Instr{Kind: ISwap, SwapLeft: l, SwapRight: r} }
func AbsInstr(v MutableValue) Instr     { return Instr{Kind: IAbs, Val: v} }
func NotInstr(v MutableValue) Instr     { return Instr{Kind: INot, Val: v} }
func UseInstr(v MutableValue) Instr     { return Instr{Kind: IUse, Val: v} }
func PowInstr(base MutableValue, exp uint8) Instr {
	return Instr{Kind: IPow, Left: base, Exp: exp}
}

func IfInstr(cond Condition, body BlockID) Instr {
	return Instr{Kind: IIf, Cond: cond, Body: body}
}

func IfElseInstr(cond Condition, first, second BlockID) Instr {
	return Instr{Kind: IIfElse, Cond: cond, Body: first, ElseBody: second}
}

func ModifyInstr(mod ModifierPlaceholder, body BlockID) Instr {
	return Instr{Kind: IModify, Modifier: mod, ModBody: body}
}

func ReturnRunInstr(body BlockID) Instr { return Instr{Kind: IReturnRun, RunBody: body} }

func ReturnInstr(val Value) Instr { return Instr{Kind: IReturn, RetVal: val} }
func ReturnVoidInstr() Instr      { return Instr{Kind: IReturn, RetVoid: true} }

func CallInstr(call CallInterface) Instr { return Instr{Kind: ICall, Call: call} }

func NoOpInstr() Instr { return Instr{Kind: INoOp} }

func SayInstr(message string) Instr { return Instr{Kind: ISay, Message: message} }
func TellInstr(target EntityTarget, message string) Instr {
	return Instr{Kind: ITell, Target: target, Message: message}
}
func KillInstr(target EntityTarget) Instr { return Instr{Kind: IKill, Target: target} }
func ReloadInstr() Instr                  { return Instr{Kind: IReload} }
func SetXPInstr(target EntityTarget, amount int32, kind SetXPKind) Instr {
	return Instr{Kind: ISetXP, Target: target, XPAmount: amount, XPKind: kind}
}
