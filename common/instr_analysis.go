package common

// Children returns the BlockIDs of any sub-block this instruction carries,
// used by Block.Children() to let call-graph/DCE/liveness traversals walk
// into structured bodies.
func (i Instr) Children() []BlockID {
	switch i.Kind {
	case IIf:
		return []BlockID{i.Body}
	case IIfElse:
		return []BlockID{i.Body, i.ElseBody}
	case IModify:
		return []BlockID{i.ModBody}
	case IReturnRun:
		return []BlockID{i.RunBody}
	default:
		return nil
	}
}

// UsedRegs appends every register id this instruction reads or writes.
func (i Instr) UsedRegs(out []*Identifier) []*Identifier {
	switch i.Kind {
	case IDeclare:
		out = append(out, i.DeclLeft)
		return i.DeclRight.UsedRegs(out)
	case IAssign:
		out = i.Left.UsedRegs(out)
		return i.AssignBinding.UsedRegs(out)
	case IAdd, ISub, IMul, IDiv, IMod, IMin, IMax, IAnd, IOr, IXor:
		out = i.Left.UsedRegs(out)
		return i.Right.UsedRegs(out)
	case ISwap:
		out = i.SwapLeft.UsedRegs(out)
		return i.SwapRight.UsedRegs(out)
	case IAbs, INot, IUse:
		return i.Val.UsedRegs(out)
	case IPow:
		return i.Left.UsedRegs(out)
	case IIf, IIfElse:
		return i.Cond.UsedRegs(out)
	case IReturn:
		return i.RetVal.UsedRegs(out)
	case ICall:
		for _, a := range i.Call.Args {
			out = a.UsedRegs(out)
		}
		for _, d := range i.Call.RetDestinations {
			out = d.UsedRegs(out)
		}
		return out
	default:
		return out
	}
}

// UsedRegs for a DeclareBinding.
func (b DeclareBinding) UsedRegs(out []*Identifier) []*Identifier {
	switch b.Kind {
	case DBValue:
		return b.Val.UsedRegs(out)
	case DBCast:
		return b.CastVal.UsedRegs(out)
	case DBCondition:
		return b.Cond.UsedRegs(out)
	case DBIndex:
		return b.IndexVal.UsedRegs(out)
	default:
		return out
	}
}

// DefinedReg returns the register this instruction writes to, if any (used
// by dead-store elimination and copy propagation).
func (i Instr) DefinedReg() (*Identifier, bool) {
	switch i.Kind {
	case IDeclare:
		return i.DeclLeft, true
	case IAssign:
		if i.Left.Kind == MVReg {
			return i.Left.Reg, true
		}
	case IAdd, ISub, IMul, IDiv, IMod, IMin, IMax, IAnd, IOr, IXor, IAbs, INot, IPow:
		v := i.Left
		if i.Kind == IAbs || i.Kind == INot {
			v = i.Val
		}
		if v.Kind == MVReg {
			return v.Reg, true
		}
	}
	return nil, false
}

func (b DeclareBinding) String() string {
	switch b.Kind {
	case DBNull:
		return "null"
	case DBValue:
		return b.Val.String()
	case DBCast:
		return "cast(" + b.CastTy.String() + ", " + b.CastVal.String() + ")"
	case DBCondition:
		return "cond(" + b.Cond.String() + ")"
	case DBIndex:
		return "index(" + b.IndexVal.String() + ")"
	default:
		return "?"
	}
}
