package backend

import (
	"fmt"

	"dpc/common"
	"dpc/ir/lir/regalloc"
)

// resolver turns the abstract operands left over after register allocation
// (common.MutableValue/common.Value, still referencing abstract registers
// and call argument/return slots) into the concrete scoreboard holders and
// storage paths the emitted commands address, using the allocator's Result
// plus the shared literal pool (spec §4.6 "per function: allocate block
// registers").
type resolver struct {
	res    *regalloc.Result
	lits   *regalloc.LiteralPool
	selfID *common.Identifier // the function currently being generated
	selfSig common.Signature
}

func newResolver(res *regalloc.Result, lits *regalloc.LiteralPool, selfID *common.Identifier, selfSig common.Signature) *resolver {
	return &resolver{res: res, lits: lits, selfID: selfID, selfSig: selfSig}
}

// scoreRef resolves a Score-family MutableValue to its physical holder.
func (r *resolver) scoreRef(m common.MutableValue) (common.ScoreRef, error) {
	loc, err := r.location(m)
	if err != nil {
		return common.ScoreRef{}, err
	}
	if loc.Pool != regalloc.PoolScore {
		return common.ScoreRef{}, fmt.Errorf("expected a score-family operand, got an NBT one (%s)", m)
	}
	return loc.Score, nil
}

// dataLoc resolves an NBT-family MutableValue to its physical storage path.
func (r *resolver) dataLoc(m common.MutableValue) (common.FullDataLocation, error) {
	switch m.Kind {
	case common.MVProperty:
		inner, err := r.dataLoc(*m.Inner)
		if err != nil {
			return common.FullDataLocation{}, err
		}
		inner.Path = inner.Path + "." + m.Field
		return inner, nil
	case common.MVIndex:
		inner, err := r.dataLoc(*m.Inner)
		if err != nil {
			return common.FullDataLocation{}, err
		}
		inner.Path = fmt.Sprintf("%s[%d]", inner.Path, m.Elem)
		return inner, nil
	}
	loc, err := r.location(m)
	if err != nil {
		return common.FullDataLocation{}, err
	}
	if loc.Pool != regalloc.PoolNBT {
		return common.FullDataLocation{}, fmt.Errorf("expected an NBT-family operand, got a score one (%s)", m)
	}
	return loc.Data, nil
}

// location resolves any MutableValue to its allocator-assigned physical
// Location, picking the right namespace (plain register, a call's own
// argument/return slot viewed from inside the callee, or another function's
// call-site argument/return slot).
func (r *resolver) location(m common.MutableValue) (regalloc.Location, error) {
	switch m.Kind {
	case common.MVReg:
		loc, ok := r.res.Registers[m.Reg]
		if !ok {
			return regalloc.Location{}, fmt.Errorf("register %q has no allocated location", m.Reg.Name())
		}
		return loc, nil
	case common.MVArg:
		return regalloc.CallArgLocation(r.res, r.selfID, m.Index, r.argType(m)), nil
	case common.MVReturnValue:
		return regalloc.CallReturnLocation(r.res, r.selfID, m.Index, r.argType(m)), nil
	case common.MVCallArg:
		return regalloc.CallArgLocation(r.res, m.Callee, m.Index, m.CallTy), nil
	case common.MVCallReturnValue:
		return regalloc.CallReturnLocation(r.res, m.Callee, m.Index, m.CallTy), nil
	case common.MVScore:
		return regalloc.Location{Pool: regalloc.PoolScore, Score: m.ScoreRef}, nil
	case common.MVData:
		return regalloc.Location{Pool: regalloc.PoolNBT, Data: m.Data}, nil
	default:
		return regalloc.Location{}, fmt.Errorf("unresolvable mutable value kind %d", m.Kind)
	}
}

// argType resolves a bare MVArg/MVReturnValue's DataType from the current
// function's own signature (these variants carry only an index, not a
// DataType — the Call-prefixed ones do, since a caller names the callee's
// type explicitly at the call site).
func (r *resolver) argType(m common.MutableValue) common.DataType {
	if m.Kind == common.MVReturnValue {
		if r.selfSig.Ret.IsVoid {
			return common.Score(common.ScoreTypeScore)
		}
		return r.selfSig.Ret.Ty
	}
	if m.Index >= 0 && m.Index < len(r.selfSig.Params) {
		return r.selfSig.Params[m.Index]
	}
	return common.Score(common.ScoreTypeScore)
}

// scoreOperand resolves a Value used as the right-hand side of a
// `scoreboard players operation` command, which has no literal form: a
// constant is materialized through the literal pool (spec §4.6, grounded on
// original_source/src/output/text.rs's LIT_OBJECTIVE).
func (r *resolver) scoreOperand(v common.Value) (common.ScoreRef, error) {
	if v.IsConst {
		val, ok := v.AsConstInt()
		if !ok {
			return common.ScoreRef{}, fmt.Errorf("non-integer constant used as a score operand")
		}
		return r.lits.Intern(val).Score, nil
	}
	return r.scoreRef(v.Mutable)
}
