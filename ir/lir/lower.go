package lir

import (
	"fmt"

	"dpc/common"
	"dpc/common/cerr"
	"dpc/ir/mir"
)

// LowerToLIR implements spec §4.3: translate every MIR function into the
// flat LIR program, extracting multi-instruction sub-blocks into child
// functions as it goes.
func LowerToLIR(mp *mir.Program) (*Program, error) {
	out := NewProgram()
	for _, name := range mp.FuncOrder {
		f := mp.Functions[name]
		body, ok := mp.GetBlock(f.Block)
		if !ok {
			return nil, cerr.InFunction(cerr.New(cerr.InvalidIR, "function body block missing"), f.Interface.ID.Name())
		}
		ctx := &lowerCtx{mp: mp, prog: out, funcName: name, childN: new(int)}
		lb := NewBlock()
		copyRegisters(lb.Registers, body.Registers)
		ctx.block = lb
		instrs, err := ctx.lowerBlock(body)
		if err != nil {
			return nil, cerr.InFunction(err, name)
		}
		lb.Instructions = instrs
		out.AddFunction(&Function{Interface: f.Interface, Body: lb})
	}
	return out, nil
}

func copyRegisters(dst, src *common.RegisterList) {
	for _, r := range src.Registers() {
		dst.Declare(r.ID, r.Ty)
	}
}

// lowerCtx threads the state needed while lowering one top-level function
// (and the child functions its sub-blocks synthesize): the source MIR
// program, the destination LIR program, the function whose chunk we are
// lowering, the LIR block instructions are emitted into, and a counter for
// naming synthesized children.
type lowerCtx struct {
	mp       *mir.Program
	prog     *Program
	funcName string
	block    *Block
	childN   *int
}

func (c *lowerCtx) freshReg(ty common.DataType) *common.Identifier {
	id := common.Intern(fmt.Sprintf("%s:t%d", c.funcName, c.block.Registers.Len()))
	c.block.Registers.Declare(id, ty)
	return id
}

func (c *lowerCtx) regType(m common.MutableValue) (common.DataType, error) {
	return m.GetType(c.block.Registers)
}

func (c *lowerCtx) lowerBlock(b *mir.Block) ([]Instr, error) {
	var out []Instr
	for idx, instr := range b.Instructions {
		lowered, err := c.lowerInstr(instr)
		if err != nil {
			return nil, cerr.AtInstruction(err, idx)
		}
		out = append(out, lowered...)
	}
	return out, nil
}

// lowerSubBlock implements spec §4.3 "Sub-block lowering": recursively
// lower the body, splicing a single resulting instruction in place, or
// extracting a child function and returning a Call to it.
func (c *lowerCtx) lowerSubBlock(id common.BlockID) (Instr, error) {
	body, ok := c.mp.GetBlock(id)
	if !ok {
		return Instr{}, cerr.New(cerr.InvalidIR, "referenced MIR block missing")
	}

	// body.Registers only holds what this nested MIR scope declares locally;
	// merge it into the shared chunk-wide list (c.block.Registers, threaded
	// by pointer through every childCtx) before recursing, so a reference to
	// one of these registers resolves during type lookup regardless of how
	// deeply nested the lowering that produced it was.
	copyRegisters(c.block.Registers, body.Registers)

	childCtx := &lowerCtx{mp: c.mp, prog: c.prog, funcName: c.funcName, block: c.block, childN: c.childN}
	instrs, err := childCtx.lowerBlock(body)
	if err != nil {
		return Instr{}, err
	}
	if len(instrs) == 1 {
		return instrs[0], nil
	}
	if len(instrs) == 0 {
		return Instr{Kind: LNoOp}, nil
	}

	childName := fmt.Sprintf("%s_body_%d", c.funcName, *c.childN)
	*c.childN++
	childBlock := NewBlock()
	// Copy the full chunk-wide register set accumulated so far (not just
	// body.Registers) so the extracted function's own register list is a
	// safe superset of everything its instructions can reference, including
	// outer-scope registers and LIR temps synthesized while lowering it.
	copyRegisters(childBlock.Registers, c.block.Registers)
	childBlock.Instructions = instrs
	childIface := common.FunctionInterface{ID: common.Intern(childName)}
	c.prog.AddFunction(&Function{Interface: childIface, Body: childBlock, Parent: c.funcName})
	if parent, ok := c.prog.Functions[c.funcName]; ok {
		parent.Children = append(parent.Children, childName)
	}

	return Instr{Kind: LCall, Call: common.CallInterface{Callee: childIface.ID}}, nil
}

func withModifiers(instr Instr, mods ...common.Modifier) Instr {
	instr.Modifiers = append(append([]common.Modifier{}, mods...), instr.Modifiers...)
	return instr
}

func isScoreType(ty common.DataType) bool { return ty.Family == common.FamilyScore }

func (c *lowerCtx) setInstr(dest common.MutableValue, src common.Value) (Instr, error) {
	ty, err := c.regType(dest)
	if err != nil {
		return Instr{}, cerr.Wrap(cerr.InvalidIR, err, "resolving destination type")
	}
	if isScoreType(ty) {
		return Instr{Kind: LSetScore, Dest: dest, Src: src}, nil
	}
	return Instr{Kind: LSetData, Dest: dest, Src: src}, nil
}

func (c *lowerCtx) lowerInstr(instr common.Instr) ([]Instr, error) {
	switch instr.Kind {
	case common.IDeclare:
		c.block.Registers.Declare(instr.DeclLeft, instr.DeclTy)
		return nil, nil

	case common.IAssign:
		return c.lowerAssign(instr)

	case common.IAdd, common.ISub, common.IMul, common.IDiv, common.IMod, common.IMin, common.IMax:
		return c.lowerArith(instr)

	case common.ISwap:
		return c.lowerSwap(instr)

	case common.IAbs:
		return c.lowerAbs(instr)

	case common.INot:
		return c.lowerNot(instr)

	case common.IAnd:
		return []Instr{{Kind: LMulScore, Dest: instr.Left, Src: instr.Right}}, nil

	case common.IOr:
		return c.lowerOr(instr)

	case common.IXor:
		return c.lowerXor(instr)

	case common.IPow:
		return c.lowerPow(instr)

	case common.IIf:
		return c.lowerIf(instr)

	case common.IIfElse:
		return c.lowerIfElse(instr)

	case common.IModify:
		return c.lowerModify(instr)

	case common.IReturnRun:
		inner, err := c.lowerSubBlock(instr.RunBody)
		if err != nil {
			return nil, err
		}
		return []Instr{{Kind: LReturnRun, Inner: &inner}}, nil

	case common.IReturn:
		return c.lowerReturn(instr)

	case common.ICall:
		return c.lowerCall(instr)

	case common.INoOp:
		return []Instr{{Kind: LNoOp}}, nil

	case common.IUse:
		return []Instr{{Kind: LNoOp, Src: common.Mutable(instr.Val)}}, nil

	case common.ISay:
		return []Instr{{Kind: LSay, Message: instr.Message}}, nil
	case common.ITell:
		return []Instr{{Kind: LTell, Target: instr.Target, Message: instr.Message}}, nil
	case common.IKill:
		return []Instr{{Kind: LKill, Target: instr.Target}}, nil
	case common.IReload:
		return []Instr{{Kind: LReload}}, nil
	case common.ISetXP:
		return []Instr{{Kind: LSetXP, Target: instr.Target, XPAmount: instr.XPAmount, XPKind: instr.XPKind}}, nil
	}
	return nil, cerr.New(cerr.InvalidIR, fmt.Sprintf("unhandled instruction kind %d", instr.Kind))
}

func (c *lowerCtx) lowerAssign(instr common.Instr) ([]Instr, error) {
	switch instr.AssignBinding.Kind {
	case common.DBValue:
		set, err := c.setInstr(instr.Left, instr.AssignBinding.Val)
		if err != nil {
			return nil, err
		}
		return []Instr{set}, nil

	case common.DBCast:
		fromTy, err := c.regType(instr.AssignBinding.CastVal)
		if err != nil {
			return nil, err
		}
		toTy := instr.AssignBinding.CastTy
		if common.IsTriviallyCastable(fromTy, toTy) || (isScoreType(fromTy) && isScoreType(toTy)) {
			return []Instr{{Kind: LSetScore, Dest: instr.Left, Src: common.Mutable(instr.AssignBinding.CastVal)}}, nil
		}
		getKind := LGetScore
		if !isScoreType(fromTy) {
			getKind = LGetData
		}
		get := Instr{Kind: getKind, Src: common.Mutable(instr.AssignBinding.CastVal)}
		store := common.StoreResultModifier(common.RegStoreLoc(regOf(instr.Left), toTy))
		return []Instr{withModifiers(get, store)}, nil

	case common.DBCondition:
		return c.lowerCondAssign(instr.Left, *instr.AssignBinding.Cond)

	case common.DBIndex:
		return []Instr{{Kind: LSetData, Dest: instr.Left, Src: common.Mutable(instr.AssignBinding.IndexVal)}}, nil
	}
	return []Instr{{Kind: LNoOp}}, nil
}

func regOf(m common.MutableValue) *common.Identifier {
	if m.Kind == common.MVReg {
		return m.Reg
	}
	return nil
}

func (c *lowerCtx) lowerArith(instr common.Instr) ([]Instr, error) {
	lty, err := c.regType(instr.Left)
	if err != nil {
		return nil, err
	}
	rty, err := instr.Right.GetType(c.block.Registers)
	if err != nil {
		return nil, err
	}
	if !isScoreType(lty) || !isScoreType(rty) {
		return nil, cerr.New(cerr.UnsupportedOperandType, "arithmetic requires Score operands")
	}
	kindMap := map[common.InstrKind]InstrKind{
		common.IAdd: LAddScore, common.ISub: LSubScore, common.IMul: LMulScore,
		common.IDiv: LDivScore, common.IMod: LModScore, common.IMin: LMinScore, common.IMax: LMaxScore,
	}
	return []Instr{{Kind: kindMap[instr.Kind], Dest: instr.Left, Src: instr.Right}}, nil
}

func (c *lowerCtx) lowerSwap(instr common.Instr) ([]Instr, error) {
	lty, err := c.regType(instr.SwapLeft)
	if err != nil {
		return nil, err
	}
	rty, err := c.regType(instr.SwapRight)
	if err != nil {
		return nil, err
	}
	if isScoreType(lty) && isScoreType(rty) {
		return []Instr{{Kind: LSwapScore, SwapA: instr.SwapLeft, SwapB: instr.SwapRight}}, nil
	}
	if !isScoreType(lty) && !isScoreType(rty) {
		temp := c.freshReg(lty)
		return []Instr{
			{Kind: LSetData, Dest: common.RegVal(temp), Src: common.Mutable(instr.SwapLeft)},
			{Kind: LSetData, Dest: instr.SwapLeft, Src: common.Mutable(instr.SwapRight)},
			{Kind: LSetData, Dest: instr.SwapRight, Src: common.Mutable(common.RegVal(temp))},
		}, nil
	}
	return nil, cerr.New(cerr.UnsupportedOperandType, "swap requires matching Score/NBT operands")
}

func (c *lowerCtx) lowerAbs(instr common.Instr) ([]Instr, error) {
	cond := common.LessThanOrEqualCond(common.Mutable(instr.Val), common.ConstScore(-1))
	op := Instr{Kind: LMulScore, Dest: instr.Val, Src: common.ConstScore(-1)}
	return []Instr{withModifiers(op, common.IfModifier(cond, false))}, nil
}

func (c *lowerCtx) lowerNot(instr common.Instr) ([]Instr, error) {
	ty, err := c.regType(instr.Val)
	if err != nil {
		return nil, err
	}
	store := common.StoreSuccessModifier(common.RegStoreLoc(regOf(instr.Val), ty))
	cond := common.EqualCond(common.Mutable(instr.Val), common.ConstScore(0))
	return []Instr{withModifiers(Instr{Kind: LNoOp}, store, common.IfModifier(cond, false))}, nil
}

func (c *lowerCtx) lowerOr(instr common.Instr) ([]Instr, error) {
	cond := common.EqualCond(instr.Right, common.ConstScore(0))
	add := Instr{Kind: LAddScore, Dest: instr.Left, Src: common.ConstScore(1)}
	add = withModifiers(add, common.IfModifier(cond, true))
	clamp := Instr{Kind: LMinScore, Dest: instr.Left, Src: common.ConstScore(1)}
	return []Instr{add, clamp}, nil
}

func (c *lowerCtx) lowerXor(instr common.Instr) ([]Instr, error) {
	sub := Instr{Kind: LSubScore, Dest: instr.Left, Src: instr.Right}
	sq := Instr{Kind: LMulScore, Dest: instr.Left, Src: common.Mutable(instr.Left)}
	return []Instr{sub, sq}, nil
}

func (c *lowerCtx) lowerPow(instr common.Instr) ([]Instr, error) {
	exp := instr.Exp
	switch exp {
	case 0:
		return []Instr{{Kind: LSetScore, Dest: instr.Left, Src: common.ConstScore(1)}}, nil
	case 1:
		return nil, nil
	case 2:
		return []Instr{{Kind: LMulScore, Dest: instr.Left, Src: common.Mutable(instr.Left)}}, nil
	}
	k := 0
	m := exp
	for m%2 == 0 && m > 0 {
		m /= 2
		k++
	}
	var out []Instr
	for i := 0; i < k; i++ {
		out = append(out, Instr{Kind: LMulScore, Dest: instr.Left, Src: common.Mutable(instr.Left)})
	}
	if m > 1 {
		ty, err := c.regType(instr.Left)
		if err != nil {
			return nil, err
		}
		temp := c.freshReg(ty)
		out = append(out, Instr{Kind: LSetScore, Dest: common.RegVal(temp), Src: common.Mutable(instr.Left)})
		for i := uint8(0); i < m-1; i++ {
			out = append(out, Instr{Kind: LMulScore, Dest: instr.Left, Src: common.Mutable(common.RegVal(temp))})
		}
	}
	return out, nil
}

func (c *lowerCtx) lowerIf(instr common.Instr) ([]Instr, error) {
	prelude, clauses, err := c.lowerCondition(instr.Cond)
	if err != nil {
		return nil, err
	}
	body, err := c.lowerSubBlock(instr.Body)
	if err != nil {
		return nil, err
	}
	mods := make([]common.Modifier, 0, len(clauses))
	for _, cl := range clauses {
		mods = append(mods, common.IfModifier(cl.Cond, cl.Negate))
	}
	return append(prelude, withModifiers(body, mods...)), nil
}

func (c *lowerCtx) lowerIfElse(instr common.Instr) ([]Instr, error) {
	ty := common.Score(common.ScoreTypeBool)
	temp := c.freshReg(ty)
	assignCond, err := c.lowerCondAssign(common.RegVal(temp), instr.Cond)
	if err != nil {
		return nil, err
	}
	first, err := c.lowerSubBlock(instr.Body)
	if err != nil {
		return nil, err
	}
	second, err := c.lowerSubBlock(instr.ElseBody)
	if err != nil {
		return nil, err
	}
	trueCond := common.EqualCond(common.Mutable(common.RegVal(temp)), common.ConstScore(1))
	falseCond := common.EqualCond(common.Mutable(common.RegVal(temp)), common.ConstScore(0))
	out := append([]Instr{}, assignCond...)
	out = append(out, withModifiers(first, common.IfModifier(trueCond, false)))
	out = append(out, withModifiers(second, common.IfModifier(falseCond, false)))
	return out, nil
}

func (c *lowerCtx) lowerModify(instr common.Instr) ([]Instr, error) {
	body, err := c.lowerSubBlock(instr.ModBody)
	if err != nil {
		return nil, err
	}
	mod := placeholderToModifier(instr.Modifier)
	return []Instr{withModifiers(body, mod)}, nil
}

func (c *lowerCtx) lowerReturn(instr common.Instr) ([]Instr, error) {
	if instr.RetVoid {
		return []Instr{{Kind: LNoOp}}, nil
	}
	if instr.RetVal.IsConst {
		return []Instr{{Kind: LReturnValue, RetVal: instr.RetVal}}, nil
	}
	ty, err := instr.RetVal.GetType(c.block.Registers)
	if err != nil {
		return nil, err
	}
	getKind := LGetScore
	if !isScoreType(ty) {
		getKind = LGetData
	}
	get := Instr{Kind: getKind, Src: instr.RetVal}
	return []Instr{{Kind: LReturnRun, Inner: &get}}, nil
}

func (c *lowerCtx) lowerCall(instr common.Instr) ([]Instr, error) {
	var out []Instr
	callee := instr.Call.Callee
	for i, arg := range instr.Call.Args {
		ty, err := arg.GetType(c.block.Registers)
		if err != nil {
			return nil, err
		}
		dest := common.CallArgVal(i, callee, ty)
		set, err := c.setInstr(dest, arg)
		if err != nil {
			return nil, err
		}
		out = append(out, set)
	}
	out = append(out, Instr{Kind: LCall, Call: instr.Call})
	for i, dest := range instr.Call.RetDestinations {
		ty, err := dest.GetType(c.block.Registers)
		if err != nil {
			return nil, err
		}
		src := common.Mutable(common.CallReturnVal(i, callee, ty))
		set, err := c.setInstr(dest, src)
		if err != nil {
			return nil, err
		}
		out = append(out, set)
	}
	return out, nil
}

// condClause is one "if"-modifier clause produced by lowerCondition: the
// execute chain ANDs every clause together, so And simply concatenates
// clause lists and Not flips Negate on a single-clause result; Or and Xor
// have no native chain equivalent and must be materialized through a
// temporary via lowerCondAssign (spec §4.3 "Condition lowering").
type condClause struct {
	Cond   common.Condition
	Negate bool
}

// orMaterializeCostThreshold is the GetCost() ceiling up to which an Or is
// materialized inline (a temp zeroed and then set under each side's guard);
// a costlier Or goes through an extracted helper function instead (spec
// §4.3 "cheap/expensive OR-lowering strategy", grounded on cost.rs's
// heuristic role in the teacher's own reorder pass).
const orMaterializeCostThreshold = 25.0

// lowerCondition implements spec §4.3 "Condition lowering": reduce a
// Condition tree to a prelude of instructions plus a list of If-clauses to
// attach to the modifier chain of whatever instruction the condition
// guards.
func (c *lowerCtx) lowerCondition(cond common.Condition) ([]Instr, []condClause, error) {
	switch cond.Kind {
	case common.CondNot:
		prelude, clauses, err := c.lowerCondition(*cond.Inner)
		if err != nil {
			return nil, nil, err
		}
		// A single clause flips in place regardless of whether lowering it
		// needed a prelude (e.g. Not(Or(...)) materializes the Or into a
		// temp first, then this just inverts the resulting equals-1 clause).
		if len(clauses) == 1 {
			clauses[0].Negate = !clauses[0].Negate
			return prelude, clauses, nil
		}
		// Only And produces more than one clause (it concatenates both
		// sides' clause lists). De Morgan turns Not(And(a, b)) into
		// Or(Not(a), Not(b)), which the Or case below knows how to
		// materialize — recursing on cond unchanged here would call back
		// into this exact state forever (spec §4.3 "De Morgan rewrite").
		if cond.Inner.Kind == common.CondAnd {
			notLeft := common.Condition{Kind: common.CondNot, Inner: cond.Inner.Left}
			notRight := common.Condition{Kind: common.CondNot, Inner: cond.Inner.Right}
			return c.lowerCondition(common.Condition{Kind: common.CondOr, Left: &notLeft, Right: &notRight})
		}
		// No other condition shape reaches here, but materialize the inner
		// condition (never re-lowering cond itself) and flip it, so this
		// terminates even if some future condition kind does.
		mprelude, mclauses, err := c.materializeCond(*cond.Inner)
		if err != nil {
			return nil, nil, err
		}
		mclauses[0].Negate = !mclauses[0].Negate
		return mprelude, mclauses, nil

	case common.CondAnd:
		lp, lc, err := c.lowerCondition(*cond.Left)
		if err != nil {
			return nil, nil, err
		}
		rp, rc, err := c.lowerCondition(*cond.Right)
		if err != nil {
			return nil, nil, err
		}
		return append(lp, rp...), append(lc, rc...), nil

	case common.CondOr, common.CondXor:
		return c.materializeCond(cond)

	default:
		return nil, []condClause{{Cond: cond, Negate: false}}, nil
	}
}

// materializeCond evaluates cond into a fresh bool register and returns it
// as a single equals-1 clause; used whenever the condition has no direct
// execute-chain representation (Or, Xor, or a Not wrapping one of those).
func (c *lowerCtx) materializeCond(cond common.Condition) ([]Instr, []condClause, error) {
	temp := c.freshReg(common.Score(common.ScoreTypeBool))
	assign, err := c.lowerCondAssign(common.RegVal(temp), cond)
	if err != nil {
		return nil, nil, err
	}
	clause := condClause{Cond: common.EqualCond(common.Mutable(common.RegVal(temp)), common.ConstScore(1))}
	return assign, []condClause{clause}, nil
}

// materializeOrHelper implements the "expensive" half of spec §4.3's Or
// strategy: extract an Or into a child function that tries its left term
// first and returns 1 immediately if it matched, falling through to the
// right term otherwise, then returns the resulting CondFunction condition
// for the call site to test with If(Function(helper)). Grounded on the same
// child-function extraction used by lowerSubBlock (spec §4.3 "Sub-block
// lowering"), reused here instead of duplicated for a second synthesized
// function kind.
func (c *lowerCtx) materializeOrHelper(cond common.Condition) (common.Condition, error) {
	lp, lc, err := c.lowerCondition(*cond.Left)
	if err != nil {
		return common.Condition{}, err
	}
	rp, rc, err := c.lowerCondition(*cond.Right)
	if err != nil {
		return common.Condition{}, err
	}

	lmods := make([]common.Modifier, 0, len(lc))
	for _, cl := range lc {
		lmods = append(lmods, common.IfModifier(cl.Cond, cl.Negate))
	}
	rmods := make([]common.Modifier, 0, len(rc))
	for _, cl := range rc {
		rmods = append(rmods, common.IfModifier(cl.Cond, cl.Negate))
	}

	body := append([]Instr{}, lp...)
	body = append(body, withModifiers(Instr{Kind: LReturnValue, RetVal: common.ConstScore(1)}, lmods...))
	body = append(body, rp...)
	body = append(body, withModifiers(Instr{Kind: LReturnValue, RetVal: common.ConstScore(1)}, rmods...))

	childName := fmt.Sprintf("%s_or_%d", c.funcName, *c.childN)
	*c.childN++
	childBlock := NewBlock()
	copyRegisters(childBlock.Registers, c.block.Registers)
	childBlock.Instructions = body
	childIface := common.FunctionInterface{
		ID:        common.Intern(childName),
		Signature: common.Signature{Ret: common.Standard(common.Score(common.ScoreTypeBool))},
	}
	c.prog.AddFunction(&Function{Interface: childIface, Body: childBlock, Parent: c.funcName})
	if parent, ok := c.prog.Functions[c.funcName]; ok {
		parent.Children = append(parent.Children, childName)
	}

	return common.Condition{Kind: common.CondFunction, BlockID: childName}, nil
}

// lowerCondAssign materializes cond into dest (0 or 1), generalizing the
// same NoOp+StoreSuccess+If technique used for Not(v) to an arbitrary
// boolean expression: zero the destination, then conditionally set it to 1
// under the condition's If-clauses.
func (c *lowerCtx) lowerCondAssign(dest common.MutableValue, cond common.Condition) ([]Instr, error) {
	switch cond.Kind {
	case common.CondOr:
		if cond.Left.GetCost()+cond.Right.GetCost() <= orMaterializeCostThreshold {
			lp, lc, err := c.lowerCondition(*cond.Left)
			if err != nil {
				return nil, err
			}
			rp, rc, err := c.lowerCondition(*cond.Right)
			if err != nil {
				return nil, err
			}
			zero := Instr{Kind: LSetScore, Dest: dest, Src: common.ConstScore(0)}
			setL := Instr{Kind: LSetScore, Dest: dest, Src: common.ConstScore(1)}
			mods := make([]common.Modifier, 0, len(lc))
			for _, cl := range lc {
				mods = append(mods, common.IfModifier(cl.Cond, cl.Negate))
			}
			setR := Instr{Kind: LSetScore, Dest: dest, Src: common.ConstScore(1)}
			rmods := make([]common.Modifier, 0, len(rc))
			for _, cl := range rc {
				rmods = append(rmods, common.IfModifier(cl.Cond, cl.Negate))
			}
			out := append([]Instr{zero}, lp...)
			out = append(out, withModifiers(setL, mods...))
			out = append(out, rp...)
			out = append(out, withModifiers(setR, rmods...))
			return out, nil
		}
		// Expensive fallback: spec §4.3 requires short-circuiting, which an
		// inline guarded-set can't give (both sides would always run). Emit a
		// helper child function that tries the left term, returns 1 if it
		// matched, otherwise tries the right term and returns 1 if that
		// matched; the call site then tests the helper's own success via
		// If(Function(helper)), so the second term never runs once the first
		// already satisfied the Or.
		helperCond, err := c.materializeOrHelper(cond)
		if err != nil {
			return nil, err
		}
		zero := Instr{Kind: LSetScore, Dest: dest, Src: common.ConstScore(0)}
		set := Instr{Kind: LSetScore, Dest: dest, Src: common.ConstScore(1)}
		return []Instr{zero, withModifiers(set, common.IfModifier(helperCond, false))}, nil

	case common.CondXor:
		lt := c.freshReg(common.Score(common.ScoreTypeBool))
		ltAssign, err := c.lowerCondAssign(common.RegVal(lt), *cond.Left)
		if err != nil {
			return nil, err
		}
		rt := c.freshReg(common.Score(common.ScoreTypeBool))
		rtAssign, err := c.lowerCondAssign(common.RegVal(rt), *cond.Right)
		if err != nil {
			return nil, err
		}
		out := append([]Instr{}, ltAssign...)
		out = append(out, rtAssign...)
		xorInstrs, err := c.lowerXor(common.XorInstr(common.RegVal(lt), common.Mutable(common.RegVal(rt))))
		if err != nil {
			return nil, err
		}
		out = append(out, xorInstrs...)
		out = append(out, Instr{Kind: LSetScore, Dest: dest, Src: common.Mutable(common.RegVal(lt))})
		return out, nil

	default:
		prelude, clauses, err := c.lowerCondition(cond)
		if err != nil {
			return nil, err
		}
		zero := Instr{Kind: LSetScore, Dest: dest, Src: common.ConstScore(0)}
		set := Instr{Kind: LSetScore, Dest: dest, Src: common.ConstScore(1)}
		mods := make([]common.Modifier, 0, len(clauses))
		for _, cl := range clauses {
			mods = append(mods, common.IfModifier(cl.Cond, cl.Negate))
		}
		out := append([]Instr{zero}, prelude...)
		out = append(out, withModifiers(set, mods...))
		return out, nil
	}
}

func placeholderToModifier(ph common.ModifierPlaceholder) common.Modifier {
	return common.Modifier{
		Kind:   ph.Kind,
		Anchor: ph.Anchor,
		AlignX: ph.AlignX, AlignY: ph.AlignY, AlignZ: ph.AlignZ,
		Target:   ph.Target,
		Dim:      ph.Dim,
		Coords:   ph.Coords,
		Rot:      ph.Rot,
		Entity:   ph.Entity,
		Relation: ph.Relation,
	}
}
