package mir

import (
	"fmt"

	"dpc/common"
)

// inlineCandidates implements spec §4.2 "Pass: Inline candidates": every
// function is a candidate except those participating in a call cycle,
// found by DFS from every function with an explicit call stack.
func inlineCandidates(p *Program) map[string]bool {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	inCycle := make(map[string]bool)

	var visit func(name string, stack []string)
	visit = func(name string, stack []string) {
		switch color[name] {
		case gray:
			for i := len(stack) - 1; i >= 0; i-- {
				inCycle[stack[i]] = true
				if stack[i] == name {
					break
				}
			}
			return
		case black:
			return
		}
		color[name] = gray
		stack = append(stack, name)
		if f, ok := p.Functions[name]; ok {
			if body, ok := p.GetBlock(f.Block); ok {
				for _, callee := range calledFunctions(p, body) {
					visit(callee, stack)
				}
			}
		}
		color[name] = black
	}

	for _, name := range p.FuncOrder {
		if color[name] == white {
			visit(name, nil)
		}
	}

	candidates := make(map[string]bool)
	for _, name := range p.FuncOrder {
		if !inCycle[name] {
			candidates[name] = true
		}
	}
	return candidates
}

// PassSimpleInline implements spec §4.2 "Pass: Simple inline": clone a
// candidate callee's body into each call site, tagging cloned registers so
// they cannot collide with the caller's.
func PassSimpleInline(p *Program) (bool, error) {
	candidates := inlineCandidates(p)
	changed := false
	tagN := 0
	for _, name := range append([]string(nil), p.FuncOrder...) {
		f := p.Functions[name]
		body, ok := p.GetBlock(f.Block)
		if !ok {
			continue
		}
		if inlineInBlock(p, body, candidates, name, &tagN) {
			changed = true
		}
	}
	return changed, nil
}

func inlineInBlock(p *Program, b *Block, candidates map[string]bool, callerName string, tagN *int) bool {
	changed := false
	for _, instr := range b.Instructions {
		for _, child := range instr.Children() {
			if cb, ok := p.GetBlock(child); ok {
				if inlineInBlock(p, cb, candidates, callerName, tagN) {
					changed = true
				}
			}
		}
	}

	out := b.Instructions[:0:0]
	for _, instr := range b.Instructions {
		if instr.Kind == common.ICall && instr.Call.Callee != nil {
			name := instr.Call.Callee.Name()
			if calleeFn, ok := p.Functions[name]; ok &&
				candidates[name] && name != callerName && !calleeFn.Interface.Annotations.NoInline {
				*tagN++
				tag := fmt.Sprintf("inline%d", *tagN)
				spliced := inlineCall(p, instr, calleeFn, tag)
				for _, s := range spliced {
					registerIfDeclare(b, s)
				}
				out = append(out, spliced...)
				changed = true
				continue
			}
		}
		out = append(out, instr)
	}
	b.Instructions = out
	return changed
}

func registerIfDeclare(b *Block, instr common.Instr) {
	if instr.Kind != common.IDeclare {
		return
	}
	if _, exists := b.Registers.Get(instr.DeclLeft); exists {
		return
	}
	b.Registers.Declare(instr.DeclLeft, instr.DeclTy)
}

// inlineCall clones the callee body for one call site: a declare+assign
// prologue per argument, followed by the callee body with Arg(i)
// references rewritten to the prologue registers and Return rewritten to
// an assign into the call's destinations.
func inlineCall(p *Program, instr common.Instr, calleeFn *Function, tag string) []common.Instr {
	body, ok := p.GetBlock(calleeFn.Block)
	if !ok {
		return []common.Instr{instr}
	}

	argRegs := make([]*common.Identifier, len(instr.Call.Args))
	prologue := make([]common.Instr, 0, len(instr.Call.Args)*2)
	for i, a := range instr.Call.Args {
		reg := common.Intern(fmt.Sprintf("%s:arg%d", tag, i))
		argRegs[i] = reg
		var ty common.DataType
		if i < len(calleeFn.Interface.Signature.Params) {
			ty = calleeFn.Interface.Signature.Params[i]
		}
		prologue = append(prologue, common.DeclareInstr(reg, ty, common.NullBinding()))
		prologue = append(prologue, common.AssignInstr(common.RegVal(reg), common.ValueBinding(a)))
	}

	cloner := newInlineCloner(p, tag, argRegs, instr.Call.RetDestinations)
	cloned := cloner.instrs(body.Instructions)

	out := make([]common.Instr, 0, len(prologue)+len(cloned))
	out = append(out, prologue...)
	out = append(out, cloned...)
	return out
}

// inlineCloner deep-clones a callee body for one inlining operation,
// renaming registers with a per-call tag, replacing Arg(i) with the
// prologue registers, and rewriting Return into an assign of the call's
// return destinations. Our single-value Return/RetVal representation maps
// every Return to destination index 0.
type inlineCloner struct {
	p        *Program
	tag      string
	renamed  map[*common.Identifier]*common.Identifier
	argRegs  []*common.Identifier
	retDests []common.MutableValue
}

func newInlineCloner(p *Program, tag string, argRegs []*common.Identifier, retDests []common.MutableValue) *inlineCloner {
	return &inlineCloner{
		p:        p,
		tag:      tag,
		renamed:  make(map[*common.Identifier]*common.Identifier),
		argRegs:  argRegs,
		retDests: retDests,
	}
}

func (c *inlineCloner) reg(orig *common.Identifier) *common.Identifier {
	if r, ok := c.renamed[orig]; ok {
		return r
	}
	r := common.Intern(fmt.Sprintf("%s:%s", c.tag, orig.Name()))
	c.renamed[orig] = r
	return r
}

func (c *inlineCloner) mutable(m common.MutableValue) common.MutableValue {
	switch m.Kind {
	case common.MVReg:
		return common.RegVal(c.reg(m.Reg))
	case common.MVArg:
		if m.Index >= 0 && m.Index < len(c.argRegs) {
			return common.RegVal(c.argRegs[m.Index])
		}
		return m
	case common.MVProperty:
		inner := c.mutable(*m.Inner)
		return common.PropertyVal(inner, m.Field)
	case common.MVIndex:
		inner := c.mutable(*m.Inner)
		return common.IndexVal(inner, m.Elem)
	default:
		return m
	}
}

func (c *inlineCloner) value(v common.Value) common.Value {
	if v.IsConst {
		return v
	}
	return common.Mutable(c.mutable(v.Mutable))
}

func (c *inlineCloner) cond(cnd common.Condition) common.Condition {
	out := cnd
	switch cnd.Kind {
	case common.CondNot:
		inner := c.cond(*cnd.Inner)
		out.Inner = &inner
	case common.CondAnd, common.CondOr, common.CondXor:
		l := c.cond(*cnd.Left)
		r := c.cond(*cnd.Right)
		out.Left, out.Right = &l, &r
	case common.CondEqual, common.CondGreaterThan, common.CondGreaterThanOrEqual, common.CondLessThan, common.CondLessThanOrEqual:
		l := c.value(*cnd.LVal)
		r := c.value(*cnd.RVal)
		out.LVal, out.RVal = &l, &r
	case common.CondExists, common.CondBool, common.CondNotBool:
		v := c.value(*cnd.Val)
		out.Val = &v
	}
	return out
}

func (c *inlineCloner) binding(b common.DeclareBinding) common.DeclareBinding {
	out := b
	switch b.Kind {
	case common.DBValue:
		out.Val = c.value(b.Val)
	case common.DBCast:
		out.CastVal = c.mutable(b.CastVal)
	case common.DBCondition:
		cc := c.cond(*b.Cond)
		out.Cond = &cc
	case common.DBIndex:
		out.IndexVal = c.mutable(b.IndexVal)
	}
	return out
}

// block clones a nested sub-block into a freshly allocated BlockID, with
// its own registers renamed and declared in the new block's register list.
func (c *inlineCloner) block(id common.BlockID) common.BlockID {
	src, ok := c.p.GetBlock(id)
	if !ok {
		return id
	}
	nb := NewBlock()
	for _, r := range src.Registers.Registers() {
		nb.Registers.Declare(c.reg(r.ID), r.Ty)
	}
	nb.Instructions = c.instrs(src.Instructions)
	return c.p.Blocks.Alloc(nb)
}

func (c *inlineCloner) instrs(in []common.Instr) []common.Instr {
	out := make([]common.Instr, 0, len(in))
	for _, instr := range in {
		out = append(out, c.instr(instr)...)
	}
	return out
}

// instr clones one instruction. Return expands to zero-or-one Assign (or
// NoOp), so every case returns a slice.
func (c *inlineCloner) instr(instr common.Instr) []common.Instr {
	switch instr.Kind {
	case common.IDeclare:
		instr.DeclLeft = c.reg(instr.DeclLeft)
		instr.DeclRight = c.binding(instr.DeclRight)
		return []common.Instr{instr}
	case common.IAssign:
		instr.Left = c.mutable(instr.Left)
		instr.AssignBinding = c.binding(instr.AssignBinding)
		return []common.Instr{instr}
	case common.IAdd, common.ISub, common.IMul, common.IDiv, common.IMod, common.IMin, common.IMax, common.IAnd, common.IOr, common.IXor:
		instr.Left = c.mutable(instr.Left)
		instr.Right = c.value(instr.Right)
		return []common.Instr{instr}
	case common.ISwap:
		instr.SwapLeft = c.mutable(instr.SwapLeft)
		instr.SwapRight = c.mutable(instr.SwapRight)
		return []common.Instr{instr}
	case common.IAbs, common.INot, common.IUse:
		instr.Val = c.mutable(instr.Val)
		return []common.Instr{instr}
	case common.IPow:
		instr.Left = c.mutable(instr.Left)
		return []common.Instr{instr}
	case common.IIf:
		instr.Cond = c.cond(instr.Cond)
		instr.Body = c.block(instr.Body)
		return []common.Instr{instr}
	case common.IIfElse:
		instr.Cond = c.cond(instr.Cond)
		instr.Body = c.block(instr.Body)
		instr.ElseBody = c.block(instr.ElseBody)
		return []common.Instr{instr}
	case common.IModify:
		instr.ModBody = c.block(instr.ModBody)
		return []common.Instr{instr}
	case common.IReturnRun:
		instr.RunBody = c.block(instr.RunBody)
		return []common.Instr{instr}
	case common.IReturn:
		if instr.RetVoid || len(c.retDests) == 0 {
			return []common.Instr{common.NoOpInstr()}
		}
		return []common.Instr{common.AssignInstr(c.retDests[0], common.ValueBinding(c.value(instr.RetVal)))}
	case common.ICall:
		newArgs := make([]common.Value, len(instr.Call.Args))
		for i, a := range instr.Call.Args {
			newArgs[i] = c.value(a)
		}
		newDests := make([]common.MutableValue, len(instr.Call.RetDestinations))
		for i, d := range instr.Call.RetDestinations {
			newDests[i] = c.mutable(d)
		}
		instr.Call = common.CallInterface{Callee: instr.Call.Callee, Args: newArgs, RetDestinations: newDests}
		return []common.Instr{instr}
	default:
		return []common.Instr{instr}
	}
}
