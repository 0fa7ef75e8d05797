package mir

import "dpc/common"

// PassUnusedArgs implements spec §4.2 "Pass: Unused args": for each
// function, compute the set of argument indices actually read; rewrite the
// signature to remove unused args, renumber remaining Arg(i) references,
// and rewrite every call-site to strip the matching positional args.
func PassUnusedArgs(p *Program) (bool, error) {
	changed := false
	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		body, ok := p.GetBlock(f.Block)
		if !ok {
			continue
		}
		used := make(map[int]bool)
		collectUsedArgs(p, body, used)

		total := len(f.Interface.Signature.Params)
		if total == 0 {
			continue
		}
		allUsed := true
		for i := 0; i < total; i++ {
			if !used[i] {
				allUsed = false
				break
			}
		}
		if allUsed {
			continue
		}

		remap := make(map[int]int)
		newParams := make([]common.DataType, 0, total)
		for i := 0; i < total; i++ {
			if used[i] {
				remap[i] = len(newParams)
				newParams = append(newParams, f.Interface.Signature.Params[i])
			}
		}
		f.Interface.Signature.Params = newParams

		renumberArgs(p, body, remap)

		for _, callerName := range p.FuncOrder {
			caller := p.Functions[callerName]
			cb, ok := p.GetBlock(caller.Block)
			if !ok {
				continue
			}
			stripCallArgs(p, cb, name, remap, total)
		}

		changed = true
	}
	return changed, nil
}

func collectUsedArgs(p *Program, b *Block, used map[int]bool) {
	for _, instr := range b.Instructions {
		walkArgMentions(instr, used)
		for _, child := range instr.Children() {
			if cb, ok := p.GetBlock(child); ok {
				collectUsedArgs(p, cb, used)
			}
		}
	}
}

func walkArgMentions(instr common.Instr, used map[int]bool) {
	markMutable := func(m common.MutableValue) {
		for m.Kind == common.MVProperty || m.Kind == common.MVIndex {
			m = *m.Inner
		}
		if m.Kind == common.MVArg {
			used[m.Index] = true
		}
	}
	markValue := func(v common.Value) {
		if !v.IsConst {
			markMutable(v.Mutable)
		}
	}

	switch instr.Kind {
	case common.IDeclare:
		markValue(instr.DeclRight.Val)
		markMutable(instr.DeclRight.CastVal)
		markMutable(instr.DeclRight.IndexVal)
	case common.IAssign:
		markMutable(instr.Left)
		markValue(instr.AssignBinding.Val)
		markMutable(instr.AssignBinding.CastVal)
		markMutable(instr.AssignBinding.IndexVal)
		if instr.AssignBinding.Cond != nil {
			markCondArgs(*instr.AssignBinding.Cond, used)
		}
	case common.IAdd, common.ISub, common.IMul, common.IDiv, common.IMod, common.IMin, common.IMax, common.IAnd, common.IOr, common.IXor:
		markMutable(instr.Left)
		markValue(instr.Right)
	case common.ISwap:
		markMutable(instr.SwapLeft)
		markMutable(instr.SwapRight)
	case common.IAbs, common.INot, common.IUse:
		markMutable(instr.Val)
	case common.IPow:
		markMutable(instr.Left)
	case common.IIf, common.IIfElse:
		markCondArgs(instr.Cond, used)
	case common.IReturn:
		markValue(instr.RetVal)
	case common.ICall:
		for _, a := range instr.Call.Args {
			markValue(a)
		}
	}
}

func markCondArgs(c common.Condition, used map[int]bool) {
	markMutable := func(m common.MutableValue) {
		for m.Kind == common.MVProperty || m.Kind == common.MVIndex {
			m = *m.Inner
		}
		if m.Kind == common.MVArg {
			used[m.Index] = true
		}
	}
	markValue := func(v *common.Value) {
		if v != nil && !v.IsConst {
			markMutable(v.Mutable)
		}
	}
	switch c.Kind {
	case common.CondNot:
		markCondArgs(*c.Inner, used)
	case common.CondAnd, common.CondOr, common.CondXor:
		markCondArgs(*c.Left, used)
		markCondArgs(*c.Right, used)
	case common.CondEqual, common.CondGreaterThan, common.CondGreaterThanOrEqual, common.CondLessThan, common.CondLessThanOrEqual:
		markValue(c.LVal)
		markValue(c.RVal)
	case common.CondExists, common.CondBool, common.CondNotBool:
		markValue(c.Val)
	}
}

func renumberArgs(p *Program, b *Block, remap map[int]int) {
	for i, instr := range b.Instructions {
		renumberInstrArgs(&instr, remap)
		b.Instructions[i] = instr
		for _, child := range instr.Children() {
			if cb, ok := p.GetBlock(child); ok {
				renumberArgs(p, cb, remap)
			}
		}
	}
}

func renumberMutable(m *common.MutableValue, remap map[int]int) {
	switch m.Kind {
	case common.MVArg:
		if n, ok := remap[m.Index]; ok {
			m.Index = n
		}
	case common.MVProperty, common.MVIndex:
		renumberMutable(m.Inner, remap)
	}
}

func renumberValue(v *common.Value, remap map[int]int) {
	if !v.IsConst {
		renumberMutable(&v.Mutable, remap)
	}
}

func renumberCond(c *common.Condition, remap map[int]int) {
	switch c.Kind {
	case common.CondNot:
		renumberCond(c.Inner, remap)
	case common.CondAnd, common.CondOr, common.CondXor:
		renumberCond(c.Left, remap)
		renumberCond(c.Right, remap)
	case common.CondEqual, common.CondGreaterThan, common.CondGreaterThanOrEqual, common.CondLessThan, common.CondLessThanOrEqual:
		renumberValue(c.LVal, remap)
		renumberValue(c.RVal, remap)
	case common.CondExists, common.CondBool, common.CondNotBool:
		renumberValue(c.Val, remap)
	}
}

func renumberInstrArgs(instr *common.Instr, remap map[int]int) {
	switch instr.Kind {
	case common.IDeclare:
		renumberValue(&instr.DeclRight.Val, remap)
		renumberMutable(&instr.DeclRight.CastVal, remap)
		renumberMutable(&instr.DeclRight.IndexVal, remap)
	case common.IAssign:
		renumberMutable(&instr.Left, remap)
		renumberValue(&instr.AssignBinding.Val, remap)
		renumberMutable(&instr.AssignBinding.CastVal, remap)
		renumberMutable(&instr.AssignBinding.IndexVal, remap)
		if instr.AssignBinding.Cond != nil {
			renumberCond(instr.AssignBinding.Cond, remap)
		}
	case common.IAdd, common.ISub, common.IMul, common.IDiv, common.IMod, common.IMin, common.IMax, common.IAnd, common.IOr, common.IXor:
		renumberMutable(&instr.Left, remap)
		renumberValue(&instr.Right, remap)
	case common.ISwap:
		renumberMutable(&instr.SwapLeft, remap)
		renumberMutable(&instr.SwapRight, remap)
	case common.IAbs, common.INot, common.IUse:
		renumberMutable(&instr.Val, remap)
	case common.IPow:
		renumberMutable(&instr.Left, remap)
	case common.IIf, common.IIfElse:
		renumberCond(&instr.Cond, remap)
	case common.IReturn:
		renumberValue(&instr.RetVal, remap)
	case common.ICall:
		for i := range instr.Call.Args {
			renumberValue(&instr.Call.Args[i], remap)
		}
	}
}

// stripCallArgs rewrites every call to calleeName inside b, keeping only
// the argument positions named by remap (recursing into structured bodies).
func stripCallArgs(p *Program, b *Block, calleeName string, remap map[int]int, total int) {
	for i, instr := range b.Instructions {
		if instr.Kind == common.ICall && instr.Call.Callee != nil && instr.Call.Callee.Name() == calleeName {
			newArgs := make([]common.Value, 0, len(remap))
			for oldIdx := 0; oldIdx < total && oldIdx < len(instr.Call.Args); oldIdx++ {
				if _, ok := remap[oldIdx]; ok {
					newArgs = append(newArgs, instr.Call.Args[oldIdx])
				}
			}
			instr.Call.Args = newArgs
			b.Instructions[i] = instr
		}
		for _, child := range instr.Children() {
			if cb, ok := p.GetBlock(child); ok {
				stripCallArgs(p, cb, calleeName, remap, total)
			}
		}
	}
}
