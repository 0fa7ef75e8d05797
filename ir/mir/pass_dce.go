package mir

import "dpc/common"

// PassDeadCodeElimination implements spec §4.2 "Pass: Dead code
// elimination": compute the set of called function ids (transitively,
// scanning modifier bodies too); remove any function not in that set
// unless annotated preserve.
func PassDeadCodeElimination(p *Program) (bool, error) {
	reachable := make(map[string]bool)
	var queue []string
	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		if f.Interface.Annotations.Preserve {
			reachable[name] = true
			queue = append(queue, name)
		}
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		f, ok := p.Functions[name]
		if !ok {
			continue
		}
		body, ok := p.GetBlock(f.Block)
		if !ok {
			continue
		}
		for _, callee := range calledFunctions(p, body) {
			if !reachable[callee] {
				reachable[callee] = true
				queue = append(queue, callee)
			}
		}
	}

	changed := false
	for _, name := range append([]string(nil), p.FuncOrder...) {
		if !reachable[name] {
			p.RemoveFunction(name)
			changed = true
		}
	}
	return changed, nil
}

// calledFunctions collects every callee name reachable from a block,
// recursing into structured sub-blocks (If/IfElse/Modify/ReturnRun bodies).
func calledFunctions(p *Program, b *Block) []string {
	var out []string
	for _, instr := range b.Instructions {
		if instr.Kind == common.ICall && instr.Call.Callee != nil {
			out = append(out, instr.Call.Callee.Name())
		}
		for _, child := range instr.Children() {
			if cb, ok := p.GetBlock(child); ok {
				out = append(out, calledFunctions(p, cb)...)
			}
		}
	}
	return out
}
