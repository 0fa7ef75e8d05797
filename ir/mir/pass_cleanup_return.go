package mir

import "dpc/common"

// PassCleanupReturn implements spec §4.2 "Pass: Cleanup return": truncate
// instructions after an early Return/ReturnRun (unreachable), and for a
// function annotated unused_result, drop a trailing Return const.
func PassCleanupReturn(p *Program) (bool, error) {
	changed := false
	for _, id := range p.Blocks.Order() {
		b, _ := p.Blocks.Get(id)
		if truncateAfterReturn(p, b) {
			changed = true
		}
	}
	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		if !f.Interface.Annotations.UnusedResult {
			continue
		}
		body, ok := p.GetBlock(f.Block)
		if !ok || len(body.Instructions) == 0 {
			continue
		}
		last := body.Instructions[len(body.Instructions)-1]
		if last.Kind == common.IReturn && !last.RetVoid && last.RetVal.IsConst {
			body.Instructions = body.Instructions[:len(body.Instructions)-1]
			changed = true
		}
	}
	return changed, nil
}

func truncateAfterReturn(p *Program, b *Block) bool {
	changed := false
	for i, instr := range b.Instructions {
		for _, child := range instr.Children() {
			if cb, ok := p.GetBlock(child); ok {
				if truncateAfterReturn(p, cb) {
					changed = true
				}
			}
		}
		if (instr.Kind == common.IReturn || instr.Kind == common.IReturnRun) && i+1 < len(b.Instructions) {
			b.Instructions = b.Instructions[:i+1]
			return true
		}
	}
	return changed
}
