package mir

import (
	"fmt"
	"strings"

	"dpc/common"
)

// Dump renders a best-effort textual listing of every function's
// instructions, used only for the driver's debug-mode diagnostics (spec §6
// "debug"). It is not a pretty-printer in the parser's surface syntax —
// Instr carries no source text — just enough to see what a pass did.
func Dump(p *Program) string {
	var b strings.Builder
	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		fmt.Fprintf(&b, "fn %s(%v) %v:\n", name, f.Interface.Signature.Params, f.Interface.Signature.Ret)
		body, ok := p.GetBlock(f.Block)
		if !ok {
			continue
		}
		dumpBlock(&b, p, body, 1)
	}
	return b.String()
}

func dumpBlock(b *strings.Builder, p *Program, block *Block, indent int) {
	pad := strings.Repeat("  ", indent)
	for i, instr := range block.Instructions {
		fmt.Fprintf(b, "%s%d: kind=%d %s\n", pad, i, instr.Kind, dumpInstr(instr))
		for _, child := range instr.Children() {
			if cb, ok := p.GetBlock(child); ok {
				dumpBlock(b, p, cb, indent+1)
			}
		}
	}
}

func dumpInstr(instr common.Instr) string {
	switch instr.Kind {
	case common.IDeclare:
		return fmt.Sprintf("declare %s: %s", instr.DeclLeft.Name(), instr.DeclTy)
	case common.IAssign:
		return fmt.Sprintf("%s = %v", instr.Left, instr.Right)
	case common.IAdd, common.ISub, common.IMul, common.IDiv, common.IMod, common.IMin, common.IMax:
		return fmt.Sprintf("%s op %s", instr.Left, instr.Right)
	case common.IIf:
		return fmt.Sprintf("if %s", instr.Cond)
	case common.IIfElse:
		return fmt.Sprintf("if %s else", instr.Cond)
	case common.ICall:
		return fmt.Sprintf("call %s", instr.Call.Callee)
	case common.IReturn:
		if instr.RetVoid {
			return "return"
		}
		return fmt.Sprintf("return %v", instr.RetVal)
	default:
		return ""
	}
}
