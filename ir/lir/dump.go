package lir

import (
	"fmt"
	"strings"
)

// Dump renders a best-effort textual listing of every function's flat
// instructions and their modifier chains, used only for the driver's
// debug-mode diagnostics (spec §6 "debug").
func Dump(p *Program) string {
	var b strings.Builder
	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		fmt.Fprintf(&b, "fn %s:\n", name)
		for i, instr := range f.Body.Instructions {
			fmt.Fprintf(&b, "  %d: kind=%d %s\n", i, instr.Kind, dumpInstr(instr))
		}
	}
	return b.String()
}

func dumpInstr(instr Instr) string {
	var mods strings.Builder
	for _, m := range instr.Modifiers {
		fmt.Fprintf(&mods, "[%s]", m)
	}
	switch instr.Kind {
	case LSetScore, LSetData, LAddScore, LSubScore, LMulScore, LDivScore, LModScore, LMinScore, LMaxScore, LGetScore, LGetData:
		return fmt.Sprintf("%s %s %s", instr.Dest, mods.String(), instr.Src)
	case LSwapScore:
		return fmt.Sprintf("swap %s %s %s", instr.SwapA, instr.SwapB, mods.String())
	case LCall:
		return fmt.Sprintf("call %s %s", instr.Call.Callee, mods.String())
	case LReturnValue:
		return fmt.Sprintf("return %s %s", instr.RetVal, mods.String())
	case LReturnRun:
		return fmt.Sprintf("return run %s", mods.String())
	case LNoOp:
		return fmt.Sprintf("noop %s", mods.String())
	default:
		return mods.String()
	}
}
