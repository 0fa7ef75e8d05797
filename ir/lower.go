package ir

import (
	"dpc/common"
	"dpc/common/cerr"
	"dpc/ir/mir"
)

// LowerToMIR implements spec §4.1: a shape-preserving, instruction-for-
// instruction mapping from IR to MIR. The only structural rewrite is
// Declare{left,ty,right} -> Declare{left,ty}; Assign{left:Reg(left), right}.
func LowerToMIR(prog *Program) (*mir.Program, error) {
	out := mir.NewProgram()

	// blockMap maps each IR BlockID to the MIR BlockID allocated for it, so
	// If/IfElse/Modify/ReturnRun bodies (which reference BlockIDs) are
	// rewritten to point at their lowered MIR blocks.
	blockMap := make(map[common.BlockID]common.BlockID)

	for _, name := range prog.FuncOrder {
		fn := prog.Functions[name]
		body, ok := prog.GetBlock(fn.Block)
		if !ok {
			return nil, cerr.New(cerr.InvalidIR, "function %q references missing block", name)
		}
		mirBody, err := lowerBlock(prog, out, body, blockMap)
		if err != nil {
			return nil, cerr.InFunction(err, name)
		}
		id := out.Blocks.Alloc(mirBody)
		blockMap[fn.Block] = id
		out.Functions[name] = &mir.Function{Interface: fn.Interface, Block: id}
		out.FuncOrder = append(out.FuncOrder, name)
	}

	return out, nil
}

func lowerBlock(prog *Program, out *mir.Program, body *Block, blockMap map[common.BlockID]common.BlockID) (*mir.Block, error) {
	mirBody := mir.NewBlock()
	for _, reg := range body.Registers.Registers() {
		// Registers declared via a plain Register (as opposed to a
		// Declare instruction, e.g. function parameters) still need to
		// exist in the MIR register list.
		_ = mirBody.Registers.Declare(reg.ID, reg.Ty)
	}

	for idx, instr := range body.Instructions {
		lowered, err := lowerInstr(prog, out, instr, blockMap)
		if err != nil {
			return nil, cerr.AtInstruction(err, idx)
		}
		mirBody.Instructions = append(mirBody.Instructions, lowered...)
	}
	return mirBody, nil
}

func lowerInstr(prog *Program, out *mir.Program, instr common.Instr, blockMap map[common.BlockID]common.BlockID) ([]common.Instr, error) {
	switch instr.Kind {
	case common.IDeclare:
		// Declare{left,ty,right} -> Declare{left,ty}; Assign{left:Reg(left), right}
		decl := common.DeclareInstr(instr.DeclLeft, instr.DeclTy, common.DeclareBinding{})
		assign := common.AssignInstr(common.RegVal(instr.DeclLeft), instr.DeclRight)
		return []common.Instr{decl, assign}, nil
	case common.IIf:
		bodyID, err := lowerSubBlock(prog, out, instr.Body, blockMap)
		if err != nil {
			return nil, err
		}
		return []common.Instr{common.IfInstr(instr.Cond, bodyID)}, nil
	case common.IIfElse:
		firstID, err := lowerSubBlock(prog, out, instr.Body, blockMap)
		if err != nil {
			return nil, err
		}
		secondID, err := lowerSubBlock(prog, out, instr.ElseBody, blockMap)
		if err != nil {
			return nil, err
		}
		return []common.Instr{common.IfElseInstr(instr.Cond, firstID, secondID)}, nil
	case common.IModify:
		bodyID, err := lowerSubBlock(prog, out, instr.ModBody, blockMap)
		if err != nil {
			return nil, err
		}
		return []common.Instr{common.ModifyInstr(instr.Modifier, bodyID)}, nil
	case common.IReturnRun:
		bodyID, err := lowerSubBlock(prog, out, instr.RunBody, blockMap)
		if err != nil {
			return nil, err
		}
		return []common.Instr{common.ReturnRunInstr(bodyID)}, nil
	default:
		// Every other IR kind maps 1:1 to the corresponding MIR kind,
		// preserving operands (spec §4.1).
		return []common.Instr{instr}, nil
	}
}

func lowerSubBlock(prog *Program, out *mir.Program, id common.BlockID, blockMap map[common.BlockID]common.BlockID) (common.BlockID, error) {
	if mapped, ok := blockMap[id]; ok {
		return mapped, nil
	}
	body, ok := prog.GetBlock(id)
	if !ok {
		return 0, cerr.New(cerr.InvalidIR, "referenced block %d is missing from the block table", id)
	}
	mirBody, err := lowerBlock(prog, out, body, blockMap)
	if err != nil {
		return 0, err
	}
	newID := out.Blocks.Alloc(mirBody)
	blockMap[id] = newID
	return newID, nil
}
