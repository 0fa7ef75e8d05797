package mir

import "dpc/common/cerr"

// maxIterations bounds the fixed-point loop so a buggy pass pair that keeps
// flip-flopping cannot hang the compiler (spec §5 "a compilation either
// finishes or fails").
const maxIterations = 64

// Passes returns the full, ordered MIR pass batch (spec §4.2), each tagged
// with the optimization level it requires.
func Passes() []Pass {
	return []Pass{
		{Name: "cleanup", MinOpt: OptBasic, Run: PassCleanup},
		{Name: "simplify", MinOpt: OptBasic, Run: PassSimplify},
		{Name: "constant-combo", MinOpt: OptBasic, Run: PassConstantCombo},
		{Name: "dse", MinOpt: OptBasic, Run: PassDeadStoreElimination},
		{Name: "multifold-combine", MinOpt: OptMore, Run: PassMultifoldCombine},
		{Name: "multifold-assign", MinOpt: OptMore, Run: PassMultifoldAssign},
		{Name: "multifold-logic", MinOpt: OptMore, Run: PassMultifoldLogic},
		{Name: "type-based", MinOpt: OptMore, Run: PassTypeBased},
		{Name: "reorder-conditions", MinOpt: OptFull, Run: PassReorderConditions},
		{Name: "simple-inline", MinOpt: OptFull, Run: PassSimpleInline},
		{Name: "cleanup-return", MinOpt: OptBasic, Run: PassCleanupReturn},
		{Name: "unused-args", MinOpt: OptMore, Run: PassUnusedArgs},
		{Name: "dce", MinOpt: OptBasic, Run: PassDeadCodeElimination},
	}
}

// RunPipeline drives the fixed-point scheduler described in spec §4.2:
// "re-runs a fixed-point loop up to a stability criterion", skipping passes
// below the configured op_level.
func RunPipeline(p *Program, level OptLevel) error {
	passes := Passes()
	for iter := 0; iter < maxIterations; iter++ {
		anyChanged := false
		for _, pass := range passes {
			if pass.MinOpt > level {
				continue
			}
			changed, err := pass.Run(p)
			if err != nil {
				return cerr.Wrap(cerr.InvalidIR, err, "pass %q failed", pass.Name)
			}
			anyChanged = anyChanged || changed
		}
		if !anyChanged {
			return nil
		}
	}
	return nil
}
