package lir

import "dpc/common/cerr"

const maxIterations = 64

// Passes returns the full, ordered LIR pass batch (spec §4.4).
func Passes() []Pass {
	return []Pass{
		{Name: "simplify-lir", MinOpt: OptBasic, Run: PassSimplifyLIR},
		{Name: "simplify-modifiers", MinOpt: OptBasic, Run: PassSimplifyModifiers},
		{Name: "merge-modifiers", MinOpt: OptMore, Run: PassMergeModifiers},
		{Name: "null-modifiers", MinOpt: OptMore, Run: PassNullModifiers},
		{Name: "copy-propagation", MinOpt: OptMore, Run: PassCopyPropagation},
		{Name: "copy-elision", MinOpt: OptMore, Run: PassCopyElision},
		{Name: "scoreboard-dataflow", MinOpt: OptFull, Run: PassScoreboardDataflow},
		{Name: "get-dataflow", MinOpt: OptFull, Run: PassGetDataflow},
	}
}

// RunPipeline drives the same fixed-point scheduler as mir.RunPipeline
// (spec §4.2/§4.4 share the stability criterion).
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
