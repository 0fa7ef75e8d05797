package backend

import (
	"fmt"

	"dpc/common"
	"dpc/ir/lir"
	"dpc/ir/lir/regalloc"
)

// StripMode selects whether unannotated function ids get replaced with short
// generated names (spec §6 "strip_mode").
type StripMode int

const (
	StripNone StripMode = iota
	StripUnstable
)

// Options configures code generation (spec §6 "Driver settings" subset that
// belongs to the backend; the rest — ir_passes/mir_passes/lir_passes/
// op_level — is consumed earlier in the pipeline by the driver package).
type Options struct {
	Project   string
	StripMode StripMode
}

// Generate lowers a fully-built LIR program to a Datapack (spec §4.6): it
// runs register allocation, resolves every instruction's operands to
// concrete scoreboard/storage locations, renders each function's command
// text, synthesizes the init function, and (if configured) strips function
// names.
func Generate(p *lir.Program, opts Options) (*Datapack, error) {
	res, err := regalloc.Allocate(p, regalloc.DefaultObjective, regalloc.DefaultStorage)
	if err != nil {
		return nil, fmt.Errorf("register allocation: %w", err)
	}
	lits := regalloc.NewLiteralPool(regalloc.LiteralObjective)

	stripped := map[string]string{}
	if opts.StripMode == StripUnstable {
		stripped = computeStripMapping(p)
	}

	usedObjective := false
	usedStorage := false
	usedNoop := false

	dp := NewDatapack()

	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		loc := funcLocation(opts.Project, f, stripped)

		gc := &genCtx{
			res:           newResolver(res, lits, f.Interface.ID, f.Interface.Signature),
			usedObjective: &usedObjective,
			usedStorage:   &usedStorage,
			usedNoop:      &usedNoop,
			stripped:      stripped,
		}

		mcf := &McFunction{}
		for _, instr := range f.Body.Instructions {
			cmd, ok, err := gc.renderInstr(instr)
			if err != nil {
				return nil, fmt.Errorf("function %s: %w", name, err)
			}
			if ok {
				mcf.Contents = append(mcf.Contents, cmd)
			}
		}
		dp.addFunction(loc, mcf)

		if f.Interface.Annotations.Preserve {
			// preserve-annotated functions are exempt from stripping but
			// otherwise participate in the datapack exactly like any other.
		}
	}

	initLoc, tagLoc := synthesizeInit(dp, opts.Project, usedObjective, usedStorage, usedNoop, lits)
	dp.addToTag(tagLoc, initLoc.String())

	return dp, nil
}

// funcLocation maps a LIR function to its output resource location, applying
// the stripped name (if any) to the path.
func funcLocation(project string, f *lir.Function, stripped map[string]string) common.ResourceLocation {
	name := f.Interface.ID.Name()
	if s, ok := stripped[name]; ok {
		name = s
	}
	return common.ResourceLocation{Namespace: project, Path: name}
}
