// Package driver implements the compiler's external interface (spec §6): it
// accepts a parsed IR program and the settings that control optimization
// level, debug dumping and strip mode, and drives it through every stage
// (IR -> MIR -> LIR -> register allocation -> code generation) to a
// finished Datapack, modeled on the teacher's src/main.go/src/ir/optimise.go
// pass-batch-then-generate driver shape.
package driver

import (
	"fmt"

	"dpc/backend"
	"dpc/common/cerr"
	"dpc/ir"
	"dpc/ir/lir"
	"dpc/ir/mir"
)

// OptLevel re-exports mir's level enum, the single setting shared by every
// stage's pipeline (spec §6 "op_level").
type OptLevel = mir.OptLevel

const (
	OptNone  = mir.OptNone
	OptBasic = mir.OptBasic
	OptMore  = mir.OptMore
	OptFull  = mir.OptFull
)

// Settings is the full set of driver knobs from spec §6's "Driver settings".
type Settings struct {
	Debug     bool
	OptLevel  OptLevel
	StripMode backend.StripMode
	Project   string
}

// DefaultSettings mirrors the teacher's zero-value-friendly Options: an
// unnamed project compiles at OptFull with stripping off, matching
// vslc's util.Options defaulting to sensible values when flags are absent.
func DefaultSettings(project string) Settings {
	return Settings{OptLevel: OptFull, StripMode: backend.StripNone, Project: project}
}

// Dump receives intermediate program text at each stage boundary when
// Settings.Debug is set (spec §6 "debug"); the driver itself never touches a
// terminal or file, leaving colorized rendering to the caller (cmd/dpc uses
// fatih/color, mirrored from kanso-lang-kanso's reporter).
type Dump func(stage string, text string)

// Compile runs the whole pipeline described in spec §4: lower IR to MIR, run
// the MIR pass batch, lower MIR to LIR, run the LIR pass batch, allocate
// registers, and generate the final Datapack.
func Compile(prog *ir.Program, s Settings, dump Dump) (*backend.Datapack, error) {
	if !s.Debug {
		dump = nil
	}
	mirProg, err := ir.LowerToMIR(prog)
	if err != nil {
		return nil, fmt.Errorf("lowering to MIR: %w", err)
	}
	if dump != nil {
		dump("mir-initial", mir.Dump(mirProg))
	}

	if err := mir.RunPipeline(mirProg, s.OptLevel); err != nil {
		return nil, fmt.Errorf("running MIR pass batch: %w", err)
	}
	if dump != nil {
		dump("mir-optimized", mir.Dump(mirProg))
	}

	lirProg, err := lir.LowerToLIR(mirProg)
	if err != nil {
		return nil, fmt.Errorf("lowering to LIR: %w", err)
	}
	if dump != nil {
		dump("lir-initial", lir.Dump(lirProg))
	}

	if err := lir.RunPipeline(lirProg, s.OptLevel); err != nil {
		return nil, fmt.Errorf("running LIR pass batch: %w", err)
	}
	if dump != nil {
		dump("lir-optimized", lir.Dump(lirProg))
	}

	dp, err := backend.Generate(lirProg, backend.Options{Project: s.Project, StripMode: s.StripMode})
	if err != nil {
		return nil, cerr.Wrap(cerr.InternalInvariant, err, "code generation failed")
	}
	return dp, nil
}
