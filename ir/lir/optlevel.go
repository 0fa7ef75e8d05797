package lir

import "dpc/ir/mir"

// OptLevel reuses the mir package's level enum (spec §6 "op_level" is a
// single setting shared by every IR stage's pipeline).
type OptLevel = mir.OptLevel

const (
	OptNone  = mir.OptNone
	OptBasic = mir.OptBasic
	OptMore  = mir.OptMore
	OptFull  = mir.OptFull
)

// Pass is one LIR optimization pass (spec §4.4), mirroring mir.Pass.
type Pass struct {
	Name   string
	MinOpt OptLevel
	Run    func(p *Program) (changed bool, err error)
}
