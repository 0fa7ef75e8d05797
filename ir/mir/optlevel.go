package mir

// OptLevel is the optimization level from spec §6 ("op_level": one of
// {None, Basic, More, Full}).
type OptLevel int

const (
	OptNone OptLevel = iota
	OptBasic
	OptMore
	OptFull
)

// Pass is one optimization pass. Each declares the minimum OptLevel at
// which the driver is allowed to run it (spec §4.2).
type Pass struct {
	Name    string
	MinOpt  OptLevel
	Run     func(p *Program) (changed bool, err error)
}
