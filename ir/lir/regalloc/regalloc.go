// Package regalloc implements the LIR register allocator (spec §4.5): every
// abstract register a chunk (a top-level function plus the child functions
// its sub-block lowering synthesized, ir/lir/lower.go) declares is assigned
// a physical scoreboard holder or NBT storage path, pooled separately for
// Score-family and NBT-family registers, reusing slot numbers across
// registers whose live ranges never overlap.
package regalloc

import (
	"fmt"
	"sort"

	"dpc/common"
	"dpc/ir/lir"
)

// Fixed resource names a datapack's compiled output lives under, grounded on
// original_source/src/output/text.rs's REG_OBJECTIVE/LIT_OBJECTIVE/
// REG_STORAGE_LOCATION constants. backend.Generate passes these into Allocate
// and NewLiteralPool rather than each call site re-deriving them, so codegen and
// init-function synthesis (backend) agree with the allocator on where
// everything lives.
const (
	DefaultObjective = "_r"
	LiteralObjective = "_l"
	DefaultStorage   = "dpc:r"
)

// Pool distinguishes the two physical resources a register can live in.
type Pool int

const (
	PoolScore Pool = iota
	PoolNBT
)

func poolOf(ty common.DataType) Pool {
	if ty.Family == common.FamilyScore {
		return PoolScore
	}
	return PoolNBT
}

// Location is the resolved physical home of one abstract register.
type Location struct {
	Pool  Pool
	Name  string // scoreboard holder (PoolScore) or storage path (PoolNBT)
	Score common.ScoreRef
	Data  common.FullDataLocation
}

// Result is the full program's allocation: the physical Location for every
// register, keyed by its *common.Identifier, plus the objective and storage
// that the call argument/return locations are built from.
type Result struct {
	Objective string // the single scoreboard objective every Score slot lives in
	Storage   string // the single storage resource location every NBT slot lives in

	Registers map[*common.Identifier]Location
}

// Allocate runs the allocator over every chunk in the program.
func Allocate(p *lir.Program, objective, storage string) (*Result, error) {
	res := &Result{Objective: objective, Storage: storage, Registers: make(map[*common.Identifier]Location)}

	for _, chunk := range chunks(p) {
		if err := allocateChunk(p, chunk, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// chunk is one top-level function plus every child function its sub-block
// lowering synthesized, transitively.
type chunk struct {
	root  string
	funcs []string
}

func chunks(p *lir.Program) []chunk {
	var out []chunk
	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		if f.Parent != "" {
			continue
		}
		c := chunk{root: name}
		var collect func(n string)
		collect = func(n string) {
			c.funcs = append(c.funcs, n)
			if cf, ok := p.Functions[n]; ok {
				for _, child := range cf.Children {
					collect(child)
				}
			}
		}
		collect(name)
		out = append(out, c)
	}
	return out
}

// allocateChunk assigns physical slots for every register declared anywhere
// in the chunk, sharing the slot-number space across its functions (they
// never execute concurrently: a child only runs while its parent's Call
// instruction is active, spec §5 "single-threaded"). Within a function body,
// a register is given a slot at its first use and the slot is freed right
// after its last use, so two registers whose live ranges never overlap share
// the same physical slot (spec §4.5) instead of each function's registers
// all competing for distinct slots before any of them can be freed.
func allocateChunk(p *lir.Program, c chunk, res *Result) error {
	nextSlot := map[Pool]int{}
	// freeSlots holds slot numbers released once a register's live range
	// ends, so later registers in the same pool can reuse them.
	freeSlots := map[Pool][]int{}

	for _, fname := range c.funcs {
		f := p.Functions[fname]
		live := computeLiveness(f.Body)
		regs := f.Body.Registers.Registers()
		sort.Slice(regs, func(i, j int) bool { return regs[i].ID.Name() < regs[j].ID.Name() })

		assigned := make(map[*common.Identifier]int)
		assign := func(id *common.Identifier) {
			pool := poolOf(mustType(f, id))
			var slot int
			if pool2 := freeSlots[pool]; len(pool2) > 0 {
				slot = pool2[len(pool2)-1]
				freeSlots[pool] = pool2[:len(pool2)-1]
			} else {
				slot = nextSlot[pool]
				nextSlot[pool]++
			}
			assigned[id] = slot
			res.Registers[id] = physicalLocation(res, c.root, pool, slot)
		}
		free := func(id *common.Identifier) {
			pool := poolOf(mustType(f, id))
			freeSlots[pool] = append(freeSlots[pool], assigned[id])
		}

		// Bucket registers by the instruction index where they first/last
		// appear so allocation and freeing can be interleaved with a single
		// pass over the body. A register never referenced by any
		// instruction gets a slot up front and holds it for the whole
		// function, same as before.
		firstAt := make(map[int][]*common.Identifier)
		lastAt := make(map[int][]*common.Identifier)
		var untouched []*common.Identifier
		for _, r := range regs {
			fu, ok := live.firstUse[r.ID]
			if !ok {
				untouched = append(untouched, r.ID)
				continue
			}
			firstAt[fu] = append(firstAt[fu], r.ID)
			lastAt[live.lastUse[r.ID]] = append(lastAt[live.lastUse[r.ID]], r.ID)
		}
		sortByName := func(ids []*common.Identifier) {
			sort.Slice(ids, func(i, j int) bool { return ids[i].Name() < ids[j].Name() })
		}

		for _, id := range untouched {
			assign(id)
		}
		for idx := range f.Body.Instructions {
			if ids := firstAt[idx]; len(ids) > 0 {
				sortByName(ids)
				for _, id := range ids {
					assign(id)
				}
			}
			if ids := lastAt[idx]; len(ids) > 0 {
				sortByName(ids)
				for _, id := range ids {
					free(id)
				}
			}
		}
		for _, id := range untouched {
			free(id)
		}
	}
	return nil
}

func mustType(f *lir.Function, reg *common.Identifier) common.DataType {
	if r, ok := f.Body.Registers.Get(reg); ok {
		return r.Ty
	}
	return common.Score(common.ScoreTypeScore)
}

// physicalLocation ports original_source/src/output/text.rs's
// format_reg_fake_player/format_local_storage_entry naming
// (`%r{func_id}{num}` fake player, `r{func_id}{num}` storage entry),
// keyed by the chunk's root function id rather than each individual
// member's id so a register a child function inherits from its parent's
// outer scope (ir/lir/lower.go's sub-block extraction copies the whole
// chunk-wide register set into the child's RegisterList) resolves to the
// same physical slot from either side.
func physicalLocation(res *Result, chunkRoot string, pool Pool, slot int) Location {
	if pool == PoolScore {
		name := fmt.Sprintf("%%r%s%d", chunkRoot, slot)
		return Location{Pool: PoolScore, Name: name, Score: common.ScoreRef{Holder: name, Objective: res.Objective}}
	}
	name := fmt.Sprintf("r%s%d", chunkRoot, slot)
	return Location{Pool: PoolNBT, Name: name, Data: common.FullDataLocation{Kind: common.DataLocationStorage, Target: res.Storage, Path: name}}
}

// CallArgLocation and CallReturnLocation give the fixed, allocation-free
// physical homes used for passing arguments into, and results out of, a
// call (text.rs's format_arg_fake_player/format_ret_fake_player) — these
// never go through the slot allocator, since a call's argument registers
// are live across exactly one call's lifetime regardless of which chunk's
// own registers happen to be free at that point (spec §4.5 "chunk
// handling").
func CallArgLocation(res *Result, callee *common.Identifier, index int, ty common.DataType) Location {
	calleeID := callee.Name()
	if poolOf(ty) == PoolScore {
		name := fmt.Sprintf("%%a%s%d", calleeID, index)
		return Location{Pool: PoolScore, Name: name, Score: common.ScoreRef{Holder: name, Objective: res.Objective}}
	}
	name := fmt.Sprintf("a%s%d", calleeID, index)
	return Location{Pool: PoolNBT, Name: name, Data: common.FullDataLocation{Kind: common.DataLocationStorage, Target: res.Storage, Path: name}}
}

func CallReturnLocation(res *Result, callee *common.Identifier, index int, ty common.DataType) Location {
	calleeID := callee.Name()
	if poolOf(ty) == PoolScore {
		name := fmt.Sprintf("%%R%s%d", calleeID, index)
		return Location{Pool: PoolScore, Name: name, Score: common.ScoreRef{Holder: name, Objective: res.Objective}}
	}
	name := fmt.Sprintf("R%s%d", calleeID, index)
	return Location{Pool: PoolNBT, Name: name, Data: common.FullDataLocation{Kind: common.DataLocationStorage, Target: res.Storage, Path: name}}
}
