package backend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"dpc/common"
	"dpc/ir/lir"
)

// noopHolder is a reserved, always-initialized scoreboard holder used as the
// target of a throwaway `add ... 0` placeholder command when a LIR NoOp
// carries a side-effectful modifier (StoreResult/StoreSuccess) that must
// still observe something running (spec §4.6 "a trivial placeholder command
// is emitted so the modifier runs").
const noopHolder = "%_noop"

// genCtx accumulates the cross-function bookkeeping the init function needs
// (spec §4.6 "Init function"): whether the register/literal objectives or
// the register storage were ever touched, plus the literal pool itself.
type genCtx struct {
	res            *resolver
	usedObjective  *bool
	usedStorage    *bool
	usedNoop       *bool
	stripped       map[string]string // original function id -> stripped id, or identity if not stripped
}

func (g *genCtx) funcRef(id *common.Identifier) string {
	if s, ok := g.stripped[id.Name()]; ok {
		return s
	}
	return id.Name()
}

// renderInstr renders one LIR instruction to zero or one command line (spec
// §4.6): the bare opcode-specific command, wrapped in an `execute ... run`
// chain if it carries modifiers, or dropped entirely if it's a pure no-op
// with no side-effectful modifier.
func (g *genCtx) renderInstr(i lir.Instr) (string, bool, error) {
	if i.IsNoOpCommand() && !i.HasSideEffectfulModifier() {
		return "", false, nil
	}

	cmd, err := g.renderCommand(i)
	if err != nil {
		return "", false, err
	}
	if len(i.Modifiers) == 0 {
		return cmd, true, nil
	}
	chain, err := g.renderModChain(i.Modifiers)
	if err != nil {
		return "", false, err
	}
	return "execute " + chain + " run " + cmd, true, nil
}

func (g *genCtx) renderCommand(i lir.Instr) (string, error) {
	r := g.res
	switch i.Kind {
	case lir.LSetScore:
		dest, err := r.scoreRef(i.Dest)
		if err != nil {
			return "", err
		}
		g.touchObjective()
		if i.Src.IsConst {
			v, _ := i.Src.AsConstInt()
			return fmt.Sprintf("scoreboard players set %s %s %d", dest.Holder, dest.Objective, v), nil
		}
		src, err := r.scoreRef(i.Src.Mutable)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("scoreboard players operation %s %s = %s %s", dest.Holder, dest.Objective, src.Holder, src.Objective), nil

	case lir.LSetData:
		dest, err := r.dataLoc(i.Dest)
		if err != nil {
			return "", err
		}
		g.touchStorage()
		if i.Src.IsConst {
			return fmt.Sprintf("data modify %s set value %s", dest, renderSNBT(i.Src.Constant)), nil
		}
		src, err := r.dataLoc(i.Src.Mutable)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("data modify %s set from %s", dest, src), nil

	case lir.LAddScore, lir.LSubScore:
		return g.renderAddSub(i)

	case lir.LMulScore, lir.LDivScore, lir.LModScore, lir.LMinScore, lir.LMaxScore:
		return g.renderOperation(i)

	case lir.LSwapScore:
		a, err := r.scoreRef(i.SwapA)
		if err != nil {
			return "", err
		}
		b, err := r.scoreRef(i.SwapB)
		if err != nil {
			return "", err
		}
		g.touchObjective()
		return fmt.Sprintf("scoreboard players operation %s %s >< %s %s", a.Holder, a.Objective, b.Holder, b.Objective), nil

	case lir.LGetScore:
		src, err := r.scoreRef(i.Src.Mutable)
		if err != nil {
			return "", err
		}
		g.touchObjective()
		return fmt.Sprintf("scoreboard players get %s %s", src.Holder, src.Objective), nil

	case lir.LGetData:
		src, err := r.dataLoc(i.Src.Mutable)
		if err != nil {
			return "", err
		}
		g.touchStorage()
		return fmt.Sprintf("data get %s", src), nil

	case lir.LCall:
		return fmt.Sprintf("function %s", g.funcRef(i.Call.Callee)), nil

	case lir.LReturnValue:
		if i.RetVal.IsConst {
			v, _ := i.RetVal.AsConstInt()
			return fmt.Sprintf("return %d", v), nil
		}
		src, err := r.scoreRef(i.RetVal.Mutable)
		if err != nil {
			return "", err
		}
		g.touchObjective()
		return fmt.Sprintf("return run scoreboard players get %s %s", src.Holder, src.Objective), nil

	case lir.LReturnRun:
		if i.Inner == nil {
			return "return 0", nil
		}
		inner, ok, err := g.renderInstr(*i.Inner)
		if err != nil {
			return "", err
		}
		if !ok {
			return "return 0", nil
		}
		return "return run " + inner, nil

	case lir.LNoOp:
		g.touchObjective()
		*g.usedNoop = true
		return fmt.Sprintf("scoreboard players add %s %s 0", noopHolder, g.objective()), nil

	case lir.LSay:
		return "say " + i.Message, nil

	case lir.LTell:
		return fmt.Sprintf("tell %s %s", i.Target, i.Message), nil

	case lir.LKill:
		return fmt.Sprintf("kill %s", i.Target), nil

	case lir.LReload:
		return "reload", nil

	case lir.LSetXP:
		verb := "add"
		if i.XPKind == common.XPSet {
			verb = "set"
		}
		return fmt.Sprintf("experience %s %s %d points", verb, i.Target, i.XPAmount), nil

	default:
		return "", fmt.Errorf("unhandled LIR instruction kind %d", i.Kind)
	}
}

// renderAddSub implements the `+(-n)` -> `remove n` simplification from
// spec §4.6: Add/Sub with a constant operand render directly as
// `add`/`remove` (flipping to the other verb when the constant is
// negative), never needing the literal pool; Add/Sub between two scores
// still needs `operation`.
func (g *genCtx) renderAddSub(i lir.Instr) (string, error) {
	dest, err := g.res.scoreRef(i.Dest)
	if err != nil {
		return "", err
	}
	g.touchObjective()
	verb := "add"
	if i.Kind == lir.LSubScore {
		verb = "remove"
	}
	if i.Src.IsConst {
		v, _ := i.Src.AsConstInt()
		if v < 0 {
			if verb == "add" {
				verb = "remove"
			} else {
				verb = "add"
			}
			v = -v
		}
		return fmt.Sprintf("scoreboard players %s %s %s %d", verb, dest.Holder, dest.Objective, v), nil
	}
	src, err := g.res.scoreRef(i.Src.Mutable)
	if err != nil {
		return "", err
	}
	op := "+="
	if i.Kind == lir.LSubScore {
		op = "-="
	}
	return fmt.Sprintf("scoreboard players operation %s %s %s %s %s", dest.Holder, dest.Objective, op, src.Holder, src.Objective), nil
}

// renderOperation handles Mul/Div/Mod/Min/Max, which have no literal-operand
// command form in vanilla and so always go through `operation`, materializing
// a constant operand via the literal pool (spec §4.6).
func (g *genCtx) renderOperation(i lir.Instr) (string, error) {
	dest, err := g.res.scoreRef(i.Dest)
	if err != nil {
		return "", err
	}
	src, err := g.res.scoreOperand(i.Src)
	if err != nil {
		return "", err
	}
	g.touchObjective()
	var op string
	switch i.Kind {
	case lir.LMulScore:
		op = "*="
	case lir.LDivScore:
		op = "/="
	case lir.LModScore:
		op = "%="
	case lir.LMinScore:
		op = "<"
	case lir.LMaxScore:
		op = ">"
	}
	return fmt.Sprintf("scoreboard players operation %s %s %s %s %s", dest.Holder, dest.Objective, op, src.Holder, src.Objective), nil
}

func (g *genCtx) touchObjective() { *g.usedObjective = true }
func (g *genCtx) touchStorage()   { *g.usedStorage = true }
func (g *genCtx) objective() string { return g.res.res.Objective }

// renderModChain renders the modifier chain (spec §4.6 "emitted left-to-
// right prefixed with execute and joined by spaces").
func (g *genCtx) renderModChain(mods []common.Modifier) (string, error) {
	parts := make([]string, 0, len(mods))
	for _, m := range mods {
		part, err := g.renderModifier(m)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " "), nil
}

func (g *genCtx) renderModifier(m common.Modifier) (string, error) {
	switch m.Kind {
	case common.ModStoreResult, common.ModStoreSuccess:
		verb := "result"
		if m.Kind == common.ModStoreSuccess {
			verb = "success"
		}
		target, err := g.renderStoreTarget(m.Store)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("store %s %s", verb, target), nil
	case common.ModIf:
		cond, err := g.renderCondition(*m.Condition)
		if err != nil {
			return "", err
		}
		if m.Negate {
			return "unless " + cond, nil
		}
		return "if " + cond, nil
	case common.ModAnchored:
		return "anchored " + m.Anchor, nil
	case common.ModAlign:
		axes := ""
		if m.AlignX {
			axes += "x"
		}
		if m.AlignY {
			axes += "y"
		}
		if m.AlignZ {
			axes += "z"
		}
		return "align " + axes, nil
	case common.ModAs:
		return fmt.Sprintf("as %s", m.Target), nil
	case common.ModAt:
		return fmt.Sprintf("at %s", m.Target), nil
	case common.ModIn:
		return fmt.Sprintf("in %s", m.Dim), nil
	case common.ModOn:
		return fmt.Sprintf("on %s", m.Relation), nil
	case common.ModPositioned:
		return fmt.Sprintf("positioned %s", m.Coords), nil
	case common.ModPositionedAs:
		return fmt.Sprintf("positioned as %s", m.Target), nil
	case common.ModPositionedOver:
		return fmt.Sprintf("positioned over %s", m.Relation), nil
	case common.ModRotated:
		return fmt.Sprintf("rotated %s %s", m.Rot[0], m.Rot[1]), nil
	case common.ModRotatedAs:
		return fmt.Sprintf("rotated as %s", m.Target), nil
	case common.ModFacingPosition:
		return fmt.Sprintf("facing %s", m.Coords), nil
	case common.ModFacingEntity:
		return fmt.Sprintf("facing entity %s %s", m.Target, m.Anchor), nil
	case common.ModSummon:
		return fmt.Sprintf("summon %s", m.Entity), nil
	default:
		return "", fmt.Errorf("unhandled modifier kind %d", m.Kind)
	}
}

func (g *genCtx) renderStoreTarget(loc common.StoreModLocation) (string, error) {
	if loc.IsReg {
		return "", fmt.Errorf("store target register %q was never resolved by the allocator", loc.Reg.Name())
	}
	if loc.IsScore {
		return fmt.Sprintf("score %s %s", loc.Score.Holder, loc.Score.Objective), nil
	}
	return fmt.Sprintf("%s %s", loc.Data, nbtStoreKeyword(loc.DataTy)), nil
}

func nbtStoreKeyword(ty common.NBTType) string {
	switch ty.Kind {
	case common.NBTByte, common.NBTBool:
		return "byte 1"
	case common.NBTShort:
		return "short 1"
	case common.NBTLong:
		return "long 1"
	case common.NBTFloat:
		return "float 1"
	case common.NBTDouble:
		return "double 1"
	default:
		return "int 1"
	}
}

// renderCondition renders a Condition tree to the execute `if`/`unless`
// subcommand text following the leading `if`/`unless` keyword (spec §3/§4.6).
// The execute chain has no And subcommand, so a bare CondAnd (which
// ir/lir's merge-modifiers pass produces for a range bounded on both sides)
// renders as its two clauses joined by a second `if` word; under a leading
// `unless` only the first clause is negated.
func (g *genCtx) renderCondition(c common.Condition) (string, error) {
	switch c.Kind {
	case common.CondEqual, common.CondGreaterThan, common.CondGreaterThanOrEqual, common.CondLessThan, common.CondLessThanOrEqual:
		return g.renderComparison(c)
	case common.CondExists:
		loc, err := g.res.dataLoc(c.Val.Mutable)
		if err != nil {
			return "", err
		}
		g.touchStorage()
		return fmt.Sprintf("data %s", loc), nil
	case common.CondBool:
		score, err := g.res.scoreRef(c.Val.Mutable)
		if err != nil {
			return "", err
		}
		g.touchObjective()
		return fmt.Sprintf("score %s %s matches 1", score.Holder, score.Objective), nil
	case common.CondNotBool:
		score, err := g.res.scoreRef(c.Val.Mutable)
		if err != nil {
			return "", err
		}
		g.touchObjective()
		return fmt.Sprintf("score %s %s matches 0", score.Holder, score.Objective), nil
	case common.CondEntity:
		return fmt.Sprintf("entity %s", c.Target), nil
	case common.CondPredicate:
		return fmt.Sprintf("predicate %s", c.ResourceLoc), nil
	case common.CondBiome:
		return fmt.Sprintf("biome %s %s", c.Coords, c.ResourceLoc), nil
	case common.CondLoaded:
		return fmt.Sprintf("loaded %s", c.Coords), nil
	case common.CondDimension:
		return fmt.Sprintf("dimension %s", c.ResourceLoc), nil
	case common.CondFunction:
		return fmt.Sprintf("function %s", g.funcRef(common.Intern(c.BlockID))), nil
	case common.CondBlock:
		return fmt.Sprintf("block %s %s", c.Coords, c.BlockID), nil
	case common.CondAnd:
		left, err := g.renderCondition(*c.Left)
		if err != nil {
			return "", err
		}
		right, err := g.renderCondition(*c.Right)
		if err != nil {
			return "", err
		}
		return left + " if " + right, nil
	case common.CondConst:
		// A surviving constant-true/false condition (pass_cleanup should
		// normally have eliminated these) still needs some render: true is
		// trivially satisfied by comparing the reserved noop holder to
		// itself, false by an impossible range.
		if c.ConstVal {
			return fmt.Sprintf("score %s %s matches ..", noopHolder, g.objective()), nil
		}
		return fmt.Sprintf("score %s %s matches 1..0", noopHolder, g.objective()), nil
	default:
		return "", fmt.Errorf("condition kind %d is not a renderable execute clause (Or/Xor/Not must be lowered first)", c.Kind)
	}
}

func (g *genCtx) renderComparison(c common.Condition) (string, error) {
	// reg-vs-const collapses to `matches`; reg-vs-reg to a direct operator.
	if !c.LVal.IsConst && c.RVal.IsConst {
		score, err := g.res.scoreRef(c.LVal.Mutable)
		if err != nil {
			return "", err
		}
		g.touchObjective()
		v, _ := c.RVal.AsConstInt()
		return fmt.Sprintf("score %s %s matches %s", score.Holder, score.Objective, matchesRange(c.Kind, v, false)), nil
	}
	if c.LVal.IsConst && !c.RVal.IsConst {
		score, err := g.res.scoreRef(c.RVal.Mutable)
		if err != nil {
			return "", err
		}
		g.touchObjective()
		v, _ := c.LVal.AsConstInt()
		return fmt.Sprintf("score %s %s matches %s", score.Holder, score.Objective, matchesRange(c.Kind, v, true)), nil
	}
	if c.LVal.IsConst && c.RVal.IsConst {
		// Both sides constant should have folded already; fall back to the
		// literal pool on both sides so the command still type-checks.
		l, err := g.res.scoreOperand(*c.LVal)
		if err != nil {
			return "", err
		}
		r, err := g.res.scoreOperand(*c.RVal)
		if err != nil {
			return "", err
		}
		g.touchObjective()
		return fmt.Sprintf("score %s %s %s %s %s", l.Holder, l.Objective, scoreOp(c.Kind), r.Holder, r.Objective), nil
	}
	l, err := g.res.scoreRef(c.LVal.Mutable)
	if err != nil {
		return "", err
	}
	r, err := g.res.scoreRef(c.RVal.Mutable)
	if err != nil {
		return "", err
	}
	g.touchObjective()
	return fmt.Sprintf("score %s %s %s %s %s", l.Holder, l.Objective, scoreOp(c.Kind), r.Holder, r.Objective), nil
}

func scoreOp(k common.ConditionKind) string {
	switch k {
	case common.CondEqual:
		return "="
	case common.CondGreaterThan:
		return ">"
	case common.CondGreaterThanOrEqual:
		return ">="
	case common.CondLessThan:
		return "<"
	case common.CondLessThanOrEqual:
		return "<="
	default:
		return "="
	}
}

// matchesRange renders a `score <reg> <obj> matches <range>` right-hand
// side for a reg-vs-const comparison. flipped is set when the constant was
// the left operand (e.g. `5 > reg` means `reg matches ..4`).
func matchesRange(k common.ConditionKind, v int32, flipped bool) string {
	op := k
	if flipped {
		switch k {
		case common.CondGreaterThan:
			op = common.CondLessThan
		case common.CondGreaterThanOrEqual:
			op = common.CondLessThanOrEqual
		case common.CondLessThan:
			op = common.CondGreaterThan
		case common.CondLessThanOrEqual:
			op = common.CondGreaterThanOrEqual
		}
	}
	switch op {
	case common.CondEqual:
		return strconv.Itoa(int(v))
	case common.CondGreaterThan:
		return strconv.Itoa(int(v)+1) + ".."
	case common.CondGreaterThanOrEqual:
		return strconv.Itoa(int(v)) + ".."
	case common.CondLessThan:
		return ".." + strconv.Itoa(int(v)-1)
	case common.CondLessThanOrEqual:
		return ".." + strconv.Itoa(int(v))
	default:
		return strconv.Itoa(int(v))
	}
}

// renderSNBT renders a compile-time constant as SNBT text for `data modify
// ... set value <snbt>`.
func renderSNBT(d common.DataTypeContents) string {
	if d.Ty.Family == common.FamilyScore {
		return strconv.Itoa(int(d.ScoreVal))
	}
	return renderSNBTValue(d.Ty.NBT, d.NBTVal)
}

func renderSNBTValue(ty common.NBTType, v interface{}) string {
	switch ty.Kind {
	case common.NBTByte:
		return fmt.Sprintf("%db", toInt64(v))
	case common.NBTBool:
		if b, ok := v.(bool); ok && b {
			return "1b"
		}
		return "0b"
	case common.NBTShort:
		return fmt.Sprintf("%ds", toInt64(v))
	case common.NBTInt:
		return fmt.Sprintf("%d", toInt64(v))
	case common.NBTLong:
		return fmt.Sprintf("%dl", toInt64(v))
	case common.NBTFloat:
		return fmt.Sprintf("%gf", toFloat64(v))
	case common.NBTDouble:
		return fmt.Sprintf("%gd", toFloat64(v))
	case common.NBTString:
		s, _ := v.(string)
		return strconv.Quote(s)
	case common.NBTList, common.NBTArr:
		elems, _ := v.([]common.DataTypeContents)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = renderSNBT(e)
		}
		prefix := ""
		if ty.Kind == common.NBTArr {
			switch ty.ArrKind {
			case common.NBTByte:
				prefix = "B;"
			case common.NBTInt:
				prefix = "I;"
			case common.NBTLong:
				prefix = "L;"
			}
		}
		return "[" + prefix + strings.Join(parts, ",") + "]"
	case common.NBTCompound:
		fields, _ := v.(map[string]common.DataTypeContents)
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ":" + renderSNBT(fields[k])
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	default:
		return 0
	}
}

func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	default:
		return 0
	}
}
