package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dpc/common"
	"dpc/ir/lir"
	"dpc/ir/lir/regalloc"
)

func newTestCtx(reg *common.Identifier) *genCtx {
	res := &regalloc.Result{
		Objective: regalloc.DefaultObjective,
		Storage:   regalloc.DefaultStorage,
		Registers: map[*common.Identifier]regalloc.Location{
			reg: {Pool: regalloc.PoolScore, Name: "%rfn0", Score: common.ScoreRef{Holder: "%rfn0", Objective: regalloc.DefaultObjective}},
		},
	}
	lits := regalloc.NewLiteralPool(regalloc.LiteralObjective)
	usedObj, usedStorage, usedNoop := false, false, false
	return &genCtx{
		res:           newResolver(res, lits, common.Intern("fn"), common.Signature{Ret: common.Void()}),
		usedObjective: &usedObj,
		usedStorage:   &usedStorage,
		usedNoop:      &usedNoop,
		stripped:      map[string]string{},
	}
}

func TestRenderSetScoreConst(t *testing.T) {
	reg := common.Intern("render_set_reg")
	gc := newTestCtx(reg)
	cmd, ok, err := gc.renderInstr(lir.Instr{Kind: lir.LSetScore, Dest: common.RegVal(reg), Src: common.ConstScore(5)})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "scoreboard players set %rfn0 _r 5", cmd)
}

func TestRenderAddNegativeBecomesRemove(t *testing.T) {
	reg := common.Intern("render_add_reg")
	gc := newTestCtx(reg)
	cmd, ok, err := gc.renderInstr(lir.Instr{Kind: lir.LAddScore, Dest: common.RegVal(reg), Src: common.ConstScore(-3)})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "scoreboard players remove %rfn0 _r 3", cmd)
}

func TestRenderSubNegativeBecomesAdd(t *testing.T) {
	reg := common.Intern("render_sub_reg")
	gc := newTestCtx(reg)
	cmd, ok, err := gc.renderInstr(lir.Instr{Kind: lir.LSubScore, Dest: common.RegVal(reg), Src: common.ConstScore(-3)})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "scoreboard players add %rfn0 _r 3", cmd)
}

func TestRenderNoOpWithoutModifierIsDropped(t *testing.T) {
	reg := common.Intern("render_noop_reg")
	gc := newTestCtx(reg)
	cmd, ok, err := gc.renderInstr(lir.Instr{Kind: lir.LNoOp})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, cmd)
}

func TestRenderNoOpWithStoreModifierKeepsPlaceholder(t *testing.T) {
	reg := common.Intern("render_noop_store_reg")
	gc := newTestCtx(reg)
	mod := common.Modifier{Kind: common.ModStoreSuccess, Store: common.StoreModLocation{IsScore: true, Score: common.ScoreRef{Holder: "%out", Objective: "_r"}}}
	cmd, ok, err := gc.renderInstr(lir.Instr{Kind: lir.LNoOp, Modifiers: []common.Modifier{mod}})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, cmd, "execute")
	assert.Contains(t, cmd, noopHolder)
}

func TestRenderCallUsesStrippedName(t *testing.T) {
	reg := common.Intern("render_call_reg")
	gc := newTestCtx(reg)
	gc.stripped["long_callee_name"] = "a"
	callee := common.Intern("long_callee_name")
	cmd, ok, err := gc.renderInstr(lir.Instr{Kind: lir.LCall, Call: common.CallInterface{Callee: callee}})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "function a", cmd)
}
