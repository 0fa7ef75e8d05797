package regalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dpc/common"
	"dpc/ir/lir"
)

// buildProgram lays out one top-level function with two registers whose
// live ranges don't overlap: a's last use is instruction 1, b's first use is
// instruction 2, so the allocator should reuse a's slot for b.
func buildProgram(t *testing.T) (*lir.Program, *common.Identifier, *common.Identifier) {
	t.Helper()
	a := common.Intern("a")
	b := common.Intern("b")
	fn := common.Intern("fn")

	body := lir.NewBlock()
	require.NoError(t, body.Registers.Declare(a, common.Score(common.ScoreTypeScore)))
	require.NoError(t, body.Registers.Declare(b, common.Score(common.ScoreTypeScore)))

	body.Instructions = []lir.Instr{
		{Kind: lir.LSetScore, Dest: common.RegVal(a), Src: common.ConstScore(1)},
		{Kind: lir.LSetScore, Dest: common.RegVal(a), Src: common.ConstScore(2)},
		{Kind: lir.LSetScore, Dest: common.RegVal(b), Src: common.ConstScore(3)},
	}

	p := lir.NewProgram()
	p.AddFunction(&lir.Function{
		Interface: common.FunctionInterface{ID: fn, Signature: common.Signature{Ret: common.Void()}},
		Body:      body,
	})
	return p, a, b
}

func TestAllocateAssignsEveryRegister(t *testing.T) {
	p, a, b := buildProgram(t)
	res, err := Allocate(p, DefaultObjective, DefaultStorage)
	require.NoError(t, err)

	locA, ok := res.Registers[a]
	require.True(t, ok)
	locB, ok := res.Registers[b]
	require.True(t, ok)

	assert.Equal(t, PoolScore, locA.Pool)
	assert.Equal(t, PoolScore, locB.Pool)
	assert.Equal(t, DefaultObjective, locA.Score.Objective)
	assert.Equal(t, locA.Name, locB.Name)
}

func TestCallArgAndReturnLocationsAreCalleeScoped(t *testing.T) {
	callee := common.Intern("callee")
	ty := common.Score(common.ScoreTypeScore)

	argLoc := CallArgLocation(&Result{Objective: DefaultObjective, Storage: DefaultStorage}, callee, 0, ty)
	retLoc := CallReturnLocation(&Result{Objective: DefaultObjective, Storage: DefaultStorage}, callee, 0, ty)

	assert.Equal(t, "%acallee0", argLoc.Name)
	assert.Equal(t, "%Rcallee0", retLoc.Name)
	assert.NotEqual(t, argLoc.Name, retLoc.Name)
}

func TestNBTRegisterResolvesToStoragePath(t *testing.T) {
	reg := common.Intern("nbtreg")
	fn := common.Intern("nbtfn")
	body := lir.NewBlock()
	require.NoError(t, body.Registers.Declare(reg, common.NBTData(common.NBTType{Kind: common.NBTInt})))
	body.Instructions = []lir.Instr{
		{Kind: lir.LSetData, Dest: common.RegVal(reg), Src: common.Const(common.ScoreConst(0))},
	}

	p := lir.NewProgram()
	p.AddFunction(&lir.Function{
		Interface: common.FunctionInterface{ID: fn, Signature: common.Signature{Ret: common.Void()}},
		Body:      body,
	})

	res, err := Allocate(p, DefaultObjective, DefaultStorage)
	require.NoError(t, err)

	loc := res.Registers[reg]
	assert.Equal(t, PoolNBT, loc.Pool)
	assert.Equal(t, DefaultStorage, loc.Data.Target)
}
