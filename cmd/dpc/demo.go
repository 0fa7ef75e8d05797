package main

import (
	"dpc/common"
	"dpc/ir"
)

// buildDemoProgram constructs a tiny two-function IR program exercising a
// declare/assign, a call, a conditional and a return, standing in for the
// parser frontend this compiler deliberately excludes (spec §1 Non-goals
// "no parser/lexer") so -demo can drive the pipeline end to end without one.
func buildDemoProgram() *ir.Program {
	prog := ir.NewProgram()

	counter := common.Intern("counter")
	tickFn := common.Intern("tick")
	mainFn := common.Intern("main")

	// fn tick(): increments a register and returns it.
	tickBody := ir.NewBlock()
	tickBody.Registers.Declare(counter, common.Score(common.ScoreTypeScore))
	tickBody.Instructions = append(tickBody.Instructions,
		common.DeclareInstr(counter, common.Score(common.ScoreTypeScore),
			common.ValueBinding(common.ConstScore(0))),
		common.AddInstr(common.RegVal(counter), common.ConstScore(1)),
		common.ReturnInstr(common.Mutable(common.RegVal(counter))),
	)
	tickIface := common.FunctionInterface{
		ID:        tickFn,
		Signature: common.Signature{Ret: common.Standard(common.Score(common.ScoreTypeScore))},
	}
	prog.AddFunction(tickIface, tickBody)

	// fn main(): calls tick, branches on whether the result is positive.
	result := common.Intern("result")
	mainBody := ir.NewBlock()
	mainBody.Registers.Declare(result, common.Score(common.ScoreTypeScore))

	thenBody := ir.NewBlock()
	thenBody.Instructions = append(thenBody.Instructions, common.SayInstr("tick was positive"))
	thenID := prog.Blocks.Alloc(thenBody)

	mainBody.Instructions = append(mainBody.Instructions,
		common.DeclareInstr(result, common.Score(common.ScoreTypeScore), common.NullBinding()),
		common.CallInstr(common.CallInterface{
			Callee:          tickFn,
			RetDestinations: []common.MutableValue{common.RegVal(result)},
		}),
		common.IfInstr(
			common.GreaterThanCond(common.Mutable(common.RegVal(result)), common.ConstScore(0)),
			thenID,
		),
		common.ReturnVoidInstr(),
	)
	mainIface := common.FunctionInterface{
		ID:        mainFn,
		Signature: common.Signature{Ret: common.Void()},
	}
	prog.AddFunction(mainIface, mainBody)

	return prog
}
