package backend

import (
	"fmt"

	"dpc/common"
	"dpc/ir/lir/regalloc"
)

// initFunctionPath is the reserved path under the project namespace the
// synthesized init function lives at, grounded on original_source's
// convention of a single load-time setup function per compiled pack.
const initFunctionPath = "dpc_init"

// synthesizeInit builds the `{project}:dpc_init` function (spec §4.6 "Init
// function"): it declares the register/literal scoreboard objectives (only
// if anything in the program actually used them), initializes the reserved
// no-op holder, and sets every interned literal to its value, then registers
// itself in the `minecraft:load` function tag so it runs once when the
// datapack loads.
func synthesizeInit(dp *Datapack, project string, usedObjective, usedStorage, usedNoop bool, lits *regalloc.LiteralPool) (common.ResourceLocation, common.ResourceLocation) {
	mcf := &McFunction{}

	if usedObjective {
		mcf.Contents = append(mcf.Contents,
			fmt.Sprintf("scoreboard objectives add %s dummy", regalloc.DefaultObjective))
	}
	entries := lits.Entries()
	if len(entries) > 0 {
		mcf.Contents = append(mcf.Contents,
			fmt.Sprintf("scoreboard objectives add %s dummy", regalloc.LiteralObjective))
		for _, e := range entries {
			mcf.Contents = append(mcf.Contents,
				fmt.Sprintf("scoreboard players set %s %s %d", e.Name, regalloc.LiteralObjective, e.Value))
		}
	}
	if usedNoop {
		mcf.Contents = append(mcf.Contents,
			fmt.Sprintf("scoreboard players set %s %s 0", noopHolder, regalloc.DefaultObjective))
	}
	_ = usedStorage // storage needs no declaration command; NBT paths are created on first write.

	loc := common.ResourceLocation{Namespace: project, Path: initFunctionPath}
	dp.addFunction(loc, mcf)

	return loc, common.ResourceLocation{Namespace: "minecraft", Path: "load"}
}
