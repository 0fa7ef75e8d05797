// Package backend implements the code generator (spec §4.6): lowering a
// fully register-allocated LIR program to the textual command lines of a
// Minecraft data pack, synthesizing the literal/objective init function, and
// (optionally) stripping function names to short forms.
package backend

import "dpc/common"

// McFunction is one compiled function: an ordered sequence of command
// lines, ready to be written verbatim to a `.mcfunction` file.
type McFunction struct {
	Contents []string
}

// Tag is a function tag (e.g. `minecraft:load`): an ordered list of
// function ids invoked when the tag fires.
type Tag struct {
	Values []string
}

// Datapack is the code generator's full output (spec §6 "Output contract").
// It carries data only; writing `.mcfunction`/tag JSON files to disk is an
// external collaborator's job.
type Datapack struct {
	Functions    map[common.ResourceLocation]*McFunction
	FuncOrder    []common.ResourceLocation
	FunctionTags map[common.ResourceLocation]*Tag
	TagOrder     []common.ResourceLocation
}

func NewDatapack() *Datapack {
	return &Datapack{
		Functions:    make(map[common.ResourceLocation]*McFunction),
		FunctionTags: make(map[common.ResourceLocation]*Tag),
	}
}

func (d *Datapack) addFunction(loc common.ResourceLocation, f *McFunction) {
	if _, exists := d.Functions[loc]; !exists {
		d.FuncOrder = append(d.FuncOrder, loc)
	}
	d.Functions[loc] = f
}

func (d *Datapack) addToTag(loc common.ResourceLocation, funcID string) {
	t, ok := d.FunctionTags[loc]
	if !ok {
		t = &Tag{}
		d.FunctionTags[loc] = t
		d.TagOrder = append(d.TagOrder, loc)
	}
	t.Values = append(t.Values, funcID)
}
