package backend

import (
	"sort"

	"dpc/ir/lir"
)

// resourceLocationCharset mirrors original_source/src/output/text.rs's
// RESOURCE_LOCATION_CHARSET: the characters legal in a resource-location
// path, used to base-encode a stripped function's replacement name.
var resourceLocationCharset = []rune("abcdefghijklmnopqrstuvwxyz0123456789_-.")

// getStrippedNameUnstable ports text.rs's get_stripped_name_unstable: index
// 0 is the empty string, every later index is a base-N digit string over
// charset (N = len(charset)), built least-significant-digit first.
func getStrippedNameUnstable(idx int, charset []rune) string {
	if idx == 0 {
		return ""
	}
	n := len(charset)
	out := make([]rune, 0, 4)
	// Add one and subtract it back on the first iteration only, to offset
	// index 0 meaning "empty" rather than "digit zero" (text.rs's comment:
	// "bypass the while check").
	idx++
	first := true
	for idx != 0 {
		if first {
			idx--
			first = false
		}
		digit := idx % n
		out = append(out, charset[digit])
		idx /= n
	}
	return string(out)
}

// computeStripMapping ports strip.rs's strip_unstable: functions are ranked
// by how many times they're called (most-called gets the shortest name),
// ties broken by function id ascending for determinism (spec §5). A
// preserve/no_strip-annotated function, or one whose stripped form wouldn't
// actually be shorter, keeps its original id.
func computeStripMapping(p *lir.Program) map[string]string {
	counts := map[string]int{}
	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		for _, instr := range f.Body.Instructions {
			if instr.Kind == lir.LCall {
				counts[instr.Call.Callee.Name()]++
			}
		}
	}

	type counted struct {
		id    string
		count int
	}
	ranked := make([]counted, 0, len(counts))
	for id, c := range counts {
		ranked = append(ranked, counted{id, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].id < ranked[j].id
	})

	out := map[string]string{}
	// Index 0 encodes the empty string, which is not a usable function path
	// on its own (stripped names get no `s/` prefix here), so numbering
	// starts at 1.
	idx := 1
	for _, r := range ranked {
		f, ok := p.Functions[r.id]
		if !ok {
			// A called name with no matching function is an extern call;
			// nothing to rename.
			continue
		}
		if f.Interface.Annotations.Preserve || f.Interface.Annotations.NoStrip {
			out[r.id] = r.id
			continue
		}
		name := getStrippedNameUnstable(idx, resourceLocationCharset)
		if len(name) >= len(r.id) {
			out[r.id] = r.id
			continue
		}
		out[r.id] = name
		idx++
	}
	return out
}
