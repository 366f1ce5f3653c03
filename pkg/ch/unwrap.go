package ch

// Unwrap expands a node-id path produced over the augmented graph back into
// original-edge terms: every consecutive pair (a,b) that matches a shortcut
// in shortcuts_by_source[a] is replaced by that shortcut's interior nodes.
// Interior nodes may themselves be shortcut endpoints, so expansion repeats
// until no pair in the result matches a shortcut — implemented iteratively
// with an explicit stack to avoid unbounded recursion on long chains.
func Unwrap(shortcuts map[uint32][]Shortcut, path []uint32) []uint32 {
	if len(path) < 2 {
		return path
	}

	type frame struct{ a, b uint32 }
	// Push pairs in reverse so popping processes them in path order.
	var stack []frame
	for i := len(path) - 2; i >= 0; i-- {
		stack = append(stack, frame{path[i], path[i+1]})
	}

	result := []uint32{path[0]}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if sc, ok := findShortcut(shortcuts, top.a, top.b); ok {
			interior := sc.ReplacedEdges[1 : len(sc.ReplacedEdges)-1]
			expanded := make([]frame, 0, len(interior)+1)
			prev := top.a
			for _, mid := range interior {
				expanded = append(expanded, frame{prev, mid})
				prev = mid
			}
			expanded = append(expanded, frame{prev, top.b})
			for i := len(expanded) - 1; i >= 0; i-- {
				stack = append(stack, expanded[i])
			}
			continue
		}

		result = append(result, top.b)
	}
	return result
}

func findShortcut(shortcuts map[uint32][]Shortcut, a, b uint32) (Shortcut, bool) {
	for _, sc := range shortcuts[a] {
		if sc.Target == b {
			return sc, true
		}
	}
	return Shortcut{}, false
}
