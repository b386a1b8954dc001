package introspect

// successors returns the descriptors directly referenced by d.
func successors(d *Descriptor) []*Descriptor {
	if d.Object != nil {
		ret := make([]*Descriptor, len(d.Object.Members))
		for i, m := range d.Object.Members {
			ret[i] = m.Descriptor
		}
		return ret
	}
	if d.Elem != nil {
		return []*Descriptor{d.Elem}
	}
	return nil
}

// countReferences counts every edge into a descriptor, the root counting once.
func (a *analyzer) countReferences() {
	a.graph.Root.refs++
	for _, d := range a.graph.order {
		for _, next := range successors(d) {
			next.refs++
		}
	}
	for _, d := range a.graph.order {
		d.Reused = d.Kind == Object && d.refs > 1
	}
}

// flagRecursive marks object descriptors that sit on a cycle. Cycles are found
// with Tarjan's strongly connected components over the whole descriptor graph
// so that paths through lists, maps and pointers are covered.
func (a *analyzer) flagRecursive() {
	t := &tarjan{index: map[*Descriptor]int{}, low: map[*Descriptor]int{}, onStack: map[*Descriptor]bool{}}
	for _, d := range a.graph.order {
		if _, visited := t.index[d]; !visited {
			t.connect(d)
		}
	}
	for _, component := range t.components {
		cyclic := len(component) > 1
		if !cyclic {
			for _, next := range successors(component[0]) {
				if next == component[0] {
					cyclic = true
				}
			}
		}
		if !cyclic {
			continue
		}
		for _, d := range component {
			if d.Kind == Object {
				d.Recursive = true
			}
		}
	}
	for _, d := range a.graph.order {
		if d.Recursive {
			a.graph.Recursive = append(a.graph.Recursive, d.Type)
		}
	}
}

type tarjan struct {
	counter    int
	index      map[*Descriptor]int
	low        map[*Descriptor]int
	onStack    map[*Descriptor]bool
	stack      []*Descriptor
	components [][]*Descriptor
}

func (t *tarjan) connect(d *Descriptor) {
	t.index[d] = t.counter
	t.low[d] = t.counter
	t.counter++
	t.stack = append(t.stack, d)
	t.onStack[d] = true
	for _, next := range successors(d) {
		if _, visited := t.index[next]; !visited {
			t.connect(next)
			if t.low[next] < t.low[d] {
				t.low[d] = t.low[next]
			}
		} else if t.onStack[next] && t.index[next] < t.low[d] {
			t.low[d] = t.index[next]
		}
	}
	if t.low[d] != t.index[d] {
		return
	}
	var component []*Descriptor
	for {
		last := len(t.stack) - 1
		top := t.stack[last]
		t.stack = t.stack[:last]
		t.onStack[top] = false
		component = append(component, top)
		if top == d {
			break
		}
	}
	t.components = append(t.components, component)
}
