package processor

import (
	"fmt"
	"slices"
)

// Constraint orders a processor relative to others by name.
type Constraint struct {
	// Before lists processors that must run after this one.
	Before []string
	// After lists processors that must run before this one.
	After []string
}

// TopoSort orders names so that every constraint holds. Among nodes that are
// free to run, the original order of names is kept. Constraints naming
// unknown processors are ignored.
func TopoSort(names []string, constraints map[string]Constraint) ([]string, error) {
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}

	adjacency := make(map[string][]string)
	inDegree := make(map[string]int, len(names))
	addEdge := func(from, to string) {
		if !known[from] || !known[to] || from == to {
			return
		}
		adjacency[from] = append(adjacency[from], to)
		inDegree[to]++
	}
	for name, c := range constraints {
		for _, b := range c.Before {
			addEdge(name, b)
		}
		for _, a := range c.After {
			addEdge(a, name)
		}
	}

	// Kahn's algorithm, always picking the earliest ready name.
	result := make([]string, 0, len(names))
	done := make(map[string]bool, len(names))
	for len(result) < len(names) {
		next := ""
		for _, n := range names {
			if !done[n] && inDegree[n] == 0 {
				next = n
				break
			}
		}
		if next == "" {
			var cycle []string
			for _, n := range names {
				if !done[n] {
					cycle = append(cycle, n)
				}
			}
			return nil, fmt.Errorf("cycle detected in processor ordering constraints involving: %v", cycle)
		}
		done[next] = true
		result = append(result, next)
		for _, to := range adjacency[next] {
			inDegree[to]--
		}
	}
	return result, nil
}

// Ordered returns processors reordered to satisfy constraints keyed by processor name.
func Ordered(processors []Processor, constraints map[string]Constraint) ([]Processor, error) {
	if len(constraints) == 0 {
		return processors, nil
	}
	names := make([]string, 0, len(processors))
	byName := make(map[string]Processor, len(processors))
	for _, p := range processors {
		if _, dup := byName[p.Name()]; dup {
			return nil, fmt.Errorf("duplicate processor name %q", p.Name())
		}
		names = append(names, p.Name())
		byName[p.Name()] = p
	}
	sorted, err := TopoSort(names, constraints)
	if err != nil {
		return nil, err
	}
	out := make([]Processor, 0, len(sorted))
	for _, n := range sorted {
		out = append(out, byName[n])
	}
	return slices.Clip(out), nil
}
