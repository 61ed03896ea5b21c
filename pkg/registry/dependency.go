package registry

import (
	"fmt"
	"sort"
	"strings"

	"digital.vasic.conformance/pkg/contract"
)

// topologicalSort orders contracts using Kahn's algorithm. The
// deps callback supplies the ordering edges for a name, sorted.
// It returns an error if a cycle is detected.
func topologicalSort(
	contracts map[contract.Name]contract.Contract,
	deps func(contract.Name) []contract.Name,
) ([]contract.Contract, error) {
	inDegree := make(map[contract.Name]int, len(contracts))
	dependents := make(
		map[contract.Name][]contract.Name, len(contracts),
	)

	for name := range contracts {
		if _, exists := inDegree[name]; !exists {
			inDegree[name] = 0
		}
		for _, dep := range deps(name) {
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	// Seed the queue with zero-degree nodes, sorted for
	// deterministic output.
	var queue []contract.Name
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Slice(queue, func(i, j int) bool {
		return queue[i] < queue[j]
	})

	ordered := make(
		[]contract.Contract, 0, len(contracts),
	)

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		if c, exists := contracts[name]; exists {
			ordered = append(ordered, c)
		}

		// Collect and sort neighbours for determinism.
		neighbours := dependents[name]
		sort.Slice(neighbours, func(i, j int) bool {
			return neighbours[i] < neighbours[j]
		})

		for _, dep := range neighbours {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(ordered) != len(contracts) {
		cycle := detectCycle(contracts, deps)
		return nil, fmt.Errorf(
			"embed cycle detected: %s", cycle,
		)
	}

	return ordered, nil
}

// detectCycle returns a human-readable description of an embed
// cycle in the contract graph. It uses iterative DFS with three
// colouring states.
func detectCycle(
	contracts map[contract.Name]contract.Contract,
	deps func(contract.Name) []contract.Name,
) string {
	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // finished
	)

	colour := make(map[contract.Name]int, len(contracts))

	// Sort names for deterministic cycle detection.
	names := make([]contract.Name, 0, len(contracts))
	for name := range contracts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return names[i] < names[j]
	})

	for _, start := range names {
		if colour[start] != white {
			continue
		}

		type frame struct {
			name  contract.Name
			deps  []contract.Name
			index int
		}

		stack := []frame{
			{name: start, deps: deps(start)},
		}
		colour[start] = gray

		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			if top.index >= len(top.deps) {
				colour[top.name] = black
				stack = stack[:len(stack)-1]
				continue
			}

			dep := top.deps[top.index]
			top.index++

			if colour[dep] == gray {
				// Found a cycle. Walk the stack from dep
				// to the top and close the loop.
				var path []string
				recording := false
				for _, f := range stack {
					if f.name == dep {
						recording = true
					}
					if recording {
						path = append(path, string(f.name))
					}
				}
				path = append(path, string(dep))
				return strings.Join(path, " -> ")
			}

			if colour[dep] == white {
				colour[dep] = gray
				stack = append(stack, frame{
					name: dep,
					deps: deps(dep),
				})
			}
		}
	}

	return "unknown cycle"
}
