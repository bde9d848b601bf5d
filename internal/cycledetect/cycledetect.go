// Package cycledetect implements the dependency-graph cycle check: would
// adding one more "blocks" edge close a cycle?
package cycledetect

import "fmt"

// Edges returns every node directly reachable from "from" by following
// one blocks-type edge, e.g. a store query scoped to type = 'blocks'.
type Edges func(from string) ([]string, error)

// WouldCreateCycle reports whether adding the edge issueID -> dependsOnID
// would create a cycle: it does an iterative BFS from dependsOnID,
// looking for a path back to issueID through existing edges. If such a
// path exists, the new edge would close a loop.
//
// maxEdges bounds the walk at the total number of blocks-type edges
// currently in the graph, so a corrupt or adversarial dataset can't spin
// the search forever: a simple path can revisit at most maxEdges nodes
// before the visited-set necessarily deduplicates it.
func WouldCreateCycle(dependsOnID, issueID string, maxEdges int, edges Edges) (bool, error) {
	if dependsOnID == issueID {
		return true, nil
	}

	visited := map[string]bool{}
	queue := []string{dependsOnID}
	steps := 0

	for len(queue) > 0 {
		if steps > maxEdges+1 {
			return false, fmt.Errorf("cycledetect: exceeded bound of %d edges without converging", maxEdges)
		}
		steps++

		current := queue[0]
		queue = queue[1:]

		if current == issueID {
			return true, nil
		}
		if visited[current] {
			continue
		}
		visited[current] = true

		next, err := edges(current)
		if err != nil {
			return false, err
		}
		for _, n := range next {
			if !visited[n] {
				queue = append(queue, n)
			}
		}
	}

	return false, nil
}
