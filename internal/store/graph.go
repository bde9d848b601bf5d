package store

import (
	"context"

	"github.com/beads-core/beads/internal/errs"
)

// GraphEdge is one dependency edge surfaced by Graph.
type GraphEdge struct {
	From string
	To   string
	Type string
}

// Graph is the set of issues and dependency edges reachable from a root
// issue, following edges in either direction to any depth. Each edge
// keeps its own orientation (From depends on To).
type Graph struct {
	Root  string
	Nodes []string
	Edges []GraphEdge
}

// Graph walks the dependency edges reachable from rootID (in either
// direction, since "what does this block" and "what blocks this" are
// both useful views of the same graph) and returns every node and edge
// touched, bounded by the total edge count so a corrupt or adversarial
// dataset can't spin the walk forever.
func (s *Store) Graph(ctx context.Context, rootID string) (*Graph, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM dependencies`).Scan(&total); err != nil {
		return nil, errs.New(errs.KindIO, "build graph", err)
	}

	visited := map[string]bool{rootID: true}
	queue := []string{rootID}
	g := &Graph{Root: rootID, Nodes: []string{rootID}}
	seenEdge := map[GraphEdge]bool{}

	for steps := 0; len(queue) > 0; steps++ {
		if steps > total+1 {
			return nil, errs.Newf(errs.KindCorruption, "build graph", "exceeded bound of %d edges without converging", total)
		}
		current := queue[0]
		queue = queue[1:]

		rows, err := s.db.QueryContext(ctx,
			`SELECT issue_id, depends_on_id, type FROM dependencies WHERE issue_id = ? OR depends_on_id = ?`,
			current, current,
		)
		if err != nil {
			return nil, errs.New(errs.KindIO, "build graph", err)
		}
		var neighbors []string
		for rows.Next() {
			var from, to, typ string
			if err := rows.Scan(&from, &to, &typ); err != nil {
				rows.Close()
				return nil, errs.New(errs.KindIO, "build graph", err)
			}
			edge := GraphEdge{From: from, To: to, Type: typ}
			if !seenEdge[edge] {
				seenEdge[edge] = true
				g.Edges = append(g.Edges, edge)
			}
			if from == current {
				neighbors = append(neighbors, to)
			} else {
				neighbors = append(neighbors, from)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, errs.New(errs.KindIO, "build graph", err)
		}
		rows.Close()

		for _, n := range neighbors {
			if !visited[n] {
				visited[n] = true
				g.Nodes = append(g.Nodes, n)
				queue = append(queue, n)
			}
		}
	}

	return g, nil
}

// Orphans returns the IDs of every non-tombstone issue with no
// dependency edge in either direction.
func (s *Store) Orphans(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM issues
		WHERE status != 'tombstone'
		AND id NOT IN (SELECT issue_id FROM dependencies)
		AND id NOT IN (SELECT depends_on_id FROM dependencies)
		ORDER BY id
	`)
	if err != nil {
		return nil, errs.New(errs.KindIO, "find orphans", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errs.New(errs.KindIO, "find orphans", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
