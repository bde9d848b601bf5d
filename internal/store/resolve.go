package store

import (
	"context"
	"strings"

	"github.com/beads-core/beads/internal/idgen"
)

// ResolveID turns user-typed input (a full ID, or a bare hash-component
// prefix like "a1b2") into exactly one full issue ID, delegating the
// NotFound/Ambiguous decision to idgen.Resolve.
func (s *Store) ResolveID(ctx context.Context, input string) (string, error) {
	return idgen.Resolve(input,
		func(id string) bool {
			exists, err := s.Exists(ctx, id)
			return err == nil && exists
		},
		func(hashPrefix string) []string {
			rows, err := s.db.QueryContext(ctx,
				`SELECT id FROM issues WHERE substr(id, instr(id, '-') + 1) LIKE ? ESCAPE '\' ORDER BY id`,
				strings.ReplaceAll(hashPrefix, "%", `\%`)+"%",
			)
			if err != nil {
				return nil
			}
			defer rows.Close()

			var ids []string
			for rows.Next() {
				var id string
				if err := rows.Scan(&id); err != nil {
					return nil
				}
				ids = append(ids, id)
			}
			return ids
		},
	)
}
