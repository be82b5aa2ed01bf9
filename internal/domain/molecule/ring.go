package molecule

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// RingOptions bounds ring enumeration.
type RingOptions struct {
	// MaxLength is the largest ring size searched.  Zero or negative means
	// unbounded (the heavy-atom count).
	MaxLength int
	// Workers caps the number of concurrent start-atom searches.  Values
	// below one run sequentially.
	Workers int
}

// Rings returns every simple cycle of the heavy-atom skeleton with at most
// maxLength atoms, de-duplicated by atom set.  Each ring is reported once as
// a representative traversal that starts at its smallest handle.  Rings are
// ordered by size, then by their sorted atom sets.
func Rings(m *Molecule, maxLength int) []Path {
	rings, _ := RingsContext(context.Background(), m, RingOptions{MaxLength: maxLength})
	return rings
}

// RingsContext is Rings with cancellation and parallel search.  Each start
// atom is searched independently into its own buffer; the buffers are merged
// and de-duplicated by the calling goroutine after every search finishes.
func RingsContext(ctx context.Context, m *Molecule, opts RingOptions) ([]Path, error) {
	s := m.skeleton()
	core := s.cyclicCore()

	var starts []AtomID
	for i, in := range core {
		if in {
			starts = append(starts, AtomID(i))
		}
	}
	if len(starts) < 3 {
		return nil, nil
	}
	maxLen := opts.MaxLength
	if maxLen <= 0 || maxLen > len(starts) {
		maxLen = len(starts)
	}

	buffers := make([][]Path, len(starts))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	} else {
		g.SetLimit(1)
	}
	for i, start := range starts {
		i, start := i, start
		g.Go(func() error {
			found, err := cyclesFrom(gctx, s, core, start, maxLen)
			buffers[i] = found
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var rings []Path
	for _, buf := range buffers {
		for _, ring := range buf {
			k := atomSetKey(ring)
			if seen[k] {
				continue
			}
			seen[k] = true
			rings = append(rings, ring)
		}
	}
	sort.SliceStable(rings, func(i, j int) bool {
		if len(rings[i]) != len(rings[j]) {
			return len(rings[i]) < len(rings[j])
		}
		return atomSetKey(rings[i]) < atomSetKey(rings[j])
	})
	return rings, nil
}

// cancelCheckInterval is how many DFS steps run between context checks.
const cancelCheckInterval = 4096

// cyclesFrom enumerates the cycles through start whose other atoms all have
// larger handles.  Every cycle has exactly one smallest atom, so searching
// from each core atom this way still finds every cycle.  Both traversal
// directions are found; only the one whose second atom is smaller than its
// last atom is kept.
func cyclesFrom(ctx context.Context, s *skeleton, core []bool, start AtomID, maxLen int) ([]Path, error) {
	var out []Path
	onPath := make([]bool, len(s.adj))
	path := Path{start}
	onPath[start] = true
	stack := []walkFrame{{atom: start}}
	steps := 0

	for len(stack) > 0 {
		steps++
		if steps%cancelCheckInterval == 1 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		top := &stack[len(stack)-1]
		nbrs := s.adj[top.atom]
		pushed := false
		for top.next < len(nbrs) {
			nb := nbrs[top.next]
			top.next++
			if nb == start {
				if len(path) >= 3 && path[1] < path[len(path)-1] {
					out = append(out, append(Path(nil), path...))
				}
				continue
			}
			if nb < start || !core[nb] || onPath[nb] || len(path) >= maxLen {
				continue
			}
			onPath[nb] = true
			path = append(path, nb)
			stack = append(stack, walkFrame{atom: nb})
			pushed = true
			break
		}
		if pushed {
			continue
		}
		onPath[top.atom] = false
		path = path[:len(path)-1]
		stack = stack[:len(stack)-1]
	}
	return out, nil
}

func atomSetKey(p Path) string {
	sorted := append(Path(nil), p...)
	sortAtomIDs(sorted)
	return sorted.key()
}
