package molecule

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is an ordered sequence of atom handles: a simple path for chains, a
// simple cycle (closing edge implied) for rings.
type Path []AtomID

// Len returns the number of atoms on the path.
func (p Path) Len() int { return len(p) }

func (p Path) key() string {
	var sb strings.Builder
	for i, id := range p {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(id)))
	}
	return sb.String()
}

func (p Path) reversed() Path {
	out := make(Path, len(p))
	for i, id := range p {
		out[len(p)-1-i] = id
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Tie-break policies
// ─────────────────────────────────────────────────────────────────────────────

// TieBreak narrows the set of equally long chains.  It must return a subset
// of its input and must not reorder it.
type TieBreak func(m *Molecule, chains []Path) []Path

// TieBreakAll keeps every maximal chain.
func TieBreakAll(_ *Molecule, chains []Path) []Path { return chains }

// TieBreakCarbonEndpoints keeps the chains whose two ends are carbon, when at
// least one such chain exists; otherwise it keeps them all.
func TieBreakCarbonEndpoints(m *Molecule, chains []Path) []Path {
	var kept []Path
	for _, c := range chains {
		if len(c) == 0 {
			continue
		}
		if m.atoms[c[0]].Symbol == "C" && m.atoms[c[len(c)-1]].Symbol == "C" {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return chains
	}
	return kept
}

// Tie-break policy names accepted by TieBreakByName.
const (
	TieBreakNameAll             = "all"
	TieBreakNameCarbonEndpoints = "carbon-endpoints"
)

// TieBreakByName resolves a policy name.  The empty name selects TieBreakAll.
func TieBreakByName(name string) (TieBreak, error) {
	switch name {
	case "", TieBreakNameAll:
		return TieBreakAll, nil
	case TieBreakNameCarbonEndpoints:
		return TieBreakCarbonEndpoints, nil
	default:
		return nil, fmt.Errorf("unknown tie-break policy %q", name)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Longest chains
// ─────────────────────────────────────────────────────────────────────────────

// LongestChains returns every maximum-length simple path of the heavy-atom
// skeleton that starts at an ending atom (skeleton degree one).  Isolated
// heavy atoms count as chains of length one.  A path found in both
// directions is reported once, in the direction discovered first.  tb may be
// nil, which behaves as TieBreakAll.
//
// The search is exhaustive and exponential on highly branched skeletons.  It
// runs on an explicit stack whose depth never exceeds the atom count.
func LongestChains(m *Molecule, tb TieBreak) []Path {
	if tb == nil {
		tb = TieBreakAll
	}
	s := m.skeleton()

	best := 0
	var found []Path
	seen := make(map[string]bool)
	record := func(p Path) {
		switch {
		case len(p) < best:
			return
		case len(p) > best:
			best = len(p)
			found = found[:0]
			seen = make(map[string]bool)
		}
		if seen[p.reversed().key()] {
			return
		}
		cp := append(Path(nil), p...)
		seen[cp.key()] = true
		found = append(found, cp)
	}

	for i := range s.adj {
		id := AtomID(i)
		if !s.members[i] {
			continue
		}
		switch s.degree(id) {
		case 0:
			record(Path{id})
		case 1:
			walkSimplePaths(s, id, record)
		}
	}
	if len(found) == 0 {
		return nil
	}
	return tb(m, found)
}

type walkFrame struct {
	atom     AtomID
	next     int
	extended bool
}

// walkSimplePaths enumerates every simple path from start and calls visit
// with each path that cannot be extended further.
func walkSimplePaths(s *skeleton, start AtomID, visit func(Path)) {
	onPath := make([]bool, len(s.adj))
	path := Path{start}
	onPath[start] = true
	stack := []walkFrame{{atom: start}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		nbrs := s.adj[top.atom]
		pushed := false
		for top.next < len(nbrs) {
			nb := nbrs[top.next]
			top.next++
			if onPath[nb] {
				continue
			}
			top.extended = true
			onPath[nb] = true
			path = append(path, nb)
			stack = append(stack, walkFrame{atom: nb})
			pushed = true
			break
		}
		if pushed {
			continue
		}
		if !top.extended {
			visit(path)
		}
		onPath[top.atom] = false
		path = path[:len(path)-1]
		stack = stack[:len(stack)-1]
	}
}
