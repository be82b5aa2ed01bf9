package molecule

// skeleton is the subgraph induced by the non-hydrogen atoms.  Adjacency is
// indexed by AtomID; hydrogen slots are nil and flagged out of members.
type skeleton struct {
	adj     [][]AtomID
	members []bool
}

func (m *Molecule) skeleton() *skeleton {
	s := &skeleton{
		adj:     make([][]AtomID, len(m.atoms)),
		members: make([]bool, len(m.atoms)),
	}
	for i, a := range m.atoms {
		s.members[i] = !a.IsHydrogen()
	}
	for _, b := range m.bonds {
		if s.members[b.A] && s.members[b.B] {
			s.adj[b.A] = append(s.adj[b.A], b.B)
			s.adj[b.B] = append(s.adj[b.B], b.A)
		}
	}
	for i := range s.adj {
		sortAtomIDs(s.adj[i])
	}
	return s
}

func (s *skeleton) degree(id AtomID) int { return len(s.adj[id]) }

// cyclicCore repeatedly strips atoms of degree one or less and returns the
// membership mask of what survives.  Surviving atoms all lie on, or between,
// cycles.
func (s *skeleton) cyclicCore() []bool {
	n := len(s.adj)
	core := make([]bool, n)
	deg := make([]int, n)
	var queue []AtomID
	for i := 0; i < n; i++ {
		if !s.members[i] {
			continue
		}
		core[i] = true
		deg[i] = len(s.adj[i])
		if deg[i] <= 1 {
			queue = append(queue, AtomID(i))
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if !core[cur] {
			continue
		}
		core[cur] = false
		for _, nb := range s.adj[cur] {
			if !core[nb] {
				continue
			}
			deg[nb]--
			if deg[nb] == 1 {
				queue = append(queue, nb)
			}
		}
	}
	return core
}
