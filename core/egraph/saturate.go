package egraph

// maxSaturationRounds bounds equality saturation so a malformed or
// adversarial term set cannot loop forever; the rule set here is confluent
// in practice and converges in a handful of rounds.
const maxSaturationRounds = 16

// Saturate repeatedly applies every rule to every e-node until no rule
// fires in a full round, or maxSaturationRounds is reached. It returns the
// number of rounds actually run.
func (g *EGraph) Saturate() int {
	round := 0
	for ; round < maxSaturationRounds; round++ {
		changed := false

		for id := range g.classes {
			for _, n := range g.classes[g.Find(id)].nodes {
				for _, r := range rules {
					if target, ok := r(g, id, n); ok {
						if g.Union(id, target) {
							changed = true
						}
					}
				}
			}
		}

		g.Rebuild()
		if !changed {
			round++
			break
		}
	}
	return round
}
