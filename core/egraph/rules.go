package egraph

// rule inspects one e-node n already canonicalized inside e-class id and,
// if it matches the rule's pattern, returns the e-class it is equal to and
// true. Saturate unions id with that e-class.
type rule func(g *EGraph, id EClassId, n ENode) (EClassId, bool)

// rules is the curated set from the term-language spec: bind
// commutativity, bind self-inverse, bundle commutativity, similarity
// commutativity, logical commutativity, double-negation elimination. Kept
// as plain functions in a slice rather than a pattern-matching DSL — the
// term language has eight operators and no user-extensible rule surface.
var rules = []rule{
	commuteRule(OpBind),
	bindSelfInverseRule,
	commuteRule(OpBundle),
	commuteRule(OpSimilar),
	commuteRule(OpAnd),
	commuteRule(OpOr),
	doubleNegationRule,
}

// commuteRule builds a rule asserting op(a, b) == op(b, a) for any binary
// node labeled op.
func commuteRule(op Op) rule {
	return func(g *EGraph, id EClassId, n ENode) (EClassId, bool) {
		if n.Op != op || len(n.Args) != 2 {
			return 0, false
		}
		swapped := ENode{Op: op, Args: []EClassId{n.Args[1], n.Args[0]}}
		return g.addCanonical(swapped), true
	}
}

// bindSelfInverseRule asserts bind(bind(a, b), b) == a: binding is its own
// inverse under XOR.
func bindSelfInverseRule(g *EGraph, id EClassId, n ENode) (EClassId, bool) {
	if n.Op != OpBind || len(n.Args) != 2 {
		return 0, false
	}
	inner := g.Find(n.Args[0])
	outerB := g.Find(n.Args[1])

	for _, innerNode := range g.classes[inner].nodes {
		if innerNode.Op == OpBind && len(innerNode.Args) == 2 && g.Find(innerNode.Args[1]) == outerB {
			return g.Find(innerNode.Args[0]), true
		}
	}
	return 0, false
}

// doubleNegationRule asserts not(not(a)) == a.
func doubleNegationRule(g *EGraph, id EClassId, n ENode) (EClassId, bool) {
	if n.Op != OpNot || len(n.Args) != 1 {
		return 0, false
	}
	inner := g.Find(n.Args[0])
	for _, innerNode := range g.classes[inner].nodes {
		if innerNode.Op == OpNot && len(innerNode.Args) == 1 {
			return g.Find(innerNode.Args[0]), true
		}
	}
	return 0, false
}

// addCanonical inserts a pre-built ENode (already expressed in terms of
// existing e-classes) the same way Add would, without needing a Term tree.
func (g *EGraph) addCanonical(n ENode) EClassId {
	n = g.canonicalNode(n)
	key := n.key()
	if id, ok := g.hashcon[key]; ok {
		return g.Find(id)
	}
	id := g.newClass(n)
	g.hashcon[key] = id
	return id
}
