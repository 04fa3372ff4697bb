package rdf

// slot selects one position of a statement.
type slot func(Statement) Node

func subjectOf(st Statement) Node   { return st.S }
func predicateOf(st Statement) Node { return st.P }
func objectOf(st Statement) Node    { return st.O }

// project runs pattern against the store and returns the distinct values of
// one slot of the matches, in result order. limit stops after that many
// values; zero means no limit.
func (s *Store) project(pattern Statement, ctx Node, pick slot, limit int) ([]Node, error) {
	quads, err := s.find(pattern, ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[Node]struct{})
	var nodes []Node
	for _, q := range quads {
		n := pick(q.Statement)
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		nodes = append(nodes, n)
		if limit > 0 && len(nodes) == limit {
			break
		}
	}
	return nodes, nil
}

func first(nodes []Node, err error) (Node, bool, error) {
	if err != nil || len(nodes) == 0 {
		return Node{}, false, err
	}
	return nodes[0], true, nil
}

// Sources returns the distinct subjects of statements with predicate arc and
// object target. An absent ctx searches every context.
func (s *Store) Sources(arc, target, ctx Node) ([]Node, error) {
	return s.project(Statement{P: arc, O: target}, ctx, subjectOf, 0)
}

// Source returns the first subject Sources would return.
func (s *Store) Source(arc, target, ctx Node) (Node, bool, error) {
	return first(s.project(Statement{P: arc, O: target}, ctx, subjectOf, 1))
}

// Arcs returns the distinct predicates linking source to target.
func (s *Store) Arcs(source, target, ctx Node) ([]Node, error) {
	return s.project(Statement{S: source, O: target}, ctx, predicateOf, 0)
}

// Arc returns the first predicate Arcs would return.
func (s *Store) Arc(source, target, ctx Node) (Node, bool, error) {
	return first(s.project(Statement{S: source, O: target}, ctx, predicateOf, 1))
}

// Targets returns the distinct objects of statements with subject source and
// predicate arc.
func (s *Store) Targets(source, arc, ctx Node) ([]Node, error) {
	return s.project(Statement{S: source, P: arc}, ctx, objectOf, 0)
}

// Target returns the first object Targets would return.
func (s *Store) Target(source, arc, ctx Node) (Node, bool, error) {
	return first(s.project(Statement{S: source, P: arc}, ctx, objectOf, 1))
}

// ArcsIn returns the distinct predicates of statements whose object is target.
func (s *Store) ArcsIn(target, ctx Node) ([]Node, error) {
	return s.project(Statement{O: target}, ctx, predicateOf, 0)
}

// ArcsOut returns the distinct predicates of statements whose subject is source.
func (s *Store) ArcsOut(source, ctx Node) ([]Node, error) {
	return s.project(Statement{S: source}, ctx, predicateOf, 0)
}

// HasIncomingArc reports whether some statement in any context has
// predicate arc and object target.
func (s *Store) HasIncomingArc(target, arc Node) (bool, error) {
	_, ok, err := s.Source(arc, target, Node{})
	return ok, err
}

// HasOutgoingArc reports whether some statement in any context has subject
// source and predicate arc.
func (s *Store) HasOutgoingArc(source, arc Node) (bool, error) {
	_, ok, err := s.Target(source, arc, Node{})
	return ok, err
}
