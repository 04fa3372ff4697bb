package rdf

import "strings"

// Statement is an RDF triple. Any slot may hold the absent node, in which case
// the statement is partial and acts as a pattern.
type Statement struct {
	// S is the subject.
	S Node
	// P is the predicate.
	P Node
	// O is the object.
	O Node
}

// NewStatement returns the statement (s, p, o). Absent nodes are wildcards.
func NewStatement(s, p, o Node) Statement {
	return Statement{S: s, P: p, O: o}
}

// NewStatementFrom builds a statement from arbitrary values using ToNode.
// Strings in subject and predicate position are taken as URIs, since
// literals cannot appear there.
func NewStatementFrom(s, p, o any) (Statement, error) {
	subject, err := toResourceNode(s)
	if err != nil {
		return Statement{}, err
	}
	predicate, err := toResourceNode(p)
	if err != nil {
		return Statement{}, err
	}
	object, err := ToNode(o)
	if err != nil {
		return Statement{}, err
	}
	return Statement{S: subject, P: predicate, O: object}, nil
}

func toResourceNode(v any) (Node, error) {
	if s, ok := v.(string); ok {
		return NewResourceFromString(s)
	}
	return ToNode(v)
}

// IsComplete reports whether all three slots are present.
func (s Statement) IsComplete() bool {
	return !s.S.IsZero() && !s.P.IsZero() && !s.O.IsZero()
}

// IsZero reports whether all three slots are absent.
func (s Statement) IsZero() bool {
	return s.S.IsZero() && s.P.IsZero() && s.O.IsZero()
}

// Matches reports whether s matches pattern: every present slot of pattern
// must equal the corresponding slot of s.
func (s Statement) Matches(pattern Statement) bool {
	if !pattern.S.IsZero() && pattern.S != s.S {
		return false
	}
	if !pattern.P.IsZero() && pattern.P != s.P {
		return false
	}
	if !pattern.O.IsZero() && pattern.O != s.O {
		return false
	}
	return true
}

// String renders the statement in N-Triples form, using "*" for absent slots.
func (s Statement) String() string {
	var b strings.Builder
	for i, n := range [3]Node{s.S, s.P, s.O} {
		if i > 0 {
			b.WriteByte(' ')
		}
		if n.IsZero() {
			b.WriteByte('*')
		} else {
			b.WriteString(FormatTerm(n))
		}
	}
	b.WriteString(" .")
	return b.String()
}

// Quad is a statement together with its context.
type Quad struct {
	Statement
	// G is the context, or the absent node for the default context.
	G Node
}

// NewQuad returns the quad (st, ctx).
func NewQuad(st Statement, ctx Node) Quad {
	return Quad{Statement: st, G: ctx}
}

// InDefaultContext reports whether the quad has no context.
func (q Quad) InDefaultContext() bool { return q.G.IsZero() }

// String renders the quad in N-Quads form, using "*" for absent slots.
func (q Quad) String() string {
	line := q.Statement.String()
	if q.G.IsZero() {
		return line
	}
	return strings.TrimSuffix(line, ".") + FormatTerm(q.G) + " ."
}
