package adjlist

// Relation is one declared directed relation "Source->Target".
type Relation struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Mirror returns the relation with its ends swapped.
func (r Relation) Mirror() Relation {
	return Relation{Source: r.Target, Target: r.Source}
}

func (r Relation) String() string {
	return r.Source + "->" + r.Target
}

// Relations flattens entries into their declared relations, in declaration
// order.
func Relations(entries []Entry) []Relation {
	var out []Relation
	for _, e := range entries {
		for _, n := range e.Neighbors {
			out = append(out, Relation{Source: e.Source, Target: n})
		}
	}
	return out
}

// Reciprocal keeps the relations whose mirror also appears in rels. Order and
// duplicates are preserved. A self-relation is its own mirror and is kept.
func Reciprocal(rels []Relation) []Relation {
	return partition(rels, true)
}

// OneWay returns the relations Reciprocal drops: those declared in one
// direction only.
func OneWay(rels []Relation) []Relation {
	return partition(rels, false)
}

func partition(rels []Relation, reciprocal bool) []Relation {
	declared := make(map[Relation]struct{}, len(rels))
	for _, r := range rels {
		declared[r] = struct{}{}
	}
	var out []Relation
	for _, r := range rels {
		if _, ok := declared[r.Mirror()]; ok == reciprocal {
			out = append(out, r)
		}
	}
	return out
}
