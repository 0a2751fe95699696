package vocab

// An Ontology maps clinical codes into a hierarchy of ancestor codes. It is
// populated before aggregation begins and is read-only for the lifetime of a
// pipeline run, which is what makes it safe to share across workers.
type Ontology interface {
	// AllParents returns every ancestor of the given code, including the code
	// itself
	AllParents(code uint32) []uint32
	// Parents returns the direct parents of the given code, excluding the
	// code itself
	Parents(code uint32) []uint32
}

// MapOntology is a map-backed Ontology, constructed from direct-parent edges.
// The transitive ancestor closure is computed once at creation time.
type MapOntology struct {
	parents    map[uint32][]uint32
	allParents map[uint32][]uint32
}

// CreateOntology builds a MapOntology from a map of code to direct parent
// codes. Codes absent from the map are treated as roots. The parent graph is
// expected to be acyclic.
func CreateOntology(parents map[uint32][]uint32) *MapOntology {
	o := &MapOntology{
		parents:    parents,
		allParents: make(map[uint32][]uint32, len(parents)),
	}
	for code := range parents {
		o.closure(code)
	}
	return o
}

// closure memoizes the ancestor set (including code itself) for one code
func (o *MapOntology) closure(code uint32) []uint32 {
	if all, ok := o.allParents[code]; ok {
		return all
	}
	seen := map[uint32]bool{code: true}
	all := []uint32{code}
	for _, parent := range o.parents[code] {
		for _, ancestor := range o.closure(parent) {
			if !seen[ancestor] {
				seen[ancestor] = true
				all = append(all, ancestor)
			}
		}
	}
	o.allParents[code] = all
	return all
}

// AllParents returns every ancestor of the given code, including the code itself
func (o *MapOntology) AllParents(code uint32) []uint32 {
	if all, ok := o.allParents[code]; ok {
		return all
	}
	return []uint32{code}
}

// Parents returns the direct parents of the given code
func (o *MapOntology) Parents(code uint32) []uint32 {
	return o.parents[code]
}
