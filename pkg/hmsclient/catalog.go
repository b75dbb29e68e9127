package hmsclient

import "github.com/google/uuid"

// ActeGroup is one top-level catalog entry with its sub-acts.
type ActeGroup struct {
	Acte     Acte
	Children []Acte
}

// BuildCatalog groups sub-acts under their parents, preserving the input
// order of the top-level acts. An act whose parent is not in the list is
// shown top-level rather than dropped.
func BuildCatalog(actes []Acte) []ActeGroup {
	present := make(map[uuid.UUID]int)
	var groups []ActeGroup
	for _, acte := range actes {
		if acte.Parent == nil {
			present[acte.ID] = len(groups)
			groups = append(groups, ActeGroup{Acte: acte})
		}
	}
	for _, acte := range actes {
		if acte.Parent == nil {
			continue
		}
		if idx, ok := present[*acte.Parent]; ok {
			groups[idx].Children = append(groups[idx].Children, acte)
		} else {
			// orphan: parent filtered out or deleted
			groups = append(groups, ActeGroup{Acte: acte})
		}
	}
	return groups
}

// ExpandState tracks which catalog groups are expanded. Everything starts
// collapsed.
type ExpandState map[uuid.UUID]bool

func NewExpandState() ExpandState {
	return make(ExpandState)
}

func (es ExpandState) Toggle(id uuid.UUID) {
	es[id] = !es[id]
}

func (es ExpandState) Expanded(id uuid.UUID) bool {
	return es[id]
}
