package hmsclient

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func child(parent uuid.UUID, name string) Acte {
	a := acte(name, "10", CurrencyCDF)
	a.Parent = &parent
	return a
}

func TestBuildCatalogGroupsChildren(t *testing.T) {
	consultation := acte("Consultation", "50", CurrencyCDF)
	lab := acte("Laboratory", "0", CurrencyCDF)
	glucose := child(lab.ID, "Glucose")
	malaria := child(lab.ID, "Malaria smear")

	groups := BuildCatalog([]Acte{consultation, lab, glucose, malaria})

	require.Len(t, groups, 2)
	assert.Equal(t, "Consultation", groups[0].Acte.Name)
	assert.Empty(t, groups[0].Children)
	assert.Equal(t, "Laboratory", groups[1].Acte.Name)
	require.Len(t, groups[1].Children, 2)
	assert.Equal(t, "Glucose", groups[1].Children[0].Name)
}

func TestBuildCatalogOrphanRendersTopLevel(t *testing.T) {
	missingParent := uuid.New()
	orphan := child(missingParent, "Orphan act")
	top := acte("Consultation", "50", CurrencyCDF)

	groups := BuildCatalog([]Acte{top, orphan})

	require.Len(t, groups, 2)
	assert.Equal(t, "Orphan act", groups[1].Acte.Name)
	assert.Empty(t, groups[1].Children)
}

func TestExpandStateDefaultsCollapsed(t *testing.T) {
	es := NewExpandState()
	id := uuid.New()

	assert.False(t, es.Expanded(id))
	es.Toggle(id)
	assert.True(t, es.Expanded(id))
	es.Toggle(id)
	assert.False(t, es.Expanded(id))
}
