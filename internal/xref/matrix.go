package xref

import (
	"grimm.is/fgreport/internal/blockparse"
)

// RowType tags a matrix row.
type RowType string

const (
	RowGroup    RowType = "Group"
	RowCategory RowType = "Category"
)

// Web filter actions.
const (
	ActionPermit  = "permit"
	ActionBlock   = "block"
	ActionWarning = "warning"
)

// The Unrated category is not part of the category listing but every
// profile applies an action to it.
const (
	UnratedID   = "0"
	UnratedName = "Unrated"
)

// Row is one category or group of the action matrix.
type Row struct {
	Type RowType
	ID   string
	Name string
	// Cells holds one action per profile, in Matrix.Profiles order.
	// Group rows have blank cells.
	Cells []string
}

// Matrix is the category x profile action table.
type Matrix struct {
	Profiles []string
	Rows     []Row
}

type rowKey struct {
	typ RowType
	id  string
}

// BuildMatrix resolves the action every profile applies to every listing
// row. listing holds Group and Category records from the category listing;
// nameKey is the attribute holding the display name. profiles are profile
// records whose pairs map category ids to actions.
func BuildMatrix(listing, profiles []*blockparse.Record, nameKey string) *Matrix {
	m := &Matrix{}

	// Profiles defined twice keep their first position and latest pairs.
	pairs := make(map[string][]blockparse.Pair)
	for _, p := range profiles {
		if _, ok := pairs[p.Identity]; !ok {
			m.Profiles = append(m.Profiles, p.Identity)
		}
		pairs[p.Identity] = p.Pairs
	}

	index := make(map[rowKey]int)
	for _, r := range listing {
		row := Row{Type: RowType(r.Kind), ID: r.Identity, Name: r.String(nameKey)}
		if row.Type != RowGroup {
			row.Type = RowCategory
		}
		k := rowKey{row.Type, row.ID}
		if i, ok := index[k]; ok {
			m.Rows[i] = row
			continue
		}
		index[k] = len(m.Rows)
		m.Rows = append(m.Rows, row)
	}
	if _, ok := index[rowKey{RowCategory, UnratedID}]; !ok {
		m.Rows = append(m.Rows, Row{Type: RowCategory, ID: UnratedID, Name: UnratedName})
	}

	for i := range m.Rows {
		row := &m.Rows[i]
		row.Cells = make([]string, len(m.Profiles))
		if row.Type == RowGroup {
			continue
		}
		for j, name := range m.Profiles {
			row.Cells[j] = resolve(pairs[name], row.ID)
		}
	}
	return m
}

// resolve returns the first explicit action for id, or the default.
func resolve(pairs []blockparse.Pair, id string) string {
	for _, p := range pairs {
		if p.Key == id {
			return p.Value
		}
	}
	return DefaultAction(id)
}

// DefaultAction is the action applied to a category no profile entry names.
func DefaultAction(id string) string {
	if id == UnratedID {
		return ActionWarning
	}
	return ActionPermit
}

// Cell returns the action of profile for the row (typ, id).
func (m *Matrix) Cell(typ RowType, id, profile string) (string, bool) {
	col := -1
	for j, p := range m.Profiles {
		if p == profile {
			col = j
			break
		}
	}
	if col < 0 {
		return "", false
	}
	for _, r := range m.Rows {
		if r.Type == typ && r.ID == id {
			return r.Cells[col], true
		}
	}
	return "", false
}
