// Package xref resolves references between finished record sets: users to
// the groups that list them, and web filter categories to the action each
// profile applies.
//
// Everything here is a read-only view built after parsing completes. The
// records passed in are never modified.
package xref

import (
	"grimm.is/fgreport/internal/blockparse"
)

// Membership maps group names to their member identities in source order.
type Membership struct {
	order   []string
	members map[string][]string
}

// BuildMembership indexes group records by identity. memberKey names the
// list attribute holding the members. A group defined twice keeps its first
// position and takes the later member list.
func BuildMembership(groups []*blockparse.Record, memberKey string) *Membership {
	m := &Membership{members: make(map[string][]string)}
	for _, g := range groups {
		if _, ok := m.members[g.Identity]; !ok {
			m.order = append(m.order, g.Identity)
		}
		m.members[g.Identity] = g.List(memberKey)
	}
	return m
}

// Groups returns group names in source order.
func (m *Membership) Groups() []string {
	return append([]string(nil), m.order...)
}

// Members returns the members of group.
func (m *Membership) Members(group string) []string {
	return append([]string(nil), m.members[group]...)
}

// GroupOf returns the first group, in source order, that lists identity.
// It returns "" when no group does.
func (m *Membership) GroupOf(identity string) string {
	for _, g := range m.order {
		for _, member := range m.members[g] {
			if member == identity {
				return g
			}
		}
	}
	return ""
}

// AssignGroups returns copies of users with column set to the group each
// user belongs to.
func AssignGroups(users []*blockparse.Record, m *Membership, column string) []*blockparse.Record {
	out := make([]*blockparse.Record, 0, len(users))
	for _, u := range users {
		c := u.Clone()
		c.SetString(column, m.GroupOf(u.Identity))
		out = append(out, c)
	}
	return out
}
