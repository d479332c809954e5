package blockparse

import "regexp"

// State is the position of the machine in the section/record structure.
type State int

const (
	// OutsideSection: no section open.
	OutsideSection State = iota
	// InsideSection: section open, no record open.
	InsideSection
	// RecordOpen: section open with a record accumulating attributes.
	RecordOpen
)

func (s State) String() string {
	switch s {
	case OutsideSection:
		return "outside-section"
	case InsideSection:
		return "inside-section"
	case RecordOpen:
		return "record-open"
	default:
		return "unknown"
	}
}

type stateSet uint8

func states(ss ...State) stateSet {
	var set stateSet
	for _, s := range ss {
		set |= 1 << uint(s)
	}
	return set
}

func (set stateSet) has(s State) bool {
	return set&(1<<uint(s)) != 0
}

// RuleName identifies a transition rule.
type RuleName string

const (
	RuleEnter RuleName = "enter"
	RuleOpen  RuleName = "open"
	RuleSet   RuleName = "set"
	RuleNext  RuleName = "next"
	RuleEnd   RuleName = "end"
	RuleSub   RuleName = "sub-block"
)

var (
	setLine  = regexp.MustCompile(`(?i)^set\s+(\S+)\s+(.*)$`)
	nextLine = regexp.MustCompile(`(?i)^next$`)
	endLine  = regexp.MustCompile(`(?i)^end$`)
	subLine  = regexp.MustCompile(`(?i)^config\s+\S+`)
)

// match is what a rule captured from a line.
type match struct {
	opener *Opener
	sub    []string
}

// rule is one row of the transition table: the states it applies in, how it
// recognises a line and what it does.
type rule struct {
	name   RuleName
	when   stateSet
	match  func(m *Machine, line string) (match, bool)
	action func(m *Machine, mt match)
}

// buildRules returns the ordered rule table for a compiled schema. Rules a
// schema disables are left out rather than guarded at run time.
func buildRules(c *compiled) []rule {
	var rules []rule

	if c.enter != nil {
		enter := c.enter
		rules = append(rules, rule{
			name: RuleEnter,
			when: states(OutsideSection),
			match: func(_ *Machine, line string) (match, bool) {
				return match{}, enter.MatchString(line)
			},
			action: func(m *Machine, _ match) {
				m.transition(InsideSection)
			},
		})
	}

	if c.SkipSubBlocks {
		// Inside a sub-block this rule consumes every line, so it must come
		// before the record rules.
		rules = append(rules, rule{
			name: RuleSub,
			when: states(RecordOpen),
			match: func(m *Machine, line string) (match, bool) {
				return match{sub: []string{line}}, m.depth > 0 || subLine.MatchString(line)
			},
			action: func(m *Machine, mt match) {
				m.subBlock(mt.sub[0])
			},
		})
	}

	rules = append(rules, rule{
		name:   RuleOpen,
		when:   states(InsideSection, RecordOpen),
		match:  (*Machine).matchOpener,
		action: (*Machine).open,
	})

	rules = append(rules, rule{
		name: RuleSet,
		when: states(RecordOpen),
		match: func(_ *Machine, line string) (match, bool) {
			sub := setLine.FindStringSubmatch(line)
			return match{sub: sub}, sub != nil
		},
		action: func(m *Machine, mt match) {
			m.set(mt.sub[1], mt.sub[2])
		},
	})

	if c.Boundary == BoundaryNext {
		rules = append(rules, rule{
			name: RuleNext,
			when: states(RecordOpen),
			match: func(_ *Machine, line string) (match, bool) {
				return match{}, nextLine.MatchString(line)
			},
			action: func(m *Machine, _ match) {
				m.finalize()
				m.transition(InsideSection)
			},
		})
	}

	if !c.IgnoreEnd {
		rules = append(rules, rule{
			name: RuleEnd,
			when: states(InsideSection, RecordOpen),
			match: func(_ *Machine, line string) (match, bool) {
				return match{}, endLine.MatchString(line)
			},
			action: func(m *Machine, _ match) {
				m.finalize()
				m.transition(OutsideSection)
			},
		})
	}

	return rules
}
