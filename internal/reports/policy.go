package reports

import (
	"context"

	"grimm.is/fgreport/internal/blockparse"
	"grimm.is/fgreport/internal/table"
)

// PolicySchema captures every "set" of every "config firewall policy" entry.
// Columns follow the first-seen order of keys over the whole section and
// all double quotes are dropped from values.
func PolicySchema() *blockparse.Schema {
	return &blockparse.Schema{
		Name:           "firewall-policy",
		Section:        "firewall policy",
		Openers:        []blockparse.Opener{blockparse.NumericEdit},
		Boundary:       blockparse.BoundaryNext,
		SkipSubBlocks:  true,
		IdentityColumn: "id",
		PassThrough:    true,
		Normalize:      blockparse.RemoveQuotes,
	}
}

var policyGenerator = &Generator{
	Name:          "policy",
	Aliases:       []string{"policies", "firewall-policy"},
	Title:         "Firewall Policy",
	DefaultOutput: "firewall_policy_report.xlsx",
	Description:   "Firewall policies, one column per policy attribute",
	build:         buildPolicy,
}

func buildPolicy(ctx context.Context, r *run) (*table.Table, error) {
	res, err := r.parse(ctx, r.in.Primary, PolicySchema())
	if err != nil {
		return nil, err
	}
	return project(r.gen.Name, r.gen.Title, res.Columns.Keys(), res.Records), nil
}
