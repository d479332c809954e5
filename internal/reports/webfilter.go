package reports

import (
	"context"
	"regexp"
	"strings"

	"grimm.is/fgreport/internal/blockparse"
	"grimm.is/fgreport/internal/table"
	"grimm.is/fgreport/internal/xref"
)

// Web filter report columns. Profile names follow.
const (
	ColFilterType = "TYPE"
	ColFilterName = "NAME"
)

// Listing record kinds.
const (
	KindGroup    = string(xref.RowGroup)
	KindCategory = string(xref.RowCategory)
)

// CategoryListingSchema reads the "get webfilter categories" listing:
//
//	g01 Potentially Liable:
//	  1 Drug Abuse
//	  3 Hacking
//
// The listing has no section header and no delimiters. Categories listed
// before the first group are ignored.
func CategoryListingSchema() *blockparse.Schema {
	return &blockparse.Schema{
		Name:      "webfilter-categories",
		Boundary:  blockparse.BoundaryImplicit,
		IgnoreEnd: true,
		Openers: []blockparse.Opener{
			{Kind: KindGroup, Pattern: regexp.MustCompile(`(?i)^g(?P<id>\d+)\s+(?P<name>.*)$`)},
			{Kind: KindCategory, Pattern: regexp.MustCompile(`^(?P<id>\d+)\s+(?P<name>.*)$`), After: KindGroup},
		},
	}
}

// ProfileSchema reads "config webfilter profile". Only quoted edits open a
// profile; the numbered filter entries nested inside are skipped, so their
// category and action lines land on the enclosing profile as pairs.
func ProfileSchema() *blockparse.Schema {
	return &blockparse.Schema{
		Name:           "webfilter-profile",
		Section:        "webfilter profile",
		HeaderOptional: true,
		Openers:        []blockparse.Opener{blockparse.QuotedEdit},
		Boundary:       blockparse.BoundaryImplicit,
		IgnoreEnd:      true,
		Fields: []blockparse.Field{
			{
				Key:     "category",
				Shape:   blockparse.PairKey,
				Match:   regexp.MustCompile(`^(\d+)`),
				Default: xref.ActionPermit,
			},
			{
				Key:       "action",
				Shape:     blockparse.PairValue,
				Match:     regexp.MustCompile(`(?i)^(block|permit|warning)\b`),
				Transform: strings.ToLower,
			},
		},
	}
}

var webFilterGenerator = &Generator{
	Name:          "webfilter",
	Aliases:       []string{"web-filter", "wf"},
	Title:         "Web Filter Report",
	DefaultOutput: "web_filter_report.xlsx",
	Companion:     "profiles",
	Description:   "Action of every web filter profile for every FortiGuard category",
	build:         buildWebFilter,
}

func buildWebFilter(ctx context.Context, r *run) (*table.Table, error) {
	listing, err := r.parse(ctx, r.in.Primary, CategoryListingSchema())
	if err != nil {
		return nil, err
	}
	profiles, err := r.parse(ctx, r.in.Companion, ProfileSchema())
	if err != nil {
		return nil, err
	}

	m := xref.BuildMatrix(listing.Records, profiles.Records, "name")
	return matrixTable(r.gen.Name, r.gen.Title, m), nil
}

func matrixTable(name, title string, m *xref.Matrix) *table.Table {
	headers := append([]string{ColFilterType, ColFilterName}, m.Profiles...)
	t := table.New(name, title, headers)
	t.DataColumns = len(m.Profiles)
	for _, row := range m.Rows {
		cells := append([]string{string(row.Type), row.Name}, row.Cells...)
		t.Append(cells...)
	}
	return t
}
