package reports

import (
	"context"

	"grimm.is/fgreport/internal/blockparse"
	"grimm.is/fgreport/internal/table"
)

// VIP report columns.
const (
	ColVIPID        = "ID"
	ColVIPName      = "Name"
	ColExternalIP   = "External IP"
	ColInternalIP   = "Internal IP"
	ColExternalPort = "External Port"
	ColInternalPort = "Internal Port"
	ColProtocol     = "Protocol"
)

// VIPSchema reads "config firewall vip". Ports are kept only when port
// forwarding is enabled; the portforward flag itself is not reported.
func VIPSchema() *blockparse.Schema {
	portGate := &blockparse.Gate{Flag: "portforward", Value: "enable"}
	return &blockparse.Schema{
		Name:           "firewall-vip",
		Section:        "firewall vip",
		Openers:        []blockparse.Opener{blockparse.QuotedEdit},
		Boundary:       blockparse.BoundaryNext,
		SkipSubBlocks:  true,
		SequenceColumn: ColVIPID,
		IdentityColumn: ColVIPName,
		Fields: []blockparse.Field{
			{Key: "extip", Column: ColExternalIP, Transform: blockparse.LastToken},
			{Key: "mappedip", Column: ColInternalIP, Transform: blockparse.Chain(blockparse.RemoveQuotes, blockparse.LastToken)},
			{Key: "portforward", Hidden: true},
			{Key: "extport", Column: ColExternalPort, Transform: blockparse.LastToken, Gate: portGate},
			{Key: "mappedport", Column: ColInternalPort, Transform: blockparse.LastToken, Gate: portGate},
			{Key: "protocol", Column: ColProtocol, Transform: blockparse.Chain(blockparse.LastToken, blockparse.Upper)},
		},
		Defaults: []blockparse.Default{{Column: ColProtocol, Value: "TCP"}},
	}
}

var vipGenerator = &Generator{
	Name:          "vip",
	Aliases:       []string{"dnat", "nat"},
	Title:         "DNAT",
	DefaultOutput: "dnat_report.xlsx",
	Description:   "Virtual IPs: external to internal address and port mappings",
	build:         buildVIP,
}

func buildVIP(ctx context.Context, r *run) (*table.Table, error) {
	res, err := r.parse(ctx, r.in.Primary, VIPSchema())
	if err != nil {
		return nil, err
	}
	return project(r.gen.Name, r.gen.Title, res.Columns.Keys(), res.Records), nil
}
