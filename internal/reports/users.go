package reports

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"grimm.is/fgreport/internal/blockparse"
	"grimm.is/fgreport/internal/table"
	"grimm.is/fgreport/internal/xref"
)

// Users report columns.
const (
	ColUserID     = "ID"
	ColUserName   = "NAME"
	ColUserType   = "TYPE"
	ColMFA        = "MFA"
	ColMFAType    = "MFA TYPE"
	ColUserGroup  = "GROUP"
	ColUserStatus = "STATUS"
)

// UserColumns is the fixed header of the users report.
var UserColumns = []string{ColUserID, ColUserName, ColUserType, ColMFA, ColMFAType, ColUserGroup, ColUserStatus}

// Hidden user attributes feeding the MFA derivation.
const (
	attrTwoFactor = "two-factor"
	attrEmailTo   = "email-to"
	attrSMSPhone  = "sms-phone"
)

// UserLocalSchema reads "config user local". The header may be missing.
func UserLocalSchema() *blockparse.Schema {
	return &blockparse.Schema{
		Name:           "user-local",
		Section:        "user local",
		HeaderOptional: true,
		Openers:        []blockparse.Opener{blockparse.QuotedEdit},
		Boundary:       blockparse.BoundaryNext,
		IdentityColumn: ColUserName,
		Fields: []blockparse.Field{
			{Key: "type", Column: ColUserType, Transform: userType},
			{Key: attrTwoFactor, Hidden: true, Transform: strings.ToLower},
			{Key: attrEmailTo, Hidden: true},
			{Key: attrSMSPhone, Hidden: true},
			{Key: "status", Column: ColUserStatus, Transform: strings.ToLower},
		},
		Derive: deriveMFA,
		Defaults: []blockparse.Default{
			{Column: ColUserType, Value: "LOCAL"},
			{Column: ColUserStatus, Value: "enable"},
		},
	}
}

// UserGroupSchema reads "config user group". Groups are closed by the next
// quoted edit so nested "config match" blocks cannot end them early.
func UserGroupSchema() *blockparse.Schema {
	return &blockparse.Schema{
		Name:           "user-group",
		Section:        "user group",
		HeaderOptional: true,
		Openers:        []blockparse.Opener{blockparse.QuotedEdit},
		Boundary:       blockparse.BoundaryImplicit,
		IgnoreEnd:      true,
		Fields:         []blockparse.Field{{Key: "member", Shape: blockparse.List}},
	}
}

func userType(s string) string {
	if strings.EqualFold(s, "ldap") {
		return "LDAP"
	}
	return "LOCAL"
}

// deriveMFA sets the MFA columns from the two-factor method and its target.
func deriveMFA(r *blockparse.Record) {
	method := r.String(attrTwoFactor)
	if method == "" || method == "disable" {
		r.SetString(ColMFA, "no")
		r.SetString(ColMFAType, "")
		return
	}

	r.SetString(ColMFA, "yes")
	var kind string
	switch {
	case strings.Contains(method, "email"):
		kind = "EMAIL"
		if to := r.String(attrEmailTo); to != "" {
			kind += ": " + to
		}
	case strings.Contains(method, "sms"):
		kind = "SMS"
		if phone := r.String(attrSMSPhone); phone != "" {
			kind += ": " + phone
		}
	case strings.Contains(method, "fortitoken"):
		kind = "FORTITOKEN"
	default:
		kind = strings.ToUpper(method)
	}
	r.SetString(ColMFAType, kind)
}

var usersGenerator = &Generator{
	Name:          "users",
	Aliases:       []string{"vpn-users", "user"},
	Title:         "VPN Users",
	DefaultOutput: "vpn_users_report.xlsx",
	Companion:     "groups",
	Description:   "Local users with MFA settings and the first group listing them",
	build:         buildUsers,
}

func buildUsers(ctx context.Context, r *run) (*table.Table, error) {
	users, err := r.parse(ctx, r.in.Primary, UserLocalSchema())
	if err != nil {
		return nil, err
	}
	groups, err := r.parse(ctx, r.in.Companion, UserGroupSchema())
	if err != nil {
		return nil, err
	}

	membership := xref.BuildMembership(groups.Records, "member")
	resolved := xref.AssignGroups(users.Records, membership, ColUserGroup)

	sort.SliceStable(resolved, func(i, j int) bool {
		return strings.ToLower(resolved[i].Identity) < strings.ToLower(resolved[j].Identity)
	})
	for i, u := range resolved {
		u.SetString(ColUserID, strconv.Itoa(i+1))
	}

	return project(r.gen.Name, r.gen.Title, UserColumns, resolved), nil
}
