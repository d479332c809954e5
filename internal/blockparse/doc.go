// Package blockparse turns FortiOS-style CLI configuration dumps into records.
//
// # Overview
//
// The dialect is line oriented:
//
//	config firewall vip
//	    edit "web"
//	        set extip 203.0.113.10
//	        set mappedip "10.0.0.10"
//	    next
//	end
//
// A [Machine] classifies each trimmed line against an ordered rule table
// (enter section, open record, set attribute, next, end) and drives a small
// state machine with three states: [OutsideSection], [InsideSection] and
// [RecordOpen]. Only the first matching rule fires for a line; anything that
// matches no rule is ignored.
//
// # Schemas
//
// All report specific behaviour lives in a [Schema]: which section to enter,
// which lines open records, whether records close on "next" or on the next
// opener, and a field table mapping raw "set" keys to output columns with
// transforms, defaults, gates and value shapes. The machine itself knows
// nothing about policies, users or web filters.
//
// # Column order
//
// Every parse run threads a [ColumnOrder] through the machine. A column is
// appended the first time any record sets it and is never removed, so the
// resulting order is the first-seen order over the whole document.
//
// # Example
//
//	res, err := blockparse.ParseString(schema, dump)
//	if err != nil {
//	    return err
//	}
//	for _, rec := range res.Records {
//	    fmt.Println(rec.Identity, rec.String("action"))
//	}
package blockparse
