// Package config handles the optional fgreport.hcl run configuration.
//
// # Overview
//
// The file sets run-wide defaults and, per report, the input files to read:
//
//	encoding   = "utf-8"
//	language   = "en"
//	format     = "xlsx"
//	output_dir = "reports"
//
//	report "users" {
//	  input  = "users.txt"
//	  groups = "groups.txt"
//	}
//
// Command-line flags override file values, which override built-in defaults.
// The parsing rules of each report are code, not configuration.
//
// # Key Types
//
//   - [File]: top-level settings plus report blocks
//   - [Report]: one report block, labelled with the report name
package config
