package main

import (
	"errors"
	"fmt"
	"os"

	"grimm.is/fgreport/cmd"
	"grimm.is/fgreport/internal/brand"
	"grimm.is/fgreport/internal/i18n"
	"grimm.is/fgreport/internal/reports"
)

var printer = i18n.NewCLIPrinter()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch command := os.Args[1]; command {
	case "run":
		err = cmd.RunAll(os.Args[2:])

	case "diff":
		err = cmd.RunDiff(os.Args[2:])
		if errors.Is(err, cmd.ErrReportsDiffer) {
			os.Exit(1)
		}

	case "view":
		err = cmd.RunView(os.Args[2:])

	case "config":
		err = cmd.RunConfig(os.Args[2:])

	case "version", "--version", "-v":
		fmt.Println(brand.VersionString())

	case "help", "--help", "-h":
		printUsage()

	default:
		if !reports.Known(command) {
			printer.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
			printUsage()
			os.Exit(1)
		}
		err = cmd.RunReport(command, os.Args[2:])
	}

	if err != nil {
		printer.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	printer.Printf(`%s - %s

Usage:
  %s <command> [options]

Report Commands:
  policy     Firewall policy table (config firewall policy)
             Options: -i <dump>, -o <file>, --skip-header (-s)
  vip        Virtual IP / DNAT table (aliases: dnat, nat)
             Options: -i <dump>, -o <file>
  users      Local VPN users with MFA and group
             Options: -i <users dump>, -g <groups dump>, -o <file>
  webfilter  FortiGuard category x web filter profile matrix
             Options: -i <category listing>, -g <profiles dump>, -o <file>

Common Options:
  --format (-f)    xlsx, csv, sqlite, yaml, table (default xlsx)
  --lang           Header language: en, es
  --encoding (-e)  Input encoding (default utf-8)
  --config (-c)    Configuration file (default $FGREPORT_CONFIG, then ./%s)
  --metrics-file   Write Prometheus metrics to a textfile
  --debug          Debug logging

Other Commands:
  run        Generate every report configured in the configuration file
  diff       Compare the same report built from two dumps
             Options: -r <report>, -g <companion>, <old> <new>
  view       Browse reports interactively
             Options: -r <report>, -i <dump>, -g <companion>
  config     Manage the configuration file
             Subcommands: init, check, show
  version    Show version information

Examples:
  %s policy -i fgfw.cfg
  %s dnat -i vip.txt --lang es -o dnat_report.xlsx
  %s users -i users.txt -g groups.txt --format csv
  %s webfilter -i categories.txt -g profiles.txt --format table
  %s diff -r policy old.cfg new.cfg
`, brand.Name, brand.Description, brand.BinaryName, brand.ConfigFileName,
		brand.BinaryName, brand.BinaryName, brand.BinaryName, brand.BinaryName, brand.BinaryName)
}
