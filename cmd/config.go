package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"grimm.is/fgreport/internal/config"
	"grimm.is/fgreport/internal/reports"
)

// RunConfig handles "config init" and "config check".
func RunConfig(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: config <init|check|show> [path]")
	}

	switch args[0] {
	case "init":
		fs := flag.NewFlagSet("config init", flag.ContinueOnError)
		fs.SetOutput(Stderr)
		force := fs.Bool("force", false, "Overwrite an existing file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		path := config.DefaultFileName
		if fs.NArg() > 0 {
			path = fs.Arg(0)
		}
		return configInit(path, *force)

	case "check", "show":
		path, err := config.Discover(argOr(args[1:], ""), ".")
		if err != nil {
			return err
		}
		if path == "" {
			return fmt.Errorf("no %s found", config.DefaultFileName)
		}
		f, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := f.Validate(reports.Known); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if args[0] == "check" {
			Printer.Fprintf(Stdout, "Configuration valid: %s\n", path)
			return nil
		}
		data, err := config.Marshal(f)
		if err != nil {
			return err
		}
		_, err = Stdout.Write(data)
		return err

	default:
		return fmt.Errorf("unknown config command %q", args[0])
	}
}

func configInit(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	data, err := config.Marshal(config.Example())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	Printer.Fprintf(Stdout, "Configuration written: %s\n", path)
	return nil
}

func argOr(args []string, def string) string {
	if len(args) > 0 {
		return args[0]
	}
	return def
}
