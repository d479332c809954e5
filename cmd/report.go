package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"grimm.is/fgreport/internal/config"
	"grimm.is/fgreport/internal/reports"
	"grimm.is/fgreport/internal/table"
)

// RunReport generates one report. name is the command the user typed
// ("policy", "dnat", ...).
func RunReport(name string, args []string) error {
	gen, err := reports.Lookup(name)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(Stderr)
	var common commonFlags
	common.register(fs)

	input := fs.String("input", "", "Input dump")
	fs.StringVar(input, "i", "", "Input dump (short)")
	output := fs.String("output", "", "Output file (- for stdout); default "+gen.DefaultOutput)
	fs.StringVar(output, "o", "", "Output file (short)")
	skipHeader := fs.Bool("skip-header", false, "Omit the header row")
	fs.BoolVar(skipHeader, "s", false, "Omit the header row (short)")
	var second *string
	if gen.Companion != "" {
		second = fs.String(gen.Companion, "", "Companion "+gen.Companion+" dump")
		fs.StringVar(second, "g", "", "Companion "+gen.Companion+" dump (short)")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" && fs.NArg() > 0 {
		*input = fs.Arg(0)
	}

	s, err := common.resolve()
	if err != nil {
		return err
	}

	block := s.block(gen)
	if *input != "" {
		block.Input = *input
	}
	if second != nil && *second != "" {
		switch gen.Companion {
		case "groups":
			block.Groups = *second
		case "profiles":
			block.Profiles = *second
		}
	}
	if *output != "" {
		block.Output = *output
	}
	if *skipHeader {
		block.SkipHeader = true
	}
	if common.format != "" {
		block.Format = ""
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = generate(ctx, s, gen, block)
	if ferr := s.flushMetrics(); err == nil {
		err = ferr
	}
	return err
}

// RunAll generates every report listed in the configuration file.
func RunAll(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(Stderr)
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := common.resolve()
	if err != nil {
		return err
	}
	if len(s.file.Reports) == 0 {
		return fmt.Errorf("no report blocks configured (see %q)", "config init")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var errs []error
	for _, block := range s.file.Reports {
		gen, err := reports.Lookup(block.Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if common.format != "" {
			block.Format = ""
		}
		if _, err := generate(ctx, s, gen, block); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			errs = append(errs, err)
		}
	}
	errs = append(errs, s.flushMetrics())
	return errors.Join(errs...)
}

// generate runs gen for one resolved block and reports where it went.
func generate(ctx context.Context, s *settings, gen *reports.Generator, block config.Report) (*reports.Result, error) {
	format := s.format
	if block.Format != "" {
		format, _ = table.ParseFormat(block.Format)
	}

	out := reports.Output{Format: format, SkipHeader: block.SkipHeader}
	switch {
	case block.Output == "-":
		out.Writer = Stdout
	case block.Output != "":
		out.Path = block.Output
	case format == table.FormatTable:
		out.Writer = Stdout
	default:
		out.Path = format.WithExt(filepath.Join(s.file.OutputDir, gen.DefaultOutput))
	}

	in := reports.Inputs{Primary: block.Input, Companion: companion(gen, block)}
	res, err := gen.Run(ctx, in, out, s.options(block))
	if err != nil {
		return nil, err
	}
	if res.Path != "" {
		Printer.Fprintf(Stdout, "Report written: %s\n", res.Path)
	}
	return res, nil
}
