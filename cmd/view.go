package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"grimm.is/fgreport/internal/config"
	"grimm.is/fgreport/internal/reports"
	"grimm.is/fgreport/internal/table"
	"grimm.is/fgreport/internal/tui"
)

// RunView opens the interactive viewer. With -r it shows one report built
// from -i/-g; otherwise every report of the configuration file gets a tab.
func RunView(args []string) error {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	fs.SetOutput(Stderr)
	var common commonFlags
	common.register(fs)
	name := fs.String("report", "", "Report type")
	fs.StringVar(name, "r", "", "Report type (short)")
	input := fs.String("input", "", "Input dump")
	fs.StringVar(input, "i", "", "Input dump (short)")
	second := fs.String("companion", "", "Companion dump (groups or profiles)")
	fs.StringVar(second, "g", "", "Companion dump (short)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := common.resolve()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tables, err := viewTables(ctx, s, *name, *input, *second)
	if err != nil {
		return err
	}
	return tui.Run(tables...)
}

func viewTables(ctx context.Context, s *settings, name, input, second string) ([]*table.Table, error) {
	var blocks []config.Report
	if name != "" {
		gen, err := reports.Lookup(name)
		if err != nil {
			return nil, err
		}
		block := s.block(gen)
		block.Name = gen.Name
		if input != "" {
			block.Input = input
		}
		if second != "" {
			block.Groups, block.Profiles = second, second
		}
		blocks = append(blocks, block)
	} else {
		blocks = s.file.Reports
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("nothing to view: give -r and -i or configure report blocks")
	}

	tables := make([]*table.Table, 0, len(blocks))
	for _, block := range blocks {
		gen, err := reports.Lookup(block.Name)
		if err != nil {
			return nil, err
		}
		in := reports.Inputs{Primary: block.Input, Companion: companion(gen, block)}
		t, err := gen.Generate(ctx, in, s.options(block))
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}
