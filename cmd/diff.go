package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"grimm.is/fgreport/internal/reports"
	"grimm.is/fgreport/internal/table"
)

// ErrReportsDiffer is returned by RunDiff when the two reports differ.
var ErrReportsDiffer = errors.New("reports differ")

// RunDiff renders the same report from two dumps and prints a unified diff
// of the rows.
func RunDiff(args []string) error {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	fs.SetOutput(Stderr)
	var common commonFlags
	common.register(fs)
	name := fs.String("report", "policy", "Report type")
	fs.StringVar(name, "r", "policy", "Report type (short)")
	second := fs.String("companion", "", "Companion dump (groups or profiles) used for both sides")
	fs.StringVar(second, "g", "", "Companion dump (short)")
	oldSecond := fs.String("old-companion", "", "Companion dump for the old side only")
	contextLines := fs.Int("context", 3, "Lines of context")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: diff -r <report> [-g companion] <old> <new>")
	}

	gen, err := reports.Lookup(*name)
	if err != nil {
		return err
	}
	s, err := common.resolve()
	if err != nil {
		return err
	}
	opts := s.options(s.block(gen))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	oldFile, newFile := fs.Arg(0), fs.Arg(1)
	oldCompanion := *second
	if *oldSecond != "" {
		oldCompanion = *oldSecond
	}

	a, err := gen.Generate(ctx, reports.Inputs{Primary: oldFile, Companion: oldCompanion}, opts)
	if err != nil {
		return fmt.Errorf("old: %w", err)
	}
	b, err := gen.Generate(ctx, reports.Inputs{Primary: newFile, Companion: *second}, opts)
	if err != nil {
		return fmt.Errorf("new: %w", err)
	}

	text, err := DiffTables(a, b, oldFile, newFile, *contextLines)
	if err != nil {
		return err
	}
	if text == "" {
		Printer.Fprintln(Stdout, "Reports are identical")
		return nil
	}
	fmt.Fprint(Stdout, text)
	return ErrReportsDiffer
}

// DiffTables returns the unified diff of the rendered rows of a and b, or
// "" when they render the same.
func DiffTables(a, b *table.Table, fromFile, toFile string, contextLines int) (string, error) {
	left := strings.Join(a.Lines(false), "\n") + "\n"
	right := strings.Join(b.Lines(false), "\n") + "\n"
	if left == right {
		return "", nil
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(left),
		B:        difflib.SplitLines(right),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  contextLines,
	}
	return difflib.GetUnifiedDiffString(diff)
}
