package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"grimm.is/fgreport/internal/brand"
	"grimm.is/fgreport/internal/config"
	"grimm.is/fgreport/internal/i18n"
	"grimm.is/fgreport/internal/logging"
	"grimm.is/fgreport/internal/metrics"
	"grimm.is/fgreport/internal/reports"
	"grimm.is/fgreport/internal/table"
)

// Printer is used for all user-facing CLI output.
var Printer = i18n.NewCLIPrinter()

// Stdout and Stderr are swapped out by tests.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// commonFlags are accepted by every report command.
type commonFlags struct {
	config      string
	format      string
	lang        string
	encoding    string
	metricsFile string
	outputDir   string
	debug       bool
	jsonLogs    bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "Configuration file (default ./"+config.DefaultFileName+" when present)")
	fs.StringVar(&c.config, "c", "", "Configuration file (short)")
	fs.StringVar(&c.format, "format", "", "Output format: xlsx, csv, sqlite, yaml, table")
	fs.StringVar(&c.format, "f", "", "Output format (short)")
	fs.StringVar(&c.lang, "lang", "", "Header language: en, es")
	fs.StringVar(&c.encoding, "encoding", "", "Input encoding (default utf-8)")
	fs.StringVar(&c.encoding, "e", "", "Input encoding (short)")
	fs.StringVar(&c.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	fs.StringVar(&c.outputDir, "output-dir", "", "Directory for default output names")
	fs.BoolVar(&c.debug, "debug", false, "Debug logging")
	fs.BoolVar(&c.jsonLogs, "json-logs", false, "Log as JSON")
}

// settings is the merged result of built-in defaults, the config file and
// flags, in increasing priority.
type settings struct {
	file      *config.File
	format    table.Format
	translate func(string) string
	logger    *logging.Logger
	metrics   *metrics.Registry
}

func (c *commonFlags) resolve() (*settings, error) {
	if c.config == "" {
		c.config = brand.Env("CONFIG")
	}
	f := config.Default()
	path, err := config.Discover(c.config, ".")
	if err != nil {
		return nil, err
	}
	if path != "" {
		if f, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&f.Format, c.format)
	override(&f.Language, c.lang)
	override(&f.Encoding, c.encoding)
	override(&f.MetricsFile, c.metricsFile)
	override(&f.OutputDir, c.outputDir)
	if c.debug {
		f.LogLevel = "debug"
	}
	if err := f.Validate(reports.Known); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &settings{file: f}
	s.format, _ = table.ParseFormat(f.Format)
	tag, _ := i18n.ParseLanguage(f.Language)
	s.translate = i18n.Translator(tag)

	level, _ := logging.ParseLevel(f.LogLevel)
	s.logger = logging.New(logging.Config{
		Level:  level,
		Output: Stderr,
		JSON:   c.jsonLogs,
	})
	logging.SetDefault(s.logger)

	if f.MetricsFile != "" {
		s.metrics = metrics.New()
	}
	if path != "" {
		s.logger.WithComponent("config").Debug("loaded configuration", "path", path)
	}
	return s, nil
}

// options returns report options for a block, falling back to the
// top-level encoding.
func (s *settings) options(block config.Report) reports.Options {
	enc := s.file.Encoding
	if block.Encoding != "" {
		enc = block.Encoding
	}
	return reports.Options{
		Encoding:  enc,
		Translate: s.translate,
		Logger:    s.logger,
		Metrics:   s.metrics,
	}
}

// block returns the config block for gen, matching aliases too.
func (s *settings) block(gen *reports.Generator) config.Report {
	for _, r := range s.file.Reports {
		if g, err := reports.Lookup(r.Name); err == nil && g == gen {
			return r
		}
	}
	return config.Report{Name: gen.Name}
}

// flushMetrics writes the metrics textfile when one is configured.
func (s *settings) flushMetrics() error {
	if s.metrics == nil {
		return nil
	}
	if err := s.metrics.WriteTextfile(s.file.MetricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// companion returns the companion input of block for gen.
func companion(gen *reports.Generator, block config.Report) string {
	switch gen.Companion {
	case "groups":
		return block.Groups
	case "profiles":
		return block.Profiles
	}
	return ""
}
