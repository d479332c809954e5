package config

import (
	"fmt"
	"path/filepath"

	"grimm.is/fgreport/internal/i18n"
	"grimm.is/fgreport/internal/linescan"
	"grimm.is/fgreport/internal/logging"
	"grimm.is/fgreport/internal/table"
)

// DefaultFileName is looked up in the working directory when no --config
// flag is given.
const DefaultFileName = "fgreport.hcl"

// File is the decoded run configuration.
type File struct {
	Encoding    string   `hcl:"encoding,optional"`
	Language    string   `hcl:"language,optional"`
	Format      string   `hcl:"format,optional"`
	OutputDir   string   `hcl:"output_dir,optional"`
	LogLevel    string   `hcl:"log_level,optional"`
	MetricsFile string   `hcl:"metrics_file,optional"`
	Reports     []Report `hcl:"report,block"`
}

// Report configures one report.
type Report struct {
	Name       string `hcl:"name,label"`
	Input      string `hcl:"input,optional"`
	Groups     string `hcl:"groups,optional"`
	Profiles   string `hcl:"profiles,optional"`
	Output     string `hcl:"output,optional"`
	Format     string `hcl:"format,optional"`
	Encoding   string `hcl:"encoding,optional"`
	SkipHeader bool   `hcl:"skip_header,optional"`
}

// Default returns the built-in settings.
func Default() *File {
	return &File{
		Encoding:  linescan.DefaultEncoding,
		Language:  "en",
		Format:    string(table.FormatXLSX),
		OutputDir: ".",
		LogLevel:  "info",
	}
}

// ApplyDefaults fills unset top-level values from Default.
func (f *File) ApplyDefaults() {
	d := Default()
	if f.Encoding == "" {
		f.Encoding = d.Encoding
	}
	if f.Language == "" {
		f.Language = d.Language
	}
	if f.Format == "" {
		f.Format = d.Format
	}
	if f.OutputDir == "" {
		f.OutputDir = d.OutputDir
	}
	if f.LogLevel == "" {
		f.LogLevel = d.LogLevel
	}
}

// Report returns the block labelled name.
func (f *File) Report(name string) (Report, bool) {
	for _, r := range f.Reports {
		if r.Name == name {
			return r, true
		}
	}
	return Report{}, false
}

// Validate checks every value that names something: encodings, formats,
// languages, log levels and report labels. known reports whether a report
// name exists.
func (f *File) Validate(known func(string) bool) error {
	if _, _, err := linescan.Lookup(f.Encoding); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if _, err := i18n.ParseLanguage(f.Language); err != nil {
		return fmt.Errorf("language %q: %w", f.Language, err)
	}
	if _, err := table.ParseFormat(f.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if _, err := logging.ParseLevel(f.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	seen := make(map[string]bool)
	for _, r := range f.Reports {
		if known != nil && !known(r.Name) {
			return fmt.Errorf("report %q: unknown report", r.Name)
		}
		if seen[r.Name] {
			return fmt.Errorf("report %q: defined twice", r.Name)
		}
		seen[r.Name] = true
		if r.Format != "" {
			if _, err := table.ParseFormat(r.Format); err != nil {
				return fmt.Errorf("report %q: %w", r.Name, err)
			}
		}
		if r.Encoding != "" {
			if _, _, err := linescan.Lookup(r.Encoding); err != nil {
				return fmt.Errorf("report %q: %w", r.Name, err)
			}
		}
	}
	return nil
}

// resolvePaths makes relative report paths relative to the config file.
func (f *File) resolvePaths(dir string) {
	rel := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	f.OutputDir = rel(f.OutputDir)
	f.MetricsFile = rel(f.MetricsFile)
	for i := range f.Reports {
		r := &f.Reports[i]
		r.Input = rel(r.Input)
		r.Groups = rel(r.Groups)
		r.Profiles = rel(r.Profiles)
	}
}
