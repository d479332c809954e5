package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Load reads and decodes the config file at path. Relative paths inside the
// file are taken relative to the file's directory.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	f, err := LoadBytes(path, data)
	if err != nil {
		return nil, err
	}
	f.resolvePaths(filepath.Dir(path))
	return f, nil
}

// LoadBytes decodes config source. filename is used in diagnostics and must
// end in .hcl.
func LoadBytes(filename string, data []byte) (*File, error) {
	var f File
	if err := hclsimple.Decode(filename, data, nil, &f); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	f.ApplyDefaults()
	return &f, nil
}

// Discover returns the config path to use. An explicit path must exist;
// otherwise DefaultFileName in dir is used when present. It returns "" when
// there is no config file.
func Discover(explicit, dir string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}
	path := filepath.Join(dir, DefaultFileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return path, nil
}

// Marshal renders f as HCL. Empty optional values are left out.
func Marshal(f *File) ([]byte, error) {
	file := hclwrite.NewEmptyFile()
	body := file.Body()

	top := []struct {
		name  string
		value string
	}{
		{"encoding", f.Encoding},
		{"language", f.Language},
		{"format", f.Format},
		{"output_dir", f.OutputDir},
		{"log_level", f.LogLevel},
		{"metrics_file", f.MetricsFile},
	}
	for _, a := range top {
		if err := setAttr(body, a.name, a.value); err != nil {
			return nil, err
		}
	}

	for _, r := range f.Reports {
		body.AppendNewline()
		block := body.AppendNewBlock("report", []string{r.Name})
		b := block.Body()
		for _, a := range []struct {
			name  string
			value string
		}{
			{"input", r.Input},
			{"groups", r.Groups},
			{"profiles", r.Profiles},
			{"output", r.Output},
			{"format", r.Format},
			{"encoding", r.Encoding},
		} {
			if err := setAttr(b, a.name, a.value); err != nil {
				return nil, err
			}
		}
		if r.SkipHeader {
			if err := setAttr(b, "skip_header", true); err != nil {
				return nil, err
			}
		}
	}

	return hclwrite.Format(file.Bytes()), nil
}

func setAttr(body *hclwrite.Body, name string, value interface{}) error {
	if s, ok := value.(string); ok && s == "" {
		return nil
	}
	v, err := toCtyValue(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", name, err)
	}
	body.SetAttributeValue(name, v)
	return nil
}

// toCtyValue converts a Go value to a cty.Value for HCL writing.
func toCtyValue(v interface{}) (cty.Value, error) {
	switch val := v.(type) {
	case bool:
		return cty.BoolVal(val), nil
	case int:
		return cty.NumberIntVal(int64(val)), nil
	case string:
		return cty.StringVal(val), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported type: %T", v)
	}
}

// Example returns a starter configuration covering every report.
func Example() *File {
	f := Default()
	f.Reports = []Report{
		{Name: "policy", Input: "fgfw.cfg", Output: "firewall_policy_report.xlsx"},
		{Name: "vip", Input: "vip.txt", Output: "dnat_report.xlsx"},
		{Name: "users", Input: "users.txt", Groups: "groups.txt", Output: "vpn_users_report.xlsx"},
		{Name: "webfilter", Input: "categories.txt", Profiles: "profiles.txt", Output: "web_filter_report.xlsx"},
	}
	return f
}
