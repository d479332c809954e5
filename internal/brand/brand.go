// Package brand provides centralized naming and version information.
//
// The brand identity is loaded from brand.json at compile time via go:embed.
// Version details are set at build time with -ldflags.
package brand

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

//go:embed brand.json
var brandJSON []byte

// Brand holds all branding information
type Brand struct {
	Name            string `json:"name"`
	LowerName       string `json:"lowerName"`
	Vendor          string `json:"vendor"`
	Website         string `json:"website"`
	Repository      string `json:"repository"`
	Description     string `json:"description"`
	Tagline         string `json:"tagline"`
	ConfigEnvPrefix string `json:"configEnvPrefix"`
	BinaryName      string `json:"binaryName"`
	ConfigFileName  string `json:"configFileName"`
	Copyright       string `json:"copyright"`
	License         string `json:"license"`
}

var b Brand

func init() {
	if err := json.Unmarshal(brandJSON, &b); err != nil {
		panic("failed to parse brand.json: " + err.Error())
	}

	Name = b.Name
	LowerName = b.LowerName
	Description = b.Description
	ConfigEnvPrefix = b.ConfigEnvPrefix
	BinaryName = b.BinaryName
	ConfigFileName = b.ConfigFileName
}

// Exported variables for convenience
var (
	Name            string
	LowerName       string
	Description     string
	ConfigEnvPrefix string
	BinaryName      string
	ConfigFileName  string

	// Version is set at build time via -ldflags
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Get returns the full Brand struct
func Get() Brand {
	return b
}

// VersionString returns the one line version banner.
func VersionString() string {
	return fmt.Sprintf("%s %s (commit %s, built %s, %s/%s)",
		Name, Version, GitCommit, BuildTime, runtime.GOOS, runtime.GOARCH)
}

// Env returns the value of the brand-prefixed environment variable
// (e.g. FGREPORT_CONFIG for "CONFIG").
func Env(suffix string) string {
	return os.Getenv(ConfigEnvPrefix + "_" + suffix)
}
