package brand

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	b := Get()
	if b.Name == "" {
		t.Error("Brand name should not be empty")
	}
	// Version is a global variable, not in the struct
	if Version == "" {
		t.Error("Global Version should be initialized (to dev default)")
	}
	if BinaryName != "fgreport" {
		t.Errorf("BinaryName = %q, want fgreport", BinaryName)
	}
	if ConfigFileName != "fgreport.hcl" {
		t.Errorf("ConfigFileName = %q", ConfigFileName)
	}
}

func TestVersionString(t *testing.T) {
	v := VersionString()
	if !strings.HasPrefix(v, Name+" "+Version) {
		t.Errorf("unexpected version banner %q", v)
	}
}

func TestEnv(t *testing.T) {
	t.Setenv(ConfigEnvPrefix+"_CONFIG", "/tmp/fgreport.hcl")
	if got := Env("CONFIG"); got != "/tmp/fgreport.hcl" {
		t.Errorf("Env(CONFIG) = %q", got)
	}
}
