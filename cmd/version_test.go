package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	old := version
	version = "v1.2.3"
	defer func() { version = old }()

	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	if got := strings.TrimSpace(out.String()); got != "studypack v1.2.3" {
		t.Errorf("output = %q, want %q", got, "studypack v1.2.3")
	}
}

func TestBuildVersionWithoutLdflags(t *testing.T) {
	old := version
	version = ""
	defer func() { version = old }()

	if got := buildVersion(); got == "" {
		t.Error("buildVersion returned empty string")
	}
}
