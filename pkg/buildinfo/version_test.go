package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	Version = "v9.9.9"
	defer func() { Version = old }()

	got := String()
	for _, want := range []string{"promiscuity v9.9.9", "commit " + Commit, runtime.Version()} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}

func TestTemplate(t *testing.T) {
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} "+Version+":") {
		t.Errorf("Template() = %q, want {{.Name}} and version first", got)
	}
	if !strings.Contains(got, "dependency-tree enumerator") || !strings.HasSuffix(got, "\n") {
		t.Errorf("Template() = %q", got)
	}
}
