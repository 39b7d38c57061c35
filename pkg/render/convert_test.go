package render

import (
	"strings"
	"testing"
)

func TestConvertUnknownFormat(t *testing.T) {
	for _, f := range []string{"", "svg", "gif"} {
		if _, err := Convert([]byte("<svg/>"), f, 1); err == nil {
			t.Errorf("Convert(%q) succeeded", f)
		}
	}
}

func TestConvertWithoutConverter(t *testing.T) {
	if Available() {
		t.Skip(Converter + " is installed")
	}
	t.Setenv("PATH", t.TempDir())
	_, err := Convert([]byte("<svg/>"), "png", 2)
	if err == nil || !strings.Contains(err.Error(), "librsvg") {
		t.Errorf("Convert() error = %v, want install hint", err)
	}
}
