package render

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
)

// Converter is the external tool used to rasterize SVG drawings.
const Converter = "rsvg-convert"

// Convert turns an SVG drawing into "png" or "pdf". For PNG, scale multiplies
// the resolution and values <= 0 mean 1; PDF ignores it.
func Convert(svg []byte, format string, scale float64) ([]byte, error) {
	var args []string
	switch format {
	case "pdf":
		args = []string{"-f", "pdf"}
	case "png":
		if scale <= 0 {
			scale = 1
		}
		args = []string{"-f", "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64)}
	default:
		return nil, fmt.Errorf("cannot convert svg to %q", format)
	}
	if !Available() {
		return nil, fmt.Errorf("%s output needs %s (librsvg): brew install librsvg, or apt install librsvg2-bin", format, Converter)
	}

	cmd := exec.Command(Converter, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v: %s", Converter, err, stderr.String())
	}
	return out.Bytes(), nil
}

// Available reports whether the converter is on PATH.
func Available() bool {
	_, err := exec.LookPath(Converter)
	return err == nil
}
