package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/promiscuity/pkg/annotation"
)

// readAnnotation loads a single annotation from path, or from stdin when
// path is "-".
func readAnnotation(cmd *cobra.Command, path string) (*annotation.Annotation, error) {
	if path == "-" {
		return annotation.ReadJSON(cmd.InOrStdin())
	}
	return annotation.ImportJSON(path)
}

// openOutput returns the writer for -o, falling back to the command output.
// The returned close function is always non-nil.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
