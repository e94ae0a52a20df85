package commands

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/finfeed-dev/finfeed/internal/importer"
)

func newDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Report which export dialects claim a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			return runDetect(cmd.OutOrStdout(), data)
		},
	}
}

func runDetect(w io.Writer, data []byte) error {
	registry := importer.DefaultRegistry()
	claims := registry.Prospect(data)
	if len(claims) == 0 {
		fmt.Fprintln(w, "no dialect recognizes this document")
		return nil
	}

	for _, imp := range registry.Importers() {
		res, ok := claims[imp.ID()]
		if !ok {
			continue
		}
		kinds := make([]string, 0, len(res))
		for kind := range res {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		fmt.Fprintf(w, "%s (%s): %v\n", imp.ID(), imp.Name(), kinds)
	}
	return nil
}
