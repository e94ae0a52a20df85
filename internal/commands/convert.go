package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/finfeed-dev/finfeed/internal/config"
	"github.com/finfeed-dev/finfeed/internal/export"
	"github.com/finfeed-dev/finfeed/internal/importer"
	"github.com/finfeed-dev/finfeed/internal/model"
	"github.com/finfeed-dev/finfeed/internal/table"
)

// configFile is the default configuration file looked up next to the
// working directory.
const configFile = "finfeed.yaml"

func newConvertCommand() *cobra.Command {
	var (
		importerID string
		kind       string
		timezone   string
		timeOfDay  string
		sourceURL  string
		asOf       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Decode an export file and emit canonical records as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], convertParams{
				importerID: importerID,
				kind:       model.RecordKind(kind),
				timezone:   timezone,
				timeOfDay:  timeOfDay,
				sourceURL:  sourceURL,
				asOf:       asOf,
				configPath: configPath,
			})
		},
	}

	cmd.Flags().StringVar(&importerID, "importer", "", "importer ID (default: the one dialect that claims the file)")
	cmd.Flags().StringVar(&kind, "kind", "", "target record kind, for dialects offering several")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for bare dates (default: config, then host)")
	cmd.Flags().StringVar(&timeOfDay, "time-of-day", "", `assumed HH:MM time for bare dates (default "12:00")`)
	cmd.Flags().StringVar(&sourceURL, "url", "", "source document URL (default: the file path)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "RFC 3339 timestamp stamped onto security records")
	cmd.Flags().StringVar(&configPath, "config", "", "configuration file (default "+configFile+")")

	return cmd
}

type convertParams struct {
	importerID string
	kind       model.RecordKind
	timezone   string
	timeOfDay  string
	sourceURL  string
	asOf       string
	configPath string
}

func runConvert(cmd *cobra.Command, path string, params convertParams) error {
	cfg, err := loadConfig(params.configPath)
	if err != nil {
		return err
	}

	opts, err := decodeOptions(cfg, params, path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	registry := importer.DefaultRegistry()
	imp, err := pickImporter(registry, data, params)
	if err != nil {
		return err
	}

	records, rejected, err := imp.Decode(data, opts)
	if err != nil {
		return fmt.Errorf("decoding %s with %s: %w", path, imp.ID(), err)
	}

	if err := writeOutput(cmd, cfg, path, records, rejected); err != nil {
		return err
	}

	if len(rejected) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d rows rejected\n", len(rejected), len(rejected)+len(records))
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = configFile
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

// decodeOptions merges the config defaults with the command flags;
// flags win.
func decodeOptions(cfg *config.Config, params convertParams, path string) (importer.Options, error) {
	if params.timezone != "" {
		cfg.Decode.TimeZone = params.timezone
	}
	loc, err := cfg.Location()
	if err != nil {
		return importer.Options{}, err
	}

	opts := importer.Options{
		Kind:      params.kind,
		TimeZone:  loc,
		TimeOfDay: cfg.Decode.TimeOfDay,
		URL:       params.sourceURL,
	}
	if params.timeOfDay != "" {
		opts.TimeOfDay = params.timeOfDay
	}
	if opts.URL == "" {
		opts.URL = path
	}
	if params.asOf != "" {
		asOf, err := time.Parse(time.RFC3339, params.asOf)
		if err != nil {
			return importer.Options{}, fmt.Errorf("parsing --as-of: %w", err)
		}
		opts.AsOf = &asOf
	}
	return opts, nil
}

// pickImporter resolves which dialect decodes the document: the one
// named by --importer, or the single dialect whose signature claims
// the prefix (honoring --kind when several do).
func pickImporter(registry *importer.Registry, data []byte, params convertParams) (importer.Importer, error) {
	if params.importerID != "" {
		imp := registry.Get(params.importerID)
		if imp == nil {
			return nil, fmt.Errorf("unknown importer %q", params.importerID)
		}
		return imp, nil
	}

	claims := registry.Prospect(data)
	var matched []importer.Importer
	for _, imp := range registry.Importers() {
		res, ok := claims[imp.ID()]
		if !ok {
			continue
		}
		if params.kind != "" {
			if _, ok := res[params.kind]; !ok {
				continue
			}
		}
		matched = append(matched, imp)
	}

	switch len(matched) {
	case 0:
		return nil, fmt.Errorf("no dialect recognizes this document")
	case 1:
		return matched[0], nil
	default:
		ids := make([]string, len(matched))
		for i, imp := range matched {
			ids[i] = imp.ID()
		}
		return nil, fmt.Errorf("ambiguous document, pass --importer (candidates: %v)", ids)
	}
}

func writeOutput(cmd *cobra.Command, cfg *config.Config, path string, records []model.Record, rejected []table.RawRow) error {
	if cfg.Output.Dir == "" {
		return export.WriteRecords(cmd.OutOrStdout(), records)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	base := filepath.Base(path)
	recPath := filepath.Join(cfg.Output.Dir, base+".records.jsonl")
	f, err := os.Create(recPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", recPath, err)
	}
	defer f.Close()
	if err := export.WriteRecords(f, records); err != nil {
		return err
	}

	if cfg.Output.KeepRejects && len(rejected) > 0 {
		rejPath := filepath.Join(cfg.Output.Dir, base+".rejects.jsonl")
		rf, err := os.Create(rejPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", rejPath, err)
		}
		defer rf.Close()
		if err := export.WriteRejects(rf, rejected); err != nil {
			return err
		}
	}
	return nil
}
