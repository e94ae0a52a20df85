package importer

import (
	"errors"
	"strings"
	"time"

	"github.com/finfeed-dev/finfeed/internal/dates"
	"github.com/finfeed-dev/finfeed/internal/model"
	"github.com/finfeed-dev/finfeed/internal/table"
)

// ErrRecordKindRequired is returned by Decode when a dialect offers
// several record kinds and the caller did not pick one.
var ErrRecordKindRequired = errors.New("record kind required")

// DetectResult advertises which record kinds a dialect believes it
// can produce from a document, and from which source formats. Empty
// means the document does not match the dialect.
type DetectResult map[model.RecordKind][]model.Format

// Options carries per-call decode configuration.
type Options struct {
	// Kind selects the target record kind; required for importers
	// offering more than one.
	Kind model.RecordKind
	// TimeZone resolves bare dates; defaults to the host timezone.
	TimeZone *time.Location
	// TimeOfDay overrides the assumed "HH:MM" wall-clock time of
	// dated rows; defaults to dates.DefaultTimeOfDay.
	TimeOfDay string
	// URL is the source document's own location, if known.
	URL string
	// AsOf is stamped onto security records as their price time.
	AsOf *time.Time
}

func (o Options) location() *time.Location {
	if o.TimeZone != nil {
		return o.TimeZone
	}
	return time.Local
}

// Importer detects and decodes one vendor export dialect. Decoding
// is a pure transformation: malformed rows come back as rejects in
// source order, never dropped and never an error by themselves.
type Importer interface {
	ID() string
	Name() string
	Description() string
	SourceFormats() []model.Format
	RecordKinds() []model.RecordKind
	Detect(prefix []byte) DetectResult
	Decode(data []byte, opts Options) (records []model.Record, rejected []table.RawRow, err error)
}

// Registry holds named importers.
type Registry struct {
	importers []Importer
	byID      map[string]Importer
}

// NewRegistry creates an empty importer registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Importer)}
}

// Register adds an importer. Panics on duplicate ID.
func (r *Registry) Register(imp Importer) {
	key := strings.ToLower(imp.ID())
	if _, ok := r.byID[key]; ok {
		panic("duplicate importer ID: " + key)
	}
	r.byID[key] = imp
	r.importers = append(r.importers, imp)
}

// Get returns the importer with the given ID, or nil.
func (r *Registry) Get(id string) Importer {
	return r.byID[strings.ToLower(id)]
}

// Importers returns the registered importers in registration order.
func (r *Registry) Importers() []Importer {
	return r.importers
}

// Prospect runs every registered importer's Detect against the
// prefix and returns the non-empty claims, keyed by importer ID.
func (r *Registry) Prospect(prefix []byte) map[string]DetectResult {
	claims := make(map[string]DetectResult)
	for _, imp := range r.importers {
		if res := imp.Detect(prefix); len(res) > 0 {
			claims[imp.ID()] = res
		}
	}
	return claims
}

// DefaultRegistry returns a registry with all built-in importers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&HistoryImporter{})
	r.Register(&PositionsImporter{})
	r.Register(&SalesImporter{})
	return r
}

// detectAll is the positive Detect result shared by the dialects:
// every advertised record kind mapped to CSV.
func detectAll(kinds []model.RecordKind) DetectResult {
	res := make(DetectResult, len(kinds))
	for _, k := range kinds {
		res[k] = []model.Format{model.FormatCSV}
	}
	return res
}

// resolveRowDate resolves a row's bare date per the call options.
func resolveRowDate(raw string, opts Options) (time.Time, bool) {
	return dates.Resolve(raw, opts.TimeOfDay, opts.location())
}
