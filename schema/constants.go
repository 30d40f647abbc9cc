package schema

// Custom string types for type safety.
type (
	// DeltaKind classifies a single change between two snapshots.
	DeltaKind string

	// FactorKey names a numeric contribution to a delta's score.
	FactorKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string
)

// All delta kinds supported.
const (
	AddedKind      DeltaKind = "added"
	RemovedKind    DeltaKind = "removed"
	ModifiedKind   DeltaKind = "modified"
	MovedKind      DeltaKind = "moved"
	UnmodifiedKind DeltaKind = "unmodified"
)

// Factor keys used by the classifier. Attribute-change factors are derived
// from the tracked attribute names via AttributeFactor.
const (
	FactorSizeDelta FactorKey = "size_delta" // |new.size - old.size|, or the full size for added/removed
	FactorPathDelta FactorKey = "path_delta" // Segment edit distance between old and new path
)

// AttributeFactor returns the change factor key for a tracked attribute name,
// e.g. "license" -> "license_changed".
func AttributeFactor(name string) FactorKey {
	return FactorKey(name + "_changed")
}

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run-history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllDeltaKinds lists every kind in report display order.
var AllDeltaKinds = []DeltaKind{AddedKind, RemovedKind, ModifiedKind, MovedKind, UnmodifiedKind}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid run-history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// DefaultTrackedAttributes are the attribute names whose changes produce
// score factors when no explicit set is configured.
var DefaultTrackedAttributes = []string{"license", "copyright"}

// Default factor weights. License changes weigh most, copyright changes half
// of that, path movement a little, and raw byte churn least. These are a
// documented, stable policy; callers may override any of them per run.
const (
	DefaultLicenseWeight   = 20.0
	DefaultCopyrightWeight = 10.0
	DefaultAttributeWeight = 10.0 // any other tracked attribute
	DefaultPathWeight      = 2.0
	DefaultSizeWeight      = 0.01
)

// DefaultWeights returns the default weight table for the given tracked
// attribute set. The same inputs always yield the same table.
func DefaultWeights(tracked []string) map[FactorKey]float64 {
	weights := map[FactorKey]float64{
		FactorSizeDelta: DefaultSizeWeight,
		FactorPathDelta: DefaultPathWeight,
	}
	for _, name := range tracked {
		switch name {
		case "license":
			weights[AttributeFactor(name)] = DefaultLicenseWeight
		case "copyright":
			weights[AttributeFactor(name)] = DefaultCopyrightWeight
		default:
			weights[AttributeFactor(name)] = DefaultAttributeWeight
		}
	}
	return weights
}
