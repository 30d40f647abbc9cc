package contract

import (
	"fmt"
	"maps"
	"runtime"
	"slices"
	"strings"

	"github.com/scanwork/deltascan/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 10000
	DefaultPrecision   = 1
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for a diff run.
// This struct is the final, validated config.
type Config struct {
	OldInventory string // Location of the old (base) scan inventory
	NewInventory string // Location of the new (target) scan inventory

	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	AllDeltas   bool // Include unmodified deltas in the displayed output
	Align       bool // Strip leading path segments to align the two trees
	Detail      bool // Print per-delta factor values
	Width       int  // Terminal width override (0 = auto-detect)

	// TrackedAttributes are the attribute names producing change factors.
	TrackedAttributes []string

	// CustomWeights holds per-factor overrides from config; nil entries of
	// the default table stay untouched.
	CustomWeights map[schema.FactorKey]float64

	// ComputedWeights is the effective weight table: defaults for the
	// tracked attributes merged with the custom overrides.
	ComputedWeights map[schema.FactorKey]float64

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag.
	OldInventoryStr string
	NewInventoryStr string

	Limit          int                `mapstructure:"limit"`
	Workers        int                `mapstructure:"workers"`
	Precision      int                `mapstructure:"precision"`
	Output         string             `mapstructure:"output"`
	OutputFile     string             `mapstructure:"output-file"`
	All            bool               `mapstructure:"all"`
	NoAlign        bool               `mapstructure:"no-align"`
	Detail         bool               `mapstructure:"detail"`
	Width          int                `mapstructure:"width"`
	Attributes     string             `mapstructure:"attributes"`
	Color          string             `mapstructure:"color"`
	StoreBackend   string             `mapstructure:"store-backend"`
	StoreDBConnect string             `mapstructure:"store-db-connect"`
	Weights        map[string]float64 `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.TrackedAttributes != nil {
		clone.TrackedAttributes = slices.Clone(c.TrackedAttributes)
	}
	if c.CustomWeights != nil {
		clone.CustomWeights = make(map[schema.FactorKey]float64, len(c.CustomWeights))
		maps.Copy(clone.CustomWeights, c.CustomWeights)
	}
	if c.ComputedWeights != nil {
		clone.ComputedWeights = make(map[schema.FactorKey]float64, len(c.ComputedWeights))
		maps.Copy(clone.ComputedWeights, c.ComputedWeights)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTrackedAttributes(cfg, input); err != nil {
		return err
	}
	if err := processWeights(cfg, input); err != nil {
		return err
	}
	return validateBackendConfig(cfg, input)
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OldInventory = input.OldInventoryStr
	cfg.NewInventory = input.NewInventoryStr
	cfg.OutputFile = input.OutputFile
	cfg.AllDeltas = input.All
	cfg.Align = !input.NoAlign
	cfg.Detail = input.Detail
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	return nil
}

// processTrackedAttributes resolves the attribute names that produce change factors.
func processTrackedAttributes(cfg *Config, input *ConfigRawInput) error {
	if input.Attributes == "" {
		cfg.TrackedAttributes = slices.Clone(schema.DefaultTrackedAttributes)
		return nil
	}

	var tracked []string
	seen := make(map[string]struct{})
	for p := range strings.SplitSeq(input.Attributes, ",") {
		name := strings.TrimSpace(strings.ToLower(p))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("attribute %q listed twice", name)
		}
		seen[name] = struct{}{}
		tracked = append(tracked, name)
	}
	if len(tracked) == 0 {
		return fmt.Errorf("attributes list %q contains no names", input.Attributes)
	}
	cfg.TrackedAttributes = tracked
	return nil
}

// processWeights merges custom weight overrides over the defaults.
// Weight keys for attributes that are not tracked are accepted and kept as
// no-op factors, so a forward-looking config file stays valid.
func processWeights(cfg *Config, input *ConfigRawInput) error {
	cfg.ComputedWeights = schema.DefaultWeights(cfg.TrackedAttributes)

	if len(input.Weights) == 0 {
		return nil
	}
	cfg.CustomWeights = make(map[schema.FactorKey]float64, len(input.Weights))
	for name, w := range input.Weights {
		if w < 0 {
			return fmt.Errorf("weight for %q must not be negative (received %v)", name, w)
		}
		key := schema.FactorKey(strings.ToLower(strings.TrimSpace(name)))
		cfg.CustomWeights[key] = w
		cfg.ComputedWeights[key] = w
	}
	return nil
}

// RevalidateAttributes re-resolves the tracked attribute set and recomputes
// the effective weights. Used by surfaces that change the attributes after the
// initial validation, like the MCP tools.
func RevalidateAttributes(cfg *Config, attributes string) error {
	if err := processTrackedAttributes(cfg, &ConfigRawInput{Attributes: attributes}); err != nil {
		return err
	}
	cfg.ComputedWeights = schema.DefaultWeights(cfg.TrackedAttributes)
	for key, w := range cfg.CustomWeights {
		cfg.ComputedWeights[key] = w
	}
	return nil
}

// ProcessProfilingConfig enables profiling when a prefix is provided.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// validateBackendConfig validates the run-history backend settings.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
