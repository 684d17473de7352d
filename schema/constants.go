package schema

// Custom string types for type safety.
type (
	// RunMode represents which engine pass a run performs.
	RunMode string

	// OutputMode represents the format of the output.
	OutputMode string

	// Classification represents the stock position of one period.
	Classification string

	// HorizonStatus represents whether a period is open to planning.
	HorizonStatus string

	// BucketInterval represents the spacing of period buckets.
	BucketInterval string

	// DatabaseBackend represents the database backend for run storage.
	DatabaseBackend string

	// Status represents how an entity relates to a comparison baseline.
	Status string
)

// All run modes supported.
const (
	ProjectMode RunMode = "project" // default
	PolicyMode  RunMode = "policy"
	PlanMode    RunMode = "plan"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// The five-way stock position classification, listed in precedence order.
const (
	TBCClass       Classification = "TBC"
	ShortageClass  Classification = "Shortage"
	OverStockClass Classification = "OverStock"
	AlertClass     Classification = "Alert"
	OKClass        Classification = "OK"
)

// Horizon states for replenishment planning.
const (
	FrozenHorizon HorizonStatus = "frozen"
	FreeHorizon   HorizonStatus = "free"
)

// Bucket intervals for gap filling. NoInterval disables gap detection so
// irregular period spacing passes validation untouched.
const (
	NoInterval      BucketInterval = "none" // default
	DailyInterval   BucketInterval = "daily"
	WeeklyInterval  BucketInterval = "weekly"
	MonthlyInterval BucketInterval = "monthly"
)

// All database backends supported for run storage.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Entity statuses for scenario comparison.
const (
	NewStatus      Status = "new"      // present only in the revised scenario
	ActiveStatus   Status = "active"   // present in both scenarios
	InactiveStatus Status = "inactive" // present only in the baseline
	UnknownStatus  Status = "unknown"
)

// PeriodLayout is the date layout for period buckets in all text surfaces.
const PeriodLayout = "2006-01-02"

// AllClassifications lists the classification values in precedence order.
var AllClassifications = []Classification{TBCClass, ShortageClass, OverStockClass, AlertClass, OKClass}

// ValidRunModes lists all valid run modes.
var ValidRunModes = map[RunMode]struct{}{
	ProjectMode: {},
	PolicyMode:  {},
	PlanMode:    {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidHorizonStatuses lists all valid horizon states.
var ValidHorizonStatuses = map[HorizonStatus]struct{}{
	FrozenHorizon: {},
	FreeHorizon:   {},
}

// ValidBucketIntervals lists all valid bucket intervals.
var ValidBucketIntervals = map[BucketInterval]struct{}{
	NoInterval:      {},
	DailyInterval:   {},
	WeeklyInterval:  {},
	MonthlyInterval: {},
}

// ValidDatabaseBackends lists all valid run storage backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
