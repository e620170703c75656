package config

// Application constants
const (
	AppName    = "OLTT Grouped Summary"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces environment overrides: OLTT_STORAGE_BACKEND etc.
	EnvPrefix = "OLTT"

	// Storage backends
	BackendDrive = "drive"
	BackendS3    = "s3"
	BackendLocal = "local"

	// Raw task exports carry four metadata lines above the CSV header.
	DefaultSkipRows = 4

	// DefaultOutputSuffix is appended to the folder name to name the workbook.
	DefaultOutputSuffix = "-OLTT_11a_Grouped_Summary_Stats.xlsx"

	// Google Drive API pacing
	DefaultDriveRPS   = 8.0
	DefaultDriveBurst = 4

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogOutput = "console"
	DefaultLogFile   = "logs/grouped-summary.log"

	// Telemetry
	DefaultTraceExporter  = "none"
	DefaultMetricExporter = "prometheus"
)

// configFileLocations are searched in order when no config path is given.
var configFileLocations = []string{
	"grouped-summary.yaml",
	"configs/grouped-summary.yaml",
}
