package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"olttstats/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Storage    StorageConfig    `yaml:"storage" envconfig:"STORAGE"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
	Stimuli    StimuliConfig    `yaml:"stimuli" ignored:"true"`
}

// StorageConfig selects and configures the remote folder store
type StorageConfig struct {
	Backend         string  `yaml:"backend" envconfig:"BACKEND" validate:"oneof=drive s3 local"`
	RootFolderID    string  `yaml:"root_folder_id" envconfig:"ROOT_FOLDER_ID" validate:"required"`
	CredentialsFile string  `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE" validate:"required_if=Backend drive"`
	DriveRPS        float64 `yaml:"drive_rps" envconfig:"DRIVE_RPS" validate:"gt=0"`
	DriveBurst      int     `yaml:"drive_burst" envconfig:"DRIVE_BURST" validate:"gte=1"`
	S3Bucket        string  `yaml:"s3_bucket" envconfig:"S3_BUCKET" validate:"required_if=Backend s3"`
	S3Region        string  `yaml:"s3_region" envconfig:"S3_REGION"`
	S3Endpoint      string  `yaml:"s3_endpoint" envconfig:"S3_ENDPOINT" validate:"omitempty,url"`
	S3PathStyle     bool    `yaml:"s3_path_style" envconfig:"S3_PATH_STYLE"`
	// Static S3 keys; when empty the default AWS credential chain is used.
	S3AccessKey string `yaml:"s3_access_key" envconfig:"S3_ACCESS_KEY" validate:"required_with=S3SecretKey"`
	S3SecretKey string `yaml:"s3_secret_key" envconfig:"S3_SECRET_KEY" validate:"required_with=S3AccessKey"`
}

// ProcessingConfig controls what the walker does with each processing unit
type ProcessingConfig struct {
	Overwrite    bool   `yaml:"overwrite" envconfig:"OVERWRITE"`
	DryRun       bool   `yaml:"dry_run" envconfig:"DRY_RUN"`
	SkipRows     int    `yaml:"skip_rows" envconfig:"SKIP_ROWS" validate:"gte=0"`
	OutputSuffix string `yaml:"output_suffix" envconfig:"OUTPUT_SUFFIX" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	TraceExporter   string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter  string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	MetricsTextfile string  `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
	SampleRatio     float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	Environment     string  `yaml:"environment" envconfig:"ENVIRONMENT"`
}

// LoadOptions names the optional files Load reads
type LoadOptions struct {
	// ConfigFile is a YAML file; when empty the default locations are searched.
	ConfigFile string
	// EnvFile is a dotenv file loaded into the process environment before
	// overrides are applied. Missing files are ignored.
	EnvFile string
}

var validate = validator.New()

// Load builds the configuration from defaults, then the YAML file, then
// environment variables. It does not validate: callers apply flag overrides
// first and then call Validate.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = getConfigFilePath()
	} else if _, err := os.Stat(configFile); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("config file %s not readable", configFile), err)
	}

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, errors.NewConfigError("failed to load config from file", err)
		}
	}

	if opts.EnvFile != "" {
		if _, err := os.Stat(opts.EnvFile); err == nil {
			if err := godotenv.Load(opts.EnvFile); err != nil {
				return nil, errors.NewConfigError("failed to load env file", err)
			}
		}
	}

	// Environment variables take precedence over the file
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file
// keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks field constraints and the stimulus category lists.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.NewConfigError("config validation failed", err)
	}
	if _, err := c.Stimuli.CategorySet(); err != nil {
		return errors.NewConfigError("invalid stimulus categories", err)
	}
	return nil
}

// getConfigFilePath returns the first existing default config file
func getConfigFilePath() string {
	for _, location := range configFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:    BackendDrive,
			DriveRPS:   DefaultDriveRPS,
			DriveBurst: DefaultDriveBurst,
		},
		Processing: ProcessingConfig{
			SkipRows:     DefaultSkipRows,
			OutputSuffix: DefaultOutputSuffix,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  DefaultTraceExporter,
			MetricExporter: DefaultMetricExporter,
			SampleRatio:    1.0,
			Environment:    "development",
		},
		Stimuli: DefaultStimuli(),
	}
}
