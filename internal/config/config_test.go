package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olttstats/internal/errors"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		setupFile   func(t *testing.T) string // returns temp file path
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, BackendDrive, cfg.Storage.Backend)
				assert.Equal(t, DefaultDriveRPS, cfg.Storage.DriveRPS)
				assert.Equal(t, DefaultDriveBurst, cfg.Storage.DriveBurst)
				assert.Equal(t, DefaultSkipRows, cfg.Processing.SkipRows)
				assert.Equal(t, DefaultOutputSuffix, cfg.Processing.OutputSuffix)
				assert.False(t, cfg.Processing.Overwrite)
				assert.False(t, cfg.Processing.DryRun)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
				assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
				assert.Equal(t, "all", cfg.Stimuli.UnionName)
				assert.Len(t, cfg.Stimuli.Categories, 3)
			},
		},
		{
			name: "environment variables override defaults",
			setupEnv: func(t *testing.T) {
				t.Setenv("OLTT_STORAGE_BACKEND", "s3")
				t.Setenv("OLTT_STORAGE_ROOT_FOLDER_ID", "studies/")
				t.Setenv("OLTT_STORAGE_S3_BUCKET", "lab-data")
				t.Setenv("OLTT_PROCESSING_OVERWRITE", "true")
				t.Setenv("OLTT_PROCESSING_SKIP_ROWS", "2")
				t.Setenv("OLTT_LOGGING_LEVEL", "debug")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, BackendS3, cfg.Storage.Backend)
				assert.Equal(t, "studies/", cfg.Storage.RootFolderID)
				assert.Equal(t, "lab-data", cfg.Storage.S3Bucket)
				assert.True(t, cfg.Processing.Overwrite)
				assert.Equal(t, 2, cfg.Processing.SkipRows)
				assert.Equal(t, "debug", cfg.Logging.Level)
				// untouched fields keep their defaults
				assert.Equal(t, DefaultOutputSuffix, cfg.Processing.OutputSuffix)
			},
		},
		{
			name: "yaml file overlays defaults",
			setupFile: func(t *testing.T) string {
				return writeFile(t, "config.yaml", `
storage:
  backend: local
  root_folder_id: /data/oltt
processing:
  dry_run: true
stimuli:
  union_name: every
  categories:
    - name: old
      labels: [" cup"]
    - name: new
      labels: [" pen", " ink"]
`)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, BackendLocal, cfg.Storage.Backend)
				assert.Equal(t, "/data/oltt", cfg.Storage.RootFolderID)
				assert.True(t, cfg.Processing.DryRun)
				assert.Equal(t, DefaultSkipRows, cfg.Processing.SkipRows)
				assert.Equal(t, "every", cfg.Stimuli.UnionName)
				require.Len(t, cfg.Stimuli.Categories, 2)
				assert.Equal(t, []string{" pen", " ink"}, cfg.Stimuli.Categories[1].Labels)
			},
		},
		{
			name: "environment wins over yaml",
			setupEnv: func(t *testing.T) {
				t.Setenv("OLTT_STORAGE_ROOT_FOLDER_ID", "from-env")
			},
			setupFile: func(t *testing.T) string {
				return writeFile(t, "config.yaml", "storage:\n  root_folder_id: from-file\n")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "from-env", cfg.Storage.RootFolderID)
			},
		},
		{
			name: "malformed yaml",
			setupFile: func(t *testing.T) string {
				return writeFile(t, "config.yaml", "storage: [unclosed\n")
			},
			wantErr: true,
		},
		{
			name: "bad env value",
			setupEnv: func(t *testing.T) {
				t.Setenv("OLTT_PROCESSING_SKIP_ROWS", "four")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setupEnv != nil {
				tt.setupEnv(t)
			}
			var opts LoadOptions
			if tt.setupFile != nil {
				opts.ConfigFile = tt.setupFile(t)
			}

			cfg, err := Load(opts)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
}

func TestLoad_EnvFile(t *testing.T) {
	// godotenv does not override variables that are already set, and
	// t.Setenv restores the original value on cleanup.
	t.Setenv("OLTT_STORAGE_CREDENTIALS_FILE", "")
	os.Unsetenv("OLTT_STORAGE_CREDENTIALS_FILE")

	envFile := writeFile(t, ".env", "OLTT_STORAGE_CREDENTIALS_FILE=/secrets/sa.json\n")
	cfg, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "/secrets/sa.json", cfg.Storage.CredentialsFile)

	// a missing env file is not an error
	_, err = Load(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	assert.NoError(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Storage.RootFolderID = "root"
		cfg.Storage.CredentialsFile = "sa.json"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid drive config", mutate: func(*Config) {}},
		{
			name:    "missing root folder",
			mutate:  func(c *Config) { c.Storage.RootFolderID = "" },
			wantErr: true,
		},
		{
			name:    "drive without credentials",
			mutate:  func(c *Config) { c.Storage.CredentialsFile = "" },
			wantErr: true,
		},
		{
			name: "s3 without bucket",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendS3
				c.Storage.CredentialsFile = ""
			},
			wantErr: true,
		},
		{
			name: "s3 with bucket",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendS3
				c.Storage.CredentialsFile = ""
				c.Storage.S3Bucket = "lab-data"
			},
		},
		{
			name: "local needs no credentials",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendLocal
				c.Storage.CredentialsFile = ""
			},
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "box" },
			wantErr: true,
		},
		{
			name:    "negative skip rows",
			mutate:  func(c *Config) { c.Processing.SkipRows = -1 },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "file logging without path",
			mutate:  func(c *Config) { c.Logging.Output = "file"; c.Logging.FilePath = "" },
			wantErr: true,
		},
		{
			name:    "sample ratio out of range",
			mutate:  func(c *Config) { c.Telemetry.SampleRatio = 1.5 },
			wantErr: true,
		},
		{
			name: "overlapping stimulus lists",
			mutate: func(c *Config) {
				c.Stimuli.Categories[1].Labels = append(c.Stimuli.Categories[1].Labels, " wig")
			},
			wantErr: true,
		},
		{
			name:    "no stimulus categories",
			mutate:  func(c *Config) { c.Stimuli.Categories = nil },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultStimuli(t *testing.T) {
	set, err := DefaultStimuli().CategorySet()
	require.NoError(t, err)
	assert.Equal(t, []string{"target", "repeated", "foil", "all"}, set.Names())

	cats := set.Categories()
	assert.Len(t, cats[0].Labels, 15)
	assert.Len(t, cats[1].Labels, 2)
	assert.Len(t, cats[2].Labels, 15)
	assert.Len(t, cats[3].Labels, 32)
	assert.True(t, cats[1].Contains(" measuringcups"))
	assert.False(t, cats[1].Contains("measuringcups"))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ExampleConfig(t *testing.T) {
	cfg, err := Load(LoadOptions{ConfigFile: "../../configs/grouped-summary.example.yaml"})
	require.NoError(t, err)

	assert.Equal(t, BackendDrive, cfg.Storage.Backend)
	assert.Equal(t, DefaultOutputSuffix, cfg.Processing.OutputSuffix)
	assert.Equal(t, DefaultStimuli(), cfg.Stimuli)

	cfg.Storage.RootFolderID = "1AbC"
	assert.NoError(t, cfg.Validate())
}
