// Package config provides configuration management for the grouped summary
// pipeline. It loads settings from several sources, validates them, and
// exposes the stimulus category lists the aggregator groups trials by.
//
// # Configuration Sources
//
// Configuration is layered in the following order, later sources winning:
//
//	1. Default values (Default)
//	2. YAML file (--config, or grouped-summary.yaml / configs/grouped-summary.yaml)
//	3. A dotenv file, loaded into the process environment
//	4. Environment variables
//	5. Command-line flags, applied by cmd/grouped-summary
//
// # Environment Variables
//
// All environment variables follow the pattern OLTT_<SECTION>_<FIELD>:
//
//	OLTT_STORAGE_BACKEND=drive
//	OLTT_STORAGE_ROOT_FOLDER_ID=1AbCdEf
//	OLTT_STORAGE_CREDENTIALS_FILE=/secrets/service-account.json
//	OLTT_PROCESSING_OVERWRITE=true
//	OLTT_LOGGING_LEVEL=debug
//
// Stimulus categories are only read from the YAML file:
//
//	stimuli:
//	  union_name: all
//	  categories:
//	    - name: target
//	      labels: [" dustpan", " wig"]
//	    - name: foil
//	      labels: [" boot"]
//
// # Validation
//
// Validate enforces struct constraints with go-playground/validator and
// rejects stimulus lists that share a label.
package config
