// Package config provides configuration management for tablecheck.
//
// Configuration is read from a YAML file, overlaid on the defaults defined
// in defaults.go and then overridden by environment variables.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("tablecheck.yaml")
//	cfg, err := config.LoadConfigWithEnvOverrides("tablecheck.yaml")
//	cfg, found, err := config.LoadConfigOrDefault("tablecheck.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention TABLECHECK_SECTION_FIELD:
//
//   - TABLECHECK_VALIDATOR_FORMAT_VERSION overrides validator.format_version
//   - TABLECHECK_HISTORY_SQLITE_PATH overrides history.sqlite.path
//   - TABLECHECK_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//   - TABLECHECK_WATCH_EXTENSIONS takes a comma separated list
//
// # Validation
//
// All errors are collected into a single ValidationError:
//
//	configuration validation failed with 2 errors:
//	  - history.backend: invalid backend "postgres": must be 'memory' or 'sqlite'
//	  - history.retention.schedule: invalid cron expression "daily": ...
//
// # Example Configuration
//
//	validator:
//	  format_version: "Biological Observation Matrix 1.0.0"
//	  detailed_report: true
//
//	history:
//	  enabled: true
//	  backend: sqlite
//	  sqlite:
//	    driver: sqlite
//	    path: data/history.db
//	  retention:
//	    days: 30
//	    schedule: "0 3 * * *"
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: text
package config
