// Package config provides configuration management for the Case Mirror.
//
// It utilizes Viper for loading configuration from environment variables
// and .env files, with defaults declared as struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: mirror database connection details (sqlite or mysql)
//   - Logger: logging level and format
//   - Upstream: case registry endpoint and credentials
//   - Mirror: synchronizer interval and toggle
//   - Storage: S3/MinIO credentials and snapshot bucket settings
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
