package config

import (
	types "CatalogForge/pkg"
)

type Config struct {
	Database DatabaseConfig      `mapstructure:"database" json:"database"`
	Ingest   types.IngestConfig  `mapstructure:"ingest" json:"ingest"`
	Storage  types.StorageConfig `mapstructure:"storage" json:"storage"`
	Logging  types.LoggingConfig `mapstructure:"logging" json:"logging"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn" json:"dsn"`
}
