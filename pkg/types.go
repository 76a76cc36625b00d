package types

type IngestConfig struct {
	SpreadsheetPath string      `mapstructure:"spreadsheet_path" json:"spreadsheet_path"`
	VideosRoot      string      `mapstructure:"videos_root" json:"videos_root"`
	CoversRoot      string      `mapstructure:"covers_root" json:"covers_root"`
	FFMpegPath      string      `mapstructure:"ff_mpeg_path" json:"ff_mpeg_path"`
	Retry           RetryConfig `mapstructure:"retry" json:"retry"`
}

type RetryConfig struct {
	MaxAttempts        int32   `mapstructure:"max_attempts" json:"max_attempts"`
	InitialIntervalSec float64 `mapstructure:"initial_interval_sec" json:"initial_interval_sec"`
	BackoffCoefficient float64 `mapstructure:"backoff_coefficient" json:"backoff_coefficient"`
}

type StorageConfig struct {
	Type  string      `mapstructure:"type" json:"type"`
	Local LocalConfig `mapstructure:"local" json:"local"`
	S3    S3Config    `mapstructure:"s3" json:"s3"`
}

type LocalConfig struct {
	BasePath      string `mapstructure:"base_path" json:"base_path"`
	PublicBaseURL string `mapstructure:"public_base_url" json:"public_base_url"`
}

type S3Config struct {
	Bucket          string `mapstructure:"bucket" json:"bucket"`
	Region          string `mapstructure:"region" json:"region"`
	AccessKeyID     string `mapstructure:"access_key_id" json:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" json:"secret_access_key"`
	PublicBaseURL   string `mapstructure:"public_base_url" json:"public_base_url"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level" json:"level"`
	Output   string `mapstructure:"output" json:"output"`
	FilePath string `mapstructure:"file_path" json:"file_path"`
}
