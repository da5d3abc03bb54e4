package cmd

import "github.com/spf13/viper"

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Map environment variables to Viper keys for the HTTP server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Map environment variables to Viper keys for logging
	viper.BindEnv("log.production", "LOG_PRODUCTION")

	// Map environment variables to Viper keys for the OCR engine
	viper.BindEnv("ocr.languages", "OCR_LANGUAGES")
	viper.BindEnv("ocr.tessdata_dir", "OCR_TESSDATA_DIR")

	// Map environment variables to Viper keys for image fetching and jobs
	viper.BindEnv("fetch.timeout", "FETCH_TIMEOUT")
	viper.BindEnv("jobs.retention", "JOBS_RETENTION")

	// Map environment variables to Viper keys for MinIO
	viper.BindEnv("minio.enabled", "MINIO_ENABLED")
	viper.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("minio.use_ssl", "MINIO_USE_SSL")

	// Set default values for the HTTP server
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdown_timeout", "5s")

	viper.SetDefault("log.production", false)

	// Set default values for the OCR engine
	viper.SetDefault("ocr.languages", []string{"eng"})
	viper.SetDefault("ocr.tessdata_dir", "")

	// The fetch timeout bounds the image download only, not recognition.
	// Retention 0s keeps the remove-all-terminal cleanup behavior.
	viper.SetDefault("fetch.timeout", "30s")
	viper.SetDefault("jobs.retention", "0s")

	// Set default values for MinIO
	viper.SetDefault("minio.enabled", false)
	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.access_key", "minioadmin")
	viper.SetDefault("minio.secret_key", "minioadmin")
	viper.SetDefault("minio.use_ssl", false)
}
