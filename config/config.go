package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string

	DBPath       string
	ReportsDir   string
	TemplatePath string

	// BundleDir is where the application ships from; a bundled
	// wkhtmltopdf is looked up under it.
	BundleDir       string
	WKHTMLToPDFPath string

	// ReportFormat is "pdf" or "html". HTML reports skip wkhtmltopdf.
	ReportFormat string

	HospitalName string
	UnitName     string

	HTTPAddr    string
	CORSOrigins string
}

// Load reads .env, if present, then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:             GetEnv("ENV", "development"),
		LogLevel:        GetEnv("LOG_LEVEL", "info"),
		DBPath:          GetEnv("DB_PATH", "urology_data.db"),
		ReportsDir:      GetEnv("REPORTS_DIR", "reports"),
		TemplatePath:    GetEnv("TEMPLATE_PATH", "templates/report.html"),
		BundleDir:       GetEnv("BUNDLE_DIR", "."),
		WKHTMLToPDFPath: GetEnv("WKHTMLTOPDF_PATH", ""),
		ReportFormat:    GetEnv("REPORT_FORMAT", "pdf"),
		HospitalName:    GetEnv("HOSPITAL_NAME", ""),
		UnitName:        GetEnv("UNIT_NAME", ""),
		HTTPAddr:        GetEnv("HTTP_ADDR", "127.0.0.1:3000"),
		CORSOrigins:     GetEnv("CORS_ORIGINS", "http://127.0.0.1:3000,http://localhost:3000"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
