package types

import "time"

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Source       string   `json:"source" yaml:"source" toml:"source"`
	Table        string   `json:"table" yaml:"table" toml:"table"`
	OrderBy      string   `json:"order_by" yaml:"order_by" toml:"order_by"`
	CacheTTL     string   `json:"cache_ttl" yaml:"cache_ttl" toml:"cache_ttl"`
	SQLitePath   string   `json:"sqlite_path" yaml:"sqlite_path" toml:"sqlite_path"`
	SheetsRange  string   `json:"sheets_range" yaml:"sheets_range" toml:"sheets_range"`
	Regions      []string `json:"regions" yaml:"regions" toml:"regions"`
	Products     []string `json:"products" yaml:"products" toml:"products"`
	Categories   []string `json:"categories" yaml:"categories" toml:"categories"`
	MinRevenue   float64  `json:"min_revenue" yaml:"min_revenue" toml:"min_revenue"`
	StartDate    string   `json:"start_date" yaml:"start_date" toml:"start_date"`
	EndDate      string   `json:"end_date" yaml:"end_date" toml:"end_date"`
	ReportName   string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType   []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Pages        []string `json:"pages" yaml:"pages" toml:"pages"`
	Dir          string   `json:"dir" yaml:"dir" toml:"dir"`
	S3Bucket     string   `json:"s3_bucket" yaml:"s3_bucket" toml:"s3_bucket"`
	S3Prefix     string   `json:"s3_prefix" yaml:"s3_prefix" toml:"s3_prefix"`
	AWSProfile   string   `json:"aws_profile" yaml:"aws_profile" toml:"aws_profile"`
	MaxTableRows int      `json:"max_table_rows" yaml:"max_table_rows" toml:"max_table_rows"`
	MaxColumns   int      `json:"max_columns" yaml:"max_columns" toml:"max_columns"`
	Addr         string   `json:"addr" yaml:"addr" toml:"addr"`
}

// Environment holds values read once from the process environment (and .env).
type Environment struct {
	SupabaseURL       string
	SupabaseKey       string
	Table             string
	SpreadsheetID     string
	SheetsRange       string
	GoogleCredentials string
	SQLitePath        string
}

// HasSupabase reports whether both hosted backend credentials are present.
func (e Environment) HasSupabase() bool {
	return e.SupabaseURL != "" && e.SupabaseKey != ""
}

// SourceOptions selects and configures the record source.
type SourceOptions struct {
	Kind        string
	Env         Environment
	SQLitePath  string
	SheetsRange string
	CacheTTL    time.Duration
	Warn        func(format string, a ...interface{})
}

// OutputTarget tells where exported artifacts are stored.
type OutputTarget struct {
	Dir        string
	S3Bucket   string
	S3Prefix   string
	AWSProfile string
}
