package types

import "time"

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile   string
	EnvFile      string
	Source       string
	Table        string
	OrderBy      string
	SQLitePath   string
	SheetsRange  string
	CacheTTL     time.Duration
	StartDate    string
	EndDate      string
	Regions      []string
	Products     []string
	Categories   []string
	MinRevenue   float64
	ReportName   string
	ReportType   []string
	Pages        []string
	Dir          string
	S3Bucket     string
	S3Prefix     string
	AWSProfile   string
	MaxTableRows int
	MaxColumns   int
	AllColumns   bool
	Trend        bool
	Addr         string
}

// SeedArgs represents the arguments of the seed command.
type SeedArgs struct {
	Days      int
	Clear     bool
	BatchSize int
	Seed      int64
}
