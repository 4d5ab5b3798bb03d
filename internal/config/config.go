package config

import "time"

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.options.go . Configuration

type Configuration struct {
	Server Server `debugmap:"visible"`
	Store  Store  `debugmap:"visible"`
	Query  Query  `debugmap:"visible"`
	Auth   Auth   `debugmap:"sensitive"`
	Index  Index  `debugmap:"visible"`
}

type Server struct {
	HTTPPort   int    `default:"8000" validate:"min=1,max=65535"`
	ServerMode string `default:"dev" validate:"oneof=dev prod"`
	// StaticsFolder is served in prod mode when set.
	StaticsFolder string
	LogLevel      string `default:"info" validate:"oneof=debug info warn error"`
	LogFormat     string `default:"console" validate:"oneof=console json"`
}

type Store struct {
	Dialect string `default:"duckdb" validate:"oneof=duckdb mysql"`
	// Path is the DuckDB database file, ":memory:" for an in-memory database.
	Path string `default:"evidence.duckdb"`
	// DSN is the MySQL data source name.
	DSN              string
	MaxOpenConns     int           `default:"10" validate:"min=1"`
	StatementTimeout time.Duration `default:"30s"`
}

type Query struct {
	DefaultPageSize    int  `default:"20" validate:"min=1"`
	MaxPageSize        int  `default:"500" validate:"min=1"`
	ValidateStatements bool `default:"true"`
	MaxRecursionDepth  int  `default:"64" validate:"min=1"`
}

type Auth struct {
	Enabled   bool `default:"false"`
	JWTSecret string
	Issuer    string `default:"evidence-store"`
}

type Index struct {
	RefreshInterval time.Duration `default:"5m"`
	NumWorkers      int           `default:"2" validate:"min=1"`
}
