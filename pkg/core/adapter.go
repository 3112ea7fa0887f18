package core

import "context"

// Adapter loads CSV files into a database.
type Adapter interface {
	// Connect establishes a connection to the database.
	Connect(ctx context.Context, cfg AdapterConfig) error

	// Close closes the database connection.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// LoadCSV creates or replaces tableName with the contents of the CSV at filePath.
	LoadCSV(ctx context.Context, tableName, filePath string) error

	// RowCount returns the number of rows in tableName.
	RowCount(ctx context.Context, tableName string) (int64, error)
}

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
	Params   map[string]any
}
