package datasource

// Config holds the connection settings for the configured datasource.
// Not every field applies to every adapter: file-based engines read Path,
// network engines read Host/Port/User/Password/Database.
type Config struct {
	Type     string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Schema   string // default schema for unqualified table names
	SSLMode  string
	Path     string
}

// DefaultSchema returns the schema used for unqualified table names,
// falling back to the adapter's own default when none is configured.
func (c *Config) DefaultSchema(adapterDefault string) string {
	if c.Schema != "" {
		return c.Schema
	}
	return adapterDefault
}
