package config

// Default paths for databases
const (
	// DefaultServerDatabasePath is the default path for the backend database
	DefaultServerDatabasePath = "./library.db"

	// DefaultCacheDatabasePath is the default path for the client-side cache
	DefaultCacheDatabasePath = "./library-cache.db"
)
