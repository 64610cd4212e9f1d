package database

import (
	"fmt"
	"strings"
)

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongodb"
)

// Driver infers the storage driver from the connection string scheme.
func Driver(dsn string) (string, error) {
	scheme, _, ok := strings.Cut(strings.TrimSpace(dsn), "://")
	if !ok {
		return "", fmt.Errorf("database url has no scheme")
	}
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	default:
		return "", fmt.Errorf("unsupported database scheme %q", scheme)
	}
}
