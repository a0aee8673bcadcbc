// internal/db/initdb.go
package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/lib/pq"
)

// CreateDatabaseIfNotExists creates the target database through the "postgres"
// maintenance database. It reports whether the database was created.
func CreateDatabaseIfNotExists(connString string) (bool, error) {
	dbName, err := extractDBName(connString)
	if err != nil {
		return false, fmt.Errorf("failed to parse connection string: %w", err)
	}

	rootConnStr, err := replaceDBName(connString, "postgres")
	if err != nil {
		return false, fmt.Errorf("failed to create root connection string: %w", err)
	}

	db, err := sql.Open("postgres", rootConnStr)
	if err != nil {
		return false, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer db.Close()

	var exists bool
	err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		_, err = db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName))
		if err != nil {
			return false, fmt.Errorf("failed to create database: %w", err)
		}
		return true, nil
	}

	return false, nil
}

// extractDBName extracts the database name from a PostgreSQL connection string
func extractDBName(connString string) (string, error) {
	// Try to parse as URL first
	if strings.HasPrefix(connString, "postgres://") || strings.HasPrefix(connString, "postgresql://") {
		u, err := url.Parse(connString)
		if err != nil {
			return "", fmt.Errorf("failed to parse connection URL: %w", err)
		}
		return strings.TrimPrefix(u.Path, "/"), nil
	}

	// Try to parse as key-value pairs
	pairs := strings.Fields(connString)
	for _, pair := range pairs {
		if strings.HasPrefix(pair, "dbname=") {
			return strings.TrimPrefix(pair, "dbname="), nil
		}
	}

	return "", fmt.Errorf("could not find database name in connection string")
}

// replaceDBName replaces the database name in a connection string
func replaceDBName(connString, newName string) (string, error) {
	// Handle URL format
	if strings.HasPrefix(connString, "postgres://") || strings.HasPrefix(connString, "postgresql://") {
		u, err := url.Parse(connString)
		if err != nil {
			return "", err
		}
		u.Path = "/" + newName
		return u.String(), nil
	}

	// Handle key-value pair format
	var result []string
	pairs := strings.Fields(connString)
	for _, pair := range pairs {
		if strings.HasPrefix(pair, "dbname=") {
			result = append(result, "dbname="+newName)
		} else {
			result = append(result, pair)
		}
	}
	return strings.Join(result, " "), nil
}