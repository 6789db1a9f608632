// Package store defines the persistence interfaces for the application's
// entities along with the shared error sentinels and transaction helpers.
// Concrete implementations live in internal/platform/postgres.
package store
