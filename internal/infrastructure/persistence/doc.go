// Package persistence provides the GORM repositories of storage objects, groups and
// metadata properties on MySQL/MariaDB, PostgreSQL or SQLite.
package persistence
