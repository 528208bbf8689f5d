// Package app implements the storage object, group and metadata services on top of
// the domain contracts. Content locking, encryption and event publication happen here.
package app
