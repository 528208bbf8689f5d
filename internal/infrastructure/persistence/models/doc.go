// Package models contains the GORM models of the relational store.
// They are kept apart from the domain entities and converted with ToDomain/FromDomain.
package models
