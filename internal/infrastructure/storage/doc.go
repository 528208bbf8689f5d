// Package storage provides the ObjectStore backends holding object content:
// a local directory, an Azure blob container and an S3 bucket.
package storage
