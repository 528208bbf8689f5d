// Package objects holds the storage object aggregate: objects, the groups owning them,
// their metadata properties and access records, together with the contracts the
// application layer implements and the infrastructure layer fulfils.
package objects
