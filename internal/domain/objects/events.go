package objects

// Long-polling event groups.
const (
	EventObjectAccessed    = "storage-object-accessed"
	EventObjectCreated     = "storage-object-created"
	EventObjectUpdated     = "storage-object-updated"
	EventObjectOverwritten = "storage-object-overwritten"
	EventObjectDeleted     = "storage-object-deleted"

	EventGroupCreated = "storage-object-group-created"
	EventGroupUpdated = "storage-object-group-updated"
	EventGroupDeleted = "storage-object-group-deleted"
)

// EventGroups lists every group events are published to.
var EventGroups = []string{
	EventObjectAccessed,
	EventObjectCreated,
	EventObjectUpdated,
	EventObjectOverwritten,
	EventObjectDeleted,
	EventGroupCreated,
	EventGroupUpdated,
	EventGroupDeleted,
}
