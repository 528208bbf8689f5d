package objects

import "time"

// ObjectView is the external representation of a StorageObject, used in API
// responses and long-polling event payloads.
type ObjectView struct {
	ID            string         `json:"id"`
	CreationTime  time.Time      `json:"creationTime"`
	Name          string         `json:"name"`
	Group         string         `json:"group"`
	Encrypted     bool           `json:"encrypted"`
	Digest        string         `json:"digest"`
	ContentType   string         `json:"contentType"`
	ContentLength int64          `json:"contentLength"`
	Metadata      []MetadataView `json:"metadata"`
	Accesses      []AccessView   `json:"accesses"`
}

// GroupView is the external representation of a StorageObjectGroup.
type GroupView struct {
	ID             string         `json:"id"`
	CreationTime   time.Time      `json:"creationTime"`
	Name           string         `json:"name"`
	StorageObjects []ObjectView   `json:"storageObjects"`
	Metadata       []MetadataView `json:"metadata"`
}

// MetadataView is the external representation of a MetadataProperty.
type MetadataView struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// AccessView is the external representation of a StorageObjectAccess.
type AccessView struct {
	ID            string    `json:"id"`
	Time          time.Time `json:"time"`
	StorageObject string    `json:"storageObject"`
}

// NewObjectView converts o into its view.
func NewObjectView(o *StorageObject) ObjectView {
	accesses := make([]AccessView, len(o.Accesses))
	for i := range o.Accesses {
		accesses[i] = NewAccessView(&o.Accesses[i])
	}

	return ObjectView{
		ID:            o.ID,
		CreationTime:  o.CreationTime,
		Name:          o.Name,
		Group:         o.GroupID,
		Encrypted:     o.Encrypted,
		Digest:        o.Digest,
		ContentType:   o.ContentType,
		ContentLength: o.ContentLength,
		Metadata:      NewMetadataViews(o.Metadata),
		Accesses:      accesses,
	}
}

// NewObjectViews converts a list of objects.
func NewObjectViews(objs []*StorageObject) []ObjectView {
	views := make([]ObjectView, len(objs))
	for i, o := range objs {
		views[i] = NewObjectView(o)
	}
	return views
}

// NewGroupView converts g into its view, including its objects.
func NewGroupView(g *StorageObjectGroup) GroupView {
	return GroupView{
		ID:             g.ID,
		CreationTime:   g.CreationTime,
		Name:           g.Name,
		StorageObjects: NewObjectViews(g.StorageObjects),
		Metadata:       NewMetadataViews(g.Metadata),
	}
}

// NewGroupViews converts a list of groups.
func NewGroupViews(groups []*StorageObjectGroup) []GroupView {
	views := make([]GroupView, len(groups))
	for i, g := range groups {
		views[i] = NewGroupView(g)
	}
	return views
}

// NewMetadataViews converts metadata properties.
func NewMetadataViews(metadata []MetadataProperty) []MetadataView {
	views := make([]MetadataView, len(metadata))
	for i, m := range metadata {
		views[i] = MetadataView{Property: m.Property, Value: m.Value}
	}
	return views
}

// MetadataFromViews converts metadata views back into (unpersisted) properties.
func MetadataFromViews(views []MetadataView) []MetadataProperty {
	metadata := make([]MetadataProperty, len(views))
	for i, v := range views {
		metadata[i] = MetadataProperty{Property: v.Property, Value: v.Value}
	}
	return metadata
}

// NewAccessView converts a StorageObjectAccess.
func NewAccessView(a *StorageObjectAccess) AccessView {
	return AccessView{ID: a.ID, Time: a.Time, StorageObject: a.ObjectID}
}
