package v1

import (
	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/infrastructure/longpoll"
)

// ErrorResponse represents the JSON body of a failed request
type ErrorResponse struct {
	Message string `json:"message"`
}

// ObjectUpdateRequest represents the body of PUT /objects/:id
type ObjectUpdateRequest struct {
	Name     string                 `json:"name"`
	Group    string                 `json:"group"`
	Metadata []objects.MetadataView `json:"metadata"`
}

// ToDomain converts the request into an object update
func (r *ObjectUpdateRequest) ToDomain() *objects.ObjectUpdate {
	return &objects.ObjectUpdate{
		Name:     r.Name,
		Group:    r.Group,
		Metadata: objects.MetadataFromViews(r.Metadata),
	}
}

// GroupAlterationRequest represents the body of POST /groups and PUT /groups/:id
type GroupAlterationRequest struct {
	Name     string                 `json:"name"`
	Metadata []objects.MetadataView `json:"metadata"`
}

// ToDomain converts the request into a group alteration
func (r *GroupAlterationRequest) ToDomain() *objects.GroupAlteration {
	return &objects.GroupAlteration{
		Name:     r.Name,
		Metadata: objects.MetadataFromViews(r.Metadata),
	}
}

// PollResponse is the result of a long-polling request. Cursor is passed as
// the after parameter of the next poll.
type PollResponse struct {
	Events []longpoll.Event `json:"events"`
	Cursor uint64           `json:"cursor"`
}
