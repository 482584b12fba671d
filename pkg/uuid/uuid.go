package uuid

import "github.com/segmentio/ksuid"

// NewUUID returns a new sortable unique id.
func NewUUID() string {
	return ksuid.New().String()
}
