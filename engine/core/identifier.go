package core

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	ownersMu sync.Mutex
	owners   = map[uuid.UUID]interface{}{}
)

// IdentifierAcquireNewID hands out a fresh identifier bound to owner.
// Identifiers are never reused within a process.
func IdentifierAcquireNewID(owner interface{}) uuid.UUID {
	ownersMu.Lock()
	defer ownersMu.Unlock()

	for {
		id := uuid.New()
		if _, taken := owners[id]; !taken {
			owners[id] = owner
			return id
		}
	}
}

func IdentifierReleaseID(id uuid.UUID) error {
	ownersMu.Lock()
	defer ownersMu.Unlock()

	if _, ok := owners[id]; !ok {
		return fmt.Errorf("identifier_release_id: id '%s' is not held. Nothing was done", id)
	}
	delete(owners, id)
	return nil
}

// IdentifierOwner returns the owner registered for id, if it is still held.
func IdentifierOwner(id uuid.UUID) (interface{}, bool) {
	ownersMu.Lock()
	defer ownersMu.Unlock()

	o, ok := owners[id]
	return o, ok
}
