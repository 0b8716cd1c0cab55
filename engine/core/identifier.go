package core

import (
	"fmt"
	"sync"
)

var (
	owners     []interface{}
	ownersLock sync.Mutex
)

// IdentifierAquireNewID hands out the lowest free id. Scene nodes use it as
// their stable identity, so two live nodes never share one.
func IdentifierAquireNewID(owner interface{}) uint32 {
	ownersLock.Lock()
	defer ownersLock.Unlock()

	if len(owners) == 0 {
		owners = make([]interface{}, 100)
	}
	length := uint32(len(owners))
	for i := uint32(0); i < length; i++ {
		// Existing free spot. Take it.
		if owners[i] == nil {
			owners[i] = owner
			return i
		}
	}

	// If here, no existing free slots. Need a new id, so push one.
	owners = append(owners, owner)
	return uint32(len(owners)) - 1
}

func IdentifierReleaseID(id uint32) error {
	ownersLock.Lock()
	defer ownersLock.Unlock()

	if len(owners) == 0 {
		return fmt.Errorf("IdentifierReleaseID called before IdentifierAquireNewID. Nothing was done")
	}

	length := uint32(len(owners))
	if id >= length {
		return fmt.Errorf("IdentifierReleaseID: id '%d' out of range (max=%d). Nothing was done", id, length)
	}

	// Just zero out the entry, making it available for use.
	owners[id] = nil
	return nil
}
