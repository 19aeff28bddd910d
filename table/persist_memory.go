package table

import "sync"

type MemoryTableTracker struct {
	activeTables map[string][]byte
	lock         sync.Mutex
}

func NewMemoryTableTracker() (*MemoryTableTracker, error) {
	return &MemoryTableTracker{
		activeTables: make(map[string][]byte),
	}, nil
}

func (m *MemoryTableTracker) Load(code string) (*Snapshot, error) {
	m.lock.Lock()
	snapshotBytes, ok := m.activeTables[code]
	m.lock.Unlock()
	if !ok {
		return nil, NotFoundError{Code: code}
	}
	return UnmarshalSnapshot(snapshotBytes)
}

func (m *MemoryTableTracker) Save(code string, snapshot *Snapshot) error {
	snapshotBytes, err := snapshot.Marshal()
	if err != nil {
		return err
	}
	m.lock.Lock()
	m.activeTables[code] = snapshotBytes
	m.lock.Unlock()
	return nil
}

func (m *MemoryTableTracker) Remove(code string) error {
	m.lock.Lock()
	delete(m.activeTables, code)
	m.lock.Unlock()
	return nil
}
