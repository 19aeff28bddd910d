package table

type PersistTable interface {
	Load(code string) (*Snapshot, error)
	Save(code string, snapshot *Snapshot) error
	Remove(code string) error
}

// NotFoundError is returned by Load when no snapshot exists for the code.
type NotFoundError struct {
	Code string
}

func (e NotFoundError) Error() string {
	return "Table snapshot for Key: " + e.Code + " is not found"
}
