package table

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const createSnapshotTable = `CREATE TABLE IF NOT EXISTS table_snapshot (
	code TEXT PRIMARY KEY,
	snapshot BYTEA NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT NOW()
)`

// PostgresTableTracker stores snapshots in the table_snapshot table.
type PostgresTableTracker struct {
	db *sqlx.DB
}

func NewPostgresTableTracker(db *sqlx.DB) (*PostgresTableTracker, error) {
	_, err := db.Exec(createSnapshotTable)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create table_snapshot table")
	}
	return &PostgresTableTracker{db: db}, nil
}

func (p *PostgresTableTracker) Load(code string) (*Snapshot, error) {
	var snapshotBytes []byte
	err := p.db.Get(&snapshotBytes, "SELECT snapshot FROM table_snapshot WHERE code = $1", code)
	if err == sql.ErrNoRows {
		return nil, NotFoundError{Code: code}
	} else if err != nil {
		return nil, errors.Wrap(err, "sqlx Get returned an error")
	}
	return UnmarshalSnapshot(snapshotBytes)
}

func (p *PostgresTableTracker) Save(code string, snapshot *Snapshot) error {
	snapshotBytes, err := snapshot.Marshal()
	if err != nil {
		return err
	}
	_, err = p.db.Exec(`INSERT INTO table_snapshot (code, snapshot, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (code) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = NOW()`, code, snapshotBytes)
	if err != nil {
		return errors.Wrapf(err, "Unable to save snapshot for table %s", code)
	}
	return nil
}

func (p *PostgresTableTracker) Remove(code string) error {
	_, err := p.db.Exec("DELETE FROM table_snapshot WHERE code = $1", code)
	if err != nil {
		return errors.Wrapf(err, "Unable to remove snapshot for table %s", code)
	}
	return nil
}
