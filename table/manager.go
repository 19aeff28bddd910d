package table

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/jmoiron/sqlx"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/pkg/errors"
	"voyager.com/settable/logging"
	"voyager.com/settable/util"
)

var managerLogger = logging.GetZeroLogger("table::manager", nil)

// Manager keeps one Table per running round.
type Manager struct {
	config       Config
	persist      PersistTable
	activeTables cmap.ConcurrentMap

	// final snapshots of the recently ended rounds
	finished *lru.Cache
}

func NewTableManager(config Config, persist PersistTable, finishedCacheSize int) (*Manager, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "Invalid table config")
	}
	if persist == nil {
		persist, _ = NewMemoryTableTracker()
	}
	finished, err := lru.New(finishedCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize finished rounds cache")
	}
	return &Manager{
		config:       config,
		persist:      persist,
		activeTables: cmap.New(),
		finished:     finished,
	}, nil
}

// CreateTableManager picks the persistence method from the environment.
func CreateTableManager(config Config) (*Manager, error) {
	var persist PersistTable
	var err error
	persistMethod := util.Env.GetPersistMethod()
	switch persistMethod {
	case "redis":
		persist = NewRedisTableTracker(util.Env.GetRedisURL(), util.Env.GetRedisPW(), util.Env.GetRedisDB())
	case "postgres":
		db, e := sqlx.Connect("postgres", util.Env.GetPostgresConnStr())
		if e != nil {
			return nil, errors.Wrap(e, "Unable to connect to postgres")
		}
		persist, err = NewPostgresTableTracker(db)
	case "memory":
		persist, err = NewMemoryTableTracker()
	default:
		return nil, fmt.Errorf("Unknown persist method [%s]", persistMethod)
	}
	if err != nil {
		return nil, err
	}
	managerLogger.Info().Msgf("Using %s persistence", persistMethod)
	return NewTableManager(config, persist, 100)
}

func (m *Manager) Config() Config {
	return m.config
}

// NewCode returns a fresh table code.
func NewCode() string {
	return uuid.New().String()
}

// NewRound registers a new empty table under a fresh code.
func (m *Manager) NewRound(display Display, matcher Matcher) (*Table, error) {
	return m.NewRoundWithCode(NewCode(), display, matcher)
}

// NewRoundWithCode is NewRound for callers that need the code before the
// table exists, to build a display for it.
func (m *Manager) NewRoundWithCode(code string, display Display, matcher Matcher) (*Table, error) {
	t, err := NewTable(code, m.config, display, matcher)
	if err != nil {
		return nil, err
	}
	if !m.activeTables.SetIfAbsent(code, t) {
		return nil, ActiveTableError{Code: code}
	}
	util.Metrics.SetActiveTables(m.activeTables.Count())
	managerLogger.Info().Str(logging.TableCodeKey, code).Msg("New round started")
	return t, nil
}

func (m *Manager) Get(code string) (*Table, bool) {
	v, ok := m.activeTables.Get(code)
	if !ok {
		return nil, false
	}
	return v.(*Table), true
}

func (m *Manager) Codes() []string {
	codes := m.activeTables.Keys()
	sort.Strings(codes)
	return codes
}

// Save persists the current state of an active table.
func (m *Manager) Save(code string) error {
	t, ok := m.Get(code)
	if !ok {
		return NotFoundError{Code: code}
	}
	err := m.persist.Save(code, t.Snapshot())
	if err != nil {
		return errors.Wrapf(err, "Unable to save table %s", code)
	}
	return nil
}

// Restore loads a persisted table and registers it as active. A table
// that is still active under the code is left alone.
func (m *Manager) Restore(code string, display Display, matcher Matcher) (*Table, error) {
	if _, active := m.Get(code); active {
		return nil, ActiveTableError{Code: code}
	}
	snapshot, err := m.persist.Load(code)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to load table %s", code)
	}
	t, err := NewTableFromSnapshot(snapshot, display, matcher)
	if err != nil {
		return nil, err
	}
	if !m.activeTables.SetIfAbsent(code, t) {
		return nil, ActiveTableError{Code: code}
	}
	util.Metrics.SetActiveTables(m.activeTables.Count())
	managerLogger.Info().Str(logging.TableCodeKey, code).Msgf("Restored table with %d cards", t.CountCards())
	return t, nil
}

// EndRound unregisters the table, drops its persisted state and keeps the
// final snapshot in the finished cache.
func (m *Manager) EndRound(code string) (*Snapshot, error) {
	v, ok := m.activeTables.Pop(code)
	if !ok {
		return nil, NotFoundError{Code: code}
	}
	util.Metrics.SetActiveTables(m.activeTables.Count())
	snapshot := v.(*Table).Snapshot()
	m.finished.Add(code, snapshot)
	err := m.persist.Remove(code)
	if err != nil {
		managerLogger.Error().Str(logging.TableCodeKey, code).Msgf("Unable to remove persisted table: %v", err)
	}
	managerLogger.Info().Str(logging.TableCodeKey, code).Msg("Round ended")
	return snapshot, nil
}

func (m *Manager) Finished(code string) (*Snapshot, bool) {
	v, ok := m.finished.Get(code)
	if !ok {
		return nil, false
	}
	return v.(*Snapshot), true
}
