package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
	"github.com/pkg/errors"

	"bsid.es/despertador"
	"bsid.es/despertador/sqlite/migration"
)

// Store persists definitions and instances in an SQLite database.
type Store struct {
	pool *sqlitex.Pool
}

var (
	_ despertador.InstanceStore   = (*Store)(nil)
	_ despertador.DefinitionStore = (*Store)(nil)
)

// Open opens (or creates) the database at path and migrates its schema.
func Open(ctx context.Context, path string, poolSize int) (*Store, error) {
	if poolSize <= 0 {
		poolSize = 4
	}
	pool, err := sqlitex.Open(path, 0, poolSize)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	s := &Store{pool: pool}

	conn, put, err := s.conn(ctx)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer put()
	if err := Migrate(conn, migration.Scripts); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "migrate")
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.pool.Close()
}

func (s *Store) conn(ctx context.Context) (*sqlite.Conn, func(), error) {
	conn := s.pool.Get(ctx)
	if conn == nil {
		return nil, nil, errors.Wrap(ctx.Err(), "get connection")
	}
	return conn, func() { s.pool.Put(conn) }, nil
}

const instanceColumns = `id, definition_id, year, month, day, hour, minute, state,
	label, ringtone, snooze, crescendo, volume, vibration, missed_repeat_limit,
	auto_silence, alert_time, snooze_count, missed_at, missed_notifications, updated_at`

func (s *Store) Get(ctx context.Context, id string) (*despertador.Instance, error) {
	insts, err := s.queryInstances(ctx, "select "+instanceColumns+" from instances where id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(insts) == 0 {
		return nil, despertador.Errorf(despertador.ErrNotFound, "instance %s not found", id)
	}
	return insts[0], nil
}

func (s *Store) Put(ctx context.Context, inst *despertador.Instance) error {
	conn, put, err := s.conn(ctx)
	if err != nil {
		return err
	}
	defer put()

	err = sqlitex.Exec(conn, `insert or replace into instances (`+instanceColumns+`)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, nil,
		inst.ID,
		inst.DefinitionID,
		inst.Year,
		int(inst.Month),
		inst.Day,
		inst.Hour,
		inst.Minute,
		inst.State.String(),
		inst.Label,
		inst.Ringtone,
		int64(inst.Snooze),
		int64(inst.Crescendo),
		inst.Volume,
		inst.Vibration,
		inst.MissedRepeatLimit,
		int64(inst.AutoSilence),
		unixNano(inst.AlertTime),
		inst.SnoozeCount,
		unixNano(inst.MissedAt),
		inst.MissedNotifications,
		unixNano(inst.UpdatedAt),
	)
	return errors.Wrapf(err, "put instance %s", inst.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	conn, put, err := s.conn(ctx)
	if err != nil {
		return err
	}
	defer put()
	err = sqlitex.Exec(conn, "delete from instances where id = ?", nil, id)
	return errors.Wrapf(err, "delete instance %s", id)
}

func (s *Store) QueryByDefinition(ctx context.Context, definitionID string) ([]*despertador.Instance, error) {
	return s.queryInstances(ctx,
		"select "+instanceColumns+" from instances where definition_id = ? order by alert_time, id",
		definitionID)
}

func (s *Store) QueryActive(ctx context.Context) ([]*despertador.Instance, error) {
	return s.queryInstances(ctx,
		"select "+instanceColumns+" from instances where state not in (?, ?) order by alert_time, id",
		despertador.Dismissed.String(), despertador.Predismissed.String())
}

func (s *Store) queryInstances(ctx context.Context, query string, args ...any) ([]*despertador.Instance, error) {
	conn, put, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer put()

	var out []*despertador.Instance
	err = sqlitex.Exec(conn, query, func(stmt *sqlite.Stmt) error {
		inst, err := scanInstance(stmt)
		if err != nil {
			return err
		}
		out = append(out, inst)
		return nil
	}, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query instances")
	}
	return out, nil
}

func scanInstance(stmt *sqlite.Stmt) (*despertador.Instance, error) {
	state, err := despertador.ParseAlarmState(stmt.ColumnText(7))
	if err != nil {
		return nil, err
	}
	return &despertador.Instance{
		ID:                  stmt.ColumnText(0),
		DefinitionID:        stmt.ColumnText(1),
		Year:                stmt.ColumnInt(2),
		Month:               time.Month(stmt.ColumnInt(3)),
		Day:                 stmt.ColumnInt(4),
		Hour:                stmt.ColumnInt(5),
		Minute:              stmt.ColumnInt(6),
		State:               state,
		Label:               stmt.ColumnText(8),
		Ringtone:            stmt.ColumnText(9),
		Snooze:              time.Duration(stmt.ColumnInt64(10)),
		Crescendo:           time.Duration(stmt.ColumnInt64(11)),
		Volume:              stmt.ColumnFloat(12),
		Vibration:           stmt.ColumnText(13),
		MissedRepeatLimit:   stmt.ColumnInt(14),
		AutoSilence:         time.Duration(stmt.ColumnInt64(15)),
		AlertTime:           fromUnixNano(stmt.ColumnInt64(16)),
		SnoozeCount:         stmt.ColumnInt(17),
		MissedAt:            fromUnixNano(stmt.ColumnInt64(18)),
		MissedNotifications: stmt.ColumnInt(19),
		UpdatedAt:           fromUnixNano(stmt.ColumnInt64(20)),
	}, nil
}

const definitionColumns = `id, enabled, hour, minute, days, year, month, day,
	label, ringtone, delete_after_fire, overrides`

func (s *Store) GetDefinition(ctx context.Context, id string) (*despertador.Definition, error) {
	defs, err := s.queryDefinitions(ctx, "select "+definitionColumns+" from definitions where id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, despertador.Errorf(despertador.ErrNotFound, "definition %s not found", id)
	}
	return defs[0], nil
}

func (s *Store) ListDefinitions(ctx context.Context) ([]*despertador.Definition, error) {
	return s.queryDefinitions(ctx, "select "+definitionColumns+" from definitions order by hour, minute, id")
}

func (s *Store) PutDefinition(ctx context.Context, def *despertador.Definition) error {
	overrides, err := json.Marshal(def.Overrides)
	if err != nil {
		return errors.Wrap(err, "encode overrides")
	}

	conn, put, err := s.conn(ctx)
	if err != nil {
		return err
	}
	defer put()

	err = sqlitex.Exec(conn, `insert or replace into definitions (`+definitionColumns+`)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, nil,
		def.ID,
		boolInt(def.Enabled),
		def.Hour,
		def.Minute,
		int(def.Days),
		def.Year,
		int(def.Month),
		def.Day,
		def.Label,
		def.Ringtone,
		boolInt(def.DeleteAfterFire),
		string(overrides),
	)
	return errors.Wrapf(err, "put definition %s", def.ID)
}

// DeleteDefinition removes the definition. Its instances are left to the
// coordinator, which retires them first.
func (s *Store) DeleteDefinition(ctx context.Context, id string) error {
	conn, put, err := s.conn(ctx)
	if err != nil {
		return err
	}
	defer put()
	err = sqlitex.Exec(conn, "delete from definitions where id = ?", nil, id)
	return errors.Wrapf(err, "delete definition %s", id)
}

func (s *Store) queryDefinitions(ctx context.Context, query string, args ...any) ([]*despertador.Definition, error) {
	conn, put, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer put()

	var out []*despertador.Definition
	err = sqlitex.Exec(conn, query, func(stmt *sqlite.Stmt) error {
		def := &despertador.Definition{
			ID:              stmt.ColumnText(0),
			Enabled:         stmt.ColumnInt(1) != 0,
			Hour:            stmt.ColumnInt(2),
			Minute:          stmt.ColumnInt(3),
			Days:            despertador.Weekdays(stmt.ColumnInt(4)),
			Year:            stmt.ColumnInt(5),
			Month:           time.Month(stmt.ColumnInt(6)),
			Day:             stmt.ColumnInt(7),
			Label:           stmt.ColumnText(8),
			Ringtone:        stmt.ColumnText(9),
			DeleteAfterFire: stmt.ColumnInt(10) != 0,
		}
		if err := json.Unmarshal([]byte(stmt.ColumnText(11)), &def.Overrides); err != nil {
			return errors.Wrapf(err, "decode overrides of %s", def.ID)
		}
		out = append(out, def)
		return nil
	}, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query definitions")
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
