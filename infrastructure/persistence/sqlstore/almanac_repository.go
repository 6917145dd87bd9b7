// Package sqlstore keeps the almanac in a relational database reached through
// database/sql. SQLite, PostgreSQL and MySQL share one schema; dates and
// instants are stored as fixed-width text so that string order is time order.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kimtaewoo9/mansereok/domain/core/entities"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// instantLayout orders lexicographically.
const instantLayout = "2006-01-02 15:04:05"

const selectColumns = `SELECT solar_date, lunar_date, leap_month, season, season_start_time,
	year_sky, year_ground, month_sky, month_ground, day_sky, day_ground FROM manses`

// AlmanacRepository implements the almanac ports on a SQL database.
type AlmanacRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *zap.Logger
}

// Open connects to dsn with the dialect's driver and ensures the schema.
func Open(ctx context.Context, dialect Dialect, dsn string, logger *zap.Logger) (*AlmanacRepository, error) {
	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dialect.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s database: %w", dialect.Name, err)
	}
	if dialect.Name == SQLite.Name {
		// A single writer avoids SQLITE_BUSY; reads are served from memory pages.
		db.SetMaxOpenConns(1)
	}

	repo := NewAlmanacRepository(db, dialect, logger)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewAlmanacRepository wraps an open database.
func NewAlmanacRepository(db *sql.DB, dialect Dialect, logger *zap.Logger) *AlmanacRepository {
	return &AlmanacRepository{
		db:      db,
		dialect: dialect,
		logger:  logger.Named("sql_almanac"),
	}
}

// Migrate creates the manses table and its indexes if they are missing.
func (r *AlmanacRepository) Migrate(ctx context.Context) error {
	for _, stmt := range r.dialect.schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return pkgerrors.NewDatabaseError("migrate", err)
		}
	}
	return nil
}

// Close closes the database.
func (r *AlmanacRepository) Close() error {
	return r.db.Close()
}

// Ping checks the connection, for readiness probes.
func (r *AlmanacRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// FindBySolarDate returns the record of a civil date.
func (r *AlmanacRepository) FindBySolarDate(ctx context.Context, date time.Time) (*entities.AlmanacRecord, error) {
	key := vo.DateOf(date).Format(vo.DateLayout)
	return r.queryOne(ctx, "solar date "+key,
		selectColumns+` WHERE solar_date = ?`, key)
}

// FindByLunarDate returns the record of a lunar date, regular month first.
func (r *AlmanacRepository) FindByLunarDate(ctx context.Context, date vo.LunarDate) (*entities.AlmanacRecord, error) {
	return r.queryOne(ctx, "lunar date "+date.String(),
		selectColumns+` WHERE lunar_date = ? ORDER BY leap_month ASC LIMIT 1`, date.String())
}

// FindEarliestCutoverAtOrAfter returns the first cutover >= instant.
func (r *AlmanacRepository) FindEarliestCutoverAtOrAfter(ctx context.Context, instant time.Time) (*entities.AlmanacRecord, error) {
	key := instant.Format(instantLayout)
	return r.queryOne(ctx, "cutover at or after "+key,
		selectColumns+` WHERE season_start_time IS NOT NULL AND season_start_time >= ?
			ORDER BY season_start_time ASC LIMIT 1`, key)
}

// FindLatestCutoverAtOrBefore returns the last cutover <= instant.
func (r *AlmanacRepository) FindLatestCutoverAtOrBefore(ctx context.Context, instant time.Time) (*entities.AlmanacRecord, error) {
	key := instant.Format(instantLayout)
	return r.queryOne(ctx, "cutover at or before "+key,
		selectColumns+` WHERE season_start_time IS NOT NULL AND season_start_time <= ?
			ORDER BY season_start_time DESC LIMIT 1`, key)
}

// SaveBatch upserts records inside one transaction.
func (r *AlmanacRepository) SaveBatch(ctx context.Context, records []*entities.AlmanacRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return pkgerrors.NewDatabaseError("begin", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, r.dialect.Rebind(r.dialect.upsert))
	if err != nil {
		return pkgerrors.NewDatabaseError("prepare upsert", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rowArgs(rec)...); err != nil {
			return pkgerrors.NewDatabaseError("upsert "+rec.SolarDate.Format(vo.DateLayout), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return pkgerrors.NewDatabaseError("commit", err)
	}

	r.logger.Debug("Saved almanac batch", zap.Int("records", len(records)))
	return nil
}

// Count returns the number of stored records.
func (r *AlmanacRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM manses`).Scan(&n); err != nil {
		return 0, pkgerrors.NewDatabaseError("count", err)
	}
	return n, nil
}

func (r *AlmanacRepository) queryOne(ctx context.Context, what, query string, args ...interface{}) (*entities.AlmanacRecord, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), args...)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.NewDataNotFoundError("no almanac record for " + what)
	}
	if err != nil {
		if pkgerrors.IsAppError(err) {
			return nil, err
		}
		return nil, pkgerrors.NewDatabaseError("query "+what, err)
	}
	return rec, nil
}

func rowArgs(rec *entities.AlmanacRecord) []interface{} {
	leap := 0
	if rec.LeapMonth {
		leap = 1
	}
	var season, start sql.NullString
	if rec.SolarTerm != "" {
		season = sql.NullString{String: rec.SolarTerm, Valid: true}
	}
	if rec.CutoverAt != nil {
		start = sql.NullString{String: rec.CutoverAt.Format(instantLayout), Valid: true}
	}
	return []interface{}{
		rec.SolarDate.Format(vo.DateLayout),
		rec.LunarDate.String(),
		leap,
		season,
		start,
		rec.Year.Stem().Glyph(), rec.Year.Branch().Glyph(),
		rec.Month.Stem().Glyph(), rec.Month.Branch().Glyph(),
		rec.Day.Stem().Glyph(), rec.Day.Branch().Glyph(),
	}
}

func scanRecord(row *sql.Row) (*entities.AlmanacRecord, error) {
	var (
		solar, lunar          string
		leap                  int
		season, start         sql.NullString
		ys, yg, ms, mg, ds, dg string
	)
	if err := row.Scan(&solar, &lunar, &leap, &season, &start, &ys, &yg, &ms, &mg, &ds, &dg); err != nil {
		return nil, err
	}

	rec := &entities.AlmanacRecord{LeapMonth: leap != 0, SolarTerm: season.String}
	var err error
	if rec.SolarDate, err = vo.ParseSolarDate(solar); err != nil {
		return nil, corrupt(solar, err)
	}
	if rec.LunarDate, err = vo.ParseLunarDate(lunar); err != nil {
		return nil, corrupt(solar, err)
	}
	if start.Valid {
		at, err := time.Parse(instantLayout, start.String)
		if err != nil {
			return nil, corrupt(solar, err)
		}
		rec.CutoverAt = &at
	}
	if rec.Year, err = codeOf(ys, yg); err != nil {
		return nil, corrupt(solar, err)
	}
	if rec.Month, err = codeOf(ms, mg); err != nil {
		return nil, corrupt(solar, err)
	}
	if rec.Day, err = codeOf(ds, dg); err != nil {
		return nil, corrupt(solar, err)
	}
	return rec, nil
}

func codeOf(stem, branch string) (vo.StemBranch, error) {
	return vo.ParseStemBranch(stem + branch)
}

func corrupt(key string, err error) error {
	return pkgerrors.NewConfigurationError("corrupt almanac row " + key).WithCause(err)
}
