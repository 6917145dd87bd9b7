package sqlstore

import (
	"fmt"
	"strconv"
	"strings"

	// Drivers register themselves with database/sql.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect captures the SQL differences between the supported databases.
type Dialect struct {
	Name       string
	DriverName string
	numbered   bool
	schema     []string
	upsert     string
}

var columns = []string{
	"solar_date", "lunar_date", "leap_month", "season", "season_start_time",
	"year_sky", "year_ground", "month_sky", "month_ground", "day_sky", "day_ground",
}

const createTable = `CREATE TABLE IF NOT EXISTS manses (
	solar_date        VARCHAR(10) NOT NULL PRIMARY KEY,
	lunar_date        VARCHAR(10) NOT NULL,
	leap_month        SMALLINT    NOT NULL DEFAULT 0,
	season            VARCHAR(16),
	season_start_time VARCHAR(19),
	year_sky          VARCHAR(4)  NOT NULL,
	year_ground       VARCHAR(4)  NOT NULL,
	month_sky         VARCHAR(4)  NOT NULL,
	month_ground      VARCHAR(4)  NOT NULL,
	day_sky           VARCHAR(4)  NOT NULL,
	day_ground        VARCHAR(4)  NOT NULL%s
)`

var (
	SQLite = Dialect{
		Name:       "sqlite",
		DriverName: "sqlite",
		schema: []string{
			fmt.Sprintf(createTable, ""),
			`CREATE INDEX IF NOT EXISTS idx_manses_lunar ON manses (lunar_date, leap_month)`,
			`CREATE INDEX IF NOT EXISTS idx_manses_season_start ON manses (season_start_time)`,
		},
		upsert: onConflictUpsert(),
	}

	Postgres = Dialect{
		Name:       "postgres",
		DriverName: "postgres",
		numbered:   true,
		schema: []string{
			fmt.Sprintf(createTable, ""),
			`CREATE INDEX IF NOT EXISTS idx_manses_lunar ON manses (lunar_date, leap_month)`,
			`CREATE INDEX IF NOT EXISTS idx_manses_season_start ON manses (season_start_time)`,
		},
		upsert: onConflictUpsert(),
	}

	// MySQL has no CREATE INDEX IF NOT EXISTS, so the indexes are inline.
	MySQL = Dialect{
		Name:       "mysql",
		DriverName: "mysql",
		schema: []string{
			fmt.Sprintf(createTable, `,
	INDEX idx_manses_lunar (lunar_date, leap_month),
	INDEX idx_manses_season_start (season_start_time)`) + ` DEFAULT CHARSET=utf8mb4`,
		},
		upsert: duplicateKeyUpsert(),
	}
)

// DialectFor returns the dialect named by the configuration.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	}
	return Dialect{}, fmt.Errorf("unsupported SQL dialect %q", name)
}

// Rebind rewrites ? placeholders into the dialect's form.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func insertPrefix() string {
	return "INSERT INTO manses (" + strings.Join(columns, ", ") + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
}

func onConflictUpsert() string {
	sets := make([]string, 0, len(columns)-1)
	for _, c := range columns[1:] {
		sets = append(sets, c+" = excluded."+c)
	}
	return insertPrefix() + " ON CONFLICT (solar_date) DO UPDATE SET " + strings.Join(sets, ", ")
}

func duplicateKeyUpsert() string {
	sets := make([]string, 0, len(columns)-1)
	for _, c := range columns[1:] {
		sets = append(sets, c+" = VALUES("+c+")")
	}
	return insertPrefix() + " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
}
