package sqlite

import "fmt"

// dbFileName is the SQLite database created inside the data directory.
const dbFileName = "coinshelf.db"

// createRecordsTable is the DDL for the inventory table. Decimal columns are
// TEXT so values round-trip exactly.
const createRecordsTable = `CREATE TABLE IF NOT EXISTS %[1]s (
    coin_type TEXT NOT NULL,
    year INTEGER NOT NULL,
    silver_ounces TEXT NOT NULL,
    value_per_coin TEXT NOT NULL,
    num_coins INTEGER NOT NULL CHECK (num_coins >= 0),
    photo TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (coin_type, year)
);`

const tableExistsQuery = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`

// statements holds the table-specific SQL, rendered once on Attach.
type statements struct {
	create string
	get    string
	put    string
	update string
	delete string
	scan   string
}

// newStatements renders the SQL for table. The name has already been checked
// by Config.Validate, so it is safe to interpolate.
func newStatements(table string) statements {
	return statements{
		create: fmt.Sprintf(createRecordsTable, table),
		get: fmt.Sprintf(`SELECT coin_type, year, silver_ounces, value_per_coin, num_coins, photo
FROM %s WHERE coin_type = ? AND year = ?`, table),
		put: fmt.Sprintf(`INSERT OR REPLACE INTO %s
(coin_type, year, silver_ounces, value_per_coin, num_coins, photo) VALUES (?, ?, ?, ?, ?, ?)`, table),
		update: fmt.Sprintf(`UPDATE %s SET num_coins = ? WHERE coin_type = ? AND year = ?`, table),
		delete: fmt.Sprintf(`DELETE FROM %s WHERE coin_type = ? AND year = ?`, table),
		scan: fmt.Sprintf(`SELECT coin_type, year, silver_ounces, value_per_coin, num_coins, photo
FROM %s ORDER BY coin_type, year`, table),
	}
}
