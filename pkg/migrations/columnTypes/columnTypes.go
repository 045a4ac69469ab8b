package columnTypes

import "gorm.io/gorm"

const sqliteDialect = "sqlite"

// Timestamp is a timestamp column type both drivers scan back into time.Time.
// The sqlite driver only parses DATETIME, DATE and TIMESTAMP declarations.
func Timestamp(grm *gorm.DB) string {
	if grm.Dialector.Name() == sqliteDialect {
		return "datetime"
	}
	return "timestamp with time zone"
}

// AutoIncrementId is an auto incrementing bigint primary key column.
func AutoIncrementId(grm *gorm.DB) string {
	if grm.Dialector.Name() == sqliteDialect {
		return "id integer primary key autoincrement"
	}
	return "id bigserial primary key"
}
