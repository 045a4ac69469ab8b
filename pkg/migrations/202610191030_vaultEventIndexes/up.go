package _202610191030_vaultEventIndexes

import (
	"database/sql"

	"gorm.io/gorm"
)

type Migration struct {
}

func (m *Migration) Up(db *sql.DB, grm *gorm.DB) error {
	queries := []string{
		`create index if not exists idx_vault_events_account on vault_events (account)`,
		`create index if not exists idx_vault_events_event_name on vault_events (event_name)`,
	}
	for _, query := range queries {
		if res := grm.Exec(query); res.Error != nil {
			return res.Error
		}
	}
	return nil
}

func (m *Migration) GetName() string {
	return "202610191030_vaultEventIndexes"
}
