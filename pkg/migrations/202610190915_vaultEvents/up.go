package _202610190915_vaultEvents

import (
	"database/sql"
	"fmt"

	"github.com/Layr-Labs/stake-vault/pkg/migrations/columnTypes"
	"gorm.io/gorm"
)

type Migration struct {
}

func (m *Migration) Up(db *sql.DB, grm *gorm.DB) error {
	query := fmt.Sprintf(`create table if not exists vault_events (
			%s,
			event_name varchar not null,
			account varchar not null default '',
			amount varchar not null default '0',
			reward varchar not null default '0',
			timestamp bigint not null,
			created_at %s default current_timestamp
		)`, columnTypes.AutoIncrementId(grm), columnTypes.Timestamp(grm))

	if res := grm.Exec(query); res.Error != nil {
		return res.Error
	}
	return nil
}

func (m *Migration) GetName() string {
	return "202610190915_vaultEvents"
}
