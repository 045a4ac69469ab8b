package _202610190900_vaultTables

import (
	"database/sql"
	"fmt"

	"github.com/Layr-Labs/stake-vault/pkg/migrations/columnTypes"
	"gorm.io/gorm"
)

type Migration struct {
}

func (m *Migration) Up(db *sql.DB, grm *gorm.DB) error {
	ts := columnTypes.Timestamp(grm)
	queries := []string{
		fmt.Sprintf(`create table if not exists vault_state (
			id bigint not null primary key,
			token_address varchar not null,
			owner_address varchar not null,
			vault_address varchar not null,
			rate_numerator bigint not null,
			rate_denominator bigint not null,
			lockup_duration bigint not null,
			staking_duration bigint not null default 0,
			staking_started boolean not null default false,
			staking_started_at bigint not null default 0,
			total_deposited varchar not null default '0',
			total_rewards_paid varchar not null default '0',
			created_at %[1]s default current_timestamp,
			updated_at %[1]s default null
		)`, ts),
		fmt.Sprintf(`create table if not exists stakes (
			account varchar not null primary key,
			principal varchar not null default '0',
			accrued_reward varchar not null default '0',
			reward_checkpoint bigint not null default 0,
			claimed_total varchar not null default '0',
			created_at %[1]s default current_timestamp,
			updated_at %[1]s default null
		)`, ts),
	}
	for _, query := range queries {
		if res := grm.Exec(query); res.Error != nil {
			return res.Error
		}
	}
	return nil
}

func (m *Migration) GetName() string {
	return "202610190900_vaultTables"
}
