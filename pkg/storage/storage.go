package storage

import (
	"errors"
	"time"
)

var ErrVaultNotInitialized = errors.New("vault state has not been initialized")

// VaultStore persists the vault's bookkeeping.
type VaultStore interface {
	// InitializeVaultState stores the given state unless one already exists, in which
	// case the existing state is returned untouched.
	InitializeVaultState(state *VaultState) (*VaultState, error)
	GetVaultState() (*VaultState, error)
	UpdateVaultState(state *VaultState) error

	// GetStake returns nil and no error for an account that never deposited.
	GetStake(account string) (*Stake, error)
	SaveStake(stake *Stake) error
	ListStakes() ([]*Stake, error)

	InsertEvent(event *VaultEvent) (*VaultEvent, error)
	ListEvents(filter *EventFilter) ([]*VaultEvent, error)

	// Transaction runs fn against a store bound to a single database transaction.
	// Returning an error from fn rolls back every write made through tx.
	Transaction(fn func(tx VaultStore) error) error
}

type EventFilter struct {
	Account   string
	EventName string
	Limit     int
}

// Tables.
type VaultState struct {
	Id               uint64 `gorm:"primaryKey;autoIncrement:false"`
	TokenAddress     string
	OwnerAddress     string
	VaultAddress     string
	RateNumerator    uint64
	RateDenominator  uint64
	LockupDuration   uint64
	StakingDuration  uint64
	StakingStarted   bool
	StakingStartedAt uint64
	TotalDeposited   string
	TotalRewardsPaid string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (VaultState) TableName() string {
	return "vault_state"
}

type Stake struct {
	Account          string    `gorm:"primaryKey" csv:"account"`
	Principal        string    `csv:"principal"`
	AccruedReward    string    `csv:"accrued_reward"`
	RewardCheckpoint uint64    `csv:"reward_checkpoint"`
	ClaimedTotal     string    `csv:"claimed_total"`
	CreatedAt        time.Time `csv:"-"`
	UpdatedAt        time.Time `csv:"-"`
}

func (Stake) TableName() string {
	return "stakes"
}

type VaultEvent struct {
	Id        uint64    `gorm:"primaryKey" csv:"id"`
	EventName string    `csv:"event_name"`
	Account   string    `csv:"account"`
	Amount    string    `csv:"amount"`
	Reward    string    `csv:"reward"`
	Timestamp uint64    `csv:"timestamp"`
	CreatedAt time.Time `csv:"-"`
}

func (VaultEvent) TableName() string {
	return "vault_events"
}
