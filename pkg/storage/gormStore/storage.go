package gormStore

import (
	"errors"
	"strings"

	"github.com/Layr-Labs/stake-vault/pkg/postgres/helpers"
	"github.com/Layr-Labs/stake-vault/pkg/storage"
	pkgErrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const vaultStateId = 1

// GormVaultStore implements storage.VaultStore on top of any gorm dialect the
// migrations support (postgres and sqlite).
type GormVaultStore struct {
	Db     *gorm.DB
	Logger *zap.Logger

	// tx is set when the store is bound to an open transaction
	tx *gorm.DB
}

func NewGormVaultStore(db *gorm.DB, l *zap.Logger) *GormVaultStore {
	return &GormVaultStore{
		Db:     db,
		Logger: l,
	}
}

func (s *GormVaultStore) conn() *gorm.DB {
	if s.tx != nil {
		return s.tx
	}
	return s.Db
}

func (s *GormVaultStore) Transaction(fn func(tx storage.VaultStore) error) error {
	_, err := helpers.WrapTxAndCommit[interface{}](func(tx *gorm.DB) (interface{}, error) {
		bound := &GormVaultStore{
			Db:     s.Db,
			Logger: s.Logger,
			tx:     tx,
		}
		return nil, fn(bound)
	}, s.Db, s.tx)
	return err
}

func (s *GormVaultStore) InitializeVaultState(state *storage.VaultState) (*storage.VaultState, error) {
	existing, err := s.GetVaultState()
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrVaultNotInitialized) {
		return nil, err
	}

	state.Id = vaultStateId
	state.TokenAddress = strings.ToLower(state.TokenAddress)
	state.OwnerAddress = strings.ToLower(state.OwnerAddress)
	state.VaultAddress = strings.ToLower(state.VaultAddress)
	if state.TotalDeposited == "" {
		state.TotalDeposited = "0"
	}
	if state.TotalRewardsPaid == "" {
		state.TotalRewardsPaid = "0"
	}

	res := s.conn().Model(&storage.VaultState{}).Create(state)
	if res.Error != nil {
		return nil, pkgErrors.Wrap(res.Error, "failed to initialize vault state")
	}
	s.Logger.Sugar().Infow("Initialized vault state",
		zap.String("token", state.TokenAddress),
		zap.String("owner", state.OwnerAddress),
		zap.String("vault", state.VaultAddress),
	)
	return state, nil
}

func (s *GormVaultStore) GetVaultState() (*storage.VaultState, error) {
	var state storage.VaultState
	res := s.conn().Model(&storage.VaultState{}).Where("id = ?", vaultStateId).First(&state)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, storage.ErrVaultNotInitialized
		}
		return nil, pkgErrors.Wrap(res.Error, "failed to fetch vault state")
	}
	return &state, nil
}

func (s *GormVaultStore) UpdateVaultState(state *storage.VaultState) error {
	state.Id = vaultStateId
	res := s.conn().Model(&storage.VaultState{}).
		Where("id = ?", vaultStateId).
		Select("*").
		Omit("created_at").
		Updates(state)
	if res.Error != nil {
		return pkgErrors.Wrap(res.Error, "failed to update vault state")
	}
	if res.RowsAffected == 0 {
		return storage.ErrVaultNotInitialized
	}
	return nil
}

func (s *GormVaultStore) GetStake(account string) (*storage.Stake, error) {
	var stake storage.Stake
	res := s.conn().Model(&storage.Stake{}).Where("account = ?", strings.ToLower(account)).Limit(1).Find(&stake)
	if res.Error != nil {
		return nil, pkgErrors.Wrapf(res.Error, "failed to fetch stake for '%s'", account)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &stake, nil
}

func (s *GormVaultStore) SaveStake(stake *storage.Stake) error {
	stake.Account = strings.ToLower(stake.Account)
	res := s.conn().Model(&storage.Stake{}).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"principal",
				"accrued_reward",
				"reward_checkpoint",
				"claimed_total",
				"updated_at",
			}),
		}).
		Create(stake)
	if res.Error != nil {
		return pkgErrors.Wrapf(res.Error, "failed to save stake for '%s'", stake.Account)
	}
	return nil
}

func (s *GormVaultStore) ListStakes() ([]*storage.Stake, error) {
	stakes := make([]*storage.Stake, 0)
	res := s.conn().Model(&storage.Stake{}).Order("account asc").Find(&stakes)
	if res.Error != nil {
		return nil, pkgErrors.Wrap(res.Error, "failed to list stakes")
	}
	return stakes, nil
}

func (s *GormVaultStore) InsertEvent(event *storage.VaultEvent) (*storage.VaultEvent, error) {
	event.Account = strings.ToLower(event.Account)
	res := s.conn().Model(&storage.VaultEvent{}).Create(event)
	if res.Error != nil {
		return nil, pkgErrors.Wrapf(res.Error, "failed to insert '%s' event", event.EventName)
	}
	return event, nil
}

func (s *GormVaultStore) ListEvents(filter *storage.EventFilter) ([]*storage.VaultEvent, error) {
	query := s.conn().Model(&storage.VaultEvent{})
	if filter != nil {
		if filter.Account != "" {
			query = query.Where("account = ?", strings.ToLower(filter.Account))
		}
		if filter.EventName != "" {
			query = query.Where("event_name = ?", filter.EventName)
		}
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
	}

	events := make([]*storage.VaultEvent, 0)
	res := query.Order("id asc").Find(&events)
	if res.Error != nil {
		return nil, pkgErrors.Wrap(res.Error, "failed to list events")
	}
	return events, nil
}
