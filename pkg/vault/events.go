package vault

import (
	"math/big"

	"github.com/Layr-Labs/stake-vault/pkg/eventBus/eventBusTypes"
	"github.com/Layr-Labs/stake-vault/pkg/storage"
	"github.com/ethereum/go-ethereum/common"
)

const (
	EventDeposit        = "Deposit"
	EventStartStaking   = "StartStaking"
	EventRewardsClaimed = "RewardsClaimed"
	EventWithdraw       = "Withdraw"
)

type VaultEvent interface {
	EventType() string
}

type DepositEvent struct {
	Account   common.Address `json:"account"`
	Amount    *big.Int       `json:"amount"`
	Timestamp uint64         `json:"timestamp"`
}

func (DepositEvent) EventType() string { return EventDeposit }

type StartStakingEvent struct {
	StartedAt uint64 `json:"startedAt"`
}

func (StartStakingEvent) EventType() string { return EventStartStaking }

type RewardsClaimedEvent struct {
	Account   common.Address `json:"account"`
	Reward    *big.Int       `json:"reward"`
	Timestamp uint64         `json:"timestamp"`
}

func (RewardsClaimedEvent) EventType() string { return EventRewardsClaimed }

type WithdrawEvent struct {
	Account   common.Address `json:"account"`
	Principal *big.Int       `json:"principal"`
	Reward    *big.Int       `json:"reward"`
	Timestamp uint64         `json:"timestamp"`
}

func (WithdrawEvent) EventType() string { return EventWithdraw }

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// toRecord flattens an event into its persisted notification row.
func toRecord(ev VaultEvent) *storage.VaultEvent {
	switch e := ev.(type) {
	case *DepositEvent:
		return &storage.VaultEvent{EventName: EventDeposit, Account: addressKey(e.Account), Amount: bigString(e.Amount), Reward: "0", Timestamp: e.Timestamp}
	case *StartStakingEvent:
		return &storage.VaultEvent{EventName: EventStartStaking, Amount: "0", Reward: "0", Timestamp: e.StartedAt}
	case *RewardsClaimedEvent:
		return &storage.VaultEvent{EventName: EventRewardsClaimed, Account: addressKey(e.Account), Amount: "0", Reward: bigString(e.Reward), Timestamp: e.Timestamp}
	case *WithdrawEvent:
		return &storage.VaultEvent{EventName: EventWithdraw, Account: addressKey(e.Account), Amount: bigString(e.Principal), Reward: bigString(e.Reward), Timestamp: e.Timestamp}
	}
	return nil
}

func toBusEvent(ev VaultEvent) *eventBusTypes.Event {
	return &eventBusTypes.Event{
		Name: ev.EventType(),
		Data: ev,
	}
}
