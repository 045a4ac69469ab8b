// Package rpcTypes holds the JSON request and response bodies of the vault HTTP API.
// Token amounts are always base-10 strings of base units.
package rpcTypes

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type VaultResponse struct {
	Token            string `json:"token"`
	Owner            string `json:"owner"`
	Address          string `json:"address"`
	RateNumerator    uint64 `json:"rateNumerator"`
	RateDenominator  uint64 `json:"rateDenominator"`
	LockupDuration   uint64 `json:"lockupDuration"`
	StakingDuration  uint64 `json:"stakingDuration"`
	StakingStarted   bool   `json:"stakingStarted"`
	StakingStartedAt uint64 `json:"stakingStartedAt"`
	UnlocksAt        uint64 `json:"unlocksAt"`
	TotalDeposited   string `json:"totalDeposited"`
	TotalRewardsPaid string `json:"totalRewardsPaid"`
	VaultBalance     string `json:"vaultBalance"`
	RewardReserve    string `json:"rewardReserve"`
	Timestamp        uint64 `json:"timestamp"`
}

type StateRootResponse struct {
	Root       string `json:"root"`
	StakeCount int    `json:"stakeCount"`
	Timestamp  uint64 `json:"timestamp"`
}

type StakeResponse struct {
	Account          string `json:"account"`
	Principal        string `json:"principal"`
	PendingReward    string `json:"pendingReward,omitempty"`
	AccruedReward    string `json:"accruedReward"`
	RewardCheckpoint uint64 `json:"rewardCheckpoint"`
	ClaimedTotal     string `json:"claimedTotal"`
}

type ListStakesResponse struct {
	Stakes []*StakeResponse `json:"stakes"`
}

type EventResponse struct {
	Id        uint64 `json:"id"`
	Name      string `json:"name"`
	Account   string `json:"account,omitempty"`
	Amount    string `json:"amount"`
	Reward    string `json:"reward"`
	Timestamp uint64 `json:"timestamp"`
}

type ListEventsResponse struct {
	Events []*EventResponse `json:"events"`
}

type DepositRequest struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

type AccountRequest struct {
	Account string `json:"account"`
}

type StartStakingRequest struct {
	Caller string `json:"caller"`
}

type StartStakingResponse struct {
	StartedAt uint64 `json:"startedAt"`
}

type TransferOwnershipRequest struct {
	Caller   string `json:"caller"`
	NewOwner string `json:"newOwner"`
}

type ClaimResponse struct {
	Account string `json:"account"`
	Reward  string `json:"reward"`
}

type WithdrawResponse struct {
	Account   string `json:"account"`
	Principal string `json:"principal"`
	Reward    string `json:"reward"`
	Total     string `json:"total"`
}

type ApproveRequest struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type TransferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type BalanceResponse struct {
	Account        string `json:"account"`
	Balance        string `json:"balance"`
	VaultAllowance string `json:"vaultAllowance"`
}

type OkResponse struct {
	Ok bool `json:"ok"`
}
