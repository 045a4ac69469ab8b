package rpcServer

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/Layr-Labs/stake-vault/pkg/rpcServer/rpcTypes"
	"github.com/Layr-Labs/stake-vault/pkg/storage"
	"github.com/Layr-Labs/stake-vault/pkg/types/numbers"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
)

func (rpc *RpcServer) GetVault(w http.ResponseWriter, r *http.Request) {
	info, err := rpc.vault.Info()
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	rpc.writeJson(w, http.StatusOK, &rpcTypes.VaultResponse{
		Token:            info.Token.String(),
		Owner:            info.Owner.String(),
		Address:          info.Address.String(),
		RateNumerator:    info.Rate.Numerator,
		RateDenominator:  info.Rate.Denominator,
		LockupDuration:   info.LockupDuration,
		StakingDuration:  info.StakingDuration,
		StakingStarted:   info.StakingStarted,
		StakingStartedAt: info.StakingStartedAt,
		UnlocksAt:        info.UnlocksAt,
		TotalDeposited:   info.TotalDeposited.String(),
		TotalRewardsPaid: info.TotalRewardsPaid.String(),
		VaultBalance:     info.VaultBalance.String(),
		RewardReserve:    info.RewardReserve.String(),
		Timestamp:        info.Now,
	})
}

func (rpc *RpcServer) GetStateRoot(w http.ResponseWriter, r *http.Request) {
	root, err := rpc.vault.StateRoot()
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	rpc.writeJson(w, http.StatusOK, &rpcTypes.StateRootResponse{
		Root:       root.Root,
		StakeCount: root.StakeCount,
		Timestamp:  root.Timestamp,
	})
}

func convertStake(stake *storage.Stake) *rpcTypes.StakeResponse {
	return &rpcTypes.StakeResponse{
		Account:          common.HexToAddress(stake.Account).String(),
		Principal:        stake.Principal,
		AccruedReward:    stake.AccruedReward,
		RewardCheckpoint: stake.RewardCheckpoint,
		ClaimedTotal:     stake.ClaimedTotal,
	}
}

func (rpc *RpcServer) ListStakes(w http.ResponseWriter, r *http.Request) {
	stakes, err := rpc.vault.Stakes()
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	res := &rpcTypes.ListStakesResponse{Stakes: make([]*rpcTypes.StakeResponse, 0, len(stakes))}
	for _, s := range stakes {
		res.Stakes = append(res.Stakes, convertStake(s))
	}
	rpc.writeJson(w, http.StatusOK, res)
}

// GetStake answers for any address; accounts that never deposited report zero principal.
func (rpc *RpcServer) GetStake(w http.ResponseWriter, r *http.Request) {
	account, err := parseAddress(chi.URLParam(r, "account"))
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	stake, err := rpc.vault.Stake(account)
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	pending, err := rpc.vault.RewardOf(account)
	if err != nil {
		rpc.writeError(w, err)
		return
	}

	res := convertStake(stake)
	res.Account = account.String()
	res.PendingReward = pending.String()
	for _, v := range []*string{&res.Principal, &res.AccruedReward, &res.ClaimedTotal} {
		if *v == "" {
			*v = "0"
		}
	}
	rpc.writeJson(w, http.StatusOK, res)
}

func (rpc *RpcServer) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &storage.EventFilter{EventName: q.Get("name")}

	if a := q.Get("account"); a != "" {
		account, err := parseAddress(a)
		if err != nil {
			rpc.writeError(w, err)
			return
		}
		filter.Account = account.String()
	}
	if l := q.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 0 {
			rpc.writeJson(w, http.StatusBadRequest, &rpcTypes.ErrorResponse{Error: "limit must be a non-negative integer", Code: "invalid_limit"})
			return
		}
		filter.Limit = limit
	}

	events, err := rpc.vault.Events(filter)
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	res := &rpcTypes.ListEventsResponse{Events: make([]*rpcTypes.EventResponse, 0, len(events))}
	for _, e := range events {
		ev := &rpcTypes.EventResponse{
			Id:        e.Id,
			Name:      e.EventName,
			Amount:    e.Amount,
			Reward:    e.Reward,
			Timestamp: e.Timestamp,
		}
		if e.Account != "" {
			ev.Account = common.HexToAddress(e.Account).String()
		}
		res.Events = append(res.Events, ev)
	}
	rpc.writeJson(w, http.StatusOK, res)
}

func (rpc *RpcServer) Deposit(w http.ResponseWriter, r *http.Request) {
	req := &rpcTypes.DepositRequest{}
	if err := decodeBody(r, req); err != nil {
		rpc.writeError(w, err)
		return
	}
	account, err := parseAddress(req.Account)
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		rpc.writeError(w, err)
		return
	}

	if err := rpc.vault.Deposit(account, amount); err != nil {
		rpc.writeError(w, err)
		return
	}
	staked, err := rpc.vault.AmountStaked(account)
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	rpc.writeJson(w, http.StatusOK, &rpcTypes.StakeResponse{
		Account:   account.String(),
		Principal: staked.String(),
	})
}

func (rpc *RpcServer) StartStaking(w http.ResponseWriter, r *http.Request) {
	req := &rpcTypes.StartStakingRequest{}
	if err := decodeBody(r, req); err != nil {
		rpc.writeError(w, err)
		return
	}
	caller, err := parseAddress(req.Caller)
	if err != nil {
		rpc.writeError(w, err)
		return
	}

	startedAt, err := rpc.vault.StartStaking(caller)
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	rpc.writeJson(w, http.StatusOK, &rpcTypes.StartStakingResponse{StartedAt: startedAt})
}

func (rpc *RpcServer) decodeAccount(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	req := &rpcTypes.AccountRequest{}
	if err := decodeBody(r, req); err != nil {
		rpc.writeError(w, err)
		return common.Address{}, false
	}
	account, err := parseAddress(req.Account)
	if err != nil {
		rpc.writeError(w, err)
		return common.Address{}, false
	}
	return account, true
}

func (rpc *RpcServer) ClaimRewards(w http.ResponseWriter, r *http.Request) {
	account, ok := rpc.decodeAccount(w, r)
	if !ok {
		return
	}
	reward, err := rpc.vault.ClaimRewards(account)
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	rpc.writeJson(w, http.StatusOK, &rpcTypes.ClaimResponse{
		Account: account.String(),
		Reward:  reward.String(),
	})
}

func (rpc *RpcServer) WithdrawAll(w http.ResponseWriter, r *http.Request) {
	account, ok := rpc.decodeAccount(w, r)
	if !ok {
		return
	}
	result, err := rpc.vault.WithdrawAll(account)
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	rpc.writeJson(w, http.StatusOK, &rpcTypes.WithdrawResponse{
		Account:   account.String(),
		Principal: result.Principal.String(),
		Reward:    result.Reward.String(),
		Total:     result.Total().String(),
	})
}

func (rpc *RpcServer) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	req := &rpcTypes.TransferOwnershipRequest{}
	if err := decodeBody(r, req); err != nil {
		rpc.writeError(w, err)
		return
	}
	caller, err := parseAddress(req.Caller)
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	newOwner, err := parseAddress(req.NewOwner)
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	if err := rpc.vault.TransferOwnership(caller, newOwner); err != nil {
		rpc.writeError(w, err)
		return
	}
	rpc.writeJson(w, http.StatusOK, &rpcTypes.OkResponse{Ok: true})
}

// formatted is used in log lines only.
func formatted(v *big.Int) string {
	return numbers.FormatUnits(v, numbers.TokenDecimals)
}
