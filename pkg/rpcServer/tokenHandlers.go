package rpcServer

import (
	"fmt"
	"net/http"

	"github.com/Layr-Labs/stake-vault/pkg/rpcServer/rpcTypes"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (rpc *RpcServer) GetBalance(w http.ResponseWriter, r *http.Request) {
	account, err := parseAddress(chi.URLParam(r, "account"))
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	balance, err := rpc.ledger.BalanceOf(account)
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	allowance, err := rpc.ledger.Allowance(account, rpc.vault.Address())
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	rpc.writeJson(w, http.StatusOK, &rpcTypes.BalanceResponse{
		Account:        account.String(),
		Balance:        balance.String(),
		VaultAllowance: allowance.String(),
	})
}

func (rpc *RpcServer) Approve(w http.ResponseWriter, r *http.Request) {
	req := &rpcTypes.ApproveRequest{}
	if err := decodeBody(r, req); err != nil {
		rpc.writeError(w, err)
		return
	}
	owner, err := parseAddress(req.Owner)
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	if err := rpc.requireNotCustody(owner); err != nil {
		rpc.writeError(w, err)
		return
	}
	// the vault is the usual spender so it may be left out
	spender := rpc.vault.Address()
	if req.Spender != "" {
		if spender, err = parseAddress(req.Spender); err != nil {
			rpc.writeError(w, err)
			return
		}
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		rpc.writeError(w, err)
		return
	}

	if err := rpc.ledger.Approve(owner, spender, amount); err != nil {
		rpc.writeError(w, err)
		return
	}
	rpc.Logger.Sugar().Infow("Approved spender",
		zap.String("owner", owner.String()),
		zap.String("spender", spender.String()),
		zap.String("amount", formatted(amount)),
	)
	rpc.writeJson(w, http.StatusOK, &rpcTypes.OkResponse{Ok: true})
}

func (rpc *RpcServer) Transfer(w http.ResponseWriter, r *http.Request) {
	req := &rpcTypes.TransferRequest{}
	if err := decodeBody(r, req); err != nil {
		rpc.writeError(w, err)
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	if err := rpc.requireNotCustody(from); err != nil {
		rpc.writeError(w, err)
		return
	}
	to, err := parseAddress(req.To)
	if err != nil {
		rpc.writeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		rpc.writeError(w, err)
		return
	}

	if err := rpc.ledger.Transfer(from, to, amount); err != nil {
		rpc.writeError(w, err)
		return
	}
	rpc.Logger.Sugar().Infow("Transferred tokens",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.String("amount", formatted(amount)),
	)
	rpc.writeJson(w, http.StatusOK, &rpcTypes.OkResponse{Ok: true})
}

// requireNotCustody rejects token calls acting on behalf of the vault address.
func (rpc *RpcServer) requireNotCustody(account common.Address) error {
	if account == rpc.vault.Address() {
		return fmt.Errorf("%w: %s", errVaultCustody, account.String())
	}
	return nil
}
