package rpcServer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/Layr-Labs/stake-vault/pkg/accessGuard"
	"github.com/Layr-Labs/stake-vault/pkg/ledger"
	"github.com/Layr-Labs/stake-vault/pkg/rpcServer/rpcTypes"
	"github.com/Layr-Labs/stake-vault/pkg/vault"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

var (
	errInvalidAddress  = errors.New("invalid address")
	errInvalidBody     = errors.New("invalid request body")
	errMalformedAmount = errors.New("amount is not a base-10 integer")
	errVaultCustody    = errors.New("vault custody can only be moved by vault operations")
)

type statusMapping struct {
	err    error
	status int
	code   string
}

// First match wins. Vault errors are listed before the ledger causes they wrap.
var errorStatuses = []statusMapping{
	{vault.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{vault.ErrInvalidAccount, http.StatusBadRequest, "invalid_account"},
	{errInvalidAddress, http.StatusBadRequest, "invalid_address"},
	{errInvalidBody, http.StatusBadRequest, "invalid_body"},
	{errMalformedAmount, http.StatusBadRequest, "invalid_amount"},
	{vault.ErrNotOwner, http.StatusForbidden, "not_owner"},
	{errVaultCustody, http.StatusForbidden, "vault_custody"},
	{vault.ErrAlreadyStarted, http.StatusConflict, "already_started"},
	{vault.ErrStillLocked, http.StatusConflict, "still_locked"},
	{vault.ErrNothingStaked, http.StatusConflict, "nothing_staked"},
	{vault.ErrInsufficientReserve, http.StatusUnprocessableEntity, "insufficient_reserve"},
	{vault.ErrTransferFailed, http.StatusUnprocessableEntity, "transfer_failed"},
	{ledger.ErrInsufficientBalance, http.StatusUnprocessableEntity, "insufficient_balance"},
	{ledger.ErrInsufficientAllowance, http.StatusUnprocessableEntity, "insufficient_allowance"},
	{ledger.ErrNegativeAmount, http.StatusBadRequest, "invalid_amount"},
	{ledger.ErrOverflow, http.StatusBadRequest, "invalid_amount"},
	{ledger.ErrZeroAddress, http.StatusBadRequest, "invalid_address"},
	{accessGuard.ErrInvalidAddress, http.StatusBadRequest, "invalid_address"},
}

func (rpc *RpcServer) writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		rpc.Logger.Sugar().Errorw("Failed to encode response", zap.Error(err))
	}
}

func (rpc *RpcServer) writeError(w http.ResponseWriter, err error) {
	for _, m := range errorStatuses {
		if errors.Is(err, m.err) {
			rpc.writeJson(w, m.status, &rpcTypes.ErrorResponse{Error: err.Error(), Code: m.code})
			return
		}
	}
	rpc.Logger.Sugar().Errorw("Unhandled rpc error", zap.Error(err))
	rpc.writeJson(w, http.StatusInternalServerError, &rpcTypes.ErrorResponse{Error: err.Error(), Code: "internal"})
}

func decodeBody(r *http.Request, into any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	return nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: '%s'", errInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", errMalformedAmount, s)
	}
	return v, nil
}
