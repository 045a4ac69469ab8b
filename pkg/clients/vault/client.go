package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Layr-Labs/stake-vault/pkg/rpcServer/rpcTypes"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// APIError is returned for any non-2xx response from the vault API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vault api error (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

type VaultClient struct {
	baseUrl    string
	httpClient *http.Client
	Logger     *zap.Logger
}

func NewVaultClient(baseUrl string, hc *http.Client, l *zap.Logger) *VaultClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &VaultClient{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		httpClient: hc,
		Logger:     l,
	}
}

func (vc *VaultClient) do(ctx context.Context, method string, path string, body any, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request body")
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, vc.baseUrl+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := vc.httpClient.Do(req)
	if err != nil {
		vc.Logger.Sugar().Errorw("Failed to perform vault request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer res.Body.Close()

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: res.StatusCode, Message: res.Status}
		parsed := &rpcTypes.ErrorResponse{}
		if json.Unmarshal(bodyBytes, parsed) == nil && parsed.Error != "" {
			apiErr.Code = parsed.Code
			apiErr.Message = parsed.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return errors.Wrapf(err, "failed to parse response from %s", path)
	}
	return nil
}

func (vc *VaultClient) Health(ctx context.Context) (*rpcTypes.HealthResponse, error) {
	res := &rpcTypes.HealthResponse{}
	return res, vc.do(ctx, http.MethodGet, "/health", nil, res)
}

func (vc *VaultClient) GetVault(ctx context.Context) (*rpcTypes.VaultResponse, error) {
	res := &rpcTypes.VaultResponse{}
	return res, vc.do(ctx, http.MethodGet, "/v1/vault", nil, res)
}

func (vc *VaultClient) GetStateRoot(ctx context.Context) (*rpcTypes.StateRootResponse, error) {
	res := &rpcTypes.StateRootResponse{}
	return res, vc.do(ctx, http.MethodGet, "/v1/vault/state-root", nil, res)
}

func (vc *VaultClient) ListStakes(ctx context.Context) ([]*rpcTypes.StakeResponse, error) {
	res := &rpcTypes.ListStakesResponse{}
	if err := vc.do(ctx, http.MethodGet, "/v1/stakes", nil, res); err != nil {
		return nil, err
	}
	return res.Stakes, nil
}

func (vc *VaultClient) GetStake(ctx context.Context, account common.Address) (*rpcTypes.StakeResponse, error) {
	res := &rpcTypes.StakeResponse{}
	return res, vc.do(ctx, http.MethodGet, "/v1/stakes/"+account.String(), nil, res)
}

type ListEventsOptions struct {
	Name    string
	Account common.Address
	Limit   int
}

func (vc *VaultClient) ListEvents(ctx context.Context, opts *ListEventsOptions) ([]*rpcTypes.EventResponse, error) {
	path := "/v1/events"
	if opts != nil {
		q := url.Values{}
		if opts.Name != "" {
			q.Set("name", opts.Name)
		}
		if opts.Account != (common.Address{}) {
			q.Set("account", opts.Account.String())
		}
		if opts.Limit > 0 {
			q.Set("limit", strconv.Itoa(opts.Limit))
		}
		if len(q) > 0 {
			path = path + "?" + q.Encode()
		}
	}

	res := &rpcTypes.ListEventsResponse{}
	if err := vc.do(ctx, http.MethodGet, path, nil, res); err != nil {
		return nil, err
	}
	return res.Events, nil
}

func (vc *VaultClient) Deposit(ctx context.Context, account common.Address, amount *big.Int) (*rpcTypes.StakeResponse, error) {
	res := &rpcTypes.StakeResponse{}
	return res, vc.do(ctx, http.MethodPost, "/v1/deposit", &rpcTypes.DepositRequest{
		Account: account.String(),
		Amount:  amount.String(),
	}, res)
}

func (vc *VaultClient) StartStaking(ctx context.Context, caller common.Address) (uint64, error) {
	res := &rpcTypes.StartStakingResponse{}
	if err := vc.do(ctx, http.MethodPost, "/v1/staking/start", &rpcTypes.StartStakingRequest{Caller: caller.String()}, res); err != nil {
		return 0, err
	}
	return res.StartedAt, nil
}

func (vc *VaultClient) ClaimRewards(ctx context.Context, account common.Address) (*big.Int, error) {
	res := &rpcTypes.ClaimResponse{}
	if err := vc.do(ctx, http.MethodPost, "/v1/claim", &rpcTypes.AccountRequest{Account: account.String()}, res); err != nil {
		return nil, err
	}
	return parseBig(res.Reward)
}

func (vc *VaultClient) WithdrawAll(ctx context.Context, account common.Address) (*rpcTypes.WithdrawResponse, error) {
	res := &rpcTypes.WithdrawResponse{}
	return res, vc.do(ctx, http.MethodPost, "/v1/withdraw", &rpcTypes.AccountRequest{Account: account.String()}, res)
}

func (vc *VaultClient) TransferOwnership(ctx context.Context, caller, newOwner common.Address) error {
	return vc.do(ctx, http.MethodPost, "/v1/ownership/transfer", &rpcTypes.TransferOwnershipRequest{
		Caller:   caller.String(),
		NewOwner: newOwner.String(),
	}, nil)
}

func (vc *VaultClient) Approve(ctx context.Context, owner, spender common.Address, amount *big.Int) error {
	req := &rpcTypes.ApproveRequest{Owner: owner.String(), Amount: amount.String()}
	if spender != (common.Address{}) {
		req.Spender = spender.String()
	}
	return vc.do(ctx, http.MethodPost, "/v1/token/approve", req, nil)
}

func (vc *VaultClient) Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error {
	return vc.do(ctx, http.MethodPost, "/v1/token/transfer", &rpcTypes.TransferRequest{
		From:   from.String(),
		To:     to.String(),
		Amount: amount.String(),
	}, nil)
}

func (vc *VaultClient) BalanceOf(ctx context.Context, account common.Address) (*rpcTypes.BalanceResponse, error) {
	res := &rpcTypes.BalanceResponse{}
	return res, vc.do(ctx, http.MethodGet, "/v1/token/balances/"+account.String(), nil, res)
}

func parseBig(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("invalid amount '%s' in response", s)
	}
	return v, nil
}
