package ledger

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"go.uber.org/zap"
)

var (
	balancePrefix   = []byte("b/")
	allowancePrefix = []byte("a/")
	totalSupplyKey  = []byte("s")
)

type TokenConfig struct {
	Address  common.Address
	Symbol   string
	Decimals int32
}

// Token is an ERC20 style balance sheet persisted in leveldb.
type Token struct {
	db     *leveldb.DB
	config *TokenConfig
	logger *zap.Logger
	mu     sync.Mutex
}

func NewLevelDBToken(path string, cfg *TokenConfig, l *zap.Logger) (*Token, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb token store: %w", err)
	}
	return newToken(db, cfg, l), nil
}

func NewInMemoryToken(cfg *TokenConfig, l *zap.Logger) (*Token, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open in-memory token store: %w", err)
	}
	return newToken(db, cfg, l), nil
}

func newToken(db *leveldb.DB, cfg *TokenConfig, l *zap.Logger) *Token {
	return &Token{
		db:     db,
		config: cfg,
		logger: l,
	}
}

func (t *Token) Close() error {
	return t.db.Close()
}

func (t *Token) Address() common.Address {
	return t.config.Address
}

func (t *Token) Symbol() string {
	return t.config.Symbol
}

func (t *Token) Decimals() int32 {
	return t.config.Decimals
}

func balanceKey(account common.Address) []byte {
	return append(append([]byte{}, balancePrefix...), account.Bytes()...)
}

func allowanceKey(owner, spender common.Address) []byte {
	key := append(append([]byte{}, allowancePrefix...), owner.Bytes()...)
	return append(key, spender.Bytes()...)
}

func toUint256(amount *big.Int) (*uint256.Int, error) {
	if amount == nil {
		return new(uint256.Int), nil
	}
	if amount.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	v, overflow := uint256.FromBig(amount)
	if overflow {
		return nil, ErrOverflow
	}
	return v, nil
}

func (t *Token) read(key []byte) (*uint256.Int, error) {
	raw, err := t.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(raw), nil
}

func putUint(batch *leveldb.Batch, key []byte, v *uint256.Int) {
	b := v.Bytes32()
	batch.Put(key, b[:])
}

func (t *Token) BalanceOf(account common.Address) (*big.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, err := t.read(balanceKey(account))
	if err != nil {
		return nil, err
	}
	return v.ToBig(), nil
}

func (t *Token) TotalSupply() (*big.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, err := t.read(totalSupplyKey)
	if err != nil {
		return nil, err
	}
	return v.ToBig(), nil
}

func (t *Token) Allowance(owner, spender common.Address) (*big.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, err := t.read(allowanceKey(owner, spender))
	if err != nil {
		return nil, err
	}
	return v.ToBig(), nil
}

// Mint credits new tokens to an account, growing the total supply.
func (t *Token) Mint(to common.Address, amount *big.Int) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	v, err := toUint256(amount)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	supply, err := t.read(totalSupplyKey)
	if err != nil {
		return err
	}
	bal, err := t.read(balanceKey(to))
	if err != nil {
		return err
	}
	newSupply, overflow := new(uint256.Int).AddOverflow(supply, v)
	if overflow {
		return ErrOverflow
	}
	newBal := new(uint256.Int).Add(bal, v)

	batch := new(leveldb.Batch)
	putUint(batch, totalSupplyKey, newSupply)
	putUint(batch, balanceKey(to), newBal)
	if err := t.db.Write(batch, nil); err != nil {
		return err
	}
	t.logger.Sugar().Debugw("Minted tokens",
		zap.String("to", to.String()),
		zap.String("amount", v.Dec()),
	)
	return nil
}

func (t *Token) Approve(owner, spender common.Address, amount *big.Int) error {
	if owner == (common.Address{}) || spender == (common.Address{}) {
		return ErrZeroAddress
	}
	v, err := toUint256(amount)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	batch := new(leveldb.Batch)
	putUint(batch, allowanceKey(owner, spender), v)
	return t.db.Write(batch, nil)
}

func (t *Token) Transfer(from, to common.Address, amount *big.Int) error {
	v, err := toUint256(amount)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	batch := new(leveldb.Batch)
	if err := t.move(batch, from, to, v); err != nil {
		return err
	}
	return t.db.Write(batch, nil)
}

func (t *Token) TransferFrom(spender, from, to common.Address, amount *big.Int) error {
	v, err := toUint256(amount)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	batch := new(leveldb.Batch)
	if spender != from {
		allowance, err := t.read(allowanceKey(from, spender))
		if err != nil {
			return err
		}
		if allowance.Lt(v) {
			return fmt.Errorf("%w: have %s, need %s", ErrInsufficientAllowance, allowance.Dec(), v.Dec())
		}
		putUint(batch, allowanceKey(from, spender), new(uint256.Int).Sub(allowance, v))
	}
	if err := t.move(batch, from, to, v); err != nil {
		return err
	}
	return t.db.Write(batch, nil)
}

// move stages a balance transfer into batch. Caller holds t.mu.
func (t *Token) move(batch *leveldb.Batch, from, to common.Address, v *uint256.Int) error {
	if from == (common.Address{}) || to == (common.Address{}) {
		return ErrZeroAddress
	}
	fromBal, err := t.read(balanceKey(from))
	if err != nil {
		return err
	}
	if fromBal.Lt(v) {
		return fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, fromBal.Dec(), v.Dec())
	}
	if from == to {
		return nil
	}
	toBal, err := t.read(balanceKey(to))
	if err != nil {
		return err
	}
	newTo, overflow := new(uint256.Int).AddOverflow(toBal, v)
	if overflow {
		return ErrOverflow
	}
	putUint(batch, balanceKey(from), new(uint256.Int).Sub(fromBal, v))
	putUint(batch, balanceKey(to), newTo)

	t.logger.Sugar().Debugw("Transferring tokens",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.String("amount", v.Dec()),
	)
	return nil
}
