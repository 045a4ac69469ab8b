package vault

import (
	"errors"
	"fmt"

	"github.com/Layr-Labs/stake-vault/pkg/storage"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/wealdtech/go-merkletree/v2"
	"github.com/wealdtech/go-merkletree/v2/keccak256"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	merkleLeafPrefix_VaultState = []byte{0x01}
	merkleLeafPrefix_Stake      = []byte{0x02}
)

type StateRoot struct {
	Root       string
	StakeCount int
	Timestamp  uint64
}

func encodeVaultStateLeaf(state *storage.VaultState) []byte {
	body := fmt.Sprintf("%s_%s_%t_%d_%s_%s",
		state.TokenAddress,
		state.VaultAddress,
		state.StakingStarted,
		state.StakingStartedAt,
		state.TotalDeposited,
		state.TotalRewardsPaid,
	)
	return append(append([]byte{}, merkleLeafPrefix_VaultState...), []byte(body)...)
}

func encodeStakeLeaf(stake *storage.Stake) []byte {
	body := fmt.Sprintf("%s_%s_%d_%s",
		stake.Principal,
		stake.AccruedReward,
		stake.RewardCheckpoint,
		stake.ClaimedTotal,
	)
	leaf := append(append([]byte{}, merkleLeafPrefix_Stake...), []byte(stake.Account)...)
	return append(leaf, []byte(body)...)
}

// MerkleizeVaultState builds a keccak256 merkle tree whose first leaf is the vault
// state, followed by one leaf per stake in ascending account order.
func MerkleizeVaultState(state *storage.VaultState, stakes []*storage.Stake) (*merkletree.MerkleTree, error) {
	om := orderedmap.New[string, []byte]()

	for _, stake := range stakes {
		if _, found := om.Get(stake.Account); found {
			return nil, fmt.Errorf("duplicate stake account %s", stake.Account)
		}
		om.Set(stake.Account, encodeStakeLeaf(stake))

		prev := om.GetPair(stake.Account).Prev()
		if prev != nil && prev.Key > stake.Account {
			return nil, errors.New("stake accounts are not in order")
		}
	}

	leaves := [][]byte{encodeVaultStateLeaf(state)}
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		leaves = append(leaves, pair.Value)
	}
	return merkletree.NewTree(
		merkletree.WithData(leaves),
		merkletree.WithHashType(keccak256.New()),
	)
}

// StateRoot commits to the full vault bookkeeping so two deployments can be compared.
func (v *Vault) StateRoot() (*StateRoot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	state, err := v.store.GetVaultState()
	if err != nil {
		return nil, err
	}
	stakes, err := v.store.ListStakes()
	if err != nil {
		return nil, err
	}

	tree, err := MerkleizeVaultState(state, stakes)
	if err != nil {
		return nil, err
	}
	return &StateRoot{
		Root:       hexutil.Encode(tree.Root()),
		StakeCount: len(stakes),
		Timestamp:  v.clock.Now(),
	}, nil
}
