package builder

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

type countingClient struct {
	accounts map[common.Address]*Account
	reads    int
}

var _ StateClient = (*countingClient)(nil)

func (c *countingClient) HeaderByHash(ctx context.Context, hash common.Hash) (*types.Header, error) {
	panic("not used")
}

func (c *countingClient) AccountAt(ctx context.Context, stateRoot common.Hash, addr common.Address) (*Account, error) {
	c.reads++
	return c.accounts[addr], nil
}

func TestCachedStateReader(t *testing.T) {
	addr := common.HexToAddress("0xaa")
	client := &countingClient{accounts: map[common.Address]*Account{
		addr: {Nonce: 3, Balance: uint256.NewInt(1000)},
	}}
	cached := NewCachedReads()
	reader := cached.WithClient(client, common.Hash{})

	acct, err := reader.Account(context.Background(), addr)
	require.NoError(t, err)
	require.Equal(t, uint64(3), acct.Nonce)
	require.Equal(t, 1, client.reads)

	// Second read is served from the cache.
	acct2, err := reader.Account(context.Background(), addr)
	require.NoError(t, err)
	require.Same(t, acct, acct2)
	require.Equal(t, 1, client.reads)
	require.Equal(t, 1, cached.Len())

	// A fresh view over the same cache keeps the cached entries.
	reader2 := cached.WithClient(client, common.Hash{})
	_, err = reader2.Account(context.Background(), addr)
	require.NoError(t, err)
	require.Equal(t, 1, client.reads)
}
