package builder

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// CachedReads caches execution-state reads across repeated build attempts for
// the same parent, so a retry does not pay for state access twice.
//
// A cache has exactly one live owner per attempt chain: it is threaded forward
// from one attempt to the next via BuildOutcome.CachedReads, never shared
// between concurrently running attempts. It therefore needs no locking.
type CachedReads struct {
	accounts map[common.Address]*Account
}

func NewCachedReads() *CachedReads {
	return &CachedReads{accounts: make(map[common.Address]*Account)}
}

func (c *CachedReads) Account(addr common.Address) (*Account, bool) {
	acct, ok := c.accounts[addr]
	return acct, ok
}

func (c *CachedReads) SetAccount(addr common.Address, acct *Account) {
	c.accounts[addr] = acct
}

func (c *CachedReads) Len() int {
	return len(c.accounts)
}

// WithClient returns a read-through view of the cache over the given client,
// pinned to one state root. Reads hit the cache first and populate it on miss.
func (c *CachedReads) WithClient(client StateClient, stateRoot common.Hash) *CachedStateReader {
	return &CachedStateReader{cache: c, client: client, stateRoot: stateRoot}
}

// CachedStateReader resolves account reads through a CachedReads cache.
type CachedStateReader struct {
	cache     *CachedReads
	client    StateClient
	stateRoot common.Hash
}

func (r *CachedStateReader) Account(ctx context.Context, addr common.Address) (*Account, error) {
	if acct, ok := r.cache.Account(addr); ok {
		return acct, nil
	}
	acct, err := r.client.AccountAt(ctx, r.stateRoot, addr)
	if err != nil {
		return nil, err
	}
	r.cache.SetAccount(addr, acct)
	return acct, nil
}
