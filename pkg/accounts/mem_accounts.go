package accounts

import (
	"bytes"

	"github.com/gagliardetto/solana-go"
	"github.com/tidwall/btree"
)

// MemAccounts is an in-memory account store ordered by key. Copies of a
// MemAccounts share the same underlying store.
type MemAccounts struct {
	tree *btree.BTreeG[*Account]
}

func NewMemAccounts() MemAccounts {
	return MemAccounts{
		tree: btree.NewBTreeG(func(a, b *Account) bool {
			return bytes.Compare(a.Key[:], b.Key[:]) < 0
		}),
	}
}

func (m MemAccounts) GetAccount(pubkey solana.PublicKey) (*Account, error) {
	acct, ok := m.tree.Get(&Account{Key: pubkey})
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acct, nil
}

func (m MemAccounts) SetAccount(pubkey solana.PublicKey, acc *Account) error {
	acc.Key = pubkey
	m.tree.Set(acc)
	return nil
}

func (m MemAccounts) Len() int {
	return m.tree.Len()
}

// Keys returns the stored keys in byte order.
func (m MemAccounts) Keys() []solana.PublicKey {
	keys := make([]solana.PublicKey, 0, m.tree.Len())
	m.tree.Scan(func(acct *Account) bool {
		keys = append(keys, acct.Key)
		return true
	})
	return keys
}
