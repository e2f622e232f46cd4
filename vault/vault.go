/*
Package vault models fractionalized assets as the on-chain program exposes
them. A vault locks one compressed asset and mints fractional supply
against it; the status moves forward only, Active to Redeemable to Closed.

This system never writes vault state, it only reads, renders and submits
transactions against it. The reclaim threshold and the redemption flow are
the program's documented contract; they are surfaced here for display and
eligibility checks only.
*/
package vault

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mohtashimnawaz/fractionalization/asset"
)

// ReclaimThresholdBps is the fractional holding, in basis points, above
// which the holder may reclaim the locked asset (80%).
const ReclaimThresholdBps = 8000

type Status string

const (
	StatusActive     Status = "active"
	StatusRedeemable Status = "redeemable"
	StatusClosed     Status = "closed"
)

var (
	ErrNotFound = errors.New("vault not found")

	// ErrStatusRegression - vault status only ever moves forward.
	ErrStatusRegression = errors.New("vault status cannot move backwards")
)

type (
	Vault struct {
		ID                string       `json:"id"`
		AssetID           string       `json:"assetId"`
		AssetMetadata     *asset.Asset `json:"assetMetadata,omitempty"`
		FractionalMint    string       `json:"fractionalMint"`
		TotalSupply       uint64       `json:"totalSupply"`
		CirculatingSupply uint64       `json:"circulatingSupply"`
		Status            Status       `json:"status"`
		Authority         string       `json:"authority"`
		CreatedAt         time.Time    `json:"createdAt"`
		UpdatedAt         time.Time    `json:"updatedAt"`
	}

	// Position is one holder's stake in a vault.
	Position struct {
		VaultID         string `json:"vaultId"`
		Balance         uint64 `json:"balance"`
		SharePercentage float64 `json:"sharePercentage"`
		CanReclaim      bool   `json:"canReclaim"`
	}
)

func rank(s Status) int {
	switch s {
	case StatusActive:
		return 0
	case StatusRedeemable:
		return 1
	case StatusClosed:
		return 2
	default:
		return -1
	}
}

func (s Status) IsValid() bool {
	return rank(s) >= 0
}

// TransitionTo moves the vault forward in its lifecycle. Any attempt to
// move backwards or to an unknown status is rejected.
func (v *Vault) TransitionTo(next Status) error {
	if v == nil {
		return errors.New("vault is nil")
	}
	if !next.IsValid() {
		return fmt.Errorf("unknown vault status %q", next)
	}
	if rank(next) < rank(v.Status) {
		return fmt.Errorf("%w: %s -> %s", ErrStatusRegression, v.Status, next)
	}
	v.Status = next
	v.UpdatedAt = time.Now().UTC()
	return nil
}

// Position computes the holder's stake from a fractional token balance.
func (v *Vault) Position(balance uint64) Position {
	p := Position{VaultID: v.ID, Balance: balance}
	if v.TotalSupply > 0 {
		p.SharePercentage = float64(balance) / float64(v.TotalSupply) * 100
		// Full-width comparison; balance*10000 alone overflows uint64 for
		// supplies with many decimals.
		bHi, bLo := bits.Mul64(balance, 10000)
		tHi, tLo := bits.Mul64(v.TotalSupply, ReclaimThresholdBps)
		p.CanReclaim = bHi > tHi || (bHi == tHi && bLo >= tLo)
	}
	return p
}

// New creates an Active vault for a locked asset.
func New(assetID, fractionalMint, authority string, totalSupply uint64) *Vault {
	now := time.Now().UTC()
	return &Vault{
		ID:                uuid.NewString(),
		AssetID:           assetID,
		FractionalMint:    fractionalMint,
		TotalSupply:       totalSupply,
		CirculatingSupply: totalSupply,
		Status:            StatusActive,
		Authority:         authority,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Registry is the in-memory read model of vaults observed on-chain. It is
// a rendering cache, not a source of truth; durable state lives on-chain.
type Registry struct {
	mu     sync.RWMutex
	vaults map[string]*Vault
}

func NewRegistry() *Registry {
	return &Registry{vaults: make(map[string]*Vault)}
}

func (r *Registry) Put(v *Vault) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vaults[v.ID] = v
}

func (r *Registry) Get(id string) (*Vault, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vaults[id]
	if !ok {
		return nil, fmt.Errorf("vault %s: %w", id, ErrNotFound)
	}
	return v, nil
}

// List returns all vaults, newest first.
func (r *Registry) List() []*Vault {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*Vault, 0, len(r.vaults))
	for _, v := range r.vaults {
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res
}

func (r *Registry) ListByStatus(status Status) []*Vault {
	all := r.List()
	res := make([]*Vault, 0, len(all))
	for _, v := range all {
		if v.Status == status {
			res = append(res, v)
		}
	}
	return res
}
