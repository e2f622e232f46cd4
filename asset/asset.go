// Package asset holds the domain model for compressed digital assets as
// observed through the indexing service. Records are immutable from this
// system's point of view except for Owner, which changes on transfer.
package asset

import (
	"github.com/mohtashimnawaz/fractionalization/base58"
)

// PlaceholderImage is used when the indexed metadata carries no image link.
const PlaceholderImage = "/placeholder-nft.png"

type (
	// Asset is a compressed NFT record normalized from the index response.
	Asset struct {
		ID          string      `json:"id"`
		Owner       string      `json:"owner"`
		Name        string      `json:"name"`
		Symbol      string      `json:"symbol"`
		Description string      `json:"description,omitempty"`
		Image       string      `json:"image"`
		Attributes  []Attribute `json:"attributes,omitempty"`
		Compression Compression `json:"compression"`
	}

	// Attribute is a single display trait of the asset metadata.
	Attribute struct {
		TraitType string `json:"trait_type"`
		Value     string `json:"value"`
	}

	// Compression describes the asset's position in its storage tree.
	Compression struct {
		Compressed  bool         `json:"compressed"`
		Tree        string       `json:"tree"`
		LeafIndex   uint64       `json:"leaf_id"`
		DataHash    base58.Bytes `json:"data_hash,omitempty"`
		CreatorHash base58.Bytes `json:"creator_hash,omitempty"`
		AssetHash   base58.Bytes `json:"asset_hash,omitempty"`
		Seq         uint64       `json:"seq"`
	}
)

func (a *Asset) IsCompressed() bool {
	return a != nil && a.Compression.Compressed
}

// DisplayName returns the metadata name or a fallback for unnamed assets.
func (a *Asset) DisplayName() string {
	if a == nil || a.Name == "" {
		return "Unnamed cNFT"
	}
	return a.Name
}
