package das

import (
	"github.com/mohtashimnawaz/fractionalization/asset"
	"github.com/mohtashimnawaz/fractionalization/base58"
	"github.com/mohtashimnawaz/fractionalization/proof"
)

/*
Raw response shapes of the DAS API. These exist only at this boundary:
responses are validated and converted to domain types immediately on
receipt so that no untyped external shape propagates past this package.
*/
type (
	rpcRequest struct {
		JSONRPC string `json:"jsonrpc"`
		ID      string `json:"id"`
		Method  string `json:"method"`
		Params  any    `json:"params"`
	}

	rpcError struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}

	rawAssetPage struct {
		Total uint64     `json:"total"`
		Limit uint64     `json:"limit"`
		Page  uint64     `json:"page"`
		Items []rawAsset `json:"items"`
	}

	rawAsset struct {
		ID      string `json:"id"`
		Content struct {
			JSONURI string `json:"json_uri"`
			Files   []struct {
				URI  string `json:"uri"`
				Mime string `json:"mime"`
			} `json:"files"`
			Metadata struct {
				Name        string            `json:"name"`
				Symbol      string            `json:"symbol"`
				Description string            `json:"description"`
				Attributes  []asset.Attribute `json:"attributes"`
			} `json:"metadata"`
			Links struct {
				Image       string `json:"image"`
				ExternalURL string `json:"external_url"`
			} `json:"links"`
		} `json:"content"`
		Compression struct {
			Eligible    bool         `json:"eligible"`
			Compressed  bool         `json:"compressed"`
			DataHash    base58.Bytes `json:"data_hash"`
			CreatorHash base58.Bytes `json:"creator_hash"`
			AssetHash   base58.Bytes `json:"asset_hash"`
			Tree        string       `json:"tree"`
			Seq         uint64       `json:"seq"`
			LeafID      uint64       `json:"leaf_id"`
		} `json:"compression"`
		Ownership struct {
			Frozen         bool   `json:"frozen"`
			Delegated      bool   `json:"delegated"`
			OwnershipModel string `json:"ownership_model"`
			Owner          string `json:"owner"`
		} `json:"ownership"`
		Burnt bool `json:"burnt"`
	}

	rawProof struct {
		Root      string   `json:"root"`
		Proof     []string `json:"proof"`
		NodeIndex uint64   `json:"node_index"`
		Leaf      string   `json:"leaf"`
		TreeID    string   `json:"tree_id"`
	}

	rawMintResult struct {
		Signature string `json:"signature"`
		Minted    bool   `json:"minted"`
		AssetID   string `json:"assetId"`
	}
)

func (ra *rawAsset) toAsset() asset.Asset {
	image := ra.Content.Links.Image
	if image == "" && len(ra.Content.Files) > 0 {
		image = ra.Content.Files[0].URI
	}
	if image == "" {
		image = asset.PlaceholderImage
	}
	name := ra.Content.Metadata.Name
	if name == "" {
		name = "Unnamed cNFT"
	}
	return asset.Asset{
		ID:          ra.ID,
		Owner:       ra.Ownership.Owner,
		Name:        name,
		Symbol:      ra.Content.Metadata.Symbol,
		Description: ra.Content.Metadata.Description,
		Image:       image,
		Attributes:  ra.Content.Metadata.Attributes,
		Compression: asset.Compression{
			Compressed:  ra.Compression.Compressed,
			Tree:        ra.Compression.Tree,
			LeafIndex:   ra.Compression.LeafID,
			DataHash:    ra.Compression.DataHash,
			CreatorHash: ra.Compression.CreatorHash,
			AssetHash:   ra.Compression.AssetHash,
			Seq:         ra.Compression.Seq,
		},
	}
}

func (rp *rawProof) toProof() *proof.AuthenticationProof {
	return &proof.AuthenticationProof{
		Root:      rp.Root,
		Siblings:  rp.Proof,
		NodeIndex: rp.NodeIndex,
		Leaf:      rp.Leaf,
		TreeID:    rp.TreeID,
	}
}
