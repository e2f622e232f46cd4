package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mohtashimnawaz/fractionalization/das"
	"github.com/mohtashimnawaz/fractionalization/txbuild"
	"github.com/mohtashimnawaz/fractionalization/vault"
)

// handleAssets serves three query shapes on one route:
//
//	?owner=<address>            - list the owner's compressed assets
//	?assetId=<id>               - one asset
//	?assetId=<id>&proof=true    - a fresh inclusion proof
func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	owner := q.Get("owner")
	assetID := q.Get("assetId")
	wantProof := q.Get("proof") == "true"

	switch {
	case owner != "":
		assets, err := s.index.ListAssetsByOwner(r.Context(), owner)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeData(w, assets)
	case assetID != "" && wantProof:
		p, err := s.index.GetAssetProof(r.Context(), assetID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeData(w, p)
	case assetID != "":
		a, err := s.index.GetAsset(r.Context(), assetID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeData(w, a)
	default:
		s.writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Error:   "missing required parameter: owner or assetId",
		})
	}
}

type buildMintResponse struct {
	Success              bool   `json:"success"`
	SerializedTx         string `json:"serializedTx"`
	Blockhash            string `json:"blockhash"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
	FeePayer             string `json:"feePayer"`
}

func (s *Server) handleBuildMint(w http.ResponseWriter, r *http.Request) {
	var req txbuild.MintRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.TreeAddress == "" {
		// the pre-provisioned tree, when configured
		req.TreeAddress = s.cfg.TreeAddress
	}

	res, err := s.builder.BuildMint(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, buildMintResponse{
		Success:              true,
		SerializedTx:         res.SerializedTx,
		Blockhash:            res.Blockhash,
		LastValidBlockHeight: res.LastValidBlockHeight,
		FeePayer:             res.FeePayer,
	})
}

type (
	confirmMintRequest struct {
		SerializedSignedTx string `json:"serializedSignedTx"`
		Owner              string `json:"owner"`
	}

	confirmMintResponse struct {
		Success   bool   `json:"success"`
		Signature string `json:"signature"`
		// The asset id is unknown at confirmation time; the index catches
		// up out of band.
		Message string `json:"message"`
	}
)

func (s *Server) handleConfirmMint(w http.ResponseWriter, r *http.Request) {
	var req confirmMintRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.SerializedSignedTx == "" || req.Owner == "" {
		s.writeError(w, fmt.Errorf("%w: missing required fields: serializedSignedTx, owner", txbuild.ErrInvalidRequest))
		return
	}

	receipt, err := s.confirmer.SubmitBase64(r.Context(), req.SerializedSignedTx)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.scheduleReindexProbes(req.Owner, receipt.Signature)

	s.writeJSON(w, http.StatusOK, confirmMintResponse{
		Success:   true,
		Signature: receipt.Signature,
		Message:   "mint confirmed; the asset becomes queryable after indexing completes (~10-20 seconds)",
	})
}

// scheduleReindexProbes re-reads the owner's holdings after the index's
// expected catch-up delays. The probes are cancelled on shutdown.
func (s *Server) scheduleReindexProbes(owner, signature string) {
	for _, delay := range reindexProbeDelays {
		s.scheduler.After(delay, func(ctx context.Context) {
			assets, err := s.index.ListAssetsByOwner(ctx, owner)
			if err != nil {
				s.log.Debug("reindex probe failed",
					zap.String("owner", owner),
					zap.String("signature", signature),
					zap.Error(err))
				return
			}
			s.log.Info("reindex probe",
				zap.String("owner", owner),
				zap.String("signature", signature),
				zap.Int("assets", len(assets)))
		})
	}
}

type (
	serviceMintRequest struct {
		Name        string `json:"name"`
		Symbol      string `json:"symbol"`
		Owner       string `json:"owner"`
		Description string `json:"description,omitempty"`
		ImageURL    string `json:"imageUrl,omitempty"`
	}

	serviceMintResponse struct {
		Success   bool   `json:"success"`
		Signature string `json:"signature"`
		AssetID   string `json:"assetId"`
	}
)

// handleServiceMint mints through the index service's own mint API. The
// backing credential is server-held and never exposed to the client.
func (s *Server) handleServiceMint(w http.ResponseWriter, r *http.Request) {
	var req serviceMintRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Symbol == "" || req.Owner == "" {
		s.writeError(w, fmt.Errorf("%w: missing required fields: name, symbol, owner", txbuild.ErrInvalidRequest))
		return
	}
	if s.cfg.IndexAPIKey == "" {
		s.writeError(w, errors.New("index service credential not configured on server"))
		return
	}

	res, err := s.index.MintCompressedNFT(r.Context(), das.MintParams{
		Name:        req.Name,
		Symbol:      req.Symbol,
		Owner:       req.Owner,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.scheduleReindexProbes(req.Owner, res.Signature)

	s.writeJSON(w, http.StatusOK, serviceMintResponse{
		Success:   true,
		Signature: res.Signature,
		AssetID:   res.AssetID,
	})
}

func (s *Server) handleListVaults(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("status"); raw != "" {
		s.writeData(w, s.vaults.ListByStatus(vault.Status(raw)))
		return
	}
	s.writeData(w, s.vaults.List())
}

func (s *Server) handleGetVault(w http.ResponseWriter, r *http.Request) {
	v, err := s.vaults.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, map[string]string{"status": "ok", "network": s.cfg.Network})
}
