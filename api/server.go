/*
Package api exposes the HTTP boundary of the fractionalization service:
asset and proof reads, unsigned mint transaction building, signed
transaction confirmation, the service-side mint fallback, and the vault
read model.
*/
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mohtashimnawaz/fractionalization/asset"
	"github.com/mohtashimnawaz/fractionalization/config"
	"github.com/mohtashimnawaz/fractionalization/confirm"
	"github.com/mohtashimnawaz/fractionalization/das"
	"github.com/mohtashimnawaz/fractionalization/proof"
	"github.com/mohtashimnawaz/fractionalization/schedule"
	"github.com/mohtashimnawaz/fractionalization/txbuild"
	"github.com/mohtashimnawaz/fractionalization/vault"
)

// Reindex probe delays after a confirmed mint. The index needs its own
// time before a fresh asset becomes queryable.
var reindexProbeDelays = []time.Duration{3 * time.Second, 10 * time.Second}

type (
	// AssetIndex is the read/mint surface of the indexing service.
	AssetIndex interface {
		ListAssetsByOwner(ctx context.Context, owner string) ([]asset.Asset, error)
		GetAsset(ctx context.Context, assetID string) (*asset.Asset, error)
		GetAssetProof(ctx context.Context, assetID string) (*proof.AuthenticationProof, error)
		MintCompressedNFT(ctx context.Context, params das.MintParams) (*das.MintResult, error)
	}

	MintBuilder interface {
		BuildMint(ctx context.Context, req txbuild.MintRequest) (*txbuild.BuildResult, error)
	}

	TxConfirmer interface {
		SubmitBase64(ctx context.Context, serializedSignedTx string) (*confirm.Receipt, error)
	}

	Server struct {
		cfg       *config.Config
		index     AssetIndex
		builder   MintBuilder
		confirmer TxConfirmer
		vaults    *vault.Registry
		scheduler *schedule.Scheduler
		log       *zap.Logger
	}
)

func NewServer(cfg *config.Config, index AssetIndex, builder MintBuilder, confirmer TxConfirmer, vaults *vault.Registry, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if vaults == nil {
		vaults = vault.NewRegistry()
	}
	return &Server{
		cfg:       cfg,
		index:     index,
		builder:   builder,
		confirmer: confirmer,
		vaults:    vaults,
		scheduler: schedule.NewScheduler(),
		log:       log.Named("api"),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /assets", s.handleAssets)
	mux.HandleFunc("POST /build-mint-transaction", s.handleBuildMint)
	mux.HandleFunc("POST /confirm-mint-transaction", s.handleConfirmMint)
	mux.HandleFunc("POST /mint-via-index-service", s.handleServiceMint)
	mux.HandleFunc("GET /vaults", s.handleListVaults)
	mux.HandleFunc("GET /vaults/{id}", s.handleGetVault)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

// Run serves until the context is cancelled, then shuts down gracefully
// and cancels any pending reindex probes.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", s.cfg.ListenAddr), zap.String("network", s.cfg.Network))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.scheduler.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
