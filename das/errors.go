package das

import "errors"

var (
	// ErrNotFound - the asset is not (or not yet) known to the index. A just
	// minted asset becomes queryable only after the service's indexing delay,
	// so callers should retry after a delay rather than treat this as final.
	ErrNotFound = errors.New("asset not found in index")

	// ErrProofUnavailable - the asset exists but is not indexed as compressed,
	// so no inclusion proof can be produced for it.
	ErrProofUnavailable = errors.New("proof unavailable for asset")

	// ErrIndexUnavailable - transport or service-side failure. Transient;
	// the client retries these before giving up.
	ErrIndexUnavailable = errors.New("index service unavailable")

	// ErrIndexAuth - the service rejected the credential. A configuration
	// error, never retried.
	ErrIndexAuth = errors.New("index service rejected credential (check HELIUS_API_KEY)")
)
