package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and loaders return these
// (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: record does not exist in the store
//   - ErrInvalidFormat: data source cannot be decoded
//   - ErrUnsupported: data source format is not recognised
//
// For request validation failures use pkg/domain-errors directly.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidFormat = errors.New("invalid format")
	ErrUnsupported   = errors.New("unsupported")
)
