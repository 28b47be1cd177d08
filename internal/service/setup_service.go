package service

import (
	"context"
	"fmt"

	"shoppos/internal/dto"
	"shoppos/internal/infra"

	"github.com/rs/zerolog/log"
)

// ConnectionStore is satisfied by *infra.ConnectionStore.
type ConnectionStore interface {
	Resolve(envDSN string) (dsn string, source string, err error)
	Save(dsn string) error
	Clear() error
}

// ReloadFunc rebuilds the data layer and HTTP handler against dsn.
type ReloadFunc func(dsn string) error

// PingFunc checks that dsn accepts connections.
type PingFunc func(ctx context.Context, dsn string) error

type SetupService interface {
	Current() (*dto.ConnectionResponse, error)
	Apply(ctx context.Context, req dto.ConnectionRequest) (*dto.ConnectionResponse, error)
	Reset(ctx context.Context) (*dto.ConnectionResponse, error)
}

type setupService struct {
	store  ConnectionStore
	envDSN string
	ping   PingFunc
	reload ReloadFunc
}

func NewSetupService(store ConnectionStore, envDSN string, ping PingFunc, reload ReloadFunc) SetupService {
	return &setupService{store: store, envDSN: envDSN, ping: ping, reload: reload}
}

func (s *setupService) Current() (*dto.ConnectionResponse, error) {
	dsn, source, err := s.store.Resolve(s.envDSN)
	if err != nil {
		return nil, err
	}
	return &dto.ConnectionResponse{Source: source, DatabaseURL: infra.MaskDSN(dsn)}, nil
}

// Apply validates the DSN by connecting, reloads against it, and persists it
// only once the reload succeeded.
func (s *setupService) Apply(ctx context.Context, req dto.ConnectionRequest) (*dto.ConnectionResponse, error) {
	if err := s.ping(ctx, req.DatabaseURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	previous, _, err := s.store.Resolve(s.envDSN)
	if err != nil {
		return nil, err
	}
	if err := s.doReload(req.DatabaseURL); err != nil {
		return nil, err
	}
	if err := s.store.Save(req.DatabaseURL); err != nil {
		s.rollback(previous)
		return nil, err
	}
	return s.Current()
}

// Reset reloads against DATABASE_URL, then drops the override.
func (s *setupService) Reset(_ context.Context) (*dto.ConnectionResponse, error) {
	previous, _, err := s.store.Resolve(s.envDSN)
	if err != nil {
		return nil, err
	}
	if err := s.doReload(s.envDSN); err != nil {
		return nil, err
	}
	if err := s.store.Clear(); err != nil {
		s.rollback(previous)
		return nil, err
	}
	return s.Current()
}

func (s *setupService) doReload(dsn string) error {
	if s.reload == nil {
		return nil
	}
	return s.reload(dsn)
}

// rollback points the running process back at dsn after the store could not
// record a switch that was already live.
func (s *setupService) rollback(dsn string) {
	if err := s.doReload(dsn); err != nil {
		log.Error().Err(err).Str("database_url", infra.MaskDSN(dsn)).Msg("setup: rollback reload failed")
	}
}
