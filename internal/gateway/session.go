package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/betbot/tradegate/clob/client"
	"github.com/betbot/tradegate/clob/signing"
	"github.com/betbot/tradegate/clob/types"
	"github.com/betbot/tradegate/internal/marketdata"
	"github.com/betbot/tradegate/pkg/config"
	"github.com/betbot/tradegate/pkg/logger"
	"github.com/betbot/tradegate/pkg/secretstore"
)

// SessionState is the lifecycle of the trading session.
type SessionState string

const (
	StateInitializing SessionState = "initializing"
	StateReady        SessionState = "ready"
	StateFailed       SessionState = "failed"
)

// ErrNotReady is returned while the session has not finished (or has
// failed) credential bootstrap.
var ErrNotReady = errors.New("trading session not ready")

// Session owns the wallet, the venue client and the derived API
// credentials. Handlers get everything through here instead of package
// globals, so "not ready" is a state, not a nil check.
type Session struct {
	mu      sync.RWMutex
	state   SessionState
	lastErr error

	address  common.Address
	sigType  types.SignatureType
	clob     *client.Client
	builder  *client.OrderBuilder
	provider *marketdata.Provider
}

func NewSession() *Session {
	return &Session{state: StateInitializing}
}

// Bootstrap resolves the wallet key, derives (or reloads) L2 API
// credentials and flips the session to ready. Creds are persisted in the
// secret store keyed by wallet address so restarts skip the L1 roundtrip.
func (s *Session) Bootstrap(ctx context.Context, cfg *config.Config, secrets *secretstore.Store) error {
	err := s.bootstrap(ctx, cfg, secrets)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateFailed
		s.lastErr = err
		return err
	}
	s.state = StateReady
	s.lastErr = nil
	return nil
}

func (s *Session) bootstrap(ctx context.Context, cfg *config.Config, secrets *secretstore.Store) error {
	pkHex, err := cfg.Wallet.ResolvePrivateKey()
	if err != nil {
		return fmt.Errorf("resolve wallet key: %w", err)
	}
	privateKey, err := signing.PrivateKeyFromHex(pkHex)
	if err != nil {
		return fmt.Errorf("parse wallet key: %w", err)
	}

	address := signing.GetAddressFromPrivateKey(privateKey)
	chainID := types.Chain(cfg.Clob.ChainID)
	clobClient := client.NewClient(cfg.Clob.Host, chainID, privateKey, nil)

	credsKey := "clob:creds:" + address.Hex()
	var creds types.ApiKeyCreds
	found := false
	if secrets != nil {
		if found, err = secrets.GetJSON(credsKey, &creds); err != nil {
			logger.Warnf("reading stored API creds failed, re-deriving: %v", err)
			found = false
		}
	}
	if !found {
		derived, err := clobClient.CreateOrDeriveAPIKey(ctx, 0)
		if err != nil {
			return fmt.Errorf("derive API creds: %w", err)
		}
		creds = *derived
		if secrets != nil {
			if err := secrets.SetJSON(credsKey, creds); err != nil {
				logger.Warnf("persisting API creds failed: %v", err)
			}
		}
	}
	clobClient.SetApiCreds(&creds)

	sigType := types.SignatureType(cfg.Wallet.SignatureType)
	builder := client.NewOrderBuilder(clobClient, sigType, cfg.Wallet.FunderAddress)

	s.mu.Lock()
	s.address = address
	s.sigType = sigType
	s.clob = clobClient
	s.builder = builder
	s.provider = marketdata.NewProvider(clobClient)
	s.mu.Unlock()

	logger.WithField("address", address.Hex()).Info("trading session ready")
	return nil
}

// Ready hands out the venue client, order builder and market data
// provider, or ErrNotReady (wrapping the bootstrap failure, if any).
func (s *Session) Ready() (*client.Client, *client.OrderBuilder, *marketdata.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateReady {
		if s.lastErr != nil {
			return nil, nil, nil, fmt.Errorf("%w: %v", ErrNotReady, s.lastErr)
		}
		return nil, nil, nil, ErrNotReady
	}
	return s.clob, s.builder, s.provider, nil
}

// Status reports the session for GET /api/session.
func (s *Session) Status() (SessionState, common.Address, types.SignatureType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.address, s.sigType, s.lastErr
}
