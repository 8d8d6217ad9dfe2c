package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/common"
	"github.com/dmitrijs2005/friendszone/internal/logging"
	"github.com/dmitrijs2005/friendszone/internal/telemetry"
)

// Gate holds the gated room's shared secret. The comparison is plaintext
// equality; the secret document is readable by every client.
type Gate struct {
	docs backend.Documents
	loc  Locations
	log  logging.Logger

	mu     sync.Mutex
	secret string
	loaded bool
}

func NewGate(docs backend.Documents, loc Locations, log logging.Logger) *Gate {
	return &Gate{docs: docs, loc: loc, log: log}
}

// Load reads the secret, writing the default one when the document does
// not exist yet.
func (g *Gate) Load(ctx context.Context) error {
	ref := g.loc.Secret()

	doc, err := g.docs.Get(ctx, ref)
	var secret models.SharedSecret
	switch {
	case err == nil:
		if err := doc.DataTo(&secret); err != nil {
			return fmt.Errorf("decode secret: %w", err)
		}
	case errors.Is(err, backend.ErrNotFound):
		secret.Password = common.DefaultGatePassword
		if err := g.docs.Set(ctx, ref, backend.Fields{"password": secret.Password}, false); err != nil {
			telemetry.BackendError(telemetry.OpWrite)
			g.log.Error(ctx, "create shared secret", "error", err)
			return err
		}
	default:
		telemetry.BackendError(telemetry.OpRead)
		g.log.Error(ctx, "read shared secret", "error", err)
		return err
	}

	g.mu.Lock()
	g.secret = secret.Password
	g.loaded = true
	g.mu.Unlock()
	return nil
}

// Check compares input with the secret, loading it first if needed.
func (g *Gate) Check(ctx context.Context, input string) (bool, error) {
	g.mu.Lock()
	loaded := g.loaded
	g.mu.Unlock()

	if !loaded {
		if err := g.Load(ctx); err != nil {
			return false, err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return input == g.secret, nil
}
