package services

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/common"
	"github.com/dmitrijs2005/friendszone/internal/logging"
	"github.com/dmitrijs2005/friendszone/internal/telemetry"
)

// Block edits the viewer's block list. Blocking only hides the peer's
// messages from the viewer and stops the viewer sending to them.
type Block struct {
	session *Session
	docs    backend.Documents
	loc     Locations
	log     logging.Logger
}

func NewBlock(session *Session, docs backend.Documents, loc Locations, log logging.Logger) *Block {
	return &Block{session: session, docs: docs, loc: loc, log: log}
}

// Toggle blocks peerID, or unblocks it if already blocked. It reports
// whether the peer is blocked afterwards.
func (b *Block) Toggle(ctx context.Context, peerID string) (bool, error) {
	uid, err := b.session.requireUser()
	if err != nil {
		return false, err
	}
	if peerID == "" {
		return false, common.ErrNoPeerSelected
	}

	p := b.session.Profile()
	if p == nil {
		return false, common.ErrNotSignedIn
	}

	blocked := !p.HasBlocked(peerID)
	list := slices.DeleteFunc(p.BlockedUsers, func(id string) bool { return id == peerID })
	if blocked {
		list = append(list, peerID)
	}
	if list == nil {
		list = []string{}
	}

	if err := b.docs.Update(ctx, b.loc.Profile(uid), backend.Fields{"blockedUsers": list}); err != nil {
		telemetry.BackendError(telemetry.OpWrite)
		b.log.Error(ctx, "update block list", "user", uid, "error", err)
		return !blocked, err
	}

	b.session.updateProfile(func(p *models.Profile) {
		p.BlockedUsers = list
	})
	b.log.Info(ctx, "block list changed", "peer", peerID, "blocked", blocked)
	return blocked, nil
}
