package service

import (
	"context"
	"errors"

	"midorisky/internal/modules/notify/domain/entity"
	"midorisky/internal/modules/notify/domain/repository"
	"midorisky/pkg/ws"
	"midorisky/pkg/zlog"

	"go.uber.org/zap"
)

// Pusher is the live-push capability. Implementations return
// ws.ErrConnectionGone when the recipient socket no longer exists, which is
// a pruning signal rather than a delivery failure.
type Pusher interface {
	Post(connectionID string, payload []byte) error
	PostJSON(connectionID string, v interface{}) error
}

// Directory resolves usernames to email addresses. Unknown usernames are
// skipped, not errors.
type Directory interface {
	ResolveEmails(ctx context.Context, usernames []string) ([]string, error)
}

type Mailer interface {
	Send(to []string, subject, body string) error
}

type pushMessage struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	ActionURL string `json:"action_url"`
	Action    string `json:"action"`
}

type Delivery struct {
	registry  repository.ConnectionRegistry
	pusher    Pusher
	directory Directory
	mailer    Mailer
}

func NewDelivery(registry repository.ConnectionRegistry, pusher Pusher, directory Directory, mailer Mailer) *Delivery {
	return &Delivery{
		registry:  registry,
		pusher:    pusher,
		directory: directory,
		mailer:    mailer,
	}
}

// Deliver pushes every materialized notification to its subscriber's live
// connections and sends at most one email for the whole batch. Stale
// connections are pruned in place and never abort delivery; an email
// failure is returned so the consumed message stays unacked for retry.
func (d *Delivery) Deliver(ctx context.Context, batch *FanoutBatch) error {
	if batch == nil {
		return nil
	}

	for _, n := range batch.Notifications {
		d.pushToUser(ctx, n)
	}

	if !batch.SendEmail {
		return nil
	}
	return d.emailBatch(ctx, batch)
}

func (d *Delivery) pushToUser(ctx context.Context, n *entity.Notification) {
	connIDs, err := d.registry.LookupConnections(ctx, n.Username)
	if err != nil {
		zlog.Warn("connection lookup failed",
			zap.String("username", n.Username),
			zap.Error(err),
		)
		return
	}

	msg := pushMessage{
		ID:        n.ID,
		Type:      "notification",
		Title:     n.Title,
		Subtitle:  n.Subtitle,
		ActionURL: n.ActionURL,
		Action:    n.Action,
	}

	for _, connID := range connIDs {
		err := d.pusher.PostJSON(connID, msg)
		if err == nil {
			continue
		}
		if errors.Is(err, ws.ErrConnectionGone) {
			// Lazy cleanup: the socket died without a disconnect hook.
			if derr := d.registry.Dissociate(ctx, connID); derr != nil {
				zlog.Warn("stale connection cleanup failed",
					zap.String("connection_id", connID),
					zap.Error(derr),
				)
			}
			continue
		}
		zlog.Warn("push failed",
			zap.String("connection_id", connID),
			zap.String("username", n.Username),
			zap.Error(err),
		)
	}
}

func (d *Delivery) emailBatch(ctx context.Context, batch *FanoutBatch) error {
	if len(batch.Subscribers) == 0 {
		return nil
	}

	emails, err := d.directory.ResolveEmails(ctx, dedup(batch.Subscribers))
	if err != nil {
		return err
	}
	if len(emails) == 0 {
		// No resolvable address suppresses the send silently.
		return nil
	}

	return d.mailer.Send(emails, batch.EmailSubject, batch.EmailBody)
}

func dedup(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
