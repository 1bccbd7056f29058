package realtime

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/quickcare/quickcare-backend/internal/bookings"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// Notifier carries booking change events over Postgres LISTEN/NOTIFY so
// every API instance sees every mutation regardless of which one wrote it.
type Notifier struct {
	db      *sql.DB
	connStr string
	channel string
	logger  *logging.Logger
}

// NewNotifier creates a notifier publishing on channel. connStr is used to
// open the dedicated LISTEN connection.
func NewNotifier(db *sql.DB, connStr, channel string, logger *logging.Logger) *Notifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &Notifier{db: db, connStr: connStr, channel: channel, logger: logger}
}

// PublishBookingChange sends one change event to every listener.
func (n *Notifier) PublishBookingChange(ctx context.Context, event bookings.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("realtime: marshal change event: %w", err)
	}
	if _, err := n.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", n.channel, string(payload)); err != nil {
		return fmt.Errorf("realtime: publish change event: %w", err)
	}
	return nil
}

// Listen opens a dedicated connection and yields change events until ctx is
// canceled. Malformed payloads are logged and skipped.
func (n *Notifier) Listen(ctx context.Context) (<-chan bookings.ChangeEvent, error) {
	listener := pq.NewListener(n.connStr, minReconnectInterval, maxReconnectInterval,
		func(_ pq.ListenerEventType, err error) {
			if err != nil {
				n.logger.Warn("booking change listener event", "error", err)
			}
		})
	if err := listener.Listen(n.channel); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("realtime: listen on %s: %w", n.channel, err)
	}

	out := make(chan bookings.ChangeEvent)
	go func() {
		defer close(out)
		defer listener.Close()

		ping := time.NewTicker(pingInterval)
		defer ping.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ping.C:
				if err := listener.Ping(); err != nil {
					n.logger.Warn("booking change listener ping failed", "error", err)
				}
			case notification := <-listener.Notify:
				if notification == nil {
					// Reconnect marker from pq; the listener re-issues
					// LISTEN itself.
					continue
				}
				var event bookings.ChangeEvent
				if err := json.Unmarshal([]byte(notification.Extra), &event); err != nil {
					n.logger.Warn("booking change payload unparseable", "error", err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
