package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixil98/go-log"
	"github.com/pixil98/go-tileworld/internal/resource"
	"github.com/pixil98/go-tileworld/internal/world"
)

// Monitor is the human-visible end of the error-notification channel. It
// subscribes to the diagnostics and snapshot lifecycle subjects and writes
// what it hears to the log; a GUI would subscribe to the same subjects to
// raise its own notifications.
type Monitor struct {
	server *NatsServer
}

// NewMonitor wraps a NatsServer for diagnostic consumption.
func NewMonitor(server *NatsServer) *Monitor {
	return &Monitor{server: server}
}

func (m *Monitor) Start(ctx context.Context) error {
	logger := log.GetLogger(ctx)

	// The server worker starts concurrently; wait for its internal
	// connection to come up before subscribing.
	if err := m.waitReady(ctx); err != nil {
		return err
	}

	unsubErrors, err := m.server.Subscribe(resource.ErrorsSubject, func(data []byte) {
		var d struct {
			Key  string   `json:"key"`
			Args []string `json:"args"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			logger.Errorf("malformed diagnostic: %v", err)
			return
		}
		logger.Errorf("game error %s %v", d.Key, d.Args)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", resource.ErrorsSubject, err)
	}
	defer unsubErrors()

	for _, subject := range []string{world.SavedSubject, world.LoadedSubject} {
		unsub, err := m.server.Subscribe(subject, func(data []byte) {
			logger.Infof("%s: %s", subject, data)
		})
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", subject, err)
		}
		defer unsub()
	}

	<-ctx.Done()
	return nil
}

func (m *Monitor) waitReady(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	deadline := time.After(m.server.startupTimeout)
	for {
		if m.server.Connected() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("messaging server never became ready")
		case <-ticker.C:
		}
	}
}
