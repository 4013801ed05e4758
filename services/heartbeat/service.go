// Package heartbeat publishes a retained uptime beat so a monitor can tell
// the firmware is alive between modulator readbacks.
package heartbeat

import (
	"context"
	"time"

	"fmdac-go/bus"
	"fmdac-go/x/mathx"
	"fmdac-go/x/timex"
)

var (
	topicConfigHeartbeat = bus.T("config", "heartbeat")
	TopicHeartbeat       = bus.T("heartbeat")
)

const (
	defaultInterval = time.Second
	minInterval     = 100 * time.Millisecond
	maxInterval     = time.Hour
)

// Beat is the payload on TopicHeartbeat.
type Beat struct {
	Seq  uint32 `json:"seq"`
	TSms int64  `json:"ts_ms"`
}

type Service struct {
	// Interval overrides the default period until a config message arrives.
	Interval time.Duration
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, cfgSub *bus.Subscription) {
	defer conn.Unsubscribe(cfgSub)

	iv := s.Interval
	if iv <= 0 {
		iv = defaultInterval
	}
	tick := time.NewTicker(iv)
	defer tick.Stop()

	var seq uint32
	for {
		select {
		case <-ctx.Done():
			println("[heartbeat] stopping")
			return
		case <-tick.C:
			seq++
			conn.Publish(&bus.Message{
				Topic:    TopicHeartbeat,
				Payload:  Beat{Seq: seq, TSms: timex.NowMs()},
				Retained: true,
			})
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			if d, ok := intervalFrom(msg.Payload); ok {
				tick.Reset(d)
				println("[heartbeat] interval set to", d.String())
			}
		}
	}
}

// intervalFrom reads {"interval_ms": n} from a decoded JSON object.
func intervalFrom(p any) (time.Duration, bool) {
	m, ok := p.(map[string]any)
	if !ok {
		return 0, false
	}
	ms, ok := m["interval_ms"].(float64)
	if !ok || ms <= 0 {
		return 0, false
	}
	return mathx.Clamp(timex.Ms(int(ms)), minInterval, maxInterval), true
}

// Start subscribes to config/heartbeat and runs the beat loop until ctx ends.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	go s.serviceLoop(ctx, conn, cfgSub)
	return nil
}
