package heartbeat

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
)

// Dial connects to a hub and streams decoded beats
// The channel closes when the connection drops or ctx is done
func Dial(ctx context.Context, url string) (<-chan Beat, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	out := make(chan Beat)
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()

	go func() {
		defer close(out)
		defer close(done)
		for {
			var b Beat
			if err := conn.ReadJSON(&b); err != nil {
				return
			}
			select {
			case out <- b:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
