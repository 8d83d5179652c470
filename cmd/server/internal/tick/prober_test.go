package tick_test

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adzkyyy/adCTF/cmd/server/internal/tick"
	"github.com/adzkyyy/adCTF/internal/types"
)

func TestTCPProber(t *testing.T) {
	t.Run("ListeningPortIsUp", func(t *testing.T) {
		ctx := context.Background()

		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err, "failed to open listener")
		defer l.Close()

		go func() {
			for {
				conn, err := l.Accept()
				if err != nil {
					return
				}
				conn.Close()
			}
		}()

		host, portStr, err := net.SplitHostPort(l.Addr().String())
		require.NoError(t, err, "failed to split listener address")
		port, err := strconv.Atoi(portStr)
		require.NoError(t, err, "failed to parse listener port")

		status := tick.NewTCPProber(time.Second).Probe(ctx, host, port)
		assert.Equal(t, types.CheckStatusUp, status, "listening service should be up")
	})

	t.Run("ClosedPortIsDown", func(t *testing.T) {
		ctx := context.Background()

		// Grab a free port and close it again so nothing is listening.
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err, "failed to open listener")

		host, portStr, err := net.SplitHostPort(l.Addr().String())
		require.NoError(t, err, "failed to split listener address")
		port, err := strconv.Atoi(portStr)
		require.NoError(t, err, "failed to parse listener port")
		require.NoError(t, l.Close(), "failed to close listener")

		status := tick.NewTCPProber(200 * time.Millisecond).Probe(ctx, host, port)
		assert.Equal(t, types.CheckStatusDown, status, "closed port should be down")
	})
}
