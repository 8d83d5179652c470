package tick

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/adzkyyy/adCTF/internal/types"
)

// Ensure TCPProber implements Prober interface.
var _ Prober = (*TCPProber)(nil)

// TCPProber reports a target as up when its service port accepts a TCP
// connection. One transient refusal is retried briefly before the target
// is declared down for the tick.
type TCPProber struct {
	timeout time.Duration
	backoff func() retry.Backoff
}

func NewTCPProber(timeout time.Duration) *TCPProber {
	return &TCPProber{
		timeout: timeout,
		backoff: func() retry.Backoff {
			b := retry.NewConstant(250 * time.Millisecond)
			b = retry.WithMaxRetries(2, b)
			return b
		},
	}
}

func (p *TCPProber) Probe(ctx context.Context, host string, port int) types.CheckStatus {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	ctx, span := tracer.Start(ctx, "TCPProber.Probe", trace.WithAttributes(
		attribute.String("addr", addr),
	))
	defer span.End()

	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		dialer := net.Dialer{Timeout: p.timeout}
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return retry.RetryableError(err)
		}
		return conn.Close()
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Ok, "target down")
		return types.CheckStatusDown
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "target up")
	return types.CheckStatusUp
}
