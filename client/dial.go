package client

import (
	"context"
	"crypto/tls"

	"github.com/indigo-web/nanohttp/config"
	"github.com/indigo-web/nanohttp/transport"
)

// Dial establishes a plain TCP connection to the addr in the host:port form. The buffers
// are allocated once, according to the config.
func Dial(ctx context.Context, addr string, cfg *config.Config, opts ...Option) (*Conn, error) {
	conn, err := transport.Dial(ctx, "tcp", addr, cfg.NET)
	if err != nil {
		return nil, err
	}

	return newConn(conn, cfg, opts), nil
}

// DialTLS establishes a TLS connection to the addr in the host:port form. The tlsCfg may be
// nil, in which case the defaults are used.
func DialTLS(ctx context.Context, addr string, cfg *config.Config, tlsCfg *tls.Config, opts ...Option) (*Conn, error) {
	conn, err := transport.DialTLS(ctx, addr, cfg.NET, tlsCfg)
	if err != nil {
		return nil, err
	}

	return newConn(conn, cfg, opts), nil
}

func newConn(conn transport.Conn, cfg *config.Config, opts []Option) *Conn {
	buffers := NewBuffers(cfg)
	client := transport.NewClient(conn, cfg.NET, buffers.Read)
	opts = append([]Option{WithBodyLimit(cfg.Body.MaxSize)}, opts...)

	return NewConn(client, buffers, opts...)
}
