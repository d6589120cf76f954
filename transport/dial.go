package transport

import (
	"context"
	"crypto/tls"
	"net"

	"github.com/indigo-web/nanohttp/config"
	"github.com/indigo-web/nanohttp/errors"
)

// Dial resolves the address and establishes the connection. Failed name resolution is
// reported as errors.DNS, any other failure as errors.Network.
func Dial(ctx context.Context, network, addr string, cfg config.NET) (net.Conn, error) {
	dialer := net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			return nil, errors.Wrap(errors.DNS, err)
		}

		return nil, errors.Wrap(errors.Network, err)
	}

	return conn, nil
}

// WrapTLS performs the client handshake over the connection. On failure the connection is
// closed and errors.TLS is returned. The resulting connection is yet another Conn.
func WrapTLS(ctx context.Context, conn net.Conn, cfg *tls.Config) (*tls.Conn, error) {
	tlsConn := tls.Client(conn, cfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(errors.TLS, err)
	}

	return tlsConn, nil
}

// DialTLS dials the address and wraps the connection into TLS. The server name is derived
// from the address unless set explicitly.
func DialTLS(ctx context.Context, addr string, cfg config.NET, tlsCfg *tls.Config) (*tls.Conn, error) {
	conn, err := Dial(ctx, "tcp", addr, cfg)
	if err != nil {
		return nil, err
	}

	if tlsCfg == nil {
		tlsCfg = new(tls.Config)
	}

	if tlsCfg.ServerName == "" {
		tlsCfg = tlsCfg.Clone()
		tlsCfg.ServerName, _, err = net.SplitHostPort(addr)
		if err != nil {
			_ = conn.Close()
			return nil, errors.Wrap(errors.InvalidURL, err)
		}
	}

	return WrapTLS(ctx, conn, tlsCfg)
}
