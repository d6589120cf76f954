package address

import (
	"fmt"
	"net"
	"net/url"

	"github.com/indigo-web/nanohttp/errors"
)

const (
	defaultHTTPPort  = "80"
	defaultHTTPSPort = "443"
)

// Address is a request destination, split from the URL into what the connection needs.
type Address struct {
	// TLS is set for the https scheme.
	TLS bool
	// Host is the value of the Host header, the port is included only if explicitly given.
	Host string
	// Addr is the dialing address in the host:port form.
	Addr string
	// Target is the request target: escaped path and query.
	Target string
}

// Parse splits the URL. Only http and https schemes are supported. All the failures are
// reported as errors.InvalidURL.
func Parse(raw string) (Address, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Address{}, errors.Wrap(errors.InvalidURL, err)
	}

	var port string
	switch u.Scheme {
	case "http":
		port = defaultHTTPPort
	case "https":
		port = defaultHTTPSPort
	default:
		return Address{}, fmt.Errorf("scheme %q: %w", u.Scheme, errors.ErrInvalidURL)
	}

	if len(u.Hostname()) == 0 {
		return Address{}, fmt.Errorf("%q has no host: %w", raw, errors.ErrInvalidURL)
	}

	if p := u.Port(); len(p) > 0 {
		port = p
	}

	return Address{
		TLS:    u.Scheme == "https",
		Host:   u.Host,
		Addr:   net.JoinHostPort(u.Hostname(), port),
		Target: u.RequestURI(),
	}, nil
}
