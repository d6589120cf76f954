package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/nanohttp/client"
	"github.com/indigo-web/nanohttp/config"
	"github.com/indigo-web/nanohttp/errors"
	"github.com/indigo-web/nanohttp/http/headers"
	"github.com/indigo-web/nanohttp/http/method"
	"github.com/indigo-web/nanohttp/internal/address"
	json "github.com/json-iterator/go"
)

type options struct {
	URL       string
	Method    string
	Headers   []string
	Body      string
	Config    string
	JSON      bool
	Include   bool
	Insecure  bool
	RequestID bool
	Timeout   time.Duration
}

// summary is what gets printed in the JSON mode.
type summary struct {
	RequestID  string      `json:"requestId,omitempty"`
	Protocol   string      `json:"protocol"`
	Code       int         `json:"code"`
	Reason     string      `json:"reason"`
	Headers    [][2]string `json:"headers"`
	Trailers   [][2]string `json:"trailers,omitempty"`
	BodyLength int         `json:"bodyLength"`
	Body       string      `json:"body"`
}

func fetch(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if opts.Timeout > 0 {
		cfg.NET.ReadTimeout, cfg.NET.WriteTimeout = opts.Timeout, opts.Timeout
	}

	dst, err := address.Parse(opts.URL)
	if err != nil {
		return err
	}

	m := method.Parse(strings.ToUpper(opts.Method))
	if m == method.Unknown {
		return fmt.Errorf("method %q: %w", opts.Method, errors.ErrUnknownMethod)
	}

	hdrs := headers.New(make([]headers.Pair, 0, len(opts.Headers)+2))
	_ = hdrs.Add([]byte("Host"), []byte(dst.Host))

	for _, h := range opts.Headers {
		name, value, _ := strings.Cut(h, ":")
		_ = hdrs.Add([]byte(strings.TrimSpace(name)), []byte(strings.TrimSpace(value)))
	}

	var requestID string
	if opts.RequestID {
		requestID = uniuri.NewLen(20)
		_ = hdrs.Add([]byte("X-Request-Id"), []byte(requestID))
	}

	log := slog.Default().With("addr", dst.Addr)
	if requestID != "" {
		log = log.With("requestID", requestID)
	}

	conn, err := dial(ctx, dst, cfg, opts.Insecure, client.WithLogger(log))
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	req := client.NewRequest(m, dst.Target, hdrs)
	if len(opts.Body) > 0 {
		req.WithBody([]byte(opts.Body))
	}

	start := time.Now()
	if err = conn.Send(req); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	resp, err := conn.ReadResponse()
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	log.Debug("response head received", "code", int(resp.Code), "framing", resp.Framing.Kind.String(), "took", time.Since(start))

	if opts.Include && !opts.JSON {
		fmt.Fprintf(out, "%s %d %s\n", resp.Protocol, resp.Code, resp.Reason)
		for name, value := range resp.Headers.Iter() {
			fmt.Fprintf(out, "%s: %s\n", name, value)
		}
		fmt.Fprintln(out)
	}

	var s summary
	if opts.JSON {
		// the head references the connection buffers, so it must be copied before the body
		// is consumed.
		s = summary{
			RequestID: requestID,
			Protocol:  resp.Protocol.String(),
			Code:      int(resp.Code),
			Reason:    string(resp.Reason),
			Headers:   pairs(resp.Headers),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	log.Info("done", "code", int(resp.Code), "bodyLength", len(body), "took", time.Since(start))

	if !opts.JSON {
		_, err = out.Write(body)
		return err
	}

	s.Trailers = pairs(resp.Body.Trailers())
	s.BodyLength = len(body)
	s.Body = string(body)

	return writeJSON(out, s)
}

func dial(ctx context.Context, dst address.Address, cfg *config.Config, insecure bool, opts ...client.Option) (*client.Conn, error) {
	if !dst.TLS {
		return client.Dial(ctx, dst.Addr, cfg, opts...)
	}

	return client.DialTLS(ctx, dst.Addr, cfg, &tls.Config{InsecureSkipVerify: insecure}, opts...)
}

func pairs(h *headers.Headers) (out [][2]string) {
	for name, value := range h.Iter() {
		out = append(out, [2]string{string(name), string(value)})
	}

	return out
}

func writeJSON(out io.Writer, s summary) error {
	stream := json.ConfigDefault.BorrowStream(out)
	defer json.ConfigDefault.ReturnStream(stream)

	stream.WriteVal(s)
	stream.WriteRaw("\n")
	if stream.Error != nil {
		return fmt.Errorf("encode: %w", stream.Error)
	}

	return stream.Flush()
}
