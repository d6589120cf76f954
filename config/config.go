package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type (
	HeadersNumber struct {
		// Maximal is the capacity of the response header store. A response carrying more
		// fields fails with a BufferTooSmall error.
		Maximal int `yaml:"maximal"`
		// Trailers is the capacity of the chunked body trailer store.
		Trailers int `yaml:"trailers"`
	}

	HeadersSpace struct {
		// Maximal limits the amount of memory occupied by the status line and the header
		// fields of a response, as they must be kept while the response is alive.
		Maximal int `yaml:"maximal"`
		// Trailers limits the memory for trailer fields of a chunked body.
		Trailers int `yaml:"trailers"`
	}

	RequestBufferSize struct {
		// Maximal is the size of a buffer the request line and headers are serialized into.
		// Streamed request body chunks are framed in it, too.
		Maximal int `yaml:"maximal"`
	}
)

type (
	Headers struct {
		// Number is responsible for the headers storage capacity.
		Number HeadersNumber `yaml:"number"`
		// Space limits the amount of memory occupied by response headers.
		Space HeadersSpace `yaml:"space"`
	}

	Request struct {
		Buffer RequestBufferSize `yaml:"buffer"`
	}

	Body struct {
		// MaxSize describes the maximal size of a response body, that can be processed. 0 disables
		// the limit.
		MaxSize uint64 `yaml:"max_size" test:"nullable"`
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int `yaml:"read_buffer_size"`
		// ReadTimeout is applied before every read, if the connection supports deadlines.
		// 0 disables it.
		ReadTimeout time.Duration `yaml:"read_timeout"`
		// WriteTimeout is applied before every write, if the connection supports deadlines.
		// 0 disables it.
		WriteTimeout time.Duration `yaml:"write_timeout"`
		// DialTimeout limits the time spent on name resolution and connection establishment.
		DialTimeout time.Duration `yaml:"dial_timeout"`
	}
)

// Config holds settings used across various parts of nanohttp, mainly sizes of the buffers
// the connection is provided with, limitations and timeouts.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Headers Headers `yaml:"headers"`
	Request Request `yaml:"request"`
	Body    Body    `yaml:"body"`
	NET     NET     `yaml:"net"`
}

// Default returns default config. The values are tailored for constrained devices talking to
// ordinary web servers.
func Default() *Config {
	return &Config{
		Headers: Headers{
			Number: HeadersNumber{
				Maximal:  32,
				Trailers: 4,
			},
			Space: HeadersSpace{
				Maximal:  4 * 1024, // most servers reply with way less than 1kb of headers.
				Trailers: 512,
			},
		},
		Request: Request{
			Buffer: RequestBufferSize{
				Maximal: 2 * 1024,
			},
		},
		Body: Body{
			MaxSize: 0,
		},
		NET: NET{
			ReadBufferSize: 2 * 1024,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			DialTimeout:    10 * time.Second,
		},
	}
}

// Load overlays the YAML document at path onto the defaults. Fields missing in the document
// keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	if err = yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	return cfg, nil
}

// Validate checks whether the buffers are large enough to hold at least the minimal
// possible message.
func (c *Config) Validate() error {
	const minLineLength = len("HTTP/1.1 200\r\n")

	switch {
	case c.Headers.Space.Maximal < minLineLength:
		return fmt.Errorf("headers.space.maximal must be at least %d", minLineLength)
	case c.Headers.Number.Maximal < 0 || c.Headers.Number.Trailers < 0 || c.Headers.Space.Trailers < 0:
		return fmt.Errorf("headers limits must not be negative")
	case c.Request.Buffer.Maximal < minLineLength:
		return fmt.Errorf("request.buffer.maximal must be at least %d", minLineLength)
	case c.NET.ReadBufferSize <= 0:
		return fmt.Errorf("net.read_buffer_size must be positive")
	}

	return nil
}
