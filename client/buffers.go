package client

import (
	"github.com/indigo-web/nanohttp/config"
	"github.com/indigo-web/nanohttp/http/headers"
)

// Buffers is all the memory a connection operates on. It's never grown nor reallocated,
// so its sizes determine the connection limits.
type Buffers struct {
	// Request holds the serialized request line and header fields.
	Request []byte
	// Read is what the transport reads into.
	Read []byte
	// Headers holds the status line and the response header fields.
	Headers []byte
	// HeaderPairs is the storage of the response header store.
	HeaderPairs []headers.Pair
	// Trailers holds trailer fields of chunked response bodies.
	Trailers []byte
	// TrailerPairs is the storage of the trailer store.
	TrailerPairs []headers.Pair
}

// NewBuffers allocates the buffers of sizes set in the config.
func NewBuffers(cfg *config.Config) Buffers {
	return Buffers{
		Request:      make([]byte, cfg.Request.Buffer.Maximal),
		Read:         make([]byte, cfg.NET.ReadBufferSize),
		Headers:      make([]byte, cfg.Headers.Space.Maximal),
		HeaderPairs:  make([]headers.Pair, cfg.Headers.Number.Maximal),
		Trailers:     make([]byte, cfg.Headers.Space.Trailers),
		TrailerPairs: make([]headers.Pair, cfg.Headers.Number.Trailers),
	}
}
