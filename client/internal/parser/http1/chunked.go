package http1

import (
	"bytes"
	"io"

	"github.com/indigo-web/nanohttp/errors"
	"github.com/indigo-web/nanohttp/http/headers"
	"github.com/indigo-web/nanohttp/internal/buffer"
	"github.com/indigo-web/nanohttp/internal/hexconv"
)

// maxChunkLengthDigits limits the chunk length to what fits into uint64.
const maxChunkLengthDigits = 64 / 4

type chunkedParser struct {
	state        chunkedParserState
	lengthDigits uint8
	chunkLength  uint64
	buff         buffer.Buffer
	trailers     *headers.Headers
}

// newChunkedParser returns a chunked body decoder. Trailer field lines are decoded into the
// trailers store, using buff as their backing memory.
func newChunkedParser(buff []byte, trailers *headers.Headers) chunkedParser {
	return chunkedParser{
		state:    eChunkLength,
		buff:     buffer.New(buff),
		trailers: trailers,
	}
}

// Parse returns a chunk when it's ready, nil otherwise. io.EOF signals that the body
// is complete, the trailers are available from that moment. The data following the body
// is returned as extra.
func (c *chunkedParser) Parse(data []byte) (chunk, extra []byte, err error) {
	switch c.state {
	case eChunkLength:
		goto chunkLength
	case eChunkExt:
		goto chunkExt
	case eChunkLengthCR:
		goto chunkLengthCR
	case eChunkBody:
		goto chunkBody
	case eChunkBodyDone:
		goto chunkBodyDone
	case eChunkBodyCRLF:
		goto chunkBodyCRLF
	case eChunkTrailer:
		goto trailer
	case eChunkTrailerFieldLine:
		goto chunkTrailerFieldLine
	default:
		panic("BUG: chunked parser: unknown state")
	}

chunkLength:
	for i := 0; i < len(data); i++ {
		switch char := data[i]; char {
		case '\r':
			if c.lengthDigits == 0 {
				return nil, nil, errors.ErrBadChunk
			}

			data = data[i+1:]
			goto chunkLengthCR
		case '\n':
			if c.lengthDigits == 0 {
				return nil, nil, errors.ErrBadChunk
			}

			data = data[i:]
			goto chunkLengthCR
		case ';':
			if c.lengthDigits == 0 {
				return nil, nil, errors.ErrBadChunk
			}

			data = data[i+1:]
			goto chunkExt
		default:
			val := hexconv.Halfbyte[char]
			if val == 0xFF {
				return nil, nil, errors.ErrBadChunk
			}

			c.chunkLength = (c.chunkLength << 4) | uint64(val)
			if c.lengthDigits++; c.lengthDigits > maxChunkLengthDigits {
				return nil, nil, errors.ErrBadChunk
			}
		}
	}

	c.state = eChunkLength
	return nil, nil, nil

chunkExt:
	{
		// chunk extensions aren't supported, therefore completely ignored.
		boundary := bytes.IndexByte(data, '\n')
		if boundary == -1 {
			c.state = eChunkExt
			return nil, nil, nil
		}

		data = data[boundary+1:]
		if c.chunkLength == 0 {
			goto trailer
		}

		goto chunkBody
	}

chunkLengthCR:
	if len(data) == 0 {
		c.state = eChunkLengthCR
		return nil, nil, nil
	}

	if data[0] != '\n' {
		return nil, nil, errors.ErrBadChunk
	}

	data = data[1:]

	if c.chunkLength == 0 {
		goto trailer
	}

	goto chunkBody

chunkBody:
	{
		n := min(c.chunkLength, uint64(len(data)))
		c.chunkLength -= n
		chunk = data[:n]

		if c.chunkLength == 0 {
			c.state = eChunkBodyDone
		} else {
			c.state = eChunkBody
		}

		return chunk, data[n:], nil
	}

chunkBodyDone:
	if len(data) == 0 {
		return nil, nil, nil
	}

	c.lengthDigits = 0
	switch data[0] {
	case '\r':
		data = data[1:]
		goto chunkBodyCRLF
	case '\n':
		data = data[1:]
		goto chunkLength
	default:
		return nil, nil, errors.ErrBadChunk
	}

chunkBodyCRLF:
	if len(data) == 0 {
		c.state = eChunkBodyCRLF
		return nil, nil, nil
	}

	if data[0] != '\n' {
		return nil, nil, errors.ErrBadChunk
	}

	data = data[1:]
	goto chunkLength

trailer:
	if len(data) == 0 {
		c.state = eChunkTrailer
		return nil, nil, nil
	}

	goto chunkTrailerFieldLine

chunkTrailerFieldLine:
	{
		line, rest, complete, err := readLine(&c.buff, data)
		if err != nil {
			return nil, nil, err
		}

		if !complete {
			c.state = eChunkTrailerFieldLine
			return nil, nil, nil
		}

		data = rest

		if len(line) == 0 {
			c.reset()
			return nil, data, io.EOF
		}

		name, value, err := splitFieldLine(line)
		if err != nil {
			return nil, nil, err
		}

		if err = c.trailers.Add(name, value); err != nil {
			return nil, nil, err
		}

		goto trailer
	}
}

// Clear drops the decoded trailers and prepares the parser for a new body.
func (c *chunkedParser) Clear() {
	c.reset()
	c.buff.Clear()
	c.trailers.Clear()
}

func (c *chunkedParser) reset() {
	c.state = eChunkLength
	c.lengthDigits = 0
	c.chunkLength = 0
}
