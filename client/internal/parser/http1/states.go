package http1

type parserState uint8

const (
	eStatusLine parserState = iota
	eHeaderLine
	eDone
)

type chunkedParserState uint8

const (
	eChunkLength chunkedParserState = iota
	eChunkExt
	eChunkLengthCR
	eChunkBody
	eChunkBodyDone
	eChunkBodyCRLF
	eChunkTrailer
	eChunkTrailerFieldLine
)
