package client

// State is a connection lifecycle stage. Every public operation of Conn is guarded by it.
type State uint8

const (
	// Idle connections are ready to send a request.
	Idle State = iota
	// BodyWriting means the request head is sent, and the declared body is being streamed.
	BodyWriting
	// RequestSent means the request is fully transmitted and the response is awaited.
	RequestSent
	// HeadersPending means the response head is being read.
	HeadersPending
	// BodyPending means the response head is available, and the body is being read.
	BodyPending
	// Complete means the exchange is over, and the connection may be reused.
	Complete
	// Closed connections are unusable, as the transport is closed.
	Closed
)

func (s State) String() string {
	lut := [...]string{
		Idle:           "Idle",
		BodyWriting:    "BodyWriting",
		RequestSent:    "RequestSent",
		HeadersPending: "HeadersPending",
		BodyPending:    "BodyPending",
		Complete:       "Complete",
		Closed:         "Closed",
	}

	if int(s) >= len(lut) {
		return "Unknown"
	}

	return lut[s]
}
