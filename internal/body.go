package internal

import (
	"bytes"
	"net/http"
	"strconv"
)

// DefaultMaxBodyBytes caps an accumulated request body.
const DefaultMaxBodyBytes int64 = 10 << 20

type bodyState uint8

const (
	bodyIdle bodyState = iota
	bodyReading
	bodyDone
)

// lengthMode says how the end of a body is detected.
type lengthMode uint8

const (
	// lengthAbsent: the first chunk is the whole body.
	lengthAbsent lengthMode = iota
	// lengthKnown: complete once content-length bytes arrived.
	lengthKnown
	// lengthInvalid: wait for the transport to end the stream.
	lengthInvalid
)

// bodyResult is handed to the completion callback exactly once.
type bodyResult struct {
	raw []byte
	// received is false when no chunk ever arrived.
	received bool
	err      error
}

// bodyAccumulator collects streamed chunks into one body.
// Only PUT and POST carry a body; other methods complete immediately.
type bodyAccumulator struct {
	state    bodyState
	method   string
	mode     lengthMode
	length   int64
	maxBytes int64
	buf      bytes.Buffer
	received bool
	closer   interface{ Close() }
	complete func(bodyResult)
}

func newBodyAccumulator(method string, contentLength []string, maxBytes int64, closer interface{ Close() }, complete func(bodyResult)) *bodyAccumulator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	a := &bodyAccumulator{
		method:   method,
		maxBytes: maxBytes,
		closer:   closer,
		complete: complete,
	}
	if len(contentLength) > 0 {
		n, err := strconv.ParseInt(contentLength[0], 10, 64)
		if err != nil || n < 0 {
			a.mode = lengthInvalid
		} else {
			a.mode, a.length = lengthKnown, n
		}
	}
	return a
}

// start moves the accumulator out of idle. It may complete synchronously.
func (a *bodyAccumulator) start() {
	if a.state != bodyIdle {
		return
	}
	if a.method != http.MethodPut && a.method != http.MethodPost {
		a.finish(bodyResult{}, false)
		return
	}
	a.state = bodyReading
	if a.mode == lengthKnown && a.length > a.maxBytes {
		a.finish(bodyResult{err: ErrBodyTooLarge}, true)
	}
}

func (a *bodyAccumulator) Data(chunk []byte) {
	if a.state != bodyReading {
		return
	}
	a.received = true
	a.buf.Write(chunk)

	// Known lengths above the cap were rejected in start.
	if a.mode != lengthKnown && int64(a.buf.Len()) > a.maxBytes {
		a.finish(bodyResult{err: ErrBodyTooLarge}, true)
		return
	}

	switch a.mode {
	case lengthKnown:
		if int64(a.buf.Len()) >= a.length {
			a.buf.Truncate(int(a.length))
			a.finish(a.result(), true)
		}
	case lengthAbsent:
		a.finish(a.result(), true)
	}
}

// Done reports whether the body has completed.
func (a *bodyAccumulator) Done() bool {
	return a.state == bodyDone
}

// End reports the natural end of the stream.
func (a *bodyAccumulator) End() {
	if a.state != bodyReading {
		return
	}
	a.finish(a.result(), false)
}

func (a *bodyAccumulator) result() bodyResult {
	return bodyResult{raw: a.buf.Bytes(), received: a.received}
}

func (a *bodyAccumulator) finish(res bodyResult, closeTransport bool) {
	a.state = bodyDone
	if closeTransport && a.closer != nil {
		a.closer.Close()
	}
	if a.complete != nil {
		a.complete(res)
	}
}
