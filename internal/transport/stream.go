package transport

import (
	"io"
)

// FragmentStream is a lazy, order-preserving, finite sequence of text
// fragments. Recv returns io.EOF after the last fragment; any other error
// is terminal. Both delivery modes (chunked body and server-push events)
// sit behind this interface so the consumer never knows which is active.
type FragmentStream interface {
	Recv() (string, error)
	Close() error
}

// chunkStream delivers raw body chunks as they arrive from the wire.
type chunkStream struct {
	body io.ReadCloser
	buf  []byte
	// pendingErr holds an error that arrived together with a chunk; it is
	// surfaced on the next Recv so the chunk is never lost.
	pendingErr error
	done       bool
}

func newChunkStream(body io.ReadCloser) *chunkStream {
	return &chunkStream{body: body, buf: make([]byte, 4096)}
}

func (s *chunkStream) Recv() (string, error) {
	if s.done {
		if s.pendingErr != nil {
			err := s.pendingErr
			s.pendingErr = nil
			return "", &TransportError{Message: "stream interrupted", Err: err}
		}
		return "", io.EOF
	}

	for {
		n, err := s.body.Read(s.buf)
		if n > 0 {
			if err != nil {
				s.done = true
				if err != io.EOF {
					s.pendingErr = err
				}
			}
			return string(s.buf[:n]), nil
		}
		if err == io.EOF {
			s.done = true
			return "", io.EOF
		}
		if err != nil {
			s.done = true
			return "", &TransportError{Message: "stream interrupted", Err: err}
		}
	}
}

func (s *chunkStream) Close() error {
	return s.body.Close()
}
