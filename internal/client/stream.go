package client

import (
	"bytes"
	"encoding/json"
	"strings"
)

// StreamResponse is one decoded unit of server output. Done marks the end
// of the stream; Text is empty in that case.
type StreamResponse struct {
	Text string
	Done bool
}

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"
)

// streamParser reassembles SSE events from response bytes delivered in
// arbitrary-sized chunks. The buffer always holds the suffix of the input
// after the last newline processed, so a line split across chunks is
// decoded exactly once. Not safe for concurrent use; each request owns
// its own parser.
type streamParser struct {
	buf  []byte
	emit func(StreamResponse) error
}

// feed appends chunk and decodes every complete line. The unterminated
// tail is retained for the next call. Parse anomalies never error; only
// the emit callback can abort.
func (p *streamParser) feed(chunk []byte) error {
	p.buf = append(p.buf, chunk...)

	for {
		idx := bytes.IndexByte(p.buf, '\n')
		if idx == -1 {
			return nil
		}

		line := string(p.buf[:idx])
		p.buf = p.buf[idx+1:]
		line = strings.TrimRight(line, "\r")

		// Lines without the data marker are SSE comments, event-type
		// lines, or keep-alive blanks. All are dropped.
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := line[len(dataPrefix):]

		if payload == "" || payload == doneSentinel {
			if err := p.emit(StreamResponse{Done: true}); err != nil {
				return err
			}
			continue
		}

		if err := p.emit(decodePayload(payload)); err != nil {
			return err
		}
	}
}

// decodePayload extracts the "response" field from a data payload.
// Payloads that are not JSON objects, or that lack the field, pass
// through verbatim. That fallback is a compatibility mode for servers
// that stream plain text; callers depend on it.
func decodePayload(payload string) StreamResponse {
	var body struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal([]byte(payload), &body); err == nil && body.Response != nil {
		return StreamResponse{Text: *body.Response}
	}
	return StreamResponse{Text: payload}
}
