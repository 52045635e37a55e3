package wire

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedResponse = errors.New("wire: malformed response")

// Status is the device-reported outcome code leading every reply line.
type Status int

const (
	Success     Status = 0
	ClientError Status = 1
	ServerError Status = 2
)

func (s Status) String() string {
	switch s {
	case Success:
		return "Success"
	case ClientError:
		return "ClientError"
	case ServerError:
		return "ServerError"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Response is one decoded reply line.
type Response struct {
	Status  Status
	Payload string
}

// OK reports whether the device accepted the command.
func (r Response) OK() bool {
	return r.Status == Success
}

// DecodeResponse parses a raw reply line. The line splits on the first
// whitespace run into a status token and the payload; the payload keeps its
// internal whitespace verbatim since amalgamated dumps and error messages are
// space-delimited. A status-0 line with no payload is a valid empty value.
func DecodeResponse(raw string) (Response, error) {
	line := strings.TrimRight(raw, "\r\n")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return Response{}, fmt.Errorf("%w: empty line", ErrMalformedResponse)
	}

	statusToken := trimmed
	payload := ""
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		statusToken = trimmed[:i]
		payload = strings.TrimLeft(trimmed[i:], " \t")
	}

	switch statusToken {
	case "0":
		return Response{Status: Success, Payload: payload}, nil
	case "1":
		return Response{Status: ClientError, Payload: payload}, nil
	case "2":
		return Response{Status: ServerError, Payload: payload}, nil
	default:
		return Response{}, fmt.Errorf("%w: status token %q", ErrMalformedResponse, statusToken)
	}
}
