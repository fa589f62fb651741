package restclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// unknownErrorCode is reported when an error status arrives without a usable
// error envelope in the body.
const unknownErrorCode = "UNKNOWN_ERROR"

// apiErrorEntry mirrors one element of the API's error envelope: a JSON array
// of error objects, of which the first is authoritative.
type apiErrorEntry struct {
	ErrorCode string   `json:"errorCode"`
	Message   string   `json:"message"`
	Fields    []string `json:"fields"`
}

// classify maps a completed HTTP exchange onto either the raw JSON payload of
// a success or a typed error. Rules, in priority order:
//
//   - 401, 403: authentication required, body ignored
//   - 400, 404, 405, 415: structured API error parsed from the body, with an
//     UNKNOWN_ERROR fallback when the envelope is absent or malformed
//   - 500: server error, body ignored
//   - any other non-2xx: unexpected status, body retained verbatim
//   - 2xx: raw body handed to the decoder; an empty body becomes JSON null
//
// Whether a 2xx body actually parses as JSON is the decoder's concern.
func classify(statusCode int, body []byte) (json.RawMessage, error) {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return nil, ErrAuthenticationRequired

	case statusCode == http.StatusBadRequest,
		statusCode == http.StatusNotFound,
		statusCode == http.StatusMethodNotAllowed,
		statusCode == http.StatusUnsupportedMediaType:
		return nil, apiError(statusCode, body)

	case statusCode == http.StatusInternalServerError:
		return nil, &ServerError{StatusCode: statusCode}

	case statusCode >= 200 && statusCode < 300:
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) == 0 {
			return json.RawMessage("null"), nil
		}
		return json.RawMessage(trimmed), nil

	default:
		return nil, &UnexpectedStatusError{StatusCode: statusCode, Body: body}
	}
}

// apiError extracts the structured error envelope, falling back to
// UNKNOWN_ERROR when the body is not the documented shape.
func apiError(statusCode int, body []byte) *APIError {
	var envelope []apiErrorEntry
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope) > 0 {
		first := envelope[0]
		if first.ErrorCode != "" && first.Message != "" {
			return &APIError{
				StatusCode: statusCode,
				Code:       first.ErrorCode,
				Message:    first.Message,
				Fields:     first.Fields,
			}
		}
	}

	return &APIError{
		StatusCode: statusCode,
		Code:       unknownErrorCode,
		Message:    fmt.Sprintf("Unknown error. HTTP status: %d", statusCode),
	}
}
