package restclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/AmmannChristian/go-restx/credentials"
)

// RequestDescriptor is a fully-formed, ready-to-send representation of an
// HTTP request. It is created fresh per attempt and consumed once by the
// transport.
type RequestDescriptor struct {
	Method string
	URL    string
	Header map[string]string
	Body   []byte
}

// RequestBuilder maps credentials to a request descriptor. Builders are
// invoked once per attempt, so a replay after a credential refresh is built
// against the refreshed credentials. A builder error aborts the pipeline
// without a retry.
type RequestBuilder func(creds credentials.Credentials) (RequestDescriptor, error)

// ResolveURL resolves path against the instance URL. Absolute URLs pass
// through unchanged.
func ResolveURL(instanceURL, path string) string {
	if path == "" {
		return instanceURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(instanceURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Get returns a RequestBuilder for a GET request against path, resolved
// relative to the credentials' instance URL unless absolute.
func Get(path string) RequestBuilder {
	return func(creds credentials.Credentials) (RequestDescriptor, error) {
		return RequestDescriptor{
			Method: http.MethodGet,
			URL:    ResolveURL(creds.InstanceURL, path),
			Header: authHeader(creds),
		}, nil
	}
}

// JSONRequest returns a RequestBuilder that sends payload, marshaled as JSON,
// in a request with the given method against path. A nil payload produces a
// bodyless request.
func JSONRequest(method, path string, payload any) RequestBuilder {
	return func(creds credentials.Credentials) (RequestDescriptor, error) {
		header := authHeader(creds)

		var body []byte
		if payload != nil {
			b, err := json.Marshal(payload)
			if err != nil {
				return RequestDescriptor{}, fmt.Errorf("restclient: cannot marshal request payload: %w", err)
			}
			body = b
			header["Content-Type"] = "application/json"
		}

		return RequestDescriptor{
			Method: method,
			URL:    ResolveURL(creds.InstanceURL, path),
			Header: header,
			Body:   body,
		}, nil
	}
}

// NextPage returns a RequestBuilder for the "next records" URL handed back by
// a paginated query response. The URL is passed through as the server
// provided it, resolved against the instance URL when relative.
func NextPage(nextRecordsURL string) RequestBuilder {
	return Get(nextRecordsURL)
}

func authHeader(creds credentials.Credentials) map[string]string {
	return map[string]string{"Authorization": "Bearer " + creds.AccessToken}
}
