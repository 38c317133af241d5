package holmes

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of a failed response body is read into a message.
const maxErrorBody = 4 << 10

// SearchRequestFailed is returned for any transport error, non-2xx response or
// undecodable body. It only concerns the status category that was searched.
type SearchRequestFailed struct {
	StatusCategory Status
	// StatusCode is the upstream HTTP status, 0 when no response was received.
	StatusCode int
	Message    string
	Err        error
}

func (e *SearchRequestFailed) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("search %s processes failed (HTTP %d): %s", e.StatusCategory, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("search %s processes failed: %s", e.StatusCategory, e.Message)
}

func (e *SearchRequestFailed) Unwrap() error {
	return e.Err
}

// HTTPError is the non-2xx response detail wrapped by SearchRequestFailed.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error (%d %s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Status)
}

// parseHTTPError reads a failed response and extracts the most specific
// message it can find: {"error"}, {"message"}, JSON:API errors[], or the body.
func parseHTTPError(resp *http.Response) *HTTPError {
	httpErr := &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		httpErr.Message = fmt.Sprintf("failed to read error response body: %v", err)
		return httpErr
	}
	httpErr.Body = strings.TrimSpace(string(body))

	var jsonErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Errors  []struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if json.Unmarshal(body, &jsonErr) == nil {
		switch {
		case jsonErr.Error != "":
			httpErr.Message = jsonErr.Error
			return httpErr
		case jsonErr.Message != "":
			httpErr.Message = jsonErr.Message
			return httpErr
		case len(jsonErr.Errors) > 0:
			details := make([]string, 0, len(jsonErr.Errors))
			for _, e := range jsonErr.Errors {
				if e.Detail != "" {
					details = append(details, e.Title+": "+e.Detail)
				} else {
					details = append(details, e.Title)
				}
			}
			httpErr.Message = strings.Join(details, "; ")
			return httpErr
		}
	}

	httpErr.Message = httpErr.Body
	return httpErr
}
