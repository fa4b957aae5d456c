package common

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BackendError is a non-2xx answer of the backend. Detail is the backend's own
// message, shown to the user verbatim.
type BackendError struct {
	Status int
	Detail string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend status %d: %s", e.Status, e.Detail)
}

type errorResponse struct {
	Detail jsoniter.RawMessage `json:"detail"`
}

// GetStructFromResponse decodes a backend answer into in (which may be nil when
// the body is not needed) and closes the body. Non-2xx answers become *BackendError.
func GetStructFromResponse(in interface{}, resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	defer resp.Body.Close()
	if err != nil {
		return err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &BackendError{Status: resp.StatusCode, Detail: detailFromBody(body, resp.Status)}
	}

	if in == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	err = json.Unmarshal(body, in)
	if err != nil {
		return fmt.Errorf("error parsing response: %v, status: %v, txt: %v", err, resp.StatusCode, string(body))
	}
	return nil
}

func detailFromBody(body []byte, status string) string {
	errResp := &errorResponse{}
	if err := json.Unmarshal(body, errResp); err != nil || len(errResp.Detail) == 0 {
		if text := string(bytes.TrimSpace(body)); text != "" {
			return text
		}
		return status
	}
	var detail string
	if err := json.Unmarshal(errResp.Detail, &detail); err == nil {
		return detail
	}
	// validation errors come as a list of objects
	return string(errResp.Detail)
}

// ErrorText is the user-facing part of err: the backend detail for backend
// errors, the error message otherwise.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Detail
	}
	return err.Error()
}

// IsBackendError reports whether err carries a structured backend answer as
// opposed to a transport or parse failure.
func IsBackendError(err error) bool {
	var backendErr *BackendError
	return errors.As(err, &backendErr)
}

func Marshal(in interface{}) ([]byte, error) {
	return json.Marshal(in)
}
