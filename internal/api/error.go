package api

// HTTPError carries the status and client-facing message for a failed
// request. ErrorLog keeps internal detail out of the response body; it
// is only ever printed server side.
type HTTPError struct {
	StatusCode int
	Message    string
	ErrorLog   error
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ApiError is the JSON error envelope every endpoint returns.
type ApiError struct {
	Error string `json:"message"`
}
