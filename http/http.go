package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"hellok8s"
)

// ErrorResponse represents a JSON structure for error output.
type ErrorResponse struct {
	Error string `json:"error"`
}

// encodeError writes the error code's status & user-facing message.
// It is installed as the go-kit ServerErrorEncoder for every endpoint.
func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	// Extract error code & message.
	code, message := hellok8s.ErrorCode(err), hellok8s.ErrorMessage(err)

	// Print user message to response.
	w.Header().Set("Content-type", "application/json")
	w.WriteHeader(ErrorStatusCode(code))
	_ = json.NewEncoder(w).Encode(&ErrorResponse{Error: message})
}

// encodeText writes s as a plain text body.
func encodeText(w http.ResponseWriter, s string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err := w.Write([]byte(s))
	return err
}

// lookup of application error codes to HTTP status codes.
var codes = map[string]int{
	hellok8s.EBADGATEWAY: http.StatusBadGateway,
	hellok8s.EINVALID:    http.StatusBadRequest,
	hellok8s.ENOTFOUND:   http.StatusNotFound,
	hellok8s.EINTERNAL:   http.StatusInternalServerError,
}

// ErrorStatusCode returns the associated HTTP status code for an error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// recoveryLogger adapts a go-kit logger to gorilla's RecoveryHandlerLogger.
type recoveryLogger struct {
	logger log.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	level.Error(l.logger).Log("msg", "recovered from panic", "err", fmt.Sprint(v...))
}
