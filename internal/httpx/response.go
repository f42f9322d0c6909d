// Package httpx holds the JSON response helpers shared by the REST handlers.
//
// Every failure uses one envelope, {"success": false, "error", "code"}, with
// the status derived from the apperror code.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/apperror"
)

// ErrorResponse is the failure envelope of the REST endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status and writes the failure envelope.
// Uncategorised errors never leak their message.
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorStatus(w, 0, err)
}

// WriteErrorStatus is WriteError with an explicit status for uncategorised
// errors; status 0 means 500.
func WriteErrorStatus(w http.ResponseWriter, status int, err error) {
	code := apperror.CodeOf(err)
	msg := "Server Error"
	if code != apperror.CodeInternal {
		msg = err.Error()
		status = apperror.HTTPStatus(code)
	} else if status == 0 {
		status = http.StatusInternalServerError
	}
	WriteJSON(w, status, ErrorResponse{Success: false, Error: msg, Code: string(code)})
}
