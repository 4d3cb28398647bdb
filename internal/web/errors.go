package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusCode)
//  3. Error is matched against known patterns to get a user-friendly message
//  4. Technical error + context is logged with request ID for correlation

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// UserMessage is a user-friendly rendering of a technical error.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Patterns are matched using strings.Contains, so partial matches
// work. The first matching pattern wins, so specific patterns come before
// general ones.
var errorPatterns = []errorPattern{
	// File handling errors
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "One of the uploaded files exceeds the size limit",
			Action:  "Split the input into smaller files and retry",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no master file",
		msg: UserMessage{
			Message: "No master input file was provided",
			Action:  "Attach the grouped master CSV as the 'master' form field",
			Code:    "FILE002",
		},
	},
	{
		pattern: "reading master input",
		msg: UserMessage{
			Message: "The master input file could not be parsed as CSV",
			Action:  "Ensure the file is comma-separated UTF-8 text",
			Code:    "FILE003",
		},
	},
	{
		pattern: "multipart",
		msg: UserMessage{
			Message: "The upload form could not be read",
			Action:  "Submit the files as multipart/form-data",
			Code:    "FILE004",
		},
	},

	// Conversion errors
	{
		pattern: "cancelled",
		msg: UserMessage{
			Message: "The conversion was cancelled before finishing",
			Action:  "Retry, or raise UPLOAD_TIMEOUT for very large batches",
			Code:    "RUN001",
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "The conversion timed out",
			Action:  "Retry, or raise UPLOAD_TIMEOUT for very large batches",
			Code:    "RUN001",
		},
	},
	{
		pattern: "run not found",
		msg: UserMessage{
			Message: "No conversion run with that ID is available",
			Action:  "Recent runs expire from the cache; re-run the conversion",
			Code:    "RUN002",
		},
	},

	// Database errors
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "The run history database is unreachable",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again; quote the request ID if the problem persists",
	Code:    "ERR000",
}

// mapError converts a technical error into a user-friendly message.
func mapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and returns a JSON response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := mapError(err)

	// Get request ID for correlation
	requestID := middleware.GetReqID(r.Context())

	// Log the technical error with context
	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", requestID,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}
