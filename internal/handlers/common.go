package handlers

import (
	"encoding/json"
	"net/http"
)

// fieldError matches the validation error items the SPA already consumes:
// a message plus the offending field name.
type fieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"msg": msg})
}

func writeValidationErrors(w http.ResponseWriter, errs []fieldError) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": errs})
}

// serverError is the catch-all for storage and transport faults: plain text,
// details stay in the log.
func serverError(w http.ResponseWriter) {
	http.Error(w, "Server error", http.StatusInternalServerError)
}
