package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError answers a rejected request. Fragment requests get the same
// {message} envelope the backend API speaks; plain navigations get text.
func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if !IsHTMX(r.Context()) {
		http.Error(w, msg, code)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(struct {
		Message string `json:"message"`
	}{msg})
}
