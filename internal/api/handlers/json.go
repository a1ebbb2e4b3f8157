package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gatherly-app/server/internal/api/problem"
	"github.com/go-playground/validator/v10"
)

const (
	problemValidation  = "https://gatherly.app/problems/validation-error"
	problemNotFound    = "https://gatherly.app/problems/not-found"
	problemConflict    = "https://gatherly.app/problems/conflict"
	problemForbidden   = "https://gatherly.app/problems/forbidden"
	problemServerError = "https://gatherly.app/problems/server-error"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON parses the request body into dst and runs struct validation.
// A false return means a problem response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, env string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request body", err, env)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]interface{}, len(verrs))
			for _, fe := range verrs {
				fields[strings.ToLower(fe.Field())] = fe.Tag()
			}
			problem.Write(w, r, http.StatusBadRequest, problemValidation, "Validation failed", err, env,
				problem.WithErrors(fields))
			return false
		}
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "Validation failed", err, env)
		return false
	}
	return true
}
