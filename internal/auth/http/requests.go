package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const maxBodySize = 1 << 20 // 1 MiB

// decodeJSON parses the request body into dst and rejects oversized or
// malformed payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Trailing garbage after the JSON document is a malformed request.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected trailing data")
	}
	return nil
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// check returns the rejection message for an invalid request, mirroring the
// order the client expects: presence, email format, then password policy.
func (req *registerRequest) check() (string, bool) {
	if err := validate.Struct(req); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) {
			for _, fe := range fields {
				if fe.Field() == "Email" && fe.Tag() == "email" {
					return "Invalid email format", false
				}
			}
		}
		return "Name, email, and password are required", false
	}
	return checkPasswordPolicy(req.Password)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (req *loginRequest) check() (string, bool) {
	if err := validate.Struct(req); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) {
			for _, fe := range fields {
				if fe.Field() == "Email" && fe.Tag() == "email" {
					return "Invalid email format", false
				}
			}
		}
		return "Email and password are required", false
	}
	return "", true
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (req *forgotPasswordRequest) check() (string, bool) {
	if err := validate.Struct(req); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) {
			for _, fe := range fields {
				if fe.Tag() == "email" {
					return "Invalid email format", false
				}
			}
		}
		return "Email is required", false
	}
	return "", true
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

func (req *resetPasswordRequest) check() (string, bool) {
	if err := validate.Struct(req); err != nil {
		return "Token and new password are required", false
	}
	return checkPasswordPolicy(req.NewPassword)
}

// checkPasswordPolicy enforces the account password rules: at least eight
// characters with lower, upper, digit and special character classes present.
func checkPasswordPolicy(password string) (string, bool) {
	if len(password) < 8 {
		return "Password must be at least 8 characters long", false
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsDigit(c):
			hasDigit = true
		case strings.ContainsRune("@$!%*?&", c):
			hasSpecial = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit || !hasSpecial {
		return "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character", false
	}
	return "", true
}
