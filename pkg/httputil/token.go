package httputil

import (
	"errors"
	"net/http"
	"strings"
)

var ErrNoToken = errors.New("no seat token found in header or query")

// GetTokenFromRequest extracts a seat token from the Authorization header,
// falling back to the "token" query parameter. The "Bearer" scheme is
// optional and matched case-insensitively.
func GetTokenFromRequest(r *http.Request) (string, error) {
	if token := bearerToken(r.Header.Get("Authorization")); token != "" {
		return token, nil
	}

	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return token, nil
	}

	return "", ErrNoToken
}

func bearerToken(header string) string {
	const scheme = "bearer"

	header = strings.TrimLeft(header, " \t")
	if len(header) >= len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
		rest := header[len(scheme):]
		if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
			header = rest
		}
	}
	return strings.TrimSpace(header)
}
