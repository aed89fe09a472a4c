package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/universityinsights/insights-web/internal/crypto"
)

type contextKey string

const clientKey contextKey = "client"

// clientIdentity is the resolved identity of one request. Presented is false
// when the identity was issued by this request.
type clientIdentity struct {
	ID        string
	Presented bool
}

// ClientCookie names the cookie carrying the signed client identity.
const ClientCookie = "insights_client"

// ClientIdentity returns middleware that resolves the browser's client ID from
// the identity cookie, issuing a fresh one when it is missing or invalid. A
// valid identity in the last half of its lifetime is re-issued under the same
// ID.
func ClientIdentity(secret string, ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(ClientCookie); err == nil && c.Value != "" {
				claims, err := crypto.ValidateClientToken(c.Value, secret)
				if err == nil {
					if claims.NeedsRenewal(time.Now(), ttl/2) {
						if err := setClientCookie(w, claims.ClientID(), secret, ttl, secure); err != nil {
							slog.Warn("renewing client identity failed", "error", err)
						}
					}
					ctx := context.WithValue(r.Context(), clientKey, clientIdentity{ID: claims.ClientID(), Presented: true})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				slog.Debug("replacing invalid client identity", "error", err)
			}

			clientID := uuid.NewString()
			if err := setClientCookie(w, clientID, secret, ttl, secure); err != nil {
				slog.Error("issuing client identity failed", "error", err)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), clientKey, clientIdentity{ID: clientID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setClientCookie(w http.ResponseWriter, clientID, secret string, ttl time.Duration, secure bool) error {
	token, err := crypto.GenerateClientToken(clientID, secret, ttl)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClientIDFromContext extracts the client ID resolved by ClientIdentity.
func ClientIDFromContext(ctx context.Context) (string, bool) {
	c, ok := ctx.Value(clientKey).(clientIdentity)
	return c.ID, ok && c.ID != ""
}

// presentedClientID returns the client ID only if the request carried a valid
// identity cookie.
func presentedClientID(ctx context.Context) (string, bool) {
	c, ok := ctx.Value(clientKey).(clientIdentity)
	return c.ID, ok && c.Presented && c.ID != ""
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
