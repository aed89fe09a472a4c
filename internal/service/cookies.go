package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/universityinsights/insights-web/internal/repository"
)

// loadCookies returns the API cookies previously stored for the client.
func (s *AuthService) loadCookies(ctx context.Context, clientID string) []*http.Cookie {
	v, err := s.store.Get(ctx, clientID, SlotCookies)
	if err != nil {
		if !errors.Is(err, repository.ErrSlotNotFound) {
			slog.Warn("loading api cookies failed", "client_id", clientID, "error", err)
		}
		return nil
	}

	cookies, err := http.ParseCookie(v)
	if err != nil {
		slog.Warn("discarding unparsable api cookies", "client_id", clientID, "error", err)
		return nil
	}
	return cookies
}

// saveCookies merges the cookies set by an API response into the client's jar.
// A cookie with MaxAge < 0 or an empty value removes the stored one.
func (s *AuthService) saveCookies(ctx context.Context, clientID string, existing, received []*http.Cookie) {
	if len(received) == 0 {
		return
	}

	jar := make(map[string]string, len(existing)+len(received))
	for _, c := range existing {
		jar[c.Name] = c.Value
	}
	for _, c := range received {
		if c.MaxAge < 0 || c.Value == "" {
			delete(jar, c.Name)
			continue
		}
		jar[c.Name] = c.Value
	}

	if len(jar) == 0 {
		if err := s.store.Delete(ctx, clientID, SlotCookies); err != nil {
			slog.Warn("clearing api cookies failed", "client_id", clientID, "error", err)
		}
		return
	}

	names := make([]string, 0, len(jar))
	for name := range jar {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, (&http.Cookie{Name: name, Value: jar[name]}).String())
	}

	if err := s.store.Set(ctx, clientID, SlotCookies, strings.Join(pairs, "; "), s.sessionTTL); err != nil {
		slog.Warn("storing api cookies failed", "client_id", clientID, "error", err)
	}
}
