package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/andrebq/doorman/userstore"
)

type (
	// Basic authenticates requests with an RFC 7617 Authorization
	// header. Extraction runs as three pure steps, each returning
	// ok=false instead of an error so callers can short-circuit without
	// learning why the header was unusable.
	Basic struct {
		NoAuth
		svc *Service
	}
)

var (
	basicSchemeRE = regexp.MustCompile(`^Basic (.+)$`)
)

func NewBasic(svc *Service) *Basic {
	return &Basic{svc: svc}
}

// ExtractBase64AuthorizationHeader strips the "Basic " scheme prefix
// (case-sensitive, single space) and returns the raw payload.
func (b *Basic) ExtractBase64AuthorizationHeader(header string) (string, bool) {
	groups := basicSchemeRE.FindStringSubmatch(header)
	if len(groups) == 0 {
		return "", false
	}
	return groups[1], true
}

// DecodeBase64AuthorizationHeader decodes the payload, rejecting both
// invalid base64 and bytes that are not valid UTF-8 text.
func (b *Basic) DecodeBase64AuthorizationHeader(payload string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

// ExtractUserCredentials splits the decoded payload on the first colon
// only, so the secret itself may contain colons.
func (b *Basic) ExtractUserCredentials(decoded string) (email, password string, ok bool) {
	email, password, ok = strings.Cut(decoded, ":")
	if !ok {
		return "", "", false
	}
	return email, password, true
}

// CurrentUser runs the full pipeline: header, base64, credential pair,
// then credential validation against the user directory.
func (b *Basic) CurrentUser(ctx context.Context, r *http.Request) (userstore.User, bool) {
	payload, ok := b.ExtractBase64AuthorizationHeader(b.AuthorizationHeader(r))
	if !ok {
		return userstore.User{}, false
	}
	decoded, ok := b.DecodeBase64AuthorizationHeader(payload)
	if !ok {
		return userstore.User{}, false
	}
	email, password, ok := b.ExtractUserCredentials(decoded)
	if !ok {
		return userstore.User{}, false
	}
	return b.svc.UserByCredentials(ctx, email, password)
}
