package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/andrebq/doorman/userstore"
	"github.com/stretchr/testify/require"
)

func TestExtractBase64AuthorizationHeader(t *testing.T) {
	b := NewBasic(nil)
	type testCase struct {
		header  string
		payload string
		ok      bool
	}
	for _, tc := range []testCase{
		{"", "", false},
		{"Bearer xyz", "", false},
		{"basic YWJj", "", false},
		{"Basic", "", false},
		{"Basic ", "", false},
		{"Basic YWJj", "YWJj", true},
	} {
		payload, ok := b.ExtractBase64AuthorizationHeader(tc.header)
		if ok != tc.ok || payload != tc.payload {
			t.Errorf("ExtractBase64AuthorizationHeader(%q) should return (%q, %v) but got (%q, %v)",
				tc.header, tc.payload, tc.ok, payload, ok)
		}
	}
}

func TestDecodeBase64AuthorizationHeader(t *testing.T) {
	b := NewBasic(nil)
	decoded, ok := b.DecodeBase64AuthorizationHeader(base64.StdEncoding.EncodeToString([]byte("a:b")))
	require.True(t, ok)
	require.Equal(t, "a:b", decoded)

	_, ok = b.DecodeBase64AuthorizationHeader("this is not base64!!!")
	require.False(t, ok)

	// valid base64, but the bytes are not utf-8 text
	_, ok = b.DecodeBase64AuthorizationHeader(base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe}))
	require.False(t, ok)
}

func TestExtractUserCredentials(t *testing.T) {
	b := NewBasic(nil)
	email, password, ok := b.ExtractUserCredentials("a:b:c")
	require.True(t, ok)
	require.Equal(t, "a", email)
	require.Equal(t, "b:c", password, "secret may contain colons, split on the first one only")

	_, _, ok = b.ExtractUserCredentials("no separator here")
	require.False(t, ok)

	email, password, ok = b.ExtractUserCredentials(":pw")
	require.True(t, ok)
	require.Equal(t, "", email)
	require.Equal(t, "pw", password)
}

func TestBasicCurrentUser(t *testing.T) {
	ctx := context.Background()
	svc := NewService(userstore.InMemory())
	_, err := svc.Register(ctx, "x@y.com", "pw")
	require.NoError(t, err)
	b := NewBasic(svc)

	r, _ := http.NewRequest("GET", "/api/v1/users", nil)
	r.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("x@y.com:pw")))
	u, ok := b.CurrentUser(ctx, r)
	require.True(t, ok)
	require.Equal(t, "x@y.com", u.Email)

	// every failure collapses to the same anonymous outcome
	for _, header := range []string{
		"",
		"Bearer xyz",
		"Basic %%%",
		"Basic " + base64.StdEncoding.EncodeToString([]byte("nocolon")),
		"Basic " + base64.StdEncoding.EncodeToString([]byte("x@y.com:wrong")),
		"Basic " + base64.StdEncoding.EncodeToString([]byte("missing@y.com:pw")),
	} {
		r, _ := http.NewRequest("GET", "/api/v1/users", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		_, ok := b.CurrentUser(ctx, r)
		require.False(t, ok, "header %q should not authenticate", header)
	}
}

func TestNoAuthIsAlwaysAnonymous(t *testing.T) {
	var s NoAuth
	r, _ := http.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Basic YWJj")
	require.Equal(t, "Basic YWJj", s.AuthorizationHeader(r))
	require.Equal(t, "", s.AuthorizationHeader(nil))
	_, ok := s.CurrentUser(context.Background(), r)
	require.False(t, ok)
}
