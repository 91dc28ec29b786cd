package logutil

import "testing"

func TestRedact(t *testing.T) {
	r := NewRedactor([]string{"password", "new_password"}, "***", "&")
	type testCase struct {
		in  string
		out string
	}
	for _, tc := range []testCase{
		{"email=x%40y.com&password=hunter2", "email=x%40y.com&password=***"},
		{"password=a&new_password=b", "password=***&new_password=***"},
		{"email=x%40y.com", "email=x%40y.com"},
		{"", ""},
	} {
		got := r.Redact(tc.in)
		if got != tc.out {
			t.Errorf("Redact(%q) should return %q but got %q", tc.in, tc.out, got)
		}
	}
}

func TestTokenDigest(t *testing.T) {
	a := TokenDigest("some-session-token")
	if a == "" {
		t.Fatal("digest should not be empty")
	}
	if a != TokenDigest("some-session-token") {
		t.Fatal("digest should be stable for the same token")
	}
	if a == TokenDigest("another-token") {
		t.Fatal("different tokens should not share a digest")
	}
	if a == "some-session-token" {
		t.Fatal("digest must not echo the token")
	}
}
