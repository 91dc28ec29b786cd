package auth

import (
	"bytes"
	"testing"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "s3cret") {
		t.Fatal("hash should verify against the original password")
	}
	if CheckPassword(hash, "other") {
		t.Fatal("hash should not verify against a different password")
	}
}

func TestPasswordSaltIsFresh(t *testing.T) {
	first, err := HashPassword("same password")
	if err != nil {
		t.Fatal(err)
	}
	second, err := HashPassword("same password")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(first, second) {
		t.Fatal("two hashes of the same password should differ")
	}
}

func TestEmptyPasswordIsValidInput(t *testing.T) {
	hash, err := HashPassword("")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "") {
		t.Fatal("empty password should hash and verify")
	}
	if CheckPassword(hash, "not empty") {
		t.Fatal("empty-password hash should not verify other input")
	}
}

func TestMalformedHashFailsClosed(t *testing.T) {
	if CheckPassword([]byte("not a bcrypt hash"), "whatever") {
		t.Fatal("malformed hash should never verify")
	}
}
