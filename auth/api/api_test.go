package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/andrebq/doorman/auth"
	"github.com/andrebq/doorman/userstore"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
)

func acquireAPI(t *testing.T) (*auth.Service, http.Handler) {
	svc := auth.NewService(userstore.InMemory())
	return svc, AsHandler(svc, true)
}

func TestWelcome(t *testing.T) {
	_, handler := acquireAPI(t)
	apitest.New().
		Handler(handler).
		Get("/").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.message`, "Bienvenue")).
		End()
}

func TestRegisterUser(t *testing.T) {
	_, handler := acquireAPI(t)
	apitest.New().
		Handler(handler).
		Post("/users").
		FormData("email", "x@y.com").
		FormData("password", "pw").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.email`, "x@y.com")).
		Assert(jsonpath.Equal(`$.message`, "user created")).
		End()
	apitest.New().
		Handler(handler).
		Post("/users").
		FormData("email", "x@y.com").
		FormData("password", "other").
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal(`$.message`, "email already registered")).
		End()
	apitest.New().
		Handler(handler).
		Post("/users").
		FormData("password", "pw").
		Expect(t).
		Status(http.StatusBadRequest).
		End()
}

func TestLogin(t *testing.T) {
	svc, handler := acquireAPI(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "x@y.com", "pw")
	if err != nil {
		t.Fatal(err)
	}
	apitest.New().
		Handler(handler).
		Post("/sessions").
		FormData("email", "x@y.com").
		FormData("password", "wrong").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
	apitest.New().
		Handler(handler).
		Post("/sessions").
		FormData("email", "x@y.com").
		FormData("password", "pw").
		Expect(t).
		Status(http.StatusOK).
		CookiePresent(auth.SessionCookie).
		Assert(jsonpath.Equal(`$.email`, "x@y.com")).
		Assert(jsonpath.Equal(`$.message`, "logged in")).
		End()
}

func TestProfileAndLogout(t *testing.T) {
	svc, handler := acquireAPI(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "x@y.com", "pw")
	if err != nil {
		t.Fatal(err)
	}
	token, ok := svc.CreateSession(ctx, "x@y.com")
	if !ok {
		t.Fatal("unable to create session")
	}

	apitest.New().
		Handler(handler).
		Get("/profile").
		Cookie(auth.SessionCookie, token).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.email`, "x@y.com")).
		End()
	apitest.New().
		Handler(handler).
		Get("/profile").
		Expect(t).
		Status(http.StatusForbidden).
		End()
	apitest.New().
		Handler(handler).
		Delete("/sessions").
		Cookie(auth.SessionCookie, token).
		Expect(t).
		Status(http.StatusNoContent).
		End()
	// the session is gone server side, the old cookie is now useless
	apitest.New().
		Handler(handler).
		Get("/profile").
		Cookie(auth.SessionCookie, token).
		Expect(t).
		Status(http.StatusForbidden).
		End()
	apitest.New().
		Handler(handler).
		Delete("/sessions").
		Cookie(auth.SessionCookie, token).
		Expect(t).
		Status(http.StatusForbidden).
		End()
}

func TestPasswordReset(t *testing.T) {
	svc, handler := acquireAPI(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "x@y.com", "pw")
	if err != nil {
		t.Fatal(err)
	}
	apitest.New().
		Handler(handler).
		Post("/reset_password").
		FormData("email", "missing@x.com").
		Expect(t).
		Status(http.StatusForbidden).
		End()
	apitest.New().
		Handler(handler).
		Post("/reset_password").
		FormData("email", "x@y.com").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.email`, "x@y.com")).
		Assert(jsonpath.Present(`$.reset_token`)).
		End()

	token, err := svc.ResetToken(ctx, "x@y.com")
	if err != nil {
		t.Fatal(err)
	}
	apitest.New().
		Handler(handler).
		Put("/reset_password").
		FormData("email", "x@y.com").
		FormData("reset_token", token).
		FormData("new_password", "newpw").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.message`, "Password updated")).
		End()
	// the token was consumed together with the password change
	apitest.New().
		Handler(handler).
		Put("/reset_password").
		FormData("email", "x@y.com").
		FormData("reset_token", token).
		FormData("new_password", "again").
		Expect(t).
		Status(http.StatusForbidden).
		End()
	apitest.New().
		Handler(handler).
		Post("/sessions").
		FormData("email", "x@y.com").
		FormData("password", "newpw").
		Expect(t).
		Status(http.StatusOK).
		End()
	apitest.New().
		Handler(handler).
		Post("/sessions").
		FormData("email", "x@y.com").
		FormData("password", "pw").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}
