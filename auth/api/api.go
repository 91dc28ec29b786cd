package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/andrebq/doorman/auth"
	"github.com/andrebq/doorman/internal/logutil"
	"github.com/andrebq/doorman/userstore"
	"github.com/julienschmidt/httprouter"
)

type (
	envelope struct {
		Email      string `json:"email,omitempty"`
		Message    string `json:"message,omitempty"`
		ResetToken string `json:"reset_token,omitempty"`
	}
)

var (
	// form bodies are logged on auth failures, never with secrets in them
	formRedactor = logutil.NewRedactor([]string{"password", "new_password"}, "***", "&")
)

// AsHandler exposes the account lifecycle endpoints: registration,
// login/logout, profile and the two password-reset calls. The session
// cookie is marked Secure unless allowHTTPCookie is set.
func AsHandler(svc *auth.Service, allowHTTPCookie bool) http.Handler {
	router := httprouter.New()
	router.HandlerFunc("GET", "/", welcome)
	router.HandlerFunc("POST", "/users", registerUser(svc))
	router.HandlerFunc("POST", "/sessions", login(svc, allowHTTPCookie))
	router.HandlerFunc("DELETE", "/sessions", logout(svc, allowHTTPCookie))
	router.HandlerFunc("GET", "/profile", profile(svc))
	router.HandlerFunc("POST", "/reset_password", requestReset(svc))
	router.HandlerFunc("PUT", "/reset_password", updatePassword(svc))
	return router
}

func welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Message: "Bienvenue"})
}

func registerUser(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := formValue(w, r, "email")
		if !ok {
			return
		}
		password := r.FormValue("password")
		u, err := svc.Register(r.Context(), email, password)
		var exists auth.AlreadyRegistered
		if errors.As(err, &exists) {
			writeJSON(w, http.StatusBadRequest, envelope{Message: "email already registered"})
			return
		} else if err != nil {
			serverError(w, r, err, "unable to register user")
			return
		}
		writeJSON(w, http.StatusOK, envelope{Email: u.Email, Message: "user created"})
	}
}

func login(svc *auth.Service, allowHTTPCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := formValue(w, r, "email")
		if !ok {
			return
		}
		ctx := r.Context()
		log := logutil.GetOrDefault(ctx)
		if !svc.ValidCredentials(ctx, email, r.FormValue("password")) {
			log.Warn().Str("form", formRedactor.Redact(r.Form.Encode())).Msg("login rejected")
			writeJSON(w, http.StatusUnauthorized, envelope{Message: "Unauthorized"})
			return
		}
		token, ok := svc.CreateSession(ctx, email)
		if !ok {
			// user vanished between the two calls, nothing to recover
			writeJSON(w, http.StatusUnauthorized, envelope{Message: "Unauthorized"})
			return
		}
		log.Info().Str("session", logutil.TokenDigest(token)).Msg("session created")
		http.SetCookie(w, sessionCookie(token, allowHTTPCookie))
		writeJSON(w, http.StatusOK, envelope{Email: email, Message: "logged in"})
	}
}

func logout(svc *auth.Service, allowHTTPCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		u, ok := sessionUser(svc, r)
		if !ok {
			writeJSON(w, http.StatusForbidden, envelope{Message: "Forbidden"})
			return
		}
		err := svc.DestroySession(ctx, u.ID)
		if err != nil {
			serverError(w, r, err, "unable to destroy session")
			return
		}
		log := logutil.GetOrDefault(ctx)
		log.Info().
			Str("session", logutil.TokenDigest(u.SessionID)).
			Msg("session destroyed")
		expired := sessionCookie("", allowHTTPCookie)
		expired.MaxAge = -1
		http.SetCookie(w, expired)
		w.WriteHeader(http.StatusNoContent)
	}
}

func profile(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := sessionUser(svc, r)
		if !ok {
			writeJSON(w, http.StatusForbidden, envelope{Message: "Forbidden"})
			return
		}
		writeJSON(w, http.StatusOK, envelope{Email: u.Email})
	}
}

func requestReset(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := formValue(w, r, "email")
		if !ok {
			return
		}
		token, err := svc.ResetToken(r.Context(), email)
		var notFound userstore.UserNotFound
		if errors.As(err, &notFound) {
			writeJSON(w, http.StatusForbidden, envelope{Message: "Forbidden"})
			return
		} else if err != nil {
			serverError(w, r, err, "unable to issue reset token")
			return
		}
		writeJSON(w, http.StatusOK, envelope{Email: email, ResetToken: token})
	}
}

func updatePassword(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := formValue(w, r, "email")
		if !ok {
			return
		}
		err := svc.UpdatePassword(r.Context(), r.FormValue("reset_token"), r.FormValue("new_password"))
		var notFound userstore.UserNotFound
		if errors.As(err, &notFound) {
			writeJSON(w, http.StatusForbidden, envelope{Message: "Forbidden"})
			return
		} else if err != nil {
			serverError(w, r, err, "unable to update password")
			return
		}
		writeJSON(w, http.StatusOK, envelope{Email: email, Message: "Password updated"})
	}
}

func sessionUser(svc *auth.Service, r *http.Request) (userstore.User, bool) {
	cookie, err := r.Cookie(auth.SessionCookie)
	if err != nil {
		return userstore.User{}, false
	}
	return svc.UserBySession(r.Context(), cookie.Value)
}

func sessionCookie(token string, allowHTTPCookie bool) *http.Cookie {
	return &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   !allowHTTPCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

func formValue(w http.ResponseWriter, r *http.Request, field string) (string, bool) {
	err := r.ParseForm()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid form payload"})
		return "", false
	}
	v := r.FormValue(field)
	if v == "" {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "missing " + field})
		return "", false
	}
	return v, true
}

func serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := logutil.GetOrDefault(r.Context())
	log.Error().Err(err).Msg(msg)
	writeJSON(w, http.StatusInternalServerError, envelope{Message: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	buf, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "unable to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json; charset=utf-8")
	w.Header().Add("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(status)
	w.Write(buf)
}
