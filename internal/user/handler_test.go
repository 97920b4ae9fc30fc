package user_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/user-management/internal/auth"
	"github.com/frahmantamala/user-management/internal/transport"
	"github.com/frahmantamala/user-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type envelope struct {
	Code    int             `json:"code"`
	Success bool            `json:"success"`
	Error   *string         `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(w *httptest.ResponseRecorder) envelope {
	var env envelope
	Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
	return env
}

var _ = Describe("User Handler Integration", func() {
	var (
		f             *fixture
		handler       *user.Handler
		authenticator *auth.Authenticator
		authorization *auth.RBACAuthorization
	)

	BeforeEach(func() {
		f = newFixture()
		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		baseHandler := &transport.BaseHandler{Logger: slogger}

		handler = user.NewHandler(baseHandler, f.users)
		authenticator = auth.NewAuthenticator(baseHandler, f.auth)
		authorization = auth.NewRBACAuthorization(baseHandler, auth.NewPermissionChecker("admin", "manage_user"))
	})

	serve := func(h http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	register := func(body string) *httptest.ResponseRecorder {
		return serve(authenticator.Optional(http.HandlerFunc(handler.Register)), http.MethodPost, "/user/register", body, "")
	}

	login := func(email, password string) string {
		w := serve(http.HandlerFunc(handler.Login), http.MethodPost, "/user/login",
			`{"email":"`+email+`","password":"`+password+`"}`, "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var result user.LoginResult
		Expect(json.Unmarshal(decode(w).Data, &result)).To(Succeed())
		return result.AccessToken
	}

	const johnBody = `{"name":"John","email":"john@example.com","password":"password","password_confirmation":"password"}`

	It("walks through register, login, info and logout", func() {
		w := register(johnBody)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))

		env := decode(w)
		Expect(env.Code).To(Equal(0))
		Expect(env.Success).To(BeTrue())
		Expect(env.Error).To(BeNil())
		Expect(env.Message).To(Equal("User registration successful"))

		var view user.View
		Expect(json.Unmarshal(env.Data, &view)).To(Succeed())
		Expect(view.Email).To(Equal("john@example.com"))
		Expect(view.Roles).To(Equal([]string{"user"}))

		bearer := login("john@example.com", "password")
		Expect(bearer).NotTo(BeEmpty())

		w = serve(authenticator.Require(http.HandlerFunc(handler.Info)), http.MethodGet, "/user/info", "", bearer)
		Expect(w.Code).To(Equal(http.StatusOK))
		env = decode(w)
		Expect(env.Message).To(Equal("Get info successful"))

		var info user.InfoResponse
		Expect(json.Unmarshal(env.Data, &info)).To(Succeed())
		Expect(info.Info.Name).To(Equal("John"))
		Expect(info.Roles).To(Equal([]string{"user"}))
		Expect(info.Permissions).To(Equal([]string{}))

		w = serve(authenticator.Require(http.HandlerFunc(handler.Logout)), http.MethodPost, "/user/logout", "", bearer)
		Expect(w.Code).To(Equal(http.StatusOK))
		env = decode(w)
		Expect(env.Message).To(Equal("Log out successful"))
		Expect(string(env.Data)).To(Equal("null"))

		w = serve(authenticator.Require(http.HandlerFunc(handler.Info)), http.MethodGet, "/user/info", "", bearer)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		env = decode(w)
		Expect(env.Success).To(BeFalse())
		Expect(*env.Error).To(Equal("UNAUTHENTICATED"))
	})

	It("rejects a duplicate email with a 422 field error", func() {
		Expect(register(johnBody).Code).To(Equal(http.StatusOK))

		w := register(johnBody)
		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		env := decode(w)
		Expect(env.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(env.Message).To(Equal("The email has already been taken."))
		Expect(string(env.Data)).To(ContainSubstring(`"field":"email"`))
	})

	It("rejects malformed JSON with a 400", func() {
		w := register(`{"name":`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		env := decode(w)
		Expect(*env.Error).To(Equal("INVALID_REQUEST_BODY"))
	})

	It("answers wrong credentials with 401", func() {
		Expect(register(johnBody).Code).To(Equal(http.StatusOK))

		w := serve(http.HandlerFunc(handler.Login), http.MethodPost, "/user/login",
			`{"email":"john@example.com","password":"wrong-password"}`, "")
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(*decode(w).Error).To(Equal("INVALID_CREDENTIALS"))
	})

	It("returns a bearer token without leaking the hash", func() {
		Expect(register(johnBody).Code).To(Equal(http.StatusOK))

		w := serve(http.HandlerFunc(handler.Login), http.MethodPost, "/user/login",
			`{"email":"john@example.com","password":"password"}`, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		body := w.Body.String()
		Expect(body).To(ContainSubstring(`"token_type":"Bearer"`))
		Expect(body).NotTo(ContainSubstring("password_hash"))
	})

	Describe("POST /user/create", func() {
		var create http.Handler

		BeforeEach(func() {
			create = authenticator.Require(authorization.RequireUserManager()(http.HandlerFunc(handler.Create)))
		})

		It("requires authentication", func() {
			w := serve(create, http.MethodPost, "/user/create", johnBody, "")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("forbids callers without the user manager privilege", func() {
			Expect(register(johnBody).Code).To(Equal(http.StatusOK))
			bearer := login("john@example.com", "password")

			w := serve(create, http.MethodPost, "/user/create",
				`{"name":"Jane","email":"jane@example.com","password":"password","password_confirmation":"password","role":"admin"}`, bearer)
			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(*decode(w).Error).To(Equal("FORBIDDEN"))
		})

		It("creates users with the requested role for an admin", func() {
			_, err := f.roles.GrantPermissionsToRole(context.Background(), "admin", "manage_user")
			Expect(err).NotTo(HaveOccurred())
			req := user.RegisterRequest{
				Name:                 "Admin",
				Email:                "admin@example.com",
				Password:             "password",
				PasswordConfirmation: "password",
				Role:                 "admin",
			}
			_, err = f.users.Create(context.Background(), req)
			Expect(err).NotTo(HaveOccurred())
			bearer := login("admin@example.com", "password")

			w := serve(create, http.MethodPost, "/user/create",
				`{"name":"Jane","email":"jane@example.com","password":"password","password_confirmation":"password","role":"editor"}`, bearer)
			Expect(w.Code).To(Equal(http.StatusOK))

			env := decode(w)
			Expect(env.Message).To(Equal("User created successfully"))
			var view user.View
			Expect(json.Unmarshal(env.Data, &view)).To(Succeed())
			Expect(view.Roles).To(Equal([]string{"editor"}))
		})
	})

	It("lets an authenticated admin choose the role on register", func() {
		_, err := f.roles.GrantPermissionsToRole(context.Background(), "admin", "manage_user")
		Expect(err).NotTo(HaveOccurred())
		_, err = f.users.Create(context.Background(), user.RegisterRequest{
			Name: "Admin", Email: "admin@example.com", Password: "password", PasswordConfirmation: "password", Role: "admin",
		})
		Expect(err).NotTo(HaveOccurred())
		bearer := login("admin@example.com", "password")

		w := serve(authenticator.Optional(http.HandlerFunc(handler.Register)), http.MethodPost, "/user/register",
			`{"name":"Jane","email":"jane@example.com","password":"password","password_confirmation":"password","role":"admin"}`, bearer)
		Expect(w.Code).To(Equal(http.StatusOK))

		var view user.View
		Expect(json.Unmarshal(decode(w).Data, &view)).To(Succeed())
		Expect(view.Roles).To(Equal([]string{"admin"}))
	})
})
