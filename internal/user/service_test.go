package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/auth"
	authPostgres "github.com/frahmantamala/user-management/internal/auth/postgres"
	userDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/user"
	"github.com/frahmantamala/user-management/internal/core/db"
	"github.com/frahmantamala/user-management/internal/rbac"
	rbacPostgres "github.com/frahmantamala/user-management/internal/rbac/postgres"
	"github.com/frahmantamala/user-management/internal/token"
	tokenPostgres "github.com/frahmantamala/user-management/internal/token/postgres"
	"github.com/frahmantamala/user-management/internal/user"
	userPostgres "github.com/frahmantamala/user-management/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

// fixture wires the real services on top of an in-memory database.
type fixture struct {
	gdb    *gorm.DB
	roles  *rbac.Service
	tokens *token.Service
	auth   *auth.Service
	users  *user.Service
	repo   user.RepositoryAPI
	tx     user.Transactor
	log    *slog.Logger
}

func newFixture() *fixture {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	Expect(err).NotTo(HaveOccurred())

	sqlDB, err := gdb.DB()
	Expect(err).NotTo(HaveOccurred())
	sqlDB.SetMaxOpenConns(1)

	Expect(gdb.AutoMigrate(userDatamodel.Models()...)).To(Succeed())

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tx := db.NewTransactor(gdb)

	roles := rbac.NewService(rbacPostgres.NewRBACRepository(gdb), tx, slogger)
	tokens, err := token.NewService(tokenPostgres.NewTokenRepository(gdb), token.Options{Format: token.FormatOpaque}, slogger)
	Expect(err).NotTo(HaveOccurred())

	repo := userPostgres.NewUserRepository(gdb)
	users, err := user.NewService(
		repo,
		roles,
		tokens,
		tx,
		auth.NewPermissionChecker("admin", "manage_user"),
		user.Config{DefaultRole: "user", BCryptCost: bcrypt.MinCost},
		slogger,
	)
	Expect(err).NotTo(HaveOccurred())

	return &fixture{
		gdb:    gdb,
		roles:  roles,
		tokens: tokens,
		auth:   auth.NewService(authPostgres.NewRepository(gdb), tokens, slogger),
		users:  users,
		repo:   repo,
		tx:     tx,
		log:    slogger,
	}
}

// serviceWith builds a user service over the fixture's database with repo and roles swapped in.
func (f *fixture) serviceWith(repo user.RepositoryAPI, roles user.RoleServiceAPI) *user.Service {
	svc, err := user.NewService(
		repo,
		roles,
		f.tokens,
		f.tx,
		auth.NewPermissionChecker("admin", "manage_user"),
		user.Config{DefaultRole: "user", BCryptCost: bcrypt.MinCost},
		f.log,
	)
	Expect(err).NotTo(HaveOccurred())
	return svc
}

// staleEmailCheck misses existing emails, as a concurrent registration would.
type staleEmailCheck struct {
	user.RepositoryAPI
}

func (staleEmailCheck) EmailExists(ctx context.Context, email string) (bool, error) {
	return false, nil
}

type brokenPermissionLookup struct {
	user.RoleServiceAPI
}

func (brokenPermissionLookup) PermissionNames(ctx context.Context, userID int64) ([]string, error) {
	return nil, errors.New("permissions table unavailable")
}

func johnRequest() user.RegisterRequest {
	return user.RegisterRequest{
		Name:                 "John",
		Email:                "john@example.com",
		Password:             "password",
		PasswordConfirmation: "password",
	}
}

func countRows(gdb *gorm.DB, model interface{}) int64 {
	var n int64
	Expect(gdb.Model(model).Count(&n).Error).To(Succeed())
	return n
}

func appError(err error) *internal.AppError {
	appErr, ok := internal.IsAppError(err)
	Expect(ok).To(BeTrue(), "expected an AppError, got %v", err)
	return appErr
}

func fieldCodes(appErr *internal.AppError) map[string]string {
	codes := map[string]string{}
	details, ok := appErr.Details.(internal.ValidationErrors)
	Expect(ok).To(BeTrue())
	for _, e := range details.Errors {
		codes[e.Field] = e.Code
	}
	return codes
}

type failingRegisteredHook struct{}

func (failingRegisteredHook) OnRegistered(ctx context.Context, u *user.User) error {
	return errors.New("welcome mail rejected")
}

type recordingHooks struct {
	registered []int64
	loggedIn   []string
	shown      []int64
	loggedOut  []int64
}

func (h *recordingHooks) OnRegistered(ctx context.Context, u *user.User) error {
	h.registered = append(h.registered, u.ID)
	return nil
}

func (h *recordingHooks) OnLoggedIn(ctx context.Context, u *user.User, plainToken string) error {
	h.loggedIn = append(h.loggedIn, plainToken)
	return nil
}

func (h *recordingHooks) OnShown(ctx context.Context, u *user.User) error {
	h.shown = append(h.shown, u.ID)
	return errors.New("ignored")
}

func (h *recordingHooks) OnLoggedOut(ctx context.Context, userID int64) error {
	h.loggedOut = append(h.loggedOut, userID)
	return nil
}

var _ = Describe("User Service", func() {
	var (
		ctx context.Context
		f   *fixture
	)

	BeforeEach(func() {
		ctx = context.Background()
		f = newFixture()
	})

	Describe("Register", func() {
		It("creates an active user with the default role", func() {
			u, err := f.users.Register(ctx, johnRequest(), nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(u.ID).To(BeNumerically(">", 0))
			Expect(u.Name).To(Equal("John"))
			Expect(u.Email).To(Equal("john@example.com"))
			Expect(u.Status).To(Equal(user.StatusActive))
			Expect(u.Roles).To(Equal([]string{"user"}))
			Expect(u.Permissions).To(BeEmpty())
		})

		It("stores a bcrypt hash rather than the password", func() {
			u, err := f.users.Register(ctx, johnRequest(), nil)
			Expect(err).NotTo(HaveOccurred())

			var row userDatamodel.User
			Expect(f.gdb.First(&row, u.ID).Error).To(Succeed())
			Expect(row.PasswordHash).NotTo(Equal("password"))
			Expect(auth.VerifyPassword(row.PasswordHash, "password")).To(Succeed())
		})

		It("normalizes the email address", func() {
			req := johnRequest()
			req.Email = "  John@Example.COM "

			u, err := f.users.Register(ctx, req, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Email).To(Equal("john@example.com"))
		})

		It("rejects invalid input with every failing field", func() {
			_, err := f.users.Register(ctx, user.RegisterRequest{
				Email:                "not-an-email",
				Password:             "short",
				PasswordConfirmation: "different",
			}, nil)

			appErr := appError(err)
			Expect(appErr.StatusCode).To(Equal(http.StatusUnprocessableEntity))
			codes := fieldCodes(appErr)
			Expect(codes).To(HaveKeyWithValue("name", string(internal.ErrCodeRequired)))
			Expect(codes).To(HaveKeyWithValue("email", string(internal.ErrCodeInvalidEmail)))
			Expect(codes).To(HaveKeyWithValue("password", string(internal.ErrCodeTooShort)))
			Expect(countRows(f.gdb, &userDatamodel.User{})).To(BeZero())
		})

		It("rejects a mismatched confirmation", func() {
			req := johnRequest()
			req.PasswordConfirmation = "password1"

			_, err := f.users.Register(ctx, req, nil)
			appErr := appError(err)
			Expect(appErr.GetDetailedMessage()).To(Equal("The password field confirmation does not match."))
		})

		It("reports a taken email as a field error", func() {
			_, err := f.users.Register(ctx, johnRequest(), nil)
			Expect(err).NotTo(HaveOccurred())

			req := johnRequest()
			req.Email = "JOHN@example.com"
			_, err = f.users.Register(ctx, req, nil)

			appErr := appError(err)
			Expect(appErr.StatusCode).To(Equal(http.StatusUnprocessableEntity))
			Expect(fieldCodes(appErr)).To(HaveKeyWithValue("email", string(internal.ErrCodeEmailTaken)))
			Expect(countRows(f.gdb, &userDatamodel.User{})).To(Equal(int64(1)))
		})

		It("reports a unique violation that slips past the pre-check as a conflict", func() {
			_, err := f.users.Register(ctx, johnRequest(), nil)
			Expect(err).NotTo(HaveOccurred())

			svc := f.serviceWith(staleEmailCheck{RepositoryAPI: f.repo}, f.roles)
			_, err = svc.Register(ctx, johnRequest(), nil)

			appErr := appError(err)
			Expect(appErr.StatusCode).To(Equal(http.StatusConflict))
			Expect(appErr.Code).To(Equal(internal.ErrCodeEmailTaken))
			Expect(countRows(f.gdb, &userDatamodel.User{})).To(Equal(int64(1)))
			Expect(countRows(f.gdb, &userDatamodel.UserRole{})).To(Equal(int64(1)))
		})

		It("silently ignores a role override from an anonymous caller", func() {
			req := johnRequest()
			req.Role = "admin"

			u, err := f.users.Register(ctx, req, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Roles).To(Equal([]string{"user"}))
		})

		It("ignores a role override from a caller that cannot manage users", func() {
			req := johnRequest()
			req.Role = "admin"
			caller := &auth.Principal{ID: 99, Roles: []string{"admin"}}

			u, err := f.users.Register(ctx, req, caller)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Roles).To(Equal([]string{"user"}))
		})

		It("honors a role override from a user manager", func() {
			_, err := f.roles.GrantPermissionsToRole(ctx, "editor", "edit_post")
			Expect(err).NotTo(HaveOccurred())

			req := johnRequest()
			req.Role = "editor"
			caller := &auth.Principal{ID: 99, Roles: []string{"admin"}, Permissions: []string{"manage_user"}}

			u, err := f.users.Register(ctx, req, caller)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Roles).To(Equal([]string{"editor"}))
			Expect(u.Permissions).To(Equal([]string{"edit_post"}))
		})

		It("snapshots the role permissions at registration time", func() {
			_, err := f.roles.GrantPermissionsToRole(ctx, "user", "read_post")
			Expect(err).NotTo(HaveOccurred())

			u, err := f.users.Register(ctx, johnRequest(), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Permissions).To(Equal([]string{"read_post"}))

			_, err = f.roles.GrantPermissionsToRole(ctx, "user", "write_post")
			Expect(err).NotTo(HaveOccurred())

			shown, err := f.users.Show(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(shown.Permissions).To(Equal([]string{"read_post"}))
		})

		It("rolls everything back when the registered hook fails", func() {
			f.users.SetHooks(user.Hooks{Registered: failingRegisteredHook{}})

			_, err := f.users.Register(ctx, johnRequest(), nil)
			Expect(err).To(HaveOccurred())
			Expect(appError(err).StatusCode).To(Equal(http.StatusInternalServerError))

			Expect(countRows(f.gdb, &userDatamodel.User{})).To(BeZero())
			Expect(countRows(f.gdb, &userDatamodel.UserRole{})).To(BeZero())
			Expect(countRows(f.gdb, &userDatamodel.Role{})).To(BeZero())
		})
	})

	Describe("Create", func() {
		It("assigns the requested role", func() {
			req := johnRequest()
			req.Role = "admin"

			u, err := f.users.Create(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Roles).To(Equal([]string{"admin"}))
		})

		It("falls back to the default role", func() {
			u, err := f.users.Create(ctx, johnRequest())
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Roles).To(Equal([]string{"user"}))
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			_, err := f.users.Register(ctx, johnRequest(), nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("issues a bearer token that authenticates the user", func() {
			result, err := f.users.Login(ctx, user.LoginRequest{Email: "john@example.com", Password: "password"})
			Expect(err).NotTo(HaveOccurred())

			Expect(result.TokenType).To(Equal("Bearer"))
			Expect(result.AccessToken).To(MatchRegexp(`^\d+\|[A-Za-z0-9]{40}$`))
			Expect(result.Roles).To(Equal([]string{"user"}))
			Expect(result.User.Email).To(Equal("john@example.com"))

			p, err := f.auth.Authenticate(ctx, result.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(Equal(result.User.ID))
		})

		It("issues no token when the access lookup fails", func() {
			svc := f.serviceWith(f.repo, brokenPermissionLookup{RoleServiceAPI: f.roles})

			_, err := svc.Login(ctx, user.LoginRequest{Email: "john@example.com", Password: "password"})
			Expect(appError(err).StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(countRows(f.gdb, &userDatamodel.PersonalAccessToken{})).To(BeZero())
		})

		It("accepts the email in any case", func() {
			_, err := f.users.Login(ctx, user.LoginRequest{Email: "John@Example.com", Password: "password"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns the same error for a wrong password and an unknown email", func() {
			_, wrongPassword := f.users.Login(ctx, user.LoginRequest{Email: "john@example.com", Password: "nope-nope"})
			_, unknownEmail := f.users.Login(ctx, user.LoginRequest{Email: "jane@example.com", Password: "password"})

			Expect(wrongPassword).To(MatchError(internal.ErrInvalidCredentials))
			Expect(unknownEmail).To(MatchError(internal.ErrInvalidCredentials))
			Expect(appError(wrongPassword).Message).To(Equal(appError(unknownEmail).Message))
			Expect(appError(wrongPassword).StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("refuses inactive users with the same error", func() {
			_, err := f.users.SetStatus(ctx, "john@example.com", user.StatusDeactivated)
			Expect(err).NotTo(HaveOccurred())

			_, err = f.users.Login(ctx, user.LoginRequest{Email: "john@example.com", Password: "password"})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
			Expect(countRows(f.gdb, &userDatamodel.PersonalAccessToken{})).To(BeZero())
		})

		It("validates the request before touching storage", func() {
			_, err := f.users.Login(ctx, user.LoginRequest{Email: "", Password: ""})
			appErr := appError(err)
			Expect(appErr.StatusCode).To(Equal(http.StatusUnprocessableEntity))
			Expect(fieldCodes(appErr)).To(HaveKey("email"))
			Expect(fieldCodes(appErr)).To(HaveKey("password"))
		})

		It("issues an independent token per login", func() {
			first, err := f.users.Login(ctx, user.LoginRequest{Email: "john@example.com", Password: "password"})
			Expect(err).NotTo(HaveOccurred())
			second, err := f.users.Login(ctx, user.LoginRequest{Email: "john@example.com", Password: "password"})
			Expect(err).NotTo(HaveOccurred())

			Expect(first.AccessToken).NotTo(Equal(second.AccessToken))
			Expect(countRows(f.gdb, &userDatamodel.PersonalAccessToken{})).To(Equal(int64(2)))
		})
	})

	Describe("Logout", func() {
		It("revokes every token of the user", func() {
			u, err := f.users.Register(ctx, johnRequest(), nil)
			Expect(err).NotTo(HaveOccurred())

			first, err := f.users.Login(ctx, user.LoginRequest{Email: "john@example.com", Password: "password"})
			Expect(err).NotTo(HaveOccurred())
			second, err := f.users.Login(ctx, user.LoginRequest{Email: "john@example.com", Password: "password"})
			Expect(err).NotTo(HaveOccurred())

			Expect(f.users.Logout(ctx, u.ID)).To(Succeed())

			_, err = f.auth.Authenticate(ctx, first.AccessToken)
			Expect(err).To(MatchError(internal.ErrUnauthenticated))
			_, err = f.auth.Authenticate(ctx, second.AccessToken)
			Expect(err).To(MatchError(internal.ErrUnauthenticated))
		})

		It("leaves other users signed in", func() {
			john, err := f.users.Register(ctx, johnRequest(), nil)
			Expect(err).NotTo(HaveOccurred())
			jane := johnRequest()
			jane.Name = "Jane"
			jane.Email = "jane@example.com"
			_, err = f.users.Register(ctx, jane, nil)
			Expect(err).NotTo(HaveOccurred())

			janeLogin, err := f.users.Login(ctx, user.LoginRequest{Email: "jane@example.com", Password: "password"})
			Expect(err).NotTo(HaveOccurred())

			Expect(f.users.Logout(ctx, john.ID)).To(Succeed())

			_, err = f.auth.Authenticate(ctx, janeLogin.AccessToken)
			Expect(err).NotTo(HaveOccurred())
		})

		It("is harmless when nothing is left to revoke", func() {
			u, err := f.users.Register(ctx, johnRequest(), nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(f.users.Logout(ctx, u.ID)).To(Succeed())
			Expect(f.users.Logout(ctx, u.ID)).To(Succeed())
		})
	})

	Describe("Show", func() {
		It("returns roles and permissions without mutating anything", func() {
			_, err := f.roles.GrantPermissionsToRole(ctx, "user", "read_post")
			Expect(err).NotTo(HaveOccurred())
			u, err := f.users.Register(ctx, johnRequest(), nil)
			Expect(err).NotTo(HaveOccurred())

			before := countRows(f.gdb, &userDatamodel.UserPermission{})
			shown, err := f.users.Show(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(shown.Roles).To(Equal([]string{"user"}))
			Expect(shown.Permissions).To(Equal([]string{"read_post"}))
			Expect(countRows(f.gdb, &userDatamodel.UserPermission{})).To(Equal(before))
		})

		It("reports an unknown user", func() {
			_, err := f.users.Show(ctx, 404)
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("Hooks", func() {
		It("fires each hook once and ignores errors from the non-transactional ones", func() {
			hooks := &recordingHooks{}
			f.users.SetHooks(user.HooksFrom(hooks))

			u, err := f.users.Register(ctx, johnRequest(), nil)
			Expect(err).NotTo(HaveOccurred())
			result, err := f.users.Login(ctx, user.LoginRequest{Email: "john@example.com", Password: "password"})
			Expect(err).NotTo(HaveOccurred())
			_, err = f.users.Show(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.users.Logout(ctx, u.ID)).To(Succeed())

			Expect(hooks.registered).To(Equal([]int64{u.ID}))
			Expect(hooks.loggedIn).To(Equal([]string{result.AccessToken}))
			Expect(hooks.shown).To(Equal([]int64{u.ID}))
			Expect(hooks.loggedOut).To(Equal([]int64{u.ID}))
		})
	})

	Describe("SetStatus", func() {
		var u *user.User

		BeforeEach(func() {
			var err error
			u, err = f.users.Register(ctx, johnRequest(), nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("revokes tokens when the user is deactivated", func() {
			result, err := f.users.Login(ctx, user.LoginRequest{Email: "john@example.com", Password: "password"})
			Expect(err).NotTo(HaveOccurred())

			updated, err := f.users.SetStatus(ctx, "john@example.com", user.StatusDeactivated)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsDeactivated()).To(BeTrue())

			_, err = f.auth.Authenticate(ctx, result.AccessToken)
			Expect(err).To(MatchError(internal.ErrUnauthenticated))
			Expect(countRows(f.gdb, &userDatamodel.PersonalAccessToken{})).To(BeZero())
		})

		It("allows login again after reactivation", func() {
			_, err := f.users.SetStatus(ctx, "john@example.com", user.StatusDeleted)
			Expect(err).NotTo(HaveOccurred())
			_, err = f.users.SetStatus(ctx, "john@example.com", user.StatusActive)
			Expect(err).NotTo(HaveOccurred())

			_, err = f.users.Login(ctx, user.LoginRequest{Email: "john@example.com", Password: "password"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects an unknown status", func() {
			_, err := f.users.SetStatus(ctx, "john@example.com", user.Status("banned"))
			Expect(appError(err).StatusCode).To(Equal(http.StatusUnprocessableEntity))

			reloaded, err := f.users.GetByID(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.IsActive()).To(BeTrue())
		})

		It("reports an unknown email", func() {
			_, err := f.users.SetStatus(ctx, "ghost@example.com", user.StatusDeactivated)
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})
})

var _ = Describe("UserRepository", func() {
	var (
		ctx context.Context
		f   *fixture
	)

	BeforeEach(func() {
		ctx = context.Background()
		f = newFixture()
	})

	It("maps a duplicate email to ErrEmailTaken", func() {
		row := &userDatamodel.User{Name: "John", Email: "john@example.com", PasswordHash: "x", Status: userDatamodel.StatusActive}
		Expect(f.repo.Create(ctx, row)).To(Succeed())

		dup := &userDatamodel.User{Name: "Johnny", Email: "john@example.com", PasswordHash: "y", Status: userDatamodel.StatusActive}
		Expect(f.repo.Create(ctx, dup)).To(MatchError(user.ErrEmailTaken))
	})

	It("maps missing rows to ErrNotFound", func() {
		_, err := f.repo.GetByID(ctx, 1)
		Expect(err).To(MatchError(user.ErrNotFound))
		_, err = f.repo.GetByEmail(ctx, "nobody@example.com")
		Expect(err).To(MatchError(user.ErrNotFound))
		Expect(f.repo.UpdateStatus(ctx, 1, userDatamodel.StatusDeleted)).To(MatchError(user.ErrNotFound))
	})

	It("reports whether an email exists", func() {
		exists, err := f.repo.EmailExists(ctx, "john@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeFalse())

		Expect(f.repo.Create(ctx, &userDatamodel.User{Name: "John", Email: "john@example.com", PasswordHash: "x"})).To(Succeed())

		exists, err = f.repo.EmailExists(ctx, "john@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeTrue())
	})
})

var _ = Describe("User", func() {
	It("never serializes the password hash", func() {
		u := &user.User{ID: 1, Name: "John", Email: "john@example.com", PasswordHash: "$2a$secret"}

		raw, err := json.Marshal(u)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).NotTo(ContainSubstring("secret"))

		raw, err = json.Marshal(u.ToView())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).NotTo(ContainSubstring("password"))
		Expect(string(raw)).To(ContainSubstring(`"roles":[]`))
	})

	It("tracks status transitions", func() {
		u := &user.User{Status: user.StatusActive}
		u.MarkDeactivated()
		Expect(u.IsActive()).To(BeFalse())
		Expect(u.IsDeactivated()).To(BeTrue())
		u.MarkDeleted()
		Expect(u.IsDeleted()).To(BeTrue())
		u.MarkActive()
		Expect(u.IsActive()).To(BeTrue())
	})
})
