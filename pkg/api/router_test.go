package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"user-mgmt-go/pkg/api/handlers"
	"user-mgmt-go/pkg/auth"
	"user-mgmt-go/pkg/captcha"
	"user-mgmt-go/pkg/cli/client"
	"user-mgmt-go/pkg/db"
	"user-mgmt-go/pkg/endpoints"
	"user-mgmt-go/pkg/models"
	"user-mgmt-go/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type inbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (i *inbox) Send(_ context.Context, _ captcha.Channel, recipient, code string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.codes[recipient] = code
	return nil
}

func (i *inbox) code(recipient string) string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.codes[recipient]
}

type downChecker struct{}

func (downChecker) Ping(context.Context) error { return errors.New("down") }

type testServer struct {
	url   string
	store *db.MemoryStore
	inbox *inbox
	api   *client.Client
}

func newTestServer(t *testing.T, checks map[string]handlers.HealthChecker) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := db.NewMemoryStore()
	mail := &inbox{codes: map[string]string{}}
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	captchas := captcha.NewService(captcha.NewMemoryStore(), nil, mail, time.Minute)
	svc := services.NewUserService(store, captchas, tokens, logger)

	if checks == nil {
		checks = map[string]handlers.HealthChecker{"database": store}
	}
	srv := httptest.NewServer(NewRouter(svc, tokens, logger, checks))
	t.Cleanup(srv.Close)

	return &testServer{
		url:   srv.URL,
		store: store,
		inbox: mail,
		api:   client.NewClient(srv.URL, ""),
	}
}

func (s *testServer) seedAdmin(t *testing.T) {
	t.Helper()
	hash, err := auth.HashPassword("rootpw")
	require.NoError(t, err)
	_, err = s.store.CreateUser(context.Background(), db.UserRecord{
		User:         models.User{Username: "root", IsAdmin: models.AdminYes, RoleID: db.AdminRoleID},
		PasswordHash: hash,
	})
	require.NoError(t, err)
}

func (s *testServer) login(t *testing.T, username, password string) *client.UserAPI {
	t.Helper()
	res, err := s.api.Users().Login(context.Background(), models.LoginRequest{Username: username, Password: password})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Message)
	return s.api.WithToken(res.Data.Token).Users()
}

func TestRegisterLoginAndProfile(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, nil)
	users := s.api.Users()
	const email = "ann@example.com"

	ack, err := users.CheckUser(ctx, models.CheckUserParams{Username: "ann"})
	require.NoError(t, err)
	assert.True(t, ack.OK())

	ack, err = users.SendEmailCaptcha(ctx, models.EmailCaptchaRequest{Email: email, Type: models.CaptchaTypeRegister})
	require.NoError(t, err)
	require.True(t, ack.OK(), ack.Message)
	code := s.inbox.code(email)

	ack, err = users.CheckCaptcha(ctx, models.CheckCaptchaParams{Email: email, Code: code, Type: models.CaptchaTypeRegister})
	require.NoError(t, err)
	assert.True(t, ack.OK(), ack.Message)

	reg, err := users.Register(ctx, models.RegisterRequest{
		Name: "Ann", Username: "ann", Email: email, Password: "secret", VerifyCode: code,
	})
	require.NoError(t, err)
	require.True(t, reg.OK(), reg.Message)
	assert.Equal(t, "ann", reg.Data.Username)
	assert.Empty(t, reg.Data.Password)
	assert.NotZero(t, reg.Data.UserID)

	ack, err = users.CheckUser(ctx, models.CheckUserParams{Username: "ann"})
	require.NoError(t, err)
	assert.Equal(t, models.CodeError, ack.Code)
	assert.Equal(t, "username already exists", ack.Message)

	login, err := users.Login(ctx, models.LoginRequest{Username: "ann", Password: "secret"})
	require.NoError(t, err)
	require.True(t, login.OK(), login.Message)
	assert.NotEmpty(t, login.Data.Token)
	assert.Equal(t, reg.Data.UserID, login.Data.UserID)
	require.NotNil(t, login.Data.Role)
	assert.Equal(t, "user", login.Data.Role.RoleName)

	authed := s.api.WithToken(login.Data.Token).Users()
	updated, err := authed.UpdateUser(ctx, models.UpdateUserParams{Name: "Anne", Tel: "13800138000"})
	require.NoError(t, err)
	require.True(t, updated.OK(), updated.Message)
	assert.Equal(t, "Anne", updated.Data.Name)
	assert.Equal(t, "13800138000", updated.Data.Tel)

	got, err := authed.GetUser(ctx, "ann")
	require.NoError(t, err)
	require.True(t, got.OK())
	assert.Equal(t, "Anne", got.Data.Name)
}

func TestLoginFailureIsNotAnError(t *testing.T) {
	s := newTestServer(t, nil)
	s.seedAdmin(t)

	res, err := s.api.Users().Login(context.Background(), models.LoginRequest{Username: "root", Password: "wrong"})
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, models.CodeError, res.Code)
	assert.Equal(t, "wrong password", res.Message)

	res, err = s.api.Users().Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "user not found", res.Message)
}

func TestTelLogin_Unregistered(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, nil)
	users := s.api.Users()
	const tel = "13800138000"

	ack, err := users.SendSmsCaptcha(ctx, models.SmsCaptchaRequest{Tel: tel, Type: models.CaptchaTypeLogin})
	require.NoError(t, err)
	require.True(t, ack.OK(), ack.Message)

	res, err := users.TelLogin(ctx, models.TelLoginRequest{Tel: tel, Code: s.inbox.code(tel)})
	require.NoError(t, err)
	assert.Equal(t, models.CodeUnregistered, res.Code)
	assert.False(t, res.OK())
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, nil)
	s.seedAdmin(t)
	admin := s.login(t, "root", "rootpw")
	const email = "bob@example.com"

	added, err := admin.AddUser(ctx, models.User{Username: "bob", Email: email, Password: "old"})
	require.NoError(t, err)
	require.True(t, added.OK(), added.Message)

	users := s.api.Users()
	ack, err := users.SendEmailCaptcha(ctx, models.EmailCaptchaRequest{Email: email, Type: models.CaptchaTypeForget})
	require.NoError(t, err)
	require.True(t, ack.OK(), ack.Message)

	reset, err := users.ResetPassword(ctx, models.ResetPasswordRequest{Email: email, Code: s.inbox.code(email), Password: "new"})
	require.NoError(t, err)
	require.True(t, reset.OK(), reset.Message)

	s.login(t, "bob", "new")
}

func TestAdminListsUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, nil)
	s.seedAdmin(t)
	admin := s.login(t, "root", "rootpw")

	for _, name := range []string{"u1", "u2", "u3"} {
		res, err := admin.AddUser(ctx, models.User{Username: name, Password: "pw"})
		require.NoError(t, err)
		require.True(t, res.OK(), res.Message)
	}

	page, err := admin.QueryUsers(ctx, models.UserQueryParams{Start: 1, Limit: 2})
	require.NoError(t, err)
	require.True(t, page.OK())
	assert.Equal(t, int64(4), page.Data.Total)
	assert.Equal(t, 2, page.Data.Pages)
	assert.Len(t, page.Data.List, 2)

	page, err = admin.QueryUsers(ctx, models.UserQueryParams{Username: "u2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Data.Total)
	assert.Equal(t, client.DefaultPageSize, page.Data.PageSize)

	page, err = admin.QueryUsers(ctx, models.UserQueryParams{Start: 1844674407370955161})
	require.NoError(t, err)
	require.True(t, page.OK(), page.Message)
	assert.Empty(t, page.Data.List)
	assert.Equal(t, int64(4), page.Data.Total)
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, nil)

	_, err := s.api.Users().QueryUsers(ctx, models.UserQueryParams{})
	require.Error(t, err)
	assert.True(t, client.IsUnauthorized(err))

	_, err = s.api.WithToken("garbage").Users().UpdateUser(ctx, models.UpdateUserParams{Name: "x"})
	assert.True(t, client.IsUnauthorized(err))

	// self-service add without a code is a business failure, not a 401
	res, err := s.api.Users().AddUser(ctx, models.User{Username: "x", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "verification code is required", res.Message)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	var body map[string]any
	require.NoError(t, s.api.Get(context.Background(), endpoints.Health, nil, &body))
	assert.Equal(t, "ok", body["status"])

	down := newTestServer(t, map[string]handlers.HealthChecker{"redis": downChecker{}})
	err := down.api.Get(context.Background(), endpoints.Health, nil, &body)
	assert.True(t, client.IsStatus(err, http.StatusServiceUnavailable))
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodGet, s.url+endpoints.Health, nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-Id"))

	resp2, err := http.Get(s.url + endpoints.Health)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEmpty(t, resp2.Header.Get("X-Request-Id"))
}
