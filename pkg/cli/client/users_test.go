package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"user-mgmt-go/pkg/endpoints"
	"user-mgmt-go/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	verbGet      = "get"
	verbGetPage  = "getPage"
	verbPost     = "post"
	verbPostJSON = "postJSON"
)

type recordedCall struct {
	verb    string
	path    string
	payload any
}

// fakeTransport records every call and decodes body into the result.
type fakeTransport struct {
	calls []recordedCall
	body  string
	err   error
}

func (f *fakeTransport) record(verb, path string, payload, result any) error {
	f.calls = append(f.calls, recordedCall{verb: verb, path: path, payload: payload})
	if f.err != nil {
		return f.err
	}
	if f.body != "" && result != nil {
		return json.Unmarshal([]byte(f.body), result)
	}
	return nil
}

func (f *fakeTransport) Get(_ context.Context, path string, params, result any) error {
	return f.record(verbGet, path, params, result)
}

func (f *fakeTransport) GetPage(_ context.Context, path string, params, result any) error {
	return f.record(verbGetPage, path, params, result)
}

func (f *fakeTransport) Post(_ context.Context, path string, payload, result any) error {
	return f.record(verbPost, path, payload, result)
}

func (f *fakeTransport) PostJSON(_ context.Context, path string, payload, result any) error {
	return f.record(verbPostJSON, path, payload, result)
}

func TestUserAPI_RoutesEachOperation(t *testing.T) {
	ctx := context.Background()
	e := endpoints.User

	login := models.LoginRequest{Username: "a", Password: "b"}
	telLogin := models.TelLoginRequest{Tel: "13800000000", Code: "123456"}
	register := models.RegisterRequest{Name: "Ann", Username: "ann", Email: "ann@example.com", Password: "pw", VerifyCode: "111111"}
	reset := models.ResetPasswordRequest{Email: "ann@example.com", Code: "222222", Password: "new"}
	checkUser := models.CheckUserParams{Username: "a"}
	emailCaptcha := models.EmailCaptchaRequest{Email: "ann@example.com", Type: models.CaptchaTypeRegister}
	smsCaptcha := models.SmsCaptchaRequest{Tel: "13800000000", Type: models.CaptchaTypeLogin}
	checkCaptcha := models.CheckCaptchaParams{Email: "ann@example.com", Code: "333333", Type: models.CaptchaTypeForget}
	queryUsers := models.UserQueryParams{Start: 2}
	update := models.UpdateUserParams{Username: "ann", Name: "Anne"}
	add := models.User{Username: "bob", Email: "bob@example.com"}

	tests := []struct {
		name    string
		call    func(u *UserAPI) error
		verb    string
		path    string
		payload any
	}{
		{"login", func(u *UserAPI) error { _, err := u.Login(ctx, login); return err }, verbPostJSON, e.Login, login},
		{"tel login", func(u *UserAPI) error { _, err := u.TelLogin(ctx, telLogin); return err }, verbPostJSON, e.TelLogin, telLogin},
		{"register", func(u *UserAPI) error { _, err := u.Register(ctx, register); return err }, verbPost, e.Add, register},
		{"reset password", func(u *UserAPI) error { _, err := u.ResetPassword(ctx, reset); return err }, verbPost, e.Update, reset},
		{"check user", func(u *UserAPI) error { _, err := u.CheckUser(ctx, checkUser); return err }, verbGet, e.CheckUser, checkUser},
		{"send email captcha", func(u *UserAPI) error { _, err := u.SendEmailCaptcha(ctx, emailCaptcha); return err }, verbPost, e.SendEmailCaptcha, emailCaptcha},
		{"send sms captcha", func(u *UserAPI) error { _, err := u.SendSmsCaptcha(ctx, smsCaptcha); return err }, verbPostJSON, e.SendSmsCaptcha, smsCaptcha},
		{"check captcha", func(u *UserAPI) error { _, err := u.CheckCaptcha(ctx, checkCaptcha); return err }, verbGet, e.CheckCaptcha, checkCaptcha},
		{"query users", func(u *UserAPI) error { _, err := u.QueryUsers(ctx, queryUsers); return err }, verbGetPage, e.QueryUsers, queryUsers},
		{"update user", func(u *UserAPI) error { _, err := u.UpdateUser(ctx, update); return err }, verbPostJSON, e.Update, update},
		{"add user", func(u *UserAPI) error { _, err := u.AddUser(ctx, add); return err }, verbPost, e.Add, add},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{body: `{"code":200,"message":"ok"}`}
			require.NoError(t, tt.call(NewUserAPI(ft)))

			require.Len(t, ft.calls, 1)
			assert.Equal(t, tt.verb, ft.calls[0].verb)
			assert.Equal(t, tt.path, ft.calls[0].path)
			assert.Equal(t, tt.payload, ft.calls[0].payload)
		})
	}
}

func TestUserAPI_LoginReturnsParsedResponse(t *testing.T) {
	ft := &fakeTransport{body: `{"code":200,"message":"ok","data":{"token":"tok","refreshToken":"tok","expiresIn":2592000,"userId":7,"user":{"userId":7,"username":"a"}}}`}

	res, err := NewUserAPI(ft).Login(context.Background(), models.LoginRequest{Username: "a", Password: "b"})
	require.NoError(t, err)

	assert.True(t, res.OK())
	assert.Equal(t, "tok", res.Data.Token)
	assert.Equal(t, int64(2592000), res.Data.ExpiresIn)
	assert.Equal(t, int64(7), res.Data.UserID)
	require.NotNil(t, res.Data.User)
	assert.Equal(t, "a", res.Data.User.Username)
}

func TestUserAPI_BusinessFailureIsNotAnError(t *testing.T) {
	ft := &fakeTransport{body: `{"code":500,"message":"wrong password"}`}

	res, err := NewUserAPI(ft).Login(context.Background(), models.LoginRequest{Username: "a", Password: "x"})
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, "wrong password", res.Message)
}

func TestUserAPI_QueryUsersDecodesPage(t *testing.T) {
	ft := &fakeTransport{body: `{"code":200,"message":"ok","data":{"list":[{"userId":1,"username":"a"},{"userId":2,"username":"b"}],"total":12,"pageNum":2,"pageSize":10,"pages":2}}`}

	res, err := NewUserAPI(ft).QueryUsers(context.Background(), models.UserQueryParams{Start: 2})
	require.NoError(t, err)

	page := res.Data
	assert.Equal(t, 2, page.PageNum)
	assert.Equal(t, int64(12), page.Total)
	require.Len(t, page.List, 2)
	assert.Equal(t, "b", page.List[1].Username)
}

func TestUserAPI_TransportErrorPropagatesUnchanged(t *testing.T) {
	boom := &APIError{StatusCode: 500, Message: "internal server error"}
	ft := &fakeTransport{err: boom}
	api := NewUserAPI(ft)
	ctx := context.Background()

	_, err := api.Login(ctx, models.LoginRequest{Username: "a", Password: "b"})
	assert.Same(t, boom, err)

	_, err = api.QueryUsers(ctx, models.UserQueryParams{})
	assert.Same(t, boom, err)

	plain := errors.New("dial tcp: connection refused")
	ft.err = plain
	_, err = api.CheckUser(ctx, models.CheckUserParams{Email: "a@example.com"})
	assert.Equal(t, plain, err)
}

func TestUserAPI_DoesNotMutateInput(t *testing.T) {
	ft := &fakeTransport{body: `{"code":200,"message":"ok","data":{"userId":9,"username":"changed"}}`}
	api := NewUserAPI(ft)

	user := models.User{Username: "bob", Email: "bob@example.com", Password: "pw"}
	before := user
	_, err := api.AddUser(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, before, user)

	params := models.UserQueryParams{Username: "bob"}
	_, err = api.QueryUsers(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, models.UserQueryParams{Username: "bob"}, params)
}

func TestUserAPI_CustomEndpoints(t *testing.T) {
	ft := &fakeTransport{}
	custom := endpoints.User
	custom.Login = "/v2/auth/login"

	_, err := NewUserAPIWithEndpoints(ft, custom).Login(context.Background(), models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, "/v2/auth/login", ft.calls[0].path)
}
