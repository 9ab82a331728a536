package client

import (
	"context"

	"user-mgmt-go/pkg/endpoints"
	"user-mgmt-go/pkg/models"
)

// UserAPI maps each account operation onto one transport call.
// Errors from the transport are returned as-is; envelope codes are left
// for the caller to inspect.
type UserAPI struct {
	transport Transport
	endpoints endpoints.UserEndpoints
}

// NewUserAPI binds the user operations to a transport and the default
// endpoint table
func NewUserAPI(t Transport) *UserAPI {
	return NewUserAPIWithEndpoints(t, endpoints.User)
}

// NewUserAPIWithEndpoints binds the user operations to a custom endpoint table
func NewUserAPIWithEndpoints(t Transport, e endpoints.UserEndpoints) *UserAPI {
	return &UserAPI{transport: t, endpoints: e}
}

// Login authenticates with username and password
func (u *UserAPI) Login(ctx context.Context, req models.LoginRequest) (*models.Result[models.LoginResponse], error) {
	var res models.Result[models.LoginResponse]
	if err := u.transport.PostJSON(ctx, u.endpoints.Login, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// TelLogin authenticates with a phone number and an SMS code
func (u *UserAPI) TelLogin(ctx context.Context, req models.TelLoginRequest) (*models.Result[models.LoginResponse], error) {
	var res models.Result[models.LoginResponse]
	if err := u.transport.PostJSON(ctx, u.endpoints.TelLogin, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account guarded by an email verification code
func (u *UserAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.Result[models.User], error) {
	var res models.Result[models.User]
	if err := u.transport.Post(ctx, u.endpoints.Add, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ResetPassword sets a new password using a code previously mailed to email
func (u *UserAPI) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.Result[models.User], error) {
	var res models.Result[models.User]
	if err := u.transport.Post(ctx, u.endpoints.Update, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CheckUser asks whether the username or email is already taken
func (u *UserAPI) CheckUser(ctx context.Context, params models.CheckUserParams) (*models.Ack, error) {
	var res models.Ack
	if err := u.transport.Get(ctx, u.endpoints.CheckUser, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SendEmailCaptcha asks the server to mail a verification code
func (u *UserAPI) SendEmailCaptcha(ctx context.Context, req models.EmailCaptchaRequest) (*models.Ack, error) {
	var res models.Ack
	if err := u.transport.Post(ctx, u.endpoints.SendEmailCaptcha, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SendSmsCaptcha asks the server to text a verification code
func (u *UserAPI) SendSmsCaptcha(ctx context.Context, req models.SmsCaptchaRequest) (*models.Ack, error) {
	var res models.Ack
	if err := u.transport.PostJSON(ctx, u.endpoints.SendSmsCaptcha, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CheckCaptcha validates a verification code without consuming it
func (u *UserAPI) CheckCaptcha(ctx context.Context, params models.CheckCaptchaParams) (*models.Ack, error) {
	var res models.Ack
	if err := u.transport.Get(ctx, u.endpoints.CheckCaptcha, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// QueryUsers lists users matching params, one page at a time
func (u *UserAPI) QueryUsers(ctx context.Context, params models.UserQueryParams) (*models.Result[models.Page[models.User]], error) {
	var res models.Result[models.Page[models.User]]
	if err := u.transport.GetPage(ctx, u.endpoints.QueryUsers, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateUser applies a partial update to an account
func (u *UserAPI) UpdateUser(ctx context.Context, params models.UpdateUserParams) (*models.Result[models.User], error) {
	var res models.Result[models.User]
	if err := u.transport.PostJSON(ctx, u.endpoints.Update, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// AddUser creates an account from a partial user record
func (u *UserAPI) AddUser(ctx context.Context, user models.User) (*models.Result[models.User], error) {
	var res models.Result[models.User]
	if err := u.transport.Post(ctx, u.endpoints.Add, user, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetUser fetches a single account by username
func (u *UserAPI) GetUser(ctx context.Context, username string) (*models.Result[models.User], error) {
	var res models.Result[models.User]
	params := map[string]string{"username": username}
	if err := u.transport.Get(ctx, u.endpoints.Query, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
