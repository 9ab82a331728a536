package cli

import (
	"context"
	"errors"
	"fmt"

	"user-mgmt-go/pkg/cli/client"
	"user-mgmt-go/pkg/cli/logger"
	"user-mgmt-go/pkg/cli/users"
	"user-mgmt-go/pkg/models"
)

// businessError turns a rejected envelope into an error
func businessError(code int, message string) error {
	if message == "" {
		message = "request rejected"
	}
	return fmt.Errorf("%s (code %d)", message, code)
}

func (a *App) userAPI() (*client.UserAPI, error) {
	apiClient, err := a.getClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return apiClient.Users(), nil
}

// describe adds a hint for auth failures
func describe(err error) error {
	if client.IsUnauthorized(err) {
		return fmt.Errorf("%w\nsession expired or missing; run with -login", err)
	}
	return err
}

func (a *App) ack(op string, res *models.Ack, err error, success string) error {
	if err != nil {
		logger.LogError(err, "%s failed", op)
		return describe(err)
	}
	if !res.OK() {
		return businessError(res.Code, res.Message)
	}
	fmt.Fprint(a.out, users.FormatSuccessMessage(success, nil))
	return nil
}

func (a *App) userResult(op string, res *models.Result[models.User], err error, success string) error {
	if err != nil {
		logger.LogError(err, "%s failed", op)
		return describe(err)
	}
	if !res.OK() {
		return businessError(res.Code, res.Message)
	}
	fmt.Fprint(a.out, users.FormatSuccessMessage(success, &res.Data))
	return nil
}

func (a *App) session(op string, res *models.Result[models.LoginResponse], err error) error {
	if err != nil {
		logger.LogError(err, "%s failed", op)
		return describe(err)
	}
	if res.Code == models.CodeUnregistered {
		return fmt.Errorf("%s; register with -register", res.Message)
	}
	if !res.OK() {
		return businessError(res.Code, res.Message)
	}
	if res.Data.Token == "" {
		return errors.New("server returned no token")
	}
	if err := a.saveToken(res.Data.Token); err != nil {
		return err
	}
	logger.Log("logged in as user %d", res.Data.UserID)
	fmt.Fprint(a.out, users.FormatSuccessMessage("Logged in; session token saved to config", res.Data.User))
	return nil
}

// Login authenticates with username/password and saves the session token
func (a *App) Login(ctx context.Context, req models.LoginRequest) error {
	api, err := a.userAPI()
	if err != nil {
		return err
	}
	res, err := api.Login(ctx, req)
	return a.session("login", res, err)
}

// TelLogin authenticates with phone + code and saves the session token
func (a *App) TelLogin(ctx context.Context, req models.TelLoginRequest) error {
	api, err := a.userAPI()
	if err != nil {
		return err
	}
	res, err := api.TelLogin(ctx, req)
	return a.session("tel-login", res, err)
}

// Register creates an account with a verification code
func (a *App) Register(ctx context.Context, req models.RegisterRequest) error {
	api, err := a.userAPI()
	if err != nil {
		return err
	}
	res, err := api.Register(ctx, req)
	return a.userResult("register", res, err, "User registered successfully!")
}

// ResetPassword sets a new password with a code sent to the email
func (a *App) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	api, err := a.userAPI()
	if err != nil {
		return err
	}
	res, err := api.ResetPassword(ctx, req)
	return a.userResult("reset-password", res, err, "Password reset successfully!")
}

// CheckUser reports whether the username, email or tel is still free
func (a *App) CheckUser(ctx context.Context, params models.CheckUserParams) error {
	api, err := a.userAPI()
	if err != nil {
		return err
	}
	res, err := api.CheckUser(ctx, params)
	return a.ack("check-user", res, err, "Available")
}

// SendEmailCaptcha asks the server to mail a verification code
func (a *App) SendEmailCaptcha(ctx context.Context, req models.EmailCaptchaRequest) error {
	api, err := a.userAPI()
	if err != nil {
		return err
	}
	res, err := api.SendEmailCaptcha(ctx, req)
	return a.ack("send-email-captcha", res, err, "Verification code sent to "+req.Email)
}

// SendSmsCaptcha asks the server to text a verification code
func (a *App) SendSmsCaptcha(ctx context.Context, req models.SmsCaptchaRequest) error {
	api, err := a.userAPI()
	if err != nil {
		return err
	}
	res, err := api.SendSmsCaptcha(ctx, req)
	return a.ack("send-sms-captcha", res, err, "Verification code sent to "+req.Tel)
}

// CheckCaptcha validates a verification code
func (a *App) CheckCaptcha(ctx context.Context, params models.CheckCaptchaParams) error {
	api, err := a.userAPI()
	if err != nil {
		return err
	}
	res, err := api.CheckCaptcha(ctx, params)
	return a.ack("check-captcha", res, err, "Verification code is valid")
}

// ListUsers prints one page of users
func (a *App) ListUsers(ctx context.Context, params models.UserQueryParams) error {
	if err := a.requireToken(); err != nil {
		return err
	}
	api, err := a.userAPI()
	if err != nil {
		return err
	}

	res, err := api.QueryUsers(ctx, params)
	if err != nil {
		logger.LogError(err, "list-users failed")
		return describe(err)
	}
	if !res.OK() {
		return businessError(res.Code, res.Message)
	}
	fmt.Fprint(a.out, users.FormatTableOutput(res.Data))
	return nil
}

// UpdateUser applies a partial update to the caller or the named user
func (a *App) UpdateUser(ctx context.Context, params models.UpdateUserParams) error {
	if err := a.requireToken(); err != nil {
		return err
	}
	api, err := a.userAPI()
	if err != nil {
		return err
	}
	res, err := api.UpdateUser(ctx, params)
	return a.userResult("update-user", res, err, "User updated successfully!")
}

// AddUser creates an account as an admin
func (a *App) AddUser(ctx context.Context, user models.User) error {
	if err := a.requireToken(); err != nil {
		return err
	}
	api, err := a.userAPI()
	if err != nil {
		return err
	}
	res, err := api.AddUser(ctx, user)
	return a.userResult("add-user", res, err, "User added successfully!")
}
