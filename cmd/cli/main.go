package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"user-mgmt-go/pkg/cli"
	"user-mgmt-go/pkg/cli/logger"
	"user-mgmt-go/pkg/cli/users"
	"user-mgmt-go/pkg/config"
	"user-mgmt-go/pkg/models"
)

func main() {
	var (
		loginMode     = flag.Bool("login", false, "Log in with -username and -password")
		telLoginMode  = flag.Bool("tel-login", false, "Log in with -tel and -code")
		registerMode  = flag.Bool("register", false, "Register an account (-name -username -email [-tel] -password -code)")
		resetMode     = flag.Bool("reset-password", false, "Reset a password (-email -code -password)")
		checkUserMode = flag.Bool("check-user", false, "Check whether -username, -email or -tel is taken")
		emailCodeMode = flag.Bool("send-email-captcha", false, "Send a verification code to -email")
		smsCodeMode   = flag.Bool("send-sms-captcha", false, "Send a verification code to -tel")
		checkCaptcha  = flag.Bool("check-captcha", false, "Validate -code for -email")
		listMode      = flag.Bool("list-users", false, "List users (requires login)")
		updateMode    = flag.Bool("update-user", false, "Update yourself or -username (requires login)")
		addMode       = flag.Bool("add-user", false, "Add a user as an admin (requires login)")

		// Field values
		username = flag.String("username", "", "Username")
		password = flag.String("password", "", "Password")
		email    = flag.String("email", "", "Email address")
		tel      = flag.String("tel", "", "Phone number")
		name     = flag.String("name", "", "Display name")
		code     = flag.String("code", "", "Verification code")
		codeType = flag.String("type", models.CaptchaTypeRegister, "Verification code purpose: register, forget or login")
		page     = flag.Int("page", 1, "Page number for -list-users")
		limit    = flag.Int("limit", 0, "Page size for -list-users")

		// Config commands
		configShow = flag.Bool("config-show", false, "Show current configuration")
		configSet  = flag.String("config-set", "", "Set a config value (format: section.key=value)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	app := cli.NewApp(cfg)

	// Config commands never talk to the server
	if *configShow {
		if err := app.ShowConfig(); err != nil {
			fail(err)
		}
		return
	}
	if *configSet != "" {
		if err := app.SetConfig(*configSet); err != nil {
			log.Fatalf("failed to set config: %v", err)
		}
		fmt.Println("Configuration updated successfully")
		return
	}

	var run func(ctx context.Context) error
	switch {
	case *loginMode:
		run = func(ctx context.Context) error {
			return app.Login(ctx, models.LoginRequest{Username: *username, Password: *password})
		}
	case *telLoginMode:
		run = func(ctx context.Context) error {
			return app.TelLogin(ctx, models.TelLoginRequest{Tel: *tel, Code: *code})
		}
	case *registerMode:
		run = func(ctx context.Context) error {
			return app.Register(ctx, models.RegisterRequest{
				Name:       *name,
				Username:   *username,
				Email:      *email,
				Tel:        *tel,
				Password:   *password,
				VerifyCode: *code,
			})
		}
	case *resetMode:
		run = func(ctx context.Context) error {
			return app.ResetPassword(ctx, models.ResetPasswordRequest{Email: *email, Code: *code, Password: *password})
		}
	case *checkUserMode:
		run = func(ctx context.Context) error {
			return app.CheckUser(ctx, models.CheckUserParams{Username: *username, Email: *email, Tel: *tel})
		}
	case *emailCodeMode:
		run = func(ctx context.Context) error {
			return app.SendEmailCaptcha(ctx, models.EmailCaptchaRequest{Email: *email, Type: *codeType})
		}
	case *smsCodeMode:
		run = func(ctx context.Context) error {
			return app.SendSmsCaptcha(ctx, models.SmsCaptchaRequest{Tel: *tel, Type: *codeType})
		}
	case *checkCaptcha:
		run = func(ctx context.Context) error {
			return app.CheckCaptcha(ctx, models.CheckCaptchaParams{Email: *email, Code: *code, Type: *codeType})
		}
	case *listMode:
		run = func(ctx context.Context) error {
			return app.ListUsers(ctx, models.UserQueryParams{
				Username: *username,
				Name:     *name,
				Email:    *email,
				Tel:      *tel,
				Start:    *page,
				Limit:    *limit,
			})
		}
	case *updateMode:
		run = func(ctx context.Context) error {
			return app.UpdateUser(ctx, models.UpdateUserParams{
				Username: *username,
				Name:     *name,
				Email:    *email,
				Tel:      *tel,
				Password: *password,
			})
		}
	case *addMode:
		run = func(ctx context.Context) error {
			return app.AddUser(ctx, models.User{
				Username: *username,
				Name:     *name,
				Email:    *email,
				Tel:      *tel,
				Password: *password,
			})
		}
	}

	if run != nil {
		defer logger.CloseLog()
		ctx, cancel := context.WithTimeout(context.Background(), cfg.CLITimeout())
		err := run(ctx)
		cancel()
		if err != nil {
			fail(err)
		}
		return
	}

	// Interactive TUI mode
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func fail(err error) {
	users.WriteToStderr(users.FormatErrorMessage(err))
	logger.CloseLog()
	os.Exit(1)
}
