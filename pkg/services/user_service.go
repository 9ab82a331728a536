package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"user-mgmt-go/pkg/auth"
	"user-mgmt-go/pkg/captcha"
	"user-mgmt-go/pkg/db"
	"user-mgmt-go/pkg/models"
	"user-mgmt-go/pkg/notify"
	"user-mgmt-go/pkg/utils"
)

// NewUser is an account to create. Code authorizes self-service sign up
// and is ignored when an admin adds the user.
type NewUser struct {
	Username string
	Name     string
	Email    string
	Tel      string
	Password string
	Avatar   string
	State    string
	IsAdmin  string
	RoleID   int
	Code     string
}

// UserService handles business logic for account operations
type UserService struct {
	store   db.Store
	captcha *captcha.Service
	tokens  *auth.TokenIssuer
	logger  *slog.Logger
	now     func() time.Time
}

// NewUserService creates a new user service
func NewUserService(store db.Store, captchaService *captcha.Service, tokens *auth.TokenIssuer, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:   store,
		captcha: captchaService,
		tokens:  tokens,
		logger:  logger,
		now:     time.Now,
	}
}

// Login checks username and password and opens a session.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	rec, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := auth.CheckPassword(rec.PasswordHash, req.Password); err != nil {
		return nil, ErrWrongPassword
	}
	return s.openSession(ctx, rec)
}

// TelLogin opens a session for the account bound to a phone number, using
// a code previously sent by SMS. An unknown number yields ErrPhoneNotRegistered
// and leaves the code valid for sign up.
func (s *UserService) TelLogin(ctx context.Context, req models.TelLoginRequest) (*models.LoginResponse, error) {
	tel := strings.TrimSpace(req.Tel)
	if !utils.IsValidPhone(tel) {
		return nil, ErrInvalidPhone
	}
	if req.Code == "" {
		return nil, ErrCaptchaRequired
	}

	ok, err := s.captcha.Verify(ctx, models.CaptchaTypeLogin, tel, req.Code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCaptcha
	}

	rec, err := s.store.GetUserByTel(ctx, tel)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrPhoneNotRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if _, err := s.captcha.Consume(ctx, models.CaptchaTypeLogin, tel, req.Code); err != nil {
		return nil, err
	}
	return s.openSession(ctx, rec)
}

func (s *UserService) openSession(ctx context.Context, rec *db.UserRecord) (*models.LoginResponse, error) {
	if rec.State == models.StateDisabled {
		return nil, ErrAccountDisabled
	}

	token, err := s.tokens.Issue(rec.UserID, rec.Admin())
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := s.store.UpdateUser(ctx, rec.UserID, db.UserUpdate{LoginTime: &now})
	if err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	user := updated.User
	return &models.LoginResponse{
		Token:        token,
		RefreshToken: token,
		ExpiresIn:    int64(s.tokens.TTL().Seconds()),
		UserID:       user.UserID,
		User:         &user,
		Role:         roleFor(user.RoleID),
		Permissions:  permissionsFor(user),
	}, nil
}

// AddUser creates an account. Without an admin caller the request must carry
// a register code sent to the email (or, lacking one, the phone).
func (s *UserService) AddUser(ctx context.Context, caller *auth.Claims, in NewUser) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Tel = strings.TrimSpace(in.Tel)

	if in.Username == "" || in.Password == "" {
		return nil, ErrMissingCredentials
	}
	if in.Email != "" && !utils.IsValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if in.Tel != "" && !utils.IsValidPhone(in.Tel) {
		return nil, ErrInvalidPhone
	}

	admin := caller != nil && caller.Admin
	recipient := in.Email
	// a phone sign up also takes the code a refused tel-login was sent
	purposes := []string{models.CaptchaTypeRegister}
	if recipient == "" {
		recipient = in.Tel
		purposes = append(purposes, models.CaptchaTypeLogin)
	}
	var purpose string
	if !admin {
		if in.Code == "" {
			return nil, ErrCaptchaRequired
		}
		var err error
		purpose, err = s.matchCaptcha(ctx, purposes, recipient, in.Code)
		if err != nil {
			return nil, err
		}
		// self-service accounts never choose their own privileges
		in.State, in.IsAdmin, in.RoleID = "", "", 0
	}

	if err := s.CheckUser(ctx, models.CheckUserParams{Username: in.Username, Email: in.Email, Tel: in.Tel}); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	rec := db.UserRecord{
		User: models.User{
			Username: in.Username,
			Name:     in.Name,
			Email:    in.Email,
			Tel:      in.Tel,
			Avatar:   in.Avatar,
			State:    in.State,
			IsAdmin:  in.IsAdmin,
			RoleID:   in.RoleID,
		},
		PasswordHash: hash,
	}
	if rec.IsAdmin == models.AdminYes && rec.RoleID == 0 {
		rec.RoleID = db.AdminRoleID
	}

	created, err := s.store.CreateUser(ctx, rec)
	if errors.Is(err, db.ErrDuplicate) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if !admin {
		if _, err := s.captcha.Consume(ctx, purpose, recipient, in.Code); err != nil {
			s.logger.WarnContext(ctx, "failed to consume captcha", slog.String("recipient", recipient), slog.Any("error", err))
		}
	}

	s.logger.InfoContext(ctx, "user created",
		slog.Int64("user_id", created.UserID),
		slog.String("username", created.Username),
		slog.Bool("by_admin", admin),
	)
	user := created.User
	return &user, nil
}

// matchCaptcha returns the first purpose whose live code for recipient is code.
func (s *UserService) matchCaptcha(ctx context.Context, purposes []string, recipient, code string) (string, error) {
	for _, purpose := range purposes {
		ok, err := s.captcha.Verify(ctx, purpose, recipient, code)
		if err != nil {
			return "", err
		}
		if ok {
			return purpose, nil
		}
	}
	return "", ErrInvalidCaptcha
}

// ResetPassword sets a new password for the account owning email, using a
// forget code previously mailed to it.
func (s *UserService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.User, error) {
	email := strings.TrimSpace(req.Email)
	if !utils.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}

	ok, err := s.captcha.Verify(ctx, models.CaptchaTypeForget, email, req.Code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCaptcha
	}

	rec, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrEmailNotRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateUser(ctx, rec.UserID, db.UserUpdate{PasswordHash: &hash})
	if err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	if _, err := s.captcha.Consume(ctx, models.CaptchaTypeForget, email, req.Code); err != nil {
		s.logger.WarnContext(ctx, "failed to consume captcha", slog.String("recipient", email), slog.Any("error", err))
	}

	s.logger.InfoContext(ctx, "password reset", slog.Int64("user_id", updated.UserID))
	user := updated.User
	return &user, nil
}

// UpdateUser applies a partial update. The target is params.Username, or the
// caller when it is empty; only admins may update other accounts.
func (s *UserService) UpdateUser(ctx context.Context, caller *auth.Claims, params models.UpdateUserParams) (*models.User, error) {
	if caller == nil {
		return nil, ErrPermissionDenied
	}

	var (
		target *db.UserRecord
		err    error
	)
	if username := strings.TrimSpace(params.Username); username != "" {
		target, err = s.store.GetUserByUsername(ctx, username)
	} else {
		target, err = s.store.GetUserByID(ctx, caller.UserID)
	}
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if target.UserID != caller.UserID && !caller.Admin {
		return nil, ErrPermissionDenied
	}

	var update db.UserUpdate
	if email := strings.TrimSpace(params.Email); email != "" {
		if !utils.IsValidEmail(email) {
			return nil, ErrInvalidEmail
		}
		if err := s.ensureFree(ctx, s.store.GetUserByEmail, email, target.UserID, ErrEmailInUse); err != nil {
			return nil, err
		}
		update.Email = &email
	}
	if tel := strings.TrimSpace(params.Tel); tel != "" {
		if !utils.IsValidPhone(tel) {
			return nil, ErrInvalidPhone
		}
		if err := s.ensureFree(ctx, s.store.GetUserByTel, tel, target.UserID, ErrPhoneInUse); err != nil {
			return nil, err
		}
		update.Tel = &tel
	}
	if params.Password != "" {
		hash, err := auth.HashPassword(params.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &hash
	}
	if params.Name != "" {
		update.Name = &params.Name
	}
	if params.Avatar != "" {
		update.Avatar = &params.Avatar
	}

	updated, err := s.store.UpdateUser(ctx, target.UserID, update)
	if errors.Is(err, db.ErrDuplicate) {
		return nil, conflictError(update)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	user := updated.User
	return &user, nil
}

// conflictError names the unique field a racing writer claimed first.
func conflictError(update db.UserUpdate) *Error {
	switch {
	case update.Email != nil && update.Tel != nil:
		return ErrContactInUse
	case update.Tel != nil:
		return ErrPhoneInUse
	default:
		return ErrEmailInUse
	}
}

func (s *UserService) ensureFree(
	ctx context.Context,
	lookup func(context.Context, string) (*db.UserRecord, error),
	value string,
	owner int64,
	inUse *Error,
) error {
	existing, err := lookup(ctx, value)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if existing.UserID != owner {
		return inUse
	}
	return nil
}

// CheckUser reports the first of tel, email and username already in use.
// Empty values are not checked.
func (s *UserService) CheckUser(ctx context.Context, params models.CheckUserParams) error {
	checks := []struct {
		value  string
		lookup func(context.Context, string) (*db.UserRecord, error)
		taken  *Error
	}{
		{strings.TrimSpace(params.Tel), s.store.GetUserByTel, ErrPhoneTaken},
		{strings.TrimSpace(params.Email), s.store.GetUserByEmail, ErrEmailTaken},
		{strings.TrimSpace(params.Username), s.store.GetUserByUsername, ErrUsernameTaken},
	}
	for _, check := range checks {
		if check.value == "" {
			continue
		}
		_, err := check.lookup(ctx, check.value)
		if err == nil {
			return check.taken
		}
		if !errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("failed to load user: %w", err)
		}
	}
	return nil
}

// SendEmailCaptcha mails a code for the given purpose.
func (s *UserService) SendEmailCaptcha(ctx context.Context, req models.EmailCaptchaRequest) error {
	email := strings.TrimSpace(req.Email)
	if !utils.IsValidEmail(email) {
		return ErrInvalidEmail
	}
	return s.sendCaptcha(ctx, captcha.ChannelEmail, req.Type, email, s.store.GetUserByEmail, ErrEmailNotRegistered)
}

// SendSmsCaptcha texts a code for the given purpose.
func (s *UserService) SendSmsCaptcha(ctx context.Context, req models.SmsCaptchaRequest) error {
	tel := strings.TrimSpace(req.Tel)
	if !utils.IsValidPhone(tel) {
		return ErrInvalidPhone
	}
	return s.sendCaptcha(ctx, captcha.ChannelSMS, req.Type, tel, s.store.GetUserByTel, ErrPhoneUnknown)
}

func (s *UserService) sendCaptcha(
	ctx context.Context,
	channel captcha.Channel,
	captchaType, recipient string,
	lookup func(context.Context, string) (*db.UserRecord, error),
	unregistered *Error,
) error {
	purpose, err := normalizeCaptchaType(captchaType)
	if err != nil {
		return err
	}

	if purpose == models.CaptchaTypeForget {
		_, err := lookup(ctx, recipient)
		if errors.Is(err, db.ErrNotFound) {
			return unregistered
		}
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
	}

	err = s.captcha.Issue(ctx, channel, purpose, recipient)
	if errors.Is(err, captcha.ErrTooFrequent) {
		return ErrCaptchaTooFrequent
	}
	if err != nil {
		return s.deliveryFailure(ctx, channel, recipient, err)
	}
	return nil
}

// deliveryFailure logs a failed send and picks the message the caller sees.
func (s *UserService) deliveryFailure(ctx context.Context, channel captcha.Channel, recipient string, err error) error {
	attrs := []any{
		slog.String("channel", string(channel)),
		slog.String("recipient", recipient),
		slog.Any("error", err),
	}

	var gwErr *notify.GatewayError
	switch {
	case errors.As(err, &gwErr) && gwErr.IsRetryable():
		s.logger.WarnContext(ctx, "captcha gateway unavailable", attrs...)
		return ErrCaptchaSendFailed
	case errors.As(err, &gwErr) && gwErr.Type == notify.ErrorTypeRejected:
		s.logger.WarnContext(ctx, "captcha delivery rejected", attrs...)
		return ErrCaptchaUndeliverable
	default:
		s.logger.ErrorContext(ctx, "failed to issue captcha", attrs...)
		return ErrCaptchaSendFailed
	}
}

// CheckCaptcha validates a code without consuming it.
func (s *UserService) CheckCaptcha(ctx context.Context, params models.CheckCaptchaParams) error {
	purpose, err := normalizeCaptchaType(params.Type)
	if err != nil {
		return err
	}
	ok, err := s.captcha.Verify(ctx, purpose, strings.TrimSpace(params.Email), params.Code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCaptcha
	}
	return nil
}

// normalizeCaptchaType maps an empty type to register and rejects unknown ones.
func normalizeCaptchaType(t string) (string, error) {
	switch t {
	case "":
		return models.CaptchaTypeRegister, nil
	case models.CaptchaTypeRegister, models.CaptchaTypeForget, models.CaptchaTypeLogin:
		return t, nil
	default:
		return "", ErrInvalidCaptchaType
	}
}

// QueryUsers returns one page of users matching the filters.
func (s *UserService) QueryUsers(ctx context.Context, q models.UserQueryParams) (*models.Page[models.User], error) {
	users, total, err := s.store.QueryUsers(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	pageNum, pageSize, _ := db.Paging(q)
	page := models.NewPage(users, total, pageNum, pageSize)
	return &page, nil
}

// GetUser looks up a single user by username.
func (s *UserService) GetUser(ctx context.Context, username string) (*models.User, error) {
	rec, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	user := rec.User
	return &user, nil
}
