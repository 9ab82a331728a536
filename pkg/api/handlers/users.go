package handlers

import (
	"user-mgmt-go/pkg/api/middleware"
	"user-mgmt-go/pkg/models"
	"user-mgmt-go/pkg/services"

	"github.com/gin-gonic/gin"
)

// addUserRequest accepts both the sign up payload (verifyCode) and the
// admin payload (a partial user).
type addUserRequest struct {
	Username   string `json:"username" form:"username"`
	Name       string `json:"name" form:"name"`
	Email      string `json:"email" form:"email"`
	Tel        string `json:"tel" form:"tel"`
	Password   string `json:"password" form:"password"`
	Avatar     string `json:"avatar" form:"avatar"`
	State      string `json:"state" form:"state"`
	IsAdmin    string `json:"isAdmin" form:"isAdmin"`
	RoleID     int    `json:"roleId" form:"roleId"`
	Code       string `json:"code" form:"code"`
	VerifyCode string `json:"verifyCode" form:"verifyCode"`
}

// updateUserRequest is a profile update, or a password reset when it
// carries a code and an email.
type updateUserRequest struct {
	models.UpdateUserParams
	Code string `json:"code" form:"code"`
}

// Login handles username/password login
func Login(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}

		res, err := svc.Login(c.Request.Context(), req)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, res)
	}
}

// TelLogin handles phone + SMS code login
func TelLogin(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TelLoginRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}

		res, err := svc.TelLogin(c.Request.Context(), req)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, res)
	}
}

// AddUser handles both self-service sign up and admin account creation
func AddUser(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addUserRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}

		code := req.Code
		if code == "" {
			code = req.VerifyCode
		}
		user, err := svc.AddUser(c.Request.Context(), middleware.Claims(c), services.NewUser{
			Username: req.Username,
			Name:     req.Name,
			Email:    req.Email,
			Tel:      req.Tel,
			Password: req.Password,
			Avatar:   req.Avatar,
			State:    req.State,
			IsAdmin:  req.IsAdmin,
			RoleID:   req.RoleID,
			Code:     code,
		})
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, user)
	}
}

// UpdateUser handles profile updates and captcha-authorized password resets
func UpdateUser(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateUserRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}

		if req.Code != "" && req.Email != "" {
			user, err := svc.ResetPassword(c.Request.Context(), models.ResetPasswordRequest{
				Email:    req.Email,
				Code:     req.Code,
				Password: req.Password,
			})
			if err != nil {
				fail(c, err)
				return
			}
			ok(c, user)
			return
		}

		claims := middleware.Claims(c)
		if claims == nil {
			middleware.Unauthorized(c)
			return
		}
		user, err := svc.UpdateUser(c.Request.Context(), claims, req.UpdateUserParams)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, user)
	}
}

// GetUser returns one user by username
func GetUser(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.GetUser(c.Request.Context(), c.Query("username"))
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, user)
	}
}

// QueryUsers returns a filtered page of users
func QueryUsers(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q models.UserQueryParams
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}

		page, err := svc.QueryUsers(c.Request.Context(), q)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, page)
	}
}

// CheckUser reports whether a tel, email or username is already taken
func CheckUser(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.CheckUserParams
		if err := c.ShouldBindQuery(&params); err != nil {
			badRequest(c, err)
			return
		}

		if err := svc.CheckUser(c.Request.Context(), params); err != nil {
			fail(c, err)
			return
		}
		ok[any](c, nil)
	}
}

// SendEmailCaptcha mails a verification code
func SendEmailCaptcha(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.EmailCaptchaRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}

		if err := svc.SendEmailCaptcha(c.Request.Context(), req); err != nil {
			fail(c, err)
			return
		}
		ok[any](c, nil)
	}
}

// SendSmsCaptcha texts a verification code
func SendSmsCaptcha(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SmsCaptchaRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}

		if err := svc.SendSmsCaptcha(c.Request.Context(), req); err != nil {
			fail(c, err)
			return
		}
		ok[any](c, nil)
	}
}

// CheckCaptcha validates a verification code without consuming it
func CheckCaptcha(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.CheckCaptchaParams
		if err := c.ShouldBindQuery(&params); err != nil {
			badRequest(c, err)
			return
		}

		if err := svc.CheckCaptcha(c.Request.Context(), params); err != nil {
			fail(c, err)
			return
		}
		ok[any](c, nil)
	}
}
