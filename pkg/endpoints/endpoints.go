// Package endpoints holds the URL paths of the account server.
package endpoints

// UserEndpoints maps each user operation to its path.
type UserEndpoints struct {
	Login            string
	TelLogin         string
	Add              string
	Update           string
	Query            string
	QueryUsers       string
	CheckUser        string
	SendEmailCaptcha string
	SendSmsCaptcha   string
	CheckCaptcha     string
}

const userPrefix = "/api/user"

// User is the endpoint table served by pkg/api and called by pkg/cli/client.
var User = UserEndpoints{
	Login:            userPrefix + "/login",
	TelLogin:         userPrefix + "/tel-login",
	Add:              userPrefix + "/add",
	Update:           userPrefix + "/update",
	Query:            userPrefix + "/query",
	QueryUsers:       userPrefix + "/queryUsers",
	CheckUser:        userPrefix + "/checkUser",
	SendEmailCaptcha: userPrefix + "/sendEmailCaptcha",
	SendSmsCaptcha:   userPrefix + "/sendSmsCaptcha",
	CheckCaptcha:     userPrefix + "/checkCaptcha",
}

// Health is the liveness probe path.
const Health = "/health"
