package jwt

import (
	"tablo-backend/internal/env"
)

var USER_SECRET string

const (
	RoleUser Role = iota
)

// RoleSecrets is populated from the environment in init; tests swap in
// their own secrets instead of touching the process environment.
var RoleSecrets = map[Role]string{}

func init() {
	USER_SECRET = env.Get(env.UserSecretKey)
	RoleSecrets[RoleUser] = USER_SECRET
}
