package jwt

type Role int

type User struct {
	Id       string `json:"id"`
	TenantID string `json:"tenantId"`
	Email    string `json:"email"`
}
