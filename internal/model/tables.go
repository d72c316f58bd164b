package model

import "fmt"

const (
	TenantsTable    = "Tenants"
	UsersTable      = "Users"
	WidgetKeysTable = "WidgetKeys"
)

type TenantItem struct {
	TenantID string                 `dynamodbav:"tenantId"`
	Slug     string                 `dynamodbav:"slug"`
	Name     string                 `dynamodbav:"name"`
	Plan     string                 `dynamodbav:"plan"`
	Settings map[string]interface{} `dynamodbav:"settings,omitempty"`
	Created  string                 `dynamodbav:"createdAt"`
}

type UserItem struct {
	PK        string `dynamodbav:"pk"`
	TenantID  string `dynamodbav:"tenantId"`
	UserID    string `dynamodbav:"userId"`
	Email     string `dynamodbav:"email"`
	Name      string `dynamodbav:"name"`
	Role      string `dynamodbav:"role"`
	Status    string `dynamodbav:"status"`
	CreatedAt string `dynamodbav:"createdAt"`
}

// WidgetKeyItem lets the public boot endpoint resolve a tenant from an
// opaque tablo_ key, so internal tenant ids never travel to host pages.
type WidgetKeyItem struct {
	WidgetKey  string `dynamodbav:"widgetKey"`
	TenantID   string `dynamodbav:"tenantId"`
	WidgetType string `dynamodbav:"widgetType"`
	KeyID      string `dynamodbav:"keyId"`
	CreatedAt  string `dynamodbav:"createdAt"`
	LastUsedAt string `dynamodbav:"lastUsedAt,omitempty"`
}

func TenantScopedPK(tenantID, entityID string) string {
	return fmt.Sprintf("%s#%s", tenantID, entityID)
}
