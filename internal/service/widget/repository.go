package widget

import (
	"context"
	"errors"
	"strings"
	"tablo-backend/internal/database"
	"tablo-backend/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var ErrNotFound = errors.New("widget repository: not found")

type Repository interface {
	GetTenant(ctx context.Context, tenantID string) (model.TenantItem, error)
	GetTenantBySlug(ctx context.Context, slug string) (model.TenantItem, error)
	UpdateTenantSettings(ctx context.Context, tenantID string, settings map[string]interface{}) (model.TenantItem, error)
	GetUser(ctx context.Context, tenantID, userID string) (model.UserItem, error)
	GetWidgetKey(ctx context.Context, widgetKey string) (model.WidgetKeyItem, error)
	ListWidgetKeysByTenant(ctx context.Context, tenantID string) ([]model.WidgetKeyItem, error)
	CreateWidgetKey(ctx context.Context, item model.WidgetKeyItem) error
	DeleteWidgetKey(ctx context.Context, widgetKey string) error
	TouchWidgetKey(ctx context.Context, widgetKey, lastUsedAt string) error
}

type DynamoRepository struct {
	db *database.Database
}

func NewDynamoRepository(db *database.Database) Repository {
	return &DynamoRepository{db: db}
}

func (r *DynamoRepository) GetTenant(ctx context.Context, tenantID string) (model.TenantItem, error) {
	var tenant model.TenantItem
	err := r.db.Client.GetItem(
		ctx,
		model.TenantsTable,
		map[string]types.AttributeValue{
			"tenantId": &types.AttributeValueMemberS{Value: tenantID},
		},
		&tenant,
	)
	if err != nil {
		if isNotFoundError(err) {
			return model.TenantItem{}, ErrNotFound
		}
		return model.TenantItem{}, err
	}
	return tenant, nil
}

func (r *DynamoRepository) GetTenantBySlug(ctx context.Context, slug string) (model.TenantItem, error) {
	items, err := r.db.Client.QueryItems(
		ctx,
		model.TenantsTable,
		aws.String("bySlug"),
		"slug = :slug",
		map[string]types.AttributeValue{
			":slug": &types.AttributeValueMemberS{Value: slug},
		},
		nil,
		nil,
	)
	if err != nil {
		return model.TenantItem{}, err
	}

	if len(items) == 0 {
		return model.TenantItem{}, ErrNotFound
	}

	var tenant model.TenantItem
	if err := attributevalue.UnmarshalMap(items[0], &tenant); err != nil {
		return model.TenantItem{}, err
	}

	return tenant, nil
}

func (r *DynamoRepository) UpdateTenantSettings(ctx context.Context, tenantID string, settings map[string]interface{}) (model.TenantItem, error) {
	settingsValue, err := attributevalue.Marshal(settings)
	if err != nil {
		return model.TenantItem{}, err
	}

	var updated model.TenantItem
	err = r.db.Client.UpdateItem(
		ctx,
		model.TenantsTable,
		map[string]types.AttributeValue{
			"tenantId": &types.AttributeValueMemberS{Value: tenantID},
		},
		"SET #settings = :settings",
		map[string]types.AttributeValue{
			":settings": settingsValue,
		},
		map[string]string{
			"#settings": "settings",
		},
		&updated,
	)
	if err != nil {
		return model.TenantItem{}, err
	}
	return updated, nil
}

func (r *DynamoRepository) GetUser(ctx context.Context, tenantID, userID string) (model.UserItem, error) {
	var user model.UserItem
	err := r.db.Client.GetItem(
		ctx,
		model.UsersTable,
		map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: model.TenantScopedPK(tenantID, userID)},
		},
		&user,
	)
	if err != nil {
		if isNotFoundError(err) {
			return model.UserItem{}, ErrNotFound
		}
		return model.UserItem{}, err
	}
	return user, nil
}

func (r *DynamoRepository) GetWidgetKey(ctx context.Context, widgetKey string) (model.WidgetKeyItem, error) {
	var item model.WidgetKeyItem
	err := r.db.Client.GetItem(
		ctx,
		model.WidgetKeysTable,
		map[string]types.AttributeValue{
			"widgetKey": &types.AttributeValueMemberS{Value: widgetKey},
		},
		&item,
	)
	if err != nil {
		if isNotFoundError(err) {
			return model.WidgetKeyItem{}, ErrNotFound
		}
		return model.WidgetKeyItem{}, err
	}
	return item, nil
}

func (r *DynamoRepository) ListWidgetKeysByTenant(ctx context.Context, tenantID string) ([]model.WidgetKeyItem, error) {
	items, err := r.db.Client.QueryItems(
		ctx,
		model.WidgetKeysTable,
		aws.String("byTenant"),
		"tenantId = :tenantId",
		map[string]types.AttributeValue{
			":tenantId": &types.AttributeValueMemberS{Value: tenantID},
		},
		nil,
		nil,
	)
	if err != nil {
		return nil, err
	}

	keys := make([]model.WidgetKeyItem, 0, len(items))
	for _, item := range items {
		var key model.WidgetKeyItem
		if err := attributevalue.UnmarshalMap(item, &key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, nil
}

func (r *DynamoRepository) CreateWidgetKey(ctx context.Context, item model.WidgetKeyItem) error {
	return r.db.Client.PutItem(ctx, model.WidgetKeysTable, item)
}

func (r *DynamoRepository) DeleteWidgetKey(ctx context.Context, widgetKey string) error {
	return r.db.Client.DeleteItem(
		ctx,
		model.WidgetKeysTable,
		map[string]types.AttributeValue{
			"widgetKey": &types.AttributeValueMemberS{Value: widgetKey},
		},
	)
}

func (r *DynamoRepository) TouchWidgetKey(ctx context.Context, widgetKey, lastUsedAt string) error {
	return r.db.Client.UpdateItem(
		ctx,
		model.WidgetKeysTable,
		map[string]types.AttributeValue{
			"widgetKey": &types.AttributeValueMemberS{Value: widgetKey},
		},
		"SET lastUsedAt = :lastUsedAt",
		map[string]types.AttributeValue{
			":lastUsedAt": &types.AttributeValueMemberS{Value: lastUsedAt},
		},
		nil,
		nil,
	)
}

func isNotFoundError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "item not found")
}
