package adapter

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/dynamo"
	"github.com/aelexs/listshare-platform/internal/listmgmt/app"
)

// listDynamoDB is a narrow, consumer-defined interface for DynamoDB operations
// required by the list store. The *dynamodb.Client satisfies this interface.
type listDynamoDB interface {
	GetItem(ctx context.Context, params *dynamo.GetItemInput, optFns ...func(*dynamo.Options)) (*dynamo.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamo.PutItemInput, optFns ...func(*dynamo.Options)) (*dynamo.PutItemOutput, error)
	Query(ctx context.Context, params *dynamo.QueryInput, optFns ...func(*dynamo.Options)) (*dynamo.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamo.DeleteItemInput, optFns ...func(*dynamo.Options)) (*dynamo.DeleteItemOutput, error)
}

// listEntryItem is the DynamoDB shape of a list item entry.
type listEntryItem struct {
	ItemID       string `dynamodbav:"item_id"`
	Name         string `dynamodbav:"name"`
	ClaimedBy    string `dynamodbav:"claimed_by,omitempty"`
	Purchased    bool   `dynamodbav:"purchased"`
	LastModified string `dynamodbav:"last_modified"`
}

// listItem is the DynamoDB item shape for the lists table.
type listItem struct {
	ListID       string          `dynamodbav:"list_id"`
	OwnerID      string          `dynamodbav:"owner_id"`
	Name         string          `dynamodbav:"list_name"`
	Code         string          `dynamodbav:"code"`
	Members      []memberItem    `dynamodbav:"members"`
	Items        []listEntryItem `dynamodbav:"items"`
	Created      string          `dynamodbav:"created"`
	LastModified string          `dynamodbav:"last_modified"`
	Version      int64           `dynamodbav:"version"`
}

// ListStore persists list aggregate records in DynamoDB. It satisfies
// app.ListStore.
type ListStore struct {
	db        listDynamoDB
	tableName string
	indexName string
}

// NewListStore creates a ListStore backed by the given DynamoDB client.
func NewListStore(db listDynamoDB, tableName string) *ListStore {
	return &ListStore{
		db:        db,
		tableName: tableName,
		indexName: "code-index",
	}
}

// GetByID retrieves a list record by list ID using a strongly consistent read.
// Returns domain.ErrNotFound when no list exists for the given ID.
func (s *ListStore) GetByID(ctx context.Context, listID string) (*app.ListRecord, error) {
	out, err := s.db.GetItem(ctx, &dynamo.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]dynamo.AttributeValue{
			"list_id": &dynamo.AttributeValueMemberS{Value: listID},
		},
		ConsistentRead: dynamo.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("list store: get by id: %w", err)
	}

	if out.Item == nil {
		return nil, fmt.Errorf("list store: get by id: %w", domain.ErrNotFound)
	}

	var item listItem
	if err := dynamo.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("list store: unmarshal list: %w", err)
	}

	return listRecordFromItem(item), nil
}

// FindByCode looks up a list by share code via the code-index GSI, then
// fetches the full record with a consistent GetItem read. Returns
// domain.ErrNotFound when no list carries the given code.
func (s *ListStore) FindByCode(ctx context.Context, code string) (*app.ListRecord, error) {
	keyExpr := "code = :code"

	queryOut, err := s.db.Query(ctx, &dynamo.QueryInput{
		TableName:              &s.tableName,
		IndexName:              &s.indexName,
		KeyConditionExpression: &keyExpr,
		ExpressionAttributeValues: map[string]dynamo.AttributeValue{
			":code": &dynamo.AttributeValueMemberS{Value: code},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("list store: find by code query: %w", err)
	}

	if len(queryOut.Items) == 0 {
		return nil, fmt.Errorf("list store: find by code: %w", domain.ErrNotFound)
	}

	// Extract list_id from the GSI projection.
	var projected struct {
		ListID string `dynamodbav:"list_id"`
	}
	if err := dynamo.UnmarshalMap(queryOut.Items[0], &projected); err != nil {
		return nil, fmt.Errorf("list store: unmarshal gsi projection: %w", err)
	}

	// Honour cancellation between the two read steps.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list store: find by code: %w", err)
	}

	return s.GetByID(ctx, projected.ListID)
}

// Save writes the list record as a whole item, guarded by its version
// counter, with the same contract as UserStore.Save.
func (s *ListStore) Save(ctx context.Context, list *app.ListRecord) error {
	item, err := dynamo.MarshalMap(listItemFromRecord(list))
	if err != nil {
		return fmt.Errorf("list store: marshal list: %w", err)
	}

	condition := "attribute_not_exists(list_id) OR version = :expected"
	_, err = s.db.PutItem(ctx, &dynamo.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: &condition,
		ExpressionAttributeValues: map[string]dynamo.AttributeValue{
			":expected": &dynamo.AttributeValueMemberN{Value: strconv.FormatInt(list.Version, 10)},
		},
	})
	if err != nil {
		if dynamo.IsConditionalCheckFailed(err) {
			return fmt.Errorf("list store: save: %w", domain.ErrVersionConflict)
		}
		return fmt.Errorf("list store: save: %w", err)
	}

	list.Version++
	return nil
}

// Delete removes the list record and returns it as it was before removal.
// Returns domain.ErrNotFound when no list exists for the given ID.
func (s *ListStore) Delete(ctx context.Context, listID string) (*app.ListRecord, error) {
	out, err := s.db.DeleteItem(ctx, &dynamo.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]dynamo.AttributeValue{
			"list_id": &dynamo.AttributeValueMemberS{Value: listID},
		},
		ReturnValues: dynamo.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("list store: delete: %w", err)
	}

	if len(out.Attributes) == 0 {
		return nil, fmt.Errorf("list store: delete: %w", domain.ErrNotFound)
	}

	var item listItem
	if err := dynamo.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, fmt.Errorf("list store: unmarshal deleted list: %w", err)
	}

	return listRecordFromItem(item), nil
}

func listItemFromRecord(list *app.ListRecord) listItem {
	items := make([]listEntryItem, len(list.Items))
	for i, it := range list.Items {
		items[i] = listEntryItem{
			ItemID:       it.ItemID,
			Name:         it.Name,
			ClaimedBy:    it.ClaimedBy,
			Purchased:    it.Purchased,
			LastModified: it.LastModified,
		}
	}
	return listItem{
		ListID:       list.ListID,
		OwnerID:      list.OwnerID,
		Name:         list.Name,
		Code:         list.Code,
		Members:      memberItemsFromRecords(list.Members),
		Items:        items,
		Created:      list.Created,
		LastModified: list.LastModified,
		Version:      list.Version + 1,
	}
}

func listRecordFromItem(item listItem) *app.ListRecord {
	items := make([]app.Item, len(item.Items))
	for i, it := range item.Items {
		items[i] = app.Item{
			ItemID:       it.ItemID,
			Name:         it.Name,
			ClaimedBy:    it.ClaimedBy,
			Purchased:    it.Purchased,
			LastModified: it.LastModified,
		}
	}
	return &app.ListRecord{
		ListID:       item.ListID,
		OwnerID:      item.OwnerID,
		Name:         item.Name,
		Code:         item.Code,
		Members:      memberRecordsFromItems(item.Members),
		Items:        items,
		Created:      item.Created,
		LastModified: item.LastModified,
		Version:      item.Version,
	}
}
