package adapter

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/dynamo"
	"github.com/aelexs/listshare-platform/internal/listmgmt/app"
)

// userDynamoDB is a narrow, consumer-defined interface for DynamoDB operations
// required by the user store. The *dynamodb.Client satisfies this interface.
type userDynamoDB interface {
	GetItem(ctx context.Context, params *dynamo.GetItemInput, optFns ...func(*dynamo.Options)) (*dynamo.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamo.PutItemInput, optFns ...func(*dynamo.Options)) (*dynamo.PutItemOutput, error)
	Query(ctx context.Context, params *dynamo.QueryInput, optFns ...func(*dynamo.Options)) (*dynamo.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamo.DeleteItemInput, optFns ...func(*dynamo.Options)) (*dynamo.DeleteItemOutput, error)
}

// memberItem is the DynamoDB shape of a denormalized member identity.
type memberItem struct {
	UserID     string `dynamodbav:"user_id"`
	ScreenName string `dynamodbav:"screen_name"`
}

// membershipItem is the DynamoDB shape of a cached membership reference.
type membershipItem struct {
	ListID       string       `dynamodbav:"list_id"`
	ListName     string       `dynamodbav:"list_name"`
	Owned        bool         `dynamodbav:"owned"`
	Members      []memberItem `dynamodbav:"members"`
	LastModified string       `dynamodbav:"last_modified"`
}

// userItem is the DynamoDB item shape for the users table.
type userItem struct {
	UserID       string           `dynamodbav:"user_id"`
	Email        string           `dynamodbav:"email,omitempty"`
	PasswordHash string           `dynamodbav:"password_hash,omitempty"`
	ScreenName   string           `dynamodbav:"screen_name"`
	Lists        []membershipItem `dynamodbav:"lists"`
	JoinDate     string           `dynamodbav:"join_date"`
	Version      int64            `dynamodbav:"version"`
}

// UserStore persists user account records in DynamoDB. It satisfies
// app.UserStore.
type UserStore struct {
	db        userDynamoDB
	tableName string
	indexName string
}

// NewUserStore creates a UserStore backed by the given DynamoDB client.
func NewUserStore(db userDynamoDB, tableName string) *UserStore {
	return &UserStore{
		db:        db,
		tableName: tableName,
		indexName: "email-index",
	}
}

// GetByID retrieves a user record by user ID using a strongly consistent read.
// Returns domain.ErrNotFound when no user exists for the given ID.
func (s *UserStore) GetByID(ctx context.Context, userID string) (*app.UserRecord, error) {
	out, err := s.db.GetItem(ctx, &dynamo.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]dynamo.AttributeValue{
			"user_id": &dynamo.AttributeValueMemberS{Value: userID},
		},
		ConsistentRead: dynamo.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("user store: get by id: %w", err)
	}

	if out.Item == nil {
		return nil, fmt.Errorf("user store: get by id: %w", domain.ErrNotFound)
	}

	var item userItem
	if err := dynamo.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("user store: unmarshal user: %w", err)
	}

	return userRecordFromItem(item), nil
}

// FindByEmail looks up a user by email via the email-index GSI, then
// fetches the full record with a consistent GetItem read. Returns
// domain.ErrNotFound when no user exists for the given email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*app.UserRecord, error) {
	keyExpr := "email = :email"

	queryOut, err := s.db.Query(ctx, &dynamo.QueryInput{
		TableName:              &s.tableName,
		IndexName:              &s.indexName,
		KeyConditionExpression: &keyExpr,
		ExpressionAttributeValues: map[string]dynamo.AttributeValue{
			":email": &dynamo.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("user store: find by email query: %w", err)
	}

	if len(queryOut.Items) == 0 {
		return nil, fmt.Errorf("user store: find by email: %w", domain.ErrNotFound)
	}

	// Extract user_id from the GSI projection.
	var projected struct {
		UserID string `dynamodbav:"user_id"`
	}
	if err := dynamo.UnmarshalMap(queryOut.Items[0], &projected); err != nil {
		return nil, fmt.Errorf("user store: unmarshal gsi projection: %w", err)
	}

	// Honour cancellation between the two read steps.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("user store: find by email: %w", err)
	}

	return s.GetByID(ctx, projected.UserID)
}

// Save writes the user record as a whole item, guarded by its version
// counter. A new record (version 0) requires the item not to exist; an
// overwrite requires the stored version to match. On success the record's
// version counter is advanced to the stored value. A lost update surfaces
// as domain.ErrVersionConflict.
func (s *UserStore) Save(ctx context.Context, user *app.UserRecord) error {
	item, err := dynamo.MarshalMap(userItemFromRecord(user))
	if err != nil {
		return fmt.Errorf("user store: marshal user: %w", err)
	}

	condition := "attribute_not_exists(user_id) OR version = :expected"
	_, err = s.db.PutItem(ctx, &dynamo.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: &condition,
		ExpressionAttributeValues: map[string]dynamo.AttributeValue{
			":expected": &dynamo.AttributeValueMemberN{Value: strconv.FormatInt(user.Version, 10)},
		},
	})
	if err != nil {
		if dynamo.IsConditionalCheckFailed(err) {
			return fmt.Errorf("user store: save: %w", domain.ErrVersionConflict)
		}
		return fmt.Errorf("user store: save: %w", err)
	}

	user.Version++
	return nil
}

// Delete removes the user record and returns it as it was before removal.
// Returns domain.ErrNotFound when no user exists for the given ID.
func (s *UserStore) Delete(ctx context.Context, userID string) (*app.UserRecord, error) {
	out, err := s.db.DeleteItem(ctx, &dynamo.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]dynamo.AttributeValue{
			"user_id": &dynamo.AttributeValueMemberS{Value: userID},
		},
		ReturnValues: dynamo.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("user store: delete: %w", err)
	}

	if len(out.Attributes) == 0 {
		return nil, fmt.Errorf("user store: delete: %w", domain.ErrNotFound)
	}

	var item userItem
	if err := dynamo.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, fmt.Errorf("user store: unmarshal deleted user: %w", err)
	}

	return userRecordFromItem(item), nil
}

// userItemFromRecord converts the app record to the stored shape with the
// version counter already advanced.
func userItemFromRecord(user *app.UserRecord) userItem {
	lists := make([]membershipItem, len(user.Lists))
	for i, ref := range user.Lists {
		lists[i] = membershipItem{
			ListID:       ref.ListID,
			ListName:     ref.ListName,
			Owned:        ref.Owned,
			Members:      memberItemsFromRecords(ref.Members),
			LastModified: ref.LastModified,
		}
	}
	return userItem{
		UserID:       user.UserID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		ScreenName:   user.ScreenName,
		Lists:        lists,
		JoinDate:     user.JoinDate,
		Version:      user.Version + 1,
	}
}

func userRecordFromItem(item userItem) *app.UserRecord {
	lists := make([]app.MembershipRef, len(item.Lists))
	for i, ref := range item.Lists {
		lists[i] = app.MembershipRef{
			ListID:       ref.ListID,
			ListName:     ref.ListName,
			Owned:        ref.Owned,
			Members:      memberRecordsFromItems(ref.Members),
			LastModified: ref.LastModified,
		}
	}
	return &app.UserRecord{
		UserID:       item.UserID,
		Email:        item.Email,
		PasswordHash: item.PasswordHash,
		ScreenName:   item.ScreenName,
		Lists:        lists,
		JoinDate:     item.JoinDate,
		Version:      item.Version,
	}
}

func memberItemsFromRecords(members []app.ShortMember) []memberItem {
	out := make([]memberItem, len(members))
	for i, m := range members {
		out[i] = memberItem{UserID: m.UserID, ScreenName: m.ScreenName}
	}
	return out
}

func memberRecordsFromItems(items []memberItem) []app.ShortMember {
	out := make([]app.ShortMember, len(items))
	for i, m := range items {
		out[i] = app.ShortMember{UserID: m.UserID, ScreenName: m.ScreenName}
	}
	return out
}
