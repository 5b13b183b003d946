package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/helpinghand-api/internal/domain"
)

// OTPRepo provides typed DynamoDB operations for the otps table.
// PK: otp_id; the phone-index GSI (phone HASH, created_at RANGE) serves all
// per-phone lookups. Records carry a TTL on expires_at, so DynamoDB sweeps
// consumed and abandoned codes without application-level garbage collection.
type OTPRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOTPRepo(client *dynamodb.Client, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName}
}

func (r *OTPRepo) Put(ctx context.Context, o *domain.OTPRecord) error {
	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// GetByPhone returns the most recent record for the phone.
func (r *OTPRepo) GetByPhone(ctx context.Context, phone domain.Phone) (*domain.OTPRecord, error) {
	return r.queryPhone(ctx, phone, "", "")
}

// GetByPhoneAndCode returns the most recent record for the phone whose code
// matches exactly.
func (r *OTPRepo) GetByPhoneAndCode(ctx context.Context, phone domain.Phone, code string) (*domain.OTPRecord, error) {
	return r.queryPhone(ctx, phone, "code", code)
}

// GetByPhoneAndToken returns the most recent record for the phone whose
// proof token matches exactly.
func (r *OTPRepo) GetByPhoneAndToken(ctx context.Context, phone domain.Phone, token string) (*domain.OTPRecord, error) {
	return r.queryPhone(ctx, phone, "token", token)
}

// SetToken writes the proof token onto an existing record.
func (r *OTPRepo) SetToken(ctx context.Context, otpID, token string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{"token": token})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("otp_id", otpID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// DeleteByPhone removes every record for the phone. The per-item deletes are
// not atomic with any subsequent insert; concurrent requests for the same
// phone race and the last writer wins.
func (r *OTPRepo) DeleteByPhone(ctx context.Context, phone domain.Phone) error {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("phone-index"),
		KeyConditionExpression: aws.String("phone = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: phone.Composite()},
		},
	})
	if err != nil {
		return err
	}
	for _, item := range out.Items {
		idAttr, ok := item["otp_id"].(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key:       strKey("otp_id", idAttr.Value),
		}); err != nil {
			return err
		}
	}
	return nil
}

func (r *OTPRepo) queryPhone(ctx context.Context, phone domain.Phone, filterAttr, filterValue string) (*domain.OTPRecord, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("phone-index"),
		KeyConditionExpression: aws.String("phone = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: phone.Composite()},
		},
		// newest first
		ScanIndexForward: aws.Bool(false),
	}
	if filterAttr != "" {
		input.FilterExpression = aws.String("#f = :f")
		input.ExpressionAttributeNames = map[string]string{"#f": filterAttr}
		input.ExpressionAttributeValues[":f"] = &types.AttributeValueMemberS{Value: filterValue}
	}
	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("otp record not found: %w", domain.ErrNotFound)
	}
	var o domain.OTPRecord
	if err := attributevalue.UnmarshalMap(out.Items[0], &o); err != nil {
		return nil, err
	}
	return &o, nil
}
