package repository

import (
	"context"
	"errors"
	"time"

	"careconnect/internal/domain/entities"
	"careconnect/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	DefaultBookingsTableName       = "bookings"
	bookingsFamilyIndex            = "family_id-index"
	bookingsCaregiverIndex         = "caregiver_id-index"
	bookingsPaymentStatusDateIndex = "payment_status-end_date-index"
)

type bookingItem struct {
	ID                     string `dynamodbav:"id"`
	FamilyID               string `dynamodbav:"family_id"`
	CaregiverID            string `dynamodbav:"caregiver_id"`
	JobID                  string `dynamodbav:"job_id,omitempty"`
	StartDate              string `dynamodbav:"start_date"`
	EndDate                string `dynamodbav:"end_date"`
	HoursPerDay            int    `dynamodbav:"hours_per_day"`
	RatePerHour            string `dynamodbav:"rate_per_hour"`
	TotalAmount            string `dynamodbav:"total_amount"`
	ServiceFee             string `dynamodbav:"service_fee"`
	CaregiverAmount        string `dynamodbav:"caregiver_amount"`
	Status                 string `dynamodbav:"status"`
	PaymentStatus          string `dynamodbav:"payment_status"`
	CheckoutSessionID      string `dynamodbav:"checkout_session_id,omitempty"`
	PaymentIntentID        string `dynamodbav:"payment_intent_id,omitempty"`
	TransferID             string `dynamodbav:"transfer_id,omitempty"`
	PersonalDetailsVisible bool   `dynamodbav:"personal_details_visible"`
	Version                int64  `dynamodbav:"version"`
	CreatedAt              string `dynamodbav:"created_at"`
	UpdatedAt              string `dynamodbav:"updated_at"`
	CompletedAt            string `dynamodbav:"completed_at,omitempty"`
	ReleasedAt             string `dynamodbav:"released_at,omitempty"`
}

// BookingDynamoRepository persists Booking entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: family_id-index (PK: family_id)
//   - GSI: caregiver_id-index (PK: caregiver_id)
//   - GSI: payment_status-end_date-index (PK: payment_status, SK: end_date)
//
// Writes replace the whole item under a condition on the stored version.

type BookingDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IBookingRepository = (*BookingDynamoRepository)(nil)

func NewBookingDynamoRepository(ddb *dynamodb.Client, tableName string) *BookingDynamoRepository {
	if tableName == "" {
		tableName = DefaultBookingsTableName
	}
	return &BookingDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *BookingDynamoRepository) Create(ctx context.Context, b entities.Booking) (entities.Booking, error) {
	av, err := attributevalue.MarshalMap(toBookingItem(b))
	if err != nil {
		return entities.Booking{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Booking{}, err
	}
	return b, nil
}

func (r *BookingDynamoRepository) GetByID(ctx context.Context, id string) (entities.Booking, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Booking{}, err
	}
	if len(out.Item) == 0 {
		return entities.Booking{}, nil
	}

	var it bookingItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Booking{}, err
	}
	return fromBookingItem(it), nil
}

func (r *BookingDynamoRepository) Update(ctx context.Context, b entities.Booking, expectedVersion int64) error {
	av, err := attributevalue.MarshalMap(toBookingItem(b))
	if err != nil {
		return err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id) AND #version = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#version": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: formatInt(expectedVersion)},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return interfaces.ErrVersionConflict
		}
		return err
	}
	return nil
}

func (r *BookingDynamoRepository) ListByParty(ctx context.Context, caller entities.Caller) ([]entities.Booking, error) {
	index, key := bookingsFamilyIndex, "family_id"
	if caller.Role == entities.RoleCaregiver {
		index, key = bookingsCaregiverIndex, "caregiver_id"
	}
	return r.query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#k = :v"),
		ExpressionAttributeNames: map[string]string{
			"#k": key,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: caller.ID},
		},
	})
}

func (r *BookingDynamoRepository) ListReleasable(ctx context.Context, endDateCutoff time.Time) ([]entities.Booking, error) {
	return r.query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(bookingsPaymentStatusDateIndex),
		KeyConditionExpression: aws.String("#ps = :ps AND #end <= :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#ps":  "payment_status",
			"#end": "end_date",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ps":     &types.AttributeValueMemberS{Value: string(entities.PaymentStatusPaidUnreleased)},
			":cutoff": &types.AttributeValueMemberS{Value: formatTime(endDateCutoff)},
		},
	})
}

func (r *BookingDynamoRepository) query(ctx context.Context, in *dynamodb.QueryInput) ([]entities.Booking, error) {
	items := make([]entities.Booking, 0)
	p := dynamodb.NewQueryPaginator(r.ddb, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			var it bookingItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, fromBookingItem(it))
		}
	}
	return items, nil
}

func toBookingItem(b entities.Booking) bookingItem {
	return bookingItem{
		ID:                     b.ID,
		FamilyID:               b.FamilyID,
		CaregiverID:            b.CaregiverID,
		JobID:                  b.JobID,
		StartDate:              formatTime(b.StartDate),
		EndDate:                formatTime(b.EndDate),
		HoursPerDay:            b.HoursPerDay,
		RatePerHour:            b.RatePerHour.String(),
		TotalAmount:            b.TotalAmount.StringFixed(2),
		ServiceFee:             b.ServiceFee.StringFixed(2),
		CaregiverAmount:        b.CaregiverAmount.StringFixed(2),
		Status:                 string(b.Status),
		PaymentStatus:          string(b.PaymentStatus),
		CheckoutSessionID:      b.CheckoutSessionID,
		PaymentIntentID:        b.PaymentIntentID,
		TransferID:             b.TransferID,
		PersonalDetailsVisible: b.PersonalDetailsVisible,
		Version:                b.Version,
		CreatedAt:              b.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:              b.UpdatedAt.UTC().Format(time.RFC3339Nano),
		CompletedAt:            formatOptionalTime(b.CompletedAt),
		ReleasedAt:             formatOptionalTime(b.ReleasedAt),
	}
}

func fromBookingItem(it bookingItem) entities.Booking {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	return entities.Booking{
		ID:                     it.ID,
		FamilyID:               it.FamilyID,
		CaregiverID:            it.CaregiverID,
		JobID:                  it.JobID,
		StartDate:              parseTime(it.StartDate),
		EndDate:                parseTime(it.EndDate),
		HoursPerDay:            it.HoursPerDay,
		RatePerHour:            parseDecimal(it.RatePerHour),
		TotalAmount:            parseDecimal(it.TotalAmount),
		ServiceFee:             parseDecimal(it.ServiceFee),
		CaregiverAmount:        parseDecimal(it.CaregiverAmount),
		Status:                 entities.BookingStatus(it.Status),
		PaymentStatus:          entities.PaymentStatus(it.PaymentStatus),
		CheckoutSessionID:      it.CheckoutSessionID,
		PaymentIntentID:        it.PaymentIntentID,
		TransferID:             it.TransferID,
		PersonalDetailsVisible: it.PersonalDetailsVisible,
		Version:                it.Version,
		CreatedAt:              createdAt.UTC(),
		UpdatedAt:              updatedAt.UTC(),
		CompletedAt:            parseOptionalTime(it.CompletedAt),
		ReleasedAt:             parseOptionalTime(it.ReleasedAt),
	}
}
