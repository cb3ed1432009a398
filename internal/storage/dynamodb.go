package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/guttosm/neopulse/internal/domain/models"
	"github.com/guttosm/neopulse/internal/logger"
)

const (
	hashKey       = "fetch_date"
	ttlAttribute  = "expiry_timestamp"
	tableCapacity = 5
)

// dynamoAPI is the subset of *dynamodb.Client the repository uses.
type dynamoAPI interface {
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTimeToLive(ctx context.Context, in *dynamodb.DescribeTimeToLiveInput, opts ...func(*dynamodb.Options)) (*dynamodb.DescribeTimeToLiveOutput, error)
	UpdateTimeToLive(ctx context.Context, in *dynamodb.UpdateTimeToLiveInput, opts ...func(*dynamodb.Options)) (*dynamodb.UpdateTimeToLiveOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoRepository implements AggregateRepository on DynamoDB.
type DynamoRepository struct {
	client      dynamoAPI
	table       string
	waitTimeout time.Duration
}

// NewDynamoRepository stores aggregates in a DynamoDB table hashed on fetch_date,
// with native TTL on expiry_timestamp. Pass dynamodb.NewFromConfig(awsCfg) in production.
func NewDynamoRepository(client dynamoAPI, table string) *DynamoRepository {
	return &DynamoRepository{client: client, table: table, waitTimeout: 2 * time.Minute}
}

// EnsureTable creates the table when DescribeTable reports it missing and waits
// for it to become ACTIVE. TTL on expiry_timestamp is checked on every call and
// enabled when off, so a table created without it (or a failed enable) is repaired
// by the next run. An existing table is never recreated.
func (r *DynamoRepository) EnsureTable(ctx context.Context) error {
	log := logger.Component("storage").With().Str("table", r.table).Logger()

	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.table)})
	var notFound *types.ResourceNotFoundException
	switch {
	case err == nil:
		log.Debug().Msg("table exists")
	case errors.As(err, &notFound):
		if err := r.createTable(ctx, log); err != nil {
			return err
		}
	default:
		return fmt.Errorf("describe table %s: %w", r.table, err)
	}

	return r.ensureTTL(ctx, log)
}

func (r *DynamoRepository) createTable(ctx context.Context, log zerolog.Logger) error {
	_, err := r.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(r.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(hashKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
		},
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(tableCapacity),
			WriteCapacityUnits: aws.Int64(tableCapacity),
		},
	})
	var inUse *types.ResourceInUseException
	switch {
	case errors.As(err, &inUse):
		// A concurrent run is creating it.
		log.Info().Msg("table creation already in progress")
	case err != nil:
		return fmt.Errorf("create table %s: %w", r.table, err)
	default:
		log.Info().Msg("table created")
	}

	waiter := dynamodb.NewTableExistsWaiter(r.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.table)}, r.waitTimeout); err != nil {
		return fmt.Errorf("wait for table %s: %w", r.table, err)
	}
	return nil
}

// ensureTTL enables TTL on expiry_timestamp unless it is already enabled or enabling.
func (r *DynamoRepository) ensureTTL(ctx context.Context, log zerolog.Logger) error {
	out, err := r.client.DescribeTimeToLive(ctx, &dynamodb.DescribeTimeToLiveInput{TableName: aws.String(r.table)})
	if err != nil {
		return fmt.Errorf("describe ttl on %s: %w", r.table, err)
	}
	if d := out.TimeToLiveDescription; d != nil && aws.ToString(d.AttributeName) == ttlAttribute &&
		(d.TimeToLiveStatus == types.TimeToLiveStatusEnabled || d.TimeToLiveStatus == types.TimeToLiveStatusEnabling) {
		return nil
	}

	_, err = r.client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(r.table),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: aws.String(ttlAttribute),
			Enabled:       aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("enable ttl on %s: %w", r.table, err)
	}
	log.Info().Str("ttl_attribute", ttlAttribute).Msg("ttl enabled")
	return nil
}

// PutAggregate replaces the whole item for agg.FetchDate.
func (r *DynamoRepository) PutAggregate(ctx context.Context, agg models.DailyAggregate) error {
	item, err := attributevalue.MarshalMap(agg)
	if err != nil {
		return fmt.Errorf("encode aggregate %s: %w", agg.FetchDate, err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", agg.FetchDate, err)
	}
	return nil
}

// GetAggregate reads with strong consistency. TTL deletion lags, so expired items are filtered here.
func (r *DynamoRepository) GetAggregate(ctx context.Context, fetchDate string, now time.Time) (*models.DailyAggregate, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            map[string]types.AttributeValue{hashKey: &types.AttributeValueMemberS{Value: fetchDate}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", fetchDate, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var agg models.DailyAggregate
	if err := attributevalue.UnmarshalMap(out.Item, &agg); err != nil {
		return nil, fmt.Errorf("decode aggregate %s: %w", fetchDate, err)
	}
	if agg.Expired(now) {
		return nil, nil
	}
	return &agg, nil
}

// Ping describes the table; a missing table counts as not ready.
func (r *DynamoRepository) Ping(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.table)})
	return err
}
