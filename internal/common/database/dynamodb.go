// internal/common/database/dynamodb.go
package database

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI is the part of the DynamoDB client the service uses.
type DynamoDBAPI interface {
	dynamodb.QueryAPIClient
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoDBClient wraps the DynamoDB client
type DynamoDBClient struct {
	api DynamoDBAPI
}

// NewDynamoDB creates a DynamoDB client from a resolved AWS config
func NewDynamoDB(cfg awssdk.Config) *DynamoDBClient {
	return &DynamoDBClient{api: dynamodb.NewFromConfig(cfg)}
}

// NewDynamoDBWithAPI wraps an existing API implementation, typically a test double
func NewDynamoDBWithAPI(api DynamoDBAPI) *DynamoDBClient {
	return &DynamoDBClient{api: api}
}

func (c *DynamoDBClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return c.api.Query(ctx, params, optFns...)
}

// Ping checks that every named table is reachable and active
func (c *DynamoDBClient) Ping(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		out, err := c.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: awssdk.String(table)})
		if err != nil {
			return fmt.Errorf("dynamodb describe %s failed: %w", table, err)
		}
		if out.Table != nil && out.Table.TableStatus != types.TableStatusActive {
			return fmt.Errorf("dynamodb table %s is %s", table, out.Table.TableStatus)
		}
	}
	return nil
}

// QueryEqual runs an index equality query and follows LastEvaluatedKey until
// the result set is exhausted.
func QueryEqual(ctx context.Context, client dynamodb.QueryAPIClient, table, index, attribute string, value types.AttributeValue) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:                 awssdk.String(table),
		IndexName:                 awssdk.String(index),
		KeyConditionExpression:    awssdk.String("#k = :v"),
		ExpressionAttributeNames:  map[string]string{"#k": attribute},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": value},
	}

	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewQueryPaginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}
