package database

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamoDB struct {
	QueryFunc         func(ctx context.Context, in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
	DescribeTableFunc func(ctx context.Context, in *dynamodb.DescribeTableInput) (*dynamodb.DescribeTableOutput, error)
}

func (f *fakeDynamoDB) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return f.QueryFunc(ctx, in)
}

func (f *fakeDynamoDB) DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return f.DescribeTableFunc(ctx, in)
}

func item(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"AID": &types.AttributeValueMemberS{Value: id}}
}

func TestQueryEqual_FollowsPages(t *testing.T) {
	calls := 0
	fake := &fakeDynamoDB{
		QueryFunc: func(_ context.Context, in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			calls++
			assert.Equal(t, "Approvals", *in.TableName)
			assert.Equal(t, "ApprovalStatus-ApprovalApproved-index", *in.IndexName)
			assert.Equal(t, "ApprovalStatus", in.ExpressionAttributeNames["#k"])
			assert.Equal(t, &types.AttributeValueMemberS{Value: "Approved"}, in.ExpressionAttributeValues[":v"])

			if in.ExclusiveStartKey == nil {
				return &dynamodb.QueryOutput{
					Items:            []map[string]types.AttributeValue{item("a1"), item("a2")},
					LastEvaluatedKey: item("a2"),
				}, nil
			}
			return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item("a3")}}, nil
		},
	}

	items, err := QueryEqual(context.Background(), NewDynamoDBWithAPI(fake),
		"Approvals", "ApprovalStatus-ApprovalApproved-index", "ApprovalStatus",
		&types.AttributeValueMemberS{Value: "Approved"})
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 2, calls)
}

func TestQueryEqual_Error(t *testing.T) {
	fake := &fakeDynamoDB{
		QueryFunc: func(context.Context, *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			return nil, errors.New("AccessDeniedException")
		},
	}
	_, err := QueryEqual(context.Background(), fake, "Accounts", "UID-index", "UID",
		&types.AttributeValueMemberS{Value: "u-1"})
	assert.Error(t, err)
}

func TestDynamoDBClient_Ping(t *testing.T) {
	status := map[string]types.TableStatus{
		"Approvals": types.TableStatusActive,
		"Accounts":  types.TableStatusUpdating,
	}
	fake := &fakeDynamoDB{
		DescribeTableFunc: func(_ context.Context, in *dynamodb.DescribeTableInput) (*dynamodb.DescribeTableOutput, error) {
			s, ok := status[awssdk.ToString(in.TableName)]
			if !ok {
				return nil, errors.New("ResourceNotFoundException")
			}
			return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableStatus: s}}, nil
		},
	}
	c := NewDynamoDBWithAPI(fake)
	ctx := context.Background()

	assert.NoError(t, c.Ping(ctx, "Approvals"))
	assert.ErrorContains(t, c.Ping(ctx, "Approvals", "Accounts"), "UPDATING")
	assert.ErrorContains(t, c.Ping(ctx, "Missing"), "ResourceNotFoundException")
}
