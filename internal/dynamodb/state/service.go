package state

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"philcali.me/fridgesnap/internal/data"
)

const Name = "State"

type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type StateDTO struct {
	PK         string     `dynamodbav:"PK"`
	SK         string     `dynamodbav:"SK"`
	State      data.State `dynamodbav:"state"`
	UpdateTime time.Time  `dynamodbav:"updateTime"`
}

// StateDynamoDBService persists one user's client state as a single item.
type StateDynamoDBService struct {
	DynamoDB  DynamoDBAPI
	TableName string
	AccountId string
}

func NewStateService(tableName string, client DynamoDBAPI, accountId string) *StateDynamoDBService {
	return &StateDynamoDBService{
		DynamoDB:  client,
		TableName: tableName,
		AccountId: accountId,
	}
}

func _getPrimaryKey(accountId string, name string) string {
	return fmt.Sprintf("%s:%s", accountId, name)
}

func (ss *StateDynamoDBService) _getKey() (map[string]types.AttributeValue, error) {
	pk, err := attributevalue.Marshal(_getPrimaryKey(ss.AccountId, Name))
	if err != nil {
		return nil, err
	}
	sk, err := attributevalue.Marshal(data.StorageKey)
	if err != nil {
		return nil, err
	}
	return map[string]types.AttributeValue{"PK": pk, "SK": sk}, nil
}

func (ss *StateDynamoDBService) Load(ctx context.Context) (data.State, error) {
	key, err := ss._getKey()
	if err != nil {
		return data.NewState(), err
	}
	projection := expression.NamesList(expression.Name("state"))
	expr, err := expression.NewBuilder().WithProjection(projection).Build()
	if err != nil {
		return data.NewState(), err
	}
	response, err := ss.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(ss.TableName),
		Key:                      key,
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		return data.NewState(), err
	}
	if response.Item == nil {
		return data.NewState(), nil
	}
	var dto StateDTO
	if err := attributevalue.UnmarshalMap(response.Item, &dto); err != nil {
		return data.NewState(), err
	}
	return dto.State.Normalize(), nil
}

func (ss *StateDynamoDBService) Save(ctx context.Context, state data.State) error {
	item, err := attributevalue.MarshalMap(StateDTO{
		PK:         _getPrimaryKey(ss.AccountId, Name),
		SK:         data.StorageKey,
		State:      state,
		UpdateTime: time.Now(),
	})
	if err != nil {
		return err
	}
	_, err = ss.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(ss.TableName),
		Item:      item,
	})
	return err
}
