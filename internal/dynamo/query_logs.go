// Package dynamo stores the query log in a DynamoDB table keyed by search_query,
// with a global secondary index on search_count for analytics.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"helpdeskbot/internal/models"
	"helpdeskbot/internal/querylog"
)

const keyAttr = "search_query"

// API is the subset of the DynamoDB client used by QueryLogs.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// QueryLogs is a DynamoDB-backed query log store.
type QueryLogs struct {
	client API
	table  string
	index  string
}

// NewQueryLogs creates a store for table. index names the search_count GSI;
// when empty, Top scans the base table.
func NewQueryLogs(client API, table, index string) *QueryLogs {
	return &QueryLogs{client: client, table: table, index: index}
}

// record is the item layout in the table.
type record struct {
	SearchQuery  string    `dynamodbav:"search_query"`
	SearchCount  int64     `dynamodbav:"search_count"`
	CreatedOn    time.Time `dynamodbav:"created_on"`
	LastSearched time.Time `dynamodbav:"last_searched"`
	UserIDs      []string  `dynamodbav:"user_ids"`
	Utterances   []string  `dynamodbav:"utterances"`
}

func (r record) toModel() models.QueryLogItem {
	return models.QueryLogItem{
		SearchQuery:  r.SearchQuery,
		SearchCount:  r.SearchCount,
		CreatedOn:    r.CreatedOn,
		LastSearched: r.LastSearched,
		UserIDs:      r.UserIDs,
		Utterances:   r.Utterances,
	}
}

func key(query string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyAttr: &types.AttributeValueMemberS{Value: query},
	}
}

// Get reads the item with a strongly consistent read.
func (q *QueryLogs) Get(ctx context.Context, query string) (*models.QueryLogItem, error) {
	out, err := q.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(q.table),
		Key:            key(query),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, querylog.ErrQueryLogNotFound
	}

	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	item := rec.toModel()
	return &item, nil
}

// Create puts the item only if no item with the same key exists.
func (q *QueryLogs) Create(ctx context.Context, item *models.QueryLogItem) error {
	rec := record{
		SearchQuery:  item.SearchQuery,
		SearchCount:  item.SearchCount,
		CreatedOn:    item.CreatedOn,
		LastSearched: item.LastSearched,
		UserIDs:      nonNil(item.UserIDs),
		Utterances:   nonNil(item.Utterances),
	}
	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}

	cond, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(keyAttr))).
		Build()
	if err != nil {
		return fmt.Errorf("build condition: %w", err)
	}

	_, err = q.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(q.table),
		Item:                     av,
		ConditionExpression:      cond.Condition(),
		ExpressionAttributeNames: cond.Names(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return querylog.ErrDuplicateQuery
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// updateExpression builds the single UpdateItem expression for upd.
func updateExpression(upd models.QueryLogUpdate) (expression.Expression, error) {
	update := expression.
		Add(expression.Name("search_count"), expression.Value(1)).
		Set(expression.Name("last_searched"), expression.Value(upd.SearchedAt))
	if upd.AppendUserID {
		update = update.Set(expression.Name("user_ids"),
			expression.ListAppend(expression.Name("user_ids"), expression.Value([]string{upd.UserID})))
	}
	if upd.AppendUtterance {
		update = update.Set(expression.Name("utterances"),
			expression.ListAppend(expression.Name("utterances"), expression.Value([]string{upd.Utterance})))
	}

	return expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name(keyAttr))).
		Build()
}

// Update applies upd atomically; the item must already exist.
func (q *QueryLogs) Update(ctx context.Context, query string, upd models.QueryLogUpdate) error {
	expr, err := updateExpression(upd)
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	_, err = q.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(q.table),
		Key:                       key(query),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return querylog.ErrQueryLogNotFound
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Top scans the search_count index and returns the most searched items.
// The index is hash-keyed on the count, so ordering happens client side.
func (q *QueryLogs) Top(ctx context.Context, limit int) ([]models.QueryLogItem, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(q.table)}
	if q.index != "" {
		input.IndexName = aws.String(q.index)
	}

	items := make([]models.QueryLogItem, 0)
	paginator := dynamodb.NewScanPaginator(q.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var recs []record
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &recs); err != nil {
			return nil, fmt.Errorf("unmarshal page: %w", err)
		}
		for _, r := range recs {
			items = append(items, r.toModel())
		}
	}

	slices.SortFunc(items, func(a, b models.QueryLogItem) int {
		if a.SearchCount != b.SearchCount {
			if a.SearchCount > b.SearchCount {
				return -1
			}
			return 1
		}
		return strings.Compare(a.SearchQuery, b.SearchQuery)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
