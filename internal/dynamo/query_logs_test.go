package dynamo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"helpdeskbot/internal/models"
	"helpdeskbot/internal/querylog"
)

// fakeAPI keeps items in memory and records the last update request.
type fakeAPI struct {
	items      map[string]map[string]types.AttributeValue
	lastUpdate *dynamodb.UpdateItemInput
	lastPut    *dynamodb.PutItemInput
	lastScan   *dynamodb.ScanInput
	err        error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{items: make(map[string]map[string]types.AttributeValue)}
}

func keyOf(k map[string]types.AttributeValue) string {
	return k[keyAttr].(*types.AttributeValueMemberS).Value
}

func (f *fakeAPI) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[keyOf(in.Key)]}, nil
}

func (f *fakeAPI) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPut = in
	if f.err != nil {
		return nil, f.err
	}
	k := keyOf(in.Item)
	if _, ok := f.items[k]; ok {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")}
	}
	f.items[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.lastUpdate = in
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.items[keyOf(in.Key)]; !ok {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("missing")}
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeAPI) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.lastScan = in
	if f.err != nil {
		return nil, f.err
	}
	out := &dynamodb.ScanOutput{}
	for _, item := range f.items {
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func TestQueryLogs_CreateGet(t *testing.T) {
	api := newFakeAPI()
	store := NewQueryLogs(api, "queries", "queries-index")
	ctx := context.Background()
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	if _, err := store.Get(ctx, "ec2"); !errors.Is(err, querylog.ErrQueryLogNotFound) {
		t.Fatalf("Get() error = %v, want ErrQueryLogNotFound", err)
	}

	item := &models.QueryLogItem{SearchQuery: "ec2", SearchCount: 1, CreatedOn: now, LastSearched: now, UserIDs: []string{"u1"}}
	if err := store.Create(ctx, item); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got := aws.ToString(api.lastPut.ConditionExpression); !strings.Contains(got, "attribute_not_exists") {
		t.Errorf("ConditionExpression = %q, want attribute_not_exists", got)
	}
	if _, ok := api.lastPut.Item["utterances"].(*types.AttributeValueMemberL); !ok {
		t.Errorf("utterances stored as %T, want list", api.lastPut.Item["utterances"])
	}

	got, err := store.Get(ctx, "ec2")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.SearchCount != 1 || !got.CreatedOn.Equal(now) || len(got.UserIDs) != 1 || got.UserIDs[0] != "u1" {
		t.Errorf("Get() = %+v", got)
	}

	if err := store.Create(ctx, item); !errors.Is(err, querylog.ErrDuplicateQuery) {
		t.Errorf("second Create() error = %v, want ErrDuplicateQuery", err)
	}
}

func TestQueryLogs_Update(t *testing.T) {
	api := newFakeAPI()
	store := NewQueryLogs(api, "queries", "")
	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.Update(ctx, "ec2", models.QueryLogUpdate{SearchedAt: now}); !errors.Is(err, querylog.ErrQueryLogNotFound) {
		t.Fatalf("Update(missing) error = %v, want ErrQueryLogNotFound", err)
	}

	if err := store.Create(ctx, &models.QueryLogItem{SearchQuery: "ec2", SearchCount: 1, CreatedOn: now, LastSearched: now}); err != nil {
		t.Fatal(err)
	}
	if err := store.Update(ctx, "ec2", models.QueryLogUpdate{SearchedAt: now, UserID: "u2", AppendUserID: true}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	expr := aws.ToString(api.lastUpdate.UpdateExpression)
	if !strings.Contains(expr, "ADD") || !strings.Contains(expr, "list_append") {
		t.Errorf("UpdateExpression = %q, want ADD and list_append", expr)
	}
	if strings.Count(expr, "list_append") != 1 {
		t.Errorf("UpdateExpression = %q, want a single list_append", expr)
	}
	if got := aws.ToString(api.lastUpdate.ConditionExpression); !strings.Contains(got, "attribute_exists") {
		t.Errorf("ConditionExpression = %q, want attribute_exists", got)
	}
}

func TestUpdateExpression(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name            string
		upd             models.QueryLogUpdate
		wantListAppends int
	}{
		{"counter only", models.QueryLogUpdate{SearchedAt: now}, 0},
		{"user only", models.QueryLogUpdate{SearchedAt: now, UserID: "u", AppendUserID: true}, 1},
		{"both", models.QueryLogUpdate{SearchedAt: now, UserID: "u", AppendUserID: true, Utterance: "x", AppendUtterance: true}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := updateExpression(tt.upd)
			if err != nil {
				t.Fatalf("updateExpression() error = %v", err)
			}
			update := aws.ToString(expr.Update())
			if got := strings.Count(update, "list_append"); got != tt.wantListAppends {
				t.Errorf("update %q has %d list_append, want %d", update, got, tt.wantListAppends)
			}
			if !strings.Contains(update, "ADD") {
				t.Errorf("update %q does not increment atomically", update)
			}

			names := expr.Names()
			found := false
			for _, n := range names {
				if n == "search_count" {
					found = true
				}
			}
			if !found {
				t.Errorf("names %v do not reference search_count", names)
			}
		})
	}
}

func TestQueryLogs_Top(t *testing.T) {
	api := newFakeAPI()
	store := NewQueryLogs(api, "queries", "queries-index")
	ctx := context.Background()
	now := time.Now().UTC()

	for q, n := range map[string]int64{"ec2": 5, "s3": 9, "rds": 5, "iam": 1} {
		av, err := attributevalue.MarshalMap(record{SearchQuery: q, SearchCount: n, CreatedOn: now, LastSearched: now})
		if err != nil {
			t.Fatal(err)
		}
		api.items[q] = av
	}

	top, err := store.Top(ctx, 3)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if aws.ToString(api.lastScan.IndexName) != "queries-index" {
		t.Errorf("Scan index = %q", aws.ToString(api.lastScan.IndexName))
	}
	want := []string{"s3", "ec2", "rds"}
	if len(top) != len(want) {
		t.Fatalf("Top() returned %d items, want %d", len(top), len(want))
	}
	for i, q := range want {
		if top[i].SearchQuery != q {
			t.Errorf("Top()[%d] = %q, want %q", i, top[i].SearchQuery, q)
		}
	}
}

func TestQueryLogs_ClientError(t *testing.T) {
	api := newFakeAPI()
	api.err = errors.New("throttled")
	store := NewQueryLogs(api, "queries", "")
	ctx := context.Background()

	if _, err := store.Get(ctx, "ec2"); err == nil || errors.Is(err, querylog.ErrQueryLogNotFound) {
		t.Errorf("Get() error = %v, want wrapped client error", err)
	}
	if err := store.Create(ctx, &models.QueryLogItem{SearchQuery: "ec2"}); err == nil || errors.Is(err, querylog.ErrDuplicateQuery) {
		t.Errorf("Create() error = %v, want wrapped client error", err)
	}
	if _, err := store.Top(ctx, 1); err == nil {
		t.Error("Top() should fail")
	}
}
