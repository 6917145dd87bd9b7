package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/kimtaewoo9/mansereok/domain/core/entities"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// Client is the subset of the DynamoDB API the repository uses.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// Key layout:
//
//	PK = SOLAR#<yyyy-mm-dd>  SK = RECORD
//	GSI1PK = LUNAR#<yyyy-mm-dd>  GSI1SK = 0 (regular) | 1 (leap)
//	GSI2PK = CUTOVER  GSI2SK = <yyyy-mm-dd hh:mm:ss>  (cutover days only)
const (
	recordSK      = "RECORD"
	cutoverPK     = "CUTOVER"
	instantLayout = "2006-01-02 15:04:05"
	batchSize     = 25
	maxRetries    = 3
)

// TableConfig names the table and its indexes.
type TableConfig struct {
	TableName        string
	LunarIndexName   string
	CutoverIndexName string
}

// AlmanacRepository implements the almanac ports on a single DynamoDB table.
type AlmanacRepository struct {
	client Client
	config TableConfig
	logger *zap.Logger
}

// NewAlmanacRepository creates a new AlmanacRepository
func NewAlmanacRepository(client Client, config TableConfig, logger *zap.Logger) *AlmanacRepository {
	return &AlmanacRepository{
		client: client,
		config: config,
		logger: logger.Named("dynamodb_almanac"),
	}
}

// almanacItem represents the DynamoDB item structure for an almanac day
type almanacItem struct {
	PK              string `dynamodbav:"PK"`
	SK              string `dynamodbav:"SK"`
	GSI1PK          string `dynamodbav:"GSI1PK"`
	GSI1SK          string `dynamodbav:"GSI1SK"`
	GSI2PK          string `dynamodbav:"GSI2PK,omitempty"`
	GSI2SK          string `dynamodbav:"GSI2SK,omitempty"`
	SolarDate       string `dynamodbav:"SolarDate"`
	LunarDate       string `dynamodbav:"LunarDate"`
	LeapMonth       bool   `dynamodbav:"LeapMonth"`
	Season          string `dynamodbav:"Season,omitempty"`
	SeasonStartTime string `dynamodbav:"SeasonStartTime,omitempty"`
	Year            string `dynamodbav:"Year"`
	Month           string `dynamodbav:"Month"`
	Day             string `dynamodbav:"Day"`
}

func toItem(r *entities.AlmanacRecord) almanacItem {
	leap := "0"
	if r.LeapMonth {
		leap = "1"
	}
	item := almanacItem{
		PK:        "SOLAR#" + r.SolarDate.Format(vo.DateLayout),
		SK:        recordSK,
		GSI1PK:    "LUNAR#" + r.LunarDate.String(),
		GSI1SK:    leap,
		SolarDate: r.SolarDate.Format(vo.DateLayout),
		LunarDate: r.LunarDate.String(),
		LeapMonth: r.LeapMonth,
		Season:    r.SolarTerm,
		Year:      r.Year.Glyph(),
		Month:     r.Month.Glyph(),
		Day:       r.Day.Glyph(),
	}
	if r.CutoverAt != nil {
		item.GSI2PK = cutoverPK
		item.GSI2SK = r.CutoverAt.Format(instantLayout)
		item.SeasonStartTime = item.GSI2SK
	}
	return item
}

func (i almanacItem) toRecord() (*entities.AlmanacRecord, error) {
	rec := &entities.AlmanacRecord{LeapMonth: i.LeapMonth, SolarTerm: i.Season}
	var err error
	if rec.SolarDate, err = vo.ParseSolarDate(i.SolarDate); err != nil {
		return nil, err
	}
	if rec.LunarDate, err = vo.ParseLunarDate(i.LunarDate); err != nil {
		return nil, err
	}
	if i.SeasonStartTime != "" {
		at, err := time.Parse(instantLayout, i.SeasonStartTime)
		if err != nil {
			return nil, err
		}
		rec.CutoverAt = &at
	}
	if rec.Year, err = vo.ParseStemBranch(i.Year); err != nil {
		return nil, err
	}
	if rec.Month, err = vo.ParseStemBranch(i.Month); err != nil {
		return nil, err
	}
	if rec.Day, err = vo.ParseStemBranch(i.Day); err != nil {
		return nil, err
	}
	return rec, nil
}

// FindBySolarDate returns the record of a civil date.
func (r *AlmanacRepository) FindBySolarDate(ctx context.Context, date time.Time) (*entities.AlmanacRecord, error) {
	day := vo.DateOf(date).Format(vo.DateLayout)
	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": "SOLAR#" + day,
		"SK": recordSK,
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("marshal key", err)
	}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.config.TableName),
		Key:       key,
	})
	if err != nil {
		return nil, fromAPIError("get solar "+day, err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewDataNotFoundError("no almanac record for solar date " + day)
	}
	return r.decode(result.Item)
}

// FindByLunarDate returns the record of a lunar date, regular month first.
func (r *AlmanacRepository) FindByLunarDate(ctx context.Context, date vo.LunarDate) (*entities.AlmanacRecord, error) {
	keyExpr := expression.Key("GSI1PK").Equal(expression.Value("LUNAR#" + date.String()))
	return r.queryFirst(ctx, r.config.LunarIndexName, keyExpr, true, "lunar date "+date.String())
}

// FindEarliestCutoverAtOrAfter returns the first cutover >= instant.
func (r *AlmanacRepository) FindEarliestCutoverAtOrAfter(ctx context.Context, instant time.Time) (*entities.AlmanacRecord, error) {
	at := instant.Format(instantLayout)
	keyExpr := expression.Key("GSI2PK").Equal(expression.Value(cutoverPK)).
		And(expression.Key("GSI2SK").GreaterThanEqual(expression.Value(at)))
	return r.queryFirst(ctx, r.config.CutoverIndexName, keyExpr, true, "cutover at or after "+at)
}

// FindLatestCutoverAtOrBefore returns the last cutover <= instant.
func (r *AlmanacRepository) FindLatestCutoverAtOrBefore(ctx context.Context, instant time.Time) (*entities.AlmanacRecord, error) {
	at := instant.Format(instantLayout)
	keyExpr := expression.Key("GSI2PK").Equal(expression.Value(cutoverPK)).
		And(expression.Key("GSI2SK").LessThanEqual(expression.Value(at)))
	return r.queryFirst(ctx, r.config.CutoverIndexName, keyExpr, false, "cutover at or before "+at)
}

func (r *AlmanacRepository) queryFirst(
	ctx context.Context,
	index string,
	keyExpr expression.KeyConditionBuilder,
	ascending bool,
	what string,
) (*entities.AlmanacRecord, error) {
	expr, err := expression.NewBuilder().WithKeyCondition(keyExpr).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build expression", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.config.TableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(ascending),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, fromAPIError("query "+what, err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewDataNotFoundError("no almanac record for " + what)
	}
	return r.decode(result.Items[0])
}

func (r *AlmanacRepository) decode(av map[string]types.AttributeValue) (*entities.AlmanacRecord, error) {
	var item almanacItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal almanac item", err)
	}
	rec, err := item.toRecord()
	if err != nil {
		return nil, pkgerrors.NewConfigurationError("corrupt almanac item " + item.PK).WithCause(err)
	}
	return rec, nil
}

// SaveBatch writes records in batches of 25, retrying unprocessed items.
func (r *AlmanacRepository) SaveBatch(ctx context.Context, records []*entities.AlmanacRecord) error {
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}

		requests := make([]types.WriteRequest, 0, end-i)
		for _, rec := range records[i:end] {
			av, err := attributevalue.MarshalMap(toItem(rec))
			if err != nil {
				return pkgerrors.NewDatabaseError("marshal almanac item", err)
			}
			requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
		}

		if err := r.writeWithRetry(ctx, requests); err != nil {
			return err
		}
	}

	r.logger.Debug("Saved almanac batch", zap.Int("records", len(records)))
	return nil
}

func (r *AlmanacRepository) writeWithRetry(ctx context.Context, requests []types.WriteRequest) error {
	pending := requests
	var lastErr error
	for retry := 0; retry < maxRetries && len(pending) > 0; retry++ {
		if retry > 0 {
			backoff := time.Duration(retry*retry+1) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{r.config.TableName: pending},
		})
		if err != nil {
			r.logger.Warn("Batch write failed, retrying", zap.Error(err), zap.Int("retry", retry+1))
			lastErr = err
			continue
		}
		lastErr = nil
		pending = result.UnprocessedItems[r.config.TableName]
	}
	if len(pending) > 0 && lastErr != nil {
		return fromAPIError("batch write", lastErr)
	}
	if len(pending) > 0 {
		return pkgerrors.NewDatabaseError("batch write",
			fmt.Errorf("%d items unprocessed after %d attempts", len(pending), maxRetries))
	}
	return nil
}

// Count scans the table for the number of records.
func (r *AlmanacRepository) Count(ctx context.Context) (int, error) {
	total := 0
	var start map[string]types.AttributeValue
	for {
		result, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.config.TableName),
			Select:            types.SelectCount,
			ExclusiveStartKey: start,
		})
		if err != nil {
			return 0, fromAPIError("count", err)
		}
		total += int(result.Count)
		if len(result.LastEvaluatedKey) == 0 {
			return total, nil
		}
		start = result.LastEvaluatedKey
	}
}
