package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kimtaewoo9/mansereok/domain/events"
)

type fakeAPI struct {
	inputs []*eventbridge.PutEventsInput
	out    *eventbridge.PutEventsOutput
	err    error
}

func (f *fakeAPI) PutEvents(_ context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	if f.out != nil {
		return f.out, nil
	}
	return &eventbridge.PutEventsOutput{}, nil
}

func chartEvent(id string) events.DomainEvent {
	return events.ChartComputed{
		BaseEvent: events.BaseEvent{
			EventID:     "evt-" + id,
			AggregateID: id,
			EventType:   events.EventTypeChartComputed,
			Timestamp:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Version:     1,
		},
		Day: "癸巳",
	}
}

func TestPublisher_PublishBatchChunksByTen(t *testing.T) {
	api := &fakeAPI{}
	p := NewPublisher(api, "manse-bus", zap.NewNop())

	batch := make([]events.DomainEvent, 23)
	for i := range batch {
		batch[i] = chartEvent(string(rune('a' + i)))
	}
	require.NoError(t, p.PublishBatch(context.Background(), batch))

	require.Len(t, api.inputs, 3)
	assert.Len(t, api.inputs[0].Entries, 10)
	assert.Len(t, api.inputs[1].Entries, 10)
	assert.Len(t, api.inputs[2].Entries, 3)
}

func TestPublisher_EntryShape(t *testing.T) {
	api := &fakeAPI{}
	p := NewPublisher(api, "manse-bus", zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), chartEvent("chart-1")))
	require.Len(t, api.inputs, 1)
	entry := api.inputs[0].Entries[0]

	assert.Equal(t, "manse-bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, Source, aws.ToString(entry.Source))
	assert.Equal(t, events.EventTypeChartComputed, aws.ToString(entry.DetailType))
	assert.Equal(t, []string{"chart/chart-1"}, entry.Resources)

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, "癸巳", detail["day"])
	assert.Equal(t, "evt-chart-1", detail["event_id"])
}

func TestPublisher_Failures(t *testing.T) {
	api := &fakeAPI{err: errors.New("throttled")}
	p := NewPublisher(api, "manse-bus", zap.NewNop())
	assert.ErrorContains(t, p.Publish(context.Background(), chartEvent("x")), "throttled")

	api = &fakeAPI{out: &eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("InternalFailure")}},
	}}
	p = NewPublisher(api, "manse-bus", zap.NewNop())
	assert.ErrorContains(t, p.Publish(context.Background(), chartEvent("x")), "1 events failed")
}

func TestPublisher_EmptyBatchIsNoop(t *testing.T) {
	api := &fakeAPI{}
	require.NoError(t, NewPublisher(api, "bus", zap.NewNop()).PublishBatch(context.Background(), nil))
	assert.Empty(t, api.inputs)
}
