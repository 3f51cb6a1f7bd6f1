package kinesis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/example/ec-order-service/internal/fact"
)

// ConvertFromKinesisRecord converts a Kinesis record (DynamoDB Streams
// format) into a fact envelope. The facts table's Kinesis integration
// delivers records in DynamoDB Streams format.
func ConvertFromKinesisRecord(record events.KinesisEventRecord) (*fact.Envelope, error) {
	var dynamoDBRecord events.DynamoDBEventRecord
	if err := json.Unmarshal(record.Kinesis.Data, &dynamoDBRecord); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DynamoDB record: %w", err)
	}

	// Only INSERT records carry new facts
	if dynamoDBRecord.EventName != "INSERT" {
		return nil, nil
	}

	return convertDynamoDBImage(dynamoDBRecord.Change.NewImage)
}

// ConvertFromDynamoDBStreamRecord converts a DynamoDB Stream record into a
// fact envelope. Used when consuming directly from DynamoDB Streams.
func ConvertFromDynamoDBStreamRecord(record events.DynamoDBEventRecord) (*fact.Envelope, error) {
	if record.EventName != "INSERT" {
		return nil, nil
	}

	return convertDynamoDBImage(record.Change.NewImage)
}

// convertDynamoDBImage extracts the fact envelope from DynamoDB attribute values.
func convertDynamoDBImage(image map[string]events.DynamoDBAttributeValue) (*fact.Envelope, error) {
	if image == nil {
		return nil, fmt.Errorf("DynamoDB image is nil")
	}

	envelope := &fact.Envelope{}

	if v, ok := image["id"]; ok {
		envelope.ID = v.String()
	}
	if v, ok := image["fact_type"]; ok {
		envelope.FactType = v.String()
	}
	if v, ok := image["data"]; ok {
		envelope.Data = json.RawMessage(v.String())
	}
	if v, ok := image["occurred_at"]; ok {
		t, err := time.Parse(time.RFC3339Nano, v.String())
		if err != nil {
			return nil, fmt.Errorf("failed to parse occurred_at: %w", err)
		}
		envelope.OccurredAt = t
	}

	if envelope.ID == "" || envelope.FactType == "" {
		return nil, fmt.Errorf("missing required fields: id=%s, fact_type=%s",
			envelope.ID, envelope.FactType)
	}

	return envelope, nil
}

// BatchConvertFromKinesisEvent converts all records from a Kinesis event.
// Returns successfully converted envelopes and any errors encountered.
func BatchConvertFromKinesisEvent(kinesisEvent events.KinesisEvent) ([]*fact.Envelope, []error) {
	var envelopes []*fact.Envelope
	var errs []error

	for _, record := range kinesisEvent.Records {
		envelope, err := ConvertFromKinesisRecord(record)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %s: %w", record.EventID, err))
			continue
		}
		if envelope != nil {
			envelopes = append(envelopes, envelope)
		}
	}

	return envelopes, errs
}
