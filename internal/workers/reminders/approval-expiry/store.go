package approvalexpiry

import (
	"context"
	"encoding/json"
	"fmt"

	"approval-reminders/internal/common/database"
	"approval-reminders/internal/common/errors"
	"approval-reminders/internal/common/logger"
	"approval-reminders/internal/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ApprovalSource yields the approved records to scan.
type ApprovalSource interface {
	QueryApprovedRecords(ctx context.Context) ([]models.ApprovalRecord, error)
}

// AccountLookup resolves an account reference to its record.
type AccountLookup interface {
	QueryAccountByUID(ctx context.Context, uid string) (*models.AccountRecord, error)
}

// RecordStore reads the Approvals and Accounts tables through their
// secondary indexes.
type RecordStore struct {
	client dynamodb.QueryAPIClient
	config *Config
	logger logger.Logger
}

func NewRecordStore(client dynamodb.QueryAPIClient, config *Config, log logger.Logger) *RecordStore {
	return &RecordStore{client: client, config: config, logger: log}
}

// QueryApprovedRecords returns every record on the status index whose status
// equals the approved value, across all pages.
func (s *RecordStore) QueryApprovedRecords(ctx context.Context) ([]models.ApprovalRecord, error) {
	cfg := s.config.Approvals
	items, err := database.QueryEqual(ctx, s.client, cfg.Table, cfg.StatusIndex, cfg.StatusAttribute,
		&types.AttributeValueMemberS{Value: cfg.ApprovedStatus})
	if err != nil {
		return nil, errors.NewStoreQueryFailedError(cfg.Table, cfg.StatusIndex, err)
	}

	records := make([]models.ApprovalRecord, 0, len(items))
	for _, item := range items {
		rec, err := s.decodeApproval(item)
		if err != nil {
			s.logger.Warn("Skipping undecodable approval item", map[string]interface{}{
				"table": cfg.Table,
				"error": err.Error(),
			})
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// QueryAccountByUID returns the account for uid. No match is an
// ACCOUNT_LOOKUP_MISS error; several matches resolve to the first.
func (s *RecordStore) QueryAccountByUID(ctx context.Context, uid string) (*models.AccountRecord, error) {
	cfg := s.config.Accounts
	if uid == "" {
		return nil, errors.NewAccountLookupMissError(uid)
	}

	items, err := database.QueryEqual(ctx, s.client, cfg.Table, cfg.UIDIndex, cfg.UIDAttribute,
		&types.AttributeValueMemberS{Value: uid})
	if err != nil {
		return nil, errors.NewStoreQueryFailedError(cfg.Table, cfg.UIDIndex, err)
	}

	switch len(items) {
	case 0:
		return nil, errors.NewAccountLookupMissError(uid)
	case 1:
	default:
		s.logger.Warn("Multiple accounts share a UID, using the first", map[string]interface{}{
			"uid":     uid,
			"matches": len(items),
		})
	}

	var account models.AccountRecord
	if err := attributevalue.UnmarshalMap(items[0], &account); err != nil {
		return nil, fmt.Errorf("decode account %s: %w", uid, err)
	}
	if account.Attributes, err = decodePassthrough(items[0]); err != nil {
		return nil, fmt.Errorf("decode account %s: %w", uid, err)
	}
	if account.AccountName == "" {
		return nil, errors.NewAccountLookupMissError(uid).WithMetadata("reason", "account has no AccountName")
	}
	return &account, nil
}

func (s *RecordStore) decodeApproval(item map[string]types.AttributeValue) (models.ApprovalRecord, error) {
	var rec models.ApprovalRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return rec, err
	}
	attrs, err := decodePassthrough(item)
	if err != nil {
		return rec, err
	}
	rec.Attributes = attrs
	// The status attribute name is configurable; the struct tag is only the default.
	if status, ok := rec.Attributes[s.config.Approvals.StatusAttribute].(string); ok {
		rec.Status = status
	}
	return rec, nil
}

// decodePassthrough decodes an item into plain values. N attributes become
// json.Number so they serialize with their stored digits.
func decodePassthrough(item map[string]types.AttributeValue) (map[string]interface{}, error) {
	var attrs map[string]interface{}
	err := attributevalue.UnmarshalMapWithOptions(item, &attrs, func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	})
	if err != nil {
		return nil, err
	}
	for k, v := range attrs {
		attrs[k] = exactNumbers(v)
	}
	return attrs, nil
}

func exactNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case attributevalue.Number:
		return json.Number(t)
	case []attributevalue.Number:
		out := make([]json.Number, len(t))
		for i, n := range t {
			out[i] = json.Number(n)
		}
		return out
	case map[string]interface{}:
		for k, e := range t {
			t[k] = exactNumbers(e)
		}
		return t
	case []interface{}:
		for i, e := range t {
			t[i] = exactNumbers(e)
		}
		return t
	}
	return v
}
