// internal/models/approval.go
package models

// StatusApproved is the ApprovalStatus value the scan queries for.
const StatusApproved = "Approved"

// ApprovalRecord is one item of the Approvals table. Attributes holds every
// attribute of the stored item, including the ones mapped to fields.
type ApprovalRecord struct {
	Status    string `dynamodbav:"ApprovalStatus" json:"approvalStatus"`
	Facility  string `dynamodbav:"ApprovalFacility" json:"approvalFacility"`
	Author    string `dynamodbav:"Author" json:"author"`
	Expires   string `dynamodbav:"ApprovalExpires" json:"approvalExpires"`
	AccountID string `dynamodbav:"AID" json:"aid"`

	DaysUntilExpiry int                    `dynamodbav:"-" json:"daysUntilExpiry"`
	Attributes      map[string]interface{} `dynamodbav:"-" json:"-"`
}

// AccountRecord is one item of the Accounts table.
type AccountRecord struct {
	UID         string `dynamodbav:"UID" json:"uid"`
	AccountName string `dynamodbav:"AccountName" json:"accountName"`

	Attributes map[string]interface{} `dynamodbav:"-" json:"-"`
}
