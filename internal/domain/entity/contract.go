package entity

import (
	"fmt"
	"time"

	"contract-workspace/internal/domain/errs"
)

// Contract stages the gateway cares about
const (
	StageDraft       = "draft"
	StageSignPending = "sign_pending"
)

// Contract is the typed form of the backend contract record
type Contract struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	ContractType    string         `json:"contract_type"`
	Stage           string         `json:"stage"`
	EffectiveFrom   string         `json:"effective_from,omitempty"`
	ExpiresOn       string         `json:"expires_on,omitempty"`
	IsRenewable     bool           `json:"is_renewable"`
	RenewalCount    int            `json:"renewal_count"`
	FilePath        string         `json:"file_path"`
	Organization    string         `json:"organization,omitempty"`
	Counterparties  []Counterparty `json:"counterparties"`
	CreatedAt       *time.Time     `json:"created_at,omitempty"`
	LastModifiedAt  *time.Time     `json:"last_modified_at,omitempty"`
	CreatedBy       *int64         `json:"created_by,omitempty"`
	LastModifiedBy  *int64         `json:"last_modified_by,omitempty"`
	TerminatedAt    string         `json:"terminated_at,omitempty"`
	TerminateReason string         `json:"terminated_reason,omitempty"`
}

// Validate rejects records that cannot drive the document workflow
func (c *Contract) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: empty contract", errs.ErrMalformedResponse)
	}
	if c.ID == "" {
		return fmt.Errorf("%w: contract without id", errs.ErrMalformedResponse)
	}
	if c.Title == "" {
		return fmt.Errorf("%w: contract %s without title", errs.ErrMalformedResponse, c.ID)
	}
	for i := range c.Counterparties {
		if err := c.Counterparties[i].Validate(); err != nil {
			return fmt.Errorf("contract %s counterparty %d: %w", c.ID, i, err)
		}
	}
	return nil
}

// DocumentRef returns the storage reference of the contract's document
func (c *Contract) DocumentRef() DocumentRef {
	return DocumentRef{ContractID: c.ID, StoragePath: c.FilePath}
}

// Counterparty is a named party to a contract
type Counterparty struct {
	ID        string     `json:"id,omitempty"`
	PartyName string     `json:"party_name"`
	PartyType string     `json:"party_type"`
	Email     string     `json:"email"`
	IsPrimary bool       `json:"isPrimary"`
	Contract  string     `json:"contract"`
	AddedAt   *time.Time `json:"added_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (p *Counterparty) Validate() error {
	if p.Email == "" {
		return fmt.Errorf("%w: counterparty without email", errs.ErrMalformedResponse)
	}
	return nil
}

// CreateContractRequest is the payload accepted for new contracts
type CreateContractRequest struct {
	Title        string `json:"title" form:"title"`
	ContractType string `json:"contract_type" form:"contract_type"`
	Stage        string `json:"stage" form:"stage"`
	Description  string `json:"description,omitempty" form:"description"`
	FilePath     string `json:"file_path" form:"-"`
}

// UpdateContractRequest holds the partially updatable contract fields
type UpdateContractRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	ContractType *string `json:"contract_type,omitempty"`
	Stage        *string `json:"stage,omitempty"`
	IsRenewable  *bool   `json:"is_renewable,omitempty"`
}

// CreateCounterpartyRequest is the payload for adding a party to a contract
type CreateCounterpartyRequest struct {
	PartyName string `json:"party_name"`
	PartyType string `json:"party_type"`
	Email     string `json:"email"`
	IsPrimary bool   `json:"isPrimary"`
	Contract  string `json:"contract"`
}
