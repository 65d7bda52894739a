// Package envelope builds the signature request sent for a contract
// document: who signs, in which order, and where.
package envelope

import (
	"fmt"
	"strings"

	"contract-workspace/internal/document"
	"contract-workspace/internal/domain/errs"
)

const MaxRecipients = 10

// Routing decides whether signers receive the document one after another
// or all at once.
type Routing string

const (
	RoutingSequential Routing = "sequential"
	RoutingParallel   Routing = "parallel"
)

// DocumentFormat is the envelope-level document format
type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
)

const (
	RecipientTypeSigner       = "signer"
	DeliveryEmail             = "email"
	CeremonyCreationAutomatic = "automatic"
	PlaceTypeSignature        = "signature"
)

// Fixed anchor used for signature places on PDF documents
const (
	anchorPage = 1
	anchorX    = 100
	anchorY    = 100
)

type Recipient struct {
	Key              string `json:"key"`
	Type             string `json:"recipient_type"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	DeliveryMethod   string `json:"delivery_method"`
	CeremonyCreation string `json:"ceremony_creation"`
}

// Place is one signature position. Page, X and Y are only set on PDF
// envelopes; DOCX documents locate the place by its text marker.
type Place struct {
	Key          string `json:"key"`
	Type         string `json:"place_type"`
	RecipientKey string `json:"recipient_key"`
	Page         int    `json:"page,omitempty"`
	X            int    `json:"x,omitempty"`
	Y            int    `json:"y,omitempty"`
}

type Envelope struct {
	Format     DocumentFormat `json:"document_format"`
	Routing    Routing        `json:"routing"`
	Recipients []Recipient    `json:"recipients"`
	Places     []Place        `json:"places"`
}

// RecipientKey returns the key of the i-th recipient
func RecipientKey(i int) string {
	return fmt.Sprintf("recipient_%d", i)
}

// PlaceKey returns the key of the i-th signature place
func PlaceKey(i int) string {
	return fmt.Sprintf("sign_here_%d", i)
}

// Marker is the text that stands in for the i-th place inside a DOCX body
func Marker(i int) string {
	return "[[" + PlaceKey(i) + "]]"
}

func ParseRouting(s string) (Routing, error) {
	switch r := Routing(strings.ToLower(strings.TrimSpace(s))); r {
	case RoutingSequential, RoutingParallel:
		return r, nil
	case "":
		return RoutingSequential, nil
	default:
		return "", fmt.Errorf("%w: unknown routing %q", errs.ErrValidation, s)
	}
}

func ParseFormat(s string) (DocumentFormat, error) {
	switch f := DocumentFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatDOCX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown document format %q", errs.ErrValidation, s)
	}
}

// FormatFromDocument maps a rendered document format onto an envelope
// format. Unsupported documents cannot be sent.
func FormatFromDocument(f document.Format) (DocumentFormat, error) {
	switch f {
	case document.FormatPaginated:
		return FormatPDF, nil
	case document.FormatEditableText:
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: document format %q cannot be signed", errs.ErrValidation, f)
	}
}

// Submission is the payload the backend expects on /esignature/send/
type Submission struct {
	ContractID string `json:"contract_id"`
	Envelope
}
