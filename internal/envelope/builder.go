package envelope

import (
	"fmt"
	"strings"

	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
)

// Build assembles an envelope. Explicit recipient input wins over the
// contract's counterparties; every recipient gets exactly one place.
func Build(format DocumentFormat, routing Routing, recipientInput string, counterparties []entity.Counterparty) (*Envelope, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	if routing != RoutingSequential && routing != RoutingParallel {
		return nil, fmt.Errorf("%w: unknown routing %q", errs.ErrValidation, routing)
	}

	recipients := ParseRecipients(recipientInput)
	if len(recipients) == 0 {
		recipients = FromCounterparties(counterparties)
	}
	if len(recipients) == 0 {
		return nil, errs.ErrNoRecipients
	}
	if len(recipients) > MaxRecipients {
		return nil, fmt.Errorf("%w: %d recipients, at most %d allowed", errs.ErrValidation, len(recipients), MaxRecipients)
	}

	places := make([]Place, len(recipients))
	for i, r := range recipients {
		places[i] = Place{
			Key:          PlaceKey(i),
			Type:         PlaceTypeSignature,
			RecipientKey: r.Key,
		}
		if format == FormatPDF {
			places[i].Page = anchorPage
			places[i].X = anchorX
			places[i].Y = anchorY
		}
	}

	return &Envelope{
		Format:     format,
		Routing:    routing,
		Recipients: recipients,
		Places:     places,
	}, nil
}

// ParseRecipients splits comma-separated addresses. Entries are trimmed,
// empty ones dropped, and the address doubles as the display name.
func ParseRecipients(input string) []Recipient {
	var recipients []Recipient
	for _, part := range strings.Split(input, ",") {
		email := strings.TrimSpace(part)
		if email == "" {
			continue
		}
		recipients = append(recipients, newRecipient(len(recipients), email, email))
	}
	return recipients
}

// FromCounterparties turns contract parties into recipients, skipping
// parties without an address.
func FromCounterparties(counterparties []entity.Counterparty) []Recipient {
	var recipients []Recipient
	for _, cp := range counterparties {
		email := strings.TrimSpace(cp.Email)
		if email == "" {
			continue
		}
		name := strings.TrimSpace(cp.PartyName)
		if name == "" {
			name = email
		}
		recipients = append(recipients, newRecipient(len(recipients), name, email))
	}
	return recipients
}

func newRecipient(i int, name, email string) Recipient {
	return Recipient{
		Key:              RecipientKey(i),
		Type:             RecipientTypeSigner,
		Name:             name,
		Email:            email,
		DeliveryMethod:   DeliveryEmail,
		CeremonyCreation: CeremonyCreationAutomatic,
	}
}
