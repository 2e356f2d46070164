package mapper

import (
	"encoding/json"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/types"
)

// DonationToResponse renders the public view of a donation. The raw gateway
// payload is left out.
func DonationToResponse(item *entity.Donation) *types.DonationResponse {
	if item == nil {
		return nil
	}

	return &types.DonationResponse{
		ID:               item.ID,
		UserID:           cloneUint64(item.UserID),
		CategoryID:       cloneUint64(item.CategoryID),
		EventID:          cloneUint64(item.EventID),
		CardID:           cloneUint64(item.CardID),
		Amount:           item.Amount,
		Name:             item.Name,
		Email:            item.Email,
		Phone:            item.Phone,
		Address:          cloneString(item.Address),
		PanCard:          cloneString(item.PanCard),
		Message:          cloneString(item.Message),
		PaymentID:        item.PaymentID,
		GatewayPaymentID: cloneString(item.GatewayPaymentID),
		Status:           item.Status,
		InvoiceNumber:    cloneString(item.InvoiceNumber),
		ReceiptSent:      item.ReceiptSent,
		NotificationSent: item.NotificationSent,
		CreatedAt:        item.CreatedAt.UTC(),
		UpdatedAt:        item.UpdatedAt.UTC(),
	}
}

// DonationToAdminResponse adds the stored gateway payload for back-office review.
func DonationToAdminResponse(item *entity.Donation) *types.DonationResponse {
	resp := DonationToResponse(item)
	if resp == nil {
		return nil
	}
	if item.PaymentGatewayResponse != nil && json.Valid([]byte(*item.PaymentGatewayResponse)) {
		resp.GatewayResponse = json.RawMessage(*item.PaymentGatewayResponse)
	}
	return resp
}

func DonationsToAdminResponse(items []*entity.Donation) []*types.DonationResponse {
	out := make([]*types.DonationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, DonationToAdminResponse(item))
	}
	return out
}

func DonationCardToResponse(card *entity.DonationCard) *types.DonationCardResponse {
	if card == nil {
		return nil
	}
	categoryID := card.CategoryID
	return &types.DonationCardResponse{ID: card.ID, CategoryID: &categoryID, Label: card.Label, Amount: card.Amount}
}

func EventDonationCardToResponse(card *entity.EventDonationCard) *types.DonationCardResponse {
	if card == nil {
		return nil
	}
	eventID := card.EventID
	return &types.DonationCardResponse{ID: card.ID, EventID: &eventID, Label: card.Label, Amount: card.Amount}
}

// DonationDetailsToResponse flattens the donation with its target and card.
func DonationDetailsToResponse(details *entity.DonationDetails) *types.DonationDetailsResponse {
	if details == nil || details.Donation == nil {
		return nil
	}

	resp := &types.DonationDetailsResponse{
		Donation: DonationToResponse(details.Donation),
		User:     details.User,
		Type:     details.Donation.TargetType(),
		Category: details.Category,
		Event:    details.Event,
	}
	switch {
	case details.EventCard != nil:
		resp.Card = EventDonationCardToResponse(details.EventCard)
	case details.CategoryCard != nil:
		resp.Card = DonationCardToResponse(details.CategoryCard)
	}
	return resp
}

func CheckoutToGatewayForm(session *entity.CheckoutSession) *types.GatewayForm {
	if session == nil {
		return nil
	}
	return &types.GatewayForm{
		Action: session.Action,
		Method: "POST",
		Params: cloneParams(session.Params),
	}
}

func cloneUint64(v *uint64) *uint64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneParams(in map[string]string) map[string]string {
	if len(in) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
