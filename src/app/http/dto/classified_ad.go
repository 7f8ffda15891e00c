package dto

import (
	"github.com/shopspring/decimal"

	"marketplace/src/core/usecase"
)

// CreateClassifiedAdRequest is the payload for POST /v1/ads.
// ID is optional; the server generates one when it is empty.
type CreateClassifiedAdRequest struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id" binding:"required"`
}

func (r CreateClassifiedAdRequest) ToInput() usecase.CreateClassifiedAdInput {
	return usecase.CreateClassifiedAdInput{ID: r.ID, OwnerID: r.OwnerID}
}

// SetTitleRequest is the payload for PUT /v1/ads/:id/title.
type SetTitleRequest struct {
	Title string `json:"title"`
}

func (r SetTitleRequest) ToInput(id string) usecase.SetTitleInput {
	return usecase.SetTitleInput{ID: id, Title: r.Title}
}

// UpdateTextRequest is the payload for PUT /v1/ads/:id/text.
type UpdateTextRequest struct {
	Text string `json:"text"`
}

func (r UpdateTextRequest) ToInput(id string) usecase.UpdateTextInput {
	return usecase.UpdateTextInput{ID: id, Text: r.Text}
}

// UpdatePriceRequest is the payload for PUT /v1/ads/:id/price.
// Price accepts a JSON number or string ("100.00"); Currency defaults to EUR.
type UpdatePriceRequest struct {
	Price    *decimal.Decimal `json:"price" binding:"required"`
	Currency string           `json:"currency"`
}

func (r UpdatePriceRequest) ToInput(id string) usecase.UpdatePriceInput {
	return usecase.UpdatePriceInput{ID: id, Price: *r.Price, Currency: r.Currency}
}
