package domain

import (
	"github.com/shopspring/decimal"
)

// ClassifiedAdEvent is the closed set of facts a ClassifiedAd can raise.
type ClassifiedAdEvent interface {
	// EventType is a stable name used for the change log and message subjects.
	EventType() string
	AggregateID() ClassifiedAdID
	isClassifiedAdEvent()
}

// ClassifiedAdCreated is raised once, when the ad comes into existence.
type ClassifiedAdCreated struct {
	ID      ClassifiedAdID `json:"id"`
	OwnerID UserID         `json:"owner_id"`
}

// ClassifiedAdTitleChanged carries an already validated title.
type ClassifiedAdTitleChanged struct {
	ID    ClassifiedAdID `json:"id"`
	Title string         `json:"title"`
}

// ClassifiedAdTextUpdated carries the new body text.
type ClassifiedAdTextUpdated struct {
	ID     ClassifiedAdID `json:"id"`
	AdText string         `json:"ad_text"`
}

// ClassifiedAdPriceUpdated carries the raw amount and its currency.
type ClassifiedAdPriceUpdated struct {
	ID           ClassifiedAdID  `json:"id"`
	Price        decimal.Decimal `json:"price"`
	CurrencyCode CurrencyCode    `json:"currency_code"`
}

// ClassifiedAdSentForReview moves the ad into review.
type ClassifiedAdSentForReview struct {
	ID ClassifiedAdID `json:"id"`
}

func (e ClassifiedAdCreated) EventType() string       { return "ClassifiedAdCreated" }
func (e ClassifiedAdTitleChanged) EventType() string  { return "ClassifiedAdTitleChanged" }
func (e ClassifiedAdTextUpdated) EventType() string   { return "ClassifiedAdTextUpdated" }
func (e ClassifiedAdPriceUpdated) EventType() string  { return "ClassifiedAdPriceUpdated" }
func (e ClassifiedAdSentForReview) EventType() string { return "ClassifiedAdSentForReview" }

func (e ClassifiedAdCreated) AggregateID() ClassifiedAdID       { return e.ID }
func (e ClassifiedAdTitleChanged) AggregateID() ClassifiedAdID  { return e.ID }
func (e ClassifiedAdTextUpdated) AggregateID() ClassifiedAdID   { return e.ID }
func (e ClassifiedAdPriceUpdated) AggregateID() ClassifiedAdID  { return e.ID }
func (e ClassifiedAdSentForReview) AggregateID() ClassifiedAdID { return e.ID }

func (ClassifiedAdCreated) isClassifiedAdEvent()       {}
func (ClassifiedAdTitleChanged) isClassifiedAdEvent()  {}
func (ClassifiedAdTextUpdated) isClassifiedAdEvent()   {}
func (ClassifiedAdPriceUpdated) isClassifiedAdEvent()  {}
func (ClassifiedAdSentForReview) isClassifiedAdEvent() {}
