package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"marketplace/src/core/domain"
	"marketplace/src/core/ports"
)

// ClassifiedAdService dispatches commands and queries for classified ads.
// Every command loads the ad, runs one domain command, saves, then publishes
// the drained events and writes the new read model through the cache.
type ClassifiedAdService struct {
	repo      ports.ClassifiedAdRepository
	lookup    domain.CurrencyLookup
	publisher ports.EventPublisher
	cache     ports.ClassifiedAdCache
	log       *slog.Logger
}

// NewClassifiedAdService wires the service. publisher and cache may be nil.
func NewClassifiedAdService(
	repo ports.ClassifiedAdRepository,
	lookup domain.CurrencyLookup,
	publisher ports.EventPublisher,
	cache ports.ClassifiedAdCache,
	log *slog.Logger,
) *ClassifiedAdService {
	return &ClassifiedAdService{
		repo:      repo,
		lookup:    lookup,
		publisher: publisher,
		cache:     cache,
		log:       log,
	}
}

// CreateClassifiedAdInput carries the raw ids of a create request.
type CreateClassifiedAdInput struct {
	ID      string
	OwnerID string
}

type SetTitleInput struct {
	ID    string
	Title string
}

type UpdateTextInput struct {
	ID   string
	Text string
}

type UpdatePriceInput struct {
	ID       string
	Price    decimal.Decimal
	Currency string
}

// Create registers a new inactive ad. An empty ID gets a generated one.
func (s *ClassifiedAdService) Create(ctx context.Context, in CreateClassifiedAdInput) (*ports.ClassifiedAdView, error) {
	id := domain.NewClassifiedAdID(uuid.New())
	if in.ID != "" {
		parsed, err := domain.ParseClassifiedAdID(in.ID)
		if err != nil {
			return nil, err
		}
		id = parsed
	}
	owner, err := domain.ParseUserID(in.OwnerID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewConflictError("classified ad " + id.String() + " already exists")
	}

	ad := domain.NewClassifiedAd(id, owner, s.lookup)
	return s.commit(ctx, ad, "create")
}

// SetTitle validates the title before loading the ad.
func (s *ClassifiedAdService) SetTitle(ctx context.Context, in SetTitleInput) (*ports.ClassifiedAdView, error) {
	title, err := domain.NewClassifiedAdTitle(in.Title)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, in.ID, "set_title", func(ad *domain.ClassifiedAd) error {
		return ad.SetTitle(title)
	})
}

func (s *ClassifiedAdService) UpdateText(ctx context.Context, in UpdateTextInput) (*ports.ClassifiedAdView, error) {
	text := domain.NewClassifiedAdText(in.Text)
	return s.update(ctx, in.ID, "update_text", func(ad *domain.ClassifiedAd) error {
		return ad.SetText(text)
	})
}

// UpdatePrice validates the price against the currency table before touching the ad.
// An empty currency selects the default one.
func (s *ClassifiedAdService) UpdatePrice(ctx context.Context, in UpdatePriceInput) (*ports.ClassifiedAdView, error) {
	var code domain.CurrencyCode
	if in.Currency != "" {
		parsed, err := domain.ParseCurrencyCode(in.Currency)
		if err != nil {
			return nil, err
		}
		code = parsed
	}
	price, err := domain.PriceFromDecimal(in.Price, code, s.lookup)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, in.ID, "update_price", func(ad *domain.ClassifiedAd) error {
		return ad.UpdatePrice(price)
	})
}

func (s *ClassifiedAdService) RequestToPublish(ctx context.Context, id string) (*ports.ClassifiedAdView, error) {
	return s.update(ctx, id, "request_to_publish", func(ad *domain.ClassifiedAd) error {
		return ad.RequestToPublish()
	})
}

// Get returns the read model, from the cache when possible. A view built from
// the repository is offered to the cache, which keeps whichever version is newer.
func (s *ClassifiedAdService) Get(ctx context.Context, rawID string) (*ports.ClassifiedAdView, error) {
	id, err := domain.ParseClassifiedAdID(rawID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		view, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn("read model cache get failed", "ad_id", id.String(), "error", err)
		} else if view != nil {
			return view, nil
		}
	}

	ad, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.view(ad)

	if s.cache != nil {
		if err := s.cache.Set(ctx, view); err != nil {
			s.log.Warn("read model cache set failed", "ad_id", id.String(), "error", err)
		}
	}
	return view, nil
}

func (s *ClassifiedAdService) update(ctx context.Context, rawID, op string, cmd func(*domain.ClassifiedAd) error) (*ports.ClassifiedAdView, error) {
	id, err := domain.ParseClassifiedAdID(rawID)
	if err != nil {
		return nil, err
	}
	ad, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := cmd(ad); err != nil {
		s.log.Debug("classified ad command rejected", "op", op, "ad_id", id.String(), "error", err)
		return nil, err
	}
	return s.commit(ctx, ad, op)
}

// commit saves ad, then publishes and refreshes the cache. Failures after the
// save are logged only; the state change has already happened.
func (s *ClassifiedAdService) commit(ctx context.Context, ad *domain.ClassifiedAd, op string) (*ports.ClassifiedAdView, error) {
	changes, err := s.repo.Save(ctx, ad)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil && len(changes) > 0 {
		events := make([]ports.Event, len(changes))
		for i, e := range changes {
			events[i] = e
		}
		envelopes := ports.Seal(ad.ID().String(), ad.Version(), events)
		if err := s.publisher.Publish(ctx, envelopes...); err != nil {
			s.log.Error("publishing classified ad events failed",
				"op", op, "ad_id", ad.ID().String(), "events", len(events), "error", err)
		}
	}

	view := s.view(ad)
	if s.cache != nil {
		s.refreshCache(ctx, ad.ID(), view)
	}

	s.log.Info("classified ad saved",
		"op", op,
		"ad_id", ad.ID().String(),
		"state", string(ad.State()),
		"events", len(changes),
		"version", ad.Version(),
	)
	return view, nil
}

// refreshCache writes a committed view through the cache. If that fails the
// entry is dropped instead, so at worst the next read goes to the repository.
func (s *ClassifiedAdService) refreshCache(ctx context.Context, id domain.ClassifiedAdID, view *ports.ClassifiedAdView) {
	err := s.cache.Set(ctx, view)
	if err == nil {
		return
	}
	s.log.Warn("read model cache set failed", "ad_id", id.String(), "error", err)
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn("read model cache invalidate failed", "ad_id", id.String(), "error", err)
	}
}

func (s *ClassifiedAdService) view(ad *domain.ClassifiedAd) *ports.ClassifiedAdView {
	owner, _ := ad.OwnerID()
	v := &ports.ClassifiedAdView{
		ID:       ad.ID().String(),
		OwnerID:  owner.String(),
		State:   string(ad.State()),
		Version: ad.Version(),
	}
	if approver, ok := ad.ApprovedBy(); ok {
		a := approver.String()
		v.ApprovedBy = &a
	}
	if title, ok := ad.Title(); ok {
		t := title.Value()
		v.Title = &t
	}
	if text, ok := ad.Text(); ok {
		t := text.Value()
		v.Text = &t
	}
	if price, ok := ad.Price(); ok {
		amount := s.formatAmount(price)
		currency := string(price.Currency())
		v.Price = &amount
		v.Currency = &currency
	}
	return v
}

// formatAmount pads the amount to the currency's decimal places.
func (s *ClassifiedAdService) formatAmount(price domain.Price) string {
	details, err := s.lookup.FindCurrency(price.Currency())
	if err != nil {
		return price.Amount().String()
	}
	return price.Amount().StringFixed(details.DecimalPlaces)
}
