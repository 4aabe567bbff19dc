package checkoutapi

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/MarcGrol/bogrelay/lib/mytime"
)

type NormalizedOrder struct {
	ExternalOrderID string
	ProductID       string
	ProductName     string
	Image           string
	URL             string
	Price           decimal.Decimal
	Currency        string
	Months          int
	PlanType        PlanType
	PaymentMethod   string
	CallbackURL     string
	SuccessURL      string
	FailURL         string
	RejectURL       string
	Customer        *Customer
}

// OrderSettings holds the static parts of every order.
type OrderSettings struct {
	SourcePrefix string
	Currency     string
	CallbackURL  string
	SuccessURL   string
	FailURL      string
	RejectURL    string
}

type Translator struct {
	policy   PlanPolicy
	settings OrderSettings
	ids      *OrderIDGenerator
}

func NewTranslator(policy PlanPolicy, settings OrderSettings, nower mytime.Nower) *Translator {
	if settings.RejectURL == "" {
		settings.RejectURL = settings.FailURL
	}
	return &Translator{
		policy:   policy,
		settings: settings,
		ids:      NewOrderIDGenerator(settings.SourcePrefix, nower),
	}
}

// Translate validates the request and derives the order that is submitted to the processor.
// The callbackURL argument overrides the configured one when not empty.
func (t *Translator) Translate(req CheckoutRequest, callbackURL string) (NormalizedOrder, error) {
	if req.Price.IsEmpty() || req.LoanMonth.String() == "" || strings.TrimSpace(req.PaymentType) == "" {
		return NormalizedOrder{}, newValidationError(msgMissingDetails)
	}

	price, err := NormalizePrice(req.Price)
	if err != nil {
		return NormalizedOrder{}, err
	}

	requestedMonths, err := parseMonths(req.LoanMonth)
	if err != nil {
		return NormalizedOrder{}, err
	}

	plan, err := ParsePlanType(req.PaymentType)
	if err != nil {
		return NormalizedOrder{}, err
	}

	if callbackURL == "" {
		callbackURL = t.settings.CallbackURL
	}

	productID := req.ProductID.String()

	return NormalizedOrder{
		ExternalOrderID: t.ids.Next(productID),
		ProductID:       productID,
		ProductName:     strings.TrimSpace(req.ProductName),
		Image:           req.Image,
		URL:             req.URL,
		Price:           price,
		Currency:        t.settings.Currency,
		Months:          t.policy.Resolve(plan, requestedMonths),
		PlanType:        plan,
		PaymentMethod:   strings.ToLower(strings.TrimSpace(req.PaymentType)),
		CallbackURL:     callbackURL,
		SuccessURL:      t.settings.SuccessURL,
		FailURL:         t.settings.FailURL,
		RejectURL:       t.settings.RejectURL,
		Customer:        req.Customer,
	}, nil
}

const maxLoanMonths = 120

func parseMonths(months FlexString) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(months.String()))
	if err != nil || value <= 0 || value > maxLoanMonths {
		return 0, newValidationError(msgInvalidMonth)
	}
	return value, nil
}

// OrderIDGenerator creates "<prefix>-<productId>-<epochMillis>".
// Within one process the millis part strictly increases, so back-to-back ids never collide.
type OrderIDGenerator struct {
	prefix string
	nower  mytime.Nower
	last   atomic.Int64
}

func NewOrderIDGenerator(prefix string, nower mytime.Nower) *OrderIDGenerator {
	return &OrderIDGenerator{
		prefix: prefix,
		nower:  nower,
	}
}

func (g *OrderIDGenerator) Next(productID string) string {
	if productID == "" {
		productID = "unknown"
	}
	now := g.nower.Now().UnixMilli()
	for {
		last := g.last.Load()
		next := now
		if next <= last {
			next = last + 1
		}
		if g.last.CompareAndSwap(last, next) {
			return fmt.Sprintf("%s-%s-%d", g.prefix, productID, next)
		}
	}
}
