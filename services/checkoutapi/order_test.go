package checkoutapi

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/bogrelay/lib/mytime"
)

var settings = OrderSettings{
	SourcePrefix: "shopify",
	Currency:     "GEL",
	CallbackURL:  "https://relay.example.com/callback",
	SuccessURL:   "https://smartdoor.ge/pages/bog-success",
	FailURL:      "https://smartdoor.ge/pages/bog-fail",
}

func TestTranslate(t *testing.T) {
	t.Run("standard plan", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		nower := mytime.NewMockNower(ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		order, err := NewTranslator(DefaultPlanPolicy(), settings, nower).Translate(CheckoutRequest{
			ProductID:   "8123",
			ProductName: " Smart lock ",
			Price:       Price{Value: "500"},
			PaymentType: "standard",
			LoanMonth:   "6",
		}, "")
		require.NoError(t, err)

		assert.Equal(t, "shopify-8123-1677542339000", order.ExternalOrderID)
		assert.Equal(t, "Smart lock", order.ProductName)
		assert.Equal(t, "500.00", order.Price.StringFixed(2))
		assert.Equal(t, 6, order.Months)
		assert.Equal(t, PlanTypeStandard, order.PlanType)
		assert.Equal(t, "standard", order.PaymentMethod)
		assert.Equal(t, "GEL", order.Currency)
		assert.Equal(t, "https://relay.example.com/callback", order.CallbackURL)
		assert.Equal(t, "https://smartdoor.ge/pages/bog-success", order.SuccessURL)
		assert.Equal(t, "https://smartdoor.ge/pages/bog-fail", order.FailURL)
		assert.Equal(t, "https://smartdoor.ge/pages/bog-fail", order.RejectURL)
	})

	t.Run("zero-interest plan ignores requested months", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		nower := mytime.NewMockNower(ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		order, err := NewTranslator(DefaultPlanPolicy(), settings, nower).Translate(CheckoutRequest{
			ProductID:   "8123",
			Price:       Price{Value: "500"},
			PaymentType: "bnpl",
			LoanMonth:   "12",
		}, "https://other.example.com/callback")
		require.NoError(t, err)

		assert.Equal(t, 4, order.Months)
		assert.Equal(t, PlanTypeZeroInterest, order.PlanType)
		assert.Equal(t, "bnpl", order.PaymentMethod)
		assert.Equal(t, "https://other.example.com/callback", order.CallbackURL)
	})

	t.Run("standard plan below minimum", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		nower := mytime.NewMockNower(ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		order, err := NewTranslator(PlanPolicy{ZeroInterestMonths: 4, StandardMinMonths: 5}, settings, nower).Translate(CheckoutRequest{
			Price:       Price{Value: "500"},
			PaymentType: "bog_loan",
			LoanMonth:   "3",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, 5, order.Months)
		assert.Equal(t, "shopify-unknown-1677542339000", order.ExternalOrderID)
	})

	t.Run("validation errors", func(t *testing.T) {
		testCases := []struct {
			name string
			req  CheckoutRequest
			msg  string
		}{
			{name: "missing price", req: CheckoutRequest{PaymentType: "bnpl", LoanMonth: "4"}, msg: "Missing price or installment details."},
			{name: "missing month", req: CheckoutRequest{Price: Price{Value: "500"}, PaymentType: "bnpl"}, msg: "Missing price or installment details."},
			{name: "missing plan", req: CheckoutRequest{Price: Price{Value: "500"}, LoanMonth: "4"}, msg: "Missing price or installment details."},
			{name: "invalid price", req: CheckoutRequest{Price: Price{Value: "abc"}, PaymentType: "bnpl", LoanMonth: "4"}, msg: "Invalid price."},
			{name: "zero month", req: CheckoutRequest{Price: Price{Value: "500"}, PaymentType: "bnpl", LoanMonth: "0"}, msg: "Invalid installment month."},
			{name: "fractional month", req: CheckoutRequest{Price: Price{Value: "500"}, PaymentType: "bnpl", LoanMonth: "2.5"}, msg: "Invalid installment month."},
			{name: "exponent month", req: CheckoutRequest{Price: Price{Value: "500"}, PaymentType: "standard", LoanMonth: "1e60000000"}, msg: "Invalid installment month."},
			{name: "overflowing month", req: CheckoutRequest{Price: Price{Value: "500"}, PaymentType: "standard", LoanMonth: "99999999999999999999"}, msg: "Invalid installment month."},
			{name: "month beyond any loan term", req: CheckoutRequest{Price: Price{Value: "500"}, PaymentType: "standard", LoanMonth: "121"}, msg: "Invalid installment month."},
			{name: "exponent price", req: CheckoutRequest{Price: Price{Value: "1e60000000", IsNumber: true}, PaymentType: "standard", LoanMonth: "6"}, msg: "Invalid price."},
			{name: "unknown plan", req: CheckoutRequest{Price: Price{Value: "500"}, PaymentType: "crypto", LoanMonth: "4"}, msg: "Unknown payment type."},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				ctrl := gomock.NewController(t)
				nower := mytime.NewMockNower(ctrl) // never called: no id for invalid requests

				_, err := NewTranslator(DefaultPlanPolicy(), settings, nower).Translate(tc.req, "")
				require.Error(t, err)
				assert.IsType(t, &ValidationError{}, err)
				assert.Equal(t, tc.msg, err.Error())
			})
		}
	})
}

func TestOrderIDsAreUnique(t *testing.T) {
	t.Run("same millisecond", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		nower := mytime.NewMockNower(ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime).Times(2)

		generator := NewOrderIDGenerator("shopify", nower)
		first := generator.Next("8123")
		second := generator.Next("8123")

		assert.Equal(t, "shopify-8123-1677542339000", first)
		assert.Equal(t, "shopify-8123-1677542339001", second)
	})

	t.Run("clock moves forward", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		nower := mytime.NewMockNower(ctrl)
		gomock.InOrder(
			nower.EXPECT().Now().Return(mytime.ExampleTime),
			nower.EXPECT().Now().Return(mytime.ExampleTime.Add(time.Second)),
		)

		generator := NewOrderIDGenerator("shopify", nower)
		assert.Equal(t, "shopify-8123-1677542339000", generator.Next("8123"))
		assert.Equal(t, "shopify-8123-1677542340000", generator.Next("8123"))
	})

	t.Run("real clock back-to-back", func(t *testing.T) {
		generator := NewOrderIDGenerator("shopify", mytime.RealNower{})
		seen := map[string]bool{}
		for i := 0; i < 1000; i++ {
			id := generator.Next("8123")
			assert.False(t, seen[id], id)
			seen[id] = true
		}
	})
}

func TestTranslateRejectsExponentNumbersFromJSON(t *testing.T) {
	for _, body := range []string{
		`{"productId":"8123","price":1e60000000,"paymentType":"standard","loanMonth":"6"}`,
		`{"productId":"8123","price":"500","paymentType":"standard","loanMonth":1e60000000}`,
	} {
		ctrl := gomock.NewController(t)
		req, err := NewFromJSON(strings.NewReader(body))
		require.NoError(t, err)

		started := time.Now()
		_, err = NewTranslator(DefaultPlanPolicy(), settings, mytime.NewMockNower(ctrl)).Translate(req, "")
		assert.IsType(t, &ValidationError{}, err, body)
		assert.Less(t, time.Since(started), time.Second, body)
	}
}
