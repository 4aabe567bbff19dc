package checkoutapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	formcodec "github.com/go-playground/form/v4"

	"github.com/MarcGrol/bogrelay/lib/myerrors"
)

const maxBodySize = 64 * 1024

// CheckoutRequest is what the storefront posts: one product, its price and the selected installment plan.
type CheckoutRequest struct {
	ProductID   FlexString `json:"productId" form:"productId"`
	ProductName string     `json:"productName" form:"productName"`
	Price       Price      `json:"price" form:"price"`
	Image       string     `json:"image" form:"image"`
	URL         string     `json:"url" form:"url"`
	PaymentType string     `json:"paymentType" form:"paymentType"`
	LoanMonth   FlexString `json:"loanMonth" form:"loanMonth"`
	Customer    *Customer  `json:"customer,omitempty" form:"customer"`
}

type Customer struct {
	Name           string `json:"name" form:"name"`
	Phone          string `json:"phone" form:"phone"`
	Email          string `json:"email" form:"email"`
	DeliveryMethod string `json:"deliveryMethod" form:"deliveryMethod"`
	Address        string `json:"address" form:"address"`
}

// FlexString accepts both a json string and a json number.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	value, _, err := unmarshalScalar(data)
	if err != nil {
		return err
	}
	*s = FlexString(value)
	return nil
}

func (s FlexString) String() string {
	return strings.TrimSpace(string(s))
}

// Price keeps the textual representation as sent. A json number is taken literally, a string is locale formatted.
type Price struct {
	Value    string
	IsNumber bool
}

func (p *Price) UnmarshalJSON(data []byte) error {
	value, isNumber, err := unmarshalScalar(data)
	if err != nil {
		return err
	}
	*p = Price{Value: value, IsNumber: isNumber}
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.IsNumber {
		return []byte(p.Value), nil
	}
	return json.Marshal(p.Value)
}

func (p Price) IsEmpty() bool {
	return strings.TrimSpace(p.Value) == ""
}

func unmarshalScalar(data []byte) (string, bool, error) {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return "", false, nil
	case trimmed[0] == '"':
		var s string
		err := json.Unmarshal(trimmed, &s)
		if err != nil {
			return "", false, err
		}
		return s, false, nil
	default:
		var n json.Number
		err := json.Unmarshal(trimmed, &n)
		if err != nil {
			return "", false, fmt.Errorf("expected string or number, got %s", string(trimmed))
		}
		return n.String(), true, nil
	}
}

// NewFromRequest decodes a json or a form-encoded checkout request.
func NewFromRequest(r *http.Request) (CheckoutRequest, error) {
	mediaType := "application/json"
	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return CheckoutRequest{}, myerrors.NewUnsupportedMediaTypeError(fmt.Errorf("invalid content-type %q", contentType))
		}
		mediaType = parsed
	}

	switch mediaType {
	case "application/json", "text/plain":
		return NewFromJSON(io.LimitReader(r.Body, maxBodySize))
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(nil, r.Body, maxBodySize)
		err := r.ParseForm()
		if err != nil {
			return CheckoutRequest{}, myerrors.NewInvalidInputError(fmt.Errorf("error parsing form: %s", err))
		}
		return NewFromValues(r.Form)
	default:
		return CheckoutRequest{}, myerrors.NewUnsupportedMediaTypeError(fmt.Errorf("unsupported content-type %q", mediaType))
	}
}

func NewFromJSON(reader io.Reader) (CheckoutRequest, error) {
	req := CheckoutRequest{}
	err := json.NewDecoder(reader).Decode(&req)
	if err != nil && err != io.EOF {
		return CheckoutRequest{}, myerrors.NewInvalidInputError(fmt.Errorf("error parsing json: %s", err))
	}
	return req, nil
}

func NewFromValues(values url.Values) (CheckoutRequest, error) {
	req := CheckoutRequest{}
	err := newFormDecoder().Decode(&req, values)
	if err != nil {
		return req, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err))
	}

	return req, nil
}

func newFormDecoder() *formcodec.Decoder {
	decoder := formcodec.NewDecoder()
	decoder.RegisterCustomTypeFunc(func(values []string) (interface{}, error) {
		return Price{Value: values[0]}, nil
	}, Price{})
	return decoder
}
