package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ManuelReschke/YayaHook/app/models"
)

// Payload field names as sent by the provider.
const (
	FieldID            = "id"
	FieldAmount        = "amount"
	FieldCurrency      = "currency"
	FieldCreatedAtTime = "created_at_time"
	FieldTimestamp     = "timestamp"
	FieldCause         = "cause"
	FieldFullName      = "full_name"
	FieldAccountName   = "account_name"
	FieldInvoiceURL    = "invoice_url"
)

// RequiredFields lists the fields every event must carry, in the order they
// are checked.
var RequiredFields = []string{
	FieldID,
	FieldAmount,
	FieldCurrency,
	FieldCreatedAtTime,
	FieldTimestamp,
	FieldCause,
	FieldFullName,
	FieldAccountName,
	FieldInvoiceURL,
}

// maxEpoch is 9999-12-31T23:59:59Z, the upper bound of a MySQL DATETIME.
const maxEpoch = 253402300799

// Fields is the raw decoded payload. Values are string, bool or json.Number.
type Fields map[string]any

// Event is the typed view of Fields after validation.
type Event struct {
	ID            string          `json:"id" validate:"required,max=255"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"len=3,alpha"`
	CreatedAtTime int64           `json:"created_at_time" validate:"min=0,max=253402300799"`
	Timestamp     int64           `json:"timestamp" validate:"min=0,max=253402300799"`
	Cause         string          `json:"cause"`
	FullName      string          `json:"full_name" validate:"max=255"`
	AccountName   string          `json:"account_name" validate:"max=255"`
	InvoiceURL    string          `json:"invoice_url" validate:"required,url,max=2048"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseFields decodes body into a flat JSON object. Numbers keep their exact
// textual form so that the canonical payload matches what the sender signed.
func ParseFields(body []byte) (Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, newError(KindMalformedPayload, "", err)
	}
	if raw == nil {
		return nil, newError(KindMalformedPayload, "", errors.New("payload is not an object"))
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, newError(KindMalformedPayload, "", errors.New("trailing data after object"))
	}

	for key, val := range raw {
		switch val.(type) {
		case string, json.Number, bool:
		default:
			return nil, newError(KindMalformedPayload, key, fmt.Errorf("field %q is not a scalar", key))
		}
	}
	return Fields(raw), nil
}

// Validate checks presence and types of the required fields and returns the
// typed event.
func (f Fields) Validate() (Event, error) {
	for _, name := range RequiredFields {
		if _, ok := f[name]; !ok {
			return Event{}, newError(KindMissingField, name, nil)
		}
	}

	var (
		ev  Event
		err error
	)
	if ev.ID, err = f.stringField(FieldID); err != nil {
		return Event{}, err
	}
	if ev.Amount, err = f.decimalField(FieldAmount); err != nil {
		return Event{}, err
	}
	if ev.Currency, err = f.stringField(FieldCurrency); err != nil {
		return Event{}, err
	}
	if ev.CreatedAtTime, err = f.epochField(FieldCreatedAtTime); err != nil {
		return Event{}, err
	}
	if ev.Timestamp, err = f.epochField(FieldTimestamp); err != nil {
		return Event{}, err
	}
	if ev.Cause, err = f.stringField(FieldCause); err != nil {
		return Event{}, err
	}
	if ev.FullName, err = f.stringField(FieldFullName); err != nil {
		return Event{}, err
	}
	if ev.AccountName, err = f.stringField(FieldAccountName); err != nil {
		return Event{}, err
	}
	if ev.InvoiceURL, err = f.stringField(FieldInvoiceURL); err != nil {
		return Event{}, err
	}

	if err := validate.Struct(ev); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Event{}, newError(KindMalformedPayload, verrs[0].Field(), err)
		}
		return Event{}, newError(KindMalformedPayload, "", err)
	}
	return ev, nil
}

func (f Fields) stringField(name string) (string, error) {
	s, ok := f[name].(string)
	if !ok {
		return "", newError(KindMalformedPayload, name, fmt.Errorf("%s must be a string", name))
	}
	return s, nil
}

// decimalField accepts a JSON number or a numeric string and enforces the
// DECIMAL(10,2) column range.
func (f Fields) decimalField(name string) (decimal.Decimal, error) {
	var text string
	switch v := f[name].(type) {
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
	default:
		return decimal.Zero, newError(KindMalformedPayload, name, fmt.Errorf("%s must be a number", name))
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, newError(KindMalformedPayload, name, err)
	}
	if d.IsNegative() {
		return decimal.Zero, newError(KindMalformedPayload, name, fmt.Errorf("%s must not be negative", name))
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, newError(KindMalformedPayload, name, fmt.Errorf("%s has more than 2 decimal places", name))
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, newError(KindMalformedPayload, name, fmt.Errorf("%s exceeds %s", name, maxAmount))
	}
	return d, nil
}

var maxAmount = decimal.New(1, 8)

func (f Fields) epochField(name string) (int64, error) {
	n, ok := f[name].(json.Number)
	if !ok {
		return 0, newError(KindMalformedPayload, name, fmt.Errorf("%s must be a number", name))
	}
	secs, err := n.Int64()
	if err != nil {
		return 0, newError(KindMalformedPayload, name, fmt.Errorf("%s must be whole epoch seconds: %w", name, err))
	}
	return secs, nil
}

// Transaction converts the event into its durable record.
func (e Event) Transaction() (*models.Transaction, error) {
	createdAt, err := epochToTime(FieldCreatedAtTime, e.CreatedAtTime)
	if err != nil {
		return nil, err
	}
	sentAt, err := epochToTime(FieldTimestamp, e.Timestamp)
	if err != nil {
		return nil, err
	}
	return &models.Transaction{
		TransactionID: e.ID,
		Amount:        e.Amount,
		Currency:      e.Currency,
		CreatedAtTime: createdAt,
		Timestamp:     sentAt,
		Cause:         e.Cause,
		FullName:      e.FullName,
		AccountName:   e.AccountName,
		InvoiceURL:    e.InvoiceURL,
	}, nil
}

func epochToTime(field string, secs int64) (time.Time, error) {
	if secs < 0 || secs > maxEpoch {
		return time.Time{}, newError(KindMalformedPayload, field, fmt.Errorf("%s out of range: %d", field, secs))
	}
	return time.Unix(secs, 0).UTC(), nil
}
