package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DashboardOptions carries the chart augmentation settings persisted with a
// dashboard. Each option bag has one fixed shape; unknown keys are rejected
// when decoding.
type DashboardOptions struct {
	Forecast ForecastOptions `json:"forecast"`
	Anomaly  AnomalyOptions  `json:"anomaly"`
}

// ForecastOptions configures model-forecast overlays for every panel.
type ForecastOptions struct {
	Enabled  bool `json:"enabled"`
	TimeStep int  `json:"time_step"` // seconds between forecast points
	Horizon  int  `json:"horizon"`   // number of forecast steps
}

// AnomalyOptions configures anomaly flagging on fetched series.
// LocalErrorThreshold is stored as a percentage (0-100) and normalized to a
// fraction only when a series request is built.
type AnomalyOptions struct {
	Enabled             bool    `json:"enabled"`
	LocalErrorThreshold float64 `json:"local_error_threshold"`
}

// UnmarshalJSON decodes options strictly: a payload carrying keys outside
// the declared shapes is rejected.
func (o *DashboardOptions) UnmarshalJSON(data []byte) error {
	type plain DashboardOptions
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var p plain
	if err := dec.Decode(&p); err != nil {
		return fmt.Errorf("invalid dashboard options: %w", err)
	}
	*o = DashboardOptions(p)
	return nil
}

// ContactType identifies the delivery channel of a notification contact
// point.
type ContactType string

const (
	ContactTypeEmail   ContactType = "email"
	ContactTypeSMS     ContactType = "sms"
	ContactTypeWebhook ContactType = "webhook"
)

// ContactConfig is the per-channel settings variant of a notification
// contact point. Exactly one of the variant fields is set, selected by Type.
type ContactConfig struct {
	Type    ContactType    `json:"type"`
	Email   *EmailConfig   `json:"email,omitempty"`
	SMS     *SMSConfig     `json:"sms,omitempty"`
	Webhook *WebhookConfig `json:"webhook,omitempty"`
}

type EmailConfig struct {
	Addresses []string `json:"addresses"`
}

type SMSConfig struct {
	PhoneNumber string `json:"phone_number"`
}

type WebhookConfig struct {
	URL    string `json:"url"`
	Method string `json:"method,omitempty"`
}

// NewContactConfig builds a validated contact config from a channel type and
// its raw settings payload, rejecting unknown types and unknown keys.
func NewContactConfig(typ ContactType, raw json.RawMessage) (*ContactConfig, error) {
	cfg := &ContactConfig{Type: typ}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	switch typ {
	case ContactTypeEmail:
		var v EmailConfig
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("invalid email configuration: %w", err)
		}
		cfg.Email = &v
	case ContactTypeSMS:
		var v SMSConfig
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("invalid sms configuration: %w", err)
		}
		cfg.SMS = &v
	case ContactTypeWebhook:
		var v WebhookConfig
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("invalid webhook configuration: %w", err)
		}
		cfg.Webhook = &v
	default:
		return nil, fmt.Errorf("unknown contact type: %q", typ)
	}
	return cfg, nil
}
