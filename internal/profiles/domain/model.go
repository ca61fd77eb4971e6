package domain

import "time"

// StartupProfile is the persisted record of a user's company attributes
// used to drive KPI generation. At most one profile exists per user;
// that invariant is checked by query-then-insert, not enforced by the
// store (see repository notes).
type StartupProfile struct {
	StartupID       string    `json:"startup_id"`
	UserID          string    `json:"user_id"`
	CompanyName     string    `json:"company_name"`
	IndustrySector  string    `json:"industry_sector"`
	BusinessModel   string    `json:"business_model"`
	CustomerSegment []string  `json:"customer_segment"`
	GeographicFocus string    `json:"geographic_focus"`
	CurrencyType    string    `json:"currency_type"`
	Stage           string    `json:"stage"`
	StrategicFocus  []string  `json:"strategic_focus"`
	CustomPrompt    string    `json:"custom_prompt"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProfileAttrs carries the mutable attributes of a profile, as received
// from the profile form. Timestamps are stamped at the persistence call
// site.
type ProfileAttrs struct {
	CompanyName     string   `json:"company_name"`
	IndustrySector  string   `json:"industry_sector"`
	BusinessModel   string   `json:"business_model"`
	CustomerSegment []string `json:"customer_segment"`
	GeographicFocus string   `json:"geographic_focus"`
	CurrencyType    string   `json:"currency_type"`
	Stage           string   `json:"stage"`
	StrategicFocus  []string `json:"strategic_focus"`
	CustomPrompt    string   `json:"custom_prompt"`
}

// Validate checks the same required-field rules the profile form
// enforces before any network call.
func (a ProfileAttrs) Validate() error {
	switch {
	case a.CompanyName == "":
		return ErrMissingField("company_name")
	case a.IndustrySector == "":
		return ErrMissingField("industry_sector")
	case a.BusinessModel == "":
		return ErrMissingField("business_model")
	case len(a.CustomerSegment) == 0:
		return ErrMissingField("customer_segment")
	case a.GeographicFocus == "":
		return ErrMissingField("geographic_focus")
	case a.CurrencyType == "":
		return ErrMissingField("currency_type")
	case a.Stage == "":
		return ErrMissingField("stage")
	case len(a.StrategicFocus) == 0:
		return ErrMissingField("strategic_focus")
	case len(a.CustomPrompt) < 10:
		return ErrMissingField("custom_prompt")
	}
	return nil
}
