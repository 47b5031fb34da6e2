package main

import (
	"errors"
	"time"
)

// Lead is one inventory row. zip_code stays TEXT because upstream feeds send
// it as either a string or a number; zip5 is the pre-normalized form.
type Lead struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	LeadTypeNorm string    `json:"lead_type_norm"`
	State        string    `json:"state"`
	ZipCode      string    `json:"zip_code,omitempty"`
	Zip5         string    `json:"zip5,omitempty"`
	Status       string    `json:"status,omitempty"`
	FullName     string    `json:"full_name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	City         string    `json:"city,omitempty"`
}

// SearchItem is a Lead enriched with ranking-derived fields exposed to the
// viewer. The internal score never leaves the store.
type SearchItem struct {
	Lead
	ComputedBucket string   `json:"computed_bucket"`
	Price          *float64 `json:"price"`
	CaboomRetail   *float64 `json:"caboom_retail"`
}

// SearchRequest carries boost selectors. They do not filter inventory; they
// only affect ranking. only_available is the one hard filter. Pagination is
// assumed validated; handlers build it through searchPayload.toRequest.
type SearchRequest struct {
	LeadTypeNorm  string
	State         string
	Zip           string
	Bucket        string
	Page          int
	Limit         int
	OnlyAvailable bool
}

// searchPayload is the wire form of a search request. Pagination fields are
// pointers so absent fields get defaults while explicit out-of-range values
// are rejected.
type searchPayload struct {
	LeadTypeNorm  string `json:"lead_type_norm"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
	Bucket        string `json:"bucket"`
	Page          *int   `json:"page"`
	Limit         *int   `json:"limit"`
	OnlyAvailable bool   `json:"only_available"`
}

// toRequest validates pagination and fills defaults.
func (p *searchPayload) toRequest() (SearchRequest, error) {
	req := SearchRequest{
		LeadTypeNorm:  p.LeadTypeNorm,
		State:         p.State,
		Zip:           p.Zip,
		Bucket:        p.Bucket,
		Page:          1,
		Limit:         25,
		OnlyAvailable: p.OnlyAvailable,
	}
	if p.Page != nil {
		if *p.Page < 1 {
			return SearchRequest{}, errors.New("page must be >= 1")
		}
		req.Page = *p.Page
	}
	if p.Limit != nil {
		if *p.Limit < 1 || *p.Limit > 200 {
			return SearchRequest{}, errors.New("limit must be between 1 and 200")
		}
		req.Limit = *p.Limit
	}
	if req.Bucket == "" {
		req.Bucket = bucketAll
	}
	return req, nil
}

// Boosts echoes the normalized selectors back to the caller; nil means the
// selector was absent or normalized to nothing.
type Boosts struct {
	LeadTypeNorm *string `json:"lead_type_norm"`
	State        *string `json:"state"`
	Zip          *string `json:"zip"`
	Bucket       string  `json:"bucket"`
}

type SearchResponse struct {
	OK         bool           `json:"ok"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	Total      int            `json:"total"`
	Items      []SearchItem   `json:"items"`
	Collection string         `json:"collection"`
	Boosts     Boosts         `json:"boosts"`
	BaseMatch  map[string]any `json:"base_match"`
}
