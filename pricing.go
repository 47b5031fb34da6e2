package main

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Age buckets derived from a lead's creation time. CABOOM_RETAIL is not an
// age bucket; it is the retail price column carried in the same table.
const (
	bucketYesterday = "YESTERDAY_72H"
	bucketDays4_14  = "DAYS_4_14"
	bucketDays15_30 = "DAYS_15_30"
	bucketDays31_90 = "DAYS_31_90"
	bucketDays91    = "DAYS_91_PLUS"
	bucketRetail    = "CABOOM_RETAIL"
	bucketAll       = "ALL"
)

// PricingTable maps normalized lead type -> bucket -> price.
type PricingTable map[string]map[string]float64

var defaultPricing = PricingTable{
	"final_expense": {
		bucketYesterday: 15.00, bucketDays4_14: 10.00, bucketDays15_30: 7.50, bucketDays31_90: 5.00, bucketDays91: 2.50,
		bucketRetail: 25.00,
	},
	"life": {
		bucketYesterday: 21.00, bucketDays4_14: 14.00, bucketDays15_30: 10.00, bucketDays31_90: 7.00, bucketDays91: 3.50,
		bucketRetail: 35.00,
	},
	"veteran_life": {
		bucketYesterday: 14.00, bucketDays4_14: 9.00, bucketDays15_30: 7.00, bucketDays31_90: 4.00, bucketDays91: 2.00,
		bucketRetail: 23.00,
	},
	"home": {
		bucketYesterday: 16.00, bucketDays4_14: 11.00, bucketDays15_30: 8.00, bucketDays31_90: 5.50, bucketDays91: 3.00,
		bucketRetail: 27.00,
	},
	"auto": {
		bucketYesterday: 16.00, bucketDays4_14: 11.00, bucketDays15_30: 8.00, bucketDays31_90: 5.50, bucketDays91: 3.00,
		bucketRetail: 27.00,
	},
	"medicare": {
		bucketYesterday: 15.00, bucketDays4_14: 10.00, bucketDays15_30: 7.50, bucketDays31_90: 5.00, bucketDays91: 2.50,
		bucketRetail: 25.00,
	},
	"health": {
		bucketYesterday: 16.00, bucketDays4_14: 11.00, bucketDays15_30: 8.00, bucketDays31_90: 5.50, bucketDays91: 3.00,
		bucketRetail: 27.00,
	},
	"retirement": {
		bucketYesterday: 29.00, bucketDays4_14: 19.00, bucketDays15_30: 14.00, bucketDays31_90: 9.00, bucketDays91: 4.50,
		bucketRetail: 50.00,
	},
}

// loadPricing parses a PRICING_JSON override. A malformed payload, a price
// that is not a number, or an empty result falls back to the defaults
// wholesale; entries whose value is not an object of prices are skipped.
func loadPricing(raw string) PricingTable {
	if raw == "" {
		return defaultPricing
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return defaultPricing
	}
	out := make(PricingTable, len(data))
	for k, v := range data {
		var prices map[string]any
		if err := json.Unmarshal(v, &prices); err != nil || prices == nil {
			continue
		}
		m := make(map[string]float64, len(prices))
		for b, p := range prices {
			f, ok := toPrice(p)
			if !ok {
				return defaultPricing
			}
			m[strings.ToUpper(strings.TrimSpace(b))] = f
		}
		out[strings.ToLower(strings.TrimSpace(k))] = m
	}
	if len(out) == 0 {
		return defaultPricing
	}
	return out
}

// toPrice coerces a decoded JSON price; feeds have been seen sending numbers
// as strings.
func toPrice(v any) (float64, bool) {
	switch p := v.(type) {
	case float64:
		return p, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		return f, err == nil
	}
	return 0, false
}

// PriceFor returns the price for a lead type in an age bucket, or nil when
// either is unknown or the bucket is ALL.
func (p PricingTable) PriceFor(leadType, bucket string) *float64 {
	b := normBucket(bucket)
	if b == bucketAll {
		return nil
	}
	m, ok := p[normType(leadType)]
	if !ok {
		return nil
	}
	price, ok := m[b]
	if !ok {
		return nil
	}
	return &price
}

// RetailFor returns the retail price for a lead type, or nil when unknown.
func (p PricingTable) RetailFor(leadType string) *float64 {
	m, ok := p[normType(leadType)]
	if !ok {
		return nil
	}
	price, ok := m[bucketRetail]
	if !ok {
		return nil
	}
	return &price
}
