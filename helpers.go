package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// normState normalizes a state selector to trimmed upper case.
func normState(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// normZip keeps only digits and truncates to the first five.
func normZip(v string) string {
	var b strings.Builder
	for _, ch := range strings.TrimSpace(v) {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	z := b.String()
	if len(z) >= 5 {
		return z[:5]
	}
	return z
}

// normType normalizes a lead type selector; the viewer sends strings like
// "final_expense" / "veteran_life".
func normType(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

var bucketAliases = map[string]string{
	"YESTERDAY_72": bucketYesterday,
	"YESTERDAY":    bucketYesterday,
	"4_14":         bucketDays4_14,
	"15_30":        bucketDays15_30,
	"31_90":        bucketDays31_90,
	"91_PLUS":      bucketDays91,
}

// normBucket canonicalizes a bucket selector. Empty or ALL means no bucket
// boost; unknown values pass through uppercased.
func normBucket(v string) string {
	b := strings.ToUpper(strings.TrimSpace(v))
	if b == "" || b == bucketAll {
		return bucketAll
	}
	if canon, ok := bucketAliases[b]; ok {
		return canon
	}
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encoding response", zap.Error(err))
	}
}
