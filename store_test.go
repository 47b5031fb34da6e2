package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *LeadStore {
	t.Helper()
	s, err := OpenLeadStore(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func insertLead(t *testing.T, s *LeadStore, ageDays int, leadType, state, zip5, status string) *Lead {
	t.Helper()
	l := &Lead{
		CreatedAt:    testNow.AddDate(0, 0, -ageDays),
		LeadTypeNorm: leadType,
		State:        state,
		ZipCode:      zip5,
		Zip5:         zip5,
		Status:       status,
	}
	require.NoError(t, s.Insert(context.Background(), l))
	return l
}

func search(t *testing.T, s *LeadStore, req SearchRequest) *SearchResult {
	t.Helper()
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = 25
	}
	res, err := s.Search(context.Background(), req, defaultPricing, testNow)
	require.NoError(t, err)
	return res
}

func TestStoreCountAndSample(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	sample, err := s.Sample(ctx)
	require.NoError(t, err)
	require.Nil(t, sample)

	want := insertLead(t, s, 1, "life", "TX", "75001", "Available")
	require.NotZero(t, want.ID)

	n, err = s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	sample, err = s.Sample(ctx)
	require.NoError(t, err)
	require.NotNil(t, sample)
	require.Equal(t, want.ID, sample.ID)
	require.Equal(t, "life", sample.LeadTypeNorm)
	require.True(t, sample.CreatedAt.Equal(want.CreatedAt))
}

func TestStoreLeadTypes(t *testing.T) {
	s := newTestStore(t)

	insertLead(t, s, 1, "life", "TX", "75001", "Available")
	insertLead(t, s, 2, "auto", "CA", "90210", "Available")
	insertLead(t, s, 3, "life", "FL", "33101", "Sold")
	insertLead(t, s, 4, "", "FL", "33101", "Available")

	types, err := s.LeadTypes(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"auto", "life"}, types)
}

func TestSearchInventoryAlwaysShows(t *testing.T) {
	s := newTestStore(t)

	insertLead(t, s, 1, "life", "TX", "75001", "Sold")
	insertLead(t, s, 2, "auto", "CA", "90210", "Sold")

	// a boost selector that matches nothing still returns everything
	res := search(t, s, SearchRequest{LeadTypeNorm: "medicare"})
	require.Equal(t, 2, res.Total)
	require.Len(t, res.Items, 2)
}

func TestSearchOnlyAvailableFilters(t *testing.T) {
	s := newTestStore(t)

	insertLead(t, s, 1, "life", "TX", "75001", "Available")
	insertLead(t, s, 2, "auto", "CA", "90210", "Sold")

	res := search(t, s, SearchRequest{OnlyAvailable: true})
	require.Equal(t, 1, res.Total)
	require.Len(t, res.Items, 1)
	require.Equal(t, "Available", res.Items[0].Status)
}

func TestSearchTypeBoostOutranksRecency(t *testing.T) {
	s := newTestStore(t)

	insertLead(t, s, 1, "auto", "CA", "90210", "Sold")
	old := insertLead(t, s, 60, "life", "TX", "75001", "Sold")

	res := search(t, s, SearchRequest{LeadTypeNorm: " LIFE "})
	require.Len(t, res.Items, 2)
	require.Equal(t, old.ID, res.Items[0].ID)
}

func TestSearchAvailableFloatsOnTies(t *testing.T) {
	s := newTestStore(t)

	insertLead(t, s, 5, "life", "TX", "75001", "Sold")
	avail := insertLead(t, s, 9, "life", "TX", "75002", "Available")

	res := search(t, s, SearchRequest{})
	require.Len(t, res.Items, 2)
	require.Equal(t, avail.ID, res.Items[0].ID)
}

func TestSearchZipBoost(t *testing.T) {
	s := newTestStore(t)

	insertLead(t, s, 1, "life", "TX", "75001", "Sold")
	match := insertLead(t, s, 10, "life", "TX", "75002", "Sold")

	res := search(t, s, SearchRequest{Zip: "75002-1234"})
	require.Equal(t, match.ID, res.Items[0].ID)
}

func TestSearchBucketBoost(t *testing.T) {
	s := newTestStore(t)

	insertLead(t, s, 1, "life", "TX", "75001", "Sold")
	older := insertLead(t, s, 20, "life", "TX", "75002", "Sold")

	res := search(t, s, SearchRequest{Bucket: "15_30"})
	require.Equal(t, older.ID, res.Items[0].ID)
	require.Equal(t, "DAYS_15_30", res.Items[0].ComputedBucket)
}

func TestSearchComputedBuckets(t *testing.T) {
	s := newTestStore(t)

	ages := map[int]string{
		0:   "YESTERDAY_72H",
		3:   "YESTERDAY_72H",
		4:   "DAYS_4_14",
		14:  "DAYS_4_14",
		15:  "DAYS_15_30",
		30:  "DAYS_15_30",
		31:  "DAYS_31_90",
		90:  "DAYS_31_90",
		91:  "DAYS_91_PLUS",
		400: "DAYS_91_PLUS",
	}
	byAge := map[int64]int{}
	for age := range ages {
		l := insertLead(t, s, age, "life", "TX", "75001", "Sold")
		byAge[l.ID] = age
	}

	res := search(t, s, SearchRequest{Limit: 200})
	require.Len(t, res.Items, len(ages))
	for _, item := range res.Items {
		age := byAge[item.ID]
		require.Equal(t, ages[age], item.ComputedBucket, "age %d days", age)
	}
}

func TestSearchPricingFields(t *testing.T) {
	s := newTestStore(t)

	insertLead(t, s, 10, "life", "TX", "75001", "Available")
	insertLead(t, s, 10, "mystery", "TX", "75001", "Available")

	res := search(t, s, SearchRequest{})
	require.Len(t, res.Items, 2)
	for _, item := range res.Items {
		switch item.LeadTypeNorm {
		case "life":
			require.NotNil(t, item.Price)
			require.Equal(t, 14.0, *item.Price) // life DAYS_4_14
			require.NotNil(t, item.CaboomRetail)
			require.Equal(t, 35.0, *item.CaboomRetail)
		case "mystery":
			require.Nil(t, item.Price)
			require.Nil(t, item.CaboomRetail)
		}
	}
}

func TestSearchPagination(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		insertLead(t, s, i+1, "life", "TX", "75001", "Sold")
	}

	page1 := search(t, s, SearchRequest{Page: 1, Limit: 2})
	require.Equal(t, 5, page1.Total)
	require.Len(t, page1.Items, 2)

	page3 := search(t, s, SearchRequest{Page: 3, Limit: 2})
	require.Equal(t, 5, page3.Total)
	require.Len(t, page3.Items, 1)

	// newest first when scores tie
	require.True(t, page1.Items[0].CreatedAt.After(page1.Items[1].CreatedAt))

	seen := map[int64]bool{}
	for _, res := range []*SearchResult{page1, search(t, s, SearchRequest{Page: 2, Limit: 2}), page3} {
		for _, item := range res.Items {
			require.False(t, seen[item.ID])
			seen[item.ID] = true
		}
	}
	require.Len(t, seen, 5)
}
