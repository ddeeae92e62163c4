package search

import (
	"context"
	"errors"
	"testing"

	"prospecta-service/internal/domain/company"
	"prospecta-service/internal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockCompanyStore implements CompanyStore for testing
type MockCompanyStore struct {
	searchPage func(context.Context, *search.Predicate, int, int) ([]company.Company, bool, error)
	count      func(context.Context, *search.Predicate) (int64, error)
	create     func(context.Context, *company.Company) error
}

func (m *MockCompanyStore) SearchPage(ctx context.Context, pred *search.Predicate, pageSize, offset int) ([]company.Company, bool, error) {
	return m.searchPage(ctx, pred, pageSize, offset)
}

func (m *MockCompanyStore) Count(ctx context.Context, pred *search.Predicate) (int64, error) {
	return m.count(ctx, pred)
}

func (m *MockCompanyStore) Create(ctx context.Context, c *company.Company) error {
	return m.create(ctx, c)
}

func TestSearchEmptyTermShortCircuits(t *testing.T) {
	store := &MockCompanyStore{
		searchPage: func(context.Context, *search.Predicate, int, int) ([]company.Company, bool, error) {
			t.Fatal("storage must not be queried for an empty term")
			return nil, false, nil
		},
	}
	svc := NewSearchService(store, zaptest.NewLogger(t))

	result, err := svc.Search(context.Background(), &company.SearchRequest{Term: "   "})

	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.False(t, result.HasMore)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, DefaultPageSize, result.PageSize)
}

func TestSearchClampsPaging(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPageSize int
		wantOffset   int
	}{
		{name: "defaults", page: 0, pageSize: 0, wantPageSize: 50, wantOffset: 0},
		{name: "oversized page size capped", page: 1, pageSize: 1000, wantPageSize: 100, wantOffset: 0},
		{name: "offset from page", page: 3, pageSize: 20, wantPageSize: 20, wantOffset: 40},
		{name: "negative page", page: -4, pageSize: 10, wantPageSize: 10, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPageSize, gotOffset int
			store := &MockCompanyStore{
				searchPage: func(_ context.Context, _ *search.Predicate, pageSize, offset int) ([]company.Company, bool, error) {
					gotPageSize, gotOffset = pageSize, offset
					return []company.Company{}, false, nil
				},
			}
			svc := NewSearchService(store, zaptest.NewLogger(t))

			_, err := svc.Search(context.Background(), &company.SearchRequest{
				Term:     "6821801",
				Page:     tt.page,
				PageSize: tt.pageSize,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantPageSize, gotPageSize)
			assert.Equal(t, tt.wantOffset, gotOffset)
		})
	}
}

func TestSearchReturnsRowsAndHasMore(t *testing.T) {
	rows := []company.Company{{ID: 1}, {ID: 2}}
	store := &MockCompanyStore{
		searchPage: func(context.Context, *search.Predicate, int, int) ([]company.Company, bool, error) {
			return rows, true, nil
		},
	}
	svc := NewSearchService(store, zaptest.NewLogger(t))

	result, err := svc.Search(context.Background(), &company.SearchRequest{Term: "6821801"})

	require.NoError(t, err)
	assert.Equal(t, rows, result.Rows)
	assert.True(t, result.HasMore)
}

func TestSearchPropagatesStorageError(t *testing.T) {
	storeErr := errors.New("connection refused")
	store := &MockCompanyStore{
		searchPage: func(context.Context, *search.Predicate, int, int) ([]company.Company, bool, error) {
			return nil, false, storeErr
		},
	}
	svc := NewSearchService(store, zaptest.NewLogger(t))

	_, err := svc.Search(context.Background(), &company.SearchRequest{Term: "6821801"})

	assert.ErrorIs(t, err, storeErr)
}

func TestCountEmptyTermIsZero(t *testing.T) {
	store := &MockCompanyStore{
		count: func(context.Context, *search.Predicate) (int64, error) {
			t.Fatal("storage must not be queried for an empty term")
			return 0, nil
		},
	}
	svc := NewSearchService(store, zaptest.NewLogger(t))

	total, err := svc.Count(context.Background(), "", "", false)

	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCountUsesSamePredicateAsSearch(t *testing.T) {
	// The count query and the page query must agree on which rows match:
	// identical filter inputs produce an identical predicate for both.
	var searchPred, countPred *search.Predicate
	store := &MockCompanyStore{
		searchPage: func(_ context.Context, pred *search.Predicate, _, _ int) ([]company.Company, bool, error) {
			searchPred = pred
			return []company.Company{}, false, nil
		},
		count: func(_ context.Context, pred *search.Predicate) (int64, error) {
			countPred = pred
			return 0, nil
		},
	}
	svc := NewSearchService(store, zaptest.NewLogger(t))

	_, err := svc.Search(context.Background(), &company.SearchRequest{
		Term: "6821801,6822600", Region: "SP", IncludeSecondary: true,
	})
	require.NoError(t, err)

	_, err = svc.Count(context.Background(), "6821801,6822600", "SP", true)
	require.NoError(t, err)

	require.NotNil(t, searchPred)
	require.NotNil(t, countPred)
	assert.Equal(t, searchPred.Where(), countPred.Where())
	assert.Equal(t, searchPred.Args(), countPred.Args())
}

func TestCreateCompanyNormalizesFields(t *testing.T) {
	var created *company.Company
	store := &MockCompanyStore{
		create: func(_ context.Context, c *company.Company) error {
			c.ID = 42
			created = c
			return nil
		},
	}
	svc := NewSearchService(store, zaptest.NewLogger(t))

	got, err := svc.CreateCompany(context.Background(), &company.CreateCompanyRequest{
		RazaoSocial:   "Nova Empresa",
		CNAEPrincipal: "6821-8/01",
		Estado:        " sp ",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, "6821801", created.CNAEPrincipal.String)
	assert.Equal(t, "SP", created.Estado.String)
	assert.False(t, created.CNPJ.Valid)
}
