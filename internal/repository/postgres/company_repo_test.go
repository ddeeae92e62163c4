package postgres

import (
	"context"
	"strings"
	"testing"

	"prospecta-service/internal/search"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubQuerier serves company ids windowed by the LIMIT/OFFSET arguments the
// repository appends after the predicate arguments.
type stubQuerier struct {
	ids      []int64
	total    int64
	lastSQL  string
	lastArgs []any
}

func (s *stubQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.lastSQL = sql
	s.lastArgs = args

	limit := args[len(args)-2].(int)
	offset := args[len(args)-1].(int)

	ids := s.ids
	if offset >= len(ids) {
		ids = nil
	} else {
		ids = ids[offset:]
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}

	return &stubRows{ids: ids}, nil
}

func (s *stubQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	s.lastSQL = sql
	s.lastArgs = args
	return stubRow{total: s.total}
}

func (s *stubQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

type stubRows struct {
	ids []int64
	idx int
}

func (r *stubRows) Close()                                       {}
func (r *stubRows) Err() error                                   { return nil }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Values() ([]any, error)                       { return nil, nil }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

func (r *stubRows) Next() bool {
	r.idx++
	return r.idx <= len(r.ids)
}

func (r *stubRows) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.ids[r.idx-1]
	return nil
}

type stubRow struct {
	total int64
}

func (r stubRow) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.total
	return nil
}

func searchPredicate(t *testing.T, term string) *search.Predicate {
	t.Helper()
	return search.Build(search.Filter{Term: search.Normalize(term)})
}

func TestSearchPageOverFetch(t *testing.T) {
	tests := []struct {
		name        string
		ids         []int64
		pageSize    int
		offset      int
		wantIDs     []int64
		wantHasMore bool
	}{
		{
			name:        "full page with more behind it",
			ids:         []int64{1, 2, 3, 4},
			pageSize:    2,
			offset:      0,
			wantIDs:     []int64{1, 2},
			wantHasMore: true,
		},
		{
			name:        "exactly one page left",
			ids:         []int64{1, 2},
			pageSize:    2,
			offset:      0,
			wantIDs:     []int64{1, 2},
			wantHasMore: false,
		},
		{
			name:        "short last page",
			ids:         []int64{1, 2, 3},
			pageSize:    2,
			offset:      2,
			wantIDs:     []int64{3},
			wantHasMore: false,
		},
		{
			name:        "no matches",
			ids:         nil,
			pageSize:    2,
			offset:      0,
			wantIDs:     []int64{},
			wantHasMore: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &stubQuerier{ids: tt.ids}
			repo := NewCompanyRepository(q)

			companies, hasMore, err := repo.SearchPage(context.Background(), searchPredicate(t, "6821801"), tt.pageSize, tt.offset)

			require.NoError(t, err)
			assert.Equal(t, tt.wantHasMore, hasMore)

			gotIDs := make([]int64, 0, len(companies))
			for _, c := range companies {
				gotIDs = append(gotIDs, c.ID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)

			// One extra row is requested to detect a following page.
			assert.Equal(t, tt.pageSize+1, q.lastArgs[len(q.lastArgs)-2])
			assert.Equal(t, tt.offset, q.lastArgs[len(q.lastArgs)-1])
			assert.Contains(t, q.lastSQL, "ORDER BY id ASC")
		})
	}
}

func TestCountSharesPredicateArguments(t *testing.T) {
	q := &stubQuerier{total: 42}
	repo := NewCompanyRepository(q)
	pred := searchPredicate(t, "6821801")

	total, err := repo.Count(context.Background(), pred)

	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
	assert.True(t, strings.Contains(q.lastSQL, "COUNT(*)"))
	assert.Equal(t, pred.Args(), q.lastArgs)
}
