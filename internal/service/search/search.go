// internal/service/search/search.go
package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"prospecta-service/internal/domain/company"
	"prospecta-service/internal/search"

	"go.uber.org/zap"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// CompanyStore is the slice of the registry repository the search flow uses.
type CompanyStore interface {
	SearchPage(ctx context.Context, pred *search.Predicate, pageSize, offset int) ([]company.Company, bool, error)
	Count(ctx context.Context, pred *search.Predicate) (int64, error)
	Create(ctx context.Context, c *company.Company) error
}

type SearchService struct {
	companies CompanyStore
	logger    *zap.Logger
}

func NewSearchService(companies CompanyStore, logger *zap.Logger) *SearchService {
	return &SearchService{
		companies: companies,
		logger:    logger,
	}
}

// Search runs one page of the registry query. An empty term is not an error:
// it short-circuits to an empty page without touching storage. Totals are
// never computed here; HasMore comes from the repository's over-fetch and
// exact counts live behind the separate Count call.
func (s *SearchService) Search(ctx context.Context, req *company.SearchRequest) (*company.SearchResult, error) {
	page, pageSize := clampPaging(req.Page, req.PageSize)

	term := search.Normalize(req.Term)
	if term.Kind == search.KindEmpty {
		return &company.SearchResult{Rows: []company.Company{}, Page: page, PageSize: pageSize}, nil
	}

	pred := search.Build(search.Filter{
		Term:             term,
		Region:           req.Region,
		IncludeSecondary: req.IncludeSecondary,
	})

	offset := (page - 1) * pageSize
	rows, hasMore, err := s.companies.SearchPage(ctx, pred, pageSize, offset)
	if err != nil {
		s.logger.Error("company search failed",
			zap.String("term", req.Term),
			zap.Int("page", page),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to search companies: %w", err)
	}

	return &company.SearchResult{
		Rows:     rows,
		Page:     page,
		PageSize: pageSize,
		HasMore:  hasMore,
	}, nil
}

// Count returns the exact total for the same predicate Search uses. Callers
// invoke it independently of page navigation, under their own deadline, so a
// slow count on a free-text predicate never blocks a page flip.
func (s *SearchService) Count(ctx context.Context, term, region string, includeSecondary bool) (int64, error) {
	normalized := search.Normalize(term)
	if normalized.Kind == search.KindEmpty {
		return 0, nil
	}

	pred := search.Build(search.Filter{
		Term:             normalized,
		Region:           region,
		IncludeSecondary: includeSecondary,
	})

	total, err := s.companies.Count(ctx, pred)
	if err != nil {
		s.logger.Error("company count failed", zap.String("term", term), zap.Error(err))
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}

	return total, nil
}

// CreateCompany inserts one registry row from the intake endpoint.
func (s *SearchService) CreateCompany(ctx context.Context, req *company.CreateCompanyRequest) (*company.Company, error) {
	c := &company.Company{
		CNPJ:           nullString(req.CNPJ),
		RazaoSocial:    nullString(req.RazaoSocial),
		NomeFantasia:   nullString(req.NomeFantasia),
		Telefone1:      nullString(req.Telefone1),
		Telefone2:      nullString(req.Telefone2),
		Email:          nullString(req.Email),
		CNAEPrincipal:  nullString(search.CleanCode(req.CNAEPrincipal)),
		DescricaoCNAE:  nullString(req.DescricaoCNAE),
		CNAESecundaria: nullString(req.CNAESecundaria),
		Endereco:       nullString(req.Endereco),
		Cidade:         nullString(req.Cidade),
		Estado:         nullString(strings.ToUpper(strings.TrimSpace(req.Estado))),
		CEP:            nullString(req.CEP),
	}

	if err := s.companies.Create(ctx, c); err != nil {
		s.logger.Error("failed to create company", zap.Error(err))
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.logger.Info("company created", zap.Int64("company_id", c.ID))

	return c, nil
}

func clampPaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
