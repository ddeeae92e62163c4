// internal/repository/postgres/company_repo.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"prospecta-service/internal/domain/company"
	"prospecta-service/internal/search"

	"github.com/jackc/pgx/v5"
)

const companyColumns = `id, cnpj, razao_social, nome_fantasia, telefone_1, telefone_2, email,
       cnae_principal, descricao_cnae_principal, cnae_secundaria, inicio_atividades,
       porte, mei, simples, capital_social, situacao_cadastral, data_situacao_cadastral,
       natureza_juridica, endereco, complemento, cep, bairro, cidade, estado,
       nome_socio, qualificacao_socio`

type CompanyRepository struct {
	db Querier
}

func NewCompanyRepository(db Querier) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// SearchPage fetches one page for the given predicate, over-fetching a single
// extra row to learn whether more pages exist without counting. Ordering is
// always id ascending so identical requests return identical pages.
func (r *CompanyRepository) SearchPage(ctx context.Context, pred *search.Predicate, pageSize, offset int) ([]company.Company, bool, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM empresas
		WHERE %s
		ORDER BY id ASC
		LIMIT $%d OFFSET $%d
	`, companyColumns, pred.Where(), pred.NextArg(), pred.NextArg()+1)

	args := append(append([]any{}, pred.Args()...), pageSize+1, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("failed to search companies: %w", err)
	}
	defer rows.Close()

	companies, err := scanCompanies(rows)
	if err != nil {
		return nil, false, err
	}

	hasMore := false
	if len(companies) > pageSize {
		companies = companies[:pageSize]
		hasMore = true
	}

	return companies, hasMore, nil
}

// Count runs the exact count for the same predicate the page query uses. It
// is deliberately a separate round trip: page rendering never waits on it.
func (r *CompanyRepository) Count(ctx context.Context, pred *search.Predicate) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM empresas WHERE %s", pred.Where())

	var total int64
	if err := r.db.QueryRow(ctx, query, pred.Args()...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}

	return total, nil
}

// Draw selects up to limit allocatable companies for one representative. It
// runs on the caller's Querier so the allocation engine can issue it inside
// the same transaction that appends to the distribution ledger.
func (r *CompanyRepository) Draw(ctx context.Context, q Querier, pred *search.Predicate, limit int) ([]company.Company, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM empresas
		WHERE %s
		ORDER BY id ASC
		LIMIT $%d
	`, companyColumns, pred.Where(), pred.NextArg())

	args := append(append([]any{}, pred.Args()...), limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to draw companies: %w", err)
	}
	defer rows.Close()

	return scanCompanies(rows)
}

// Create inserts a single registry row from the intake endpoint.
func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) error {
	query := `
		INSERT INTO empresas (
			cnpj, razao_social, nome_fantasia, telefone_1, telefone_2, email,
			cnae_principal, descricao_cnae_principal, cnae_secundaria,
			endereco, cidade, estado, cep
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		c.CNPJ, c.RazaoSocial, c.NomeFantasia, c.Telefone1, c.Telefone2, c.Email,
		c.CNAEPrincipal, c.DescricaoCNAE, c.CNAESecundaria,
		c.Endereco, c.Cidade, c.Estado, c.CEP,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	return nil
}

// FindByID retrieves a single registry row.
func (r *CompanyRepository) FindByID(ctx context.Context, id int64) (*company.Company, error) {
	query := fmt.Sprintf("SELECT %s FROM empresas WHERE id = $1", companyColumns)

	var c company.Company
	if err := scanCompany(r.db.QueryRow(ctx, query, id), &c); err != nil {
		if err == pgx.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to find company: %w", err)
	}

	return &c, nil
}

func scanCompanies(rows pgx.Rows) ([]company.Company, error) {
	companies := []company.Company{}
	for rows.Next() {
		var c company.Company
		if err := scanCompany(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read companies: %w", err)
	}
	return companies, nil
}

func scanCompany(row pgx.Row, c *company.Company) error {
	return row.Scan(
		&c.ID, &c.CNPJ, &c.RazaoSocial, &c.NomeFantasia, &c.Telefone1, &c.Telefone2, &c.Email,
		&c.CNAEPrincipal, &c.DescricaoCNAE, &c.CNAESecundaria, &c.InicioAtividades,
		&c.Porte, &c.MEI, &c.Simples, &c.CapitalSocial, &c.SituacaoCadastral, &c.DataSituacaoCadastral,
		&c.NaturezaJuridica, &c.Endereco, &c.Complemento, &c.CEP, &c.Bairro, &c.Cidade, &c.Estado,
		&c.NomeSocio, &c.QualificacaoSocio,
	)
}
