// internal/domain/company/dto.go
package company

// SearchRequest carries the raw search parameters from the UI layer.
type SearchRequest struct {
	Term             string `form:"term"`
	Page             int    `form:"page"`
	PageSize         int    `form:"page_size"`
	Region           string `form:"region"`
	IncludeSecondary bool   `form:"include_secondary"`
}

// SearchResult is one page of matches. HasMore comes from the over-fetch,
// never from a count query.
type SearchResult struct {
	Rows     []Company `json:"rows"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	HasMore  bool      `json:"has_more"`
}

// CreateCompanyRequest is the intake payload for a single registry row.
type CreateCompanyRequest struct {
	CNPJ           string `json:"cnpj"`
	RazaoSocial    string `json:"razao_social"`
	NomeFantasia   string `json:"nome_fantasia"`
	Telefone1      string `json:"telefone_1"`
	Telefone2      string `json:"telefone_2"`
	Email          string `json:"email"`
	CNAEPrincipal  string `json:"cnae_principal"`
	DescricaoCNAE  string `json:"descricao_cnae_principal"`
	CNAESecundaria string `json:"cnae_secundaria"`
	Endereco       string `json:"endereco"`
	Cidade         string `json:"cidade"`
	Estado         string `json:"estado"`
	CEP            string `json:"cep"`
}
