// internal/domain/company/entity.go
package company

import "database/sql"

// Company is one row of the imported registry. Rows are created by bulk
// import and never modified by this service except through the intake
// endpoint; nullable columns map to sql.Null types.
type Company struct {
	ID                    int64          `json:"id"`
	CNPJ                  sql.NullString `json:"cnpj"`
	RazaoSocial           sql.NullString `json:"razao_social"`
	NomeFantasia          sql.NullString `json:"nome_fantasia"`
	Telefone1             sql.NullString `json:"telefone_1"`
	Telefone2             sql.NullString `json:"telefone_2"`
	Email                 sql.NullString `json:"email"`
	CNAEPrincipal         sql.NullString `json:"cnae_principal"`
	DescricaoCNAE         sql.NullString `json:"descricao_cnae_principal"`
	CNAESecundaria        sql.NullString `json:"cnae_secundaria"`
	InicioAtividades      sql.NullString `json:"inicio_atividades"`
	Porte                 sql.NullString `json:"porte"`
	MEI                   sql.NullString `json:"mei"`
	Simples               sql.NullString `json:"simples"`
	CapitalSocial         sql.NullString `json:"capital_social"`
	SituacaoCadastral     sql.NullString `json:"situacao_cadastral"`
	DataSituacaoCadastral sql.NullString `json:"data_situacao_cadastral"`
	NaturezaJuridica      sql.NullString `json:"natureza_juridica"`
	Endereco              sql.NullString `json:"endereco"`
	Complemento           sql.NullString `json:"complemento"`
	CEP                   sql.NullString `json:"cep"`
	Bairro                sql.NullString `json:"bairro"`
	Cidade                sql.NullString `json:"cidade"`
	Estado                sql.NullString `json:"estado"`
	NomeSocio             sql.NullString `json:"nome_socio"`
	QualificacaoSocio     sql.NullString `json:"qualificacao_socio"`
}
