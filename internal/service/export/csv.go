// internal/service/export/csv.go
package export

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"prospecta-service/internal/domain/company"
)

var header = []string{
	"id", "cnpj", "razao_social", "nome_fantasia", "telefone_1", "telefone_2",
	"email", "cnae_principal", "descricao_cnae_principal", "cnae_secundaria",
	"endereco", "cidade", "estado", "cep",
}

// WriteCSV renders one page of search results as a spreadsheet-importable
// CSV stream. Null columns become empty cells.
func WriteCSV(w io.Writer, companies []company.Company) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, c := range companies {
		record := []string{
			strconv.FormatInt(c.ID, 10),
			cell(c.CNPJ),
			cell(c.RazaoSocial),
			cell(c.NomeFantasia),
			cell(c.Telefone1),
			cell(c.Telefone2),
			cell(c.Email),
			cell(c.CNAEPrincipal),
			cell(c.DescricaoCNAE),
			cell(c.CNAESecundaria),
			cell(c.Endereco),
			cell(c.Cidade),
			cell(c.Estado),
			cell(c.CEP),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func cell(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
