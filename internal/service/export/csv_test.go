package export

import (
	"database/sql"
	"strings"
	"testing"

	"prospecta-service/internal/domain/company"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	companies := []company.Company{
		{
			ID:            7,
			CNPJ:          sql.NullString{String: "12.345.678/0001-90", Valid: true},
			RazaoSocial:   sql.NullString{String: "Imobiliária Central Ltda", Valid: true},
			Telefone1:     sql.NullString{String: "55(11)987654321", Valid: true},
			CNAEPrincipal: sql.NullString{String: "6821801", Valid: true},
			Estado:        sql.NullString{String: "SP", Valid: true},
		},
		{
			ID: 9,
			// All other columns null
		},
	}

	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, companies))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.True(t, strings.HasPrefix(lines[0], "id,cnpj,razao_social"))
	assert.Contains(t, lines[1], "7,12.345.678/0001-90,Imobiliária Central Ltda")
	assert.Contains(t, lines[1], "55(11)987654321")
	assert.Equal(t, "9,,,,,,,,,,,,,", lines[2])
}

func TestWriteCSVEmpty(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, nil))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 1, "header only")
}
