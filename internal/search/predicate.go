// internal/search/predicate.go
package search

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// MinPhoneDigits is the minimum number of significant digits a stored phone
// number must contain for the row to be returned at all. Rows without a
// usable phone contact are invisible to search, count and allocation alike.
const MinPhoneDigits = 10

// phoneClause filters on digit count so the raw formatted string
// ("55(DDD)NUMBER") stays untouched in storage.
var phoneClause = fmt.Sprintf(
	"length(regexp_replace(coalesce(telefone_1, ''), '[^0-9]', '', 'g')) >= %d", MinPhoneDigits)

// Filter is the input to Build: a normalized term plus the optional region
// and secondary-code toggles from the request.
type Filter struct {
	Term             Term
	Region           string
	IncludeSecondary bool
}

// Predicate is an ordered set of WHERE clauses with positional arguments.
// The page query and the count query consume the exact same Predicate, so
// the two can never disagree on which rows match. Repositories may append
// further arguments (LIMIT/OFFSET) starting at NextArg.
type Predicate struct {
	clauses []string
	args    []any
}

// Where joins the clauses into a single WHERE expression.
func (p *Predicate) Where() string {
	return strings.Join(p.clauses, " AND ")
}

// Args returns the positional arguments matching the $n placeholders in Where.
func (p *Predicate) Args() []any {
	return p.args
}

// NextArg is the placeholder index a caller must use for appended arguments.
func (p *Predicate) NextArg() int {
	return len(p.args) + 1
}

func (p *Predicate) add(clause string) {
	p.clauses = append(p.clauses, clause)
}

func (p *Predicate) bind(v any) string {
	p.args = append(p.args, v)
	return fmt.Sprintf("$%d", len(p.args))
}

// Build translates a Filter into the registry predicate. Empty terms produce
// a never-matching predicate; services short-circuit before reaching storage,
// this is the backstop.
func Build(f Filter) *Predicate {
	p := &Predicate{}
	p.add(phoneClause)

	switch f.Term.Kind {
	case KindEmpty:
		p.add("1 = 0")
	case KindMultiCode:
		p.add(codeMatch(p, f.Term.Codes, f.IncludeSecondary))
	case KindSingleCode:
		p.add(codeMatch(p, []string{f.Term.Cleaned}, f.IncludeSecondary))
	case KindFreeText:
		ph := p.bind("%" + f.Term.Raw + "%")
		p.add(fmt.Sprintf("unaccent(descricao_cnae_principal) ILIKE unaccent(%s)", ph))
	}

	if region := strings.TrimSpace(f.Region); region != "" {
		p.add(fmt.Sprintf("estado = %s", p.bind(strings.ToUpper(region))))
	}

	return p
}

// BuildAllocation is the draw predicate for one representative: valid phone,
// phone prefix in the representative's DDD, primary or secondary code in the
// target set, and not yet present in the distribution ledger. Secondary codes
// are always consulted here, matching how lists were generated historically.
func BuildAllocation(codes []string, ddd string, excluded []int64) *Predicate {
	p := &Predicate{}
	p.add(phoneClause)
	p.add(fmt.Sprintf("telefone_1 LIKE %s", p.bind("55("+strings.TrimSpace(ddd)+")%")))
	p.add(codeMatch(p, codes, true))
	if len(excluded) > 0 {
		p.add(fmt.Sprintf("NOT (id = ANY(%s))", p.bind(pq.Array(excluded))))
	}
	return p
}

// codeMatch builds the activity-code clause. The secondary-code field holds a
// comma-joined list, so membership there is a parameterized disjunction of
// substring tests, one per code.
func codeMatch(p *Predicate, codes []string, includeSecondary bool) string {
	var primary string
	if len(codes) == 1 {
		primary = fmt.Sprintf("cnae_principal = %s", p.bind(codes[0]))
	} else {
		primary = fmt.Sprintf("cnae_principal = ANY(%s)", p.bind(pq.Array(codes)))
	}

	if !includeSecondary {
		return primary
	}

	alts := []string{primary}
	for _, code := range codes {
		ph := p.bind("%" + code + "%")
		alts = append(alts, fmt.Sprintf("cnae_secundaria LIKE %s", ph))
	}
	return "(" + strings.Join(alts, " OR ") + ")"
}
