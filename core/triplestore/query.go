package triplestore

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dgraph-io/dgo/v230/protos/api"

	"github.com/cogpy/hypersynth/core/persistence"
	"github.com/cogpy/hypersynth/core/symbol"
)

func unmarshalQueryResult(resp *api.Response, out *queryResult) error {
	if err := persistence.UnmarshalJSON(resp.Json, out); err != nil {
		return fmt.Errorf("triplestore: decoding query result: %w", err)
	}
	return nil
}

// term is one position of a triple pattern: either a variable ("?s") or a
// bound symbol id.
type term struct {
	variable string
	bound    symbol.Id
	isBound  bool
}

func parseTerm(raw string) (term, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "?") {
		return term{variable: raw[1:]}, nil
	}
	raw = strings.TrimPrefix(raw, "<")
	raw = strings.TrimSuffix(raw, ">")
	id, err := parseIRI(raw)
	if err != nil {
		return term{}, err
	}
	return term{bound: id, isBound: true}, nil
}

// Pattern is one triple pattern inside a WHERE clause.
type Pattern struct {
	Subject, Predicate, Object term
}

var patternRE = regexp.MustCompile(`\{\s*(\S+)\s+(\S+)\s+(\S+)\s*\}`)

func parsePattern(body string) (Pattern, error) {
	m := patternRE.FindStringSubmatch(body)
	if m == nil {
		return Pattern{}, ErrMalformedQuery
	}
	s, err := parseTerm(m[1])
	if err != nil {
		return Pattern{}, err
	}
	p, err := parseTerm(m[2])
	if err != nil {
		return Pattern{}, err
	}
	o, err := parseTerm(m[3])
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{Subject: s, Predicate: p, Object: o}, nil
}

// SelectQuery is a parsed "SELECT ?var WHERE { ... }" query.
type SelectQuery struct {
	Variable string
	Pattern  Pattern
}

var selectRE = regexp.MustCompile(`(?i)^SELECT\s+\?(\w+)\s+WHERE\s+(\{.*\})$`)

// ParseSelect compiles a SPARQL-shaped SELECT query, e.g.
// "SELECT ?o WHERE { ?s <10> ?o }".
func ParseSelect(query string) (SelectQuery, error) {
	m := selectRE.FindStringSubmatch(strings.TrimSpace(query))
	if m == nil {
		return SelectQuery{}, ErrMalformedQuery
	}
	pattern, err := parsePattern(m[2])
	if err != nil {
		return SelectQuery{}, err
	}
	return SelectQuery{Variable: m[1], Pattern: pattern}, nil
}

// AskQuery is a parsed "ASK WHERE { ... }" query.
type AskQuery struct {
	Pattern Pattern
}

var askRE = regexp.MustCompile(`(?i)^ASK\s+WHERE\s+(\{.*\})$`)

// ParseAsk compiles a SPARQL-shaped ASK query.
func ParseAsk(query string) (AskQuery, error) {
	m := askRE.FindStringSubmatch(strings.TrimSpace(query))
	if m == nil {
		return AskQuery{}, ErrMalformedQuery
	}
	pattern, err := parsePattern(m[1])
	if err != nil {
		return AskQuery{}, err
	}
	return AskQuery{Pattern: pattern}, nil
}

func dqlFilter(field string, t term) string {
	if t.isBound {
		return fmt.Sprintf("eq(%s, %q)", field, iri(t.bound))
	}
	return ""
}

// compileDQL turns a triple pattern into a DQL query against the Triple
// type, documented as the "SPARQL-shaped" surface: this store speaks DQL to
// Dgraph natively and only the caller-facing grammar looks like SPARQL.
func compileDQL(p Pattern) string {
	var filters []string
	for field, t := range map[string]term{
		"subject_iri":   p.Subject,
		"predicate_iri": p.Predicate,
		"object_iri":    p.Object,
	} {
		if f := dqlFilter(field, t); f != "" {
			filters = append(filters, f)
		}
	}

	funcExpr := "type(Triple)"
	if len(filters) > 0 {
		funcExpr = strings.Join(filters, " AND ")
	}

	return fmt.Sprintf(`{
  q(func: %s) @filter(type(Triple)) {
    subject_iri
    predicate_iri
    object_iri
    confidence
    timestamp
    provenance_id
    compartment_id
  }
}`, funcExpr)
}

type queryResultRow struct {
	SubjectIRI   string  `json:"subject_iri"`
	PredicateIRI string  `json:"predicate_iri"`
	ObjectIRI    string  `json:"object_iri"`
	Confidence   float64 `json:"confidence"`
}

type queryResult struct {
	Q []queryResultRow `json:"q"`
}

// QuerySelect runs a compiled SELECT query and returns the bound values of
// its projected variable across every matching triple.
func (s *Store) QuerySelect(ctx context.Context, q SelectQuery) ([]symbol.Id, error) {
	if s.client == nil || !s.client.IsConnected() {
		return nil, ErrNotConnected
	}

	dql := compileDQL(q.Pattern)
	resp, err := s.client.Query(ctx, dql, nil)
	if err != nil {
		return nil, fmt.Errorf("triplestore: select query failed: %w", err)
	}

	var result queryResult
	if err := unmarshalQueryResult(resp, &result); err != nil {
		return nil, err
	}

	var out []symbol.Id
	for _, row := range result.Q {
		var raw string
		switch q.Variable {
		case q.Pattern.Subject.variable:
			raw = row.SubjectIRI
		case q.Pattern.Predicate.variable:
			raw = row.PredicateIRI
		case q.Pattern.Object.variable:
			raw = row.ObjectIRI
		default:
			continue
		}
		id, err := parseIRI(raw)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

// QueryAsk runs a compiled ASK query and reports whether any triple
// matches the pattern.
func (s *Store) QueryAsk(ctx context.Context, q AskQuery) (bool, error) {
	if s.client == nil || !s.client.IsConnected() {
		return false, ErrNotConnected
	}

	dql := compileDQL(q.Pattern)
	resp, err := s.client.Query(ctx, dql, nil)
	if err != nil {
		return false, fmt.Errorf("triplestore: ask query failed: %w", err)
	}

	var result queryResult
	if err := unmarshalQueryResult(resp, &result); err != nil {
		return false, err
	}
	return len(result.Q) > 0, nil
}
