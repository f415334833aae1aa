package triplestore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/dgo/v230/protos/api"

	"github.com/cogpy/hypersynth/core/kg"
	"github.com/cogpy/hypersynth/core/persistence"
	"github.com/cogpy/hypersynth/core/symbol"
)

// Schema is the Dgraph type + predicate declaration for durable triples.
// compartment_id models named-graph placement as a scalar column, since
// Dgraph's native named-graph support targets its RDF bulk loader rather
// than the live mutation API this store drives.
const Schema = `
subject_iri: string @index(exact) .
predicate_iri: string @index(exact) .
object_iri: string @index(exact) .
compartment_id: string @index(exact) .
triple_key: string @index(exact) @upsert .
confidence: float .
timestamp: int .
provenance_id: string .

type Triple {
	subject_iri
	predicate_iri
	object_iri
	compartment_id
	triple_key
	confidence
	timestamp
	provenance_id
}
`

// tripleNode is the Dgraph JSON shape of one durable Triple node.
type tripleNode struct {
	UID          string   `json:"uid,omitempty"`
	DType        []string `json:"dgraph.type,omitempty"`
	SubjectIRI   string   `json:"subject_iri,omitempty"`
	PredicateIRI string   `json:"predicate_iri,omitempty"`
	ObjectIRI    string   `json:"object_iri,omitempty"`
	CompartmentID string  `json:"compartment_id,omitempty"`
	TripleKey    string   `json:"triple_key,omitempty"`
	Confidence   float64  `json:"confidence,omitempty"`
	Timestamp    int64    `json:"timestamp,omitempty"`
	ProvenanceID string   `json:"provenance_id,omitempty"`
}

// Store is the durable triple store backing persistent facts. It wraps a
// Dgraph client, keyed to the (subject, predicate, object, compartment)
// quadruple a Triple actually is.
type Store struct {
	client *persistence.DgraphClient
}

// NewStore wraps an already-connected Dgraph client.
func NewStore(client *persistence.DgraphClient) *Store {
	return &Store{client: client}
}

// EnsureSchema installs the Triple type and its predicates.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s.client == nil || !s.client.IsConnected() {
		return ErrNotConnected
	}
	return s.client.SetSchema(Schema)
}

func iri(id symbol.Id) string {
	return strconv.FormatUint(uint64(id), 10)
}

func parseIRI(v string) (symbol.Id, error) {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("triplestore: invalid iri %q: %w", v, err)
	}
	return symbol.Id(n), nil
}

// tripleKeyFor hashes the identifying fields of a triple into the upsert key
// used so re-insertion updates the existing node instead of duplicating it.
func tripleKeyFor(t kg.Triple) string {
	h := xxhash.New()
	fmt.Fprintf(h, "%d|%d|%d|%d", t.Subject, t.Predicate, t.Object, t.Compartment)
	return strconv.FormatUint(h.Sum64(), 16)
}

// PutTriple upserts t durably. A Confidence of 0 is treated as unset and
// stored as 1.0.
func (s *Store) PutTriple(ctx context.Context, t kg.Triple) error {
	if s.client == nil || !s.client.IsConnected() {
		return ErrNotConnected
	}

	confidence := t.Confidence
	if confidence == 0 {
		confidence = 1.0
	}

	key := tripleKeyFor(t)
	query := fmt.Sprintf(`{ q(func: eq(triple_key, %q)) { uid } }`, key)

	node := tripleNode{
		DType:         []string{"Triple"},
		SubjectIRI:    iri(t.Subject),
		PredicateIRI:  iri(t.Predicate),
		ObjectIRI:     iri(t.Object),
		CompartmentID: iri(t.Compartment),
		TripleKey:     key,
		Confidence:    confidence,
		Timestamp:     t.Timestamp,
		ProvenanceID:  t.ProvenanceID,
	}
	node.UID = "uid(u)"

	var resp struct {
		Q []struct {
			UID string `json:"uid"`
		} `json:"q"`
	}

	txn := s.client.NewTransaction()
	defer txn.Discard(ctx)

	qResp, err := txn.QueryWithVars(ctx, query, nil)
	if err != nil {
		return fmt.Errorf("triplestore: upsert lookup failed: %w", err)
	}
	if err := persistence.UnmarshalJSON(qResp.Json, &resp); err != nil {
		return fmt.Errorf("triplestore: decoding upsert lookup: %w", err)
	}

	if len(resp.Q) > 0 {
		node.UID = resp.Q[0].UID
	} else {
		node.UID = "_:new"
	}

	data, err := persistence.MarshalJSON(node)
	if err != nil {
		return fmt.Errorf("triplestore: marshal triple: %w", err)
	}

	if _, err := txn.Mutate(ctx, &api.Mutation{SetJson: data}); err != nil {
		return fmt.Errorf("triplestore: mutate triple: %w", err)
	}
	return txn.Commit(ctx)
}

// SyncFrom durably persists every triple currently in g. Used by the
// engine facade's persist() step.
func (s *Store) SyncFrom(ctx context.Context, g *kg.Graph) error {
	for _, t := range g.AllTriples() {
		if err := s.PutTriple(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// AllTriples returns every durable triple, used to bulk-load the in-memory
// graph on engine open. A record without a persisted confidence is
// restored with confidence 1.0.
func (s *Store) AllTriples(ctx context.Context) ([]kg.Triple, error) {
	if s.client == nil || !s.client.IsConnected() {
		return nil, ErrNotConnected
	}

	const query = `{ q(func: type(Triple)) { subject_iri predicate_iri object_iri confidence timestamp provenance_id compartment_id } }`
	resp, err := s.client.Query(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("triplestore: scanning all triples: %w", err)
	}

	var result struct {
		Q []struct {
			SubjectIRI    string  `json:"subject_iri"`
			PredicateIRI  string  `json:"predicate_iri"`
			ObjectIRI     string  `json:"object_iri"`
			Confidence    *float64 `json:"confidence"`
			Timestamp     int64   `json:"timestamp"`
			ProvenanceID  string  `json:"provenance_id"`
			CompartmentID string  `json:"compartment_id"`
		} `json:"q"`
	}
	if err := persistence.UnmarshalJSON(resp.Json, &result); err != nil {
		return nil, fmt.Errorf("triplestore: decoding all triples: %w", err)
	}

	out := make([]kg.Triple, 0, len(result.Q))
	for _, row := range result.Q {
		s, err := parseIRI(row.SubjectIRI)
		if err != nil {
			continue
		}
		p, err := parseIRI(row.PredicateIRI)
		if err != nil {
			continue
		}
		o, err := parseIRI(row.ObjectIRI)
		if err != nil {
			continue
		}
		compartment, _ := parseIRI(row.CompartmentID)
		confidence := 1.0
		if row.Confidence != nil {
			confidence = *row.Confidence
		}

		out = append(out, kg.Triple{
			Subject: s, Predicate: p, Object: o,
			Confidence: confidence, Timestamp: row.Timestamp,
			ProvenanceID: row.ProvenanceID, Compartment: compartment,
		})
	}
	return out, nil
}
