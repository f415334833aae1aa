// Package engine is the facade tying every core subsystem together: VSA
// item memory, the in-memory knowledge graph, the symbol registry, and
// (when a data directory is configured) the durable triple store and
// provenance ledger, plus the inference, microtheory, predicate, and
// dispatcher subsystems built on top of them.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/cogpy/hypersynth/core/dispatcher"
	"github.com/cogpy/hypersynth/core/ingest"
	"github.com/cogpy/hypersynth/core/inference"
	"github.com/cogpy/hypersynth/core/itemmemory"
	"github.com/cogpy/hypersynth/core/kg"
	"github.com/cogpy/hypersynth/core/microtheory"
	"github.com/cogpy/hypersynth/core/persistence"
	"github.com/cogpy/hypersynth/core/predicate"
	"github.com/cogpy/hypersynth/core/provenance"
	"github.com/cogpy/hypersynth/core/registry"
	"github.com/cogpy/hypersynth/core/symbol"
	"github.com/cogpy/hypersynth/core/triplestore"
	"github.com/cogpy/hypersynth/core/vsa"
)

// isARelationLabel names the well-known is-a predicate the engine resolves
// at startup so the dispatcher's type-check reasoner has a stable symbol
// to walk, mirroring how ingest resolves labels to symbols lazily.
const isARelationLabel = "is-a"

// Engine owns every core subsystem for one running instance.
type Engine struct {
	mu sync.Mutex

	cfg      Config
	log      *zap.Logger
	memory   *itemmemory.ItemMemory
	graph    *kg.Graph
	registry *registry.Registry
	alloc    *registry.Allocator
	resolver *ingest.Resolver

	metaStore  *persistence.MetaStore
	dgraph     *persistence.DgraphClient
	triples    *triplestore.Store
	provenance *provenance.Ledger
	persistent bool

	inference  *inference.Engine
	contexts   *microtheory.Registry
	hierarchy  *predicate.Hierarchy
	dispatcher *dispatcher.Dispatcher

	isA symbol.Id
}

// New builds an Engine following the three-step lifecycle: initialize VSA
// ops, create the in-memory subsystems, and, if cfg.DataDir is set, open
// the durable store and reload state from it.
func New(cfg Config) (*Engine, error) {
	log := zap.NewNop()

	if cfg.Dimension == 0 {
		return nil, wrap(Configuration, "new", fmt.Errorf("dimension must be non-zero"))
	}
	log.Info("engine: initializing VSA ops", zap.Uint("dimension", cfg.Dimension))

	e := &Engine{
		cfg:      cfg,
		log:      log,
		memory:   itemmemory.New(cfg.Dimension, cfg.Encoding, cfg.itemMemoryCacheSize()),
		graph:    kg.New(),
		registry: registry.New(),
		alloc:    registry.NewAllocator(),
	}
	e.resolver = ingest.NewResolver(e.registry, e.alloc)

	if cfg.DataDir != "" {
		if err := e.openPersistent(cfg); err != nil {
			return nil, err
		}
	}

	isA, _, err := e.resolver.ResolveOrCreate(isARelationLabel, symbol.Relation)
	if err != nil {
		return nil, wrap(SymbolResolution, "new", err)
	}
	e.isA = isA

	domainPred, specializesCtxPred, disjointPred, err := e.resolveContextPredicates()
	if err != nil {
		return nil, err
	}
	specializesPred, inversePred, exceptPred, monotonicPred, err := e.resolveHierarchyPredicates()
	if err != nil {
		return nil, err
	}

	e.inference = inference.New(e.graph, e.memory, log)
	e.contexts = microtheory.New(e.graph, e.registry.ResolveLabel, domainPred, specializesCtxPred, disjointPred)
	e.hierarchy = predicate.New(e.graph, specializesPred, inversePred, exceptPred, monotonicPred)
	e.dispatcher = dispatcher.New(log)
	e.registerBuiltinReasoners()

	return e, nil
}

// resolveContextPredicates resolves the §6 well-known microtheory
// predicate labels against the symbol registry, so label-ingested
// triples using the same labels populate the same ids core/microtheory
// walks.
func (e *Engine) resolveContextPredicates() (domain, specializes, disjoint symbol.Id, err error) {
	domain, _, err = e.resolver.ResolveOrCreate(microtheory.DomainLabel, symbol.Relation)
	if err != nil {
		return 0, 0, 0, wrap(SymbolResolution, "new", err)
	}
	specializes, _, err = e.resolver.ResolveOrCreate(microtheory.SpecializesLabel, symbol.Relation)
	if err != nil {
		return 0, 0, 0, wrap(SymbolResolution, "new", err)
	}
	disjoint, _, err = e.resolver.ResolveOrCreate(microtheory.DisjointLabel, symbol.Relation)
	if err != nil {
		return 0, 0, 0, wrap(SymbolResolution, "new", err)
	}
	return domain, specializes, disjoint, nil
}

// resolveHierarchyPredicates resolves the §6 well-known predicate-hierarchy
// and defeasible-reasoning labels against the symbol registry, so
// label-ingested triples using the same labels populate the same ids
// core/predicate walks.
func (e *Engine) resolveHierarchyPredicates() (specializes, inverse, except, monotonic symbol.Id, err error) {
	specializes, _, err = e.resolver.ResolveOrCreate(predicate.SpecializesPredicateLabel, symbol.Relation)
	if err != nil {
		return 0, 0, 0, 0, wrap(SymbolResolution, "new", err)
	}
	inverse, _, err = e.resolver.ResolveOrCreate(predicate.InversePredicateLabel, symbol.Relation)
	if err != nil {
		return 0, 0, 0, 0, wrap(SymbolResolution, "new", err)
	}
	except, _, err = e.resolver.ResolveOrCreate(predicate.ExceptLabel, symbol.Relation)
	if err != nil {
		return 0, 0, 0, 0, wrap(SymbolResolution, "new", err)
	}
	monotonic, _, err = e.resolver.ResolveOrCreate(predicate.MonotonicLabel, symbol.Relation)
	if err != nil {
		return 0, 0, 0, 0, wrap(SymbolResolution, "new", err)
	}
	return specializes, inverse, except, monotonic, nil
}

// openPersistent implements step 3 of the lifecycle: open the meta store,
// provenance ledger, and (if configured) the Dgraph-backed triple store,
// then reload registry/allocator state and bulk-load the in-memory graph
// from whatever is already durable. Stored equivalences are not reloaded.
func (e *Engine) openPersistent(cfg Config) error {
	e.persistent = true
	e.metaStore = persistence.NewMetaStore(cfg.DataDir)

	snapshot, found, err := e.metaStore.Load()
	if err != nil {
		return wrap(Persistence, "new", err)
	}
	if found {
		e.registry, e.alloc = registry.Restore(snapshot)
		e.resolver = ingest.NewResolver(e.registry, e.alloc)
	}

	ledger, err := provenance.Open(cfg.DataDir)
	if err != nil {
		return wrap(Persistence, "new", err)
	}
	e.provenance = ledger

	if cfg.DgraphConfig != nil {
		client, err := persistence.NewDgraphClient(cfg.DgraphConfig)
		if err != nil {
			return wrap(Persistence, "new", err)
		}
		e.dgraph = client
		e.triples = triplestore.NewStore(client)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := e.triples.EnsureSchema(ctx); err != nil {
			return wrap(Persistence, "new", err)
		}
		durable, err := e.triples.AllTriples(ctx)
		if err != nil {
			return wrap(Persistence, "new", err)
		}
		e.graph.BulkLoad(durable)
	}

	return nil
}

func (e *Engine) registerBuiltinReasoners() {
	e.dispatcher.Register(&dispatcher.ForwardInferenceReasoner{Engine: e.inference})
	e.dispatcher.Register(&dispatcher.EgraphSimplificationReasoner{})
	e.dispatcher.Register(&dispatcher.PredicateSubsumptionReasoner{Hierarchy: e.hierarchy})
	e.dispatcher.Register(&dispatcher.TransitiveClosureReasoner{Graph: e.graph})
	e.dispatcher.Register(&dispatcher.TypeCheckReasoner{Hierarchy: e.hierarchy, IsA: e.isA})
	e.dispatcher.Register(&dispatcher.SuperpositionReasoner{})
	e.dispatcher.Register(&dispatcher.BackwardChainingReasoner{Graph: e.graph})
}

// Persist writes registry and allocator state to the meta store and syncs
// the in-memory graph to the persistent triple store. The engine keeps no
// learned equivalences, so the snapshot's equivalence list is always empty.
// A no-op in memory-only mode.
func (e *Engine) Persist(ctx context.Context) error {
	if !e.persistent {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := registry.Snapshot(e.registry, e.alloc, nil)
	if err := e.metaStore.Save(snapshot); err != nil {
		return wrap(Persistence, "persist", err)
	}
	if e.triples != nil {
		if err := e.triples.SyncFrom(ctx, e.graph); err != nil {
			return wrap(Persistence, "persist", err)
		}
	}
	return nil
}

// AddTriple inserts t into the in-memory graph and, in persistent mode,
// the durable store and provenance ledger, in that order. A persistent
// failure rolls back the in-memory insert (§4.5 ordering: in-memory →
// persistent → provenance; on failure, completed steps are undone).
func (e *Engine) AddTriple(ctx context.Context, t kg.Triple) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t.ProvenanceID == "" {
		t.ProvenanceID = uuid.New().String()
	}
	if t.Timestamp == 0 {
		t.Timestamp = time.Now().UnixNano()
	}

	e.graph.InsertTriple(t)

	if !e.persistent {
		return nil
	}

	if e.triples != nil {
		if err := e.triples.PutTriple(ctx, t); err != nil {
			_ = e.graph.RemoveTriple(t)
			return wrap(Persistence, "add_triple", err)
		}
	}

	if e.provenance != nil {
		rec := provenance.Record{
			Derived:   t.Object,
			Kind:      provenance.GraphEdge,
			Sources:   []symbol.Id{t.Subject},
			Predicate: t.Predicate,
			Timestamp: t.Timestamp,
		}
		if err := e.provenance.Append(rec); err != nil {
			_ = e.graph.RemoveTriple(t)
			return wrap(Persistence, "add_triple", err)
		}
	}

	return nil
}

// IngestLabelTriples resolves-or-creates symbols for every (subject,
// predicate, object) label tuple and inserts the resulting triples,
// returning how many symbols were newly created and triples ingested.
func (e *Engine) IngestLabelTriples(ts []ingest.LabelTriple) (ingest.Counts, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	counts, err := ingest.Labels(e.graph, e.resolver, ts)
	if err != nil {
		return counts, wrap(SymbolResolution, "ingest_label_triples", err)
	}
	return counts, nil
}

// ResolveOrCreateEntity resolves label to an Entity symbol, allocating one
// if it has never been seen.
func (e *Engine) ResolveOrCreateEntity(label string) (symbol.Id, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, created, err := e.resolver.ResolveOrCreate(label, symbol.Entity)
	if err != nil {
		return 0, false, wrap(SymbolResolution, "resolve_or_create_entity", err)
	}
	return id, created, nil
}

// ResolveOrCreateRelation resolves label to a Relation symbol, allocating
// one if it has never been seen.
func (e *Engine) ResolveOrCreateRelation(label string) (symbol.Id, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, created, err := e.resolver.ResolveOrCreate(label, symbol.Relation)
	if err != nil {
		return 0, false, wrap(SymbolResolution, "resolve_or_create_relation", err)
	}
	return id, created, nil
}

// Infer runs the spreading-activation inference engine over q.
func (e *Engine) Infer(q inference.Query) (*inference.Result, error) {
	result, err := e.inference.Run(q)
	if err != nil {
		return nil, wrap(Inference, "infer", err)
	}
	return result, nil
}

// QueryWithHierarchy resolves (subject, predicate) through the predicate
// specialization/inverse closure.
func (e *Engine) QueryWithHierarchy(subject, pred symbol.Id) []predicate.Pair {
	return e.hierarchy.QueryWithHierarchy(subject, pred)
}

// QueryDefeasible resolves the winning object for (subject, pred) per
// §4.10: candidates are gathered by walking subject's is-a chain and
// collecting every triple asserting pred (or a hierarchy specialization
// of it) on subject or any ancestor, reading defeasible:monotonic and
// defeasible:except off the graph, then narrowed by the five-rule
// defeasible order.
func (e *Engine) QueryDefeasible(subject, pred symbol.Id) (*symbol.Id, []predicate.Candidate) {
	candidates := e.hierarchy.CandidatesFor(subject, pred, e.isA)
	return predicate.ResolveDefeasible(candidates, e.hierarchy.ExceptionChecker())
}

// CreateContext creates a microtheory context, refusing cyclic
// specialization before any triple is inserted.
func (e *Engine) CreateContext(id, domain symbol.Id, parents []symbol.Id) (microtheory.Context, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx, err := e.contexts.CreateContext(id, domain, parents)
	if err != nil {
		return ctx, wrap(ContextCycle, "create_context", err)
	}
	return ctx, nil
}

// StoreProvenance appends a provenance record, failing with Persistence
// in memory-only mode or when no data directory is configured.
func (e *Engine) StoreProvenance(rec provenance.Record) error {
	if e.provenance == nil {
		return wrap(Persistence, "store_provenance", provenance.ErrUnavailable)
	}
	if err := e.provenance.Append(rec); err != nil {
		return wrap(Persistence, "store_provenance", err)
	}
	return nil
}

// Dispatch routes problem to the cheapest-scoring capable reasoner.
func (e *Engine) Dispatch(ctx context.Context, p dispatcher.Problem, perReasonerBudget time.Duration) (interface{}, *dispatcher.DispatchTrace, error) {
	out, trace, err := e.dispatcher.Dispatch(ctx, p, perReasonerBudget)
	if err != nil {
		return out, trace, wrap(Dispatcher, "dispatch", err)
	}
	return out, trace, nil
}

// Graph returns the in-memory knowledge graph for read-only access.
func (e *Engine) Graph() *kg.Graph { return e.graph }

// Memory returns the item memory for read-only access.
func (e *Engine) Memory() *itemmemory.ItemMemory { return e.memory }

// Registry returns the symbol registry for read-only access.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// Contexts returns the microtheory registry.
func (e *Engine) Contexts() *microtheory.Registry { return e.contexts }

// Dim reports the configured VSA dimension.
func (e *Engine) Dim() uint { return e.cfg.Dimension }

// Close releases the durable connections opened in persistent mode,
// aggregating failures from each subsystem rather than stopping at the
// first one.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var result *multierror.Error
	if e.provenance != nil {
		if err := e.provenance.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if e.dgraph != nil {
		if err := e.dgraph.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
