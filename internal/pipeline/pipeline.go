package pipeline

import (
	"context"
	"go/token"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"partialgen/internal/analyze"
	"partialgen/internal/config"
	"partialgen/internal/diagnostic"
	"partialgen/internal/gen"
	"partialgen/internal/plan"
)

// Result summarizes one run.
type Result struct {
	// Generated holds the emitted files sorted by path.
	Generated []*gen.GeneratedFile
	// Failed lists the annotated declarations that produced no partial.
	Failed      []analyze.TypeID
	Diagnostics []diagnostic.Diagnostic
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	return slices.ContainsFunc(r.Diagnostics, func(d diagnostic.Diagnostic) bool {
		return d.Severity == diagnostic.SeverityError
	})
}

// run holds the state shared by the phases of one Run.
type run struct {
	cfg    *config.Config
	target gen.Target
	logger *zap.Logger
	model  *analyze.Model
	sink   *diagnostic.Sink

	mu        sync.Mutex
	partials  map[analyze.TypeID]*plan.PartialType
	failed    map[analyze.TypeID]bool
	generated []*gen.GeneratedFile
}

// Run generates the partials of every annotated declaration in the packages
// matched by patterns. Only load failures, cancellation and emission I/O
// errors are returned; everything else is a diagnostic.
func Run(
	ctx context.Context,
	cfg *config.Config,
	target gen.Target,
	logger *zap.Logger,
	patterns ...string,
) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	analyzer := analyze.NewAnalyzer(analyze.Options{BuildFlags: cfg.BuildFlags, Tests: cfg.Tests})

	model, err := analyzer.LoadPackages(ctx, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "loading packages")
	}

	r := &run{
		cfg:      cfg,
		target:   target,
		logger:   logger,
		model:    model,
		sink:     diagnostic.NewSink(),
		partials: make(map[analyze.TypeID]*plan.PartialType),
		failed:   make(map[analyze.TypeID]bool),
	}

	leaves, parents := split(model.AnnotatedDecls())
	logger.Info("loaded packages",
		zap.Int("packages", len(model.Packages)),
		zap.Int("leaves", len(leaves)),
		zap.Int("parents", len(parents)),
		zap.Int("type_errors", len(model.TypeErrors)))

	for _, e := range model.TypeErrors {
		r.sink.AddInfo(diagnostic.CodeTypeError, e.Error(), "", "", token.Position{})
	}

	if err := r.synthesize(ctx, leaves); err != nil {
		return nil, err
	}

	if err := r.synthesize(ctx, parents); err != nil {
		return nil, err
	}

	// Parents are emitted first: a parent that fails to emit is unlinked
	// from its children before they render.
	if err := r.emit(ctx, r.sortedPartials(true)); err != nil {
		return nil, err
	}

	r.unlinkFailedParents()

	if err := r.emit(ctx, r.sortedPartials(false)); err != nil {
		return nil, err
	}

	r.warnFailedChildren()

	res := r.result()
	logger.Info("generation finished",
		zap.Int("generated", len(res.Generated)),
		zap.Int("failed", len(res.Failed)),
		zap.Int("warnings", r.sink.Count(diagnostic.SeverityWarning)),
		zap.Int("errors", r.sink.Count(diagnostic.SeverityError)))

	return res, nil
}

func split(decls []*analyze.TypeDeclaration) (leaves, parents []*analyze.TypeDeclaration) {
	for _, d := range decls {
		if d.Kind == analyze.DeclKindParent {
			parents = append(parents, d)
		} else {
			leaves = append(leaves, d)
		}
	}

	return leaves, parents
}

// synthesize builds the partials of decls in parallel.
func (r *run) synthesize(ctx context.Context, decls []*analyze.TypeDeclaration) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.WorkerLimit())

	for _, decl := range decls {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			pt, err := plan.Synthesize(decl, r.model, r.sink, r.cfg.PlanOptions())

			r.mu.Lock()
			defer r.mu.Unlock()

			if err != nil {
				r.logger.Debug("declaration aborted", zap.Stringer("decl", decl.ID), zap.Error(err))
				r.failed[decl.ID] = true

				return nil
			}

			r.logger.Debug("synthesized partial",
				zap.Stringer("decl", decl.ID),
				zap.Stringer("kind", decl.Kind),
				zap.Int("fields", len(pt.Fields)))
			r.partials[decl.ID] = pt

			return nil
		})
	}

	return g.Wait()
}

func (r *run) isFailed(id analyze.TypeID) bool {
	return r.failed[id]
}

// unlinkFailedParents drops the links of leaf partials to parents that
// failed in synthesis or emission.
func (r *run) unlinkFailedParents() {
	for _, id := range r.sortedPartials(false) {
		plan.UnlinkFailedParents(r.partials[id], r.isFailed, r.sink)
	}
}

// warnFailedChildren reports the children of emitted parents that failed.
func (r *run) warnFailedChildren() {
	for _, id := range r.sortedPartials(true) {
		if r.failed[id] {
			continue
		}

		plan.WarnFailedChildren(r.partials[id], r.isFailed, r.sink)
	}
}

// emit renders the partials of ids and hands them to the target in parallel.
func (r *run) emit(ctx context.Context, ids []analyze.TypeID) error {
	generator := gen.NewGenerator(r.cfg.GeneratorConfig())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.WorkerLimit())

	for _, id := range ids {
		pt := r.partials[id]

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			file, err := generator.Generate(pt)
			if err != nil {
				r.abort(pt.Decl, err)
				return nil
			}

			var collision *gen.CollisionError

			err = r.target.Emit(file)
			switch {
			case errors.As(err, &collision):
				r.abort(pt.Decl, err)
			case err != nil:
				return errors.Wrapf(err, "emitting %s", pt.Name)
			default:
				r.record(file)
			}

			return nil
		})
	}

	return g.Wait()
}

// abort reports err and marks decl as failed.
func (r *run) abort(decl *analyze.TypeDeclaration, err error) {
	r.sink.ReportError(diagnostic.SeverityError, err, decl.ID.String(), "", decl.Pos)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.failed[decl.ID] = true
}

func (r *run) record(file *gen.GeneratedFile) {
	r.logger.Debug("emitted partial", zap.String("path", file.Path))

	r.mu.Lock()
	defer r.mu.Unlock()

	r.generated = append(r.generated, file)
}

// sortedPartials returns the IDs of the parent or the leaf partials.
func (r *run) sortedPartials(parents bool) []analyze.TypeID {
	var ids []analyze.TypeID

	for id, pt := range r.partials {
		if pt.IsParent() == parents {
			ids = append(ids, id)
		}
	}

	slices.SortFunc(ids, func(a, b analyze.TypeID) int {
		return strings.Compare(a.String(), b.String())
	})

	return ids
}

func (r *run) result() *Result {
	res := &Result{
		Generated:   r.generated,
		Diagnostics: r.sink.Snapshot(),
	}

	slices.SortFunc(res.Generated, func(a, b *gen.GeneratedFile) int {
		return strings.Compare(a.Path, b.Path)
	})

	for id := range r.failed {
		res.Failed = append(res.Failed, id)
	}

	slices.SortFunc(res.Failed, func(a, b analyze.TypeID) int {
		return strings.Compare(a.String(), b.String())
	})

	return res
}
