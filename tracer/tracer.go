// Package tracer is the orchestration facade: it wires lang, rewrite,
// runtime, record, relate, assemble, serialize and validate together into
// a single Run call that produces one artifact.Artifact, following
// analyzer.Analyzer's own role as the one struct every other package's
// caller actually touches.
package tracer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/viant/pytracer/artifact"
	"github.com/viant/pytracer/assemble"
	"github.com/viant/pytracer/lang"
	"github.com/viant/pytracer/metrics"
	"github.com/viant/pytracer/record"
	"github.com/viant/pytracer/relate"
	"github.com/viant/pytracer/rewrite"
	"github.com/viant/pytracer/runtime"
	"github.com/viant/pytracer/serialize"
	"github.com/viant/pytracer/tracing"
	"github.com/viant/pytracer/validate"
)

// Tracer parses, instruments, executes and assembles a trace for one
// Python-like snippet. One Tracer is single-run-at-a-time: Run is not
// safe to call concurrently on the same instance, matching Interp's own
// "one Interp = one Run" resource model — concurrent runs need separate
// Tracer instances, each with its own Rewriter (and so its own node-ID
// cache scoping).
type Tracer struct {
	parser  *lang.Parser
	rewrite *rewrite.Rewriter

	logger     *logrus.Logger
	maxSteps   int
	serverMode bool
	validate   bool
}

// New builds a Tracer, applying opts in order (later options win, same as
// analyzer.NewAnalyzer).
func New(opts ...Option) *Tracer {
	t := &Tracer{
		parser:  lang.NewParser(),
		rewrite: rewrite.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Reset clears the node-ID cache so the next Run mints IDs from 1
// regardless of problem key — used between independent runs that should
// not observe each other's prior ID assignments.
func (t *Tracer) Reset() {
	t.rewrite.Reset()
	runtime.ResetObjectIDs()
}

// Run parses src, instruments it, executes entrypoint (or the module body
// alone if entrypoint is empty) with args, and returns the assembled
// artifact. problemKey scopes node-ID stability across repeated runs of
// the same snippet (e.g. re-running after a minor edit keeps unrelated
// node IDs unchanged).
//
// In strict mode (the default) a parse error or an uncaught RuntimeError
// from the traced program is returned as err and art is nil. In server
// mode both are logged and swallowed and Run always returns a non-nil
// artifact: after a parse error it carries only Metadata; after a
// RuntimeError it keeps the ast and relationships but has an empty trace
// and empty stdout.
func (t *Tracer) Run(ctx context.Context, src []byte, problemKey, entrypoint string, args []runtime.Value, manual []relate.ManualRelationship) (art *artifact.Artifact, err error) {
	ctx, span := tracing.StartRun(ctx, problemKey, entrypoint)
	defer span.End()

	meta := artifact.Metadata{
		RunID:      uuid.NewString(),
		ProblemKey: problemKey,
		Entrypoint: entrypoint,
		ServerMode: t.serverMode,
	}

	clean, perr := t.parser.Parse(ctx, src)
	if perr != nil {
		metrics.RunsTotal.WithLabelValues("parse_error").Inc()
		tracing.RecordError(span, perr)
		if !t.serverMode {
			return nil, fmt.Errorf("parse: %w", perr)
		}
		t.logWarn(perr, "parse failed, returning empty artifact")
		return &artifact.Artifact{Metadata: meta}, nil
	}

	// Rewrite mutates its tree in place, so it runs on a second parse of
	// the same source (which parsed cleanly above). Before rewriting, the
	// two trees have the same shape; the IDs Rewrite assigns are copied
	// onto the matching clean nodes, so the ast and relationships carry the
	// same node IDs the recorded steps do. Relationships and the public AST
	// projection are derived from the clean tree, so relate's type/field
	// pattern-matching never has to see a NodeMarkerCall.
	toRun, _ := t.parser.Parse(ctx, src)
	var cleanNodes, runNodes []*lang.Node
	lang.Walk(clean, func(n *lang.Node) bool { cleanNodes = append(cleanNodes, n); return true })
	lang.Walk(toRun, func(n *lang.Node) bool { runNodes = append(runNodes, n); return true })
	rewritten := t.rewrite.Rewrite(toRun, problemKey)
	for idx, n := range cleanNodes {
		n.ID = runNodes[idx].ID
	}
	rels := relate.Analyze(clean, manual)
	astNode := artifact.FromNode(clean)

	recorder := record.New(t.maxSteps)
	var stdout bytes.Buffer
	interp := runtime.NewInterp(recorder, &stdout, t.maxSteps)

	result, rerr := interp.Run(ctx, rewritten, entrypoint, args)

	steps := recorder.Steps()
	metrics.StepsRecorded.Observe(float64(len(steps)))

	buildStart := time.Now()
	trace := assemble.Assemble(t.logger, steps)
	metrics.TraceBuildSeconds.Observe(time.Since(buildStart).Seconds())

	art = &artifact.Artifact{
		Metadata:      meta,
		AST:           astNode,
		Relationships: artifact.FromRelationships(rels),
		Trace:         trace,
		Stdout:        stdout.String(),
	}
	if result != nil {
		art.Result = serialize.SerializeValue(result)
	}

	if t.validate {
		report := validate.ValidateTrace(rewritten, art)
		if !report.OK {
			t.logWarn(errors.New(validate.FormatConflictReport(report)), "trace validation found conflicts")
		}
	}

	if rerr != nil {
		metrics.RunsTotal.WithLabelValues("runtime_error").Inc()
		tracing.RecordError(span, rerr)
		if !t.serverMode {
			return nil, rerr
		}
		t.logWarn(rerr, "traced program raised, returning artifact with empty trace/stdout")
		// An uncaught exception means the recorded trace is unreliable
		// (it stops mid-statement): server mode keeps the ast and
		// relationships, which are derived from the clean tree and are
		// unaffected by how far execution got, but clears the trace and
		// any partial stdout rather than exposing a cut-off run.
		art.Trace = nil
		art.Stdout = ""
		return art, nil
	}

	metrics.RunsTotal.WithLabelValues("ok").Inc()
	tracing.RecordStepCount(span, len(steps))
	return art, nil
}

func (t *Tracer) logWarn(err error, msg string) {
	if t.logger == nil {
		return
	}
	t.logger.WithError(err).Warn(msg)
}
