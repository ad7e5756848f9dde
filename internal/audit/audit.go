// Package audit runs the URI field audit: for every document type it counts
// and fetches the documents meeting the FAANG standard, then reports each
// configured field whose value is not a valid URL.
package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/doctype"
	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/document"
	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/elasticsearch"
	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/logger"
	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/urlcheck"
)

// ErrMissingID is returned when a document with an invalid URL lacks the
// field that identifies it.
var ErrMissingID = errors.New("document has no id field")

// Searcher is the part of the Elasticsearch client the auditor uses.
type Searcher interface {
	Count(ctx context.Context, index string, cond elasticsearch.Condition) (int, error)
	FetchAll(ctx context.Context, index string, cond elasticsearch.Condition, limit int) ([]document.Value, error)
}

// Params configures an Auditor.
type Params struct {
	Searcher    Searcher
	Table       doctype.Table
	IndexPrefix string
	// Condition defaults to elasticsearch.FAANGStandard().
	Condition *elasticsearch.Condition
	Out       io.Writer
	Logger    logger.Logger
}

// Auditor checks URI-typed fields of indexed documents.
type Auditor struct {
	searcher  Searcher
	table     doctype.Table
	prefix    string
	condition elasticsearch.Condition
	out       io.Writer
	log       logger.Logger
}

// Finding is a field value that is not a valid URL.
type Finding struct {
	Type  string
	Field string
	ID    string
	Value string
}

// TypeSummary counts what was audited for one document type.
type TypeSummary struct {
	Type     string
	Index    string
	Matched  int
	Checked  int
	Findings []Finding
}

// Summary is the result of a run. The report itself is written to Out.
type Summary struct {
	Types []TypeSummary
}

// FindingCount is the number of findings across all types.
func (s Summary) FindingCount() int {
	n := 0
	for _, ts := range s.Types {
		n += len(ts.Findings)
	}
	return n
}

// New creates an Auditor.
func New(p Params) (*Auditor, error) {
	if p.Searcher == nil {
		return nil, errors.New("audit: searcher is required")
	}
	if p.Table.Len() == 0 {
		return nil, errors.New("audit: document type table is empty")
	}
	if p.Out == nil {
		return nil, errors.New("audit: output writer is required")
	}

	cond := elasticsearch.FAANGStandard()
	if p.Condition != nil {
		cond = *p.Condition
	}
	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}

	return &Auditor{
		searcher:  p.Searcher,
		table:     p.Table,
		prefix:    p.IndexPrefix,
		condition: cond,
		out:       p.Out,
		log:       log,
	}, nil
}

// Run audits every document type in table order. Search failures, non-string
// URI values and findings without an ID abort the run.
func (a *Auditor) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	var summary Summary

	for _, spec := range a.table.Specs() {
		ts, err := a.auditType(ctx, spec)
		summary.Types = append(summary.Types, ts)
		if err != nil {
			return summary, fmt.Errorf("audit %s: %w", spec.Name, err)
		}
	}

	a.log.Info("Audit complete",
		logger.Strings("types", a.table.Names()),
		logger.Int("findings", summary.FindingCount()),
		logger.Duration("duration", time.Since(start)),
	)
	return summary, nil
}

func (a *Auditor) auditType(ctx context.Context, spec doctype.Spec) (TypeSummary, error) {
	index := elasticsearch.IndexName(a.prefix, spec.Name)
	ts := TypeSummary{Type: spec.Name, Index: index}
	log := a.log.With(logger.String("type", spec.Name), logger.String("index", index))

	size, err := a.searcher.Count(ctx, index, a.condition)
	if err != nil {
		return ts, err
	}
	ts.Matched = size
	if _, err = fmt.Fprintf(a.out, "%d %ss meeting %s standard\n", size, spec.Name, a.condition.Value); err != nil {
		return ts, fmt.Errorf("write report: %w", err)
	}

	docs, err := a.searcher.FetchAll(ctx, index, a.condition, size)
	if err != nil {
		return ts, err
	}
	log.Debug("Checking documents", logger.Int("documents", len(docs)), logger.Int("fields", len(spec.Fields)))

	for _, doc := range docs {
		for _, field := range spec.Fields {
			finding, checked, checkErr := a.checkField(spec, doc, field)
			if checkErr != nil {
				return ts, checkErr
			}
			if checked {
				ts.Checked++
			}
			if finding == nil {
				continue
			}
			ts.Findings = append(ts.Findings, *finding)
			if _, err = fmt.Fprintf(a.out, "the value of field %s in %s is not a valid URL: %s\n",
				finding.Field, finding.ID, finding.Value); err != nil {
				return ts, fmt.Errorf("write report: %w", err)
			}
		}
	}

	log.Info("Checked document type",
		logger.Int("matched", ts.Matched),
		logger.Int("checked", ts.Checked),
		logger.Int("findings", len(ts.Findings)),
	)
	return ts, nil
}

// checkField validates one field of one document. Absent and empty values
// are skipped and reported as not checked.
func (a *Auditor) checkField(spec doctype.Spec, doc document.Value, field string) (*Finding, bool, error) {
	value, found := document.Resolve(doc, field)
	if !found || !value.Truthy() {
		return nil, false, nil
	}

	valid, err := urlcheck.IsValid(value)
	if err != nil {
		return nil, true, fmt.Errorf("field %s: %w", field, err)
	}
	if valid {
		return nil, true, nil
	}

	id, ok := doc.Field(spec.IDField)
	if !ok {
		return nil, true, fmt.Errorf("%w: %s (invalid %s: %s)", ErrMissingID, spec.IDField, field, value)
	}

	return &Finding{
		Type:  spec.Name,
		Field: field,
		ID:    id.String(),
		Value: value.String(),
	}, true, nil
}
