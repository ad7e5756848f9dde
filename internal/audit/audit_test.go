package audit_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/audit"
	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/doctype"
	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/document"
	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/elasticsearch"
	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/urlcheck"
)

type fetchCall struct {
	Index string
	Limit int
}

// fakeSearcher serves documents per index and records calls.
type fakeSearcher struct {
	docs       map[string][]string
	countErr   error
	fetchErr   error
	counts     []string
	fetches    []fetchCall
	conditions []elasticsearch.Condition
}

func (f *fakeSearcher) Count(_ context.Context, index string, cond elasticsearch.Condition) (int, error) {
	f.counts = append(f.counts, index)
	f.conditions = append(f.conditions, cond)
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.docs[index]), nil
}

func (f *fakeSearcher) FetchAll(
	_ context.Context, index string, cond elasticsearch.Condition, limit int,
) ([]document.Value, error) {
	f.fetches = append(f.fetches, fetchCall{Index: index, Limit: limit})
	f.conditions = append(f.conditions, cond)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	raw := f.docs[index]
	if limit < len(raw) {
		raw = raw[:limit]
	}
	out := make([]document.Value, 0, len(raw))
	for _, r := range raw {
		var v document.Value
		if err := json.Unmarshal([]byte(r), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func organismTable() doctype.Table {
	return doctype.MustTable(doctype.Spec{
		Name:    "organism",
		IDField: doctype.BiosampleID,
		Fields:  []string{"pedigree"},
	})
}

func newAuditor(t *testing.T, searcher audit.Searcher, table doctype.Table, out *bytes.Buffer) *audit.Auditor {
	t.Helper()

	a, err := audit.New(audit.Params{
		Searcher:    searcher,
		Table:       table,
		IndexPrefix: "faang_build_3",
		Out:         out,
	})
	require.NoError(t, err)
	return a
}

func TestRun_ReportsInvalidURL(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{docs: map[string][]string{
		"faang_build_3_organism": {`{"pedigree": "ftp://bad url", "biosampleId": "ORG1"}`},
	}}
	var out bytes.Buffer

	summary, err := newAuditor(t, searcher, organismTable(), &out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t,
		"1 organisms meeting FAANG standard\n"+
			"the value of field pedigree in ORG1 is not a valid URL: ftp://bad url\n",
		out.String())

	require.Len(t, summary.Types, 1)
	assert.Equal(t, 1, summary.Types[0].Matched)
	assert.Equal(t, 1, summary.Types[0].Checked)
	assert.Equal(t, []audit.Finding{{
		Type:  "organism",
		Field: "pedigree",
		ID:    "ORG1",
		Value: "ftp://bad url",
	}}, summary.Types[0].Findings)
	assert.Equal(t, 1, summary.FindingCount())

	assert.Equal(t, []fetchCall{{Index: "faang_build_3_organism", Limit: 1}}, searcher.fetches)
	for _, cond := range searcher.conditions {
		assert.Equal(t, elasticsearch.FAANGStandard(), cond)
	}
}

func TestRun_SkipsAbsentAndEmptyValues(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{docs: map[string][]string{
		"faang_build_3_organism": {
			`{"pedigree": "", "biosampleId": "SAMPLE1"}`,
			`{"biosampleId": "SAMPLE2"}`,
			`{"pedigree": null, "biosampleId": "SAMPLE3"}`,
			`{"pedigree": 0, "biosampleId": "SAMPLE4"}`,
			`{"pedigree": [], "biosampleId": "SAMPLE5"}`,
			`{"pedigree": "http://www.ebi.ac.uk/ena", "biosampleId": "SAMPLE6"}`,
		},
	}}
	var out bytes.Buffer

	summary, err := newAuditor(t, searcher, organismTable(), &out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "6 organisms meeting FAANG standard\n", out.String())
	assert.Equal(t, 1, summary.Types[0].Checked)
	assert.Empty(t, summary.Types[0].Findings)
}

func TestRun_NestedFieldsAndTableOrder(t *testing.T) {
	t.Parallel()

	table := doctype.Default()
	searcher := &fakeSearcher{docs: map[string][]string{
		"faang_build_3_specimen": {
			`{"biosampleId": "SPEC1",
			  "availability": "mailto:someone@ebi.ac.uk",
			  "specimenFromOrganism": {
			    "specimenCollectionProtocol": {"url": "no protocol"},
			    "specimenPictureUrl": "https://www.ebi.ac.uk/pic.png"
			  }}`,
		},
		"faang_build_3_experiment": {
			`{"accession": "EXP1",
			  "ChiP-seq histone": {"chipProtocol": {"url": "see attached"}},
			  "experimentalProtocol": {"url": "https://api.faang.org/protocols/x.pdf"}}`,
		},
	}}
	var out bytes.Buffer

	summary, err := newAuditor(t, searcher, table, &out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t,
		"0 organisms meeting FAANG standard\n"+
			"1 specimens meeting FAANG standard\n"+
			"the value of field specimenFromOrganism.specimenCollectionProtocol.url in SPEC1 is not a valid URL: no protocol\n"+
			"1 experiments meeting FAANG standard\n"+
			"the value of field ChiP-seq histone.chipProtocol.url in EXP1 is not a valid URL: see attached\n"+
			"the value of field ChiP-seq histone.chipProtocol.url in EXP1 is not a valid URL: see attached\n",
		out.String())

	assert.Equal(t, []string{
		"faang_build_3_organism",
		"faang_build_3_specimen",
		"faang_build_3_experiment",
	}, searcher.counts)
	assert.Equal(t, 3, summary.FindingCount())
}

func TestRun_NonStringValueIsFatal(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{docs: map[string][]string{
		"faang_build_3_organism": {
			`{"pedigree": 5, "biosampleId": "ORG1"}`,
		},
		"faang_build_3_specimen": {
			`{"availability": "not a url", "biosampleId": "SPEC1"}`,
		},
	}}
	var out bytes.Buffer

	_, err := newAuditor(t, searcher, doctype.Default(), &out).Run(context.Background())
	require.ErrorIs(t, err, urlcheck.ErrInvalidInputKind)

	assert.Equal(t, "1 organisms meeting FAANG standard\n", out.String())
	assert.Equal(t, []string{"faang_build_3_organism"}, searcher.counts)
}

func TestRun_SearchErrorIsFatal(t *testing.T) {
	t.Parallel()

	boom := &elasticsearch.SearchServiceError{Op: elasticsearch.OpCount, Err: errors.New("connection refused")}
	searcher := &fakeSearcher{countErr: boom}
	var out bytes.Buffer

	_, err := newAuditor(t, searcher, doctype.Default(), &out).Run(context.Background())
	require.ErrorIs(t, err, elasticsearch.ErrSearchService)
	assert.Empty(t, out.String())
	assert.Len(t, searcher.counts, 1)
}

func TestRun_FetchErrorIsFatal(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{
		docs:     map[string][]string{"faang_build_3_organism": {`{}`}},
		fetchErr: &elasticsearch.SearchServiceError{Op: elasticsearch.OpFetch, Status: 503},
	}
	var out bytes.Buffer

	_, err := newAuditor(t, searcher, organismTable(), &out).Run(context.Background())
	require.ErrorIs(t, err, elasticsearch.ErrSearchService)
	assert.Equal(t, "1 organisms meeting FAANG standard\n", out.String())
}

func TestRun_MissingIDOnFinding(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{docs: map[string][]string{
		"faang_build_3_organism": {
			`{"pedigree": "http://www.ebi.ac.uk"}`,
			`{"pedigree": "bad value"}`,
		},
	}}
	var out bytes.Buffer

	_, err := newAuditor(t, searcher, organismTable(), &out).Run(context.Background())
	require.ErrorIs(t, err, audit.ErrMissingID)
}

func TestRun_IsIdempotent(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{docs: map[string][]string{
		"faang_build_3_organism": {
			`{"pedigree": "ftp://bad url", "biosampleId": "ORG1"}`,
			`{"pedigree": "https://www.ebi.ac.uk", "biosampleId": "ORG2"}`,
		},
	}}

	var out bytes.Buffer
	a := newAuditor(t, searcher, organismTable(), &out)

	firstSummary, err := a.Run(context.Background())
	require.NoError(t, err)
	first := out.String()
	out.Reset()

	secondSummary, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, out.String())
	assert.Equal(t, firstSummary, secondSummary)
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	_, err := audit.New(audit.Params{Table: organismTable(), Out: &out})
	require.Error(t, err)

	_, err = audit.New(audit.Params{Searcher: &fakeSearcher{}, Out: &out})
	require.Error(t, err)

	_, err = audit.New(audit.Params{Searcher: &fakeSearcher{}, Table: organismTable()})
	require.Error(t, err)
}

func TestNew_CustomCondition(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{docs: map[string][]string{}}
	cond := elasticsearch.Condition{Field: elasticsearch.StandardMetField, Value: "Legacy"}
	var out bytes.Buffer

	a, err := audit.New(audit.Params{
		Searcher:    searcher,
		Table:       organismTable(),
		IndexPrefix: "faang_build_4",
		Condition:   &cond,
		Out:         &out,
	})
	require.NoError(t, err)

	_, err = a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0 organisms meeting Legacy standard\n", out.String())
	assert.Equal(t, cond, searcher.conditions[0])
	assert.Equal(t, []string{"faang_build_4_organism"}, searcher.counts)
}
