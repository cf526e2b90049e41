package intent

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/answer-engine/internal/model"
)

func TestParse_QuotedName(t *testing.T) {
	p := NewParser()

	q, err := p.Parse(context.Background(), `When was "Acme Corp" founded?`)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", q.CompanyName)
	assert.Equal(t, model.AttrFounding, q.Attribute)
}

func TestParse_CapitalizedRun(t *testing.T) {
	p := NewParser()

	q, err := p.Parse(context.Background(), "When was Acme Corp founded?")
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", q.CompanyName)
	assert.Equal(t, model.AttrFounding, q.Attribute)
}

func TestParse_ConnectorInName(t *testing.T) {
	p := NewParser()

	q, err := p.Parse(context.Background(), "Where is Bank of America headquartered?")
	require.NoError(t, err)

	assert.Equal(t, "Bank of America", q.CompanyName)
	assert.Equal(t, model.AttrLocation, q.Attribute)
}

func TestParse_AttributePhrases(t *testing.T) {
	p := NewParser()

	cases := []struct {
		text string
		attr model.Attribute
	}{
		{"When was Acme founded?", model.AttrFounding},
		{"Where is Acme headquartered?", model.AttrLocation},
		{"What is the revenue of Acme?", model.AttrFinancials},
		{"Who is the CEO of Acme?", model.AttrLeadership},
		{"What products does Acme sell?", model.AttrProducts},
		{"Who are the customers of Acme?", model.AttrCustomers},
		{"Any recent news about Acme?", model.AttrNews},
	}
	for _, tc := range cases {
		q, err := p.Parse(context.Background(), tc.text)
		require.NoError(t, err, tc.text)
		assert.Equal(t, tc.attr, q.Attribute, tc.text)
	}
}

func TestParse_UnknownAttributeDefaultsToOverview(t *testing.T) {
	p := NewParser()

	q, err := p.Parse(context.Background(), "Acme Corp stock ticker symbol")
	require.NoError(t, err)

	assert.Equal(t, model.AttrOverview, q.Attribute)
}

func TestParse_NoCompanyName(t *testing.T) {
	p := NewParser()

	_, err := p.Parse(context.Background(), "when was it founded?")
	assert.ErrorIs(t, err, model.ErrUnparseable)
}

func TestParse_EmptyInput(t *testing.T) {
	p := NewParser()

	_, err := p.Parse(context.Background(), "   ")
	assert.ErrorIs(t, err, model.ErrUnparseable)
}

func TestParse_NormalizesWhitespace(t *testing.T) {
	p := NewParser()

	q, err := p.Parse(context.Background(), "  When   was\tAcme  Corp   founded? ")
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", q.CompanyName)
}

func TestParse_StampsLocale(t *testing.T) {
	p := NewParser(WithDefaultLocale("en-US"))

	q, err := p.Parse(context.Background(), "Tell me about Acme Corp")
	require.NoError(t, err)

	assert.Equal(t, "en-US", q.Locale)
}

type stubExtractor struct {
	company string
	attr    model.Attribute
	err     error
	calls   int
}

func (s *stubExtractor) ExtractIntent(ctx context.Context, rawText string) (string, model.Attribute, error) {
	s.calls++
	return s.company, s.attr, s.err
}

func TestParse_ExtractorSupplementsLowercaseNames(t *testing.T) {
	ext := &stubExtractor{company: "acme corp", attr: model.AttrFounding}
	p := NewParser(WithExtractor(ext))

	q, err := p.Parse(context.Background(), "when was acme corp founded?")
	require.NoError(t, err)

	assert.Equal(t, "acme corp", q.CompanyName)
	assert.Equal(t, model.AttrFounding, q.Attribute)
	assert.Equal(t, 1, ext.calls)
}

func TestParse_ExtractorFailureFallsBackSilently(t *testing.T) {
	ext := &stubExtractor{err: eris.New("api down")}
	p := NewParser(WithExtractor(ext))

	q, err := p.Parse(context.Background(), "When was Acme Corp founded?")
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", q.CompanyName)
}

func TestParse_QuotedNameSkipsExtractor(t *testing.T) {
	ext := &stubExtractor{company: "Wrong Co"}
	p := NewParser(WithExtractor(ext))

	q, err := p.Parse(context.Background(), `Tell me about "Acme Corp"`)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", q.CompanyName)
	assert.Equal(t, 0, ext.calls)
}

func TestParse_InterrogativesNotNames(t *testing.T) {
	p := NewParser()

	q, err := p.Parse(context.Background(), "Where is Globex Corporation based?")
	require.NoError(t, err)

	assert.Equal(t, "Globex Corporation", q.CompanyName)
}
