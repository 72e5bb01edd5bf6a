package mlt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// memIndex is a tiny in-memory index over a single "body" field.
type memIndex struct {
	docs    []string
	vectors bool
}

func (m *memIndex) NumDocs() int { return len(m.docs) }

func (m *memIndex) FieldNames() []string { return []string{"body"} }

func (m *memIndex) DocFreq(field, term string) (int, error) {
	if field != "body" {
		return 0, nil
	}
	n := 0
	for _, doc := range m.docs {
		for _, w := range strings.Fields(doc) {
			if w == term {
				n++
				break
			}
		}
	}
	return n, nil
}

func (m *memIndex) TermVector(doc int, field string) (map[string]int, error) {
	if !m.vectors || field != "body" {
		return nil, nil
	}
	vector := make(map[string]int)
	for _, w := range strings.Fields(m.docs[doc]) {
		vector[w]++
	}
	return vector, nil
}

func (m *memIndex) Document(doc int, field string) ([]string, error) {
	if field != "body" {
		return nil, nil
	}
	return []string{m.docs[doc]}, nil
}

func newTestIndex(vectors bool) *memIndex {
	return &memIndex{
		vectors: vectors,
		docs: []string{
			"cheese cheese bread wine",
			"cheese wine pairing",
			"bread butter",
			"wine grapes",
			"car engine oil",
		},
	}
}

func TestRetrieveInterestingTermsText(t *testing.T) {
	m := New(newTestIndex(false),
		WithAnalyzer(WhitespaceAnalyzer),
		WithMinTermFreq(1),
		WithMinDocFreq(1),
	)

	terms, err := m.RetrieveInterestingTermsText("body", "cheese cheese wine crackers")
	assert.Nil(t, err)

	// cheese: tf=2, df=2; wine: tf=1, df=3. crackers is not indexed and
	// is dropped. cheese wins on both tf and idf.
	assert.Equal(t, []string{"cheese", "wine"}, terms)
}

func TestLikeDocUsesTermVectors(t *testing.T) {
	m := New(newTestIndex(true),
		WithMinTermFreq(1),
		WithMinDocFreq(1),
	)

	q, err := m.LikeDoc(0)
	assert.Nil(t, err)
	assert.Len(t, q.Terms, 3)
	assert.Equal(t, "cheese", q.Terms[0].Term)
	assert.Equal(t, "body", q.Terms[0].Field)

	// Without vectors the same call needs an analyzer:
	noVectors := New(newTestIndex(false), WithMinTermFreq(1), WithMinDocFreq(1))
	_, err = noVectors.LikeDoc(0)
	assert.ErrorIs(t, err, ErrNoAnalyzer)
}

// An index with nothing indexed yet reports no field names.
type noFieldsIndex struct {
	memIndex
}

func (n *noFieldsIndex) FieldNames() []string { return nil }

func TestLikeTextNoIndexedFields(t *testing.T) {
	m := New(&noFieldsIndex{},
		WithAnalyzer(WhitespaceAnalyzer),
		WithMinTermFreq(1),
	)

	q, err := m.LikeText("body", "cheese cheese wine")
	assert.Nil(t, err)
	assert.Empty(t, q.Terms)
}

func TestLikeTextRequiresAnalyzer(t *testing.T) {
	m := New(newTestIndex(true))
	_, err := m.LikeText("body", "cheese wine")
	assert.ErrorIs(t, err, ErrNoAnalyzer)
}

func TestMinTermFreqFilters(t *testing.T) {
	m := New(newTestIndex(false),
		WithAnalyzer(WhitespaceAnalyzer),
		WithMinDocFreq(1),
	)

	// Default minTermFreq is 2; only cheese occurs twice in the text.
	terms, err := m.RetrieveInterestingTermsText("body", "cheese cheese wine bread")
	assert.Nil(t, err)
	assert.Equal(t, []string{"cheese"}, terms)
}

func TestMaxDocFreqFilters(t *testing.T) {
	m := New(newTestIndex(false),
		WithAnalyzer(WhitespaceAnalyzer),
		WithMinTermFreq(1),
		WithMinDocFreq(1),
		WithMaxDocFreq(2),
	)

	// wine appears in 3 of 5 docs and is filtered as too common.
	terms, err := m.RetrieveInterestingTermsText("body", "cheese wine")
	assert.Nil(t, err)
	assert.Equal(t, []string{"cheese"}, terms)
}

func TestStopWords(t *testing.T) {
	m := New(newTestIndex(false),
		WithAnalyzer(WhitespaceAnalyzer),
		WithMinTermFreq(1),
		WithMinDocFreq(1),
		WithStopWords("cheese"),
	)

	terms, err := m.RetrieveInterestingTermsText("body", "cheese cheese wine")
	assert.Nil(t, err)
	assert.Equal(t, []string{"wine"}, terms)
}

func TestWordLengthFilters(t *testing.T) {
	m := New(newTestIndex(false),
		WithAnalyzer(WhitespaceAnalyzer),
		WithMinTermFreq(1),
		WithMinDocFreq(1),
		WithMinWordLen(5),
	)

	terms, err := m.RetrieveInterestingTermsText("body", "cheese wine")
	assert.Nil(t, err)
	assert.Equal(t, []string{"cheese"}, terms)
}

func TestMaxQueryTerms(t *testing.T) {
	m := New(newTestIndex(true),
		WithMinTermFreq(1),
		WithMinDocFreq(1),
		WithMaxQueryTerms(1),
	)

	q, err := m.LikeDoc(0)
	assert.Nil(t, err)
	assert.Len(t, q.Terms, 1)
	assert.Equal(t, "cheese", q.Terms[0].Term)
}

func TestBoost(t *testing.T) {
	m := New(newTestIndex(true),
		WithMinTermFreq(1),
		WithMinDocFreq(1),
		WithBoost(5),
	)

	q, err := m.LikeDoc(0)
	assert.Nil(t, err)
	assert.Len(t, q.Terms, 3)

	// The best term gets the full factor; the rest scale by relative score.
	assert.Equal(t, 5.0, q.Terms[0].Boost)
	for _, tq := range q.Terms[1:] {
		assert.Less(t, tq.Boost, 5.0)
		assert.Greater(t, tq.Boost, 0.0)
	}

	// Without boosting every term query has boost 1:
	plain := New(newTestIndex(true), WithMinTermFreq(1), WithMinDocFreq(1))
	q, err = plain.LikeDoc(0)
	assert.Nil(t, err)
	for _, tq := range q.Terms {
		assert.Equal(t, 1.0, tq.Boost)
	}
}

func TestQueryString(t *testing.T) {
	q := &Query{Terms: []TermQuery{
		{Field: "body", Term: "cheese", Boost: 1},
		{Field: "body", Term: "wine", Boost: 2.5},
	}}
	assert.Equal(t, "body:cheese body:wine^2.500", q.String())
}

func TestDescribeParams(t *testing.T) {
	m := New(newTestIndex(false), WithMaxQueryTerms(10))
	s := m.DescribeParams()
	assert.Contains(t, s, "maxQueryTerms : 10")
	assert.Contains(t, s, "fieldNames    : body")
}
