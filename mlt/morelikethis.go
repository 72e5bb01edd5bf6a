// Package mlt generates "more like this" similarity queries: given a
// document (or raw text), it finds the terms that best characterize it
// by tf*idf score and assembles them into a disjunction of term
// queries. Frequency, document-frequency and word-length thresholds
// prune the candidate terms so only a small set of high-signal terms
// survives.
package mlt

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Default thresholds controlling which terms are interesting.
const (
	// DefaultMinTermFreq filters out terms occurring fewer times in the
	// source document.
	DefaultMinTermFreq = 2

	// DefaultMinDocFreq filters out terms appearing in fewer documents.
	DefaultMinDocFreq = 5

	// DefaultMaxDocFreq is unbounded: terms are never filtered for
	// appearing in too many documents.
	DefaultMaxDocFreq = math.MaxInt32

	// DefaultMaxQueryTerms caps how many terms end up in a query.
	DefaultMaxQueryTerms = 25

	// DefaultMaxNumTokensParsed caps how much of an un-vectored field
	// gets re-tokenized.
	DefaultMaxNumTokensParsed = 5000
)

// ErrNoAnalyzer is returned when term frequencies must be recomputed
// from raw text but no analyzer was configured.
var ErrNoAnalyzer = errors.New("mlt: analyzer required when no term vector is stored")

// IndexReader is the minimal index view needed to score terms.
type IndexReader interface {
	// NumDocs returns the number of documents in the index.
	NumDocs() int

	// DocFreq returns the number of documents containing the term in
	// the given field.
	DocFreq(field, term string) (int, error)

	// TermVector returns the stored term frequency vector for the
	// given document field, or nil if the field stores no vector.
	TermVector(doc int, field string) (map[string]int, error)

	// Document returns the stored text values of the given field.
	Document(doc int, field string) ([]string, error)

	// FieldNames returns all indexed field names.
	FieldNames() []string
}

// Analyzer tokenizes field text. Used when a field has no stored term
// vector and for LikeText.
type Analyzer func(field, text string) []string

// WhitespaceAnalyzer lower-cases and splits on whitespace.
func WhitespaceAnalyzer(_, text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// ScoredTerm is one interesting term with its scoring detail. Only
// Term and Field matter for query building; the rest is kept for
// troubleshooting.
type ScoredTerm struct {
	Term     string
	Field    string
	Score    float64
	IDF      float64
	DocFreq  int
	TermFreq int
}

// TermQuery matches a single term in a field, optionally boosted.
type TermQuery struct {
	Field string
	Term  string
	Boost float64
}

func (q TermQuery) String() string {
	if q.Boost != 1 {
		return fmt.Sprintf("%s:%s^%.3f", q.Field, q.Term, q.Boost)
	}
	return fmt.Sprintf("%s:%s", q.Field, q.Term)
}

// Query is a disjunction of term queries, best term first.
type Query struct {
	Terms []TermQuery
}

func (q *Query) String() string {
	parts := make([]string, len(q.Terms))
	for i, t := range q.Terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// MoreLikeThis builds similarity queries against an IndexReader.
type MoreLikeThis struct {
	reader IndexReader

	analyzer           Analyzer
	fieldNames         []string
	minTermFreq        int
	minDocFreq         int
	maxDocFreq         int
	minWordLen         int
	maxWordLen         int
	maxQueryTerms      int
	maxNumTokensParsed int
	stopWords          map[string]struct{}
	boost              bool
	boostFactor        float64
}

type Option func(*MoreLikeThis)

// WithAnalyzer sets the analyzer used to tokenize raw text. Required
// for LikeText and for fields without stored term vectors.
func WithAnalyzer(a Analyzer) Option {
	return func(m *MoreLikeThis) { m.analyzer = a }
}

// WithFieldNames restricts term extraction to the given fields; by
// default all indexed fields are examined.
func WithFieldNames(names ...string) Option {
	return func(m *MoreLikeThis) { m.fieldNames = names }
}

// WithMinTermFreq sets the frequency below which terms are ignored in
// the source doc.
func WithMinTermFreq(n int) Option {
	return func(m *MoreLikeThis) { m.minTermFreq = n }
}

// WithMinDocFreq ignores terms that do not occur in at least this many
// documents.
func WithMinDocFreq(n int) Option {
	return func(m *MoreLikeThis) { m.minDocFreq = n }
}

// WithMaxDocFreq ignores terms that occur in more than this many
// documents.
func WithMaxDocFreq(n int) Option {
	return func(m *MoreLikeThis) { m.maxDocFreq = n }
}

// WithMaxDocFreqPct ignores terms that occur in more than the given
// percentage of all documents.
func WithMaxDocFreqPct(pct int) Option {
	return func(m *MoreLikeThis) { m.maxDocFreq = pct * m.reader.NumDocs() / 100 }
}

// WithMinWordLen ignores words shorter than this; zero means no minimum.
func WithMinWordLen(n int) Option {
	return func(m *MoreLikeThis) { m.minWordLen = n }
}

// WithMaxWordLen ignores words longer than this; zero means no maximum.
func WithMaxWordLen(n int) Option {
	return func(m *MoreLikeThis) { m.maxWordLen = n }
}

// WithMaxQueryTerms caps the number of terms in a generated query;
// zero means no cap.
func WithMaxQueryTerms(n int) Option {
	return func(m *MoreLikeThis) { m.maxQueryTerms = n }
}

// WithMaxNumTokensParsed caps how many tokens of an un-vectored field
// are examined.
func WithMaxNumTokensParsed(n int) Option {
	return func(m *MoreLikeThis) { m.maxNumTokensParsed = n }
}

// WithStopWords marks words as uninteresting regardless of score.
func WithStopWords(words ...string) Option {
	return func(m *MoreLikeThis) {
		m.stopWords = make(map[string]struct{}, len(words))
		for _, w := range words {
			m.stopWords[w] = struct{}{}
		}
	}
}

// WithBoost boosts each term query by its score relative to the best
// term, scaled by factor.
func WithBoost(factor float64) Option {
	return func(m *MoreLikeThis) {
		m.boost = true
		m.boostFactor = factor
	}
}

// New creates a MoreLikeThis query builder over the given index.
func New(reader IndexReader, options ...Option) *MoreLikeThis {
	m := &MoreLikeThis{
		reader:             reader,
		minTermFreq:        DefaultMinTermFreq,
		minDocFreq:         DefaultMinDocFreq,
		maxDocFreq:         DefaultMaxDocFreq,
		maxQueryTerms:      DefaultMaxQueryTerms,
		maxNumTokensParsed: DefaultMaxNumTokensParsed,
		boostFactor:        1,
	}
	for _, fn := range options {
		fn(m)
	}
	return m
}

// LikeDoc returns a query matching documents similar to the given one.
func (m *MoreLikeThis) LikeDoc(doc int) (*Query, error) {
	q, err := m.retrieveTerms(doc)
	if err != nil {
		return nil, err
	}
	return m.createQuery(q), nil
}

// LikeText returns a query matching documents similar to the given
// raw text, analyzed as the given field.
func (m *MoreLikeThis) LikeText(field, text string) (*Query, error) {
	termFreq := make(map[string]int)
	if err := m.addTermFrequencies(termFreq, field, text); err != nil {
		return nil, err
	}
	q, err := m.createQueue(termFreq)
	if err != nil {
		return nil, err
	}
	return m.createQuery(q), nil
}

// RetrieveInterestingTerms returns the top terms of the given
// document, best first, capped at the query term limit.
func (m *MoreLikeThis) RetrieveInterestingTerms(doc int) ([]string, error) {
	q, err := m.retrieveTerms(doc)
	if err != nil {
		return nil, err
	}
	return m.popTerms(q), nil
}

// RetrieveInterestingTermsText is RetrieveInterestingTerms over raw text.
func (m *MoreLikeThis) RetrieveInterestingTermsText(field, text string) ([]string, error) {
	termFreq := make(map[string]int)
	if err := m.addTermFrequencies(termFreq, field, text); err != nil {
		return nil, err
	}
	q, err := m.createQueue(termFreq)
	if err != nil {
		return nil, err
	}
	return m.popTerms(q), nil
}

// DescribeParams reports the parameters that control query formation.
func (m *MoreLikeThis) DescribeParams() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\tmaxQueryTerms : %d\n", m.maxQueryTerms)
	fmt.Fprintf(&sb, "\tminWordLen    : %d\n", m.minWordLen)
	fmt.Fprintf(&sb, "\tmaxWordLen    : %d\n", m.maxWordLen)
	fmt.Fprintf(&sb, "\tfieldNames    : %s\n", strings.Join(m.fields(), ", "))
	fmt.Fprintf(&sb, "\tboost         : %t\n", m.boost)
	fmt.Fprintf(&sb, "\tminTermFreq   : %d\n", m.minTermFreq)
	fmt.Fprintf(&sb, "\tminDocFreq    : %d\n", m.minDocFreq)
	return sb.String()
}

func (m *MoreLikeThis) fields() []string {
	if m.fieldNames != nil {
		return m.fieldNames
	}
	return m.reader.FieldNames()
}

// Collects term frequencies across all examined fields of a document,
// preferring stored term vectors and re-tokenizing otherwise.
func (m *MoreLikeThis) retrieveTerms(doc int) (*freqQ, error) {
	termFreq := make(map[string]int)
	for _, field := range m.fields() {
		vector, err := m.reader.TermVector(doc, field)
		if err != nil {
			return nil, err
		}

		if vector == nil {
			values, err := m.reader.Document(doc, field)
			if err != nil {
				return nil, err
			}
			for _, text := range values {
				if err := m.addTermFrequencies(termFreq, field, text); err != nil {
					return nil, err
				}
			}
			continue
		}

		for term, freq := range vector {
			if m.isNoiseWord(term) {
				continue
			}
			termFreq[term] += freq
		}
	}
	return m.createQueue(termFreq)
}

func (m *MoreLikeThis) addTermFrequencies(termFreq map[string]int, field, text string) error {
	if m.analyzer == nil {
		return ErrNoAnalyzer
	}
	tokenCount := 0
	for _, word := range m.analyzer(field, text) {
		tokenCount++
		if tokenCount > m.maxNumTokensParsed {
			break
		}
		if m.isNoiseWord(word) {
			continue
		}
		termFreq[word]++
	}
	return nil
}

func (m *MoreLikeThis) isNoiseWord(term string) bool {
	length := len([]rune(term))
	if m.minWordLen > 0 && length < m.minWordLen {
		return true
	}
	if m.maxWordLen > 0 && length > m.maxWordLen {
		return true
	}
	_, stopped := m.stopWords[term]
	return stopped
}

// Scores each candidate term by tf*idf and heapifies, best term on top.
func (m *MoreLikeThis) createQueue(termFreq map[string]int) (*freqQ, error) {
	numDocs := m.reader.NumDocs()
	fields := m.fields()

	q := make(freqQ, 0, len(termFreq))
	for word, tf := range termFreq {
		if m.minTermFreq > 0 && tf < m.minTermFreq {
			continue
		}

		// The field with the largest document frequency wins the term.
		// With no fields docFreq stays 0 and the term is skipped below.
		topField := ""
		docFreq := 0
		for _, field := range fields {
			freq, err := m.reader.DocFreq(field, word)
			if err != nil {
				return nil, err
			}
			if freq > docFreq {
				topField = field
				docFreq = freq
			}
		}

		if m.minDocFreq > 0 && docFreq < m.minDocFreq {
			continue
		}
		if docFreq > m.maxDocFreq {
			continue
		}
		if docFreq == 0 {
			// index update problem?
			continue
		}

		idf := idf(docFreq, numDocs)
		q = append(q, ScoredTerm{
			Term:     word,
			Field:    topField,
			Score:    float64(tf) * idf,
			IDF:      idf,
			DocFreq:  docFreq,
			TermFreq: tf,
		})
	}
	heap.Init(&q)
	return &q, nil
}

func (m *MoreLikeThis) createQuery(q *freqQ) *Query {
	query := &Query{}
	var bestScore float64

	for q.Len() > 0 {
		st := heap.Pop(q).(ScoredTerm)
		tq := TermQuery{Field: st.Field, Term: st.Term, Boost: 1}
		if m.boost {
			if len(query.Terms) == 0 {
				bestScore = st.Score
			}
			tq.Boost = m.boostFactor * st.Score / bestScore
		}
		query.Terms = append(query.Terms, tq)
		if m.maxQueryTerms > 0 && len(query.Terms) >= m.maxQueryTerms {
			break
		}
	}
	return query
}

func (m *MoreLikeThis) popTerms(q *freqQ) []string {
	lim := m.maxQueryTerms
	if lim <= 0 || lim > q.Len() {
		lim = q.Len()
	}
	terms := make([]string, 0, lim)
	for q.Len() > 0 && len(terms) < lim {
		terms = append(terms, heap.Pop(q).(ScoredTerm).Term)
	}
	return terms
}

// Inverse document frequency, as the classic tf*idf similarity
// computes it.
func idf(docFreq, numDocs int) float64 {
	return 1 + math.Log(float64(numDocs)/float64(docFreq+1))
}

// Max-heap of scored terms; the best score pops first.
type freqQ []ScoredTerm

func (q freqQ) Len() int           { return len(q) }
func (q freqQ) Less(i, j int) bool { return q[i].Score > q[j].Score }
func (q freqQ) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *freqQ) Push(x any)        { *q = append(*q, x.(ScoredTerm)) }
func (q *freqQ) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}
