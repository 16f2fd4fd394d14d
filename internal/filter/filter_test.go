package filter

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/failure"
)

type row struct {
	id      int
	kind    string
	date    time.Time
	teacher string
	notes   string
}

var accessors = Accessors[row]{
	Category: func(r row) string { return r.kind },
	Date:     func(r row) time.Time { return r.date },
	Field:    func(r row) string { return r.teacher },
	Blob:     func(r row) []string { return []string{r.kind, r.teacher, r.notes} },
}

func day(d int, hour int) time.Time {
	return time.Date(2024, 5, d, hour, 0, 0, 0, time.UTC)
}

func sample() []row {
	return []row{
		{1, "Visited", day(3, 9), "Ana Ruiz", "Career fair"},
		{2, "Digital", day(3, 18), "Luis Soto", "Instagram campaign"},
		{3, "Visited", day(4, 10), "Luis Soto", "Open house"},
		{4, "Invited", time.Time{}, "Ana Ruiz", ""},
	}
}

func ids(rows []row) []int {
	out := []int{}
	for _, r := range rows {
		out = append(out, r.id)
	}
	return out
}

func TestEachStage(t *testing.T) {
	items := sample()

	assert.Equal(t, []int{1, 3}, ids(Apply(items, Criteria{Category: "Visited"}, accessors)))
	assert.Equal(t, []int{1, 2}, ids(Apply(items, Criteria{Date: "2024-05-03"}, accessors)))
	assert.Equal(t, []int{2, 3}, ids(Apply(items, Criteria{Field: "soto"}, accessors)))
	assert.Equal(t, []int{2}, ids(Apply(items, Criteria{Query: "INSTAGRAM"}, accessors)))
}

func TestStagesComposeWithAnd(t *testing.T) {
	got := Apply(sample(), Criteria{Category: "Visited", Field: "luis", Query: "open"}, accessors)
	assert.Equal(t, []int{3}, ids(got))

	got = Apply(sample(), Criteria{Category: "Digital", Date: "2024-05-04"}, accessors)
	assert.Empty(t, got)
}

func TestApplyIsIdempotentAndNonDestructive(t *testing.T) {
	items := sample()
	c := Criteria{Category: "Visited", Query: "a"}
	once := Apply(items, c, accessors)
	twice := Apply(once, c, accessors)
	assert.Equal(t, once, twice)
	assert.Equal(t, sample(), items)
}

func TestResetRestoresSnapshotInOrder(t *testing.T) {
	items := sample()
	assert.Equal(t, items, Apply(items, Reset(), accessors))
	assert.Equal(t, items, Apply(items, Criteria{}, accessors))
}

func TestUnparseableDateMatchesNothing(t *testing.T) {
	assert.Empty(t, Apply(sample(), Criteria{Date: "03/05/2024"}, accessors))
}

func TestNilAccessorDisablesStage(t *testing.T) {
	got := Apply(sample(), Criteria{Category: "Visited"}, Accessors[row]{})
	assert.Len(t, got, 4)
}

func TestParse(t *testing.T) {
	c, err := Parse(url.Values{"type": {"Digital"}, "date": {"2024-05-03"}, "teacher": {" ana "}, "q": {"fair"}})
	require.NoError(t, err)
	assert.Equal(t, Criteria{Category: "Digital", Date: "2024-05-03", Field: "ana", Query: "fair"}, c)

	c, err = Parse(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, Reset(), c)

	_, err = Parse(url.Values{"date": {"yesterday"}})
	pre, ok := failure.AsPrecondition(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_filter", pre.Code)
}
