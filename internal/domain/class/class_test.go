package class

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ol2009/classquest-hub/internal/domain/student"
)

func TestRosterUnmarshal_Embedded(t *testing.T) {
	data := []byte(`{"id":"c1","name":"3-A","students":[{"id":"s1","number":1,"name":"Kim"}]}`)

	var info Info
	require.NoError(t, json.Unmarshal(data, &info))

	assert.Equal(t, RosterEmbedded, info.Students.Kind)
	require.Len(t, info.Students.Students, 1)
	assert.Equal(t, "Kim", info.Students.Students[0].Name)
	assert.Equal(t, 1, info.Students.Len())
}

func TestRosterUnmarshal_Summary(t *testing.T) {
	data := []byte(`{"id":"c1","name":"3-A","students":23}`)

	var info Info
	require.NoError(t, json.Unmarshal(data, &info))

	assert.Equal(t, RosterSummary, info.Students.Kind)
	assert.Equal(t, 23, info.Students.Len())
}

func TestRosterUnmarshal_Null(t *testing.T) {
	data := []byte(`{"id":"c1","name":"3-A","students":null}`)

	var info Info
	require.NoError(t, json.Unmarshal(data, &info))

	assert.Equal(t, RosterNone, info.Students.Kind)
	assert.Equal(t, 0, info.Students.Len())
}

func TestRosterUnmarshal_BadShape(t *testing.T) {
	var r Roster
	assert.Error(t, json.Unmarshal([]byte(`"what"`), &r))
}

func TestRosterMarshal_RoundTripKeepsShape(t *testing.T) {
	embedded := Info{ID: "c1", Name: "3-A", Students: EmbeddedRoster([]student.Student{{ID: "s1", Name: "Kim"}})}
	data, err := json.Marshal(embedded)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"students":[`)

	summary := Info{ID: "c2", Name: "3-B", Students: SummaryRoster(12)}
	data, err = json.Marshal(summary)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"students":12`)
}

func TestSetStudents_EmbeddedReplacesList(t *testing.T) {
	info := Info{ID: "c1", Students: EmbeddedRoster([]student.Student{{ID: "old"}})}

	src := []student.Student{{ID: "s1", Stats: &student.Stats{Level: 1, Exp: 5}}}
	info.SetStudents(src)

	require.Equal(t, RosterEmbedded, info.Students.Kind)
	require.Len(t, info.Students.Students, 1)
	assert.Equal(t, "s1", info.Students.Students[0].ID)

	// Embedded copies never share memory with the source list.
	src[0].Stats.Exp = 99
	assert.Equal(t, student.Exp(5), info.Students.Students[0].Stats.Exp)
}

func TestSetStudents_SummaryKeepsShape(t *testing.T) {
	info := Info{ID: "c1", Students: SummaryRoster(3)}

	info.SetStudents([]student.Student{{ID: "a"}, {ID: "b"}})

	assert.Equal(t, RosterSummary, info.Students.Kind)
	assert.Equal(t, 2, info.Students.Count)
	assert.Nil(t, info.Students.Students)
}

func TestPatchStats_MatchesByID(t *testing.T) {
	info := Info{ID: "c1", Students: EmbeddedRoster([]student.Student{
		{ID: "s1", Name: "Kim", Stats: &student.Stats{Level: 1, Exp: 250}},
		{ID: "s2", Name: "Lee", Stats: &student.Stats{Level: 2, Exp: 40}},
	})}

	patched := info.PatchStats([]student.Student{
		{ID: "s1", Name: "IGNORED", Stats: &student.Stats{Level: 1, Exp: 25}},
		{ID: "missing", Stats: &student.Stats{Level: 9, Exp: 9}},
	})

	assert.Equal(t, 1, patched)
	assert.Equal(t, student.Exp(25), info.Students.Students[0].Stats.Exp)
	assert.Equal(t, "Kim", info.Students.Students[0].Name)
	assert.Equal(t, student.Exp(40), info.Students.Students[1].Stats.Exp)
}

func TestPatchStats_SummaryIsNoop(t *testing.T) {
	info := Info{ID: "c1", Students: SummaryRoster(5)}
	assert.Equal(t, 0, info.PatchStats([]student.Student{{ID: "s1", Stats: &student.Stats{}}}))
}

func TestListFind(t *testing.T) {
	roster := List{{ID: "c1"}, {ID: "c2"}}

	assert.Equal(t, 1, roster.Find("c2"))
	assert.Equal(t, -1, roster.Find("c3"))
}
