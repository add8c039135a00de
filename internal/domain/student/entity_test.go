package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"commas and spaces", "Kim, Lee  Park", []string{"Kim", "Lee", "Park"}},
		{"only commas", "Kim,Lee,Park", []string{"Kim", "Lee", "Park"}},
		{"newlines and tabs", "Kim\nLee\tPark", []string{"Kim", "Lee", "Park"}},
		{"trailing separators", "Kim,, ,", []string{"Kim"}},
		{"empty input", "", nil},
		{"only separators", " , ,\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNames(tt.input)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewStudent(t *testing.T) {
	s, err := NewStudent("id-1", 3, "  Kim  ")
	require.NoError(t, err)

	assert.Equal(t, "id-1", s.ID)
	assert.Equal(t, 3, s.Number)
	assert.Equal(t, "Kim", s.Name)
	assert.Empty(t, s.Honorific)
	require.NotNil(t, s.Stats)
	assert.Equal(t, Level(1), s.Stats.Level)
	assert.Equal(t, Exp(0), s.Stats.Exp)
}

func TestNewStudent_Invalid(t *testing.T) {
	_, err := NewStudent("", 1, "Kim")
	assert.Error(t, err)

	_, err = NewStudent("id-1", 1, "   ")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestExpRescale(t *testing.T) {
	tests := []struct {
		exp  Exp
		want Exp
	}{
		{250, 25},
		{100, 10},
		{104, 10},
		{105, 11}, // round half up
		{999, 100},
		{0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.exp.Rescaled(), "exp %d", tt.exp)
	}
}

func TestNormalizeExp(t *testing.T) {
	s := &Student{ID: "a", Stats: &Stats{Level: 5, Exp: 250}}

	assert.True(t, s.NormalizeExp())
	assert.Equal(t, Exp(25), s.Stats.Exp)
	assert.Equal(t, Level(5), s.Stats.Level)

	// Second pass changes nothing: rescaled values sit below the threshold.
	assert.False(t, s.NormalizeExp())
	assert.Equal(t, Exp(25), s.Stats.Exp)
}

func TestNormalizeExp_BelowThreshold(t *testing.T) {
	for _, exp := range []Exp{0, 1, 50, 99} {
		s := &Student{ID: "a", Stats: &Stats{Level: 1, Exp: exp}}
		assert.False(t, s.NormalizeExp(), "exp %d", exp)
		assert.Equal(t, exp, s.Stats.Exp)
	}
}

func TestNormalizeExp_MissingStats(t *testing.T) {
	s := &Student{ID: "a"}
	assert.False(t, s.NormalizeExp())
	assert.Nil(t, s.Stats)
}

func TestEnsureStats(t *testing.T) {
	s := &Student{ID: "a"}

	assert.True(t, s.EnsureStats())
	require.NotNil(t, s.Stats)
	assert.Equal(t, Level(1), s.Stats.Level)
	assert.Equal(t, Exp(0), s.Stats.Exp)

	assert.False(t, s.EnsureStats())
}

func TestResetProgress(t *testing.T) {
	s := &Student{
		ID:        "a",
		Number:    7,
		Name:      "Kim",
		Honorific: "Sage",
		IconType:  "icon-old",
		Stats:     &Stats{Level: 9, Exp: 80},
		Points:    120,
	}

	s.ResetProgress("icon-seed-2")

	assert.Equal(t, "a", s.ID)
	assert.Equal(t, 7, s.Number)
	assert.Equal(t, "Kim", s.Name)
	assert.Empty(t, s.Honorific)
	assert.Equal(t, "icon-seed-2", s.IconType)
	assert.Equal(t, Points(0), s.Points)
	require.NotNil(t, s.Stats)
	assert.Equal(t, Level(0), s.Stats.Level)
	assert.Equal(t, Exp(0), s.Stats.Exp)
}

func TestAssignHonorific(t *testing.T) {
	s := &Student{ID: "a"}

	assert.True(t, s.AssignHonorific(FixedPicker(2)))
	assert.Equal(t, HonorificPool[2], s.Honorific)

	// An existing honorific is never overwritten.
	assert.False(t, s.AssignHonorific(FixedPicker(5)))
	assert.Equal(t, HonorificPool[2], s.Honorific)
}

func TestClone_DeepCopy(t *testing.T) {
	s := &Student{ID: "a", Stats: &Stats{Level: 2, Exp: 30}}

	clone := s.Clone()
	clone.Stats.Exp = 99

	assert.Equal(t, Exp(30), s.Stats.Exp)
}

func TestCloneList_DeepCopy(t *testing.T) {
	src := []Student{{ID: "a", Stats: &Stats{Level: 1, Exp: 10}}}

	out := CloneList(src)
	out[0].Stats.Exp = 77

	assert.Equal(t, Exp(10), src[0].Stats.Exp)
}
