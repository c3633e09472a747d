package move

import (
	"testing"

	"github.com/matryer/is"
)

func TestFromString(t *testing.T) {
	is := is.New(t)
	for _, tc := range []struct {
		in   string
		want Move
	}{
		{"C", Cooperate},
		{"d", Defect},
		{" Cooperate ", Cooperate},
		{"DEFECT", Defect},
		{"betray", Defect},
	} {
		m, err := FromString(tc.in)
		is.NoErr(err)
		is.Equal(m, tc.want)
	}
	_, err := FromString("x")
	is.True(err != nil)
}

func TestSequence(t *testing.T) {
	is := is.New(t)
	moves, err := ParseSequence("CCDCD")
	is.NoErr(err)
	is.Equal(moves, []Move{Cooperate, Cooperate, Defect, Cooperate, Defect})
	is.Equal(Sequence(moves), "CCDCD")
	is.Equal(Count(moves, Defect), 2)

	last, ok := Last(moves)
	is.True(ok)
	is.Equal(last, Defect)
	_, ok = Last(nil)
	is.True(!ok)

	_, err = ParseSequence("CQ")
	is.True(err != nil)
}

func TestOpposite(t *testing.T) {
	is := is.New(t)
	is.Equal(Cooperate.Opposite(), Defect)
	is.Equal(Defect.Opposite(), Cooperate)
	is.True(!Move(7).Valid())
	is.Equal(Move(7).String(), "Move(7)")
}
