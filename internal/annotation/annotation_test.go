package annotation

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownKind(t *testing.T) {
	_, err := New(Kind(99))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestNewAssignsDistinctIDs(t *testing.T) {
	a, err := New(Rectangle)
	require.NoError(t, err)
	b, err := New(Rectangle)
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, DefaultStyle(Rectangle), a.Style)
}

func TestBoundsNormalize(t *testing.T) {
	a, err := New(Rectangle)
	require.NoError(t, err)
	a.BeginCreate(image.Pt(100, 100))
	a.SetFinish(image.Pt(300, 50))

	assert.Equal(t, image.Pt(100, 50), a.Origin())
	assert.Equal(t, 200, a.Width())
	assert.Equal(t, 50, a.Height())
	assert.Equal(t, image.Pt(100, 100), a.Start)
	assert.Equal(t, image.Pt(300, 50), a.Finish)
}

func TestCreateCommitLifecycle(t *testing.T) {
	a, err := New(Ellipse)
	require.NoError(t, err)
	a.Selected = true
	a.BeginCreate(image.Pt(5, 5))
	assert.True(t, a.Creating)
	assert.False(t, a.Selected)

	a.SetSelected(true)
	assert.False(t, a.Selected, "creating annotations cannot be selected")

	a.Commit()
	assert.False(t, a.Creating)
	assert.True(t, a.Selected)

	a.SetSelected(false)
	a.Commit()
	assert.False(t, a.Selected, "commit on a finished annotation is a no-op")
}

func TestDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		start  image.Point
		finish image.Point
		want   bool
	}{
		{"point rect", Rectangle, image.Pt(1, 1), image.Pt(1, 1), true},
		{"flat rect", Rectangle, image.Pt(1, 1), image.Pt(10, 1), true},
		{"rect", Rectangle, image.Pt(1, 1), image.Pt(10, 2), false},
		{"horizontal line", Line, image.Pt(1, 1), image.Pt(10, 1), false},
		{"point arrow", Arrow, image.Pt(4, 4), image.Pt(4, 4), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.kind)
			require.NoError(t, err)
			a.SetBounds(tt.start, tt.finish)
			assert.Equal(t, tt.want, a.Degenerate())
		})
	}
}

func TestConstrainSquareKeepsDirection(t *testing.T) {
	a, err := New(Rectangle)
	require.NoError(t, err)
	a.SetBounds(image.Pt(100, 100), image.Pt(40, 130))
	a.ConstrainSquare()

	assert.Equal(t, image.Pt(70, 130), a.Finish)
	assert.Equal(t, 30, a.Width())
	assert.Equal(t, 30, a.Height())
	assert.Equal(t, image.Pt(70, 100), a.Origin())
}

func TestMoveAndClone(t *testing.T) {
	a, err := New(Line)
	require.NoError(t, err)
	a.SetBounds(image.Pt(0, 0), image.Pt(10, 10))
	c := a.Clone()
	a.Move(image.Pt(5, -5))

	assert.Equal(t, image.Pt(5, -5), a.Start)
	assert.Equal(t, image.Pt(15, 5), a.Finish)
	assert.Equal(t, image.Pt(0, 0), c.Start, "clone must not follow the original")
	assert.Equal(t, image.Rect(0, 0, 10, 10), c.Rect())
}

func TestContains(t *testing.T) {
	rect, _ := New(Rectangle)
	rect.SetBounds(image.Pt(10, 10), image.Pt(50, 30))
	assert.True(t, rect.Contains(image.Pt(20, 20), 0))
	assert.False(t, rect.Contains(image.Pt(60, 20), 0))
	assert.True(t, rect.Contains(image.Pt(52, 20), 2))

	ell, _ := New(Ellipse)
	ell.SetBounds(image.Pt(0, 0), image.Pt(100, 50))
	assert.True(t, ell.Contains(image.Pt(50, 25), 0))
	assert.False(t, ell.Contains(image.Pt(1, 1), 0))

	line, _ := New(Line)
	line.SetBounds(image.Pt(0, 0), image.Pt(100, 0))
	assert.True(t, line.Contains(image.Pt(50, 2), 1))
	assert.False(t, line.Contains(image.Pt(50, 10), 1))
}

func TestHandleAt(t *testing.T) {
	a, _ := New(Rectangle)
	a.SetBounds(image.Pt(10, 10), image.Pt(110, 60))
	assert.Equal(t, HandleTopLeft, a.HandleAt(image.Pt(10, 10)))
	assert.Equal(t, HandleBottomRight, a.HandleAt(image.Pt(111, 61)))
	assert.Equal(t, HandleRight, a.HandleAt(image.Pt(110, 35)))
	assert.Equal(t, HandleNone, a.HandleAt(image.Pt(60, 35)))

	l, _ := New(Arrow)
	l.SetBounds(image.Pt(0, 0), image.Pt(50, 50))
	assert.Equal(t, HandleFinish, l.HandleAt(image.Pt(50, 50)))
	assert.Len(t, l.Handles(), 2)
}

func TestResizeFlipsPastOppositeEdge(t *testing.T) {
	a, _ := New(Rectangle)
	a.SetBounds(image.Pt(10, 10), image.Pt(50, 30))
	a.Resize(HandleLeft, image.Pt(60, 0))

	assert.Equal(t, image.Rect(50, 10, 70, 30), a.Rect())
	assert.GreaterOrEqual(t, a.Width(), 0)
}

func TestResizeSegmentEnd(t *testing.T) {
	a, _ := New(Line)
	a.SetBounds(image.Pt(0, 0), image.Pt(10, 10))
	a.Resize(HandleFinish, image.Pt(5, 0))
	assert.Equal(t, image.Pt(15, 10), a.Finish)
	assert.Equal(t, image.Pt(0, 0), a.Start)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	got, err := ParseKind(" Rect ")
	require.NoError(t, err)
	assert.Equal(t, Rectangle, got)

	_, err = ParseKind("star")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
