package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/dbgsession/pkg/region"
)

func TestNew_IsRestored(t *testing.T) {
	c := NewComment(0x401000, "entry")
	assert.Equal(t, KindComment, c.Kind())
	assert.True(t, c.Restored())
	assert.Equal(t, uint64(0x401000), c.Address())

	l := NewLabel(0x401000, "main")
	assert.Equal(t, KindLabel, l.Kind())
	assert.True(t, l.Restored())
}

func TestPersist(t *testing.T) {
	tests := []struct {
		name string
		a    *Annotation
		want Record
	}{
		{
			name: "comment",
			a:    NewComment(0x10, "check bounds"),
			want: Record{"comment": "check bounds"},
		},
		{
			name: "label",
			a:    NewLabel(0x10, "parse_header"),
			want: Record{"label": "parse_header"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Persist())
		})
	}
}

func TestRestoreView(t *testing.T) {
	pending := NewPending(KindLabel, 0x1234, "target", "loop")
	view := pending.RestoreView()

	assert.Equal(t, "loop", view["label"])
	assert.Equal(t, "0000000000001234", view[KeyAddress])
	_, hasComment := view["comment"]
	assert.False(t, hasComment)
}

func TestRebase(t *testing.T) {
	regions := region.NewTable(region.Region{Name: "target", Start: 0x555555554000, End: 0x555555575000})

	t.Run("module loaded", func(t *testing.T) {
		a := NewPending(KindComment, 0x1234, "target", "hot")
		require.False(t, a.Restored())

		assert.True(t, a.Rebase(regions))
		assert.True(t, a.Restored())
		assert.Equal(t, uint64(0x555555555234), a.Address())
	})

	t.Run("idempotent", func(t *testing.T) {
		a := NewPending(KindComment, 0x1234, "target", "hot")
		a.Rebase(regions)
		a.Rebase(regions)
		a.Rebase(regions)
		assert.Equal(t, uint64(0x555555555234), a.Address())
	})

	t.Run("module missing defers", func(t *testing.T) {
		a := NewPending(KindLabel, 0x20, "libmissing.so", "x")
		assert.False(t, a.Rebase(regions))
		assert.False(t, a.Restored())
		assert.Equal(t, uint64(0x20), a.Address())
	})

	t.Run("module loads later", func(t *testing.T) {
		table := region.NewTable()
		a := NewPending(KindLabel, 0x20, "late.so", "x")
		assert.False(t, a.Rebase(table))

		table.Load(region.Region{Name: "late.so", Start: 0x7000, End: 0x8000})
		assert.True(t, a.Rebase(table))
		assert.Equal(t, uint64(0x7020), a.Address())
	})

	t.Run("live annotation untouched", func(t *testing.T) {
		a := NewComment(0x401000, "live")
		a.SetModule("target")
		assert.True(t, a.Rebase(regions))
		assert.Equal(t, uint64(0x401000), a.Address())
	})
}

func TestSetText(t *testing.T) {
	a := NewComment(0x10, "old")
	a.SetText("new")
	assert.Equal(t, Record{"comment": "new"}, a.Persist())
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("comment")
	assert.True(t, ok)
	assert.Equal(t, KindComment, k)

	k, ok = ParseKind("label")
	assert.True(t, ok)
	assert.Equal(t, KindLabel, k)

	_, ok = ParseKind("bookmark")
	assert.False(t, ok)

	assert.Equal(t, "kind(9)", Kind(9).String())
	assert.Len(t, Kinds(), 2)
}

func TestMatcher(t *testing.T) {
	items := []*Annotation{
		NewPending(KindComment, 0x1, "/usr/lib/libc.so.6", "a"),
		NewPending(KindLabel, 0x2, "/usr/lib/libc.so.6", "b"),
		NewPending(KindComment, 0x3, "/usr/bin/target", "c"),
		NewPending(KindComment, 0x4, "[vdso]", "d"),
	}

	t.Run("no patterns matches all", func(t *testing.T) {
		m, err := NewMatcher(nil, nil)
		require.NoError(t, err)
		assert.Len(t, m.Filter(items), 4)
	})

	t.Run("include", func(t *testing.T) {
		m, err := NewMatcher([]string{"*libc*"}, nil)
		require.NoError(t, err)
		got := m.Filter(items)
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].Text())
	})

	t.Run("exclude wins", func(t *testing.T) {
		m, err := NewMatcher([]string{"*"}, []string{"\\[vdso\\]", "*libc*"})
		require.NoError(t, err)
		got := m.Filter(items)
		require.Len(t, got, 1)
		assert.Equal(t, "c", got[0].Text())
	})

	t.Run("kinds", func(t *testing.T) {
		m, err := NewMatcher(nil, nil)
		require.NoError(t, err)
		got := m.WithKinds(KindLabel).Filter(items)
		require.Len(t, got, 1)
		assert.Equal(t, "b", got[0].Text())

		assert.Len(t, m.WithKinds().Filter(items), 4)
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := NewMatcher([]string{"[unclosed"}, nil)
		assert.Error(t, err)
	})
}
