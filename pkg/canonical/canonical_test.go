package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/records"
	"github.com/agentstation/redpush/pkg/store"
)

func collection() records.Collection {
	return records.Collection{
		records.FromPairs("redpush_id", "b", "name", "B", "id", 3),
		records.FromPairs("redpush_id", 10, "name", "Ten", "options", records.FromPairs("z", 1, "a", 2)),
		records.FromPairs("redpush_id", 2, "query", "select 1", "name", "Two"),
	}
}

func keysOf(t *testing.T, c records.Collection) []string {
	t.Helper()
	out := make([]string, len(c))
	for i, r := range c {
		k, ok := r.RedpushID()
		require.True(t, ok)
		out[i] = k.String()
	}
	return out
}

func TestCanonicalizeSortsRecordsAndKeys(t *testing.T) {
	in := collection()
	out, err := Canonicalize(in)
	require.NoError(t, err)

	assert.Equal(t, []string{"2", "10", "b"}, keysOf(t, out))
	assert.Equal(t, []string{"name", "query", "redpush_id"}, out[0].Keys())
	assert.Equal(t, []string{"a", "z"}, out[1].Options().Keys())

	// input untouched
	assert.Equal(t, []string{"b", "10", "2"}, keysOf(t, in))
	assert.Equal(t, []string{"redpush_id", "name", "id"}, in[0].Keys())
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	once, err := Canonicalize(collection())
	require.NoError(t, err)
	twice, err := Canonicalize(once)
	require.NoError(t, err)

	a, err := store.Marshal(once)
	require.NoError(t, err)
	b, err := store.Marshal(twice)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestCanonicalizeIsDeterministic(t *testing.T) {
	base := collection()
	want, err := Canonicalize(base)
	require.NoError(t, err)
	wantText, err := store.Marshal(want)
	require.NoError(t, err)

	perms := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 0, 2}, {1, 2, 0}}
	for _, p := range perms {
		shuffled := records.Collection{base[p[0]], base[p[1]], base[p[2]]}
		got, err := Canonicalize(shuffled)
		require.NoError(t, err)
		text, err := store.Marshal(got)
		require.NoError(t, err)
		assert.Equal(t, string(wantText), string(text), "permutation %v", p)
	}
}

func TestCanonicalizeIntegrity(t *testing.T) {
	t.Run("duplicate", func(t *testing.T) {
		c := records.Collection{
			records.FromPairs("redpush_id", 1, "name", "A"),
			records.FromPairs("redpush_id", 1, "name", "B"),
		}
		_, err := Canonicalize(c)
		require.Error(t, err)
		assert.True(t, errors.IsIntegrity(err))

		var ie *errors.IntegrityError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, errors.IntegrityDuplicate, ie.Kind)
		assert.Equal(t, "1", ie.RedpushID)
		assert.Equal(t, 1, ie.Index)
	})

	t.Run("missing", func(t *testing.T) {
		c := records.Collection{records.FromPairs("name", "no key")}
		_, err := Canonicalize(c)

		var ie *errors.IntegrityError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, errors.IntegrityMissing, ie.Kind)
	})

	t.Run("fractional number", func(t *testing.T) {
		c := records.Collection{
			records.FromPairs("redpush_id", 1.5),
			records.FromPairs("redpush_id", "1.5"),
		}
		_, err := Canonicalize(c)

		var ie *errors.IntegrityError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, errors.IntegrityInvalid, ie.Kind)
		assert.Equal(t, "1.5", ie.RedpushID)
		assert.Equal(t, 0, ie.Index)

		_, err = Index("local", c)
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, errors.IntegrityInvalid, ie.Kind)
	})

	t.Run("integral float matches integer", func(t *testing.T) {
		c := records.Collection{
			records.FromPairs("redpush_id", 1),
			records.FromPairs("redpush_id", 1.0),
		}
		_, err := Canonicalize(c)
		assert.True(t, errors.IsIntegrity(err))
	})
}

func TestIndex(t *testing.T) {
	idx, err := Index("remote", records.Collection{
		records.FromPairs("redpush_id", 1, "id", 10),
		records.FromPairs("name", "unmanaged"),
	})
	require.NoError(t, err)
	assert.Len(t, idx, 1)
	assert.Contains(t, idx, records.IntKey(1))

	_, err = Index("remote", records.Collection{
		records.FromPairs("redpush_id", "x"),
		records.FromPairs("redpush_id", "x"),
	})
	assert.True(t, errors.IsIntegrity(err))
}

func TestEqual(t *testing.T) {
	c := collection()
	reversed := records.Collection{c[2], c[1], c[0]}
	eq, err := Equal(c, reversed)
	require.NoError(t, err)
	assert.True(t, eq)

	changed := c.Clone()
	changed[0].Set("name", "other")
	eq, err = Equal(c, changed)
	require.NoError(t, err)
	assert.False(t, eq)
}
