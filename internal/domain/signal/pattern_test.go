package signal

import (
	"testing"

	"github.com/stretchr/testify/require"

	proemerrors "github.com/alexisbeaulieu97/proem/pkg/errors"
)

func TestParsePattern(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		wildcard bool
		valid    bool
	}{
		{"proem.init", false, true},
		{"a", false, true},
		{"proem.pre.*", true, true},
		{"*", true, true},
		{"", false, false},
		{".*", true, true},
		{"a..b", false, false},
		{"a.", false, false},
		{"a*", false, false},
		{"*.b", false, false},
		{"a.*.b", false, false},
		{"a.**", false, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			wildcard, err := parsePattern(tc.name)
			if !tc.valid {
				var patternErr *proemerrors.PatternError
				require.ErrorAs(t, err, &patternErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wildcard, wildcard)
		})
	}
}

func TestNormalizePattern(t *testing.T) {
	t.Parallel()

	require.Equal(t, RootWildcard, normalizePattern(".*"))
	require.Equal(t, RootWildcard, normalizePattern("*"))
	require.Equal(t, "a.*", normalizePattern("a.*"))
}

func TestWildcardCandidates(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"a.b.*", "a.*", "*"}, wildcardCandidates("a.b.c"))
	require.Equal(t, []string{"*"}, wildcardCandidates("a"))
}

func TestIsWildcard(t *testing.T) {
	t.Parallel()

	require.True(t, IsWildcard("*"))
	require.True(t, IsWildcard("proem.*"))
	require.False(t, IsWildcard("proem.init"))
}

func TestVocabulary(t *testing.T) {
	t.Parallel()

	names := Vocabulary("proem")
	require.Len(t, names, 18)
	require.Equal(t, "proem.init", names[0])
	require.Equal(t, "proem.pre.in.response", names[1])
	require.Equal(t, "proem.post.in.dispatch", names[8])
	require.Equal(t, "proem.pre.out.dispatch", names[9])
	require.Equal(t, "proem.post.out.response", names[16])
	require.Equal(t, "proem.shutdown", names[17])
	require.Equal(t, "shop.pre.in.router", StageName("shop", PhasePre, DirIn, StageRouter))
}
