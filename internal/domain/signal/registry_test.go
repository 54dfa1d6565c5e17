package signal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	proemerrors "github.com/alexisbeaulieu97/proem/pkg/errors"
)

func noop(context.Context, *Event) (any, error) { return nil, nil }

func TestRegistryAttachValidatesBeforeStoring(t *testing.T) {
	t.Parallel()

	r := NewRegistry(&counterGen{})
	_, err := r.Attach([]string{"a.b", "a..c"}, noop, 0)

	var patternErr *proemerrors.PatternError
	require.ErrorAs(t, err, &patternErr)
	require.Empty(t, r.Names(), "no queue may be created when any name is invalid")
}

func TestRegistryAttachRejectsNilCallbackAndEmptyNames(t *testing.T) {
	t.Parallel()

	r := NewRegistry(&counterGen{})

	var regErr *proemerrors.RegistrationError
	_, err := r.Attach(nil, noop, 0)
	require.ErrorAs(t, err, &regErr)

	_, err = r.Attach([]string{"a"}, nil, 0)
	require.ErrorAs(t, err, &regErr)
	require.Equal(t, "a", regErr.Name)
}

func TestRegistryAttachSharesIdentityAcrossNames(t *testing.T) {
	t.Parallel()

	r := NewRegistry(&counterGen{})
	id, err := r.Attach([]string{"a", "b"}, noop, 0)
	require.NoError(t, err)

	qa, ok := r.Resolve("a")
	require.True(t, ok)
	qb, ok := r.Resolve("b")
	require.True(t, ok)
	require.Equal(t, []ListenerID{id}, qa.Listeners())
	require.Equal(t, []ListenerID{id}, qb.Listeners())
	require.ElementsMatch(t, []string{"a", "b"}, r.Names())
}

func TestRegistryPromotesWildcardOnce(t *testing.T) {
	t.Parallel()

	r := NewRegistry(&counterGen{})
	wild, err := r.Attach([]string{"a.*"}, noop, 0)
	require.NoError(t, err)

	require.True(t, r.Matches("a.b"))
	require.Empty(t, r.Names(), "Matches must not promote")

	q, ok := r.Resolve("a.b")
	require.True(t, ok)
	require.Equal(t, []ListenerID{wild}, q.Listeners())

	q, _ = r.Resolve("a.b")
	require.Equal(t, 1, q.Len(), "second resolve must not duplicate the entry")

	_, ok = r.Resolve("c.d")
	require.False(t, ok)
	require.False(t, r.Matches("c.d"))
}

func TestRegistryWildcardsMatchAllDepths(t *testing.T) {
	t.Parallel()

	r := NewRegistry(&counterGen{})
	root, err := r.Attach([]string{RootWildcard}, noop, 0)
	require.NoError(t, err)
	mid, err := r.Attach([]string{"a.*"}, noop, 5)
	require.NoError(t, err)
	deep, err := r.Attach([]string{"a.b.*"}, noop, 10)
	require.NoError(t, err)

	q, ok := r.Resolve("a.b.c")
	require.True(t, ok)
	require.Equal(t, []ListenerID{deep, mid, root}, q.Listeners())

	q, ok = r.Resolve("z")
	require.True(t, ok)
	require.Equal(t, []ListenerID{root}, q.Listeners())
}

func TestRegistryRemoveClearsPromotion(t *testing.T) {
	t.Parallel()

	r := NewRegistry(&counterGen{})
	exact, err := r.Attach([]string{"a.b"}, noop, 0)
	require.NoError(t, err)
	wild, err := r.Attach([]string{"a.*"}, noop, 0)
	require.NoError(t, err)

	q, _ := r.Resolve("a.b")
	require.Equal(t, []ListenerID{exact, wild}, q.Listeners())

	require.True(t, r.Remove("a.b"))
	require.False(t, r.Remove("a.b"))

	q, ok := r.Resolve("a.b")
	require.True(t, ok)
	require.Equal(t, []ListenerID{wild}, q.Listeners(), "wildcard re-promoted, exact gone")
}

func TestRegistryRemoveWildcardPatternLeavesPending(t *testing.T) {
	t.Parallel()

	r := NewRegistry(&counterGen{})
	_, err := r.Attach([]string{"a.*"}, noop, 0)
	require.NoError(t, err)

	require.False(t, r.Remove("a.*"))
	require.True(t, r.Matches("a.x"))
}

func TestNewRegistryDefaultsToULIDs(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	first, err := r.Attach([]string{"a"}, noop, 0)
	require.NoError(t, err)
	second, err := r.Attach([]string{"a"}, noop, 0)
	require.NoError(t, err)

	require.Len(t, string(first), 26)
	require.NotEqual(t, first, second)
}

type fixedGen struct{}

func (fixedGen) Next() string { return "same" }

func TestRegistryRejectsRepeatedIdentity(t *testing.T) {
	t.Parallel()

	r := NewRegistry(fixedGen{})
	var calls []string
	first, err := r.Attach([]string{"a"}, recorder(&calls, "first"), 0)
	require.NoError(t, err)

	_, err = r.Attach([]string{"b"}, recorder(&calls, "second"), 0)
	var regErr *proemerrors.RegistrationError
	require.ErrorAs(t, err, &regErr)
	require.Equal(t, "b", regErr.Name)
	require.NotContains(t, r.Names(), "b")

	cb, ok := r.Callback(first)
	require.True(t, ok)
	_, err = cb(context.Background(), NewEvent("a"))
	require.NoError(t, err)
	require.Equal(t, []string{"first"}, calls)
}

func TestRegistryDotStarAliasesRootWildcard(t *testing.T) {
	t.Parallel()

	r := NewRegistry(&counterGen{})
	id, err := r.Attach([]string{".*"}, noop, 0)
	require.NoError(t, err)

	require.True(t, r.Matches("anything.at.all"))
	q, ok := r.Resolve("x")
	require.True(t, ok)
	require.Equal(t, []ListenerID{id}, q.Listeners())
}
