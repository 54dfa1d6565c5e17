package signal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/proem/internal/domain/service"
	proemerrors "github.com/alexisbeaulieu97/proem/pkg/errors"
)

func newTestManager(opts ...Option) *Manager {
	return NewManager(append([]Option{WithIDGenerator(&counterGen{})}, opts...)...)
}

func TestManagerRunsHigherPriorityFirst(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	var calls []string
	_, err := m.Attach("a", recorder(&calls, "L2"), 1)
	require.NoError(t, err)
	_, err = m.Attach("a", recorder(&calls, "L1"), 5)
	require.NoError(t, err)
	_, err = m.Attach("a", recorder(&calls, "L3"), -10)
	require.NoError(t, err)

	require.NoError(t, m.Trigger(context.Background(), NewEvent("a"), nil))
	require.Equal(t, []string{"L1", "L2", "L3"}, calls)
}

func TestManagerEqualPrioritiesRunInAttachOrder(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	var calls []string
	for _, label := range []string{"first", "second", "third"} {
		_, err := m.Attach("a", recorder(&calls, label), 0)
		require.NoError(t, err)
	}

	require.NoError(t, m.Trigger(context.Background(), NewEvent("a"), nil))
	require.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestManagerDoubleAttachInvokesTwice(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	var calls []string
	cb := recorder(&calls, "cb")

	first, err := m.Attach("a", cb, 0)
	require.NoError(t, err)
	second, err := m.Attach("a", cb, 0)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.NoError(t, m.Trigger(context.Background(), NewEvent("a"), nil))
	require.Len(t, calls, 2)
}

func TestManagerWildcardAndExactBothFire(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	var calls []string
	_, err := m.Attach("a.*", recorder(&calls, "wild"), 0)
	require.NoError(t, err)
	_, err = m.Attach("a.b", recorder(&calls, "exact"), 0)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, m.Trigger(ctx, NewEvent("a.b"), nil))
	require.ElementsMatch(t, []string{"wild", "exact"}, calls)

	calls = calls[:0]
	require.NoError(t, m.Trigger(ctx, NewEvent("c.d"), nil))
	require.Empty(t, calls)

	calls = calls[:0]
	require.NoError(t, m.Trigger(ctx, NewEvent("a.b"), nil))
	require.Len(t, calls, 2, "repeated triggers must not duplicate wildcard listeners")
}

func TestManagerRemoveThenTriggerRepromotesWildcards(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	var calls []string
	_, err := m.Attach("a.*", recorder(&calls, "wild"), 0)
	require.NoError(t, err)
	_, err = m.Attach("a.b", recorder(&calls, "exact"), 0)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, m.Trigger(ctx, NewEvent("a.b"), nil))
	require.True(t, m.Remove("a.b"))

	calls = calls[:0]
	require.NoError(t, m.Trigger(ctx, NewEvent("a.b"), nil))
	require.Equal(t, []string{"wild"}, calls)
}

func TestManagerResultsDeliveredBeforeNextListener(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	var log []string
	_, err := m.Attach("a", func(context.Context, *Event) (any, error) {
		log = append(log, "listener-1")
		return "r1", nil
	}, 10)
	require.NoError(t, err)
	_, err = m.Attach("a", func(context.Context, *Event) (any, error) {
		log = append(log, "listener-2")
		return nil, nil
	}, 5)
	require.NoError(t, err)
	_, err = m.Attach("a", func(context.Context, *Event) (any, error) {
		log = append(log, "listener-3")
		return 3, nil
	}, 0)
	require.NoError(t, err)

	err = m.Trigger(context.Background(), NewEvent("a"), func(result any) error {
		log = append(log, "result")
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"listener-1", "result", "listener-2", "listener-3", "result"}, log)
}

func TestManagerPropagatesErrorsUnchanged(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	m := newTestManager()
	var calls []string
	_, err := m.Attach("a", func(context.Context, *Event) (any, error) { return nil, boom }, 10)
	require.NoError(t, err)
	_, err = m.Attach("a", recorder(&calls, "after"), 0)
	require.NoError(t, err)

	err = m.Trigger(context.Background(), NewEvent("a"), nil)
	require.Same(t, boom, err)
	require.Empty(t, calls, "dispatch stops at the first error")

	resultErr := errors.New("rejected")
	m2 := newTestManager()
	_, err = m2.Attach("a", func(context.Context, *Event) (any, error) { return "x", nil }, 0)
	require.NoError(t, err)
	err = m2.Trigger(context.Background(), NewEvent("a"), func(any) error { return resultErr })
	require.Same(t, resultErr, err)
}

func TestManagerTriggerWithoutListenersIsNoop(t *testing.T) {
	t.Parallel()

	metrics := newFakeMetrics()
	m := newTestManager(WithMetrics(metrics))
	ctx := context.Background()

	require.NoError(t, m.Trigger(ctx, NewEvent("nobody.home"), nil))
	require.NoError(t, m.Trigger(ctx, NewEvent("nobody.home"), nil))
	require.False(t, m.HasListeners("nobody.home"))
	require.Empty(t, m.Registry().Names())
	require.Equal(t, 2, metrics.counters["proem_signal_triggers_total|nobody.home|false"])
}

func TestManagerTriggerRejectsBadInput(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	ctx := context.Background()

	require.ErrorIs(t, m.Trigger(ctx, nil, nil), ErrNilEvent)
	require.NoError(t, m.Trigger(ctx, NewEvent(""), nil))

	var patternErr *proemerrors.PatternError
	require.ErrorAs(t, m.Trigger(ctx, NewEvent("a.*"), nil), &patternErr)
}

func TestManagerListenersAttachedDuringTriggerWaitForNextTrigger(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	var calls []string
	_, err := m.Attach("a", func(ctx context.Context, e *Event) (any, error) {
		calls = append(calls, "outer")
		_, err := m.Attach("a", recorder(&calls, "late"), 100)
		return nil, err
	}, 0)
	require.NoError(t, err)

	require.NoError(t, m.Trigger(context.Background(), NewEvent("a"), nil))
	require.Equal(t, []string{"outer"}, calls)
}

func TestManagerAttachMany(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	var calls []string
	ids, err := m.AttachMany([]Spec{
		{Name: "a", Callback: recorder(&calls, "a"), Priority: 1},
		{Names: []string{"b", "c"}, Callback: recorder(&calls, "bc")},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	ctx := context.Background()
	require.NoError(t, m.Trigger(ctx, NewEvent("c"), nil))
	require.Equal(t, []string{"bc"}, calls)

	ids, err = m.AttachMany([]Spec{
		{Name: "d", Callback: noop},
		{Name: "e..f", Callback: noop},
	})
	require.Error(t, err)
	require.Len(t, ids, 1)
}

func TestManagerEventCarriesContainer(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	c := service.NewContainer()
	c.Set("foo", "bar")

	var seen any
	_, err := m.Attach("a", func(_ context.Context, e *Event) (any, error) {
		seen, _ = e.Container().Get("foo")
		return nil, nil
	}, 0)
	require.NoError(t, err)

	require.NoError(t, m.Trigger(context.Background(), NewEvent("a").WithContainer(c), nil))
	require.Equal(t, "bar", seen)
	require.True(t, m.Provides(service.CapSignalManager))
	require.False(t, m.Provides(service.CapFilterManager))
}

func TestManagerSkipsEmptyResults(t *testing.T) {
	t.Parallel()

	type payload struct{ name string }

	m := newTestManager()
	returns := []any{
		"",
		(*payload)(nil),
		map[string]string(nil),
		[]int(nil),
		(func())(nil),
		&payload{name: "kept"},
		0,
	}
	for i, value := range returns {
		value := value
		_, err := m.Attach("a", func(context.Context, *Event) (any, error) {
			return value, nil
		}, len(returns)-i)
		require.NoError(t, err)
	}

	var got []any
	require.NoError(t, m.Trigger(context.Background(), NewEvent("a"), func(result any) error {
		got = append(got, result)
		return nil
	}))
	require.Equal(t, []any{&payload{name: "kept"}, 0}, got)
}

func TestIsEmptyResult(t *testing.T) {
	t.Parallel()

	var nilErr error
	cases := []struct {
		name  string
		value any
		empty bool
	}{
		{"untyped nil", nil, true},
		{"nil interface value", nilErr, true},
		{"typed nil pointer", (*Event)(nil), true},
		{"nil map", map[string]int(nil), true},
		{"empty string", "", true},
		{"string", "x", false},
		{"zero int", 0, false},
		{"false", false, false},
		{"empty non-nil slice", []int{}, false},
		{"pointer", NewEvent("a"), false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.empty, IsEmptyResult(tc.value))
		})
	}
}
