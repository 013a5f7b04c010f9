package health_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/yigitunlu/heroject/internal/platform/health"
	"github.com/yigitunlu/heroject/mocks"
)

func TestCheckAll_Empty(t *testing.T) {
	t.Parallel()

	r := health.New()
	results := r.CheckAll(context.Background())

	if results == nil {
		t.Fatal("expected non-nil map, got nil")
	}
	if len(results) != 0 {
		t.Errorf("expected empty map, got %d entries", len(results))
	}
}

func TestCheckAll_AllHealthy(t *testing.T) {
	t.Parallel()

	checkerA := mocks.NewMockHealthChecker(t)
	checkerA.EXPECT().Name().Return("db")
	checkerA.EXPECT().HealthCheck(mock.Anything).Return(nil)

	checkerB := mocks.NewMockHealthChecker(t)
	checkerB.EXPECT().Name().Return("cache")
	checkerB.EXPECT().HealthCheck(mock.Anything).Return(nil)

	r := health.New()
	r.Register(checkerA)
	r.Register(checkerB)

	results := r.CheckAll(context.Background())

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results["db"] != nil {
		t.Errorf("db check = %v, want nil", results["db"])
	}
	if results["cache"] != nil {
		t.Errorf("cache check = %v, want nil", results["cache"])
	}
}

func TestCheckAll_MixedHealth(t *testing.T) {
	t.Parallel()

	healthy := mocks.NewMockHealthChecker(t)
	healthy.EXPECT().Name().Return("db")
	healthy.EXPECT().HealthCheck(mock.Anything).Return(nil)

	unhealthyErr := errors.New("connection refused")
	unhealthy := mocks.NewMockHealthChecker(t)
	unhealthy.EXPECT().Name().Return("resolver")
	unhealthy.EXPECT().HealthCheck(mock.Anything).Return(unhealthyErr)

	r := health.New()
	r.Register(healthy)
	r.Register(unhealthy)

	results := r.CheckAll(context.Background())

	if results["db"] != nil {
		t.Errorf("db check = %v, want nil", results["db"])
	}
	if results["resolver"] == nil {
		t.Fatal("resolver check = nil, want error")
	}
	if results["resolver"].Error() != "connection refused" {
		t.Errorf("resolver check = %q, want %q", results["resolver"].Error(), "connection refused")
	}
}

func TestCheckAll_ContextPropagated(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checker := mocks.NewMockHealthChecker(t)
	checker.EXPECT().Name().Return("resolver")
	checker.EXPECT().HealthCheck(mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() != nil
	})).Return(context.Canceled)

	r := health.New()
	r.Register(checker)

	results := r.CheckAll(ctx)

	if !errors.Is(results["resolver"], context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", results["resolver"])
	}
}

func TestCheckAll_DuplicateNames_LastWriteWins(t *testing.T) {
	t.Parallel()

	first := mocks.NewMockHealthChecker(t)
	first.EXPECT().Name().Return("db")
	first.EXPECT().HealthCheck(mock.Anything).Return(nil)

	secondErr := errors.New("second failure")
	second := mocks.NewMockHealthChecker(t)
	second.EXPECT().Name().Return("db")
	second.EXPECT().HealthCheck(mock.Anything).Return(secondErr)

	r := health.New()
	r.Register(first)
	r.Register(second)

	results := r.CheckAll(context.Background())

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	got, ok := results["db"]
	if !ok {
		t.Fatal(`expected result for key "db", but it was missing`)
	}
	if !errors.Is(got, secondErr) {
		t.Errorf("db check = %v, want %v (from last registered checker)", got, secondErr)
	}
}

func TestCheckAll_ConcurrentSafety(t *testing.T) {
	t.Parallel()

	r := health.New()

	var wg sync.WaitGroup
	const goroutines = 50

	// Half the goroutines register checkers, half call CheckAll.
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		if i%2 == 0 {
			go func() {
				defer wg.Done()
				c := mocks.NewMockHealthChecker(t)
				c.EXPECT().Name().Return("checker").Maybe()
				c.EXPECT().HealthCheck(mock.Anything).Return(nil).Maybe()
				r.Register(c)
			}()
		} else {
			go func() {
				defer wg.Done()
				r.CheckAll(context.Background())
			}()
		}
	}

	wg.Wait()
}

func TestReady_AllHealthy(t *testing.T) {
	t.Parallel()

	checker := mocks.NewMockHealthChecker(t)
	checker.EXPECT().Name().Return("sqlite")
	checker.EXPECT().HealthCheck(mock.Anything).Return(nil)

	r := health.New()
	r.Register(checker)

	if err := r.Ready(context.Background()); err != nil {
		t.Fatalf("Ready() = %v, want nil", err)
	}
}

func TestReady_JoinsFailuresInNameOrder(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("database is locked")
	store := mocks.NewMockHealthChecker(t)
	store.EXPECT().Name().Return("sqlite")
	store.EXPECT().HealthCheck(mock.Anything).Return(storeErr)

	resolverErr := errors.New("circuit open for task")
	resolver := mocks.NewMockHealthChecker(t)
	resolver.EXPECT().Name().Return("resolver")
	resolver.EXPECT().HealthCheck(mock.Anything).Return(resolverErr)

	r := health.New()
	r.Register(store)
	r.Register(resolver)

	err := r.Ready(context.Background())
	if err == nil {
		t.Fatal("Ready() = nil, want error")
	}
	if !errors.Is(err, storeErr) || !errors.Is(err, resolverErr) {
		t.Errorf("Ready() = %v, want both failures joined", err)
	}
	want := "resolver: circuit open for task\nsqlite: database is locked"
	if err.Error() != want {
		t.Errorf("Ready() = %q, want %q", err.Error(), want)
	}
}

func TestNames_Sorted(t *testing.T) {
	t.Parallel()

	got := health.Names(map[string]error{"sqlite": nil, "resolver": nil})
	if len(got) != 2 || got[0] != "resolver" || got[1] != "sqlite" {
		t.Errorf("Names() = %v, want [resolver sqlite]", got)
	}
}
