package sync_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	stdsync "sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/frololego/Prikoliga/internal/sstats"
	resultsync "github.com/frololego/Prikoliga/internal/sync"
)

type memForecasts struct {
	mu  stdsync.Mutex
	ids []int64
	err error
}

func (m *memForecasts) MatchIDsWithoutResult(context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]int64, len(m.ids))
	copy(out, m.ids)
	return out, nil
}

type storedOutcome struct {
	home, away int
}

type memOutcomes struct {
	mu     stdsync.Mutex
	byID   map[int64]storedOutcome
	newest time.Time
	now    func() time.Time
	putErr error
}

func newMemOutcomes(now func() time.Time) *memOutcomes {
	return &memOutcomes{byID: map[int64]storedOutcome{}, now: now}
}

func (m *memOutcomes) NewestRefresh(context.Context) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.newest.IsZero() {
		return time.Time{}, false, nil
	}
	return m.newest, true, nil
}

func (m *memOutcomes) Put(_ context.Context, matchID int64, home, away int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.byID[matchID] = storedOutcome{home: home, away: away}
	m.newest = m.now()
	return nil
}

func (m *memOutcomes) stored() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.byID))
	for id := range m.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type fakeClient struct {
	mu      stdsync.Mutex
	results map[int64]sstats.Result
	errs    map[int64]error
	calls   int
}

func (f *fakeClient) GetGameResult(_ context.Context, matchID int64) (sstats.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errs[matchID]; ok {
		return sstats.Result{}, err
	}
	return f.results[matchID], nil
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnsureFresh(t *testing.T) {
	ctx := context.Background()

	Convey("Given stored results newer than the staleness threshold", t, func() {
		now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }

		outcomes := newMemOutcomes(clock)
		outcomes.newest = now.Add(-10 * time.Minute)
		client := &fakeClient{}
		syncer := resultsync.New(&memForecasts{ids: []int64{1, 2}}, outcomes, client, discard(),
			resultsync.WithClock(clock))

		Convey("EnsureFresh is a no-op", func() {
			report, err := syncer.EnsureFresh(ctx)
			So(err, ShouldBeNil)
			So(report.Ran, ShouldBeFalse)
			So(client.callCount(), ShouldEqual, 0)
		})
	})

	Convey("Given no stored results at all", t, func() {
		now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }

		outcomes := newMemOutcomes(clock)
		client := &fakeClient{results: map[int64]sstats.Result{
			101: {Confirmed: true, Home: 2, Away: 1},
		}}
		syncer := resultsync.New(&memForecasts{ids: []int64{101}}, outcomes, client, discard(),
			resultsync.WithClock(clock))

		Convey("EnsureFresh runs a cycle", func() {
			report, err := syncer.EnsureFresh(ctx)
			So(err, ShouldBeNil)
			So(report.Ran, ShouldBeTrue)
			So(report.Attempted, ShouldEqual, 1)
			So(report.Updated, ShouldEqual, 1)
			So(outcomes.stored(), ShouldResemble, []int64{101})

			Convey("and a second call within the window does not touch upstream", func() {
				before := client.callCount()
				report, err := syncer.EnsureFresh(ctx)
				So(err, ShouldBeNil)
				So(report.Ran, ShouldBeFalse)
				So(client.callCount(), ShouldEqual, before)
			})
		})
	})

	Convey("Given results older than the staleness threshold", t, func() {
		now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }

		outcomes := newMemOutcomes(clock)
		outcomes.newest = now.Add(-2 * time.Hour)
		client := &fakeClient{results: map[int64]sstats.Result{
			7: {Confirmed: true, Home: 0, Away: 0},
		}}
		syncer := resultsync.New(&memForecasts{ids: []int64{7}}, outcomes, client, discard(),
			resultsync.WithClock(clock))

		Convey("EnsureFresh runs a cycle", func() {
			report, err := syncer.EnsureFresh(ctx)
			So(err, ShouldBeNil)
			So(report.Ran, ShouldBeTrue)
			So(report.Updated, ShouldEqual, 1)
		})
	})
}

func TestRefreshPartialFailure(t *testing.T) {
	ctx := context.Background()

	Convey("Given five unresolved matches where two upstream fetches fail", t, func() {
		now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }

		outcomes := newMemOutcomes(clock)
		client := &fakeClient{
			results: map[int64]sstats.Result{
				1: {Confirmed: true, Home: 1, Away: 0},
				3: {Confirmed: true, Home: 2, Away: 2},
				5: {Confirmed: true, Home: 0, Away: 3},
			},
			errs: map[int64]error{
				2: errors.New("upstream 500"),
				4: errors.New("timeout"),
			},
		}
		syncer := resultsync.New(&memForecasts{ids: []int64{1, 2, 3, 4, 5}}, outcomes, client, discard(),
			resultsync.WithClock(clock), resultsync.WithWorkers(2))

		Convey("the cycle stores every reachable result and reports no error", func() {
			report, err := syncer.EnsureFresh(ctx)
			So(err, ShouldBeNil)
			So(report.Ran, ShouldBeTrue)
			So(report.Attempted, ShouldEqual, 5)
			So(report.Updated, ShouldEqual, 3)
			So(report.Failed, ShouldEqual, 2)
			So(outcomes.stored(), ShouldResemble, []int64{1, 3, 5})
		})
	})

	Convey("Given matches that have not finished upstream", t, func() {
		now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }

		outcomes := newMemOutcomes(clock)
		client := &fakeClient{results: map[int64]sstats.Result{
			10: {Confirmed: true, Home: 4, Away: 1},
			11: {Confirmed: false},
		}}
		syncer := resultsync.New(&memForecasts{ids: []int64{10, 11}}, outcomes, client, discard(),
			resultsync.WithClock(clock))

		Convey("unfinished matches are skipped without being counted as failures", func() {
			report, err := syncer.EnsureFresh(ctx)
			So(err, ShouldBeNil)
			So(report.Updated, ShouldEqual, 1)
			So(report.NotFinished, ShouldEqual, 1)
			So(report.Failed, ShouldEqual, 0)
			So(outcomes.stored(), ShouldResemble, []int64{10})
		})
	})
}

func TestRefreshLocalErrors(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	Convey("Given the forecast store fails to enumerate matches", t, func() {
		outcomes := newMemOutcomes(clock)
		syncer := resultsync.New(&memForecasts{err: errors.New("db down")}, outcomes, &fakeClient{}, discard(),
			resultsync.WithClock(clock))

		Convey("EnsureFresh surfaces the store error", func() {
			_, err := syncer.EnsureFresh(ctx)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "list unresolved matches")
		})
	})

	Convey("Given the outcome store rejects writes", t, func() {
		outcomes := newMemOutcomes(clock)
		outcomes.putErr = errors.New("disk full")
		client := &fakeClient{results: map[int64]sstats.Result{
			1: {Confirmed: true, Home: 1, Away: 1},
		}}
		syncer := resultsync.New(&memForecasts{ids: []int64{1}}, outcomes, client, discard(),
			resultsync.WithClock(clock))

		Convey("the failed write counts as a failure and the cycle still completes", func() {
			report, err := syncer.EnsureFresh(ctx)
			So(err, ShouldBeNil)
			So(report.Failed, ShouldEqual, 1)
			So(report.Updated, ShouldEqual, 0)
		})
	})
}

func TestForceRefresh(t *testing.T) {
	ctx := context.Background()

	Convey("Given results that are still fresh", t, func() {
		now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }

		outcomes := newMemOutcomes(clock)
		outcomes.newest = now.Add(-time.Minute)
		client := &fakeClient{results: map[int64]sstats.Result{
			42: {Confirmed: true, Home: 3, Away: 2},
		}}
		syncer := resultsync.New(&memForecasts{ids: []int64{42}}, outcomes, client, discard(),
			resultsync.WithClock(clock))

		Convey("ForceRefresh runs a cycle anyway", func() {
			report, err := syncer.ForceRefresh(ctx)
			So(err, ShouldBeNil)
			So(report.Ran, ShouldBeTrue)
			So(report.Updated, ShouldEqual, 1)
			So(outcomes.stored(), ShouldResemble, []int64{42})
		})
	})
}

func TestReportSummary(t *testing.T) {
	Convey("Report summaries carry every counter", t, func() {
		r := resultsync.Report{Ran: true, Attempted: 5, Updated: 3, NotFinished: 1, Failed: 1, Duration: 1500 * time.Millisecond}
		s := r.Summary()
		So(s, ShouldContainSubstring, "ran=true")
		So(s, ShouldContainSubstring, "attempted=5")
		So(s, ShouldContainSubstring, "updated=3")
		So(s, ShouldContainSubstring, "not_finished=1")
		So(s, ShouldContainSubstring, "failed=1")
	})
}
