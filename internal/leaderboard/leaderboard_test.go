package leaderboard_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/frololego/Prikoliga/internal/forecast"
	"github.com/frololego/Prikoliga/internal/leaderboard"
	"github.com/frololego/Prikoliga/internal/outcome"
)

type memForecasts struct {
	byUser map[string][]forecast.Forecast
	err    error
}

func (m *memForecasts) DistinctUsers(context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	users := make([]string, 0, len(m.byUser))
	for u := range m.byUser {
		users = append(users, u)
	}
	return users, nil
}

func (m *memForecasts) ListByUser(_ context.Context, username string) ([]forecast.Forecast, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byUser[username], nil
}

type memOutcomes struct {
	byID map[int64]outcome.Outcome
	err  error
}

func (m *memOutcomes) ByMatchIDs(_ context.Context, matchIDs []int64) (map[int64]outcome.Outcome, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[int64]outcome.Outcome, len(matchIDs))
	for _, id := range matchIDs {
		if o, ok := m.byID[id]; ok {
			out[id] = o
		}
	}
	return out, nil
}

func pred(user string, matchID int64, home, away int) forecast.Forecast {
	return forecast.Forecast{Username: user, MatchID: matchID, Home: home, Away: away}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestComputeUser(t *testing.T) {
	ctx := context.Background()

	Convey("Given a user with a mix of exact, directional and missed forecasts", t, func() {
		forecasts := &memForecasts{byUser: map[string][]forecast.Forecast{
			"lena": {
				pred("lena", 1, 2, 1), // exact
				pred("lena", 2, 1, 0), // directional, final 3:1
				pred("lena", 3, 0, 2), // miss, final 1:0
				pred("lena", 4, 1, 1), // unfinished
			},
		}}
		outcomes := &memOutcomes{byID: map[int64]outcome.Outcome{
			1: {MatchID: 1, HomeGoals: 2, AwayGoals: 1},
			2: {MatchID: 2, HomeGoals: 3, AwayGoals: 1},
			3: {MatchID: 3, HomeGoals: 1, AwayGoals: 0},
		}}
		agg := leaderboard.New(forecasts, outcomes, discard())

		Convey("the summary classifies only finished matches", func() {
			s, err := agg.ComputeUser(ctx, "lena")
			So(err, ShouldBeNil)
			So(s.TotalPredictions, ShouldEqual, 4)
			So(s.FinishedPredictions, ShouldEqual, 3)
			So(s.Correct, ShouldEqual, 1)
			So(s.Partial, ShouldEqual, 1)
			So(s.Wrong, ShouldEqual, 1)
			So(s.Rating, ShouldEqual, 4)
			So(s.AccuracyPercentage, ShouldEqual, 67)
		})
	})

	Convey("Given a user whose forecasts are all unfinished", t, func() {
		forecasts := &memForecasts{byUser: map[string][]forecast.Forecast{
			"igor": {pred("igor", 9, 1, 0)},
		}}
		agg := leaderboard.New(forecasts, &memOutcomes{}, discard())

		Convey("the summary has zero rating and zero accuracy", func() {
			s, err := agg.ComputeUser(ctx, "igor")
			So(err, ShouldBeNil)
			So(s.TotalPredictions, ShouldEqual, 1)
			So(s.FinishedPredictions, ShouldEqual, 0)
			So(s.Rating, ShouldEqual, 0)
			So(s.AccuracyPercentage, ShouldEqual, 0)
		})
	})

	Convey("Given a predicted draw against a different final draw", t, func() {
		forecasts := &memForecasts{byUser: map[string][]forecast.Forecast{
			"dima": {pred("dima", 5, 1, 1)},
		}}
		outcomes := &memOutcomes{byID: map[int64]outcome.Outcome{
			5: {MatchID: 5, HomeGoals: 2, AwayGoals: 2},
		}}
		agg := leaderboard.New(forecasts, outcomes, discard())

		Convey("the forecast counts as partial", func() {
			s, err := agg.ComputeUser(ctx, "dima")
			So(err, ShouldBeNil)
			So(s.Partial, ShouldEqual, 1)
			So(s.Rating, ShouldEqual, 1)
			So(s.AccuracyPercentage, ShouldEqual, 100)
		})
	})

	Convey("Accuracy rounds half away from zero", t, func() {
		// 1 of 8 finished correct: 12.5% rounds to 13.
		fs := make([]forecast.Forecast, 0, 8)
		res := map[int64]outcome.Outcome{}
		for i := int64(1); i <= 8; i++ {
			fs = append(fs, pred("vera", i, 2, 0))
			res[i] = outcome.Outcome{MatchID: i, HomeGoals: 0, AwayGoals: 2}
		}
		res[1] = outcome.Outcome{MatchID: 1, HomeGoals: 2, AwayGoals: 0}
		forecasts := &memForecasts{byUser: map[string][]forecast.Forecast{"vera": fs}}
		agg := leaderboard.New(forecasts, &memOutcomes{byID: res}, discard())

		s, err := agg.ComputeUser(ctx, "vera")
		So(err, ShouldBeNil)
		So(s.AccuracyPercentage, ShouldEqual, 13)
	})
}

func TestCompute(t *testing.T) {
	ctx := context.Background()

	Convey("Given several users with different scores", t, func() {
		forecasts := &memForecasts{byUser: map[string][]forecast.Forecast{
			"anna": {
				pred("anna", 1, 2, 1), // exact
				pred("anna", 2, 1, 0), // exact
			},
			"boris": {
				pred("boris", 1, 1, 0), // directional
				pred("boris", 2, 0, 1), // miss
			},
			"clara": {
				pred("clara", 3, 0, 0), // unfinished only
			},
		}}
		outcomes := &memOutcomes{byID: map[int64]outcome.Outcome{
			1: {MatchID: 1, HomeGoals: 2, AwayGoals: 1},
			2: {MatchID: 2, HomeGoals: 1, AwayGoals: 0},
		}}
		agg := leaderboard.New(forecasts, outcomes, discard())

		Convey("the leaderboard orders by rating descending", func() {
			rows, err := agg.Compute(ctx)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 3)
			So(rows[0].Username, ShouldEqual, "anna")
			So(rows[0].Rating, ShouldEqual, 6)
			So(rows[1].Username, ShouldEqual, "boris")
			So(rows[1].Rating, ShouldEqual, 1)

			Convey("and users without finished matches still appear", func() {
				So(rows[2].Username, ShouldEqual, "clara")
				So(rows[2].Rating, ShouldEqual, 0)
				So(rows[2].TotalPredictions, ShouldEqual, 1)
			})
		})
	})

	Convey("Given users tied on rating", t, func() {
		forecasts := &memForecasts{byUser: map[string][]forecast.Forecast{
			// Both score 3 points. zoya from 1 of 1 finished, adam from 1 of 2.
			"zoya": {pred("zoya", 1, 2, 1)},
			"adam": {pred("adam", 1, 2, 1), pred("adam", 2, 3, 0)},
		}}
		outcomes := &memOutcomes{byID: map[int64]outcome.Outcome{
			1: {MatchID: 1, HomeGoals: 2, AwayGoals: 1},
			2: {MatchID: 2, HomeGoals: 0, AwayGoals: 2},
		}}
		agg := leaderboard.New(forecasts, outcomes, discard())

		Convey("higher accuracy wins the tie", func() {
			rows, err := agg.Compute(ctx)
			So(err, ShouldBeNil)
			So(rows[0].Username, ShouldEqual, "zoya")
			So(rows[1].Username, ShouldEqual, "adam")
		})
	})

	Convey("Given users tied on rating and accuracy", t, func() {
		forecasts := &memForecasts{byUser: map[string][]forecast.Forecast{
			"nina": {pred("nina", 1, 2, 1)},
			"mark": {pred("mark", 1, 2, 1)},
		}}
		outcomes := &memOutcomes{byID: map[int64]outcome.Outcome{
			1: {MatchID: 1, HomeGoals: 2, AwayGoals: 1},
		}}
		agg := leaderboard.New(forecasts, outcomes, discard())

		Convey("username ascending breaks the tie", func() {
			rows, err := agg.Compute(ctx)
			So(err, ShouldBeNil)
			So(rows[0].Username, ShouldEqual, "mark")
			So(rows[1].Username, ShouldEqual, "nina")
		})
	})

	Convey("Given no users at all", t, func() {
		agg := leaderboard.New(&memForecasts{byUser: map[string][]forecast.Forecast{}}, &memOutcomes{}, discard())

		Convey("Compute returns an empty, non-nil slice", func() {
			rows, err := agg.Compute(ctx)
			So(err, ShouldBeNil)
			So(rows, ShouldNotBeNil)
			So(rows, ShouldBeEmpty)
		})
	})

	Convey("Given a failing forecast store", t, func() {
		agg := leaderboard.New(&memForecasts{err: errors.New("db down")}, &memOutcomes{}, discard())

		Convey("Compute surfaces the error", func() {
			_, err := agg.Compute(ctx)
			So(err, ShouldNotBeNil)
		})
	})
}
