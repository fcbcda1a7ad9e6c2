package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/frololego/Prikoliga/internal/config"
	"github.com/frololego/Prikoliga/internal/db"
	"github.com/frololego/Prikoliga/internal/fixture"
	"github.com/frololego/Prikoliga/internal/forecast"
)

// genCmd fills a development database with synthetic users and forecasts for
// upcoming matches so the leaderboard and refresh paths can be exercised
// locally.
func genCmd() *cobra.Command {
	var users, perUser int
	var seed int64
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate demo users and forecasts for upcoming matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				fixtures := fixture.NewStore(pool.Pool)
				forecasts := forecast.NewStore(pool.Pool)
				submit := forecast.NewService(forecasts, fixtures, logger)

				matches, err := fixtures.List(ctx)
				if err != nil {
					return err
				}
				var upcoming []fixture.Fixture
				now := time.Now()
				for _, m := range matches {
					if m.UTCDate.After(now) {
						upcoming = append(upcoming, m)
					}
				}
				if len(upcoming) == 0 {
					return fmt.Errorf("no upcoming matches in the catalog; run import first")
				}
				if perUser > len(upcoming) {
					perUser = len(upcoming)
				}

				rng := rand.New(rand.NewSource(seed))
				created := 0
				for i := 0; i < users; i++ {
					username := "demo-" + uuid.NewString()[:8]
					picks := rng.Perm(len(upcoming))[:perUser]
					for _, p := range picks {
						scoreline := fmt.Sprintf("%d:%d", rng.Intn(5), rng.Intn(5))
						if _, err := submit.Submit(ctx, username, upcoming[p].MatchID, scoreline); err != nil {
							return err
						}
						created++
					}
					logger.Info("Demo user created", "username", username, "forecasts", perUser)
				}

				logger.Info("Demo data generated", "users", users, "forecasts", created)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&users, "users", 5, "Demo users to create")
	cmd.Flags().IntVar(&perUser, "per-user", 10, "Forecasts per user")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "Random seed")
	return cmd
}
