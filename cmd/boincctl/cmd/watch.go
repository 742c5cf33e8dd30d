package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mfulz/boincgeist/client"
	"github.com/mfulz/boincgeist/internal/adapters/redis"
	"github.com/mfulz/boincgeist/internal/configcli"
	"github.com/mfulz/boincgeist/internal/configloader"
	"github.com/mfulz/boincgeist/internal/logging"
	"github.com/mfulz/boincgeist/internal/metrics"
	"github.com/mfulz/boincgeist/internal/watch"
)

var (
	watchListen   string
	watchInterval time.Duration
	watchRedis    string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the daemon and export prometheus metrics",
	Long: `watch polls status, projects and tasks on an interval and serves them on
/metrics (prometheus), /snapshot (JSON) and /healthz. With a Redis address
every snapshot is also stored there.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configloader.MustGetConfig[*configcli.Config]().Watch
		if cmd.Flags().Changed("listen") {
			cfg.Listen = watchListen
		}
		if cmd.Flags().Changed("interval") {
			cfg.Interval = watchInterval
		}
		if cmd.Flags().Changed("redis") {
			cfg.Redis.Address = watchRedis
		}

		reg := metrics.New()
		r, err := runner(client.WithObserver(reg.Observer()))
		if err != nil {
			return err
		}
		log := logging.Named("watch")

		opts := []watch.Option{
			watch.WithInterval(cfg.Interval),
			watch.WithMetrics(reg),
			watch.WithLogger(log),
		}
		if cfg.Redis.Address != "" {
			pub := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB,
				redis.WithPrefix(cfg.Redis.Prefix), redis.WithTTL(cfg.Redis.TTL))
			defer pub.Close()
			opts = append(opts, watch.WithSink(pub))
			log.Infow("publishing snapshots", "redis", cfg.Redis.Address)
		}
		p := watch.NewPoller(r.Target.Name, r.Poll(), opts...)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error { return p.Run(ctx) })
		g.Go(func() error { return watch.Serve(ctx, cfg.Listen, watch.NewHandler(p, reg), log) })
		return g.Wait()
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchListen, "listen", ":9310", "HTTP listen address")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", watch.DefaultInterval, "poll interval")
	watchCmd.Flags().StringVar(&watchRedis, "redis", "", "Redis address for snapshot publishing")
	RootCmd.AddCommand(watchCmd)
}
