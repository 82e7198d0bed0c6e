package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tournament-admin/internal/config"
	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	"github.com/riskibarqy/tournament-admin/internal/domain/player"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
	"github.com/riskibarqy/tournament-admin/internal/domain/tournament"
	"github.com/riskibarqy/tournament-admin/internal/infrastructure/eventbus"
	"github.com/riskibarqy/tournament-admin/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-admin/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/tournament-admin/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/tournament-admin/internal/platform/id"
	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
	"github.com/riskibarqy/tournament-admin/internal/platform/resilience"
	"github.com/riskibarqy/tournament-admin/internal/usecase"
)

// Runtime is the wired HTTP server plus the resources it owns.
type Runtime struct {
	Server  *http.Server
	closers []func() error
}

// Close releases the resources opened by NewRuntime in reverse order.
func (r *Runtime) Close() error {
	var firstErr error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.closers = nil
	return firstErr
}

type repositories struct {
	teams   team.Repository
	players player.Repository
	matches match.Repository
}

func NewRuntime(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	rt := &Runtime{}
	ids := idgen.NewUUIDGenerator()
	clock := clockwork.NewRealClock()

	repos, err := rt.openStorage(cfg, ids, logger)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	publisher, err := rt.openPublisher(cfg, clock, logger)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	deletePolicy, err := usecase.ParseTeamDeletePolicy(cfg.TeamDeletePolicy)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	state := usecase.NewStateController(repos.teams, repos.matches, logger.Named("state"),
		usecase.WithChangePublisher(publisher),
		usecase.WithSuspensionRule(tournament.SuspensionRule{YellowsPerBan: cfg.CardYellowsPerBan, BansPerRed: 1}),
		usecase.WithClock(clock),
		usecase.WithEventIDs(ids),
	)
	if _, err := state.Refresh(ctx, "startup"); err != nil {
		logger.WarnContext(ctx, "initial state load failed, retrying on first request", "error", err)
	}

	teamSvc := usecase.NewTeamService(repos.teams, repos.players, repos.matches, ids, state, deletePolicy, logger)
	scheduleSvc := usecase.NewScheduleService(repos.teams, repos.matches, ids, state, usecase.ScheduleSettings{
		Venue:         cfg.DefaultVenue,
		KickoffTime:   cfg.KickoffTime,
		RoundInterval: cfg.RoundInterval,
		Location:      cfg.Timezone,
		Workers:       cfg.ScheduleWorkers,
	}, logger)
	matchSvc := usecase.NewMatchService(repos.matches, repos.players, ids, state, clock, cfg.Timezone, logger)
	statsSvc := usecase.NewStatisticsService(state, clock)

	handler := httpapi.NewHandler(teamSvc, scheduleSvc, matchSvc, statsSvc, cfg.Timezone, logger.Named("http"))
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminToken:         cfg.AdminAPIToken,
	}, logger)

	rt.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return rt, nil
}

func (r *Runtime) openStorage(cfg config.Config, ids idgen.Generator, logger *logging.Logger) (repositories, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := postgres.Open(cfg.DBURL, cfg.DBDisablePreparedBinary)
		if err != nil {
			return repositories{}, err
		}
		r.closers = append(r.closers, db.Close)
		logger.Info("storage ready", "driver", cfg.StorageDriver, "database", postgres.DatabaseName(cfg.DBURL))

		return repositories{
			teams:   postgres.NewTeamRepository(db),
			players: postgres.NewPlayerRepository(db),
			matches: postgres.NewMatchRepository(db),
		}, nil
	default:
		store := memory.NewStore()
		seeded, err := seedTeams(cfg, ids)
		if err != nil {
			return repositories{}, err
		}
		store.Seed(seeded)
		logger.Info("storage ready", "driver", config.StorageMemory, "seeded_teams", len(seeded))

		return repositories{
			teams:   memory.NewTeamRepository(store),
			players: memory.NewPlayerRepository(store),
			matches: memory.NewMatchRepository(store),
		}, nil
	}
}

func seedTeams(cfg config.Config, ids idgen.Generator) ([]team.Team, error) {
	switch {
	case cfg.SeedFile != "":
		teams, err := memory.LoadSeedFile(cfg.SeedFile, ids)
		if err != nil {
			return nil, fmt.Errorf("load seed file: %w", err)
		}
		return teams, nil
	case cfg.SeedDemoData:
		return memory.DemoTeams(), nil
	default:
		return nil, nil
	}
}

func (r *Runtime) openPublisher(cfg config.Config, clock clockwork.Clock, logger *logging.Logger) (tournament.ChangePublisher, error) {
	if !cfg.NATSEnabled {
		return eventbus.NewLogPublisher(logger.Named("events")), nil
	}

	natsCfg := eventbus.DefaultNATSConfig()
	natsCfg.URL = cfg.NATSURL
	natsCfg.Subject = cfg.NATSSubject
	natsCfg.ClientName = cfg.ServiceName
	natsCfg.Timeout = cfg.NATSTimeout
	natsCfg.CircuitBreaker = resilience.CircuitBreakerConfig{
		Enabled:          cfg.NATSCircuitEnabled,
		FailureThreshold: cfg.NATSCircuitFailureCount,
		OpenTimeout:      cfg.NATSCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.NATSCircuitHalfOpenMaxReq,
	}

	publisher, err := eventbus.NewNATSPublisher(natsCfg, logger.Named("events"), clock)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	r.closers = append(r.closers, publisher.Close)

	return publisher, nil
}
