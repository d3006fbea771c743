package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"maths-quest/cmd/seed_initial_data/internal/seedmodels"
	"maths-quest/internal/config"
	"maths-quest/internal/database"
	"maths-quest/internal/domain"
	"maths-quest/internal/logger"
	"maths-quest/internal/repository"

	"go.uber.org/zap"
)

const defaultSeedFile = "seed/initial_topics.yaml"

func main() {
	seedFile := flag.String("file", defaultSeedFile, "path to the YAML seed file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	f, err := os.Open(*seedFile)
	if err != nil {
		log.Fatal("Failed to open seed file", zap.String("path", *seedFile), zap.Error(err))
	}
	seed, err := seedmodels.Decode(f)
	f.Close()
	if err != nil {
		log.Fatal("Invalid seed file", zap.String("path", *seedFile), zap.Error(err))
	}
	log.Info("Loaded seed data", zap.Int("topics", len(seed.Topics)))

	db, err := database.NewSQLXOracleDB(cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	s := &seeder{
		txm:       repository.NewTransactionManagerAdapter(db),
		topics:    repository.NewSQLXTopicRepository(db),
		questions: repository.NewSQLXQuestionRepository(db),
		log:       log,
	}
	failed := 0
	for _, t := range seed.Topics {
		if err := s.seedTopic(ctx, t); err != nil {
			log.Error("Error seeding topic, transaction rolled back", zap.String("topic", t.ID), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		log.Fatal("Seeding finished with errors", zap.Int("failed_topics", failed))
	}
	log.Info("Initial data seeding process completed.")
}

type seeder struct {
	txm       domain.TransactionManager
	topics    domain.TopicRepository
	questions domain.QuestionRepository
	log       *zap.Logger
}

// seedTopic upserts the topic and inserts the questions it does not have
// yet, matched by theme and text, in one transaction.
func (s *seeder) seedTopic(ctx context.Context, t seedmodels.SeedTopic) error {
	return s.txm.WithTransaction(ctx, func(ctx context.Context) error {
		topic := t.ToDomain()
		if err := s.topics.UpsertTopic(ctx, &topic); err != nil {
			return fmt.Errorf("upsert topic %s: %w", t.ID, err)
		}

		existing := make(map[string]map[string]bool)
		inserted := 0
		for _, sq := range t.Questions {
			known, ok := existing[sq.Theme]
			if !ok {
				pool, err := s.questions.ListQuestionsByTopicAndTheme(ctx, t.ID, sq.Theme)
				if err != nil {
					return fmt.Errorf("list questions %s/%s: %w", t.ID, sq.Theme, err)
				}
				known = make(map[string]bool, len(pool))
				for _, q := range pool {
					known[q.Text] = true
				}
				existing[sq.Theme] = known
			}
			if known[sq.Text] {
				continue
			}

			q := sq.ToDomain(t.ID)
			if err := s.questions.SaveQuestion(ctx, &q); err != nil {
				return fmt.Errorf("save question %q: %w", sq.Text, err)
			}
			known[sq.Text] = true
			inserted++
		}
		s.log.Info("Seeded topic", zap.String("topic", t.ID), zap.Int("questions_inserted", inserted))
		return nil
	})
}
