package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/Wossito/gym-ai/internal/errors"
	"github.com/Wossito/gym-ai/internal/gym"
	"github.com/Wossito/gym-ai/internal/sqlite"
)

// ErrRoutineNotFound is returned when feedback or a view targets an
// unknown routine ID.
var ErrRoutineNotFound = errors.NewSentinel("routine not found")

// Service orchestrates the engine: it validates user input, generates
// routines, processes feedback and persists the learning state. State
// persistence is best-effort: a failed save is logged and the in-memory
// state keeps going.
type Service struct {
	store      *Store
	inferencer *Inferencer
	repository *stateRepository
	logger     *slog.Logger
	rng        *rand.Rand
}

// NewService loads the persisted learning state (or starts fresh) and
// wires the engine. rng may be nil, in which case a randomly seeded
// generator is used; tests inject a seeded one.
func NewService(ctx context.Context, db *sqlite.Database, logger *slog.Logger, rng *rand.Rand) (*Service, error) {
	if err := gym.ValidateDayTables(); err != nil {
		return nil, fmt.Errorf("validate day tables: %w", err)
	}

	repository := newStateRepository(db, logger)
	doc, err := repository.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load learning state: %w", err)
	}

	store := NewStore()
	if doc != nil {
		store = StoreFromDocument(*doc)
		logger.LogAttrs(ctx, slog.LevelInfo, "loaded learning state",
			slog.Int("experiences", len(doc.LearningSystem.History)),
			slog.Int("generation", doc.LearningSystem.Generation))
	}

	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Service{
		store:      store,
		inferencer: NewInferencer(store),
		repository: repository,
		logger:     logger,
		rng:        rng,
	}, nil
}

// CreateUser validates the raw form input and builds a User. Validation
// failures come back as a gym.ValidationErrors carrying every violation.
func (s *Service) CreateUser(name string, age int, weightKg, heightM float64, level, goal string, trainingDays int, limitations string) (gym.User, error) {
	// Invalid level/goal strings come back empty and are flagged by
	// NewProfile together with the range checks.
	parsedLevel, _ := gym.ParseLevel(level)
	parsedGoal, _ := gym.ParseGoal(goal)

	profile, err := gym.NewProfile(age, weightKg, heightM, parsedLevel, parsedGoal, trainingDays)
	if err != nil {
		var verrs gym.ValidationErrors
		if errors.As(err, &verrs) {
			return gym.User{}, verrs
		}
		return gym.User{}, err
	}

	user, err := gym.NewUser(name, profile, limitations)
	if err != nil {
		return gym.User{}, gym.ValidationErrors{err.Error()}
	}
	return user, nil
}

// Generate produces a routine for the user, records the generation
// decision and persists the state best-effort.
func (s *Service) Generate(ctx context.Context, user gym.User) (gym.Routine, GenerationRecord, error) {
	history := s.store.UserHistory(user.ID)
	gen := newGenerator(s.store, s.inferencer, s.rng)

	routine, record, err := gen.Generate(user, history)
	if err != nil {
		return gym.Routine{}, GenerationRecord{}, fmt.Errorf("generate routine: %w", err)
	}

	if ok, problems := ValidateQuality(routine); !ok {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "generated routine has quality issues",
			slog.String("routineID", routine.ID),
			slog.Any("problems", problems))
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated routine",
		slog.String("routineID", routine.ID),
		slog.String("mode", string(record.Mode)),
		slog.String("structure", string(routine.Structure)),
		slog.Float64("predictedSatisfaction", record.Prediction.Satisfaction),
		slog.Float64("predictionConfidence", record.Prediction.Confidence))

	s.saveState(ctx)
	return routine, record, nil
}

// FindRoutine returns a copy of a generated routine.
func (s *Service) FindRoutine(id string) (gym.Routine, bool) {
	return s.store.FindRoutine(id)
}

// Records returns every generation record, oldest first.
func (s *Service) Records() []GenerationRecord {
	return s.store.Records()
}

// FindRecord returns the full generation record for a routine.
func (s *Service) FindRecord(id string) (GenerationRecord, bool) {
	for _, rec := range s.store.Records() {
		if rec.RoutineID == id {
			return rec, true
		}
	}
	return GenerationRecord{}, false
}

// FeedbackOutcome is everything a feedback submission produces: the
// updated routine, what the system learned, detected anomalies and
// concrete adjustment advice.
type FeedbackOutcome struct {
	Routine     gym.Routine
	Results     LearningResults
	Anomalies   AnomalyReport
	Adjustments []string
}

// SubmitFeedback validates and applies a satisfaction rating, feeds it
// through the learning loop and persists the state best-effort.
func (s *Service) SubmitFeedback(ctx context.Context, user gym.User, routineID string, satisfaction int, comments string) (FeedbackOutcome, error) {
	if _, ok := s.store.FindRoutine(routineID); !ok {
		return FeedbackOutcome{}, ErrRoutineNotFound
	}

	routine, err := s.store.AttachFeedback(routineID, satisfaction, comments)
	if err != nil {
		return FeedbackOutcome{}, fmt.Errorf("attach feedback: %w", err)
	}

	results := processFeedback(s.store, user, routine)
	anomalies := s.inferencer.DetectAnomalies(s.store.UserHistory(user.ID))
	adjustments := RecommendAdjustments(user.Profile, routine, satisfaction)

	s.logger.LogAttrs(ctx, slog.LevelInfo, "processed feedback",
		slog.String("routineID", routineID),
		slog.Int("satisfaction", satisfaction),
		slog.Bool("patternsUpdated", results.PatternsUpdated),
		slog.Bool("generationEvolved", results.GenerationEvolved),
		slog.String("anomalyState", anomalies.State))

	s.saveState(ctx)
	return FeedbackOutcome{
		Routine:     routine,
		Results:     results,
		Anomalies:   anomalies,
		Adjustments: adjustments,
	}, nil
}

// Statistics returns the aggregate learning statistics.
func (s *Service) Statistics() Statistics {
	return s.store.Statistics()
}

// Progress returns the learning progress analysis.
func (s *Service) Progress() LearningProgress {
	return AnalyzeLearningProgress(s.store)
}

// ExportStatistics builds the statistics export document, archives it in
// the stats_exports table and returns the JSON payload.
func (s *Service) ExportStatistics(ctx context.Context) ([]byte, error) {
	export := buildStatisticsExport(s.store)
	payload, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal statistics export: %w", err)
	}
	if err := s.repository.SaveStatisticsExport(ctx, payload); err != nil {
		return nil, fmt.Errorf("archive statistics export: %w", err)
	}
	return payload, nil
}

// UserReport combines everything the system knows about one user.
type UserReport struct {
	User            gym.User       `json:"user"`
	Classification  Classification `json:"classification"`
	Experiences     int            `json:"experiences"`
	AvgSatisfaction float64        `json:"avg_satisfaction"`
	Anomalies       AnomalyReport  `json:"anomalies"`
}

// Report builds the per-user summary.
func (s *Service) Report(user gym.User) UserReport {
	history := s.store.UserHistory(user.ID)
	classification := s.inferencer.ClassifyUser(user.Profile, history)
	anomalies := s.inferencer.DetectAnomalies(history)
	return UserReport{
		User:            user,
		Classification:  classification,
		Experiences:     len(history),
		AvgSatisfaction: classification.AvgSatisfaction,
		Anomalies:       anomalies,
	}
}

// Reset clears the learning state in memory and on disk.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.repository.Clear(ctx); err != nil {
		return fmt.Errorf("clear persisted state: %w", err)
	}
	fresh := NewStore()
	s.store.replaceWith(fresh)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "learning state reset")
	return nil
}

// saveState persists the current state. Failures are logged, never fatal.
func (s *Service) saveState(ctx context.Context) {
	if err := s.repository.Save(ctx, s.store.Document()); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to persist learning state",
			errors.SlogError(errors.Wrap(err, "save learning state")))
	}
}
