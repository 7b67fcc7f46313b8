// Package seed loads the curated technique library from a YAML file and
// reconciles it into the store. Seeding is idempotent: techniques and
// their tutorial content are upserted by natural key, quiz questions are
// only created for techniques that have none yet.
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gopkg.in/yaml.v3"

	"github.com/yarnwise/yarnwise-backend/internal/graph"
	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/repos"
	"github.com/yarnwise/yarnwise-backend/internal/transform"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

type TechniqueSeed struct {
	Name           string   `yaml:"name"`
	Abbreviation   string   `yaml:"abbreviation"`
	Category       string   `yaml:"category"`
	Description    string   `yaml:"description"`
	Difficulty     int      `yaml:"difficulty"`
	Tips           []string `yaml:"tips"`
	CommonMistakes []string `yaml:"common_mistakes"`
	Related        []string `yaml:"related"`
	Prerequisites  []string `yaml:"prerequisites"`
	Tags           []string `yaml:"tags"`
	Aliases        []string `yaml:"aliases"`

	TutorialSteps []TutorialStepSeed `yaml:"tutorial_steps"`
	Quiz          []QuizQuestionSeed `yaml:"quiz"`
	Video         *VideoSeed         `yaml:"video"`
}

type TutorialStepSeed struct {
	Title       string `yaml:"title"`
	Instruction string `yaml:"instruction"`
	ImageURL    string `yaml:"image_url"`
	VideoURL    string `yaml:"video_url"`
}

type QuizQuestionSeed struct {
	Prompt       string   `yaml:"prompt"`
	Choices      []string `yaml:"choices"`
	CorrectIndex int      `yaml:"correct_index"`
	Explanation  string   `yaml:"explanation"`
}

type VideoSeed struct {
	Platform     string  `yaml:"platform"`
	VideoID      string  `yaml:"video_id"`
	URL          string  `yaml:"url"`
	StartSeconds int     `yaml:"start_seconds"`
	EndSeconds   int     `yaml:"end_seconds"`
	AIScore      float64 `yaml:"ai_score"`
}

type File struct {
	Techniques []TechniqueSeed `yaml:"techniques"`
}

func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

type Seeder struct {
	db          *gorm.DB
	log         *logger.Logger
	techniques  repos.TechniqueRepo
	steps       repos.TutorialStepRepo
	quiz        repos.QuizQuestionRepo
	videos      repos.TechniqueVideoRepo
	graphClient *graph.Client
}

func NewSeeder(
	db *gorm.DB,
	log *logger.Logger,
	techniques repos.TechniqueRepo,
	steps repos.TutorialStepRepo,
	quiz repos.QuizQuestionRepo,
	videos repos.TechniqueVideoRepo,
	graphClient *graph.Client,
) *Seeder {
	return &Seeder{
		db:          db,
		log:         log.With("service", "Seeder"),
		techniques:  techniques,
		steps:       steps,
		quiz:        quiz,
		videos:      videos,
		graphClient: graphClient,
	}
}

// Run reconciles the seed file into the store. Technique rows go in first
// without cross-references; once every name has an id, a second pass wires
// related/prerequisite lists, tutorial content and the graph mirror.
func (s *Seeder) Run(ctx context.Context, f *File) error {
	if f == nil || len(f.Techniques) == 0 {
		s.log.Info("Seed file empty, nothing to do")
		return nil
	}

	// Validate the whole file before writing anything.
	for _, t := range f.Techniques {
		if err := validateTechniqueSeed(t); err != nil {
			return err
		}
	}

	for _, t := range f.Techniques {
		row := &types.Technique{
			Name:           t.Name,
			Abbreviation:   t.Abbreviation,
			Category:       t.Category,
			Description:    t.Description,
			Difficulty:     t.Difficulty,
			Tips:           transform.MustJSON(t.Tips),
			CommonMistakes: transform.MustJSON(t.CommonMistakes),
			Tags:           transform.MustJSON(t.Tags),
			Aliases:        transform.MustJSON(t.Aliases),
		}
		if err := s.techniques.Upsert(ctx, nil, row); err != nil {
			return fmt.Errorf("failed to upsert technique %q: %w", t.Name, err)
		}
	}

	idByName, err := s.techniqueIDsByName(ctx)
	if err != nil {
		return err
	}

	for _, t := range f.Techniques {
		techniqueID, ok := idByName[t.Name]
		if !ok {
			return fmt.Errorf("technique %q missing after upsert", t.Name)
		}
		if err := s.seedOne(ctx, techniqueID, t, idByName); err != nil {
			return err
		}
	}

	s.log.Info("Seed complete", "techniques", len(f.Techniques))
	return nil
}

func validateTechniqueSeed(t TechniqueSeed) error {
	if t.Name == "" || t.Category == "" {
		return fmt.Errorf("seed technique missing name or category: %+v", t.Name)
	}
	if t.Difficulty < 1 || t.Difficulty > 5 {
		return fmt.Errorf("seed technique %q has difficulty %d, want 1 through 5", t.Name, t.Difficulty)
	}
	return nil
}

func (s *Seeder) seedOne(ctx context.Context, techniqueID uuid.UUID, t TechniqueSeed, idByName map[string]uuid.UUID) error {
	related := resolveNames(t.Related, idByName)
	prereqs := resolveNames(t.Prerequisites, idByName)
	row := &types.Technique{
		Name:            t.Name,
		Abbreviation:    t.Abbreviation,
		Category:        t.Category,
		Description:     t.Description,
		Difficulty:      t.Difficulty,
		Tips:            transform.MustJSON(t.Tips),
		CommonMistakes:  transform.MustJSON(t.CommonMistakes),
		RelatedIDs:      transform.MustJSON(related),
		PrerequisiteIDs: transform.MustJSON(prereqs),
		Tags:            transform.MustJSON(t.Tags),
		Aliases:         transform.MustJSON(t.Aliases),
	}
	if err := s.techniques.Upsert(ctx, nil, row); err != nil {
		return fmt.Errorf("failed to update technique %q: %w", t.Name, err)
	}
	row.ID = techniqueID

	for i, st := range t.TutorialSteps {
		stepRow := &types.TutorialStep{
			TechniqueID: techniqueID,
			StepNumber:  i + 1,
			Title:       st.Title,
			Instruction: st.Instruction,
			ImageURL:    st.ImageURL,
			VideoURL:    st.VideoURL,
		}
		if err := s.steps.Upsert(ctx, nil, stepRow); err != nil {
			return fmt.Errorf("failed to upsert tutorial step %d for %q: %w", i+1, t.Name, err)
		}
	}

	if len(t.Quiz) > 0 {
		existing, err := s.quiz.GetByTechniqueIDs(ctx, nil, []uuid.UUID{techniqueID})
		if err != nil {
			return fmt.Errorf("failed to check quiz questions for %q: %w", t.Name, err)
		}
		if len(existing) == 0 {
			rows := make([]*types.QuizQuestion, 0, len(t.Quiz))
			for _, q := range t.Quiz {
				rows = append(rows, &types.QuizQuestion{
					TechniqueID:  techniqueID,
					Prompt:       q.Prompt,
					Choices:      transform.MustJSON(q.Choices),
					CorrectIndex: q.CorrectIndex,
					Explanation:  q.Explanation,
				})
			}
			if _, err := s.quiz.Create(ctx, nil, rows); err != nil {
				return fmt.Errorf("failed to create quiz questions for %q: %w", t.Name, err)
			}
		}
	}

	if t.Video != nil {
		videoRow := &types.TechniqueVideo{
			TechniqueID:  techniqueID,
			Platform:     t.Video.Platform,
			VideoID:      t.Video.VideoID,
			URL:          t.Video.URL,
			StartSeconds: t.Video.StartSeconds,
			EndSeconds:   t.Video.EndSeconds,
			AIScore:      t.Video.AIScore,
		}
		if err := s.videos.Upsert(ctx, nil, videoRow); err != nil {
			return fmt.Errorf("failed to upsert video for %q: %w", t.Name, err)
		}
	}

	if err := graph.SyncTechnique(ctx, s.graphClient, s.log, row); err != nil {
		// The graph mirror is best-effort; the store stays authoritative.
		s.log.Warn("Failed to sync technique into graph", "technique", t.Name, "error", err)
	}
	return nil
}

func (s *Seeder) techniqueIDsByName(ctx context.Context) (map[string]uuid.UUID, error) {
	rows, err := s.techniques.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load techniques: %w", err)
	}
	idByName := make(map[string]uuid.UUID, len(rows))
	for _, row := range rows {
		idByName[row.Name] = row.ID
	}
	return idByName, nil
}

func resolveNames(names []string, idByName map[string]uuid.UUID) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if id, ok := idByName[n]; ok {
			out = append(out, id.String())
		}
	}
	return out
}
