// Package seed loads catalog and content fixtures from YAML into the database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/logger"
)

type File struct {
	Classes        []Class         `yaml:"classes"`
	CurrentAffairs []CurrentAffair `yaml:"current_affairs"`
	Advertisements []Advertisement `yaml:"advertisements"`
}

type Class struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Subjects    []Subject `yaml:"subjects"`
}

type Subject struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Quizzes     []Quiz `yaml:"quizzes"`
	Exams       []Exam `yaml:"exams"`
}

// Quiz.Key lets exams in the same file refer to the quiz before it has an id.
type Quiz struct {
	Key         string     `yaml:"key"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Category    string     `yaml:"category"`
	TimeLimit   int        `yaml:"time_limit"`
	Premium     bool       `yaml:"premium"`
	Questions   []Question `yaml:"questions"`
}

type Question struct {
	Text        string   `yaml:"text"`
	Options     []string `yaml:"options"`
	Correct     int      `yaml:"correct"`
	Explanation string   `yaml:"explanation"`
	ImageURL    string   `yaml:"image_url"`
}

type Exam struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Duration    int        `yaml:"duration"`
	StartDate   *time.Time `yaml:"start_date"`
	EndDate     *time.Time `yaml:"end_date"`
	Quizzes     []string   `yaml:"quizzes"`
}

type CurrentAffair struct {
	Title       string    `yaml:"title"`
	Summary     string    `yaml:"summary"`
	Content     string    `yaml:"content"`
	Category    string    `yaml:"category"`
	Tags        []string  `yaml:"tags"`
	ImageURL    string    `yaml:"image_url"`
	Premium     bool      `yaml:"premium"`
	TokenPrice  int       `yaml:"token_price"`
	PublishedAt time.Time `yaml:"published_at"`
}

type Advertisement struct {
	Title     string `yaml:"title"`
	ImageURL  string `yaml:"image_url"`
	TargetURL string `yaml:"target_url"`
	Placement string `yaml:"placement"`
	Inactive  bool   `yaml:"inactive"`
}

// Stats counts rows written by Apply.
type Stats struct {
	Classes        int
	Subjects       int
	Quizzes        int
	Questions      int
	Exams          int
	CurrentAffairs int
	Advertisements int
}

// Parse decodes a seed document. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return &f, nil
}

func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer fh.Close()
	return Parse(fh)
}

// Validate checks references and question shape before anything is written.
func (f *File) Validate() error {
	var errs []error
	keys := make(map[string]bool)
	for _, c := range f.Classes {
		if c.Name == "" {
			errs = append(errs, errors.New("class without name"))
		}
		for _, s := range c.Subjects {
			for _, q := range s.Quizzes {
				if q.Key != "" {
					if keys[q.Key] {
						errs = append(errs, fmt.Errorf("duplicate quiz key %q", q.Key))
					}
					keys[q.Key] = true
				}
				for i, question := range q.Questions {
					dq := question.toDomain("", i)
					if err := dq.Validate(); err != nil {
						errs = append(errs, fmt.Errorf("quiz %q question %d: %w", q.Title, i+1, err))
					}
				}
			}
		}
	}
	for _, c := range f.Classes {
		for _, s := range c.Subjects {
			for _, e := range s.Exams {
				if len(e.Quizzes) == 0 {
					errs = append(errs, fmt.Errorf("exam %q has no quizzes", e.Title))
				}
				for _, key := range e.Quizzes {
					if !keys[key] {
						errs = append(errs, fmt.Errorf("exam %q references unknown quiz %q", e.Title, key))
					}
				}
			}
		}
	}
	for _, a := range f.Advertisements {
		if !domain.IsValidPlacement(a.Placement) {
			errs = append(errs, fmt.Errorf("advertisement %q has unknown placement %q", a.Title, a.Placement))
		}
	}
	return errors.Join(errs...)
}

func (q Question) toDomain(quizID string, order int) domain.Question {
	return domain.Question{
		QuizID:             quizID,
		Text:               q.Text,
		Options:            q.Options,
		CorrectOptionIndex: q.Correct,
		Explanation:        q.Explanation,
		ImageURL:           q.ImageURL,
		OrderIndex:         order,
	}
}

type Seeder struct {
	writer domain.CatalogWriter
	tx     domain.TransactionManager
}

func NewSeeder(writer domain.CatalogWriter, tx domain.TransactionManager) *Seeder {
	return &Seeder{writer: writer, tx: tx}
}

// Apply writes the whole file in one transaction.
func (s *Seeder) Apply(ctx context.Context, f *File) (Stats, error) {
	if err := f.Validate(); err != nil {
		return Stats{}, err
	}
	var stats Stats
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		stats = Stats{}
		return s.apply(ctx, f, &stats)
	})
	if err != nil {
		return Stats{}, err
	}
	logger.Get().Info("Seed data applied",
		zap.Int("classes", stats.Classes),
		zap.Int("subjects", stats.Subjects),
		zap.Int("quizzes", stats.Quizzes),
		zap.Int("questions", stats.Questions),
		zap.Int("exams", stats.Exams),
		zap.Int("currentAffairs", stats.CurrentAffairs),
		zap.Int("advertisements", stats.Advertisements))
	return stats, nil
}

func (s *Seeder) apply(ctx context.Context, f *File, stats *Stats) error {
	quizIDs := make(map[string]string)
	for _, c := range f.Classes {
		class := &domain.Class{Name: c.Name, Description: c.Description}
		if err := s.writer.CreateClass(ctx, class); err != nil {
			return err
		}
		stats.Classes++

		for _, sub := range c.Subjects {
			subject := &domain.Subject{ClassID: class.ID, Name: sub.Name, Description: sub.Description}
			if err := s.writer.CreateSubject(ctx, subject); err != nil {
				return err
			}
			stats.Subjects++

			for _, q := range sub.Quizzes {
				quiz := &domain.Quiz{
					SubjectID:   subject.ID,
					Title:       q.Title,
					Description: q.Description,
					Category:    q.Category,
					TimeLimit:   q.TimeLimit,
					IsPremium:   q.Premium,
				}
				if err := s.writer.CreateQuiz(ctx, quiz); err != nil {
					return err
				}
				stats.Quizzes++
				if q.Key != "" {
					quizIDs[q.Key] = quiz.ID
				}
				for i, question := range q.Questions {
					dq := question.toDomain(quiz.ID, i)
					if err := s.writer.CreateQuestion(ctx, &dq); err != nil {
						return fmt.Errorf("quiz %q: %w", q.Title, err)
					}
					stats.Questions++
				}
			}

			for _, e := range sub.Exams {
				exam := &domain.Exam{
					SubjectID:   subject.ID,
					Title:       e.Title,
					Description: e.Description,
					Duration:    e.Duration,
					StartDate:   e.StartDate,
					EndDate:     e.EndDate,
				}
				for _, key := range e.Quizzes {
					exam.QuizIDs = append(exam.QuizIDs, quizIDs[key])
				}
				if err := s.writer.CreateExam(ctx, exam); err != nil {
					return err
				}
				stats.Exams++
			}
		}
	}

	for _, ca := range f.CurrentAffairs {
		item := &domain.CurrentAffair{
			Title:       ca.Title,
			Summary:     ca.Summary,
			Content:     ca.Content,
			Category:    ca.Category,
			Tags:        ca.Tags,
			ImageURL:    ca.ImageURL,
			IsPremium:   ca.Premium,
			TokenPrice:  ca.TokenPrice,
			PublishedAt: ca.PublishedAt,
		}
		if item.IsPremium && item.TokenPrice == 0 {
			item.TokenPrice = 1
		}
		if err := s.writer.CreateCurrentAffair(ctx, item); err != nil {
			return err
		}
		stats.CurrentAffairs++
	}

	for _, a := range f.Advertisements {
		ad := &domain.Advertisement{
			Title:     a.Title,
			ImageURL:  a.ImageURL,
			TargetURL: a.TargetURL,
			Placement: a.Placement,
			IsActive:  !a.Inactive,
		}
		if err := s.writer.CreateAdvertisement(ctx, ad); err != nil {
			return err
		}
		stats.Advertisements++
	}
	return nil
}
