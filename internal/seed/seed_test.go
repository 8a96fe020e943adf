package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error", Env: "test"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type recordingWriter struct {
	nextID    int
	classes   []*domain.Class
	subjects  []*domain.Subject
	quizzes   []*domain.Quiz
	questions []*domain.Question
	exams     []*domain.Exam
	affairs   []*domain.CurrentAffair
	ads       []*domain.Advertisement
	failOn    string
}

func (w *recordingWriter) id(prefix string) string {
	w.nextID++
	return fmt.Sprintf("%s-%d", prefix, w.nextID)
}

func (w *recordingWriter) CreateClass(_ context.Context, c *domain.Class) error {
	c.ID = w.id("class")
	w.classes = append(w.classes, c)
	return nil
}

func (w *recordingWriter) CreateSubject(_ context.Context, s *domain.Subject) error {
	s.ID = w.id("subject")
	w.subjects = append(w.subjects, s)
	return nil
}

func (w *recordingWriter) CreateQuiz(_ context.Context, q *domain.Quiz) error {
	if w.failOn == q.Title {
		return errors.New("insert failed")
	}
	q.ID = w.id("quiz")
	w.quizzes = append(w.quizzes, q)
	return nil
}

func (w *recordingWriter) CreateQuestion(_ context.Context, q *domain.Question) error {
	w.questions = append(w.questions, q)
	return nil
}

func (w *recordingWriter) CreateExam(_ context.Context, e *domain.Exam) error {
	w.exams = append(w.exams, e)
	return nil
}

func (w *recordingWriter) CreateCurrentAffair(_ context.Context, ca *domain.CurrentAffair) error {
	w.affairs = append(w.affairs, ca)
	return nil
}

func (w *recordingWriter) CreateAdvertisement(_ context.Context, ad *domain.Advertisement) error {
	w.ads = append(w.ads, ad)
	return nil
}

type passthroughTx struct{ calls int }

func (p *passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

func TestLoadSampleFile(t *testing.T) {
	f, err := LoadFile("../../configs/seed/catalog.yaml")
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	require.Len(t, f.Classes, 1)
	require.Len(t, f.Classes[0].Subjects, 2)
	math := f.Classes[0].Subjects[0]
	assert.Equal(t, "algebra-basics", math.Quizzes[0].Key)
	assert.Equal(t, 20, math.Quizzes[0].TimeLimit)
	assert.True(t, math.Quizzes[1].Premium)
	assert.Equal(t, []string{"algebra-basics", "geometry-angles"}, math.Exams[0].Quizzes)
	assert.Equal(t, 2024, f.CurrentAffairs[0].PublishedAt.Year())
	assert.Len(t, f.Advertisements, 2)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("classes:\n  - name: A\n    colour: red\n"))
	assert.Error(t, err)
}

func TestParseEmptyDocument(t *testing.T) {
	f, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Classes)
}

func TestValidate(t *testing.T) {
	doc := `
classes:
  - name: C
    subjects:
      - name: S
        quizzes:
          - key: q1
            title: Q1
            questions:
              - text: bad
                options: ["only"]
                correct: 0
          - key: q1
            title: Q1 again
        exams:
          - title: E
            quizzes: [missing]
advertisements:
  - title: A
    placement: sidebar
`
	f, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	err = f.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `duplicate quiz key "q1"`)
	assert.Contains(t, msg, `question 1`)
	assert.Contains(t, msg, `unknown quiz "missing"`)
	assert.Contains(t, msg, `unknown placement "sidebar"`)
}

func TestSeederApply(t *testing.T) {
	f, err := LoadFile("../../configs/seed/catalog.yaml")
	require.NoError(t, err)

	writer := &recordingWriter{}
	tx := &passthroughTx{}
	stats, err := NewSeeder(writer, tx).Apply(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, Stats{Classes: 1, Subjects: 2, Quizzes: 3, Questions: 5, Exams: 1, CurrentAffairs: 2, Advertisements: 2}, stats)

	require.Len(t, writer.exams, 1)
	exam := writer.exams[0]
	assert.Equal(t, []string{writer.quizzes[0].ID, writer.quizzes[1].ID}, exam.QuizIDs)
	assert.Equal(t, writer.subjects[0].ID, exam.SubjectID)

	assert.Equal(t, writer.quizzes[0].ID, writer.questions[0].QuizID)
	assert.Equal(t, 1, writer.questions[1].OrderIndex)
	assert.Equal(t, writer.subjects[0].ID, writer.quizzes[0].SubjectID)

	assert.Equal(t, 2, writer.affairs[1].TokenPrice)
	assert.True(t, writer.ads[1].IsActive)
}

func TestSeederApplyStopsOnWriteError(t *testing.T) {
	f, err := LoadFile("../../configs/seed/catalog.yaml")
	require.NoError(t, err)

	writer := &recordingWriter{failOn: "The Cell"}
	_, err = NewSeeder(writer, &passthroughTx{}).Apply(context.Background(), f)
	require.Error(t, err)
	assert.Empty(t, writer.affairs)
}
