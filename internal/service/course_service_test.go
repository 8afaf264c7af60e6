package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocket_study/internal/model"
)

const installText = `# Title: Colors
# Tags: art

## Concept: Primary (concept_id: concept.primary)
Definition: A color that cannot be mixed from others.
Quiz:
- MCQ: "Which is primary?" | ["red", "purple"] | 0
- Cloze: Mixing all primaries gives {{brown}}.
`

func TestCourseService_InstallFromText(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := int64(1_700_000_000_000)

	resp, err := env.courses.Install(ctx, model.InstallCourseRequest{Text: installText}, now)
	require.NoError(t, err)
	require.NotNil(t, resp.Installed)
	assert.Equal(t, "authored-colors", resp.Installed.ID)
	assert.Equal(t, "Colors", resp.Installed.Title)
	assert.Equal(t, now, resp.Installed.InstalledTs)
	assert.Empty(t, resp.Warnings)

	course, err := env.courses.Get(ctx, "authored-colors")
	require.NoError(t, err)
	require.Len(t, course.Items, 3)

	// Short MCQs are padded to four choices on install.
	mcq := course.ItemByID("mcq.concept-primary.1")
	require.NotNil(t, mcq)
	assert.GreaterOrEqual(t, len(mcq.MCQ.Choices), 4)
	assert.True(t, mcq.MCQ.Choices[0].Correct)

	// Every item gets a schedule row due immediately.
	entries, err := env.schedRepo.FindDue(ctx, env.db, now, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, entry := range entries {
		assert.Equal(t, "authored-colors", entry.CourseID)
		assert.Equal(t, now, entry.DueTs)
		assert.Equal(t, 2.5, entry.Difficulty)
		assert.Equal(t, 0, entry.Reps)
	}

	list, err := env.courses.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "authored-colors", list[0].ID)
}

func TestCourseService_InstallFromCourseDoc(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc := courseDoc("c1", "concept.a")
	doc.Items = append(doc.Items, model.CourseItem{
		ItemBase: model.ItemBase{ID: "cloze.c1.concept.a.1", Type: model.ItemTypeCloze, ConceptIDs: []string{"concept.a"}},
		Cloze:    &model.ClozeItem{Template: "Water is {{H2O}}"},
	})

	_, err := env.courses.Install(ctx, model.InstallCourseRequest{Course: doc}, 1000)
	require.NoError(t, err)

	stored, err := env.courses.Get(ctx, "c1")
	require.NoError(t, err)
	cloze := stored.ItemByID("cloze.c1.concept.a.1")
	require.NotNil(t, cloze)
	assert.Empty(t, cloze.Cloze.Template)
	assert.Equal(t, []string{"H2O"}, cloze.Cloze.Answer)
}

func TestCourseService_InstallValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.courses.Install(ctx, model.InstallCourseRequest{}, 0)
	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_COURSE", appErr.Detail.Code)

	_, err = env.courses.Install(ctx, model.InstallCourseRequest{Course: &model.Course{Title: "no id"}}, 0)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_COURSE", appErr.Detail.Code)

	_, err = env.courses.Install(ctx, model.InstallCourseRequest{Text: "not a course"}, 0)
	var compileErr *model.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.NotEmpty(t, compileErr.Messages)
}

func TestCourseService_ReinstallKeepsScheduleProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc := courseDoc("c1", "concept.a")
	_, err := env.courses.Install(ctx, model.InstallCourseRequest{Course: doc}, 1000)
	require.NoError(t, err)

	itemID := doc.Items[0].ID
	_, err = env.reviews.RecordReview(ctx, itemID, model.SubmitReviewRequest{Grade: model.GradeGood, PromptType: model.ItemTypeCard}, 2000)
	require.NoError(t, err)

	_, err = env.courses.Install(ctx, model.InstallCourseRequest{Course: doc}, 3000)
	require.NoError(t, err)

	entry, err := env.schedRepo.FindByItemID(ctx, env.db, itemID)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Reps, "reinstall must not reset an existing schedule row")
}

func TestCourseService_RemoveRetainsSharedMastery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.courses.Install(ctx, model.InstallCourseRequest{Course: courseDoc("c1", "concept.shared", "concept.only-a")}, 1000)
	require.NoError(t, err)
	_, err = env.courses.Install(ctx, model.InstallCourseRequest{Course: courseDoc("c2", "concept.shared", "concept.only-b")}, 2000)
	require.NoError(t, err)

	for _, conceptID := range []string{"concept.shared", "concept.only-a", "concept.only-b"} {
		require.NoError(t, env.masteryRepo.Upsert(ctx, env.db, &model.MasteryEntry{
			ConceptID: conceptID, Probability: 0.4, LastUpdateTs: 2000,
		}))
	}

	require.NoError(t, env.courses.Remove(ctx, "c1"))

	_, err = env.courses.Get(ctx, "c1")
	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "COURSE_NOT_FOUND", appErr.Detail.Code)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// c1 schedule rows are gone, c2's stay.
	_, err = env.schedRepo.FindByItemID(ctx, env.db, "card.c1.concept.shared.1")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = env.schedRepo.FindByItemID(ctx, env.db, "card.c2.concept.shared.1")
	assert.NoError(t, err)

	// Mastery survives for the concept c2 still teaches.
	_, err = env.masteryRepo.FindByConceptID(ctx, env.db, "concept.shared")
	assert.NoError(t, err)
	_, err = env.masteryRepo.FindByConceptID(ctx, env.db, "concept.only-b")
	assert.NoError(t, err)
	_, err = env.masteryRepo.FindByConceptID(ctx, env.db, "concept.only-a")
	assert.ErrorIs(t, err, model.ErrNotFound)

	list, err := env.courses.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c2", list[0].ID)
}

func TestCourseService_RemoveUnknownCourse(t *testing.T) {
	env := newTestEnv(t)

	err := env.courses.Remove(context.Background(), "nope")
	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "COURSE_NOT_FOUND", appErr.Detail.Code)
}
