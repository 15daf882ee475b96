//go:build integration_test || all_tests

package integration_testing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/liftingdiary/internal/diary/daywindow"
	"github.com/2beens/liftingdiary/internal/diary/schema"
	"github.com/2beens/liftingdiary/internal/diary/seed"
	"github.com/2beens/liftingdiary/internal/diary/templates"
	"github.com/2beens/liftingdiary/internal/diary/workouts"

	"github.com/brianvoe/gofakeit/v6"
)

func (s *DiarySuite) catalogID(name string) int {
	var id int
	s.Require().NoError(s.dbPool.QueryRow(context.Background(),
		`SELECT id FROM exercise_catalog WHERE name = $1`, name).Scan(&id))
	return id
}

func (s *DiarySuite) insertWorkout(userID, name string, at time.Time) int {
	var id int
	s.Require().NoError(s.dbPool.QueryRow(context.Background(), `
		INSERT INTO workouts (user_id, name, workout_date) VALUES ($1, $2, $3)
		RETURNING id`, userID, name, at).Scan(&id))
	return id
}

func (s *DiarySuite) insertExercise(workoutID, catalogID, order int, sets ...string) {
	ctx := context.Background()
	var exID int
	s.Require().NoError(s.dbPool.QueryRow(ctx, `
		INSERT INTO workout_exercises (workout_id, exercise_catalog_id, "order") VALUES ($1, $2, $3)
		RETURNING id`, workoutID, catalogID, order).Scan(&exID))
	for i, weight := range sets {
		_, err := s.dbPool.Exec(ctx, `
			INSERT INTO exercise_sets (workout_exercise_id, set_number, reps, weight) VALUES ($1, $2, $3, $4::numeric)`,
			exID, i+1, 8-i, weight)
		s.Require().NoError(err)
	}
}

func (s *DiarySuite) listWorkouts(date, token string) workouts.ListResponse {
	status, body := s.get("/workouts?date="+date, token)
	s.Require().Equal(http.StatusOK, status, string(body))
	var resp workouts.ListResponse
	s.Require().NoError(json.Unmarshal(body, &resp))
	return resp
}

func (s *DiarySuite) belgrade() *time.Location {
	loc, err := time.LoadLocation("Europe/Belgrade")
	s.Require().NoError(err)
	return loc
}

func (s *DiarySuite) TestHealthAndAuth() {
	status, body := s.get("/health", "")
	s.Equal(http.StatusOK, status)
	s.Equal("ok", string(body))

	status, _ = s.get("/workouts", "")
	s.Equal(http.StatusUnauthorized, status)

	status, _ = s.get("/workouts?date=2024-01-17", "not-a-jwt")
	s.Equal(http.StatusUnauthorized, status)

	foreignSigned, err := s.tokens.Issue("", time.Now(), time.Hour)
	s.Require().NoError(err)
	status, _ = s.get("/workouts", foreignSigned)
	s.Equal(http.StatusUnauthorized, status)

	status, _ = s.get("/workouts?date=2024-02-30", s.tokenFor("u1"))
	s.Equal(http.StatusBadRequest, status)

	status, _ = s.get("/nope", "")
	s.Equal(http.StatusUnauthorized, status)
	status, _ = s.get("/nope", s.tokenFor("u1"))
	s.Equal(http.StatusNotFound, status)
}

func (s *DiarySuite) TestCatalog() {
	// public route
	status, body := s.get("/exercises", "")
	s.Require().Equal(http.StatusOK, status)

	var entries []schema.ExerciseCatalogEntry
	s.Require().NoError(json.Unmarshal(body, &entries))
	s.Len(entries, len(seed.CatalogNames))
	s.Equal("Ab Wheel Rollout", entries[0].Name)
}

func (s *DiarySuite) TestWorkouts_DayAndOwner() {
	loc := s.belgrade()
	owner := "owner-" + gofakeit.UUID()
	stranger := "stranger-" + gofakeit.UUID()
	ownerToken := s.tokenFor(owner)
	strangerToken := s.tokenFor(stranger)

	bench := s.catalogID("Bench Press")
	row := s.catalogID("Barbell Row")

	// 00:30 in Belgrade is still the previous day in UTC
	early := s.insertWorkout(owner, "Early push", time.Date(2024, time.January, 17, 0, 30, 0, 0, loc))
	s.insertExercise(early, row, 2, "60")
	s.insertExercise(early, bench, 1, "80", "82.5")
	late := s.insertWorkout(owner, "Late pull", time.Date(2024, time.January, 17, 21, 0, 0, 0, loc))
	// previous and next local day
	s.insertWorkout(owner, "Yesterday", time.Date(2024, time.January, 16, 23, 59, 0, 0, loc))
	s.insertWorkout(owner, "Tomorrow", time.Date(2024, time.January, 18, 0, 0, 0, 0, loc))

	resp := s.listWorkouts("2024-01-17", ownerToken)
	s.Equal(daywindow.Date{Year: 2024, Month: time.January, Day: 17}, resp.Date)
	s.Equal("Europe/Belgrade", resp.Timezone)
	s.Require().Len(resp.Workouts, 2)
	s.Equal(late, resp.Workouts[0].ID)
	s.Equal(early, resp.Workouts[1].ID)
	s.Empty(resp.Workouts[0].Exercises)

	exercises := resp.Workouts[1].Exercises
	s.Require().Len(exercises, 2)
	s.Equal("Bench Press", exercises[0].ExerciseName)
	s.Equal("Barbell Row", exercises[1].ExerciseName)
	s.Require().Len(exercises[0].Sets, 2)
	s.Equal("80.00", *exercises[0].Sets[0].Weight)
	s.Equal("82.50", *exercises[0].Sets[1].Weight)
	s.Equal("kg", exercises[0].Sets[1].WeightUnit)

	// the stranger sees nothing of it
	s.Empty(s.listWorkouts("2024-01-17", strangerToken).Workouts)

	status, body := s.get(fmt.Sprintf("/workouts/%d", early), ownerToken)
	s.Require().Equal(http.StatusOK, status)
	var single workouts.Workout
	s.Require().NoError(json.Unmarshal(body, &single))
	s.Equal(resp.Workouts[1], single)

	foreignStatus, foreignBody := s.get(fmt.Sprintf("/workouts/%d", early), strangerToken)
	missingStatus, missingBody := s.get("/workouts/2147483000", strangerToken)
	s.Equal(http.StatusNotFound, foreignStatus)
	s.Equal(http.StatusNotFound, missingStatus)
	s.Equal(string(missingBody), string(foreignBody))

	status, _ = s.get("/workouts/abc", ownerToken)
	s.Equal(http.StatusBadRequest, status)
}

func (s *DiarySuite) TestTemplates_OwnerScoped() {
	ctx := context.Background()
	owner := "owner-" + gofakeit.UUID()
	squat := s.catalogID("Squat")

	var templateID int
	s.Require().NoError(s.dbPool.QueryRow(ctx, `
		INSERT INTO workout_templates (user_id, name) VALUES ($1, 'Leg day')
		RETURNING id`, owner).Scan(&templateID))
	_, err := s.dbPool.Exec(ctx, `
		INSERT INTO template_exercises (template_id, exercise_catalog_id, "order", target_sets) VALUES ($1, $2, 1, 5)`,
		templateID, squat)
	s.Require().NoError(err)

	status, body := s.get("/templates", s.tokenFor(owner))
	s.Require().Equal(http.StatusOK, status)
	var list []templates.Template
	s.Require().NoError(json.Unmarshal(body, &list))
	s.Require().Len(list, 1)
	s.Equal("Leg day", list[0].Name)
	s.Require().Len(list[0].Exercises, 1)
	s.Equal("Squat", list[0].Exercises[0].ExerciseName)
	s.Equal(5, *list[0].Exercises[0].TargetSets)

	strangerToken := s.tokenFor("stranger-" + gofakeit.UUID())
	status, body = s.get("/templates", strangerToken)
	s.Require().Equal(http.StatusOK, status)
	s.JSONEq(`[]`, string(body))

	status, _ = s.get(fmt.Sprintf("/templates/%d", templateID), strangerToken)
	s.Equal(http.StatusNotFound, status)
}

func (s *DiarySuite) TestDemoSeed() {
	loc := s.belgrade()
	user := "demo-" + gofakeit.UUID()
	until := daywindow.Date{Year: 2024, Month: time.February, Day: 1}

	created, err := seed.Demo(context.Background(), s.dbPool, seed.DemoParams{
		UserID:   user,
		Days:     3,
		Until:    until,
		Location: loc,
		Seed:     7,
	})
	s.Require().NoError(err)
	s.Equal(3, created)

	token := s.tokenFor(user)
	for _, date := range []string{"2024-01-30", "2024-01-31", "2024-02-01"} {
		resp := s.listWorkouts(date, token)
		s.Require().Len(resp.Workouts, 1, date)
		s.GreaterOrEqual(len(resp.Workouts[0].Exercises), 3)
		for _, ex := range resp.Workouts[0].Exercises {
			s.NotEmpty(ex.Sets)
		}
	}
	s.Empty(s.listWorkouts("2024-02-02", token).Workouts)
}
