package workouts

import (
	"time"

	"github.com/2beens/liftingdiary/internal/diary/schema"
)

type Workout struct {
	ID          int        `json:"id"`
	Name        *string    `json:"name"`
	WorkoutDate time.Time  `json:"workoutDate"`
	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	Exercises   []Exercise `json:"exercises"`
}

type Exercise struct {
	ID           int     `json:"id"`
	ExerciseID   int     `json:"exerciseId"`
	ExerciseName string  `json:"exerciseName"`
	Order        int     `json:"order"`
	Notes        *string `json:"notes"`
	Sets         []Set   `json:"sets"`
}

type Set struct {
	ID         int     `json:"id"`
	SetNumber  int     `json:"setNumber"`
	Reps       int     `json:"reps"`
	Weight     *string `json:"weight"`
	WeightUnit string  `json:"weightUnit"`
}

// assemble nests a snapshot into workouts -> exercises -> sets. It keeps the
// order of every slice in the snapshot and never drops a row. Children whose
// parent is not in the snapshot are ignored.
func assemble(snap *Snapshot) []Workout {
	if snap == nil {
		return []Workout{}
	}

	setsByExercise := make(map[int][]Set)
	for _, s := range snap.Sets {
		setsByExercise[s.WorkoutExerciseID] = append(setsByExercise[s.WorkoutExerciseID], toSet(s))
	}

	exercisesByWorkout := make(map[int][]Exercise)
	for _, e := range snap.Exercises {
		ex := Exercise{
			ID:           e.ID,
			ExerciseID:   e.ExerciseCatalogID,
			ExerciseName: e.Catalog.Name,
			Order:        e.Order,
			Notes:        e.Notes,
			Sets:         setsByExercise[e.ID],
		}
		if ex.Sets == nil {
			ex.Sets = []Set{}
		}
		exercisesByWorkout[e.WorkoutID] = append(exercisesByWorkout[e.WorkoutID], ex)
	}

	workouts := make([]Workout, 0, len(snap.Workouts))
	for _, w := range snap.Workouts {
		out := Workout{
			ID:          w.ID,
			Name:        w.Name,
			WorkoutDate: w.WorkoutDate,
			StartedAt:   w.StartedAt,
			CompletedAt: w.CompletedAt,
			Exercises:   exercisesByWorkout[w.ID],
		}
		if out.Exercises == nil {
			out.Exercises = []Exercise{}
		}
		workouts = append(workouts, out)
	}

	return workouts
}

func toSet(s schema.Set) Set {
	unit := s.WeightUnit
	if unit == "" {
		unit = schema.DefaultWeightUnit
	}
	return Set{
		ID:         s.ID,
		SetNumber:  s.SetNumber,
		Reps:       s.Reps,
		Weight:     s.Weight,
		WeightUnit: unit,
	}
}
