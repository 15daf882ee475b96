package schema

import "time"

// Row types as stored. Nullable columns are pointers; weight is kept as the
// decimal text Postgres renders for NUMERIC(6,2).

type ExerciseCatalogEntry struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Workout struct {
	ID          int        `json:"id"`
	UserID      string     `json:"userId"`
	Name        *string    `json:"name"`
	WorkoutDate time.Time  `json:"workoutDate"`
	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type WorkoutExercise struct {
	ID                int       `json:"id"`
	WorkoutID         int       `json:"workoutId"`
	ExerciseCatalogID int       `json:"exerciseCatalogId"`
	Order             int       `json:"order"`
	Notes             *string   `json:"notes"`
	CreatedAt         time.Time `json:"createdAt"`
}

type Set struct {
	ID                int       `json:"id"`
	WorkoutExerciseID int       `json:"workoutExerciseId"`
	SetNumber         int       `json:"setNumber"`
	Reps              int       `json:"reps"`
	Weight            *string   `json:"weight"`
	WeightUnit        string    `json:"weightUnit"`
	CreatedAt         time.Time `json:"createdAt"`
}

type WorkoutTemplate struct {
	ID          int       `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsPublic    bool      `json:"isPublic"`
	UsageCount  int       `json:"usageCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type TemplateExercise struct {
	ID                int     `json:"id"`
	TemplateID        int     `json:"templateId"`
	ExerciseCatalogID int     `json:"exerciseCatalogId"`
	Order             int     `json:"order"`
	TargetSets        *int    `json:"targetSets"`
	TargetRepsMin     *int    `json:"targetRepsMin"`
	TargetRepsMax     *int    `json:"targetRepsMax"`
	Notes             *string `json:"notes"`
}

// DefaultWeightUnit is used when a set is stored without an explicit unit.
const DefaultWeightUnit = "kg"
