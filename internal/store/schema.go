// ABOUTME: Table definitions shared by every backend, plus SQL DDL per dialect.
// ABOUTME: Defines workouts, workout_exercises, sets, workout_templates, template_exercises.
package store

import "fmt"

const (
	TableWorkouts          = "workouts"
	TableWorkoutExercises  = "workout_exercises"
	TableSets              = "sets"
	TableTemplates         = "workout_templates"
	TableTemplateExercises = "template_exercises"
)

// TableDef describes a table's key and columns in storage order.
type TableDef struct {
	Name    string
	Key     string
	Columns []string
}

// Tables lists every table parent-first; children follow the table they
// reference so copying in this order satisfies foreign keys.
var Tables = []TableDef{
	{
		Name:    TableWorkouts,
		Key:     "id",
		Columns: []string{"id", "user_id", "name", "date_performed", "duration", "created_at", "updated_at"},
	},
	{
		Name:    TableWorkoutExercises,
		Key:     "id",
		Columns: []string{"id", "workout_id", "exercise_id", "notes", "exercise_order"},
	},
	{
		Name:    TableSets,
		Key:     "id",
		Columns: []string{"id", "workout_id", "workout_exercises_id", "weight", "reps", "set_order", "created_at"},
	},
	{
		Name:    TableTemplates,
		Key:     "id",
		Columns: []string{"id", "created_by", "name", "is_public", "created_at", "updated_at"},
	},
	{
		Name: TableTemplateExercises,
		Key:  "id",
		Columns: []string{
			"id", "template_id", "exercise_id", "exercise_order", "sets",
			"weight", "reps", "rep_range_min", "rep_range_max",
			"rir", "rir_range_min", "rir_range_max",
		},
	},
}

// LookupTable returns the definition for name.
func LookupTable(name string) (TableDef, error) {
	for _, t := range Tables {
		if t.Name == name {
			return t, nil
		}
	}
	return TableDef{}, fmt.Errorf("unknown table: %q", name)
}

// hasColumn reports whether col belongs to the table.
func (t TableDef) hasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// checkColumns rejects records carrying columns the table does not have.
func (t TableDef) checkColumns(r Record) error {
	for col := range r {
		if !t.hasColumn(col) {
			return fmt.Errorf("table %s has no column %q", t.Name, col)
		}
	}
	if _, ok := r[t.Key]; !ok {
		return fmt.Errorf("table %s: row is missing key column %q", t.Name, t.Key)
	}
	return nil
}

// checkFilters rejects filters on unknown columns.
func (t TableDef) checkFilters(filters []Filter) error {
	for _, f := range filters {
		if !t.hasColumn(f.Column) {
			return fmt.Errorf("table %s has no column %q", t.Name, f.Column)
		}
	}
	return nil
}

// sqliteSchema creates the relational layout. Timestamps are RFC 3339 text
// and dates are YYYY-MM-DD text so both SQL dialects sort them the same way.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS workouts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	date_performed TEXT NOT NULL,
	duration INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS workout_exercises (
	id TEXT PRIMARY KEY,
	workout_id TEXT NOT NULL REFERENCES workouts(id),
	exercise_id TEXT NOT NULL,
	notes TEXT,
	exercise_order INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sets (
	id TEXT PRIMARY KEY,
	workout_id TEXT NOT NULL REFERENCES workouts(id),
	workout_exercises_id TEXT NOT NULL REFERENCES workout_exercises(id),
	weight REAL NOT NULL DEFAULT 0,
	reps INTEGER NOT NULL DEFAULT 0,
	set_order INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS workout_templates (
	id TEXT PRIMARY KEY,
	created_by TEXT NOT NULL,
	name TEXT NOT NULL,
	is_public INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS template_exercises (
	id TEXT PRIMARY KEY,
	template_id TEXT NOT NULL REFERENCES workout_templates(id),
	exercise_id TEXT NOT NULL,
	exercise_order INTEGER NOT NULL,
	sets INTEGER NOT NULL DEFAULT 0,
	weight REAL,
	reps INTEGER,
	rep_range_min INTEGER,
	rep_range_max INTEGER,
	rir INTEGER,
	rir_range_min INTEGER,
	rir_range_max INTEGER
);

CREATE INDEX IF NOT EXISTS idx_workouts_user ON workouts(user_id, date_performed DESC);
CREATE INDEX IF NOT EXISTS idx_workout_exercises_workout ON workout_exercises(workout_id);
CREATE INDEX IF NOT EXISTS idx_workout_exercises_exercise ON workout_exercises(exercise_id);
CREATE INDEX IF NOT EXISTS idx_sets_workout ON sets(workout_id);
CREATE INDEX IF NOT EXISTS idx_sets_workout_exercise ON sets(workout_exercises_id);
CREATE INDEX IF NOT EXISTS idx_templates_creator ON workout_templates(created_by);
CREATE INDEX IF NOT EXISTS idx_template_exercises_template ON template_exercises(template_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS workouts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	date_performed TEXT NOT NULL,
	duration BIGINT NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS workout_exercises (
	id TEXT PRIMARY KEY,
	workout_id TEXT NOT NULL REFERENCES workouts(id),
	exercise_id TEXT NOT NULL,
	notes TEXT,
	exercise_order BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS sets (
	id TEXT PRIMARY KEY,
	workout_id TEXT NOT NULL REFERENCES workouts(id),
	workout_exercises_id TEXT NOT NULL REFERENCES workout_exercises(id),
	weight DOUBLE PRECISION NOT NULL DEFAULT 0,
	reps BIGINT NOT NULL DEFAULT 0,
	set_order BIGINT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS workout_templates (
	id TEXT PRIMARY KEY,
	created_by TEXT NOT NULL,
	name TEXT NOT NULL,
	is_public BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS template_exercises (
	id TEXT PRIMARY KEY,
	template_id TEXT NOT NULL REFERENCES workout_templates(id),
	exercise_id TEXT NOT NULL,
	exercise_order BIGINT NOT NULL,
	sets BIGINT NOT NULL DEFAULT 0,
	weight DOUBLE PRECISION,
	reps BIGINT,
	rep_range_min BIGINT,
	rep_range_max BIGINT,
	rir BIGINT,
	rir_range_min BIGINT,
	rir_range_max BIGINT
);

CREATE INDEX IF NOT EXISTS idx_workouts_user ON workouts(user_id, date_performed DESC);
CREATE INDEX IF NOT EXISTS idx_workout_exercises_workout ON workout_exercises(workout_id);
CREATE INDEX IF NOT EXISTS idx_workout_exercises_exercise ON workout_exercises(exercise_id);
CREATE INDEX IF NOT EXISTS idx_sets_workout ON sets(workout_id);
CREATE INDEX IF NOT EXISTS idx_sets_workout_exercise ON sets(workout_exercises_id);
CREATE INDEX IF NOT EXISTS idx_templates_creator ON workout_templates(created_by);
CREATE INDEX IF NOT EXISTS idx_template_exercises_template ON template_exercises(template_id);
`
