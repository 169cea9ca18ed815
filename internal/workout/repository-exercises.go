package workout

import (
	"context"
	"errors"
	"fmt"

	"github.com/myrjola/intervalplan/internal/sqlite"
)

// sqliteExerciseRepository reads the exercise catalog from SQLite. It implements Catalog.
type sqliteExerciseRepository struct {
	db *sqlite.Database
}

// NewSQLiteCatalog returns a Catalog backed by db.
func NewSQLiteCatalog(db *sqlite.Database) Catalog {
	return newSQLiteExerciseRepository(db)
}

func newSQLiteExerciseRepository(db *sqlite.Database) *sqliteExerciseRepository {
	return &sqliteExerciseRepository{db: db}
}

// List returns all exercises with their tags, ordered by name.
func (r *sqliteExerciseRepository) List(ctx context.Context) (_ []Exercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name, instructions_markdown, media_url, duration_seconds
		FROM exercises
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []Exercise
	for rows.Next() {
		var exercise Exercise
		if err = rows.Scan(
			&exercise.ID,
			&exercise.Name,
			&exercise.InstructionsMarkdown,
			&exercise.MediaURL,
			&exercise.DurationSeconds,
		); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, exercise)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercise rows: %w", err)
	}

	tags, err := r.fetchTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch tags: %w", err)
	}
	for i := range exercises {
		exercises[i].Tags = tags[exercises[i].ID]
	}
	return exercises, nil
}

// fetchTags returns the tags of all exercises keyed by exercise id.
func (r *sqliteExerciseRepository) fetchTags(ctx context.Context) (_ map[string][]string, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT exercise_id, tag
		FROM exercise_tags
		ORDER BY exercise_id, tag`)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	tags := make(map[string][]string)
	for rows.Next() {
		var id, tag string
		if err = rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("scan tag row: %w", err)
		}
		tags[id] = append(tags[id], tag)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag rows: %w", err)
	}
	return tags, nil
}
