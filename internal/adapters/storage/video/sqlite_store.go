package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"teamvideos/internal/adapters/storage"
	domain "teamvideos/internal/domain/video"
)

const videoColumns = "v.id, v.title, v.description, v.url, v.created_at, v.team_id, v.project_id"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new VideoStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Video and its subtitles.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Video, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+videoColumns+" FROM video v WHERE v.id = ?", id)
	v, err := scanVideo(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Video{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.Video{}, err
	}

	subs, err := s.subtitles(ctx, "WHERE s.video_id = ?", id)
	if err != nil {
		return domain.Video{}, err
	}
	v.Subtitles = subs[id]
	return v, nil
}

// Save persists a Video and replaces its subtitle languages.
// PRE: entity has been validated
// POST: Entity and subtitles persisted in one transaction; subtitle order is kept
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Video) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO video (id, title, description, url, created_at, team_id, project_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			description=excluded.description,
			url=excluded.url,
			team_id=excluded.team_id,
			project_id=excluded.project_id`,
		entity.ID,
		entity.Title,
		entity.Description,
		entity.URL,
		storage.FormatTime(entity.CreatedAt),
		nullable(entity.TeamID),
		nullable(entity.ProjectID),
	)
	if err != nil {
		return fmt.Errorf("save video: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM subtitle_language WHERE video_id = ?", entity.ID); err != nil {
		return err
	}
	for i, sub := range entity.Subtitles {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO subtitle_language (video_id, language_code, complete, text, position) VALUES (?, ?, ?, ?, ?)",
			entity.ID, sub.Code, sub.Complete, sub.Text, i)
		if err != nil {
			return fmt.Errorf("subtitle %q: %w", sub.Code, err)
		}
	}
	return tx.Commit()
}

// Delete removes a Video and its subtitles.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM subtitle_language WHERE video_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM video WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// ListByTeam returns a team's videos, oldest first.
// POST: ties on created_at keep insertion order
func (s *SQLiteStore) ListByTeam(ctx context.Context, teamID string) ([]domain.Video, error) {
	return s.list(ctx, "WHERE v.team_id = ?", teamID)
}

// ListTeamVideos returns all videos attached to a team, oldest first.
func (s *SQLiteStore) ListTeamVideos(ctx context.Context) ([]domain.Video, error) {
	return s.list(ctx, "WHERE v.team_id IS NOT NULL")
}

func (s *SQLiteStore) list(ctx context.Context, where string, args ...any) ([]domain.Video, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+videoColumns+" FROM video v "+where+" ORDER BY v.created_at, v.rowid", args...)
	if err != nil {
		return nil, err
	}
	var results []domain.Video
	for rows.Next() {
		v, err := scanVideo(rows.Scan)
		if err != nil {
			rows.Close()
			return nil, err
		}
		results = append(results, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	subs, err := s.subtitles(ctx, "JOIN video v ON v.id = s.video_id "+where, args...)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].Subtitles = subs[results[i].ID]
	}
	return results, nil
}

// subtitles loads subtitle languages keyed by video ID, each slice in stored order.
func (s *SQLiteStore) subtitles(ctx context.Context, clause string, args ...any) (map[string][]domain.SubtitleLanguage, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT s.video_id, s.language_code, s.complete, s.text FROM subtitle_language s "+clause+" ORDER BY s.video_id, s.position",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.SubtitleLanguage)
	for rows.Next() {
		var videoID string
		var sub domain.SubtitleLanguage
		if err := rows.Scan(&videoID, &sub.Code, &sub.Complete, &sub.Text); err != nil {
			return nil, err
		}
		out[videoID] = append(out[videoID], sub)
	}
	return out, rows.Err()
}

func scanVideo(scan func(dest ...any) error) (domain.Video, error) {
	var v domain.Video
	var createdAt string
	var teamID, projectID sql.NullString
	if err := scan(&v.ID, &v.Title, &v.Description, &v.URL, &createdAt, &teamID, &projectID); err != nil {
		return domain.Video{}, err
	}
	createdTime, err := storage.ParseTime(createdAt)
	if err != nil {
		return domain.Video{}, fmt.Errorf("video %s created_at: %w", v.ID, err)
	}
	v.CreatedAt = createdTime
	v.TeamID = teamID.String
	v.ProjectID = projectID.String
	return v, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
