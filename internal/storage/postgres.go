package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/shamik143/mindfulcompanion/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	if err := s.ensureSession(ctx, chatID); err != nil {
		return nil, err
	}

	query := `
		SELECT chat_id, display_name, insight_shown, last_seen_at
		FROM sessions
		WHERE chat_id = $1`

	session := &models.Session{}
	err := s.db.QueryRowContext(ctx, query, chatID).Scan(
		&session.ChatID,
		&session.DisplayName,
		&session.InsightShown,
		&session.LastSeenAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying session: %w", err)
	}
	return session, nil
}

func (s *PostgresStorage) ensureSession(ctx context.Context, chatID int64) error {
	query := `
		INSERT INTO sessions (chat_id)
		VALUES ($1)
		ON CONFLICT (chat_id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, chatID); err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

func (s *PostgresStorage) SetDisplayName(ctx context.Context, chatID int64, name string) error {
	if err := s.ensureSession(ctx, chatID); err != nil {
		return err
	}

	query := `
		UPDATE sessions
		SET display_name = $1, last_seen_at = $2
		WHERE chat_id = $3`

	if _, err := s.db.ExecContext(ctx, query, name, time.Now(), chatID); err != nil {
		return fmt.Errorf("error updating display name: %w", err)
	}
	return nil
}

func (s *PostgresStorage) AppendUtterance(ctx context.Context, u *models.Utterance) error {
	if err := s.ensureSession(ctx, u.ChatID); err != nil {
		return err
	}

	emotion, suggestions, err := marshalAnnotations(u)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO messages (id, chat_id, role, kind, content, emotion, suggestions, feedback, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = s.db.ExecContext(ctx, query,
		u.ID, u.ChatID, u.Role, u.Kind, u.Content, emotion, suggestions, u.Feedback, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating message: %w", err)
	}
	return nil
}

func (s *PostgresStorage) RecentUtterances(ctx context.Context, chatID int64, limit int) ([]*models.Utterance, error) {
	// LIMIT NULL means no limit
	var lim interface{}
	if limit > 0 {
		lim = limit
	}

	query := `
		SELECT id, chat_id, role, kind, content, emotion, suggestions, feedback, created_at
		FROM (
			SELECT * FROM messages
			WHERE chat_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, chatID, lim)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	var utterances []*models.Utterance
	for rows.Next() {
		u := &models.Utterance{}
		var emotion, suggestions []byte
		err := rows.Scan(
			&u.ID, &u.ChatID, &u.Role, &u.Kind, &u.Content,
			&emotion, &suggestions, &u.Feedback, &u.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		if err := unmarshalAnnotations(u, emotion, suggestions); err != nil {
			return nil, err
		}
		utterances = append(utterances, u)
	}
	return utterances, rows.Err()
}

func (s *PostgresStorage) SetFeedback(ctx context.Context, chatID int64, messageID string, feedback models.Feedback) error {
	query := `
		UPDATE messages
		SET feedback = $1
		WHERE id = $2 AND chat_id = $3 AND feedback = ''`

	result, err := s.db.ExecContext(ctx, query, feedback, messageID, chatID)
	if err != nil {
		return fmt.Errorf("error updating feedback: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	err = s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1 AND chat_id = $2)`,
		messageID, chatID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking message: %w", err)
	}
	if !exists {
		return ErrMessageNotFound
	}
	return ErrFeedbackAlreadySet
}

func (s *PostgresStorage) AppendMoodEntry(ctx context.Context, entry *models.MoodEntry) error {
	query := `
		INSERT INTO mood_entries (chat_id, emotion, confidence, excerpt, valence, arousal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		entry.ChatID, entry.Emotion, entry.Confidence, entry.Excerpt,
		entry.Valence, entry.Arousal, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating mood entry: %w", err)
	}
	return nil
}

func (s *PostgresStorage) MoodHistory(ctx context.Context, chatID int64) ([]*models.MoodEntry, error) {
	query := `
		SELECT chat_id, emotion, confidence, excerpt, valence, arousal, created_at
		FROM mood_entries
		WHERE chat_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("error querying mood entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.MoodEntry
	for rows.Next() {
		entry := &models.MoodEntry{}
		err := rows.Scan(
			&entry.ChatID, &entry.Emotion, &entry.Confidence,
			&entry.Excerpt, &entry.Valence, &entry.Arousal, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning mood entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *PostgresStorage) AppendInsight(ctx context.Context, u *models.Utterance) (bool, error) {
	if err := s.ensureSession(ctx, u.ChatID); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE sessions SET insight_shown = TRUE WHERE chat_id = $1 AND insight_shown = FALSE`,
		u.ChatID)
	if err != nil {
		return false, fmt.Errorf("error marking insight shown: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error getting rows affected: %w", err)
	}
	if affected == 0 {
		// Insight already shown for this session.
		return false, nil
	}

	emotion, suggestions, err := marshalAnnotations(u)
	if err != nil {
		return false, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, chat_id, role, kind, content, emotion, suggestions, feedback, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.ChatID, u.Role, u.Kind, u.Content, emotion, suggestions, u.Feedback, u.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("error creating insight message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("error committing insight: %w", err)
	}
	return true, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

func marshalAnnotations(u *models.Utterance) ([]byte, []byte, error) {
	var emotion, suggestions []byte
	var err error

	if u.Emotion != nil {
		emotion, err = json.Marshal(u.Emotion)
		if err != nil {
			return nil, nil, fmt.Errorf("error marshaling emotion: %w", err)
		}
	}
	if len(u.Suggestions) > 0 {
		suggestions, err = json.Marshal(u.Suggestions)
		if err != nil {
			return nil, nil, fmt.Errorf("error marshaling suggestions: %w", err)
		}
	}
	return emotion, suggestions, nil
}

func unmarshalAnnotations(u *models.Utterance, emotion, suggestions []byte) error {
	if len(emotion) > 0 {
		u.Emotion = &models.EmotionResult{}
		if err := json.Unmarshal(emotion, u.Emotion); err != nil {
			return fmt.Errorf("error unmarshaling emotion: %w", err)
		}
	}
	if len(suggestions) > 0 {
		if err := json.Unmarshal(suggestions, &u.Suggestions); err != nil {
			return fmt.Errorf("error unmarshaling suggestions: %w", err)
		}
	}
	return nil
}
