package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/soyeahso/safetalk/internal/domain"
)

// DetectionRecord is one logged /detect-hate verdict. The analysed text
// itself is not kept, only its length.
type DetectionRecord struct {
	ID            string
	TextLen       int
	IsHate        bool
	Label         string
	ToxicityScore float64
	ToxicWords    []string
	CreatedAt     time.Time
}

// DetectionStats summarises the detections log.
type DetectionStats struct {
	Total   int
	Hate    int
	ByLabel map[string]int
}

// DetectionLog records verdicts served by the backend.
type DetectionLog struct {
	db *DB
}

// NewDetectionLog creates a detections log using the given database.
func NewDetectionLog(db *DB) *DetectionLog {
	return &DetectionLog{db: db}
}

// Record appends a verdict for a text of the given length.
func (l *DetectionLog) Record(ctx context.Context, textLen int, d domain.Detection) (DetectionRecord, error) {
	rec := DetectionRecord{
		ID:            uuid.New().String(),
		TextLen:       textLen,
		IsHate:        d.IsHate,
		Label:         d.Label,
		ToxicityScore: d.ToxicityScore,
		ToxicWords:    d.ToxicWords,
		CreatedAt:     time.Now().UTC(),
	}

	words, err := json.Marshal(rec.ToxicWords)
	if err != nil {
		return rec, err
	}

	_, err = l.db.sql.ExecContext(ctx,
		`INSERT INTO detections (id, text_len, is_hate, label, toxicity_score, toxic_words, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TextLen, rec.IsHate, rec.Label, rec.ToxicityScore, string(words),
		rec.CreatedAt.Format(time.DateTime),
	)
	if err != nil {
		return rec, fmt.Errorf("record detection: %w", err)
	}
	return rec, nil
}

// Recent returns up to limit records, newest first.
func (l *DetectionLog) Recent(ctx context.Context, limit int) ([]DetectionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.sql.QueryContext(ctx,
		`SELECT id, text_len, is_hate, label, toxicity_score, toxic_words, created_at
		 FROM detections ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list detections: %w", err)
	}
	defer rows.Close()

	var out []DetectionRecord
	for rows.Next() {
		var rec DetectionRecord
		var words, created string
		if err := rows.Scan(&rec.ID, &rec.TextLen, &rec.IsHate, &rec.Label, &rec.ToxicityScore, &words, &created); err != nil {
			continue
		}
		_ = json.Unmarshal([]byte(words), &rec.ToxicWords)
		rec.CreatedAt, _ = time.Parse(time.DateTime, created)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Stats counts all logged detections.
func (l *DetectionLog) Stats(ctx context.Context) (DetectionStats, error) {
	stats := DetectionStats{ByLabel: make(map[string]int)}
	rows, err := l.db.sql.QueryContext(ctx,
		`SELECT label, SUM(is_hate), COUNT(*) FROM detections GROUP BY label`,
	)
	if err != nil {
		return stats, fmt.Errorf("detection stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		var hate, count int
		if err := rows.Scan(&label, &hate, &count); err != nil {
			return stats, err
		}
		stats.ByLabel[label] = count
		stats.Total += count
		stats.Hate += hate
	}
	return stats, rows.Err()
}
