package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/learnmap/models"
)

// DefaultListLimit applies when ListAnalyses is called with a non-positive limit.
const DefaultListLimit = 20

var ErrNotFound = errors.New("analysis not found")

// Analysis is one stored learning map plus the facts about how it was made.
type Analysis struct {
	AnalysisID    int64                 `json:"id" yaml:"id"`
	RequestID     string                `json:"request_id" yaml:"request_id"`
	CreatedAt     time.Time             `json:"created_at" yaml:"created_at"`
	ContentType   models.ContentType    `json:"content_type" yaml:"content_type"`
	ContentHash   string                `json:"content_hash" yaml:"content_hash"`
	ContentLength int                   `json:"content_length" yaml:"content_length"`
	SummarySource string                `json:"summary_source" yaml:"summary_source"`
	Result        models.AnalysisResult `json:"result" yaml:"result"`
}

// InsertAnalysis stores a and returns its id. CreatedAt defaults to now.
func (db *DB) InsertAnalysis(a *Analysis) (int64, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	topics, err := json.Marshal(a.Result.Topics)
	if err != nil {
		return 0, fmt.Errorf("failed to encode topics: %w", err)
	}
	tree, err := json.Marshal(a.Result.TopicTree)
	if err != nil {
		return 0, fmt.Errorf("failed to encode topic tree: %w", err)
	}

	res, err := db.Exec(`
		INSERT INTO analyses (
			request_id, created_at, content_type, content_hash, content_length,
			language, summary, summary_source, topics, topic_tree
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.RequestID, a.CreatedAt, string(a.ContentType), a.ContentHash, a.ContentLength,
		a.Result.Language, a.Result.Summary, a.SummarySource, string(topics), string(tree))
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get analysis ID: %w", err)
	}
	a.AnalysisID = id
	return id, nil
}

const selectAnalysis = `
	SELECT analysis_id, request_id, created_at, content_type, content_hash, content_length,
		COALESCE(language, ''), summary, summary_source, topics, topic_tree
	FROM analyses
`

// GetAnalysis returns the analysis with the given id or ErrNotFound.
func (db *DB) GetAnalysis(id int64) (*Analysis, error) {
	row := db.QueryRow(selectAnalysis+" WHERE analysis_id = ?", id)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis %d: %w", id, err)
	}
	return a, nil
}

// ListAnalyses returns up to limit analyses, newest first.
func (db *DB) ListAnalyses(limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.Query(selectAnalysis+" ORDER BY created_at DESC, analysis_id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, *a)
	}
	return analyses, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s scanner) (*Analysis, error) {
	var (
		a           Analysis
		contentType string
		topics      string
		tree        string
	)
	err := s.Scan(&a.AnalysisID, &a.RequestID, &a.CreatedAt, &contentType, &a.ContentHash, &a.ContentLength,
		&a.Result.Language, &a.Result.Summary, &a.SummarySource, &topics, &tree)
	if err != nil {
		return nil, err
	}
	a.ContentType = models.ContentType(contentType)

	if err := json.Unmarshal([]byte(topics), &a.Result.Topics); err != nil {
		return nil, fmt.Errorf("failed to decode topics: %w", err)
	}
	if err := json.Unmarshal([]byte(tree), &a.Result.TopicTree); err != nil {
		return nil, fmt.Errorf("failed to decode topic tree: %w", err)
	}
	return &a, nil
}
