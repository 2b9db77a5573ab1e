package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bvsim-dev/bvsim/internal/stats"
	"github.com/bvsim-dev/bvsim/internal/types"
)

// SimulationRecord persists one head-to-head simulation run.
type SimulationRecord struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	TeamAName   string          `gorm:"index" json:"team_a_name"`
	TeamBName   string          `gorm:"index" json:"team_b_name"`
	TotalPoints int             `json:"total_points"`
	TeamAWinPct float64         `json:"team_a_win_percentage"`
	Result      json.RawMessage `gorm:"type:jsonb" json:"result"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (SimulationRecord) TableName() string {
	return "simulation_runs"
}

// SkillReportRecord persists one aggregated skill analysis report.
type SkillReportRecord struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	TeamName    string          `gorm:"index" json:"team_name"`
	Opponent    string          `json:"opponent"`
	Runs        int             `json:"runs"`
	ChangeValue float64         `json:"change_value"`
	Report      json.RawMessage `gorm:"type:jsonb" json:"report"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (SkillReportRecord) TableName() string {
	return "skill_reports"
}

// Store reads and writes simulation artifacts.
type Store struct {
	db  *DB
	log *logrus.Logger
}

func NewStore(db *DB, log *logrus.Logger) *Store {
	return &Store{db: db, log: log}
}

// Migrate creates or updates the simulation tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&SimulationRecord{}, &SkillReportRecord{}); err != nil {
		return fmt.Errorf("failed to migrate simulation tables: %w", err)
	}
	return nil
}

// SaveSimulation persists a completed simulation result and returns its ID.
func (s *Store) SaveSimulation(result *types.SimulationResult) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal simulation result: %w", err)
	}

	record := SimulationRecord{
		ID:          uuid.NewString(),
		TeamAName:   result.TeamAName,
		TeamBName:   result.TeamBName,
		TotalPoints: result.TotalPoints,
		TeamAWinPct: result.TeamAWinRate,
		Result:      payload,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to save simulation result: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"simulation_id": record.ID,
		"team_a":        record.TeamAName,
		"team_b":        record.TeamBName,
	}).Info("Saved simulation result")
	return record.ID, nil
}

// GetSimulation loads a persisted simulation result by ID.
func (s *Store) GetSimulation(id string) (*types.SimulationResult, error) {
	var record SimulationRecord
	if err := s.db.First(&record, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("simulation %s not found: %w", id, err)
	}

	var result types.SimulationResult
	if err := json.Unmarshal(record.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal simulation result: %w", err)
	}
	return &result, nil
}

// ListSimulations returns the most recent simulation records, newest first.
func (s *Store) ListSimulations(limit int) ([]SimulationRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []SimulationRecord
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}
	return records, nil
}

// SaveSkillReport persists an aggregated skill report and returns its ID.
func (s *Store) SaveSkillReport(teamName, opponent string, report *stats.Report) (string, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal skill report: %w", err)
	}

	record := SkillReportRecord{
		ID:          report.RunID,
		TeamName:    teamName,
		Opponent:    opponent,
		Runs:        report.Runs,
		ChangeValue: report.ChangeValue,
		Report:      payload,
		CreatedAt:   time.Now().UTC(),
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to save skill report: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"report_id": record.ID,
		"team":      teamName,
		"opponent":  opponent,
	}).Info("Saved skill report")
	return record.ID, nil
}

// GetSkillReport loads a persisted skill report by ID.
func (s *Store) GetSkillReport(id string) (*stats.Report, error) {
	var record SkillReportRecord
	if err := s.db.First(&record, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("skill report %s not found: %w", id, err)
	}

	var report stats.Report
	if err := json.Unmarshal(record.Report, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skill report: %w", err)
	}
	return &report, nil
}
