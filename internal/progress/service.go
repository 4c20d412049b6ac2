package progress

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"backend-gymflow/internal/db"
	"backend-gymflow/internal/metrics"
)

// ErrUnknownActivityCategory means the class type has no entry in the point
// table. That is a configuration defect, not a member mistake.
var ErrUnknownActivityCategory = errors.New("unknown activity category")

type Service struct {
	db         db.Querier
	pointTable map[string]map[string]int
}

func NewService(querier db.Querier) *Service {
	return &Service{
		db:         querier,
		pointTable: buildPointTable(),
	}
}

// buildPointTable defines how many points each class type awards to each
// skill category. Every mapped pair awards 10 points, so ten attended
// classes touching a category raise it one level.
func buildPointTable() map[string]map[string]int {
	return map[string]map[string]int{
		"HIIT": {
			SkillCardio:    10,
			SkillStrength:  10,
			SkillEndurance: 10,
			SkillLegs:      10,
		},
		"YOGA": {
			SkillFlexibility: 10,
			SkillCore:        10,
			SkillStrength:    10,
		},
		"STRENGTH": {
			SkillStrength: 10,
			SkillArms:     10,
			SkillLegs:     10,
			SkillCore:     10,
		},
		"CARDIO": {
			SkillCardio:    10,
			SkillEndurance: 10,
			SkillLegs:      10,
		},
	}
}

// AwardPointsForCategory grants the configured points for one attended class
// of the given type. Pairs are applied in sorted category order; a failed
// upsert is reported but does not undo pairs already applied.
func (s *Service) AwardPointsForCategory(ctx context.Context, memberID, classType string) (bool, error) {
	pairs, ok := s.pointTable[strings.ToUpper(classType)]
	if !ok {
		log.Printf("error: no point mapping for class type %q", classType)
		return false, ErrUnknownActivityCategory
	}

	categories := make([]string, 0, len(pairs))
	for category := range pairs {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var firstErr error
	for _, category := range categories {
		if err := s.addPoints(ctx, memberID, category, pairs[category]); err != nil {
			log.Printf("warning: awarding %d points to %s for member %s failed: %v", pairs[category], category, memberID, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("award %s: %w", category, err)
			}
			continue
		}
		metrics.RecordPointsAwarded(category, pairs[category])
	}
	return true, firstErr
}

func (s *Service) addPoints(ctx context.Context, memberID, category string, points int) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO progress_records (member_id, category, total_points, last_updated)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (member_id, category)
		DO UPDATE SET total_points = progress_records.total_points + EXCLUDED.total_points,
		              last_updated = EXCLUDED.last_updated
	`, memberID, category, points, time.Now())
	return err
}

// InitializeProgress ensures a zero-point record exists for every skill
// category. Existing records are never overwritten.
func (s *Service) InitializeProgress(ctx context.Context, memberID string) error {
	for _, category := range SkillCategories {
		_, err := s.db.Exec(ctx, `
			INSERT INTO progress_records (member_id, category, total_points, last_updated)
			VALUES ($1,$2,0,$3)
			ON CONFLICT (member_id, category) DO NOTHING
		`, memberID, category, time.Now())
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ProgressByCategory(ctx context.Context, memberID, category string) (ProgressRecord, error) {
	row := s.db.QueryRow(ctx, `
		SELECT member_id, category, total_points, last_updated
		FROM progress_records
		WHERE member_id=$1 AND category=$2
	`, memberID, strings.ToUpper(category))
	var rec ProgressRecord
	if err := row.Scan(&rec.MemberID, &rec.Category, &rec.TotalPoints, &rec.LastUpdated); err != nil {
		return ProgressRecord{}, err
	}
	return rec, nil
}

func (s *Service) AllProgress(ctx context.Context, memberID string) ([]ProgressRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT member_id, category, total_points, last_updated
		FROM progress_records
		WHERE member_id=$1
		ORDER BY category
	`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ProgressRecord
	for rows.Next() {
		var rec ProgressRecord
		if err := rows.Scan(&rec.MemberID, &rec.Category, &rec.TotalPoints, &rec.LastUpdated); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// PointsForClassType returns a copy of one point-table row. Unknown class
// types return an empty map.
func (s *Service) PointsForClassType(classType string) map[string]int {
	pairs := s.pointTable[strings.ToUpper(classType)]
	out := make(map[string]int, len(pairs))
	for category, points := range pairs {
		out[category] = points
	}
	return out
}
