package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func expectUpsert(mock pgxmock.PgxPoolIface, memberID, category string, points int) {
	mock.ExpectExec(`INSERT INTO progress_records`).
		WithArgs(memberID, category, points, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
}

func TestAwardPointsForCategory(t *testing.T) {
	mock := newMock(t)

	// HIIT maps to four categories, applied in sorted order, 10 points each.
	for _, category := range []string{SkillCardio, SkillEndurance, SkillLegs, SkillStrength} {
		expectUpsert(mock, "member-1", category, 10)
	}

	svc := NewService(mock)
	awarded, err := svc.AwardPointsForCategory(context.Background(), "member-1", "hiit")
	if err != nil {
		t.Fatalf("award points: %v", err)
	}
	if !awarded {
		t.Fatalf("expected award")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAwardPointsUnknownClassType(t *testing.T) {
	mock := newMock(t)

	svc := NewService(mock)
	awarded, err := svc.AwardPointsForCategory(context.Background(), "member-1", "PILATES")
	if !errors.Is(err, ErrUnknownActivityCategory) {
		t.Fatalf("expected ErrUnknownActivityCategory, got %v", err)
	}
	if awarded {
		t.Fatalf("expected no award")
	}
}

func TestAwardPointsPartialFailure(t *testing.T) {
	mock := newMock(t)

	// The ENDURANCE upsert fails; LEGS and STRENGTH are still applied.
	expectUpsert(mock, "member-1", SkillCardio, 10)
	mock.ExpectExec(`INSERT INTO progress_records`).
		WithArgs("member-1", SkillEndurance, 10, pgxmock.AnyArg()).
		WillReturnError(errProgress)
	expectUpsert(mock, "member-1", SkillLegs, 10)
	expectUpsert(mock, "member-1", SkillStrength, 10)

	svc := NewService(mock)
	awarded, err := svc.AwardPointsForCategory(context.Background(), "member-1", "HIIT")
	if err == nil {
		t.Fatalf("expected error from failed upsert")
	}
	if !awarded {
		t.Fatalf("attendance award must stand despite the failed pair")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitializeProgress(t *testing.T) {
	mock := newMock(t)

	for _, category := range SkillCategories {
		mock.ExpectExec(`INSERT INTO progress_records`).
			WithArgs("member-1", category, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	svc := NewService(mock)
	if err := svc.InitializeProgress(context.Background(), "member-1"); err != nil {
		t.Fatalf("initialize progress: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitializeProgressKeepsExisting(t *testing.T) {
	mock := newMock(t)

	// ON CONFLICT DO NOTHING: a zero-row result is still a success.
	for _, category := range SkillCategories {
		mock.ExpectExec(`INSERT INTO progress_records`).
			WithArgs("member-1", category, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))
	}

	svc := NewService(mock)
	if err := svc.InitializeProgress(context.Background(), "member-1"); err != nil {
		t.Fatalf("reinitialize progress: %v", err)
	}
}

func TestProgressByCategory(t *testing.T) {
	mock := newMock(t)

	updated := time.Now()
	mock.ExpectQuery(`SELECT member_id, category, total_points, last_updated`).
		WithArgs("member-1", SkillCardio).
		WillReturnRows(pgxmock.NewRows([]string{"member_id", "category", "total_points", "last_updated"}).
			AddRow("member-1", SkillCardio, 250, updated))

	svc := NewService(mock)
	rec, err := svc.ProgressByCategory(context.Background(), "member-1", "cardio")
	if err != nil {
		t.Fatalf("progress by category: %v", err)
	}
	if rec.TotalPoints != 250 {
		t.Fatalf("expected 250 points, got %d", rec.TotalPoints)
	}
	if rec.Level() != 2 || rec.XPInLevel() != 50 {
		t.Fatalf("expected level 2 with 50 XP, got %d/%d", rec.Level(), rec.XPInLevel())
	}
}

func TestAllProgress(t *testing.T) {
	mock := newMock(t)

	updated := time.Now()
	mock.ExpectQuery(`SELECT member_id, category, total_points, last_updated`).
		WithArgs("member-1").
		WillReturnRows(pgxmock.NewRows([]string{"member_id", "category", "total_points", "last_updated"}).
			AddRow("member-1", SkillArms, 0, updated).
			AddRow("member-1", SkillCardio, 100, updated))

	svc := NewService(mock)
	records, err := svc.AllProgress(context.Background(), "member-1")
	if err != nil {
		t.Fatalf("all progress: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].Level() != 1 {
		t.Fatalf("expected level 1 at 100 points")
	}
}

func TestLevelDerivation(t *testing.T) {
	cases := []struct {
		points    int
		level     int
		xpInLevel int
	}{
		{0, 0, 0},
		{99, 0, 99},
		{100, 1, 0},
		{250, 2, 50},
	}
	for _, c := range cases {
		rec := ProgressRecord{TotalPoints: c.points}
		if rec.Level() != c.level || rec.XPInLevel() != c.xpInLevel {
			t.Fatalf("%d points: expected %d/%d, got %d/%d",
				c.points, c.level, c.xpInLevel, rec.Level(), rec.XPInLevel())
		}
	}
}

func TestPointsForClassTypeCopy(t *testing.T) {
	svc := NewService(nil)

	pairs := svc.PointsForClassType("yoga")
	if len(pairs) != 3 || pairs[SkillFlexibility] != 10 {
		t.Fatalf("unexpected YOGA pairs: %v", pairs)
	}

	pairs[SkillFlexibility] = 999
	if svc.PointsForClassType("YOGA")[SkillFlexibility] != 10 {
		t.Fatalf("point table must not be mutable through the copy")
	}

	if len(svc.PointsForClassType("PILATES")) != 0 {
		t.Fatalf("unknown class type must return an empty map")
	}
}

var errProgress = errors.New("progress error")
