package db

import (
	"context"
	"fmt"
)

// DashboardRepository computes read-only aggregates for dashboards
type DashboardRepository struct {
	db *Database
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *Database) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// ProjectCounts returns total and active project counts for the tenant
func (r *DashboardRepository) ProjectCounts(ctx context.Context, companyID string) (total, active int, err error) {
	err = r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'active')
		FROM projects WHERE company_id = $1`, companyID).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return total, active, nil
}

// ReportCounts returns report counts by workflow status for the tenant
func (r *DashboardRepository) ReportCounts(ctx context.Context, companyID string) (total, draft, pending, approved, rejected int, err error) {
	err = r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'draft'),
		       COUNT(*) FILTER (WHERE status = 'submitted' AND compliance_status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'approved'),
		       COUNT(*) FILTER (WHERE status = 'rejected')
		FROM test_reports WHERE company_id = $1`, companyID).
		Scan(&total, &draft, &pending, &approved, &rejected)
	if err != nil {
		return 0, 0, 0, 0, 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return total, draft, pending, approved, rejected, nil
}

// PassRate returns the percentage of decided reports that passed.
// Undecided reports do not count toward the denominator.
func (r *DashboardRepository) PassRate(ctx context.Context, companyID string) (float64, error) {
	var passed, decided int
	err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE compliance_status = 'pass'),
		       COUNT(*) FILTER (WHERE compliance_status IN ('pass', 'fail'))
		FROM test_reports WHERE company_id = $1`, companyID).Scan(&passed, &decided)
	if err != nil {
		return 0, fmt.Errorf("failed to compute pass rate: %w", err)
	}
	if decided == 0 {
		return 0, nil
	}
	return float64(passed) * 100.0 / float64(decided), nil
}

// TeamMemberCount returns the number of active profiles in the tenant
func (r *DashboardRepository) TeamMemberCount(ctx context.Context, companyID string) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM profiles WHERE company_id = $1 AND is_active = true`,
		companyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count team members: %w", err)
	}
	return n, nil
}

// MonthlySummary aggregates per-project counts for the PDF export
type MonthlySummary struct {
	ProjectName string
	Total       int
	Approved    int
	Rejected    int
	Pending     int
}

// MonthlySummaries groups a month's report counts by project
func (r *DashboardRepository) MonthlySummaries(ctx context.Context, companyID string, year, month int) ([]MonthlySummary, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT p.name,
		       COUNT(tr.id),
		       COUNT(tr.id) FILTER (WHERE tr.status = 'approved'),
		       COUNT(tr.id) FILTER (WHERE tr.status = 'rejected'),
		       COUNT(tr.id) FILTER (WHERE tr.compliance_status = 'pending')
		FROM projects p
		LEFT JOIN test_reports tr ON tr.project_id = p.id
			AND EXTRACT(YEAR FROM tr.created_at) = $2
			AND EXTRACT(MONTH FROM tr.created_at) = $3
		WHERE p.company_id = $1
		GROUP BY p.name
		ORDER BY p.name`, companyID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly summaries: %w", err)
	}
	defer rows.Close()

	var summaries []MonthlySummary
	for rows.Next() {
		var s MonthlySummary
		if err := rows.Scan(&s.ProjectName, &s.Total, &s.Approved, &s.Rejected, &s.Pending); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
