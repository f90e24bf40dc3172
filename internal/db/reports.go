package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sameera474/buildvault-backend/internal/models"
)

// ReportRepository handles test report database operations
type ReportRepository struct {
	db *Database
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *Database) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, company_id, project_id, road_id, layer_id, template_id,
	report_number, test_type, technician_name, technician_id, status, compliance_status,
	test_date, chainage, test_data, notes, approved_by, approved_at, approval_note,
	created_by, created_at, updated_at`

func scanReport(row pgx.Row) (*models.TestReport, error) {
	var rep models.TestReport
	err := row.Scan(&rep.ID, &rep.CompanyID, &rep.ProjectID, &rep.RoadID, &rep.LayerID,
		&rep.TemplateID, &rep.ReportNumber, &rep.TestType, &rep.TechnicianName,
		&rep.TechnicianID, &rep.Status, &rep.ComplianceStatus, &rep.TestDate,
		&rep.Chainage, &rep.TestData, &rep.Notes, &rep.ApprovedBy, &rep.ApprovedAt,
		&rep.ApprovalNote, &rep.CreatedBy, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}
	return &rep, nil
}

// List returns a page of reports within the tenant, with filters
func (r *ReportRepository) List(ctx context.Context, companyID string, params models.ReportSearchParams) (*models.ReportListResponse, error) {
	whereConditions := []string{"company_id = $1"}
	args := []interface{}{companyID}
	argIndex := 2

	if params.ProjectID != "" {
		whereConditions = append(whereConditions, fmt.Sprintf("project_id = $%d", argIndex))
		args = append(args, params.ProjectID)
		argIndex++
	}
	if params.Status != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, string(*params.Status))
		argIndex++
	}
	if params.Compliance != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("compliance_status = $%d", argIndex))
		args = append(args, string(*params.Compliance))
		argIndex++
	}
	if params.Search != "" {
		whereConditions = append(whereConditions, fmt.Sprintf(
			"(LOWER(report_number) LIKE LOWER($%d) OR LOWER(technician_name) LIKE LOWER($%d) OR LOWER(test_type) LIKE LOWER($%d))",
			argIndex, argIndex, argIndex))
		args = append(args, "%"+params.Search+"%")
		argIndex++
	}

	whereSQL := " WHERE " + strings.Join(whereConditions, " AND ")

	var total int
	if err := r.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM test_reports"+whereSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	query := `SELECT ` + reportColumns + ` FROM test_reports` + whereSQL +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, params.Limit, (params.Page-1)*params.Limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []models.TestReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.ReportListResponse{
		Reports: reports,
		Total:   total,
		Page:    params.Page,
		Limit:   params.Limit,
	}, nil
}

// PendingApproval lists submitted reports still awaiting a decision.
// The filter is strictly compliance_status = 'pending', so approved
// and rejected reports drop out the moment the decision lands.
func (r *ReportRepository) PendingApproval(ctx context.Context, companyID string) ([]models.TestReport, error) {
	query := `SELECT ` + reportColumns + ` FROM test_reports
		WHERE company_id = $1 AND status = $2 AND compliance_status = $3
		ORDER BY created_at`
	rows, err := r.db.Pool.Query(ctx, query, companyID, models.ReportSubmitted, models.CompliancePending)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending reports: %w", err)
	}
	defer rows.Close()

	var reports []models.TestReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rep)
	}
	return reports, rows.Err()
}

// GetByID retrieves a report scoped to a company
func (r *ReportRepository) GetByID(ctx context.Context, companyID, id string) (*models.TestReport, error) {
	query := `SELECT ` + reportColumns + ` FROM test_reports WHERE id = $1 AND company_id = $2`
	return scanReport(r.db.Pool.QueryRow(ctx, query, id, companyID))
}

// Create inserts a new draft report. companyID and createdBy come from
// the caller's resolved profile.
func (r *ReportRepository) Create(ctx context.Context, companyID, createdBy string, req models.ReportCreateRequest) (*models.TestReport, error) {
	query := `
		INSERT INTO test_reports (id, company_id, project_id, road_id, layer_id, template_id,
			report_number, test_type, technician_name, technician_id, status, compliance_status,
			test_date, chainage, test_data, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
		RETURNING ` + reportColumns
	row := r.db.Pool.QueryRow(ctx, query, uuid.NewString(), companyID, req.ProjectID,
		req.RoadID, req.LayerID, req.TemplateID, req.ReportNumber, req.TestType,
		req.TechnicianName, createdBy, models.ReportDraft, models.CompliancePending,
		req.TestDate, req.Chainage, req.TestData, req.Notes, createdBy)
	rep, err := scanReport(row)
	if err != nil {
		if isUniqueViolation(err) {
			// report_number unique per tenant
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rep, nil
}

// Update applies a partial update to report content. Workflow fields
// are out of reach here; see Transition.
func (r *ReportRepository) Update(ctx context.Context, companyID, id string, req models.ReportUpdateRequest) error {
	var sets []string
	var args []interface{}
	argIndex := 1

	if req.RoadID != nil {
		sets = append(sets, fmt.Sprintf("road_id = $%d", argIndex))
		args = append(args, *req.RoadID)
		argIndex++
	}
	if req.LayerID != nil {
		sets = append(sets, fmt.Sprintf("layer_id = $%d", argIndex))
		args = append(args, *req.LayerID)
		argIndex++
	}
	if req.TestType != nil {
		sets = append(sets, fmt.Sprintf("test_type = $%d", argIndex))
		args = append(args, *req.TestType)
		argIndex++
	}
	if req.TechnicianName != nil {
		sets = append(sets, fmt.Sprintf("technician_name = $%d", argIndex))
		args = append(args, *req.TechnicianName)
		argIndex++
	}
	if req.TestDate != nil {
		sets = append(sets, fmt.Sprintf("test_date = $%d", argIndex))
		args = append(args, *req.TestDate)
		argIndex++
	}
	if req.Chainage != nil {
		sets = append(sets, fmt.Sprintf("chainage = $%d", argIndex))
		args = append(args, *req.Chainage)
		argIndex++
	}
	if req.TestData != nil {
		sets = append(sets, fmt.Sprintf("test_data = $%d", argIndex))
		args = append(args, req.TestData)
		argIndex++
	}
	if req.Notes != nil {
		sets = append(sets, fmt.Sprintf("notes = $%d", argIndex))
		args = append(args, *req.Notes)
		argIndex++
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE test_reports SET %s WHERE id = $%d AND company_id = $%d",
		strings.Join(sets, ", "), argIndex, argIndex+1)
	args = append(args, id, companyID)

	tag, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Transition performs a conditional workflow update: the row moves to
// next only if it is still in expected status. Zero rows affected with
// the row present means another caller won the race; the caller gets
// ErrStaleState instead of silently overwriting the first decision.
func (r *ReportRepository) Transition(ctx context.Context, companyID, id string,
	expected, next models.ReportStatus, compliance models.ComplianceStatus,
	approverID *string, approvedAt *time.Time, note *string) (*models.TestReport, error) {

	query := `
		UPDATE test_reports
		SET status = $1,
		    compliance_status = $2,
		    approved_by = $3,
		    approved_at = $4,
		    approval_note = $5,
		    updated_at = NOW()
		WHERE id = $6 AND company_id = $7 AND status = $8
		RETURNING ` + reportColumns
	row := r.db.Pool.QueryRow(ctx, query, next, compliance, approverID, approvedAt, note,
		id, companyID, expected)
	rep, err := scanReport(row)
	if err == nil {
		return rep, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// Distinguish "no such report" from "status changed underneath us"
	var exists bool
	if checkErr := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM test_reports WHERE id = $1 AND company_id = $2)`,
		id, companyID).Scan(&exists); checkErr != nil {
		return nil, fmt.Errorf("failed to check report existence: %w", checkErr)
	}
	if exists {
		return nil, ErrStaleState
	}
	return nil, ErrNotFound
}

// Delete removes a report within the tenant. Approved reports are
// retained for the audit trail and cannot be deleted here.
func (r *ReportRepository) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM test_reports WHERE id = $1 AND company_id = $2 AND status != $3`,
		id, companyID, models.ReportApproved)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByTechnician returns how many reports a user has authored
func (r *ReportRepository) CountByTechnician(ctx context.Context, companyID, userID string) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM test_reports WHERE company_id = $1 AND created_by = $2`,
		companyID, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return n, nil
}
