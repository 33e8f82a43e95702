package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/attendance"
	"github.com/attendly/timepay-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const attendanceColumns = `
	r.id, r.employee_id, r.date, r.department, r.attendance_type,
	r.check_in_time, r.check_out_time, r.working_hours, r.overtime_hours,
	r.status, r.is_late, r.late_minutes,
	r.check_in_location, r.check_out_location,
	r.check_in_photo_url, r.check_out_photo_url, r.check_out_reason,
	r.auto_corrected, r.auto_correction_reason, r.original_check_out_time,
	r.admin_review_status, r.admin_reviewed_by, r.admin_reviewed_at, r.admin_review_notes,
	r.created_at, r.updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.RecordRepository {
	return &attendanceRepository{db: db}
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var record attendance.Record
	err := row.Scan(
		&record.ID, &record.EmployeeID, &record.Date, &record.Department, &record.AttendanceType,
		&record.CheckInTime, &record.CheckOutTime, &record.WorkingHours, &record.OvertimeHours,
		&record.Status, &record.IsLate, &record.LateMinutes,
		&record.CheckInLocation, &record.CheckOutLocation,
		&record.CheckInPhotoURL, &record.CheckOutPhotoURL, &record.CheckOutReason,
		&record.AutoCorrected, &record.AutoCorrectionReason, &record.OriginalCheckOutTime,
		&record.AdminReviewStatus, &record.AdminReviewedBy, &record.AdminReviewedAt, &record.AdminReviewNotes,
		&record.CreatedAt, &record.UpdatedAt,
	)
	return record, err
}

// Create implements attendance.RecordRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			employee_id, date, department, attendance_type,
			check_in_time, check_out_time, working_hours, overtime_hours,
			status, is_late, late_minutes,
			check_in_location, check_in_photo_url,
			admin_review_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID,
		record.Date,
		record.Department,
		record.AttendanceType,
		record.CheckInTime,
		record.CheckOutTime,
		record.WorkingHours,
		record.OvertimeHours,
		record.Status,
		record.IsLate,
		record.LateMinutes,
		record.CheckInLocation,
		record.CheckInPhotoURL,
		record.AdminReviewStatus,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		// The unique (employee_id, date) key is the final arbiter against
		// concurrent duplicate check-ins.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// GetByID implements attendance.RecordRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records r WHERE r.id = $1`

	record, err := scanRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	records := []attendance.Record{record}
	if err := a.attachSessions(ctx, records); err != nil {
		return attendance.Record{}, err
	}
	return records[0], nil
}

// GetByEmployeeAndDate implements attendance.RecordRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records r
		WHERE r.employee_id = $1 AND r.date = $2
		LIMIT 1
	`

	record, err := scanRecord(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record by employee and date: %w", err)
	}

	return &record, nil
}

const attendanceUpdateQuery = `
	UPDATE attendance_records SET
		check_in_time = $2,
		check_out_time = $3,
		working_hours = $4,
		overtime_hours = $5,
		status = $6,
		is_late = $7,
		late_minutes = $8,
		check_out_location = $9,
		check_out_photo_url = $10,
		check_out_reason = $11,
		auto_corrected = $12,
		auto_correction_reason = $13,
		original_check_out_time = $14,
		admin_review_status = $15,
		admin_reviewed_by = $16,
		admin_reviewed_at = $17,
		admin_review_notes = $18,
		updated_at = NOW()
	WHERE id = $1`

func recordUpdateArgs(record attendance.Record) []any {
	return []any{
		record.ID,
		record.CheckInTime,
		record.CheckOutTime,
		record.WorkingHours,
		record.OvertimeHours,
		record.Status,
		record.IsLate,
		record.LateMinutes,
		record.CheckOutLocation,
		record.CheckOutPhotoURL,
		record.CheckOutReason,
		record.AutoCorrected,
		record.AutoCorrectionReason,
		record.OriginalCheckOutTime,
		record.AdminReviewStatus,
		record.AdminReviewedBy,
		record.AdminReviewedAt,
		record.AdminReviewNotes,
	}
}

// Update implements attendance.RecordRepository.
func (a *attendanceRepository) Update(ctx context.Context, record attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, attendanceUpdateQuery, recordUpdateArgs(record)...)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// UpdateReviewed implements attendance.RecordRepository. The status guard in
// the WHERE clause makes the review write first-wins under concurrent
// reviewers.
func (a *attendanceRepository) UpdateReviewed(ctx context.Context, record attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	query := attendanceUpdateQuery + ` AND admin_review_status = 'pending'`
	tag, err := q.Exec(ctx, query, recordUpdateArgs(record)...)
	if err != nil {
		return fmt.Errorf("failed to update reviewed attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotPending
	}
	return nil
}

// List implements attendance.RecordRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "1 = 1"
	args := []any{}
	argIdx := 1

	if !filter.IncludePending && !filter.OnlyPending {
		baseWhere += " AND r.admin_review_status <> 'pending'"
	}
	if filter.OnlyPending {
		baseWhere += " AND r.admin_review_status = 'pending'"
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND r.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		baseWhere += fmt.Sprintf(" AND r.department = $%d", argIdx)
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.DateFrom != nil {
		baseWhere += fmt.Sprintf(" AND r.date >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		baseWhere += fmt.Sprintf(" AND r.date <= $%d", argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND r.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := `SELECT COUNT(*) FROM attendance_records r WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s, e.full_name
		FROM attendance_records r
		LEFT JOIN employees e ON e.id = r.employee_id
		WHERE %s
		ORDER BY r.date DESC, r.employee_id
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var record attendance.Record
		err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.Date, &record.Department, &record.AttendanceType,
			&record.CheckInTime, &record.CheckOutTime, &record.WorkingHours, &record.OvertimeHours,
			&record.Status, &record.IsLate, &record.LateMinutes,
			&record.CheckInLocation, &record.CheckOutLocation,
			&record.CheckInPhotoURL, &record.CheckOutPhotoURL, &record.CheckOutReason,
			&record.AutoCorrected, &record.AutoCorrectionReason, &record.OriginalCheckOutTime,
			&record.AdminReviewStatus, &record.AdminReviewedBy, &record.AdminReviewedAt, &record.AdminReviewNotes,
			&record.CreatedAt, &record.UpdatedAt,
			&record.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	if err := a.attachSessions(ctx, records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListRange implements attendance.RecordRepository. Pending-review records
// never appear here; this is the aggregation read path.
func (a *attendanceRepository) ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records r
		WHERE r.employee_id = $1
		  AND r.date >= $2
		  AND r.date <= $3
		  AND r.admin_review_status <> 'pending'
		ORDER BY r.date
	`

	records, err := a.queryRecords(ctx, q, query, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	if err := a.attachSessions(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListOpenOverdue implements attendance.RecordRepository.
func (a *attendanceRepository) ListOpenOverdue(ctx context.Context, since time.Time, limit int) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records r
		WHERE r.check_in_time IS NOT NULL
		  AND r.check_out_time IS NULL
		  AND r.date >= $1
		ORDER BY r.date
		LIMIT $2
	`

	return a.queryRecords(ctx, q, query, since, limit)
}

// ListPendingInPeriod implements attendance.RecordRepository.
func (a *attendanceRepository) ListPendingInPeriod(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records r
		WHERE r.admin_review_status = 'pending'
		  AND r.date >= $1
		  AND r.date <= $2
		ORDER BY r.date, r.employee_id
	`

	return a.queryRecords(ctx, q, query, from, to)
}

func (a *attendanceRepository) queryRecords(ctx context.Context, q database.Querier, query string, args ...any) ([]attendance.Record, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}
	return records, nil
}

// attachSessions loads the overtime sessions belonging to the records.
func (a *attendanceRepository) attachSessions(ctx context.Context, records []attendance.Record) error {
	if len(records) == 0 {
		return nil
	}
	q := GetQuerier(ctx, a.db)

	ids := make([]string, 0, len(records))
	index := make(map[string]int, len(records))
	for i, record := range records {
		ids = append(ids, record.ID)
		index[record.ID] = i
	}

	query := `
		SELECT ` + otSessionColumns + `
		FROM ot_sessions s
		WHERE s.attendance_record_id = ANY($1)
		ORDER BY s.session_number
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query overtime sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return fmt.Errorf("failed to scan overtime session: %w", err)
		}
		if i, ok := index[session.AttendanceRecordID]; ok {
			records[i].OTSessions = append(records[i].OTSessions, session)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate overtime sessions: %w", err)
	}
	return nil
}
