package attendance

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/audit"
	"github.com/presensia/attendance-backend-go/internal/domain/salaryconfig"
	"github.com/presensia/attendance-backend-go/internal/domain/user"
	"github.com/presensia/attendance-backend-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID  = "11111111-1111-1111-1111-111111111111"
	testEmployeeID = "22222222-2222-2222-2222-222222222222"
	testManagerID  = "33333333-3333-3333-3333-333333333333"
)

// fakeAttendanceRepo appends audit entries into the same store the audit
// repo reads, mirroring the shared audit table.
type fakeAttendanceRepo struct {
	records map[string]*attendance.Record
	byDay   map[string]string
	audits  *fakeAuditRepo
	nextID  int
}

func newFakeAttendanceRepo(audits *fakeAuditRepo) *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		records: map[string]*attendance.Record{},
		byDay:   map[string]string{},
		audits:  audits,
	}
}

func (f *fakeAttendanceRepo) dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) CreateOpen(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	key := f.dayKey(rec.EmployeeID, rec.Date)
	if _, exists := f.byDay[key]; exists {
		return attendance.Record{}, attendance.ErrAlreadyPunchedIn
	}
	f.nextID++
	rec.ID = fmt.Sprintf("att-%d", f.nextID)
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	f.records[rec.ID] = &rec
	f.byDay[key] = rec.ID
	return rec, nil
}

func (f *fakeAttendanceRepo) Close(_ context.Context, employeeID, companyID string, cp attendance.ClosePunch) (attendance.Record, error) {
	rec, ok := f.records[cp.AttendanceID]
	if !ok || rec.EmployeeID != employeeID || rec.CompanyID != companyID || rec.PunchOut != nil {
		return attendance.Record{}, attendance.ErrNoOpenPunch
	}
	out := cp.PunchOut
	rec.PunchOut = &out
	rec.PunchOutImageRef = &cp.ImageRef
	wh, oh := cp.WorkingHours, cp.OvertimeHours
	rec.WorkingHours = &wh
	rec.OvertimeHours = &oh
	return *rec, nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string, companyID string) (attendance.Record, error) {
	rec, ok := f.records[id]
	if !ok || rec.CompanyID != companyID {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return *rec, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time, companyID string) (*attendance.Record, error) {
	id, ok := f.byDay[f.dayKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	rec := *f.records[id]
	return &rec, nil
}

func (f *fakeAttendanceRepo) List(_ context.Context, _ attendance.ListFilter, companyID string) ([]attendance.Record, int64, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.CompanyID == companyID {
			out = append(out, *rec)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) ListForEmployee(_ context.Context, employeeID string, _ attendance.ListFilter, companyID string) ([]attendance.Record, int64, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.CompanyID == companyID && rec.EmployeeID == employeeID {
			out = append(out, *rec)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) ListForRange(_ context.Context, employeeID *string, from, to time.Time, companyID string) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.CompanyID != companyID || rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		if employeeID != nil && rec.EmployeeID != *employeeID {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeAttendanceRepo) Transition(_ context.Context, t attendance.StatusTransition) (attendance.Record, error) {
	rec, ok := f.records[t.AttendanceID]
	if !ok || rec.CompanyID != t.CompanyID {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	if rec.Status == t.To {
		return *rec, nil
	}
	if t.To == attendance.StatusApproved && rec.PunchOut == nil {
		return attendance.Record{}, attendance.ErrCannotApproveWithoutPunchOut
	}
	entry := t.Audit
	entry.FromStatus = string(rec.Status)
	entry.ToStatus = string(t.To)
	f.audits.entries = append(f.audits.entries, entry)

	rec.Status = t.To
	rec.ApprovalReason = t.Reason
	rec.ApprovedBy = &t.ActorID
	now := time.Now()
	rec.ApprovedAt = &now
	return *rec, nil
}

func (f *fakeAttendanceRepo) ApplyOverride(_ context.Context, o attendance.Override) (attendance.Record, error) {
	rec, ok := f.records[o.AttendanceID]
	if !ok || rec.CompanyID != o.CompanyID {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	if o.WorkingHours != nil {
		rec.WorkingHours = o.WorkingHours
	}
	if o.OvertimeHours != nil {
		rec.OvertimeHours = o.OvertimeHours
	}
	if o.ShiftDurationHours != nil {
		rec.ShiftDurationHours = *o.ShiftDurationHours
	}
	if o.LateMinutes != nil {
		rec.LateMinutes = *o.LateMinutes
	}
	entry := o.Audit
	entry.FromStatus = string(rec.Status)
	entry.ToStatus = string(rec.Status)
	f.audits.entries = append(f.audits.entries, entry)
	return *rec, nil
}

func (f *fakeAttendanceRepo) UpsertDayStatus(_ context.Context, rec attendance.Record, entry *audit.Entry) (bool, error) {
	appendAudit := func(id, fromStatus string) {
		if entry == nil {
			return
		}
		e := *entry
		e.AttendanceID = id
		e.FromStatus = fromStatus
		e.ToStatus = string(rec.Status)
		f.audits.entries = append(f.audits.entries, e)
	}

	key := f.dayKey(rec.EmployeeID, rec.Date)
	if id, ok := f.byDay[key]; ok {
		existing := f.records[id]
		if rec.Status == attendance.StatusAbsent || existing.Status != attendance.StatusPending {
			return false, nil
		}
		prior := existing.Status
		existing.Status = rec.Status
		existing.ApprovalReason = rec.ApprovalReason
		existing.ApprovedBy = rec.ApprovedBy
		appendAudit(id, string(prior))
		return true, nil
	}
	f.nextID++
	rec.ID = fmt.Sprintf("att-%d", f.nextID)
	f.records[rec.ID] = &rec
	f.byDay[key] = rec.ID
	appendAudit(rec.ID, "")
	return true, nil
}

type fakeSalaryConfigRepo struct {
	configs map[string]salaryconfig.SalaryConfig
}

func (f *fakeSalaryConfigRepo) GetActiveForDate(_ context.Context, employeeID string, _ time.Time, _ string) (salaryconfig.SalaryConfig, error) {
	cfg, ok := f.configs[employeeID]
	if !ok {
		return salaryconfig.SalaryConfig{}, salaryconfig.ErrSalaryNotConfigured
	}
	return cfg, nil
}

func (f *fakeSalaryConfigRepo) ListForRange(_ context.Context, employeeID string, _, _ time.Time, _ string) ([]salaryconfig.SalaryConfig, error) {
	if cfg, ok := f.configs[employeeID]; ok {
		return []salaryconfig.SalaryConfig{cfg}, nil
	}
	return nil, nil
}

func (f *fakeSalaryConfigRepo) Upsert(_ context.Context, cfg salaryconfig.SalaryConfig) (salaryconfig.SalaryConfig, error) {
	f.configs[cfg.EmployeeID] = cfg
	return cfg, nil
}

func (f *fakeSalaryConfigRepo) ListEmployees(_ context.Context, _ string) ([]salaryconfig.EmployeeRef, error) {
	var out []salaryconfig.EmployeeRef
	for id := range f.configs {
		out = append(out, salaryconfig.EmployeeRef{EmployeeID: id})
	}
	return out, nil
}

func (f *fakeSalaryConfigRepo) ListCompanies(_ context.Context) ([]string, error) {
	return []string{testCompanyID}, nil
}

type fakeAuditRepo struct {
	entries []audit.Entry
}

func (f *fakeAuditRepo) Append(_ context.Context, entry audit.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) ListByAttendance(_ context.Context, attendanceID string, _ string) ([]audit.Entry, error) {
	var out []audit.Entry
	for _, e := range f.entries {
		if e.AttendanceID == attendanceID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memFile struct{ *bytes.Reader }

func (memFile) Close() error { return nil }

// stubStorage stores nothing; it echoes the path back as the image ref
// and records the paths uploaded and deleted.
type stubStorage struct {
	uploaded []string
	deleted  []string
}

func (s *stubStorage) Upload(_ context.Context, _ io.Reader, path string, _ string) (string, error) {
	s.uploaded = append(s.uploaded, path)
	return path, nil
}

func (s *stubStorage) Delete(_ context.Context, path string) error {
	s.deleted = append(s.deleted, path)
	return nil
}

func (s *stubStorage) GetURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return path, nil
}

func (s *stubStorage) Exists(_ context.Context, _ string) (bool, error) { return false, nil }

func testJWT() jwt.Service {
	return jwt.NewJWTService("test-secret", "1h", "2m")
}

func authedCtx(t *testing.T, svc jwt.Service, employeeID string, role user.Role) context.Context {
	t.Helper()
	claimsMap := map[string]interface{}{
		"user_id":    testManagerID,
		"company_id": testCompanyID,
		"role":       string(role),
		"type":       "access",
		"exp":        time.Now().Add(time.Hour).Unix(),
	}
	if employeeID != "" {
		claimsMap["employee_id"] = employeeID
	}
	token, _, err := svc.JWTAuth().Encode(claimsMap)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func testConfig() salaryconfig.SalaryConfig {
	return salaryconfig.SalaryConfig{
		EmployeeID:         testEmployeeID,
		CompanyID:          testCompanyID,
		SalaryType:         salaryconfig.SalaryTypeMonthly,
		BaseSalary:         decimal.NewFromInt(26000),
		WorkingDaysTarget:  26,
		ShiftStart:         "09:00",
		ShiftDurationHours: decimal.NewFromInt(8),
		UnpaidBreakMinutes: 60,
		Timezone:           "UTC",
	}
}

type harness struct {
	svc      attendance.Service
	repo     *fakeAttendanceRepo
	audits   *fakeAuditRepo
	jwt      jwt.Service
	salaries *fakeSalaryConfigRepo
	storage  *stubStorage
}

func newHarness() *harness {
	audits := &fakeAuditRepo{}
	repo := newFakeAttendanceRepo(audits)
	salaries := &fakeSalaryConfigRepo{configs: map[string]salaryconfig.SalaryConfig{
		testEmployeeID: testConfig(),
	}}
	jwtSvc := testJWT()
	store := &stubStorage{}
	return &harness{
		svc:      NewAttendanceService(repo, salaries, audits, jwtSvc, store),
		repo:     repo,
		audits:   audits,
		jwt:      jwtSvc,
		salaries: salaries,
		storage:  store,
	}
}

func punchFile(t *testing.T) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	header := &multipart.FileHeader{
		Filename: "evidence.jpg",
		Header:   textproto.MIMEHeader{"Content-Type": []string{"image/jpeg"}},
	}
	return memFile{bytes.NewReader([]byte("jpeg-bytes"))}, header
}

func (h *harness) seedRecord(t *testing.T, status attendance.Status, withPunchOut bool) attendance.Record {
	t.Helper()
	day := time.Now().UTC().Truncate(24 * time.Hour)
	punchIn := day.Add(9 * time.Hour)
	rec, err := h.repo.CreateOpen(context.Background(), attendance.Record{
		EmployeeID:         testEmployeeID,
		CompanyID:          testCompanyID,
		Date:               day,
		PunchIn:            &punchIn,
		Status:             attendance.StatusPending,
		ShiftDurationHours: decimal.NewFromInt(8),
	})
	require.NoError(t, err)
	if withPunchOut {
		rec, err = h.repo.Close(context.Background(), testEmployeeID, testCompanyID, attendance.ClosePunch{
			AttendanceID:  rec.ID,
			PunchOut:      punchIn.Add(9 * time.Hour),
			WorkingHours:  decimal.NewFromInt(8),
			OvertimeHours: decimal.Zero,
		})
		require.NoError(t, err)
	}
	if status != attendance.StatusPending {
		h.repo.records[rec.ID].Status = status
		rec = *h.repo.records[rec.ID]
	}
	return rec
}

func TestValidatePunchIn(t *testing.T) {
	h := newHarness()
	ctx := authedCtx(t, h.jwt, testEmployeeID, user.RoleEmployee)

	resp, err := h.svc.ValidatePunch(ctx, attendance.ValidatePunchRequest{Direction: "in"})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.NotEmpty(t, resp.Token)
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())
	assert.Nil(t, resp.AttendanceID)

	// Nothing was written.
	assert.Empty(t, h.repo.records)
}

func TestValidatePunchInAlreadyPunched(t *testing.T) {
	h := newHarness()
	h.seedRecord(t, attendance.StatusPending, false)
	ctx := authedCtx(t, h.jwt, testEmployeeID, user.RoleEmployee)

	_, err := h.svc.ValidatePunch(ctx, attendance.ValidatePunchRequest{Direction: "in"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedIn)
}

func TestValidatePunchOutWithoutOpenPunch(t *testing.T) {
	h := newHarness()
	ctx := authedCtx(t, h.jwt, testEmployeeID, user.RoleEmployee)

	_, err := h.svc.ValidatePunch(ctx, attendance.ValidatePunchRequest{Direction: "out"})
	assert.ErrorIs(t, err, attendance.ErrNoOpenPunch)
}

func TestValidatePunchNoSalaryConfig(t *testing.T) {
	h := newHarness()
	delete(h.salaries.configs, testEmployeeID)
	ctx := authedCtx(t, h.jwt, testEmployeeID, user.RoleEmployee)

	_, err := h.svc.ValidatePunch(ctx, attendance.ValidatePunchRequest{Direction: "in"})
	assert.ErrorIs(t, err, salaryconfig.ErrSalaryNotConfigured)
}

func TestCommitPunchInCreatesPendingRecord(t *testing.T) {
	h := newHarness()
	ctx := authedCtx(t, h.jwt, testEmployeeID, user.RoleEmployee)

	validation, err := h.svc.ValidatePunch(ctx, attendance.ValidatePunchRequest{Direction: "in"})
	require.NoError(t, err)

	file, header := punchFile(t)
	rec, err := h.svc.CommitPunch(ctx, attendance.CommitPunchRequest{
		Direction:  "in",
		Token:      validation.Token,
		File:       file,
		FileHeader: header,
	})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusPending), rec.Status)
	assert.NotNil(t, rec.PunchIn)
	assert.Nil(t, rec.PunchOut)
	require.NotNil(t, rec.PunchInImageRef)
	assert.True(t, strings.HasPrefix(*rec.PunchInImageRef, "punches/"+testCompanyID))
}

func TestCommitPunchRejectsForeignToken(t *testing.T) {
	h := newHarness()
	ctx := authedCtx(t, h.jwt, testEmployeeID, user.RoleEmployee)

	// Token minted for the opposite direction must not commit a punch-in.
	validation, err := h.svc.ValidatePunch(ctx, attendance.ValidatePunchRequest{Direction: "in"})
	require.NoError(t, err)

	file, header := punchFile(t)
	_, err = h.svc.CommitPunch(ctx, attendance.CommitPunchRequest{
		Direction:  "out",
		Token:      validation.Token,
		File:       file,
		FileHeader: header,
	})
	assert.ErrorIs(t, err, attendance.ErrInvalidPunchToken)
}

func TestCommitPunchInTwiceLosesRace(t *testing.T) {
	h := newHarness()
	ctx := authedCtx(t, h.jwt, testEmployeeID, user.RoleEmployee)

	validation, err := h.svc.ValidatePunch(ctx, attendance.ValidatePunchRequest{Direction: "in"})
	require.NoError(t, err)

	file, header := punchFile(t)
	_, err = h.svc.CommitPunch(ctx, attendance.CommitPunchRequest{
		Direction: "in", Token: validation.Token, File: file, FileHeader: header,
	})
	require.NoError(t, err)

	// A second commit with the still-valid token hits the conditional
	// insert and loses.
	file2, header2 := punchFile(t)
	_, err = h.svc.CommitPunch(ctx, attendance.CommitPunchRequest{
		Direction: "in", Token: validation.Token, File: file2, FileHeader: header2,
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedIn)

	// The loser's evidence image was cleaned up.
	require.Len(t, h.storage.uploaded, 2)
	require.Len(t, h.storage.deleted, 1)
	assert.Equal(t, h.storage.uploaded[1], h.storage.deleted[0])
}

func TestCommitPunchOutWithoutOpenUploadsNothing(t *testing.T) {
	h := newHarness()
	ctx := authedCtx(t, h.jwt, testEmployeeID, user.RoleEmployee)

	day := time.Now().UTC()
	token, _, err := h.jwt.MintPunchToken(testEmployeeID, testCompanyID, "out",
		time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).Format("2006-01-02"))
	require.NoError(t, err)

	file, header := punchFile(t)
	_, err = h.svc.CommitPunch(ctx, attendance.CommitPunchRequest{
		Direction: "out", Token: token, File: file, FileHeader: header,
	})
	assert.ErrorIs(t, err, attendance.ErrNoOpenPunch)

	// The open-record check runs before the upload.
	assert.Empty(t, h.storage.uploaded)
}

func TestCommitPunchExpiredToken(t *testing.T) {
	h := newHarness()
	ctx := authedCtx(t, h.jwt, testEmployeeID, user.RoleEmployee)

	// Same signing key, TTL already elapsed.
	staleJWT := jwt.NewJWTService("test-secret", "1h", "-5m")
	day := time.Now().UTC()
	token, _, err := staleJWT.MintPunchToken(testEmployeeID, testCompanyID, "in",
		time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).Format("2006-01-02"))
	require.NoError(t, err)

	file, header := punchFile(t)
	_, err = h.svc.CommitPunch(ctx, attendance.CommitPunchRequest{
		Direction: "in", Token: token, File: file, FileHeader: header,
	})
	assert.ErrorIs(t, err, attendance.ErrInvalidPunchToken)
	assert.Empty(t, h.repo.records)
}

func TestCommitPunchOutDerivesMetrics(t *testing.T) {
	h := newHarness()
	h.seedRecord(t, attendance.StatusPending, false)
	ctx := authedCtx(t, h.jwt, testEmployeeID, user.RoleEmployee)

	validation, err := h.svc.ValidatePunch(ctx, attendance.ValidatePunchRequest{Direction: "out"})
	require.NoError(t, err)
	require.NotNil(t, validation.AttendanceID)

	file, header := punchFile(t)
	rec, err := h.svc.CommitPunch(ctx, attendance.CommitPunchRequest{
		Direction: "out", Token: validation.Token, File: file, FileHeader: header,
	})
	require.NoError(t, err)

	assert.NotNil(t, rec.PunchOut)
	require.NotNil(t, rec.WorkingHours)
	assert.False(t, rec.WorkingHours.IsNegative())
}

func TestSetApprovalApprove(t *testing.T) {
	h := newHarness()
	rec := h.seedRecord(t, attendance.StatusPending, true)
	ctx := authedCtx(t, h.jwt, "", user.RoleManager)

	resp, err := h.svc.SetApproval(ctx, attendance.SetApprovalRequest{ID: rec.ID, Decision: "APPROVE"})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusApproved), resp.Status)
	require.Len(t, h.audits.entries, 1)
	assert.Equal(t, "APPROVE", h.audits.entries[0].Action)
	assert.Equal(t, string(attendance.StatusPending), h.audits.entries[0].FromStatus)
}

func TestSetApprovalIdempotent(t *testing.T) {
	h := newHarness()
	rec := h.seedRecord(t, attendance.StatusPending, true)
	ctx := authedCtx(t, h.jwt, "", user.RoleManager)

	_, err := h.svc.SetApproval(ctx, attendance.SetApprovalRequest{ID: rec.ID, Decision: "APPROVE"})
	require.NoError(t, err)

	resp, err := h.svc.SetApproval(ctx, attendance.SetApprovalRequest{ID: rec.ID, Decision: "APPROVE"})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusApproved), resp.Status)

	// The repeat did not add a second audit entry.
	assert.Len(t, h.audits.entries, 1)
}

func TestSetApprovalWithoutPunchOut(t *testing.T) {
	h := newHarness()
	rec := h.seedRecord(t, attendance.StatusPending, false)
	ctx := authedCtx(t, h.jwt, "", user.RoleManager)

	_, err := h.svc.SetApproval(ctx, attendance.SetApprovalRequest{ID: rec.ID, Decision: "APPROVE"})
	assert.ErrorIs(t, err, attendance.ErrCannotApproveWithoutPunchOut)
}

func TestSetApprovalRevokeApproved(t *testing.T) {
	h := newHarness()
	rec := h.seedRecord(t, attendance.StatusApproved, true)
	ctx := authedCtx(t, h.jwt, "", user.RoleManager)

	resp, err := h.svc.SetApproval(ctx, attendance.SetApprovalRequest{
		ID: rec.ID, Decision: "REJECT", Reason: "evidence photo mismatch",
	})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusRejected), resp.Status)
}

func TestSetApprovalRejectedIsTerminal(t *testing.T) {
	h := newHarness()
	rec := h.seedRecord(t, attendance.StatusRejected, true)
	ctx := authedCtx(t, h.jwt, "", user.RoleManager)

	_, err := h.svc.SetApproval(ctx, attendance.SetApprovalRequest{ID: rec.ID, Decision: "APPROVE"})
	assert.ErrorIs(t, err, attendance.ErrInvalidTransition)
}

func TestSetApprovalRequiresManager(t *testing.T) {
	h := newHarness()
	rec := h.seedRecord(t, attendance.StatusPending, true)
	ctx := authedCtx(t, h.jwt, testEmployeeID, user.RoleEmployee)

	_, err := h.svc.SetApproval(ctx, attendance.SetApprovalRequest{ID: rec.ID, Decision: "APPROVE"})
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)
}

func TestMarkLeaveFreshDay(t *testing.T) {
	h := newHarness()
	ctx := authedCtx(t, h.jwt, "", user.RoleManager)

	resp, err := h.svc.MarkLeave(ctx, attendance.MarkLeaveRequest{
		EmployeeID: testEmployeeID,
		Date:       "2026-08-10",
		Reason:     "annual leave",
	})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusLeave), resp.Status)
	require.Len(t, h.audits.entries, 1)
	assert.Equal(t, "LEAVE", h.audits.entries[0].Action)
	// No record existed for the day yet.
	assert.Equal(t, "", h.audits.entries[0].FromStatus)
	assert.Equal(t, string(attendance.StatusLeave), h.audits.entries[0].ToStatus)
}

func TestMarkLeaveRecordsPriorStatus(t *testing.T) {
	h := newHarness()
	rec := h.seedRecord(t, attendance.StatusPending, false)
	ctx := authedCtx(t, h.jwt, "", user.RoleManager)

	_, err := h.svc.MarkLeave(ctx, attendance.MarkLeaveRequest{
		EmployeeID: testEmployeeID,
		Date:       rec.Date.Format("2006-01-02"),
		Reason:     "sick leave",
	})
	require.NoError(t, err)

	require.Len(t, h.audits.entries, 1)
	assert.Equal(t, string(attendance.StatusPending), h.audits.entries[0].FromStatus)
	assert.Equal(t, string(attendance.StatusLeave), h.audits.entries[0].ToStatus)
	assert.Equal(t, rec.ID, h.audits.entries[0].AttendanceID)
}

func TestMarkLeaveBlockedByDecidedRecord(t *testing.T) {
	h := newHarness()
	rec := h.seedRecord(t, attendance.StatusApproved, true)
	ctx := authedCtx(t, h.jwt, "", user.RoleManager)

	_, err := h.svc.MarkLeave(ctx, attendance.MarkLeaveRequest{
		EmployeeID: testEmployeeID,
		Date:       rec.Date.Format("2006-01-02"),
		Reason:     "annual leave",
	})
	assert.ErrorIs(t, err, attendance.ErrInvalidTransition)
}

func TestOverrideFieldsRequiresAdmin(t *testing.T) {
	h := newHarness()
	rec := h.seedRecord(t, attendance.StatusPending, true)
	ctx := authedCtx(t, h.jwt, "", user.RoleManager)

	wh := decimal.NewFromInt(7)
	_, err := h.svc.OverrideFields(ctx, attendance.OverrideFieldsRequest{
		ID: rec.ID, WorkingHours: &wh, Reason: "manual correction",
	})
	assert.ErrorIs(t, err, user.ErrAdminAccessRequired)
}

func TestOverrideFieldsAppendsAudit(t *testing.T) {
	h := newHarness()
	rec := h.seedRecord(t, attendance.StatusApproved, true)
	ctx := authedCtx(t, h.jwt, "", user.RoleAdmin)

	wh := decimal.NewFromFloat(7.5)
	late := 15
	resp, err := h.svc.OverrideFields(ctx, attendance.OverrideFieldsRequest{
		ID:           rec.ID,
		WorkingHours: &wh,
		LateMinutes:  &late,
		Reason:       "badge reader outage",
	})
	require.NoError(t, err)

	assert.True(t, resp.WorkingHours.Equal(wh))
	assert.Equal(t, 15, resp.LateMinutes)
	// The status is untouched by an override.
	assert.Equal(t, string(attendance.StatusApproved), resp.Status)
	require.Len(t, h.audits.entries, 1)
	assert.Equal(t, "OVERRIDE", h.audits.entries[0].Action)
}

func TestGetAuditTrail(t *testing.T) {
	h := newHarness()
	ctx := authedCtx(t, h.jwt, "", user.RoleManager)

	resp, err := h.svc.MarkLeave(ctx, attendance.MarkLeaveRequest{
		EmployeeID: testEmployeeID,
		Date:       "2026-08-10",
		Reason:     "annual leave",
	})
	require.NoError(t, err)

	trail, err := h.svc.GetAuditTrail(ctx, resp.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, "LEAVE", trail[0].Action)

	// Employees cannot read the trail.
	empCtx := authedCtx(t, h.jwt, testEmployeeID, user.RoleEmployee)
	_, err = h.svc.GetAuditTrail(empCtx, resp.ID)
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)
}

func TestGetHidesForeignRecordFromEmployee(t *testing.T) {
	h := newHarness()
	rec := h.seedRecord(t, attendance.StatusPending, false)
	ctx := authedCtx(t, h.jwt, "99999999-9999-9999-9999-999999999999", user.RoleEmployee)

	_, err := h.svc.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestLateMinutes(t *testing.T) {
	shiftStart := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, lateMinutes(shiftStart.Add(-30*time.Minute), shiftStart))
	assert.Equal(t, 0, lateMinutes(shiftStart, shiftStart))
	assert.Equal(t, 25, lateMinutes(shiftStart.Add(25*time.Minute), shiftStart))
}

func TestWorkMetrics(t *testing.T) {
	in := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	shift := decimal.NewFromInt(8)

	// 9h span minus 60min break = 8h, no overtime.
	working, overtime := workMetrics(in, in.Add(9*time.Hour), 60, shift)
	assert.True(t, working.Equal(decimal.NewFromInt(8)), "working = %s", working)
	assert.True(t, overtime.IsZero(), "overtime = %s", overtime)

	// 11h span minus 60min break = 10h, 2h overtime.
	working, overtime = workMetrics(in, in.Add(11*time.Hour), 60, shift)
	assert.True(t, working.Equal(decimal.NewFromInt(10)))
	assert.True(t, overtime.Equal(decimal.NewFromInt(2)))

	// Span shorter than the break clamps to zero instead of going negative.
	working, overtime = workMetrics(in, in.Add(30*time.Minute), 60, shift)
	assert.True(t, working.IsZero())
	assert.True(t, overtime.IsZero())

	// Clock skew: punch-out before punch-in clamps to zero.
	working, overtime = workMetrics(in, in.Add(-time.Hour), 0, shift)
	assert.True(t, working.IsZero())
	assert.True(t, overtime.IsZero())
}

func TestTransitionAllowed(t *testing.T) {
	cases := []struct {
		from, to attendance.Status
		want     bool
	}{
		{attendance.StatusPending, attendance.StatusApproved, true},
		{attendance.StatusPending, attendance.StatusRejected, true},
		{attendance.StatusApproved, attendance.StatusRejected, true},
		{attendance.StatusApproved, attendance.StatusApproved, true},
		{attendance.StatusRejected, attendance.StatusApproved, false},
		{attendance.StatusLeave, attendance.StatusApproved, false},
		{attendance.StatusAbsent, attendance.StatusApproved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, transitionAllowed(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
