package app

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"wasata/internal/common"
	"wasata/internal/domain/application"
	"wasata/internal/domain/approval"
	"wasata/internal/domain/audit"
	"wasata/internal/domain/auth"
	"wasata/internal/domain/company"
	"wasata/internal/domain/job"
	"wasata/internal/domain/user"
	"wasata/internal/storage"
)

type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[common.UUID]*user.User)}
}

func (r *fakeUserRepo) add(u user.User) *user.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = common.NewUUID()
	}
	r.byID[u.ID] = &u
	copied := u
	return &copied
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (*user.User, error) {
	r.mu.Lock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			r.mu.Unlock()
			return nil, common.NewError(common.CodeConflict, "email already registered", nil)
		}
	}
	r.mu.Unlock()
	u.ID = ""
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	return r.add(u), nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "user not found", nil)
}

func (r *fakeUserRepo) mutate(id common.UUID, fn func(u *user.User)) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	fn(u)
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id common.UUID, p user.Profile) (*user.User, error) {
	return r.mutate(id, func(u *user.User) {
		u.Name, u.Phone, u.DisabilityType, u.City, u.Bio, u.Skills, u.Language = p.Name, p.Phone, p.DisabilityType, p.City, p.Bio, p.Skills, p.Language
	})
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id common.UUID, hash string) error {
	_, err := r.mutate(id, func(u *user.User) { u.PasswordHash = hash })
	return err
}

func (r *fakeUserRepo) SetCV(ctx context.Context, id common.UUID, cvURL string) (*user.User, error) {
	return r.mutate(id, func(u *user.User) { u.CVURL = cvURL })
}

func (r *fakeUserRepo) SetBlocked(ctx context.Context, id common.UUID, blocked bool) (*user.User, error) {
	return r.mutate(id, func(u *user.User) { u.Blocked = blocked })
}

func (r *fakeUserRepo) Delete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.NewError(common.CodeNotFound, "user not found", nil)
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter user.Filter, page common.Page) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []user.User
	for _, u := range r.byID {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Query != "" && !strings.Contains(u.Name+u.Email, filter.Query) {
			continue
		}
		if filter.Blocked != nil && u.Blocked != *filter.Blocked {
			continue
		}
		items = append(items, *u)
	}
	return items, nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context) (map[user.Role]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[user.Role]int{}
	for _, u := range r.byID {
		counts[u.Role]++
	}
	return counts, nil
}

type fakeRefreshRepo struct {
	mu     sync.Mutex
	tokens map[string]*auth.RefreshToken
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: make(map[string]*auth.RefreshToken)}
}

func (r *fakeRefreshRepo) Store(ctx context.Context, token auth.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.Token] = &token
	return nil
}

func (r *fakeRefreshRepo) GetByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.tokens[token]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "refresh token not found", nil)
	}
	copied := *rt
	return &copied, nil
}

func (r *fakeRefreshRepo) Revoke(ctx context.Context, token string, revokedAtUnix int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.tokens[token]
	if !ok || rt.RevokedAt != nil {
		return false, nil
	}
	at := time.Unix(revokedAtUnix, 0).UTC()
	rt.RevokedAt = &at
	return true, nil
}

func (r *fakeRefreshRepo) RevokeAll(ctx context.Context, userID common.UUID, revokedAtUnix int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	at := time.Unix(revokedAtUnix, 0).UTC()
	for _, rt := range r.tokens {
		if rt.UserID == userID && rt.RevokedAt == nil {
			rt.RevokedAt = &at
		}
	}
	return nil
}

func (r *fakeRefreshRepo) active(userID common.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rt := range r.tokens {
		if rt.UserID == userID && rt.RevokedAt == nil {
			n++
		}
	}
	return n
}

type fakeCompanyRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*company.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{byID: make(map[common.UUID]*company.Company)}
}

func (r *fakeCompanyRepo) Create(ctx context.Context, c company.Company) (*company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = common.NewUUID()
	r.byID[c.ID] = &c
	copied := c
	return &copied, nil
}

func (r *fakeCompanyRepo) Update(ctx context.Context, c company.Company) (*company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.ID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "company not found", nil)
	}
	r.byID[c.ID] = &c
	copied := c
	return &copied, nil
}

func (r *fakeCompanyRepo) GetByID(ctx context.Context, id common.UUID) (*company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "company not found", nil)
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCompanyRepo) GetByOwner(ctx context.Context, ownerID common.UUID) (*company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.OwnerID == ownerID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "company not found", nil)
}

func (r *fakeCompanyRepo) SetLogo(ctx context.Context, id common.UUID, logoURL string) (*company.Company, error) {
	r.mu.Lock()
	c, ok := r.byID[id]
	if ok {
		c.LogoURL = logoURL
	}
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeCompanyRepo) SetStatus(ctx context.Context, id common.UUID, from, to approval.Status, reason string, reviewerID common.UUID) (*company.Company, error) {
	r.mu.Lock()
	c, ok := r.byID[id]
	if ok && c.Status != from {
		r.mu.Unlock()
		return nil, common.NewError(common.CodeConflict, "approval status changed", nil)
	}
	if ok {
		c.Status = to
		c.RejectionReason = reason
		c.ReviewedBy = &reviewerID
	}
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeCompanyRepo) ListByStatus(ctx context.Context, status approval.Status, page common.Page) ([]company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []company.Company
	for _, c := range r.byID {
		if status == "" || c.Status == status {
			items = append(items, *c)
		}
	}
	return items, nil
}

func (r *fakeCompanyRepo) CountByStatus(ctx context.Context) (map[approval.Status]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[approval.Status]int{}
	for _, c := range r.byID {
		counts[c.Status]++
	}
	return counts, nil
}

type fakeJobRepo struct {
	mu        sync.Mutex
	byID      map[common.UUID]*job.Job
	companies *fakeCompanyRepo
	publicHit int
}

func newFakeJobRepo(companies *fakeCompanyRepo) *fakeJobRepo {
	return &fakeJobRepo{byID: make(map[common.UUID]*job.Job), companies: companies}
}

func (r *fakeJobRepo) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j.ID = common.NewUUID()
	j.CreatedAt = time.Now().UTC()
	r.byID[j.ID] = &j
	copied := j
	return &copied, nil
}

func (r *fakeJobRepo) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[j.ID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	r.byID[j.ID] = &j
	copied := j
	return &copied, nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	copied := *j
	return &copied, nil
}

func (r *fakeJobRepo) GetPublic(ctx context.Context, id common.UUID) (*job.Job, error) {
	r.mu.Lock()
	r.publicHit++
	r.mu.Unlock()
	j, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := r.companies.GetByID(ctx, j.CompanyID)
	if err != nil || c.Status != approval.StatusApproved || j.Status != approval.StatusApproved || j.Closed {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	j.CompanyName = c.Name
	return j, nil
}

func (r *fakeJobRepo) SetClosed(ctx context.Context, id common.UUID, closed bool) (*job.Job, error) {
	r.mu.Lock()
	if j, ok := r.byID[id]; ok {
		j.Closed = closed
	}
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeJobRepo) SetStatus(ctx context.Context, id common.UUID, from, to approval.Status, reason string) (*job.Job, error) {
	r.mu.Lock()
	if j, ok := r.byID[id]; ok {
		if j.Status != from {
			r.mu.Unlock()
			return nil, common.NewError(common.CodeConflict, "approval status changed", nil)
		}
		j.Status = to
		j.RejectionReason = reason
	}
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeJobRepo) Delete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.NewError(common.CodeNotFound, "job not found", nil)
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeJobRepo) ListPublic(ctx context.Context, filter job.Filter, page common.Page) ([]job.Job, error) {
	r.mu.Lock()
	ids := make([]common.UUID, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var items []job.Job
	for _, id := range ids {
		j, err := r.GetPublic(ctx, id)
		if err != nil {
			continue
		}
		if filter.EmploymentType != "" && j.EmploymentType != filter.EmploymentType {
			continue
		}
		items = append(items, *j)
	}
	return items, nil
}

func (r *fakeJobRepo) ListByCompany(ctx context.Context, companyID common.UUID) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []job.Job
	for _, j := range r.byID {
		if j.CompanyID == companyID {
			items = append(items, *j)
		}
	}
	return items, nil
}

func (r *fakeJobRepo) ListByStatus(ctx context.Context, status approval.Status, page common.Page) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []job.Job
	for _, j := range r.byID {
		if status == "" || j.Status == status {
			items = append(items, *j)
		}
	}
	return items, nil
}

func (r *fakeJobRepo) CountByStatus(ctx context.Context) (map[approval.Status]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[approval.Status]int{}
	for _, j := range r.byID {
		counts[j.Status]++
	}
	return counts, nil
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*application.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{byID: make(map[common.UUID]*application.Application)}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.JobID == app.JobID && existing.UserID == app.UserID {
			return nil, common.NewError(common.CodeConflict, "already applied", nil)
		}
	}
	app.ID = common.NewUUID()
	r.byID[app.ID] = &app
	copied := app
	return &copied, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) FindByJobAndUser(ctx context.Context, jobID, userID common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.byID {
		if app.JobID == jobID && app.UserID == userID {
			copied := *app
			return &copied, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *fakeApplicationRepo) ListByUser(ctx context.Context, userID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, app := range r.byID {
		if app.UserID == userID {
			items = append(items, *app)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) ListByJob(ctx context.Context, jobID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, app := range r.byID {
		if app.JobID == jobID {
			items = append(items, *app)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id common.UUID, from, to application.Status) (*application.Application, error) {
	r.mu.Lock()
	if app, ok := r.byID[id]; ok {
		if app.Status != from {
			r.mu.Unlock()
			return nil, common.NewError(common.CodeConflict, "application status changed", nil)
		}
		app.Status = to
	}
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeApplicationRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []audit.Entry
	fail    error
}

func (r *fakeAuditRepo) Create(ctx context.Context, entry audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) List(ctx context.Context, filter audit.Filter, page common.Page) ([]audit.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []audit.Entry
	for _, e := range r.entries {
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		items = append(items, e)
	}
	return items, nil
}

func (r *fakeAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeUploader struct {
	mu      sync.Mutex
	uploads []storage.Object
	bodies  []string
}

func (u *fakeUploader) Upload(ctx context.Context, obj storage.Object) (string, error) {
	body, err := io.ReadAll(obj.Body)
	if err != nil {
		return "", err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.uploads = append(u.uploads, obj)
	u.bodies = append(u.bodies, string(body))
	return "/files/" + obj.Folder + "/file" + obj.Extension, nil
}

type fakeLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *fakeLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *fakeLogger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) bool { return hash == "hashed:"+password }
