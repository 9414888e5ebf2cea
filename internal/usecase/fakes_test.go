package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"loklagbe/internal/domain/entity"
	"loklagbe/internal/domain/repository"
	"loklagbe/pkg/errors"
)

// store is an in-memory stand-in for the Firestore collections.
type store struct {
	mu            sync.Mutex
	users         map[string]*entity.User
	works         map[string]*entity.Work
	notifications map[string]*entity.Notification
	complaints    map[string]*entity.Complaint
	ledger        map[string][]*entity.WalletTransaction
	postedStatus  map[string]entity.WorkStatus
	seq           int
	applyCalls    int
}

func newStore() *store {
	return &store{
		users:         map[string]*entity.User{},
		works:         map[string]*entity.Work{},
		notifications: map[string]*entity.Notification{},
		complaints:    map[string]*entity.Complaint{},
		ledger:        map[string][]*entity.WalletTransaction{},
		postedStatus:  map[string]entity.WorkStatus{},
	}
}

func (s *store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *store) addUser(u *entity.User) *entity.User {
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	if u.Email == "" {
		u.Email = u.ID + "@example.com"
	}
	s.users[u.ID] = u
	return u
}

func (s *store) addWork(w *entity.Work) *entity.Work {
	if w.JobTitle == "" {
		w.JobTitle = "Fix the kitchen sink"
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	}
	s.works[w.ID] = w
	return w
}

func (s *store) notificationsFor(uid string) []*entity.Notification {
	var out []*entity.Notification
	for _, n := range s.notifications {
		if n.ToUserID == uid {
			out = append(out, n)
		}
	}
	return out
}

func copyWork(w *entity.Work) *entity.Work {
	c := *w
	c.Images = append([]string{}, w.Images...)
	return &c
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	c.PostedWorks = append([]string{}, u.PostedWorks...)
	c.AcceptedWorks = append([]string{}, u.AcceptedWorks...)
	c.Reviews = append([]entity.Review{}, u.Reviews...)
	return &c
}

type fakeUserRepo struct{ s *store }

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = copyUser(u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return copyUser(u), nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[string]*entity.User{}
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out[id] = copyUser(u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		out = append(out, copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id string, p repository.ProfileUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	u.FullName, u.Phone, u.Bio = p.FullName, p.Phone, p.Bio
	return nil
}

func (r *fakeUserRepo) SetVerified(_ context.Context, id string, verified bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	u.Verified = verified
	return nil
}

func (r *fakeUserRepo) AddPostedWork(_ context.Context, id, workID string, _ time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	u.PostedWorks = append(u.PostedWorks, workID)
	r.s.postedStatus[workID] = entity.WorkStatusActive
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

type fakeWorkRepo struct{ s *store }

func (r *fakeWorkRepo) Create(_ context.Context, w *entity.Work) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if w.ID == "" {
		w.ID = r.s.nextID("work")
	}
	r.s.works[w.ID] = copyWork(w)
	return nil
}

func (r *fakeWorkRepo) GetByID(_ context.Context, id string) (*entity.Work, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.works[id]
	if !ok {
		return nil, errors.NotFound("Work", nil)
	}
	return copyWork(w), nil
}

func (r *fakeWorkRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Work, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Work
	for _, id := range ids {
		if w, ok := r.s.works[id]; ok {
			out = append(out, copyWork(w))
		}
	}
	return out, nil
}

func (r *fakeWorkRepo) matches(w *entity.Work, f repository.WorkFilter) bool {
	if f.Status != "" && w.Status != f.Status {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if w.Status == s {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if f.UserID != "" && w.UserID != f.UserID {
		return false
	}
	if f.AcceptedBy != "" && w.AcceptedBy != f.AcceptedBy {
		return false
	}
	if f.Category != "" && w.Category != f.Category {
		return false
	}
	return true
}

func (r *fakeWorkRepo) List(_ context.Context, f repository.WorkFilter) ([]*entity.Work, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Work{}
	for _, w := range r.s.works {
		if r.matches(w, f) {
			out = append(out, copyWork(w))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeWorkRepo) Count(ctx context.Context, f repository.WorkFilter) (int64, error) {
	works, _ := r.List(ctx, f)
	return int64(len(works)), nil
}

func (r *fakeWorkRepo) AddImage(_ context.Context, id, url string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.works[id]
	if !ok {
		return errors.NotFound("Work", nil)
	}
	w.Images = append(w.Images, url)
	return nil
}

func (r *fakeWorkRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.works, id)
	return nil
}

type fakeNotificationRepo struct{ s *store }

func (r *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n.ID == "" {
		n.ID = r.s.nextID("notif")
	}
	c := *n
	r.s.notifications[n.ID] = &c
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id string) (*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return nil, errors.NotFound("Notification", nil)
	}
	c := *n
	return &c, nil
}

func (r *fakeNotificationRepo) ListForUser(_ context.Context, uid string) ([]*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.s.notificationsFor(uid)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, uid string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, x := range r.s.notificationsFor(uid) {
		if !x.Read {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return errors.NotFound("Notification", nil)
	}
	n.Read = true
	return nil
}

type fakeComplaintRepo struct{ s *store }

func (r *fakeComplaintRepo) Create(_ context.Context, c *entity.Complaint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == "" {
		c.ID = r.s.nextID("complaint")
	}
	cc := *c
	r.s.complaints[c.ID] = &cc
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id string) (*entity.Complaint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.complaints[id]
	if !ok {
		return nil, errors.NotFound("Complaint", nil)
	}
	cc := *c
	return &cc, nil
}

func (r *fakeComplaintRepo) List(_ context.Context) ([]*entity.Complaint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Complaint{}
	for _, c := range r.s.complaints {
		cc := *c
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeComplaintRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.complaints)), nil
}

func (r *fakeComplaintRepo) CountByUser(_ context.Context, uid string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, c := range r.s.complaints {
		if c.FromUserID == uid {
			n++
		}
	}
	return n, nil
}

func (r *fakeComplaintRepo) Resolve(_ context.Context, id string, feedback *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.complaints[id]
	if !ok {
		return errors.NotFound("Complaint", nil)
	}
	if feedback.ID == "" {
		feedback.ID = r.s.nextID("notif")
	}
	n := *feedback
	r.s.notifications[n.ID] = &n
	c.Status = entity.ComplaintSolved
	return nil
}

type fakeWalletRepo struct{ s *store }

func (r *fakeWalletRepo) ListTransactions(_ context.Context, uid string) ([]*entity.WalletTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := append([]*entity.WalletTransaction{}, r.s.ledger[uid]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// fakeWorkflowRepo applies a transition all-or-nothing, with the same
// precondition check as the Firestore transaction.
type fakeWorkflowRepo struct {
	s *store
	// beforeApply runs inside Apply before the precondition check, to
	// simulate a concurrent writer.
	beforeApply func(s *store)
}

func (r *fakeWorkflowRepo) Apply(_ context.Context, t *repository.WorkTransition) (*repository.TransitionResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.applyCalls++

	if r.beforeApply != nil {
		r.beforeApply(r.s)
	}

	w, ok := r.s.works[t.WorkID]
	if !ok {
		return nil, errors.NotFound("Work", nil)
	}
	if t.ExpectStatus != "" && w.Status != t.ExpectStatus {
		return nil, errors.Conflict("status changed")
	}
	if w.AcceptedBy != t.ExpectAcceptedBy {
		return nil, errors.Conflict("applicant changed")
	}

	var rated *entity.User
	if t.Rating != nil {
		if rated, ok = r.s.users[t.Rating.UserID]; !ok {
			return nil, errors.NotFound("User", nil)
		}
	}
	for _, uid := range []string{t.AcceptedWorkAdd, t.AcceptedWorkRemove} {
		if _, ok := r.s.users[uid]; uid != "" && !ok {
			return nil, errors.NotFound("User", nil)
		}
	}
	if t.Credit != nil {
		if _, ok := r.s.users[t.Credit.UserID]; !ok {
			return nil, errors.NotFound("User", nil)
		}
	}

	res := &repository.TransitionResult{}
	if t.Status != "" {
		w.Status = t.Status
		r.s.postedStatus[w.ID] = t.Status
	}
	if t.SetAcceptedBy != nil {
		w.AcceptedBy = *t.SetAcceptedBy
	}
	if t.TransactionID != "" {
		w.TransactionID = t.TransactionID
	}
	if t.AcceptedAt != nil {
		at := *t.AcceptedAt
		w.AcceptedAt = &at
	}
	if t.AcceptedWorkAdd != "" {
		u := r.s.users[t.AcceptedWorkAdd]
		u.AcceptedWorks = append(u.AcceptedWorks, t.WorkID)
	}
	if t.AcceptedWorkRemove != "" {
		u := r.s.users[t.AcceptedWorkRemove]
		kept := u.AcceptedWorks[:0]
		for _, id := range u.AcceptedWorks {
			if id != t.WorkID {
				kept = append(kept, id)
			}
		}
		u.AcceptedWorks = kept
	}
	if t.Credit != nil {
		u := r.s.users[t.Credit.UserID]
		u.Wallet += t.Credit.Entry.Amount
		entry := *t.Credit.Entry
		entry.ID = r.s.nextID("txn")
		r.s.ledger[u.ID] = append(r.s.ledger[u.ID], &entry)
	}
	if rated != nil {
		rated.Rating, rated.RatingCount = entity.AggregateRating(rated.Rating, rated.RatingCount, t.Rating.Review.Rating)
		rated.Reviews = append(rated.Reviews, t.Rating.Review)
		res.NewRating, res.NewRatingCount = rated.Rating, rated.RatingCount
	}
	for _, id := range t.MarkRead {
		if n, ok := r.s.notifications[id]; ok && n.ReadableBy(t.Actor, t.WorkID) {
			n.Read = true
		}
	}
	for _, n := range t.Notifications {
		n.ID = r.s.nextID("notif")
		c := *n
		r.s.notifications[c.ID] = &c
	}
	return res, nil
}

type fakeIdentity struct {
	users       map[string]string // email -> uid
	passwords   map[string]string // email -> password
	verified    map[string]bool   // uid -> email verified
	signInErr   error
	createErr   error
	revoked     []string
	deleted     []string
	resetSent   []string
	verifySent  []string
	lastCreated string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		users:     map[string]string{},
		passwords: map[string]string{},
		verified:  map[string]bool{},
	}
}

func (f *fakeIdentity) CreateUser(_ context.Context, email, password, _ string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	uid := "uid-" + email
	f.users[email] = uid
	f.passwords[email] = password
	f.lastCreated = uid
	return uid, nil
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*entity.AuthTokens, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	uid, ok := f.users[email]
	if !ok {
		return nil, &entity.AuthError{Code: entity.AuthUserNotFound, Err: io.EOF}
	}
	if f.passwords[email] != password {
		return nil, &entity.AuthError{Code: entity.AuthWrongPassword, Err: io.EOF}
	}
	return &entity.AuthTokens{UserID: uid, IDToken: "id-" + uid, RefreshToken: "refresh-" + uid}, nil
}

func (f *fakeIdentity) EmailVerified(_ context.Context, uid string) (bool, error) {
	return f.verified[uid], nil
}

func (f *fakeIdentity) SendVerificationEmail(_ context.Context, idToken string) error {
	f.verifySent = append(f.verifySent, idToken)
	return nil
}

func (f *fakeIdentity) SendPasswordReset(_ context.Context, email string) error {
	if _, ok := f.users[email]; !ok {
		return &entity.AuthError{Code: entity.AuthUserNotFound, Err: io.EOF}
	}
	f.resetSent = append(f.resetSent, email)
	return nil
}

func (f *fakeIdentity) RevokeSessions(_ context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

func (f *fakeIdentity) DeleteUser(_ context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return nil
}

// memCache stores JSON like the Redis cache does.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type fakeFiles struct {
	uploaded []string
	deleted  []string
}

func (f *fakeFiles) UploadFile(_ context.Context, file io.Reader, _ string, folder string) (string, error) {
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	url := fmt.Sprintf("https://storage.googleapis.com/test/%s/%d.png", folder, len(f.uploaded)+1)
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeFiles) DeleteFile(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

// fixture wires every use case to one store.
type fixture struct {
	s             *store
	cache         *memCache
	identity      *fakeIdentity
	files         *fakeFiles
	flowRepo      *fakeWorkflowRepo
	names         *DisplayNames
	auth          *AuthUseCase
	users         *UserUseCase
	works         *WorkUseCase
	flow          *WorkflowUseCase
	notifications *NotificationUseCase
	complaints    *ComplaintUseCase
	wallet        *WalletUseCase
	admin         *AdminUseCase
}

var fixedNow = time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)

func newFixture() *fixture {
	s := newStore()
	userRepo := &fakeUserRepo{s}
	workRepo := &fakeWorkRepo{s}
	notificationRepo := &fakeNotificationRepo{s}
	complaintRepo := &fakeComplaintRepo{s}
	walletRepo := &fakeWalletRepo{s}
	flowRepo := &fakeWorkflowRepo{s: s}

	f := &fixture{
		s:        s,
		cache:    newMemCache(),
		identity: newFakeIdentity(),
		files:    &fakeFiles{},
		flowRepo: flowRepo,
	}
	f.names = NewDisplayNames(userRepo, f.cache, time.Minute)
	f.auth = NewAuthUseCase(userRepo, f.identity)
	f.users = NewUserUseCase(userRepo, workRepo, complaintRepo, f.names)
	f.works = NewWorkUseCase(workRepo, userRepo, f.names, f.files)
	f.works.now = func() time.Time { return fixedNow }
	f.flow = NewWorkflowUseCase(workRepo, flowRepo)
	f.flow.now = func() time.Time { return fixedNow }
	f.notifications = NewNotificationUseCase(notificationRepo, workRepo, f.names)
	f.complaints = NewComplaintUseCase(complaintRepo, f.names)
	f.complaints.now = func() time.Time { return fixedNow }
	f.wallet = NewWalletUseCase(userRepo, walletRepo)
	f.admin = NewAdminUseCase(userRepo, workRepo, complaintRepo, f.identity, f.names, f.cache, time.Minute)
	return f
}

func sessionOf(uid string) entity.Session {
	return entity.Session{UserID: uid, EmailVerified: true}
}
