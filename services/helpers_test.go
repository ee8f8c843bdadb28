package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"service-connect-server/database"
	"service-connect-server/models"
	"service-connect-server/types"
)

type sentEvent struct {
	Recipient types.Actor
	Event     string
	Data      any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) Notify(recipient types.Actor, event string, data any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{Recipient: recipient, Event: event, Data: data})
}

func (n *recordingNotifier) sent(event string) []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentEvent
	for _, e := range n.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}

type fixture struct {
	t        *testing.T
	ctx      context.Context
	db       *gorm.DB
	notifier *recordingNotifier
	catalog  *CatalogService
	users    *UserService
	workers  *WorkerService
	admins   *AdminService
	matching *MatchingService
	requests *RequestService
	quotes   *QuoteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)

	n := &recordingNotifier{}
	matching := NewMatchingService(db)
	return &fixture{
		t:        t,
		ctx:      context.Background(),
		db:       db,
		notifier: n,
		catalog:  NewCatalogService(db),
		users:    NewUserService(db),
		workers:  NewWorkerService(db),
		admins:   NewAdminService(db),
		matching: matching,
		requests: NewRequestService(db, matching, n),
		quotes:   NewQuoteService(db, n),
	}
}

func (f *fixture) category(name string) models.ServiceCategory {
	f.t.Helper()
	c, err := f.catalog.CreateCategory(f.ctx, models.CategoryCreate{Name: name})
	require.NoError(f.t, err)
	return *c
}

func (f *fixture) service(categoryID uint, name string) models.Service {
	f.t.Helper()
	s, err := f.catalog.CreateService(f.ctx, models.ServiceCreate{CategoryID: categoryID, Name: name})
	require.NoError(f.t, err)
	return *s
}

func (f *fixture) user(name string) types.Actor {
	f.t.Helper()
	u, err := f.users.Register(f.ctx, models.UserSignUp{
		Username: name,
		Email:    name + "@example.com",
		Mobile:   "5550100",
		Password: "password123",
	})
	require.NoError(f.t, err)
	return types.Actor{ID: u.ID, Role: types.RoleUser}
}

func (f *fixture) location(user types.Actor, pincode string) models.UserLocation {
	f.t.Helper()
	l, err := f.users.CreateLocation(f.ctx, user, models.LocationRequest{Address: "1 Main St", Pincode: pincode})
	require.NoError(f.t, err)
	return *l
}

// pendingWorker registers a worker without approving it
func (f *fixture) pendingWorker(name string) types.Actor {
	f.t.Helper()
	w, err := f.workers.Register(f.ctx, models.WorkerSignUp{
		Username:       name,
		Email:          name + "@workers.example.com",
		EmployeeNumber: "EMP-" + name,
		Mobile:         "5550199",
		Password:       "password123",
	})
	require.NoError(f.t, err)
	return types.Actor{ID: w.ID, Role: types.RoleWorker}
}

// worker registers, approves and fully profiles a worker
func (f *fixture) worker(name, pincode string, radius int, categories ...uint) types.Actor {
	f.t.Helper()
	actor := f.pendingWorker(name)
	_, err := f.workers.SetStatus(f.ctx, actor.ID, models.WorkerStatusApproved)
	require.NoError(f.t, err)
	if categories == nil {
		categories = []uint{}
	}
	_, err = f.workers.UpdateProfile(f.ctx, actor, models.WorkerProfileUpdate{
		Pincode:     &pincode,
		Radius:      &radius,
		CategoryIDs: categories,
	})
	require.NoError(f.t, err)
	return actor
}

func (f *fixture) request(user types.Actor, serviceID, locationID uint) *models.Request {
	f.t.Helper()
	r, err := f.requests.CreateRequest(f.ctx, user, models.RequestCreate{
		ServiceID:      serviceID,
		UserLocationID: locationID,
		Description:    fmt.Sprintf("job for user %d", user.ID),
	})
	require.NoError(f.t, err)
	return r
}

func (f *fixture) quote(worker types.Actor, requestID uint, price float64) models.RequestQuote {
	f.t.Helper()
	res, err := f.quotes.SubmitOrUpdateQuote(f.ctx, worker, requestID, price, "")
	require.NoError(f.t, err)
	return res.Quote
}

func (f *fixture) reload(id uint) models.Request {
	f.t.Helper()
	var r models.Request
	require.NoError(f.t, f.db.First(&r, id).Error)
	return r
}

// assertWorkerInvariant checks worker_id is set exactly when the request has
// left pending.
func (f *fixture) assertWorkerInvariant(id uint) {
	f.t.Helper()
	r := f.reload(id)
	require.Equal(f.t, r.Status.HasWorker(), r.WorkerID != nil, "status %s worker %v", r.Status, r.WorkerID)
	require.Equal(f.t, r.WorkerID != nil, r.FinalPrice != nil)
}

func ptr[T any](v T) *T { return &v }
