package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-connect-server/models"
)

func TestListOpenRequestsForWorker_Filters(t *testing.T) {
	f := newFixture(t)
	plumbing := f.category("Plumbing")
	painting := f.category("Painting")
	leak := f.service(plumbing.ID, "Leak repair")
	walls := f.service(painting.ID, "Wall painting")

	u := f.user("alice")
	w := f.worker("bob", "560000", 10, plumbing.ID)
	other := f.worker("carol", "560000", 10, plumbing.ID)

	inBand := f.request(u, leak.ID, f.location(u, "560010").ID)
	lowEdge := f.request(u, leak.ID, f.location(u, "559990").ID)
	// out of band, foreign category, non-numeric pincode
	f.request(u, leak.ID, f.location(u, "560011").ID)
	f.request(u, walls.ID, f.location(u, "560001").ID)
	f.request(u, leak.ID, f.location(u, "56000A").ID)
	assigned := f.request(u, leak.ID, f.location(u, "560002").ID)

	q := f.quote(other, assigned.ID, 40)
	_, err := f.requests.AcceptQuote(f.ctx, u, assigned.ID, q.ID)
	require.NoError(t, err)

	open, err := f.matching.ListOpenRequestsForWorker(f.ctx, w)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, lowEdge.ID, open[0].ID, "newest first")
	assert.Equal(t, inBand.ID, open[1].ID)
	assert.Equal(t, "Leak repair", open[0].Service.Name)
	assert.Equal(t, "559990", open[0].UserLocation.Pincode)
}

func TestListOpenRequestsForWorker_ProfileIncomplete(t *testing.T) {
	f := newFixture(t)
	cat := f.category("Plumbing")

	bare := f.pendingWorker("bare")
	_, err := f.workers.SetStatus(f.ctx, bare.ID, models.WorkerStatusApproved)
	require.NoError(t, err)
	_, err = f.matching.ListOpenRequestsForWorker(f.ctx, bare)
	var pie *ProfileIncompleteError
	require.ErrorAs(t, err, &pie)
	assert.ErrorIs(t, err, ErrProfileIncomplete)
	assert.Equal(t, []string{"pincode", "radius", "categories"}, pie.Missing)

	noCategories := f.worker("nocat", "560000", 5)
	_, err = f.matching.ListOpenRequestsForWorker(f.ctx, noCategories)
	require.ErrorAs(t, err, &pie)
	assert.Equal(t, []string{"categories"}, pie.Missing)

	radius := 3
	_, err = f.workers.UpdateProfile(f.ctx, bare, models.WorkerProfileUpdate{Radius: &radius, CategoryIDs: []uint{cat.ID}})
	require.NoError(t, err)
	_, err = f.matching.ListOpenRequestsForWorker(f.ctx, bare)
	require.ErrorAs(t, err, &pie)
	assert.Equal(t, []string{"pincode"}, pie.Missing)
}

func TestListOpenRequestsForWorker_ZeroRadiusExactMatch(t *testing.T) {
	f := newFixture(t)
	cat := f.category("Plumbing")
	svc := f.service(cat.ID, "Leak repair")
	u := f.user("alice")
	w := f.worker("bob", "560000", 0, cat.ID)

	exact := f.request(u, svc.ID, f.location(u, "560000").ID)
	f.request(u, svc.ID, f.location(u, "560001").ID)

	open, err := f.matching.ListOpenRequestsForWorker(f.ctx, w)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, exact.ID, open[0].ID)
}

func TestListOpenRequestsForWorker_UnknownWorker(t *testing.T) {
	f := newFixture(t)
	_, err := f.matching.ListOpenRequestsForWorker(f.ctx, f.pendingWorker("x"))
	assert.ErrorIs(t, err, ErrForbidden)

	ghost := f.pendingWorker("ghost")
	require.NoError(t, f.db.Delete(&models.Worker{}, ghost.ID).Error)
	_, err = f.matching.ListOpenRequestsForWorker(f.ctx, ghost)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOpenRequestsForWorker_RejectedWorker(t *testing.T) {
	f := newFixture(t)
	cat := f.category("Plumbing")
	svc := f.service(cat.ID, "Leak repair")
	u := f.user("alice")
	w := f.worker("bob", "560000", 10, cat.ID)
	f.request(u, svc.ID, f.location(u, "560001").ID)

	open, err := f.matching.ListOpenRequestsForWorker(f.ctx, w)
	require.NoError(t, err)
	require.Len(t, open, 1)

	_, err = f.workers.SetStatus(f.ctx, w.ID, models.WorkerStatusRejected)
	require.NoError(t, err)

	open, err = f.matching.ListOpenRequestsForWorker(f.ctx, w)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, open)
}

func TestListOpenRequestsForWorker_HugeRadius(t *testing.T) {
	f := newFixture(t)
	cat := f.category("Plumbing")
	svc := f.service(cat.ID, "Leak repair")
	u := f.user("alice")
	w := f.worker("bob", "560000", math.MaxInt, cat.ID)

	exact := f.request(u, svc.ID, f.location(u, "560000").ID)
	far := f.request(u, svc.ID, f.location(u, "999999999999").ID)

	open, err := f.matching.ListOpenRequestsForWorker(f.ctx, w)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, far.ID, open[0].ID)
	assert.Equal(t, exact.ID, open[1].ID)
}

func TestEligibleWorkersForRequest(t *testing.T) {
	f := newFixture(t)
	cat := f.category("Plumbing")
	svc := f.service(cat.ID, "Leak repair")
	u := f.user("alice")
	a := f.worker("a", "100", 10, cat.ID)
	f.worker("b", "200", 10, cat.ID)
	c := f.worker("c", "95", 5, cat.ID)

	r := f.request(u, svc.ID, f.location(u, "100").ID)
	workers, err := f.matching.EligibleWorkersForRequest(f.ctx, r)
	require.NoError(t, err)
	ids := []uint{}
	for _, w := range workers {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []uint{a.ID, c.ID}, ids)

	r.Status = models.RequestStatusAccepted
	workers, err = f.matching.EligibleWorkersForRequest(f.ctx, r)
	require.NoError(t, err)
	assert.Empty(t, workers)
}
