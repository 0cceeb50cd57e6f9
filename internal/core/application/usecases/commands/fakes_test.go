package commands_test

import (
	"context"
	"sync"
	"time"

	"fastdispatch/internal/core/domain/model/courier"
	"fastdispatch/internal/core/domain/model/escrow"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/order"
	"fastdispatch/internal/core/domain/model/tracking"
	"fastdispatch/internal/core/ports"
	"fastdispatch/internal/pkg/errs"
)

// In-memory fakes standing in for the postgres adapters. Committed order and
// escrow statuses are tracked in separate maps so the status-guarded updates
// behave like their SQL counterparts: a test can overwrite the committed
// status to simulate a concurrent writer winning the race.

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*order.Order
	committed map[string]order.Status
	addErrs   []error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:    make(map[string]*order.Order),
		committed: make(map[string]order.Status),
	}
}

func (r *fakeOrderRepo) Add(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.addErrs) > 0 {
		err := r.addErrs[0]
		r.addErrs = r.addErrs[1:]
		if err != nil {
			return err
		}
	}
	r.orders[o.ID().String()] = o
	r.committed[o.ID().String()] = o.Status()
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID().String()] = o
	r.committed[o.ID().String()] = o.Status()
	return nil
}

func (r *fakeOrderRepo) UpdateIfStatus(_ context.Context, o *order.Order, expected order.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.committed[o.ID().String()] != expected {
		return errs.NewStateConflictError("order", "already resolved")
	}
	r.orders[o.ID().String()] = o
	r.committed[o.ID().String()] = o.Status()
	return nil
}

func (r *fakeOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return o, nil
}

func (r *fakeOrderRepo) GetByNumber(_ context.Context, number string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.Number() == number {
			return o, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("order", number)
}

func (r *fakeOrderRepo) GetActiveByCourier(_ context.Context, courierID kernel.UUID) ([]*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []*order.Order
	for _, o := range r.orders {
		if o.Courier() != nil && o.Courier().IsEqual(courierID) && o.Status().IsActiveDelivery() {
			active = append(active, o)
		}
	}
	return active, nil
}

type fakeCourierRepo struct {
	mu       sync.Mutex
	couriers map[string]*courier.Profile
	freed    []string
}

func newFakeCourierRepo() *fakeCourierRepo {
	return &fakeCourierRepo{couriers: make(map[string]*courier.Profile)}
}

func (r *fakeCourierRepo) Add(_ context.Context, p *courier.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.couriers[p.ID().String()] = p
	return nil
}

func (r *fakeCourierRepo) Update(_ context.Context, p *courier.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.couriers[p.ID().String()] = p
	return nil
}

func (r *fakeCourierRepo) Get(_ context.Context, id kernel.UUID) (*courier.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.couriers[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("courier", id)
	}
	return p, nil
}

func (r *fakeCourierRepo) GetAllEligible(_ context.Context) ([]*courier.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var eligible []*courier.Profile
	for _, p := range r.couriers {
		if p.IsEligible() {
			eligible = append(eligible, p)
		}
	}
	return eligible, nil
}

func (r *fakeCourierRepo) Reserve(_ context.Context, id kernel.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.couriers[id.String()]
	if !ok {
		return errs.NewObjectNotFoundError("courier", id)
	}
	if !p.IsEligible() {
		return errs.NewStateConflictError("courier", "no longer available")
	}
	return p.MarkReserved()
}

func (r *fakeCourierRepo) Free(_ context.Context, id kernel.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.couriers[id.String()]
	if !ok {
		return errs.NewObjectNotFoundError("courier", id)
	}
	p.MarkFree()
	r.freed = append(r.freed, id.String())
	return nil
}

type fakeEscrowRepo struct {
	mu           sync.Mutex
	byOrder      map[string]*escrow.Escrow
	committed    map[string]escrow.Status
	transactions []*escrow.Transaction
	due          []*escrow.Escrow
}

func newFakeEscrowRepo() *fakeEscrowRepo {
	return &fakeEscrowRepo{
		byOrder:   make(map[string]*escrow.Escrow),
		committed: make(map[string]escrow.Status),
	}
}

func (r *fakeEscrowRepo) Add(_ context.Context, e *escrow.Escrow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOrder[e.OrderID().String()] = e
	r.committed[e.ID().String()] = e.Status()
	return nil
}

func (r *fakeEscrowRepo) UpdateIfStatus(_ context.Context, e *escrow.Escrow, expected escrow.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.committed[e.ID().String()] != expected {
		return errs.NewStateConflictError("escrow", "already resolved")
	}
	r.committed[e.ID().String()] = e.Status()
	return nil
}

func (r *fakeEscrowRepo) Get(_ context.Context, id kernel.UUID) (*escrow.Escrow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byOrder {
		if e.ID().IsEqual(id) {
			return e, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("escrow", id)
}

func (r *fakeEscrowRepo) GetByOrder(_ context.Context, orderID kernel.UUID) (*escrow.Escrow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byOrder[orderID.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("escrow", orderID)
	}
	return e, nil
}

func (r *fakeEscrowRepo) GetDueForRelease(_ context.Context, _ time.Time) ([]*escrow.Escrow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []*escrow.Escrow
	for _, e := range r.due {
		if r.committed[e.ID().String()] == escrow.Held {
			due = append(due, e)
		}
	}
	return due, nil
}

func (r *fakeEscrowRepo) AddTransaction(_ context.Context, tx *escrow.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, tx)
	return nil
}

type fakeTrackingRepo struct {
	mu     sync.Mutex
	points []*tracking.Point
}

func (r *fakeTrackingRepo) Add(_ context.Context, p *tracking.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points = append(r.points, p)
	return nil
}

func (r *fakeTrackingRepo) GetByOrder(_ context.Context, orderID kernel.UUID) ([]*tracking.Point, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var trail []*tracking.Point
	for _, p := range r.points {
		if p.OrderID().IsEqual(orderID) {
			trail = append(trail, p)
		}
	}
	return trail, nil
}

func (r *fakeTrackingRepo) HasInitialPoint(_ context.Context, orderID kernel.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.points {
		if p.OrderID().IsEqual(orderID) && p.Label() == tracking.InitialPointLabel {
			return true, nil
		}
	}
	return false, nil
}

type fakeUnitOfWork struct {
	orders   *fakeOrderRepo
	couriers *fakeCourierRepo
	escrows  *fakeEscrowRepo
	trail    *fakeTrackingRepo

	commits int

	inTx             bool
	orderSnapshot    map[string]order.Status
	escrowSnapshot   map[string]escrow.Status
	ledgerLenAtBegin int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		orders:   newFakeOrderRepo(),
		couriers: newFakeCourierRepo(),
		escrows:  newFakeEscrowRepo(),
		trail:    &fakeTrackingRepo{},
	}
}

// Begin snapshots the committed statuses and the ledger length so a Rollback
// after a mid-transaction failure behaves like the real adapter.
func (u *fakeUnitOfWork) Begin(context.Context) error {
	u.inTx = true
	u.orderSnapshot = make(map[string]order.Status, len(u.orders.committed))
	for k, v := range u.orders.committed {
		u.orderSnapshot[k] = v
	}
	u.escrowSnapshot = make(map[string]escrow.Status, len(u.escrows.committed))
	for k, v := range u.escrows.committed {
		u.escrowSnapshot[k] = v
	}
	u.ledgerLenAtBegin = len(u.escrows.transactions)
	return nil
}

func (u *fakeUnitOfWork) Commit(context.Context) error {
	u.commits++
	u.inTx = false
	return nil
}

func (u *fakeUnitOfWork) Rollback(context.Context) error {
	if !u.inTx {
		return nil
	}
	u.inTx = false
	u.orders.committed = u.orderSnapshot
	u.escrows.committed = u.escrowSnapshot
	u.escrows.transactions = u.escrows.transactions[:u.ledgerLenAtBegin]
	return nil
}

func (u *fakeUnitOfWork) OrderRepository() ports.OrderRepository       { return u.orders }
func (u *fakeUnitOfWork) CourierRepository() ports.CourierRepository   { return u.couriers }
func (u *fakeUnitOfWork) EscrowRepository() ports.EscrowRepository     { return u.escrows }
func (u *fakeUnitOfWork) TrackingRepository() ports.TrackingRepository { return u.trail }

func (u *fakeUnitOfWork) Create() ports.UnitOfWork { return u }

type fakeNotifier struct {
	mu     sync.Mutex
	events []ports.Notification
}

func (n *fakeNotifier) Publish(event ports.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *fakeNotifier) eventNames() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]string, 0, len(n.events))
	for _, e := range n.events {
		names = append(names, e.Event)
	}
	return names
}

type fakePayments struct {
	mu          sync.Mutex
	verified    map[string]kernel.Money
	payouts     []kernel.Money
	payoutErrs  map[string]error
	initialized []string
}

func newFakePayments() *fakePayments {
	return &fakePayments{
		verified:   make(map[string]kernel.Money),
		payoutErrs: make(map[string]error),
	}
}

func (p *fakePayments) Initialize(_ context.Context, reference, _ string, _ kernel.Money) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initialized = append(p.initialized, reference)
	return "https://checkout.example/" + reference, nil
}

func (p *fakePayments) Verify(_ context.Context, reference string) (kernel.Money, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	amount, ok := p.verified[reference]
	if !ok {
		return kernel.Zero(), errs.NewExternalServiceError("payments", errs.ErrObjectNotFound)
	}
	return amount, nil
}

func (p *fakePayments) Payout(_ context.Context, payeeID kernel.UUID, amount kernel.Money, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.payoutErrs[payeeID.String()]; ok {
		return err
	}
	p.payouts = append(p.payouts, amount)
	return nil
}

type fakeGeocoder struct {
	point kernel.GeoPoint
	err   error
}

func (g fakeGeocoder) Geocode(context.Context, string) (kernel.GeoPoint, error) {
	if g.err != nil {
		return kernel.GeoPoint{}, g.err
	}
	return g.point, nil
}
