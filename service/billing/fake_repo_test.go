package billing

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/usamayaqoob8177888763/retail-backoffice/model"
)

var errDuplicateInvoice = errors.New("duplicate invoice number")

// fakeRepo is an in-memory IRepo. Transactions are serialized by a mutex,
// the way row locks serialize them on MySQL, and roll back to a snapshot
// when the closure fails so no partial order ever sticks.
type fakeRepo struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   *fakeState
}

type fakeState struct {
	nextID    int64
	customers map[int64]model.Customer
	products  map[int64]model.Product
	orders    map[int64]model.Order
	items     []model.OrderItem
	payments  []model.Payment
	stockTxns []model.StockTransaction
	outboxes  []model.Outbox
	seqs      map[string]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		st: &fakeState{
			nextID:    0,
			customers: make(map[int64]model.Customer),
			products:  make(map[int64]model.Product),
			orders:    make(map[int64]model.Order),
			seqs:      make(map[string]int64),
		},
	}
}

func (s *fakeState) clone() *fakeState {
	cp := &fakeState{
		nextID:    s.nextID,
		customers: make(map[int64]model.Customer, len(s.customers)),
		products:  make(map[int64]model.Product, len(s.products)),
		orders:    make(map[int64]model.Order, len(s.orders)),
		items:     append([]model.OrderItem(nil), s.items...),
		payments:  append([]model.Payment(nil), s.payments...),
		stockTxns: append([]model.StockTransaction(nil), s.stockTxns...),
		outboxes:  append([]model.Outbox(nil), s.outboxes...),
		seqs:      make(map[string]int64, len(s.seqs)),
	}
	for k, v := range s.customers {
		cp.customers[k] = v
	}
	for k, v := range s.products {
		cp.products[k] = v
	}
	for k, v := range s.orders {
		cp.orders[k] = v
	}
	for k, v := range s.seqs {
		cp.seqs[k] = v
	}
	return cp
}

func (r *fakeRepo) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	snapshot := r.st.clone()
	r.mu.Unlock()

	err := fn(ctx)
	if err != nil {
		r.mu.Lock()
		r.st = snapshot
		r.mu.Unlock()
	}
	return err
}

func (r *fakeRepo) nextID() int64 {
	r.st.nextID++
	return r.st.nextID
}

func (r *fakeRepo) addCustomer(c model.Customer) model.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID()
	r.st.customers[c.ID] = c
	return c
}

func (r *fakeRepo) addProduct(p model.Product) model.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID()
	r.st.products[p.ID] = p
	return p
}

func (r *fakeRepo) productQuantity(id int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.products[id].Quantity
}

func (r *fakeRepo) orderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.st.orders)
}

func (r *fakeRepo) pendingOutboxCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.st.outboxes {
		if o.Status == model.OutboxPending {
			n++
		}
	}
	return n
}

func (r *fakeRepo) CreateCustomer(ctx context.Context, customer model.Customer) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer.ID = r.nextID()
	r.st.customers[customer.ID] = customer
	return customer.ID, nil
}

func (r *fakeRepo) UpdateCustomer(ctx context.Context, customer model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.st.customers[customer.ID] = customer
	return nil
}

func (r *fakeRepo) GetCustomer(ctx context.Context, id int64) (model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.st.customers[id]
	if !ok {
		return model.Customer{}, sql.ErrNoRows
	}
	return c, nil
}

func (r *fakeRepo) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []model.Customer
	for _, c := range r.st.customers {
		res = append(res, c)
	}
	return res, nil
}

func (r *fakeRepo) CreateOrder(ctx context.Context, order model.Order) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.st.orders {
		if existing.InvoiceNumber == order.InvoiceNumber {
			return 0, errDuplicateInvoice
		}
	}
	order.ID = r.nextID()
	r.st.orders[order.ID] = order
	return order.ID, nil
}

func (r *fakeRepo) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.st.orders[id]
	if !ok {
		return model.Order{}, sql.ErrNoRows
	}
	return o, nil
}

func (r *fakeRepo) GetOrderByInvoice(ctx context.Context, invoiceNumber string) (model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.st.orders {
		if o.InvoiceNumber == invoiceNumber {
			return o, nil
		}
	}
	return model.Order{}, sql.ErrNoRows
}

func (r *fakeRepo) ListOrders(ctx context.Context) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []model.Order
	for _, o := range r.st.orders {
		res = append(res, o)
	}
	return res, nil
}

func (r *fakeRepo) LockOrderForUpdate(ctx context.Context, id int64) (model.Order, error) {
	return r.GetOrder(ctx, id)
}

func (r *fakeRepo) UpdatePaymentStatus(ctx context.Context, id int64, status model.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.st.orders[id]
	if !ok {
		return sql.ErrNoRows
	}
	o.PaymentStatus = status
	r.st.orders[id] = o
	return nil
}

func (r *fakeRepo) CreateOrderItem(ctx context.Context, item model.OrderItem) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = r.nextID()
	r.st.items = append(r.st.items, item)
	return item.ID, nil
}

func (r *fakeRepo) ListOrderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []model.OrderItem
	for _, item := range r.st.items {
		if item.OrderID == orderID {
			res = append(res, item)
		}
	}
	return res, nil
}

func (r *fakeRepo) CreatePayment(ctx context.Context, payment model.Payment) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment.ID = r.nextID()
	r.st.payments = append(r.st.payments, payment)
	return payment.ID, nil
}

func (r *fakeRepo) ListPayments(ctx context.Context, orderID int64) ([]model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []model.Payment
	for _, p := range r.st.payments {
		if p.OrderID == orderID {
			res = append(res, p)
		}
	}
	return res, nil
}

func (r *fakeRepo) SumPayments(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, p := range r.st.payments {
		if p.OrderID == orderID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (r *fakeRepo) LockProductForUpdate(ctx context.Context, productID int64) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.st.products[productID]
	if !ok {
		return model.Product{}, sql.ErrNoRows
	}
	return p, nil
}

func (r *fakeRepo) DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.st.products[productID]
	if !ok || p.Quantity < quantity {
		return false, nil
	}
	p.Quantity -= quantity
	r.st.products[productID] = p
	return true, nil
}

func (r *fakeRepo) CreateStockTransaction(ctx context.Context, txn model.StockTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn.ID = r.nextID()
	r.st.stockTxns = append(r.st.stockTxns, txn)
	return nil
}

func (r *fakeRepo) NextInvoiceSeq(ctx context.Context, day string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.st.seqs[day]++
	return r.st.seqs[day], nil
}

func (r *fakeRepo) CreateOutbox(ctx context.Context, outbox model.Outbox) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	outbox.ID = r.nextID()
	outbox.Status = model.OutboxPending
	r.st.outboxes = append(r.st.outboxes, outbox)
	return nil
}

func (r *fakeRepo) GetPendingOutbox(ctx context.Context, limit int) ([]model.Outbox, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []model.Outbox
	for _, o := range r.st.outboxes {
		if o.Status == model.OutboxPending && len(res) < limit {
			res = append(res, o)
		}
	}
	return res, nil
}

func (r *fakeRepo) MarkDoneOutboxes(ctx context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	done := make(map[int64]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	for i, o := range r.st.outboxes {
		if done[o.ID] {
			r.st.outboxes[i].Status = model.OutboxCompleted
		}
	}
	return nil
}
