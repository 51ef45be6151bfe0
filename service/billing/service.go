package billing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/usamayaqoob8177888763/retail-backoffice/alert"
	"github.com/usamayaqoob8177888763/retail-backoffice/kafka"
	"github.com/usamayaqoob8177888763/retail-backoffice/model"
)

type IService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (model.OrderDetail, error)
	RecordPayment(ctx context.Context, orderID int64, input RecordPaymentInput) (model.OrderDetail, error)
	GetOrder(ctx context.Context, id int64) (model.OrderDetail, error)
	GetOrderByInvoice(ctx context.Context, invoiceNumber string) (model.OrderDetail, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	CreateCustomer(ctx context.Context, input CustomerInput) (model.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, input CustomerInput) (model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	RelayLowStockAlerts(ctx context.Context, limit int) error
}

// NegativeTotalPolicy decides what CreateOrder does when the discount
// exceeds subtotal plus tax.
type NegativeTotalPolicy int

const (
	RejectNegativeTotal NegativeTotalPolicy = iota
	ClampNegativeTotal
)

type Options struct {
	NegativeTotalPolicy NegativeTotalPolicy
	// ConflictRetries is how many times a stock conflict restarts the
	// whole order transaction before being surfaced.
	ConflictRetries int
	Now             func() time.Time
}

type LineSelection struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CreateOrderInput struct {
	CustomerID int64           `json:"customer_id"`
	Tax        decimal.Decimal `json:"tax"`
	Discount   decimal.Decimal `json:"discount"`
	Notes      string          `json:"notes"`
	Items      []LineSelection `json:"items"`
}

type RecordPaymentInput struct {
	Amount    decimal.Decimal     `json:"amount"`
	Method    model.PaymentMethod `json:"method"`
	Reference string              `json:"reference"`
	Notes     string              `json:"notes"`
}

type CustomerInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type service struct {
	repo     IRepo
	producer kafka.IProducer
	opts     Options
}

func NewService(repo IRepo, producer kafka.IProducer, opts Options) IService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{
		repo:     repo,
		producer: producer,
		opts:     opts,
	}
}

// CreateOrder runs the whole submission as one atomic unit: validate stock,
// create the order and its items, decrement inventory, compute totals, and
// assign the invoice number. A stock conflict restarts the transaction once
// before the caller sees it.
func (s service) CreateOrder(ctx context.Context, input CreateOrderInput) (model.OrderDetail, error) {
	var res model.OrderDetail
	var err error
	for attempt := 0; attempt <= s.opts.ConflictRetries; attempt++ {
		res, err = s.createOrderOnce(ctx, input)
		if !errors.Is(err, ErrStockConflict) {
			return res, err
		}
	}
	return res, err
}

func (s service) createOrderOnce(ctx context.Context, input CreateOrderInput) (model.OrderDetail, error) {
	if input.Tax.IsNegative() || input.Discount.IsNegative() {
		return model.OrderDetail{}, ErrInvalidCharge
	}

	selections := mergeSelections(input.Items)
	if len(selections) == 0 {
		return model.OrderDetail{}, ErrEmptyOrder
	}

	var res model.OrderDetail
	err := s.repo.Transact(ctx, func(ctx context.Context) error {
		_, err := s.repo.GetCustomer(ctx, input.CustomerID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCustomerNotFound
		}
		if err != nil {
			return err
		}

		// lock in ascending product order so concurrent submissions
		// cannot deadlock each other
		products := make([]model.Product, 0, len(selections))
		var shortages []Shortage
		for _, sel := range selections {
			product, err := s.repo.LockProductForUpdate(ctx, sel.ProductID)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProductNotFound
			}
			if err != nil {
				return err
			}
			if product.Quantity < sel.Quantity {
				shortages = append(shortages, Shortage{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: sel.Quantity,
					Available: product.Quantity,
				})
			}
			products = append(products, product)
		}
		if len(shortages) > 0 {
			return &StockError{Shortages: shortages}
		}

		items := make([]model.OrderItem, 0, len(selections))
		subtotal := decimal.Zero
		for i, sel := range selections {
			lt := lineTotal(products[i].Price, sel.Quantity)
			subtotal = subtotal.Add(lt)
			items = append(items, model.OrderItem{
				ProductID: sel.ProductID,
				UnitPrice: products[i].Price,
				Quantity:  sel.Quantity,
				LineTotal: lt,
			})
		}

		total := orderTotal(subtotal, input.Tax, input.Discount)
		if total.IsNegative() {
			if s.opts.NegativeTotalPolicy == RejectNegativeTotal {
				return ErrNegativeTotal
			}
			total = decimal.Zero.Round(2)
		}

		now := s.opts.Now()
		seq, err := s.repo.NextInvoiceSeq(ctx, invoiceDay(now))
		if err != nil {
			return err
		}

		order := model.Order{
			CustomerID:    input.CustomerID,
			InvoiceNumber: invoiceNumber(now, seq),
			Tax:           round2(input.Tax),
			Discount:      round2(input.Discount),
			Subtotal:      subtotal,
			Total:         total,
			PaymentStatus: DerivePaymentStatus(total, decimal.Zero),
			Notes:         nullString(input.Notes),
		}
		orderID, err := s.repo.CreateOrder(ctx, order)
		if err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = orderID
			itemID, err := s.repo.CreateOrderItem(ctx, items[i])
			if err != nil {
				return err
			}
			items[i].ID = itemID

			ok, err := s.repo.DecrementStock(ctx, items[i].ProductID, items[i].Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return ErrStockConflict
			}

			err = s.repo.CreateStockTransaction(ctx, model.StockTransaction{
				ProductID: items[i].ProductID,
				Type:      model.StockOut,
				Quantity:  items[i].Quantity,
				Notes:     nullString("sale " + order.InvoiceNumber),
			})
			if err != nil {
				return err
			}

			left := products[i].Quantity - items[i].Quantity
			if left <= products[i].MinimumStock {
				err = s.queueLowStockAlert(ctx, products[i], left, now)
				if err != nil {
					return err
				}
			}
		}

		stored, err := s.repo.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		res = model.OrderDetail{
			Order:      stored,
			Items:      items,
			AmountPaid: decimal.Zero.Round(2),
			Balance:    stored.Total,
		}
		return nil
	})
	return res, err
}

func (s service) queueLowStockAlert(ctx context.Context, product model.Product, left int, now time.Time) error {
	content, err := json.Marshal(alert.LowStockEvent{
		ProductID:    product.ID,
		ProductName:  product.Name,
		Quantity:     left,
		MinimumStock: product.MinimumStock,
		OccurredAt:   now,
	})
	if err != nil {
		return err
	}
	return s.repo.CreateOutbox(ctx, model.Outbox{Content: content})
}

// RecordPayment appends a payment and re-derives the order's status from
// the full payment set, serialized against concurrent inserts by the order
// row lock.
func (s service) RecordPayment(ctx context.Context, orderID int64, input RecordPaymentInput) (model.OrderDetail, error) {
	if !input.Amount.IsPositive() {
		return model.OrderDetail{}, ErrInvalidPayment
	}
	if !input.Method.Valid() {
		return model.OrderDetail{}, ErrInvalidMethod
	}

	var res model.OrderDetail
	err := s.repo.Transact(ctx, func(ctx context.Context) error {
		order, err := s.repo.LockOrderForUpdate(ctx, orderID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		_, err = s.repo.CreatePayment(ctx, model.Payment{
			OrderID:   orderID,
			Amount:    round2(input.Amount),
			Method:    input.Method,
			Reference: nullString(input.Reference),
			Notes:     nullString(input.Notes),
		})
		if err != nil {
			return err
		}

		paid, err := s.repo.SumPayments(ctx, orderID)
		if err != nil {
			return err
		}

		status := DerivePaymentStatus(order.Total, paid)
		if status != order.PaymentStatus {
			err = s.repo.UpdatePaymentStatus(ctx, orderID, status)
			if err != nil {
				return err
			}
		}

		res, err = s.buildDetail(ctx, orderID)
		return err
	})
	return res, err
}

func (s service) GetOrder(ctx context.Context, id int64) (model.OrderDetail, error) {
	res, err := s.buildDetail(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.OrderDetail{}, ErrOrderNotFound
	}
	return res, err
}

func (s service) GetOrderByInvoice(ctx context.Context, invoiceNumber string) (model.OrderDetail, error) {
	order, err := s.repo.GetOrderByInvoice(ctx, invoiceNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return model.OrderDetail{}, ErrOrderNotFound
	}
	if err != nil {
		return model.OrderDetail{}, err
	}
	return s.buildDetail(ctx, order.ID)
}

func (s service) ListOrders(ctx context.Context) ([]model.Order, error) {
	return s.repo.ListOrders(ctx)
}

func (s service) buildDetail(ctx context.Context, orderID int64) (model.OrderDetail, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return model.OrderDetail{}, err
	}
	items, err := s.repo.ListOrderItems(ctx, orderID)
	if err != nil {
		return model.OrderDetail{}, err
	}
	payments, err := s.repo.ListPayments(ctx, orderID)
	if err != nil {
		return model.OrderDetail{}, err
	}
	paid, err := s.repo.SumPayments(ctx, orderID)
	if err != nil {
		return model.OrderDetail{}, err
	}
	return model.OrderDetail{
		Order:      order,
		Items:      items,
		Payments:   payments,
		AmountPaid: round2(paid),
		Balance:    round2(order.Total.Sub(paid)),
	}, nil
}

func (s service) CreateCustomer(ctx context.Context, input CustomerInput) (model.Customer, error) {
	id, err := s.repo.CreateCustomer(ctx, model.Customer{
		Name:    input.Name,
		Phone:   nullString(input.Phone),
		Email:   nullString(input.Email),
		Address: nullString(input.Address),
	})
	if err != nil {
		return model.Customer{}, err
	}
	return s.repo.GetCustomer(ctx, id)
}

func (s service) UpdateCustomer(ctx context.Context, id int64, input CustomerInput) (model.Customer, error) {
	var res model.Customer
	err := s.repo.Transact(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetCustomer(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCustomerNotFound
		}
		if err != nil {
			return err
		}

		current.Name = input.Name
		current.Phone = nullString(input.Phone)
		current.Email = nullString(input.Email)
		current.Address = nullString(input.Address)
		err = s.repo.UpdateCustomer(ctx, current)
		if err != nil {
			return err
		}

		res, err = s.repo.GetCustomer(ctx, id)
		return err
	})
	return res, err
}

func (s service) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

// RelayLowStockAlerts pushes pending outbox events to Kafka and marks them
// done, same as any transactional-outbox relay.
func (s service) RelayLowStockAlerts(ctx context.Context, limit int) error {
	outboxes, err := s.repo.GetPendingOutbox(ctx, limit)
	if err != nil {
		return err
	}
	if len(outboxes) == 0 {
		return nil
	}

	err = s.producer.Push(extractContents(outboxes))
	if err != nil {
		return err
	}

	return s.repo.MarkDoneOutboxes(ctx, extractIDs(outboxes))
}

func extractIDs(outboxes []model.Outbox) []int64 {
	var res []int64
	for _, outbox := range outboxes {
		res = append(res, outbox.ID)
	}
	return res
}

func extractContents(outboxes []model.Outbox) [][]byte {
	var res [][]byte
	for _, outbox := range outboxes {
		res = append(res, outbox.Content)
	}
	return res
}

// mergeSelections drops non-positive quantities, folds duplicate product
// rows together, and fixes the lock order.
func mergeSelections(items []LineSelection) []LineSelection {
	byProduct := make(map[int64]int)
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		byProduct[item.ProductID] += item.Quantity
	}

	res := make([]LineSelection, 0, len(byProduct))
	for id, qty := range byProduct {
		res = append(res, LineSelection{ProductID: id, Quantity: qty})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ProductID < res[j].ProductID })
	return res
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
