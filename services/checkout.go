package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kariqs/freezy-bites-api/models"
)

// LineRequest asks for Quantity units of a product named by id or by SKU.
type LineRequest struct {
	ProductID uint   `json:"productId" binding:"required_without=SKU"`
	SKU       string `json:"sku" binding:"required_without=ProductID,omitempty,sku"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

func (l LineRequest) label() string {
	if l.ProductID != 0 {
		return fmt.Sprintf("#%d", l.ProductID)
	}
	return l.SKU
}

// PlaceOrderInput carries exactly one of: CustomerID (checkout of that customer's
// server cart) or Items plus Guest.
type PlaceOrderInput struct {
	CustomerID    *uint
	Items         []LineRequest
	Guest         *GuestContact
	PaymentMethod models.PaymentMethod
	Notes         string
}

type PlaceOrderResult struct {
	Order      models.Order
	CustomerID uint
	// Guest is set for guest checkouts and tells whether the customer row was created or updated.
	Guest *GuestResolution
}

type pricedLine struct {
	product  models.Product
	quantity int
}

func (in *PlaceOrderInput) validate() error {
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentMethodCashOnDelivery
	}
	if in.PaymentMethod != models.PaymentMethodCashOnDelivery && in.PaymentMethod != models.PaymentMethodCard {
		return Validationf("unsupported payment method %q", in.PaymentMethod)
	}

	if in.CustomerID != nil {
		if in.Guest != nil || len(in.Items) > 0 {
			return Validationf("signed-in checkout uses the saved cart; items and guest details must not be sent")
		}
		return nil
	}

	if in.Guest == nil {
		if len(in.Items) == 0 {
			return Validationf("sign in or provide the items and guest contact details")
		}
		return Validationf("guest contact details are required")
	}
	contact := in.Guest.normalized()
	if err := contact.validate(); err != nil {
		return err
	}
	in.Guest = &contact

	if len(in.Items) == 0 {
		return Validationf("no items to order")
	}
	return validateLines(in.Items)
}

func validateLines(lines []LineRequest) error {
	for i, l := range lines {
		if l.ProductID == 0 && strings.TrimSpace(l.SKU) == "" {
			return Validationf("line %d does not reference a product", i+1)
		}
		if l.Quantity <= 0 {
			return Validationf("quantity for %s must be a positive integer", l.label())
		}
	}
	return nil
}

// PlaceOrder turns a cart into an order in a single transaction: it prices every line
// from the current product rows, checks stock, upserts the guest customer, writes the
// order with its items, decrements stock and clears the server cart. Nothing is written
// when any step fails.
func PlaceOrder(db *gorm.DB, in PlaceOrderInput) (*PlaceOrderResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var result *PlaceOrderResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var customer *models.Customer
		lines := in.Items
		if in.CustomerID != nil {
			var err error
			customer, lines, err = loadServerCart(tx, *in.CustomerID)
			if err != nil {
				return err
			}
		}

		priced, err := priceLines(tx, lines)
		if err != nil {
			return err
		}
		total := decimal.Zero
		for _, l := range priced {
			total = total.Add(l.product.Price.Mul(decimal.NewFromInt(int64(l.quantity))))
		}

		res := &PlaceOrderResult{}
		order := models.Order{
			OrderRef:      NewOrderRef(time.Now()),
			Notes:         strings.TrimSpace(in.Notes),
			Status:        models.OrderStatusPending,
			TotalAmount:   total,
			PaymentMethod: in.PaymentMethod,
			PaymentStatus: models.PaymentStatusPending,
		}

		if customer != nil {
			if err := bumpCustomer(tx, customer.ID, GuestContact{}, total); err != nil {
				return err
			}
			res.CustomerID = customer.ID
			order.Email, order.ContactName = customer.Email, customer.Name
			order.Phone, order.DeliveryAddress = customer.Phone, customer.Address
		} else {
			guest, err := upsertGuest(tx, *in.Guest, total)
			if err != nil {
				return err
			}
			res.CustomerID = guest.CustomerID
			res.Guest = &guest
			order.Email, order.ContactName = guest.Email, guest.Name
			order.Phone, order.DeliveryAddress = guest.Phone, guest.Address
		}
		order.CustomerID = &res.CustomerID

		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return Internal(err)
		}

		items := make([]models.OrderItem, 0, len(priced))
		for _, l := range priced {
			items = append(items, models.OrderItem{
				OrderID:         order.ID,
				ProductID:       l.product.ID,
				ProductName:     l.product.Name,
				SKU:             l.product.SKU,
				Quantity:        l.quantity,
				PriceAtPurchase: l.product.Price,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return Internal(err)
		}
		order.Items = items

		if err := decrementStock(tx, priced); err != nil {
			return err
		}

		if customer != nil {
			if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.CartItem{}).Error; err != nil {
				return Internal(err)
			}
		}

		res.Order = order
		result = res
		return nil
	})
	if err != nil {
		return nil, Internal(err)
	}
	return result, nil
}

// NewOrderRef builds a human-sortable unique order reference.
func NewOrderRef(t time.Time) string {
	return t.UTC().Format("20060102150405") + "-" + uuid.NewString()
}

func loadServerCart(tx *gorm.DB, customerID uint) (*models.Customer, []LineRequest, error) {
	var customer models.Customer
	if err := tx.First(&customer, customerID).Error; err != nil {
		return nil, nil, dbError(err, "customer not found")
	}
	if customer.Status != models.CustomerStatusActive {
		return nil, nil, Authf("customer account is %s", customer.Status)
	}

	var rows []models.CartItem
	if err := tx.Where("customer_id = ?", customerID).Order("id").Find(&rows).Error; err != nil {
		return nil, nil, Internal(err)
	}
	if len(rows) == 0 {
		return nil, nil, Validationf("cart is empty")
	}

	lines := make([]LineRequest, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, LineRequest{ProductID: r.ProductID, Quantity: r.Quantity})
	}
	return &customer, lines, validateLines(lines)
}

// priceLines reads every referenced product in one query, merges lines that name the
// same product and checks stock for all of them before anything is written.
func priceLines(tx *gorm.DB, lines []LineRequest) ([]pricedLine, error) {
	var ids []uint
	var skus []string
	for _, l := range lines {
		if l.ProductID != 0 {
			ids = append(ids, l.ProductID)
		} else {
			skus = append(skus, strings.TrimSpace(l.SKU))
		}
	}

	q := tx.Where("status <> ?", models.ProductStatusDeleted)
	if supportsRowLocks(tx) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	switch {
	case len(ids) > 0 && len(skus) > 0:
		q = q.Where("(id IN ? OR sku IN ?)", ids, skus)
	case len(ids) > 0:
		q = q.Where("id IN ?", ids)
	default:
		q = q.Where("sku IN ?", skus)
	}

	var products []models.Product
	if err := q.Order("id").Find(&products).Error; err != nil {
		return nil, Internal(err)
	}
	byID := make(map[uint]models.Product, len(products))
	bySKU := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
		bySKU[p.SKU] = p
	}

	var missing []string
	var priced []pricedLine
	index := map[uint]int{}
	for _, l := range lines {
		var (
			p  models.Product
			ok bool
		)
		if l.ProductID != 0 {
			p, ok = byID[l.ProductID]
		} else {
			p, ok = bySKU[strings.TrimSpace(l.SKU)]
		}
		if !ok {
			missing = append(missing, l.label())
			continue
		}
		if i, seen := index[p.ID]; seen {
			priced[i].quantity += l.Quantity
			continue
		}
		index[p.ID] = len(priced)
		priced = append(priced, pricedLine{product: p, quantity: l.Quantity})
	}
	if len(missing) > 0 {
		return nil, NotFoundf("product not found: %s", strings.Join(missing, ", "))
	}

	var short []string
	for _, l := range priced {
		if l.product.Stock < l.quantity {
			short = append(short, fmt.Sprintf("%s (%s): requested %d, available %d",
				l.product.Name, l.product.SKU, l.quantity, l.product.Stock))
		}
	}
	if len(short) > 0 {
		return nil, Conflictf("insufficient stock for %s", strings.Join(short, "; "))
	}
	return priced, nil
}

// decrementStock subtracts relative to the stored value and only while enough stock
// remains, so a concurrent checkout can never drive stock below zero.
func decrementStock(tx *gorm.DB, lines []pricedLine) error {
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", l.product.ID, l.quantity).
			Update("stock", gorm.Expr("stock - ?", l.quantity))
		if res.Error != nil {
			return Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			var available int
			if err := tx.Model(&models.Product{}).Select("stock").Where("id = ?", l.product.ID).Scan(&available).Error; err != nil {
				return Internal(err)
			}
			return Conflictf("insufficient stock for %s (%s): requested %d, available %d",
				l.product.Name, l.product.SKU, l.quantity, available)
		}
		ids = append(ids, l.product.ID)
	}

	err := tx.Model(&models.Product{}).
		Where("id IN ? AND stock = 0 AND status = ?", ids, models.ProductStatusActive).
		Update("status", models.ProductStatusOutOfStock).Error
	return Internal(err)
}

// upsertGuest records the guest against the customer row for its email. Guest checkout
// is refused for an email whose account is blocked or inactive, as it is when signed in.
func upsertGuest(tx *gorm.DB, contact GuestContact, total decimal.Decimal) (GuestResolution, error) {
	var existing *models.Customer
	res, err := ResolveGuest(contact, total, func(email string) (*models.Customer, error) {
		var c models.Customer
		err := tx.Where("email = ?", email).Take(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		existing = &c
		return &c, nil
	})
	if err != nil {
		return res, err
	}
	if existing != nil && existing.Status != models.CustomerStatusActive {
		return res, Authf("customer account is %s", existing.Status)
	}

	if res.Intent == GuestUpdate {
		return res, bumpCustomer(tx, res.CustomerID, contact, total)
	}

	// Another checkout may insert the same email between the lookup and here; the
	// unique index turns that into an update of the row it created.
	customer := models.Customer{
		Email:       res.Email,
		Name:        res.Name,
		Phone:       res.Phone,
		Address:     res.Address,
		TotalOrders: 1,
		TotalSpent:  total,
		Status:      models.CustomerStatusActive,
	}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(customerIncrements(contact, total)),
	}).Create(&customer).Error
	if err != nil {
		return res, Internal(err)
	}

	var stored models.Customer
	if err := tx.Where("email = ?", res.Email).Take(&stored).Error; err != nil {
		return res, Internal(err)
	}
	if stored.Status != models.CustomerStatusActive {
		return res, Authf("customer account is %s", stored.Status)
	}
	res.CustomerID = stored.ID
	if stored.TotalOrders > 1 {
		res.Intent = GuestUpdate
		res.Name, res.Phone, res.Address = stored.Name, stored.Phone, stored.Address
		res.TotalOrders, res.TotalSpent = stored.TotalOrders, stored.TotalSpent
	}
	return res, nil
}

func bumpCustomer(tx *gorm.DB, customerID uint, contact GuestContact, total decimal.Decimal) error {
	res := tx.Model(&models.Customer{}).Where("id = ?", customerID).Updates(customerIncrements(contact, total))
	if res.Error != nil {
		return Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFoundf("customer not found")
	}
	return nil
}

// customerIncrements adds one order and total to the running aggregates and copies the
// non-empty contact fields.
func customerIncrements(contact GuestContact, total decimal.Decimal) map[string]any {
	contact = contact.normalized()
	set := map[string]any{
		"total_orders": gorm.Expr("total_orders + ?", 1),
		"total_spent":  gorm.Expr("total_spent + CAST(? AS DECIMAL(14,2))", total.StringFixed(2)),
		"updated_at":   time.Now(),
	}
	if contact.Name != "" {
		set["name"] = contact.Name
	}
	if contact.Phone != "" {
		set["phone"] = contact.Phone
	}
	if contact.Address != "" {
		set["address"] = contact.Address
	}
	return set
}

func supportsRowLocks(tx *gorm.DB) bool {
	return tx.Dialector.Name() != "sqlite"
}
