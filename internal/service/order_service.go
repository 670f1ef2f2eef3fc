package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/infra/producer"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shop/internal/pkg/util"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotExist     = errors.New("order is not exist")
	ErrProductNotExist   = errors.New("product not found")
	ErrUserNotExist      = errors.New("user not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidation        = errors.New("invalid request")
)

const (
	orderNumberPrefix = "ORD-"
	orderNumberLength = 8
)

// OrderLineRequest 提交的訂單項目
// ItemID為0表示新項目，否則對應訂單既有項目
type OrderLineRequest struct {
	ItemID    uint
	ProductID uint
	Quantity  int
}

type PlaceOrderRequest struct {
	UserID   *uint // 訪客訂單為nil
	Shipping model.Contact
	Billing  model.Contact
	Notes    string
	Items    []OrderLineRequest
}

type EditOrderRequest struct {
	Status      *model.OrderStatus
	Items       []OrderLineRequest
	UpdateItems bool // false表示本次不更動訂單項目
}

type IOrderService interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*model.Order, error)
	DirectCheckout(ctx context.Context, userID uint, productID uint, quantity int) (*model.Order, error)
	EditOrder(ctx context.Context, orderID uint, req EditOrderRequest) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID uint) (*model.Order, error)
	DeleteOrder(ctx context.Context, orderID uint) error
	GetOrder(ctx context.Context, orderID uint) (*model.Order, error)
	GetOrderByNumber(ctx context.Context, number string) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error)
	GetOrdersPaginated(ctx context.Context, page, pageSize int, status *model.OrderStatus) ([]model.Order, int64, error)
	GenerateOrderNumber(ctx context.Context) (string, error)
}

type OrderService struct {
	db          *db.DbDao
	orderRepo   db.IOrderRepository
	productRepo db.IProductRepository
	userRepo    db.IUserRepository
	events      producer.IOrderEventProducer // 可為nil，未啟用事件發佈
	logger      zerolog.Logger
}

var _ IOrderService = (*OrderService)(nil)

func NewOrderService(
	dao *db.DbDao,
	orderRepo db.IOrderRepository,
	productRepo db.IProductRepository,
	userRepo db.IUserRepository,
	events producer.IOrderEventProducer,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		db:          dao,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		events:      events,
		logger:      logger,
	}
}

// GenerateOrderNumber 產生唯一訂單編號
// 格式為ORD-後接8碼大寫英數，碰撞機率極低，但仍須查重，重複就換一組
func (o *OrderService) GenerateOrderNumber(ctx context.Context) (string, error) {
	for {
		number := orderNumberPrefix + util.RandomUpperAlnum(orderNumberLength)
		exists, err := o.orderRepo.IsOrderNumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
}

// PlaceOrder 建立訂單
// 所有項目在單一transaction內處理：鎖定商品、保留庫存、寫入項目、計算總金額
// 單一項目庫存不足會縮減到可滿足的數量，完全沒庫存的項目整行略過
// 所有項目都無法保留任何庫存時回傳ErrInsufficientStock，整筆rollback
func (o *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must have at least one item", ErrValidation)
	}
	if err := validateOrderLines(req.Items); err != nil {
		return nil, err
	}

	shipping, billing := req.Shipping, req.Billing
	if req.UserID != nil {
		user, err := o.userRepo.GetUserByID(ctx, *req.UserID)
		if err != nil {
			if errors.Is(err, db.ErrUserNotFound) {
				return nil, ErrUserNotExist
			}
			return nil, err
		}
		// 會員訂單未提供聯絡資訊時，從用戶資料建立快照
		if shipping == (model.Contact{}) {
			shipping = user.ContactSnapshot()
		}
	} else if shipping.Name == "" || shipping.Email == "" {
		return nil, fmt.Errorf("%w: guest checkout requires contact name and email", ErrValidation)
	}
	if billing == (model.Contact{}) {
		billing = shipping
	}

	number, err := o.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		OrderNumber: number,
		UserID:      req.UserID,
		Status:      model.OrderStatusPending,
		TotalAmount: decimal.NewFromInt(0),
		Notes:       req.Notes,
		OrderDate:   time.Now(),
		Shipping:    shipping,
		Billing:     billing,
	}

	err = o.db.ExecTx(ctx, func(tx *gorm.DB) error {
		if err := o.orderRepo.CreateOrderTx(tx, order); err != nil {
			return err
		}

		products, err := o.lockProducts(tx, lineProductIDs(req.Items))
		if err != nil {
			return err
		}

		created := 0
		for _, line := range req.Items {
			p, ok := products[line.ProductID]
			if !ok {
				continue // 商品不存在，整行略過
			}
			qty := line.Quantity
			if int(p.Stock) < qty {
				qty = int(p.Stock)
			}
			if qty <= 0 {
				continue // 無庫存，整行略過
			}
			if err := o.productRepo.AdjustStockTx(tx, p, -qty); err != nil {
				return err
			}
			item := model.OrderItem{
				OrderID:     order.OrderID,
				ProductID:   p.ProductID,
				ProductName: p.Name,
				Quantity:    qty,
				Price:       p.CurrentPrice(),
			}
			item.Subtotal = item.CalculateSubtotal()
			if err := o.orderRepo.CreateOrderItemTx(tx, &item); err != nil {
				return err
			}
			created++
		}

		if created == 0 {
			return ErrInsufficientStock
		}

		return o.refreshOrderTotalTx(tx, order)
	})
	if err != nil {
		return nil, err
	}

	o.publishEvent(ctx, producer.OrderEventCreated, order)
	return order, nil
}

// DirectCheckout 商店前台單一商品下單
// 與後台編輯不同，入口處庫存不足直接拒絕，不做縮減
func (o *OrderService) DirectCheckout(ctx context.Context, userID uint, productID uint, quantity int) (*model.Order, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	user, err := o.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, ErrUserNotExist
		}
		return nil, err
	}

	number, err := o.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	contact := user.ContactSnapshot()
	order := &model.Order{
		OrderNumber: number,
		UserID:      &userID,
		Status:      model.OrderStatusPending,
		TotalAmount: decimal.NewFromInt(0),
		OrderDate:   time.Now(),
		Shipping:    contact,
		Billing:     contact,
	}

	err = o.db.ExecTx(ctx, func(tx *gorm.DB) error {
		p, err := o.productRepo.LockProductForUpdateTx(tx, productID)
		if err != nil {
			if errors.Is(err, db.ErrProductNotFound) {
				return ErrProductNotExist
			}
			return err
		}

		if int(p.Stock) < quantity {
			return ErrInsufficientStock
		}

		if err := o.productRepo.AdjustStockTx(tx, p, -quantity); err != nil {
			return err
		}

		if err := o.orderRepo.CreateOrderTx(tx, order); err != nil {
			return err
		}

		item := model.OrderItem{
			OrderID:     order.OrderID,
			ProductID:   p.ProductID,
			ProductName: p.Name,
			Quantity:    quantity,
			Price:       p.CurrentPrice(),
		}
		item.Subtotal = item.CalculateSubtotal()
		if err := o.orderRepo.CreateOrderItemTx(tx, &item); err != nil {
			return err
		}

		return o.refreshOrderTotalTx(tx, order)
	})
	if err != nil {
		return nil, err
	}

	o.publishEvent(ctx, producer.OrderEventCreated, order)
	return order, nil
}

// EditOrder 編輯訂單狀態與項目
// 狀態轉為cancelled時釋放所有項目庫存並跳過項目處理（項目保留，只釋放庫存保留）
// 已取消且維持取消的訂單對庫存不可變，忽略任何提交的項目異動
func (o *OrderService) EditOrder(ctx context.Context, orderID uint, req EditOrderRequest) (*model.Order, error) {
	if req.Status != nil && !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, *req.Status)
	}
	if req.UpdateItems {
		if err := validateOrderLines(req.Items); err != nil {
			return nil, err
		}
	}

	var order *model.Order
	var cancelling, unchanged bool
	err := o.db.ExecTx(ctx, func(tx *gorm.DB) error {
		var err error
		order, err = o.orderRepo.GetOrderByIDTx(tx, orderID)
		if err != nil {
			if errors.Is(err, db.ErrOrderNotFound) {
				return ErrOrderNotExist
			}
			return err
		}

		if req.Status != nil && !order.CanTransitionTo(*req.Status) {
			return ErrInvalidTransition
		}

		cancelling = req.Status != nil &&
			*req.Status == model.OrderStatusCancelled &&
			order.Status != model.OrderStatusCancelled
		staysCancelled := order.Status == model.OrderStatusCancelled &&
			(req.Status == nil || *req.Status == model.OrderStatusCancelled)
		unchanged = staysCancelled

		switch {
		case cancelling:
			if err := o.restoreAllItemStockTx(tx, order); err != nil {
				return err
			}
			order.Status = model.OrderStatusCancelled
			return o.orderRepo.UpdateOrderTx(tx, order)
		case staysCancelled:
			return nil
		default:
			if req.Status != nil {
				order.Status = *req.Status
			}
			if req.UpdateItems {
				if err := o.reconcileOrderItems(tx, order, req.Items); err != nil {
					return err
				}
			}
			return o.refreshOrderTotalTx(tx, order)
		}
	})
	if err != nil {
		return nil, err
	}

	switch {
	case cancelling:
		o.publishEvent(ctx, producer.OrderEventCancelled, order)
	case unchanged:
		// 什麼都沒變就不發事件
	default:
		o.publishEvent(ctx, producer.OrderEventUpdated, order)
	}
	return order, nil
}

// CancelOrder 取消訂單
// 只有待處理與處理中的訂單可以取消，取消時釋放所有項目庫存
// 已取消的訂單再次取消回傳ErrInvalidTransition，庫存不會重複加回
func (o *OrderService) CancelOrder(ctx context.Context, orderID uint) (*model.Order, error) {
	var order *model.Order
	err := o.db.ExecTx(ctx, func(tx *gorm.DB) error {
		var err error
		order, err = o.orderRepo.GetOrderByIDTx(tx, orderID)
		if err != nil {
			if errors.Is(err, db.ErrOrderNotFound) {
				return ErrOrderNotExist
			}
			return err
		}

		if !order.CanBeCancelled() {
			return ErrInvalidTransition
		}

		if err := o.restoreAllItemStockTx(tx, order); err != nil {
			return err
		}

		order.Status = model.OrderStatusCancelled
		return o.orderRepo.UpdateOrderTx(tx, order)
	})
	if err != nil {
		return nil, err
	}

	o.publishEvent(ctx, producer.OrderEventCancelled, order)
	return order, nil
}

// DeleteOrder 硬刪除訂單與其所有項目
// 刪除前把庫存加回，已取消的訂單在取消時已釋放過庫存，不可重複加回
func (o *OrderService) DeleteOrder(ctx context.Context, orderID uint) error {
	var deleted *model.Order
	err := o.db.ExecTx(ctx, func(tx *gorm.DB) error {
		order, err := o.orderRepo.GetOrderByIDTx(tx, orderID)
		if err != nil {
			if errors.Is(err, db.ErrOrderNotFound) {
				return ErrOrderNotExist
			}
			return err
		}

		if order.Status != model.OrderStatusCancelled {
			if err := o.restoreAllItemStockTx(tx, order); err != nil {
				return err
			}
		}

		deleted = order
		return o.orderRepo.HardDeleteOrderTx(tx, order.OrderID)
	})
	if err != nil {
		return err
	}

	o.publishEvent(ctx, producer.OrderEventDeleted, deleted)
	return nil
}

func (o *OrderService) GetOrder(ctx context.Context, orderID uint) (*model.Order, error) {
	order, err := o.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			return nil, ErrOrderNotExist
		}
		return nil, err
	}
	return order, nil
}

func (o *OrderService) GetOrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	order, err := o.orderRepo.GetOrderByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			return nil, ErrOrderNotExist
		}
		return nil, err
	}
	return order, nil
}

func (o *OrderService) GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	return o.orderRepo.GetOrdersByUserID(ctx, userID)
}

func (o *OrderService) GetOrdersPaginated(ctx context.Context, page, pageSize int, status *model.OrderStatus) ([]model.Order, int64, error) {
	if status != nil {
		return o.orderRepo.GetOrdersPaginatedWithCondition(ctx, page, pageSize, map[string]interface{}{
			"status": string(*status),
		})
	}
	return o.orderRepo.GetOrdersPaginated(ctx, page, pageSize)
}

// reconcileOrderItems 核心演算法
// 將提交的項目清單與訂單現有項目做差異比對，套用最小正確的庫存增減：
//  1. 先把涉及的商品依id升冪鎖定，避免並發reconcile間的死鎖
//  2. 提交行分為matched（帶既有項目id）與new，未被matched的既有項目視為removed
//  3. removed：庫存加回、刪除項目
//  4. matched且換商品：舊商品庫存加回，新商品保留min(需求, 庫存)，
//     無庫存整行比照removed；價格一律重讀商品當前售價
//  5. matched同商品改數量：增量保留min(增量, 庫存)，無庫存維持原數量；
//     減量無條件加回；商品已不存在整行比照removed；
//     單價沿用原項目，不重新讀價
//  6. new：保留min(需求, 庫存)，無庫存默默略過；價格取商品當前售價
//
// 任何硬錯誤會讓整個tx rollback，不會留下部分庫存異動
func (o *OrderService) reconcileOrderItems(tx *gorm.DB, order *model.Order, lines []OrderLineRequest) error {
	ids := make([]uint, 0, len(order.OrderItems)+len(lines))
	for _, item := range order.OrderItems {
		ids = append(ids, item.ProductID)
	}
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	products, err := o.lockProducts(tx, ids)
	if err != nil {
		return err
	}

	existing := make(map[uint]*model.OrderItem, len(order.OrderItems))
	for i := range order.OrderItems {
		existing[order.OrderItems[i].OrderItemID] = &order.OrderItems[i]
	}
	handled := make(map[uint]bool, len(existing))

	for _, line := range lines {
		item := existing[line.ItemID] // ItemID為0或查無對應項目時視為新項目
		if item == nil {
			if err := o.applyNewLine(tx, order, products, line); err != nil {
				return err
			}
			continue
		}

		handled[item.OrderItemID] = true

		if item.ProductID != line.ProductID {
			if err := o.applyProductSwap(tx, products, item, line); err != nil {
				return err
			}
			continue
		}

		if err := o.applyQuantityChange(tx, products, item, line.Quantity); err != nil {
			return err
		}
	}

	// removed：未出現在提交清單中的既有項目，庫存加回後刪除
	for _, item := range order.OrderItems {
		if handled[item.OrderItemID] {
			continue
		}
		if p, ok := products[item.ProductID]; ok {
			if err := o.productRepo.AdjustStockTx(tx, p, item.Quantity); err != nil {
				return err
			}
		}
		if err := o.orderRepo.DeleteOrderItemTx(tx, item.OrderItemID); err != nil {
			return err
		}
	}

	return nil
}

// applyProductSwap 既有項目換商品
func (o *OrderService) applyProductSwap(tx *gorm.DB, products map[uint]*model.Product, item *model.OrderItem, line OrderLineRequest) error {
	// 舊商品庫存先加回
	if oldProduct, ok := products[item.ProductID]; ok {
		if err := o.productRepo.AdjustStockTx(tx, oldProduct, item.Quantity); err != nil {
			return err
		}
	}

	newProduct, ok := products[line.ProductID]
	if !ok {
		// 新商品不存在，整行比照removed處理
		return o.orderRepo.DeleteOrderItemTx(tx, item.OrderItemID)
	}

	qty := line.Quantity
	if int(newProduct.Stock) < qty {
		qty = int(newProduct.Stock)
	}
	if qty <= 0 {
		// 新商品無庫存，整行比照removed處理
		return o.orderRepo.DeleteOrderItemTx(tx, item.OrderItemID)
	}

	if err := o.productRepo.AdjustStockTx(tx, newProduct, -qty); err != nil {
		return err
	}

	// 價格一律重新讀取商品當前售價，不信任呼叫端傳入的價格
	item.ProductID = newProduct.ProductID
	item.ProductName = newProduct.Name
	item.Quantity = qty
	item.Price = newProduct.CurrentPrice()
	item.Subtotal = item.CalculateSubtotal()
	return o.orderRepo.UpdateOrderItemTx(tx, item)
}

// applyQuantityChange 既有項目同商品改數量
func (o *OrderService) applyQuantityChange(tx *gorm.DB, products map[uint]*model.Product, item *model.OrderItem, newQuantity int) error {
	p, ok := products[item.ProductID]
	if !ok {
		// 商品已不存在，無庫存可還，整行比照removed處理
		return o.orderRepo.DeleteOrderItemTx(tx, item.OrderItemID)
	}

	diff := newQuantity - item.Quantity
	if diff > 0 {
		add := diff
		if int(p.Stock) < add {
			add = int(p.Stock)
		}
		if add <= 0 {
			// 無庫存可加，維持原數量
			return nil
		}
		if err := o.productRepo.AdjustStockTx(tx, p, -add); err != nil {
			return err
		}
		newQuantity = item.Quantity + add
	} else if diff < 0 {
		// 減量一定成功，庫存無條件加回
		if err := o.productRepo.AdjustStockTx(tx, p, -diff); err != nil {
			return err
		}
	}

	// 僅改數量沿用原單價，不可默默重新訂價
	item.Quantity = newQuantity
	item.Subtotal = item.CalculateSubtotal()
	return o.orderRepo.UpdateOrderItemTx(tx, item)
}

// applyNewLine 新項目
func (o *OrderService) applyNewLine(tx *gorm.DB, order *model.Order, products map[uint]*model.Product, line OrderLineRequest) error {
	p, ok := products[line.ProductID]
	if !ok {
		return nil // 商品不存在，整行略過
	}

	qty := line.Quantity
	if int(p.Stock) < qty {
		qty = int(p.Stock)
	}
	if qty <= 0 {
		return nil // 無庫存，整行默默略過
	}

	if err := o.productRepo.AdjustStockTx(tx, p, -qty); err != nil {
		return err
	}

	item := model.OrderItem{
		OrderID:     order.OrderID,
		ProductID:   p.ProductID,
		ProductName: p.Name,
		Quantity:    qty,
		Price:       p.CurrentPrice(),
	}
	item.Subtotal = item.CalculateSubtotal()
	return o.orderRepo.CreateOrderItemTx(tx, &item)
}

// restoreAllItemStockTx 釋放訂單所有項目的庫存保留
// 取消與刪除共用，呼叫端負責保證不會對同一訂單重複釋放
func (o *OrderService) restoreAllItemStockTx(tx *gorm.DB, order *model.Order) error {
	ids := make([]uint, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		ids = append(ids, item.ProductID)
	}

	products, err := o.lockProducts(tx, ids)
	if err != nil {
		return err
	}

	for _, item := range order.OrderItems {
		p, ok := products[item.ProductID]
		if !ok {
			continue // 商品已被刪除，無庫存可還
		}
		if err := o.productRepo.AdjustStockTx(tx, p, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// refreshOrderTotalTx 由db內當前項目集合重算訂單總金額
// 不可使用記憶體內可能過期的項目快取
func (o *OrderService) refreshOrderTotalTx(tx *gorm.DB, order *model.Order) error {
	items, err := o.orderRepo.GetOrderItemsTx(tx, order.OrderID)
	if err != nil {
		return err
	}
	order.OrderItems = items
	order.TotalAmount = order.CalculateTotalAmount()
	return o.orderRepo.UpdateOrderTx(tx, order)
}

// lockProducts 依商品id升冪逐一取得row lock
// 固定的鎖定順序讓並發reconcile不會形成循環等待
// 不存在的商品不會出現在回傳的map中，由呼叫端決定略過或報錯
func (o *OrderService) lockProducts(tx *gorm.DB, ids []uint) (map[uint]*model.Product, error) {
	sorted := uniqueSortedIDs(ids)
	products := make(map[uint]*model.Product, len(sorted))
	for _, id := range sorted {
		p, err := o.productRepo.LockProductForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, db.ErrProductNotFound) {
				continue
			}
			return nil, err
		}
		products[id] = p
	}
	return products, nil
}

func (o *OrderService) publishEvent(ctx context.Context, eventType producer.OrderEventType, order *model.Order) {
	if o.events == nil {
		return
	}
	err := o.events.PublishOrderEvent(ctx, producer.OrderEvent{
		EventType:   eventType,
		OrderID:     order.OrderID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now(),
	})
	if err != nil {
		// 事件發佈失敗不影響已提交的訂單
		o.logger.Error().Err(err).
			Str("order_number", order.OrderNumber).
			Str("event_type", string(eventType)).
			Msg("publish order event failed")
	}
}

func validateOrderLines(lines []OrderLineRequest) error {
	for _, line := range lines {
		if line.ProductID == 0 {
			return fmt.Errorf("%w: product id is required", ErrValidation)
		}
		if line.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}
	}
	return nil
}

func lineProductIDs(lines []OrderLineRequest) []uint {
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}

func uniqueSortedIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	sorted := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}
