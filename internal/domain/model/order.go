package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // 待處理
	OrderStatusProcessing OrderStatus = "processing" // 處理中
	OrderStatusCompleted  OrderStatus = "completed"  // 已完成
	OrderStatusDeclined   OrderStatus = "declined"   // 已拒絕
	OrderStatusCancelled  OrderStatus = "cancelled"  // 已取消
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted,
		OrderStatusDeclined, OrderStatusCancelled:
		return true
	}
	return false
}

// Contact 收件/帳單聯絡資訊快照
// 建立訂單時從用戶資料複製，之後不再跟隨用戶資料變動
type Contact struct {
	Name    string `gorm:"type:varchar(100)" json:"name"`
	Email   string `gorm:"type:varchar(100)" json:"email"`
	Phone   string `gorm:"type:varchar(50)" json:"phone"`
	Address string `gorm:"type:varchar(255)" json:"address"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	State   string `gorm:"type:varchar(100)" json:"state"`
	Zip     string `gorm:"type:varchar(20)" json:"zip"`
	Country string `gorm:"type:varchar(100)" json:"country"`
}

type Order struct {
	OrderID     uint            `gorm:"primaryKey" json:"order_id"`
	OrderNumber string          `gorm:"not null;type:varchar(20);unique" json:"order_number"`
	UserID      *uint           `gorm:"index" json:"user_id,omitempty"` // 外鍵，關聯到 User，訪客訂單為 null
	Status      OrderStatus     `gorm:"not null;type:varchar(20);default:'pending'" json:"status"`
	TotalAmount decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"total_amount"`
	Notes       string          `gorm:"type:text" json:"notes"`
	OrderDate   time.Time       `gorm:"not null" json:"order_date"`
	Shipping    Contact         `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`
	Billing     Contact         `gorm:"embedded;embeddedPrefix:billing_" json:"billing"`
	OrderItems  []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"` // 一對多，級聯刪除
	BaseModel
}

// CanBeCancelled 訂單是否可被取消
// 只有待處理與處理中的訂單可以取消
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

// CanTransitionTo 狀態轉移檢查
// 只有轉移到cancelled受限制，其餘合法狀態間轉移不設限
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	if !next.IsValid() {
		return false
	}
	if next == OrderStatusCancelled && o.Status != OrderStatusCancelled {
		return o.CanBeCancelled()
	}
	return true
}

// ItemsCount 訂單商品總數量
func (o *Order) ItemsCount() int {
	count := 0
	for _, item := range o.OrderItems {
		count += item.Quantity
	}
	return count
}

// CalculateTotalAmount 由當前訂單項目計算訂單總金額
// 必須以當前項目集合計算，不可使用過期的快取
func (o *Order) CalculateTotalAmount() decimal.Decimal {
	total := decimal.NewFromInt(0)
	for _, item := range o.OrderItems {
		total = total.Add(item.Subtotal)
	}
	return total
}

type OrderItem struct {
	OrderItemID uint            `gorm:"primaryKey" json:"order_item_id"`
	OrderID     uint            `gorm:"not null;index" json:"order_id"`   // 外鍵，關聯到 Order
	ProductID   uint            `gorm:"not null;index" json:"product_id"` // 外鍵，關聯到 Product
	ProductName string          `gorm:"not null;type:varchar(100)" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	Subtotal    decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"subtotal"`
	BaseModel
}

// CalculateSubtotal 小計 = 單價 × 數量
// 單價或數量變動後必須重算
func (i *OrderItem) CalculateSubtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
