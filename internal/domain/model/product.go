package model

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ProductID   uint             `gorm:"primaryKey" json:"product_id"`
	Name        string           `gorm:"not null;type:varchar(100)" json:"name"`
	Slug        string           `gorm:"not null;type:varchar(120);unique" json:"slug"`
	Description string           `gorm:"type:text" json:"description"`
	Price       decimal.Decimal  `gorm:"not null;type:decimal(10,2)" json:"price"`
	SalePrice   *decimal.Decimal `gorm:"type:decimal(10,2)" json:"sale_price,omitempty"`
	Stock       uint             `gorm:"not null;type:int" json:"stock"`
	Sku         string           `gorm:"type:varchar(50)" json:"sku"`
	IsActive    bool             `gorm:"not null;default:true" json:"is_active"`
	IsFeatured  bool             `gorm:"not null;default:false" json:"is_featured"`
	OrderItems  []OrderItem      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"` // 一對多，級聯刪除
	BaseModel
}

// IsOnSale 是否有生效中的特價
func (p *Product) IsOnSale() bool {
	return p.SalePrice != nil && p.SalePrice.LessThan(p.Price)
}

// CurrentPrice 取得當前售價
// 特價有設定且低於原價時使用特價，否則使用原價
// 每次讀取都重新計算，OrderItem只保存下單當下的快照
func (p *Product) CurrentPrice() decimal.Decimal {
	if p.IsOnSale() {
		return *p.SalePrice
	}
	return p.Price
}

func (p *Product) IsInStock() bool {
	return p.Stock > 0
}
